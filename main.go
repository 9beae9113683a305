// Command skyviz is an interactive console for the image alignment
// engine: load synthetic datasets, switch link types, manage
// orientation layers and inspect cursor readouts.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"skyviz/internal/annotate"
	"skyviz/internal/app"
	"skyviz/internal/config"
	"skyviz/internal/dataset"
	"skyviz/internal/version"
	"skyviz/pkg/wcs"
)

func main() {
	configPath := flag.String("config", "configs/default.yaml", "configuration file")
	sessionPath := flag.String("session", "", "session file to restore")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("skyviz %s (commit %s, built %s)\n", version.Version, version.GitCommit, version.BuildTime)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	a := app.New(cfg, nil)

	watcher := config.NewWatcher(*configPath, 2*time.Second, nil)
	watcher.OnReload(func(next *config.Config) {
		*cfg = *next
	})
	watcher.Start()
	defer watcher.Stop()

	if *sessionPath != "" {
		if err := a.LoadSession(*sessionPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	repl(a, cfg)
}

func repl(a *app.App, cfg *config.Config) {
	sc := bufio.NewScanner(os.Stdin)
	fmt.Println("skyviz console; type 'help' for commands")
	for {
		fmt.Print("> ")
		if !sc.Scan() {
			return
		}
		args := strings.Fields(sc.Text())
		if len(args) == 0 {
			continue
		}
		if args[0] == "quit" || args[0] == "exit" {
			return
		}
		if err := run(a, cfg, args); err != nil {
			fmt.Println("error:", err)
		}
	}
}

func run(a *app.App, cfg *config.Config, args []string) error {
	switch args[0] {
	case "help":
		fmt.Print(`commands:
  demo                       load two synthetic linked datasets
  list                       list datasets and their labels
  link <pixels|wcs>          relink all data under a scheme
  linktype <a> [b]           report how datasets are related
  ref <viewer> <label>       set a viewer's reference dataset
  orient <angle> <l|r>       add a rotated orientation layer
  northup <l|r>              add a north-up orientation layer
  rmorient <label>           remove an orientation layer
  readout <viewer> <x> <y>   print the cursor readout
  mark <viewer> <x> <y>      place a marker at the cursor
  clearmarks                 remove all markers
  blink <viewer>             show the next layer exclusively
  zoom <viewer> <label>      print the zoom box in a layer's pixels
  subset <label> <parent> <cx> <cy> <r>  add a circular subset
  save <path> / load <path>  session persistence
`)
		return nil

	case "demo":
		return loadDemo(a)

	case "list":
		for _, d := range a.Collection.All() {
			fmt.Printf("%-28s %s wcs=%v\n", d.Label, d.Kind, d.HasValidWCS())
		}
		return nil

	case "link":
		if len(args) != 2 {
			return fmt.Errorf("usage: link <pixels|wcs>")
		}
		return a.LinkData(args[1], cfg.Linking.WCSFallbackScheme, cfg.Linking.UseAffine, cfg.Linking.ErrorOnFail)

	case "linktype":
		t, err := a.GetLinkType(args[1:]...)
		if err != nil {
			return err
		}
		fmt.Println(t)
		return nil

	case "ref":
		if len(args) != 3 {
			return fmt.Errorf("usage: ref <viewer> <label>")
		}
		return a.Orient.SetViewerReference(args[1], args[2])

	case "orient":
		if len(args) != 3 {
			return fmt.Errorf("usage: orient <angle> <l|r>")
		}
		angle, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return err
		}
		label, err := a.Orient.AddOrientation(angle, args[2] == "l", "", false, "", "")
		if err != nil {
			return err
		}
		fmt.Println("added", label)
		return nil

	case "northup":
		if len(args) != 2 {
			return fmt.Errorf("usage: northup <l|r>")
		}
		var label string
		var err error
		if args[1] == "l" {
			label, err = a.Orient.CreateNorthUpEastLeft("", false)
		} else {
			label, err = a.Orient.CreateNorthUpEastRight("", false)
		}
		if err != nil {
			return err
		}
		fmt.Println("added", label)
		return nil

	case "rmorient":
		if len(args) != 2 {
			return fmt.Errorf("usage: rmorient <label>")
		}
		return a.Orient.RemoveOrientation(args[1])

	case "readout":
		x, y, err := parseXY(args, 4)
		if err != nil {
			return err
		}
		l1, l2, l3, err := a.ReadoutText(args[1], x, y)
		if err != nil {
			return err
		}
		fmt.Println(l1)
		if l2 != "" {
			fmt.Println(l2)
			fmt.Println(l3)
		}
		return nil

	case "mark":
		x, y, err := parseXY(args, 4)
		if err != nil {
			return err
		}
		m, err := a.AddMarker(args[1], x, y)
		if err != nil {
			return err
		}
		fmt.Println("marker", m.ID, "on", m.DataLabel)
		return nil

	case "clearmarks":
		a.ClearMarkers()
		return nil

	case "blink":
		if len(args) != 2 {
			return fmt.Errorf("usage: blink <viewer>")
		}
		v := a.Orient.Viewer(args[1])
		if v == nil {
			return fmt.Errorf("no viewer %q", args[1])
		}
		if label := v.BlinkNext(); label != "" {
			fmt.Println("showing", label)
		}
		return nil

	case "zoom":
		if len(args) != 3 {
			return fmt.Errorf("usage: zoom <viewer> <label>")
		}
		corners, err := a.ZoomLimitsFor(args[1], args[2])
		if err != nil {
			return err
		}
		for _, c := range corners {
			fmt.Printf("(%.2f, %.2f) ", c.X, c.Y)
		}
		fmt.Println()
		return nil

	case "subset":
		if len(args) != 6 {
			return fmt.Errorf("usage: subset <label> <parent> <cx> <cy> <r>")
		}
		if !a.Collection.Has(args[2]) {
			return fmt.Errorf("dataset %q not in collection", args[2])
		}
		cx, err := strconv.ParseFloat(args[3], 64)
		if err != nil {
			return err
		}
		cy, err := strconv.ParseFloat(args[4], 64)
		if err != nil {
			return err
		}
		r, err := strconv.ParseFloat(args[5], 64)
		if err != nil {
			return err
		}
		a.Subsets.Add(&annotate.Subset{
			Label:  args[1],
			Parent: args[2],
			Region: annotate.Circle{CX: cx, CY: cy, R: r},
		})
		return nil

	case "save":
		if len(args) != 2 {
			return fmt.Errorf("usage: save <path>")
		}
		return a.SaveSession(args[1])

	case "load":
		if len(args) != 2 {
			return fmt.Errorf("usage: load <path>")
		}
		return a.LoadSession(args[1])

	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func parseXY(args []string, want int) (x, y float64, err error) {
	if len(args) != want {
		return 0, 0, fmt.Errorf("expected %d arguments", want)
	}
	x, err = strconv.ParseFloat(args[want-2], 64)
	if err != nil {
		return 0, 0, err
	}
	y, err = strconv.ParseFloat(args[want-1], 64)
	return x, y, err
}

// loadDemo loads two overlapping synthetic fields, one of them flipped
// east-right, so linking and orientation behavior can be explored
// without instrument data.
func loadDemo(a *app.App) error {
	left := wcs.NewTanFrame(4.5, 4.5, 337.5202808, -20.833333059999998, -3.0555555555555554e-05, 3.0555555555555554e-05, 0)
	right := wcs.NewTanFrame(4.5, 4.5, 337.5202808, -20.833333059999998, 3.0555555555555554e-05, 3.0555555555555554e-05, 0)

	if err := a.LoadDataset(dataset.New("field[SCI,1]", left,
		dataset.UniformComponent("SCI", "MJy/sr", 10, 10, 1))); err != nil {
		return err
	}
	return a.LoadDataset(dataset.New("field-flip[SCI,1]", right,
		dataset.UniformComponent("SCI", "MJy/sr", 10, 10, 2)))
}
