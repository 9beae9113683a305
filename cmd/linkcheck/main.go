// Command linkcheck builds synthetic coordinate frames and reports how
// the linking engine classifies and aligns them: link types, fit
// residuals, round-trip accuracy and compass orientation.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"skyviz/internal/dataset"
	"skyviz/internal/link"
	"skyviz/pkg/geometry"
	"skyviz/pkg/wcs"
)

func main() {
	angle := flag.Float64("angle", 30, "Rotation between the two fields in degrees")
	scale := flag.Float64("scale", 0.11, "Plate scale in arcsec per pixel")
	size := flag.Int("size", 128, "Field size in pixels per side")
	distortion := flag.Float64("k", 0, "Radial distortion coefficient for the second field")
	noAffine := flag.Bool("no-affine", false, "Route links through the full frames")
	flag.Parse()

	cdelt := *scale / 3600.0
	crpix := float64(*size-1) / 2

	base := wcs.NewTanFrame(crpix, crpix, 150.0, 2.3, -cdelt, cdelt, 0)
	rotated := wcs.NewTanFrame(crpix, crpix, 150.0, 2.3, -cdelt, cdelt, *angle)

	var second wcs.Frame = rotated
	if *distortion != 0 {
		second = wcs.NewGeneralFrame(rotated, *distortion,
			geometry.NewRect(-0.5, -0.5, float64(*size), float64(*size)))
	}

	coll := dataset.NewCollection()
	must(coll.Add(dataset.New("base", base,
		dataset.UniformComponent("SCI", "", *size, *size, 1))))
	must(coll.Add(dataset.New("second", second,
		dataset.UniformComponent("SCI", "", *size, *size, 1))))

	set, err := link.Compute(coll, link.SchemeWCS, "base", link.Options{
		UseAffine:   !*noAffine,
		ErrorOnFail: true,
	})
	must(err)

	fmt.Printf("=== Links to %q ===\n", set.Reference())
	for _, label := range coll.Labels() {
		l, ok := set.LinkFor(label)
		if !ok {
			continue
		}
		fmt.Printf("%-8s %-15s max fit residual %.3e px\n", label, l.Type, l.MaxResidual)
	}

	fmt.Println("\n=== Round trips base -> second -> base ===")
	worst := 0.0
	for _, p := range [][2]float64{{0, 0}, {crpix, crpix}, {float64(*size - 1), float64(*size - 1)}} {
		sx, sy, ok := set.Transform("base", "second", p[0], p[1])
		if !ok {
			fmt.Printf("(%g, %g): does not map\n", p[0], p[1])
			continue
		}
		bx, by, ok := set.Transform("second", "base", sx, sy)
		if !ok {
			fmt.Printf("(%g, %g): does not map back\n", p[0], p[1])
			continue
		}
		err := math.Hypot(bx-p[0], by-p[1])
		if err > worst {
			worst = err
		}
		fmt.Printf("(%6.1f, %6.1f) -> (%8.3f, %8.3f) -> (%8.3f, %8.3f)  err %.3e px\n",
			p[0], p[1], sx, sy, bx, by, err)
	}
	fmt.Printf("worst round-trip error: %.3e px\n", worst)

	fmt.Println("\n=== Compass ===")
	for _, label := range []string{"base", "second"} {
		d := coll.Get(label)
		info, err := wcs.CompassInfo(d.Frame.Celestial(), float64(*size), float64(*size), 0.4)
		if err != nil {
			fmt.Printf("%-8s no compass: %v\n", label, err)
			continue
		}
		fmt.Printf("%-8s north %8.3f deg, east %8.3f deg, flipped=%v\n",
			label, info.DegN, info.DegE, info.XFlip)
	}
}

func must(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
