package wcs

import (
	"fmt"
	"math"
)

// FormatSexagesimal renders an ICRS world coordinate as
// "22h30m04.8674s -20d49m59.9990s": right ascension in hours, minutes
// and seconds, declination in signed degrees, arcminutes and arcseconds.
func FormatSexagesimal(lonDeg, latDeg float64) string {
	return formatHMS(lonDeg) + " " + formatDMS(latDeg)
}

// FormatDegrees renders a world coordinate in fixed-width decimal
// degrees: "337.5202808000 -20.8333330600".
func FormatDegrees(lonDeg, latDeg float64) string {
	return fmt.Sprintf("%.10f %.10f", lonDeg, latDeg)
}

func formatHMS(lonDeg float64) string {
	hours := normalizeLon(lonDeg) / 15
	h, m, s := splitSexagesimal(hours)
	return fmt.Sprintf("%02dh%02dm%07.4fs", h, m, s)
}

func formatDMS(latDeg float64) string {
	sign := ""
	if latDeg < 0 {
		sign = "-"
		latDeg = -latDeg
	}
	d, m, s := splitSexagesimal(latDeg)
	return fmt.Sprintf("%s%02dd%02dm%07.4fs", sign, d, m, s)
}

// splitSexagesimal breaks a positive value into whole units, minutes and
// seconds, rounding seconds to 4 decimal places and carrying overflow so
// 59.99995s becomes the next minute rather than "60.0000".
func splitSexagesimal(v float64) (int, int, float64) {
	units := int(v)
	rem := (v - float64(units)) * 60
	minutes := int(rem)
	seconds := (rem - float64(minutes)) * 60

	seconds = math.Round(seconds*1e4) / 1e4
	if seconds >= 60 {
		seconds -= 60
		minutes++
	}
	if minutes >= 60 {
		minutes -= 60
		units++
	}
	return units, minutes, seconds
}
