package wcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSexagesimal(t *testing.T) {
	got := FormatSexagesimal(337.5202808, -20.833333059999998)
	assert.Equal(t, "22h30m04.8674s -20d49m59.9990s", got)
}

func TestFormatDegrees(t *testing.T) {
	got := FormatDegrees(337.5202808, -20.833333059999998)
	assert.Equal(t, "337.5202808000 -20.8333330600", got)
}

func TestFormatSexagesimalOrigin(t *testing.T) {
	assert.Equal(t, "00h00m00.0000s 00d00m00.0000s", FormatSexagesimal(0, 0))
}

func TestFormatSexagesimalCarry(t *testing.T) {
	// 29.99999999 deg of declination: the seconds round to 60.0000 and
	// must carry instead of printing them
	got := FormatSexagesimal(0, 29.999999999)
	assert.Equal(t, "00h00m00.0000s 30d00m00.0000s", got)
}

func TestFormatSexagesimalWrapsLongitude(t *testing.T) {
	// -22.5 deg wraps to 337.5 deg = 22.5h
	got := FormatSexagesimal(-22.5, 0)
	assert.Equal(t, "22h30m00.0000s 00d00m00.0000s", got)
}
