package imagepkg

import "math"

// Physical badge size (ISO/IEC 7810 ID-1) and raster resolution.
const (
	BadgeWidthMM  = 85.6
	BadgeHeightMM = 54.0
	DPI           = 300
)

var (
	BadgeWidthPx  = MMToPx(BadgeWidthMM)
	BadgeHeightPx = MMToPx(BadgeHeightMM)
)

// MMToPx converts millimetres to whole pixels at DPI.
func MMToPx(mm float64) int {
	return int(math.Round(mm / 25.4 * DPI))
}

// frac returns int(n*f), truncating like the layout percentages expect.
func frac(n int, f float64) int {
	return int(float64(n) * f)
}
