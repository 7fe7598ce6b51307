package sheet

import imagepkg "github.com/emontenegrop/carnet-estudiantil/internal/image"

// PaperSize is a page size in millimetres.
type PaperSize struct {
	Name   string
	Width  float64
	Height float64
}

var A4 = PaperSize{Name: "A4", Width: 210, Height: 297}

// Layout is the fixed badge grid of a page.
type Layout struct {
	Paper       PaperSize
	Columns     int
	Rows        int
	Margin      float64 // mm
	BadgeWidth  float64 // mm
	BadgeHeight float64 // mm
}

// DefaultLayout is 2 columns by 4 rows of ID-1 badges on A4 with 10mm margins.
func DefaultLayout() Layout {
	return Layout{
		Paper:       A4,
		Columns:     2,
		Rows:        4,
		Margin:      10,
		BadgeWidth:  imagepkg.BadgeWidthMM,
		BadgeHeight: imagepkg.BadgeHeightMM,
	}
}

func (l Layout) PerPage() int {
	return l.Columns * l.Rows
}

// HSpacing is the gap between columns that spreads them over the printable width.
func (l Layout) HSpacing() float64 {
	if l.Columns < 2 {
		return 0
	}
	return (l.Paper.Width - 2*l.Margin - float64(l.Columns)*l.BadgeWidth) / float64(l.Columns-1)
}

// VSpacing is the row counterpart of HSpacing.
func (l Layout) VSpacing() float64 {
	if l.Rows < 2 {
		return 0
	}
	return (l.Paper.Height - 2*l.Margin - float64(l.Rows)*l.BadgeHeight) / float64(l.Rows-1)
}

// Rect is a cell in page space: origin bottom-left, units mm.
type Rect struct {
	X, Y, W, H float64
}

// Top returns the distance from the top edge of a page of the given height
// to the top of r.
func (r Rect) Top(pageHeight float64) float64 {
	return pageHeight - r.Y - r.H
}

// Cell returns the slot of the i-th badge on a page. Cells run left to
// right, top to bottom; row 0 is the top row.
func (l Layout) Cell(i int) Rect {
	row := i / l.Columns
	col := i % l.Columns
	return Rect{
		X: l.Margin + float64(col)*(l.BadgeWidth+l.HSpacing()),
		Y: l.Paper.Height - l.Margin - float64(row+1)*l.BadgeHeight - float64(row)*l.VSpacing(),
		W: l.BadgeWidth,
		H: l.BadgeHeight,
	}
}

// PageCount is the number of pages n badges occupy.
func (l Layout) PageCount(n int) int {
	per := l.PerPage()
	return (n + per - 1) / per
}
