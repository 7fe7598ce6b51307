package imagepkg

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/emontenegrop/carnet-estudiantil/internal/logger"
	"github.com/emontenegrop/carnet-estudiantil/internal/students"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// Layout fractions of the badge.
const (
	photoWidth  = 0.35
	photoHeight = 0.55
	photoLeft   = 0.05
	photoTop    = 0.25

	titleShift = 0.10
	titleTop   = 0.20

	fieldsLeft = 0.42
	fieldsTop  = 0.34
	fieldsStep = 0.09

	// px between a label and its value, and added again before the next label
	valueGap = 30

	qrSide   = 0.22
	qrMargin = 0.03
)

var (
	labelColor = color.RGBA{R: 0, G: 0, B: 128, A: 255}
	textColor  = color.Black
)

type Labels struct {
	Name  string
	Class string
	ID    string
	Level string
}

type Options struct {
	Title     string
	Labels    Labels
	FontDir   string
	BoldFont  string
	PlainFont string
	QRCode    bool
}

// Renderer draws badges. It is safe for concurrent use.
type Renderer struct {
	opts  Options
	fonts FontSet
	log   *logger.Logger
}

func NewRenderer(opts Options, log *logger.Logger) *Renderer {
	if log == nil {
		log = logger.Nop()
	}
	return &Renderer{
		opts:  opts,
		fonts: LoadFontSet(opts.FontDir, opts.BoldFont, opts.PlainFont, log),
		log:   log,
	}
}

// RenderBadge draws s onto a copy of template. A nil template means a blank
// white badge. Photos resolve against baseDir. Missing resources only
// produce warnings.
func (r *Renderer) RenderBadge(s students.Student, template image.Image, baseDir string) image.Image {
	var canvas *image.NRGBA
	if template == nil {
		canvas = Blank()
	} else {
		canvas = FitTemplate(template)
	}

	if photo := LoadPhoto(baseDir, s.PhotoPath, r.log.With("student", s.FullName)); photo != nil {
		pos := image.Pt(frac(BadgeWidthPx, photoLeft), frac(BadgeHeightPx, photoTop))
		canvas = imaging.Overlay(canvas, photo, pos, 1.0)
	}

	dc := gg.NewContextForImage(canvas)
	titleFace, labelFace, valueFace := r.fonts.Faces()

	dc.SetFontFace(titleFace)
	tw, _ := dc.MeasureString(r.opts.Title)
	tx := math.Floor((float64(BadgeWidthPx)-tw)/2) + float64(frac(BadgeWidthPx, titleShift))
	drawText(dc, titleFace, r.opts.Title, tx, float64(frac(BadgeHeightPx, titleTop)), textColor)

	x := float64(frac(BadgeWidthPx, fieldsLeft))
	y := frac(BadgeHeightPx, fieldsTop)
	step := frac(BadgeHeightPx, fieldsStep)
	fields := []struct{ label, value string }{
		{r.opts.Labels.Name, s.FullName},
		{r.opts.Labels.Class, s.ClassName},
		{r.opts.Labels.ID, s.IDNumber},
		{r.opts.Labels.Level, s.Level},
	}
	for i, f := range fields {
		if i > 0 {
			y += step + valueGap
		}
		drawText(dc, labelFace, f.label, x, float64(y), labelColor)
		drawText(dc, valueFace, f.value, x, float64(y+valueGap), textColor)
	}

	if r.opts.QRCode {
		r.drawQR(dc, s.IDNumber)
	}
	return dc.Image()
}

func (r *Renderer) drawQR(dc *gg.Context, text string) {
	side := frac(BadgeHeightPx, qrSide)
	qr, err := GenerateQRImage(text, side)
	if err != nil {
		r.log.Warn("qr code skipped", "text", text, "error", err)
		return
	}
	qr = imaging.Resize(qr, side, side, imaging.NearestNeighbor)
	m := frac(BadgeHeightPx, qrMargin)
	dc.DrawImage(qr, BadgeWidthPx-m-side, BadgeHeightPx-m-side)
}

// drawText places s with its top-left corner at (x, y).
func drawText(dc *gg.Context, face font.Face, s string, x, y float64, c color.Color) {
	dc.SetFontFace(face)
	dc.SetColor(c)
	dc.DrawString(s, x, y+float64(face.Metrics().Ascent.Ceil()))
}
