package imagepkg

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/emontenegrop/carnet-estudiantil/internal/logger"
)

var (
	ErrNotAFile    = errors.New("not a regular file")
	ErrOutsideBase = errors.New("photo path escapes the photo directory")
)

// Blank returns a white badge-sized canvas.
func Blank() *image.NRGBA {
	return imaging.New(BadgeWidthPx, BadgeHeightPx, color.White)
}

// OpenImage decodes the image file at path.
func OpenImage(path string) (image.Image, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !st.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotAFile)
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// FitTemplate scales a background to the badge pixel size.
func FitTemplate(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == BadgeWidthPx && b.Dy() == BadgeHeightPx {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, BadgeWidthPx, BadgeHeightPx, imaging.Lanczos)
}

// LoadTemplate returns the template at path scaled to badge size, or a
// blank white badge when it cannot be read. It never fails.
func LoadTemplate(path string, log *logger.Logger) image.Image {
	img, _ := Fallback[image.Image]{
		Resource: path,
		Attempt: func() (image.Image, error) {
			img, err := OpenImage(path)
			if err != nil {
				return nil, err
			}
			return FitTemplate(img), nil
		},
		Default: func() image.Image { return Blank() },
		Warning: "template unavailable, using white background",
	}.Resolve(log)
	return img
}

// DecodeTemplate is LoadTemplate for an uploaded stream.
func DecodeTemplate(r io.Reader, log *logger.Logger) image.Image {
	img, _ := Fallback[image.Image]{
		Resource: "upload",
		Attempt: func() (image.Image, error) {
			img, err := imaging.Decode(r, imaging.AutoOrientation(true))
			if err != nil {
				return nil, err
			}
			return FitTemplate(img), nil
		},
		Default: func() image.Image { return Blank() },
		Warning: "template unavailable, using white background",
	}.Resolve(log)
	return img
}

// ResolvePhoto joins a roster photo path onto baseDir. Leading separators
// are stripped so absolute-looking paths stay under baseDir; paths that
// still climb out of it are rejected with ErrOutsideBase.
func ResolvePhoto(baseDir, photo string) (string, error) {
	rel := filepath.FromSlash(strings.TrimLeft(photo, `/\`))
	if rel != "" && !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%s: %w", photo, ErrOutsideBase)
	}
	return filepath.Join(baseDir, rel), nil
}

// LoadPhoto resolves photo against baseDir and returns it fitted into the
// badge photo box, or nil when it is rejected, missing or unreadable.
func LoadPhoto(baseDir, photo string, log *logger.Logger) image.Image {
	img, _ := Fallback[image.Image]{
		Resource: photo,
		Attempt: func() (image.Image, error) {
			path, err := ResolvePhoto(baseDir, photo)
			if err != nil {
				return nil, err
			}
			img, err := OpenImage(path)
			if err != nil {
				return nil, err
			}
			return imaging.Fit(img, frac(BadgeWidthPx, photoWidth), frac(BadgeHeightPx, photoHeight), imaging.Lanczos), nil
		},
		Warning: "photo unavailable, rendering badge without it",
	}.Resolve(log)
	return img
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}

// SavePNG writes img to path as PNG.
func SavePNG(path string, img image.Image) error {
	return imaging.Save(img, path, imaging.PNGCompressionLevel(png.BestSpeed))
}
