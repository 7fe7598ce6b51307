package imagepkg

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/emontenegrop/carnet-estudiantil/internal/logger"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Pixel sizes of the three text roles.
const (
	titleSize = 40
	labelSize = 28
	valueSize = 32
)

// FontSet holds the parsed bold and regular faces. When either could not
// be loaded both are nil and every role uses basicfont.
type FontSet struct {
	bold  *truetype.Font
	plain *truetype.Font
}

func (fs FontSet) Builtin() bool {
	return fs.bold == nil || fs.plain == nil
}

// Faces returns fresh faces for the title, label and value roles.
// truetype faces keep glyph caches and must not be shared between renders.
func (fs FontSet) Faces() (title, label, value font.Face) {
	if fs.Builtin() {
		return basicfont.Face7x13, basicfont.Face7x13, basicfont.Face7x13
	}
	return newFace(fs.bold, titleSize), newFace(fs.bold, labelSize), newFace(fs.plain, valueSize)
}

func newFace(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// LoadFontSet reads bold and regular TrueType files from dir, falling back
// to the built-in face for all roles if either is unusable.
func LoadFontSet(dir, boldName, plainName string, log *logger.Logger) FontSet {
	fs, _ := Fallback[FontSet]{
		Resource: dir,
		Attempt: func() (FontSet, error) {
			bold, err := parseFontFile(filepath.Join(dir, boldName))
			if err != nil {
				return FontSet{}, err
			}
			plain, err := parseFontFile(filepath.Join(dir, plainName))
			if err != nil {
				return FontSet{}, err
			}
			return FontSet{bold: bold, plain: plain}, nil
		},
		Warning: "fonts unavailable, using built-in font",
	}.Resolve(log)
	return fs
}

func parseFontFile(path string) (*truetype.Font, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	f, err := truetype.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF %s: %w", path, err)
	}
	return f, nil
}
