package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"path/filepath"

	imagepkg "github.com/emontenegrop/carnet-estudiantil/internal/image"
	"github.com/emontenegrop/carnet-estudiantil/internal/logger"
	"github.com/emontenegrop/carnet-estudiantil/internal/sheet"
	"github.com/emontenegrop/carnet-estudiantil/internal/students"
	"golang.org/x/sync/errgroup"
)

// Generator renders students into badges and composites them in input
// order. With Scratch set, badges are spooled as PNG files there;
// otherwise they stay in memory.
type Generator struct {
	Renderer *imagepkg.Renderer
	Template image.Image // nil means a blank badge
	BaseDir  string      // photo base directory
	Workers  int
	Title    string
	Scratch  string
	Log      *logger.Logger
}

type badge struct {
	name string
	path string
	data []byte
}

// Compose renders every student and returns the compositor holding the
// unfinished document.
func (g *Generator) Compose(ctx context.Context, list []students.Student) (*sheet.Compositor, error) {
	comp := sheet.New(sheet.DefaultLayout(), g.Title)

	if g.Workers <= 1 {
		for i, s := range list {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			b, err := g.render(i, len(list), s)
			if err != nil {
				return nil, err
			}
			if err := g.place(comp, b); err != nil {
				return nil, err
			}
		}
		return comp, nil
	}

	rendered := make([]badge, len(list))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.Workers)
	for i, s := range list {
		i, s := i, s
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			b, err := g.render(i, len(list), s)
			if err != nil {
				return err
			}
			rendered[i] = b
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	for _, b := range rendered {
		if err := g.place(comp, b); err != nil {
			return nil, err
		}
	}
	return comp, nil
}

// Write composes list and writes the finished PDF to w.
func (g *Generator) Write(ctx context.Context, list []students.Student, w io.Writer) (Summary, error) {
	comp, err := g.Compose(ctx, list)
	if err != nil {
		return Summary{}, err
	}
	if err := comp.Finish(w); err != nil {
		return Summary{}, err
	}
	return summarize(comp), nil
}

func (g *Generator) render(i, total int, s students.Student) (badge, error) {
	g.Log.Info("generating badge", "n", i+1, "total", total, "student", s.FullName)
	img := g.Renderer.RenderBadge(s, g.Template, g.BaseDir)

	name := fmt.Sprintf("carnet_%d.png", i)
	if g.Scratch != "" {
		path := filepath.Join(g.Scratch, name)
		if err := imagepkg.SavePNG(path, img); err != nil {
			return badge{}, fmt.Errorf("saving badge %d: %w", i+1, err)
		}
		return badge{name: name, path: path}, nil
	}
	var buf bytes.Buffer
	if err := imagepkg.EncodePNG(&buf, img); err != nil {
		return badge{}, fmt.Errorf("encoding badge %d: %w", i+1, err)
	}
	return badge{name: name, data: buf.Bytes()}, nil
}

func (g *Generator) place(comp *sheet.Compositor, b badge) error {
	if b.path != "" {
		return comp.PlaceFile(b.path)
	}
	return comp.Place(b.name, bytes.NewReader(b.data))
}

func summarize(comp *sheet.Compositor) Summary {
	counts := comp.PageCounts()
	n := 0
	for _, c := range counts {
		n += c
	}
	return Summary{Badges: n, Pages: len(counts), PageCounts: counts}
}
