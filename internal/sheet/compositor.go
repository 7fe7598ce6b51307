package sheet

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-pdf/fpdf"
)

var (
	ErrFinished = errors.New("document already finished")
	ErrEmpty    = errors.New("document has no badges")
)

// Compositor lays badge images into a PDF, one Layout grid per page.
// It owns the badges-on-current-page counter; build one per document.
type Compositor struct {
	layout Layout
	pdf    *fpdf.Fpdf

	onPage   int
	open     bool
	counts   []int
	finished bool
}

func New(layout Layout, title string) *Compositor {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: layout.Paper.Width, Ht: layout.Paper.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("carnet-estudiantil", true)
	if title != "" {
		pdf.SetTitle(title, true)
	}
	return &Compositor{layout: layout, pdf: pdf}
}

func (c *Compositor) Layout() Layout {
	return c.layout
}

// Place adds the PNG read from r as the next badge. name must be unique
// within the document.
func (c *Compositor) Place(name string, r io.Reader) error {
	if c.finished {
		return ErrFinished
	}
	opt := fpdf.ImageOptions{ImageType: "PNG"}
	c.pdf.RegisterImageOptionsReader(name, opt, r)
	if err := c.pdf.Error(); err != nil {
		return fmt.Errorf("registering %s: %w", name, err)
	}
	return c.place(name, opt)
}

// PlaceFile adds the image file at path as the next badge.
func (c *Compositor) PlaceFile(path string) error {
	if c.finished {
		return ErrFinished
	}
	opt := fpdf.ImageOptions{}
	c.pdf.RegisterImageOptions(path, opt)
	if err := c.pdf.Error(); err != nil {
		return fmt.Errorf("registering %s: %w", path, err)
	}
	return c.place(path, opt)
}

func (c *Compositor) place(name string, opt fpdf.ImageOptions) error {
	if !c.open {
		c.pdf.AddPage()
		c.open = true
	}
	cell := c.layout.Cell(c.onPage)
	c.pdf.ImageOptions(name, cell.X, cell.Top(c.layout.Paper.Height), cell.W, cell.H, false, opt, 0, "")
	if err := c.pdf.Error(); err != nil {
		return fmt.Errorf("placing %s: %w", name, err)
	}
	c.onPage++
	if c.onPage >= c.layout.PerPage() {
		c.flush()
	}
	return nil
}

func (c *Compositor) flush() {
	c.counts = append(c.counts, c.onPage)
	c.onPage = 0
	c.open = false
}

// Pages is the number of pages started so far.
func (c *Compositor) Pages() int {
	n := len(c.counts)
	if c.open {
		n++
	}
	return n
}

// PageCounts returns the number of badges on each finalized page.
func (c *Compositor) PageCounts() []int {
	return append([]int(nil), c.counts...)
}

// Finish closes the page in progress, if any, and writes the document.
// It can be called once.
func (c *Compositor) Finish(w io.Writer) error {
	if c.finished {
		return ErrFinished
	}
	if c.onPage > 0 {
		c.flush()
	}
	c.finished = true
	if len(c.counts) == 0 {
		return ErrEmpty
	}
	if err := c.pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

// FinishFile is Finish into a new file at path. A partial file is removed
// on failure.
func (c *Compositor) FinishFile(path string) error {
	if c.finished {
		return ErrFinished
	}
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	err = c.Finish(fp)
	if cerr := fp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}
