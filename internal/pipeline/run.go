package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/emontenegrop/carnet-estudiantil/internal/config"
	imagepkg "github.com/emontenegrop/carnet-estudiantil/internal/image"
	"github.com/emontenegrop/carnet-estudiantil/internal/logger"
	"github.com/emontenegrop/carnet-estudiantil/internal/students"
	"github.com/emontenegrop/carnet-estudiantil/internal/util"
	"github.com/google/uuid"
)

// ErrNoStudents stops a run before any output is created.
var ErrNoStudents = errors.New("no valid students found")

type Summary struct {
	RunID      string `json:"run_id"`
	Badges     int    `json:"badges"`
	Pages      int    `json:"pages"`
	PageCounts []int  `json:"page_counts"`
	Skipped    int    `json:"skipped"`
	Output     string `json:"output"`
	Scratch    string `json:"-"`
}

// RendererOptions maps the badge part of cfg onto the renderer.
func RendererOptions(cfg config.Config) imagepkg.Options {
	return imagepkg.Options{
		Title: cfg.Title,
		Labels: imagepkg.Labels{
			Name:  cfg.Labels.Name,
			Class: cfg.Labels.Class,
			ID:    cfg.Labels.ID,
			Level: cfg.Labels.Level,
		},
		FontDir:   cfg.FontDir,
		BoldFont:  cfg.BoldFont,
		PlainFont: cfg.PlainFont,
		QRCode:    cfg.QRCode,
	}
}

// PhotoBase is the directory relative photo paths resolve against: the
// configured photo dir, else the template's directory.
func PhotoBase(cfg config.Config) string {
	if cfg.PhotoDir != "" {
		return cfg.PhotoDir
	}
	abs, err := filepath.Abs(cfg.Template)
	if err != nil {
		return filepath.Dir(cfg.Template)
	}
	return filepath.Dir(abs)
}

// Run reads the roster, renders every badge and writes the PDF to
// cfg.Output. The scratch directory is removed on every return path.
func Run(ctx context.Context, cfg config.Config, log *logger.Logger) (Summary, error) {
	sum := Summary{RunID: uuid.NewString(), Output: cfg.Output}
	log = log.With("run", sum.RunID)

	list, stats, err := students.Load(cfg.Input)
	if err != nil {
		log.Warn("could not read roster", "input", cfg.Input, "error", err)
	}
	if len(stats.Skipped) > 0 {
		log.Debug("roster lines skipped", "lines", stats.Skipped)
	}
	sum.Skipped = len(stats.Skipped)
	list = students.Filter(list, students.FilterOptions{Classes: cfg.Classes, Levels: cfg.Levels})
	if len(list) == 0 {
		return sum, fmt.Errorf("%w in %s", ErrNoStudents, cfg.Input)
	}
	log.Info("students loaded", "count", len(list), "input", cfg.Input)

	var tpl image.Image
	if _, err := os.Stat(cfg.Template); err != nil {
		log.Warn("template not found, using white background", "template", cfg.Template)
	} else {
		tpl = imagepkg.LoadTemplate(cfg.Template, log)
	}

	g := &Generator{
		Renderer: imagepkg.NewRenderer(RendererOptions(cfg), log),
		Template: tpl,
		BaseDir:  PhotoBase(cfg),
		Workers:  cfg.Workers,
		Title:    cfg.Title,
		Log:      log,
	}
	if cfg.Spool == config.SpoolDisk {
		dir, cleanup, err := util.ScratchDir(cfg.TempDir, "carnets-*")
		if err != nil {
			return sum, fmt.Errorf("creating scratch dir: %w", err)
		}
		defer func() {
			if err := cleanup(); err != nil {
				log.Warn("could not remove scratch dir", "dir", dir, "error", err)
			}
		}()
		g.Scratch = dir
		sum.Scratch = dir
	}

	comp, err := g.Compose(ctx, list)
	if err != nil {
		return sum, err
	}
	if err := util.EnsureDir(filepath.Dir(cfg.Output)); err != nil {
		return sum, fmt.Errorf("creating output dir: %w", err)
	}
	if err := comp.FinishFile(cfg.Output); err != nil {
		return sum, fmt.Errorf("writing %s: %w", cfg.Output, err)
	}

	s := summarize(comp)
	sum.Badges, sum.Pages, sum.PageCounts = s.Badges, s.Pages, s.PageCounts
	log.Info("pdf generated", "output", cfg.Output, "badges", sum.Badges, "pages", sum.Pages)
	return sum, nil
}
