package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/emontenegrop/carnet-estudiantil/internal/config"
	"github.com/emontenegrop/carnet-estudiantil/internal/logger"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// fixture writes a roster of n students, a template and a couple of photos
// into a fresh directory and returns a config pointing at them.
func fixture(t *testing.T, n int) config.Config {
	t.Helper()
	dir := t.TempDir()

	if err := os.MkdirAll(filepath.Join(dir, "fotos"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := imaging.Save(imaging.New(300, 190, color.NRGBA{R: 220, G: 230, B: 255, A: 255}), filepath.Join(dir, "Captura.PNG")); err != nil {
		t.Fatal(err)
	}
	if err := imaging.Save(imaging.New(120, 160, color.NRGBA{R: 90, G: 60, B: 40, A: 255}), filepath.Join(dir, "fotos", "0.jpg")); err != nil {
		t.Fatal(err)
	}

	var roster strings.Builder
	for i := 0; i < n; i++ {
		class := "5A"
		if i%2 == 1 {
			class = "6B"
		}
		fmt.Fprintf(&roster, "Estudiante %d, %s, 01020304%02d, Básica, /fotos/%d.jpg\n", i, class, i, i)
		if i == 3 {
			roster.WriteString("\nlinea, incompleta\n")
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "base.txt"), []byte(roster.String()), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Input = filepath.Join(dir, "base.txt")
	cfg.Template = filepath.Join(dir, "Captura.PNG")
	cfg.Output = filepath.Join(dir, "out", "carnets.pdf")
	cfg.FontDir = filepath.Join(dir, "fonts")
	cfg.TempDir = filepath.Join(dir, "tmp")
	return cfg
}

func pdfPages(t *testing.T, path string) int {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF-")) {
		t.Fatal("output is not a PDF")
	}
	s := string(b)
	return strings.Count(s, "/Type /Page") - strings.Count(s, "/Type /Pages")
}

func TestRunTenStudents(t *testing.T) {
	cfg := fixture(t, 10)

	sum, err := Run(context.Background(), cfg, logger.Nop())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Badges != 10 || sum.Pages != 2 {
		t.Fatalf("summary: %+v", sum)
	}
	if diff := cmp.Diff([]int{8, 2}, sum.PageCounts); diff != "" {
		t.Fatalf("page counts (-want +got):\n%s", diff)
	}
	if sum.Skipped != 1 {
		t.Fatalf("skipped: %d", sum.Skipped)
	}
	if got := pdfPages(t, cfg.Output); got != 2 {
		t.Fatalf("pdf pages: %d", got)
	}

	if sum.Scratch == "" {
		t.Fatal("disk spool did not use a scratch dir")
	}
	if _, err := os.Stat(sum.Scratch); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("scratch dir not removed: %v", err)
	}
	entries, err := os.ReadDir(cfg.TempDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("temp dir not empty: %v", entries)
	}
}

func TestRunEmptyRoster(t *testing.T) {
	cfg := fixture(t, 0)

	_, err := Run(context.Background(), cfg, logger.Nop())
	if !errors.Is(err, ErrNoStudents) {
		t.Fatalf("expected ErrNoStudents, got %v", err)
	}
	if _, err := os.Stat(cfg.Output); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("output created for empty roster: %v", err)
	}
	if _, err := os.Stat(cfg.TempDir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("scratch parent created for empty roster: %v", err)
	}
}

func TestRunMissingRoster(t *testing.T) {
	cfg := fixture(t, 1)
	cfg.Input = filepath.Join(t.TempDir(), "nope.txt")

	core, logs := observer.New(zap.WarnLevel)
	_, err := Run(context.Background(), cfg, logger.FromCore(core))
	if !errors.Is(err, ErrNoStudents) {
		t.Fatalf("expected ErrNoStudents, got %v", err)
	}
	if logs.FilterMessage("could not read roster").Len() != 1 {
		t.Fatalf("expected roster warning, got %v", logs.All())
	}
}

func TestRunMissingTemplate(t *testing.T) {
	cfg := fixture(t, 3)
	cfg.Template = filepath.Join(t.TempDir(), "Captura.PNG")
	cfg.PhotoDir = filepath.Dir(cfg.Input)

	core, logs := observer.New(zap.WarnLevel)
	sum, err := Run(context.Background(), cfg, logger.FromCore(core))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Badges != 3 {
		t.Fatalf("badges: %d", sum.Badges)
	}
	if logs.FilterMessage("template not found, using white background").Len() != 1 {
		t.Fatalf("expected template warning, got %v", logs.All())
	}
}

func TestRunFilterAndMemorySpool(t *testing.T) {
	cfg := fixture(t, 10)
	cfg.Classes = []string{"6b"}
	cfg.Spool = config.SpoolMemory
	cfg.Workers = 3

	sum, err := Run(context.Background(), cfg, logger.Nop())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if diff := cmp.Diff([]int{5}, sum.PageCounts); diff != "" {
		t.Fatalf("page counts (-want +got):\n%s", diff)
	}
	if sum.Scratch != "" {
		t.Fatalf("memory spool used scratch dir %s", sum.Scratch)
	}
	if _, err := os.Stat(cfg.TempDir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("memory spool touched temp dir: %v", err)
	}
}

func TestRunCanceled(t *testing.T) {
	cfg := fixture(t, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := Run(ctx, cfg, logger.Nop())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(sum.Scratch); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("scratch dir left after cancel: %v", err)
	}
	if _, err := os.Stat(cfg.Output); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("output written after cancel: %v", err)
	}
}
