package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/emontenegrop/carnet-estudiantil/internal/logger"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoadFileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carnets.yaml")
	doc := "input: roster.xlsx\nqr_code: true\nworkers: 4\nlabels:\n  id: \"Cédula:\"\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := cfg.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	want := Default()
	want.Input = "roster.xlsx"
	want.QRCode = true
	want.Workers = 4
	want.Labels.ID = "Cédula:"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFileMissing(t *testing.T) {
	cfg := Default()
	if err := cfg.LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("CARNET_OUTPUT", "out/grade5.pdf")
	t.Setenv("CARNET_WORKERS", "3")
	t.Setenv("CARNET_QR_CODE", "true")
	t.Setenv("CARNET_CLASSES", " 5A, ,5B ")
	t.Setenv("CARNET_SPOOL", "")

	cfg := Default()
	if err := cfg.ApplyEnv(nil); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}

	if cfg.Output != "out/grade5.pdf" {
		t.Fatalf("output: got %q", cfg.Output)
	}
	if cfg.Workers != 3 {
		t.Fatalf("workers: got %d", cfg.Workers)
	}
	if !cfg.QRCode {
		t.Fatal("qr code not enabled")
	}
	if diff := cmp.Diff([]string{"5A", "5B"}, cfg.Classes); diff != "" {
		t.Fatalf("classes (-want +got):\n%s", diff)
	}
	if cfg.Spool != SpoolDisk {
		t.Fatalf("blank env must keep default spool, got %q", cfg.Spool)
	}
}

func TestApplyEnvBadIntKeepsDefault(t *testing.T) {
	t.Setenv("CARNET_WORKERS", "many")
	t.Setenv("CARNET_QR_CODE", "")

	core, logs := observer.New(zap.WarnLevel)
	cfg := Default()
	err := cfg.ApplyEnv(logger.FromCore(core))
	if err == nil || !strings.Contains(err.Error(), "CARNET_WORKERS") {
		t.Fatalf("expected error naming CARNET_WORKERS, got %v", err)
	}
	if cfg.Workers != 1 {
		t.Fatalf("workers: got %d", cfg.Workers)
	}
	if cfg.QRCode {
		t.Fatal("blank CARNET_QR_CODE must keep the default")
	}
	if n := logs.FilterMessage("Environment variables ignored").Len(); n != 1 {
		t.Fatalf("expected 1 warning, got %d", n)
	}
}

func TestValidate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	cfg := Default()
	cfg.Workers = 0
	cfg.Spool = "tape"
	cfg.Output = " "
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error")
	}
}
