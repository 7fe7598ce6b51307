package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestRunExitCodes(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.txt")
	roster := filepath.Join(dir, "base.txt")
	if err := os.WriteFile(empty, []byte("\n\nsolo,tres,campos\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(roster, []byte("Pérez Ana, 5A, 0102030405, Básica, fotos/ana.png\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	common := []string{
		"-template", filepath.Join(dir, "Captura.PNG"),
		"-log", "prod",
	}

	out := filepath.Join(dir, "empty.pdf")
	if code := run(append([]string{"-input", empty, "-output", out}, common...)); code != 1 {
		t.Fatalf("empty roster: exit %d, want 1", code)
	}
	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("empty roster produced output: %v", err)
	}

	out = filepath.Join(dir, "carnets.pdf")
	if code := run(append([]string{"-input", roster, "-output", out, "-spool", "memory"}, common...)); code != 0 {
		t.Fatalf("valid roster: exit %d, want 0", code)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("output missing: %v", err)
	}

	if code := run([]string{"-workers", "x"}); code != 2 {
		t.Fatalf("bad flag: exit %d, want 2", code)
	}
}
