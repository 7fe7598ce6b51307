package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	SpoolDisk   = "disk"
	SpoolMemory = "memory"
)

// Config holds every tunable of a badge run. Zero values are never used
// directly; start from Default and overlay file, env and flags.
type Config struct {
	Input    string `yaml:"input"`     // roster, .txt or .xlsx
	Template string `yaml:"template"`  // badge background
	Output   string `yaml:"output"`    // resulting PDF
	PhotoDir string `yaml:"photo_dir"` // base for relative photo paths, defaults to the template's directory

	FontDir   string `yaml:"font_dir"`
	BoldFont  string `yaml:"bold_font"`
	PlainFont string `yaml:"plain_font"`

	Title  string `yaml:"title"`
	Labels Labels `yaml:"labels"`
	QRCode bool   `yaml:"qr_code"`

	Workers int    `yaml:"workers"`
	Spool   string `yaml:"spool"`    // disk | memory
	TempDir string `yaml:"temp_dir"` // parent of the per-run scratch dir

	Classes []string `yaml:"classes"`
	Levels  []string `yaml:"levels"`

	LogMode string `yaml:"log_mode"`
	Listen  string `yaml:"listen"`
}

type Labels struct {
	Name  string `yaml:"name"`
	Class string `yaml:"class"`
	ID    string `yaml:"id"`
	Level string `yaml:"level"`
}

func Default() Config {
	return Config{
		Input:     "base.txt",
		Template:  "Captura.PNG",
		Output:    "carnets.pdf",
		FontDir:   "/usr/share/fonts/dejavu",
		BoldFont:  "DejaVuSans-Bold.ttf",
		PlainFont: "DejaVuSans.ttf",
		Title:     "Identificación estudiantil",
		Labels: Labels{
			Name:  "Apellidos y Nombres:",
			Class: "Curso:",
			ID:    "C.I.:",
			Level: "Nivel:",
		},
		Workers: 1,
		Spool:   SpoolDisk,
		LogMode: "dev",
		Listen:  ":8080",
	}
}

// LoadFile overlays the YAML document at path onto c. Keys absent from the
// file keep their current value.
func (c *Config) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Input) == "" {
		errs = append(errs, errors.New("input path is empty"))
	}
	if strings.TrimSpace(c.Output) == "" {
		errs = append(errs, errors.New("output path is empty"))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be >= 1, got %d", c.Workers))
	}
	if c.Spool != SpoolDisk && c.Spool != SpoolMemory {
		errs = append(errs, fmt.Errorf("spool must be %q or %q, got %q", SpoolDisk, SpoolMemory, c.Spool))
	}
	return errors.Join(errs...)
}
