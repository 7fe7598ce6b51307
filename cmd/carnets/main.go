package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/emontenegrop/carnet-estudiantil/internal/config"
	"github.com/emontenegrop/carnet-estudiantil/internal/logger"
	"github.com/emontenegrop/carnet-estudiantil/internal/pipeline"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg := config.Default()

	fset := flag.NewFlagSet("carnets", flag.ContinueOnError)
	configPath := fset.String("config", os.Getenv("CARNET_CONFIG"), "YAML config file")
	input := fset.String("input", "", "roster file (.txt or .xlsx)")
	template := fset.String("template", "", "badge background image")
	output := fset.String("output", "", "output PDF")
	photos := fset.String("photos", "", "base directory for photo paths (default: template directory)")
	classes := fset.String("class", "", "comma separated classes to include")
	levels := fset.String("level", "", "comma separated levels to include")
	workers := fset.Int("workers", 0, "parallel badge renderers")
	qr := fset.Bool("qr", false, "print a QR code with the ID number")
	spool := fset.String("spool", "", "where rendered badges wait: disk or memory")
	logMode := fset.String("log", "", "log mode: dev, prod or debug")
	if err := fset.Parse(args); err != nil {
		return 2
	}

	if *configPath != "" {
		if err := cfg.LoadFile(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return 1
		}
	}
	envErr := cfg.ApplyEnv(nil)
	setString(&cfg.Input, *input)
	setString(&cfg.Template, *template)
	setString(&cfg.Output, *output)
	setString(&cfg.PhotoDir, *photos)
	setString(&cfg.Spool, *spool)
	setString(&cfg.LogMode, *logMode)
	if *classes != "" {
		cfg.Classes = config.SplitList(*classes)
	}
	if *levels != "" {
		cfg.Levels = config.SplitList(*levels)
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *qr {
		cfg.QRCode = true
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: logger:", err)
		return 1
	}
	defer log.Sync()
	if envErr != nil {
		log.Warn("ignoring invalid environment settings", "error", envErr)
	}

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sum, err := pipeline.Run(ctx, cfg, log)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoStudents) {
			log.Error("no students found, nothing to print", "input", cfg.Input)
		} else {
			log.Error("badge generation failed", "error", err)
		}
		return 1
	}
	fmt.Printf("PDF generated: %s\nTotal badges: %d (%d pages)\n", sum.Output, sum.Badges, sum.Pages)
	return 0
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
