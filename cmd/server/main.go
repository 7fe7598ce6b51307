package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/emontenegrop/carnet-estudiantil/internal/api"
	"github.com/emontenegrop/carnet-estudiantil/internal/config"
	"github.com/emontenegrop/carnet-estudiantil/internal/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Default()
	if path := os.Getenv("CARNET_CONFIG"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
	}
	envErr := cfg.ApplyEnv(nil)
	if port := os.Getenv("PORT"); port != "" {
		cfg.Listen = ":" + port
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: logger:", err)
		os.Exit(1)
	}
	defer log.Sync()
	if envErr != nil {
		log.Warn("ignoring invalid environment settings", "error", envErr)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", "error", err)
	}

	r := gin.Default()
	api.RegisterRoutes(r, api.NewHandler(cfg, log))

	log.Info("starting server", "listen", cfg.Listen)
	if err := r.Run(cfg.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server stopped", "error", err)
	}
}
