package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/emontenegrop/carnet-estudiantil/internal/logger"
)

// ApplyEnv overlays CARNET_* environment variables onto c. Values that do
// not parse keep the current setting and are reported in the returned error,
// so callers without a logger yet can surface them later.
func (c *Config) ApplyEnv(log *logger.Logger) error {
	var errs []error
	c.Input = GetEnv("CARNET_INPUT", c.Input, log)
	c.Template = GetEnv("CARNET_TEMPLATE", c.Template, log)
	c.Output = GetEnv("CARNET_OUTPUT", c.Output, log)
	c.PhotoDir = GetEnv("CARNET_PHOTO_DIR", c.PhotoDir, log)
	c.FontDir = GetEnv("CARNET_FONT_DIR", c.FontDir, log)
	c.Spool = GetEnv("CARNET_SPOOL", c.Spool, log)
	c.TempDir = GetEnv("CARNET_TEMP_DIR", c.TempDir, log)
	c.LogMode = GetEnv("CARNET_LOG_MODE", c.LogMode, log)
	c.Listen = GetEnv("CARNET_LISTEN", c.Listen, log)
	workers, err := lookupInt("CARNET_WORKERS", c.Workers)
	errs = append(errs, err)
	c.Workers = workers
	qr, err := lookupBool("CARNET_QR_CODE", c.QRCode)
	errs = append(errs, err)
	c.QRCode = qr
	if v := GetEnv("CARNET_CLASSES", "", log); v != "" {
		c.Classes = SplitList(v)
	}
	if v := GetEnv("CARNET_LEVELS", "", log); v != "" {
		c.Levels = SplitList(v)
	}
	err = errors.Join(errs...)
	if err != nil && log != nil {
		log.Warn("Environment variables ignored", "error", err)
	}
	return err
}

func GetEnv(key, defaultVal string, log *logger.Logger) string {
	if log != nil {
		log = log.With("env_var", key)
	}
	val, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(val) == "" {
		if log != nil {
			log.Debug("Environment variable not found, using default", "default", defaultVal)
		}
		return defaultVal
	}
	if log != nil {
		log.Debug("Environment variable found, using environment", "environment", val)
	}
	return strings.TrimSpace(val)
}

func lookupInt(key string, defaultVal int) (int, error) {
	valStr, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(valStr) == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(valStr))
	if err != nil {
		return defaultVal, fmt.Errorf("%s=%q: %w", key, valStr, err)
	}
	return i, nil
}

func lookupBool(key string, defaultVal bool) (bool, error) {
	valStr, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(valStr) == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(valStr))
	if err != nil {
		return defaultVal, fmt.Errorf("%s=%q: %w", key, valStr, err)
	}
	return b, nil
}

// SplitList splits a comma separated value, dropping empty items.
func SplitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
