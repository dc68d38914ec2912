// Package config is the ambient configuration layer: a .env file (loaded
// best-effort via joho/godotenv), an optional .simtext.yaml project file,
// and SIMTEXT_* environment variables, all supplying defaults below
// whatever the CLI flags in spec.md §6 ultimately set. Grounded in
// guvi-geek-aegis's internal/config + internal/configs/env loader shape,
// adapted from a server's required-env validation to a CLI's
// optional-default layering.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults holds the layered default values a CLI flag may fall back to.
// Every field mirrors a flag in spec.md §6.
type Defaults struct {
	MinRunSize int      `yaml:"min_run_size"`
	PageWidth  int      `yaml:"page_width"`
	Threshold  int      `yaml:"threshold"`
	Exclude    []string `yaml:"exclude"`
}

// builtin are the hard-coded fallbacks when neither a project file nor an
// environment variable supplies a value, matching sim.c's
// DEFAULT_MIN_RUN_SIZE / DEFAULT_PAGE_WIDTH.
var builtin = Defaults{
	MinRunSize: 24,
	PageWidth:  80,
	Threshold:  1,
}

// Load resolves Defaults from, in ascending precedence: the built-in
// values, a ".simtext.yaml" file in dir (if present), then SIMTEXT_*
// environment variables. A ".env" file in dir is loaded best-effort
// first so it can seed those environment variables.
func Load(dir string) Defaults {
	_ = godotenv.Load(dir + "/.env")

	d := builtin
	if fromFile, ok := loadProjectFile(dir + "/.simtext.yaml"); ok {
		d = mergeNonZero(d, fromFile)
	}
	d.MinRunSize = envInt("SIMTEXT_MIN_RUN", d.MinRunSize)
	d.PageWidth = envInt("SIMTEXT_PAGE_WIDTH", d.PageWidth)
	d.Threshold = envInt("SIMTEXT_THRESHOLD", d.Threshold)
	return d
}

func loadProjectFile(path string) (Defaults, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Defaults{}, false
	}
	var d Defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Defaults{}, false
	}
	return d, true
}

func mergeNonZero(base, override Defaults) Defaults {
	if override.MinRunSize != 0 {
		base.MinRunSize = override.MinRunSize
	}
	if override.PageWidth != 0 {
		base.PageWidth = override.PageWidth
	}
	if override.Threshold != 0 {
		base.Threshold = override.Threshold
	}
	if override.Exclude != nil {
		base.Exclude = override.Exclude
	}
	return base
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
