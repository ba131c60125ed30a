package main

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/DEFRA/cff-chart-prototype/src/telemetry"
)

// config is the optional on-disk configuration. Everything has a workable
// default; the file only needs to exist when a setting must change.
type config struct {
	DataDir     string `yaml:"dataDir"`
	LogLevel    string `yaml:"logLevel"`
	StationType string `yaml:"stationType"`
	ChartStyle  string `yaml:"chartStyle"`
}

func defaultConfig() config {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return config{
		DataDir:     filepath.Join(dir, "cff-viewer"),
		LogLevel:    "info",
		StationType: string(telemetry.StationRiver),
		ChartStyle:  chartStyleA,
	}
}

// loadConfig reads path when given, otherwise the default location. A missing
// file is not an error; a malformed one is.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	explicit := path != ""
	if !explicit {
		path = filepath.Join(cfg.DataDir, "config.yaml")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, err
	}
	if cfg.ChartStyle != chartStyleA && cfg.ChartStyle != chartStyleB {
		cfg.ChartStyle = chartStyleA
	}
	return cfg, nil
}

func (c config) storePath() string {
	return filepath.Join(c.DataDir, "historic.db")
}
