package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ttpr0/go-hdmap/geo"
	"github.com/ttpr0/go-hdmap/manager"
	. "github.com/ttpr0/go-hdmap/util"
	"golang.org/x/exp/slog"
	"gopkg.in/yaml.v3"
)

//**********************************************************
// config
//**********************************************************

func ReadConfig(file string) (Config, error) {
	slog.Info("Reading config file", "file", file)
	config := DefaultConfig()
	data, err := os.ReadFile(file)
	if err != nil {
		return config, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

func DefaultConfig() Config {
	config := Config{}
	config.Logging.Level = "info"
	config.Maps.Directory = "./maps"
	config.Cache.BuildMode = manager.SINGLE_FLIGHT
	config.Query.DefaultRadius = 5
	config.Metrics.Listen = ":9102"
	return config
}

type Config struct {
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
	Maps struct {
		Directory string   `yaml:"directory"`
		Preload   []string `yaml:"preload"`
		// csv file with reference points per map
		Attributes string                      `yaml:"attributes"`
		References Dict[string, geo.Reference] `yaml:"references"`
	} `yaml:"maps"`
	Cache struct {
		BuildMode manager.BuildMode `yaml:"build-mode"`
	} `yaml:"cache"`
	Query struct {
		DefaultRadius float64 `yaml:"default-radius"`
	} `yaml:"query"`
	Metrics struct {
		Listen string `yaml:"listen"`
	} `yaml:"metrics"`
}

// Parses a log level name, unknown names select info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
