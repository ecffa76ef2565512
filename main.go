package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/ttpr0/go-hdmap/manager"
	"github.com/ttpr0/go-hdmap/query"
	"golang.org/x/exp/slog"
)

var MANAGER *manager.MapManager

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
	config_file := os.Getenv("HDMAP_CONFIG")
	if config_file == "" {
		config_file = "./config.yaml"
	}
	config, err := ReadConfig(config_file)
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
	level := config.Logging.Level
	if env := os.Getenv("HDMAP_LOG_LEVEL"); env != "" {
		level = env
	}
	slog.SetDefault(slog.New(NewLogHandler(os.Stdout, &slog.HandlerOptions{Level: ParseLevel(level)})))

	if config.Query.DefaultRadius > 0 {
		query.DefaultRadius = config.Query.DefaultRadius
	}

	attributes := manager.NewStaticAttributes(config.Maps.References)
	if config.Maps.Attributes != "" {
		if err := attributes.ReadCSV(config.Maps.Attributes); err != nil {
			slog.Error("failed to read map attributes", "error", err)
		}
	}
	MANAGER = manager.NewMapManager(manager.ManagerOptions{
		Directory:  config.Maps.Directory,
		Attributes: attributes,
		BuildMode:  config.Cache.BuildMode,
	})
	if err := MANAGER.Preload(config.Maps.Preload); err != nil {
		slog.Error("failed to preload maps", "error", err)
	}

	http.Handle("/metrics", manager.MetricsHandler())
	slog.Info("serving metrics", "listen", config.Metrics.Listen, "maps", len(MANAGER.Names()))
	if err := http.ListenAndServe(config.Metrics.Listen, nil); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
