package main

import (
	"context"
	"flag"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"medichat/internal/config"
	"medichat/internal/ingest"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, dataDir string
	flag.StringVar(&cfgPath, "config", "config.yaml", "Path to YAML config file")
	flag.StringVar(&dataDir, "data", "", "PDF directory (overrides config)")
	flag.Parse()

	logger := logrus.New()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load config")
	}
	if dataDir != "" {
		cfg.Ingest.DataDir = dataDir
	}

	if err := ingest.New(cfg, logger).Run(context.Background()); err != nil {
		logger.WithError(err).Fatal("Ingestion failed")
	}
	logger.Info("Ingestion complete")
}
