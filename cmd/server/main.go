package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"medichat/internal/chain"
	"medichat/internal/config"
	"medichat/internal/server"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "config.yaml", "Path to YAML config file")
	flag.Parse()

	logger := logrus.New()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load config")
	}

	provider := chain.NewProvider(chain.NewBuilder(cfg, logger))
	srv := server.New(provider, logger, time.Duration(cfg.Server.RequestTimeoutSecs)*time.Second)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.WithField("addr", addr).Info("Starting medichat server")
	if err := srv.Router().Run(addr); err != nil {
		logger.WithError(err).Fatal("Server exited")
	}
}
