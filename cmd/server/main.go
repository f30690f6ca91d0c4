package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/lojf/inquisition/internal/config"
	"github.com/lojf/inquisition/internal/db"
	"github.com/lojf/inquisition/internal/logger"
	svc "github.com/lojf/inquisition/internal/services"
	"github.com/lojf/inquisition/internal/web"
)

func main() {
	configPath := flag.String("config", "", "config file (default: inquisition.yaml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	logBuild := logger.New().Level(cfg.Log.Level)
	if cfg.Log.File != "" {
		logBuild = logBuild.FromPath(cfg.Log.File)
	}
	logData, err := logBuild.Make()
	if err != nil {
		log.Fatal().Err(err).Msg("build logger")
	}
	defer logData.Close()
	lg := logData.Logger

	conn, err := db.Open(cfg.DB)
	if err != nil {
		lg.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("db open")
	}
	if err := db.Migrate(conn); err != nil {
		lg.Fatal().Err(err).Msg("db migrate")
	}

	reg, err := svc.NewRegistry(conn, cfg.Collections)
	if err != nil {
		lg.Fatal().Err(err).Msg("collections")
	}

	r := web.Router(conn, reg, lg)

	lg.Info().Str("addr", cfg.Addr).Strs("collections", reg.Names()).Msg("inquisition admin listening")
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		lg.Error().Err(err).Msg("serve")
		logData.Close()
		os.Exit(1)
	}
}
