package main

import (
	"context"
	"fmt"

	"github.com/oakstead/careledger/internal/blob"
	"github.com/oakstead/careledger/internal/config"
	handler "github.com/oakstead/careledger/internal/handler/http"
	"github.com/oakstead/careledger/internal/logger"
	"github.com/oakstead/careledger/internal/mail"
	"github.com/oakstead/careledger/internal/metrics"
	"github.com/oakstead/careledger/internal/server"
	"github.com/oakstead/careledger/internal/service"
	"github.com/oakstead/careledger/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("careledger-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if cfg.App.Version == "" {
		cfg.App.Version = buildVersion
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error running migrations")
	}

	storages := store.NewStorages(db, log)

	blobStore, err := blob.NewMinioStore(ctx, cfg.Blob, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to object store")
	}

	sender := mail.NewNopSender()
	if cfg.Mail.Host != "" {
		sender = mail.NewSMTPSender(cfg.Mail, log)
	}

	m := metrics.New()

	services := service.NewServices(service.Deps{
		Storages: storages,
		Blob:     blobStore,
		Mail:     sender,
		Metrics:  m,
		Config:   cfg,
		Logger:   log,
	})

	handlers := handler.NewHandler(services, m, cfg.App.Version, log)

	srv, err := server.NewServer(handlers.Init(), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
