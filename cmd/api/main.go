package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/ezexpenses/internal/config"
	"github.com/MrJamesThe3rd/ezexpenses/internal/export"
	ezHttp "github.com/MrJamesThe3rd/ezexpenses/internal/http"
	exportHandler "github.com/MrJamesThe3rd/ezexpenses/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/ezexpenses/internal/http/importfile"
	recordHandler "github.com/MrJamesThe3rd/ezexpenses/internal/http/record"
	reportHandler "github.com/MrJamesThe3rd/ezexpenses/internal/http/report"
	tagHandler "github.com/MrJamesThe3rd/ezexpenses/internal/http/tag"
	"github.com/MrJamesThe3rd/ezexpenses/internal/importer"
	"github.com/MrJamesThe3rd/ezexpenses/internal/logging"
	"github.com/MrJamesThe3rd/ezexpenses/internal/record"
	recordStore "github.com/MrJamesThe3rd/ezexpenses/internal/record/store"
	"github.com/MrJamesThe3rd/ezexpenses/internal/storage"
	"github.com/MrJamesThe3rd/ezexpenses/internal/tagpool"
	tagStore "github.com/MrJamesThe3rd/ezexpenses/internal/tagpool/store"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if _, err := logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format); err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}

	store, closeStore, err := storage.Open(cfg)
	if err != nil {
		slog.Error("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	var (
		tagService    = tagpool.NewService(tagStore.New(store))
		recordService = record.NewService(recordStore.New(store), tagService)
		importService = importer.NewService(recordService)
		exportService = export.NewService(recordService)
	)

	router := ezHttp.New(ezHttp.Handlers{
		Records: recordHandler.NewHandler(recordService),
		Tags:    tagHandler.NewHandler(tagService),
		Import:  importHandler.NewHandler(importService),
		Export:  exportHandler.NewHandler(exportService),
		Reports: reportHandler.NewHandler(recordService, time.Now),
	}, cfg.Server.CORSOrigins)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr, "storage", cfg.Storage.Driver)

	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
