package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/perchlabs/fundledger/internal/config"
	"github.com/perchlabs/fundledger/internal/database"
	"github.com/perchlabs/fundledger/internal/export"
	"github.com/perchlabs/fundledger/internal/feed"
	fundledgerHttp "github.com/perchlabs/fundledger/internal/http"
	exportHandler "github.com/perchlabs/fundledger/internal/http/export"
	feedHandler "github.com/perchlabs/fundledger/internal/http/feed"
	investmentHandler "github.com/perchlabs/fundledger/internal/http/investment"
	ledgerHandler "github.com/perchlabs/fundledger/internal/http/ledger"
	"github.com/perchlabs/fundledger/internal/investment"
	investmentStore "github.com/perchlabs/fundledger/internal/investment/store"
	"github.com/perchlabs/fundledger/internal/ledger"
	ledgerStore "github.com/perchlabs/fundledger/internal/ledger/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.Auth.JWTSecret == "" {
		slog.Error("JWT_SECRET must be set")
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	hub := feed.NewHub()

	var (
		investmentService = investment.NewService(investmentStore.New(db))
		ledgerService     = ledger.NewService(ledgerStore.New(db), investmentService, hub)
		exportService     = export.NewService(ledgerService)
	)

	var (
		investmentH = investmentHandler.NewHandler(investmentService, ledgerService)
		ledgerH     = ledgerHandler.NewHandler(ledgerService)
		feedH       = feedHandler.NewHandler(hub)
		exportH     = exportHandler.NewHandler(exportService)
	)

	router := fundledgerHttp.New(investmentH, ledgerH, feedH, exportH, fundledgerHttp.Options{
		JWTSecret:      cfg.Auth.JWTSecret,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
