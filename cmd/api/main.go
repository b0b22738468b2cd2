package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/expensetracker/internal/backend"
	"github.com/MrJamesThe3rd/expensetracker/internal/chart"
	"github.com/MrJamesThe3rd/expensetracker/internal/config"
	"github.com/MrJamesThe3rd/expensetracker/internal/expense"
	"github.com/MrJamesThe3rd/expensetracker/internal/export"
	apiHttp "github.com/MrJamesThe3rd/expensetracker/internal/http"
	chartHandler "github.com/MrJamesThe3rd/expensetracker/internal/http/chart"
	expenseHandler "github.com/MrJamesThe3rd/expensetracker/internal/http/expense"
	exportHandler "github.com/MrJamesThe3rd/expensetracker/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/expensetracker/internal/http/importcsv"
	"github.com/MrJamesThe3rd/expensetracker/internal/importer"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	be, err := backend.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}

	defer func() {
		if err := be.Close(context.Background()); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}()

	var (
		expenseService = expense.NewService(be.Repository)
		chartService   = chart.NewService(expenseService)
		exportService  = export.NewService(expenseService)
		importService  = importer.NewService(expenseService)
	)

	router := apiHttp.New(
		cfg.Server.CORSOrigins,
		expenseHandler.NewHandler(expenseService),
		chartHandler.NewHandler(chartService),
		exportHandler.NewHandler(exportService),
		importHandler.NewHandler(importService),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "addr", srv.Addr, "backend", cfg.Store.Backend)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
