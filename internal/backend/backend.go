// Package backend opens the expense repository selected by STORE_BACKEND.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/expensetracker/internal/config"
	"github.com/MrJamesThe3rd/expensetracker/internal/database"
	"github.com/MrJamesThe3rd/expensetracker/internal/expense"
	"github.com/MrJamesThe3rd/expensetracker/internal/expense/memory"
	"github.com/MrJamesThe3rd/expensetracker/internal/expense/store"
)

// Backend is an opened repository together with its shutdown hook.
type Backend struct {
	Repository expense.Repository
	Close      func(ctx context.Context) error
}

func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Store.Backend {
	case "memory":
		slog.Info("using in-memory store")

		return &Backend{
			Repository: memory.New(),
			Close:      func(context.Context) error { return nil },
		}, nil
	case "mongo":
		return openMongo(ctx, cfg)
	}

	return nil, fmt.Errorf("unsupported backend: %s", cfg.Store.Backend)
}

func openMongo(ctx context.Context, cfg *config.Config) (*Backend, error) {
	client, err := database.New(ctx, cfg.Mongo.URI, cfg.Mongo.ConnectTimeout)
	if err != nil {
		return nil, err
	}

	s := store.New(client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection))
	if err := s.EnsureIndexes(ctx); err != nil {
		slog.Warn("failed to ensure indexes", "error", err)
	}

	slog.Info("connected to mongo",
		"database", cfg.Mongo.Database,
		"collection", cfg.Mongo.Collection)

	return &Backend{
		Repository: s,
		Close:      client.Disconnect,
	}, nil
}
