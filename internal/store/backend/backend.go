// Package backend opens the record store named by the configuration.
package backend

import (
	"context"
	"fmt"
	"log"

	"github.com/eldieng/Fawsayni-Tech/internal/config"
	"github.com/eldieng/Fawsayni-Tech/internal/store"
	"github.com/eldieng/Fawsayni-Tech/internal/store/memstore"
	"github.com/eldieng/Fawsayni-Tech/internal/store/mongostore"
	"github.com/eldieng/Fawsayni-Tech/internal/store/pgstore"
)

type Backend struct {
	Driver string
	Books  store.BookStore
	Users  store.UserStore
	// Migrate creates tables or indexes. It is idempotent.
	Migrate func(ctx context.Context) error
	Close   func(ctx context.Context) error
}

func Open(ctx context.Context, cfg config.StoreConfig) (*Backend, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := pgstore.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		s := pgstore.New(db)
		return &Backend{
			Driver:  cfg.Driver,
			Books:   s,
			Users:   s,
			Migrate: s.Migrate,
			Close:   func(context.Context) error { return db.Close() },
		}, nil

	case config.DriverMongo:
		s, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("mongo: %w", err)
		}
		return &Backend{
			Driver:  cfg.Driver,
			Books:   s,
			Users:   s,
			Migrate: s.EnsureIndexes,
			Close:   s.Close,
		}, nil

	case config.DriverMemory:
		log.Printf("[Store] using in-memory store; data is lost on exit")
		s := memstore.New()
		return &Backend{
			Driver:  cfg.Driver,
			Books:   s,
			Users:   s,
			Migrate: func(context.Context) error { return nil },
			Close:   func(context.Context) error { return nil },
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}
