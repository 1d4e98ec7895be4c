package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/unemployment-navigator/internal/cache"
	"github.com/jonathan/unemployment-navigator/internal/catalog"
	"github.com/jonathan/unemployment-navigator/internal/config"
	"github.com/jonathan/unemployment-navigator/internal/conversation"
	"github.com/jonathan/unemployment-navigator/internal/db"
	"github.com/jonathan/unemployment-navigator/internal/events"
	"github.com/jonathan/unemployment-navigator/internal/localstore"
	"github.com/jonathan/unemployment-navigator/internal/observability"
	"github.com/jonathan/unemployment-navigator/internal/server"
	"github.com/jonathan/unemployment-navigator/internal/session"
)

const (
	connectTimeout = 10 * time.Second
	saveTimeout    = 5 * time.Second
)

// backend is an opened session store plus what it takes to shut it down.
type backend struct {
	store   session.Store
	checks  map[string]server.HealthCheck
	closers []func()

	// latest finds the most recently used session; only some stores can.
	latest func(ctx context.Context) (string, error)
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// applyStoreFlags overrides the configured store and revalidates.
func applyStoreFlags(c *config.Config, store, path string) error {
	if store != "" {
		c.Store = store
	}
	if path != "" {
		c.StorePath = path
	}
	if c.Store == config.StoreFile && c.StorePath == "" {
		c.StorePath = "sessions"
	}
	if c.Store == config.StoreSQLite && c.StorePath == "" {
		c.StorePath = "navigator.db"
	}
	return c.Validate()
}

func loadCatalog(c *config.Config) (*catalog.Catalog, error) {
	if c.CatalogDir != "" {
		cat, err := catalog.LoadDir(c.CatalogDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog from %s: %w", c.CatalogDir, err)
		}
		return cat, nil
	}
	cat, err := catalog.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded catalog: %w", err)
	}
	return cat, nil
}

func openBackend(ctx context.Context, c *config.Config) (*backend, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	b := &backend{checks: map[string]server.HealthCheck{}}
	switch c.Store {
	case config.StoreMemory:
		b.store = session.NewMemoryStore()

	case config.StoreFile:
		fs, err := session.NewFileStore(c.StorePath)
		if err != nil {
			return nil, err
		}
		b.store = fs

	case config.StoreSQLite:
		ls, err := localstore.Open(c.StorePath)
		if err != nil {
			return nil, err
		}
		b.store = ls
		b.latest = ls.Latest
		b.closers = append(b.closers, func() { _ = ls.Close() })

	case config.StorePostgres:
		database, err := db.Connect(ctx, c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to prepare database schema: %w", err)
		}
		b.store = database
		b.checks["database"] = database.Ping
		b.closers = append(b.closers, database.Close)

	case config.StoreRedis:
		rs, err := cache.Dial(ctx, c.RedisURL, c.SessionTTL())
		if err != nil {
			return nil, err
		}
		b.store = rs
		b.checks["redis"] = rs.Ping
		b.closers = append(b.closers, func() { _ = rs.Close() })

	default:
		return nil, fmt.Errorf("unknown store %q", c.Store)
	}
	observability.Logger().Debug("session store opened", "store", c.Store)
	return b, nil
}

func newPublisher(c *config.Config) events.Publisher {
	if len(c.KafkaBrokers) == 0 {
		return events.Noop{}
	}
	return events.NewKafkaPublisher(c.KafkaBrokers, c.KafkaTopic)
}

// newService builds the conversation service over b. The returned function
// flushes pending saves and closes the publisher; call it before b.Close.
func newService(c *config.Config, cat *catalog.Catalog, b *backend, pacer conversation.Pacer) (*conversation.Service, func(), error) {
	persister := session.NewStorePersister(b.store, saveTimeout)
	publisher := newPublisher(c)

	svc, err := conversation.New(cat, conversation.Options{
		Store:     b.store,
		Persister: persister,
		Publisher: publisher,
		Pacer:     pacer,
	})
	if err != nil {
		persister.Close()
		_ = publisher.Close()
		return nil, nil, err
	}

	shutdown := func() {
		persister.Close()
		if err := publisher.Close(); err != nil {
			observability.Logger().Warn("failed to close event publisher", "error", err)
		}
	}
	return svc, shutdown, nil
}
