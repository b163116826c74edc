// Package storage opens the repositories of the configured backend.
package storage

import (
	"context"
	"fmt"
	"log"

	"grocery-admin/internal/config"
	"grocery-admin/internal/repository"
	"grocery-admin/internal/service"
)

type Store struct {
	Repos service.Repositories
	close func(context.Context) error
}

func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects to the backend selected by STORAGE_DRIVER.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.StorageDriver {
	case config.DriverMongo:
		m, err := repository.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, fmt.Errorf("mongo: %w", err)
		}
		log.Printf("[Storage] MongoDB %s", cfg.MongoDBName)
		return &Store{
			Repos: service.Repositories{Orders: m.Orders(), Users: m.Users(), Roles: m.Roles(), Catalog: m.Catalog()},
			close: m.Close,
		}, nil

	case config.DriverMySQL:
		g, err := repository.OpenGorm(cfg.MySQLDSN)
		if err != nil {
			return nil, fmt.Errorf("mysql: %w", err)
		}
		if err := g.Migrate(ctx); err != nil {
			_ = g.Close()
			return nil, fmt.Errorf("mysql migrate: %w", err)
		}
		log.Println("[Storage] MySQL")
		return &Store{
			Repos: service.Repositories{Orders: g.Orders(), Users: g.Users(), Roles: g.Roles(), Catalog: g.Catalog()},
			close: func(context.Context) error { return g.Close() },
		}, nil

	case config.DriverMemory:
		log.Println("[Storage] memory (data hilang saat proses berhenti)")
		return &Store{Repos: Memory(repository.NewMemoryStore())}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

// Memory groups the repositories of an in-memory store.
func Memory(m *repository.MemoryStore) service.Repositories {
	return service.Repositories{Orders: m.Orders(), Users: m.Users(), Roles: m.Roles(), Catalog: m.Catalog()}
}
