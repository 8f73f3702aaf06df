// Package store persists car listings. Backends never validate listings and
// never hide soft-deleted records; both are left to callers.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nekruzvatanshoev/carlot/pkg/carlot/config"
	"github.com/nekruzvatanshoev/carlot/pkg/carlot/dal"
)

// Repository is the storage contract used by the HTTP handlers and the seed
// command.
type Repository interface {
	// Create assigns an identifier and persists car.
	Create(ctx context.Context, car dal.Car) (dal.Car, error)
	// FindAll returns every record matching filter in insertion order,
	// soft-deleted ones included.
	FindAll(ctx context.Context, filter Filter) ([]dal.Car, error)
	// FindByID returns nil when no record has the identifier.
	FindByID(ctx context.Context, id string) (*dal.Car, error)
	// UpdateByID applies update atomically and returns the updated record,
	// or nil when no record matched.
	UpdateByID(ctx context.Context, id string, update Update) (*dal.Car, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Update lists the fields written by UpdateByID. Nil fields are untouched.
type Update struct {
	// Car overwrites every listing field. Its ID and IsDeleted are ignored.
	Car       *dal.Car
	IsDeleted *bool
	// ActiveOnly skips soft-deleted records, which then read as absent.
	ActiveOnly bool
}

// SoftDelete is the update that flags a record as deleted.
func SoftDelete() Update {
	deleted := true
	return Update{IsDeleted: &deleted}
}

// Replace overwrites the listing fields of a record that is not deleted.
func Replace(car dal.Car) Update {
	listing := car.Listing()
	return Update{Car: &listing, ActiveOnly: true}
}

// Open connects the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (Repository, error) {
	switch cfg.Driver {
	case config.DriverMemory, "":
		return NewMemoryRepository(), nil
	case config.DriverMongo:
		return NewMongoRepository(ctx, cfg.Mongo, cfg.Timeout, logger)
	case config.DriverPostgres:
		return NewPostgresRepository(ctx, cfg.Postgres, cfg.Timeout, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// Active drops soft-deleted records, keeping order.
func Active(cars []dal.Car) []dal.Car {
	out := make([]dal.Car, 0, len(cars))
	for _, c := range cars {
		if !c.IsDeleted {
			out = append(out, c)
		}
	}
	return out
}
