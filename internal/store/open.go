package store

import (
	"context"
	"fmt"

	"github.com/inamate/whiteboard/internal/db"
)

// Drivers accepted by Open.
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Open builds the store for driver. The returned func releases it.
func Open(ctx context.Context, driver, dataDir, databaseURL string) (Store, func(), error) {
	switch driver {
	case DriverMemory:
		return NewMemory(), func() {}, nil
	case DriverFile:
		return NewFile(dataDir), func() {}, nil
	case DriverPostgres:
		pool, err := db.NewPool(ctx, databaseURL)
		if err != nil {
			return nil, nil, err
		}
		pg, err := NewPostgres(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return pg, pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", driver)
}
