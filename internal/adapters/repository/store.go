// Package repository keeps finished solve results so they can be fetched by id.
package repository

import (
	"context"
	"time"

	"github.com/okian/rosterbias/internal/domain/solver"
)

// Record is one stored solve.
type Record struct {
	ID        string
	CreatedAt time.Time
	Duration  time.Duration
	Seed      int64
	Result    *solver.TeamResult
}

// Store provides read/write access to solve results.
type Store interface {
	// Put stores rec under rec.ID, replacing any previous record.
	Put(ctx context.Context, rec Record) error

	// Get returns the record for id.
	// Returns ErrNotFound if the id is unknown or was evicted.
	Get(ctx context.Context, id string) (Record, error)

	// Count returns the number of records held.
	Count(ctx context.Context) int
}
