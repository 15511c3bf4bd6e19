// Package repository declares the persistence ports of the domain.
package repository

//go:generate mockgen -source=conversion.go -destination=mocks/mock_conversion.go

import (
	"context"

	"github.com/bnema/ico256/internal/domain/entity"
)

// ConversionRepository persists the history of conversion runs.
type ConversionRepository interface {
	// Save inserts a record and sets its ID.
	Save(ctx context.Context, record *entity.ConversionRecord) error

	// GetRecent returns up to limit records, newest first.
	GetRecent(ctx context.Context, limit int) ([]*entity.ConversionRecord, error)

	// FindByDigest returns the newest record for a source digest, or nil when none exists.
	FindByDigest(ctx context.Context, digest string) (*entity.ConversionRecord, error)

	// Delete removes a single record by ID.
	Delete(ctx context.Context, id int64) error

	// DeleteAll removes every record.
	DeleteAll(ctx context.Context) error

	// Prune keeps the newest keep records and returns how many were removed.
	Prune(ctx context.Context, keep int) (int64, error)

	// GetStats summarizes the stored history.
	GetStats(ctx context.Context) (*entity.HistoryStats, error)
}
