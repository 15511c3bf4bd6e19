package usecase

import (
	"context"
	"fmt"

	"github.com/bnema/ico256/internal/domain/entity"
	"github.com/bnema/ico256/internal/domain/repository"
	"github.com/bnema/ico256/internal/logging"
)

// DefaultHistoryEntries is how many conversions are kept when no limit is configured.
const DefaultHistoryEntries = 5

// ManageHistoryUseCase records conversion runs and keeps the history bounded.
type ManageHistoryUseCase struct {
	repo       repository.ConversionRepository
	maxEntries int
}

// NewManageHistoryUseCase creates a new ManageHistoryUseCase.
// maxEntries <= 0 falls back to DefaultHistoryEntries.
func NewManageHistoryUseCase(repo repository.ConversionRepository, maxEntries int) *ManageHistoryUseCase {
	if maxEntries <= 0 {
		maxEntries = DefaultHistoryEntries
	}
	return &ManageHistoryUseCase{repo: repo, maxEntries: maxEntries}
}

// MaxEntries returns the retention bound.
func (uc *ManageHistoryUseCase) MaxEntries() int {
	return uc.maxEntries
}

// Record saves a summary of run and prunes the oldest records past the bound.
func (uc *ManageHistoryUseCase) Record(
	ctx context.Context,
	run *entity.ConversionRun,
	sourceBytes int64,
	exportPath string,
) (*entity.ConversionRecord, error) {
	log := logging.FromContext(ctx)

	record := run.Record(sourceBytes, exportPath)
	if err := uc.repo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("save conversion record: %w", err)
	}

	pruned, err := uc.repo.Prune(ctx, uc.maxEntries)
	if err != nil {
		return record, fmt.Errorf("prune history: %w", err)
	}

	log.Debug().
		Int64("id", record.ID).
		Str("source", record.SourceName).
		Int64("pruned", pruned).
		Msg("conversion recorded")
	return record, nil
}

// Recent returns up to limit records, newest first. limit <= 0 means the bound.
func (uc *ManageHistoryUseCase) Recent(ctx context.Context, limit int) ([]*entity.ConversionRecord, error) {
	if limit <= 0 {
		limit = uc.maxEntries
	}
	return uc.repo.GetRecent(ctx, limit)
}

// FindByDigest returns the newest record of a source, or nil.
func (uc *ManageHistoryUseCase) FindByDigest(ctx context.Context, digest string) (*entity.ConversionRecord, error) {
	return uc.repo.FindByDigest(ctx, digest)
}

// Delete removes one record.
func (uc *ManageHistoryUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

// Clear removes every record.
func (uc *ManageHistoryUseCase) Clear(ctx context.Context) error {
	logging.FromContext(ctx).Info().Msg("clearing conversion history")
	return uc.repo.DeleteAll(ctx)
}

// Stats summarizes the history.
func (uc *ManageHistoryUseCase) Stats(ctx context.Context) (*entity.HistoryStats, error) {
	return uc.repo.GetStats(ctx)
}
