package sqlite

import (
	"context"
	"sync"

	"github.com/bnema/ico256/internal/application/port"
	"github.com/bnema/ico256/internal/domain/entity"
	"github.com/bnema/ico256/internal/domain/repository"
)

// LazyConversionRepository wraps a conversion repository with lazy database initialization.
type LazyConversionRepository struct {
	provider port.DatabaseProvider
	repo     repository.ConversionRepository
	once     sync.Once
	initErr  error
}

// NewLazyConversionRepository creates a lazy-loading conversion repository.
func NewLazyConversionRepository(provider port.DatabaseProvider) repository.ConversionRepository {
	return &LazyConversionRepository{provider: provider}
}

func (r *LazyConversionRepository) init(ctx context.Context) error {
	r.once.Do(func() {
		db, err := r.provider.DB(ctx)
		if err != nil {
			r.initErr = err
			return
		}
		r.repo = NewConversionRepository(db)
	})
	return r.initErr
}

func (r *LazyConversionRepository) Save(ctx context.Context, record *entity.ConversionRecord) error {
	if err := r.init(ctx); err != nil {
		return err
	}
	return r.repo.Save(ctx, record)
}

func (r *LazyConversionRepository) GetRecent(ctx context.Context, limit int) ([]*entity.ConversionRecord, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	return r.repo.GetRecent(ctx, limit)
}

func (r *LazyConversionRepository) FindByDigest(ctx context.Context, digest string) (*entity.ConversionRecord, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	return r.repo.FindByDigest(ctx, digest)
}

func (r *LazyConversionRepository) Delete(ctx context.Context, id int64) error {
	if err := r.init(ctx); err != nil {
		return err
	}
	return r.repo.Delete(ctx, id)
}

func (r *LazyConversionRepository) DeleteAll(ctx context.Context) error {
	if err := r.init(ctx); err != nil {
		return err
	}
	return r.repo.DeleteAll(ctx)
}

func (r *LazyConversionRepository) Prune(ctx context.Context, keep int) (int64, error) {
	if err := r.init(ctx); err != nil {
		return 0, err
	}
	return r.repo.Prune(ctx, keep)
}

func (r *LazyConversionRepository) GetStats(ctx context.Context) (*entity.HistoryStats, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	return r.repo.GetStats(ctx)
}
