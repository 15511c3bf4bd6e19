package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/ico256/internal/domain/entity"
	"github.com/bnema/ico256/internal/domain/repository"
	"github.com/bnema/ico256/internal/logging"
)

const conversionColumns = `id, run_id, source_name, media_type, source_bytes, source_digest,
	background, sizes, ico_bytes, export_path, created_at`

const (
	insertConversion = `INSERT INTO conversions (
	run_id, source_name, media_type, source_bytes, source_digest,
	background, sizes, ico_bytes, export_path, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectRecentConversions = `SELECT ` + conversionColumns + `
FROM conversions
ORDER BY created_at DESC, id DESC
LIMIT ?`

	selectConversionByDigest = `SELECT ` + conversionColumns + `
FROM conversions
WHERE source_digest = ?
ORDER BY created_at DESC, id DESC
LIMIT 1`

	deleteConversion     = `DELETE FROM conversions WHERE id = ?`
	deleteAllConversions = `DELETE FROM conversions`

	pruneConversions = `DELETE FROM conversions
WHERE id NOT IN (
	SELECT id FROM conversions
	ORDER BY created_at DESC, id DESC
	LIMIT ?
)`

	selectConversionStats = `SELECT COUNT(*), COALESCE(SUM(ico_bytes), 0), COALESCE(MAX(created_at), 0)
FROM conversions`
)

type conversionRepo struct {
	db *sql.DB
}

// NewConversionRepository creates a new SQLite-backed conversion repository.
func NewConversionRepository(db *sql.DB) repository.ConversionRepository {
	return &conversionRepo{db: db}
}

func (r *conversionRepo) Save(ctx context.Context, record *entity.ConversionRecord) error {
	log := logging.FromContext(ctx)
	log.Debug().Str("run_id", record.RunID).Str("source", record.SourceName).Msg("saving conversion record")

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
		record.CreatedAt = createdAt
	}

	res, err := r.db.ExecContext(ctx, insertConversion,
		record.RunID,
		record.SourceName,
		record.MediaType,
		record.SourceBytes,
		record.SourceDigest,
		string(record.Background),
		entity.FormatSizes(record.Sizes),
		record.IcoBytes,
		sql.NullString{String: record.ExportPath, Valid: record.ExportPath != ""},
		createdAt.UnixMilli(),
	)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	record.ID = id
	return nil
}

func (r *conversionRepo) GetRecent(ctx context.Context, limit int) ([]*entity.ConversionRecord, error) {
	if limit <= 0 {
		return []*entity.ConversionRecord{}, nil
	}

	rows, err := r.db.QueryContext(ctx, selectRecentConversions, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*entity.ConversionRecord, 0, limit)
	for rows.Next() {
		record, err := scanConversion(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *conversionRepo) FindByDigest(ctx context.Context, digest string) (*entity.ConversionRecord, error) {
	record, err := scanConversion(r.db.QueryRowContext(ctx, selectConversionByDigest, digest))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

func (r *conversionRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, deleteConversion, id)
	return err
}

func (r *conversionRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, deleteAllConversions)
	return err
}

func (r *conversionRepo) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := r.db.ExecContext(ctx, pruneConversions, keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *conversionRepo) GetStats(ctx context.Context) (*entity.HistoryStats, error) {
	var (
		stats  entity.HistoryStats
		lastMs int64
	)
	err := r.db.QueryRowContext(ctx, selectConversionStats).Scan(&stats.TotalRuns, &stats.TotalIcoBytes, &lastMs)
	if err != nil {
		return nil, err
	}
	if lastMs > 0 {
		stats.LastRun = time.UnixMilli(lastMs)
	}
	return &stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConversion(row rowScanner) (*entity.ConversionRecord, error) {
	var (
		record     entity.ConversionRecord
		background string
		sizes      string
		exportPath sql.NullString
		createdMs  int64
	)
	err := row.Scan(
		&record.ID,
		&record.RunID,
		&record.SourceName,
		&record.MediaType,
		&record.SourceBytes,
		&record.SourceDigest,
		&background,
		&sizes,
		&record.IcoBytes,
		&exportPath,
		&createdMs,
	)
	if err != nil {
		return nil, err
	}

	record.Background = entity.Background(background)
	record.ExportPath = exportPath.String
	record.CreatedAt = time.UnixMilli(createdMs)
	if record.Sizes, err = parseStoredSizes(sizes); err != nil {
		return nil, fmt.Errorf("conversion %d: %w", record.ID, err)
	}
	return &record, nil
}

func parseStoredSizes(value string) ([]entity.IconSize, error) {
	if strings.TrimSpace(value) == "" {
		return []entity.IconSize{}, nil
	}
	return entity.ParseIconSizes([]string{value})
}
