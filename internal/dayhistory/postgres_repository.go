package dayhistory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paulmach/orb/geojson"
)

// PostgresMetaStore is a PostgreSQL implementation of MetaStore. The record
// is stored as a single jsonb row addressed by MetaKey, mirroring the
// key-value shape of the browser-storage original.
type PostgresMetaStore struct {
	pool *pgxpool.Pool
}

// NewPostgresMetaStore creates a PostgreSQL metadata store.
func NewPostgresMetaStore(pool *pgxpool.Pool) *PostgresMetaStore {
	return &PostgresMetaStore{pool: pool}
}

// ReadMeta retrieves the metadata record.
func (s *PostgresMetaStore) ReadMeta(ctx context.Context) (Meta, error) {
	query := `SELECT data FROM day_history_meta WHERE key = $1`

	var meta Meta
	err := s.pool.QueryRow(ctx, query, MetaKey).Scan(&meta)
	if errors.Is(err, pgx.ErrNoRows) {
		return Meta{}, ErrMetaNotFound
	}
	if err != nil {
		return Meta{}, fmt.Errorf("read day history meta: %w", err)
	}
	return meta, nil
}

// WriteMeta upserts the metadata record.
func (s *PostgresMetaStore) WriteMeta(ctx context.Context, meta Meta) error {
	query := `
		INSERT INTO day_history_meta (key, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`

	if _, err := s.pool.Exec(ctx, query, MetaKey, meta); err != nil {
		return fmt.Errorf("write day history meta: %w", err)
	}
	return nil
}

// PostgresPathStore is a PostgreSQL implementation of PathStore, one jsonb
// FeatureCollection per day id.
type PostgresPathStore struct {
	pool *pgxpool.Pool
}

// NewPostgresPathStore creates a PostgreSQL path store.
func NewPostgresPathStore(pool *pgxpool.Pool) *PostgresPathStore {
	return &PostgresPathStore{pool: pool}
}

// ReadPath retrieves the geometry for a day.
func (s *PostgresPathStore) ReadPath(ctx context.Context, dayID string) (*geojson.FeatureCollection, error) {
	query := `SELECT data FROM day_paths WHERE day_id = $1`

	var data []byte
	err := s.pool.QueryRow(ctx, query, dayID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPathNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read day path: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode day path: %w", err)
	}
	return fc, nil
}

// WritePath upserts the geometry for a day.
func (s *PostgresPathStore) WritePath(ctx context.Context, dayID string, fc *geojson.FeatureCollection) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode day path: %w", err)
	}

	query := `
		INSERT INTO day_paths (day_id, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (day_id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`

	if _, err := s.pool.Exec(ctx, query, dayID, data); err != nil {
		return fmt.Errorf("write day path: %w", err)
	}
	return nil
}
