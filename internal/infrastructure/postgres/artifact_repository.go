package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/twinrisk/twinrisk/internal/domain/model"
	pgutil "github.com/twinrisk/twinrisk/pkg/postgres"
)

// ArtifactRepository implements port.ArtifactRepository using PostgreSQL.
type ArtifactRepository struct {
	pool *pgxpool.Pool
}

// NewArtifactRepository creates a new PostgreSQL-backed artifact repository.
func NewArtifactRepository(pool *pgxpool.Pool) *ArtifactRepository {
	return &ArtifactRepository{pool: pool}
}

// Save inserts an artifact. An active artifact replaces the previous active one
// atomically.
func (r *ArtifactRepository) Save(ctx context.Context, record *model.ArtifactRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	return pgutil.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if record.Active {
			if _, err := tx.Exec(ctx, `UPDATE model_artifacts SET active = FALSE WHERE active`); err != nil {
				return fmt.Errorf("failed to deactivate artifacts: %w", err)
			}
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO model_artifacts (id, model_version, checksum, payload, active, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, record.ID, record.ModelVersion, record.Checksum, record.Payload, record.Active, record.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to save artifact %s: %w", record.ModelVersion, err)
		}
		return nil
	})
}

// Activate makes modelVersion the only active artifact. Concurrent activations
// serialize; the loser fails rather than leaving two active rows.
func (r *ArtifactRepository) Activate(ctx context.Context, modelVersion string) error {
	opts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	return pgutil.WithTransactionOptions(ctx, r.pool, opts, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE model_artifacts SET active = FALSE WHERE active`); err != nil {
			return fmt.Errorf("failed to deactivate artifacts: %w", err)
		}
		tag, err := tx.Exec(ctx, `UPDATE model_artifacts SET active = TRUE WHERE model_version = $1`, modelVersion)
		if err != nil {
			return fmt.Errorf("failed to activate artifact %s: %w", modelVersion, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("artifact %s: %w", modelVersion, model.ErrArtifactNotFound)
		}
		return nil
	})
}

// FindActive returns the active artifact including its payload.
func (r *ArtifactRepository) FindActive(ctx context.Context) (*model.ArtifactRecord, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, model_version, checksum, payload, active, created_at
		FROM model_artifacts
		WHERE active
	`)

	var rec model.ArtifactRecord
	err := row.Scan(&rec.ID, &rec.ModelVersion, &rec.Checksum, &rec.Payload, &rec.Active, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("failed to load active artifact: %w", err)
	}

	rec.Origin = model.OriginDatabase
	rec.Location = rec.ID.String()
	return &rec, nil
}

// List returns artifact metadata, newest first. Payloads are not loaded.
func (r *ArtifactRepository) List(ctx context.Context, limit int) ([]*model.ArtifactRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, model_version, checksum, active, created_at
		FROM model_artifacts
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query artifacts: %w", err)
	}
	defer rows.Close()

	var out []*model.ArtifactRecord
	for rows.Next() {
		rec := &model.ArtifactRecord{Origin: model.OriginDatabase}
		if err := rows.Scan(&rec.ID, &rec.ModelVersion, &rec.Checksum, &rec.Active, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan artifact row: %w", err)
		}
		rec.Location = rec.ID.String()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate artifacts: %w", err)
	}
	return out, nil
}

// ActiveArtifactSource adapts the repository to the loader's ArtifactSource port.
type ActiveArtifactSource struct {
	repo *ArtifactRepository
}

// NewActiveArtifactSource returns a source yielding the active artifact.
func NewActiveArtifactSource(repo *ArtifactRepository) *ActiveArtifactSource {
	return &ActiveArtifactSource{repo: repo}
}

func (s *ActiveArtifactSource) Name() string { return "postgres" }

func (s *ActiveArtifactSource) Fetch(ctx context.Context) (*model.ArtifactRecord, error) {
	return s.repo.FindActive(ctx)
}
