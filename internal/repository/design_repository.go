package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"bakebot/internal/domain"
	"bakebot/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const designColumns = `id, baker_id, title, description, image_url, configuration, estimated_price, created_at`

// designRepository handles saved cake designs
type designRepository struct {
	db *database.PostgresDB
}

// NewDesignRepository creates a new design repository
func NewDesignRepository(db *database.PostgresDB) DesignRepository {
	return &designRepository{db: db}
}

func scanDesign(row pgx.Row) (*domain.CakeDesign, error) {
	d := &domain.CakeDesign{}
	var cfg []byte
	err := row.Scan(
		&d.ID,
		&d.BakerID,
		&d.Title,
		&d.Description,
		&d.ImageURL,
		&cfg,
		&d.EstimatedPrice,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(cfg) > 0 {
		if err := json.Unmarshal(cfg, &d.Configuration); err != nil {
			return nil, fmt.Errorf("invalid configuration for design %s: %w", d.ID, err)
		}
	}
	return d, nil
}

// ListByBaker returns a baker's designs, newest first
func (r *designRepository) ListByBaker(ctx context.Context, bakerID string) ([]*domain.CakeDesign, error) {
	query := `SELECT ` + designColumns + ` FROM cake_designs WHERE baker_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.GetReadPool().Query(ctx, query, bakerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list designs: %w", err)
	}
	defer rows.Close()

	designs := make([]*domain.CakeDesign, 0)
	for rows.Next() {
		d, err := scanDesign(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan design row: %w", err)
		}
		designs = append(designs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating design rows: %w", err)
	}
	return designs, nil
}

// GetByID returns nil, nil when the design does not exist for this baker
func (r *designRepository) GetByID(ctx context.Context, bakerID, id string) (*domain.CakeDesign, error) {
	query := `SELECT ` + designColumns + ` FROM cake_designs WHERE baker_id = $1 AND id = $2`

	d, err := scanDesign(r.db.Pool.QueryRow(ctx, query, bakerID, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get design: %w", err)
	}
	return d, nil
}

// Create inserts a new design
func (r *designRepository) Create(ctx context.Context, design *domain.CakeDesign) error {
	query := `
		INSERT INTO cake_designs (id, baker_id, title, description, image_url, configuration, estimated_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	cfg, err := json.Marshal(design.Configuration)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	if design.ID == "" {
		design.ID = uuid.NewString()
	}

	err = r.db.Pool.QueryRow(ctx, query,
		design.ID,
		design.BakerID,
		design.Title,
		design.Description,
		design.ImageURL,
		cfg,
		design.EstimatedPrice,
	).Scan(&design.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create design: %w", err)
	}
	return nil
}

// Delete removes a design
func (r *designRepository) Delete(ctx context.Context, bakerID, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM cake_designs WHERE baker_id = $1 AND id = $2`, bakerID, id)
	if err != nil {
		return fmt.Errorf("failed to delete design: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
