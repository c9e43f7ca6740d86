package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sekolahku/presensi-backend/internal/model"
)

// ParentRepository handles parent profile data access.
type ParentRepository struct {
	pool *pgxpool.Pool
}

// NewParentRepository creates a new ParentRepository.
func NewParentRepository(pool *pgxpool.Pool) *ParentRepository {
	return &ParentRepository{pool: pool}
}

// GetByID retrieves a parent with the display name from the linked user.
func (r *ParentRepository) GetByID(ctx context.Context, id int) (*model.Parent, error) {
	p := &model.Parent{}
	err := r.pool.QueryRow(ctx,
		`SELECT p.id, p.user_id, u.name, p.no_telp, p.address, p.created_at, p.updated_at
		 FROM parents p
		 JOIN users u ON u.id = p.user_id
		 WHERE p.id = $1`, id,
	).Scan(&p.ID, &p.UserID, &p.Name, &p.NoTelp, &p.Address, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List retrieves all parents ordered by name.
func (r *ParentRepository) List(ctx context.Context) ([]model.Parent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.id, p.user_id, u.name, p.no_telp, p.address, p.created_at, p.updated_at
		 FROM parents p
		 JOIN users u ON u.id = p.user_id
		 ORDER BY u.name, p.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parents []model.Parent
	for rows.Next() {
		var p model.Parent
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.NoTelp, &p.Address, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		parents = append(parents, p)
	}
	return parents, rows.Err()
}

// Create inserts a new parent profile.
func (r *ParentRepository) Create(ctx context.Context, p *model.Parent) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO parents (user_id, no_telp, address)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		p.UserID, p.NoTelp, p.Address,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// Update modifies an existing parent profile.
func (r *ParentRepository) Update(ctx context.Context, p *model.Parent) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE parents SET no_telp = $1, address = $2, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $3`,
		p.NoTelp, p.Address, p.ID,
	)
	return err
}

// Delete removes a parent profile by ID.
func (r *ParentRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM parents WHERE id = $1`, id)
	return err
}
