package postgres

import (
	"context"
	"errors"

	domain "backoffice/catalog/internal/domain/category"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CategoryRepository reads categories from PostgreSQL.
type CategoryRepository struct {
	db querier
}

// NewCategoryRepository constructs a repository.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{db: pool}
}

// GetByID fetches a category by id.
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	const query = `
SELECT id, name, description, created_at
FROM categories WHERE id = $1
`
	var c domain.Category
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// List returns all categories sorted by name.
func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	const query = `
SELECT id, name, description, created_at
FROM categories
ORDER BY name ASC
`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}
