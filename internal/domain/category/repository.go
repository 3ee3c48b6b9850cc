package category

import "context"

// Repository defines read behaviours for categories.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
}
