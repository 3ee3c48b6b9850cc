package postgres

import (
	"time"

	"backoffice/catalog/internal/domain/category"
)

// nullableCategory receives the LEFT JOIN side of a product query.
type nullableCategory struct {
	ID          *int64
	Name        *string
	Description *string
	CreatedAt   *time.Time
}

func (c nullableCategory) category() *category.Category {
	if c.ID == nil {
		return nil
	}
	out := &category.Category{ID: *c.ID}
	if c.Name != nil {
		out.Name = *c.Name
	}
	if c.Description != nil {
		out.Description = *c.Description
	}
	if c.CreatedAt != nil {
		out.CreatedAt = *c.CreatedAt
	}
	return out
}
