package category

import (
	"context"

	domain "backoffice/catalog/internal/domain/category"
)

// Service exposes the read-only category listing used by product forms.
type Service struct {
	repo domain.Repository
}

// NewService constructs a category service.
func NewService(repo domain.Repository) *Service {
	return &Service{repo: repo}
}

// List retrieves all categories.
func (s *Service) List(ctx context.Context) ([]*domain.Category, error) {
	return s.repo.List(ctx)
}

// Choices returns id/name pairs for populating a selection list.
func (s *Service) Choices(ctx context.Context) ([]domain.Choice, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	choices := make([]domain.Choice, 0, len(categories))
	for _, c := range categories {
		choices = append(choices, domain.Choice{ID: c.ID, Name: c.Name})
	}
	return choices, nil
}
