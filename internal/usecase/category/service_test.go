package category

import (
	"context"
	"errors"
	"testing"

	domain "backoffice/catalog/internal/domain/category"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepository struct {
	categories []*domain.Category
	err        error
}

func (r stubRepository) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	for _, c := range r.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r stubRepository) List(context.Context) ([]*domain.Category, error) {
	return r.categories, r.err
}

func TestChoices(t *testing.T) {
	svc := NewService(stubRepository{categories: []*domain.Category{
		{ID: 2, Name: "Books", Description: "Paper"},
		{ID: 1, Name: "Games"},
	}})

	choices, err := svc.Choices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Choice{{ID: 2, Name: "Books"}, {ID: 1, Name: "Games"}}, choices)
}

func TestChoicesEmpty(t *testing.T) {
	choices, err := NewService(stubRepository{}).Choices(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, choices)
	assert.Empty(t, choices)
}

func TestChoicesPropagatesError(t *testing.T) {
	boom := errors.New("connection reset")
	_, err := NewService(stubRepository{err: boom}).Choices(context.Background())
	assert.ErrorIs(t, err, boom)
}
