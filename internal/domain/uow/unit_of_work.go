package uow

import (
	"context"
	"errors"
	"fmt"

	"backoffice/catalog/internal/domain/category"
	"backoffice/catalog/internal/domain/product"
)

// ErrPersistence classifies failed relational commits.
var ErrPersistence = errors.New("persistence failed")

// UnitOfWork groups repositories behind a single commit boundary. Writes made
// through its repositories are staged until Complete.
type UnitOfWork interface {
	Products() product.Repository
	Categories() category.Repository
	// Complete persists every staged change in one transaction. On failure no
	// staged change is visible.
	Complete(ctx context.Context) error
}

// Factory creates a fresh unit of work per operation.
type Factory interface {
	New() UnitOfWork
}

// PersistenceError reports a failed commit.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("commit %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is makes every PersistenceError match ErrPersistence.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
