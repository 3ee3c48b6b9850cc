package postgres

import (
	"context"
	"errors"

	"backoffice/catalog/internal/domain/category"
	"backoffice/catalog/internal/domain/product"
	"backoffice/catalog/internal/domain/uow"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// stagedOp is a write deferred until the unit of work completes.
type stagedOp struct {
	name  string
	apply func(ctx context.Context, tx pgx.Tx) error
}

// UnitOfWorkFactory hands out one unit of work per operation.
type UnitOfWorkFactory struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// Ensure UnitOfWorkFactory implements the uow.Factory interface.
var _ uow.Factory = (*UnitOfWorkFactory)(nil)

// NewUnitOfWorkFactory constructs a factory over the pool.
func NewUnitOfWorkFactory(pool *pgxpool.Pool, logger *zap.Logger) *UnitOfWorkFactory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UnitOfWorkFactory{pool: pool, logger: logger.Named("uow")}
}

// New returns an empty unit of work.
func (f *UnitOfWorkFactory) New() uow.UnitOfWork {
	u := &UnitOfWork{pool: f.pool, logger: f.logger}
	u.products = &ProductRepository{db: f.pool, stage: u.stage}
	u.categories = &CategoryRepository{db: f.pool}
	return u
}

// UnitOfWork stages repository writes and commits them in one transaction.
// It is not safe for concurrent use.
type UnitOfWork struct {
	pool       *pgxpool.Pool
	logger     *zap.Logger
	staged     []stagedOp
	products   *ProductRepository
	categories *CategoryRepository
}

// Products returns the product repository bound to this unit of work.
func (u *UnitOfWork) Products() product.Repository {
	return u.products
}

// Categories returns the category repository.
func (u *UnitOfWork) Categories() category.Repository {
	return u.categories
}

func (u *UnitOfWork) stage(op stagedOp) {
	u.staged = append(u.staged, op)
}

// Complete applies every staged write inside a single transaction. Staged
// writes are cleared whether or not the commit succeeds.
func (u *UnitOfWork) Complete(ctx context.Context) (err error) {
	staged := u.staged
	u.staged = nil
	if len(staged) == 0 {
		return nil
	}

	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return &uow.PersistenceError{Op: "begin", Err: err}
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			u.logger.Error("rollback failed", zap.Error(rbErr))
		}
	}()

	for _, op := range staged {
		if err := op.apply(ctx, tx); err != nil {
			u.logger.Warn("staged write failed", zap.String("op", op.name), zap.Error(err))
			return &uow.PersistenceError{Op: op.name, Err: err}
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return &uow.PersistenceError{Op: "commit", Err: err}
	}
	u.logger.Debug("unit of work committed", zap.Int("writes", len(staged)))
	return nil
}
