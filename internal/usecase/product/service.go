package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"backoffice/catalog/internal/compensation"
	"backoffice/catalog/internal/domain/asset"
	"backoffice/catalog/internal/domain/category"
	domain "backoffice/catalog/internal/domain/product"
	"backoffice/catalog/internal/domain/uow"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Metrics receives lifecycle outcomes.
type Metrics interface {
	ObserveOperation(operation, result string)
	ObserveCompensation(ok bool)
	ObserveOrphan()
}

type noopMetrics struct{}

func (noopMetrics) ObserveOperation(string, string) {}
func (noopMetrics) ObserveCompensation(bool)        {}
func (noopMetrics) ObserveOrphan()                  {}

// Service encapsulates product use cases. It keeps a product row and its
// image asset consistent across the relational store and the asset store.
type Service struct {
	units     uow.Factory
	assets    asset.Store
	validator *Validator
	metrics   Metrics
	logger    *zap.Logger
	nowFunc   func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithLogger sets the logger used for lifecycle and cleanup events.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.nowFunc = now
	}
}

// NewService constructs a product service.
func NewService(units uow.Factory, assets asset.Store, opts ...Option) *Service {
	s := &Service{
		units:     units,
		assets:    assets,
		validator: NewValidator(),
		metrics:   noopMetrics{},
		logger:    zap.NewNop(),
		nowFunc:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("product")
	return s
}

// CreateInput contains the payload required for product creation.
type CreateInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  int64           `json:"categoryId"`
	Image       *asset.Upload   `json:"-"`
}

// UpdateInput encapsulates partial product updates. A nil Image keeps the
// current image.
type UpdateInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	CategoryID  *int64           `json:"categoryId"`
	Image       *asset.Upload    `json:"-"`
}

// Create validates and stores a new product. An uploaded image is written
// before the commit and removed again if the commit fails.
func (s *Service) Create(ctx context.Context, input CreateInput) (_ *domain.Product, err error) {
	defer func() { s.metrics.ObserveOperation("create", resultOf(err)) }()

	now := s.nowFunc().UTC()
	product := &domain.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Stock:       input.Stock,
		CategoryID:  input.CategoryID,
		Image:       asset.DefaultPath,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	work := s.units.New()
	cat, err := s.validate(ctx, work, product, input.Image)
	if err != nil {
		return nil, err
	}
	product.Category = cat

	var undo compensation.Actions
	if input.Image.Present() {
		path, err := s.saveAsset(ctx, &undo, *input.Image)
		if err != nil {
			return nil, err
		}
		product.Image = path
	}

	work.Products().Add(product)
	if err := work.Complete(ctx); err != nil {
		s.compensate(ctx, "create", &undo, err)
		return nil, err
	}
	undo.Discard()

	s.logger.Info("product created",
		zap.Int64("product_id", product.ID),
		zap.String("image", product.Image),
	)
	return product, nil
}

// List retrieves all products with their categories.
func (s *Service) List(ctx context.Context) ([]*domain.Product, error) {
	return s.units.New().Products().GetAll(ctx, true)
}

// Get fetches a product and its category by id.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.load(ctx, s.units.New(), id, true)
}

// OpenImage returns a reader for the image a product references, falling
// back to the placeholder when it has none.
func (s *Service) OpenImage(ctx context.Context, id int64) (string, io.ReadCloser, error) {
	product, err := s.load(ctx, s.units.New(), id, false)
	if err != nil {
		return "", nil, err
	}
	path := product.Image
	if !asset.IsCustom(path) {
		path = asset.DefaultPath
	}
	r, err := s.assets.Open(ctx, path)
	if err != nil {
		return "", nil, err
	}
	return path, r, nil
}

// MissingImages lists products whose custom image is absent from the asset
// store.
func (s *Service) MissingImages(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.units.New().Products().GetAll(ctx, false)
	if err != nil {
		return nil, err
	}
	missing := []*domain.Product{}
	for _, p := range products {
		if !asset.IsCustom(p.Image) {
			continue
		}
		ok, err := s.assets.Exists(ctx, p.Image)
		if err != nil {
			return nil, fmt.Errorf("check image of product %d: %w", p.ID, err)
		}
		if !ok {
			s.logger.Warn("product references a missing asset",
				zap.Int64("product_id", p.ID),
				zap.String("image", p.Image),
			)
			missing = append(missing, p)
		}
	}
	return missing, nil
}

// Update applies partial updates to a product. Without an upload the stored
// image is never written. With one, the new asset is swapped in only if the
// row still holds the image read here; the previous asset is deleted after
// the commit, and on any failure the new asset is removed instead.
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (_ *domain.Product, err error) {
	defer func() { s.metrics.ObserveOperation("update", resultOf(err)) }()

	work := s.units.New()
	current, err := s.load(ctx, work, id, false)
	if err != nil {
		return nil, err
	}

	next := current.Clone()
	next.Update(trimmed(input.Name), trimmed(input.Description), input.Price, input.Stock, input.CategoryID, s.nowFunc().UTC())
	cat, err := s.validate(ctx, work, next, input.Image)
	if err != nil {
		return nil, err
	}
	next.Category = cat

	var (
		undo    compensation.Actions
		retired string
	)
	work.Products().Update(next)
	if input.Image.Present() {
		path, err := s.saveAsset(ctx, &undo, *input.Image)
		if err != nil {
			return nil, err
		}
		next.Image = path
		work.Products().ReplaceImage(next, current.Image)
		retired = current.Image
	}

	if err := work.Complete(ctx); err != nil {
		s.compensate(ctx, "update", &undo, err)
		return nil, err
	}
	undo.Discard()

	s.retire(ctx, "update", retired)
	s.logger.Info("product updated",
		zap.Int64("product_id", next.ID),
		zap.String("image", next.Image),
	)
	return next, nil
}

// Delete removes a product and, once the row is gone, the image it held at
// deletion time.
func (s *Service) Delete(ctx context.Context, id int64) (err error) {
	defer func() { s.metrics.ObserveOperation("delete", resultOf(err)) }()

	work := s.units.New()
	product, err := s.load(ctx, work, id, false)
	if err != nil {
		return err
	}

	work.Products().Remove(product)
	if err := work.Complete(ctx); err != nil {
		return err
	}

	s.retire(ctx, "delete", product.Image)
	s.logger.Info("product deleted", zap.Int64("product_id", id))
	return nil
}

func (s *Service) load(ctx context.Context, work uow.UnitOfWork, id int64, includeCategory bool) (*domain.Product, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id %d", domain.ErrNotFound, id)
	}
	product, err := work.Products().GetByID(ctx, id, includeCategory)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return product, nil
}

// validate runs the field rules and resolves the category reference. It has
// no side effects.
func (s *Service) validate(ctx context.Context, work uow.UnitOfWork, p *domain.Product, upload *asset.Upload) (*category.Category, error) {
	verr := s.validator.Check(p, upload)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	cat, err := work.Categories().GetByID(ctx, p.CategoryID)
	if err != nil {
		if errors.Is(err, category.ErrNotFound) {
			verr.Add("categoryId", "references an unknown category")
			return nil, verr
		}
		return nil, err
	}
	return cat, nil
}

// saveAsset writes the upload and registers its removal as compensation.
func (s *Service) saveAsset(ctx context.Context, undo *compensation.Actions, upload asset.Upload) (string, error) {
	path, err := s.assets.Save(ctx, upload)
	if err != nil {
		s.logger.Warn("asset save failed", zap.String("filename", upload.Filename), zap.Error(err))
		return "", err
	}
	undo.Add("remove asset "+path, func(ctx context.Context) error {
		return s.assets.Delete(ctx, path)
	})
	return path, nil
}

// compensate undoes asset writes after a failed commit. Cleanup failures are
// logged and never replace cause.
func (s *Service) compensate(ctx context.Context, operation string, undo *compensation.Actions, cause error) {
	if undo.Len() == 0 {
		return
	}
	if err := undo.Compensate(context.WithoutCancel(ctx)); err != nil {
		s.metrics.ObserveCompensation(false)
		for range multierr.Errors(err) {
			s.metrics.ObserveOrphan()
		}
		s.logger.Error("asset compensation failed, orphaned asset left behind",
			zap.String("operation", operation),
			zap.NamedError("cause", cause),
			zap.Error(err),
		)
		return
	}
	s.metrics.ObserveCompensation(true)
	s.logger.Warn("commit failed, uploaded asset removed",
		zap.String("operation", operation),
		zap.Error(cause),
	)
}

// retire deletes an asset that the committed state no longer references.
func (s *Service) retire(ctx context.Context, operation, path string) {
	if !asset.IsCustom(path) {
		return
	}
	if err := s.assets.Delete(context.WithoutCancel(ctx), path); err != nil {
		s.metrics.ObserveOrphan()
		s.logger.Error("failed to delete retired asset",
			zap.String("operation", operation),
			zap.String("path", path),
			zap.Error(err),
		)
	}
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "failure"
	}
}
