package postgres

import (
	"context"
	"errors"
	"fmt"

	"backoffice/catalog/internal/domain/category"
	domain "backoffice/catalog/internal/domain/product"

	"github.com/jackc/pgx/v5"
)

const productColumns = `
p.id, p.name, p.description, p.price, p.stock, p.category_id,
COALESCE(p.image, ''), p.created_at, p.updated_at`

const categoryColumns = `,
c.id, c.name, c.description, c.created_at`

// ProductRepository reads products directly and stages writes on its unit
// of work.
type ProductRepository struct {
	db    querier
	stage func(stagedOp)
}

// GetByID fetches a product by id, joining its category when requested.
func (r *ProductRepository) GetByID(ctx context.Context, id int64, includeCategory bool) (*domain.Product, error) {
	query := productSelect(includeCategory) + " WHERE p.id = $1"
	product, err := scanProduct(r.db.QueryRow(ctx, query, id), includeCategory)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

// GetAll returns a snapshot of all products sorted by name.
func (r *ProductRepository) GetAll(ctx context.Context, includeCategory bool) ([]*domain.Product, error) {
	query := productSelect(includeCategory) + " ORDER BY p.name ASC, p.id ASC"
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product, err := scanProduct(rows, includeCategory)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// Add stages an insert. The generated id is written back on commit.
func (r *ProductRepository) Add(product *domain.Product) {
	r.stage(stagedOp{
		name: "insert product",
		apply: func(ctx context.Context, tx pgx.Tx) error {
			const query = `
INSERT INTO products (name, description, price, stock, category_id, image, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id
`
			err := tx.QueryRow(ctx, query,
				product.Name,
				product.Description,
				product.Price,
				product.Stock,
				product.CategoryID,
				nullableImage(product.Image),
				product.CreatedAt,
				product.UpdatedAt,
			).Scan(&product.ID)
			return classifyWriteError(err, product)
		},
	})
}

// Update stages a row update. The image column is left alone; see
// ReplaceImage.
func (r *ProductRepository) Update(product *domain.Product) {
	r.stage(stagedOp{
		name: fmt.Sprintf("update product %d", product.ID),
		apply: func(ctx context.Context, tx pgx.Tx) error {
			const query = `
UPDATE products
SET name = $2,
    description = $3,
    price = $4,
    stock = $5,
    category_id = $6,
    updated_at = $7
WHERE id = $1
`
			tag, err := tx.Exec(ctx, query,
				product.ID,
				product.Name,
				product.Description,
				product.Price,
				product.Stock,
				product.CategoryID,
				product.UpdatedAt,
			)
			if err != nil {
				return classifyWriteError(err, product)
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("%w: id %d", domain.ErrNotFound, product.ID)
			}
			return nil
		},
	})
}

// ReplaceImage stages an image swap guarded by the image the caller read.
func (r *ProductRepository) ReplaceImage(product *domain.Product, previous string) {
	r.stage(stagedOp{
		name: fmt.Sprintf("replace image of product %d", product.ID),
		apply: func(ctx context.Context, tx pgx.Tx) error {
			const query = `
UPDATE products
SET image = $2
WHERE id = $1 AND image IS NOT DISTINCT FROM $3
`
			tag, err := tx.Exec(ctx, query, product.ID, nullableImage(product.Image), nullableImage(previous))
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("%w: id %d, expected %q", domain.ErrImageChanged, product.ID, previous)
			}
			return nil
		},
	})
}

// Remove stages a delete. On commit product.Image holds the image the deleted
// row referenced.
func (r *ProductRepository) Remove(product *domain.Product) {
	id := product.ID
	r.stage(stagedOp{
		name: fmt.Sprintf("delete product %d", id),
		apply: func(ctx context.Context, tx pgx.Tx) error {
			const query = `DELETE FROM products WHERE id = $1 RETURNING COALESCE(image, '')`
			var image string
			if err := tx.QueryRow(ctx, query, id).Scan(&image); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return fmt.Errorf("%w: id %d", domain.ErrNotFound, id)
				}
				return err
			}
			product.Image = image
			return nil
		},
	})
}

func productSelect(includeCategory bool) string {
	if includeCategory {
		return "SELECT " + productColumns + categoryColumns +
			" FROM products p LEFT JOIN categories c ON c.id = p.category_id"
	}
	return "SELECT " + productColumns + " FROM products p"
}

func scanProduct(row pgx.Row, includeCategory bool) (*domain.Product, error) {
	var p domain.Product
	dest := []any{
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Stock,
		&p.CategoryID,
		&p.Image,
		&p.CreatedAt,
		&p.UpdatedAt,
	}

	var cat nullableCategory
	if includeCategory {
		dest = append(dest, &cat.ID, &cat.Name, &cat.Description, &cat.CreatedAt)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if includeCategory {
		p.Category = cat.category()
	}
	return &p, nil
}

func nullableImage(image string) *string {
	if image == "" {
		return nil
	}
	return &image
}

func classifyWriteError(err error, product *domain.Product) error {
	switch {
	case err == nil:
		return nil
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: id %d: %v", category.ErrNotFound, product.CategoryID, err)
	case isCheckViolation(err):
		return fmt.Errorf("product constraint violation: %w", err)
	default:
		return err
	}
}
