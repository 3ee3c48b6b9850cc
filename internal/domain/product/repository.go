package product

import "context"

// Repository defines persistence behaviours for products. Add, Update,
// ReplaceImage and Remove stage changes; nothing is written until the owning
// unit of work completes.
type Repository interface {
	GetByID(ctx context.Context, id int64, includeCategory bool) (*Product, error)
	GetAll(ctx context.Context, includeCategory bool) ([]*Product, error)
	Add(product *Product)
	// Update writes every field except Image.
	Update(product *Product)
	// ReplaceImage sets product.Image only if the stored image is still
	// previous, failing with ErrImageChanged otherwise.
	ReplaceImage(product *Product, previous string)
	// Remove deletes the row and sets product.Image to the image the row held.
	Remove(product *Product)
}
