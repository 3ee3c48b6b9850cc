package product

import (
	"time"

	"backoffice/catalog/internal/domain/category"

	"github.com/shopspring/decimal"
)

// Product captures the state of an individual catalog item.
type Product struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Price       decimal.Decimal    `json:"price"`
	Stock       int                `json:"stock"`
	CategoryID  int64              `json:"categoryId"`
	Category    *category.Category `json:"category,omitempty"`
	Image       string             `json:"image"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// Clone returns a copy that can be mutated without touching p.
func (p *Product) Clone() *Product {
	c := *p
	if p.Category != nil {
		cat := *p.Category
		c.Category = &cat
	}
	return &c
}

// Update applies arbitrary field updates to the product.
func (p *Product) Update(name, description *string, price *decimal.Decimal, stock *int, categoryID *int64, now time.Time) {
	if name != nil {
		p.Name = *name
	}
	if description != nil {
		p.Description = *description
	}
	if price != nil {
		p.Price = *price
	}
	if stock != nil {
		p.Stock = *stock
	}
	if categoryID != nil && *categoryID != p.CategoryID {
		p.CategoryID = *categoryID
		p.Category = nil
	}
	p.UpdatedAt = now
}
