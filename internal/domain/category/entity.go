package category

import (
	"errors"
	"time"
)

// ErrNotFound indicates a category could not be located.
var ErrNotFound = errors.New("category not found")

// Category groups products for browsing.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Choice is a single entry of a category selection list.
type Choice struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
