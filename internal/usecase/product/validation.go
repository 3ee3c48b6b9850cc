package product

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"backoffice/catalog/internal/domain/asset"
	domain "backoffice/catalog/internal/domain/product"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var maxPrice = decimal.New(1, 10)

// productRules mirrors the persisted columns that carry domain rules.
type productRules struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=4000"`
	Stock       int    `json:"stock" validate:"gte=0"`
	CategoryID  int64  `json:"categoryId" validate:"gt=0"`
}

// Validator checks product commands before any side effect happens.
type Validator struct {
	validate *validator.Validate
}

// NewValidator constructs a validator reporting fields by their JSON names.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Check returns every rule the product or upload violates. The category
// reference is checked separately against the repository.
func (v *Validator) Check(p *domain.Product, upload *asset.Upload) *domain.ValidationError {
	verr := &domain.ValidationError{}

	rules := productRules{
		Name:        p.Name,
		Description: p.Description,
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
	}
	if err := v.validate.Struct(rules); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			verr.Add("product", err.Error())
			return verr
		}
		for _, fe := range fieldErrs {
			verr.Add(fe.Field(), describe(fe))
		}
	}

	switch {
	case p.Price.IsNegative():
		verr.Add("price", "must not be negative")
	case !p.Price.Equal(p.Price.Round(2)):
		verr.Add("price", "must have at most 2 decimal places")
	case p.Price.GreaterThanOrEqual(maxPrice):
		verr.Add("price", "is too large")
	}

	if upload.Present() && !asset.IsImage(upload.Filename) {
		verr.Add("image", fmt.Sprintf("must be one of %s", strings.Join(asset.ImageExtensions, ", ")))
	}
	return verr
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q rule", fe.Tag())
	}
}
