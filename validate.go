package shelfgo

import (
	"strings"

	"github.com/hupe1980/shelfgo/model"
)

// ItemInput is the payload for creating an item. The ID is assigned by the
// store at append time.
type ItemInput struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

// validate trims and checks the input, returning the normalized item.
// Violations reject before any store mutation occurs.
func (in ItemInput) validate() (model.Item, *ValidationError) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Item{}, &ValidationError{Field: "name", Reason: "must be a non-empty string"}
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		return model.Item{}, &ValidationError{Field: "category", Reason: "must be a non-empty string"}
	}

	if in.Price < 0 {
		return model.Item{}, &ValidationError{Field: "price", Reason: "must be a non-negative number"}
	}

	return model.Item{
		Name:     name,
		Category: category,
		Price:    in.Price,
	}, nil
}
