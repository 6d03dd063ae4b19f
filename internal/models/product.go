package models

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// Product represents a product in the catalogue. The validation tags are
// only enforced when strict validation is enabled.
type Product struct {
	ID    string  `json:"id"`
	Name  string  `json:"name" validate:"required,max=255"`
	Price float64 `json:"price" validate:"gte=0"`
}

// NewID returns a random (version 4) UUID string suitable for a product ID
func NewID() string {
	return uuid.New().String()
}

// HasID reports whether the product carries the given ID
func (p *Product) HasID(id string) bool {
	return p != nil && p.ID == id
}

// Normalize trims surrounding whitespace from the product name.
// Used for operator-supplied seed data; API writes store the name as sent.
func (p *Product) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
}

// Products is the response envelope for a product listing
type Products []*Product

// MarshalJSON encodes an empty listing as [] rather than null
func (p Products) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]*Product(p))
}

// Len returns the number of products in the listing
func (p Products) Len() int {
	return len(p)
}
