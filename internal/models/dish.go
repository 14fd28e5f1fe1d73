package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCurrency is the currency tag applied to dishes created without one.
const DefaultCurrency = "₦"

// Dish represents a menu item. Category is a free string column, not a
// foreign key — the set of known categories is the distinct values present
// across dishes. Deleting the last dish in a category removes the category.
type Dish struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	Price         float64   `json:"price"`
	ImageURL      *string   `json:"image_url"`
	Category      string    `json:"category"`
	IsFeatured    bool      `json:"is_featured"`
	DiscountPrice *float64  `json:"discount_price"`
	Currency      string    `json:"currency"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// EffectivePrice returns the discount price when one is set and lower than
// the regular price, otherwise the regular price.
func (d *Dish) EffectivePrice() float64 {
	if d.DiscountPrice != nil && *d.DiscountPrice > 0 && *d.DiscountPrice < d.Price {
		return *d.DiscountPrice
	}
	return d.Price
}
