package entity

import (
	"time"

	"github.com/google/uuid"
)

// Coupon is a redeemable discount code. Identity is the case-insensitive code.
// Coupons are looked up fresh on every validation because redemption limits
// depend on live booking counts.
type Coupon struct {
	Base
	Code        string       `db:"code"`
	Type        DiscountType `db:"type"`
	Value       float64      `db:"value"`
	Cap         *float64     `db:"cap"`
	MinSubtotal *float64     `db:"min_subtotal"`
	TripIDs     []uuid.UUID  `db:"trip_ids"` // empty = valid for all trips
	ValidFrom   *time.Time   `db:"valid_from"`
	ValidUntil  *time.Time   `db:"valid_until"`
	MaxUses     *int         `db:"max_uses"`
	MaxPerEmail *int         `db:"max_per_email"`
	Active      bool         `db:"active"`
}

// AppliesTo reports whether the coupon is scoped to the given trip.
func (c *Coupon) AppliesTo(tripID uuid.UUID) bool {
	if len(c.TripIDs) == 0 {
		return true
	}
	for _, id := range c.TripIDs {
		if id == tripID {
			return true
		}
	}
	return false
}

// InWindow reports whether now falls within the coupon's validity window.
// A nil bound is open-ended.
func (c *Coupon) InWindow(now time.Time) bool {
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return false
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return false
	}
	return true
}
