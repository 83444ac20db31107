package pricing

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"trip-booking/internal/data/entity"
)

type DiscountSource string

const (
	DiscountSourceNone      DiscountSource = "none"
	DiscountSourceEarlyBird DiscountSource = "early_bird"
	DiscountSourceCoupon    DiscountSource = "coupon"
)

// Selection is the outcome of the discount comparison: exactly one source,
// never a combination.
type Selection struct {
	Source DiscountSource
	Code   string
	Amount float64
}

// CouponError carries the specific check that rejected a coupon. It is never
// a generic failure; callers surface the reason rather than falling back to
// "no discount" silently.
type CouponError struct {
	Code   string
	Reason string
}

func (e *CouponError) Error() string {
	return fmt.Sprintf("coupon %s rejected: %s", e.Code, e.Reason)
}

// RedemptionCounts holds live counts of non-failed bookings carrying a coupon
// code, total and scoped to the redeeming email.
type RedemptionCounts struct {
	Total   int64
	ByEmail int64
}

// EarlyBirdAmount computes the per-unit early-bird discount for one line
// item. Percent applies to that line's unit price, not the subtotal; flat is
// a fixed amount per line. The result is clamped to [0, min(cap, unit price)].
func EarlyBirdAmount(row *entity.PricingRow, now time.Time) float64 {
	if row == nil || !row.EarlyBirdEnabled {
		return 0
	}
	if row.EarlyBirdStart != nil && now.Before(*row.EarlyBirdStart) {
		return 0
	}
	if row.EarlyBirdEnd != nil && now.After(*row.EarlyBirdEnd) {
		return 0
	}

	var amount float64
	switch row.EarlyBirdType {
	case entity.DiscountTypePercent:
		amount = Round2(row.Price * row.EarlyBirdValue / 100)
	case entity.DiscountTypeFixed:
		amount = Round2(row.EarlyBirdValue)
	default:
		return 0
	}

	return clamp(amount, row.EarlyBirdCap, row.Price)
}

// ValidateCoupon runs the ordered validation chain and, only once every check
// passes, computes the discount against the subtotal. Each failure carries
// its own reason. An empty code is a trivial no-op, not a failure.
func ValidateCoupon(c *entity.Coupon, code string, subtotal float64, tripID uuid.UUID, counts RedemptionCounts, now time.Time) (float64, error) {
	if code == "" {
		return 0, nil
	}
	if c == nil {
		return 0, &CouponError{Code: code, Reason: "code not found"}
	}
	if !c.Active {
		return 0, &CouponError{Code: c.Code, Reason: "code is no longer active"}
	}
	if !c.InWindow(now) {
		return 0, &CouponError{Code: c.Code, Reason: "code is outside its validity period"}
	}
	if !c.AppliesTo(tripID) {
		return 0, &CouponError{Code: c.Code, Reason: "code does not apply to this trip"}
	}
	if c.MinSubtotal != nil && subtotal < *c.MinSubtotal {
		return 0, &CouponError{Code: c.Code, Reason: fmt.Sprintf("order total must be at least %.2f", *c.MinSubtotal)}
	}
	if c.MaxUses != nil && counts.Total >= int64(*c.MaxUses) {
		return 0, &CouponError{Code: c.Code, Reason: "code has reached its redemption limit"}
	}
	if c.MaxPerEmail != nil && counts.ByEmail >= int64(*c.MaxPerEmail) {
		return 0, &CouponError{Code: c.Code, Reason: "code has already been used with this email"}
	}

	var amount float64
	switch c.Type {
	case entity.DiscountTypePercent:
		amount = Round2(subtotal * c.Value / 100)
	case entity.DiscountTypeFixed:
		amount = Round2(c.Value)
	default:
		return 0, &CouponError{Code: c.Code, Reason: "code has an unknown discount type"}
	}

	return clamp(amount, c.Cap, subtotal), nil
}

// SelectBest picks exactly one discount source: the larger amount wins, and a
// valid coupon wins an exact tie because redeeming it was an explicit user
// action. The two sources are never stacked.
func SelectBest(earlyBird float64, couponCode string, couponAmount float64) Selection {
	if couponAmount > 0 && couponAmount >= earlyBird {
		return Selection{Source: DiscountSourceCoupon, Code: couponCode, Amount: couponAmount}
	}
	if earlyBird > 0 {
		return Selection{Source: DiscountSourceEarlyBird, Amount: earlyBird}
	}
	return Selection{Source: DiscountSourceNone}
}

func clamp(amount float64, cap *float64, ceiling float64) float64 {
	if amount < 0 {
		return 0
	}
	if cap != nil && *cap > 0 && amount > *cap {
		amount = Round2(*cap)
	}
	if amount > ceiling {
		amount = Round2(ceiling)
	}
	return amount
}
