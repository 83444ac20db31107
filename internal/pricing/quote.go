package pricing

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"trip-booking/internal/data/entity"
)

// Quote is the computed monetary summary for a roster on a date. It is a pure
// computation result; bookings freeze a JSON snapshot of it, nothing persists
// it as its own row.
type Quote struct {
	BaseSubtotal      float64          `json:"base_subtotal"`
	EarlyBirdDiscount float64          `json:"early_bird_discount"`
	CouponDiscount    float64          `json:"coupon_discount"`
	DiscountSource    DiscountSource   `json:"discount_source"`
	CouponCode        string           `json:"coupon_code,omitempty"`
	DiscountTotal     float64          `json:"discount_total"`
	TaxableAmount     float64          `json:"taxable_amount"`
	TaxRate           float64          `json:"tax_rate"`
	TaxAmount         float64          `json:"tax_amount"`
	TotalAmount       float64          `json:"total_amount"`
	Lines             []QuoteLine      `json:"lines"`
	Breakdown         []BreakdownGroup `json:"breakdown"`
}

// QuoteLine is the per-traveler record that produced the subtotal.
type QuoteLine struct {
	TravelerID   int     `json:"traveler_id"`
	TravelerName string  `json:"traveler_name"`
	Variant      string  `json:"variant"`
	Vehicle      string  `json:"vehicle,omitempty"`
	UnitPrice    float64 `json:"unit_price"`
	EarlyBird    float64 `json:"early_bird"`
}

// BreakdownGroup is the display-only grouping of identical line items, e.g.
// "2x Triple - SUV". Never used for recomputation.
type BreakdownGroup struct {
	Label     string  `json:"label"`
	Count     int     `json:"count"`
	UnitPrice float64 `json:"unit_price"`
	Amount    float64 `json:"amount"`
}

// Build composes resolved line items and a discount selection into a
// tax-inclusive quote. Pure, no I/O. Every monetary value is rounded at each
// arithmetic step, not deferred to the end, so independent call sites
// converge bit for bit.
func Build(items []LineItem, sel Selection, earlyBirdTotal, couponAmount float64, taxRate float64, now time.Time) Quote {
	q := Quote{
		EarlyBirdDiscount: Round2(earlyBirdTotal),
		CouponDiscount:    Round2(couponAmount),
		DiscountSource:    sel.Source,
		CouponCode:        sel.Code,
		DiscountTotal:     Round2(sel.Amount),
		TaxRate:           taxRate,
	}

	for _, it := range items {
		unit := Round2(it.Row.Price)
		q.BaseSubtotal = Round2(q.BaseSubtotal + unit)
		q.Lines = append(q.Lines, QuoteLine{
			TravelerID:   it.Traveler.SessionID,
			TravelerName: it.Traveler.Name,
			Variant:      string(it.Variant),
			Vehicle:      it.Vehicle,
			UnitPrice:    unit,
			EarlyBird:    EarlyBirdAmount(it.Row, now),
		})
	}

	q.TaxableAmount = Round2(q.BaseSubtotal - q.DiscountTotal)
	q.TaxAmount = Round2(q.TaxableAmount * q.TaxRate)
	q.TotalAmount = Round2(q.TaxableAmount + q.TaxAmount)
	q.Breakdown = groupLines(q.Lines)

	return q
}

// ComputeQuote is the single shared computation used by both the preview and
// the settlement paths: resolve -> early-bird -> coupon -> select -> build.
// When the coupon is rejected the returned quote is still valid (computed
// without it) and the CouponError says which check failed; the caller decides
// whether that blocks.
func ComputeQuote(items []LineItem, coupon *entity.Coupon, couponCode string, tripID uuid.UUID, counts RedemptionCounts, taxRate float64, now time.Time) (Quote, error) {
	var subtotal, earlyBird float64
	for _, it := range items {
		subtotal = Round2(subtotal + Round2(it.Row.Price))
		earlyBird = Round2(earlyBird + EarlyBirdAmount(it.Row, now))
	}

	couponAmount, couponErr := ValidateCoupon(coupon, couponCode, subtotal, tripID, counts, now)

	code := couponCode
	if coupon != nil {
		code = coupon.Code
	}
	sel := SelectBest(earlyBird, code, couponAmount)

	return Build(items, sel, earlyBird, couponAmount, taxRate, now), couponErr
}

func groupLines(lines []QuoteLine) []BreakdownGroup {
	var groups []BreakdownGroup
	index := map[string]int{}

	for _, l := range lines {
		label := l.Variant
		if label == "" {
			label = "Package"
		}
		if l.Vehicle != "" {
			label = label + " - " + l.Vehicle
		}
		key := fmt.Sprintf("%s|%.2f", label, l.UnitPrice)

		if i, ok := index[key]; ok {
			groups[i].Count++
			groups[i].Amount = Round2(groups[i].Amount + l.UnitPrice)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, BreakdownGroup{
			Label:     label,
			Count:     1,
			UnitPrice: l.UnitPrice,
			Amount:    l.UnitPrice,
		})
	}

	return groups
}
