package entity

import (
	"time"

	"github.com/google/uuid"
)

type DiscountType string

const (
	DiscountTypePercent DiscountType = "percent"
	DiscountTypeFixed   DiscountType = "fixed"
)

// Variant is the closed room-sharing enumeration. Empty means a fixed-price
// package row with no per-seat variants.
type Variant string

const (
	VariantQuad   Variant = "Quad"
	VariantTriple Variant = "Triple"
	VariantDouble Variant = "Double"
	VariantNone   Variant = ""
)

// PricingRow is one sparse rate-table entry for a trip. Upstream imports can
// leave duplicate rows for the same (date, variant, vehicle) tuple; the
// resolver handles that, repositories return rows as stored.
type PricingRow struct {
	BaseSimple
	TripID        uuid.UUID  `db:"trip_id"`
	DepartureDate *time.Time `db:"departure_date"` // nil for fixed-price packages
	Variant       Variant    `db:"variant"`
	Vehicle       string     `db:"vehicle"`
	Price         float64    `db:"price"`

	// Optional early-bird sub-record.
	EarlyBirdEnabled bool         `db:"eb_enabled"`
	EarlyBirdType    DiscountType `db:"eb_type"`
	EarlyBirdValue   float64      `db:"eb_value"`
	EarlyBirdCap     *float64     `db:"eb_cap"`
	EarlyBirdStart   *time.Time   `db:"eb_start"`
	EarlyBirdEnd     *time.Time   `db:"eb_end"`
}
