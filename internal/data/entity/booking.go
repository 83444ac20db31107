package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Terminal reports whether the status can never change again.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusPaid || s == PaymentStatusFailed
}

// Traveler is a checkout-session-scoped participant. It is never persisted on
// its own, only snapshotted into a booking at submission time.
type Traveler struct {
	SessionID int    `json:"session_id"`
	Name      string `json:"name"`
	Variant   string `json:"variant"`
	Vehicle   string `json:"vehicle,omitempty"`
}

// Booking is the persisted record of one checkout attempt. The quote that
// produced it is frozen into Breakdown because prices and coupons may change
// after the fact. TxnID is the short gateway-safe id echoed through the
// payment gateway; the internal booking id never leaves the server unsigned.
type Booking struct {
	Base
	TripID        uuid.UUID       `db:"trip_id"`
	DepartureDate time.Time       `db:"departure_date"`
	Travelers     []Traveler      `db:"travelers"`
	ContactName   string          `db:"contact_name"`
	ContactPhone  string          `db:"contact_phone"`
	ContactEmail  string          `db:"contact_email"`
	CouponCode    string          `db:"coupon_code"`
	TotalAmount   float64         `db:"total_amount"`
	Breakdown     json.RawMessage `db:"breakdown"`
	TxnID         string          `db:"txn_id"`
	PaymentStatus PaymentStatus   `db:"payment_status"`
	GatewayRef    *string         `db:"gateway_ref"` // correlation id assigned by the gateway
}
