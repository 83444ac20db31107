package response

import (
	"encoding/json"
	"time"

	"trip-booking/internal/data/entity"
	"trip-booking/internal/pricing"
	"trip-booking/pkg/gateway"
)

type CreateBookingResponse struct {
	BookingID string                  `json:"booking_id"`
	TxnID     string                  `json:"txn_id"`
	Quote     pricing.Quote           `json:"quote"`
	Redirect  gateway.RedirectPayload `json:"redirect"`
}

type BookingStatusResponse struct {
	BookingID     string               `json:"booking_id"`
	TripID        string               `json:"trip_id"`
	Status        entity.PaymentStatus `json:"status"`
	DepartureDate string               `json:"departure_date"`
	ContactName   string               `json:"contact_name"`
	Travelers     []entity.Traveler    `json:"travelers"`
	TotalAmount   float64              `json:"total_amount"`
	Breakdown     *pricing.Quote       `json:"breakdown,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

func BookingToStatusResponse(b *entity.Booking) (*BookingStatusResponse, error) {
	resp := &BookingStatusResponse{
		BookingID:     b.ID.String(),
		TripID:        b.TripID.String(),
		Status:        b.PaymentStatus,
		DepartureDate: b.DepartureDate.Format("2006-01-02"),
		ContactName:   b.ContactName,
		Travelers:     b.Travelers,
		TotalAmount:   b.TotalAmount,
		CreatedAt:     b.CreatedAt,
	}

	if len(b.Breakdown) > 0 {
		var q pricing.Quote
		if err := json.Unmarshal(b.Breakdown, &q); err != nil {
			return nil, err
		}
		resp.Breakdown = &q
	}

	return resp, nil
}
