package repository

import (
	"trip-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Trip       TripRepository
	PricingRow PricingRowRepository
	Coupon     CouponRepository
	Booking    BookingRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Trip:       NewTripRepository(db, log),
		PricingRow: NewPricingRowRepository(db, log),
		Coupon:     NewCouponRepository(db, log),
		Booking:    NewBookingRepository(db, log),
	}
}
