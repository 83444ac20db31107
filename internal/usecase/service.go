package usecase

import (
	"go.uber.org/zap"

	"trip-booking/internal/data/repository"
	"trip-booking/pkg/database"
	"trip-booking/pkg/utils"
)

type Service struct {
	Trip    TripService
	Quote   QuoteService
	Booking BookingService
}

func NewService(db database.PgxIface, repo *repository.Repository, bridge PaymentBridge, cfg *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Trip:    NewTripService(repo, log),
		Quote:   NewQuoteService(db, repo, cfg.Checkout.TaxRate, log),
		Booking: NewBookingService(db, repo, bridge, cfg.Checkout.TaxRate, log),
	}
}
