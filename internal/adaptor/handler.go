package adaptor

import (
	"trip-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Trip    *TripHandler
	Quote   *QuoteHandler
	Booking *BookingHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Trip:    NewTripHandler(service.Trip, log),
		Quote:   NewQuoteHandler(service.Quote, log),
		Booking: NewBookingHandler(service.Booking, log),
	}
}
