package wire

import (
	"trip-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireCheckout(r chi.Router, quoteHandler *adaptor.QuoteHandler, bookingHandler *adaptor.BookingHandler) {
	// POST /api/quote - price preview, nothing persisted
	r.Post("/api/quote", quoteHandler.BuildQuote)

	// POST /api/booking - settle a checkout attempt, returns gateway redirect
	r.Post("/api/booking", bookingHandler.CreateBooking)

	// GET /api/booking/{id} - status polling for the client
	r.Get("/api/booking/{id}", bookingHandler.GetBooking)

	// POST /api/payment/callback - inbound form POST from the gateway
	r.Post("/api/payment/callback", bookingHandler.PaymentCallback)
}
