package wire

import (
	"trip-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireTrip(r chi.Router, tripHandler *adaptor.TripHandler) {
	// Read-only catalog, public.
	r.Get("/api/trips", tripHandler.GetTrips)
	r.Get("/api/trips/{slug}", tripHandler.GetTripBySlug)
}
