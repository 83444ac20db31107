package adaptor

import (
	"errors"
	"net/http"

	"trip-booking/internal/usecase"
	"trip-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TripHandler struct {
	service usecase.TripService
	log     *zap.Logger
}

func NewTripHandler(service usecase.TripService, log *zap.Logger) *TripHandler {
	return &TripHandler{
		service: service,
		log:     log.With(zap.String("handler", "trip")),
	}
}

// GetTrips handles GET /api/trips
func (h *TripHandler) GetTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := h.service.ListTrips(r.Context())
	if err != nil {
		h.log.Error("Failed to list trips", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	utils.ResponseSuccess(w, "Trips retrieved successfully", trips)
}

// GetTripBySlug handles GET /api/trips/{slug}
func (h *TripHandler) GetTripBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		utils.ResponseBadRequest(w, "Trip slug is required", nil)
		return
	}

	trip, err := h.service.GetTripBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, usecase.ErrTripNotFound) {
			utils.ResponseNotFound(w, "Trip not found")
			return
		}
		h.log.Error("Failed to get trip", zap.Error(err), zap.String("slug", slug))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	utils.ResponseSuccess(w, "Trip retrieved successfully", trip)
}
