package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"trip-booking/internal/dto/request"
	"trip-booking/internal/pricing"
	"trip-booking/internal/usecase"
	"trip-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/booking
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), req)
	if err != nil {
		h.handleCreateError(w, err)
		return
	}

	utils.ResponseCreated(w, "Booking created successfully", booking)
}

func (h *BookingHandler) handleCreateError(w http.ResponseWriter, err error) {
	var unresolved *usecase.UnresolvedError
	var couponErr *pricing.CouponError

	switch {
	case errors.Is(err, usecase.ErrTripNotFound):
		utils.ResponseNotFound(w, "Trip not found")

	case errors.Is(err, usecase.ErrInviteOnly):
		utils.ResponseBadRequest(w, "This trip has no published prices; contact us to book", nil)

	case errors.Is(err, usecase.ErrNothingToCharge):
		utils.ResponseBadRequest(w, "Booking total must be greater than zero", nil)

	case errors.As(err, &unresolved):
		// One aggregated message across the whole roster, never one error
		// per traveler.
		utils.ResponseBadRequest(w, "Some travelers could not be priced", unresolved.Travelers)

	case errors.As(err, &couponErr):
		utils.ResponseBadRequest(w, couponErr.Reason, nil)

	default:
		h.log.Error("Failed to create booking", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// GetBooking handles GET /api/booking/{id}, the client's polling endpoint.
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return
	}

	booking, err := h.service.GetBooking(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrBookingNotFound) {
			utils.ResponseNotFound(w, "Booking not found")
			return
		}
		h.log.Error("Failed to get booking", zap.Error(err), zap.String("booking_id", id.String()))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	utils.ResponseSuccess(w, "Booking retrieved successfully", booking)
}
