package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"trip-booking/internal/dto/request"
	"trip-booking/internal/usecase"
	"trip-booking/pkg/utils"

	"go.uber.org/zap"
)

type QuoteHandler struct {
	service usecase.QuoteService
	log     *zap.Logger
}

func NewQuoteHandler(service usecase.QuoteService, log *zap.Logger) *QuoteHandler {
	return &QuoteHandler{
		service: service,
		log:     log.With(zap.String("handler", "quote")),
	}
}

// BuildQuote handles POST /api/quote. The preview never blocks on a rejected
// coupon or an unresolvable traveler; both come back alongside the quote so
// the checkout UI can render them inline.
func (h *QuoteHandler) BuildQuote(w http.ResponseWriter, r *http.Request) {
	var req request.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	quote, err := h.service.BuildQuote(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrTripNotFound):
			utils.ResponseNotFound(w, "Trip not found")
		case errors.Is(err, usecase.ErrInviteOnly):
			utils.ResponseBadRequest(w, "This trip has no published prices; contact us to book", nil)
		default:
			h.log.Error("Failed to build quote", zap.Error(err))
			utils.ResponseInternalError(w, "Internal server error")
		}
		return
	}

	utils.ResponseSuccess(w, "Quote computed successfully", quote)
}
