package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"trip-booking/internal/data/entity"
	"trip-booking/internal/data/repository"
	"trip-booking/internal/dto/request"
	"trip-booking/internal/dto/response"
	"trip-booking/internal/pricing"
	"trip-booking/pkg/database"
)

type QuoteService interface {
	// BuildQuote prices a roster for a date without persisting anything.
	// An unresolvable traveler or a rejected coupon does not fail the call;
	// both are reported alongside the best quote that could be computed.
	BuildQuote(ctx context.Context, req request.QuoteRequest) (*response.QuoteResponse, error)
}

type quoteService struct {
	db      database.PgxIface
	repo    *repository.Repository
	taxRate float64
	log     *zap.Logger
}

func NewQuoteService(db database.PgxIface, repo *repository.Repository, taxRate float64, log *zap.Logger) QuoteService {
	return &quoteService{
		db:      db,
		repo:    repo,
		taxRate: taxRate,
		log:     log.With(zap.String("service", "quote")),
	}
}

func (s *quoteService) BuildQuote(ctx context.Context, req request.QuoteRequest) (*response.QuoteResponse, error) {
	tripID, err := uuid.Parse(req.TripID)
	if err != nil {
		return nil, ErrTripNotFound
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, err
	}

	trip, err := s.repo.Trip.FindByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, ErrTripNotFound
	}

	rows, err := s.repo.PricingRow.FindByTripID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if pricing.InviteOnly(rows) {
		return nil, ErrInviteOnly
	}

	res := pricing.Resolve(rows, date, travelersFromRequest(req.Travelers))

	coupon, counts, err := s.lookupCoupon(ctx, req.CouponCode, req.Email)
	if err != nil {
		return nil, err
	}

	quote, couponErr := pricing.ComputeQuote(res.LineItems, coupon, req.CouponCode, tripID, counts, s.taxRate, time.Now())

	resp := &response.QuoteResponse{
		Quote:      quote,
		Unresolved: response.UnresolvedToResponse(res.Unresolved),
	}

	var ce *pricing.CouponError
	if errors.As(couponErr, &ce) {
		resp.CouponError = ce.Reason
		s.log.Info("Coupon rejected on quote",
			zap.String("code", ce.Code),
			zap.String("reason", ce.Reason),
		)
	}

	return resp, nil
}

// lookupCoupon fetches the coupon and its live redemption counts. Preview
// never locks the coupon row; stale counts only risk showing a discount that
// settlement will re-check under lock. Without an email the per-email limit
// cannot be pre-checked and is deferred to settlement.
func (s *quoteService) lookupCoupon(ctx context.Context, code, email string) (*entity.Coupon, pricing.RedemptionCounts, error) {
	var counts pricing.RedemptionCounts
	if code == "" {
		return nil, counts, nil
	}

	coupon, err := s.repo.Coupon.FindByCode(ctx, code)
	if err != nil {
		return nil, counts, err
	}
	if coupon == nil {
		return nil, counts, nil
	}

	counts.Total, err = s.repo.Booking.CountByCouponCode(ctx, s.db, coupon.Code)
	if err != nil {
		return nil, counts, err
	}
	if email != "" {
		counts.ByEmail, err = s.repo.Booking.CountByCouponCodeAndEmail(ctx, s.db, coupon.Code, email)
		if err != nil {
			return nil, counts, err
		}
	}

	return coupon, counts, nil
}

func travelersFromRequest(reqs []request.TravelerRequest) []entity.Traveler {
	travelers := make([]entity.Traveler, len(reqs))
	for i, t := range reqs {
		travelers[i] = entity.Traveler{
			SessionID: t.ID,
			Name:      t.Name,
			Variant:   t.Variant,
			Vehicle:   t.Vehicle,
		}
	}
	return travelers
}
