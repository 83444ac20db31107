package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trip-booking/internal/data/entity"
	"trip-booking/internal/data/repository"
	"trip-booking/internal/dto/request"
	"trip-booking/internal/pricing"
	"trip-booking/pkg/database"
)

func newQuoteService(repo *repository.Repository) QuoteService {
	return NewQuoteService(&fakeDB{}, repo, 0.02, zap.NewNop())
}

func quoteReq() request.QuoteRequest {
	return request.QuoteRequest{
		TripID: testTripID.String(),
		Date:   "2026-01-15",
		Travelers: []request.TravelerRequest{
			{ID: 1, Name: "Asha Rao", Variant: "Triple Sharing"},
		},
	}
}

func TestBuildQuote_TripNotFound(t *testing.T) {
	repo := &repository.Repository{
		Trip: &mockTripRepo{findByID: func(ctx context.Context, id uuid.UUID) (*entity.Trip, error) {
			return nil, nil
		}},
	}
	svc := newQuoteService(repo)

	_, err := svc.BuildQuote(context.Background(), quoteReq())
	assert.ErrorIs(t, err, ErrTripNotFound)
}

func TestBuildQuote_NoCoupon(t *testing.T) {
	repo := &repository.Repository{
		Trip: &mockTripRepo{findByID: func(ctx context.Context, id uuid.UUID) (*entity.Trip, error) {
			return testTrip(), nil
		}},
		PricingRow: &mockPricingRowRepo{findByTripID: func(ctx context.Context, tripID uuid.UUID) ([]*entity.PricingRow, error) {
			return testRows(), nil
		}},
	}
	svc := newQuoteService(repo)

	resp, err := svc.BuildQuote(context.Background(), quoteReq())
	require.NoError(t, err)

	assert.InDelta(t, 17999, resp.Quote.BaseSubtotal, 1e-9)
	assert.InDelta(t, 18358.98, resp.Quote.TotalAmount, 1e-9)
	assert.Equal(t, pricing.DiscountSourceNone, resp.Quote.DiscountSource)
	assert.Empty(t, resp.Unresolved)
	assert.Empty(t, resp.CouponError)
}

// A rejected coupon does not fail the preview; the quote comes back computed
// without it, with the specific reason attached.
func TestBuildQuote_RejectedCouponStillQuotes(t *testing.T) {
	until := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	expired := &entity.Coupon{
		Base:       entity.Base{ID: uuid.New()},
		Code:       "SAVE10",
		Type:       entity.DiscountTypePercent,
		Value:      10,
		ValidUntil: &until,
		Active:     true,
	}

	repo := &repository.Repository{
		Trip: &mockTripRepo{findByID: func(ctx context.Context, id uuid.UUID) (*entity.Trip, error) {
			return testTrip(), nil
		}},
		PricingRow: &mockPricingRowRepo{findByTripID: func(ctx context.Context, tripID uuid.UUID) ([]*entity.PricingRow, error) {
			return testRows(), nil
		}},
		Coupon: &mockCouponRepo{findByCode: func(ctx context.Context, code string) (*entity.Coupon, error) {
			return expired, nil
		}},
		Booking: &mockBookingRepo{
			countByCouponCode: func(ctx context.Context, q database.Querier, code string) (int64, error) {
				return 0, nil
			},
		},
	}
	svc := newQuoteService(repo)

	req := quoteReq()
	req.CouponCode = "SAVE10"

	resp, err := svc.BuildQuote(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "code is outside its validity period", resp.CouponError)
	assert.Equal(t, pricing.DiscountSourceNone, resp.Quote.DiscountSource)
	assert.InDelta(t, 18358.98, resp.Quote.TotalAmount, 1e-9)
}

// Preview and settlement share one computation path, so their totals agree to
// the cent for the same inputs.
func TestBuildQuote_MatchesSettlementTotal(t *testing.T) {
	trips := &mockTripRepo{findByID: func(ctx context.Context, id uuid.UUID) (*entity.Trip, error) {
		return testTrip(), nil
	}}
	rows := &mockPricingRowRepo{findByTripID: func(ctx context.Context, tripID uuid.UUID) ([]*entity.PricingRow, error) {
		return testRows(), nil
	}}

	quoteSvc := newQuoteService(&repository.Repository{Trip: trips, PricingRow: rows})
	preview, err := quoteSvc.BuildQuote(context.Background(), quoteReq())
	require.NoError(t, err)

	var created *entity.Booking
	bookingSvc, _ := newBookingService(&repository.Repository{
		Trip:       trips,
		PricingRow: rows,
		Booking: &mockBookingRepo{create: func(ctx context.Context, q database.Querier, booking *entity.Booking) error {
			created = booking
			return nil
		}},
	}, &mockBridge{})

	settled, err := bookingSvc.CreateBooking(context.Background(), createReq())
	require.NoError(t, err)

	assert.Equal(t, preview.Quote.TotalAmount, settled.Quote.TotalAmount)
	assert.Equal(t, preview.Quote.TotalAmount, created.TotalAmount)
}

func TestBuildQuote_UnresolvedTravelerReported(t *testing.T) {
	repo := &repository.Repository{
		Trip: &mockTripRepo{findByID: func(ctx context.Context, id uuid.UUID) (*entity.Trip, error) {
			return testTrip(), nil
		}},
		PricingRow: &mockPricingRowRepo{findByTripID: func(ctx context.Context, tripID uuid.UUID) ([]*entity.PricingRow, error) {
			return testRows(), nil
		}},
	}
	svc := newQuoteService(repo)

	req := quoteReq()
	req.Travelers = append(req.Travelers, request.TravelerRequest{ID: 2, Name: "Vikram Shah"})

	resp, err := svc.BuildQuote(context.Background(), req)
	require.NoError(t, err)

	// The resolvable traveler is still priced; the other is reported.
	require.Len(t, resp.Quote.Lines, 1)
	require.Len(t, resp.Unresolved, 1)
	assert.Equal(t, 2, resp.Unresolved[0].TravelerID)
	assert.Equal(t, "no variant selected", resp.Unresolved[0].Reason)
}
