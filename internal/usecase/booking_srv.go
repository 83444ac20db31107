package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"trip-booking/internal/data/entity"
	"trip-booking/internal/data/repository"
	"trip-booking/internal/dto/request"
	"trip-booking/internal/dto/response"
	"trip-booking/internal/pricing"
	"trip-booking/pkg/database"
	"trip-booking/pkg/gateway"
	"trip-booking/pkg/utils"
)

// createAttempts bounds retries when a freshly generated transaction id
// collides with an existing booking.
const createAttempts = 3

// PaymentBridge is the gateway surface the settlement flow needs. Satisfied
// by *gateway.Bridge.
type PaymentBridge interface {
	BuildRedirect(booking *entity.Booking) gateway.RedirectPayload
	VerifyWithBooking(f gateway.CallbackFields, booking *entity.Booking) (valid bool, retried bool)
}

type BookingService interface {
	// CreateBooking re-prices the roster server side, persists a pending
	// booking with the frozen quote, and returns the signed gateway
	// redirect. Client-supplied amounts are never trusted.
	CreateBooking(ctx context.Context, req request.CreateBookingRequest) (*response.CreateBookingResponse, error)

	// ProcessCallback settles a booking from a gateway callback. Signature
	// failures settle the booking as failed, never leave it pending.
	ProcessCallback(ctx context.Context, f gateway.CallbackFields) (*entity.Booking, error)

	GetBooking(ctx context.Context, id uuid.UUID) (*response.BookingStatusResponse, error)
}

type bookingService struct {
	db      database.PgxIface
	repo    *repository.Repository
	bridge  PaymentBridge
	taxRate float64
	log     *zap.Logger
}

func NewBookingService(db database.PgxIface, repo *repository.Repository, bridge PaymentBridge, taxRate float64, log *zap.Logger) BookingService {
	return &bookingService{
		db:      db,
		repo:    repo,
		bridge:  bridge,
		taxRate: taxRate,
		log:     log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, req request.CreateBookingRequest) (*response.CreateBookingResponse, error) {
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
	if len(res.Unresolved) > 0 {
		// Settlement requires every traveler priced; preview tolerates gaps,
		// checkout does not.
		return nil, &UnresolvedError{Travelers: response.UnresolvedToResponse(res.Unresolved)}
	}

	// A transaction id collision aborts the whole settlement transaction, so
	// the retry re-runs it from the top with a fresh id.
	var lastErr error
	for attempt := 0; attempt < createAttempts; attempt++ {
		booking, quote, err := s.settle(ctx, tripID, date, res.LineItems, req)
		if err != nil {
			if isTxnIDConflict(err) {
				lastErr = err
				s.log.Warn("Transaction id collision, retrying with a fresh id",
					zap.Int("attempt", attempt+1),
				)
				continue
			}
			return nil, err
		}

		return &response.CreateBookingResponse{
			BookingID: booking.ID.String(),
			TxnID:     booking.TxnID,
			Quote:     *quote,
			Redirect:  s.bridge.BuildRedirect(booking),
		}, nil
	}

	return nil, fmt.Errorf("allocate transaction id after %d attempts: %w", createAttempts, lastErr)
}

// settle runs one settlement attempt inside a single database transaction:
// lock the coupon row, recount redemptions, recompute the quote, persist the
// pending booking with its frozen breakdown.
func (s *bookingService) settle(ctx context.Context, tripID uuid.UUID, date time.Time, items []pricing.LineItem, req request.CreateBookingRequest) (*entity.Booking, *pricing.Quote, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin settlement transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var coupon *entity.Coupon
	var counts pricing.RedemptionCounts
	if req.CouponCode != "" {
		coupon, err = s.repo.Coupon.FindByCodeForUpdate(ctx, tx, req.CouponCode)
		if err != nil {
			return nil, nil, err
		}
		if coupon != nil {
			counts.Total, err = s.repo.Booking.CountByCouponCode(ctx, tx, coupon.Code)
			if err != nil {
				return nil, nil, err
			}
			counts.ByEmail, err = s.repo.Booking.CountByCouponCodeAndEmail(ctx, tx, coupon.Code, req.Contact.Email)
			if err != nil {
				return nil, nil, err
			}
		}
	}

	quote, couponErr := pricing.ComputeQuote(items, coupon, req.CouponCode, tripID, counts, s.taxRate, time.Now())
	if couponErr != nil {
		// A rejected coupon blocks settlement; silently charging more than
		// the previewed total is worse than asking the customer to retry.
		return nil, nil, couponErr
	}
	if quote.TotalAmount <= 0 {
		return nil, nil, ErrNothingToCharge
	}

	breakdown, err := json.Marshal(quote)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal quote breakdown: %w", err)
	}

	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		TripID:        tripID,
		DepartureDate: date,
		Travelers:     travelersFromRequest(req.Travelers),
		ContactName:   req.Contact.Name,
		ContactPhone:  req.Contact.Phone,
		ContactEmail:  req.Contact.Email,
		CouponCode:    req.CouponCode,
		TotalAmount:   quote.TotalAmount,
		Breakdown:     breakdown,
		TxnID:         utils.GenerateTxnID(),
		PaymentStatus: entity.PaymentStatusPending,
	}

	if err := s.repo.Booking.Create(ctx, tx, booking); err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit settlement transaction: %w", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("txn_id", booking.TxnID),
		zap.Float64("total_amount", booking.TotalAmount),
		zap.String("discount_source", string(quote.DiscountSource)),
	)

	return booking, &quote, nil
}

func (s *bookingService) ProcessCallback(ctx context.Context, f gateway.CallbackFields) (*entity.Booking, error) {
	booking, err := s.repo.Booking.FindByTxnID(ctx, f.TxnID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	valid, _ := s.bridge.VerifyWithBooking(f, booking)
	if !valid {
		// A forged or corrupted callback must not leave the booking pending:
		// settle it as failed so the customer is told to retry rather than
		// waiting on a payment that will never confirm.
		if _, err := s.repo.Booking.UpdateStatusIfPending(ctx, booking.ID, entity.PaymentStatusFailed, nil); err != nil {
			return nil, err
		}
		s.log.Warn("Rejected callback with invalid signature",
			zap.String("txn_id", f.TxnID),
			zap.String("booking_id", booking.ID.String()),
		)
		return nil, ErrInvalidSignature
	}

	status := gateway.MapStatus(f.Status)
	var ref *string
	if f.GatewayRef != "" {
		ref = &f.GatewayRef
	}

	updated, err := s.repo.Booking.UpdateStatusIfPending(ctx, booking.ID, status, ref)
	if err != nil {
		return nil, err
	}
	if !updated {
		// Gateways redeliver callbacks; once a booking settled, later
		// deliveries are acknowledged and dropped.
		s.log.Info("Ignoring callback for settled booking",
			zap.String("txn_id", f.TxnID),
			zap.String("current_status", string(booking.PaymentStatus)),
			zap.String("callback_status", string(status)),
		)
		return booking, nil
	}

	booking.PaymentStatus = status
	if ref != nil {
		booking.GatewayRef = ref
	}

	s.log.Info("Booking settled",
		zap.String("txn_id", f.TxnID),
		zap.String("booking_id", booking.ID.String()),
		zap.String("status", string(status)),
	)

	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id uuid.UUID) (*response.BookingStatusResponse, error) {
	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	return response.BookingToStatusResponse(booking)
}

// isTxnIDConflict reports whether the insert failed on the bookings txn_id
// unique constraint.
func isTxnIDConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == "23505" &&
		strings.Contains(pgErr.ConstraintName, "txn")
}
