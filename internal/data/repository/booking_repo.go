package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"trip-booking/internal/data/entity"
	"trip-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, q database.Querier, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByTxnID(ctx context.Context, txnID string) (*entity.Booking, error)

	// UpdateStatusIfPending is a compare-and-set: only a pending booking may
	// transition, and only once. Returns false when the booking was already
	// terminal (or missing) and nothing changed.
	UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status entity.PaymentStatus, gatewayRef *string) (bool, error)

	// Redemption counters for coupon limit checks: non-failed bookings whose
	// code matches case-insensitively.
	CountByCouponCode(ctx context.Context, q database.Querier, code string) (int64, error)
	CountByCouponCodeAndEmail(ctx context.Context, q database.Querier, code, email string) (int64, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, trip_id, departure_date, travelers, contact_name, contact_phone,
		contact_email, coupon_code, total_amount, breakdown, txn_id, payment_status,
		gateway_ref, created_at, updated_at`

func (r *bookingRepository) Create(ctx context.Context, q database.Querier, booking *entity.Booking) error {
	travelers, err := json.Marshal(booking.Travelers)
	if err != nil {
		return fmt.Errorf("marshal travelers: %w", err)
	}

	query := `
		INSERT INTO bookings (id, trip_id, departure_date, travelers, contact_name, contact_phone,
			contact_email, coupon_code, total_amount, breakdown, txn_id, payment_status,
			gateway_ref, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err = q.Exec(ctx, query,
		booking.ID,
		booking.TripID,
		booking.DepartureDate,
		travelers,
		booking.ContactName,
		booking.ContactPhone,
		booking.ContactEmail,
		booking.CouponCode,
		booking.TotalAmount,
		[]byte(booking.Breakdown),
		booking.TxnID,
		booking.PaymentStatus,
		booking.GatewayRef,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("txn_id", booking.TxnID),
			zap.String("trip_id", booking.TripID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.TxnID, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

func (r *bookingRepository) FindByTxnID(ctx context.Context, txnID string) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE txn_id = $1`
	return r.scanOne(ctx, query, txnID)
}

func (r *bookingRepository) scanOne(ctx context.Context, query string, arg any) (*entity.Booking, error) {
	var booking entity.Booking
	var travelers []byte
	var breakdown []byte

	err := r.db.QueryRow(ctx, query, arg).Scan(
		&booking.ID,
		&booking.TripID,
		&booking.DepartureDate,
		&travelers,
		&booking.ContactName,
		&booking.ContactPhone,
		&booking.ContactEmail,
		&booking.CouponCode,
		&booking.TotalAmount,
		&breakdown,
		&booking.TxnID,
		&booking.PaymentStatus,
		&booking.GatewayRef,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking", zap.Error(err))
		return nil, fmt.Errorf("find booking: %w", err)
	}

	if err := json.Unmarshal(travelers, &booking.Travelers); err != nil {
		return nil, fmt.Errorf("unmarshal travelers: %w", err)
	}
	booking.Breakdown = json.RawMessage(breakdown)

	return &booking, nil
}

func (r *bookingRepository) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status entity.PaymentStatus, gatewayRef *string) (bool, error) {
	query := `
		UPDATE bookings
		SET payment_status = $2, gateway_ref = COALESCE($3, gateway_ref), updated_at = NOW()
		WHERE id = $1 AND payment_status = 'pending'
	`

	result, err := r.db.Exec(ctx, query, id, status, gatewayRef)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("status", string(status)),
		)
		return false, fmt.Errorf("update booking %s status to %s: %w", id.String(), string(status), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *bookingRepository) CountByCouponCode(ctx context.Context, q database.Querier, code string) (int64, error) {
	query := `
		SELECT COUNT(*) FROM bookings
		WHERE LOWER(coupon_code) = LOWER($1) AND payment_status <> 'failed'
	`

	var count int64
	if err := q.QueryRow(ctx, query, code).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings by coupon code",
			zap.Error(err),
			zap.String("code", code),
		)
		return 0, fmt.Errorf("count bookings by coupon code %s: %w", code, err)
	}

	return count, nil
}

func (r *bookingRepository) CountByCouponCodeAndEmail(ctx context.Context, q database.Querier, code, email string) (int64, error) {
	query := `
		SELECT COUNT(*) FROM bookings
		WHERE LOWER(coupon_code) = LOWER($1)
		  AND LOWER(contact_email) = LOWER($2)
		  AND payment_status <> 'failed'
	`

	var count int64
	if err := q.QueryRow(ctx, query, code, email).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings by coupon code and email",
			zap.Error(err),
			zap.String("code", code),
		)
		return 0, fmt.Errorf("count bookings by coupon code %s and email: %w", code, err)
	}

	return count, nil
}
