package repository

import (
	"context"
	"fmt"

	"trip-booking/internal/data/entity"
	"trip-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const couponColumns = `id, code, type, value, cap, min_subtotal, trip_ids,
	       valid_from, valid_until, max_uses, max_per_email, active,
	       created_at, updated_at`

type CouponRepository interface {
	// FindByCode looks the coupon up fresh, case-insensitively. Results are
	// never cached because redemption limits depend on live counts.
	FindByCode(ctx context.Context, code string) (*entity.Coupon, error)

	// FindByCodeForUpdate does the same inside a transaction, holding a row
	// lock so concurrent redemptions of a scarce coupon serialize.
	FindByCodeForUpdate(ctx context.Context, q database.Querier, code string) (*entity.Coupon, error)
}

type couponRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCouponRepository(db database.PgxIface, log *zap.Logger) CouponRepository {
	return &couponRepository{
		db:  db,
		log: log.With(zap.String("repository", "coupon")),
	}
}

func (r *couponRepository) FindByCode(ctx context.Context, code string) (*entity.Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE LOWER(code) = LOWER($1)
	`
	return r.scanOne(ctx, r.db, query, code)
}

func (r *couponRepository) FindByCodeForUpdate(ctx context.Context, q database.Querier, code string) (*entity.Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE LOWER(code) = LOWER($1)
		FOR UPDATE
	`
	return r.scanOne(ctx, q, query, code)
}

func (r *couponRepository) scanOne(ctx context.Context, q database.Querier, query, code string) (*entity.Coupon, error) {
	var coupon entity.Coupon
	err := q.QueryRow(ctx, query, code).Scan(
		&coupon.ID,
		&coupon.Code,
		&coupon.Type,
		&coupon.Value,
		&coupon.Cap,
		&coupon.MinSubtotal,
		&coupon.TripIDs,
		&coupon.ValidFrom,
		&coupon.ValidUntil,
		&coupon.MaxUses,
		&coupon.MaxPerEmail,
		&coupon.Active,
		&coupon.CreatedAt,
		&coupon.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find coupon by code",
			zap.Error(err),
			zap.String("code", code),
		)
		return nil, fmt.Errorf("find coupon by code %s: %w", code, err)
	}

	return &coupon, nil
}
