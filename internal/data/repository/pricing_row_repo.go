package repository

import (
	"context"
	"fmt"

	"trip-booking/internal/data/entity"
	"trip-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PricingRowRepository interface {
	FindByTripID(ctx context.Context, tripID uuid.UUID) ([]*entity.PricingRow, error)
}

type pricingRowRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPricingRowRepository(db database.PgxIface, log *zap.Logger) PricingRowRepository {
	return &pricingRowRepository{
		db:  db,
		log: log.With(zap.String("repository", "pricing_row")),
	}
}

// FindByTripID returns the trip's full sparse rate table, duplicates and all.
// Filtering by date/variant/vehicle is the resolver's job, not SQL's.
func (r *pricingRowRepository) FindByTripID(ctx context.Context, tripID uuid.UUID) ([]*entity.PricingRow, error) {
	query := `
		SELECT id, trip_id, departure_date, variant, vehicle, price,
		       eb_enabled, eb_type, eb_value, eb_cap, eb_start, eb_end, created_at
		FROM pricing_rows
		WHERE trip_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, tripID)
	if err != nil {
		r.log.Error("Failed to find pricing rows by trip ID",
			zap.Error(err),
			zap.String("trip_id", tripID.String()),
		)
		return nil, fmt.Errorf("find pricing rows by trip ID %s: %w", tripID.String(), err)
	}
	defer rows.Close()

	var result []*entity.PricingRow
	for rows.Next() {
		var row entity.PricingRow
		err := rows.Scan(
			&row.ID,
			&row.TripID,
			&row.DepartureDate,
			&row.Variant,
			&row.Vehicle,
			&row.Price,
			&row.EarlyBirdEnabled,
			&row.EarlyBirdType,
			&row.EarlyBirdValue,
			&row.EarlyBirdCap,
			&row.EarlyBirdStart,
			&row.EarlyBirdEnd,
			&row.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan pricing row", zap.Error(err))
			return nil, fmt.Errorf("scan pricing row: %w", err)
		}
		result = append(result, &row)
	}

	return result, nil
}
