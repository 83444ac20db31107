package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"trip-booking/internal/data/entity"
	"trip-booking/internal/data/repository"
	"trip-booking/internal/dto/response"
	"trip-booking/internal/pricing"
)

type TripService interface {
	ListTrips(ctx context.Context) ([]response.TripResponse, error)
	GetTripBySlug(ctx context.Context, slug string) (*response.TripDetailResponse, error)
}

type tripService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewTripService(repo *repository.Repository, log *zap.Logger) TripService {
	return &tripService{
		repo: repo,
		log:  log.With(zap.String("service", "trip")),
	}
}

func (s *tripService) ListTrips(ctx context.Context) ([]response.TripResponse, error) {
	trips, err := s.repo.Trip.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]response.TripResponse, len(trips))
	for i, t := range trips {
		result[i] = response.TripToResponse(t)
	}
	return result, nil
}

func (s *tripService) GetTripBySlug(ctx context.Context, slug string) (*response.TripDetailResponse, error) {
	trip, err := s.repo.Trip.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, ErrTripNotFound
	}

	rows, err := s.repo.PricingRow.FindByTripID(ctx, trip.ID)
	if err != nil {
		return nil, err
	}

	return &response.TripDetailResponse{
		TripResponse: response.TripToResponse(trip),
		InviteOnly:   pricing.InviteOnly(rows),
		Departures:   departureOptions(rows, time.Now()),
	}, nil
}

// departureOptions collapses the sparse rate table onto the storefront's
// selectable choices: one entry per (date, variant, vehicle), priced the way
// the resolver would price it.
func departureOptions(rows []*entity.PricingRow, now time.Time) []response.DepartureOption {
	type key struct {
		date    string
		variant entity.Variant
		vehicle string
	}

	index := map[key]int{}
	chosen := map[key]*entity.PricingRow{}
	var order []key

	for _, r := range rows {
		if r.Price <= 0 {
			continue
		}
		k := key{variant: r.Variant, vehicle: r.Vehicle}
		if r.DepartureDate != nil {
			k.date = r.DepartureDate.Format("2006-01-02")
		}

		prev, ok := chosen[k]
		if !ok {
			index[k] = len(order)
			order = append(order, k)
			chosen[k] = r
			continue
		}
		// Duplicate rows: same rule as checkout, lowest price wins, the
		// most recent row breaks ties.
		if r.Price < prev.Price || (r.Price == prev.Price && r.CreatedAt.After(prev.CreatedAt)) {
			chosen[k] = r
		}
	}

	if len(order) == 0 {
		return nil
	}

	options := make([]response.DepartureOption, len(order))
	for _, k := range order {
		r := chosen[k]
		options[index[k]] = response.DepartureOption{
			Date:      k.date,
			Variant:   string(r.Variant),
			Vehicle:   r.Vehicle,
			Price:     pricing.Round2(r.Price),
			EarlyBird: pricing.EarlyBirdAmount(r, now) > 0,
		}
	}
	return options
}
