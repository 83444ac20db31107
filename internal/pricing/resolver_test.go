package pricing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-booking/internal/data/entity"
)

var departure = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

func row(variant entity.Variant, vehicle string, price float64, createdAt time.Time) *entity.PricingRow {
	d := departure
	return &entity.PricingRow{
		BaseSimple:    entity.BaseSimple{ID: uuid.New(), CreatedAt: createdAt},
		TripID:        uuid.New(),
		DepartureDate: &d,
		Variant:       variant,
		Vehicle:       vehicle,
		Price:         price,
	}
}

func traveler(id int, name, variant, vehicle string) entity.Traveler {
	return entity.Traveler{SessionID: id, Name: name, Variant: variant, Vehicle: vehicle}
}

func TestNormalizeVariant(t *testing.T) {
	assert.Equal(t, entity.VariantQuad, NormalizeVariant("Quad Sharing"))
	assert.Equal(t, entity.VariantTriple, NormalizeVariant("TRIPLE"))
	assert.Equal(t, entity.VariantDouble, NormalizeVariant("double occupancy"))
	assert.Equal(t, entity.VariantNone, NormalizeVariant("Twin"))
	assert.Equal(t, entity.VariantNone, NormalizeVariant(""))
}

func TestResolve_PartitionsRoster(t *testing.T) {
	rows := []*entity.PricingRow{
		row(entity.VariantTriple, "", 17999, time.Now()),
	}
	travelers := []entity.Traveler{
		traveler(1, "Asha", "Triple", ""),
		traveler(2, "Ravi", "Quad", ""),
		traveler(3, "Meera", "", ""),
	}

	res := Resolve(rows, departure, travelers)

	assert.Len(t, res.LineItems, 1)
	assert.Len(t, res.Unresolved, 2)
	assert.Equal(t, len(travelers), len(res.LineItems)+len(res.Unresolved), "lists must partition the roster")

	seen := map[int]bool{}
	for _, li := range res.LineItems {
		seen[li.Traveler.SessionID] = true
	}
	for _, u := range res.Unresolved {
		assert.False(t, seen[u.Traveler.SessionID], "no traveler may appear in both lists")
		seen[u.Traveler.SessionID] = true
	}
	assert.Len(t, seen, 3)
}

func TestResolve_LowestPriceWins(t *testing.T) {
	rows := []*entity.PricingRow{
		row(entity.VariantTriple, "", 18999, time.Now()),
		row(entity.VariantTriple, "", 17999, time.Now()),
	}

	res := Resolve(rows, departure, []entity.Traveler{traveler(1, "Asha", "Triple", "")})

	require.Len(t, res.LineItems, 1)
	assert.Equal(t, 17999.0, res.LineItems[0].Row.Price)
}

func TestResolve_TieBreaksToMostRecent_Deterministically(t *testing.T) {
	older := row(entity.VariantTriple, "", 17999, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC))
	newer := row(entity.VariantTriple, "", 17999, time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC))
	rows := []*entity.PricingRow{older, newer}

	travelers := []entity.Traveler{
		traveler(1, "Asha", "Triple", ""),
		traveler(2, "Ravi", "Triple", ""),
	}

	res := Resolve(rows, departure, travelers)

	require.Len(t, res.LineItems, 2)
	for _, li := range res.LineItems {
		assert.Equal(t, newer.ID, li.Row.ID, "both travelers must get the later-created row, not alternate")
	}
}

func TestResolve_VehicleIgnoredWithoutDistinction(t *testing.T) {
	// Only one vehicle label on the date: an empty selector must not block.
	rows := []*entity.PricingRow{
		row(entity.VariantTriple, "Tempo Traveller", 17999, time.Now()),
	}

	res := Resolve(rows, departure, []entity.Traveler{traveler(1, "Asha", "Triple", "")})

	require.Len(t, res.LineItems, 1)
	assert.Equal(t, "Tempo Traveller", res.LineItems[0].Vehicle)
}

func TestResolve_VehicleRequiredWhenDistinct(t *testing.T) {
	rows := []*entity.PricingRow{
		row(entity.VariantTriple, "SUV", 19999, time.Now()),
		row(entity.VariantTriple, "Tempo Traveller", 17999, time.Now()),
	}

	t.Run("no vehicle selected", func(t *testing.T) {
		res := Resolve(rows, departure, []entity.Traveler{traveler(1, "Asha", "Triple", "")})
		require.Len(t, res.Unresolved, 1)
		assert.Equal(t, ReasonVehicleRequired, res.Unresolved[0].Reason)
	})

	t.Run("unknown vehicle does not fall back", func(t *testing.T) {
		res := Resolve(rows, departure, []entity.Traveler{traveler(1, "Asha", "Triple", "Bus")})
		require.Len(t, res.Unresolved, 1)
		assert.Equal(t, ReasonNoVehicleMatch, res.Unresolved[0].Reason)
	})

	t.Run("matching vehicle resolves, case-insensitive", func(t *testing.T) {
		res := Resolve(rows, departure, []entity.Traveler{traveler(1, "Asha", "Triple", "suv")})
		require.Len(t, res.LineItems, 1)
		assert.Equal(t, 19999.0, res.LineItems[0].Row.Price)
	})
}

func TestResolve_ZeroPriceNeverResolves(t *testing.T) {
	rows := []*entity.PricingRow{
		row(entity.VariantTriple, "", 0, time.Now()),
		row(entity.VariantDouble, "", -100, time.Now()),
	}

	res := Resolve(rows, departure, []entity.Traveler{
		traveler(1, "Asha", "Triple", ""),
		traveler(2, "Ravi", "Double", ""),
	})

	assert.Empty(t, res.LineItems)
	require.Len(t, res.Unresolved, 2)
	for _, u := range res.Unresolved {
		assert.Equal(t, ReasonNoPublishedPrice, u.Reason)
	}
}

func TestResolve_DateFilter(t *testing.T) {
	other := row(entity.VariantTriple, "", 15999, time.Now())
	d := departure.AddDate(0, 0, 7)
	other.DepartureDate = &d
	rows := []*entity.PricingRow{
		other,
		row(entity.VariantTriple, "", 17999, time.Now()),
	}

	res := Resolve(rows, departure, []entity.Traveler{traveler(1, "Asha", "Triple", "")})

	require.Len(t, res.LineItems, 1)
	assert.Equal(t, 17999.0, res.LineItems[0].Row.Price)
}

func TestResolve_FixedPricePackage(t *testing.T) {
	pkg := &entity.PricingRow{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		Variant:    entity.VariantNone,
		Price:      24999,
	}

	// Package rows match any requested date and waive the variant requirement.
	res := Resolve([]*entity.PricingRow{pkg}, departure, []entity.Traveler{traveler(1, "Asha", "", "")})

	require.Len(t, res.LineItems, 1)
	assert.Equal(t, 24999.0, res.LineItems[0].Row.Price)
}

func TestInviteOnly(t *testing.T) {
	assert.True(t, InviteOnly(nil), "a trip without rows is invite-only")

	hidden := row(entity.VariantNone, "", 17999, time.Now())
	assert.True(t, InviteOnly([]*entity.PricingRow{hidden}), "dated rows without variant labels are invite-only")

	assert.False(t, InviteOnly([]*entity.PricingRow{row(entity.VariantTriple, "", 17999, time.Now())}))

	pkg := &entity.PricingRow{BaseSimple: entity.BaseSimple{ID: uuid.New()}, Price: 24999}
	assert.False(t, InviteOnly([]*entity.PricingRow{pkg}), "fixed-price packages are self-serve")
}
