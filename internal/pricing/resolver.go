package pricing

import (
	"fmt"
	"strings"
	"time"

	"trip-booking/internal/data/entity"
)

// Unresolved traveler reasons. These are normal enumerable outcomes, not
// errors; they are aggregated once per resolve call.
const (
	ReasonNoVariantSelected = "no variant selected"
	ReasonVehicleRequired   = "vehicle selection required"
	ReasonNoVehicleMatch    = "no price for the selected vehicle"
	ReasonNoPublishedPrice  = "no published price for this selection"
)

// LineItem is one traveler matched to exactly one pricing row.
type LineItem struct {
	Traveler entity.Traveler
	Variant  entity.Variant
	Vehicle  string
	Row      *entity.PricingRow
}

// UnresolvedTraveler pairs a traveler with the reason no row matched.
type UnresolvedTraveler struct {
	Traveler entity.Traveler
	Reason   string
}

// Resolution partitions a roster: every traveler appears in exactly one of
// the two lists.
type Resolution struct {
	LineItems  []LineItem
	Unresolved []UnresolvedTraveler
}

// ResolutionError aggregates unresolved travelers into a single user-facing
// failure for the settlement path.
type ResolutionError struct {
	Unresolved []UnresolvedTraveler
}

func (e *ResolutionError) Error() string {
	parts := make([]string, len(e.Unresolved))
	for i, u := range e.Unresolved {
		parts[i] = fmt.Sprintf("%s: %s", u.Traveler.Name, u.Reason)
	}
	return "could not resolve a price for " + strings.Join(parts, "; ")
}

// NormalizeVariant maps free text onto the closed variant enumeration by
// case-insensitive substring match. Anything else means no variant selected.
func NormalizeVariant(s string) entity.Variant {
	v := strings.ToLower(s)
	switch {
	case strings.Contains(v, "quad"):
		return entity.VariantQuad
	case strings.Contains(v, "triple"):
		return entity.VariantTriple
	case strings.Contains(v, "double"):
		return entity.VariantDouble
	default:
		return entity.VariantNone
	}
}

// InviteOnly reports whether the rate table exposes nothing a visitor could
// self-serve: no row carries a variant label and no row is a fixed-price
// package (nil departure date). Such trips never accept checkout.
func InviteOnly(rows []*entity.PricingRow) bool {
	for _, r := range rows {
		if r.Variant != entity.VariantNone {
			return false
		}
		if r.DepartureDate == nil {
			return false
		}
	}
	return true
}

// Resolve matches each traveler to one pricing row for the given departure
// date, or records why it could not. The two output lists partition the
// roster with no overlap and no omission.
func Resolve(rows []*entity.PricingRow, date time.Time, travelers []entity.Traveler) Resolution {
	dateRows := rowsForDate(rows, date)

	// Vehicle only joins the lookup key when the date actually offers a
	// choice of vehicles. A lone label (or none) must never block checkout
	// through an empty vehicle selector.
	needVehicle := vehicleDistinct(dateRows)

	// A date served only by variant-less rows is a fixed-price package; the
	// variant requirement is waived for it.
	packageOnly := len(dateRows) > 0 && allPackage(dateRows)

	var res Resolution
	for _, t := range travelers {
		variant := NormalizeVariant(t.Variant)

		if variant == entity.VariantNone && !packageOnly {
			res.Unresolved = append(res.Unresolved, UnresolvedTraveler{Traveler: t, Reason: ReasonNoVariantSelected})
			continue
		}

		candidates := make([]*entity.PricingRow, 0, len(dateRows))
		for _, r := range dateRows {
			if !packageOnly && r.Variant != variant {
				continue
			}
			candidates = append(candidates, r)
		}

		if needVehicle {
			wanted := normalizeVehicle(t.Vehicle)
			if wanted == "" {
				res.Unresolved = append(res.Unresolved, UnresolvedTraveler{Traveler: t, Reason: ReasonVehicleRequired})
				continue
			}
			matched := candidates[:0]
			for _, r := range candidates {
				if normalizeVehicle(r.Vehicle) == wanted {
					matched = append(matched, r)
				}
			}
			if len(matched) == 0 {
				// Never silently fall back to a different vehicle's price.
				res.Unresolved = append(res.Unresolved, UnresolvedTraveler{Traveler: t, Reason: ReasonNoVehicleMatch})
				continue
			}
			candidates = matched
		}

		row := pickRow(candidates)
		if row == nil {
			res.Unresolved = append(res.Unresolved, UnresolvedTraveler{Traveler: t, Reason: ReasonNoPublishedPrice})
			continue
		}

		res.LineItems = append(res.LineItems, LineItem{
			Traveler: t,
			Variant:  row.Variant,
			Vehicle:  row.Vehicle,
			Row:      row,
		})
	}

	return res
}

func rowsForDate(rows []*entity.PricingRow, date time.Time) []*entity.PricingRow {
	y, m, d := date.Date()
	out := make([]*entity.PricingRow, 0, len(rows))
	for _, r := range rows {
		if r.DepartureDate == nil {
			// Fixed-price package rows are valid for any departure date.
			out = append(out, r)
			continue
		}
		ry, rm, rd := r.DepartureDate.Date()
		if ry == y && rm == m && rd == d {
			out = append(out, r)
		}
	}
	return out
}

func allPackage(rows []*entity.PricingRow) bool {
	for _, r := range rows {
		if r.Variant != entity.VariantNone {
			return false
		}
	}
	return true
}

// vehicleDistinct reports whether the date's rows expose more than one
// distinct non-empty vehicle label.
func vehicleDistinct(rows []*entity.PricingRow) bool {
	seen := ""
	for _, r := range rows {
		v := normalizeVehicle(r.Vehicle)
		if v == "" {
			continue
		}
		if seen == "" {
			seen = v
			continue
		}
		if v != seen {
			return true
		}
	}
	return false
}

func normalizeVehicle(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// pickRow selects the lowest positive price, ties broken by most recent
// creation. Duplicate rows come from historical upstream imports; the rule is
// a compatibility workaround, not a business feature.
func pickRow(candidates []*entity.PricingRow) *entity.PricingRow {
	var best *entity.PricingRow
	for _, r := range candidates {
		if r.Price <= 0 {
			continue
		}
		switch {
		case best == nil:
			best = r
		case r.Price < best.Price:
			best = r
		case r.Price == best.Price && r.CreatedAt.After(best.CreatedAt):
			best = r
		}
	}
	return best
}
