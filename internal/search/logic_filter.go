package search

import (
	"sort"

	"aerobook/pkg/backend"
)

// applyFilters returns the offers matching every active predicate, in their
// original order. Filtering is pure: applying the same query twice yields
// the same subset as once.
func applyFilters(offers []backend.FlightOffer, q FilterQuery) []backend.FlightOffer {
	filtered := make([]backend.FlightOffer, 0, len(offers))
	for _, offer := range offers {
		if matchesStops(offer.Stops, q.Stops) && matchesPrice(offer.Price, q.MaxPrice) {
			filtered = append(filtered, offer)
		}
	}
	return filtered
}

// matchesStops buckets exact 0, exact 1 and "2+" for anything above.
func matchesStops(stops int, filter string) bool {
	switch filter {
	case "", "all":
		return true
	case "0":
		return stops == 0
	case "1":
		return stops == 1
	case "2+":
		return stops >= 2
	default:
		return true
	}
}

// matchesPrice applies an inclusive upper bound; a non-positive bound
// means the slider is at its ceiling and nothing is excluded.
func matchesPrice(price, maxPrice float64) bool {
	if maxPrice <= 0 {
		return true
	}
	return price <= maxPrice
}

// maxOfferPrice seeds the price slider: the highest price among all
// returned offers before any filtering.
func maxOfferPrice(offers []backend.FlightOffer) float64 {
	var max float64
	for _, offer := range offers {
		if offer.Price > max {
			max = offer.Price
		}
	}
	return max
}

// applySorting returns a sorted copy. Stable sorts keep offers with equal
// keys in their search order so the list doesn't jump between renders.
func applySorting(offers []backend.FlightOffer, sortBy, order string) []backend.FlightOffer {
	if len(offers) <= 1 || sortBy == "" {
		return offers
	}

	sorted := make([]backend.FlightOffer, len(offers))
	copy(sorted, offers)

	desc := order == "desc"
	switch sortBy {
	case "price":
		sort.SliceStable(sorted, func(i, j int) bool {
			if desc {
				return sorted[i].Price > sorted[j].Price
			}
			return sorted[i].Price < sorted[j].Price
		})
	case "duration":
		sort.SliceStable(sorted, func(i, j int) bool {
			if desc {
				return sorted[i].DurationMinutes > sorted[j].DurationMinutes
			}
			return sorted[i].DurationMinutes < sorted[j].DurationMinutes
		})
	case "departure_time":
		sort.SliceStable(sorted, func(i, j int) bool {
			ti, tj := departureOf(sorted[i]), departureOf(sorted[j])
			if desc {
				return ti > tj
			}
			return ti < tj
		})
	}

	return sorted
}

func departureOf(offer backend.FlightOffer) int64 {
	if len(offer.Segments) == 0 {
		return 0
	}
	return offer.Segments[0].Departure.Unix()
}
