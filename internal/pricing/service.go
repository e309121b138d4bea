package pricing

import (
	"context"

	"aerobook/internal/trip"
	"aerobook/internal/web"
	"aerobook/pkg/backend"
	"aerobook/pkg/logger"
)

// Pricer is the slice of the backend client the pricing step needs.
type Pricer interface {
	Price(ctx context.Context, req backend.PricingRequest) (*backend.PricingResponse, error)
}

type Service struct {
	backend Pricer
	logger  logger.Client
}

func NewService(b Pricer, log logger.Client) *Service {
	return &Service{backend: b, logger: log}
}

// PriceOffer re-quotes the selected offer against the backend and stores the
// confirmed PricedFlight for the wizard. The request carries the sibling
// offers from the original search as re-pricing context. A backend failure
// is a hard stop: nothing is stored and nothing is retried automatically.
func (s *Service) PriceOffer(ctx context.Context, store *trip.Store, offerID string) (*backend.PricedFlight, error) {
	results, ok := store.Results(ctx)
	if !ok {
		return nil, web.PreconditionError("No flight search in progress. Please search again.", "/")
	}

	selected, siblings, found := splitOffers(results.Flights, offerID)
	if !found {
		return nil, web.ValidationError("Unknown flight selection")
	}

	travelers := backend.TravelerCounts{Adults: 1}
	if params, ok := store.SearchParams(ctx); ok {
		travelers = params.Travelers
	}

	resp, err := s.backend.Price(ctx, backend.PricingRequest{
		Selected:       selected,
		Candidates:     siblings,
		PassengerTypes: passengerTypes(travelers),
	})
	if err != nil {
		return nil, err
	}

	pf := buildPricedFlight(*resp.Offer, resp.Breakdown, travelers)
	if err := store.SavePricedFlight(ctx, pf); err != nil {
		return nil, err
	}

	s.logger.Info("offer priced",
		logger.Field{Key: "offer_id", Value: offerID},
		logger.Field{Key: "grand_total", Value: pf.GrandTotal},
	)
	return &pf, nil
}

// splitOffers pulls the selected offer out and keeps the rest as siblings.
func splitOffers(offers []backend.FlightOffer, offerID string) (backend.FlightOffer, []backend.FlightOffer, bool) {
	var selected backend.FlightOffer
	siblings := make([]backend.FlightOffer, 0, len(offers))
	found := false
	for _, offer := range offers {
		if offer.ID == offerID {
			selected = offer
			found = true
			continue
		}
		siblings = append(siblings, offer)
	}
	return selected, siblings, found
}

func passengerTypes(t backend.TravelerCounts) []backend.PassengerTypeCount {
	var types []backend.PassengerTypeCount
	if t.Adults > 0 {
		types = append(types, backend.PassengerTypeCount{Type: backend.PaxAdult, Quantity: t.Adults})
	}
	if t.Child > 0 {
		types = append(types, backend.PassengerTypeCount{Type: backend.PaxChild, Quantity: t.Child})
	}
	if t.Infant > 0 {
		types = append(types, backend.PassengerTypeCount{Type: backend.PaxInfant, Quantity: t.Infant})
	}
	return types
}

// buildPricedFlight computes the per-type subtotals (unit price x count)
// and the grand total. When the backend omits a unit price for a type, the
// fallback unit is the breakdown total split evenly across all passengers.
func buildPricedFlight(offer backend.FlightOffer, breakdown backend.PriceBreakdown, travelers backend.TravelerCounts) backend.PricedFlight {
	totalPax := travelers.Total()
	if totalPax == 0 {
		totalPax = 1
	}
	fallbackUnit := breakdown.Total / float64(totalPax)

	var typeTotals []backend.TypeTotal
	var grandTotal float64
	for _, tc := range passengerTypes(travelers) {
		unit, ok := breakdown.UnitPrices[tc.Type]
		if !ok {
			unit = fallbackUnit
		}
		subtotal := unit * float64(tc.Quantity)
		typeTotals = append(typeTotals, backend.TypeTotal{
			Type:      tc.Type,
			Quantity:  tc.Quantity,
			UnitPrice: unit,
			Subtotal:  subtotal,
		})
		grandTotal += subtotal
	}
	if grandTotal == 0 {
		grandTotal = breakdown.Total
	}

	return backend.PricedFlight{
		Offer:      offer,
		Breakdown:  breakdown,
		TypeTotals: typeTotals,
		GrandTotal: grandTotal,
	}
}
