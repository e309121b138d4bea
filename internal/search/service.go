package search

import (
	"context"
	"fmt"
	"net/http"

	"aerobook/internal/trip"
	"aerobook/internal/web"
	"aerobook/pkg/backend"
	"aerobook/pkg/logger"

	"github.com/dustin/go-humanize"
)

// Searcher is the slice of the backend client the search flow needs.
type Searcher interface {
	Search(ctx context.Context, req backend.SearchRequest) (*backend.SearchResponse, error)
}

// FieldErrors carries per-field inline messages for a rejected form.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	return "search form validation failed"
}

type Service struct {
	backend Searcher
	logger  logger.Client
}

func NewService(b Searcher, log logger.Client) *Service {
	return &Service{backend: b, logger: log}
}

// Submit validates the form, runs the search and records the outcome in the
// trip store. Validation failures return FieldErrors without touching the
// backend; an empty result set surfaces an error and stores nothing.
func (s *Service) Submit(ctx context.Context, store *trip.Store, form Form) (int, error) {
	if fieldErrs := form.validate(); len(fieldErrs) > 0 {
		return 0, fieldErrs
	}

	params, req := form.normalize()

	resp, err := s.backend.Search(ctx, req)
	if err != nil {
		return 0, err
	}

	if len(resp.Flights) == 0 {
		return 0, &web.AppError{
			Status:  http.StatusNotFound,
			Code:    web.ErrorCodeBackendRejected,
			Message: "No flights found for this route/date",
		}
	}

	results := trip.Results{TripType: resp.TripType, Flights: resp.Flights}
	if err := store.SaveSearch(ctx, params, results); err != nil {
		return 0, fmt.Errorf("failed to store search results: %w", err)
	}

	s.logger.Info("search completed",
		logger.Field{Key: "trip_type", Value: params.TripType},
		logger.Field{Key: "results", Value: len(resp.Flights)},
	)
	return len(resp.Flights), nil
}

// Results builds the results view from the trip store. No search this
// session means the "please search" empty state; the backend is never
// queried from here.
func (s *Service) Results(ctx context.Context, store *trip.Store, q FilterQuery) ResultsView {
	results, ok := store.Results(ctx)
	if !ok {
		return ResultsView{HasSearch: false, Flights: []OfferView{}}
	}

	filtered := applyFilters(results.Flights, q)
	filtered = applySorting(filtered, q.SortBy, q.Order)

	view := ResultsView{
		HasSearch:    true,
		TripType:     results.TripType,
		Flights:      make([]OfferView, 0, len(filtered)),
		TotalResults: len(filtered),
		MaxPrice:     maxOfferPrice(results.Flights),
	}
	if params, ok := store.SearchParams(ctx); ok {
		view.SearchParams = &params
	}
	for _, offer := range filtered {
		view.Flights = append(view.Flights, newOfferView(offer))
	}
	return view
}

func newOfferView(offer backend.FlightOffer) OfferView {
	return OfferView{
		FlightOffer:       offer,
		DisplayPrice:      fmt.Sprintf("%s %s", offer.Currency, humanize.CommafWithDigits(offer.Price, 2)),
		DurationFormatted: formatDuration(offer.DurationMinutes),
		StopsLabel:        stopsLabel(offer.Stops),
	}
}

func formatDuration(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func stopsLabel(stops int) string {
	switch stops {
	case 0:
		return "Direct Flight"
	case 1:
		return "1 Stop"
	default:
		return fmt.Sprintf("%d Stops", stops)
	}
}
