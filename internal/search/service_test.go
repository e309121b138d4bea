package search

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"aerobook/internal/trip"
	"aerobook/pkg/backend"
	"aerobook/pkg/cache"
	"aerobook/pkg/logger"
	"aerobook/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	calls    int
	response *backend.SearchResponse
	err      error
}

func (f *fakeSearcher) Search(_ context.Context, req backend.SearchRequest) (*backend.SearchResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	resp := *f.response
	if resp.TripType == "" {
		resp.TripType = req.TripType
	}
	return &resp, nil
}

func newSearchFixture(t *testing.T, searcher *fakeSearcher) (*Service, *trip.Store) {
	t.Helper()
	log := logger.NewWithWriter("development", &bytes.Buffer{})
	mgr := session.NewManager(cache.NewMemoryCache(), log, 30)
	return NewService(searcher, log), trip.NewStore(mgr.StoreFor("sid"))
}

func validOneWayForm() Form {
	return Form{
		TripType: backend.TripOneWay,
		From:     "lhr",
		To:       "DXB",
		Date:     "2026-09-10",
		Adults:   1,
	}
}

func TestSubmit_MultiCityMissingDateBlocksWithoutNetworkCall(t *testing.T) {
	searcher := &fakeSearcher{}
	svc, store := newSearchFixture(t, searcher)

	form := Form{
		TripType: backend.TripMultiCity,
		Legs: []backend.SearchLeg{
			{From: "LHR", To: "DXB", Date: "2026-09-10"},
			{From: "DXB", To: "SIN"}, // date missing
		},
	}

	_, err := svc.Submit(context.Background(), store, form)
	require.Error(t, err)

	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "legs[1].date")
	assert.Equal(t, 0, searcher.calls, "validation failure must not reach the backend")
}

func TestSubmit_MultiCityNeedsTwoLegs(t *testing.T) {
	searcher := &fakeSearcher{}
	svc, store := newSearchFixture(t, searcher)

	form := Form{
		TripType: backend.TripMultiCity,
		Legs:     []backend.SearchLeg{{From: "LHR", To: "DXB", Date: "2026-09-10"}},
	}

	_, err := svc.Submit(context.Background(), store, form)
	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "legs")
	assert.Equal(t, 0, searcher.calls)
}

func TestSubmit_RoundTripRequiresReturnDate(t *testing.T) {
	searcher := &fakeSearcher{}
	svc, store := newSearchFixture(t, searcher)

	form := validOneWayForm()
	form.TripType = backend.TripRound

	_, err := svc.Submit(context.Background(), store, form)
	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "returnDate")
}

func TestSubmit_StoresResultsAndEcho(t *testing.T) {
	searcher := &fakeSearcher{response: &backend.SearchResponse{
		Flights: []backend.FlightOffer{
			{ID: "of-1", Price: 480, Currency: "USD"},
			{ID: "of-2", Price: 650, Currency: "USD"},
		},
	}}
	svc, store := newSearchFixture(t, searcher)

	total, err := svc.Submit(context.Background(), store, validOneWayForm())
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	params, ok := store.SearchParams(context.Background())
	require.True(t, ok)
	assert.Equal(t, "LHR", params.From, "codes are uppercased on normalize")
	assert.Equal(t, 1, params.Travelers.Adults)

	results, ok := store.Results(context.Background())
	require.True(t, ok)
	assert.Len(t, results.Flights, 2)
	assert.Equal(t, backend.TripOneWay, results.TripType)
}

func TestSubmit_ZeroTravelersDefaultsToOneAdult(t *testing.T) {
	searcher := &fakeSearcher{response: &backend.SearchResponse{
		Flights: []backend.FlightOffer{{ID: "of-1"}},
	}}
	svc, store := newSearchFixture(t, searcher)

	form := validOneWayForm()
	form.Adults = 0

	_, err := svc.Submit(context.Background(), store, form)
	require.NoError(t, err)

	params, _ := store.SearchParams(context.Background())
	assert.Equal(t, 1, params.Travelers.Adults)
}

func TestSubmit_InfantExceedingAdultsIsAllowedAtSearchTime(t *testing.T) {
	// The infant-per-adult rule gates the wizard's passenger step, not the
	// search form.
	searcher := &fakeSearcher{response: &backend.SearchResponse{
		Flights: []backend.FlightOffer{{ID: "of-1"}},
	}}
	svc, store := newSearchFixture(t, searcher)

	form := validOneWayForm()
	form.Adults = 0
	form.Infant = 1

	_, err := svc.Submit(context.Background(), store, form)
	require.NoError(t, err)

	params, _ := store.SearchParams(context.Background())
	assert.Equal(t, 0, params.Travelers.Adults)
	assert.Equal(t, 1, params.Travelers.Infant)
}

func TestSubmit_EmptyResultSetStoresNothing(t *testing.T) {
	searcher := &fakeSearcher{response: &backend.SearchResponse{Flights: nil}}
	svc, store := newSearchFixture(t, searcher)

	_, err := svc.Submit(context.Background(), store, validOneWayForm())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No flights found")

	_, ok := store.Results(context.Background())
	assert.False(t, ok)
}

func TestSubmit_BackendFailurePropagates(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("connection refused")}
	svc, store := newSearchFixture(t, searcher)

	_, err := svc.Submit(context.Background(), store, validOneWayForm())
	require.Error(t, err)

	_, ok := store.Results(context.Background())
	assert.False(t, ok)
}

func TestResults_NoSearchYieldsEmptyState(t *testing.T) {
	svc, store := newSearchFixture(t, &fakeSearcher{})

	view := svc.Results(context.Background(), store, FilterQuery{})
	assert.False(t, view.HasSearch)
	assert.Empty(t, view.Flights)
}

func TestResults_FilterAndSliderCeiling(t *testing.T) {
	searcher := &fakeSearcher{response: &backend.SearchResponse{
		Flights: []backend.FlightOffer{
			{ID: "of-1", Stops: 0, Price: 480, Currency: "USD", DurationMinutes: 420},
			{ID: "of-2", Stops: 1, Price: 350, Currency: "USD", DurationMinutes: 540},
			{ID: "of-3", Stops: 2, Price: 290, Currency: "USD", DurationMinutes: 700},
		},
	}}
	svc, store := newSearchFixture(t, searcher)

	_, err := svc.Submit(context.Background(), store, validOneWayForm())
	require.NoError(t, err)

	view := svc.Results(context.Background(), store, FilterQuery{Stops: "0"})
	require.True(t, view.HasSearch)
	require.Len(t, view.Flights, 1)
	assert.Equal(t, "of-1", view.Flights[0].ID)
	assert.Equal(t, "Direct Flight", view.Flights[0].StopsLabel)
	assert.Equal(t, "7h 0m", view.Flights[0].DurationFormatted)

	// Slider ceiling reflects all offers, not the filtered subset.
	assert.Equal(t, 480.0, view.MaxPrice)
}
