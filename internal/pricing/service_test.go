package pricing

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"aerobook/internal/trip"
	"aerobook/internal/web"
	"aerobook/pkg/backend"
	"aerobook/pkg/cache"
	"aerobook/pkg/logger"
	"aerobook/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePricer struct {
	lastReq  backend.PricingRequest
	response *backend.PricingResponse
	err      error
}

func (f *fakePricer) Price(_ context.Context, req backend.PricingRequest) (*backend.PricingResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	resp := *f.response
	if resp.Offer == nil {
		offer := req.Selected
		resp.Offer = &offer
	}
	return &resp, nil
}

func newPricingFixture(t *testing.T, pricer *fakePricer) (*Service, *trip.Store) {
	t.Helper()
	log := logger.NewWithWriter("development", &bytes.Buffer{})
	mgr := session.NewManager(cache.NewMemoryCache(), log, 30)
	return NewService(pricer, log), trip.NewStore(mgr.StoreFor("sid"))
}

func seedSearch(t *testing.T, store *trip.Store, travelers backend.TravelerCounts) {
	t.Helper()
	require.NoError(t, store.SaveSearch(context.Background(),
		trip.SearchParameters{TripType: backend.TripOneWay, Travelers: travelers},
		trip.Results{
			TripType: backend.TripOneWay,
			Flights: []backend.FlightOffer{
				{ID: "of-1", Price: 500, Currency: "USD"},
				{ID: "of-2", Price: 650, Currency: "USD"},
				{ID: "of-3", Price: 720, Currency: "USD"},
			},
		},
	))
}

func TestPriceOffer_WithoutSearchIsPreconditionError(t *testing.T) {
	svc, store := newPricingFixture(t, &fakePricer{})

	_, err := svc.PriceOffer(context.Background(), store, "of-1")
	require.Error(t, err)

	var appErr *web.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, web.ErrorCodeMissingPrecondition, appErr.Code)
	assert.Equal(t, "/", appErr.Redirect)
}

func TestPriceOffer_SendsSiblingsAndPassengerTypes(t *testing.T) {
	pricer := &fakePricer{response: &backend.PricingResponse{
		Success: true,
		Breakdown: backend.PriceBreakdown{
			BaseFare: 400, Taxes: 120, Total: 520, Currency: "USD",
			UnitPrices: map[string]float64{
				backend.PaxAdult:  200,
				backend.PaxChild:  150,
				backend.PaxInfant: 20,
			},
		},
	}}
	svc, store := newPricingFixture(t, pricer)
	seedSearch(t, store, backend.TravelerCounts{Adults: 2, Child: 1, Infant: 1})

	pf, err := svc.PriceOffer(context.Background(), store, "of-2")
	require.NoError(t, err)

	assert.Equal(t, "of-2", pricer.lastReq.Selected.ID)
	assert.Len(t, pricer.lastReq.Candidates, 2, "sibling offers travel with the pricing request")
	assert.Equal(t, []backend.PassengerTypeCount{
		{Type: backend.PaxAdult, Quantity: 2},
		{Type: backend.PaxChild, Quantity: 1},
		{Type: backend.PaxInfant, Quantity: 1},
	}, pricer.lastReq.PassengerTypes)

	// 2*200 + 1*150 + 1*20
	assert.Equal(t, 570.0, pf.GrandTotal)
	require.Len(t, pf.TypeTotals, 3)
	assert.Equal(t, 400.0, pf.TypeTotals[0].Subtotal)
}

func TestPriceOffer_StoresPricedFlight(t *testing.T) {
	pricer := &fakePricer{response: &backend.PricingResponse{
		Success: true,
		Breakdown: backend.PriceBreakdown{
			Total: 520, Currency: "USD",
			UnitPrices: map[string]float64{backend.PaxAdult: 520},
		},
	}}
	svc, store := newPricingFixture(t, pricer)
	seedSearch(t, store, backend.TravelerCounts{Adults: 1})

	_, err := svc.PriceOffer(context.Background(), store, "of-1")
	require.NoError(t, err)

	stored, ok := store.PricedFlight(context.Background())
	require.True(t, ok)
	assert.Equal(t, "of-1", stored.Offer.ID)
	assert.Equal(t, 520.0, stored.GrandTotal)
}

func TestPriceOffer_UnknownOffer(t *testing.T) {
	svc, store := newPricingFixture(t, &fakePricer{})
	seedSearch(t, store, backend.TravelerCounts{Adults: 1})

	_, err := svc.PriceOffer(context.Background(), store, "of-404")
	require.Error(t, err)

	var appErr *web.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, web.ErrorCodeValidation, appErr.Code)
}

func TestPriceOffer_BackendFailureStoresNothing(t *testing.T) {
	pricer := &fakePricer{err: errors.New("pricing unavailable")}
	svc, store := newPricingFixture(t, pricer)
	seedSearch(t, store, backend.TravelerCounts{Adults: 1})

	_, err := svc.PriceOffer(context.Background(), store, "of-1")
	require.Error(t, err)

	_, ok := store.PricedFlight(context.Background())
	assert.False(t, ok, "a failed pricing call must not store a priced flight")
}

func TestBuildPricedFlight_MissingUnitPriceFallsBackToEvenSplit(t *testing.T) {
	breakdown := backend.PriceBreakdown{Total: 600, Currency: "USD"}
	pf := buildPricedFlight(backend.FlightOffer{ID: "x"}, breakdown, backend.TravelerCounts{Adults: 2, Child: 1})

	require.Len(t, pf.TypeTotals, 2)
	assert.Equal(t, 200.0, pf.TypeTotals[0].UnitPrice)
	assert.Equal(t, 400.0, pf.TypeTotals[0].Subtotal)
	assert.Equal(t, 600.0, pf.GrandTotal)
}
