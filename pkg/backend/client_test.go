package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"aerobook/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	log := logger.NewWithWriter("development", &bytes.Buffer{})
	return NewClient(srv.Client(), srv.URL, log)
}

func TestClient_Search(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/search", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var req SearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "LHR", req.From)

		json.NewEncoder(w).Encode(SearchResponse{
			Flights: []FlightOffer{{ID: "of-1", Stops: 0, Price: 480, Currency: "USD"}},
		})
	})

	resp, err := client.Search(context.Background(), SearchRequest{
		TripType: TripOneWay,
		From:     "LHR",
		To:       "DXB",
		Date:     "2026-09-10",
	})
	require.NoError(t, err)
	require.Len(t, resp.Flights, 1)
	// Trip type is echoed from the request when the backend omits it.
	assert.Equal(t, TripOneWay, resp.TripType)
}

func TestClient_SearchBackendError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"error": "provider unavailable"})
	})

	_, err := client.Search(context.Background(), SearchRequest{TripType: TripOneWay})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "provider unavailable", apiErr.Error())
}

func TestClient_ValidatePassengersJoinsServerErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(ValidationResponse{
			Success: false,
			Errors:  []string{"passport number required", "dob invalid"},
		})
	})

	err := client.ValidatePassengers(context.Background(), []Passenger{{Type: PaxAdult}})
	require.Error(t, err)
	assert.Equal(t, "passport number required, dob invalid", err.Error())
}

func TestClient_PriceDefaultsOfferAndCurrency(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(PricingResponse{
			Success: true,
			Breakdown: PriceBreakdown{
				BaseFare:   400,
				Taxes:      120,
				Total:      520,
				UnitPrices: map[string]float64{PaxAdult: 520},
			},
		})
	})

	selected := FlightOffer{ID: "of-1", Price: 500, Currency: "USD"}
	resp, err := client.Price(context.Background(), PricingRequest{
		Selected:       selected,
		PassengerTypes: []PassengerTypeCount{{Type: PaxAdult, Quantity: 1}},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Offer)
	assert.Equal(t, "of-1", resp.Offer.ID)
	assert.Equal(t, "USD", resp.Breakdown.Currency)
}

func TestClient_PriceFailureFlag(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(PricingResponse{Success: false, Message: "fare no longer available"})
	})

	_, err := client.Price(context.Background(), PricingRequest{})
	require.Error(t, err)
	assert.Equal(t, "fare no longer available", err.Error())
}

func TestClient_RejectBookingPath(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(AdminActionResponse{Success: true})
	})

	_, err := client.RejectBooking(context.Background(), "bk-42", "incomplete documents")
	require.NoError(t, err)
	assert.Equal(t, "/api/admin/bookings/bk-42/reject", gotPath)
}
