// Package trip holds the cross-page flow state: everything a page needs to
// recover after a reload or direct navigation. Each key has a single writer
// and a single lifecycle; nothing else mutates these.
//
//	key            writer               cleared on
//	searchParams   search submit        new search, flow completion
//	searchResults  search submit        new search, flow completion
//	pricedFlight   pricing confirm      flow completion
//	wizardState    wizard transitions   flow completion
//	bookingResult  booking submit       first read (displayed once)
package trip

import (
	"context"

	"aerobook/pkg/backend"
	"aerobook/pkg/session"
)

const (
	keySearchParams  = "searchParams"
	keySearchResults = "searchResults"
	keyPricedFlight  = "pricedFlight"
	keyWizardState   = "wizardState"
	keyBookingResult = "bookingResult"
)

// SearchParameters is the echo of the search form kept for later steps:
// results reconstruction and traveler-count-dependent pricing.
type SearchParameters struct {
	TripType    string                 `json:"tripType"`
	From        string                 `json:"from,omitempty"`
	To          string                 `json:"to,omitempty"`
	Date        string                 `json:"date,omitempty"`
	ReturnDate  string                 `json:"returnDate,omitempty"`
	Legs        []backend.SearchLeg    `json:"legs,omitempty"`
	Travelers   backend.TravelerCounts `json:"travelers"`
	TravelClass string                 `json:"travelClass"`
}

// Results is the stored search outcome: the offers plus the echoed trip type.
type Results struct {
	TripType string                `json:"tripType"`
	Flights  []backend.FlightOffer `json:"flights"`
}

// Store wraps a session store with the flow's typed keys.
type Store struct {
	sess *session.Store
}

func NewStore(s *session.Store) *Store {
	return &Store{sess: s}
}

// SaveSearch records a fresh search, replacing any previous one.
func (s *Store) SaveSearch(ctx context.Context, params SearchParameters, results Results) error {
	if err := s.sess.Put(ctx, keySearchParams, params); err != nil {
		return err
	}
	return s.sess.Put(ctx, keySearchResults, results)
}

func (s *Store) SearchParams(ctx context.Context) (SearchParameters, bool) {
	var p SearchParameters
	ok := s.sess.Get(ctx, keySearchParams, &p)
	return p, ok
}

func (s *Store) Results(ctx context.Context) (Results, bool) {
	var r Results
	ok := s.sess.Get(ctx, keySearchResults, &r)
	return r, ok
}

func (s *Store) SavePricedFlight(ctx context.Context, pf backend.PricedFlight) error {
	return s.sess.Put(ctx, keyPricedFlight, pf)
}

func (s *Store) PricedFlight(ctx context.Context) (backend.PricedFlight, bool) {
	var pf backend.PricedFlight
	ok := s.sess.Get(ctx, keyPricedFlight, &pf)
	return pf, ok
}

// SaveWizard and Wizard move the wizard's own state type in and out of the
// store; the type is owned by the booking package.
func (s *Store) SaveWizard(ctx context.Context, state any) error {
	return s.sess.Put(ctx, keyWizardState, state)
}

func (s *Store) Wizard(ctx context.Context, dst any) bool {
	return s.sess.Get(ctx, keyWizardState, dst)
}

func (s *Store) ClearWizard(ctx context.Context) {
	s.sess.Remove(ctx, keyWizardState)
}

func (s *Store) SaveBookingResult(ctx context.Context, result backend.BookingResult) error {
	return s.sess.Put(ctx, keyBookingResult, result)
}

// PopBookingResult reads and discards the stored result: the terminal view
// displays it once.
func (s *Store) PopBookingResult(ctx context.Context) (backend.BookingResult, bool) {
	var r backend.BookingResult
	if !s.sess.Get(ctx, keyBookingResult, &r) {
		return r, false
	}
	s.sess.Remove(ctx, keyBookingResult)
	return r, true
}

// ClearFlow drops everything accumulated by a search-to-booking pass.
// Called on successful submission and on explicit restart. The pending
// bookingResult is left for the result view to pop.
func (s *Store) ClearFlow(ctx context.Context) {
	s.sess.Remove(ctx, keySearchParams)
	s.sess.Remove(ctx, keySearchResults)
	s.sess.Remove(ctx, keyPricedFlight)
	s.sess.Remove(ctx, keyWizardState)
}

// ResolvePricedFlight is the single hand-off accessor: an explicit payload
// from the previous step wins, the store is the fallback, and a payload is
// written through so a later reload recovers it.
func (s *Store) ResolvePricedFlight(ctx context.Context, handoff *backend.PricedFlight) (backend.PricedFlight, bool) {
	if handoff != nil && handoff.Offer.ID != "" {
		if err := s.SavePricedFlight(ctx, *handoff); err == nil {
			return *handoff, true
		}
		// Write-through failed; the hand-off copy is still usable.
		return *handoff, true
	}
	return s.PricedFlight(ctx)
}
