package search

import (
	"aerobook/internal/trip"
	"aerobook/pkg/backend"
)

// Form is the search form submission as it arrives from the browser.
type Form struct {
	TripType    string              `json:"tripType"`
	From        string              `json:"from"`
	To          string              `json:"to"`
	Date        string              `json:"date"`
	ReturnDate  string              `json:"returnDate"`
	Legs        []backend.SearchLeg `json:"legs"`
	Adults      int                 `json:"adults"`
	Child       int                 `json:"child"`
	Infant      int                 `json:"infant"`
	TravelClass string              `json:"travelClass"`
}

// FilterQuery holds the client-side filter/sort controls of the results
// view. Stops is "" (all), "0", "1" or "2+"; MaxPrice <= 0 means no cap.
type FilterQuery struct {
	Stops    string
	MaxPrice float64
	SortBy   string // price, duration, departure_time
	Order    string // asc, desc
}

// OfferView is a FlightOffer plus the display strings the results list shows.
type OfferView struct {
	backend.FlightOffer
	DisplayPrice      string `json:"displayPrice"`
	DurationFormatted string `json:"durationFormatted"`
	StopsLabel        string `json:"stopsLabel"`
}

// ResultsView is the results page view model. HasSearch is false when no
// search has been made this session (direct URL access), which renders the
// "please search" empty state. MaxPrice is the price-slider ceiling: the
// highest price among all returned offers, before filtering.
type ResultsView struct {
	HasSearch    bool                   `json:"hasSearch"`
	TripType     string                 `json:"tripType,omitempty"`
	SearchParams *trip.SearchParameters `json:"searchParams,omitempty"`
	Flights      []OfferView            `json:"flights"`
	TotalResults int                    `json:"totalResults"`
	MaxPrice     float64                `json:"maxPrice,omitempty"`
}

type searchSubmitResponse struct {
	TotalResults int    `json:"totalResults"`
	Redirect     string `json:"redirect"`
}
