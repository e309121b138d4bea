package backend

import "time"

// Trip types accepted by the search endpoint.
const (
	TripOneWay    = "oneway"
	TripRound     = "round"
	TripMultiCity = "multi"
)

// Passenger type codes used across pricing, validation and booking.
const (
	PaxAdult  = "ADT"
	PaxChild  = "CHD"
	PaxInfant = "INF"
)

// Segment is one flight hop within an itinerary.
type Segment struct {
	Carrier      string    `json:"carrier"`
	FlightNumber string    `json:"flightNumber"`
	From         string    `json:"from"`
	To           string    `json:"to"`
	Departure    time.Time `json:"departure"`
	Arrival      time.Time `json:"arrival"`
	CabinClass   string    `json:"cabinClass"`
	Equipment    string    `json:"equipment,omitempty"`
}

// FlightOffer is a priced itinerary candidate returned by search.
// Immutable once received; the display price may be stale and is
// superseded by a live-pricing call before booking.
type FlightOffer struct {
	ID              string    `json:"id"`
	Segments        []Segment `json:"segments"`
	Stops           int       `json:"stops"`
	DurationMinutes int       `json:"durationMinutes"`
	Price           float64   `json:"price"`
	Currency        string    `json:"currency"`
}

// TravelerCounts mirrors the traveler widget: adults >= 1, others >= 0.
type TravelerCounts struct {
	Adults int `json:"adults"`
	Child  int `json:"child"`
	Infant int `json:"infant"`
}

// Total returns the number of passenger slots the counts describe.
func (t TravelerCounts) Total() int {
	return t.Adults + t.Child + t.Infant
}

// SearchLeg is one origin/destination/date tuple of a multi-city trip.
type SearchLeg struct {
	From string `json:"from"`
	To   string `json:"to"`
	Date string `json:"date"` // YYYY-MM-DD
}

// SearchRequest is the normalized search payload. One-way and round trips
// fill From/To/Date (+ReturnDate); multi-city fills Legs instead.
type SearchRequest struct {
	TripType    string         `json:"tripType"`
	From        string         `json:"from,omitempty"`
	To          string         `json:"to,omitempty"`
	Date        string         `json:"date,omitempty"`
	ReturnDate  string         `json:"returnDate,omitempty"`
	Legs        []SearchLeg    `json:"segments,omitempty"`
	Travelers   TravelerCounts `json:"travelers"`
	TravelClass string         `json:"travelClass"`
}

type SearchResponse struct {
	TripType string        `json:"tripType"`
	Flights  []FlightOffer `json:"flights"`
	Message  string        `json:"message,omitempty"`
}

// PassengerTypeCount is the type/quantity breakdown a pricing call carries.
type PassengerTypeCount struct {
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
}

// PricingRequest asks for a fresh authoritative price for Selected.
// Candidates carries the sibling offers from the original search; the
// backend may need them as re-pricing context.
type PricingRequest struct {
	Selected       FlightOffer          `json:"selected"`
	Candidates     []FlightOffer        `json:"candidates,omitempty"`
	PassengerTypes []PassengerTypeCount `json:"passengerTypes"`
}

// PriceBreakdown is the server-confirmed fare decomposition. UnitPrices is
// keyed by passenger type code and holds the per-seat price for that type.
type PriceBreakdown struct {
	BaseFare   float64            `json:"baseFare"`
	Taxes      float64            `json:"taxes"`
	UnitPrices map[string]float64 `json:"unitPrices"`
	Total      float64            `json:"total"`
	Currency   string             `json:"currency"`
}

type PricingResponse struct {
	Success   bool           `json:"success"`
	Offer     *FlightOffer   `json:"offer,omitempty"`
	Breakdown PriceBreakdown `json:"breakdown"`
	Message   string         `json:"message,omitempty"`
}

// TypeTotal is one line of the itemized per-passenger-type totals shown on
// the detail view: unit price x quantity for one type.
type TypeTotal struct {
	Type      string  `json:"type"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Subtotal  float64 `json:"subtotal"`
}

// PricedFlight is a FlightOffer enriched with its confirmed breakdown.
// This is what the booking wizard operates on; its GrandTotal supersedes
// the offer's display price.
type PricedFlight struct {
	Offer      FlightOffer    `json:"offer"`
	Breakdown  PriceBreakdown `json:"breakdown"`
	TypeTotals []TypeTotal    `json:"typeTotals"`
	GrandTotal float64        `json:"grandTotal"`
}

type Passenger struct {
	Title          string `json:"title"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Gender         string `json:"gender"`
	Type           string `json:"type"`
	DateOfBirth    string `json:"dob"`
	PassportNumber string `json:"passportNumber"`
	PassportExpiry string `json:"passportExpiry"`
	Nationality    string `json:"nationality"`
}

type ContactInfo struct {
	Email            string `json:"email"`
	PhoneCountryCode string `json:"phoneCountryCode"`
	Phone            string `json:"phone"`
}

// PaymentMethod is a fixed placeholder; payment processing is server-side.
type PaymentMethod struct {
	Type string `json:"type"`
}

type ValidatePassengersRequest struct {
	Passengers []Passenger `json:"passengers"`
}

type ValidateContactRequest struct {
	Contact ContactInfo `json:"contactInfo"`
}

// ValidationResponse is shared by the validate-passengers and
// validate-contact endpoints.
type ValidationResponse struct {
	Success bool     `json:"success"`
	Errors  []string `json:"errors,omitempty"`
}

type BookingRequest struct {
	IdempotencyKey string        `json:"idempotencyKey"`
	Flight         PricedFlight  `json:"flight"`
	Passengers     []Passenger   `json:"passengers"`
	Contact        ContactInfo   `json:"contactInfo"`
	Payment        PaymentMethod `json:"formOfPayment"`
}

type BookingResult struct {
	Success             bool   `json:"success"`
	BookingID           string `json:"bookingId"`
	PNR                 string `json:"pnr,omitempty"`
	AirlineConfirmation string `json:"airlineConfirmation,omitempty"`
	Status              string `json:"status"`
	Message             string `json:"message"`
	TicketingDeadline   string `json:"ticketingDeadline,omitempty"`
}

// PendingBooking is one admin-reviewable booking with its embedded
// flight/passenger/contact snapshots.
type PendingBooking struct {
	BookingID  string       `json:"bookingId"`
	CreatedAt  time.Time    `json:"createdAt"`
	Flight     PricedFlight `json:"flight"`
	Passengers []Passenger  `json:"passengers"`
	Contact    ContactInfo  `json:"contactInfo"`
	Status     string       `json:"status"`
}

type PendingBookingsResponse struct {
	Bookings []PendingBooking `json:"bookings"`
}

type ApproveRequest struct {
	AdminNotes string `json:"adminNotes,omitempty"`
}

type RejectRequest struct {
	RejectionReason string `json:"rejectionReason"`
}

type AdminActionResponse struct {
	Success bool            `json:"success"`
	Booking *PendingBooking `json:"booking,omitempty"`
	Message string          `json:"message,omitempty"`
}

type SendOTPRequest struct {
	Email string `json:"email"`
}

type SendOTPResponse struct {
	Success          bool   `json:"success"`
	ExpiresInSeconds int    `json:"expiresInSeconds"`
	Message          string `json:"message,omitempty"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type VerifyOTPResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
