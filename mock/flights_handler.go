package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type Segment struct {
	FlightNumber string `json:"flightNumber"`
	Airline      string `json:"airline"`
	From         string `json:"from"`
	To           string `json:"to"`
	DepartureAt  string `json:"departureAt"`
	ArrivalAt    string `json:"arrivalAt"`
}

type FlightOffer struct {
	ID              string    `json:"id"`
	Segments        []Segment `json:"segments"`
	Stops           int       `json:"stops"`
	DurationMinutes int       `json:"durationMinutes"`
	Price           float64   `json:"price"`
	Currency        string    `json:"currency"`
}

type SearchRequest struct {
	TripType    string `json:"tripType"`
	From        string `json:"from"`
	To          string `json:"to"`
	Date        string `json:"date"`
	ReturnDate  string `json:"returnDate"`
	TravelClass string `json:"travelClass"`
}

func SearchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SearchRequest
	json.NewDecoder(r.Body).Decode(&req)

	from := strings.ToUpper(req.From)
	to := strings.ToUpper(req.To)
	if from == "" {
		from = "KHI"
	}
	if to == "" {
		to = "DXB"
	}

	flights := cannedOffers(from, to, req.Date)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"tripType": req.TripType,
		"flights":  flights,
	})
}

func cannedOffers(from, to, date string) []FlightOffer {
	if date == "" {
		date = "2026-09-15"
	}
	return []FlightOffer{
		{
			ID: "OF-100",
			Segments: []Segment{
				{FlightNumber: "PK301", Airline: "PIA", From: from, To: to, DepartureAt: date + "T08:00:00Z", ArrivalAt: date + "T10:05:00Z"},
			},
			Stops: 0, DurationMinutes: 125, Price: 420, Currency: "USD",
		},
		{
			ID: "OF-200",
			Segments: []Segment{
				{FlightNumber: "EK601", Airline: "Emirates", From: from, To: "SHJ", DepartureAt: date + "T06:30:00Z", ArrivalAt: date + "T08:20:00Z"},
				{FlightNumber: "EK612", Airline: "Emirates", From: "SHJ", To: to, DepartureAt: date + "T10:00:00Z", ArrivalAt: date + "T11:10:00Z"},
			},
			Stops: 1, DurationMinutes: 280, Price: 350, Currency: "USD",
		},
		{
			ID: "OF-300",
			Segments: []Segment{
				{FlightNumber: "QR605", Airline: "Qatar Airways", From: from, To: "DOH", DepartureAt: date + "T02:00:00Z", ArrivalAt: date + "T03:45:00Z"},
				{FlightNumber: "QR1002", Airline: "Qatar Airways", From: "DOH", To: to, DepartureAt: date + "T06:00:00Z", ArrivalAt: date + "T08:30:00Z"},
			},
			Stops: 1, DurationMinutes: 390, Price: 310, Currency: "USD",
		},
	}
}

type PricingRequest struct {
	Selected       FlightOffer `json:"selected"`
	PassengerTypes []struct {
		Type     string `json:"type"`
		Quantity int    `json:"quantity"`
	} `json:"passengerTypes"`
}

func PricingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req PricingRequest
	json.NewDecoder(r.Body).Decode(&req)

	base := req.Selected.Price
	if base == 0 {
		base = 400
	}

	// Confirmed price drifts a little from the search quote, like a real
	// re-pricing call would.
	unitPrices := map[string]float64{}
	var total float64
	for _, pt := range req.PassengerTypes {
		unit := base
		switch pt.Type {
		case "CHD":
			unit = base * 0.75
		case "INF":
			unit = base * 0.10
		}
		unitPrices[pt.Type] = unit
		total += unit * float64(pt.Quantity)
	}
	if total == 0 {
		total = base
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"offer":   req.Selected,
		"breakdown": map[string]any{
			"baseFare":   total * 0.82,
			"taxes":      total * 0.18,
			"unitPrices": unitPrices,
			"total":      total,
			"currency":   "USD",
		},
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"message":%q}`, msg)
}
