package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

type Passenger struct {
	Title          string `json:"title"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Type           string `json:"type"`
	DateOfBirth    string `json:"dob"`
	PassportNumber string `json:"passportNumber"`
}

type ContactInfo struct {
	Email            string `json:"email"`
	PhoneCountryCode string `json:"phoneCountryCode"`
	Phone            string `json:"phone"`
}

func ValidatePassengersHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Passengers []Passenger `json:"passengers"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	var errs []string
	for i, p := range req.Passengers {
		if p.Type != "INF" && p.PassportNumber == "" {
			errs = append(errs, fmt.Sprintf("passenger %d: passport number required", i+1))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if len(errs) > 0 {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "errors": errs})
		return
	}
	json.NewEncoder(w).Encode(map[string]any{"success": true})
}

func ValidateContactHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Contact ContactInfo `json:"contactInfo"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	w.Header().Set("Content-Type", "application/json")
	if !strings.Contains(req.Contact.Email, "@") {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "errors": []string{"invalid email address"}})
		return
	}
	json.NewEncoder(w).Encode(map[string]any{"success": true})
}

type PendingBooking struct {
	BookingID  string          `json:"bookingId"`
	CreatedAt  time.Time       `json:"createdAt"`
	Flight     json.RawMessage `json:"flight"`
	Passengers []Passenger     `json:"passengers"`
	Contact    ContactInfo     `json:"contactInfo"`
	Status     string          `json:"status"`
}

// bookingStore keeps held bookings in memory so the admin endpoints see
// what the booking endpoint created.
type bookingStore struct {
	mu      sync.Mutex
	seq     int
	pending map[string]*PendingBooking
	seenKey map[string]string
}

func newBookingStore() *bookingStore {
	s := &bookingStore{
		pending: map[string]*PendingBooking{},
		seenKey: map[string]string{},
	}
	// One pre-seeded row so the admin console has something to show.
	s.pending["BK-1000"] = &PendingBooking{
		BookingID: "BK-1000",
		CreatedAt: time.Now().Add(-2 * time.Hour),
		Flight:    json.RawMessage(`{"offer":{"id":"OF-100","price":420,"currency":"USD"},"grandTotal":420}`),
		Passengers: []Passenger{
			{Title: "MR", FirstName: "Hamza", LastName: "Khan", Type: "ADT", DateOfBirth: "1992-03-14", PassportNumber: "AB1234567"},
		},
		Contact: ContactInfo{Email: "hamza@example.com", PhoneCountryCode: "92", Phone: "3001112222"},
		Status:  "ON_HOLD",
	}
	return s
}

func (s *bookingStore) CreateBookingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		IdempotencyKey string          `json:"idempotencyKey"`
		Flight         json.RawMessage `json:"flight"`
		Passengers     []Passenger     `json:"passengers"`
		Contact        ContactInfo     `json:"contactInfo"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Duplicate submissions with the same key return the original booking.
	if id, ok := s.seenKey[req.IdempotencyKey]; ok && req.IdempotencyKey != "" {
		writeBookingResult(w, id)
		return
	}

	s.seq++
	id := fmt.Sprintf("BK-%d", 1000+s.seq)
	s.pending[id] = &PendingBooking{
		BookingID:  id,
		CreatedAt:  time.Now(),
		Flight:     req.Flight,
		Passengers: req.Passengers,
		Contact:    req.Contact,
		Status:     "ON_HOLD",
	}
	if req.IdempotencyKey != "" {
		s.seenKey[req.IdempotencyKey] = id
	}
	writeBookingResult(w, id)
}

func writeBookingResult(w http.ResponseWriter, id string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success":           true,
		"bookingId":         id,
		"pnr":               "PNR" + id[3:],
		"status":            "ON_HOLD",
		"message":           "Booking held pending admin approval",
		"ticketingDeadline": time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	})
}

func SendOTPHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "expiresInSeconds": 300})
}

func VerifyOTPHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	w.Header().Set("Content-Type", "application/json")
	// Any six-digit code passes except the canned wrong one.
	if len(req.Code) != 6 || req.Code == "000000" {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Invalid or expired code"})
		return
	}
	json.NewEncoder(w).Encode(map[string]any{"success": true})
}
