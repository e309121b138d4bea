package main

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
)

func (s *bookingStore) PendingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	list := make([]*PendingBooking, 0, len(s.pending))
	for _, b := range s.pending {
		list = append(list, b)
	}
	s.mu.Unlock()

	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"bookings": list})
}

// AdminActionHandler routes /api/admin/bookings/{id}/approve and
// /api/admin/bookings/{id}/reject.
func (s *bookingStore) AdminActionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/admin/bookings/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 {
		http.NotFound(w, r)
		return
	}
	id, action := parts[0], parts[1]

	var req struct {
		AdminNotes      string `json:"adminNotes"`
		RejectionReason string `json:"rejectionReason"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	s.mu.Lock()
	defer s.mu.Unlock()

	booking, ok := s.pending[id]
	if !ok {
		writeError(w, http.StatusNotFound, "booking not found or already processed")
		return
	}

	switch action {
	case "approve":
		booking.Status = "CONFIRMED"
	case "reject":
		if strings.TrimSpace(req.RejectionReason) == "" {
			writeError(w, http.StatusBadRequest, "rejection reason is required")
			return
		}
		booking.Status = "REJECTED"
	default:
		http.NotFound(w, r)
		return
	}

	delete(s.pending, id)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "booking": booking})
}
