package booking

import (
	"fmt"
	"strings"
	"time"

	"aerobook/pkg/backend"
)

// Step is the wizard's cursor. The flow is strictly linear:
// Passengers -> Contact -> Review, with backward moves allowed.
type Step string

const (
	StepPassengers Step = "passengers"
	StepContact    Step = "contact"
	StepReview     Step = "review"
)

// OTPPhase tracks the optional contact-verification sub-flow.
type OTPPhase string

const (
	OTPAwaitingSend         OTPPhase = "awaiting_send"
	OTPAwaitingVerification OTPPhase = "awaiting_verification"
	OTPVerified             OTPPhase = "verified"
)

const infantRuleMessage = "Each infant must be accompanied by one adult (1 infant per adult allowed)"

// OTPState is the contact step's verification sub-state. Email binds the
// issued code to the address it was sent to; changing the address means
// verifying again. ResendAvailableAt enforces the resend cooldown.
type OTPState struct {
	Phase             OTPPhase  `json:"phase,omitempty"`
	Email             string    `json:"email,omitempty"`
	ResendAvailableAt time.Time `json:"resendAvailableAt,omitzero"`
	ExpiresAt         time.Time `json:"expiresAt,omitzero"`
}

// State is everything the wizard has accumulated. It is persisted to the
// trip store after every transition so a reload recovers mid-flow; data
// entered on earlier steps survives backward navigation.
type State struct {
	Step       Step                 `json:"step"`
	Passengers []backend.Passenger  `json:"passengers"`
	Contact    *backend.ContactInfo `json:"contact,omitempty"`
	OTP        OTPState             `json:"otp"`
}

// newState seeds the passenger slots from the traveler counts. Slot count
// and types are structurally fixed for the rest of the booking; when no
// counts survived the session, a single adult slot is the fallback.
func newState(travelers backend.TravelerCounts) *State {
	if travelers.Total() == 0 {
		travelers = backend.TravelerCounts{Adults: 1}
	}

	passengers := make([]backend.Passenger, 0, travelers.Total())
	for i := 0; i < travelers.Adults; i++ {
		passengers = append(passengers, backend.Passenger{Title: "MR", Gender: "M", Type: backend.PaxAdult})
	}
	for i := 0; i < travelers.Child; i++ {
		passengers = append(passengers, backend.Passenger{Type: backend.PaxChild})
	}
	for i := 0; i < travelers.Infant; i++ {
		passengers = append(passengers, backend.Passenger{Type: backend.PaxInfant})
	}

	return &State{
		Step:       StepPassengers,
		Passengers: passengers,
		OTP:        OTPState{Phase: OTPAwaitingSend},
	}
}

// advance moves one step forward. The terminal step never advances; the
// Review step ends in submission, not a transition.
func (st *State) advance() {
	switch st.Step {
	case StepPassengers:
		st.Step = StepContact
	case StepContact:
		st.Step = StepReview
	}
}

// back moves one step backward, never past Passengers. Accumulated data
// is untouched.
func (st *State) back() {
	switch st.Step {
	case StepReview:
		st.Step = StepContact
	case StepContact:
		st.Step = StepPassengers
	}
}

// checkSlots rejects submissions that change the structurally fixed slot
// count or per-slot passenger types.
func (st *State) checkSlots(submitted []backend.Passenger) error {
	if len(submitted) != len(st.Passengers) {
		return fmt.Errorf("expected %d passengers, got %d", len(st.Passengers), len(submitted))
	}
	for i, p := range submitted {
		if p.Type != st.Passengers[i].Type {
			return fmt.Errorf("passenger %d must stay type %s", i+1, st.Passengers[i].Type)
		}
	}
	return nil
}

// violatesInfantRule reports whether the list has more infants than adults.
func violatesInfantRule(passengers []backend.Passenger) bool {
	var adults, infants int
	for _, p := range passengers {
		switch p.Type {
		case backend.PaxAdult:
			adults++
		case backend.PaxInfant:
			infants++
		}
	}
	return infants > adults
}

// missingPassengerFields lists the empty required fields, one message per
// passenger, for inline display.
func missingPassengerFields(passengers []backend.Passenger) []string {
	var msgs []string
	for i, p := range passengers {
		var missing []string
		if strings.TrimSpace(p.FirstName) == "" {
			missing = append(missing, "first name")
		}
		if strings.TrimSpace(p.LastName) == "" {
			missing = append(missing, "last name")
		}
		if strings.TrimSpace(p.DateOfBirth) == "" {
			missing = append(missing, "date of birth")
		}
		if len(missing) > 0 {
			msgs = append(msgs, fmt.Sprintf("passenger %d: %s required", i+1, strings.Join(missing, ", ")))
		}
	}
	return msgs
}
