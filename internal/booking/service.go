package booking

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"aerobook/internal/trip"
	"aerobook/internal/web"
	"aerobook/pkg/backend"
	"aerobook/pkg/idgen"
	"aerobook/pkg/logger"
)

// BookingBackend is the slice of the backend client the wizard needs.
type BookingBackend interface {
	ValidatePassengers(ctx context.Context, passengers []backend.Passenger) error
	ValidateContact(ctx context.Context, contact backend.ContactInfo) error
	CreateBooking(ctx context.Context, req backend.BookingRequest) (*backend.BookingResult, error)
	SendOTP(ctx context.Context, email string) (*backend.SendOTPResponse, error)
	VerifyOTP(ctx context.Context, email, code string) error
}

// Options toggles the contact-verification sub-flow.
type Options struct {
	OTPEnabled     bool
	ResendCooldown time.Duration
}

type Service struct {
	backend BookingBackend
	idgen   idgen.Generator
	logger  logger.Client
	opts    Options

	// now is swapped in tests to pin the cooldown clock.
	now func() time.Time
}

func NewService(b BookingBackend, gen idgen.Generator, log logger.Client, opts Options) *Service {
	return &Service{
		backend: b,
		idgen:   gen,
		logger:  log,
		opts:    opts,
		now:     time.Now,
	}
}

// Start enters the wizard. The priced flight is the entry precondition:
// an explicit hand-off wins over the session copy, and with neither the
// caller is sent back to search. A wizard already in the session is
// resumed as-is so a reload lands on the step it left.
func (s *Service) Start(ctx context.Context, store *trip.Store, handoff *backend.PricedFlight) (*State, *backend.PricedFlight, error) {
	pf, ok := store.ResolvePricedFlight(ctx, handoff)
	if !ok {
		return nil, nil, web.PreconditionError("No flight selected. Please search and select a flight first.", "/")
	}

	var st State
	if store.Wizard(ctx, &st) {
		return &st, &pf, nil
	}

	travelers := backend.TravelerCounts{}
	if params, ok := store.SearchParams(ctx); ok {
		travelers = params.Travelers
	}
	fresh := newState(travelers)
	if err := store.SaveWizard(ctx, fresh); err != nil {
		return nil, nil, err
	}

	s.logger.Info("booking started",
		logger.Field{Key: "offer_id", Value: pf.Offer.ID},
		logger.Field{Key: "passengers", Value: len(fresh.Passengers)},
	)
	return fresh, &pf, nil
}

// SubmitPassengers validates the passenger list and advances to Contact.
// The structural checks and the infant rule run before any network call;
// the backend gets the list only when everything local passes.
func (s *Service) SubmitPassengers(ctx context.Context, store *trip.Store, passengers []backend.Passenger) (*State, error) {
	st, err := s.load(ctx, store)
	if err != nil {
		return nil, err
	}
	if err := requireStep(st, StepPassengers); err != nil {
		return nil, err
	}

	if err := st.checkSlots(passengers); err != nil {
		return nil, web.ValidationError(err.Error())
	}
	if violatesInfantRule(passengers) {
		return nil, web.ValidationError(infantRuleMessage)
	}
	if msgs := missingPassengerFields(passengers); len(msgs) > 0 {
		return nil, web.ValidationError(strings.Join(msgs, "; "))
	}

	if err := s.backend.ValidatePassengers(ctx, passengers); err != nil {
		return nil, err
	}

	st.Passengers = passengers
	st.advance()
	if err := store.SaveWizard(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// SendOTP issues a verification code to the given address, subject to the
// resend cooldown. The wizard must be on the Contact step.
func (s *Service) SendOTP(ctx context.Context, store *trip.Store, email string) (*State, error) {
	st, err := s.load(ctx, store)
	if err != nil {
		return nil, err
	}
	if err := requireStep(st, StepContact); err != nil {
		return nil, err
	}
	if !s.opts.OTPEnabled {
		return nil, web.ValidationError("Email verification is not enabled")
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, web.ValidationError("Please enter an email address")
	}

	now := s.now()
	if st.OTP.Email == email && now.Before(st.OTP.ResendAvailableAt) {
		wait := int(st.OTP.ResendAvailableAt.Sub(now).Seconds()) + 1
		return nil, web.ValidationError(fmt.Sprintf("Please wait %d seconds before requesting another code", wait))
	}

	resp, err := s.backend.SendOTP(ctx, email)
	if err != nil {
		return nil, err
	}

	st.OTP = OTPState{
		Phase:             OTPAwaitingVerification,
		Email:             email,
		ResendAvailableAt: now.Add(s.opts.ResendCooldown),
	}
	if resp.ExpiresInSeconds > 0 {
		st.OTP.ExpiresAt = now.Add(time.Duration(resp.ExpiresInSeconds) * time.Second)
	}
	if err := store.SaveWizard(ctx, st); err != nil {
		return nil, err
	}

	s.logger.Info("otp sent", logger.Field{Key: "expires_in", Value: resp.ExpiresInSeconds})
	return st, nil
}

// VerifyOTP checks the code against the backend. A wrong code leaves the
// sub-flow in awaiting-verification so the user can retry or resend.
func (s *Service) VerifyOTP(ctx context.Context, store *trip.Store, email, code string) (*State, error) {
	st, err := s.load(ctx, store)
	if err != nil {
		return nil, err
	}
	if err := requireStep(st, StepContact); err != nil {
		return nil, err
	}
	if st.OTP.Phase != OTPAwaitingVerification || st.OTP.Email != email {
		return nil, web.ValidationError("Request a verification code first")
	}
	if strings.TrimSpace(code) == "" {
		return nil, web.ValidationError("Please enter the verification code")
	}

	if err := s.backend.VerifyOTP(ctx, email, code); err != nil {
		return nil, err
	}

	st.OTP.Phase = OTPVerified
	if err := store.SaveWizard(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// SubmitContact validates the contact details and advances to Review. With
// OTP enabled, the address must have been verified first; changing the
// address after verification means verifying again.
func (s *Service) SubmitContact(ctx context.Context, store *trip.Store, contact backend.ContactInfo) (*State, error) {
	st, err := s.load(ctx, store)
	if err != nil {
		return nil, err
	}
	if err := requireStep(st, StepContact); err != nil {
		return nil, err
	}

	contact.Email = strings.TrimSpace(contact.Email)
	contact.Phone = strings.TrimSpace(contact.Phone)
	if contact.Email == "" || contact.Phone == "" {
		return nil, web.ValidationError("Please enter both email and phone number")
	}
	if !strings.Contains(contact.Email, "@") {
		return nil, web.ValidationError("Please enter a valid email address")
	}
	if contact.PhoneCountryCode == "" {
		contact.PhoneCountryCode = "92"
	}

	if s.opts.OTPEnabled && (st.OTP.Phase != OTPVerified || st.OTP.Email != contact.Email) {
		return nil, web.ValidationError("Please verify your email address first")
	}

	if err := s.backend.ValidateContact(ctx, contact); err != nil {
		return nil, err
	}

	st.Contact = &contact
	st.advance()
	if err := store.SaveWizard(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Back moves one step backward and persists the move. Data entered on the
// step being left stays in the state.
func (s *Service) Back(ctx context.Context, store *trip.Store) (*State, error) {
	st, err := s.load(ctx, store)
	if err != nil {
		return nil, err
	}
	st.back()
	if err := store.SaveWizard(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Submit assembles the final booking request and hands it to the backend.
// Every precondition is re-checked here with a specific message, since the
// session may have expired piecemeal. On success the in-flight trip data
// is cleared and the result stored for the confirmation page.
func (s *Service) Submit(ctx context.Context, store *trip.Store) (*backend.BookingResult, error) {
	pf, ok := store.ResolvePricedFlight(ctx, nil)
	if !ok {
		return nil, web.PreconditionError("Flight selection missing. Please search and select a flight again.", "/")
	}
	st, err := s.load(ctx, store)
	if err != nil {
		return nil, err
	}
	if st.Step != StepReview {
		return nil, &web.AppError{
			Status:  http.StatusConflict,
			Code:    web.ErrorCodeMissingPrecondition,
			Message: "Booking is not ready for submission. Please complete the remaining steps.",
		}
	}
	if len(st.Passengers) == 0 || len(missingPassengerFields(st.Passengers)) > 0 {
		return nil, web.ValidationError("Passenger details missing. Please fill in all passengers.")
	}
	if st.Contact == nil || st.Contact.Email == "" {
		return nil, web.ValidationError("Contact information missing. Please provide your contact details.")
	}

	req := backend.BookingRequest{
		IdempotencyKey: s.idgen.Token(),
		Flight:         pf,
		Passengers:     st.Passengers,
		Contact:        *st.Contact,
		Payment:        backend.PaymentMethod{Type: "Cash"},
	}

	result, err := s.backend.CreateBooking(ctx, req)
	if err != nil {
		s.logger.Error("booking submission failed", logger.Err(err))
		return nil, err
	}

	// The booking exists upstream at this point. A failed session write
	// must not eat the confirmation, so save it first and keep going.
	if err := store.SaveBookingResult(ctx, *result); err != nil {
		s.logger.Error("booking result not persisted", logger.Err(err))
	}
	store.ClearFlow(ctx)

	s.logger.Info("booking submitted",
		logger.Field{Key: "booking_id", Value: result.BookingID},
		logger.Field{Key: "status", Value: result.Status},
	)
	return result, nil
}

// Result pops the stored outcome for the confirmation page. The second
// read of the same outcome reports not found.
func (s *Service) Result(ctx context.Context, store *trip.Store) (backend.BookingResult, bool) {
	return store.PopBookingResult(ctx)
}

func (s *Service) load(ctx context.Context, store *trip.Store) (*State, error) {
	var st State
	if !store.Wizard(ctx, &st) {
		return nil, web.PreconditionError("No booking in progress. Please select a flight first.", "/")
	}
	return &st, nil
}

func requireStep(st *State, want Step) error {
	if st.Step != want {
		return &web.AppError{
			Status:  http.StatusConflict,
			Code:    web.ErrorCodeMissingPrecondition,
			Message: fmt.Sprintf("Booking is on the %s step", st.Step),
		}
	}
	return nil
}
