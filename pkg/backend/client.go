package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"aerobook/pkg/logger"
)

// APIError is a non-2xx answer from the booking backend, carrying whatever
// message the server provided. Transport failures are returned as plain
// wrapped errors instead.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []string
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return strings.Join(e.Errors, ", ")
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// errorPayload covers the error body shapes the backend uses.
type errorPayload struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// Client talks to the external booking backend. It performs no automatic
// retries; a failed call surfaces to the user for a manual retry.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     logger.Client
}

func NewClient(httpClient *http.Client, baseURL string, log logger.Client) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     log,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backend: failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("backend: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend: call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload errorPayload
		// Best effort: an undecodable error body still yields an APIError.
		_ = json.NewDecoder(resp.Body).Decode(&payload)

		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    payload.Error,
			Errors:     payload.Errors,
		}
		if apiErr.Message == "" {
			apiErr.Message = payload.Message
		}

		c.logger.Warn("backend rejected request",
			logger.Field{Key: "path", Value: path},
			logger.Field{Key: "status", Value: resp.StatusCode},
		)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("backend: failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	var resp SearchResponse
	if err := c.do(ctx, http.MethodPost, "/api/search", req, &resp); err != nil {
		return nil, err
	}
	if resp.TripType == "" {
		resp.TripType = req.TripType
	}
	return &resp, nil
}

// Price re-quotes the selected offer. The response always carries the
// selected offer back: backends that omit it get the request's copy.
func (c *Client) Price(ctx context.Context, req PricingRequest) (*PricingResponse, error) {
	var resp PricingResponse
	if err := c.do(ctx, http.MethodPost, "/api/air-pricing", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{StatusCode: http.StatusBadGateway, Message: resp.Message}
	}
	if resp.Offer == nil {
		offer := req.Selected
		resp.Offer = &offer
	}
	if resp.Breakdown.Currency == "" {
		resp.Breakdown.Currency = req.Selected.Currency
	}
	return &resp, nil
}

func (c *Client) ValidatePassengers(ctx context.Context, passengers []Passenger) error {
	req := ValidatePassengersRequest{Passengers: passengers}
	var resp ValidationResponse
	if err := c.do(ctx, http.MethodPost, "/api/validate-passengers", req, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &APIError{StatusCode: http.StatusUnprocessableEntity, Errors: resp.Errors}
	}
	return nil
}

func (c *Client) ValidateContact(ctx context.Context, contact ContactInfo) error {
	req := ValidateContactRequest{Contact: contact}
	var resp ValidationResponse
	if err := c.do(ctx, http.MethodPost, "/api/validate-contact", req, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &APIError{StatusCode: http.StatusUnprocessableEntity, Errors: resp.Errors}
	}
	return nil
}

func (c *Client) CreateBooking(ctx context.Context, req BookingRequest) (*BookingResult, error) {
	var resp BookingResult
	if err := c.do(ctx, http.MethodPost, "/api/bookings", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{StatusCode: http.StatusBadGateway, Message: resp.Message}
	}
	return &resp, nil
}

func (c *Client) PendingBookings(ctx context.Context) ([]PendingBooking, error) {
	var resp PendingBookingsResponse
	if err := c.do(ctx, http.MethodGet, "/api/admin/bookings/pending", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Bookings, nil
}

func (c *Client) ApproveBooking(ctx context.Context, bookingID, notes string) (*AdminActionResponse, error) {
	req := ApproveRequest{AdminNotes: notes}
	var resp AdminActionResponse
	path := "/api/admin/bookings/" + bookingID + "/approve"
	if err := c.do(ctx, http.MethodPost, path, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) RejectBooking(ctx context.Context, bookingID, reason string) (*AdminActionResponse, error) {
	req := RejectRequest{RejectionReason: reason}
	var resp AdminActionResponse
	path := "/api/admin/bookings/" + bookingID + "/reject"
	if err := c.do(ctx, http.MethodPost, path, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SendOTP(ctx context.Context, email string) (*SendOTPResponse, error) {
	var resp SendOTPResponse
	if err := c.do(ctx, http.MethodPost, "/api/send-otp", SendOTPRequest{Email: email}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) VerifyOTP(ctx context.Context, email, code string) error {
	var resp VerifyOTPResponse
	if err := c.do(ctx, http.MethodPost, "/api/verify-otp", VerifyOTPRequest{Email: email, Code: code}, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &APIError{StatusCode: http.StatusUnauthorized, Message: resp.Message}
	}
	return nil
}
