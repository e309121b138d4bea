package admin

import (
	"context"
	"strings"

	"aerobook/internal/web"
	"aerobook/pkg/backend"
	"aerobook/pkg/logger"
)

// AdminBackend is the slice of the backend client the approval console needs.
type AdminBackend interface {
	PendingBookings(ctx context.Context) ([]backend.PendingBooking, error)
	ApproveBooking(ctx context.Context, bookingID, notes string) (*backend.AdminActionResponse, error)
	RejectBooking(ctx context.Context, bookingID, reason string) (*backend.AdminActionResponse, error)
}

type Service struct {
	backend AdminBackend
	logger  logger.Client
}

func NewService(b AdminBackend, log logger.Client) *Service {
	return &Service{backend: b, logger: log}
}

// Pending fetches the current review queue. The list is never cached; each
// call reflects the backend's state at that moment.
func (s *Service) Pending(ctx context.Context) ([]backend.PendingBooking, error) {
	bookings, err := s.backend.PendingBookings(ctx)
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// Approve confirms a held booking. Notes are optional.
func (s *Service) Approve(ctx context.Context, bookingID, notes string) (*backend.AdminActionResponse, error) {
	if strings.TrimSpace(bookingID) == "" {
		return nil, web.ValidationError("Booking id is required")
	}

	resp, err := s.backend.ApproveBooking(ctx, bookingID, strings.TrimSpace(notes))
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking approved", logger.Field{Key: "booking_id", Value: bookingID})
	return resp, nil
}

// Reject declines a held booking. The reason is mandatory and checked
// before any network call.
func (s *Service) Reject(ctx context.Context, bookingID, reason string) (*backend.AdminActionResponse, error) {
	if strings.TrimSpace(bookingID) == "" {
		return nil, web.ValidationError("Booking id is required")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, web.ValidationError("A rejection reason is required")
	}

	resp, err := s.backend.RejectBooking(ctx, bookingID, strings.TrimSpace(reason))
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking rejected", logger.Field{Key: "booking_id", Value: bookingID})
	return resp, nil
}
