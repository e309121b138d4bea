package admin

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"aerobook/internal/web"
	"aerobook/pkg/backend"
	"aerobook/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdminBackend struct {
	pending    []backend.PendingBooking
	pendingErr error

	lastNotes  string
	lastReason string
	actionErr  error
}

func (f *fakeAdminBackend) PendingBookings(_ context.Context) ([]backend.PendingBooking, error) {
	if f.pendingErr != nil {
		return nil, f.pendingErr
	}
	return f.pending, nil
}

func (f *fakeAdminBackend) ApproveBooking(_ context.Context, bookingID, notes string) (*backend.AdminActionResponse, error) {
	if f.actionErr != nil {
		return nil, f.actionErr
	}
	f.lastNotes = notes
	f.remove(bookingID)
	return &backend.AdminActionResponse{Success: true}, nil
}

func (f *fakeAdminBackend) RejectBooking(_ context.Context, bookingID, reason string) (*backend.AdminActionResponse, error) {
	if f.actionErr != nil {
		return nil, f.actionErr
	}
	f.lastReason = reason
	f.remove(bookingID)
	return &backend.AdminActionResponse{Success: true}, nil
}

func (f *fakeAdminBackend) remove(bookingID string) {
	kept := f.pending[:0]
	for _, b := range f.pending {
		if b.BookingID != bookingID {
			kept = append(kept, b)
		}
	}
	f.pending = kept
}

func newAdminFixture(be *fakeAdminBackend) *Service {
	log := logger.NewWithWriter("development", &bytes.Buffer{})
	return NewService(be, log)
}

func TestPending_ReturnsQueue(t *testing.T) {
	be := &fakeAdminBackend{pending: []backend.PendingBooking{
		{BookingID: "BK-1", Status: "ON_HOLD"},
		{BookingID: "BK-2", Status: "ON_HOLD"},
	}}
	svc := newAdminFixture(be)

	bookings, err := svc.Pending(context.Background())
	require.NoError(t, err)
	assert.Len(t, bookings, 2)
}

func TestApprove_RemovesBookingFromQueueOnRefetch(t *testing.T) {
	be := &fakeAdminBackend{pending: []backend.PendingBooking{
		{BookingID: "BK-1", Status: "ON_HOLD"},
		{BookingID: "BK-2", Status: "ON_HOLD"},
	}}
	svc := newAdminFixture(be)
	ctx := context.Background()

	resp, err := svc.Approve(ctx, "BK-1", "verified payment offline")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "verified payment offline", be.lastNotes)

	bookings, err := svc.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "BK-2", bookings[0].BookingID)
}

func TestApprove_NotesAreOptional(t *testing.T) {
	be := &fakeAdminBackend{pending: []backend.PendingBooking{{BookingID: "BK-1"}}}
	svc := newAdminFixture(be)

	_, err := svc.Approve(context.Background(), "BK-1", "")
	require.NoError(t, err)
	assert.Empty(t, be.lastNotes)
}

func TestReject_RequiresReason(t *testing.T) {
	be := &fakeAdminBackend{pending: []backend.PendingBooking{{BookingID: "BK-1"}}}
	svc := newAdminFixture(be)

	_, err := svc.Reject(context.Background(), "BK-1", "   ")
	require.Error(t, err)

	var appErr *web.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, web.ErrorCodeValidation, appErr.Code)

	_, err = svc.Reject(context.Background(), "BK-1", "fare no longer available")
	require.NoError(t, err)
	assert.Equal(t, "fare no longer available", be.lastReason)
}

func TestPending_BackendFailurePropagates(t *testing.T) {
	be := &fakeAdminBackend{pendingErr: errors.New("connection refused")}
	svc := newAdminFixture(be)

	_, err := svc.Pending(context.Background())
	assert.Error(t, err)
}
