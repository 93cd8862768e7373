package booking

import (
	"context"
	"errors"

	bookingRepo "skybook/database/repository/booking"
	"skybook/models"
	"skybook/services/auth"
	"skybook/utils"
)

// CancelBooking transitions a pending or confirmed booking to cancelled/
// refunded on behalf of its owner or an admin. Cancelling a terminal booking
// is rejected rather than treated as a no-op. Seat restoration happens
// inside the repository transaction and only for bookings that settled.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, p models.Principal, bookingID string) (*models.Booking, error) {
	booking, err := s.Repo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, utils.NewNotFoundError("No booking found with that ID")
	}

	if err := auth.Authorize(p, booking.UserID, auth.ActionCancelBooking); err != nil {
		return nil, err
	}

	switch booking.Status {
	case models.BookingStatusCancelled:
		return nil, utils.NewConflictError("Booking is already cancelled")
	case models.BookingStatusExpired:
		return nil, utils.NewConflictError("Cannot cancel an expired booking")
	}

	cancelled, err := s.Repo.CancelWithRestore(ctx, bookingID)
	if err != nil {
		// A concurrent cancel or sweep won the race after our status check.
		if errors.Is(err, bookingRepo.ErrNoTransition) {
			return nil, utils.NewConflictError("Booking is no longer in a cancellable state")
		}
		return nil, err
	}
	return cancelled, nil
}
