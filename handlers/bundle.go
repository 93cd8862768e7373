package handlers

import (
	userRepo "skybook/database/repository/user"
)

// HandlerBundle aggregates the route handlers so route registration takes a
// single value. UserRepo backs the auth middleware's account lookups.
type HandlerBundle struct {
	Users    *UserHandler
	Flights  *FlightHandler
	Bookings *BookingHandler
	Payments *PaymentHandler
	Webhooks *WebhookHandler

	UserRepo userRepo.UserRepository
}
