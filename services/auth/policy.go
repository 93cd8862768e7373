// Package auth centralizes resource authorization so ownership and role
// checks cannot drift between handlers.
package auth

import (
	"skybook/models"
	"skybook/utils"
)

// Action names a guarded operation on an owned resource.
type Action string

const (
	ActionViewBooking   Action = "booking:view"
	ActionCancelBooking Action = "booking:cancel"
	ActionPayBooking    Action = "booking:pay"
	ActionViewPayment   Action = "payment:view"
)

// strictOwner lists actions an admin may not perform on another user's
// behalf. Paying for someone else's booking is never allowed.
var strictOwner = map[Action]bool{
	ActionPayBooking: true,
}

// Authorize decides whether the principal may perform the action on a
// resource owned by ownerID. Owners always may; admins may unless the
// action is strictly owner-bound.
func Authorize(p models.Principal, ownerID string, action Action) error {
	if p.ID == ownerID {
		return nil
	}
	if p.IsAdmin() && !strictOwner[action] {
		return nil
	}
	return utils.NewForbiddenError("You are not authorized to perform this action")
}
