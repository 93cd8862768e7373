package auth

import (
	"testing"

	"skybook/models"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	owner := models.Principal{ID: "user-1", Role: models.RoleUser}
	stranger := models.Principal{ID: "user-2", Role: models.RoleUser}
	admin := models.Principal{ID: "admin-1", Role: models.RoleAdmin}

	testCases := []struct {
		name    string
		p       models.Principal
		action  Action
		allowed bool
	}{
		{"owner views own booking", owner, ActionViewBooking, true},
		{"stranger views booking", stranger, ActionViewBooking, false},
		{"admin views any booking", admin, ActionViewBooking, true},
		{"owner cancels own booking", owner, ActionCancelBooking, true},
		{"admin cancels any booking", admin, ActionCancelBooking, true},
		{"stranger cancels booking", stranger, ActionCancelBooking, false},
		{"owner pays own booking", owner, ActionPayBooking, true},
		{"admin may not pay for others", admin, ActionPayBooking, false},
		{"admin views any payment", admin, ActionViewPayment, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.p, "user-1", tc.action)
			if tc.allowed {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
