package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinica-otica/internal/httperr"
	"github.com/BruksfildServices01/clinica-otica/internal/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusDone, false},
		{StatusConfirmed, StatusDone, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusDone, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			err := CanTransition(tt.from, tt.to)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, httperr.IsBusiness(err, "invalid_transition"), "got %v", err)
		})
	}
}

func TestCanTransitionUnknownStatus(t *testing.T) {
	assert.True(t, httperr.IsBusiness(CanTransition(StatusPending, "archived"), "invalid_status"))
}

func TestChangeStatus(t *testing.T) {
	ap := &models.Appointment{Status: string(InitialStatus())}

	require.NoError(t, ChangeStatus(ap, StatusConfirmed))
	assert.Equal(t, "confirmed", ap.Status)

	require.Error(t, ChangeStatus(ap, StatusPending))
	assert.Equal(t, "confirmed", ap.Status)
}

func TestHoldsSlot(t *testing.T) {
	assert.True(t, HoldsSlot(StatusPending))
	assert.True(t, HoldsSlot(StatusDone))
	assert.False(t, HoldsSlot(StatusCancelled))
}
