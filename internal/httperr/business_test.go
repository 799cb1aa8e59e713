package httperr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBusinessUnwraps(t *testing.T) {
	err := fmt.Errorf("booking: %w", ErrBusiness("slot_taken"))

	assert.True(t, IsBusiness(err, "slot_taken"))
	assert.False(t, IsBusiness(err, "too_soon"))
	assert.False(t, IsBusiness(fmt.Errorf("plain"), "slot_taken"))
}

func TestBusinessMessage(t *testing.T) {
	err := ErrBusinessMsg("has_dependents", "filial possui 3 agendamentos")

	be, ok := AsBusiness(err)
	assert.True(t, ok)
	assert.Equal(t, "has_dependents", be.Code)
	assert.Equal(t, "has_dependents: filial possui 3 agendamentos", err.Error())
}
