package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/clinica-otica/internal/cache"
	"github.com/BruksfildServices01/clinica-otica/internal/models"
)

func newAvailability(repo *MockRepo) *GetAvailability {
	c := cache.NewAvailability(cache.NewMemory(), time.Minute, zap.NewNop())
	uc := NewGetAvailability(repo, c, "America/Sao_Paulo")
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func TestAvailabilityRemovesBookedAndCaches(t *testing.T) {
	repo := &MockRepo{}
	offering(repo, "2026-10-20")
	repo.On("BookedTimes", mock.Anything, uint(1), "2026-10-20").Return([]string{"09:00"}, nil).Once()
	uc := newAvailability(repo)

	first, err := uc.Execute(context.Background(), 1, "2026-10-20")
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00", "10:00"}, first.Slots)

	second, err := uc.Execute(context.Background(), 1, "2026-10-20")
	require.NoError(t, err)
	assert.Equal(t, first.Slots, second.Slots)
	repo.AssertNumberOfCalls(t, "BookedTimes", 1)
}

func TestAvailabilityTodayDropsPastTimes(t *testing.T) {
	repo := &MockRepo{}
	offering(repo, "2026-10-19")
	repo.On("BookedTimes", mock.Anything, uint(1), "2026-10-19").Return([]string{}, nil)

	got, err := newAvailability(repo).Execute(context.Background(), 1, "2026-10-19")

	require.NoError(t, err)
	assert.Equal(t, []string{"10:00"}, got.Slots)
}

func TestAvailabilityPastDateIsEmpty(t *testing.T) {
	repo := &MockRepo{}

	got, err := newAvailability(repo).Execute(context.Background(), 1, "2026-10-01")

	require.NoError(t, err)
	assert.Empty(t, got.Slots)
	repo.AssertNotCalled(t, "ListActiveDates", mock.Anything, mock.Anything, mock.Anything)
}

func TestAvailabilityInactiveBranch(t *testing.T) {
	repo := &MockRepo{}
	repo.On("GetBranch", mock.Anything, uint(1)).Return(&models.Branch{ID: 1, Active: false}, nil)

	_, err := newAvailability(repo).Execute(context.Background(), 1, "2026-10-20")

	assert.Error(t, err)
}
