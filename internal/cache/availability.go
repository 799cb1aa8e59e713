package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const DefaultAvailabilityTTL = 60 * time.Second

// Availability caches the offered-minus-booked slot list of a branch/date.
// Cache failures are logged and treated as misses.
type Availability struct {
	store Store
	ttl   time.Duration
	log   *zap.Logger
}

func NewAvailability(store Store, ttl time.Duration, log *zap.Logger) *Availability {
	if ttl <= 0 {
		ttl = DefaultAvailabilityTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Availability{store: store, ttl: ttl, log: log}
}

func branchPrefix(branchID uint) string {
	return fmt.Sprintf("avail:%d:", branchID)
}

func availabilityKey(branchID uint, date string) string {
	return branchPrefix(branchID) + date
}

func (a *Availability) Get(ctx context.Context, branchID uint, date string) ([]string, bool) {
	raw, err := a.store.Get(ctx, availabilityKey(branchID, date))
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			a.log.Warn("availability cache get", zap.Error(err))
		}
		return nil, false
	}

	var slots []string
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (a *Availability) Set(ctx context.Context, branchID uint, date string, slots []string) {
	b, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := a.store.Set(ctx, availabilityKey(branchID, date), string(b), a.ttl); err != nil {
		a.log.Warn("availability cache set", zap.Error(err))
	}
}

func (a *Availability) Invalidate(ctx context.Context, branchID uint, dates ...string) {
	keys := make([]string, 0, len(dates))
	for _, d := range dates {
		keys = append(keys, availabilityKey(branchID, d))
	}
	if err := a.store.Delete(ctx, keys...); err != nil {
		a.log.Warn("availability cache invalidate", zap.Error(err))
	}
}

func (a *Availability) InvalidateBranch(ctx context.Context, branchID uint) {
	if err := a.store.DeletePrefix(ctx, branchPrefix(branchID)); err != nil {
		a.log.Warn("availability cache invalidate branch", zap.Error(err))
	}
}
