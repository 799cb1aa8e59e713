package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/clinica-otica/internal/cache"
	domain "github.com/BruksfildServices01/clinica-otica/internal/domain/appointment"
	"github.com/BruksfildServices01/clinica-otica/internal/httperr"
	"github.com/BruksfildServices01/clinica-otica/internal/store"
	"github.com/BruksfildServices01/clinica-otica/internal/timezone"
)

type GetAvailability struct {
	repo  domain.Repository
	cache *cache.Availability
	tz    string
	now   func() time.Time
}

func NewGetAvailability(repo domain.Repository, c *cache.Availability, tz string) *GetAvailability {
	return &GetAvailability{repo: repo, cache: c, tz: tz, now: time.Now}
}

// Execute returns the free times of a branch on date. The cached list holds
// offered minus booked; past times are removed on every read.
func (uc *GetAvailability) Execute(ctx context.Context, branchID uint, date string) (*domain.Availability, error) {
	if _, err := timezone.ParseDate(uc.tz, date); err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	now := uc.now().In(timezone.Location(uc.tz))
	today := now.Format(timezone.DateLayout)
	if date < today {
		return &domain.Availability{BranchID: branchID, Date: date, Slots: []string{}}, nil
	}

	slots, ok := uc.cache.Get(ctx, branchID, date)
	if !ok {
		branch, err := uc.repo.GetBranch(ctx, branchID)
		if errors.Is(err, store.ErrNotFound) || (err == nil && !branch.Active) {
			return nil, httperr.ErrBusiness("branch_not_found")
		}
		if err != nil {
			return nil, err
		}

		dates, err := uc.repo.ListActiveDates(ctx, branchID, date)
		if err != nil {
			return nil, err
		}
		booked, err := uc.repo.BookedTimes(ctx, branchID, date)
		if err != nil {
			return nil, err
		}

		slots = domain.FreeSlots(domain.OfferedSlots(dates), booked, false, "")
		uc.cache.Set(ctx, branchID, date, slots)
	}

	slots = domain.FreeSlots(slots, nil, date == today, now.Format(timezone.TimeLayout))
	return &domain.Availability{BranchID: branchID, Date: date, Slots: slots}, nil
}
