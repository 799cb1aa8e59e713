package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/clinica-otica/internal/audit"
	"github.com/BruksfildServices01/clinica-otica/internal/cache"
	domain "github.com/BruksfildServices01/clinica-otica/internal/domain/schedule"
	"github.com/BruksfildServices01/clinica-otica/internal/httperr"
	"github.com/BruksfildServices01/clinica-otica/internal/models"
	"github.com/BruksfildServices01/clinica-otica/internal/store"
	"github.com/BruksfildServices01/clinica-otica/internal/timezone"
)

// Actor is the signed-in user changing the schedule.
type Actor struct {
	UserID uint
	Scope  *uint
}

func (a Actor) allows(branchID uint) bool {
	return a.Scope == nil || *a.Scope == branchID
}

func (a Actor) event(branchID uint, action string, entityID *uint, meta any) audit.Event {
	userID := a.UserID
	return audit.Event{
		BranchID: &branchID,
		UserID:   &userID,
		Action:   action,
		Entity:   "schedule",
		EntityID: entityID,
		Metadata: meta,
	}
}

// ======================================================
// INPUT
// ======================================================

type SaveConfigInput struct {
	BranchID        uint   `json:"-"`
	OpenTime        string `json:"open_time"`
	CloseTime       string `json:"close_time"`
	IntervalMinutes int    `json:"interval_minutes"`
	LunchStart      string `json:"lunch_start"`
	LunchEnd        string `json:"lunch_end"`
	Weekdays        []int  `json:"weekdays"`
}

type SaveConfigResult struct {
	Config      *models.ScheduleConfig `json:"config"`
	Slots       []string               `json:"slots"`
	Regenerated int64                  `json:"regenerated_dates"`
}

// ======================================================
// USE CASE
// ======================================================

type SaveConfig struct {
	repo  domain.Repository
	cache *cache.Availability
	audit audit.Recorder
	tz    string
	now   func() time.Time
}

func NewSaveConfig(repo domain.Repository, c *cache.Availability, rec audit.Recorder, tz string) *SaveConfig {
	return &SaveConfig{repo: repo, cache: c, audit: rec, tz: tz, now: time.Now}
}

// Execute validates and stores the branch window, then regenerates the slot
// list of every available date from today on.
func (uc *SaveConfig) Execute(ctx context.Context, actor Actor, in SaveConfigInput) (*SaveConfigResult, error) {
	if !actor.allows(in.BranchID) {
		return nil, httperr.ErrBusiness("branch_not_found")
	}

	cfg := &models.ScheduleConfig{
		BranchID:        in.BranchID,
		OpenTime:        in.OpenTime,
		CloseTime:       in.CloseTime,
		IntervalMinutes: in.IntervalMinutes,
		LunchStart:      in.LunchStart,
		LunchEnd:        in.LunchEnd,
	}

	if in.IntervalMinutes > 240 {
		return nil, httperr.ErrBusiness("invalid_interval")
	}
	slots, err := domain.GenerateSlots(domain.WindowOf(cfg))
	if err != nil {
		return nil, err
	}
	if cfg.Weekdays, err = domain.NormalizeWeekdays(in.Weekdays); err != nil {
		return nil, err
	}

	ok, err := uc.repo.BranchExists(ctx, in.BranchID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.ErrBusiness("branch_not_found")
	}

	today := timezone.DateOf(uc.now(), uc.tz)
	n, err := uc.repo.SaveConfig(ctx, cfg, today, slots)
	if err != nil {
		return nil, err
	}

	uc.cache.InvalidateBranch(ctx, in.BranchID)
	uc.audit.Dispatch(actor.event(in.BranchID, "schedule_config_saved", &cfg.ID, map[string]any{
		"regenerated_dates": n,
	}))

	return &SaveConfigResult{Config: cfg, Slots: slots, Regenerated: n}, nil
}

type GetConfig struct {
	repo domain.Repository
}

func NewGetConfig(repo domain.Repository) *GetConfig {
	return &GetConfig{repo: repo}
}

func (uc *GetConfig) Execute(ctx context.Context, actor Actor, branchID uint) (*SaveConfigResult, error) {
	if !actor.allows(branchID) {
		return nil, httperr.ErrBusiness("branch_not_found")
	}

	cfg, err := uc.repo.GetConfig(ctx, branchID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, httperr.ErrBusiness("schedule_not_configured")
	}
	if err != nil {
		return nil, err
	}

	slots, err := domain.GenerateSlots(domain.WindowOf(cfg))
	if err != nil {
		return nil, err
	}
	return &SaveConfigResult{Config: cfg, Slots: slots}, nil
}
