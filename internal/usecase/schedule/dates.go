package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BruksfildServices01/clinica-otica/internal/audit"
	"github.com/BruksfildServices01/clinica-otica/internal/cache"
	domain "github.com/BruksfildServices01/clinica-otica/internal/domain/schedule"
	"github.com/BruksfildServices01/clinica-otica/internal/httperr"
	"github.com/BruksfildServices01/clinica-otica/internal/models"
	"github.com/BruksfildServices01/clinica-otica/internal/store"
	"github.com/BruksfildServices01/clinica-otica/internal/timezone"
)

type OpenDatesInput struct {
	BranchID uint   `json:"branch_id"`
	DoctorID uint   `json:"doctor_id"`
	From     string `json:"from"`
	To       string `json:"to"`
}

type OpenDatesResult struct {
	Created int64 `json:"created"`
	Skipped int64 `json:"skipped"`
}

// OpenDates creates available dates for a doctor on every operating day of
// the branch in [From, To]. Existing (branch, doctor, date) rows are kept.
type OpenDates struct {
	repo  domain.Repository
	cache *cache.Availability
	audit audit.Recorder
	tz    string
	now   func() time.Time
}

func NewOpenDates(repo domain.Repository, c *cache.Availability, rec audit.Recorder, tz string) *OpenDates {
	return &OpenDates{repo: repo, cache: c, audit: rec, tz: tz, now: time.Now}
}

func (uc *OpenDates) Execute(ctx context.Context, actor Actor, in OpenDatesInput) (*OpenDatesResult, error) {
	if !actor.allows(in.BranchID) {
		return nil, httperr.ErrBusiness("branch_not_found")
	}

	from, err := timezone.ParseDate(uc.tz, in.From)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}
	to, err := timezone.ParseDate(uc.tz, in.To)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}
	if in.From < timezone.DateOf(uc.now(), uc.tz) {
		return nil, httperr.ErrBusiness("date_in_past")
	}

	ok, err := uc.repo.DoctorActive(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.ErrBusiness("doctor_not_found")
	}

	cfg, err := uc.repo.GetConfig(ctx, in.BranchID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, httperr.ErrBusiness("schedule_not_configured")
	}
	if err != nil {
		return nil, err
	}

	days, err := domain.OpenDays(cfg, from, to)
	if err != nil {
		return nil, err
	}
	slots, err := domain.GenerateSlots(domain.WindowOf(cfg))
	if err != nil {
		return nil, err
	}

	rows := make([]models.AvailableDate, 0, len(days))
	for _, d := range days {
		rows = append(rows, models.AvailableDate{
			BranchID: in.BranchID,
			DoctorID: in.DoctorID,
			Date:     d.Format(timezone.DateLayout),
			Active:   true,
			Slots:    slots,
		})
	}

	created, err := uc.repo.InsertDates(ctx, rows)
	if err != nil {
		return nil, err
	}

	uc.cache.InvalidateBranch(ctx, in.BranchID)
	uc.audit.Dispatch(actor.event(in.BranchID, "available_dates_opened", nil, map[string]any{
		"doctor_id": in.DoctorID,
		"from":      in.From,
		"to":        in.To,
		"created":   created,
	}))

	return &OpenDatesResult{Created: created, Skipped: int64(len(rows)) - created}, nil
}

type ListDates struct {
	repo domain.Repository
}

func NewListDates(repo domain.Repository) *ListDates {
	return &ListDates{repo: repo}
}

func (uc *ListDates) Execute(ctx context.Context, actor Actor, f domain.DateFilter) ([]models.AvailableDate, error) {
	if actor.Scope != nil {
		f.BranchID = actor.Scope
	}
	return uc.repo.ListDates(ctx, f)
}

// ManageDate toggles and deletes single available dates.
type ManageDate struct {
	repo  domain.Repository
	cache *cache.Availability
	audit audit.Recorder
}

func NewManageDate(repo domain.Repository, c *cache.Availability, rec audit.Recorder) *ManageDate {
	return &ManageDate{repo: repo, cache: c, audit: rec}
}

func (uc *ManageDate) load(ctx context.Context, actor Actor, id uint) (*models.AvailableDate, error) {
	d, err := uc.repo.GetDate(ctx, id)
	if errors.Is(err, store.ErrNotFound) || (err == nil && !actor.allows(d.BranchID)) {
		return nil, httperr.ErrBusiness("date_not_found")
	}
	return d, err
}

func (uc *ManageDate) SetActive(ctx context.Context, actor Actor, id uint, active bool) (*models.AvailableDate, error) {
	d, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.SetDateActive(ctx, id, active); err != nil {
		return nil, err
	}
	d.Active = active

	uc.cache.Invalidate(ctx, d.BranchID, d.Date)
	uc.audit.Dispatch(actor.event(d.BranchID, "available_date_toggled", &d.ID, map[string]any{"active": active}))
	return d, nil
}

// Delete refuses while live appointments exist on the same branch and date.
func (uc *ManageDate) Delete(ctx context.Context, actor Actor, id uint) error {
	d, err := uc.load(ctx, actor, id)
	if err != nil {
		return err
	}

	n, err := uc.repo.CountLiveAppointments(ctx, d.BranchID, d.Date)
	if err != nil {
		return err
	}
	if n > 0 {
		return httperr.ErrBusinessMsg(
			"has_dependents",
			fmt.Sprintf("Não é possível excluir: existem %d agendamentos vinculados.", n),
		)
	}

	if err := uc.repo.DeleteDate(ctx, id); err != nil {
		return err
	}

	uc.cache.Invalidate(ctx, d.BranchID, d.Date)
	uc.audit.Dispatch(actor.event(d.BranchID, "available_date_deleted", &d.ID, nil))
	return nil
}
