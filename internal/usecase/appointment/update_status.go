package appointment

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/clinica-otica/internal/audit"
	"github.com/BruksfildServices01/clinica-otica/internal/cache"
	domain "github.com/BruksfildServices01/clinica-otica/internal/domain/appointment"
	"github.com/BruksfildServices01/clinica-otica/internal/httperr"
	"github.com/BruksfildServices01/clinica-otica/internal/models"
	"github.com/BruksfildServices01/clinica-otica/internal/store"
)

// Actor is the signed-in user acting on an appointment. Scope, when set,
// restricts the user to one branch.
type Actor struct {
	UserID uint
	Scope  *uint
}

func (a Actor) allows(branchID uint) bool {
	return a.Scope == nil || *a.Scope == branchID
}

type UpdateStatus struct {
	repo  domain.Repository
	cache *cache.Availability
	audit audit.Recorder
}

func NewUpdateStatus(repo domain.Repository, c *cache.Availability, rec audit.Recorder) *UpdateStatus {
	return &UpdateStatus{repo: repo, cache: c, audit: rec}
}

func loadScoped(ctx context.Context, repo domain.Repository, actor Actor, id uint) (*models.Appointment, error) {
	ap, err := repo.GetAppointment(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	if err != nil {
		return nil, err
	}
	if !actor.allows(ap.BranchID) {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	return ap, nil
}

func (uc *UpdateStatus) Execute(ctx context.Context, actor Actor, id uint, status string) (*models.Appointment, error) {
	ap, err := loadScoped(ctx, uc.repo, actor, id)
	if err != nil {
		return nil, err
	}

	from := ap.Status
	if err := domain.ChangeStatus(ap, domain.Status(status)); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap.ID, map[string]any{"status": ap.Status}); err != nil {
		return nil, err
	}

	// a cancellation frees the slot
	if !domain.HoldsSlot(domain.Status(ap.Status)) {
		uc.cache.Invalidate(ctx, ap.BranchID, ap.Date)
	}

	userID := actor.UserID
	branchID := ap.BranchID
	uc.audit.Dispatch(audit.Event{
		BranchID: &branchID,
		UserID:   &userID,
		Action:   "appointment_status_changed",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]string{"from": from, "to": ap.Status},
	})

	return ap, nil
}

type UpdateNotes struct {
	repo  domain.Repository
	audit audit.Recorder
}

func NewUpdateNotes(repo domain.Repository, rec audit.Recorder) *UpdateNotes {
	return &UpdateNotes{repo: repo, audit: rec}
}

func (uc *UpdateNotes) Execute(ctx context.Context, actor Actor, id uint, notes string) (*models.Appointment, error) {
	if len([]rune(notes)) > 500 {
		return nil, httperr.ErrBusinessMsg("notes_too_long", "Observações devem ter no máximo 500 caracteres.")
	}

	ap, err := loadScoped(ctx, uc.repo, actor, id)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap.ID, map[string]any{"notes": notes}); err != nil {
		return nil, err
	}
	ap.Notes = notes

	userID := actor.UserID
	branchID := ap.BranchID
	uc.audit.Dispatch(audit.Event{
		BranchID: &branchID,
		UserID:   &userID,
		Action:   "appointment_notes_updated",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
