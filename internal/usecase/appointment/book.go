package appointment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/BruksfildServices01/clinica-otica/internal/audit"
	"github.com/BruksfildServices01/clinica-otica/internal/cache"
	domain "github.com/BruksfildServices01/clinica-otica/internal/domain/appointment"
	"github.com/BruksfildServices01/clinica-otica/internal/domain/schedule"
	"github.com/BruksfildServices01/clinica-otica/internal/httperr"
	"github.com/BruksfildServices01/clinica-otica/internal/models"
	"github.com/BruksfildServices01/clinica-otica/internal/store"
	"github.com/BruksfildServices01/clinica-otica/internal/timezone"
	"github.com/BruksfildServices01/clinica-otica/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type BookInput struct {
	BranchID uint  `json:"branch_id" validate:"required"`
	DoctorID *uint `json:"doctor_id"`

	Date string `json:"date" validate:"required,date"`
	Time string `json:"time" validate:"required,hhmm"`

	ClientName  string `json:"client_name" validate:"required,max=100"`
	ClientPhone string `json:"client_phone" validate:"required,phone"`
	ClientEmail string `json:"client_email" validate:"omitempty,email,max=100"`
	Notes       string `json:"notes" validate:"max=500"`
}

// ======================================================
// USE CASE
// ======================================================

type BookAppointment struct {
	repo  domain.Repository
	cache *cache.Availability
	audit audit.Recorder
	tz    string
	now   func() time.Time
}

func NewBookAppointment(
	repo domain.Repository,
	c *cache.Availability,
	rec audit.Recorder,
	tz string,
) *BookAppointment {
	return &BookAppointment{repo: repo, cache: c, audit: rec, tz: tz, now: time.Now}
}

// Execute books a public appointment. The insert is the only arbiter of a
// concurrent booking: a unique violation is reported as slot_taken.
func (uc *BookAppointment) Execute(ctx context.Context, in BookInput) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Form
	// --------------------------------------------------
	in.ClientName = strings.TrimSpace(in.ClientName)
	in.ClientEmail = validators.NormalizeEmail(in.ClientEmail)
	if errs := validators.Struct(in); len(errs) > 0 {
		return nil, errs
	}

	// --------------------------------------------------
	// 2️⃣ Branch
	// --------------------------------------------------
	branch, err := uc.repo.GetBranch(ctx, in.BranchID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && !branch.Active) {
		return nil, httperr.ErrBusiness("branch_not_found")
	}
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Not in the past (branch timezone)
	// --------------------------------------------------
	now := uc.now().In(timezone.Location(uc.tz))
	today := now.Format(timezone.DateLayout)
	if in.Date < today || (in.Date == today && in.Time < now.Format(timezone.TimeLayout)) {
		return nil, httperr.ErrBusiness("date_in_past")
	}

	// --------------------------------------------------
	// 4️⃣ Offered slot
	// --------------------------------------------------
	dates, err := uc.repo.ListActiveDates(ctx, in.BranchID, in.Date)
	if err != nil {
		return nil, err
	}

	var doctorID uint
	if in.DoctorID != nil {
		for _, d := range dates {
			if d.DoctorID == *in.DoctorID && d.Active && schedule.Contains(d.Slots, in.Time) {
				doctorID = d.DoctorID
			}
		}
	} else {
		doctorID, _ = domain.DoctorFor(dates, in.Time)
	}
	if doctorID == 0 {
		return nil, httperr.ErrBusiness("slot_unavailable")
	}

	// --------------------------------------------------
	// 5️⃣ Insert (unique index decides)
	// --------------------------------------------------
	ap := &models.Appointment{
		BranchID:    in.BranchID,
		DoctorID:    &doctorID,
		Date:        in.Date,
		Time:        in.Time,
		ClientName:  in.ClientName,
		ClientPhone: validators.NormalizePhone(in.ClientPhone),
		ClientEmail: in.ClientEmail,
		Status:      string(domain.InitialStatus()),
		Notes:       strings.TrimSpace(in.Notes),
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, httperr.ErrBusinessMsg("slot_taken", "Este horário acabou de ser reservado. Escolha outro.")
		}
		return nil, err
	}

	uc.cache.Invalidate(ctx, in.BranchID, in.Date)

	// --------------------------------------------------
	// 6️⃣ Auditoria
	// --------------------------------------------------
	branchID := in.BranchID
	uc.audit.Dispatch(audit.Event{
		BranchID: &branchID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]string{"date": ap.Date, "time": ap.Time},
	})

	return ap, nil
}
