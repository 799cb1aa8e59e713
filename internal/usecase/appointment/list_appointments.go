package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/clinica-otica/internal/domain/appointment"
	"github.com/BruksfildServices01/clinica-otica/internal/dto"
	"github.com/BruksfildServices01/clinica-otica/internal/httperr"
	"github.com/BruksfildServices01/clinica-otica/internal/timezone"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

type ListResult struct {
	Items []dto.AppointmentListDTO
	Total int64
	Page  int
	Limit int
}

// Execute lists appointments by date range and status. A scoped actor only
// sees their branch regardless of the requested branch.
func (uc *ListAppointments) Execute(ctx context.Context, actor Actor, f domain.ListFilter) (*ListResult, error) {
	if actor.Scope != nil {
		f.BranchID = actor.Scope
	}
	for _, d := range []string{f.DateFrom, f.DateTo} {
		if d == "" {
			continue
		}
		if _, err := timezone.ParseDate("UTC", d); err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
	}
	if f.DateFrom != "" && f.DateTo != "" && f.DateTo < f.DateFrom {
		return nil, httperr.ErrBusiness("end_before_start")
	}
	if f.Status != "" {
		if _, ok := domain.ParseStatus(f.Status); !ok {
			return nil, httperr.ErrBusiness("invalid_status")
		}
	}

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}

	apps, total, err := uc.repo.ListAppointments(ctx, f)
	if err != nil {
		return nil, err
	}

	items := make([]dto.AppointmentListDTO, 0, len(apps))
	for _, ap := range apps {
		items = append(items, dto.AppointmentList(ap))
	}

	return &ListResult{Items: items, Total: total, Page: f.Page, Limit: f.Limit}, nil
}
