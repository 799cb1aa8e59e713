package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/clinica-otica/internal/domain/schedule"
	"github.com/BruksfildServices01/clinica-otica/internal/httperr"
	"github.com/BruksfildServices01/clinica-otica/internal/httpresp"
	"github.com/BruksfildServices01/clinica-otica/internal/metrics"
	"github.com/BruksfildServices01/clinica-otica/internal/models"
	"github.com/BruksfildServices01/clinica-otica/internal/store"
	"github.com/BruksfildServices01/clinica-otica/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/clinica-otica/internal/usecase/appointment"
	ucSchedule "github.com/BruksfildServices01/clinica-otica/internal/usecase/schedule"
	"github.com/BruksfildServices01/clinica-otica/internal/validators"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	branches     store.Table[models.Branch]
	listDates    *ucSchedule.ListDates
	availability *ucAppointment.GetAvailability
	book         *ucAppointment.BookAppointment
	metrics      *metrics.Metrics
	tz           string
	now          func() time.Time
}

func NewPublicHandler(
	branches store.Table[models.Branch],
	listDates *ucSchedule.ListDates,
	availability *ucAppointment.GetAvailability,
	book *ucAppointment.BookAppointment,
	m *metrics.Metrics,
	tz string,
) *PublicHandler {
	return &PublicHandler{
		branches:     branches,
		listDates:    listDates,
		availability: availability,
		book:         book,
		metrics:      m,
		tz:           tz,
		now:          time.Now,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicBranch struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type PublicBooking struct {
	ID     uint   `json:"id"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	Status string `json:"status"`
}

////////////////////////////////////////////////////////
// BRANCHES / DATES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListBranches(c *gin.Context) {
	rows, err := h.branches.Select(c.Request.Context(), store.Query{
		Filters: []store.Filter{store.Where("active", true)},
		Order:   []store.Order{{Column: "name"}},
	})
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]PublicBranch, 0, len(rows))
	for _, b := range rows {
		out = append(out, PublicBranch{ID: b.ID, Name: b.Name, Address: b.Address, Phone: b.Phone})
	}
	httpresp.List(c, out)
}

// ListDates returns the distinct bookable dates of an active branch from
// today on.
func (h *PublicHandler) ListDates(c *gin.Context) {
	branchID, ok := pathID(c)
	if !ok {
		return
	}

	branch, err := h.branches.Get(c.Request.Context(), branchID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && !branch.Active) {
		respondError(c, httperr.ErrBusiness("branch_not_found"))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	today := timezone.DateOf(h.now(), h.tz)
	rows, err := h.listDates.Execute(c.Request.Context(), ucSchedule.Actor{}, domain.DateFilter{
		BranchID:   &branchID,
		From:       today,
		To:         c.Query("to"),
		ActiveOnly: true,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	seen := make(map[string]bool, len(rows))
	dates := make([]string, 0, len(rows))
	for _, d := range rows {
		if seen[d.Date] || len(d.Slots) == 0 {
			continue
		}
		seen[d.Date] = true
		dates = append(dates, d.Date)
	}
	httpresp.List(c, dates)
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	branchID, ok := pathID(c)
	if !ok {
		return
	}

	date := c.Query("date")
	if !validDate(date) {
		httperr.BadRequest(c, "invalid_date", "Data inválida (use AAAA-MM-DD).")
		return
	}

	av, err := h.availability.Execute(c.Request.Context(), branchID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, av)
}

////////////////////////////////////////////////////////
// BOOKING
////////////////////////////////////////////////////////

func (h *PublicHandler) Book(c *gin.Context) {
	var in ucAppointment.BookInput
	if !bindJSON(c, &in) {
		return
	}

	ap, err := h.book.Execute(c.Request.Context(), in)
	h.countBooking(err)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.Created(c, PublicBooking{ID: ap.ID, Date: ap.Date, Time: ap.Time, Status: ap.Status})
}

func (h *PublicHandler) countBooking(err error) {
	if h.metrics == nil {
		return
	}
	outcome := "created"
	var verrs validators.Errors
	switch {
	case err == nil:
	case errors.As(err, &verrs):
		outcome = "invalid"
	default:
		if be, ok := httperr.AsBusiness(err); ok {
			outcome = be.Code
		} else {
			outcome = "error"
		}
	}
	h.metrics.Bookings.WithLabelValues(outcome).Inc()
}

func validDate(s string) bool {
	_, err := time.Parse(timezone.DateLayout, s)
	return err == nil
}
