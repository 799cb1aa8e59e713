package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/clinica-otica/internal/domain/appointment"
	"github.com/BruksfildServices01/clinica-otica/internal/dto"
	"github.com/BruksfildServices01/clinica-otica/internal/httpresp"
	"github.com/BruksfildServices01/clinica-otica/internal/session"
	ucAppointment "github.com/BruksfildServices01/clinica-otica/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	list         *ucAppointment.ListAppointments
	updateStatus *ucAppointment.UpdateStatus
	updateNotes  *ucAppointment.UpdateNotes
}

func NewAppointmentHandler(
	list *ucAppointment.ListAppointments,
	updateStatus *ucAppointment.UpdateStatus,
	updateNotes *ucAppointment.UpdateNotes,
) *AppointmentHandler {
	return &AppointmentHandler{
		list:         list,
		updateStatus: updateStatus,
		updateNotes:  updateNotes,
	}
}

func appointmentActor(p session.Profile) ucAppointment.Actor {
	return ucAppointment.Actor{UserID: p.ID, Scope: scopeOf(p)}
}

// ======================================================
// REQUESTS
// ======================================================

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

// ======================================================
// LIST
// ======================================================

// List accepts ?date= for one day or ?from=&to= for a range, plus ?status=,
// ?doctor_id=, ?branch_id= and pagination.
func (h *AppointmentHandler) List(c *gin.Context) {
	p := mustProfile(c)

	branchID, ok := branchFilter(c, p)
	if !ok {
		return
	}
	doctorID, ok := queryUint(c, "doctor_id")
	if !ok {
		return
	}

	from, to := c.Query("from"), c.Query("to")
	if d := c.Query("date"); d != "" {
		from, to = d, d
	}

	page, limit := pageParams(c)
	res, err := h.list.Execute(c.Request.Context(), appointmentActor(p), domain.ListFilter{
		BranchID: branchID,
		DoctorID: doctorID,
		DateFrom: from,
		DateTo:   to,
		Status:   c.Query("status"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.Page(c, res.Items, res.Page, res.Limit, res.Total)
}

// ======================================================
// STATUS / NOTES
// ======================================================

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.updateStatus.Execute(c.Request.Context(), appointmentActor(mustProfile(c)), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, dto.AppointmentList(*ap))
}

func (h *AppointmentHandler) UpdateNotes(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateNotesRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.updateNotes.Execute(c.Request.Context(), appointmentActor(mustProfile(c)), id, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, dto.AppointmentList(*ap))
}
