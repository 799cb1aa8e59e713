package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/clinica-otica/internal/domain/schedule"
	"github.com/BruksfildServices01/clinica-otica/internal/httpresp"
	"github.com/BruksfildServices01/clinica-otica/internal/session"
	ucSchedule "github.com/BruksfildServices01/clinica-otica/internal/usecase/schedule"
)

// ======================================================
// HANDLER
// ======================================================

type ScheduleHandler struct {
	getConfig  *ucSchedule.GetConfig
	saveConfig *ucSchedule.SaveConfig
	openDates  *ucSchedule.OpenDates
	listDates  *ucSchedule.ListDates
	manageDate *ucSchedule.ManageDate
}

func NewScheduleHandler(
	getConfig *ucSchedule.GetConfig,
	saveConfig *ucSchedule.SaveConfig,
	openDates *ucSchedule.OpenDates,
	listDates *ucSchedule.ListDates,
	manageDate *ucSchedule.ManageDate,
) *ScheduleHandler {
	return &ScheduleHandler{
		getConfig:  getConfig,
		saveConfig: saveConfig,
		openDates:  openDates,
		listDates:  listDates,
		manageDate: manageDate,
	}
}

func scheduleActor(p session.Profile) ucSchedule.Actor {
	return ucSchedule.Actor{UserID: p.ID, Scope: scopeOf(p)}
}

// ======================================================
// CONFIG
// ======================================================

func (h *ScheduleHandler) GetConfig(c *gin.Context) {
	branchID, ok := pathID(c)
	if !ok {
		return
	}

	res, err := h.getConfig.Execute(c.Request.Context(), scheduleActor(mustProfile(c)), branchID)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, res)
}

func (h *ScheduleHandler) SaveConfig(c *gin.Context) {
	branchID, ok := pathID(c)
	if !ok {
		return
	}

	var in ucSchedule.SaveConfigInput
	if !bindJSON(c, &in) {
		return
	}
	in.BranchID = branchID

	res, err := h.saveConfig.Execute(c.Request.Context(), scheduleActor(mustProfile(c)), in)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, res)
}

// ======================================================
// AVAILABLE DATES
// ======================================================

func (h *ScheduleHandler) ListDates(c *gin.Context) {
	p := mustProfile(c)

	branchID, ok := branchFilter(c, p)
	if !ok {
		return
	}
	doctorID, ok := queryUint(c, "doctor_id")
	if !ok {
		return
	}

	active := queryBool(c, "active")
	dates, err := h.listDates.Execute(c.Request.Context(), scheduleActor(p), domain.DateFilter{
		BranchID:   branchID,
		DoctorID:   doctorID,
		From:       c.Query("from"),
		To:         c.Query("to"),
		ActiveOnly: active != nil && *active,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.List(c, dates)
}

func (h *ScheduleHandler) OpenDates(c *gin.Context) {
	var in ucSchedule.OpenDatesInput
	if !bindJSON(c, &in) {
		return
	}

	res, err := h.openDates.Execute(c.Request.Context(), scheduleActor(mustProfile(c)), in)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.Created(c, res)
}

type setDateActiveRequest struct {
	Active *bool `json:"active"`
}

func (h *ScheduleHandler) SetDateActive(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req setDateActiveRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Active == nil {
		respondError(c, fieldRequired("active"))
		return
	}

	d, err := h.manageDate.SetActive(c.Request.Context(), scheduleActor(mustProfile(c)), id, *req.Active)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, d)
}

func (h *ScheduleHandler) DeleteDate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.manageDate.Delete(c.Request.Context(), scheduleActor(mustProfile(c)), id); err != nil {
		respondError(c, err)
		return
	}
	httpresp.NoContent(c)
}
