package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinica-otica/internal/httperr"
	"github.com/BruksfildServices01/clinica-otica/internal/httpresp"
	"github.com/BruksfildServices01/clinica-otica/internal/models"
	"github.com/BruksfildServices01/clinica-otica/internal/store"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	logs store.Table[models.AuditLog]
}

func NewAuditLogsHandler(logs store.Table[models.AuditLog]) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	p := mustProfile(c)

	page, limit := pageParams(c)
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	// --------------------------------------------------
	// Filtros (sempre protegido pela filial do usuário)
	// --------------------------------------------------

	var filters []store.Filter

	branchID, ok := branchFilter(c, p)
	if !ok {
		return
	}
	if branchID != nil {
		filters = append(filters, store.Where("branch_id", *branchID))
	}

	if action := c.Query("action"); action != "" {
		filters = append(filters, store.Where("action", action))
	}
	if entity := c.Query("entity"); entity != "" {
		filters = append(filters, store.Where("entity", entity))
	}
	userID, ok := queryUint(c, "user_id")
	if !ok {
		return
	}
	if userID != nil {
		filters = append(filters, store.Where("user_id", *userID))
	}

	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return
		}
		filters = append(filters, store.WhereOp("created_at", store.Gte, from))
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return
		}
		filters = append(filters, store.WhereOp("created_at", store.Lt, to.Add(24*time.Hour)))
	}

	// --------------------------------------------------
	// Total + listagem
	// --------------------------------------------------

	total, err := h.logs.Count(c.Request.Context(), filters...)
	if err != nil {
		respondError(c, err)
		return
	}

	logs, err := h.logs.Select(c.Request.Context(), store.Query{
		Filters: filters,
		Order:   []store.Order{{Column: "created_at", Desc: true}, {Column: "id", Desc: true}},
		Limit:   limit,
		Offset:  (page - 1) * limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.Page(c, logs, page, limit, total)
}
