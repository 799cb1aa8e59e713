package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinica-otica/internal/httperr"
	"github.com/BruksfildServices01/clinica-otica/internal/timezone"
	ucReport "github.com/BruksfildServices01/clinica-otica/internal/usecase/report"
)

const HeaderReportURL = "X-Report-URL"

type ReportHandler struct {
	svc      *ucReport.Service
	exporter *ucReport.Exporter
	tz       string
}

func NewReportHandler(svc *ucReport.Service, exporter *ucReport.Exporter, tz string) *ReportHandler {
	return &ReportHandler{svc: svc, exporter: exporter, tz: tz}
}

// params reads ?from=&to= (required), ?as_of= and the branch scope.
func (h *ReportHandler) params(c *gin.Context) (ucReport.Params, bool) {
	var p ucReport.Params

	branchID, ok := branchFilter(c, mustProfile(c))
	if !ok {
		return p, false
	}
	p.BranchID = branchID

	var err error
	if p.From, err = timezone.ParseDate(h.tz, c.Query("from")); err != nil {
		httperr.BadRequest(c, "invalid_date", "Informe o período (from/to em AAAA-MM-DD).")
		return p, false
	}
	if p.To, err = timezone.ParseDate(h.tz, c.Query("to")); err != nil {
		httperr.BadRequest(c, "invalid_date", "Informe o período (from/to em AAAA-MM-DD).")
		return p, false
	}

	if raw := c.Query("as_of"); raw != "" {
		if p.AsOf, err = timezone.ParseDate(h.tz, raw); err != nil {
			httperr.BadRequest(c, "invalid_date", "Data de referência inválida.")
			return p, false
		}
	} else {
		p.AsOf = timezone.NowIn(h.tz)
	}
	return p, true
}

func serve[R any](h *ReportHandler, run func(context.Context, ucReport.Params) (R, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := h.params(c)
		if !ok {
			return
		}
		res, err := run(c.Request.Context(), p)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func (h *ReportHandler) Expenses() gin.HandlerFunc    { return serve(h, h.svc.Expenses) }
func (h *ReportHandler) Revenue() gin.HandlerFunc     { return serve(h, h.svc.Revenue) }
func (h *ReportHandler) CMV() gin.HandlerFunc         { return serve(h, h.svc.CMV) }
func (h *ReportHandler) Instruments() gin.HandlerFunc { return serve(h, h.svc.Instruments) }
func (h *ReportHandler) Dashboard() gin.HandlerFunc   { return serve(h, h.svc.Dashboard) }

// PDF renders the report of the given kind as an attachment.
func (h *ReportHandler) PDF(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.exportPDF(c, kind)
	}
}

func (h *ReportHandler) exportPDF(c *gin.Context, kind string) {
	p, ok := h.params(c)
	if !ok {
		return
	}

	f, err := h.exporter.Export(c.Request.Context(), kind, p)
	if err != nil {
		if _, isBusiness := httperr.AsBusiness(err); isBusiness {
			respondError(c, err)
			return
		}
		_ = c.Error(err)
		httperr.Write(c, http.StatusServiceUnavailable, "report_generation_failed", "Não foi possível gerar o relatório. Tente novamente.")
		return
	}

	if f.URL != "" {
		c.Header(HeaderReportURL, f.URL)
	}
	c.Header("Content-Disposition", `attachment; filename="`+f.Name+`"`)
	c.Data(http.StatusOK, "application/pdf", f.Data)
}
