package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinica-otica/internal/models"
	"github.com/BruksfildServices01/clinica-otica/internal/session"
	"github.com/BruksfildServices01/clinica-otica/internal/store"
	"github.com/BruksfildServices01/clinica-otica/internal/store/storetest"
	ucReport "github.com/BruksfildServices01/clinica-otica/internal/usecase/report"
)

type reportTables struct {
	branches *storetest.MockTable[models.Branch]
	revenues *storetest.MockTable[models.RevenueEntry]
}

func reportRouter(p session.Profile, tables reportTables) *gin.Engine {
	svc := ucReport.NewService(ucReport.Tables{
		Branches:        tables.branches,
		FixedExpenses:   &storetest.MockTable[models.FixedExpense]{},
		DiverseExpenses: &storetest.MockTable[models.DiverseExpense]{},
		Revenues:        tables.revenues,
		ServiceOrders:   &storetest.MockTable[models.ServiceOrderCost]{},
		Instruments:     &storetest.MockTable[models.Instrument]{},
	})
	h := NewReportHandler(svc, ucReport.NewExporter(svc, nil, nil), "America/Sao_Paulo")

	r := newRouter(p)
	r.GET("/reports/revenue", h.Revenue())
	r.GET("/reports/revenue/pdf", h.PDF(ucReport.KindRevenue))
	r.GET("/reports/bogus/pdf", h.PDF("bogus"))
	return r
}

func newReportTables() reportTables {
	return reportTables{
		branches: &storetest.MockTable[models.Branch]{},
		revenues: &storetest.MockTable[models.RevenueEntry]{},
	}
}

func TestReportRequiresPeriod(t *testing.T) {
	tables := newReportTables()
	r := reportRouter(admin, tables)

	w := do(r, http.MethodGet, "/reports/revenue?from=2026-10-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_date", decode(t, w)["error_code"])

	w = do(r, http.MethodGet, "/reports/revenue?from=2026-10-31&to=2026-10-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "end_before_start", decode(t, w)["error_code"])

	tables.revenues.AssertNotCalled(t, "Select", mock.Anything, mock.Anything)
}

func TestReportRevenueJSON(t *testing.T) {
	tables := newReportTables()
	tables.revenues.On("Select", mock.Anything, mock.MatchedBy(func(q store.Query) bool {
		return hasFilter(q.Filters, "branch_id", uint(2))
	})).Return([]models.RevenueEntry{
		{ID: 1, BranchID: 2, Amount: dec("300"), PaymentMethod: models.PaymentPix, AttendanceType: models.AttendanceSale},
		{ID: 2, BranchID: 2, Amount: dec("100"), PaymentMethod: models.PaymentCash, AttendanceType: models.AttendanceExam},
	}, nil)

	w := do(reportRouter(manager, tables), http.MethodGet, "/reports/revenue?from=2026-10-01&to=2026-10-31&branch_id=7", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "400", body["total"])
	assert.Equal(t, "2026-10-01", body["from"])
	tables.revenues.AssertExpectations(t)
}

func TestReportPDFDownload(t *testing.T) {
	tables := newReportTables()
	tables.branches.On("Get", mock.Anything, uint(2)).Return(&models.Branch{ID: 2, Name: "Centro"}, nil)
	tables.revenues.On("Select", mock.Anything, mock.Anything).Return([]models.RevenueEntry{}, nil)

	w := do(reportRouter(manager, tables), http.MethodGet, "/reports/revenue/pdf?from=2026-10-01&to=2026-10-31", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="relatorio-revenue-20261001.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Empty(t, w.Header().Get(HeaderReportURL))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))
}

func TestReportPDFUnknownBranchAndKind(t *testing.T) {
	tables := newReportTables()
	tables.branches.On("Get", mock.Anything, uint(2)).Return(nil, store.ErrNotFound)

	w := do(reportRouter(manager, tables), http.MethodGet, "/reports/revenue/pdf?from=2026-10-01&to=2026-10-31", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "branch_not_found", decode(t, w)["error_code"])

	w = do(reportRouter(admin, newReportTables()), http.MethodGet, "/reports/bogus/pdf?from=2026-10-01&to=2026-10-31", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_report", decode(t, w)["error_code"])
}

func TestReportPDFStoreFailureIsTransient(t *testing.T) {
	tables := newReportTables()
	tables.revenues.On("Select", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	w := do(reportRouter(admin, tables), http.MethodGet, "/reports/revenue/pdf?from=2026-10-01&to=2026-10-31", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "report_generation_failed", decode(t, w)["error_code"])
}
