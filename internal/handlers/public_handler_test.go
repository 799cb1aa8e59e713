package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/clinica-otica/internal/domain/schedule"
	"github.com/BruksfildServices01/clinica-otica/internal/metrics"
	"github.com/BruksfildServices01/clinica-otica/internal/models"
	"github.com/BruksfildServices01/clinica-otica/internal/store"
	"github.com/BruksfildServices01/clinica-otica/internal/store/storetest"
	ucAppointment "github.com/BruksfildServices01/clinica-otica/internal/usecase/appointment"
	ucSchedule "github.com/BruksfildServices01/clinica-otica/internal/usecase/schedule"
)

const tz = "America/Sao_Paulo"

// datesRepo serves ListDates only; other calls panic on the nil interface.
type datesRepo struct {
	domain.Repository
	dates []models.AvailableDate
}

func (r *datesRepo) ListDates(context.Context, domain.DateFilter) ([]models.AvailableDate, error) {
	return r.dates, nil
}

func publicRouter(branches store.Table[models.Branch], m *metrics.Metrics) *gin.Engine {
	return publicRouterWithDates(branches, &datesRepo{}, m)
}

func publicRouterWithDates(branches store.Table[models.Branch], dates domain.Repository, m *metrics.Metrics) *gin.Engine {
	h := NewPublicHandler(
		branches,
		ucSchedule.NewListDates(dates),
		nil,
		ucAppointment.NewBookAppointment(nil, nil, nil, tz),
		m,
		tz,
	)

	r := gin.New()
	r.GET("/public/branches", h.ListBranches)
	r.GET("/public/branches/:id/dates", h.ListDates)
	r.GET("/public/branches/:id/availability", h.Availability)
	r.POST("/public/appointments", h.Book)
	return r
}

func TestPublicListBranchesOnlyActive(t *testing.T) {
	table := &storetest.MockTable[models.Branch]{}
	table.On("Select", mock.Anything, mock.MatchedBy(func(q store.Query) bool {
		return hasFilter(q.Filters, "active", true)
	})).Return([]models.Branch{
		{ID: 1, Name: "Centro", Address: "Rua A, 10", Phone: "+5511987654321", Active: true},
	}, nil)

	w := do(publicRouter(table, nil), http.MethodGet, "/public/branches", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(1), body["total"])
	first := body["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "Centro", first["name"])
	assert.NotContains(t, first, "active")
}

func TestPublicAvailabilityValidatesInput(t *testing.T) {
	r := publicRouter(&storetest.MockTable[models.Branch]{}, nil)

	w := do(r, http.MethodGet, "/public/branches/1/availability", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_date", decode(t, w)["error_code"])

	w = do(r, http.MethodGet, "/public/branches/abc/availability?date=2026-10-20", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_id", decode(t, w)["error_code"])
}

func TestPublicBookCountsInvalidForms(t *testing.T) {
	m := metrics.New()
	r := publicRouter(&storetest.MockTable[models.Branch]{}, m)

	w := do(r, http.MethodPost, "/public/appointments", map[string]any{"client_name": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Bookings.WithLabelValues("invalid")))

	w = do(r, http.MethodPost, "/public/appointments", "{")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Bookings.WithLabelValues("invalid")))
}

func TestPublicListDatesRejectsInactiveBranches(t *testing.T) {
	table := &storetest.MockTable[models.Branch]{}
	table.On("Get", mock.Anything, uint(1)).Return(&models.Branch{ID: 1, Name: "Centro", Active: true}, nil)
	table.On("Get", mock.Anything, uint(2)).Return(&models.Branch{ID: 2, Name: "Antiga", Active: false}, nil)
	table.On("Get", mock.Anything, uint(3)).Return(nil, store.ErrNotFound)

	dates := &datesRepo{dates: []models.AvailableDate{
		{BranchID: 1, DoctorID: 1, Date: "2099-01-05", Slots: []string{"09:00"}},
		{BranchID: 1, DoctorID: 2, Date: "2099-01-05", Slots: []string{"10:00"}},
		{BranchID: 1, DoctorID: 1, Date: "2099-01-06", Slots: []string{}},
	}}
	r := publicRouterWithDates(table, dates, nil)

	w := do(r, http.MethodGet, "/public/branches/1/dates", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []any{"2099-01-05"}, decode(t, w)["data"])

	for _, path := range []string{"/public/branches/2/dates", "/public/branches/3/dates"} {
		w = do(r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Equal(t, "branch_not_found", decode(t, w)["error_code"], path)
	}
}
