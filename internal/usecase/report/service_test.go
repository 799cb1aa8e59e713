package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinica-otica/internal/httperr"
	"github.com/BruksfildServices01/clinica-otica/internal/models"
	"github.com/BruksfildServices01/clinica-otica/internal/store"
	"github.com/BruksfildServices01/clinica-otica/internal/store/storetest"
)

type fixture struct {
	branches *storetest.MockTable[models.Branch]
	fixed    *storetest.MockTable[models.FixedExpense]
	diverse  *storetest.MockTable[models.DiverseExpense]
	revenues *storetest.MockTable[models.RevenueEntry]
	orders   *storetest.MockTable[models.ServiceOrderCost]
	titles   *storetest.MockTable[models.Instrument]
}

func newFixture() *fixture {
	return &fixture{
		branches: &storetest.MockTable[models.Branch]{},
		fixed:    &storetest.MockTable[models.FixedExpense]{},
		diverse:  &storetest.MockTable[models.DiverseExpense]{},
		revenues: &storetest.MockTable[models.RevenueEntry]{},
		orders:   &storetest.MockTable[models.ServiceOrderCost]{},
		titles:   &storetest.MockTable[models.Instrument]{},
	}
}

func (f *fixture) service() *Service {
	return NewService(Tables{
		Branches:        f.branches,
		FixedExpenses:   f.fixed,
		DiverseExpenses: f.diverse,
		Revenues:        f.revenues,
		ServiceOrders:   f.orders,
		Instruments:     f.titles,
	})
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func october() Params {
	return Params{From: day("2026-10-01"), To: day("2026-11-30"), AsOf: day("2026-10-20")}
}

func (f *fixture) withData() {
	rent := models.ExpenseCategory{Name: "Aluguel"}
	supplies := models.ExpenseCategory{Name: "Material"}

	f.fixed.On("Select", mock.Anything, mock.Anything).Return([]models.FixedExpense{
		{ID: 1, Category: rent, Description: "Aluguel loja", Amount: dec("2000"), DueDay: 31, Active: true},
	}, nil)
	f.diverse.On("Select", mock.Anything, mock.Anything).Return([]models.DiverseExpense{
		{ID: 1, Category: supplies, Description: "Flanelas", Amount: dec("150"), Date: day("2026-10-05")},
		{ID: 2, Category: supplies, Description: "Estojos", Amount: dec("350"), Date: day("2026-11-02")},
	}, nil)
	f.revenues.On("Select", mock.Anything, mock.Anything).Return([]models.RevenueEntry{
		{Date: day("2026-10-02"), Amount: dec("3000"), PaymentMethod: models.PaymentPix, AttendanceType: models.AttendanceSale},
		{Date: day("2026-10-03"), Amount: dec("1500"), PaymentMethod: models.PaymentCredit, AttendanceType: models.AttendanceSale},
		{Date: day("2026-10-04"), Amount: dec("500"), PaymentMethod: models.PaymentPix, AttendanceType: models.AttendanceConsultation},
	}, nil)
	f.orders.On("Select", mock.Anything, mock.Anything).Return([]models.ServiceOrderCost{
		{Number: "OS-1", Date: day("2026-10-02"), SaleValue: dec("1000"), LensCost: dec("300"), FrameCost: dec("200")},
		{Number: "OS-2", Date: day("2026-10-03"), SaleValue: dec("500"), LensCost: dec("100"), OtherCost: dec("100")},
	}, nil)
	f.titles.On("Select", mock.Anything, mock.Anything).Return([]models.Instrument{
		{Kind: models.InstrumentPayable, Description: "Lentes", Amount: dec("1000"), DueDate: day("2026-10-05"),
			Status: models.InstrumentOpen, LateFeePercent: dec("2"), InterestPercent: dec("1")},
		{Kind: models.InstrumentPayable, Description: "Armações", Amount: dec("400"), DueDate: day("2026-10-25"),
			Status: models.InstrumentOpen},
		{Kind: models.InstrumentReceivable, Description: "Convênio", Amount: dec("800"), DueDate: day("2026-10-10"),
			Status: models.InstrumentPaid, PaidAmount: dec("800")},
	}, nil)
}

func TestExpensesCombinesFixedOccurrencesAndDiverse(t *testing.T) {
	f := newFixture()
	f.withData()

	r, err := f.service().Expenses(context.Background(), october())
	require.NoError(t, err)

	// Due day 31 falls on 2026-10-31 and on 2026-11-30.
	assert.True(t, r.FixedTotal.Equal(dec("4000")))
	assert.True(t, r.DiverseTotal.Equal(dec("500")))
	assert.True(t, r.ByCategory.GrandTotal.Equal(dec("4500")))
	require.Len(t, r.ByCategory.Groups, 2)
	assert.Equal(t, "Aluguel", r.ByCategory.Groups[0].Key)
	assert.Equal(t, 2, r.ByCategory.Groups[0].Count)

	require.Len(t, r.Items, 4)
	assert.Equal(t, "2026-10-05", r.Items[0].Date)
	assert.Equal(t, "2026-11-30", r.Items[3].Date)

	sum := decimal.Zero
	for _, g := range r.ByCategory.Groups {
		sum = sum.Add(g.Total)
	}
	assert.True(t, sum.Equal(r.ByCategory.GrandTotal))
}

func TestRevenueGroupsByMethodAndAttendance(t *testing.T) {
	f := newFixture()
	f.withData()

	r, err := f.service().Revenue(context.Background(), october())
	require.NoError(t, err)

	assert.True(t, r.Total.Equal(dec("5000")))
	require.Len(t, r.ByPaymentMethod.Groups, 2)
	assert.Equal(t, "PIX", r.ByPaymentMethod.Groups[0].Label)
	assert.Equal(t, "70", r.ByPaymentMethod.Groups[0].Percent.String())
	assert.Equal(t, "Venda", r.ByAttendance.Groups[0].Label)
	assert.Equal(t, "Consulta", r.ByAttendance.Groups[1].Label)
}

func TestInstrumentsDerivesOverdue(t *testing.T) {
	f := newFixture()
	f.withData()

	r, err := f.service().Instruments(context.Background(), october())
	require.NoError(t, err)

	assert.Equal(t, 1, r.Payable.OverdueCount)
	assert.Equal(t, 1, r.Payable.OpenCount)
	// 15 days late: fee 20 + interest 5.
	assert.True(t, r.Payable.OverdueDue.Equal(dec("1025")), r.Payable.OverdueDue.String())
	assert.Equal(t, 1, r.Receivable.PaidCount)
	assert.Equal(t, "overdue", r.Items[0].State)
}

func TestDashboardResult(t *testing.T) {
	f := newFixture()
	f.withData()

	d, err := f.service().Dashboard(context.Background(), october())
	require.NoError(t, err)

	assert.True(t, d.RevenueTotal.Equal(dec("5000")))
	assert.True(t, d.ExpenseTotal.Equal(dec("4500")))
	assert.True(t, d.CMVTotal.Equal(dec("700")))
	assert.True(t, d.Result.Equal(dec("-200")), d.Result.String())
	assert.Equal(t, 2, d.Orders)
	assert.True(t, d.Payable.Equal(dec("1400")))
}

func TestInvalidRangeIssuesNoQuery(t *testing.T) {
	f := newFixture()

	_, err := f.service().Revenue(context.Background(), Params{From: day("2026-10-10"), To: day("2026-10-01")})
	assert.True(t, httperr.IsBusiness(err, "end_before_start"))

	_, err = f.service().CMV(context.Background(), Params{})
	assert.True(t, httperr.IsBusiness(err, "invalid_date"))

	f.revenues.AssertNotCalled(t, "Select", mock.Anything, mock.Anything)
	f.orders.AssertNotCalled(t, "Select", mock.Anything, mock.Anything)
}

func TestSelectFailurePropagates(t *testing.T) {
	f := newFixture()
	f.orders.On("Select", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	_, err := f.service().CMV(context.Background(), october())
	assert.EqualError(t, err, "connection reset")
}

type fakeArchive struct {
	key       string
	body      []byte
	uploadErr error
}

func (a *fakeArchive) Upload(_ context.Context, key, _ string, body []byte) error {
	if a.uploadErr != nil {
		return a.uploadErr
	}
	a.key, a.body = key, body
	return nil
}

func (a *fakeArchive) PresignDownload(_ context.Context, key string) (string, error) {
	return "https://bucket.example/" + key + "?sig=1", nil
}

func TestExportRendersAndArchives(t *testing.T) {
	f := newFixture()
	f.withData()
	f.branches.On("Get", mock.Anything, uint(3)).Return(&models.Branch{ID: 3, Name: "Centro"}, nil)
	archive := &fakeArchive{}

	branch := uint(3)
	p := october()
	p.BranchID = &branch

	file, err := NewExporter(f.service(), archive, nil).Export(context.Background(), KindCMV, p)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(file.Data), "%PDF-"))
	assert.Equal(t, "relatorio-cmv-20261001.pdf", file.Name)
	assert.True(t, strings.HasPrefix(archive.key, "reports/3/"))
	assert.True(t, strings.HasSuffix(archive.key, ".pdf"))
	assert.Equal(t, file.Data, archive.body)
	assert.Contains(t, file.URL, archive.key)
}

func TestExportWithoutArchive(t *testing.T) {
	f := newFixture()
	f.withData()

	for _, kind := range []string{KindExpenses, KindRevenue, KindCMV, KindInstruments} {
		t.Run(kind, func(t *testing.T) {
			file, err := NewExporter(f.service(), nil, nil).Export(context.Background(), kind, october())
			require.NoError(t, err)
			assert.NotEmpty(t, file.Data)
			assert.Empty(t, file.URL)
		})
	}
}

func TestExportUploadFailureStillReturnsFile(t *testing.T) {
	f := newFixture()
	f.withData()

	file, err := NewExporter(f.service(), &fakeArchive{uploadErr: errors.New("denied")}, nil).
		Export(context.Background(), KindRevenue, october())
	require.NoError(t, err)
	assert.NotEmpty(t, file.Data)
	assert.Empty(t, file.URL)
}

func TestExportBranchLookup(t *testing.T) {
	f := newFixture()
	f.branches.On("Get", mock.Anything, uint(4)).Return(nil, store.ErrNotFound)
	f.branches.On("Get", mock.Anything, uint(5)).Return(nil, errors.New("connection reset"))
	exporter := NewExporter(f.service(), nil, nil)

	missing, down := uint(4), uint(5)

	p := october()
	p.BranchID = &missing
	_, err := exporter.Export(context.Background(), KindRevenue, p)
	assert.True(t, httperr.IsBusiness(err, "branch_not_found"))

	p.BranchID = &down
	_, err = exporter.Export(context.Background(), KindRevenue, p)
	require.Error(t, err)
	_, isBusiness := httperr.AsBusiness(err)
	assert.False(t, isBusiness)
	assert.ErrorContains(t, err, "connection reset")
	f.revenues.AssertNotCalled(t, "Select", mock.Anything, mock.Anything)
}

func TestExportUnknownKind(t *testing.T) {
	f := newFixture()

	_, err := NewExporter(f.service(), nil, nil).Export(context.Background(), "payroll", october())
	assert.True(t, httperr.IsBusiness(err, "invalid_report"))
}

func TestExpensesModelShape(t *testing.T) {
	f := newFixture()
	f.withData()
	p := october()

	r, err := f.service().Expenses(context.Background(), p)
	require.NoError(t, err)

	m := ExpensesModel(r, p, "")
	require.NoError(t, m.Validate())
	assert.Equal(t, "Todas as filiais | Período: 01/10/2026 a 30/11/2026", m.Subtitle)
	assert.Equal(t, "Fixa", m.Rows[1][1])
	assert.Equal(t, "R$ 2.000,00", m.Rows[1][4])
}
