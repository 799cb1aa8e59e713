package report

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/clinica-otica/internal/domain/finance"
	"github.com/BruksfildServices01/clinica-otica/internal/httperr"
	"github.com/BruksfildServices01/clinica-otica/internal/models"
	"github.com/BruksfildServices01/clinica-otica/internal/store"
)

var PaymentLabels = map[string]string{
	models.PaymentCash:   "Dinheiro",
	models.PaymentPix:    "PIX",
	models.PaymentDebit:  "Cartão de débito",
	models.PaymentCredit: "Cartão de crédito",
	models.PaymentBoleto: "Boleto",
	models.PaymentOther:  "Outros",
}

var AttendanceLabels = map[string]string{
	models.AttendanceConsultation: "Consulta",
	models.AttendanceExam:         "Exame",
	models.AttendanceSale:         "Venda",
	models.AttendanceReturn:       "Retorno",
	models.AttendanceOther:        "Outros",
}

// Params selects the branch (nil = all) and the inclusive date range.
type Params struct {
	BranchID *uint
	From     time.Time
	To       time.Time
	// AsOf is the reference date for overdue instruments.
	AsOf time.Time
}

func (p Params) validate() error {
	if p.From.IsZero() || p.To.IsZero() {
		return httperr.ErrBusiness("invalid_date")
	}
	if p.To.Before(p.From) {
		return httperr.ErrBusiness("end_before_start")
	}
	return nil
}

func (p Params) filters(dateColumn string) []store.Filter {
	f := []store.Filter{
		store.WhereOp(dateColumn, store.Gte, p.From),
		store.WhereOp(dateColumn, store.Lte, p.To),
	}
	if p.BranchID != nil {
		f = append(f, store.Where("branch_id", *p.BranchID))
	}
	return f
}

type Tables struct {
	Branches        store.Table[models.Branch]
	FixedExpenses   store.Table[models.FixedExpense]
	DiverseExpenses store.Table[models.DiverseExpense]
	Revenues        store.Table[models.RevenueEntry]
	ServiceOrders   store.Table[models.ServiceOrderCost]
	Instruments     store.Table[models.Instrument]
}

// Service computes the financial reports from the registries.
type Service struct {
	t Tables
}

func NewService(t Tables) *Service {
	return &Service{t: t}
}

// ======================================================
// EXPENSES
// ======================================================

type ExpenseItem struct {
	Date        string          `json:"date"`
	Kind        string          `json:"kind"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

type ExpenseReport struct {
	From         string            `json:"from"`
	To           string            `json:"to"`
	ByCategory   finance.Breakdown `json:"by_category"`
	FixedTotal   decimal.Decimal   `json:"fixed_total"`
	DiverseTotal decimal.Decimal   `json:"diverse_total"`
	Items        []ExpenseItem     `json:"items"`
}

// Expenses totals diverse expenses dated in the range plus one occurrence of
// each active fixed expense per due day falling in the range.
func (s *Service) Expenses(ctx context.Context, p Params) (*ExpenseReport, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	diverse, err := s.t.DiverseExpenses.Select(ctx, store.Query{
		Filters:  p.filters("date"),
		Preloads: []string{"Category"},
	})
	if err != nil {
		return nil, err
	}

	fixedFilters := []store.Filter{store.Where("active", true)}
	if p.BranchID != nil {
		fixedFilters = append(fixedFilters, store.Where("branch_id", *p.BranchID))
	}
	fixed, err := s.t.FixedExpenses.Select(ctx, store.Query{
		Filters:  fixedFilters,
		Preloads: []string{"Category"},
	})
	if err != nil {
		return nil, err
	}

	return buildExpenseReport(p, fixed, diverse), nil
}

func buildExpenseReport(p Params, fixed []models.FixedExpense, diverse []models.DiverseExpense) *ExpenseReport {
	items := make([]ExpenseItem, 0, len(diverse))
	fixedTotal, diverseTotal := decimal.Zero, decimal.Zero

	for _, e := range diverse {
		items = append(items, ExpenseItem{
			Date:        e.Date.Format("2006-01-02"),
			Kind:        models.CategoryKindDiverse,
			Category:    e.Category.Name,
			Description: e.Description,
			Amount:      e.Amount,
		})
		diverseTotal = diverseTotal.Add(e.Amount)
	}

	for _, e := range fixed {
		for _, d := range finance.FixedOccurrences(e.DueDay, p.From, p.To) {
			items = append(items, ExpenseItem{
				Date:        d.Format("2006-01-02"),
				Kind:        models.CategoryKindFixed,
				Category:    e.Category.Name,
				Description: e.Description,
				Amount:      e.Amount,
			})
			fixedTotal = fixedTotal.Add(e.Amount)
		}
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].Date < items[j].Date })

	return &ExpenseReport{
		From: p.From.Format("2006-01-02"),
		To:   p.To.Format("2006-01-02"),
		ByCategory: finance.GroupTotals(items,
			func(i ExpenseItem) string { return i.Category },
			func(i ExpenseItem) decimal.Decimal { return i.Amount },
		),
		FixedTotal:   fixedTotal,
		DiverseTotal: diverseTotal,
		Items:        items,
	}
}

// ======================================================
// REVENUE
// ======================================================

type RevenueReport struct {
	From            string                `json:"from"`
	To              string                `json:"to"`
	ByPaymentMethod finance.Breakdown     `json:"by_payment_method"`
	ByAttendance    finance.Breakdown     `json:"by_attendance_type"`
	Total           decimal.Decimal       `json:"total"`
	Entries         []models.RevenueEntry `json:"entries"`
}

func (s *Service) Revenue(ctx context.Context, p Params) (*RevenueReport, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	entries, err := s.t.Revenues.Select(ctx, store.Query{
		Filters: p.filters("date"),
		Order:   []store.Order{{Column: "date"}, {Column: "id"}},
	})
	if err != nil {
		return nil, err
	}
	return buildRevenueReport(p, entries), nil
}

func buildRevenueReport(p Params, entries []models.RevenueEntry) *RevenueReport {
	if entries == nil {
		entries = []models.RevenueEntry{}
	}
	amount := func(r models.RevenueEntry) decimal.Decimal { return r.Amount }

	byMethod := finance.GroupTotals(entries, func(r models.RevenueEntry) string { return r.PaymentMethod }, amount)
	return &RevenueReport{
		From:            p.From.Format("2006-01-02"),
		To:              p.To.Format("2006-01-02"),
		ByPaymentMethod: byMethod.WithLabels(PaymentLabels),
		ByAttendance: finance.GroupTotals(entries,
			func(r models.RevenueEntry) string { return r.AttendanceType }, amount,
		).WithLabels(AttendanceLabels),
		Total:   byMethod.GrandTotal,
		Entries: entries,
	}
}

// ======================================================
// CMV
// ======================================================

type CMVReport struct {
	From string `json:"from"`
	To   string `json:"to"`
	finance.CMVSummary
}

func (s *Service) CMV(ctx context.Context, p Params) (*CMVReport, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	orders, err := s.t.ServiceOrders.Select(ctx, store.Query{
		Filters: p.filters("date"),
		Order:   []store.Order{{Column: "date"}, {Column: "number"}},
	})
	if err != nil {
		return nil, err
	}

	return &CMVReport{
		From:       p.From.Format("2006-01-02"),
		To:         p.To.Format("2006-01-02"),
		CMVSummary: finance.SummarizeCMV(orders),
	}, nil
}

// ======================================================
// INSTRUMENTS
// ======================================================

type InstrumentItem struct {
	models.Instrument
	State   string          `json:"state"`
	Charges finance.Charges `json:"charges"`
}

type InstrumentReport struct {
	From       string                   `json:"from"`
	To         string                   `json:"to"`
	AsOf       string                   `json:"as_of"`
	Payable    finance.InstrumentTotals `json:"payable"`
	Receivable finance.InstrumentTotals `json:"receivable"`
	Items      []InstrumentItem         `json:"items"`
}

// Instruments covers títulos due in the range; overdue charges are computed
// at AsOf.
func (s *Service) Instruments(ctx context.Context, p Params) (*InstrumentReport, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if p.AsOf.IsZero() {
		p.AsOf = time.Now()
	}

	rows, err := s.t.Instruments.Select(ctx, store.Query{
		Filters:  p.filters("due_date"),
		Order:    []store.Order{{Column: "due_date"}, {Column: "id"}},
		Preloads: []string{"Supplier"},
	})
	if err != nil {
		return nil, err
	}
	return buildInstrumentReport(p, rows), nil
}

func buildInstrumentReport(p Params, rows []models.Instrument) *InstrumentReport {
	items := make([]InstrumentItem, 0, len(rows))
	for _, i := range rows {
		items = append(items, InstrumentItem{
			Instrument: i,
			State:      finance.State(i, p.AsOf),
			Charges:    finance.AmountDue(i, p.AsOf),
		})
	}

	return &InstrumentReport{
		From:       p.From.Format("2006-01-02"),
		To:         p.To.Format("2006-01-02"),
		AsOf:       p.AsOf.Format("2006-01-02"),
		Payable:    finance.SummarizeInstruments(models.InstrumentPayable, rows, p.AsOf),
		Receivable: finance.SummarizeInstruments(models.InstrumentReceivable, rows, p.AsOf),
		Items:      items,
	}
}

// ======================================================
// DASHBOARD
// ======================================================

type Dashboard struct {
	From         string          `json:"from"`
	To           string          `json:"to"`
	RevenueTotal decimal.Decimal `json:"revenue_total"`
	ExpenseTotal decimal.Decimal `json:"expense_total"`
	CMVTotal     decimal.Decimal `json:"cmv_total"`
	Result       decimal.Decimal `json:"result"`
	Orders       int             `json:"orders"`
	Payable      decimal.Decimal `json:"payable_open"`
	Receivable   decimal.Decimal `json:"receivable_open"`
}

// Dashboard is revenue − expenses − CMV for the range.
func (s *Service) Dashboard(ctx context.Context, p Params) (*Dashboard, error) {
	rev, err := s.Revenue(ctx, p)
	if err != nil {
		return nil, err
	}
	exp, err := s.Expenses(ctx, p)
	if err != nil {
		return nil, err
	}
	cmv, err := s.CMV(ctx, p)
	if err != nil {
		return nil, err
	}
	ins, err := s.Instruments(ctx, p)
	if err != nil {
		return nil, err
	}
	return buildDashboard(rev, exp, cmv, ins), nil
}

func buildDashboard(rev *RevenueReport, exp *ExpenseReport, cmv *CMVReport, ins *InstrumentReport) *Dashboard {
	return &Dashboard{
		From:         rev.From,
		To:           rev.To,
		RevenueTotal: rev.Total,
		ExpenseTotal: exp.ByCategory.GrandTotal,
		CMVTotal:     cmv.CostTotal,
		Result:       rev.Total.Sub(exp.ByCategory.GrandTotal).Sub(cmv.CostTotal),
		Orders:       len(cmv.Orders),
		Payable:      ins.Payable.Open.Add(ins.Payable.Overdue),
		Receivable:   ins.Receivable.Open.Add(ins.Receivable.Overdue),
	}
}
