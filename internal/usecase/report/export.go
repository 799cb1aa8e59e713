package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/clinica-otica/internal/domain/finance"
	"github.com/BruksfildServices01/clinica-otica/internal/httperr"
	"github.com/BruksfildServices01/clinica-otica/internal/models"
	"github.com/BruksfildServices01/clinica-otica/internal/report"
	"github.com/BruksfildServices01/clinica-otica/internal/storage"
	"github.com/BruksfildServices01/clinica-otica/internal/store"
)

const (
	KindExpenses    = "expenses"
	KindRevenue     = "revenue"
	KindCMV         = "cmv"
	KindInstruments = "instruments"
)

var stateLabels = map[string]string{
	models.InstrumentOpen:      "Em aberto",
	models.InstrumentPaid:      "Pago",
	models.InstrumentCancelled: "Cancelado",
	finance.StateOverdue:       "Vencido",
}

var kindLabels = map[string]string{
	models.InstrumentPayable:    "A pagar",
	models.InstrumentReceivable: "A receber",
	models.CategoryKindFixed:    "Fixa",
	models.CategoryKindDiverse:  "Diversa",
}

func label(labels map[string]string, key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return key
}

func breakdownRows(b finance.Breakdown) [][]string {
	rows := make([][]string, 0, len(b.Groups))
	for _, g := range b.Groups {
		rows = append(rows, []string{
			g.Label,
			strconv.Itoa(g.Count),
			report.Money(g.Total),
			report.Percent(g.Percent),
		})
	}
	return rows
}

func ExpensesModel(r *ExpenseReport, p Params, branch string) report.Model {
	rows := make([][]string, 0, len(r.Items))
	for _, i := range r.Items {
		d, _ := time.Parse("2006-01-02", i.Date)
		rows = append(rows, []string{
			report.Date(d),
			label(kindLabels, i.Kind),
			i.Category,
			i.Description,
			report.Money(i.Amount),
		})
	}

	summary := []report.SummaryItem{
		{Label: "Despesas fixas", Value: report.Money(r.FixedTotal)},
		{Label: "Despesas diversas", Value: report.Money(r.DiverseTotal)},
		{Label: "Total", Value: report.Money(r.ByCategory.GrandTotal)},
	}
	for _, g := range r.ByCategory.Groups {
		summary = append(summary, report.SummaryItem{
			Label: g.Label,
			Value: report.Money(g.Total) + " (" + report.Percent(g.Percent) + ")",
		})
	}

	return report.Model{
		Title:    "Relatório de Despesas",
		Subtitle: subtitle(branch, p),
		Summary:  summary,
		Columns: []report.Column{
			{Title: "Data", Width: 24},
			{Title: "Tipo", Width: 20},
			{Title: "Categoria", Width: 40},
			{Title: "Descrição"},
			{Title: "Valor", Width: 30, Align: report.AlignRight},
		},
		Rows: rows,
	}
}

func RevenueModel(r *RevenueReport, p Params, branch string) report.Model {
	rows := breakdownRows(r.ByPaymentMethod)

	summary := []report.SummaryItem{
		{Label: "Total recebido", Value: report.Money(r.Total)},
		{Label: "Lançamentos", Value: strconv.Itoa(len(r.Entries))},
	}
	for _, g := range r.ByAttendance.Groups {
		summary = append(summary, report.SummaryItem{
			Label: g.Label,
			Value: report.Money(g.Total) + " (" + report.Percent(g.Percent) + ")",
		})
	}

	return report.Model{
		Title:    "Relatório de Receitas",
		Subtitle: subtitle(branch, p),
		Summary:  summary,
		Columns: []report.Column{
			{Title: "Forma de pagamento"},
			{Title: "Qtd.", Width: 20, Align: report.AlignRight},
			{Title: "Total", Width: 40, Align: report.AlignRight},
			{Title: "%", Width: 25, Align: report.AlignRight},
		},
		Rows: rows,
	}
}

func CMVModel(r *CMVReport, p Params, branch string) report.Model {
	rows := make([][]string, 0, len(r.Orders))
	for _, o := range r.Orders {
		d, _ := time.Parse("2006-01-02", o.Date)
		rows = append(rows, []string{
			o.Number,
			report.Date(d),
			report.Money(o.SaleValue),
			report.Money(o.TotalCost),
			report.Money(o.GrossMargin),
			report.Percent(o.MarginPercent),
		})
	}

	return report.Model{
		Title:    "Relatório de CMV",
		Subtitle: subtitle(branch, p),
		Summary: []report.SummaryItem{
			{Label: "Vendas", Value: report.Money(r.SaleTotal)},
			{Label: "Custo total", Value: report.Money(r.CostTotal)},
			{Label: "Lentes", Value: report.Money(r.LensTotal)},
			{Label: "Armações", Value: report.Money(r.FrameTotal)},
			{Label: "Marketing", Value: report.Money(r.MarketingTotal)},
			{Label: "Outros", Value: report.Money(r.OtherTotal)},
			{Label: "Margem bruta", Value: report.Money(r.GrossMargin)},
			{Label: "Margem", Value: report.Percent(r.MarginPercent)},
			{Label: "Margem média por OS", Value: report.Percent(r.AverageMargin)},
		},
		Columns: []report.Column{
			{Title: "OS", Width: 24},
			{Title: "Data", Width: 24},
			{Title: "Venda", Align: report.AlignRight},
			{Title: "Custo", Align: report.AlignRight},
			{Title: "Margem", Align: report.AlignRight},
			{Title: "Margem %", Width: 24, Align: report.AlignRight},
		},
		Rows: rows,
	}
}

func InstrumentsModel(r *InstrumentReport, p Params, branch string) report.Model {
	rows := make([][]string, 0, len(r.Items))
	for _, i := range r.Items {
		party := ""
		if i.Supplier != nil {
			party = i.Supplier.Name
		}
		rows = append(rows, []string{
			report.Date(i.DueDate),
			label(kindLabels, i.Kind),
			i.Description,
			party,
			label(stateLabels, i.State),
			report.Money(i.Amount),
			report.Money(i.Charges.Total),
		})
	}

	return report.Model{
		Title:    "Relatório de Títulos",
		Subtitle: subtitle(branch, p) + " | Posição em " + report.Date(p.AsOf),
		Summary: []report.SummaryItem{
			{Label: "A pagar em aberto", Value: report.Money(r.Payable.Open)},
			{Label: "A pagar vencido", Value: report.Money(r.Payable.OverdueDue)},
			{Label: "Pago", Value: report.Money(r.Payable.Paid)},
			{Label: "A receber em aberto", Value: report.Money(r.Receivable.Open)},
			{Label: "A receber vencido", Value: report.Money(r.Receivable.OverdueDue)},
			{Label: "Recebido", Value: report.Money(r.Receivable.Paid)},
		},
		Columns: []report.Column{
			{Title: "Vencimento", Width: 24},
			{Title: "Tipo", Width: 20},
			{Title: "Descrição"},
			{Title: "Fornecedor", Width: 35},
			{Title: "Situação", Width: 22},
			{Title: "Valor", Width: 26, Align: report.AlignRight},
			{Title: "Devido", Width: 26, Align: report.AlignRight},
		},
		Rows: rows,
	}
}

func subtitle(branch string, p Params) string {
	if branch == "" {
		branch = "Todas as filiais"
	}
	return branch + " | " + report.Period(p.From, p.To)
}

// File is a rendered report ready for download.
type File struct {
	Name string
	Data []byte
	// URL is the presigned archive link; empty when no archive is configured.
	URL string
}

// Exporter renders reports to PDF and, when an archive is configured,
// keeps a copy in the bucket.
type Exporter struct {
	svc     *Service
	archive storage.Archive
	log     *zap.Logger
	now     func() time.Time
}

func NewExporter(svc *Service, archive storage.Archive, log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{svc: svc, archive: archive, log: log, now: time.Now}
}

func (e *Exporter) Export(ctx context.Context, kind string, p Params) (*File, error) {

	// 1️⃣ Branch name for the header
	branch := ""
	if p.BranchID != nil {
		b, err := e.svc.t.Branches.Get(ctx, *p.BranchID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, httperr.ErrBusiness("branch_not_found")
		}
		if err != nil {
			return nil, fmt.Errorf("load branch %d: %w", *p.BranchID, err)
		}
		branch = b.Name
	}

	// 2️⃣ Model
	m, err := e.model(ctx, kind, p, branch)
	if err != nil {
		return nil, err
	}
	m.GeneratedAt = e.now()

	// 3️⃣ Render
	var buf bytes.Buffer
	if err := report.RenderPDF(m, &buf); err != nil {
		return nil, fmt.Errorf("render %s report: %w", kind, err)
	}

	f := &File{
		Name: fmt.Sprintf("relatorio-%s-%s.pdf", kind, p.From.Format("20060102")),
		Data: buf.Bytes(),
	}

	// 4️⃣ Archive (optional)
	if e.archive != nil {
		key := archiveKey(p.BranchID)
		if err := e.archive.Upload(ctx, key, "application/pdf", f.Data); err != nil {
			e.log.Warn("report archive upload failed", zap.String("key", key), zap.Error(err))
			return f, nil
		}
		url, err := e.archive.PresignDownload(ctx, key)
		if err != nil {
			e.log.Warn("report presign failed", zap.String("key", key), zap.Error(err))
			return f, nil
		}
		f.URL = url
	}

	return f, nil
}

func (e *Exporter) model(ctx context.Context, kind string, p Params, branch string) (report.Model, error) {
	switch kind {
	case KindExpenses:
		r, err := e.svc.Expenses(ctx, p)
		if err != nil {
			return report.Model{}, err
		}
		return ExpensesModel(r, p, branch), nil
	case KindRevenue:
		r, err := e.svc.Revenue(ctx, p)
		if err != nil {
			return report.Model{}, err
		}
		return RevenueModel(r, p, branch), nil
	case KindCMV:
		r, err := e.svc.CMV(ctx, p)
		if err != nil {
			return report.Model{}, err
		}
		return CMVModel(r, p, branch), nil
	case KindInstruments:
		if p.AsOf.IsZero() {
			p.AsOf = e.now()
		}
		r, err := e.svc.Instruments(ctx, p)
		if err != nil {
			return report.Model{}, err
		}
		return InstrumentsModel(r, p, branch), nil
	default:
		return report.Model{}, httperr.ErrBusiness("invalid_report")
	}
}

func archiveKey(branchID *uint) string {
	scope := "all"
	if branchID != nil {
		scope = strconv.FormatUint(uint64(*branchID), 10)
	}
	return "reports/" + scope + "/" + uuid.NewString() + ".pdf"
}
