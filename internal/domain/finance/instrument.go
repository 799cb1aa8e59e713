package finance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/clinica-otica/internal/models"
)

const StateOverdue = "overdue"

var daysPerMonth = decimal.NewFromInt(30)

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysLate counts whole calendar days between due and asOf; zero when not late.
func DaysLate(due, asOf time.Time) int {
	d := int(dateOnly(asOf).Sub(dateOnly(due)).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// State is the stored status with "overdue" derived for open instruments
// past their due date.
func State(i models.Instrument, asOf time.Time) string {
	if i.Status == models.InstrumentOpen && DaysLate(i.DueDate, asOf) > 0 {
		return StateOverdue
	}
	return i.Status
}

// Charges is the amount owed on an instrument at a date.
type Charges struct {
	Principal decimal.Decimal `json:"principal"`
	LateFee   decimal.Decimal `json:"late_fee"`
	Interest  decimal.Decimal `json:"interest"`
	Total     decimal.Decimal `json:"total"`
	DaysLate  int             `json:"days_late"`
}

// AmountDue applies the flat late fee once overdue plus the monthly interest
// rate prorated per day late. Paid and cancelled instruments owe nothing.
func AmountDue(i models.Instrument, asOf time.Time) Charges {
	if i.Status != models.InstrumentOpen {
		return Charges{Principal: decimal.Zero, LateFee: decimal.Zero, Interest: decimal.Zero, Total: decimal.Zero}
	}

	c := Charges{
		Principal: i.Amount,
		LateFee:   decimal.Zero,
		Interest:  decimal.Zero,
		DaysLate:  DaysLate(i.DueDate, asOf),
	}

	if c.DaysLate > 0 {
		c.LateFee = i.Amount.Mul(i.LateFeePercent).Div(hundred).Round(2)
		c.Interest = i.Amount.
			Mul(i.InterestPercent).Div(hundred).
			Div(daysPerMonth).
			Mul(decimal.NewFromInt(int64(c.DaysLate))).
			Round(2)
	}

	c.Total = c.Principal.Add(c.LateFee).Add(c.Interest)
	return c
}

// InstrumentTotals groups one kind of instrument by derived state.
type InstrumentTotals struct {
	Kind         string          `json:"kind"`
	Open         decimal.Decimal `json:"open"`
	OpenCount    int             `json:"open_count"`
	Overdue      decimal.Decimal `json:"overdue"`
	OverdueDue   decimal.Decimal `json:"overdue_due"`
	OverdueCount int             `json:"overdue_count"`
	Paid         decimal.Decimal `json:"paid"`
	PaidCount    int             `json:"paid_count"`
}

func SummarizeInstruments(kind string, items []models.Instrument, asOf time.Time) InstrumentTotals {
	t := InstrumentTotals{
		Kind:       kind,
		Open:       decimal.Zero,
		Overdue:    decimal.Zero,
		OverdueDue: decimal.Zero,
		Paid:       decimal.Zero,
	}

	for _, i := range items {
		if i.Kind != kind {
			continue
		}
		switch State(i, asOf) {
		case models.InstrumentOpen:
			t.Open = t.Open.Add(i.Amount)
			t.OpenCount++
		case StateOverdue:
			t.Overdue = t.Overdue.Add(i.Amount)
			t.OverdueDue = t.OverdueDue.Add(AmountDue(i, asOf).Total)
			t.OverdueCount++
		case models.InstrumentPaid:
			t.Paid = t.Paid.Add(i.PaidAmount)
			t.PaidCount++
		}
	}
	return t
}
