// Package report describes printable reports declaratively and renders them
// to PDF.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	AlignLeft   = "L"
	AlignRight  = "R"
	AlignCenter = "C"
)

type Column struct {
	Title string
	// Width in millimetres; zero columns share the remaining page width.
	Width float64
	Align string
}

type SummaryItem struct {
	Label string
	Value string
}

// Model is everything the renderer needs; it carries no layout logic.
type Model struct {
	Title       string
	Subtitle    string
	GeneratedAt time.Time
	Summary     []SummaryItem
	Columns     []Column
	Rows        [][]string
}

func (m Model) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return fmt.Errorf("report: title is required")
	}
	if len(m.Rows) > 0 && len(m.Columns) == 0 {
		return fmt.Errorf("report: rows without columns")
	}
	for i, r := range m.Rows {
		if len(r) != len(m.Columns) {
			return fmt.Errorf("report: row %d has %d cells, want %d", i, len(r), len(m.Columns))
		}
	}
	return nil
}

// Money formats an amount as Brazilian reais: R$ 1.234,56.
func Money(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "R$ " + b.String() + "," + frac
}

// Percent formats a percentage with two decimals and a comma: 12,50%.
func Percent(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1) + "%"
}

// Date formats a date as dd/mm/yyyy.
func Date(t time.Time) string {
	return t.Format("02/01/2006")
}

// Period renders "de dd/mm/yyyy a dd/mm/yyyy".
func Period(from, to time.Time) string {
	return "Período: " + Date(from) + " a " + Date(to)
}
