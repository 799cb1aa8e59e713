package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin   = 10.0
	rowHeight    = 6.0
	headerHeight = 7.0
	font         = "Helvetica"
)

// RenderPDF writes m as an A4 PDF: title block, summary table, detail table
// and a "Página n de N" footer on every page.
func RenderPDF(m Model, w io.Writer) error {
	pdf, err := build(m)
	if err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("report: write pdf: %w", err)
	}
	return nil
}

func build(m Model) (*fpdf.Fpdf, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(font, "I", 8)
		pdf.SetTextColor(110, 110, 110)
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("Página %d de {nb}", pdf.PageNo())), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	writeTitle(pdf, tr, m)
	writeSummary(pdf, tr, m.Summary)
	writeTable(pdf, tr, m.Columns, m.Rows)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("report: render: %w", err)
	}
	return pdf, nil
}

func writeTitle(pdf *fpdf.Fpdf, tr func(string) string, m Model) {
	pdf.SetFont(font, "B", 15)
	pdf.SetTextColor(20, 20, 20)
	pdf.CellFormat(0, 9, tr(m.Title), "", 1, "L", false, 0, "")

	if m.Subtitle != "" {
		pdf.SetFont(font, "", 10)
		pdf.CellFormat(0, 6, tr(m.Subtitle), "", 1, "L", false, 0, "")
	}
	if !m.GeneratedAt.IsZero() {
		pdf.SetFont(font, "", 8)
		pdf.SetTextColor(110, 110, 110)
		pdf.CellFormat(0, 5, tr("Gerado em "+m.GeneratedAt.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func writeSummary(pdf *fpdf.Fpdf, tr func(string) string, items []SummaryItem) {
	if len(items) == 0 {
		return
	}

	pdf.SetTextColor(20, 20, 20)
	for _, it := range items {
		pdf.SetFont(font, "", 10)
		pdf.CellFormat(70, rowHeight, tr(it.Label), "B", 0, "L", false, 0, "")
		pdf.SetFont(font, "B", 10)
		pdf.CellFormat(50, rowHeight, tr(it.Value), "B", 1, "R", false, 0, "")
	}
	pdf.Ln(5)
}

func columnWidths(pdf *fpdf.Fpdf, cols []Column) []float64 {
	pageW, _ := pdf.GetPageSize()
	avail := pageW - 2*pageMargin

	fixed, free := 0.0, 0
	for _, c := range cols {
		if c.Width > 0 {
			fixed += c.Width
		} else {
			free++
		}
	}

	share := 0.0
	if free > 0 && avail > fixed {
		share = (avail - fixed) / float64(free)
	}

	widths := make([]float64, len(cols))
	for i, c := range cols {
		widths[i] = c.Width
		if c.Width <= 0 {
			widths[i] = share
		}
	}
	return widths
}

func writeTable(pdf *fpdf.Fpdf, tr func(string) string, cols []Column, rows [][]string) {
	if len(cols) == 0 {
		return
	}

	widths := columnWidths(pdf, cols)
	_, pageH := pdf.GetPageSize()

	header := func() {
		pdf.SetFont(font, "B", 9)
		pdf.SetFillColor(230, 236, 242)
		pdf.SetTextColor(20, 20, 20)
		for i, c := range cols {
			pdf.CellFormat(widths[i], headerHeight, tr(c.Title), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont(font, "", 9)
	}

	header()
	for n, r := range rows {
		// keep 15mm for the footer; repeat the header on every new page
		if pdf.GetY()+rowHeight > pageH-15 {
			pdf.AddPage()
			header()
		}
		fill := n%2 == 1
		pdf.SetFillColor(247, 247, 247)
		for i, cell := range r {
			align := cols[i].Align
			if align == "" {
				align = AlignLeft
			}
			pdf.CellFormat(widths[i], rowHeight, tr(cell), "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(rows) == 0 {
		pdf.SetFont(font, "I", 9)
		pdf.CellFormat(0, rowHeight, tr("Nenhum registro no período."), "1", 1, "C", false, 0, "")
	}
}
