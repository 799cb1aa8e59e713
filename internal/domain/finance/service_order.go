package finance

import (
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/clinica-otica/internal/models"
)

// OrderMargin is the cost/margin breakdown of one service order.
type OrderMargin struct {
	Number        string          `json:"number"`
	Date          string          `json:"date"`
	SaleValue     decimal.Decimal `json:"sale_value"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	GrossMargin   decimal.Decimal `json:"gross_margin"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
}

func TotalCost(o models.ServiceOrderCost) decimal.Decimal {
	return o.LensCost.Add(o.FrameCost).Add(o.MarketingCost).Add(o.OtherCost)
}

func Margin(o models.ServiceOrderCost) OrderMargin {
	cost := TotalCost(o)
	gross := o.SaleValue.Sub(cost)
	return OrderMargin{
		Number:        o.Number,
		Date:          o.Date.Format("2006-01-02"),
		SaleValue:     o.SaleValue,
		TotalCost:     cost,
		GrossMargin:   gross,
		MarginPercent: Percent(gross, o.SaleValue),
	}
}

// CMVSummary aggregates a set of service orders.
type CMVSummary struct {
	Orders         []OrderMargin   `json:"orders"`
	SaleTotal      decimal.Decimal `json:"sale_total"`
	CostTotal      decimal.Decimal `json:"cost_total"`
	LensTotal      decimal.Decimal `json:"lens_total"`
	FrameTotal     decimal.Decimal `json:"frame_total"`
	MarketingTotal decimal.Decimal `json:"marketing_total"`
	OtherTotal     decimal.Decimal `json:"other_total"`
	GrossMargin    decimal.Decimal `json:"gross_margin"`
	MarginPercent  decimal.Decimal `json:"margin_percent"`
	// AverageMargin is the mean of the per-order margin percents.
	AverageMargin decimal.Decimal `json:"average_margin_percent"`
}

func SummarizeCMV(orders []models.ServiceOrderCost) CMVSummary {
	s := CMVSummary{
		Orders:         make([]OrderMargin, 0, len(orders)),
		SaleTotal:      decimal.Zero,
		CostTotal:      decimal.Zero,
		LensTotal:      decimal.Zero,
		FrameTotal:     decimal.Zero,
		MarketingTotal: decimal.Zero,
		OtherTotal:     decimal.Zero,
	}

	for _, o := range orders {
		m := Margin(o)
		s.Orders = append(s.Orders, m)
		s.SaleTotal = s.SaleTotal.Add(o.SaleValue)
		s.CostTotal = s.CostTotal.Add(m.TotalCost)
		s.LensTotal = s.LensTotal.Add(o.LensCost)
		s.FrameTotal = s.FrameTotal.Add(o.FrameCost)
		s.MarketingTotal = s.MarketingTotal.Add(o.MarketingCost)
		s.OtherTotal = s.OtherTotal.Add(o.OtherCost)
	}

	s.GrossMargin = s.SaleTotal.Sub(s.CostTotal)
	s.MarginPercent = Percent(s.GrossMargin, s.SaleTotal)

	s.AverageMargin = decimal.Zero
	if n := len(s.Orders); n > 0 {
		sum := decimal.Zero
		for _, o := range s.Orders {
			sum = sum.Add(o.MarginPercent)
		}
		s.AverageMargin = sum.Div(decimal.NewFromInt(int64(n))).Round(2)
	}
	return s
}
