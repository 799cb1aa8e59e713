package finance

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// GroupTotal is the total of one group and its share of the grand total.
type GroupTotal struct {
	Key     string          `json:"key"`
	Label   string          `json:"label"`
	Count   int             `json:"count"`
	Total   decimal.Decimal `json:"total"`
	Percent decimal.Decimal `json:"percent"`
}

type Breakdown struct {
	Groups     []GroupTotal    `json:"groups"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// Percent returns part/total*100 rounded to two places, or zero when total
// is zero.
func Percent(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred).Round(2)
}

// GroupTotals folds records into per-key totals. Groups are ordered by total
// descending, ties broken by key ascending.
func GroupTotals[T any](
	records []T,
	key func(T) string,
	amount func(T) decimal.Decimal,
) Breakdown {
	idx := make(map[string]int)
	var groups []GroupTotal
	grand := decimal.Zero

	for _, r := range records {
		k := key(r)
		a := amount(r)

		i, ok := idx[k]
		if !ok {
			i = len(groups)
			idx[k] = i
			groups = append(groups, GroupTotal{Key: k, Label: k, Total: decimal.Zero})
		}
		groups[i].Total = groups[i].Total.Add(a)
		groups[i].Count++
		grand = grand.Add(a)
	}

	for i := range groups {
		groups[i].Percent = Percent(groups[i].Total, grand)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		if c := groups[a].Total.Cmp(groups[b].Total); c != 0 {
			return c > 0
		}
		return groups[a].Key < groups[b].Key
	})

	if groups == nil {
		groups = []GroupTotal{}
	}
	return Breakdown{Groups: groups, GrandTotal: grand}
}

// WithLabels replaces group labels using labels[key] when present.
func (b Breakdown) WithLabels(labels map[string]string) Breakdown {
	out := make([]GroupTotal, len(b.Groups))
	for i, g := range b.Groups {
		if l, ok := labels[g.Key]; ok {
			g.Label = l
		}
		out[i] = g
	}
	b.Groups = out
	return b
}

// Sum adds amount(r) over records.
func Sum[T any](records []T, amount func(T) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(amount(r))
	}
	return total
}

// FixedOccurrences returns the dates in [from, to] on which a monthly
// expense with dueDay falls. Months shorter than dueDay use their last day.
func FixedOccurrences(dueDay int, from, to time.Time) []time.Time {
	if dueDay < 1 || to.Before(from) {
		return nil
	}

	var out []time.Time
	cur := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, from.Location())
	for !cur.After(to) {
		last := cur.AddDate(0, 1, -1).Day()
		d := time.Date(cur.Year(), cur.Month(), min(dueDay, last), 0, 0, 0, 0, from.Location())
		if !d.Before(from) && !d.After(to) {
			out = append(out, d)
		}
		cur = cur.AddDate(0, 1, 0)
	}
	return out
}
