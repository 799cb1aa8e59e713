package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterClause(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   string
		args   int
	}{
		{"equality", Where("active", true), "active = ?", 1},
		{"null", Where("branch_id", nil), "branch_id IS NULL", 0},
		{"not null", WhereOp("payment_date", Neq, nil), "payment_date IS NOT NULL", 0},
		{"range", WhereOp("date", Gte, "2026-01-01"), "date >= ?", 1},
		{"in", WhereOp("status", In, []string{"open"}), "status IN ?", 1},
		{"qualified", Where("agendamentos.branch_id", 1), "agendamentos.branch_id = ?", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.filter.Clause()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Len(t, tt.filter.Args(), tt.args)
		})
	}
}

func TestFilterRejectsInjection(t *testing.T) {
	_, err := Where("name; DROP TABLE filiais", "x").Clause()
	assert.Error(t, err)

	_, err = Order{Column: "id desc, (select 1)"}.Clause()
	assert.Error(t, err)

	_, err = Filter{Column: "name", Op: "~"}.Clause()
	assert.Error(t, err)
}
