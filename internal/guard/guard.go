// Package guard blocks deletes of rows that other tables still reference.
package guard

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/clinica-otica/internal/httperr"
	"github.com/BruksfildServices01/clinica-otica/internal/store"
)

type Entity string

const (
	EntityBranch          Entity = "branch"
	EntityDoctor          Entity = "doctor"
	EntitySupplier        Entity = "supplier"
	EntitySupplierType    Entity = "supplier_type"
	EntityExpenseCategory Entity = "expense_category"
)

// Dependent is a (table, column) pair referencing the guarded entity.
type Dependent struct {
	Table  string
	Column string
	Label  string
}

// Decision is the outcome of CanDelete. When blocked, Dependent names the
// first referencing table and Count how many rows reference the entity.
type Decision struct {
	Allowed   bool
	Dependent Dependent
	Count     int64
}

// DefaultDependents is the registry of references between tables.
var DefaultDependents = map[Entity][]Dependent{
	EntityBranch: {
		{Table: "agendamentos", Column: "branch_id", Label: "agendamentos"},
		{Table: "datas_disponiveis", Column: "branch_id", Label: "datas disponíveis"},
		{Table: "configuracoes_horarios", Column: "branch_id", Label: "configurações de horário"},
		{Table: "usuarios", Column: "branch_id", Label: "usuários"},
		{Table: "despesas_fixas", Column: "branch_id", Label: "despesas fixas"},
		{Table: "despesas_diversas", Column: "branch_id", Label: "despesas diversas"},
		{Table: "titulos", Column: "branch_id", Label: "títulos"},
		{Table: "custos_os", Column: "branch_id", Label: "ordens de serviço"},
		{Table: "registros_receita", Column: "branch_id", Label: "registros de receita"},
	},
	EntityDoctor: {
		{Table: "datas_disponiveis", Column: "doctor_id", Label: "datas disponíveis"},
		{Table: "agendamentos", Column: "doctor_id", Label: "agendamentos"},
	},
	EntitySupplier: {
		{Table: "despesas_fixas", Column: "supplier_id", Label: "despesas fixas"},
		{Table: "despesas_diversas", Column: "supplier_id", Label: "despesas diversas"},
		{Table: "titulos", Column: "supplier_id", Label: "títulos"},
	},
	EntitySupplierType: {
		{Table: "fornecedores", Column: "type_id", Label: "fornecedores"},
	},
	EntityExpenseCategory: {
		{Table: "despesas_fixas", Column: "category_id", Label: "despesas fixas"},
		{Table: "despesas_diversas", Column: "category_id", Label: "despesas diversas"},
	},
}

type Guard struct {
	counter    store.Counter
	dependents map[Entity][]Dependent
}

func New(counter store.Counter, dependents map[Entity][]Dependent) *Guard {
	if dependents == nil {
		dependents = DefaultDependents
	}
	return &Guard{counter: counter, dependents: dependents}
}

// CanDelete checks every dependent table in registry order and stops at the
// first one holding references.
func (g *Guard) CanDelete(ctx context.Context, entity Entity, id uint) (Decision, error) {
	for _, dep := range g.dependents[entity] {
		n, err := g.counter.CountWhere(ctx, dep.Table, store.Where(dep.Column, id))
		if err != nil {
			return Decision{}, fmt.Errorf("count %s.%s: %w", dep.Table, dep.Column, err)
		}
		if n > 0 {
			return Decision{Allowed: false, Dependent: dep, Count: n}, nil
		}
	}
	return Decision{Allowed: true}, nil
}

// Check is CanDelete turned into an error: a blocked decision becomes the
// business error has_dependents with a readable message.
func (g *Guard) Check(ctx context.Context, entity Entity, id uint) error {
	d, err := g.CanDelete(ctx, entity, id)
	if err != nil {
		return err
	}
	if !d.Allowed {
		return httperr.ErrBusinessMsg(
			"has_dependents",
			fmt.Sprintf("Não é possível excluir: existem %d %s vinculados.", d.Count, d.Dependent.Label),
		)
	}
	return nil
}
