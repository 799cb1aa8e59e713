// Package store defines the tabular data contract used by every page module:
// select with equality/range filters, insert, update and delete.
package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type Op string

const (
	Eq   Op = "="
	Neq  Op = "<>"
	Gte  Op = ">="
	Lte  Op = "<="
	Lt   Op = "<"
	Gt   Op = ">"
	In   Op = "IN"
	Like Op = "ILIKE"
)

type Filter struct {
	Column string
	Op     Op
	Value  any
}

func Where(column string, value any) Filter {
	return Filter{Column: column, Op: Eq, Value: value}
}

func WhereOp(column string, op Op, value any) Filter {
	return Filter{Column: column, Op: op, Value: value}
}

type Order struct {
	Column string
	Desc   bool
}

type Query struct {
	Columns  []string
	Filters  []Filter
	Order    []Order
	Limit    int
	Offset   int
	Preloads []string
}

// Entity is a row addressed by a numeric primary key.
type Entity interface {
	GetID() uint
	SetID(id uint)
}

// Table is the typed CRUD contract over one remote table.
type Table[T any] interface {
	Select(ctx context.Context, q Query) ([]T, error)
	Count(ctx context.Context, filters ...Filter) (int64, error)
	Get(ctx context.Context, id uint, preloads ...string) (*T, error)
	Insert(ctx context.Context, rows ...*T) error
	Save(ctx context.Context, row *T) error
	Update(ctx context.Context, patch map[string]any, filters ...Filter) (int64, error)
	Delete(ctx context.Context, filters ...Filter) (int64, error)
}

// Counter counts rows of an arbitrary table; used by delete guards.
type Counter interface {
	CountWhere(ctx context.Context, table string, filters ...Filter) (int64, error)
}
