package store

import (
	"fmt"
	"regexp"
)

var columnPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*(\.[a-z_][a-z0-9_]*)?$`)

// ValidColumn reports whether name is safe to splice into SQL.
func ValidColumn(name string) bool {
	return columnPattern.MatchString(name)
}

// Clause renders the filter as a parameterised SQL fragment.
func (f Filter) Clause() (string, error) {
	if !ValidColumn(f.Column) {
		return "", fmt.Errorf("invalid column %q", f.Column)
	}

	op := f.Op
	if op == "" {
		op = Eq
	}

	switch op {
	case Eq, Neq, Gte, Lte, Lt, Gt, Like:
		if f.Value == nil && op == Eq {
			return f.Column + " IS NULL", nil
		}
		if f.Value == nil && op == Neq {
			return f.Column + " IS NOT NULL", nil
		}
		return fmt.Sprintf("%s %s ?", f.Column, op), nil
	case In:
		return f.Column + " IN ?", nil
	default:
		return "", fmt.Errorf("unsupported operator %q", op)
	}
}

// Args returns the bind arguments of Clause.
func (f Filter) Args() []any {
	if f.Value == nil && (f.Op == "" || f.Op == Eq || f.Op == Neq) {
		return nil
	}
	return []any{f.Value}
}

func (o Order) Clause() (string, error) {
	if !ValidColumn(o.Column) {
		return "", fmt.Errorf("invalid order column %q", o.Column)
	}
	if o.Desc {
		return o.Column + " DESC", nil
	}
	return o.Column + " ASC", nil
}
