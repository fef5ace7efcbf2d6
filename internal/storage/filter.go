package storage

import (
	"fmt"
	"strings"
)

// Op is a comparison operator usable in a filter predicate.
type Op string

const (
	OpEq      Op = "="
	OpILike   Op = "ILIKE"
	OpNotNull Op = "IS NOT NULL"
	OpIsNull  Op = "IS NULL"
)

// Predicate is one typed condition on a column.
type Predicate struct {
	Column string
	Op     Op
	Value  any
}

// Filter is an ordered list of predicates combined with AND. It keeps
// query construction out of the callers: services describe what they want
// and the store renders it into parameterized SQL.
type Filter struct {
	predicates []Predicate
}

func NewFilter() *Filter {
	return &Filter{}
}

func (f *Filter) Eq(column string, value any) *Filter {
	f.predicates = append(f.predicates, Predicate{Column: column, Op: OpEq, Value: value})
	return f
}

// ILike matches the column against a case-insensitive substring.
func (f *Filter) ILike(column string, value string) *Filter {
	f.predicates = append(f.predicates, Predicate{Column: column, Op: OpILike, Value: "%" + value + "%"})
	return f
}

func (f *Filter) NotNull(column string) *Filter {
	f.predicates = append(f.predicates, Predicate{Column: column, Op: OpNotNull})
	return f
}

func (f *Filter) IsNull(column string) *Filter {
	f.predicates = append(f.predicates, Predicate{Column: column, Op: OpIsNull})
	return f
}

func (f *Filter) Empty() bool {
	return f == nil || len(f.predicates) == 0
}

// Clause renders the filter as a WHERE clause with numbered placeholders
// starting at firstArg, and returns the matching argument values.
func (f *Filter) Clause(firstArg int) (string, []any) {
	if f.Empty() {
		return "", nil
	}

	var parts []string
	var args []any
	n := firstArg
	for _, p := range f.predicates {
		switch p.Op {
		case OpNotNull, OpIsNull:
			parts = append(parts, fmt.Sprintf("%s %s", p.Column, p.Op))
		default:
			parts = append(parts, fmt.Sprintf("%s %s $%d", p.Column, p.Op, n))
			args = append(args, p.Value)
			n++
		}
	}
	return "WHERE " + strings.Join(parts, " AND "), args
}
