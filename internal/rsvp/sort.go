package rsvp

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

type Column string

const (
	ColumnCreatedAt Column = "createdAt"
	ColumnName      Column = "name"
	ColumnEmail     Column = "email"
	ColumnCode      Column = "code"
	ColumnVeg       Column = "veg"
	ColumnNonVeg    Column = "nonVeg"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type SortSpec struct {
	Column    Column
	Direction Direction
}

// DefaultSort lists the newest submissions first.
func DefaultSort() SortSpec {
	return SortSpec{Column: ColumnCreatedAt, Direction: Desc}
}

// ParseSortSpec reads query-string values. Empty values fall back to DefaultSort.
func ParseSortSpec(column, direction string) (SortSpec, error) {
	spec := DefaultSort()

	if column = strings.TrimSpace(column); column != "" {
		c := Column(column)
		if _, ok := comparators[c]; !ok {
			return spec, fmt.Errorf("unknown sort column %q", column)
		}
		spec.Column = c
		spec.Direction = Asc
	}

	switch Direction(strings.ToLower(strings.TrimSpace(direction))) {
	case "":
	case Asc:
		spec.Direction = Asc
	case Desc:
		spec.Direction = Desc
	default:
		return spec, fmt.Errorf("unknown sort direction %q", direction)
	}

	return spec, nil
}

// Toggle mirrors clicking a column header: the same column flips direction, a new column
// starts ascending.
func (s SortSpec) Toggle(c Column) SortSpec {
	if s.Column == c {
		if s.Direction == Asc {
			return SortSpec{Column: c, Direction: Desc}
		}
		return SortSpec{Column: c, Direction: Asc}
	}
	return SortSpec{Column: c, Direction: Asc}
}

var comparators = map[Column]func(a, b Submission) int{
	// Timestamps compare on the instant, never on a formatted string.
	ColumnCreatedAt: func(a, b Submission) int { return a.CreatedAt.Compare(b.CreatedAt) },
	ColumnName:      func(a, b Submission) int { return strings.Compare(a.Name, b.Name) },
	ColumnEmail:     func(a, b Submission) int { return strings.Compare(a.Email, b.Email) },
	ColumnCode:      func(a, b Submission) int { return strings.Compare(a.Code, b.Code) },
	ColumnVeg:       func(a, b Submission) int { return cmp.Compare(a.Veg, b.Veg) },
	ColumnNonVeg:    func(a, b Submission) int { return cmp.Compare(a.NonVeg, b.NonVeg) },
}

// Sort returns a stably sorted copy of rows. rows itself is not modified.
func Sort(rows []Submission, spec SortSpec) []Submission {
	less, ok := comparators[spec.Column]
	if !ok {
		less = comparators[ColumnCreatedAt]
	}

	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b Submission) int {
		if spec.Direction == Desc {
			return less(b, a)
		}
		return less(a, b)
	})
	return out
}
