package formatter

import (
	"fmt"
	"slices"
)

// SortField represents the field to sort rows by
type SortField int

const (
	SortByTime SortField = iota
	SortByCost
	SortByTokens
)

// SortOrder represents the sort order
type SortOrder int

const (
	SortAscending SortOrder = iota
	SortDescending
)

// ParseSortField maps "time", "cost" or "tokens" to a SortField
func ParseSortField(name string) (SortField, error) {
	switch name {
	case "", "time":
		return SortByTime, nil
	case "cost":
		return SortByCost, nil
	case "tokens":
		return SortByTokens, nil
	}
	return SortByTime, fmt.Errorf("unsupported sort field %q (valid: time, cost, tokens)", name)
}

// RowSorter orders session rows for reporting
type RowSorter struct {
	field SortField
	order SortOrder
}

func NewRowSorter(field SortField, order SortOrder) *RowSorter {
	return &RowSorter{field: field, order: order}
}

// Sort sorts rows in place. Ties keep their chronological order.
func (s *RowSorter) Sort(rows []SessionRow) {
	slices.SortStableFunc(rows, func(a, b SessionRow) int {
		var c int
		switch s.field {
		case SortByCost:
			c = a.TotalCost.Cmp(b.TotalCost)
		case SortByTokens:
			c = a.TotalTokens - b.TotalTokens
		default:
			c = a.Start.Compare(b.Start)
		}

		if s.order == SortDescending {
			return -c
		}
		return c
	})
}
