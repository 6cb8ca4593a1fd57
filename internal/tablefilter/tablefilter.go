// Package tablefilter implements the small filter/sort expression language used
// by the dashboard tables.
//
// A filter is a (key, expression) pair. Text columns accept
//
//	=x  !=x  *wild%card*  /regex/  substring
//
// numeric columns additionally accept comma-joined conditions such as
// ">=50,<80", inclusive ranges "10-20" and bare numbers matched within 0.01.
// Keys ending in "_min" or "_max" bound the base column inclusively.
package tablefilter

import (
	"sort"
	"strconv"
	"strings"
)

// Tolerance used by numeric equality
const Tolerance = 0.01

// smartSampleSize is the number of non-empty values inspected to decide
// whether a column holds numbers.
const smartSampleSize = 10

// Record is a table row addressable by column name
type Record interface {
	Value(column string) any
}

// Filter is one (key, expression) pair from a request
type Filter struct {
	Key  string
	Expr string
}

// Schema describes the columns of a table
type Schema struct {
	TextColumns     []string
	NumericColumns  []string
	SortableColumns []string
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// IsText reports whether column is a text column
func (s Schema) IsText(column string) bool { return contains(s.TextColumns, column) }

// IsNumeric reports whether column is a numeric column
func (s Schema) IsNumeric(column string) bool { return contains(s.NumericColumns, column) }

// IsSortable reports whether column may be sorted on
func (s Schema) IsSortable(column string) bool { return contains(s.SortableColumns, column) }

// Apply runs every non-blank filter over rows in order and returns the rows
// that pass all of them. The input slice is not modified.
func Apply[R Record](rows []R, schema Schema, filters []Filter) []R {
	out := make([]R, len(rows))
	copy(out, rows)
	for _, f := range filters {
		expr := strings.TrimSpace(f.Expr)
		if expr == "" {
			continue
		}
		out = applyOne(out, schema, f.Key, expr)
	}
	return out
}

func applyOne[R Record](rows []R, schema Schema, key, expr string) []R {
	switch {
	case schema.IsText(key):
		return keep(rows, textPredicate(key, expr))
	case strings.HasSuffix(key, "_min"):
		return applyBound(rows, schema, strings.TrimSuffix(key, "_min"), expr, true)
	case strings.HasSuffix(key, "_max"):
		return applyBound(rows, schema, strings.TrimSuffix(key, "_max"), expr, false)
	default:
		return applyAuto(rows, key, expr)
	}
}

func applyBound[R Record](rows []R, schema Schema, column, expr string, lower bool) []R {
	if !schema.IsNumeric(column) {
		return rows
	}
	bound, err := strconv.ParseFloat(expr, 64)
	if err != nil {
		return rows
	}
	return keep(rows, func(r Record) bool {
		v, ok := Number(r.Value(column))
		if !ok {
			return false
		}
		if lower {
			return v >= bound
		}
		return v <= bound
	})
}

func applyAuto[R Record](rows []R, column, expr string) []R {
	for _, cond := range strings.Split(expr, ",") {
		cond = strings.TrimSpace(cond)
		if cond == "" {
			continue
		}
		rows = applyCondition(rows, column, cond)
	}
	return rows
}

func applyCondition[R Record](rows []R, column, cond string) []R {
	for _, op := range []string{">=", "<=", ">", "<", "=", "!="} {
		if strings.HasPrefix(cond, op) {
			return keep(rows, operatorPredicate(column, op, cond[len(op):]))
		}
	}

	if strings.Contains(cond, "-") && !strings.HasPrefix(cond, "-") {
		if parts := strings.Split(cond, "-"); len(parts) == 2 {
			lo, errLo := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
			hi, errHi := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
			if errLo == nil && errHi == nil && lo <= hi {
				return keep(rows, rangePredicate(column, lo, hi))
			}
			return keep(rows, textPredicate(column, cond))
		}
	}

	if isWildcard(cond) || isRegex(cond) {
		return keep(rows, textPredicate(column, cond))
	}
	return smartMatch(rows, column, cond)
}

func smartMatch[R Record](rows []R, column, cond string) []R {
	target, err := strconv.ParseFloat(cond, 64)
	if err == nil && numericColumn(rows, column) {
		return keep(rows, func(r Record) bool {
			v, ok := Number(r.Value(column))
			return ok && abs(v-target) <= Tolerance
		})
	}
	return keep(rows, textPredicate(column, cond))
}

// numericColumn samples the first non-empty values of column
func numericColumn[R Record](rows []R, column string) bool {
	seen := 0
	for _, r := range rows {
		if seen == smartSampleSize {
			break
		}
		v := r.Value(column)
		if Text(v) == "" {
			continue
		}
		seen++
		if _, ok := Number(v); !ok {
			return false
		}
	}
	return true
}

func keep[R Record](rows []R, pred predicate) []R {
	out := make([]R, 0, len(rows))
	for _, r := range rows {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// Sort orders rows by column. Only sortable columns are honoured; numeric
// columns compare as numbers with blank or non-numeric cells last, the rest
// as lower-cased text.
// The sort is stable in both directions. The input slice is not modified.
func Sort[R Record](rows []R, schema Schema, column, order string) []R {
	out := make([]R, len(rows))
	copy(out, rows)
	if column == "" || !schema.IsSortable(column) {
		return out
	}
	desc := strings.EqualFold(order, "desc")
	numeric := schema.IsNumeric(column)

	type keyed struct {
		row     R
		num     float64
		missing bool
		str     string
	}
	entries := make([]keyed, len(out))
	for i, r := range out {
		entries[i].row = r
		if numeric {
			var ok bool
			entries[i].num, ok = Number(r.Value(column))
			entries[i].missing = !ok
		} else {
			entries[i].str = strings.ToLower(Text(r.Value(column)))
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		// blank numeric cells go last in either order
		if a.missing != b.missing {
			return b.missing
		}
		if desc {
			a, b = b, a
		}
		if numeric {
			return a.num < b.num
		}
		return a.str < b.str
	})

	for i, e := range entries {
		out[i] = e.row
	}
	return out
}

// FilterAndSort applies filters and then sorts the surviving rows
func FilterAndSort[R Record](rows []R, schema Schema, filters []Filter, sortBy, order string) []R {
	return Sort(Apply(rows, schema, filters), schema, sortBy, order)
}

// Number converts a cell value to a float
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case *float64:
		if n == nil {
			return 0, false
		}
		return *n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Text renders a cell value as the string that text filters see
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case *float64:
		if t == nil {
			return ""
		}
		return strconv.FormatFloat(*t, 'f', -1, 64)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	}
	return ""
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
