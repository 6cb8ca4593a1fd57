package tablefilter

import (
	"regexp"
	"strconv"
	"strings"
)

type predicate func(Record) bool

func isWildcard(expr string) bool {
	return strings.ContainsAny(expr, "*%")
}

func isRegex(expr string) bool {
	return len(expr) > 2 && strings.HasPrefix(expr, "/") && strings.HasSuffix(expr, "/")
}

func lowerText(r Record, column string) string {
	return strings.ToLower(Text(r.Value(column)))
}

// textPredicate compiles a text expression:
// "=x" equality, "!=x" inequality, wildcards, "/re/" and plain substring.
// All comparisons ignore case.
func textPredicate(column, expr string) predicate {
	switch {
	case strings.HasPrefix(expr, "="):
		target := strings.ToLower(expr[1:])
		return func(r Record) bool { return lowerText(r, column) == target }
	case strings.HasPrefix(expr, "!="):
		target := strings.ToLower(expr[2:])
		return func(r Record) bool { return lowerText(r, column) != target }
	case isWildcard(expr):
		return regexPredicate(column, WildcardPattern(expr))
	case isRegex(expr):
		return regexPredicate(column, expr[1:len(expr)-1])
	default:
		target := strings.ToLower(expr)
		return func(r Record) bool { return strings.Contains(lowerText(r, column), target) }
	}
}

// regexPredicate matches case-insensitively anywhere in the cell.
// An invalid pattern matches nothing.
func regexPredicate(column, pattern string) predicate {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return func(Record) bool { return false }
	}
	return func(r Record) bool { return re.MatchString(Text(r.Value(column))) }
}

// WildcardPattern turns a '*' / '%' pattern into an unanchored regular
// expression in which every other character is literal.
func WildcardPattern(expr string) string {
	var b strings.Builder
	var literal strings.Builder
	flush := func() {
		b.WriteString(regexp.QuoteMeta(literal.String()))
		literal.Reset()
	}
	for _, c := range expr {
		if c == '*' || c == '%' {
			flush()
			b.WriteString(".*")
			continue
		}
		literal.WriteRune(c)
	}
	flush()
	return b.String()
}

// operatorPredicate compiles ">=x", "<=x", ">x", "<x", "=x" and "!=x".
func operatorPredicate(column, op, operand string) predicate {
	operand = strings.TrimSpace(operand)
	threshold, err := strconv.ParseFloat(operand, 64)
	if err != nil {
		target := strings.ToLower(operand)
		switch op {
		case "=":
			return func(r Record) bool { return lowerText(r, column) == target }
		case "!=":
			return func(r Record) bool { return lowerText(r, column) != target }
		}
		return textPredicate(column, op+operand)
	}

	target := strings.ToLower(operand)
	return func(r Record) bool {
		v, ok := Number(r.Value(column))
		if !ok {
			switch op {
			case "=":
				return lowerText(r, column) == target
			case "!=":
				return lowerText(r, column) != target
			}
			return false
		}
		return compare(v, op, threshold)
	}
}

func compare(v float64, op string, threshold float64) bool {
	switch op {
	case ">":
		return v > threshold
	case ">=":
		return v >= threshold
	case "<":
		return v < threshold
	case "<=":
		return v <= threshold
	case "=":
		return abs(v-threshold) <= Tolerance
	case "!=":
		return abs(v-threshold) > Tolerance
	}
	return false
}

// rangePredicate keeps numeric values within [lo, hi]
func rangePredicate(column string, lo, hi float64) predicate {
	return func(r Record) bool {
		v, ok := Number(r.Value(column))
		return ok && v >= lo && v <= hi
	}
}
