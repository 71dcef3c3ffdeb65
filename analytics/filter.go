package analytics

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// FieldMapping is the allowlist from public filter-field names to the
// qualified schema columns they resolve to. Field names absent from the
// mapping are rejected; caller-supplied keys never reach the query layer
// as column names.
type FieldMapping map[string]string

// BlogFieldMapping covers the filterable fields of the Blog query root. The
// column paths assume the blogs→users→countries joins are present on the
// query the filter is applied to.
func BlogFieldMapping() FieldMapping {
	return FieldMapping{
		"country":    "countries.name",
		"user":       "users.username",
		"title":      "blogs.title",
		"content":    "blogs.content",
		"created_at": "blogs.created_at",
	}
}

const operatorSep = "__"

// Supported filter operators. An unrecognized operator token falls back to
// "eq"; see CompileFilters.
const (
	OpEq        = "eq"
	OpNe        = "ne"
	OpIn        = "in"
	OpContains  = "contains"
	OpIContains = "icontains"
	OpGt        = "gt"
	OpGte       = "gte"
	OpLt        = "lt"
	OpLte       = "lte"
)

// UnknownFieldError reports a filter key whose field name is not in the
// allowlist mapping.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown filter field %q", e.Field)
}

// Condition is a single compiled predicate: a SQL fragment with placeholders
// plus its arguments.
type Condition struct {
	SQL  string
	Args []interface{}
}

// Filter is an opaque conjunction of conditions over the Blog query root.
// It composes with further predicates (time bounds) through gorm's own
// AND-chaining of Where clauses.
type Filter struct {
	conds []Condition
}

// Conditions exposes the compiled predicates, mainly for tests.
func (f *Filter) Conditions() []Condition {
	if f == nil {
		return nil
	}
	return f.conds
}

// Empty reports whether no filter parameters were supplied.
func (f *Filter) Empty() bool { return f == nil || len(f.conds) == 0 }

// Apply attaches every condition to the query as an ANDed Where clause.
func (f *Filter) Apply(q *gorm.DB) *gorm.DB {
	if f == nil {
		return q
	}
	for _, c := range f.conds {
		q = q.Where(c.SQL, c.Args...)
	}
	return q
}

// CompileFilters turns raw query parameters into a Filter. Keys listed in
// reserved are skipped (pagination/mode/range keys). A key of the form
// field__operator selects the operator; a bare key means "eq". An unknown
// operator token degrades to "eq" rather than erroring, matching the
// documented query syntax. A field name outside the mapping yields an
// UnknownFieldError.
func CompileFilters(params url.Values, reserved []string, mapping FieldMapping) (*Filter, error) {
	skip := make(map[string]struct{}, len(reserved))
	for _, k := range reserved {
		skip[k] = struct{}{}
	}

	f := &Filter{}
	for _, key := range sortedKeys(params) {
		if _, ok := skip[key]; ok {
			continue
		}
		value := params.Get(key)

		field, op := key, OpEq
		if i := strings.LastIndex(key, operatorSep); i >= 0 {
			field, op = key[:i], key[i+len(operatorSep):]
		}

		column, ok := mapping[field]
		if !ok {
			return nil, &UnknownFieldError{Field: field}
		}

		f.conds = append(f.conds, buildCondition(column, op, value))
	}
	return f, nil
}

func buildCondition(column, op, value string) Condition {
	switch op {
	case OpNe:
		// Negated equality stays AND-composable: the complement of the
		// predicate, not a separate NOT-query primitive.
		return Condition{SQL: "NOT (" + column + " = ?)", Args: []interface{}{value}}
	case OpIn:
		return Condition{SQL: column + " IN ?", Args: []interface{}{strings.Split(value, ",")}}
	case OpContains:
		// BINARY keeps the match case-sensitive under MySQL's default
		// case-insensitive collations.
		return Condition{SQL: column + " LIKE BINARY ?", Args: []interface{}{"%" + value + "%"}}
	case OpIContains:
		return Condition{SQL: "LOWER(" + column + ") LIKE LOWER(?)", Args: []interface{}{"%" + value + "%"}}
	case OpGt:
		return Condition{SQL: column + " > ?", Args: []interface{}{value}}
	case OpGte:
		return Condition{SQL: column + " >= ?", Args: []interface{}{value}}
	case OpLt:
		return Condition{SQL: column + " < ?", Args: []interface{}{value}}
	case OpLte:
		return Condition{SQL: column + " <= ?", Args: []interface{}{value}}
	default: // OpEq and unknown tokens
		return Condition{SQL: column + " = ?", Args: []interface{}{value}}
	}
}

// sortedKeys keeps compilation order stable so identical requests produce
// identical SQL regardless of map iteration order.
func sortedKeys(params url.Values) []string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
