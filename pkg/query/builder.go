package query

import (
	"fmt"
	"reflect"
	"strings"
)

type condition struct {
	clause string
	args   []any
}

// Builder assembles SELECT statements over a projection with numbered placeholders.
type Builder struct {
	projection  *ProjectionMap
	conditions  []condition
	sort        []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder. defaultSort applies when no explicit ordering is requested.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  projection,
		defaultSort: defaultSort,
	}
}

// WhereEquals adds "field = value". Nil values, including typed nil pointers, are ignored.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	return b.where(fmt.Sprintf("%s = ?", b.projection.Column(field)), value)
}

// WhereContains adds a case-insensitive substring match. Nil or empty values are ignored.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	return b.where(fmt.Sprintf("%s ILIKE ?", b.projection.Column(field)), "%"+*value+"%")
}

// WhereIn adds "field IN (...)". Empty value lists are ignored.
func (b *Builder) WhereIn(field string, values []any) *Builder {
	if len(values) == 0 {
		return b
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
	return b.where(fmt.Sprintf("%s IN (%s)", b.projection.Column(field), marks), values...)
}

// WhereSearch ORs a substring match across fields. Nil or empty search is ignored.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}

	clauses := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, field := range fields {
		clauses[i] = fmt.Sprintf("%s ILIKE ?", b.projection.Column(field))
		args[i] = "%" + *search + "%"
	}
	return b.where("("+strings.Join(clauses, " OR ")+")", args...)
}

// WhereRaw adds a clause written against qualified columns, using ? for each argument.
func (b *Builder) WhereRaw(clause string, args ...any) *Builder {
	return b.where(clause, args...)
}

// OrderBy replaces the ordering with a single field.
func (b *Builder) OrderBy(field string, descending bool) *Builder {
	if field == "" {
		b.sort = nil
		return b
	}
	b.sort = []SortField{{Field: field, Descending: descending}}
	return b
}

// OrderByFields replaces the ordering. Fields not present in the projection are dropped.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.sort = make([]SortField, 0, len(fields))
	for _, f := range fields {
		if b.projection.Has(f.Field) {
			b.sort = append(b.sort, f)
		}
	}
	return b
}

// BuildCount returns a COUNT(*) statement with the accumulated conditions.
func (b *Builder) BuildCount() (string, []any) {
	where, args := b.buildWhere()
	return fmt.Sprintf("SELECT COUNT(*) FROM %s%s", b.projection.Table(), where), args
}

// BuildPage returns a SELECT statement limited to one page.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	if page < 1 {
		page = 1
	}
	where, args := b.buildWhere()
	sql := fmt.Sprintf(
		"SELECT %s FROM %s%s%s LIMIT %d OFFSET %d",
		b.projection.Columns(),
		b.projection.Table(),
		where,
		b.buildOrderBy(),
		pageSize,
		(page-1)*pageSize,
	)
	return sql, args
}

// BuildSingle returns a SELECT statement matching idField and the accumulated conditions.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	conds := append([]condition{{
		clause: fmt.Sprintf("%s = ?", b.projection.Column(idField)),
		args:   []any{id},
	}}, b.conditions...)

	where, args := render(conds)
	return fmt.Sprintf("SELECT %s FROM %s%s", b.projection.Columns(), b.projection.Table(), where), args
}

func (b *Builder) where(clause string, args ...any) *Builder {
	b.conditions = append(b.conditions, condition{clause: clause, args: args})
	return b
}

func (b *Builder) buildWhere() (string, []any) {
	return render(b.conditions)
}

func (b *Builder) buildOrderBy() string {
	fields := b.sort
	if len(fields) == 0 {
		fields = b.defaultSort
	}
	if len(fields) == 0 {
		return ""
	}

	parts := make([]string, len(fields))
	for i, f := range fields {
		dir := "ASC"
		if f.Descending {
			dir = "DESC"
		}
		parts[i] = fmt.Sprintf("%s %s", b.projection.Column(f.Field), dir)
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func render(conds []condition) (string, []any) {
	if len(conds) == 0 {
		return "", nil
	}

	var (
		clauses = make([]string, 0, len(conds))
		args    = make([]any, 0, len(conds))
		n       = 1
	)
	for _, c := range conds {
		var sb strings.Builder
		argIdx := 0
		for _, r := range c.clause {
			if r == '?' && argIdx < len(c.args) {
				fmt.Fprintf(&sb, "$%d", n)
				args = append(args, c.args[argIdx])
				argIdx++
				n++
				continue
			}
			sb.WriteRune(r)
		}
		clauses = append(clauses, sb.String())
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
