// Package query builds parameterized SQL for paginated, filtered listings.
// Callers address columns through view names declared on a ProjectionMap so
// that client-supplied sort and filter fields never reach SQL unmapped.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps view field names to qualified table columns.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	columns []string
	fields  map[string]string
}

// NewProjectionMap creates a projection over schema.table using alias for column qualification.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema: schema,
		table:  table,
		alias:  alias,
		fields: make(map[string]string),
	}
}

// Project registers column under the view name field.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	qualified := fmt.Sprintf("%s.%s", p.alias, column)
	p.columns = append(p.columns, qualified)
	p.fields[field] = qualified
	return p
}

// Alias returns the table alias.
func (p *ProjectionMap) Alias() string {
	return p.alias
}

// Table returns the aliased table reference used in FROM clauses.
func (p *ProjectionMap) Table() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// Column returns the qualified column for field, or field itself when unknown.
func (p *ProjectionMap) Column(field string) string {
	if col, ok := p.fields[field]; ok {
		return col
	}
	return field
}

// Has reports whether field is a projected view name.
func (p *ProjectionMap) Has(field string) bool {
	_, ok := p.fields[field]
	return ok
}

// Columns returns the projected columns as a SELECT list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.columns, ", ")
}

// ColumnList returns a copy of the projected columns in declaration order.
func (p *ProjectionMap) ColumnList() []string {
	out := make([]string, len(p.columns))
	copy(out, p.columns)
	return out
}
