package query_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/JaimeStill/agent-console/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "agents", "a").
		Project("id", "ID").
		Project("name", "Name").
		Project("status", "Status").
		Project("created_at", "CreatedAt")
}

func TestProjectionMap(t *testing.T) {
	pm := testProjection()

	if got := pm.Table(); got != "public.agents a" {
		t.Errorf("Table() = %q, want %q", got, "public.agents a")
	}
	if got := pm.Columns(); got != "a.id, a.name, a.status, a.created_at" {
		t.Errorf("Columns() = %q", got)
	}
	if got := pm.Column("Status"); got != "a.status" {
		t.Errorf("Column(Status) = %q, want a.status", got)
	}
	if got := pm.Column("missing"); got != "missing" {
		t.Errorf("Column(missing) = %q, want input returned", got)
	}
	if pm.Has("missing") {
		t.Error("Has(missing) = true")
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		in   string
		want []query.SortField
	}{
		{"", nil},
		{"name", []query.SortField{{Field: "name"}}},
		{"-created_at, name", []query.SortField{{Field: "created_at", Descending: true}, {Field: "name"}}},
		{",,-,", []query.SortField{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := query.ParseSortFields(tt.in)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSortFields(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuilder_PlaceholdersNumberAcrossConditions(t *testing.T) {
	owner := "alice"
	search := "bot"
	var missing *string

	b := query.NewBuilder(testProjection(), query.SortField{Field: "Name"}).
		WhereEquals("Status", owner).
		WhereEquals("Name", missing).
		WhereSearch(&search, "Name", "Status").
		WhereIn("ID", []any{"x", "y"})

	sql, args := b.BuildCount()

	want := "SELECT COUNT(*) FROM public.agents a WHERE a.status = $1 AND (a.name ILIKE $2 OR a.status ILIKE $3) AND a.id IN ($4, $5)"
	if sql != want {
		t.Errorf("BuildCount() sql = %q\nwant %q", sql, want)
	}
	if len(args) != 5 {
		t.Fatalf("len(args) = %d, want 5", len(args))
	}
	if args[1] != "%bot%" {
		t.Errorf("args[1] = %v, want %%bot%%", args[1])
	}
}

func TestBuilder_BuildPage(t *testing.T) {
	tests := []struct {
		name      string
		sort      []query.SortField
		page      int
		size      int
		wantOrder string
		wantLimit string
	}{
		{"default sort", nil, 1, 20, "ORDER BY a.name ASC", "LIMIT 20 OFFSET 0"},
		{"explicit sort", []query.SortField{{Field: "CreatedAt", Descending: true}, {Field: "ID"}}, 3, 10, "ORDER BY a.created_at DESC, a.id ASC", "LIMIT 10 OFFSET 20"},
		{"unknown field dropped", []query.SortField{{Field: "drop table"}}, 1, 5, "ORDER BY a.name ASC", "LIMIT 5 OFFSET 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := query.NewBuilder(testProjection(), query.SortField{Field: "Name"})
			if tt.sort != nil {
				b.OrderByFields(tt.sort)
			}
			sql, _ := b.BuildPage(tt.page, tt.size)

			if !strings.Contains(sql, tt.wantOrder) {
				t.Errorf("BuildPage() = %q, missing %q", sql, tt.wantOrder)
			}
			if !strings.Contains(sql, tt.wantLimit) {
				t.Errorf("BuildPage() = %q, missing %q", sql, tt.wantLimit)
			}
		})
	}
}

func TestBuilder_BuildSingle_IncludesConditions(t *testing.T) {
	b := query.NewBuilder(testProjection()).
		WhereEquals("Status", "running").
		WhereRaw("a.name <> ?", "")

	sql, args := b.BuildSingle("ID", "abc")

	want := "SELECT a.id, a.name, a.status, a.created_at FROM public.agents a WHERE a.id = $1 AND a.status = $2 AND a.name <> $3"
	if sql != want {
		t.Errorf("BuildSingle() sql = %q\nwant %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"abc", "running", ""}) {
		t.Errorf("BuildSingle() args = %v", args)
	}
}
