package pagination_test

import (
	"net/url"
	"testing"

	"github.com/JaimeStill/agent-console/pkg/pagination"
)

func TestConfig_Finalize(t *testing.T) {
	t.Setenv("TEST_PAGE_SIZE", "15")

	cfg := pagination.Config{}
	if err := cfg.Finalize(&pagination.ConfigEnv{DefaultPageSize: "TEST_PAGE_SIZE"}); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if cfg.DefaultPageSize != 15 {
		t.Errorf("DefaultPageSize = %d, want 15", cfg.DefaultPageSize)
	}
	if cfg.MaxPageSize != 100 {
		t.Errorf("MaxPageSize = %d, want 100", cfg.MaxPageSize)
	}

	bad := pagination.Config{DefaultPageSize: 50, MaxPageSize: 10}
	if err := bad.Finalize(nil); err == nil {
		t.Error("Finalize() error = nil, want default > max rejection")
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	cfg := pagination.Config{DefaultPageSize: 20, MaxPageSize: 50}

	tests := []struct {
		name     string
		query    string
		wantPage int
		wantSize int
		wantSort int
	}{
		{"defaults", "", 1, 20, 0},
		{"explicit", "page=3&page_size=10&sort=-created_at,name", 3, 10, 2},
		{"clamped", "page=-1&page_size=500", 1, 50, 0},
		{"garbage", "page=x&page_size=y", 1, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, _ := url.ParseQuery(tt.query)
			req := pagination.PageRequestFromQuery(values, cfg)

			if req.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", req.Page, tt.wantPage)
			}
			if req.PageSize != tt.wantSize {
				t.Errorf("PageSize = %d, want %d", req.PageSize, tt.wantSize)
			}
			if len(req.Sort) != tt.wantSort {
				t.Errorf("len(Sort) = %d, want %d", len(req.Sort), tt.wantSort)
			}
		})
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		total, size, wantPages int
	}{
		{0, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 20, 5},
	}

	for _, tt := range tests {
		got := pagination.NewPageResult[int](nil, tt.total, 1, tt.size)
		if got.TotalPages != tt.wantPages {
			t.Errorf("NewPageResult(total=%d, size=%d).TotalPages = %d, want %d", tt.total, tt.size, got.TotalPages, tt.wantPages)
		}
		if got.Data == nil {
			t.Error("Data = nil, want empty slice")
		}
	}
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	got := pagination.Slice(items, pagination.PageRequest{Page: 2, PageSize: 2})
	if len(got) != 2 || got[0] != 3 {
		t.Errorf("Slice(page 2) = %v, want [3 4]", got)
	}

	got = pagination.Slice(items, pagination.PageRequest{Page: 9, PageSize: 2})
	if len(got) != 0 {
		t.Errorf("Slice(page 9) = %v, want empty", got)
	}
}
