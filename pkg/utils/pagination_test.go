package utils

import (
	"net/http/httptest"
	"testing"
)

func TestGetPaginationParams(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "/transactions/", 1, 50},
		{"explicit values", "/transactions/?page=3&limit=20", 3, 20},
		{"zero page clamped", "/transactions/?page=0&limit=10", 1, 10},
		{"limit over maximum", "/transactions/?limit=500", 1, 50},
		{"garbage input", "/transactions/?page=abc&limit=xyz", 1, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			page, limit := GetPaginationParams(r)
			if page != tt.wantPage || limit != tt.wantLimit {
				t.Errorf("got (%d, %d), want (%d, %d)", page, limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestAddSorting(t *testing.T) {
	base := "SELECT * FROM transactions WHERE user_id = ?"

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"no sort params", "/transactions/", base},
		{"known column", "/transactions/?sortBy=amount&sortOrder=asc", base + " ORDER BY amount ASC"},
		{"default order is desc", "/transactions/?sortBy=date", base + " ORDER BY date DESC"},
		{"unknown column ignored", "/transactions/?sortBy=password&sortOrder=asc", base},
		{"injection attempt ignored", "/transactions/?sortBy=amount;DROP+TABLE+users", base},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			if got := AddSorting(r, base); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
