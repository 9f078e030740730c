package validators

import (
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/amcruz/storefront-backend/pkg/pagination"
)

func TestParsePagination(t *testing.T) {
	cases := []struct {
		url       string
		wantPage  int
		wantLimit int
	}{
		{"/products", 1, pagination.DefaultLimit},
		{"/products?page=3&limit=20", 3, 20},
		{"/products?page=abc&limit=xyz", 1, pagination.DefaultLimit},
		{"/products?page=-5&limit=0", 1, pagination.DefaultLimit},
		{"/products?limit=10000", 1, pagination.MaxLimit},
	}

	for _, tc := range cases {
		r := httptest.NewRequest("GET", tc.url, nil)
		params := ParsePagination(r)
		if params.Page != tc.wantPage || params.Limit != tc.wantLimit {
			t.Fatalf("%s: got page=%d limit=%d, want page=%d limit=%d",
				tc.url, params.Page, params.Limit, tc.wantPage, tc.wantLimit)
		}
	}
}

func TestParsePriceBound(t *testing.T) {
	r := httptest.NewRequest("GET", "/products?min_price=10.50&max_price=oops&other=-3", nil)

	if got := ParsePriceBound(r, "min_price"); got == nil || !got.Equal(decimal.RequireFromString("10.50")) {
		t.Fatalf("expected 10.50, got %v", got)
	}
	if got := ParsePriceBound(r, "max_price"); got != nil {
		t.Fatalf("expected malformed bound to be ignored, got %v", got)
	}
	if got := ParsePriceBound(r, "other"); got != nil {
		t.Fatalf("expected negative bound to be ignored, got %v", got)
	}
	if got := ParsePriceBound(r, "absent"); got != nil {
		t.Fatalf("expected absent bound to be nil, got %v", got)
	}
}

func TestParseQueryInt(t *testing.T) {
	r := httptest.NewRequest("GET", "/stock?delta=5&bad=x&big=999", nil)

	if got, err := ParseQueryInt(r, "delta", 0, -100, 100); err != nil || got != 5 {
		t.Fatalf("expected 5, got %d err %v", got, err)
	}
	if got, err := ParseQueryInt(r, "missing", 7, 0, 10); err != nil || got != 7 {
		t.Fatalf("expected default 7, got %d err %v", got, err)
	}
	if _, err := ParseQueryInt(r, "bad", 0, 0, 10); err == nil {
		t.Fatalf("expected error for non-numeric value")
	}
	if _, err := ParseQueryInt(r, "big", 0, 0, 10); err == nil {
		t.Fatalf("expected error for out-of-range value")
	}
}
