package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/amcruz/storefront-backend/pkg/errors"
	"github.com/amcruz/storefront-backend/pkg/pagination"
)

// ParseQueryInt reads a required-range integer parameter. Absent values take
// the default; malformed or out-of-range values fail the request.
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").
			WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").
			WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// queryIntLenient reads an integer listing knob. Malformed values behave
// like absent ones, so a mangled storefront URL still renders page one
// instead of an error.
func queryIntLenient(r *http.Request, key string) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}

// ParsePagination reads page/limit. Out-of-range and malformed values are
// normalized away rather than rejected.
func ParsePagination(r *http.Request) pagination.Params {
	return pagination.Params{
		Page:  queryIntLenient(r, "page"),
		Limit: queryIntLenient(r, "limit"),
	}.Normalize()
}

// ParsePriceBound reads an optional decimal bound. Malformed or negative
// values are ignored like absent ones.
func ParsePriceBound(r *http.Request, key string) *decimal.Decimal {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil || value.IsNegative() {
		return nil
	}
	return &value
}
