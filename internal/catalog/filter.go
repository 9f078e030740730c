// Package catalog holds the single listing pipeline shared by the storefront
// and admin product endpoints: filter construction, sort-order mapping, and
// result assembly around offset pagination.
package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CategoryAll is accepted wherever a category filter is optional and matches
// every product.
const CategoryAll = "all"

// Filters describe the supported filter knobs for the listing endpoints.
// Every field is optional; absent fields match all records.
type Filters struct {
	Keyword    string           `json:"keyword,omitempty"`
	CategoryID *uuid.UUID       `json:"category_id,omitempty"`
	PriceMin   *decimal.Decimal `json:"price_min,omitempty"`
	PriceMax   *decimal.Decimal `json:"price_max,omitempty"`
}

// Apply chains the filter conditions onto the query. A record matches when it
// satisfies every supplied condition.
func (f Filters) Apply(qb *gorm.DB) *gorm.DB {
	if keyword := strings.TrimSpace(f.Keyword); keyword != "" {
		pattern := "%" + EscapeLike(strings.ToLower(keyword)) + "%"
		qb = qb.Where(
			"(LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\')",
			pattern, pattern,
		)
	}
	if f.CategoryID != nil {
		qb = qb.Where("category_id = ?", *f.CategoryID)
	}
	if f.PriceMin != nil {
		qb = qb.Where("price >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		qb = qb.Where("price <= ?", *f.PriceMax)
	}
	return qb
}

// EscapeLike escapes LIKE wildcards and the escape character itself so user
// keywords match literally instead of acting as patterns.
func EscapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
