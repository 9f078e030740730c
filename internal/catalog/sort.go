package catalog

import "gorm.io/gorm"

// Sort identifies one of the supported listing orders.
type Sort string

const (
	SortNewest    Sort = "newest"
	SortOldest    Sort = "oldest"
	SortPriceAsc  Sort = "price-asc"
	SortPriceDesc Sort = "price-desc"
	SortNameAsc   Sort = "name-asc"
	SortNameDesc  Sort = "name-desc"
)

// ParseSort maps a sort token to a Sort. Unknown or empty tokens fall back to
// SortNewest rather than erroring so stale links keep working.
func ParseSort(token string) Sort {
	switch Sort(token) {
	case SortNewest, SortOldest, SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc:
		return Sort(token)
	default:
		return SortNewest
	}
}

// Apply appends the ORDER BY clauses for the sort. Every ordering ends with
// an id tiebreak so records with equal keys keep a deterministic, stable
// relative order across pages.
func (s Sort) Apply(qb *gorm.DB) *gorm.DB {
	switch s {
	case SortOldest:
		qb = qb.Order("created_at ASC")
	case SortPriceAsc:
		qb = qb.Order("price ASC")
	case SortPriceDesc:
		qb = qb.Order("price DESC")
	case SortNameAsc:
		qb = qb.Order("name ASC")
	case SortNameDesc:
		qb = qb.Order("name DESC")
	default:
		qb = qb.Order("created_at DESC")
	}
	return qb.Order("id ASC")
}
