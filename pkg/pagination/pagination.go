package pagination

// Listing endpoints paginate with a 1-based page number and a page size.
const (
	// DefaultLimit is the shared page size when a limit is not provided.
	// Storefront and admin listings both use it so the two surfaces agree.
	DefaultLimit = 9
	// MaxLimit caps how many rows any listing query can request.
	MaxLimit = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Normalize clamps the page to >= 1 and the limit into [1, MaxLimit],
// substituting DefaultLimit when none was provided.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset returns the number of rows to skip for the normalized params.
func (p Params) Offset() int {
	n := p.Normalize()
	return n.Limit * (n.Page - 1)
}

// PageCount returns ceil(total/limit), never less than 1 so an empty result
// set still renders a single (empty) page.
func PageCount(total int64, limit int) int {
	if limit <= 0 {
		limit = DefaultLimit
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	if pages < 1 {
		return 1
	}
	return pages
}
