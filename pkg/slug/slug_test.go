package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple", in: "Electronics", want: "electronics"},
		{name: "spacesToHyphens", in: "Home Decor", want: "home-decor"},
		{name: "stripsNonWord", in: "Home & Garden", want: "home-garden"},
		{name: "trimsAndCollapses", in: "  Clothes / Shoes  ", want: "clothes-shoes"},
		{name: "keepsDigits", in: "Top 10 Deals", want: "top-10-deals"},
		{name: "alreadyClean", in: "beauty-health", want: "beauty-health"},
		{name: "punctuationOnlyWordDropped", in: "Books!!!", want: "books"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Make(tc.in))
		})
	}
}
