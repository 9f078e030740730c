package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Params
		want Params
	}{
		{name: "defaults", in: Params{}, want: Params{Page: 1, Limit: DefaultLimit}},
		{name: "negativePage", in: Params{Page: -3, Limit: 5}, want: Params{Page: 1, Limit: 5}},
		{name: "limitCapped", in: Params{Page: 2, Limit: 500}, want: Params{Page: 2, Limit: MaxLimit}},
		{name: "passthrough", in: Params{Page: 4, Limit: 20}, want: Params{Page: 4, Limit: 20}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.Normalize())
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Params{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 10, Params{Page: 2, Limit: 10}.Offset())
	assert.Equal(t, 0, Params{Page: 0, Limit: 10}.Offset())
	assert.Equal(t, 18, Params{Page: 3, Limit: 9}.Offset())
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 1, PageCount(0, 10), "empty result sets still expose one page")
	assert.Equal(t, 1, PageCount(10, 10))
	assert.Equal(t, 2, PageCount(11, 10))
	assert.Equal(t, 3, PageCount(25, 10))
	assert.Equal(t, 1, PageCount(5, 0), "zero limit falls back to the default")
}
