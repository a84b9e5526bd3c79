package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"blogcore/pkg/pagination"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name                            string
		page, limit                     int
		wantPage, wantLimit, wantOffset int
	}{
		{"defaults", 0, 0, 1, 10, 0},
		{"negative values", -3, -1, 1, 10, 0},
		{"limit capped", 2, 500, 2, 100, 100},
		{"regular", 3, 20, 3, 20, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit, offset := pagination.Normalize(tt.page, tt.limit)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestNewPage(t *testing.T) {
	p := pagination.NewPage([]string{"a", "b"}, 21, 1, 10)
	assert.Equal(t, 3, p.TotalPages)
	assert.Len(t, p.Items, 2)

	empty := pagination.NewPage[string](nil, 0, 1, 10)
	assert.NotNil(t, empty.Items)
	assert.Zero(t, empty.TotalPages)
}
