package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teampulse/teampulse/internal/pagination"
)

func TestNew_TotalPages(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		total      int
		pageSize   int
		totalPages int
	}{
		{"exact multiple", 10, 5, 2},
		{"remainder rounds up", 12, 5, 3},
		{"one over", 11, 5, 3},
		{"single partial page", 3, 20, 1},
		{"empty result set", 0, 20, 0},
		{"single item", 1, 1, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			page := pagination.New([]string{}, 1, tc.pageSize, tc.total)
			assert.Equal(t, tc.totalPages, page.TotalPages)
			assert.Equal(t, tc.total, page.TotalCount)
		})
	}
}

func TestNew_EchoesWindow(t *testing.T) {
	t.Parallel()

	page := pagination.New([]int{1, 2, 3, 4, 5}, 2, 5, 12)

	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 5, page.PageSize)
	assert.Equal(t, 12, page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Items, 5)
}

func TestNew_NilItems(t *testing.T) {
	t.Parallel()

	page := pagination.New[int](nil, 1, 20, 0)

	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.TotalPages)
}
