package notifstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"anoa.com/desainhub/pkg/notifstore"
)

func TestPageWindow(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		totalPages int
		want       []int
	}{
		{"no pages", 1, 0, nil},
		{"single page", 1, 1, []int{1}},
		{"all shown when five or fewer", 3, 5, []int{1, 2, 3, 4, 5}},
		{"start of long list", 1, 10, []int{1, 2, 3, 4, 5}},
		{"page three still pinned to start", 3, 10, []int{1, 2, 3, 4, 5}},
		{"middle is centered", 6, 10, []int{4, 5, 6, 7, 8}},
		{"near end pinned to end", 9, 10, []int{6, 7, 8, 9, 10}},
		{"last page", 10, 10, []int{6, 7, 8, 9, 10}},
		{"page clamped below one", 0, 10, []int{1, 2, 3, 4, 5}},
		{"page clamped above total", 42, 10, []int{6, 7, 8, 9, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, notifstore.PageWindow(tt.page, tt.totalPages))
		})
	}
}
