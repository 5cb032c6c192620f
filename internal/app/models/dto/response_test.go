package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginationInfo(t *testing.T) {
	tests := []struct {
		name       string
		totalItems int64
		page       int
		size       int
		wantPage   int
		wantPages  int
	}{
		{"first page of many", 25, 1, 10, 1, 3},
		{"last partial page", 25, 3, 10, 3, 3},
		{"page beyond the end clamps", 25, 9, 10, 3, 3},
		{"empty list is one page", 0, 1, 10, 1, 1},
		{"invalid size falls back", 25, 1, 0, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewPaginationInfo(tt.totalItems, tt.page, tt.size)
			assert.Equal(t, tt.wantPage, info.CurrentPage)
			assert.Equal(t, tt.wantPages, info.TotalPages)
			assert.Equal(t, tt.totalItems, info.TotalItems)
		})
	}
}
