package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPrettyFormat(t *testing.T) {
	tests := []struct {
		format string
		want   bool
	}{
		{"text", true},
		{"console", true},
		{"Console", true},
		{"TEXT", true},
		{"json", false},
		{"", false},
		{"logfmt", false},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPrettyFormat(tt.format))
		})
	}
}
