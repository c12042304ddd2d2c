package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInt(t *testing.T) {
	assert.Equal(t, 42, ParseInt("42", 0))
	assert.Equal(t, 7, ParseInt("", 7))
	assert.Equal(t, 7, ParseInt("abc", 7))
	assert.Equal(t, -3, ParseInt("-3", 7))
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		limitStr   string
		offsetStr  string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", "", 20, 0},
		{"explicit values", "10", "30", 10, 30},
		{"limit clamped to max", "500", "0", 50, 0},
		{"zero limit gets default", "0", "0", 20, 0},
		{"negative limit gets default", "-5", "0", 20, 0},
		{"negative offset clamped", "10", "-1", 10, 0},
		{"garbage input", "abc", "xyz", 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := ParsePagination(tt.limitStr, tt.offsetStr, 20, 50)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}
