package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCompleted(t *testing.T) {
	tests := []struct {
		name     string
		progress int
		duration int
		want     bool
	}{
		{"exactly at threshold", 540, 600, true},
		{"just above threshold", 550, 600, true},
		{"just below threshold", 539, 600, false},
		{"full listen", 600, 600, true},
		{"progress beyond duration", 700, 600, true},
		{"zero progress", 0, 600, false},
		{"zero duration never completes", 10000, 0, false},
		{"negative duration never completes", 100, -1, false},
		{"short episode", 54, 60, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCompleted(tt.progress, tt.duration))
		})
	}
}
