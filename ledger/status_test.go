package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusAt(t *testing.T) {
	start := int64(1000)
	end := int64(2000)

	tests := []struct {
		name     string
		now      int64
		expected Status
	}{
		{"well before start is draft", 500, StatusDraft},
		{"one second before start is draft", 999, StatusDraft},
		{"exactly at start is active", 1000, StatusActive},
		{"inside the window is active", 1500, StatusActive},
		{"exactly at end is active", 2000, StatusActive},
		{"one second after end is closed", 2001, StatusClosed},
		{"well after end is closed", 9000, StatusClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusAt(start, end, time.Unix(tt.now, 0)))
		})
	}
}
