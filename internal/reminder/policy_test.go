package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlan(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		offset    time.Duration
		wantDelay time.Duration
		wantOK    bool
	}{
		{"due right now", 0, ImmediateBuffer, true},
		{"30s ahead clamps", 30 * time.Second, ImmediateBuffer, true},
		{"30s behind clamps", -30 * time.Second, ImmediateBuffer, true},
		{"31s ahead refused", 31 * time.Second, 0, false},
		{"59s ahead refused", 59 * time.Second, 0, false},
		{"60s ahead scheduled", 60 * time.Second, 60 * time.Second, true},
		{"90s ahead scheduled", 90 * time.Second, 90 * time.Second, true},
		{"a day ahead", 24 * time.Hour, 24 * time.Hour, true},
		{"long past refused", -31 * time.Second, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delay, ok := Plan(now, now.Add(tt.offset))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantDelay, delay)
			if ok {
				assert.Positive(t, delay)
			}
		})
	}
}
