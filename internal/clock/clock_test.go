package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystem_ReturnsUTC(t *testing.T) {
	assert.Equal(t, time.UTC, System().Now().Location())
}

func TestFake(t *testing.T) {
	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.FixedZone("CET", 3600))
	f := NewFake(start)

	assert.True(t, f.Now().Equal(start))
	assert.Equal(t, time.UTC, f.Now().Location())

	f.Advance(90 * time.Second)
	assert.Equal(t, start.Add(90*time.Second).UTC(), f.Now())

	f.Set(start)
	assert.True(t, f.Now().Equal(start))
}
