// AngelaMos | 2026
// database_test.go

package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJitteredDurationStaysWithinBounds(t *testing.T) {
	base := time.Hour

	for range 100 {
		got := jitteredDuration(base)
		assert.GreaterOrEqual(t, got, base)
		assert.LessOrEqual(t, got, base+base/7)
	}
}

// A zero or negative lifetime must pass through untouched instead of
// panicking; zero is how database/sql spells "never recycle".
func TestJitteredDurationNonPositiveBase(t *testing.T) {
	assert.Equal(t, time.Duration(0), jitteredDuration(0))
	assert.Equal(t, -time.Second, jitteredDuration(-time.Second))
}

func TestJitteredDurationTinyBase(t *testing.T) {
	got := jitteredDuration(3 * time.Nanosecond)
	assert.GreaterOrEqual(t, got, 3*time.Nanosecond)
}
