package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShouldAutoSync(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	// 从未同步过
	assert.True(t, ShouldAutoSync(nil, now))

	recent := now.Add(-6 * time.Hour)
	assert.False(t, ShouldAutoSync(&recent, now))

	old := now.Add(-13 * time.Hour)
	assert.True(t, ShouldAutoSync(&old, now))

	exact := now.Add(-12 * time.Hour)
	assert.True(t, ShouldAutoSync(&exact, now))
}
