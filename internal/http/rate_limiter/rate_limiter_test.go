package rate_limiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_BurstThenReject(t *testing.T) {
	l := New(1, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("10.0.0.1"), "request %d within burst", i+1)
	}
	assert.False(t, l.Allow("10.0.0.1"))

	// other clients have their own bucket
	assert.True(t, l.Allow("10.0.0.2"))
}

func TestLimiter_RemoveIdle(t *testing.T) {
	l := New(1, 1)
	l.GetVisitor("a")
	l.GetVisitor("b")

	l.mu.Lock()
	l.visitors["a"].lastSeen = time.Now().Add(-10 * time.Minute)
	l.mu.Unlock()

	l.removeIdle(time.Now())

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.visitors, "a")
	assert.Contains(t, l.visitors, "b")
}
