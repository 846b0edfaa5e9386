package light

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cybre/remo-light/internal/clock"
)

func TestSettleTimerFiresAfterDelay(t *testing.T) {
	clk := clock.NewMock(time.Now())
	s := newSettleTimer(clk)

	fired := 0
	s.Arm(time.Second, func() { fired++ })
	assert.True(t, s.Armed())

	clk.Advance(999 * time.Millisecond)
	assert.Zero(t, fired)

	clk.Advance(time.Millisecond)
	assert.Equal(t, 1, fired)
	assert.False(t, s.Armed())
}

func TestSettleTimerRearmReplaces(t *testing.T) {
	clk := clock.NewMock(time.Now())
	s := newSettleTimer(clk)

	var fired []string
	s.Arm(time.Second, func() { fired = append(fired, "first") })
	clk.Advance(500 * time.Millisecond)
	s.Arm(time.Second, func() { fired = append(fired, "second") })

	clk.Advance(600 * time.Millisecond)
	assert.Empty(t, fired)

	clk.Advance(400 * time.Millisecond)
	assert.Equal(t, []string{"second"}, fired)
	assert.Zero(t, clk.Pending())
}

func TestSettleTimerCancel(t *testing.T) {
	clk := clock.NewMock(time.Now())
	s := newSettleTimer(clk)

	fired := false
	s.Arm(time.Second, func() { fired = true })
	s.Cancel()

	clk.Advance(time.Hour)
	assert.False(t, fired)
	assert.False(t, s.Armed())

	// cancelling an idle timer is harmless
	s.Cancel()
}

func TestSettleTimerIgnoresStaleFire(t *testing.T) {
	s := newSettleTimer(clock.Real{})

	fired := make(chan string, 2)
	s.Arm(time.Hour, func() { fired <- "stale" })
	s.Arm(time.Millisecond, func() { fired <- "current" })

	select {
	case v := <-fired:
		assert.Equal(t, "current", v)
	case <-time.After(time.Second):
		t.Fatal("settle timer did not fire")
	}
}
