package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockAdvanceFiresDueTimers(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMock(start)

	var fired []string
	c.AfterFunc(time.Second, func() { fired = append(fired, "1s") })
	c.AfterFunc(3*time.Second, func() { fired = append(fired, "3s") })

	c.Advance(500 * time.Millisecond)
	assert.Empty(t, fired)
	assert.Equal(t, 2, c.Pending())

	c.Advance(500 * time.Millisecond)
	assert.Equal(t, []string{"1s"}, fired)

	c.Advance(5 * time.Second)
	assert.Equal(t, []string{"1s", "3s"}, fired)
	assert.Equal(t, start.Add(6*time.Second), c.Now())
	assert.Zero(t, c.Pending())
}

func TestMockStop(t *testing.T) {
	c := NewMock(time.Now())

	called := false
	timer := c.AfterFunc(time.Second, func() { called = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	c.Advance(2 * time.Second)
	assert.False(t, called)
}

func TestMockCallbackCanArmTimer(t *testing.T) {
	c := NewMock(time.Now())

	count := 0
	c.AfterFunc(time.Second, func() {
		count++
		c.AfterFunc(time.Second, func() { count++ })
	})

	c.Advance(time.Second)
	assert.Equal(t, 1, count)

	c.Advance(time.Second)
	assert.Equal(t, 2, count)
}

func TestRealAfterFunc(t *testing.T) {
	done := make(chan struct{})
	Real{}.AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}
