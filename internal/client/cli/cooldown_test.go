package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time           { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCooldown(period time.Duration) (*cooldown, *fakeClock) {
	clk := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := newCooldown(period)
	c.now = clk.now
	return c, clk
}

func TestCooldown_FreshAllowsResend(t *testing.T) {
	c, _ := newTestCooldown(time.Minute)
	assert.Zero(t, c.Remaining())
}

func TestCooldown_RestartWaitsFullPeriod(t *testing.T) {
	c, clk := newTestCooldown(time.Minute)
	c.Restart()

	assert.Equal(t, time.Minute, c.Remaining())

	clk.advance(30 * time.Second)
	assert.Equal(t, 30*time.Second, c.Remaining())

	clk.advance(29*time.Second + 500*time.Millisecond)
	assert.Equal(t, time.Second, c.Remaining(), "partial seconds round up")

	clk.advance(time.Second)
	assert.Zero(t, c.Remaining())
}

func TestCooldown_ClearAllowsResend(t *testing.T) {
	c, _ := newTestCooldown(time.Minute)
	c.Restart()
	c.Clear()
	assert.Zero(t, c.Remaining())
}

func TestCooldown_Disabled(t *testing.T) {
	c, _ := newTestCooldown(0)
	c.Restart()
	assert.Zero(t, c.Remaining())
}
