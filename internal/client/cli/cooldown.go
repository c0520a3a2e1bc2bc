package cli

import (
	"time"

	"golang.org/x/time/rate"
)

// cooldown gates code resends: one token that refills after period.
type cooldown struct {
	period  time.Duration
	limiter *rate.Limiter
	now     func() time.Time
}

func newCooldown(period time.Duration) *cooldown {
	c := &cooldown{period: period, now: time.Now}
	c.Clear()
	return c
}

// Restart empties the token; the next resend waits a full period.
func (c *cooldown) Restart() {
	c.Clear()
	c.limiter.AllowN(c.now(), 1)
}

// Clear makes a resend possible right away.
func (c *cooldown) Clear() {
	if c.period <= 0 {
		c.limiter = rate.NewLimiter(rate.Inf, 1)
		return
	}
	c.limiter = rate.NewLimiter(rate.Every(c.period), 1)
}

// Remaining is how long until a resend is allowed; zero means now.
func (c *cooldown) Remaining() time.Duration {
	if c.period <= 0 {
		return 0
	}
	missing := 1 - c.limiter.TokensAt(c.now())
	if missing <= 0 {
		return 0
	}
	d := time.Duration(missing * float64(c.period)).Round(time.Millisecond)
	// whole seconds, rounded up
	return (d + time.Second - 1) / time.Second * time.Second
}
