package visual

import (
	"sync"
	"time"
)

// DefaultGuideDelay is how long the car seat guide waits after the first
// mention before it is published.
const DefaultGuideDelay = 10 * time.Second

// GuideTrigger publishes the baby car seat guide a fixed delay after a car
// seat is first mentioned. It fires at most once until Reset.
type GuideTrigger struct {
	mu        sync.Mutex
	delay     time.Duration
	guide     Content
	publish   func(Content)
	timer     *time.Timer
	mentioned bool
	fired     bool
	afterFunc func(time.Duration, func()) *time.Timer
}

// NewGuideTrigger creates a trigger that calls publish with guide. A zero
// delay uses DefaultGuideDelay.
func NewGuideTrigger(guide Content, delay time.Duration, publish func(Content)) *GuideTrigger {
	if delay <= 0 {
		delay = DefaultGuideDelay
	}
	return &GuideTrigger{
		delay:     delay,
		guide:     guide,
		publish:   publish,
		afterFunc: time.AfterFunc,
	}
}

// Observe inspects a new message and arms the timer on the first car seat
// mention. It reports whether the timer was armed by this call.
func (g *GuideTrigger) Observe(message string) bool {
	if !MentionsCarSeat(message) {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.mentioned || g.fired {
		return false
	}
	g.mentioned = true
	g.timer = g.afterFunc(g.delay, g.fire)
	return true
}

func (g *GuideTrigger) fire() {
	g.mu.Lock()
	if g.fired || !g.mentioned {
		g.mu.Unlock()
		return
	}
	g.fired = true
	g.timer = nil
	publish := g.publish
	g.mu.Unlock()

	if publish != nil {
		publish(cloneContent(g.guide))
	}
}

// Fired reports whether the guide has been published.
func (g *GuideTrigger) Fired() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fired
}

// Pending reports whether the timer is armed.
func (g *GuideTrigger) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.timer != nil
}

// Cancel stops a pending timer. A guide that already fired stays fired; an
// unfired one can be armed again by a later mention.
func (g *GuideTrigger) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	if !g.fired {
		g.mentioned = false
	}
}

// Reset cancels a pending timer and allows the guide to fire again.
func (g *GuideTrigger) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	g.mentioned = false
	g.fired = false
}
