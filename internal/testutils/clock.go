package testutils

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/jzx17/goresilience/pkg/types"
)

// NewMockClock creates a mock clock for testing
func NewMockClock(t testing.TB) *quartz.Mock {
	return quartz.NewMock(t)
}

// ClockWrapper wraps quartz.Mock to implement our Clock interface. Every
// timer it creates is announced on Timers so a test can wait until the code
// under test is blocked on a timer before advancing the mock.
type ClockWrapper struct {
	*quartz.Mock
	timers chan time.Duration

	mu      sync.Mutex
	created []*TimerWrapper
}

// NewClockWrapper creates a new ClockWrapper
func NewClockWrapper(mock *quartz.Mock) *ClockWrapper {
	return &ClockWrapper{Mock: mock, timers: make(chan time.Duration, 64)}
}

// Now returns the current time
func (c *ClockWrapper) Now() time.Time {
	return c.Mock.Now()
}

// Since returns the time elapsed since t
func (c *ClockWrapper) Since(t time.Time) time.Duration {
	return c.Mock.Since(t)
}

// NewTimer creates a new Timer
func (c *ClockWrapper) NewTimer(d time.Duration) types.Timer {
	timer := c.Mock.NewTimer(d)
	select {
	case c.timers <- d:
	default:
	}
	tw := &TimerWrapper{timer: timer}
	c.mu.Lock()
	c.created = append(c.created, tw)
	c.mu.Unlock()
	return tw
}

// Created returns every timer created so far, oldest first
func (c *ClockWrapper) Created() []*TimerWrapper {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*TimerWrapper(nil), c.created...)
}

// Timers delivers the duration of each timer as it is created
func (c *ClockWrapper) Timers() <-chan time.Duration {
	return c.timers
}

// WaitTimer blocks until the next timer is created and returns its duration
func (c *ClockWrapper) WaitTimer(t testing.TB) time.Duration {
	t.Helper()
	select {
	case d := <-c.timers:
		return d
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a timer to be created")
		return 0
	}
}

// AdvanceAndWait moves the mock forward by d and waits for fired timers
func (c *ClockWrapper) AdvanceAndWait(ctx context.Context, d time.Duration) {
	c.Mock.Advance(d).MustWait(ctx)
}

// TimerWrapper wraps quartz timer
type TimerWrapper struct {
	timer   *quartz.Timer
	stopped atomic.Bool
}

func (t *TimerWrapper) C() <-chan time.Time {
	return t.timer.C
}

func (t *TimerWrapper) Stop() bool {
	t.stopped.Store(true)
	return t.timer.Stop()
}

// Stopped reports whether Stop has been called on the timer
func (t *TimerWrapper) Stopped() bool {
	return t.stopped.Load()
}

func (t *TimerWrapper) Reset(d time.Duration) bool {
	return t.timer.Reset(d)
}
