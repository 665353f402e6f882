// Package timing measures wall-clock time around a render and reports it.
// It never cancels or otherwise influences the work being timed.
package timing

import (
	"fmt"
	"time"

	"github.com/HenrYxZ/experiments/pkg/core"
)

// Timer records the wall-clock duration between Start and Stop
type Timer struct {
	start   time.Time
	elapsed time.Duration
	now     func() time.Time
}

// NewTimer creates a stopped timer
func NewTimer() *Timer {
	return &Timer{now: time.Now}
}

// Start begins timing
func (t *Timer) Start() {
	t.start = t.now()
	t.elapsed = 0
}

// Stop ends timing and returns the elapsed duration
func (t *Timer) Stop() time.Duration {
	t.elapsed = t.now().Sub(t.start)
	return t.elapsed
}

// Elapsed returns the duration recorded by the last Stop
func (t *Timer) Elapsed() time.Duration {
	return t.elapsed
}

func (t *Timer) String() string {
	return fmt.Sprintf("Finished in %v (%s)", t.elapsed, Humanize(t.elapsed))
}

// Humanize formats a duration as HH:MM:SS, truncating fractional seconds
func Humanize(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	hours := secs / 3600
	minutes := (secs % 3600) / 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs%60)
}

// Measure runs fn, reports the elapsed time through logger and returns it
// together with fn's error
func Measure(logger core.Logger, fn func() error) (time.Duration, error) {
	timer := NewTimer()
	timer.Start()
	err := fn()
	timer.Stop()

	if logger != nil {
		logger.Printf("%s\n", timer)
	}
	return timer.Elapsed(), err
}
