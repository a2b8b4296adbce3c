// Package progress renders a single-line liveness spinner while an external
// command runs.
package progress

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const DefaultInterval = 200 * time.Millisecond

var DefaultFrames = []string{"|", "/", "-", `\`}

// Indicator cycles through Frames on one terminal line. A nil Out disables it.
type Indicator struct {
	Out      io.Writer
	Interval time.Duration
	Frames   []string
}

// New returns an indicator with the default frames and interval.
func New(w io.Writer) *Indicator {
	return &Indicator{Out: w}
}

func (i *Indicator) enabled() bool {
	return i != nil && i.Out != nil
}

func (i *Indicator) interval() time.Duration {
	if i.Interval > 0 {
		return i.Interval
	}
	return DefaultInterval
}

func (i *Indicator) frames() []string {
	if len(i.Frames) > 0 {
		return i.Frames
	}
	return DefaultFrames
}

// Run draws frames until ctx is done, then blanks the line exactly once.
// It always returns nil; the error result lets it run inside an errgroup.
func (i *Indicator) Run(ctx context.Context, label string) error {
	if !i.enabled() {
		<-ctx.Done()
		return nil
	}

	frames := i.frames()
	ticker := time.NewTicker(i.interval())
	defer ticker.Stop()

	width := 0
	draw := func(n int) {
		line := fmt.Sprintf("%s %s", label, frames[n%len(frames)])
		if len(line) > width {
			width = len(line)
		}
		_, _ = fmt.Fprintf(i.Out, "\r%s", line)
	}

	n := 0
	draw(n)
	for {
		select {
		case <-ctx.Done():
			_, _ = fmt.Fprintf(i.Out, "\r%s\r", strings.Repeat(" ", width))
			return nil
		case <-ticker.C:
			n++
			draw(n)
		}
	}
}

// Handle owns one running indicator.
type Handle struct {
	cancel context.CancelFunc
	group  *errgroup.Group
	once   sync.Once
}

// Start runs the indicator in the background until Stop is called.
func (i *Indicator) Start(ctx context.Context, label string) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, group: new(errgroup.Group)}
	h.group.Go(func() error {
		return i.Run(ctx, label)
	})
	return h
}

// Stop signals the indicator and blocks until its line has been cleared.
// Calls after the first return immediately.
func (h *Handle) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() {
		h.cancel()
		_ = h.group.Wait()
	})
}
