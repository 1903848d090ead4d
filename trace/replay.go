package trace

import (
	"context"
	"io"

	"github.com/sarchlab/hbsim/tracker"
)

// A Handler consumes the events of a trace.
type Handler interface {
	OnAccess(a tracker.Access) tracker.AccessResult
	OnEnter(routine string) bool
}

// Progress reports how far a replay has gone.
type Progress struct {
	Events    uint64
	BytesRead uint64
}

// ReplayOptions tunes a replay.
type ReplayOptions struct {
	// ProgressInterval is the number of events between progress reports and
	// context checks. Zero means 4096.
	ProgressInterval uint64

	OnProgress func(p Progress)
}

type countingReader struct {
	r io.Reader
	n uint64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += uint64(n)

	return n, err
}

// Replay delivers every event of the trace to the handler. It stops at the
// first malformed line or when the context is cancelled.
func Replay(
	ctx context.Context,
	r io.Reader,
	h Handler,
	opts ReplayOptions,
) (Progress, error) {
	interval := opts.ProgressInterval
	if interval == 0 {
		interval = 4096
	}

	counter := &countingReader{r: r}
	reader := NewReader(counter)
	progress := Progress{}

	for reader.Next() {
		e := reader.Event()

		switch e.Kind {
		case EventAccess:
			h.OnAccess(e.Access)
		case EventEnter:
			h.OnEnter(e.Routine)
		}

		progress.Events++

		if progress.Events%interval == 0 {
			progress.BytesRead = counter.n

			if opts.OnProgress != nil {
				opts.OnProgress(progress)
			}

			err := ctx.Err()
			if err != nil {
				return progress, err
			}
		}
	}

	progress.BytesRead = counter.n

	if opts.OnProgress != nil {
		opts.OnProgress(progress)
	}

	return progress, reader.Err()
}
