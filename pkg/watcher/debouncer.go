package watcher

import (
	"context"
	"time"

	"github.com/ritzau/ontology-explorer/pkg/logging"
)

// Debouncer merges bursts of change events into one, so a flurry of saves
// triggers a single reload. An event is emitted once input has been quiet for
// quietPeriod, or at the latest maxWait after the first event of a burst.
type Debouncer struct {
	input       <-chan ChangeEvent
	output      chan ChangeEvent
	quietPeriod time.Duration
	maxWait     time.Duration
}

// NewDebouncer creates a new event debouncer
func NewDebouncer(input <-chan ChangeEvent, quietPeriod, maxWait time.Duration) *Debouncer {
	return &Debouncer{
		input:       input,
		output:      make(chan ChangeEvent, 1),
		quietPeriod: quietPeriod,
		maxWait:     maxWait,
	}
}

// Start begins processing events with debouncing
func (d *Debouncer) Start(ctx context.Context) {
	go d.run(ctx)
}

func (d *Debouncer) run(ctx context.Context) {
	defer close(d.output)

	var (
		pending  *ChangeEvent
		merged   int
		quiet    = time.NewTimer(d.quietPeriod)
		deadline = time.NewTimer(d.maxWait)
	)
	quiet.Stop()
	deadline.Stop()

	flush := func() {
		if pending == nil {
			return
		}
		quiet.Stop()
		deadline.Stop()
		logging.Debug("flushing debounced change", "type", pending.Type.String(), "merged", merged)

		pending.Timestamp = time.Now()
		select {
		case d.output <- *pending:
		case <-ctx.Done():
		}
		pending = nil
		merged = 0
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-d.input:
			if !ok {
				flush()
				return
			}

			if pending == nil {
				pending = &ChangeEvent{}
				deadline.Reset(d.maxWait)
			}
			pending.Type = event.Type
			for _, p := range event.Paths {
				pending.Paths = appendUnique(pending.Paths, p)
			}
			merged++
			quiet.Reset(d.quietPeriod)

		case <-quiet.C:
			flush()

		case <-deadline.C:
			flush()
		}
	}
}

// Output returns the channel of debounced events
func (d *Debouncer) Output() <-chan ChangeEvent {
	return d.output
}
