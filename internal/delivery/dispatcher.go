package delivery

import (
	"context"
	"sync"

	"iwatcher/internal/logger"
)

type implDispatcher struct {
	sinks  []Sink
	logger logger.Logger
}

// NewDispatcher creates a Dispatcher over the given sinks.
func NewDispatcher(log logger.Logger, sinks ...Sink) Dispatcher {
	return &implDispatcher{sinks: sinks, logger: log}
}

// Deliver invokes every sink concurrently. A sink's failure never aborts its
// siblings; each result is captured in the returned outcomes, ordered to
// match the sink order.
func (d *implDispatcher) Deliver(ctx context.Context, req Request) []Outcome {
	outcomes := make([]Outcome, len(d.sinks))

	var wg sync.WaitGroup
	for i, sink := range d.sinks {
		wg.Add(1)
		go func(i int, sink Sink) {
			defer wg.Done()

			ref, err := sink.Deliver(ctx, req)
			if err != nil {
				d.logger.Error(ctx, "Delivery to %s failed for %s: %v", sink.Name(), req.FileName, err)
				outcomes[i] = Outcome{Sink: sink.Name(), Err: err}
				return
			}

			d.logger.Info(ctx, "Delivered %s to %s: %s", req.FileName, sink.Name(), ref)
			outcomes[i] = Outcome{Sink: sink.Name(), Success: true, Ref: ref}
		}(i, sink)
	}
	wg.Wait()

	return outcomes
}
