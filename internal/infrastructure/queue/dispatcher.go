package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/aquiferlab/aquifer-console/internal/api/metrics"
	"github.com/aquiferlab/aquifer-console/internal/core/domain"
	"github.com/aquiferlab/aquifer-console/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Dispatcher routes run events to a fixed set of workers using consistent
// hashing on the simulation id, guaranteeing per-simulation event ordering.
type Dispatcher struct {
	workers []chan ports.RunEventInput
	service ports.RunEventService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.RunEventService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.RunEventInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.RunEventInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an event to the worker responsible for its simulation.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(event ports.RunEventInput) {
	idx := d.shardIndex(event.SimulationID)
	d.workers[idx] <- event
	metrics.RunEventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// EnqueueBatch enqueues multiple events preserving per-simulation ordering.
func (d *Dispatcher) EnqueueBatch(events []ports.RunEventInput) {
	for _, e := range events {
		d.Enqueue(e)
	}
}

// shardIndex maps a simulation id deterministically to a worker index.
func (d *Dispatcher) shardIndex(simulationID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(simulationID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.RunEventInput) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			start := time.Now()
			err := d.service.Process(ctx, event)
			metrics.RunEventsQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))
			if err != nil {
				metrics.RunEventsErrorsTotal.WithLabelValues(errorReason(err)).Inc()
				metrics.RunEventProcessingDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
				d.log.Error().Err(err).
					Str("simulation_id", event.SimulationID).
					Int("worker_id", id).
					Msg("run event processing failed")
				continue
			}
			metrics.RunEventsProcessedTotal.WithLabelValues(event.Status).Inc()
			metrics.RunEventProcessingDuration.WithLabelValues(event.Status).Observe(time.Since(start).Seconds())
		}
	}
}

// errorReason buckets processing failures for the errors counter.
func errorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrSimulationNotFound):
		return "simulation_not_found"
	default:
		return "update_failed"
	}
}
