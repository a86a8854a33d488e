package assistrunner

import (
	"context"
	"errors"
	"sync"

	"valuator/internal/logger"
	"valuator/internal/metrics"
	"valuator/internal/ports"
)

var ErrQueueFull = errors.New("assist queue full")

// Processor answers one deferred gateway job.
type Processor interface {
	Process(ctx context.Context, job ports.AssistJob) error
}

// Queue is a bounded in-process buffer of deferred jobs.
type Queue struct {
	jobs chan ports.AssistJob
}

func NewQueue(size int) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{jobs: make(chan ports.AssistJob, size)}
}

// Enqueue never blocks; a full queue returns ErrQueueFull so the caller can
// answer inline instead.
func (q *Queue) Enqueue(ctx context.Context, job ports.AssistJob) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case q.jobs <- job:
		metrics.AssistQueueDepth.Inc()
		return nil
	default:
		return ErrQueueFull
	}
}

// Run starts concurrency workers that drain q and blocks until ctx is done
// and every worker has returned. Jobs still buffered at shutdown are
// dropped; their sessions keep the user message without a reply.
func Run(ctx context.Context, q *Queue, processor Processor, concurrency int, log logger.Logger) {
	if concurrency < 1 {
		return
	}

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			wlog := log.With(logger.Fields{"worker": idx})
			for {
				select {
				case <-ctx.Done():
					return
				case job := <-q.jobs:
					metrics.AssistQueueDepth.Dec()
					if err := processor.Process(ctx, job); err != nil {
						wlog.WithError(err).Error("assist job failed", logger.Fields{
							"session": job.SessionID,
							"seq":     job.Seq,
						})
					}
				}
			}
		}(i)
	}
	wg.Wait()

	if n := len(q.jobs); n > 0 {
		log.Warn("assist workers stopped with queued jobs", logger.Fields{"dropped": n})
	}
}
