package notify

import (
	"context"
	"log"
	"time"
)

// Job is a unit of fire-and-forget side-effect work (push fan-out, email).
type Job func(ctx context.Context)

// Dispatcher runs jobs on a small fixed pool of goroutines so that
// notification delivery never blocks the request that triggered it.
type Dispatcher struct {
	jobs chan Job
}

// NewDispatcher starts numWorkers goroutines consuming the job queue.
// Each worker blocks on the channel; zero CPU when idle.
func NewDispatcher(ctx context.Context, numWorkers int) *Dispatcher {
	d := &Dispatcher{jobs: make(chan Job, 256)}
	for i := 0; i < numWorkers; i++ {
		go d.run(ctx, i)
	}
	log.Printf("notify: dispatcher started with %d workers", numWorkers)
	return d
}

// Enqueue schedules a job. When the queue is full the job is dropped;
// notifications are best-effort and must not block the caller.
func (d *Dispatcher) Enqueue(job Job) {
	select {
	case d.jobs <- job:
	default:
		log.Println("notify: job queue full, dropping job")
	}
}

func (d *Dispatcher) run(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Printf("notify: worker %d shutting down", id)
			return
		case job := <-d.jobs:
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			job(jobCtx)
			cancel()
		}
	}
}
