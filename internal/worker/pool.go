package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/iskanderbentaleb/partenairex10/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueFileCleanup = "jobs:file_cleanup"

	maxAttempts = 3
)

// Job is the envelope pushed onto the cleanup queue.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// FileCleanupPayload names a stored invoice file to remove.
type FileCleanupPayload struct {
	StoredKey string `json:"stored_key"`
}

// Dispatcher enqueues cleanup jobs onto a Redis list consumed by the
// worker pool via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueFileCleanup schedules the removal of a stored invoice file.
func (d *Dispatcher) EnqueueFileCleanup(ctx context.Context, payload FileCleanupPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: "file_cleanup", Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, QueueFileCleanup, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines draining the cleanup
// queue. Each blocks on BRPOP, so an idle pool costs nothing.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, store *infra.InvoiceStore, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, store, i)
	}
	log.Info().Int("workers", numWorkers).Msg("cleanup worker pool started")
}

func runWorker(ctx context.Context, rdb *redis.Client, store *infra.InvoiceStore, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Int("worker", id).Msg("cleanup worker stopping")
			return
		default:
			// The 5s pop timeout bounds how long shutdown waits.
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueFileCleanup).Result()
			if err != nil || len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, store, result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, store *infra.InvoiceStore, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Err(err).Msg("discarding undecodable job")
		return
	}

	switch job.Type {
	case "file_cleanup":
		var payload FileCleanupPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			// A bad payload will never decode on retry.
			parkDeadJob(ctx, rdb, job, "bad payload: "+err.Error())
			return
		}
		if err := store.Delete(payload.StoredKey); err != nil {
			retryJob(ctx, rdb, job, err)
			return
		}
		log.Info().Str("stored_key", payload.StoredKey).Msg("invoice file removed")
	default:
		log.Warn().Str("type", job.Type).Msg("unknown job type dropped")
	}
}

// retryJob requeues a failed job until maxAttempts, then parks it.
func retryJob(ctx context.Context, rdb *redis.Client, job Job, cause error) {
	job.Attempts++
	if job.Attempts >= maxAttempts {
		parkDeadJob(ctx, rdb, job, cause.Error())
		return
	}
	encoded, err := json.Marshal(job)
	if err != nil {
		log.Error().Err(err).Msg("cannot re-encode job for retry")
		return
	}
	if err := rdb.LPush(ctx, QueueFileCleanup, encoded).Err(); err != nil {
		log.Error().Err(err).Msg("cannot requeue job")
	}
}
