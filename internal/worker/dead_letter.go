package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Cleanup jobs that keep failing are parked on a side list instead of
// being retried forever. Nothing reads them back automatically; the
// health endpoint reports how many are waiting.
const deadLetterKey = QueueFileCleanup + ":dead"

// deadJob records why a cleanup job was taken out of rotation.
type deadJob struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Reason   string          `json:"reason"`
	DiedAt   time.Time       `json:"died_at"`
	Attempts int             `json:"attempts"`
}

func parkDeadJob(ctx context.Context, rdb *redis.Client, job Job, reason string) {
	entry := deadJob{
		Type:     job.Type,
		Payload:  job.Payload,
		Reason:   reason,
		DiedAt:   time.Now().UTC(),
		Attempts: job.Attempts,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("type", job.Type).Msg("cannot encode dead job")
		return
	}
	if err := rdb.LPush(ctx, deadLetterKey, data).Err(); err != nil {
		log.Error().Err(err).Str("key", deadLetterKey).Msg("cannot park dead job")
		return
	}

	log.Warn().
		Str("type", job.Type).
		Str("reason", reason).
		Int("attempts", job.Attempts).
		Msg("cleanup job parked on dead-letter list")
}

// DeadJobCount returns how many cleanup jobs are parked.
func DeadJobCount(ctx context.Context, rdb *redis.Client) (int64, error) {
	return rdb.LLen(ctx, deadLetterKey).Result()
}
