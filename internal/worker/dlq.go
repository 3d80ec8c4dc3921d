package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Jobs that fail every retry are parked in a per-queue Redis list
// ("dlq:" + source queue) so an operator can inspect and replay them by hand.

const dlqPrefix = "dlq:"

type dlqEntry struct {
	SourceQueue string          `json:"source_queue"`
	JobType     string          `json:"job_type"`
	Payload     json.RawMessage `json:"payload"`
	Reason      string          `json:"reason"`
	Attempts    int             `json:"attempts"`
	FailedAt    time.Time       `json:"failed_at"`
}

// SendToDLQ parks an exhausted job. Best-effort: a Redis failure here is
// logged, not propagated, since the job is already lost to the pool.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue, jobType string, payload json.RawMessage, reason string, attempts int) {
	entry := dlqEntry{
		SourceQueue: queue,
		JobType:     jobType,
		Payload:     payload,
		Reason:      reason,
		Attempts:    attempts,
		FailedAt:    time.Now().UTC(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: marshal failed")
		return
	}
	if err := rdb.LPush(ctx, dlqPrefix+queue, data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: push failed")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("job_type", jobType).
		Str("reason", reason).
		Int("attempts", attempts).
		Msg("job parked in dead letter queue")
}

// DLQDepths reports the entry count of every queue's DLQ, for the health
// endpoint. Errors per queue are swallowed; a missing list reads as zero.
func DLQDepths(ctx context.Context, rdb *redis.Client) map[string]int64 {
	depths := make(map[string]int64, 3)
	for _, q := range []string{QueueStockAlert, QueueEmail, QueueReceipt} {
		n, err := rdb.LLen(ctx, dlqPrefix+q).Result()
		if err != nil {
			continue
		}
		depths[q] = n
	}
	return depths
}
