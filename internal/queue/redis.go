// internal/queue/redis.go
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyPrefix = "orderbot"

	// leaseTTL is how long a claimed job stays invisible before a crashed
	// worker's claim is handed back to the queue.
	leaseTTL = 2 * time.Minute
)

// claimScript atomically moves the first due job from the scheduled set to
// the processing set. Claiming through Lua keeps two workers from pulling
// the same job.
var claimScript = redis.NewScript(`
local due = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, 1)
if #due == 0 then
	return false
end
redis.call('ZREM', KEYS[1], due[1])
redis.call('ZADD', KEYS[2], ARGV[2], due[1])
return due[1]
`)

// RedisQueue is a durable delayed-job queue on Redis sorted sets. Jobs sit
// in a per-channel scheduled set scored by ready-time and survive process
// restarts; claimed jobs move to a processing set with a lease expiry.
type RedisQueue struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewRedisQueue(rdb *redis.Client, logger *zap.Logger) *RedisQueue {
	return &RedisQueue{rdb: rdb, logger: logger}
}

func scheduledKey(ch Channel) string  { return fmt.Sprintf("%s:queue:%s", keyPrefix, ch) }
func processingKey(ch Channel) string { return fmt.Sprintf("%s:queue:%s:processing", keyPrefix, ch) }
func jobKey(id string) string         { return fmt.Sprintf("%s:job:%s", keyPrefix, id) }
func pendingKey(ch Channel, orderID int64) string {
	return fmt.Sprintf("%s:pending:%s:%d", keyPrefix, ch, orderID)
}

func (q *RedisQueue) Enqueue(ctx context.Context, job *Job, delay time.Duration) error {
	now := time.Now()
	job.EnqueuedAt = now
	job.ReadyAt = now.Add(delay)

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	pipe := q.rdb.TxPipeline()
	pipe.Set(ctx, jobKey(job.ID), payload, 0)
	pipe.ZAdd(ctx, scheduledKey(job.Channel), redis.Z{
		Score:  float64(job.ReadyAt.UnixMilli()),
		Member: job.ID,
	})
	pipe.Incr(ctx, pendingKey(job.Channel, job.OrderID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("enqueue %s job for order %d: %w", job.Channel, job.OrderID, err)
	}

	q.logger.Debug("job enqueued",
		zap.String("job_id", job.ID),
		zap.String("channel", string(job.Channel)),
		zap.Int64("order_id", job.OrderID),
		zap.Duration("delay", delay),
	)
	return nil
}

func (q *RedisQueue) Dequeue(ctx context.Context, ch Channel) (*Job, error) {
	if err := q.reclaimExpired(ctx, ch); err != nil {
		q.logger.Warn("lease reclaim failed", zap.String("channel", string(ch)), zap.Error(err))
	}

	now := time.Now()
	res, err := claimScript.Run(ctx, q.rdb,
		[]string{scheduledKey(ch), processingKey(ch)},
		now.UnixMilli(), now.Add(leaseTTL).UnixMilli(),
	).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("claim %s job: %w", ch, err)
	}

	jobID, ok := res.(string)
	if !ok {
		return nil, nil
	}

	raw, err := q.rdb.Get(ctx, jobKey(jobID)).Result()
	if err == redis.Nil {
		// Payload vanished; drop the orphaned claim.
		q.rdb.ZRem(ctx, processingKey(ch), jobID)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load job %s: %w", jobID, err)
	}

	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return nil, fmt.Errorf("unmarshal job %s: %w", jobID, err)
	}

	job.Attempt++
	if payload, err := json.Marshal(&job); err == nil {
		q.rdb.Set(ctx, jobKey(job.ID), payload, 0)
	}
	return &job, nil
}

func (q *RedisQueue) Complete(ctx context.Context, job *Job) error {
	pipe := q.rdb.TxPipeline()
	pipe.ZRem(ctx, processingKey(job.Channel), job.ID)
	pipe.Del(ctx, jobKey(job.ID))
	q.decrPending(ctx, pipe, job)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("complete job %s: %w", job.ID, err)
	}
	return nil
}

func (q *RedisQueue) Fail(ctx context.Context, job *Job) (bool, error) {
	if job.Attempt >= job.Policy.MaxAttempts {
		// Out of attempts: abandon. The message audit trail is the
		// only record; there is no dead-letter escalation.
		if err := q.Complete(ctx, job); err != nil {
			return false, err
		}
		q.logger.Warn("job abandoned after retries",
			zap.String("job_id", job.ID),
			zap.String("channel", string(job.Channel)),
			zap.Int64("order_id", job.OrderID),
			zap.Int("attempts", job.Attempt),
		)
		return false, nil
	}

	backoff := job.Policy.Backoff(job.Attempt + 1)
	job.ReadyAt = time.Now().Add(backoff)

	payload, err := json.Marshal(job)
	if err != nil {
		return false, fmt.Errorf("marshal job: %w", err)
	}

	pipe := q.rdb.TxPipeline()
	pipe.Set(ctx, jobKey(job.ID), payload, 0)
	pipe.ZRem(ctx, processingKey(job.Channel), job.ID)
	pipe.ZAdd(ctx, scheduledKey(job.Channel), redis.Z{
		Score:  float64(job.ReadyAt.UnixMilli()),
		Member: job.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("reschedule job %s: %w", job.ID, err)
	}

	q.logger.Info("job rescheduled",
		zap.String("job_id", job.ID),
		zap.String("channel", string(job.Channel)),
		zap.Int("attempt", job.Attempt),
		zap.Duration("backoff", backoff),
	)
	return true, nil
}

func (q *RedisQueue) HasPending(ctx context.Context, ch Channel, orderID int64) (bool, error) {
	n, err := q.rdb.Get(ctx, pendingKey(ch, orderID)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("pending marker for order %d: %w", orderID, err)
	}
	return n > 0, nil
}

// reclaimExpired hands jobs whose lease lapsed back to the scheduled set.
func (q *RedisQueue) reclaimExpired(ctx context.Context, ch Channel) error {
	now := float64(time.Now().UnixMilli())
	expired, err := q.rdb.ZRangeByScore(ctx, processingKey(ch), &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%f", now),
	}).Result()
	if err != nil {
		return err
	}

	for _, jobID := range expired {
		pipe := q.rdb.TxPipeline()
		pipe.ZRem(ctx, processingKey(ch), jobID)
		pipe.ZAdd(ctx, scheduledKey(ch), redis.Z{Score: now, Member: jobID})
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}
		q.logger.Warn("expired lease reclaimed", zap.String("job_id", jobID), zap.String("channel", string(ch)))
	}
	return nil
}

func (q *RedisQueue) decrPending(ctx context.Context, pipe redis.Pipeliner, job *Job) {
	key := pendingKey(job.Channel, job.OrderID)
	pipe.Decr(ctx, key)
	// Expire the marker eventually so abandoned counters don't linger.
	pipe.Expire(ctx, key, 24*time.Hour)
}
