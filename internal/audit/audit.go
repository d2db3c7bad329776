// internal/audit/audit.go
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Logger is the audit sink consumed by the account and game layers. Writes
// are best effort: a failing sink must never fail the operation being
// audited.
type Logger interface {
	WriteLine(text string)
}

// Record is the JSON shape pushed onto the audit queue.
type Record struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	Timestamp int64     `json:"timestamp"`
}

// DefaultQueueName is the Redis list audit lines are pushed to.
var DefaultQueueName = "pokerface_audit"

// QueueLogger pushes audit records onto a Redis list for an out-of-process
// consumer. Push failures are logged and swallowed.
type QueueLogger struct {
	rdb    *redis.Client
	queue  string
	logger *logrus.Logger
}

// ConnectQueue initializes a QueueLogger from environment variables:
//   - REDIS_ADDR (default "localhost:6379")
//   - AUDIT_QUEUE_NAME (default DefaultQueueName)
func ConnectQueue(logger *logrus.Logger) (*QueueLogger, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	queue := os.Getenv("AUDIT_QUEUE_NAME")
	if queue == "" {
		queue = DefaultQueueName
	}
	return &QueueLogger{rdb: rdb, queue: queue, logger: logger}, nil
}

func (q *QueueLogger) WriteLine(text string) {
	rec := Record{ID: uuid.New(), Text: text, Timestamp: time.Now().Unix()}
	data, err := json.Marshal(rec)
	if err != nil {
		q.logger.WithError(err).Warn("audit: failed to marshal record")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := q.rdb.RPush(ctx, q.queue, data).Err(); err != nil {
		q.logger.WithError(err).WithField("queue", q.queue).Warn("audit: failed to push record")
	}
}

// LogrusLogger writes audit lines to a logrus logger. Used as a fallback when
// no Redis queue is configured.
type LogrusLogger struct {
	Logger *logrus.Logger
}

func (l *LogrusLogger) WriteLine(text string) {
	l.Logger.WithField("audit", true).Info(text)
}

// Nop discards all audit lines.
type Nop struct{}

func (Nop) WriteLine(string) {}
