// cmd/historian is an asynchronous consumer that pops audit records from the
// Redis queue and persists them to PostgreSQL.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/nadav-o/pokerface/internal/audit"
	"github.com/nadav-o/pokerface/internal/database"
)

type historian struct {
	rdb    *redis.Client
	db     *pgxpool.Pool
	queue  string
	logger *logrus.Logger
}

func (h *historian) run(ctx context.Context) {
	for {
		// BLPop with a short timeout so shutdown is handled promptly.
		res, err := h.rdb.BLPop(ctx, 3*time.Second, h.queue).Result()
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				h.logger.WithError(err).Error("BLPop failed")
			}
			continue
		}
		if len(res) < 2 {
			continue
		}

		var rec audit.Record
		if err := json.Unmarshal([]byte(res[1]), &rec); err != nil {
			h.logger.WithError(err).Warn("invalid audit record, dropping")
			continue
		}
		if err := h.persist(ctx, rec); err != nil {
			h.logger.WithError(err).WithField("id", rec.ID).Error("failed to persist audit record")
		}
	}
}

func (h *historian) persist(ctx context.Context, rec audit.Record) error {
	q := `INSERT INTO audit_log (id, text, recorded_at) VALUES ($1, $2, to_timestamp($3))
	      ON CONFLICT (id) DO NOTHING`
	return pgx.BeginTxFunc(ctx, h.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q, rec.ID, rec.Text, rec.Timestamp)
		return err
	})
}

func main() {
	logger := logrus.New()

	pool, err := database.Connect(context.Background())
	if err != nil {
		logger.Fatalf("database connect failed: %v", err)
	}
	defer pool.Close()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	queue := os.Getenv("AUDIT_QUEUE_NAME")
	if queue == "" {
		queue = audit.DefaultQueueName
	}

	h := &historian{
		rdb:    redis.NewClient(&redis.Options{Addr: addr}),
		db:     pool,
		queue:  queue,
		logger: logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.WithField("queue", queue).Info("historian started")
	h.run(ctx)
	logger.Info("historian shutting down")
}
