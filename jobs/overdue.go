// jobs/overdue.go
package jobs

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"instrument-inventory/db"
	"instrument-inventory/logger"
)

const sweepLockKey = "jobs:overdue_sweep:lock"

// OverdueSweeper periodically flags approved requests past their due
// date. The sweep itself is idempotent; the redis lease just keeps
// multiple replicas from doing the same work.
type OverdueSweeper struct {
	repo     *db.Repo
	rdb      *redis.Client
	interval time.Duration
}

func NewOverdueSweeper(repo *db.Repo, rdb *redis.Client, interval time.Duration) *OverdueSweeper {
	return &OverdueSweeper{repo: repo, rdb: rdb, interval: interval}
}

// Start runs the sweeper until ctx is cancelled.
func (s *OverdueSweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.RunOnce(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunOnce(ctx)
			}
		}
	}()
	logger.Info("overdue sweeper started", zap.Duration("interval", s.interval))
}

// RunOnce performs a single sweep if the lease is free.
func (s *OverdueSweeper) RunOnce(ctx context.Context) {
	ok, err := s.rdb.SetNX(ctx, sweepLockKey, "1", s.interval/2).Result()
	if err != nil {
		logger.Warn("overdue sweep lease check failed", zap.Error(err))
		return
	}
	if !ok {
		return
	}

	swept, err := s.repo.SweepOverdue(ctx)
	if err != nil {
		logger.Error("overdue sweep failed", zap.Error(err))
		return
	}
	if len(swept) > 0 {
		logger.Info("overdue sweep complete", zap.Int("swept", len(swept)))
		_, err = s.repo.RecordActivity(ctx, db.RecordActivityInput{
			Action:      "overdue_swept",
			Description: "periodic sweep marked requests overdue",
		})
		if err != nil {
			logger.Warn("overdue sweep activity record failed", zap.Error(err))
		}
	}
}
