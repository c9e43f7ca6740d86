package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sekolahku/presensi-backend/internal/calendar"
	"github.com/sekolahku/presensi-backend/internal/config"
	"github.com/sekolahku/presensi-backend/internal/repository"
)

// RecapWorker periodically snapshots today's per-class attendance
// tallies into Redis so the dashboard reads a cache instead of running
// the aggregate query on every request.
type RecapWorker struct {
	repo     *repository.DashboardRepository
	rdb      *redis.Client
	interval time.Duration
	log      zerolog.Logger
}

// NewRecapWorker creates a new RecapWorker.
func NewRecapWorker(repo *repository.DashboardRepository, rdb *redis.Client, interval time.Duration, log zerolog.Logger) *RecapWorker {
	return &RecapWorker{
		repo:     repo,
		rdb:      rdb,
		interval: interval,
		log:      log.With().Str("component", "recap_worker").Logger(),
	}
}

// Start begins the snapshot loop. Call in a goroutine.
func (w *RecapWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("Worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Warm the cache immediately instead of waiting a full interval.
	w.snapshot(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			w.snapshot(ctx)
		}
	}
}

func (w *RecapWorker) snapshot(ctx context.Context) {
	today := calendar.Day(time.Now())

	byClass, err := w.repo.GetClassStatusCounts(ctx, today)
	if err != nil {
		w.log.Error().Err(err).Msg("Recap query failed")
		return
	}

	payload, err := json.Marshal(byClass)
	if err != nil {
		w.log.Error().Err(err).Msg("Recap marshal failed")
		return
	}

	// Expire well after the next refresh so a slow tick never leaves a gap.
	key := config.CacheKey.DailyRecapKey(today)
	if err := w.rdb.Set(ctx, key, payload, 3*w.interval).Err(); err != nil {
		w.log.Error().Err(err).Str("key", key).Msg("Recap store failed")
		return
	}

	w.log.Debug().Int("classes", len(byClass)).Msg("Recap snapshot stored")
}
