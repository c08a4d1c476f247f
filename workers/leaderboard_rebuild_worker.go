// workers/leaderboard_rebuild_worker.go
package workers

import (
	"context"
	"log"
	"time"

	"cyberquest-backend/services"
)

// LeaderboardRebuildWorker periodically re-seeds the redis sorted set from the
// users table. The normal path keeps the set current incrementally; the
// rebuild heals anything lost to redis restarts or missed best-effort updates.
type LeaderboardRebuildWorker struct {
	leaderboard *services.LeaderboardService
	interval    time.Duration
}

func NewLeaderboardRebuildWorker(leaderboard *services.LeaderboardService, interval time.Duration) *LeaderboardRebuildWorker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &LeaderboardRebuildWorker{leaderboard: leaderboard, interval: interval}
}

func (w *LeaderboardRebuildWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Leaderboard Rebuild Worker…")
	go w.run(ctx)
}

func (w *LeaderboardRebuildWorker) run(ctx context.Context) {
	// Seed immediately so the leaderboard is warm before the first tick.
	if err := w.leaderboard.Rebuild(ctx); err != nil {
		log.Printf("⚠️ Initial leaderboard rebuild failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.leaderboard.Rebuild(ctx); err != nil {
				log.Printf("❌ Leaderboard rebuild failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Leaderboard Rebuild Worker stopped")
			return
		}
	}
}
