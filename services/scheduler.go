package services

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartMaintenanceScheduler runs the background upkeep jobs: the nightly
// progress-repair sweep and the periodic refresh of stale industry insights.
func StartMaintenanceScheduler(progress *ProgressService, careers *CareerService) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Nightly: reconcile the progress ledger against its source rows.
	_, _ = sched.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			fixes, err := progress.RepairProgress(ctx)
			if err != nil {
				log.Printf("[Scheduler] Progress repair failed: %v", err)
				return
			}
			log.Printf("[Scheduler] Progress repair done: %d fixes", len(fixes))
		}),
	)

	// Daily: regenerate industry insights that passed their refresh deadline.
	if careers != nil {
		_, _ = sched.NewJob(
			gocron.DurationJob(24*time.Hour),
			gocron.NewTask(func() {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
				defer cancel()
				if err := careers.RefreshStaleInsights(ctx); err != nil {
					log.Printf("[Scheduler] Insight refresh failed: %v", err)
				}
			}),
		)
	}
}
