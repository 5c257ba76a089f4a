package workers

import (
	"context"
	"log"
	"time"

	"hoodie-academy-service/services"
)

// PollLeaderboard periodically rebuilds the Redis leaderboard from Postgres
// so write-through drift (missed increments, bans, admin corrections) heals
// on its own. A failed rebuild is retried on the next tick.
func PollLeaderboard(ctx context.Context, svc *services.LeaderboardService, interval time.Duration) {
	log.Println("Starting leaderboard rebuild polling...")

	// warm the cache immediately on boot
	if err := svc.RebuildCache(ctx); err != nil {
		log.Printf("❌ Initial leaderboard rebuild failed: %v", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Leaderboard polling stopped.")
			return
		case <-ticker.C:
			if err := svc.RebuildCache(ctx); err != nil {
				log.Printf("❌ Leaderboard rebuild failed: %v", err)
				continue
			}
		}
	}
}
