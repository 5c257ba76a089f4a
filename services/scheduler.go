// services/scheduler.go
package services

import (
	"log"
	"time"

	"hoodie-academy-service/models"

	"github.com/go-co-op/gocron/v2"
)

// StartPublishScheduler flips scheduled content live once publish_at passes:
// courses become published, bounties become visible. Runs every minute.
func (s *CourseService) StartPublishScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			now := time.Now()

			var courses []models.Course
			if err := s.DB.Where("is_published = ? AND publish_at IS NOT NULL AND publish_at <= ?", false, now).
				Find(&courses).Error; err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}
			for _, c := range courses {
				c.IsPublished = true
				c.PublishAt = nil
				if err := s.DB.Save(&c).Error; err != nil {
					log.Printf("[Scheduler] Failed to publish course %s: %v", c.Slug, err)
				} else {
					log.Printf("✅ Auto-published course: %s", c.Slug)
				}
			}

			var bounties []models.Bounty
			if err := s.DB.Where("hidden = ? AND publish_at IS NOT NULL AND publish_at <= ?", true, now).
				Find(&bounties).Error; err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}
			for _, b := range bounties {
				b.Hidden = false
				b.PublishAt = nil
				if err := s.DB.Save(&b).Error; err != nil {
					log.Printf("[Scheduler] Failed to publish bounty %s: %v", b.Slug, err)
				} else {
					log.Printf("✅ Auto-published bounty: %s", b.Slug)
				}
			}
		}),
	)
}
