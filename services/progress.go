package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"hoodie-academy-service/cache"
	"hoodie-academy-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const progressCacheTTL = 60 * time.Second

type ProgressService struct {
	DB    *gorm.DB
	Cache *cache.Client // optional read cache keyed by (wallet, course)
}

func NewProgressService(db *gorm.DB, c *cache.Client) *ProgressService {
	return &ProgressService{DB: db, Cache: c}
}

// lessonRank orders the 3-state machine so merges never move a lesson
// backward: locked < unlocked < completed.
func lessonRank(s models.LessonStatus) int {
	switch s {
	case models.LessonLocked:
		return 0
	case models.LessonUnlocked:
		return 1
	case models.LessonCompleted:
		return 2
	default:
		return -1
	}
}

// CompletionPercentage derives round(100 * completed / total). There is no
// independent write path for this value.
func CompletionPercentage(data models.LessonData, totalLessons int) int {
	if totalLessons <= 0 {
		totalLessons = len(data)
	}
	if totalLessons == 0 {
		return 0
	}
	completed := 0
	for _, e := range data {
		if e.Status == models.LessonCompleted {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(totalLessons)))
}

// Get returns a wallet's progress for one course, serving from the Redis
// read cache when warm.
func (s *ProgressService) Get(walletAddress, courseSlug string) (*models.CourseProgress, error) {
	if walletAddress == "" || courseSlug == "" {
		return nil, validationf("wallet_address and course_slug are required")
	}

	if s.Cache != nil {
		var cached models.CourseProgress
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		found, err := s.Cache.GetResource(ctx, "progress", walletAddress, courseSlug, &cached)
		cancel()
		if err == nil && found {
			return &cached, nil
		}
	}

	var prog models.CourseProgress
	err := s.DB.Where("wallet_address = ? AND course_slug = ?", walletAddress, courseSlug).
		First(&prog).Error
	if err == gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("%w: no progress for %s/%s", ErrNotFound, walletAddress, courseSlug)
	}
	if err != nil {
		return nil, err
	}

	s.cacheWrite(&prog)
	return &prog, nil
}

// ListForWallet returns all progress rows for a wallet.
func (s *ProgressService) ListForWallet(walletAddress string) ([]models.CourseProgress, error) {
	var rows []models.CourseProgress
	err := s.DB.Where("wallet_address = ?", walletAddress).
		Order("updated_at DESC").
		Find(&rows).Error
	return rows, err
}

// UpdateLesson merges one (index, status) pair into a wallet's progress.
// All other lesson entries are preserved; an unknown index is appended.
// Backward transitions (completed to unlocked etc.) are ignored; the only
// way back is the admin reset.
func (s *ProgressService) UpdateLesson(walletAddress, courseSlug string, lessonIndex int, status models.LessonStatus) (*models.CourseProgress, error) {
	if lessonRank(status) < 0 {
		return nil, validationf("invalid lesson status %q", status)
	}
	if lessonIndex < 0 {
		return nil, validationf("lesson index must be >= 0")
	}
	return s.mutate(walletAddress, courseSlug, func(data models.LessonData) (models.LessonData, error) {
		for i, e := range data {
			if e.Index == lessonIndex {
				if lessonRank(status) > lessonRank(e.Status) {
					data[i].Status = status
				}
				return data, nil
			}
		}
		data = append(data, models.LessonEntry{Index: lessonIndex, Status: status})
		sort.Slice(data, func(i, j int) bool { return data[i].Index < data[j].Index })
		return data, nil
	})
}

// ReplaceLessons overwrites the full lesson_data array (client bulk sync).
func (s *ProgressService) ReplaceLessons(walletAddress, courseSlug string, data models.LessonData) (*models.CourseProgress, error) {
	for _, e := range data {
		if lessonRank(e.Status) < 0 {
			return nil, validationf("invalid lesson status %q at index %d", e.Status, e.Index)
		}
	}
	return s.mutate(walletAddress, courseSlug, func(models.LessonData) (models.LessonData, error) {
		return data, nil
	})
}

func (s *ProgressService) mutate(walletAddress, courseSlug string, apply func(models.LessonData) (models.LessonData, error)) (*models.CourseProgress, error) {
	if walletAddress == "" || courseSlug == "" {
		return nil, validationf("wallet_address and course_slug are required")
	}

	var course models.Course
	if err := s.DB.Where("slug = ?", courseSlug).First(&course).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: course %q", ErrNotFound, courseSlug)
		}
		return nil, err
	}

	var result *models.CourseProgress
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := ensureUser(tx, walletAddress); err != nil {
			return err
		}

		var prog models.CourseProgress
		err := tx.Where("wallet_address = ? AND course_slug = ?", walletAddress, courseSlug).
			First(&prog).Error
		if err == gorm.ErrRecordNotFound {
			prog = models.CourseProgress{
				ID:            uuid.NewString(),
				WalletAddress: walletAddress,
				CourseSlug:    courseSlug,
				LessonData:    models.LessonData{},
			}
		} else if err != nil {
			return err
		}

		data, err := apply(prog.LessonData)
		if err != nil {
			return err
		}
		prog.LessonData = data
		prog.CompletionPercentage = CompletionPercentage(data, course.TotalLessons)
		if prog.CompletionPercentage >= 100 && prog.CompletedAt == nil {
			now := time.Now()
			prog.CompletedAt = &now
			recordCompletion(tx, walletAddress, courseSlug, "progress")
		}

		if err := tx.Save(&prog).Error; err != nil {
			return err
		}
		result = &prog
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(walletAddress, courseSlug)
	s.cacheWrite(result)
	return result, nil
}

// Reset deletes a wallet's progress row for a course (admin only). The only
// backward transition in the lesson state machine.
func (s *ProgressService) Reset(walletAddress, courseSlug string) error {
	if walletAddress == "" || courseSlug == "" {
		return validationf("wallet_address and course_slug are required")
	}
	res := s.DB.Where("wallet_address = ? AND course_slug = ?", walletAddress, courseSlug).
		Delete(&models.CourseProgress{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: no progress for %s/%s", ErrNotFound, walletAddress, courseSlug)
	}
	s.invalidate(walletAddress, courseSlug)
	log.Printf("🧹 Progress reset: %s/%s", walletAddress, courseSlug)
	return nil
}

// recordCompletion inserts the idempotent wallet+course completion record
// inside the caller's transaction. ON CONFLICT DO NOTHING keeps replays safe
// without aborting the surrounding transaction.
func recordCompletion(tx *gorm.DB, walletAddress, courseSlug, source string) {
	completion := models.CourseCompletion{
		ID:            uuid.NewString(),
		WalletAddress: walletAddress,
		CourseSlug:    courseSlug,
		Source:        source,
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&completion).Error; err != nil {
		log.Printf("⚠️  course completion insert failed for %s/%s: %v", walletAddress, courseSlug, err)
	}
}

func (s *ProgressService) cacheWrite(prog *models.CourseProgress) {
	if s.Cache == nil || prog == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = s.Cache.SetResource(ctx, "progress", prog.WalletAddress, prog.CourseSlug, prog, progressCacheTTL)
}

func (s *ProgressService) invalidate(walletAddress, courseSlug string) {
	if s.Cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = s.Cache.InvalidateResource(ctx, "progress", walletAddress, courseSlug)
}
