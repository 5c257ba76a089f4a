package services

import (
	"fmt"
	"testing"

	"hoodie-academy-service/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Squad{},
		&models.Course{},
		&models.CourseProgress{},
		&models.CourseCompletion{},
		&models.Bounty{},
		&models.BountySubmission{},
		&models.Exam{},
		&models.ExamSubmission{},
		&models.XPEvent{},
		&models.ActivityLog{},
		&models.DailyClaim{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, wallet string, totalXP int64) *models.User {
	t.Helper()
	user := &models.User{
		WalletAddress: wallet,
		TotalXP:       totalXP,
		Level:         LevelForXP(totalXP),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCourse(t *testing.T, db *gorm.DB, slug string, totalLessons int) *models.Course {
	t.Helper()
	course := &models.Course{
		ID:           uuid.NewString(),
		Slug:         slug,
		Title:        slug,
		TotalLessons: totalLessons,
		IsPublished:  true,
	}
	require.NoError(t, db.Create(course).Error)
	return course
}
