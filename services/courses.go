package services

import (
	"fmt"

	"hoodie-academy-service/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type CourseService struct {
	DB *gorm.DB
}

func NewCourseService(db *gorm.DB) *CourseService {
	return &CourseService{DB: db}
}

// ListCourses returns published, non-hidden courses. A squad filter keeps
// squad-gated courses out of other squads' catalogs (open courses always
// show). includeHidden is for admins.
func (s *CourseService) ListCourses(squadID string, includeHidden bool) ([]models.Course, error) {
	q := s.DB.Order("created_at ASC")
	if !includeHidden {
		q = q.Where("is_published = ? AND is_hidden = ?", true, false)
	}
	if squadID != "" {
		q = q.Where("squad_id IS NULL OR squad_id = ?", squadID)
	}
	var courses []models.Course
	err := q.Find(&courses).Error
	return courses, err
}

// GetCourse fetches a course by slug.
func (s *CourseService) GetCourse(courseSlug string) (*models.Course, error) {
	var course models.Course
	if err := s.DB.Where("slug = ?", courseSlug).First(&course).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: course %q", ErrNotFound, courseSlug)
		}
		return nil, err
	}
	return &course, nil
}

// CreateCourse creates admin-authored content; the slug is derived from the
// title when not supplied. Courses with a future publish_at stay unpublished
// until the content scheduler flips them.
func (s *CourseService) CreateCourse(c *models.Course) (*models.Course, error) {
	if c.Title == "" {
		return nil, validationf("title is required")
	}
	if c.TotalLessons < 0 {
		return nil, validationf("total_lessons must be >= 0")
	}
	c.ID = uuid.NewString()
	if c.Slug == "" {
		c.Slug = slug.Make(c.Title)
	}
	if err := s.DB.Create(c).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return nil, fmt.Errorf("%w: course slug %q already exists", ErrConflict, c.Slug)
		}
		return nil, err
	}
	return c, nil
}

// UpdateCourse applies partial admin edits.
func (s *CourseService) UpdateCourse(courseSlug string, updates map[string]interface{}) (*models.Course, error) {
	course, err := s.GetCourse(courseSlug)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return course, nil
	}
	if err := s.DB.Model(course).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetCourse(courseSlug)
}

// CompletionsForWallet lists the courses a wallet has finished.
func (s *CourseService) CompletionsForWallet(walletAddress string) ([]models.CourseCompletion, error) {
	var rows []models.CourseCompletion
	err := s.DB.Where("wallet_address = ?", walletAddress).
		Order("completed_at DESC").
		Find(&rows).Error
	return rows, err
}
