package services

import (
	"testing"

	"hoodie-academy-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCourseSlug(t *testing.T) {
	db := newTestDB(t)
	svc := NewCourseService(db)

	course, err := svc.CreateCourse(&models.Course{Title: "NFT Mastery 101", TotalLessons: 6})
	require.NoError(t, err)
	assert.Equal(t, "nft-mastery-101", course.Slug)

	_, err = svc.CreateCourse(&models.Course{Title: "NFT Mastery 101"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.CreateCourse(&models.Course{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListCoursesFiltering(t *testing.T) {
	db := newTestDB(t)
	svc := NewCourseService(db)

	open := seedCourse(t, db, "open-course", 4)
	_ = open

	decoders := "hoodie-decoders"
	gated := &models.Course{Slug: "decoder-course", Title: "Decoder Course", SquadID: &decoders, IsPublished: true}
	gated.ID = "gated-id"
	require.NoError(t, db.Create(gated).Error)

	draft := &models.Course{Slug: "draft-course", Title: "Draft Course"}
	draft.ID = "draft-id"
	require.NoError(t, db.Create(draft).Error)

	// open catalog: published + visible only
	courses, err := svc.ListCourses("", false)
	require.NoError(t, err)
	assert.Len(t, courses, 2)

	// a raider sees only open courses
	courses, err = svc.ListCourses("hoodie-raiders", false)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "open-course", courses[0].Slug)

	// a decoder sees open plus their gated course
	courses, err = svc.ListCourses("hoodie-decoders", false)
	require.NoError(t, err)
	assert.Len(t, courses, 2)

	// admin view includes drafts
	courses, err = svc.ListCourses("", true)
	require.NoError(t, err)
	assert.Len(t, courses, 3)
}

func TestUpdateCourse(t *testing.T) {
	db := newTestDB(t)
	svc := NewCourseService(db)
	seedCourse(t, db, "nft-mastery", 4)

	course, err := svc.UpdateCourse("nft-mastery", map[string]interface{}{
		"total_lessons": 8,
		"is_hidden":     true,
	})
	require.NoError(t, err)
	assert.Equal(t, 8, course.TotalLessons)
	assert.True(t, course.IsHidden)

	_, err = svc.UpdateCourse("missing", map[string]interface{}{"is_hidden": true})
	assert.ErrorIs(t, err, ErrNotFound)
}
