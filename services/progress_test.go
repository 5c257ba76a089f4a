package services

import (
	"testing"

	"hoodie-academy-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionPercentage(t *testing.T) {
	data := models.LessonData{
		{Index: 0, Status: models.LessonCompleted},
		{Index: 1, Status: models.LessonUnlocked},
		{Index: 2, Status: models.LessonLocked},
	}
	assert.Equal(t, 33, CompletionPercentage(data, 3))

	data[1].Status = models.LessonCompleted
	assert.Equal(t, 67, CompletionPercentage(data, 3))

	assert.Equal(t, 25, CompletionPercentage(data[:1], 4))
	assert.Equal(t, 0, CompletionPercentage(nil, 0))
}

func TestUpdateLessonMergePreservesSiblings(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressService(db, nil)
	seedCourse(t, db, "nft-mastery", 4)

	prog, err := svc.UpdateLesson("wallet-1", "nft-mastery", 0, models.LessonCompleted)
	require.NoError(t, err)
	assert.Equal(t, 25, prog.CompletionPercentage)

	prog, err = svc.UpdateLesson("wallet-1", "nft-mastery", 1, models.LessonUnlocked)
	require.NoError(t, err)
	require.Len(t, prog.LessonData, 2)
	assert.Equal(t, models.LessonCompleted, prog.LessonData[0].Status, "lesson 0 must be untouched")
	assert.Equal(t, models.LessonUnlocked, prog.LessonData[1].Status)
	assert.Equal(t, 25, prog.CompletionPercentage)

	prog, err = svc.UpdateLesson("wallet-1", "nft-mastery", 1, models.LessonCompleted)
	require.NoError(t, err)
	assert.Equal(t, 50, prog.CompletionPercentage)
}

func TestUpdateLessonIgnoresBackwardTransition(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressService(db, nil)
	seedCourse(t, db, "nft-mastery", 2)

	_, err := svc.UpdateLesson("wallet-1", "nft-mastery", 0, models.LessonCompleted)
	require.NoError(t, err)

	prog, err := svc.UpdateLesson("wallet-1", "nft-mastery", 0, models.LessonUnlocked)
	require.NoError(t, err)
	assert.Equal(t, models.LessonCompleted, prog.LessonData[0].Status)
	assert.Equal(t, 50, prog.CompletionPercentage)
}

func TestUpdateLessonValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressService(db, nil)
	seedCourse(t, db, "nft-mastery", 2)

	_, err := svc.UpdateLesson("wallet-1", "nft-mastery", 0, "bogus")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateLesson("wallet-1", "nft-mastery", -1, models.LessonUnlocked)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateLesson("wallet-1", "no-such-course", 0, models.LessonUnlocked)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFullCompletionRecordsCompletedAt(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressService(db, nil)
	seedCourse(t, db, "nft-mastery", 2)

	_, err := svc.UpdateLesson("wallet-1", "nft-mastery", 0, models.LessonCompleted)
	require.NoError(t, err)
	prog, err := svc.UpdateLesson("wallet-1", "nft-mastery", 1, models.LessonCompleted)
	require.NoError(t, err)

	assert.Equal(t, 100, prog.CompletionPercentage)
	require.NotNil(t, prog.CompletedAt)
	firstCompletion := *prog.CompletedAt

	var completions int64
	require.NoError(t, db.Model(&models.CourseCompletion{}).
		Where("wallet_address = ? AND course_slug = ?", "wallet-1", "nft-mastery").
		Count(&completions).Error)
	assert.Equal(t, int64(1), completions)

	// replaying the final lesson keeps the original completion time and row
	prog, err = svc.UpdateLesson("wallet-1", "nft-mastery", 1, models.LessonCompleted)
	require.NoError(t, err)
	assert.Equal(t, firstCompletion.Unix(), prog.CompletedAt.Unix())
	require.NoError(t, db.Model(&models.CourseCompletion{}).
		Where("wallet_address = ? AND course_slug = ?", "wallet-1", "nft-mastery").
		Count(&completions).Error)
	assert.Equal(t, int64(1), completions)
}

func TestReplaceLessons(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressService(db, nil)
	seedCourse(t, db, "nft-mastery", 3)

	prog, err := svc.ReplaceLessons("wallet-1", "nft-mastery", models.LessonData{
		{Index: 0, Status: models.LessonCompleted},
		{Index: 1, Status: models.LessonCompleted},
		{Index: 2, Status: models.LessonUnlocked},
	})
	require.NoError(t, err)
	assert.Equal(t, 67, prog.CompletionPercentage)

	_, err = svc.ReplaceLessons("wallet-1", "nft-mastery", models.LessonData{
		{Index: 0, Status: "bogus"},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestResetDeletesProgress(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressService(db, nil)
	seedCourse(t, db, "nft-mastery", 2)

	_, err := svc.UpdateLesson("wallet-1", "nft-mastery", 0, models.LessonCompleted)
	require.NoError(t, err)

	require.NoError(t, svc.Reset("wallet-1", "nft-mastery"))

	_, err = svc.Get("wallet-1", "nft-mastery")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Reset("wallet-1", "nft-mastery"), ErrNotFound)
}
