package services

import (
	"fmt"
	"log"
	"math"
	"time"

	"hoodie-academy-service/cache"
	"hoodie-academy-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExamService struct {
	DB       *gorm.DB
	XP       *XPService
	Activity *ActivityService
}

func NewExamService(db *gorm.DB, c *cache.Client) *ExamService {
	return &ExamService{
		DB:       db,
		XP:       NewXPService(db, c),
		Activity: NewActivityService(db),
	}
}

// ExamSubmitResult is what the submit endpoint returns: the stored attempt
// plus the XP outcome when the exam auto-approves.
type ExamSubmitResult struct {
	Submission *models.ExamSubmission `json:"submission"`
	Award      *AwardResult           `json:"award,omitempty"`
}

// GetExam fetches an exam config by its stable id.
func (s *ExamService) GetExam(examID string) (*models.Exam, error) {
	var exam models.Exam
	if err := s.DB.Where("id = ?", examID).First(&exam).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: exam %q", ErrNotFound, examID)
		}
		return nil, err
	}
	return &exam, nil
}

// Submit accepts an exam attempt. Preconditions, in order: the exam exists
// and is active; the wallet's squad passes any squad restriction; the attempt
// number (prior submissions + 1) is within attempts_allowed.
//
// The score is taken from the client when provided, else derived as
// round(100 * answered / total_questions). passed = score >= passing_score.
// Non-approval exams settle immediately: a pass awards xp_reward (plus
// bonus_xp on a perfect 100) through the ledger and records the course
// completion. Approval exams park the attempt as pending for an admin.
func (s *ExamService) Submit(walletAddress, examID string, answers models.JSONMap, clientScore *int) (*ExamSubmitResult, error) {
	if walletAddress == "" {
		return nil, validationf("wallet_address is required")
	}
	if examID == "" {
		return nil, validationf("exam_id is required")
	}

	exam, err := s.GetExam(examID)
	if err != nil {
		return nil, err
	}
	if !exam.IsActive {
		return nil, fmt.Errorf("%w: exam %q is not active", ErrNotFound, examID)
	}

	user, err := ensureUser(s.DB, walletAddress)
	if err != nil {
		return nil, err
	}

	if exam.SquadRestricted {
		if user.SquadID == nil || !exam.AllowedSquads.Contains(*user.SquadID) {
			return nil, fmt.Errorf("%w: exam %q is restricted to squads %v", ErrForbidden, examID, exam.AllowedSquads)
		}
	}

	var priorAttempts int64
	if err := s.DB.Model(&models.ExamSubmission{}).
		Where("exam_id = ? AND wallet_address = ?", examID, walletAddress).
		Count(&priorAttempts).Error; err != nil {
		return nil, err
	}
	attemptNumber := int(priorAttempts) + 1
	if attemptNumber > exam.AttemptsAllowed {
		return nil, fmt.Errorf("%w: attempt %d exceeds the %d allowed for exam %q",
			ErrForbidden, attemptNumber, exam.AttemptsAllowed, examID)
	}

	score := deriveScore(answers, clientScore, exam.TotalQuestions)
	passed := score >= exam.PassingScore

	submission := models.ExamSubmission{
		ID:            uuid.NewString(),
		ExamID:        examID,
		WalletAddress: walletAddress,
		Answers:       answers,
		Score:         score,
		Passed:        passed,
		Status:        models.SubmissionPending,
		AttemptNumber: attemptNumber,
	}

	result := &ExamSubmitResult{}

	if !exam.RequiresApproval {
		// auto-graded path: settle the attempt immediately
		if passed {
			submission.Status = models.SubmissionApproved
		} else {
			submission.Status = models.SubmissionRejected
		}
	}

	if err := s.DB.Create(&submission).Error; err != nil {
		return nil, err
	}

	if !exam.RequiresApproval && passed {
		award, err := s.settlePass(exam, &submission)
		if err != nil {
			return nil, err
		}
		result.Award = award
	}

	result.Submission = &submission
	log.Printf("📝 Exam attempt: %s on %s → score=%d passed=%t status=%s (attempt %d/%d)",
		walletAddress, examID, score, passed, submission.Status, attemptNumber, exam.AttemptsAllowed)
	return result, nil
}

// deriveScore trusts a client-supplied score when present; the fallback is
// answered/total. Server-side answer-key grading is a known gap carried over
// from the original behavior.
func deriveScore(answers models.JSONMap, clientScore *int, totalQuestions int) int {
	if clientScore != nil {
		return clampScore(*clientScore)
	}
	total := totalQuestions
	if total <= 0 {
		total = len(answers)
	}
	if total == 0 {
		return 0
	}
	return clampScore(int(math.Round(100 * float64(len(answers)) / float64(total))))
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// settlePass credits the exam reward and records course completion. The
// ledger reference is the exam id, so a wallet is credited at most once per
// exam no matter how many passing attempts or approval replays arrive.
func (s *ExamService) settlePass(exam *models.Exam, submission *models.ExamSubmission) (*AwardResult, error) {
	xp := exam.XPReward
	if submission.Score == 100 {
		xp += exam.BonusXP
	}

	var award *AwardResult
	if xp > 0 {
		var err error
		award, err = s.XP.Award(submission.WalletAddress, xp, models.XPEventExam, exam.ID,
			fmt.Sprintf("exam %s score %d", exam.ID, submission.Score))
		if err != nil {
			return nil, err
		}
		if !award.AlreadyAwarded {
			submission.XPAwarded = xp
		}
	}

	recordCompletion(s.DB, submission.WalletAddress, exam.CourseSlug, "exam")

	if submission.XPAwarded > 0 {
		if err := s.DB.Model(submission).Update("xp_awarded", submission.XPAwarded).Error; err != nil {
			return nil, err
		}
	}
	return award, nil
}

// ApproveSubmission settles a pending approval-gated attempt. Terminal: a
// submission that already left pending is rejected with a conflict. XP and
// course completion are the same idempotent writes as the auto-graded path;
// the activity log write is best-effort and never rolls back the approval.
func (s *ExamService) ApproveSubmission(submissionID, adminWallet string) (*ExamSubmitResult, error) {
	submission, exam, err := s.loadPending(submissionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	submission.Status = models.SubmissionApproved
	submission.ReviewedBy = &adminWallet
	submission.ReviewedAt = &now
	if err := s.DB.Save(submission).Error; err != nil {
		return nil, err
	}

	result := &ExamSubmitResult{Submission: submission}
	if submission.Passed {
		award, err := s.settlePass(exam, submission)
		if err != nil {
			return nil, err
		}
		result.Award = award
	}

	s.Activity.Log(submission.WalletAddress, "exam_approved", models.JSONMap{
		"exam_id":       exam.ID,
		"submission_id": submission.ID,
		"score":         submission.Score,
		"approved_by":   adminWallet,
	})
	return result, nil
}

// RejectSubmission marks a pending attempt rejected. No XP, no completion.
func (s *ExamService) RejectSubmission(submissionID, adminWallet, reason string) (*models.ExamSubmission, error) {
	submission, exam, err := s.loadPending(submissionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	submission.Status = models.SubmissionRejected
	submission.ReviewedBy = &adminWallet
	submission.ReviewedAt = &now
	if err := s.DB.Save(submission).Error; err != nil {
		return nil, err
	}

	s.Activity.Log(submission.WalletAddress, "exam_rejected", models.JSONMap{
		"exam_id":       exam.ID,
		"submission_id": submission.ID,
		"reason":        reason,
		"rejected_by":   adminWallet,
	})
	return submission, nil
}

func (s *ExamService) loadPending(submissionID string) (*models.ExamSubmission, *models.Exam, error) {
	if submissionID == "" {
		return nil, nil, validationf("submission_id is required")
	}
	var submission models.ExamSubmission
	if err := s.DB.Where("id = ?", submissionID).First(&submission).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, fmt.Errorf("%w: submission %q", ErrNotFound, submissionID)
		}
		return nil, nil, err
	}
	if submission.Status != models.SubmissionPending {
		return nil, nil, fmt.Errorf("%w: submission %q already %s", ErrConflict, submissionID, submission.Status)
	}
	exam, err := s.GetExam(submission.ExamID)
	if err != nil {
		return nil, nil, err
	}
	return &submission, exam, nil
}

// PendingSubmissions lists attempts awaiting admin review.
func (s *ExamService) PendingSubmissions(limit int) ([]models.ExamSubmission, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	var rows []models.ExamSubmission
	err := s.DB.Where("status = ?", models.SubmissionPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// SubmissionsForWallet lists a wallet's attempts, newest first.
func (s *ExamService) SubmissionsForWallet(walletAddress string, limit int) ([]models.ExamSubmission, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	var rows []models.ExamSubmission
	err := s.DB.Where("wallet_address = ?", walletAddress).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
