package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList stores a list of squad ids as a JSON column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported string list column type %T", value)
	}
}

// Contains reports whether s is in the list.
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

// JSONMap holds opaque client-submitted structures (exam answers, log metadata).
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	return string(b), err
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported json map column type %T", value)
	}
}

// Exam gates a course's completion. Identified by a stable string id
// (e.g., "nft-mastery-final") rather than a uuid so course content can
// reference it.
type Exam struct {
	ID         string `gorm:"primaryKey;type:varchar(128)" json:"id"`
	CourseSlug string `gorm:"index;not null" json:"course_slug"`
	Title      string `gorm:"not null" json:"title"`

	PassingScore    int   `gorm:"not null;default:70" json:"passing_score"` // 0-100
	AttemptsAllowed int   `gorm:"not null;default:3" json:"attempts_allowed"`
	TotalQuestions  int   `gorm:"default:0" json:"total_questions"`
	XPReward        int64 `gorm:"not null;default:0" json:"xp_reward"`
	BonusXP         int64 `gorm:"default:0" json:"bonus_xp"` // extra for a perfect score

	RequiresApproval bool       `gorm:"default:false" json:"requires_approval"`
	SquadRestricted  bool       `gorm:"default:false" json:"squad_restricted"`
	AllowedSquads    StringList `gorm:"type:jsonb" json:"allowed_squads,omitempty"`
	IsActive         bool       `gorm:"default:true;index" json:"is_active"`

	Timestamps
}

// ExamSubmission is one graded attempt.
type ExamSubmission struct {
	ID            string `gorm:"primaryKey;type:uuid" json:"id"`
	ExamID        string `gorm:"index;not null" json:"exam_id"`
	WalletAddress string `gorm:"index;not null" json:"wallet_address"`

	Answers JSONMap `gorm:"type:jsonb" json:"answers"`
	Score   int     `gorm:"not null" json:"score"` // 0-100
	Passed  bool    `gorm:"not null" json:"passed"`

	Status        SubmissionStatus `gorm:"type:varchar(16);default:'pending';index" json:"status"`
	AttemptNumber int              `gorm:"not null" json:"attempt_number"` // prior submissions + 1
	XPAwarded     int64            `gorm:"default:0" json:"xp_awarded"`
	ReviewedBy    *string          `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time       `json:"reviewed_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
