package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors the handlers translate to HTTP statuses.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
)

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}

// SquadLockedError is returned when a wallet tries to switch squads while the
// 30-day lock window is still running. RemainingDays is what the client shows.
type SquadLockedError struct {
	CurrentSquad  string
	TargetSquad   string
	LockEndsAt    time.Time
	RemainingDays int
}

func (e *SquadLockedError) Error() string {
	return fmt.Sprintf("squad locked: %d day(s) remain before leaving %s", e.RemainingDays, e.CurrentSquad)
}

// AlreadyClaimedError is returned for a second daily claim in the same UTC day.
type AlreadyClaimedError struct {
	ClaimDay string
}

func (e *AlreadyClaimedError) Error() string {
	return fmt.Sprintf("daily XP already claimed for %s", e.ClaimDay)
}

// isDuplicateKeyErr matches unique-constraint violations across postgres and
// the sqlite test driver, since gorm.ErrDuplicatedKey translation is not
// guaranteed for every driver version.
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "constraint failed")
}
