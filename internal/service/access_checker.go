package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/edu_platform/internal/model"
)

// AccessDecision результат проверки доступа студента к предмету
type AccessDecision int

const (
	Denied AccessDecision = iota
	Allowed
)

func (d AccessDecision) String() string {
	if d == Allowed {
		return "allowed"
	}
	return "denied"
}

// GrantStore отдаёт все записи доступа пары студент/предмет
type GrantStore interface {
	ListGrants(ctx context.Context, studentID, subjectID int64) ([]*model.AccessGrant, error)
}

// AccessChecker decides whether a student may use a subject's content and chat.
// It only reads; a missing grant is a denial, not an error.
type AccessChecker struct {
	grants GrantStore
	now    func() time.Time
}

func NewAccessChecker(grants GrantStore) *AccessChecker {
	return &AccessChecker{
		grants: grants,
		now:    time.Now,
	}
}

// CheckAccess returns Allowed when at least one of the pair's grants has has_access
// set and a validity window containing the current time. A pair may hold several
// grants; an expired or future one never hides a current one.
// Errors are storage failures only.
func (c *AccessChecker) CheckAccess(ctx context.Context, studentID, subjectID int64) (AccessDecision, error) {
	grants, err := c.grants.ListGrants(ctx, studentID, subjectID)
	if err != nil {
		return Denied, storageErr("list access grants", err)
	}

	now := c.now()
	for _, g := range grants {
		if g.ActiveAt(now) {
			return Allowed, nil
		}
	}

	return Denied, nil
}
