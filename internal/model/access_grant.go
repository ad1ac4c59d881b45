package model

import "time"

// AccessGrant represents a student's permission to use a subject's content and chat
type AccessGrant struct {
	ID        int64      `json:"id"`
	StudentID int64      `json:"student_id"`
	SubjectID int64      `json:"subject_id"`
	HasAccess bool       `json:"has_access"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	CreatedBy int64      `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ActiveAt checks if the grant allows access at the given moment.
// Window bounds are inclusive; a missing bound is open.
func (g *AccessGrant) ActiveAt(at time.Time) bool {
	if !g.HasAccess {
		return false
	}
	if g.StartDate != nil && at.Before(*g.StartDate) {
		return false
	}
	if g.EndDate != nil && at.After(*g.EndDate) {
		return false
	}
	return true
}

// AccessGrantPatch is a partial grant update; explicit null clears a window bound
type AccessGrantPatch struct {
	HasAccess Optional[bool]       `json:"has_access"`
	StartDate Optional[*time.Time] `json:"start_date"`
	EndDate   Optional[*time.Time] `json:"end_date"`
}

func (p *AccessGrantPatch) IsEmpty() bool {
	return !p.HasAccess.Set && !p.StartDate.Set && !p.EndDate.Set
}
