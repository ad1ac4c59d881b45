package model

import "time"

// DefaultNumberOfDays длительность учебной программы по умолчанию
const DefaultNumberOfDays = 30

type Subject struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	NumberOfDays int       `json:"number_of_days"`
	CreatedBy    int64     `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SubjectPatch describes a partial subject update; unset fields are left unchanged
type SubjectPatch struct {
	Name         Optional[string]  `json:"name"`
	Description  Optional[*string] `json:"description"`
	NumberOfDays Optional[int]     `json:"number_of_days"`
}

// IsEmpty reports whether the patch touches no fields
func (p *SubjectPatch) IsEmpty() bool {
	return !p.Name.Set && !p.Description.Set && !p.NumberOfDays.Set
}
