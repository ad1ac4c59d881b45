package model

import "time"

type Lesson struct {
	ID        int64     `json:"id"`
	SubjectID int64     `json:"subject_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	DayNumber int       `json:"day_number"` // 1..subject.NumberOfDays
	Order     int       `json:"order"`      // порядок внутри дня
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LessonPatch struct {
	Title     Optional[string] `json:"title"`
	Content   Optional[string] `json:"content"`
	DayNumber Optional[int]    `json:"day_number"`
	Order     Optional[int]    `json:"order"`
}

func (p *LessonPatch) IsEmpty() bool {
	return !p.Title.Set && !p.Content.Set && !p.DayNumber.Set && !p.Order.Set
}
