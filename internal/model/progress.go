package model

import "time"

type StudentProgress struct {
	ID          int64      `json:"id"`
	StudentID   int64      `json:"student_id"`
	SubjectID   int64      `json:"subject_id"`
	LessonID    int64      `json:"lesson_id"`
	IsCompleted bool       `json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
