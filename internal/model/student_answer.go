package model

import "time"

type StudentAnswer struct {
	ID               int64      `json:"id"`
	QuizID           int64      `json:"quiz_id"`
	StudentID        int64      `json:"student_id"`
	QuestionID       int64      `json:"question_id"`
	SelectedOptionID *int64     `json:"selected_option_id"`
	TextAnswer       *string    `json:"text_answer"`
	ImageURL         *string    `json:"image_url"`
	Score            *int       `json:"score"`
	Feedback         *string    `json:"feedback"`
	SubmittedAt      time.Time  `json:"submitted_at"`
	GradedAt         *time.Time `json:"graded_at"`
	GradedBy         *int64     `json:"graded_by"`
	CreatedAt        time.Time  `json:"created_at"`
}

// IsGraded reports whether a teacher has scored the answer
func (a *StudentAnswer) IsGraded() bool {
	return a.GradedAt != nil
}

// Grade оценка преподавателя
type Grade struct {
	Score    int
	Feedback *string
	GradedBy int64
	GradedAt time.Time
}
