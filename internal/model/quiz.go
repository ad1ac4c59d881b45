package model

import "time"

// Quiz types
const (
	QuizTypeDaily    = "daily"
	QuizTypeMonthly  = "monthly"
	QuizTypeSemester = "semester"
)

// Question types
const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeShortAnswer    = "short_answer"
	QuestionTypeEssay          = "essay"
)

type Quiz struct {
	ID            int64      `json:"id"`
	SubjectID     int64      `json:"subject_id"`
	Title         string     `json:"title"`
	Description   *string    `json:"description"`
	Type          string     `json:"type"`
	DayNumber     *int       `json:"day_number"` // только для daily
	ScheduledDate *time.Time `json:"scheduled_date"`
	CreatedBy     int64      `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Questions []*QuizQuestion `json:"questions,omitempty"`
}

type QuizQuestion struct {
	ID           int64         `json:"id"`
	QuizID       int64         `json:"quiz_id"`
	Question     string        `json:"question"`
	QuestionType string        `json:"question_type"`
	Order        int           `json:"order"`
	CreatedAt    time.Time     `json:"created_at"`
	Options      []*QuizOption `json:"options,omitempty"`
}

type QuizOption struct {
	ID         int64     `json:"id"`
	QuestionID int64     `json:"question_id"`
	Text       string    `json:"text"`
	IsCorrect  *bool     `json:"is_correct,omitempty"`
	Order      int       `json:"order"`
	CreatedAt  time.Time `json:"created_at"`
}

// Question returns the quiz question with the given id or nil
func (q *Quiz) Question(id int64) *QuizQuestion {
	for _, qq := range q.Questions {
		if qq.ID == id {
			return qq
		}
	}
	return nil
}

// Option returns the option with the given id or nil
func (qq *QuizQuestion) Option(id int64) *QuizOption {
	for _, o := range qq.Options {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// HideAnswers убирает правильные ответы перед отдачей студенту
func (q *Quiz) HideAnswers() {
	for _, qq := range q.Questions {
		for _, o := range qq.Options {
			o.IsCorrect = nil
		}
	}
}

type QuizPatch struct {
	Title         Optional[string]     `json:"title"`
	Description   Optional[*string]    `json:"description"`
	Type          Optional[string]     `json:"type"`
	DayNumber     Optional[*int]       `json:"day_number"`
	ScheduledDate Optional[*time.Time] `json:"scheduled_date"`
}

func (p *QuizPatch) IsEmpty() bool {
	return !p.Title.Set && !p.Description.Set && !p.Type.Set && !p.DayNumber.Set && !p.ScheduledDate.Set
}
