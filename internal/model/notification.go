package model

import "time"

// Notification types
const (
	NotificationTypeLesson   = "lesson"
	NotificationTypeQuiz     = "quiz"
	NotificationTypeDiscount = "discount"
	NotificationTypeGrade    = "grade"
	NotificationTypeGeneral  = "general"
)

type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	RelatedID *int64    `json:"related_id"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
