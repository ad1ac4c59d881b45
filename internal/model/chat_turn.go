package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatTurn is one persisted question/answer exchange. Turns are append-only.
type ChatTurn struct {
	ID        int64     `json:"id"`
	RequestID uuid.UUID `json:"request_id"`
	StudentID int64     `json:"student_id"`
	SubjectID int64     `json:"subject_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}
