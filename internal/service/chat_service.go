package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/edu_platform/internal/llm"
	"github.com/Freeeeeet/edu_platform/internal/metrics"
	"github.com/Freeeeeet/edu_platform/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// MaxQuestionRunes ограничение длины вопроса
	MaxQuestionRunes = 4000

	DefaultCompletionTimeout = 60 * time.Second
)

// StudentSubjectStore отдаёт предметы с действующим доступом студента
type StudentSubjectStore interface {
	GetByStudent(ctx context.Context, studentID int64) ([]*model.Subject, error)
}

type SendMessageInput struct {
	StudentID int64  `json:"student_id" validate:"gt=0"`
	SubjectID int64  `json:"subject_id" validate:"gt=0"`
	Question  string `json:"question" validate:"notblank,max=4000"`
}

// ChatResult is the answered exchange. Saved is false when the answer was
// delivered but the history write failed.
type ChatResult struct {
	Question  string     `json:"question"`
	Answer    string     `json:"answer"`
	Saved     bool       `json:"saved"`
	TurnID    int64      `json:"turn_id,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// ChatService ask-a-question pipeline:
// Received → AccessChecked → ContextAssembled → Completed → Persisted → Responded
type ChatService struct {
	checker   *AccessChecker
	assembler *ContextAssembler
	completer llm.Completer
	history   HistoryStore
	subjects  StudentSubjectStore
	metrics   *metrics.Metrics
	timeout   time.Duration
	logger    *zap.Logger

	newRequestID func() uuid.UUID
}

func NewChatService(
	checker *AccessChecker,
	assembler *ContextAssembler,
	completer llm.Completer,
	history HistoryStore,
	subjects StudentSubjectStore,
	m *metrics.Metrics,
	timeout time.Duration,
	logger *zap.Logger,
) *ChatService {
	if timeout <= 0 {
		timeout = DefaultCompletionTimeout
	}
	return &ChatService{
		checker:      checker,
		assembler:    assembler,
		completer:    completer,
		history:      history,
		subjects:     subjects,
		metrics:      m,
		timeout:      timeout,
		logger:       logger,
		newRequestID: uuid.New,
	}
}

// SendMessage answers a student's question within a subject and appends the turn
// to the history. A failed completion never writes history.
func (s *ChatService) SendMessage(ctx context.Context, in SendMessageInput) (*ChatResult, error) {
	requestID := s.newRequestID()
	log := s.logger.With(
		zap.String("request_id", requestID.String()),
		zap.Int64("student_id", in.StudentID),
		zap.Int64("subject_id", in.SubjectID))

	// Received
	if err := validateInput(in); err != nil {
		s.count(metrics.OutcomeInvalid)
		return nil, err
	}
	log.Debug("Chat request received")

	// AccessChecked
	decision, err := s.checker.CheckAccess(ctx, in.StudentID, in.SubjectID)
	if err != nil {
		log.Error("Access check failed", zap.Error(err))
		s.count(metrics.OutcomeStorage)
		return nil, err
	}
	if decision != Allowed {
		log.Info("Chat access denied")
		s.count(metrics.OutcomeDenied)
		return nil, fmt.Errorf("student %d, subject %d: %w", in.StudentID, in.SubjectID, ErrDenied)
	}
	log.Debug("Access checked")

	// ContextAssembled
	conv, err := s.assembler.Assemble(ctx, in.StudentID, in.SubjectID, in.Question)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.count(metrics.OutcomeNotFound)
		} else {
			log.Error("Failed to assemble chat context", zap.Error(err))
			s.count(metrics.OutcomeStorage)
		}
		return nil, err
	}
	log.Debug("Context assembled", zap.Int("turns", len(conv.Turns)))

	// Completed
	answer, err := s.complete(ctx, conv)
	if err != nil {
		log.Warn("Completion failed", zap.Error(err))
		s.count(metrics.OutcomeUpstream)
		return nil, fmt.Errorf("%w: %w", ErrUpstreamFailed, err)
	}
	log.Debug("Completion received", zap.Int("answer_len", len(answer)))

	result := &ChatResult{
		Question: in.Question,
		Answer:   answer,
	}

	// Persisted
	turn := &model.ChatTurn{
		RequestID: requestID,
		StudentID: in.StudentID,
		SubjectID: in.SubjectID,
		Question:  in.Question,
		Answer:    answer,
	}
	if err := s.history.Append(ctx, turn); err != nil {
		log.Error("Failed to save chat turn, answer delivered unsaved", zap.Error(err))
		s.count(metrics.OutcomeUnsaved)
		return result, nil
	}

	result.Saved = true
	result.TurnID = turn.ID
	createdAt := turn.CreatedAt
	result.CreatedAt = &createdAt

	// Responded
	log.Info("Chat message answered", zap.Int64("turn_id", turn.ID))
	s.count(metrics.OutcomeAnswered)

	return result, nil
}

func (s *ChatService) complete(ctx context.Context, conv *llm.Conversation) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	answer, err := s.completer.Complete(ctx, conv)
	if s.metrics != nil {
		s.metrics.CompletionDuration.Observe(time.Since(started).Seconds())
	}
	if err != nil {
		var upErr *llm.UpstreamError
		if !errors.As(err, &upErr) {
			upErr = &llm.UpstreamError{Kind: llm.KindUnknown, Err: err}
			if errors.Is(err, context.DeadlineExceeded) {
				upErr.Kind = llm.KindTimeout
			}
			err = upErr
		}
		if s.metrics != nil {
			s.metrics.CompletionErrors.WithLabelValues(string(upErr.Kind)).Inc()
		}
		return "", err
	}

	return answer, nil
}

func (s *ChatService) count(outcome string) {
	if s.metrics != nil {
		s.metrics.ChatRequests.WithLabelValues(outcome).Inc()
	}
}

// GetHistory возвращает историю чата пары, только при действующем доступе
func (s *ChatService) GetHistory(ctx context.Context, studentID, subjectID int64) ([]*model.ChatTurn, error) {
	if studentID <= 0 {
		return nil, invalidField("student_id", "student_id must be greater than 0")
	}
	if subjectID <= 0 {
		return nil, invalidField("subject_id", "subject_id must be greater than 0")
	}

	decision, err := s.checker.CheckAccess(ctx, studentID, subjectID)
	if err != nil {
		return nil, err
	}
	if decision != Allowed {
		return nil, fmt.Errorf("student %d, subject %d: %w", studentID, subjectID, ErrDenied)
	}

	turns, err := s.history.List(ctx, studentID, subjectID)
	if err != nil {
		return nil, storageErr("list chat history", err)
	}

	return turns, nil
}

// RecentHistory последние limit ходов пары, от старых к новым; доступ проверяется
func (s *ChatService) RecentHistory(ctx context.Context, studentID, subjectID int64, limit int) ([]*model.ChatTurn, error) {
	if limit <= 0 {
		return nil, invalidField("limit", "limit must be greater than 0")
	}

	decision, err := s.checker.CheckAccess(ctx, studentID, subjectID)
	if err != nil {
		return nil, err
	}
	if decision != Allowed {
		return nil, fmt.Errorf("student %d, subject %d: %w", studentID, subjectID, ErrDenied)
	}

	turns, err := s.history.ListRecent(ctx, studentID, subjectID, limit)
	if err != nil {
		return nil, storageErr("list recent chat history", err)
	}

	return turns, nil
}

// GetStudentSubjects возвращает предметы, доступные студенту сейчас
func (s *ChatService) GetStudentSubjects(ctx context.Context, studentID int64) ([]*model.Subject, error) {
	if studentID <= 0 {
		return nil, invalidField("student_id", "student_id must be greater than 0")
	}

	subjects, err := s.subjects.GetByStudent(ctx, studentID)
	if err != nil {
		return nil, storageErr("get student subjects", err)
	}

	return subjects, nil
}
