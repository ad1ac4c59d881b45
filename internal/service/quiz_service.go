package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/edu_platform/internal/model"
	"go.uber.org/zap"
)

type QuizRepo interface {
	QuizReader
	Create(ctx context.Context, quiz *model.Quiz) error
	GetBySubject(ctx context.Context, subjectID int64) ([]*model.Quiz, error)
	Update(ctx context.Context, id int64, patch *model.QuizPatch) error
	Delete(ctx context.Context, id int64) error
}

// QuizReader загружает тест и его вопросы
type QuizReader interface {
	GetByID(ctx context.Context, id int64) (*model.Quiz, error)
	GetQuestions(ctx context.Context, quizID int64) ([]*model.QuizQuestion, error)
}

type QuizOptionInput struct {
	Text      string `json:"text" validate:"notblank"`
	IsCorrect bool   `json:"is_correct"`
}

type QuizQuestionInput struct {
	Question     string            `json:"question" validate:"notblank"`
	QuestionType string            `json:"question_type" validate:"oneof=multiple_choice short_answer essay"`
	Options      []QuizOptionInput `json:"options" validate:"dive"`
}

type CreateQuizInput struct {
	SubjectID     int64               `json:"subject_id" validate:"gt=0"`
	Title         string              `json:"title" validate:"notblank,max=255"`
	Description   *string             `json:"description"`
	Type          string              `json:"type" validate:"oneof=daily monthly semester"`
	DayNumber     *int                `json:"day_number" validate:"omitempty,min=1"`
	ScheduledDate *time.Time          `json:"scheduled_date"`
	Questions     []QuizQuestionInput `json:"questions" validate:"dive"`
}

type QuizService struct {
	quizzes  QuizRepo
	subjects SubjectStore
	logger   *zap.Logger
}

func NewQuizService(quizzes QuizRepo, subjects SubjectStore, logger *zap.Logger) *QuizService {
	return &QuizService{
		quizzes:  quizzes,
		subjects: subjects,
		logger:   logger,
	}
}

// Create добавляет тест с вопросами. Ежедневному тесту нужен день в пределах длительности предмета.
func (s *QuizService) Create(ctx context.Context, createdBy int64, in CreateQuizInput) (*model.Quiz, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	subject, err := s.subject(ctx, in.SubjectID)
	if err != nil {
		return nil, err
	}
	if err := checkQuizDay(in.Type, in.DayNumber, subject); err != nil {
		return nil, err
	}

	quiz := &model.Quiz{
		SubjectID:     in.SubjectID,
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		Type:          in.Type,
		DayNumber:     in.DayNumber,
		ScheduledDate: in.ScheduledDate,
		CreatedBy:     createdBy,
	}

	for i, qi := range in.Questions {
		question, err := buildQuestion(i, qi)
		if err != nil {
			return nil, err
		}
		quiz.Questions = append(quiz.Questions, question)
	}

	if err := s.quizzes.Create(ctx, quiz); err != nil {
		return nil, storageErr("create quiz", err)
	}

	s.logger.Info("Quiz created",
		zap.Int64("quiz_id", quiz.ID),
		zap.Int64("subject_id", quiz.SubjectID),
		zap.String("type", quiz.Type),
		zap.Int("questions", len(quiz.Questions)))

	return quiz, nil
}

func buildQuestion(i int, in QuizQuestionInput) (*model.QuizQuestion, error) {
	field := fmt.Sprintf("questions[%d]", i)

	correct := 0
	for _, o := range in.Options {
		if o.IsCorrect {
			correct++
		}
	}

	if in.QuestionType == model.QuestionTypeMultipleChoice {
		if len(in.Options) < 2 {
			return nil, invalidField(field, "multiple choice question needs at least 2 options")
		}
		if correct == 0 {
			return nil, invalidField(field, "multiple choice question needs a correct option")
		}
	} else if len(in.Options) > 0 {
		return nil, invalidField(field, "only multiple choice questions have options")
	}

	question := &model.QuizQuestion{
		Question:     in.Question,
		QuestionType: in.QuestionType,
		Order:        i + 1,
	}
	for j, o := range in.Options {
		isCorrect := o.IsCorrect
		question.Options = append(question.Options, &model.QuizOption{
			Text:      strings.TrimSpace(o.Text),
			IsCorrect: &isCorrect,
			Order:     j + 1,
		})
	}

	return question, nil
}

// Get тест с вопросами и вариантами ответа
func (s *QuizService) Get(ctx context.Context, id int64) (*model.Quiz, error) {
	return loadQuiz(ctx, s.quizzes, id)
}

// ListBySubject тесты предмета без вопросов
func (s *QuizService) ListBySubject(ctx context.Context, subjectID int64) ([]*model.Quiz, error) {
	if _, err := s.subject(ctx, subjectID); err != nil {
		return nil, err
	}

	quizzes, err := s.quizzes.GetBySubject(ctx, subjectID)
	if err != nil {
		return nil, storageErr("get quizzes", err)
	}
	return quizzes, nil
}

func (s *QuizService) Update(ctx context.Context, id int64, patch *model.QuizPatch) (*model.Quiz, error) {
	if patch.IsEmpty() {
		return nil, invalidField("patch", "at least one field must be set")
	}
	if patch.Title.Set && (patch.Title.Null || strings.TrimSpace(patch.Title.Value) == "") {
		return nil, invalidField("title", "this field cannot be blank")
	}
	if patch.Type.Set {
		switch patch.Type.Value {
		case model.QuizTypeDaily, model.QuizTypeMonthly, model.QuizTypeSemester:
		default:
			return nil, invalidField("type", "type must be one of [daily monthly semester]")
		}
	}

	if patch.Type.Set || patch.DayNumber.Set {
		quiz, err := s.quizzes.GetByID(ctx, id)
		if err != nil {
			return nil, storageErr("get quiz", err)
		}
		if quiz == nil {
			return nil, notFound("quiz", id)
		}
		subject, err := s.subject(ctx, quiz.SubjectID)
		if err != nil {
			return nil, err
		}

		quizType, day := quiz.Type, quiz.DayNumber
		if patch.Type.Set {
			quizType = patch.Type.Value
		}
		if patch.DayNumber.Set {
			day = patch.DayNumber.Value
		}
		if err := checkQuizDay(quizType, day, subject); err != nil {
			return nil, err
		}
	}

	if err := s.quizzes.Update(ctx, id, patch); err != nil {
		return nil, repoErr("update quiz", err)
	}

	s.logger.Info("Quiz updated", zap.Int64("quiz_id", id))

	return s.Get(ctx, id)
}

func (s *QuizService) Delete(ctx context.Context, id int64) error {
	if err := s.quizzes.Delete(ctx, id); err != nil {
		return repoErr("delete quiz", err)
	}

	s.logger.Info("Quiz deleted", zap.Int64("quiz_id", id))
	return nil
}

func (s *QuizService) subject(ctx context.Context, id int64) (*model.Subject, error) {
	subject, err := s.subjects.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr("get subject", err)
	}
	if subject == nil {
		return nil, notFound("subject", id)
	}
	return subject, nil
}

func checkQuizDay(quizType string, day *int, subject *model.Subject) error {
	if day == nil {
		if quizType == model.QuizTypeDaily {
			return invalidField("day_number", "daily quiz needs a day_number")
		}
		return nil
	}
	if *day < 1 || *day > subject.NumberOfDays {
		return invalidField("day_number",
			fmt.Sprintf("day_number must be between 1 and %d", subject.NumberOfDays))
	}
	return nil
}

func loadQuiz(ctx context.Context, quizzes QuizReader, id int64) (*model.Quiz, error) {
	quiz, err := quizzes.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr("get quiz", err)
	}
	if quiz == nil {
		return nil, notFound("quiz", id)
	}

	questions, err := quizzes.GetQuestions(ctx, id)
	if err != nil {
		return nil, storageErr("get quiz questions", err)
	}
	quiz.Questions = questions

	return quiz, nil
}
