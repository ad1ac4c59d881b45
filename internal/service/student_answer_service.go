package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/edu_platform/internal/model"
	"go.uber.org/zap"
)

type AnswerRepo interface {
	Create(ctx context.Context, a *model.StudentAnswer) error
	GetByID(ctx context.Context, id int64) (*model.StudentAnswer, error)
	GetByStudentAndQuiz(ctx context.Context, studentID, quizID int64) ([]*model.StudentAnswer, error)
	Grade(ctx context.Context, id int64, g model.Grade) error
}

// GradeNotifier сообщает студенту о выставленной оценке
type GradeNotifier interface {
	Send(ctx context.Context, in CreateNotificationInput) (*model.Notification, error)
}

type SubmitAnswerInput struct {
	QuizID           int64   `json:"quiz_id" validate:"gt=0"`
	StudentID        int64   `json:"student_id" validate:"gt=0"`
	QuestionID       int64   `json:"question_id" validate:"gt=0"`
	SelectedOptionID *int64  `json:"selected_option_id" validate:"omitempty,gt=0"`
	TextAnswer       *string `json:"text_answer"`
	ImageURL         *string `json:"image_url" validate:"omitempty,url,max=512"`
}

type GradeAnswerInput struct {
	Score    *int    `json:"score" validate:"required,min=0"`
	Feedback *string `json:"feedback"`
}

type StudentAnswerService struct {
	answers  AnswerRepo
	quizzes  QuizReader
	checker  *AccessChecker
	notifier GradeNotifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewStudentAnswerService(answers AnswerRepo, quizzes QuizReader, checker *AccessChecker, notifier GradeNotifier, logger *zap.Logger) *StudentAnswerService {
	return &StudentAnswerService{
		answers:  answers,
		quizzes:  quizzes,
		checker:  checker,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Submit сохраняет ответ на вопрос теста. Нужен действующий доступ к предмету теста.
// Для вопроса с вариантами нужен вариант этого вопроса, для остальных текст или фото.
func (s *StudentAnswerService) Submit(ctx context.Context, in SubmitAnswerInput) (*model.StudentAnswer, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	quiz, err := loadQuiz(ctx, s.quizzes, in.QuizID)
	if err != nil {
		return nil, err
	}

	decision, err := s.checker.CheckAccess(ctx, in.StudentID, quiz.SubjectID)
	if err != nil {
		return nil, err
	}
	if decision != Allowed {
		return nil, fmt.Errorf("student %d, subject %d: %w", in.StudentID, quiz.SubjectID, ErrDenied)
	}

	question := quiz.Question(in.QuestionID)
	if question == nil {
		return nil, invalidField("question_id", fmt.Sprintf("question %d is not part of quiz %d", in.QuestionID, quiz.ID))
	}

	hasText := in.TextAnswer != nil && strings.TrimSpace(*in.TextAnswer) != ""
	if question.QuestionType == model.QuestionTypeMultipleChoice {
		if in.SelectedOptionID == nil {
			return nil, invalidField("selected_option_id", "multiple choice answer needs an option")
		}
		if question.Option(*in.SelectedOptionID) == nil {
			return nil, invalidField("selected_option_id", "option does not belong to the question")
		}
	} else {
		if in.SelectedOptionID != nil {
			return nil, invalidField("selected_option_id", "only multiple choice questions have options")
		}
		if !hasText && in.ImageURL == nil {
			return nil, invalidField("text_answer", "answer needs text or an image")
		}
	}

	answer := &model.StudentAnswer{
		QuizID:           quiz.ID,
		StudentID:        in.StudentID,
		QuestionID:       question.ID,
		SelectedOptionID: in.SelectedOptionID,
		ImageURL:         in.ImageURL,
		SubmittedAt:      s.now(),
	}
	if hasText {
		answer.TextAnswer = in.TextAnswer
	}

	if err := s.answers.Create(ctx, answer); err != nil {
		return nil, storageErr("create student answer", err)
	}

	s.logger.Info("Answer submitted",
		zap.Int64("answer_id", answer.ID),
		zap.Int64("student_id", answer.StudentID),
		zap.Int64("quiz_id", answer.QuizID),
		zap.Int64("question_id", answer.QuestionID))

	return answer, nil
}

// List ответы студента на тест в порядке отправки
func (s *StudentAnswerService) List(ctx context.Context, studentID, quizID int64) ([]*model.StudentAnswer, error) {
	answers, err := s.answers.GetByStudentAndQuiz(ctx, studentID, quizID)
	if err != nil {
		return nil, storageErr("get student answers", err)
	}
	return answers, nil
}

// Grade выставляет оценку, запоминает проверяющего и время проверки.
// Повторная проверка перезаписывает оценку.
func (s *StudentAnswerService) Grade(ctx context.Context, id, gradedBy int64, in GradeAnswerInput) (*model.StudentAnswer, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	grade := model.Grade{
		Score:    *in.Score,
		Feedback: in.Feedback,
		GradedBy: gradedBy,
		GradedAt: s.now(),
	}
	if err := s.answers.Grade(ctx, id, grade); err != nil {
		return nil, repoErr("grade answer", err)
	}

	answer, err := s.answers.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr("get student answer", err)
	}
	if answer == nil {
		return nil, notFound("student answer", id)
	}

	s.logger.Info("Answer graded",
		zap.Int64("answer_id", id),
		zap.Int64("graded_by", gradedBy),
		zap.Int("score", grade.Score))

	s.notifyGraded(ctx, answer)

	return answer, nil
}

// notifyGraded не влияет на результат проверки: ошибка только логируется
func (s *StudentAnswerService) notifyGraded(ctx context.Context, answer *model.StudentAnswer) {
	if s.notifier == nil {
		return
	}

	quizID := answer.QuizID
	_, err := s.notifier.Send(ctx, CreateNotificationInput{
		UserID:    answer.StudentID,
		Title:     "Answer Graded",
		Message:   fmt.Sprintf("Your answer received %d points", *answer.Score),
		Type:      model.NotificationTypeGrade,
		RelatedID: &quizID,
	})
	if err != nil {
		s.logger.Warn("Grade notification not sent",
			zap.Int64("answer_id", answer.ID),
			zap.Error(err))
	}
}
