package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/edu_platform/internal/model"
	"github.com/Freeeeeet/edu_platform/internal/repository/base"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAnswers struct {
	byID   map[int64]*model.StudentAnswer
	nextID int64
}

func newFakeAnswers() *fakeAnswers {
	return &fakeAnswers{byID: map[int64]*model.StudentAnswer{}}
}

func (f *fakeAnswers) Create(_ context.Context, a *model.StudentAnswer) error {
	f.nextID++
	a.ID = f.nextID
	cp := *a
	f.byID[a.ID] = &cp
	return nil
}

func (f *fakeAnswers) GetByID(_ context.Context, id int64) (*model.StudentAnswer, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAnswers) GetByStudentAndQuiz(_ context.Context, studentID, quizID int64) ([]*model.StudentAnswer, error) {
	out := []*model.StudentAnswer{}
	for id := int64(1); id <= f.nextID; id++ {
		if a, ok := f.byID[id]; ok && a.StudentID == studentID && a.QuizID == quizID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAnswers) Grade(_ context.Context, id int64, g model.Grade) error {
	a, ok := f.byID[id]
	if !ok {
		return base.ErrNotFound
	}
	score, gradedBy, gradedAt := g.Score, g.GradedBy, g.GradedAt
	a.Score, a.Feedback, a.GradedBy, a.GradedAt = &score, g.Feedback, &gradedBy, &gradedAt
	return nil
}

type fakeNotifier struct {
	sent []CreateNotificationInput
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, in CreateNotificationInput) (*model.Notification, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, in)
	return &model.Notification{ID: int64(len(f.sent)), UserID: in.UserID, Type: in.Type}, nil
}

type answerFixture struct {
	svc      *StudentAnswerService
	answers  *fakeAnswers
	notifier *fakeNotifier
	quiz     *model.Quiz
	now      time.Time
}

func newAnswerFixture(t *testing.T) *answerFixture {
	t.Helper()

	quizzes := newFakeQuizzes()
	quizSvc := NewQuizService(quizzes, newFakeSubjects(&model.Subject{ID: 10, Name: "Math", NumberOfDays: 30}), zap.NewNop())
	quiz, err := quizSvc.Create(context.Background(), 9, sampleQuizInput())
	require.NoError(t, err)

	grants := newFakeGrants()
	grants.add(&model.AccessGrant{StudentID: 1, SubjectID: 10, HasAccess: true})

	f := &answerFixture{
		answers:  newFakeAnswers(),
		notifier: &fakeNotifier{},
		quiz:     quiz,
		now:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewStudentAnswerService(f.answers, quizzes, NewAccessChecker(grants), f.notifier, zap.NewNop())
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *answerFixture) choice() (questionID, wrongID, rightID int64) {
	q := f.quiz.Questions[0]
	return q.ID, q.Options[0].ID, q.Options[1].ID
}

func (f *answerFixture) essay() int64 {
	return f.quiz.Questions[1].ID
}

func int64Ptr(v int64) *int64 { return &v }

func TestStudentAnswerService_Submit(t *testing.T) {
	f := newAnswerFixture(t)
	ctx := context.Background()
	questionID, _, rightID := f.choice()

	answer, err := f.svc.Submit(ctx, SubmitAnswerInput{
		QuizID: f.quiz.ID, StudentID: 1, QuestionID: questionID, SelectedOptionID: int64Ptr(rightID),
	})
	require.NoError(t, err)
	assert.Equal(t, f.now, answer.SubmittedAt)
	assert.False(t, answer.IsGraded())

	essay, err := f.svc.Submit(ctx, SubmitAnswerInput{
		QuizID: f.quiz.ID, StudentID: 1, QuestionID: f.essay(), ImageURL: strPtr("https://cdn.example.com/solution.jpg"),
	})
	require.NoError(t, err)
	assert.Nil(t, essay.TextAnswer)

	answers, err := f.svc.List(ctx, 1, f.quiz.ID)
	require.NoError(t, err)
	require.Len(t, answers, 2)
	assert.Equal(t, answer.ID, answers[0].ID)
}

func TestStudentAnswerService_SubmitRejected(t *testing.T) {
	f := newAnswerFixture(t)
	ctx := context.Background()
	questionID, wrongID, _ := f.choice()

	tests := []struct {
		name string
		in   SubmitAnswerInput
		want error
	}{
		{"no access to subject", SubmitAnswerInput{QuizID: f.quiz.ID, StudentID: 2, QuestionID: questionID, SelectedOptionID: int64Ptr(wrongID)}, ErrDenied},
		{"unknown quiz", SubmitAnswerInput{QuizID: 9999, StudentID: 1, QuestionID: questionID, SelectedOptionID: int64Ptr(wrongID)}, ErrNotFound},
		{"question from another quiz", SubmitAnswerInput{QuizID: f.quiz.ID, StudentID: 1, QuestionID: 9999, TextAnswer: strPtr("x")}, ErrValidation},
		{"choice without option", SubmitAnswerInput{QuizID: f.quiz.ID, StudentID: 1, QuestionID: questionID}, ErrValidation},
		{"unknown option", SubmitAnswerInput{QuizID: f.quiz.ID, StudentID: 1, QuestionID: questionID, SelectedOptionID: int64Ptr(9999)}, ErrValidation},
		{"essay with option", SubmitAnswerInput{QuizID: f.quiz.ID, StudentID: 1, QuestionID: f.essay(), SelectedOptionID: int64Ptr(wrongID)}, ErrValidation},
		{"empty essay", SubmitAnswerInput{QuizID: f.quiz.ID, StudentID: 1, QuestionID: f.essay(), TextAnswer: strPtr("   ")}, ErrValidation},
		{"bad image url", SubmitAnswerInput{QuizID: f.quiz.ID, StudentID: 1, QuestionID: f.essay(), ImageURL: strPtr("not a url")}, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Submit(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	answers, err := f.svc.List(ctx, 1, f.quiz.ID)
	require.NoError(t, err)
	assert.Empty(t, answers)
}

func TestStudentAnswerService_Grade(t *testing.T) {
	f := newAnswerFixture(t)
	ctx := context.Background()

	answer, err := f.svc.Submit(ctx, SubmitAnswerInput{
		QuizID: f.quiz.ID, StudentID: 1, QuestionID: f.essay(), TextAnswer: strPtr("الجمع هو ضم الأعداد"),
	})
	require.NoError(t, err)

	f.now = f.now.Add(2 * time.Hour)
	graded, err := f.svc.Grade(ctx, answer.ID, 9, GradeAnswerInput{Score: intPtr(8), Feedback: strPtr("جيد")})
	require.NoError(t, err)

	require.True(t, graded.IsGraded())
	assert.Equal(t, 8, *graded.Score)
	assert.Equal(t, "جيد", *graded.Feedback)
	assert.Equal(t, int64(9), *graded.GradedBy)
	assert.Equal(t, f.now, *graded.GradedAt)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, int64(1), f.notifier.sent[0].UserID)
	assert.Equal(t, model.NotificationTypeGrade, f.notifier.sent[0].Type)

	_, err = f.svc.Grade(ctx, answer.ID, 9, GradeAnswerInput{})
	assert.ErrorIs(t, err, ErrValidation, "score is required")

	_, err = f.svc.Grade(ctx, answer.ID, 9, GradeAnswerInput{Score: intPtr(-1)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.Grade(ctx, 4242, 9, GradeAnswerInput{Score: intPtr(1)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStudentAnswerService_GradeSurvivesNotificationFailure(t *testing.T) {
	f := newAnswerFixture(t)
	ctx := context.Background()
	f.notifier.err = errors.New("notifications down")

	questionID, _, rightID := f.choice()
	answer, err := f.svc.Submit(ctx, SubmitAnswerInput{
		QuizID: f.quiz.ID, StudentID: 1, QuestionID: questionID, SelectedOptionID: int64Ptr(rightID),
	})
	require.NoError(t, err)

	graded, err := f.svc.Grade(ctx, answer.ID, 9, GradeAnswerInput{Score: intPtr(10)})
	require.NoError(t, err)
	assert.Equal(t, 10, *graded.Score)
}
