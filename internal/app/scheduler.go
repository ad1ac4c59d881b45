package app

import (
	"context"
	"time"

	"github.com/Freeeeeet/edu_platform/internal/metrics"
	"github.com/Freeeeeet/edu_platform/internal/model"
	"go.uber.org/zap"
)

type ActiveGrantLister interface {
	ListActiveWithStart(ctx context.Context) ([]*model.AccessGrant, error)
}

type DayLessonLister interface {
	GetBySubjectAndDay(ctx context.Context, subjectID int64, dayNumber int) ([]*model.Lesson, error)
}

type LessonReminder interface {
	SendDailyLessonReminder(ctx context.Context, userID int64, lesson *model.Lesson) (bool, error)
}

// Scheduler раз в interval напоминает студентам об уроках текущего дня программы
type Scheduler struct {
	grants    ActiveGrantLister
	lessons   DayLessonLister
	reminders LessonReminder
	interval  time.Duration
	metrics   *metrics.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

func NewScheduler(
	grants ActiveGrantLister,
	lessons DayLessonLister,
	reminders LessonReminder,
	interval time.Duration,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Scheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Scheduler{
		grants:    grants,
		lessons:   lessons,
		reminders: reminders,
		interval:  interval,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// Run блокируется до отмены ctx. Первый проход сразу при старте.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("Starting reminder scheduler", zap.Duration("interval", s.interval))

	s.sendReminders(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sendReminders(ctx)
		case <-ctx.Done():
			s.logger.Info("Reminder scheduler stopped")
			return nil
		}
	}
}

func (s *Scheduler) sendReminders(ctx context.Context) {
	sent, err := s.RunOnce(ctx)
	if err != nil {
		s.logger.Error("Failed to send lesson reminders", zap.Error(err))
		return
	}
	s.logger.Info("Lesson reminders pass completed", zap.Int("sent", sent))
}

// RunOnce один проход по действующим доступам. Ошибка по одному студенту
// не останавливает остальных.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	grants, err := s.grants.ListActiveWithStart(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	sent := 0

	for _, g := range grants {
		if !g.ActiveAt(now) {
			continue
		}

		day := CurriculumDay(*g.StartDate, now)
		lessons, err := s.lessons.GetBySubjectAndDay(ctx, g.SubjectID, day)
		if err != nil {
			s.logger.Error("Failed to get lessons for day",
				zap.Int64("subject_id", g.SubjectID),
				zap.Int("day", day),
				zap.Error(err))
			continue
		}

		for _, lesson := range lessons {
			ok, err := s.reminders.SendDailyLessonReminder(ctx, g.StudentID, lesson)
			if err != nil {
				s.logger.Error("Failed to send lesson reminder",
					zap.Int64("student_id", g.StudentID),
					zap.Int64("lesson_id", lesson.ID),
					zap.Error(err))
				continue
			}
			if ok {
				sent++
				if s.metrics != nil {
					s.metrics.RemindersSent.Inc()
				}
			}
		}
	}

	return sent, nil
}

// CurriculumDay номер учебного дня, день начала доступа считается первым
func CurriculumDay(start, now time.Time) int {
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(nowDay.Sub(startDay).Hours()/24) + 1
}
