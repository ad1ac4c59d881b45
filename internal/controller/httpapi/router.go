// Package httpapi exposes the services over a JSON API built on gin.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Freeeeeet/edu_platform/internal/metrics"
	"github.com/Freeeeeet/edu_platform/internal/model"
	"github.com/Freeeeeet/edu_platform/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type ChatAPI interface {
	SendMessage(ctx context.Context, in service.SendMessageInput) (*service.ChatResult, error)
	GetHistory(ctx context.Context, studentID, subjectID int64) ([]*model.ChatTurn, error)
	GetStudentSubjects(ctx context.Context, studentID int64) ([]*model.Subject, error)
}

type SubjectAPI interface {
	Create(ctx context.Context, createdBy int64, in service.CreateSubjectInput) (*model.Subject, error)
	Get(ctx context.Context, id int64) (*model.Subject, error)
	List(ctx context.Context) ([]*model.Subject, error)
	Update(ctx context.Context, id int64, patch *model.SubjectPatch) (*model.Subject, error)
	Delete(ctx context.Context, id int64) error
}

type LessonAPI interface {
	Create(ctx context.Context, createdBy int64, in service.CreateLessonInput) (*model.Lesson, error)
	Get(ctx context.Context, id int64) (*model.Lesson, error)
	ListBySubject(ctx context.Context, subjectID int64) ([]*model.Lesson, error)
	Update(ctx context.Context, id int64, patch *model.LessonPatch) (*model.Lesson, error)
	Delete(ctx context.Context, id int64) error
}

type AccessAPI interface {
	Grant(ctx context.Context, createdBy int64, in service.GrantAccessInput) (*model.AccessGrant, error)
	Get(ctx context.Context, studentID, subjectID int64) (*model.AccessGrant, error)
	Update(ctx context.Context, id int64, patch *model.AccessGrantPatch) (*model.AccessGrant, error)
}

type ProgressAPI interface {
	MarkComplete(ctx context.Context, in service.MarkCompleteInput) (*model.StudentProgress, error)
	Get(ctx context.Context, studentID, subjectID int64) ([]*model.StudentProgress, error)
}

type NotificationAPI interface {
	Send(ctx context.Context, in service.CreateNotificationInput) (*model.Notification, error)
	ListForUser(ctx context.Context, userID int64) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
}

type DiscountAPI interface {
	ListActive(ctx context.Context) ([]*model.Discount, error)
	Create(ctx context.Context, createdBy int64, in service.CreateDiscountInput) (*model.Discount, error)
	Update(ctx context.Context, id int64, patch *model.DiscountPatch) error
	Delete(ctx context.Context, id int64) error
}

type QuizAPI interface {
	Create(ctx context.Context, createdBy int64, in service.CreateQuizInput) (*model.Quiz, error)
	Get(ctx context.Context, id int64) (*model.Quiz, error)
	ListBySubject(ctx context.Context, subjectID int64) ([]*model.Quiz, error)
	Update(ctx context.Context, id int64, patch *model.QuizPatch) (*model.Quiz, error)
	Delete(ctx context.Context, id int64) error
}

type AnswerAPI interface {
	Submit(ctx context.Context, in service.SubmitAnswerInput) (*model.StudentAnswer, error)
	List(ctx context.Context, studentID, quizID int64) ([]*model.StudentAnswer, error)
	Grade(ctx context.Context, id, gradedBy int64, in service.GradeAnswerInput) (*model.StudentAnswer, error)
}

type AuthAPI interface {
	Register(ctx context.Context, in service.RegisterInput) (*service.Session, error)
	Login(ctx context.Context, in service.LoginInput) (*service.Session, error)
}

type UserLoader interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps всё, что нужно роутеру. Gatherer по умолчанию prometheus.DefaultGatherer.
type Deps struct {
	Chat          ChatAPI
	Subjects      SubjectAPI
	Lessons       LessonAPI
	Access        AccessAPI
	Progress      ProgressAPI
	Notifications NotificationAPI
	Discounts     DiscountAPI
	Quizzes       QuizAPI
	Answers       AnswerAPI
	Auth          AuthAPI
	Users         UserLoader
	DB            Pinger

	JWTSecret []byte
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	Logger    *zap.Logger
}

type handler struct {
	Deps
}

func NewRouter(d Deps) *gin.Engine {
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	h := &handler{Deps: d}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(d.Logger, d.Metrics))

	r.GET("/healthz", h.health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))

	public := r.Group("/api/auth")
	public.POST("/register", h.register)
	public.POST("/login", h.login)

	api := r.Group("/api", authMiddleware(d.JWTSecret, d.Users, d.Logger))
	admin := api.Group("", requireAdmin())

	api.GET("/subjects", h.listSubjects)
	api.GET("/subjects/:id", h.getSubject)
	api.GET("/subjects/:id/lessons", h.listLessons)
	api.GET("/subjects/:id/quizzes", h.listQuizzes)
	admin.POST("/subjects", h.createSubject)
	admin.PATCH("/subjects/:id", h.updateSubject)
	admin.DELETE("/subjects/:id", h.deleteSubject)

	api.GET("/lessons/:id", h.getLesson)
	admin.POST("/lessons", h.createLesson)
	admin.PATCH("/lessons/:id", h.updateLesson)
	admin.DELETE("/lessons/:id", h.deleteLesson)

	api.GET("/quizzes/:id", h.getQuiz)
	admin.POST("/quizzes", h.createQuiz)
	admin.PATCH("/quizzes/:id", h.updateQuiz)
	admin.DELETE("/quizzes/:id", h.deleteQuiz)

	api.GET("/answers", h.listAnswers)
	api.POST("/answers", h.submitAnswer)
	admin.POST("/answers/:id/grade", h.gradeAnswer)

	api.GET("/access", h.getAccess)
	admin.POST("/access", h.grantAccess)
	admin.PATCH("/access/:id", h.updateAccess)

	api.GET("/chat/history", h.chatHistory)
	api.POST("/chat/messages", h.sendMessage)
	api.GET("/chat/subjects", h.chatSubjects)

	api.GET("/progress", h.getProgress)
	api.POST("/progress", h.markComplete)

	api.GET("/notifications", h.listNotifications)
	api.POST("/notifications/:id/read", h.markNotificationRead)
	admin.POST("/notifications", h.createNotification)

	api.GET("/discounts", h.listDiscounts)
	admin.POST("/discounts", h.createDiscount)
	admin.PATCH("/discounts/:id", h.updateDiscount)
	admin.DELETE("/discounts/:id", h.deleteDiscount)

	return r
}

func (h *handler) health(c *gin.Context) {
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.Ping(ctx); err != nil {
			h.Logger.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Serve запускает HTTP-сервер и останавливает его при отмене ctx
func Serve(ctx context.Context, addr string, router http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
