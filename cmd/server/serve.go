package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/edu_platform/internal/app"
	"github.com/Freeeeeet/edu_platform/internal/auth"
	"github.com/Freeeeeet/edu_platform/internal/controller"
	"github.com/Freeeeeet/edu_platform/internal/controller/httpapi"
	"github.com/Freeeeeet/edu_platform/internal/llm"
	"github.com/Freeeeeet/edu_platform/internal/metrics"
	"github.com/Freeeeeet/edu_platform/internal/repository"
	"github.com/Freeeeeet/edu_platform/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/go-telegram/bot"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var skipMigrations bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the Telegram bot and the reminder scheduler",
	RunE:  func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "Do not apply pending migrations on startup")
}

func serve(ctx context.Context) error {
	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	cfg, logger := rt.cfg, rt.logger
	logger.Info("Starting edu platform",
		zap.String("environment", cfg.Environment),
		zap.String("llm_provider", cfg.LLMProvider),
		zap.Bool("telegram_enabled", cfg.TelegramToken != ""))

	if !skipMigrations {
		mg, err := app.NewMigrator(rt.pool, cfg.MigrationsPath, logger)
		if err != nil {
			return err
		}
		err = mg.Up(ctx)
		_ = mg.Close()
		if err != nil {
			return err
		}
	}

	// Repositories
	subjectRepo := repository.NewSubjectRepository(rt.pool, logger)
	lessonRepo := repository.NewLessonRepository(rt.pool)
	accessRepo := repository.NewAccessRepository(rt.pool)
	chatRepo := repository.NewChatRepository(rt.pool)
	userRepo := repository.NewUserRepository(rt.pool)
	progressRepo := repository.NewProgressRepository(rt.pool)
	notificationRepo := repository.NewNotificationRepository(rt.pool)
	discountRepo := repository.NewDiscountRepository(rt.pool)
	quizRepo := repository.NewQuizRepository(rt.pool)
	answerRepo := repository.NewStudentAnswerRepository(rt.pool)

	completer, err := llm.New(ctx, llm.Config{
		Provider:     cfg.LLMProvider,
		GeminiAPIKey: cfg.GeminiAPIKey,
		GeminiModel:  cfg.GeminiModel,
		OpenAIAPIKey: cfg.OpenAIAPIKey,
		OpenAIModel:  cfg.OpenAIModel,
		MaxRetries:   cfg.LLMMaxRetries,
	}, logger.Named("llm"))
	if err != nil {
		return fmt.Errorf("create llm client: %w", err)
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	// Services
	checker := service.NewAccessChecker(accessRepo)
	assembler := service.NewContextAssembler(subjectRepo, lessonRepo, chatRepo, cfg.LessonExcerptRunes)
	chatService := service.NewChatService(checker, assembler, completer, chatRepo, subjectRepo, m, cfg.LLMTimeout, logger.Named("chat"))
	subjectService := service.NewSubjectService(subjectRepo, logger)
	lessonService := service.NewLessonService(lessonRepo, subjectRepo, logger)
	accessService := service.NewAccessService(accessRepo, subjectRepo, logger)
	progressService := service.NewProgressService(progressRepo, lessonRepo, checker, logger)
	notificationService := service.NewNotificationService(notificationRepo, logger)
	discountService := service.NewDiscountService(discountRepo, logger)
	quizService := service.NewQuizService(quizRepo, subjectRepo, logger)
	answerService := service.NewStudentAnswerService(answerRepo, quizRepo, checker, notificationService, logger)
	userService := service.NewUserService(userRepo, auth.NewIssuer([]byte(cfg.JWTSecret), cfg.SessionTTL), logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpapi.NewRouter(httpapi.Deps{
		Chat:          chatService,
		Subjects:      subjectService,
		Lessons:       lessonService,
		Access:        accessService,
		Progress:      progressService,
		Notifications: notificationService,
		Discounts:     discountService,
		Quizzes:       quizService,
		Answers:       answerService,
		Auth:          userService,
		Users:         userService,
		DB:            rt.pool,
		JWTSecret:     []byte(cfg.JWTSecret),
		Metrics:       m,
		Gatherer:      prometheus.DefaultGatherer,
		Logger:        logger.Named("http"),
	})

	scheduler := app.NewScheduler(accessRepo, lessonRepo, notificationService, cfg.ReminderInterval, m, logger.Named("scheduler"))

	// Всё, что может не собраться, создаётся до запуска фоновых задач
	var botController *controller.BotController
	if cfg.TelegramToken != "" {
		b, err := bot.New(cfg.TelegramToken)
		if err != nil {
			return fmt.Errorf("create telegram bot: %w", err)
		}
		botController = controller.NewBotController(b, chatService, userService, logger.Named("bot"))
		if err := botController.RegisterHandlers(ctx); err != nil {
			logger.Warn("Bot commands menu not set", zap.Error(err))
		}
	}

	tasks := []task{
		func(ctx context.Context) error { return httpapi.Serve(ctx, cfg.HTTPAddr, router, logger) },
		scheduler.Run,
	}
	if botController != nil {
		tasks = append(tasks, botController.Start)
	}

	if err := runTasks(ctx, tasks...); err != nil {
		return err
	}

	logger.Info("Stopped")
	return nil
}

type task func(ctx context.Context) error

// runTasks запускает задачи в одной errgroup и возвращается только после остановки
// всех задач. Ошибка одной задачи отменяет контекст остальных.
func runTasks(ctx context.Context, tasks ...task) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, t := range tasks {
		g.Go(func() error {
			return t(gctx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
