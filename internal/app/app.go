package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"gopkg.in/telebot.v4"

	"lingvotest-bot/internal/app/handlers/telegram/document_handler"
	"lingvotest-bot/internal/app/handlers/telegram/text_handler"
	"lingvotest-bot/internal/app/middleware"
	"lingvotest-bot/internal/dispatcher"
	questionsRepo "lingvotest-bot/internal/domain/questions/repository"
	questionsService "lingvotest-bot/internal/domain/questions/service"
	usersRepo "lingvotest-bot/internal/domain/users/repository"
	usersService "lingvotest-bot/internal/domain/users/service"
	"lingvotest-bot/internal/infra/config"
	"lingvotest-bot/internal/infra/poller"
	"lingvotest-bot/internal/session"
)

type Services struct {
	userService     *usersService.UserService
	questionService *questionsService.QuestionService
}

type App struct {
	config     *config.Config
	bot        *telebot.Bot
	db         *pgxpool.Pool
	dispatcher *dispatcher.Dispatcher

	Services
}

func NewApp(configPath string) (*App, error) {
	configImpl, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("config.LoadConfig: %w", err)
	}

	db, err := InitDatabase(configImpl)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := EnsureSchema(context.Background(), db, configImpl); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	app := &App{
		config: configImpl,
		db:     db,
	}

	app.initServices()

	if err := app.assignAdmins(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to assign admins: %w", err)
	}

	return app, nil
}

// Функция для инициализации сервисов и репозиториев
func (app *App) initServices() {
	// Инициализация репозиториев
	userRepo := usersRepo.NewUserRepository(app.db)
	questionRepo := questionsRepo.NewQuestionRepository(app.db)

	// Инициализация сервисов
	app.userService = usersService.NewUserService(userRepo)
	app.questionService = questionsService.NewQuestionService(questionRepo)

	// Диспетчер сессий поверх сервисов
	app.dispatcher = dispatcher.New(app.userService, app.questionService,
		app.config.TelegramBot.Name,
		time.Duration(app.config.Testing.SessionTimeoutMinutes)*time.Minute)
	app.dispatcher.RegisterHandlers(
		session.NewUserHandler(app.questionService,
			app.config.Testing.NumberAnswers, app.config.Testing.QuestionsPerTest),
		session.NewCreatorHandler(app.questionService),
	)
}

// assignAdmins выдает роль администратора пользователям из конфигурации
func (app *App) assignAdmins(ctx context.Context) error {
	now := time.Now()
	for _, adminID := range app.config.Admins {
		if err := app.userService.EnsureAdmin(ctx, adminID, now); err != nil {
			return err
		}
	}
	return nil
}

// ListenAndServe запускает бота и фоновую чистку неактивных сессий
func (app *App) ListenAndServe(ctx context.Context) error {
	bot, err := telebot.NewBot(telebot.Settings{
		Token:  app.config.TelegramBot.Token,
		Poller: poller.New(app.config),
	})
	if err != nil {
		return fmt.Errorf("telebot.NewBot: %w", err)
	}
	app.bot = bot

	app.bootstrapHandlersTelegram()

	go app.dispatcher.RunSessionReaper(ctx)
	go func() {
		<-ctx.Done()
		app.bot.Stop()
		app.db.Close()
	}()

	app.bot.Start()
	return nil
}

// bootstrapHandlersTelegram - регистрирует обработчики для бота
func (app *App) bootstrapHandlersTelegram() {
	app.bot.Use(middleware.Recover(), middleware.Logger())

	app.bot.Handle(telebot.OnText, text_handler.NewTextHandler(app.dispatcher).GetHandlerFunc())
	app.bot.Handle(telebot.OnDocument, document_handler.NewDocumentHandler(app.dispatcher).GetHandlerFunc())
}
