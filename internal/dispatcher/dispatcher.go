// Package dispatcher — верхний маршрутизатор диалога: разбирает команды,
// проверяет роли, владеет таблицей сессий и передает свободный текст и
// документы обработчику открытой сессии пользователя.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"lingvotest-bot/internal/domain/model"
	"lingvotest-bot/internal/session"
)

// ErrUnclosedSession возвращается при попытке открыть вторую сессию
// для пользователя, у которого уже есть открытая.
var ErrUnclosedSession = errors.New(
	"Вы должны завершить предыдущую сессию.\n Введите команду " +
		"/reset, если хотите начать сначала.")

// Тексты ответов по умолчанию.
const (
	invalidMessageText     = "Для начала работы с ботом используйте одну из доступных команд"
	unsupportedCommandText = "Данная команда не поддерживается"
)

// IdleTimeout — время жизни неактивной сессии по умолчанию. Фоновая чистка
// просыпается каждые треть таймаута, поэтому фактическое закрытие может
// запоздать на длительность одного интервала.
const IdleTimeout = 30 * time.Minute

// UserStore — срез хранилища пользователей, нужный диспетчеру.
type UserStore interface {
	IsNewUser(ctx context.Context, userID int64) (bool, error)
	// RegisterUser заводит пользователя; непустой deepLink может дать
	// повышенную роль, если токен действителен и не использован.
	RegisterUser(ctx context.Context, userID int64, date time.Time, deepLink string) error
	// UpgradeRole повышает роль существующего пользователя по токену.
	// Роль администратора никогда не понижается.
	UpgradeRole(ctx context.Context, userID int64, date time.Time, deepLink string) error
	UserRole(ctx context.Context, userID int64) (string, error)
	// CreateDeepLink выпускает одноразовый пригласительный токен.
	CreateDeepLink(ctx context.Context, creatorID int64) (string, error)
}

// InfoStore — форматированные списки для информационных команд.
type InfoStore interface {
	FormattedLanguagesList(ctx context.Context) (string, error)
	FormattedTestTypesList(ctx context.Context) (string, error)
}

// Dispatcher владеет таблицей сессий: не более одной открытой сессии
// на пользователя. Доступ к таблице сериализован мьютексом, фоновая
// чистка только удаляет записи.
type Dispatcher struct {
	users UserStore
	info  InfoStore

	mu       sync.Mutex
	handlers map[string]session.Handler
	sessions map[int64]*model.Session

	idleTimeout time.Duration
	botName     string
}

// New создает диспетчер. botName используется для сборки пригласительной
// ссылки, пустое значение оставляет голый токен. Неположительный idleTimeout
// заменяется значением по умолчанию.
func New(users UserStore, info InfoStore, botName string, idleTimeout time.Duration) *Dispatcher {
	if idleTimeout <= 0 {
		idleTimeout = IdleTimeout
	}
	return &Dispatcher{
		users:       users,
		info:        info,
		handlers:    make(map[string]session.Handler),
		sessions:    make(map[int64]*model.Session),
		idleTimeout: idleTimeout,
		botName:     botName,
	}
}

// RegisterHandlers регистрирует обработчики сессий по их псевдонимам.
func (d *Dispatcher) RegisterHandlers(handlers ...session.Handler) {
	for _, handler := range handlers {
		d.handlers[handler.Alias()] = handler
	}
}

// HandleText обрабатывает текстовое сообщение: команды маршрутизируются
// по категориям, остальной текст уходит в открытую сессию пользователя.
func (d *Dispatcher) HandleText(ctx context.Context, userID int64, text string, date time.Time) (session.Outcome, error) {
	if isBotCommand(text) {
		return d.handleCommand(ctx, userID, text, date)
	}
	return d.forwardToSession(ctx, userID, session.TextInput(text))
}

// HandleDocument передает документ обработчику открытой сессии.
func (d *Dispatcher) HandleDocument(ctx context.Context, userID int64, document []byte) (session.Outcome, error) {
	return d.forwardToSession(ctx, userID, session.DocumentInput(document))
}

func (d *Dispatcher) handleCommand(ctx context.Context, userID int64, text string, date time.Time) (session.Outcome, error) {
	command, deepLink := parseBotCommand(text)

	if _, ok := startCommands[command]; ok {
		return d.handleStartCommand(ctx, userID, command, date, deepLink)
	}
	if _, ok := userCommands[command]; ok {
		return d.handleUserCommand(ctx, userID, date)
	}
	if _, ok := creatorCommands[command]; ok {
		return d.handleCreatorCommand(ctx, userID, command, date)
	}
	if _, ok := informationCommands[command]; ok {
		return d.handleInformationCommand(ctx, userID, command)
	}
	if _, ok := adminCommands[command]; ok {
		return d.handleAdminCommand(ctx, userID, command)
	}
	return textReply(unsupportedCommandText), nil
}

func (d *Dispatcher) forwardToSession(ctx context.Context, userID int64, input session.Input) (session.Outcome, error) {
	d.mu.Lock()
	sess, ok := d.sessions[userID]
	d.mu.Unlock()
	if !ok {
		return textReply(invalidMessageText), nil
	}

	handler := d.handlers[sess.HandlerAlias]
	outcome, err := handler.Handle(ctx, sess, input)
	if err != nil {
		return session.Outcome{}, err
	}
	if outcome.Close {
		d.CloseSession(userID)
	}
	return outcome, nil
}

// handleStartCommand регистрирует нового пользователя (с учетом
// пригласительного токена), повышает роль вернувшегося пользователя со
// свежим токеном, безусловно закрывает текущую сессию и возвращает
// справку, соответствующую роли.
func (d *Dispatcher) handleStartCommand(ctx context.Context, userID int64, command string, date time.Time, deepLink string) (session.Outcome, error) {
	if command == "start" {
		isNew, err := d.users.IsNewUser(ctx, userID)
		if err != nil {
			return session.Outcome{}, err
		}
		if isNew {
			if err := d.users.RegisterUser(ctx, userID, date, deepLink); err != nil {
				return session.Outcome{}, err
			}
		} else if deepLink != "" {
			if err := d.users.UpgradeRole(ctx, userID, date, deepLink); err != nil {
				return session.Outcome{}, err
			}
		}
	}
	d.CloseSession(userID)

	role, err := d.users.UserRole(ctx, userID)
	if err != nil {
		return session.Outcome{}, err
	}
	return textReply(startMessage(command, role)), nil
}

func (d *Dispatcher) handleUserCommand(ctx context.Context, userID int64, date time.Time) (session.Outcome, error) {
	handler := d.handlers[session.UserHandlerAlias]
	sess, err := d.createSession(userID, date, handler)
	if err != nil {
		if errors.Is(err, ErrUnclosedSession) {
			return textReply(err.Error()), nil
		}
		return session.Outcome{}, err
	}
	return handler.Handle(ctx, sess, session.NoInput)
}

func (d *Dispatcher) handleCreatorCommand(ctx context.Context, userID int64, command string, date time.Time) (session.Outcome, error) {
	role, err := d.users.UserRole(ctx, userID)
	if err != nil {
		return session.Outcome{}, err
	}
	// Незарегистрированный пользователь имеет пустую роль и не проходит.
	if role != model.RoleTestCreator && role != model.RoleAdmin {
		return textReply(unsupportedCommandText), nil
	}

	handler := d.handlers[session.CreatorHandlerAlias]
	sess, err := d.createSession(userID, date, handler)
	if err != nil {
		if errors.Is(err, ErrUnclosedSession) {
			return textReply(err.Error()), nil
		}
		return session.Outcome{}, err
	}
	return handler.Handle(ctx, sess, session.TextInput(command))
}

func (d *Dispatcher) handleInformationCommand(ctx context.Context, userID int64, command string) (session.Outcome, error) {
	role, err := d.users.UserRole(ctx, userID)
	if err != nil {
		return session.Outcome{}, err
	}
	if role != model.RoleTestCreator && role != model.RoleAdmin {
		return textReply(unsupportedCommandText), nil
	}

	var text string
	switch command {
	case "languages_list":
		text, err = d.info.FormattedLanguagesList(ctx)
	case "test_types_list":
		text, err = d.info.FormattedTestTypesList(ctx)
	}
	if err != nil {
		return session.Outcome{}, err
	}
	return textReply(text), nil
}

func (d *Dispatcher) handleAdminCommand(ctx context.Context, userID int64, command string) (session.Outcome, error) {
	role, err := d.users.UserRole(ctx, userID)
	if err != nil {
		return session.Outcome{}, err
	}
	if role != model.RoleAdmin {
		return textReply(unsupportedCommandText), nil
	}
	if command != "create_deep_link" {
		return textReply(unsupportedCommandText), nil
	}

	deepLink, err := d.users.CreateDeepLink(ctx, userID)
	if err != nil {
		return session.Outcome{}, err
	}
	if d.botName != "" {
		deepLink = fmt.Sprintf("https://t.me/%s?start=%s", d.botName, deepLink)
	}
	return textReply(fmt.Sprintf("Ссылка успешно создана.\n%s", deepLink)), nil
}

// createSession открывает сессию для пользователя. Открытие при уже
// существующей сессии — ошибка протокола, существующая сессия сохраняется.
func (d *Dispatcher) createSession(userID int64, date time.Time, handler session.Handler) (*model.Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.sessions[userID]; ok {
		return nil, ErrUnclosedSession
	}
	sess := handler.NewSession(userID, date)
	d.sessions[userID] = sess
	return sess, nil
}

// CloseSession закрывает сессию пользователя, если она открыта.
func (d *Dispatcher) CloseSession(userID int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.sessions, userID)
}

// HasSession сообщает, открыта ли сессия пользователя.
func (d *Dispatcher) HasSession(userID int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.sessions[userID]
	return ok
}

// CloseOldSessions закрывает все сессии старше таймаута и возвращает
// количество закрытых.
func (d *Dispatcher) CloseOldSessions(now time.Time) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	closed := 0
	for userID, sess := range d.sessions {
		if now.Sub(sess.Created) > d.idleTimeout {
			delete(d.sessions, userID)
			closed++
		}
	}
	return closed
}

// RunSessionReaper запускает фоновую чистку неактивных сессий.
// Чистка просыпается каждые idleTimeout/3 и завершается с отменой контекста.
func (d *Dispatcher) RunSessionReaper(ctx context.Context) {
	ticker := time.NewTicker(d.idleTimeout / 3)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			d.CloseOldSessions(now)
		}
	}
}

func textReply(text string) session.Outcome {
	return session.Outcome{Answers: []model.Answer{{Text: text}}}
}

// startMessage собирает справку по команде /start или /reset
// в зависимости от роли пользователя.
func startMessage(command, role string) string {
	const greeting = "Привет!\n" +
		"С помощью этого бота вы сможете проверить ваши знания грамматики " +
		"и лексики иностранного языка.\n\n"
	const userCommandsHelp = "Для того, чтобы начать тест, введите /begin_test.\n"
	const creatorCommandsHelp = "Для того, чтобы получить список языков, введите /languages_list.\n" +
		"Для того, чтобы получить список доступных типов тестов, введите " +
		"/test_types_list.\nДля того, чтобы добавить вопросы, введите " +
		"/add_questions, чтобы обновить  - /update_questions, чтобы удалить " +
		"- /delete_questions.\n"
	const adminCommandsHelp = "Для того, чтобы создать deeplink, введите /create_deep_link."

	// Неизвестная роль получает базовую справку, не административную.
	var text string
	switch role {
	case model.RoleAdmin:
		text = userCommandsHelp + creatorCommandsHelp + adminCommandsHelp
	case model.RoleTestCreator:
		text = userCommandsHelp + creatorCommandsHelp
	default:
		text = userCommandsHelp
	}
	if command == "start" {
		text = greeting + text
	}
	return text
}
