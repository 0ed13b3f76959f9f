package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lingvotest-bot/internal/bankcheck"
	"lingvotest-bot/internal/domain/model"
	"lingvotest-bot/internal/scoring"
)

// Шаги сессии управления банком вопросов.
const (
	stepGetStartMessage    = "get_start_message"
	stepHandleLanguageTest = "handle_language_test"
)

// CreatorHandlerAlias — псевдоним обработчика сессий управления банком вопросов.
const CreatorHandlerAlias = "language_test_creator_session_handler"

// Команды управления банком вопросов.
const (
	CommandAddQuestions    = "add_questions"
	CommandDeleteQuestions = "delete_questions"
	CommandUpdateQuestions = "update_questions"
)

// BankStore — срез хранилища для управления банком вопросов.
type BankStore interface {
	bankcheck.Catalog
	// AddQuestions сохраняет вопросы документа одной атомарной вставкой.
	AddQuestions(ctx context.Context, userID int64, doc *bankcheck.Document) error
	// UpdateQuestions заменяет уже существующие вопросы документа:
	// старые строки удаляются и вставляются заново, на месте не изменяются.
	UpdateQuestions(ctx context.Context, userID int64, doc *bankcheck.Document) error
	// DeleteQuestions удаляет вопросы пользователя по нормализованным текстам
	// и возвращает количество удаленных.
	DeleteQuestions(ctx context.Context, userID int64, questions []string) (int, error)
}

// CreatorHandler ведет создателя тестов по двум шагам: первый запоминает
// запрошенную команду и подсказывает формат, второй принимает документ или
// текст и всегда завершает сессию.
type CreatorHandler struct {
	*stateMachine
	store BankStore
}

// NewCreatorHandler создает обработчик сессий управления банком вопросов.
func NewCreatorHandler(store BankStore) *CreatorHandler {
	h := &CreatorHandler{
		stateMachine: newStateMachine(
			CreatorHandlerAlias,
			stepGetStartMessage,
			stepHandleLanguageTest,
		),
		store: store,
	}
	h.register(stepGetStartMessage, h.getStartMessage)
	h.register(stepHandleLanguageTest, h.handleLanguageTest)
	return h
}

// NewSession создает сессию управления банком вопросов.
func (h *CreatorHandler) NewSession(userID int64, created time.Time) *model.Session {
	return model.NewSession(h.alias, userID, created, &model.CreatorData{})
}

func (h *CreatorHandler) data(sess *model.Session) *model.CreatorData {
	return sess.Data.(*model.CreatorData)
}

// getStartMessage запоминает команду, с которой была открыта сессия,
// и просит прислать соответствующий данные.
func (h *CreatorHandler) getStartMessage(_ context.Context, sess *model.Session, input Input) (Outcome, error) {
	h.data(sess).Command = input.Text
	h.advance(sess)
	return reply(model.Answer{Text: StartMessageText(input.Text)}), nil
}

// StartMessageText возвращает подсказку для команды управления банком вопросов.
func StartMessageText(command string) string {
	switch command {
	case CommandAddQuestions:
		return "Пришлите JSON-документ с новыми вопросами.\n" +
			"Формат документа: {\"language\": код языка, \"test_type\": номер " +
			"типа теста, \"questions\": список вопросов с полями \"question\", " +
			"\"answers\" и \"right_answer\"}.\n" +
			"Пропуск в тексте вопроса обозначается тремя подчеркиваниями."
	case CommandUpdateQuestions:
		return "Пришлите JSON-документ с обновленными вопросами.\n" +
			"Старые версии вопросов будут удалены и заменены присланными."
	case CommandDeleteQuestions:
		return "Пришлите текст вопроса, который нужно удалить, либо текстовый " +
			"файл со списком вопросов — по одному вопросу в строке."
	default:
		return "Данная команда не поддерживается"
	}
}

// handleLanguageTest принимает данные для записанной команды.
// Шаг терминальный: сессия закрывается и при успехе, и при ошибке проверки.
func (h *CreatorHandler) handleLanguageTest(ctx context.Context, sess *model.Session, input Input) (Outcome, error) {
	command := h.data(sess).Command
	var outcome Outcome
	var err error
	switch command {
	case CommandAddQuestions:
		outcome, err = h.addQuestions(ctx, sess, input, true)
	case CommandDeleteQuestions:
		outcome, err = h.deleteQuestions(ctx, sess, input)
	case CommandUpdateQuestions:
		outcome, err = h.addQuestions(ctx, sess, input, false)
	default:
		return closeWith(model.Answer{Text: "Данная команда не поддерживается"}), nil
	}
	if err != nil {
		return Outcome{}, err
	}
	return outcome, nil
}

func (h *CreatorHandler) addQuestions(ctx context.Context, sess *model.Session, input Input, checkDuplicates bool) (Outcome, error) {
	if len(input.Document) == 0 {
		return closeWith(model.Answer{
			Text: "Ожидался документ с вопросами. Сессия завершена, " +
				"начните сначала нужной командой.",
		}), nil
	}

	doc, err := bankcheck.Check(ctx, input.Document, sess.UserID, h.store, checkDuplicates)
	if err != nil {
		var verr *bankcheck.Error
		if errors.As(err, &verr) {
			return closeWith(model.Answer{Text: verr.Message}), nil
		}
		return Outcome{}, err
	}

	if checkDuplicates {
		if err := h.store.AddQuestions(ctx, sess.UserID, doc); err != nil {
			return Outcome{}, err
		}
		return closeWith(model.Answer{Text: "Вопросы успешно добавлены."}), nil
	}
	if err := h.store.UpdateQuestions(ctx, sess.UserID, doc); err != nil {
		return Outcome{}, err
	}
	return closeWith(model.Answer{Text: "Вопросы успешно обновлены."}), nil
}

// deleteQuestions принимает либо одну строку с текстом вопроса, либо
// текстовый файл со списком вопросов по одному в строке.
func (h *CreatorHandler) deleteQuestions(ctx context.Context, sess *model.Session, input Input) (Outcome, error) {
	var questions []string
	switch {
	case len(input.Document) > 0:
		questions = splitQuestionLines(string(input.Document))
	case strings.TrimSpace(input.Text) != "":
		questions = []string{strings.TrimSpace(input.Text)}
	}
	if len(questions) == 0 {
		return closeWith(model.Answer{Text: "Вы прислали пустой список вопросов."}), nil
	}

	deleted, err := h.store.DeleteQuestions(ctx, sess.UserID, questions)
	if err != nil {
		return Outcome{}, err
	}
	if deleted == 0 {
		return closeWith(model.Answer{Text: "Ни один из присланных вопросов не найден."}), nil
	}
	return closeWith(model.Answer{
		Text: fmt.Sprintf("Удалено %s.", scoring.FormatQuestionsCount(deleted)),
	}), nil
}

func splitQuestionLines(text string) []string {
	var questions []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			questions = append(questions, line)
		}
	}
	return questions
}
