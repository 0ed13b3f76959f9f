package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"lingvotest-bot/internal/domain/model"
	"lingvotest-bot/internal/scoring"
)

// Шаги сессии прохождения теста.
const (
	stepSelectLanguage        = "select_language"
	stepSelectTestType        = "select_test_type"
	stepGenerateLanguageTest  = "generate_language_test"
	stepLanguageTestExecution = "language_test_execution"
)

// UserHandlerAlias — псевдоним обработчика сессий прохождения теста.
const UserHandlerAlias = "user_session_handler"

// TestStore — срез хранилища, нужный для прохождения теста.
type TestStore interface {
	IsSupportedLanguage(ctx context.Context, text string) (bool, error)
	LanguageID(ctx context.Context, name string) (int, error)
	LanguageNames(ctx context.Context) ([]string, error)
	IsSupportedTestType(ctx context.Context, text string) (bool, error)
	TestTypeID(ctx context.Context, name string) (int, error)
	TestTypeNames(ctx context.Context, languageID int) ([]string, error)
	// BuildLanguageTest подбирает вопросы без повторов для пользователя
	// и собирает из них тест с перемешанными вариантами.
	BuildLanguageTest(ctx context.Context, userID int64, languageID, testTypeID, numberAnswers, limit int) (*model.LanguageTest, error)
	// SaveAnswers сохраняет ответы завершенного теста одной записью на вопрос,
	// индексы приведены к исходному порядку вариантов.
	SaveAnswers(ctx context.Context, userID int64, test *model.LanguageTest) error
}

// UserHandler ведет пользователя по шагам прохождения теста:
// выбор языка, выбор типа теста, генерация теста и ответы на вопросы.
type UserHandler struct {
	*stateMachine
	store         TestStore
	numberAnswers int
	limit         int
}

// NewUserHandler создает обработчик сессий прохождения теста.
// numberAnswers — количество вариантов ответа в вопросах одного теста,
// limit — максимальное количество вопросов в тесте.
func NewUserHandler(store TestStore, numberAnswers, limit int) *UserHandler {
	h := &UserHandler{
		stateMachine: newStateMachine(
			UserHandlerAlias,
			stepSelectLanguage,
			stepSelectTestType,
			stepGenerateLanguageTest,
			stepLanguageTestExecution,
		),
		store:         store,
		numberAnswers: numberAnswers,
		limit:         limit,
	}
	h.register(stepSelectLanguage, h.selectLanguage)
	h.register(stepSelectTestType, h.selectTestType)
	h.register(stepGenerateLanguageTest, h.generateLanguageTest)
	h.register(stepLanguageTestExecution, h.languageTestExecution)
	return h
}

// NewSession создает сессию прохождения теста.
func (h *UserHandler) NewSession(userID int64, created time.Time) *model.Session {
	return model.NewSession(h.alias, userID, created, &model.TestingData{})
}

func (h *UserHandler) data(sess *model.Session) *model.TestingData {
	return sess.Data.(*model.TestingData)
}

func (h *UserHandler) selectLanguage(ctx context.Context, sess *model.Session, input Input) (Outcome, error) {
	supported := false
	if !input.Empty {
		var err error
		supported, err = h.store.IsSupportedLanguage(ctx, input.Text)
		if err != nil {
			return Outcome{}, err
		}
	}
	if !supported {
		languages, err := h.store.LanguageNames(ctx)
		if err != nil {
			return Outcome{}, err
		}
		text := "Выберите один из доступных языков."
		if !input.Empty {
			text = fmt.Sprintf("Вы прислали неподдерживаемый язык.\n%s", text)
		}
		return reply(model.Answer{Text: text, Keyboard: model.NewKeyboard(1, languages...)}), nil
	}

	languageID, err := h.store.LanguageID(ctx, strings.TrimSpace(input.Text))
	if err != nil {
		return Outcome{}, err
	}
	h.data(sess).LanguageID = languageID
	h.advance(sess)
	return h.Handle(ctx, sess, NoInput)
}

func (h *UserHandler) selectTestType(ctx context.Context, sess *model.Session, input Input) (Outcome, error) {
	supported := false
	if !input.Empty {
		var err error
		supported, err = h.store.IsSupportedTestType(ctx, input.Text)
		if err != nil {
			return Outcome{}, err
		}
	}
	if !supported {
		testTypes, err := h.store.TestTypeNames(ctx, h.data(sess).LanguageID)
		if err != nil {
			return Outcome{}, err
		}
		text := "Выберите один из доступных типов теста."
		if !input.Empty {
			text = fmt.Sprintf("Вы прислали неверный тип теста\n%s", text)
		}
		return reply(model.Answer{Text: text, Keyboard: model.NewKeyboard(1, testTypes...)}), nil
	}

	testTypeID, err := h.store.TestTypeID(ctx, strings.TrimSpace(input.Text))
	if err != nil {
		return Outcome{}, err
	}
	h.data(sess).TestTypeID = testTypeID
	h.advance(sess)
	return h.Handle(ctx, sess, NoInput)
}

// generateLanguageTest — проходной шаг без пользовательского ввода:
// подбирает вопросы и безусловно продвигает сессию к выполнению теста.
func (h *UserHandler) generateLanguageTest(ctx context.Context, sess *model.Session, _ Input) (Outcome, error) {
	data := h.data(sess)
	test, err := h.store.BuildLanguageTest(ctx, sess.UserID, data.LanguageID, data.TestTypeID, h.numberAnswers, h.limit)
	if err != nil {
		return Outcome{}, err
	}
	data.LanguageTest = test
	h.advance(sess)
	return h.Handle(ctx, sess, NoInput)
}

func (h *UserHandler) languageTestExecution(ctx context.Context, sess *model.Session, input Input) (Outcome, error) {
	test := h.data(sess).LanguageTest
	if input.Empty {
		startMessage := fmt.Sprintf("Давайте начнём!\n"+
			"Выберите ваш вариант ответа вместо пропусков.\n"+
			"Тест состоит из %d вопросов.", len(test.Questions))
		question, keyboard := formatQuestion(test.GetCurrentQuestion(), test.CurrentQuestion+1)
		return reply(
			model.Answer{Text: startMessage},
			model.Answer{Text: question, Keyboard: keyboard},
		), nil
	}

	answer, ok := parseAnswer(input.Text, test.NumberAnswers)
	if !ok {
		return reply(model.Answer{
			Text:     fmt.Sprintf("Ответ д. б. в диапазоне от 1 до %d", test.NumberAnswers),
			Keyboard: numbersKeyboard(test.NumberAnswers),
		}), nil
	}
	return h.processAnswer(ctx, sess, answer)
}

func (h *UserHandler) processAnswer(ctx context.Context, sess *model.Session, answer int) (Outcome, error) {
	test := h.data(sess).LanguageTest
	test.RegisterAnswer(answer)
	if test.HasNextQuestion() {
		test.CurrentQuestion++
		question, keyboard := formatQuestion(test.GetCurrentQuestion(), test.CurrentQuestion+1)
		return reply(model.Answer{Text: question, Keyboard: keyboard}), nil
	}

	if err := h.store.SaveAnswers(ctx, sess.UserID, test); err != nil {
		return Outcome{}, err
	}
	return closeWith(model.Answer{Text: scoring.Result(test)}), nil
}

// formatQuestion возвращает текст вопроса с пронумерованными вариантами
// и клавиатуру с номерами вариантов.
func formatQuestion(question model.GeneratedQuestion, number int) (string, *model.Keyboard) {
	lines := make([]string, 0, len(question.Answers))
	for index, answer := range question.Answers {
		lines = append(lines, fmt.Sprintf("%d. %s", index+1, answer))
	}
	text := fmt.Sprintf("%d. %s\n\n%s", number, question.Question, strings.Join(lines, "\n"))
	return text, numbersKeyboard(len(question.Answers))
}

func numbersKeyboard(numberAnswers int) *model.Keyboard {
	buttons := make([]string, 0, numberAnswers)
	for i := 1; i <= numberAnswers; i++ {
		buttons = append(buttons, strconv.Itoa(i))
	}
	return model.NewKeyboard(2, buttons...)
}

func parseAnswer(text string, numberAnswers int) (int, bool) {
	number, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, false
	}
	return number, number >= 1 && number <= numberAnswers
}
