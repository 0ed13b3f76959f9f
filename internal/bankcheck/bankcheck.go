// Package bankcheck проверяет документы с вопросами, присылаемые
// создателями тестов. Любое нарушение возвращается как *Error с готовым
// текстом для пользователя.
package bankcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"lingvotest-bot/internal/domain/model"
)

// Catalog — срез хранилища, нужный для проверки документа.
type Catalog interface {
	LanguageCodes(ctx context.Context) ([]string, error)
	TestTypeIDs(ctx context.Context) ([]int, error)
	// QuestionsForUser возвращает отображение нормализованного текста
	// вопроса на его идентификатор для проверки дубликатов.
	QuestionsForUser(ctx context.Context, userID int64) (map[string]int, error)
}

// Document — разобранный и проверенный документ с вопросами.
type Document struct {
	Language   string
	TestTypeID int
	Questions  []DocumentQuestion
}

// DocumentQuestion — один вопрос из документа.
type DocumentQuestion struct {
	Question    string
	Answers     []string
	RightAnswer string
}

// Границы количества вариантов ответа на один вопрос.
const (
	MinAnswers = 2
	MaxAnswers = 8
)

// Check разбирает документ из буфера и проверяет его содержимое.
// При checkDuplicates дополнительно сверяет нормализованные тексты вопросов
// с уже загруженными вопросами пользователя; для обновления вопросов
// проверка дубликатов отключается. Неожиданные сбои разбора сворачиваются
// в общую ошибку о некорректном документе.
func Check(ctx context.Context, buf []byte, userID int64, catalog Catalog, checkDuplicates bool) (*Document, error) {
	var raw map[string]any
	if err := json.Unmarshal(buf, &raw); err != nil {
		return nil, newError(KindFile,
			"Не удалось прочитать JSON.\n"+
				"Пожалуйста, проверьте корректность вашего документа, а также "+
				"убедитесь в том, что он сохранён в кодировке UTF-8.")
	}

	doc, err := parseDocument(raw)
	if err != nil {
		return nil, err
	}

	if err := checkLanguage(ctx, catalog, doc.Language); err != nil {
		return nil, err
	}
	if err := checkTestType(ctx, catalog, doc.TestTypeID); err != nil {
		return nil, err
	}
	if err := checkQuestions(doc.Questions); err != nil {
		return nil, err
	}
	if checkDuplicates {
		if err := checkDuplicateQuestions(ctx, catalog, userID, doc.Questions); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func parseDocument(raw map[string]any) (*Document, error) {
	for _, key := range []string{"language", "test_type", "questions"} {
		if raw[key] == nil {
			return nil, newError(KindKeyMissing,
				fmt.Sprintf("В вашем JSON отсутствует ключ - %s", key))
		}
	}

	language, ok := raw["language"].(string)
	if !ok {
		return nil, keyTypeError("language", "строка")
	}

	testTypeID, err := parseTestTypeID(raw["test_type"])
	if err != nil {
		return nil, err
	}

	rawQuestions, ok := raw["questions"].([]any)
	if !ok {
		return nil, keyTypeError("questions", "список")
	}

	questions := make([]DocumentQuestion, 0, len(rawQuestions))
	for _, rawQuestion := range rawQuestions {
		question, err := parseQuestion(rawQuestion)
		if err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}

	return &Document{
		Language:   strings.ToUpper(strings.TrimSpace(language)),
		TestTypeID: testTypeID,
		Questions:  questions,
	}, nil
}

func parseTestTypeID(value any) (int, error) {
	switch v := value.(type) {
	case float64:
		// JSON не различает целые и дробные числа, дробные не принимаются.
		if v != math.Trunc(v) {
			return 0, keyTypeError("test_type", "число")
		}
		return int(v), nil
	case string:
		id, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, newError(KindTestType,
				`Вы прислали некорректное число в поле "test_type"`)
		}
		return id, nil
	default:
		return 0, keyTypeError("test_type", "число")
	}
}

func parseQuestion(value any) (DocumentQuestion, error) {
	raw, ok := value.(map[string]any)
	if !ok {
		return DocumentQuestion{}, keyTypeError("questions", "список вопросов")
	}
	for _, key := range []string{"question", "answers", "right_answer"} {
		if raw[key] == nil {
			return DocumentQuestion{}, newError(KindKeyMissing,
				fmt.Sprintf("В вашем JSON отсутствует ключ - %s", key))
		}
	}

	question, ok := raw["question"].(string)
	if !ok {
		return DocumentQuestion{}, keyTypeError("question", "строка")
	}
	rightAnswer, ok := raw["right_answer"].(string)
	if !ok {
		return DocumentQuestion{}, keyTypeError("right_answer", "строка")
	}
	rawAnswers, ok := raw["answers"].([]any)
	if !ok {
		return DocumentQuestion{}, keyTypeError("answers", "список")
	}
	answers := make([]string, 0, len(rawAnswers))
	for _, rawAnswer := range rawAnswers {
		answer, ok := rawAnswer.(string)
		if !ok {
			return DocumentQuestion{}, keyTypeError("answers", "список строк")
		}
		answers = append(answers, answer)
	}

	return DocumentQuestion{
		Question:    question,
		Answers:     answers,
		RightAnswer: rightAnswer,
	}, nil
}

func keyTypeError(key, wantType string) *Error {
	return newError(KindKeyType,
		fmt.Sprintf("Значение в поле \"%s\" содержит неверный тип данных.\n"+
			"Корректный тип данных для данного поля - %s", key, wantType))
}

func checkLanguage(ctx context.Context, catalog Catalog, language string) error {
	codes, err := catalog.LanguageCodes(ctx)
	if err != nil {
		return fmt.Errorf("failed to get language codes: %w", err)
	}
	for _, code := range codes {
		if code == language {
			return nil
		}
	}
	return newError(KindLanguage,
		"Вы прислали неподдерживаемый язык.\n Для получения списка актуальных "+
			"языков пришлите команду /languages_list")
}

func checkTestType(ctx context.Context, catalog Catalog, testTypeID int) error {
	ids, err := catalog.TestTypeIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to get test type ids: %w", err)
	}
	for _, id := range ids {
		if id == testTypeID {
			return nil
		}
	}
	return newError(KindTestType,
		"Вы прислали неподдерживаемый тип теста.\n Для получения "+
			"актуального списка типов тестов пришлите команду /test_types_list")
}

func checkQuestions(questions []DocumentQuestion) error {
	if len(questions) == 0 {
		return newError(KindEmptyQuestions, "Вы прислали пустой список вопросов.")
	}
	for _, question := range questions {
		if len(question.Answers) < MinAnswers || len(question.Answers) > MaxAnswers {
			return newError(KindNumberAnswers,
				fmt.Sprintf("Количество ответов на вопрос должно быть в диапазоне "+
					"от %d до %d (вопрос - \"%s\")", MinAnswers, MaxAnswers, question.Question))
		}
		if !containsAnswer(question.Answers, question.RightAnswer) {
			return newError(KindRightAnswer,
				fmt.Sprintf("Указанный вами правильный ответ - \"%s\" отсутствует "+
					"в списке ответов на вопрос - \"%s\"",
					question.RightAnswer, question.Question))
		}
	}
	return nil
}

// checkDuplicateQuestions выполняется один раз на весь документ: тексты
// нормализуются и сверяются с уже загруженными вопросами пользователя.
func checkDuplicateQuestions(ctx context.Context, catalog Catalog, userID int64, questions []DocumentQuestion) error {
	existing, err := catalog.QuestionsForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get existing questions: %w", err)
	}
	var duplicates []string
	for _, question := range questions {
		normalized := model.NormalizeQuestion(question.Question)
		if _, ok := existing[normalized]; ok {
			duplicates = append(duplicates, normalized)
		}
	}
	if len(duplicates) == 0 {
		return nil
	}
	lines := make([]string, 0, len(duplicates))
	for index, duplicate := range duplicates {
		lines = append(lines, fmt.Sprintf("%d. %s", index+1, duplicate))
	}
	return newError(KindDuplicateQuestion,
		fmt.Sprintf("Обнаружены вопросы, которые ранее уже были загружены.\n"+
			"Список вопросов:\n%s\n\n"+
			"Пожалуйста, удалите эти вопросы из вашего файла и повторите "+
			"попытку снова.", strings.Join(lines, "\n")))
}

func containsAnswer(answers []string, answer string) bool {
	for _, a := range answers {
		if a == answer {
			return true
		}
	}
	return false
}
