package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"lingvotest-bot/internal/bankcheck"
	"lingvotest-bot/internal/domain/model"
	"lingvotest-bot/internal/domain/questions/repository"
	"lingvotest-bot/internal/testgen"
)

// QuestionService для работы с банком вопросов и сборки тестов
type QuestionService struct {
	questionRepo *repository.QuestionRepository
}

// NewQuestionService создает новый экземпляр QuestionService
func NewQuestionService(questionRepo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{questionRepo: questionRepo}
}

// IsSupportedLanguage проверяет, поддерживается ли язык с таким названием
func (s *QuestionService) IsSupportedLanguage(ctx context.Context, text string) (bool, error) {
	id, err := s.questionRepo.GetLanguageIDByName(ctx, normalizeName(text))
	if err != nil {
		return false, fmt.Errorf("failed to check language: %w", err)
	}
	return id != 0, nil
}

// LanguageID получает идентификатор языка по названию
func (s *QuestionService) LanguageID(ctx context.Context, name string) (int, error) {
	id, err := s.questionRepo.GetLanguageIDByName(ctx, normalizeName(name))
	if err != nil {
		return 0, fmt.Errorf("failed to get language id: %w", err)
	}
	if id == 0 {
		return 0, fmt.Errorf("language %q not found", name)
	}
	return id, nil
}

// LanguageNames получает названия всех языков
func (s *QuestionService) LanguageNames(ctx context.Context) ([]string, error) {
	languages, err := s.questionRepo.GetLanguages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get languages: %w", err)
	}
	names := make([]string, 0, len(languages))
	for _, language := range languages {
		names = append(names, language.Name)
	}
	return names, nil
}

// IsSupportedTestType проверяет, поддерживается ли тип теста с таким названием
func (s *QuestionService) IsSupportedTestType(ctx context.Context, text string) (bool, error) {
	id, err := s.questionRepo.GetTestTypeIDByName(ctx, normalizeName(text))
	if err != nil {
		return false, fmt.Errorf("failed to check test type: %w", err)
	}
	return id != 0, nil
}

// TestTypeID получает идентификатор типа теста по названию
func (s *QuestionService) TestTypeID(ctx context.Context, name string) (int, error) {
	id, err := s.questionRepo.GetTestTypeIDByName(ctx, normalizeName(name))
	if err != nil {
		return 0, fmt.Errorf("failed to get test type id: %w", err)
	}
	if id == 0 {
		return 0, fmt.Errorf("test type %q not found", name)
	}
	return id, nil
}

// TestTypeNames получает названия типов тестов, по которым есть вопросы
// на заданном языке. Если таких нет, возвращает все типы.
func (s *QuestionService) TestTypeNames(ctx context.Context, languageID int) ([]string, error) {
	testTypes, err := s.questionRepo.GetTestTypesForLanguage(ctx, languageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get test types: %w", err)
	}
	if len(testTypes) == 0 {
		testTypes, err = s.questionRepo.GetTestTypes(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get test types: %w", err)
		}
	}
	names := make([]string, 0, len(testTypes))
	for _, testType := range testTypes {
		names = append(names, testType.Type)
	}
	return names, nil
}

// BuildLanguageTest подбирает вопросы и собирает из них тест с перемешанными
// вариантами ответов. Сначала берутся вопросы, на которые пользователь еще
// не отвечал правильно; если их меньше лимита, тест добирается уже пройденными.
func (s *QuestionService) BuildLanguageTest(ctx context.Context, userID int64, languageID, testTypeID, numberAnswers, limit int) (*model.LanguageTest, error) {
	passed, err := s.questionRepo.GetPassedQuestionIDs(ctx, userID, languageID, testTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get passed questions: %w", err)
	}

	rows, err := s.questionRepo.GetRandomQuestions(ctx, languageID, testTypeID, numberAnswers, passed, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}

	if len(rows) < limit {
		exclude := make([]int, 0, len(rows))
		for _, row := range rows {
			exclude = append(exclude, row.ID)
		}
		extra, err := s.questionRepo.GetRandomQuestions(ctx, languageID, testTypeID, numberAnswers, exclude, limit-len(rows))
		if err != nil {
			return nil, fmt.Errorf("failed to get extra questions: %w", err)
		}
		rows = append(rows, extra...)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no questions for language %d and test type %d", languageID, testTypeID)
	}
	return testgen.Generate(rows), nil
}

// SaveAnswers сохраняет ответы завершенного теста. Индексы ответов приводятся
// к исходному порядку вариантов, чтобы не зависеть от перемешивания.
func (s *QuestionService) SaveAnswers(ctx context.Context, userID int64, test *model.LanguageTest) error {
	now := time.Now()
	answers := make([]model.UserAnswer, 0, len(test.Questions))
	for i, question := range test.Questions {
		answer := test.UserAnswers[i]
		if answer != model.Unanswered {
			answer = question.OriginalIndex(answer)
		}
		answers = append(answers, model.UserAnswer{
			UserID:     userID,
			QuestionID: question.QuestionID,
			Answer:     answer,
			CreatedAt:  now,
		})
	}
	if err := s.questionRepo.InsertUserAnswers(ctx, answers); err != nil {
		return fmt.Errorf("failed to save answers: %w", err)
	}
	return nil
}

// LanguageCodes получает коды всех языков
func (s *QuestionService) LanguageCodes(ctx context.Context) ([]string, error) {
	languages, err := s.questionRepo.GetLanguages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get languages: %w", err)
	}
	codes := make([]string, 0, len(languages))
	for _, language := range languages {
		codes = append(codes, language.Code)
	}
	return codes, nil
}

// TestTypeIDs получает идентификаторы всех типов тестов
func (s *QuestionService) TestTypeIDs(ctx context.Context) ([]int, error) {
	testTypes, err := s.questionRepo.GetTestTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get test types: %w", err)
	}
	ids := make([]int, 0, len(testTypes))
	for _, testType := range testTypes {
		ids = append(ids, testType.ID)
	}
	return ids, nil
}

// QuestionsForUser получает вопросы пользователя по нормализованному тексту
func (s *QuestionService) QuestionsForUser(ctx context.Context, userID int64) (map[string]int, error) {
	questions, err := s.questionRepo.GetQuestionsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user questions: %w", err)
	}
	return questions, nil
}

// AddQuestions сохраняет вопросы проверенного документа
func (s *QuestionService) AddQuestions(ctx context.Context, userID int64, doc *bankcheck.Document) error {
	questions, err := s.documentQuestions(ctx, userID, doc)
	if err != nil {
		return err
	}
	if err := s.questionRepo.InsertQuestions(ctx, questions); err != nil {
		return fmt.Errorf("failed to add questions: %w", err)
	}
	return nil
}

// UpdateQuestions заменяет уже существующие вопросы документа: старые строки
// с совпадающим нормализованным текстом удаляются и вставляются заново.
func (s *QuestionService) UpdateQuestions(ctx context.Context, userID int64, doc *bankcheck.Document) error {
	existing, err := s.questionRepo.GetQuestionsForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user questions: %w", err)
	}

	var ids []int
	for _, question := range doc.Questions {
		if id, ok := existing[model.NormalizeQuestion(question.Question)]; ok {
			ids = append(ids, id)
		}
	}
	if len(ids) > 0 {
		if _, err := s.questionRepo.DeleteQuestionsByID(ctx, ids); err != nil {
			return fmt.Errorf("failed to delete old questions: %w", err)
		}
	}

	questions, err := s.documentQuestions(ctx, userID, doc)
	if err != nil {
		return err
	}
	if err := s.questionRepo.InsertQuestions(ctx, questions); err != nil {
		return fmt.Errorf("failed to insert questions: %w", err)
	}
	return nil
}

// DeleteQuestions удаляет вопросы пользователя по текстам и возвращает
// количество удаленных. Тексты сопоставляются после нормализации.
func (s *QuestionService) DeleteQuestions(ctx context.Context, userID int64, questions []string) (int, error) {
	existing, err := s.questionRepo.GetQuestionsForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get user questions: %w", err)
	}

	var ids []int
	for _, question := range questions {
		if id, ok := existing[model.NormalizeQuestion(question)]; ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	deleted, err := s.questionRepo.DeleteQuestionsByID(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete questions: %w", err)
	}
	return deleted, nil
}

// FormattedLanguagesList возвращает список языков для информационной команды
func (s *QuestionService) FormattedLanguagesList(ctx context.Context) (string, error) {
	languages, err := s.questionRepo.GetLanguages(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get languages: %w", err)
	}
	lines := make([]string, 0, len(languages)+1)
	lines = append(lines, "Список доступных языков:")
	for _, language := range languages {
		lines = append(lines, fmt.Sprintf("%s - %s", language.Code, language.Name))
	}
	return strings.Join(lines, "\n"), nil
}

// FormattedTestTypesList возвращает список типов тестов для информационной команды
func (s *QuestionService) FormattedTestTypesList(ctx context.Context) (string, error) {
	testTypes, err := s.questionRepo.GetTestTypes(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get test types: %w", err)
	}
	lines := make([]string, 0, len(testTypes)+1)
	lines = append(lines, "Список доступных типов тестов:")
	for _, testType := range testTypes {
		lines = append(lines, fmt.Sprintf("%d. %s", testType.ID, testType.Type))
	}
	return strings.Join(lines, "\n"), nil
}

func (s *QuestionService) documentQuestions(ctx context.Context, userID int64, doc *bankcheck.Document) ([]model.Question, error) {
	languageID, err := s.questionRepo.GetLanguageIDByCode(ctx, doc.Language)
	if err != nil {
		return nil, fmt.Errorf("failed to get language id: %w", err)
	}
	if languageID == 0 {
		return nil, fmt.Errorf("language %q not found", doc.Language)
	}

	questions := make([]model.Question, 0, len(doc.Questions))
	for _, question := range doc.Questions {
		// Проверка документа гарантирует, что правильный ответ есть в списке.
		rightAnswer := 0
		for i, answer := range question.Answers {
			if answer == question.RightAnswer {
				rightAnswer = i
				break
			}
		}
		questions = append(questions, model.Question{
			UserID:        userID,
			LanguageID:    languageID,
			TestTypeID:    doc.TestTypeID,
			Question:      model.NormalizeQuestion(question.Question),
			Answers:       strings.Join(question.Answers, "\n"),
			NumberAnswers: len(question.Answers),
			RightAnswer:   rightAnswer,
		})
	}
	return questions, nil
}

// normalizeName приводит название к виду "Первая буква заглавная, остальные строчные".
func normalizeName(name string) string {
	runes := []rune(strings.ToLower(strings.TrimSpace(name)))
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
