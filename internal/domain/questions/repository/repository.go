package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lingvotest-bot/internal/domain/model"
)

// QuestionRepository репозиторий для работы с банком вопросов
type QuestionRepository struct {
	db *pgxpool.Pool
}

// NewQuestionRepository создает новый экземпляр QuestionRepository
func NewQuestionRepository(db *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// GetLanguages получает список всех языков
func (r *QuestionRepository) GetLanguages(ctx context.Context) ([]model.Language, error) {
	rows, err := r.db.Query(ctx, "SELECT id, code, name FROM languages ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query languages: %w", err)
	}
	defer rows.Close()

	var languages []model.Language
	for rows.Next() {
		var language model.Language
		if err := rows.Scan(&language.ID, &language.Code, &language.Name); err != nil {
			return nil, fmt.Errorf("failed to scan language: %w", err)
		}
		languages = append(languages, language)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", err)
	}

	return languages, nil
}

// GetLanguageIDByName получает идентификатор языка по его названию.
// Возвращает 0, если язык не найден.
func (r *QuestionRepository) GetLanguageIDByName(ctx context.Context, name string) (int, error) {
	var id int
	err := r.db.QueryRow(ctx, "SELECT id FROM languages WHERE name = $1", name).Scan(&id)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get language by name: %w", err)
	}
	return id, nil
}

// GetLanguageIDByCode получает идентификатор языка по его коду.
// Возвращает 0, если язык не найден.
func (r *QuestionRepository) GetLanguageIDByCode(ctx context.Context, code string) (int, error) {
	var id int
	err := r.db.QueryRow(ctx, "SELECT id FROM languages WHERE code = $1", code).Scan(&id)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get language by code: %w", err)
	}
	return id, nil
}

// GetTestTypes получает список всех типов тестов
func (r *QuestionRepository) GetTestTypes(ctx context.Context) ([]model.TestType, error) {
	rows, err := r.db.Query(ctx, "SELECT id, type FROM test_types ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query test types: %w", err)
	}
	defer rows.Close()

	var testTypes []model.TestType
	for rows.Next() {
		var testType model.TestType
		if err := rows.Scan(&testType.ID, &testType.Type); err != nil {
			return nil, fmt.Errorf("failed to scan test type: %w", err)
		}
		testTypes = append(testTypes, testType)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", err)
	}

	return testTypes, nil
}

// GetTestTypesForLanguage получает типы тестов, для которых есть
// хотя бы один вопрос на заданном языке
func (r *QuestionRepository) GetTestTypesForLanguage(ctx context.Context, languageID int) ([]model.TestType, error) {
	rows, err := r.db.Query(ctx, `
                SELECT DISTINCT tt.id, tt.type
                FROM test_types tt
                JOIN questions q ON q.test_type_id = tt.id
                WHERE q.language_id = $1
                ORDER BY tt.id
        `, languageID)
	if err != nil {
		return nil, fmt.Errorf("failed to query test types for language: %w", err)
	}
	defer rows.Close()

	var testTypes []model.TestType
	for rows.Next() {
		var testType model.TestType
		if err := rows.Scan(&testType.ID, &testType.Type); err != nil {
			return nil, fmt.Errorf("failed to scan test type: %w", err)
		}
		testTypes = append(testTypes, testType)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", err)
	}

	return testTypes, nil
}

// GetTestTypeIDByName получает идентификатор типа теста по его названию.
// Возвращает 0, если тип не найден.
func (r *QuestionRepository) GetTestTypeIDByName(ctx context.Context, name string) (int, error) {
	var id int
	err := r.db.QueryRow(ctx, "SELECT id FROM test_types WHERE type = $1", name).Scan(&id)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get test type by name: %w", err)
	}
	return id, nil
}

// GetRandomQuestions получает случайные вопросы с заданным количеством
// вариантов ответа, не входящие в список исключенных
func (r *QuestionRepository) GetRandomQuestions(ctx context.Context, languageID, testTypeID, numberAnswers int, excludeIDs []int, limit int) ([]model.Question, error) {
	rows, err := r.db.Query(ctx, `
                SELECT id, user_id, language_id, test_type_id, question, answers, number_answers, right_answer
                FROM questions
                WHERE language_id = $1
                        AND test_type_id = $2
                        AND number_answers = $3
                        AND NOT (id = ANY($4))
                ORDER BY random()
                LIMIT $5
        `, languageID, testTypeID, numberAnswers, excludeIDs, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query random questions: %w", err)
	}
	defer rows.Close()

	return scanQuestions(rows)
}

// GetPassedQuestionIDs получает идентификаторы вопросов, на которые
// пользователь уже отвечал правильно
func (r *QuestionRepository) GetPassedQuestionIDs(ctx context.Context, userID int64, languageID, testTypeID int) ([]int, error) {
	// Правильным считается вопрос, на который есть хоть один верный ответ:
	// пользователь мог ошибиться в раннем тесте и ответить верно позже.
	rows, err := r.db.Query(ctx, `
                SELECT ua.question_id
                FROM user_answers ua
                JOIN questions q ON q.id = ua.question_id
                WHERE ua.user_id = $1
                        AND q.language_id = $2
                        AND q.test_type_id = $3
                GROUP BY ua.question_id
                HAVING bool_or(ua.answer = (SELECT right_answer FROM questions WHERE id = ua.question_id))
        `, userID, languageID, testTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query answered questions: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan question id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", err)
	}

	return ids, nil
}

// GetQuestionsForUser получает вопросы, созданные пользователем,
// в виде отображения нормализованного текста вопроса в идентификатор
func (r *QuestionRepository) GetQuestionsForUser(ctx context.Context, userID int64) (map[string]int, error) {
	rows, err := r.db.Query(ctx, "SELECT id, question FROM questions WHERE user_id = $1", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user questions: %w", err)
	}
	defer rows.Close()

	questions := make(map[string]int)
	for rows.Next() {
		var id int
		var question string
		if err := rows.Scan(&id, &question); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions[model.NormalizeQuestion(question)] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", err)
	}

	return questions, nil
}

// InsertQuestions сохраняет вопросы одной транзакцией
func (r *QuestionRepository) InsertQuestions(ctx context.Context, questions []model.Question) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, question := range questions {
		batch.Queue(`
                        INSERT INTO questions (user_id, language_id, test_type_id, question, answers, number_answers, right_answer)
                        VALUES ($1, $2, $3, $4, $5, $6, $7)
                `, question.UserID, question.LanguageID, question.TestTypeID,
			question.Question, question.Answers, question.NumberAnswers, question.RightAnswer)
	}

	results := tx.SendBatch(ctx, batch)
	for range questions {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to insert question: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteQuestionsByID удаляет вопросы по идентификаторам вместе
// с ответами на них и возвращает количество удаленных вопросов
func (r *QuestionRepository) DeleteQuestionsByID(ctx context.Context, ids []int) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM user_answers WHERE question_id = ANY($1)", ids); err != nil {
		return 0, fmt.Errorf("failed to delete answers: %w", err)
	}
	result, err := tx.Exec(ctx, "DELETE FROM questions WHERE id = ANY($1)", ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete questions: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return int(result.RowsAffected()), nil
}

// InsertUserAnswers сохраняет ответы пользователя одной транзакцией
func (r *QuestionRepository) InsertUserAnswers(ctx context.Context, answers []model.UserAnswer) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, answer := range answers {
		batch.Queue(`
                        INSERT INTO user_answers (user_id, question_id, answer, created_at)
                        VALUES ($1, $2, $3, $4)
                `, answer.UserID, answer.QuestionID, answer.Answer, answer.CreatedAt)
	}

	results := tx.SendBatch(ctx, batch)
	for range answers {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to insert answer: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func scanQuestions(rows pgx.Rows) ([]model.Question, error) {
	var questions []model.Question
	for rows.Next() {
		var question model.Question
		err := rows.Scan(
			&question.ID,
			&question.UserID,
			&question.LanguageID,
			&question.TestTypeID,
			&question.Question,
			&question.Answers,
			&question.NumberAnswers,
			&question.RightAnswer,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, question)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", err)
	}
	return questions, nil
}
