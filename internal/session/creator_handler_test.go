package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingvotest-bot/internal/bankcheck"
	"lingvotest-bot/internal/domain/model"
)

// 1. TestCreatorHandler_AddQuestions Добавление вопросов: подсказка на первом
// шаге, затем проверенный документ сохраняется и сессия закрывается.
// 2. TestCreatorHandler_ValidationErrorShownVerbatim Текст ошибки проверки
// показывается пользователю без изменений, сессия закрывается.
// 3. TestCreatorHandler_DeleteByTextAndFile Удаление по одной строке и по
// файлу со списком вопросов.

type fakeBankStore struct {
	existing map[string]int

	added   *bankcheck.Document
	updated *bankcheck.Document
	deleted []string
}

func (f *fakeBankStore) LanguageCodes(context.Context) ([]string, error) {
	return []string{"ENG"}, nil
}

func (f *fakeBankStore) TestTypeIDs(context.Context) ([]int, error) {
	return []int{1}, nil
}

func (f *fakeBankStore) QuestionsForUser(context.Context, int64) (map[string]int, error) {
	if f.existing == nil {
		return map[string]int{}, nil
	}
	return f.existing, nil
}

func (f *fakeBankStore) AddQuestions(_ context.Context, _ int64, doc *bankcheck.Document) error {
	f.added = doc
	return nil
}

func (f *fakeBankStore) UpdateQuestions(_ context.Context, _ int64, doc *bankcheck.Document) error {
	f.updated = doc
	return nil
}

func (f *fakeBankStore) DeleteQuestions(_ context.Context, _ int64, questions []string) (int, error) {
	f.deleted = questions
	return len(questions), nil
}

const validBankDoc = `{
	"language": "ENG",
	"test_type": 1,
	"questions": [
		{
			"question": "He must ___ all along.",
			"answers": ["have known", "know"],
			"right_answer": "have known"
		}
	]
}`

func newCreatorSession(t *testing.T, store BankStore, command string) (*CreatorHandler, *model.Session, Outcome) {
	t.Helper()
	handler := NewCreatorHandler(store)
	sess := handler.NewSession(7, time.Now())
	outcome, err := handler.Handle(context.Background(), sess, TextInput(command))
	require.NoError(t, err)
	return handler, sess, outcome
}

func TestCreatorHandler_AddQuestions(t *testing.T) {
	store := &fakeBankStore{}
	handler, sess, outcome := newCreatorSession(t, store, CommandAddQuestions)

	require.Len(t, outcome.Answers, 1)
	assert.Equal(t, StartMessageText(CommandAddQuestions), outcome.Answers[0].Text)
	assert.False(t, outcome.Close)
	assert.Equal(t, 1, sess.CurrentStep)

	outcome, err := handler.Handle(context.Background(), sess, DocumentInput([]byte(validBankDoc)))
	require.NoError(t, err)
	assert.True(t, outcome.Close)
	assert.Equal(t, "Вопросы успешно добавлены.", outcome.Answers[0].Text)
	require.NotNil(t, store.added)
	assert.Equal(t, "ENG", store.added.Language)
}

func TestCreatorHandler_UpdateQuestionsSkipsDuplicateCheck(t *testing.T) {
	// Вопрос уже существует; для обновления проверка дубликатов не выполняется.
	store := &fakeBankStore{existing: map[string]int{"He must ___ all along.": 3}}
	handler, sess, _ := newCreatorSession(t, store, CommandUpdateQuestions)

	outcome, err := handler.Handle(context.Background(), sess, DocumentInput([]byte(validBankDoc)))
	require.NoError(t, err)
	assert.True(t, outcome.Close)
	assert.Equal(t, "Вопросы успешно обновлены.", outcome.Answers[0].Text)
	require.NotNil(t, store.updated)
	assert.Nil(t, store.added)
}

func TestCreatorHandler_ValidationErrorShownVerbatim(t *testing.T) {
	store := &fakeBankStore{existing: map[string]int{"He must ___ all along.": 3}}
	handler, sess, _ := newCreatorSession(t, store, CommandAddQuestions)

	outcome, err := handler.Handle(context.Background(), sess, DocumentInput([]byte(validBankDoc)))
	require.NoError(t, err)
	assert.True(t, outcome.Close)
	assert.Contains(t, outcome.Answers[0].Text, "Обнаружены вопросы, которые ранее уже были загружены.")
	assert.Nil(t, store.added)
}

func TestCreatorHandler_DeleteByTextAndFile(t *testing.T) {
	store := &fakeBankStore{}
	handler, sess, _ := newCreatorSession(t, store, CommandDeleteQuestions)

	outcome, err := handler.Handle(context.Background(), sess, TextInput("He must ___ all along."))
	require.NoError(t, err)
	assert.True(t, outcome.Close)
	assert.Equal(t, "Удалено 1 вопрос.", outcome.Answers[0].Text)
	assert.Equal(t, []string{"He must ___ all along."}, store.deleted)

	store = &fakeBankStore{}
	handler, sess, _ = newCreatorSession(t, store, CommandDeleteQuestions)
	file := "First ___ question.\n\nSecond ___ question.\nThird ___ question.\n"
	outcome, err = handler.Handle(context.Background(), sess, DocumentInput([]byte(file)))
	require.NoError(t, err)
	assert.True(t, outcome.Close)
	assert.Equal(t, "Удалено 3 вопроса.", outcome.Answers[0].Text)
	assert.Len(t, store.deleted, 3)
}

func TestCreatorHandler_MissingDocumentClosesSession(t *testing.T) {
	store := &fakeBankStore{}
	handler, sess, _ := newCreatorSession(t, store, CommandAddQuestions)

	outcome, err := handler.Handle(context.Background(), sess, TextInput("просто текст"))
	require.NoError(t, err)
	assert.True(t, outcome.Close)
	assert.Nil(t, store.added)
}
