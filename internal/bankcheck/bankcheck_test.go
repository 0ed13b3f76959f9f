package bankcheck

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog — хранилище-заглушка для проверки документов без базы данных.
type fakeCatalog struct {
	codes     []string
	typeIDs   []int
	questions map[string]int
}

func (f *fakeCatalog) LanguageCodes(context.Context) ([]string, error) {
	return f.codes, nil
}

func (f *fakeCatalog) TestTypeIDs(context.Context) ([]int, error) {
	return f.typeIDs, nil
}

func (f *fakeCatalog) QuestionsForUser(context.Context, int64) (map[string]int, error) {
	return f.questions, nil
}

func newCatalog() *fakeCatalog {
	return &fakeCatalog{
		codes:     []string{"ENG", "BEL"},
		typeIDs:   []int{1, 2},
		questions: map[string]int{},
	}
}

func validDoc() map[string]any {
	return map[string]any{
		"language":  "eng",
		"test_type": 1,
		"questions": []any{
			map[string]any{
				"question":     "He must ___ all along.",
				"answers":      []any{"have known", "know"},
				"right_answer": "have known",
			},
		},
	}
}

func marshal(t *testing.T, doc map[string]any) []byte {
	t.Helper()
	buf, err := json.Marshal(doc)
	require.NoError(t, err)
	return buf
}

func checkDoc(t *testing.T, doc map[string]any) (*Document, error) {
	t.Helper()
	return Check(context.Background(), marshal(t, doc), 1, newCatalog(), true)
}

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, kind, verr.Kind)
	assert.NotEmpty(t, verr.Message)
}

func TestCheck_ValidDocument(t *testing.T) {
	doc, err := checkDoc(t, validDoc())
	require.NoError(t, err)
	assert.Equal(t, "ENG", doc.Language)
	assert.Equal(t, 1, doc.TestTypeID)
	require.Len(t, doc.Questions, 1)
	assert.Equal(t, "have known", doc.Questions[0].RightAnswer)
}

func TestCheck_MalformedJSON(t *testing.T) {
	_, err := Check(context.Background(), []byte("{not json"), 1, newCatalog(), true)
	requireKind(t, err, KindFile)
}

func TestCheck_MissingKeys(t *testing.T) {
	for _, key := range []string{"language", "test_type", "questions"} {
		doc := validDoc()
		delete(doc, key)
		_, err := checkDoc(t, doc)
		requireKind(t, err, KindKeyMissing)
	}
}

func TestCheck_KeyTypes(t *testing.T) {
	doc := validDoc()
	doc["language"] = 42
	_, err := checkDoc(t, doc)
	requireKind(t, err, KindKeyType)

	doc = validDoc()
	doc["test_type"] = "not-a-number"
	_, err = checkDoc(t, doc)
	requireKind(t, err, KindTestType)
}

// Дробный номер типа теста не усекается до целого, а отклоняется.
func TestCheck_FractionalTestType(t *testing.T) {
	doc := validDoc()
	doc["test_type"] = 1.5
	_, err := checkDoc(t, doc)
	requireKind(t, err, KindKeyType)
}

func TestCheck_TestTypeAsString(t *testing.T) {
	doc := validDoc()
	doc["test_type"] = "2"
	parsed, err := checkDoc(t, doc)
	require.NoError(t, err)
	assert.Equal(t, 2, parsed.TestTypeID)
}

func TestCheck_UnsupportedLanguage(t *testing.T) {
	doc := validDoc()
	doc["language"] = "xxx"
	_, err := checkDoc(t, doc)
	requireKind(t, err, KindLanguage)
}

func TestCheck_UnsupportedTestType(t *testing.T) {
	doc := validDoc()
	doc["test_type"] = 99
	_, err := checkDoc(t, doc)
	requireKind(t, err, KindTestType)
}

func TestCheck_EmptyQuestions(t *testing.T) {
	doc := validDoc()
	doc["questions"] = []any{}
	_, err := checkDoc(t, doc)
	requireKind(t, err, KindEmptyQuestions)
}

// Вопрос с одним ответом и вопрос с девятью ответами отклоняются.
func TestCheck_NumberAnswers(t *testing.T) {
	one := []any{"know"}
	nine := make([]any, 9)
	for i := range nine {
		nine[i] = "know"
	}
	for _, answers := range [][]any{one, nine} {
		doc := validDoc()
		doc["questions"] = []any{
			map[string]any{
				"question":     "He must ___ all along.",
				"answers":      answers,
				"right_answer": "know",
			},
		}
		_, err := checkDoc(t, doc)
		requireKind(t, err, KindNumberAnswers)
	}
}

func TestCheck_RightAnswerAbsent(t *testing.T) {
	doc := validDoc()
	doc["questions"] = []any{
		map[string]any{
			"question":     "He must ___ all along.",
			"answers":      []any{"know", "knew"},
			"right_answer": "have known",
		},
	}
	_, err := checkDoc(t, doc)
	requireKind(t, err, KindRightAnswer)
}

func TestCheck_Duplicates(t *testing.T) {
	catalog := newCatalog()
	catalog.questions["He must ___ all along."] = 7

	_, err := Check(context.Background(), marshal(t, validDoc()), 1, catalog, true)
	requireKind(t, err, KindDuplicateQuestion)

	// Для обновления вопросов проверка дубликатов отключается.
	doc, err := Check(context.Background(), marshal(t, validDoc()), 1, catalog, false)
	require.NoError(t, err)
	assert.Len(t, doc.Questions, 1)
}

func TestError_IsDistinguishable(t *testing.T) {
	_, err := Check(context.Background(), []byte("oops"), 1, newCatalog(), true)
	var verr *Error
	assert.True(t, errors.As(err, &verr))
}
