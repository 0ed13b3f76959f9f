package scoring

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"lingvotest-bot/internal/domain/model"
)

// 1. TestResult_AllCorrect Тест, где все ответы верные: 100 % и без списка ошибок.
// 2. TestResult_AllWrong Тест без верных ответов: 0 % и полный список вопросов
// с подставленным правильным ответом вместо пропуска.
// 3. TestFormatQuestionsCount Таблица согласования слова "вопрос" с числом.

func newTest(answers ...int) *model.LanguageTest {
	questions := []model.GeneratedQuestion{
		{
			QuestionID:      1,
			Question:        "He must ___ all along.",
			Answers:         []string{"know", "have known", "knew"},
			OldAnswersOrder: []int{1, 0, 2},
			RightAnswer:     1,
		},
		{
			QuestionID:      2,
			Question:        "She ___ to school.",
			Answers:         []string{"goes", "go", "going"},
			OldAnswersOrder: []int{1, 0, 2},
			RightAnswer:     0,
		},
	}
	return &model.LanguageTest{
		Questions:     questions,
		UserAnswers:   answers,
		NumberAnswers: 3,
	}
}

func TestResult_AllCorrect(t *testing.T) {
	test := newTest(1, 0)
	result := Result(test)
	assert.Contains(t, result, "100 %")
	assert.Contains(t, result, "Вы ответили верно на 2 вопроса из 2.")
	assert.NotContains(t, result, "Список ваших неправильных ответов")
}

func TestResult_AllWrong(t *testing.T) {
	test := newTest(0, 1)
	result := Result(test)
	assert.Contains(t, result, "0 %")
	assert.Contains(t, result, "Вы ответили верно на 0 вопросов из 2.")
	assert.Contains(t, result, "Список ваших неправильных ответов")
	assert.Contains(t, result, "1. He must have known all along.")
	assert.Contains(t, result, "2. She goes to school.")
}

func TestResult_PartiallyCorrect(t *testing.T) {
	test := newTest(1, 1)
	result := Result(test)
	assert.Contains(t, result, "50 %")
	assert.Contains(t, result, "Вы ответили верно на 1 вопрос из 2.")
	// В списке ошибок только второй вопрос.
	lines := strings.Split(result, "\n")
	assert.Equal(t, "2. She goes to school.", lines[len(lines)-1])
	assert.NotContains(t, result, "1. He must")
}

func TestScore(t *testing.T) {
	test := newTest(1, 1)
	score, wrong := Score(test)
	assert.Equal(t, 1, score)
	assert.Len(t, wrong, 1)
	assert.Equal(t, 2, wrong[0].Number)
}

func TestFormatQuestionsCount(t *testing.T) {
	cases := []struct {
		number int
		want   string
	}{
		{1, "вопрос"},
		{21, "вопрос"},
		{31, "вопрос"},
		{2, "вопроса"},
		{3, "вопроса"},
		{4, "вопроса"},
		{22, "вопроса"},
		{23, "вопроса"},
		{24, "вопроса"},
		{0, "вопросов"},
		{5, "вопросов"},
		{10, "вопросов"},
		{11, "вопросов"},
		{12, "вопросов"},
		{14, "вопросов"},
		{25, "вопросов"},
	}
	for _, tc := range cases {
		want := fmt.Sprintf("%d %s", tc.number, tc.want)
		assert.Equal(t, want, FormatQuestionsCount(tc.number), "number=%d", tc.number)
	}
}
