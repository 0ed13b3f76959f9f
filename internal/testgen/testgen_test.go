package testgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingvotest-bot/internal/domain/model"
)

// 1. TestGenerate_RightAnswerTracksShuffle Проверяется, что после перемешивания
// индекс правильного ответа указывает на тот же текст, что и в исходной строке.
// 2. TestGenerate_OldOrderRoundTrip Проверяется, что перевод выбранной позиции
// через OldAnswersOrder восстанавливает исходную нумерацию вариантов.
// 3. TestGenerate_DuplicateAnswers Случай с совпадающими текстами вариантов:
// правильный ответ отслеживается по позиции, а не по равенству строк.

func newRow(id int, text string, answers string, right int) model.Question {
	return model.Question{
		ID:          id,
		Question:    text,
		Answers:     answers,
		RightAnswer: right,
	}
}

func TestGenerate_RightAnswerTracksShuffle(t *testing.T) {
	rows := []model.Question{
		newRow(1, "He must ___ all along.", "have known\nknow\nknew\nknows", 0),
		newRow(2, "She ___ to school.", "go\ngoes\ngone\ngoing", 1),
	}

	for i := 0; i < 50; i++ {
		test := Generate(rows)
		require.Len(t, test.Questions, 2)
		assert.Equal(t, 4, test.NumberAnswers)
		for j, q := range test.Questions {
			originalAnswers := rows[j].AnswersList()
			want := originalAnswers[rows[j].RightAnswer]
			assert.Equal(t, want, q.RightAnswerText())
		}
	}
}

func TestGenerate_OldOrderRoundTrip(t *testing.T) {
	rows := []model.Question{
		newRow(1, "He must ___ all along.", "have known\nknow\nknew\nknows", 2),
	}

	for i := 0; i < 50; i++ {
		test := Generate(rows)
		q := test.Questions[0]
		original := rows[0].AnswersList()
		for pos, answer := range q.Answers {
			// Выбранная позиция через OldAnswersOrder указывает на тот же текст в исходном списке.
			assert.Equal(t, answer, original[q.OriginalIndex(pos)])
		}
	}
}

func TestGenerate_DuplicateAnswers(t *testing.T) {
	// Два одинаковых варианта; правильный — второй из них (индекс 2).
	rows := []model.Question{
		newRow(1, "I ___ it.", "did\ndo\ndo\ndone", 2),
	}

	for i := 0; i < 50; i++ {
		test := Generate(rows)
		q := test.Questions[0]
		assert.Equal(t, "do", q.RightAnswerText())
		// Позиция правильного ответа обязана вести к исходному индексу 2, а не 1.
		assert.Equal(t, 2, q.OriginalIndex(q.RightAnswer))
	}
}

func TestGenerate_UserAnswersUnanswered(t *testing.T) {
	rows := []model.Question{
		newRow(1, "He must ___ all along.", "have known\nknow", 0),
		newRow(2, "She ___ to school.", "go\ngoes", 1),
	}
	test := Generate(rows)
	require.Len(t, test.UserAnswers, len(test.Questions))
	for _, answer := range test.UserAnswers {
		assert.Equal(t, model.Unanswered, answer)
	}
	assert.Equal(t, 0, test.CurrentQuestion)
}

func TestGenerate_WholeQuestion(t *testing.T) {
	rows := []model.Question{
		newRow(1, "He must ___ all along.", "have known\nknow", 0),
	}
	test := Generate(rows)
	assert.Equal(t, "He must have known all along.", test.Questions[0].WholeQuestion())
}
