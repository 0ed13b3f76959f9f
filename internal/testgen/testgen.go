// Package testgen собирает LanguageTest из выбранных строк банка вопросов.
package testgen

import (
	"math/rand"

	"lingvotest-bot/internal/domain/model"
)

// Generate строит тест из строк банка вопросов: для каждого вопроса варианты
// ответов перемешиваются, правильный ответ отслеживается по его исходной
// позиции сквозь перестановку, поэтому совпадающие тексты вариантов не
// приводят к неоднозначности. OldAnswersOrder позволяет привести выбранный
// пользователем вариант обратно к исходной нумерации для сохранения.
func Generate(rows []model.Question) *model.LanguageTest {
	questions := make([]model.GeneratedQuestion, 0, len(rows))
	for _, row := range rows {
		questions = append(questions, generateQuestion(row))
	}

	userAnswers := make([]int, len(questions))
	for i := range userAnswers {
		userAnswers[i] = model.Unanswered
	}

	numberAnswers := 0
	if len(questions) > 0 {
		numberAnswers = len(questions[0].Answers)
	}

	return &model.LanguageTest{
		Questions:     questions,
		UserAnswers:   userAnswers,
		NumberAnswers: numberAnswers,
	}
}

func generateQuestion(row model.Question) model.GeneratedQuestion {
	original := row.AnswersList()

	// perm[i] — исходная позиция варианта, оказавшегося на позиции i.
	perm := rand.Perm(len(original))

	shuffled := make([]string, len(original))
	rightAnswer := 0
	for i, oldIndex := range perm {
		shuffled[i] = original[oldIndex]
		if oldIndex == row.RightAnswer {
			rightAnswer = i
		}
	}

	return model.GeneratedQuestion{
		QuestionID:      row.ID,
		Question:        row.Question,
		Answers:         shuffled,
		OldAnswersOrder: perm,
		RightAnswer:     rightAnswer,
	}
}
