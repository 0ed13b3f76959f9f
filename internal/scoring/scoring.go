// Package scoring подсчитывает результат завершенного теста и
// формирует итоговое сообщение пользователю.
package scoring

import (
	"fmt"
	"strings"

	"lingvotest-bot/internal/domain/model"
)

// WrongAnswer — вопрос, на который пользователь ответил неверно.
// Number — номер вопроса в тесте, нумерация с единицы.
type WrongAnswer struct {
	Number   int
	Question model.GeneratedQuestion
}

// Score возвращает число верных ответов и список неверно отвеченных вопросов.
// Ответ сравнивается с индексом правильного варианта в перемешанном списке.
func Score(test *model.LanguageTest) (int, []WrongAnswer) {
	score := 0
	var wrong []WrongAnswer
	for index, question := range test.Questions {
		if question.RightAnswer == test.UserAnswers[index] {
			score++
		} else {
			wrong = append(wrong, WrongAnswer{Number: index + 1, Question: question})
		}
	}
	return score, wrong
}

// Result формирует итоговое сообщение: счет, процент без знаков после запятой
// и, если результат ниже 100 %, список неверных ответов, где вместо пропуска
// подставлен правильный вариант в исходном (до перемешивания) виде.
func Result(test *model.LanguageTest) string {
	score, wrong := Score(test)
	numberQuestions := len(test.Questions)
	percent := float64(score) / float64(numberQuestions) * 100
	message := fmt.Sprintf("Вы ответили верно на %s из %d. Ваш результат: %.0f %%",
		FormatQuestionsCount(score), numberQuestions, percent)
	if percent < 100 {
		message = fmt.Sprintf("%s\n%s", message, formatWrongAnswers(wrong))
	}
	return message
}

// FormatQuestionsCount согласует слово "вопрос" с числом по правилам русского
// языка: окончание зависит от последней цифры с исключением для 11-19.
func FormatQuestionsCount(number int) string {
	var pattern string
	switch {
	case number != 11 && number%10 == 1:
		pattern = "вопрос"
	case number == 2 || number == 3 || number == 4 ||
		(number > 20 && (number%10 == 2 || number%10 == 3 || number%10 == 4)):
		pattern = "вопроса"
	default:
		pattern = "вопросов"
	}
	return fmt.Sprintf("%d %s", number, pattern)
}

func formatWrongAnswers(wrong []WrongAnswer) string {
	lines := make([]string, 0, len(wrong))
	for _, w := range wrong {
		lines = append(lines, fmt.Sprintf("%d. %s", w.Number, w.Question.WholeQuestion()))
	}
	return fmt.Sprintf("Список ваших неправильных ответов:\n\n%s", strings.Join(lines, "\n"))
}
