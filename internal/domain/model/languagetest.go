package model

// Unanswered — значение слота ответа, пока пользователь не ответил на вопрос.
const Unanswered = -1

// LanguageTest представляет один экземпляр теста: упорядоченные вопросы,
// зарегистрированные ответы пользователя и курсор текущего вопроса.
// Экземпляр принадлежит ровно одной сессии и уничтожается вместе с ней.
type LanguageTest struct {
	Questions       []GeneratedQuestion
	UserAnswers     []int
	CurrentQuestion int
	NumberAnswers   int
}

// RegisterAnswer записывает ответ (нумерация с единицы) для текущего вопроса.
func (t *LanguageTest) RegisterAnswer(answer int) {
	t.UserAnswers[t.CurrentQuestion] = answer - 1
}

// GetCurrentQuestion возвращает вопрос под курсором.
func (t *LanguageTest) GetCurrentQuestion() GeneratedQuestion {
	return t.Questions[t.CurrentQuestion]
}

// HasNextQuestion сообщает, остались ли вопросы после текущего.
func (t *LanguageTest) HasNextQuestion() bool {
	return t.CurrentQuestion < len(t.Questions)-1
}
