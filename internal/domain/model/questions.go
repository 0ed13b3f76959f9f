package model

import "strings"

// Placeholder — токен пропуска в тексте вопроса.
const Placeholder = "___"

// Question представляет сохраненный вопрос теста.
// Текст нормализован и содержит ровно один токен пропуска "___".
// Варианты ответов хранятся одной строкой, разделенной переводами строк.
type Question struct {
	ID            int
	UserID        int64
	LanguageID    int
	TestTypeID    int
	Question      string
	Answers       string
	NumberAnswers int
	RightAnswer   int
}

// AnswersList возвращает варианты ответов в исходном порядке.
func (q Question) AnswersList() []string {
	return strings.Split(q.Answers, "\n")
}

// GeneratedQuestion представляет вопрос одного конкретного теста:
// варианты перемешаны, RightAnswer указывает на правильный вариант
// уже в перемешанном списке, а OldAnswersOrder хранит отображение
// позиции в перемешанном списке на исходную позицию.
type GeneratedQuestion struct {
	QuestionID      int
	Question        string
	Answers         []string
	OldAnswersOrder []int
	RightAnswer     int
}

// RightAnswerText возвращает текст правильного ответа.
func (q GeneratedQuestion) RightAnswerText() string {
	return q.Answers[q.RightAnswer]
}

// WholeQuestion возвращает текст вопроса с подставленным правильным ответом.
func (q GeneratedQuestion) WholeQuestion() string {
	return strings.Replace(q.Question, Placeholder, q.RightAnswerText(), 1)
}

// OriginalIndex переводит индекс выбранного варианта из перемешанного
// порядка в исходный порядок вариантов.
func (q GeneratedQuestion) OriginalIndex(answerIndex int) int {
	return q.OldAnswersOrder[answerIndex]
}
