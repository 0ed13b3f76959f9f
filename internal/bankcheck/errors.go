package bankcheck

// Kind различает виды нарушений при проверке документа с вопросами.
type Kind int

const (
	KindFile Kind = iota
	KindKeyMissing
	KindKeyType
	KindLanguage
	KindTestType
	KindEmptyQuestions
	KindNumberAnswers
	KindRightAnswer
	KindDuplicateQuestion
)

// Error — ошибка проверки документа. Message предназначен для показа
// пользователю без изменений.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}
