package model

import "time"

// Answer представляет одно исходящее сообщение пользователю.
// Ядро не зависит от транспорта: клавиатура описывается списком подписей кнопок,
// а рендеринг в разметку Telegram выполняет шлюз.
type Answer struct {
	Text     string
	Keyboard *Keyboard
}

// Keyboard описывает клавиатуру быстрых ответов с фиксированными вариантами.
type Keyboard struct {
	Buttons  []string
	RowWidth int
}

// NewKeyboard создает клавиатуру из подписей кнопок.
func NewKeyboard(rowWidth int, buttons ...string) *Keyboard {
	return &Keyboard{Buttons: buttons, RowWidth: rowWidth}
}

// UserAnswer представляет сохраняемый ответ пользователя на вопрос теста.
// Индекс ответа приведен к исходному (до перемешивания) порядку вариантов.
type UserAnswer struct {
	UserID     int64
	QuestionID int
	Answer     int
	CreatedAt  time.Time
}
