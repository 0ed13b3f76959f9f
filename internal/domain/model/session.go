package model

import "time"

// Session представляет эфемерное состояние диалога одного пользователя.
// Сессия живет в памяти диспетчера, привязана к одному обработчику
// и продвигается ровно на один шаг за одно входящее сообщение.
type Session struct {
	HandlerAlias string
	UserID       int64
	Created      time.Time
	CurrentStep  int

	// Data хранит поля, специфичные для обработчика сессии.
	Data SessionData
}

// SessionData — данные, специфичные для типа обработчика.
// Доступ к полям возможен только после типобезопасного приведения.
type SessionData interface {
	sessionData()
}

// TestingData — данные сессии прохождения теста.
type TestingData struct {
	LanguageID   int
	TestTypeID   int
	LanguageTest *LanguageTest
}

func (*TestingData) sessionData() {}

// CreatorData — данные сессии управления банком вопросов.
type CreatorData struct {
	Command string
}

func (*CreatorData) sessionData() {}

// NewSession создает сессию для обработчика с указанным псевдонимом.
func NewSession(alias string, userID int64, created time.Time, data SessionData) *Session {
	return &Session{
		HandlerAlias: alias,
		UserID:       userID,
		Created:      created,
		Data:         data,
	}
}
