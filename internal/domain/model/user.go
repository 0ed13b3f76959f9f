package model

import "time"

type User struct {
	ID     int64
	RoleID int
	Joined time.Time
}

// Language представляет поддерживаемый язык тестирования.
type Language struct {
	ID   int
	Code string
	Name string
}

// TestType представляет тип теста (например, "Grammar" или "Vocabulary").
type TestType struct {
	ID   int
	Type string
}
