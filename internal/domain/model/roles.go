package model

// Роли пользователей в порядке возрастания привилегий.
// Роль "test_creator" позволяет управлять банком вопросов,
// роль "admin" дополнительно позволяет создавать пригласительные ссылки.
const (
	RoleUser        = "user"
	RoleTestCreator = "test_creator"
	RoleAdmin       = "admin"
)
