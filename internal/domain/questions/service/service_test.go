package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Нормализация пользовательского ввода названий языков и типов тестов.
func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"english", "English"},
		{"ENGLISH", "English"},
		{"  grammar  ", "Grammar"},
		{"немецкий", "Немецкий"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, normalizeName(tc.in), "in=%q", tc.in)
	}
}
