package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeQuestion(t *testing.T) {
	cases := []struct {
		question string
		want     string
	}{
		{"Test  question ", "Test question"},
		{" Test    question ", "Test question"},
		{"He must __ all along. ", "He must ___ all along."},
		{"He must  ____  all along. ", "He must ___ all along."},
		{"He must ___ all along.", "He must ___ all along."},
		{"He must _ all along.", "He must ___ all along."},
		{"Tabs \t and\nnewlines  here", "Tabs and\nnewlines here"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeQuestion(tc.question), "question=%q", tc.question)
	}
}

// Повторная нормализация не меняет уже нормализованный текст.
func TestNormalizeQuestion_Idempotent(t *testing.T) {
	inputs := []string{
		" He  must __ all along. ",
		"Simple question with ___ blank",
		"  many   spaces   and _____ underscores  ",
	}
	for _, input := range inputs {
		once := NormalizeQuestion(input)
		assert.Equal(t, once, NormalizeQuestion(once))
	}
}
