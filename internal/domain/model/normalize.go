package model

import (
	"regexp"
	"strings"
)

var (
	underscoreRe = regexp.MustCompile(`_+`)
	spaceRe      = regexp.MustCompile(`\s{2,}`)
)

// NormalizeQuestion приводит текст вопроса к каноническому виду: серия
// подчеркиваний любой длины схлопывается в токен "___", серии пробельных
// символов — в один пробел, края обрезаются. Нормализация идемпотентна.
func NormalizeQuestion(question string) string {
	question = underscoreRe.ReplaceAllString(question, Placeholder)
	question = spaceRe.ReplaceAllString(question, " ")
	return strings.TrimSpace(question)
}
