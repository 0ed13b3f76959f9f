package reply

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingvotest-bot/internal/domain/model"
)

// 1. TestMarkup_RemoveKeyboard Без клавиатуры прежняя разметка убирается.
// 2. TestMarkup_Rows Кнопки раскладываются по строкам заданной ширины.

func TestMarkup_RemoveKeyboard(t *testing.T) {
	markup := Markup(nil)
	assert.True(t, markup.RemoveKeyboard)
	assert.Empty(t, markup.ReplyKeyboard)
}

func TestMarkup_Rows(t *testing.T) {
	markup := Markup(model.NewKeyboard(2, "1", "2", "3"))
	require.Len(t, markup.ReplyKeyboard, 2)
	require.Len(t, markup.ReplyKeyboard[0], 2)
	require.Len(t, markup.ReplyKeyboard[1], 1)
	assert.Equal(t, "1", markup.ReplyKeyboard[0][0].Text)
	assert.Equal(t, "3", markup.ReplyKeyboard[1][0].Text)
	assert.True(t, markup.ResizeKeyboard)
}
