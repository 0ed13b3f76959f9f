package reply

import (
	"gopkg.in/telebot.v4"

	"lingvotest-bot/internal/domain/model"
	"lingvotest-bot/internal/session"
)

// Send отправляет все ответы исхода сессии одному собеседнику.
func Send(c telebot.Context, outcome session.Outcome) error {
	for _, answer := range outcome.Answers {
		if err := c.Send(answer.Text, Markup(answer.Keyboard)); err != nil {
			return err
		}
	}
	return nil
}

// Markup превращает клавиатуру ответа в разметку Telegram.
// Отсутствие клавиатуры убирает ранее показанную.
func Markup(keyboard *model.Keyboard) *telebot.ReplyMarkup {
	if keyboard == nil {
		return &telebot.ReplyMarkup{RemoveKeyboard: true}
	}

	markup := &telebot.ReplyMarkup{ResizeKeyboard: true}
	var rows []telebot.Row
	var row telebot.Row
	for _, button := range keyboard.Buttons {
		row = append(row, markup.Text(button))
		if len(row) == keyboard.RowWidth {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	markup.Reply(rows...)
	return markup
}
