package text_handler

import (
	"context"
	"log"

	"gopkg.in/telebot.v4"

	"lingvotest-bot/internal/app/handlers/telegram/reply"
	"lingvotest-bot/internal/dispatcher"
)

// TextHandler передает текстовые сообщения диспетчеру сессий
type TextHandler struct {
	dispatcher *dispatcher.Dispatcher
}

// NewTextHandler возвращает структуру обработчика
func NewTextHandler(dispatcher *dispatcher.Dispatcher) *TextHandler {
	return &TextHandler{dispatcher: dispatcher}
}

// Handle метод, который будет использоваться для обработки текстовых сообщений
func (h *TextHandler) Handle(c telebot.Context) error {
	message := c.Message()
	outcome, err := h.dispatcher.HandleText(context.Background(), c.Sender().ID, message.Text, message.Time())
	if err != nil {
		log.Printf("failed to handle text from %d: %v", c.Sender().ID, err)
		return c.Send("Произошла ошибка. Попробуйте позже.")
	}
	return reply.Send(c, outcome)
}

// GetHandlerFunc возвращает функцию обработчика для регистрации в боте
func (h *TextHandler) GetHandlerFunc() telebot.HandlerFunc {
	return h.Handle
}
