package document_handler

import (
	"context"
	"fmt"
	"io"
	"log"

	"gopkg.in/telebot.v4"

	"lingvotest-bot/internal/app/handlers/telegram/reply"
	"lingvotest-bot/internal/dispatcher"
)

// Документы больше лимита не скачиваются.
const maxDocumentSize = 1 << 20

// DocumentHandler скачивает присланный документ и передает его диспетчеру сессий
type DocumentHandler struct {
	dispatcher *dispatcher.Dispatcher
}

// NewDocumentHandler возвращает структуру обработчика
func NewDocumentHandler(dispatcher *dispatcher.Dispatcher) *DocumentHandler {
	return &DocumentHandler{dispatcher: dispatcher}
}

// Handle метод, который будет использоваться для обработки документов
func (h *DocumentHandler) Handle(c telebot.Context) error {
	document := c.Message().Document
	if document == nil {
		return nil
	}
	if document.FileSize > maxDocumentSize {
		return c.Send("Файл слишком большой.")
	}

	buf, err := h.downloadDocument(c, document)
	if err != nil {
		log.Printf("failed to download document from %d: %v", c.Sender().ID, err)
		return c.Send("Не удалось скачать файл. Попробуйте еще раз.")
	}

	outcome, err := h.dispatcher.HandleDocument(context.Background(), c.Sender().ID, buf)
	if err != nil {
		log.Printf("failed to handle document from %d: %v", c.Sender().ID, err)
		return c.Send("Произошла ошибка. Попробуйте позже.")
	}
	return reply.Send(c, outcome)
}

func (h *DocumentHandler) downloadDocument(c telebot.Context, document *telebot.Document) ([]byte, error) {
	reader, err := c.Bot().File(&document.File)
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	defer reader.Close()

	buf, err := io.ReadAll(io.LimitReader(reader, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return buf, nil
}

// GetHandlerFunc возвращает функцию обработчика для регистрации в боте
func (h *DocumentHandler) GetHandlerFunc() telebot.HandlerFunc {
	return h.Handle
}
