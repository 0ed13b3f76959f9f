package poller

import (
	"time"

	"gopkg.in/telebot.v4"

	"lingvotest-bot/internal/infra/config"
)

// New создаёт Poller в зависимости от режима: длинные опросы по умолчанию,
// вебхук — если он задан в конфигурации.
func New(cfg *config.Config) telebot.Poller {
	if cfg.TelegramBot.Mode == "webhook" && cfg.TelegramBot.WebhookURL != "" {
		return &telebot.Webhook{
			Listen: cfg.TelegramBot.ListenAddr,
			Endpoint: &telebot.WebhookEndpoint{
				PublicURL: cfg.TelegramBot.WebhookURL,
			},
		}
	}
	return &telebot.LongPoller{Timeout: time.Duration(cfg.TelegramBot.PollIntervalSeconds) * time.Second}
}
