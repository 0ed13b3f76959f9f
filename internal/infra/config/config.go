package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Значения по умолчанию для параметров тестирования.
const (
	defaultNumberAnswers         = 4
	defaultQuestionsPerTest      = 10
	defaultSessionTimeoutMinutes = 30
)

type Config struct {
	TelegramBot struct {
		Token string `yaml:"token"`
		// Name — имя бота без @, используется для сборки пригласительных ссылок.
		Name string `yaml:"name"`
		// Mode — "polling" либо "webhook".
		Mode                string `yaml:"mode"`
		WebhookURL          string `yaml:"webhook_url"`
		ListenAddr          string `yaml:"listen_addr"`
		PollIntervalSeconds int    `yaml:"poll_interval_seconds"`
	} `yaml:"telegram_bot"`
	Database struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"dbname"`
	} `yaml:"database"`
	Testing struct {
		NumberAnswers    int `yaml:"number_answers"`
		QuestionsPerTest int `yaml:"questions_per_test"`
		// SessionTimeoutMinutes — время жизни неактивной сессии.
		SessionTimeoutMinutes int `yaml:"session_timeout_minutes"`
	} `yaml:"testing"`
	Logging struct {
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"logging"`
	// Admins — Telegram-идентификаторы, получающие роль администратора при старте.
	Admins  []int64 `yaml:"admins"`
	Catalog struct {
		Languages []struct {
			Code string `yaml:"code"`
			Name string `yaml:"name"`
		} `yaml:"languages"`
		TestTypes []string `yaml:"test_types"`
	} `yaml:"catalog"`
}

// LoadConfig читает конфигурацию из YAML-файла. Секреты можно не хранить
// в файле: переменные окружения (в том числе из .env) перекрывают значения.
func LoadConfig(filename string) (*Config, error) {
	// .env необязателен, его отсутствие не ошибка.
	_ = godotenv.Load()

	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
			fmt.Println("f.Close() failed ", err)
		}
	}(f)

	config := &Config{}
	if err := yaml.NewDecoder(f).Decode(config); err != nil {
		return nil, err
	}

	config.applyEnv()
	config.applyDefaults()

	if config.TelegramBot.Token == "" {
		return nil, fmt.Errorf("telegram bot token is not set")
	}

	return config, nil
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"TELEGRAM_BOT_TOKEN": &c.TelegramBot.Token,
		"TELEGRAM_BOT_NAME":  &c.TelegramBot.Name,
		"DB_HOST":            &c.Database.Host,
		"DB_PORT":            &c.Database.Port,
		"DB_USER":            &c.Database.User,
		"DB_PASSWORD":        &c.Database.Password,
		"DB_NAME":            &c.Database.Name,
	}
	for key, target := range overrides {
		if value := os.Getenv(key); value != "" {
			*target = value
		}
	}
}

func (c *Config) applyDefaults() {
	if c.TelegramBot.Mode == "" {
		c.TelegramBot.Mode = "polling"
	}
	if c.TelegramBot.PollIntervalSeconds == 0 {
		c.TelegramBot.PollIntervalSeconds = 10
	}
	if c.TelegramBot.ListenAddr == "" {
		c.TelegramBot.ListenAddr = ":8080"
	}
	if c.Testing.NumberAnswers == 0 {
		c.Testing.NumberAnswers = defaultNumberAnswers
	}
	if c.Testing.QuestionsPerTest == 0 {
		c.Testing.QuestionsPerTest = defaultQuestionsPerTest
	}
	if c.Testing.SessionTimeoutMinutes == 0 {
		c.Testing.SessionTimeoutMinutes = defaultSessionTimeoutMinutes
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = 10
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = 3
	}
	if c.Logging.MaxAgeDays == 0 {
		c.Logging.MaxAgeDays = 30
	}
}
