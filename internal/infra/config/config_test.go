package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1. TestLoadConfig Чтение YAML-файла со значениями по умолчанию.
// 2. TestLoadConfig_EnvOverrides Переменные окружения перекрывают файл.
// 3. TestLoadConfig_MissingToken Без токена конфигурация невалидна.

const configYAML = `
telegram_bot:
  token: "test-token"
  name: "lingvotest_bot"
database:
  host: "localhost"
  port: "5432"
  user: "postgres"
  password: "postgres"
  dbname: "lingvotest"
admins:
  - 42
catalog:
  languages:
    - code: "ENG"
      name: "English"
  test_types:
    - "Grammar"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, configYAML))
	require.NoError(t, err)

	assert.Equal(t, "test-token", cfg.TelegramBot.Token)
	assert.Equal(t, "lingvotest_bot", cfg.TelegramBot.Name)
	assert.Equal(t, []int64{42}, cfg.Admins)
	assert.Equal(t, defaultNumberAnswers, cfg.Testing.NumberAnswers)
	assert.Equal(t, defaultQuestionsPerTest, cfg.Testing.QuestionsPerTest)
	assert.Equal(t, defaultSessionTimeoutMinutes, cfg.Testing.SessionTimeoutMinutes)
	require.Len(t, cfg.Catalog.Languages, 1)
	assert.Equal(t, "ENG", cfg.Catalog.Languages[0].Code)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("DB_HOST", "db.internal")

	cfg, err := LoadConfig(writeConfig(t, configYAML))
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.TelegramBot.Token)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
}

func TestLoadConfig_MissingToken(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "database:\n  host: localhost\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token")
}
