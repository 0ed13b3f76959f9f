package app

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"lingvotest-bot/internal/domain/model"
	"lingvotest-bot/internal/infra/config"
)

// InitDatabase устанавливает подключение к базе данных
func InitDatabase(cfg *config.Config) (*pgxpool.Pool, error) {
	const op = "app.InitDatabase"

	connConfig, err := pgxpool.ParseConfig(fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		cfg.Database.User, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port, cfg.Database.Name))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse database config: %w", op, err)
	}

	db, err := pgxpool.NewWithConfig(context.Background(), connConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create database pool: %w", op, err)
	}

	if err := db.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: failed to ping database: %w", op, err)
	}

	log.Println("Database connected successfully!")
	return db, nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS roles (
                id SERIAL PRIMARY KEY,
                role TEXT NOT NULL UNIQUE
        )`,
	`CREATE TABLE IF NOT EXISTS users (
                id BIGINT PRIMARY KEY,
                role_id INT NOT NULL REFERENCES roles (id),
                joined TIMESTAMPTZ NOT NULL
        )`,
	`CREATE TABLE IF NOT EXISTS languages (
                id SERIAL PRIMARY KEY,
                code TEXT NOT NULL UNIQUE,
                name TEXT NOT NULL UNIQUE
        )`,
	`CREATE TABLE IF NOT EXISTS test_types (
                id SERIAL PRIMARY KEY,
                type TEXT NOT NULL UNIQUE
        )`,
	`CREATE TABLE IF NOT EXISTS questions (
                id SERIAL PRIMARY KEY,
                user_id BIGINT NOT NULL,
                language_id INT NOT NULL REFERENCES languages (id),
                test_type_id INT NOT NULL REFERENCES test_types (id),
                question TEXT NOT NULL,
                answers TEXT NOT NULL,
                number_answers INT NOT NULL,
                right_answer INT NOT NULL
        )`,
	`CREATE TABLE IF NOT EXISTS user_answers (
                id SERIAL PRIMARY KEY,
                user_id BIGINT NOT NULL,
                question_id INT NOT NULL REFERENCES questions (id),
                answer INT NOT NULL,
                created_at TIMESTAMPTZ NOT NULL
        )`,
	`CREATE TABLE IF NOT EXISTS deep_links (
                link TEXT PRIMARY KEY,
                creator_id BIGINT NOT NULL,
                role_id INT NOT NULL REFERENCES roles (id),
                user_id BIGINT,
                joined TIMESTAMPTZ
        )`,
	`CREATE INDEX IF NOT EXISTS questions_selection_idx
                ON questions (language_id, test_type_id, number_answers)`,
	`CREATE INDEX IF NOT EXISTS user_answers_user_idx
                ON user_answers (user_id, question_id)`,
}

// EnsureSchema создает недостающие таблицы и справочные записи
func EnsureSchema(ctx context.Context, db *pgxpool.Pool, cfg *config.Config) error {
	for _, statement := range schemaStatements {
		if _, err := db.Exec(ctx, statement); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	for _, role := range []string{model.RoleUser, model.RoleTestCreator, model.RoleAdmin} {
		if _, err := db.Exec(ctx,
			"INSERT INTO roles (role) VALUES ($1) ON CONFLICT (role) DO NOTHING", role); err != nil {
			return fmt.Errorf("failed to seed role %s: %w", role, err)
		}
	}
	for _, language := range cfg.Catalog.Languages {
		if _, err := db.Exec(ctx,
			"INSERT INTO languages (code, name) VALUES ($1, $2) ON CONFLICT (code) DO NOTHING",
			language.Code, language.Name); err != nil {
			return fmt.Errorf("failed to seed language %s: %w", language.Code, err)
		}
	}
	for _, testType := range cfg.Catalog.TestTypes {
		if _, err := db.Exec(ctx,
			"INSERT INTO test_types (type) VALUES ($1) ON CONFLICT (type) DO NOTHING", testType); err != nil {
			return fmt.Errorf("failed to seed test type %s: %w", testType, err)
		}
	}

	return nil
}
