package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lingvotest-bot/internal/domain/model"
)

// UserRepository реализация хранилища пользователей поверх PostgreSQL
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository создает новый экземпляр UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// GetUserByID ищет пользователя по его Telegram-идентификатору
func (r *UserRepository) GetUserByID(ctx context.Context, userID int64) (*model.User, error) {
	var user model.User
	err := r.db.QueryRow(ctx, "SELECT id, role_id, joined FROM users WHERE id = $1", userID).
		Scan(&user.ID, &user.RoleID, &user.Joined)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // Если пользователя нет, возвращаем nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// CreateUser создает нового пользователя в базе данных
func (r *UserRepository) CreateUser(ctx context.Context, userID int64, roleID int, joined time.Time) error {
	_, err := r.db.Exec(ctx, "INSERT INTO users (id, role_id, joined) VALUES ($1, $2, $3)",
		userID, roleID, joined)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdateUserRole обновляет роль пользователя в базе данных
func (r *UserRepository) UpdateUserRole(ctx context.Context, userID int64, roleID int) error {
	_, err := r.db.Exec(ctx, "UPDATE users SET role_id = $1 WHERE id = $2", roleID, userID)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	return nil
}

// GetUserRole получает название роли пользователя.
// Возвращает пустую строку, если пользователь не найден.
func (r *UserRepository) GetUserRole(ctx context.Context, userID int64) (string, error) {
	var role string
	err := r.db.QueryRow(ctx, `
                SELECT r.role
                FROM users u
                JOIN roles r ON r.id = u.role_id
                WHERE u.id = $1
        `, userID).Scan(&role)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to get user role: %w", err)
	}
	return role, nil
}

// GetRoleID получает идентификатор роли по названию
func (r *UserRepository) GetRoleID(ctx context.Context, role string) (int, error) {
	var id int
	err := r.db.QueryRow(ctx, "SELECT id FROM roles WHERE role = $1", role).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to get role id: %w", err)
	}
	return id, nil
}

// CreateDeepLink сохраняет пригласительный токен с ролью, которую он выдает
func (r *UserRepository) CreateDeepLink(ctx context.Context, link string, creatorID int64, role string) error {
	_, err := r.db.Exec(ctx, `
                INSERT INTO deep_links (link, creator_id, role_id)
                VALUES ($1, $2, (SELECT id FROM roles WHERE role = $3))
        `, link, creatorID, role)
	if err != nil {
		return fmt.Errorf("failed to create deep link: %w", err)
	}
	return nil
}

// RedeemDeepLink помечает токен использованным и возвращает роль, которую он
// выдает. Возвращает пустую строку, если токен не найден или уже использован.
func (r *UserRepository) RedeemDeepLink(ctx context.Context, link string, userID int64, joined time.Time) (string, error) {
	var role string
	err := r.db.QueryRow(ctx, `
                UPDATE deep_links
                SET user_id = $2, joined = $3
                WHERE link = $1 AND user_id IS NULL
                RETURNING (SELECT role FROM roles WHERE id = role_id)
        `, link, userID, joined).Scan(&role)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to redeem deep link: %w", err)
	}
	return role, nil
}
