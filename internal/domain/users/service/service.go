package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lingvotest-bot/internal/domain/model"
	"lingvotest-bot/internal/domain/users/repository"
)

// UserService содержит логику бизнес-операций для пользователей
type UserService struct {
	userRepo *repository.UserRepository
}

// NewUserService создает новый экземпляр UserService
func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// IsNewUser проверяет, что пользователь еще не зарегистрирован
func (s *UserService) IsNewUser(ctx context.Context, userID int64) (bool, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to get user: %w", err)
	}
	return user == nil, nil
}

// RegisterUser заводит пользователя. Непустой пригласительный токен
// погашается и дает роль, которую он выдает; иначе базовая роль.
func (s *UserService) RegisterUser(ctx context.Context, userID int64, date time.Time, deepLink string) error {
	role := model.RoleUser
	if deepLink != "" {
		granted, err := s.userRepo.RedeemDeepLink(ctx, deepLink, userID, date)
		if err != nil {
			return fmt.Errorf("failed to redeem deep link: %w", err)
		}
		if granted != "" {
			role = granted
		}
	}

	roleID, err := s.userRepo.GetRoleID(ctx, role)
	if err != nil {
		return fmt.Errorf("failed to get role id: %w", err)
	}
	if err := s.userRepo.CreateUser(ctx, userID, roleID, date); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// UpgradeRole повышает роль существующего пользователя по токену.
// Роль администратора никогда не понижается.
func (s *UserService) UpgradeRole(ctx context.Context, userID int64, date time.Time, deepLink string) error {
	current, err := s.userRepo.GetUserRole(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user role: %w", err)
	}
	if current == model.RoleAdmin {
		return nil
	}

	granted, err := s.userRepo.RedeemDeepLink(ctx, deepLink, userID, date)
	if err != nil {
		return fmt.Errorf("failed to redeem deep link: %w", err)
	}
	if granted == "" || granted == current {
		return nil
	}

	roleID, err := s.userRepo.GetRoleID(ctx, granted)
	if err != nil {
		return fmt.Errorf("failed to get role id: %w", err)
	}
	if err := s.userRepo.UpdateUserRole(ctx, userID, roleID); err != nil {
		return fmt.Errorf("failed to upgrade role: %w", err)
	}
	return nil
}

// UserRole получает название роли пользователя
func (s *UserService) UserRole(ctx context.Context, userID int64) (string, error) {
	role, err := s.userRepo.GetUserRole(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to get user role: %w", err)
	}
	return role, nil
}

// CreateDeepLink выпускает одноразовый пригласительный токен,
// дающий роль создателя тестов
func (s *UserService) CreateDeepLink(ctx context.Context, creatorID int64) (string, error) {
	link := uuid.NewString()
	if err := s.userRepo.CreateDeepLink(ctx, link, creatorID, model.RoleTestCreator); err != nil {
		return "", fmt.Errorf("failed to create deep link: %w", err)
	}
	return link, nil
}

// EnsureAdmin выдает пользователю роль администратора, регистрируя его
// при необходимости. Используется для назначения администраторов из конфигурации.
func (s *UserService) EnsureAdmin(ctx context.Context, userID int64, date time.Time) error {
	roleID, err := s.userRepo.GetRoleID(ctx, model.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to get role id: %w", err)
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		if err := s.userRepo.CreateUser(ctx, userID, roleID, date); err != nil {
			return fmt.Errorf("failed to create admin: %w", err)
		}
		return nil
	}
	if user.RoleID == roleID {
		return nil
	}
	if err := s.userRepo.UpdateUserRole(ctx, userID, roleID); err != nil {
		return fmt.Errorf("failed to update admin role: %w", err)
	}
	return nil
}
