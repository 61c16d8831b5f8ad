// Файл: internal/services/auth.go
package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"tarsier/internal/dto"
	"tarsier/internal/entities"
	"tarsier/internal/repositories"
	apperrors "tarsier/pkg/errors"
	"tarsier/pkg/utils"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*entities.User, error)
	HasPassword(ctx context.Context, payload dto.EmailDTO) (*dto.HasPasswordDTO, error)
	CreatePassword(ctx context.Context, payload dto.CreatePasswordDTO) (*entities.User, error)
}

type AuthService struct {
	userRepo repositories.UserRepositoryInterface
	logger   *zap.Logger
}

func NewAuthService(userRepo repositories.UserRepositoryInterface, logger *zap.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, logger: logger}
}

// Login не различает "нет пользователя" и "неверный пароль".
func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*entities.User, error) {
	logger := s.logger.With(zap.String("email", payload.Email))

	user, err := s.userRepo.FindByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			logger.Warn("Попытка входа несуществующего пользователя")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, storageError("find user by email", err)
	}
	if !user.HasPassword() {
		logger.Warn("Попытка входа пользователя без пароля")
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := utils.ComparePasswords(*user.Password, payload.Password); err != nil {
		logger.Warn("Неверный пароль")
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.userRepo.TouchLastSignIn(ctx, user.ID); err != nil {
		logger.Warn("Не удалось обновить дату входа", zap.Error(err))
	}

	logger.Info("Пользователь вошёл в систему", zap.Uint64("userID", user.ID))
	return user, nil
}

func (s *AuthService) HasPassword(ctx context.Context, payload dto.EmailDTO) (*dto.HasPasswordDTO, error) {
	user, err := s.userRepo.FindByEmail(ctx, payload.Email)
	if err != nil {
		return nil, storageError("find user by email", err)
	}
	return &dto.HasPasswordDTO{Email: user.Email, HasPassword: user.HasPassword()}, nil
}

// CreatePassword задаёт первый пароль. Сменить существующий так нельзя.
func (s *AuthService) CreatePassword(ctx context.Context, payload dto.CreatePasswordDTO) (*entities.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, payload.Email)
	if err != nil {
		return nil, storageError("find user by email", err)
	}
	if user.HasPassword() {
		return nil, apperrors.ErrPasswordAlreadySet
	}

	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.SetPassword(ctx, user.ID, hash); err != nil {
		return nil, storageError("set password", err)
	}
	user.Password = &hash

	s.logger.Info("Пароль пользователя установлен", zap.Uint64("userID", user.ID))
	return user, nil
}
