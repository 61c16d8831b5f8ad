package services

import (
	"context"

	"go.uber.org/zap"

	"tarsier/internal/authz"
	"tarsier/internal/dto"
	"tarsier/internal/entities"
	"tarsier/internal/repositories"
	"tarsier/pkg/types"
)

type UserServiceInterface interface {
	GetUsers(ctx context.Context, filter types.Filter) (*dto.PaginatedResponse[entities.User], error)
	FindUser(ctx context.Context, id uint64) (*entities.User, error)
	Me(ctx context.Context) (*entities.User, error)
	CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*entities.User, error)
	UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO) (*entities.User, error)
	DeleteUser(ctx context.Context, id uint64) error
}

// UserService: пользователей заводит админ, пароль задаёт сам пользователь при первом входе.
type UserService struct {
	userRepo repositories.UserRepositoryInterface
	logger   *zap.Logger
}

func NewUserService(userRepo repositories.UserRepositoryInterface, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

func (s *UserService) GetUsers(ctx context.Context, filter types.Filter) (*dto.PaginatedResponse[entities.User], error) {
	if _, err := authorize(ctx, s.userRepo, authz.UsersView, nil); err != nil {
		return nil, err
	}
	users, total, err := s.userRepo.GetUsers(ctx, filter)
	if err != nil {
		return nil, storageError("list users", err)
	}
	return &dto.PaginatedResponse[entities.User]{List: users, Pagination: types.NewPagination(total, filter)}, nil
}

// FindUser: свою карточку видит любой пользователь, чужие только админ.
func (s *UserService) FindUser(ctx context.Context, id uint64) (*entities.User, error) {
	actor, err := resolveActor(ctx, s.userRepo)
	if err != nil {
		return nil, err
	}
	if actor.ID == id {
		return actor, nil
	}
	if _, err := authorize(ctx, s.userRepo, authz.UsersView, nil); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindUserByID(ctx, id)
	return user, storageError("find user", err)
}

func (s *UserService) Me(ctx context.Context) (*entities.User, error) {
	return resolveActor(ctx, s.userRepo)
}

func (s *UserService) CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*entities.User, error) {
	actor, err := authorize(ctx, s.userRepo, authz.UsersManage, nil)
	if err != nil {
		return nil, err
	}

	user := entities.User{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		IsAdmin:   payload.IsAdmin,
		CreatedBy: &actor.ID,
	}
	id, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, storageError("create user", err)
	}

	s.logger.Info("Пользователь создан", zap.Uint64("userID", id), zap.Uint64("createdBy", actor.ID))
	created, err := s.userRepo.FindUserByID(ctx, id)
	return created, storageError("find user", err)
}

func (s *UserService) UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO) (*entities.User, error) {
	if _, err := authorize(ctx, s.userRepo, authz.UsersManage, nil); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindUserByID(ctx, id)
	if err != nil {
		return nil, storageError("find user", err)
	}

	if payload.FirstName != nil {
		user.FirstName = *payload.FirstName
	}
	if payload.LastName != nil {
		user.LastName = *payload.LastName
	}
	if payload.Email != nil {
		user.Email = *payload.Email
	}
	if payload.IsAdmin != nil {
		user.IsAdmin = *payload.IsAdmin
	}

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, storageError("update user", err)
	}
	updated, err := s.userRepo.FindUserByID(ctx, id)
	return updated, storageError("find user", err)
}

func (s *UserService) DeleteUser(ctx context.Context, id uint64) error {
	actor, err := authorize(ctx, s.userRepo, authz.UsersManage, nil)
	if err != nil {
		return err
	}
	if err := s.userRepo.DeleteUser(ctx, id); err != nil {
		return storageError("delete user", err)
	}
	s.logger.Info("Пользователь удалён", zap.Uint64("userID", id), zap.Uint64("deletedBy", actor.ID))
	return nil
}
