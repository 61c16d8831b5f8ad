package services

import (
	"context"
	"errors"

	"tarsier/internal/authz"
	"tarsier/internal/entities"
	apperrors "tarsier/pkg/errors"
	"tarsier/pkg/utils"
)

// ActorFinder загружает текущего пользователя по id из контекста.
type ActorFinder interface {
	FindUserByID(ctx context.Context, id uint64) (*entities.User, error)
}

func resolveActor(ctx context.Context, users ActorFinder) (*entities.User, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	actor, err := users.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, apperrors.NewStorageError("find actor", err)
	}
	return actor, nil
}

// authorize проверяет право текущего пользователя, target может быть nil.
func authorize(ctx context.Context, users ActorFinder, permission string, target interface{}) (*entities.User, error) {
	actor, err := resolveActor(ctx, users)
	if err != nil {
		return nil, err
	}
	if !authz.CanDo(permission, authz.NewContext(actor, target)) {
		return actor, apperrors.ErrForbidden
	}
	return actor, nil
}

var domainErrors = []error{
	apperrors.ErrNotFound,
	apperrors.ErrUserNotFound,
	apperrors.ErrOverlap,
	apperrors.ErrPastStart,
	apperrors.ErrEquipmentCodeExists,
	apperrors.ErrPerimeterCodeExists,
	apperrors.ErrEmailExists,
}

// storageError пропускает доменные ошибки как есть, остальное оборачивает в StorageError.
func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, e := range domainErrors {
		if errors.Is(err, e) {
			return err
		}
	}
	var se *apperrors.StorageError
	if errors.As(err, &se) {
		return err
	}
	return apperrors.NewStorageError(op, err)
}
