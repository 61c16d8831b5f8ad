package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tarsier/internal/dto"
	"tarsier/internal/entities"
	apperrors "tarsier/pkg/errors"
)

func TestAuthService_FirstPasswordThenLogin(t *testing.T) {
	users := newFakeUserRepo(&entities.User{ID: 5, Email: "marie@tarsier.local"})
	svc := NewAuthService(users, zap.NewNop())
	ctx := context.Background()

	has, err := svc.HasPassword(ctx, dto.EmailDTO{Email: "marie@tarsier.local"})
	require.NoError(t, err)
	assert.False(t, has.HasPassword)

	_, err = svc.Login(ctx, dto.LoginDTO{Email: "marie@tarsier.local", Password: "secret-123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.CreatePassword(ctx, dto.CreatePasswordDTO{Email: "marie@tarsier.local", Password: "secret-123"})
	require.NoError(t, err)

	_, err = svc.CreatePassword(ctx, dto.CreatePasswordDTO{Email: "marie@tarsier.local", Password: "other-456"})
	assert.ErrorIs(t, err, apperrors.ErrPasswordAlreadySet)

	user, err := svc.Login(ctx, dto.LoginDTO{Email: "marie@tarsier.local", Password: "secret-123"})
	require.NoError(t, err)
	assert.Equal(t, uint64(5), user.ID)

	stored, err := users.FindUserByID(ctx, 5)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastSignIn)

	_, err = svc.Login(ctx, dto.LoginDTO{Email: "marie@tarsier.local", Password: "wrong-pass"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_UnknownEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), zap.NewNop())

	_, err := svc.Login(context.Background(), dto.LoginDTO{Email: "nobody@tarsier.local", Password: "secret-123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.HasPassword(context.Background(), dto.EmailDTO{Email: "nobody@tarsier.local"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserService_AdminCreatesUser(t *testing.T) {
	users := newFakeUserRepo(adminUser, regularUser)
	svc := NewUserService(users, zap.NewNop())

	created, err := svc.CreateUser(ctxWithUser(adminUser.ID), dto.CreateUserDTO{
		FirstName: "Marie", LastName: "Curie", Email: "marie@tarsier.local",
	})
	require.NoError(t, err)
	require.NotNil(t, created.CreatedBy)
	assert.Equal(t, adminUser.ID, *created.CreatedBy)
	assert.False(t, created.HasPassword())

	_, err = svc.CreateUser(ctxWithUser(adminUser.ID), dto.CreateUserDTO{
		FirstName: "M", LastName: "C", Email: "marie@tarsier.local",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailExists)

	_, err = svc.CreateUser(ctxWithUser(regularUser.ID), dto.CreateUserDTO{Email: "x@tarsier.local"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	me, err := svc.FindUser(ctxWithUser(regularUser.ID), regularUser.ID)
	require.NoError(t, err)
	assert.Equal(t, regularUser.Email, me.Email)

	_, err = svc.FindUser(ctxWithUser(regularUser.ID), adminUser.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
