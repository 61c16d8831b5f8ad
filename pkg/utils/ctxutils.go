package utils

import (
	"context"

	"tarsier/pkg/contextkeys"
	apperrors "tarsier/pkg/errors"
)

func GetUserIDFromCtx(ctx context.Context) (uint64, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok || userID == 0 {
		return 0, apperrors.ErrUnauthorized
	}
	return userID, nil
}

func WithUserID(ctx context.Context, userID uint64) context.Context {
	return context.WithValue(ctx, contextkeys.UserIDKey, userID)
}
