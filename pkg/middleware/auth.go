package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "tarsier/pkg/errors"
	"tarsier/pkg/service"
	"tarsier/pkg/utils"
)

type AuthMiddleware struct {
	jwtService service.JWTService
	cookieName string
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, cookieName string, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		cookieName: cookieName,
		logger:     logger,
	}
}

// Auth берёт токен из cookie, при её отсутствии из заголовка Authorization.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString := m.extractToken(c)
		if tokenString == "" {
			return utils.ErrorResponse(c, apperrors.ErrTokenNotFound, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			m.logger.Warn("AuthMiddleware: ошибка валидации токена", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		ctx := utils.WithUserID(c.Request().Context(), claims.UserID)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

func (m *AuthMiddleware) extractToken(c echo.Context) string {
	if cookie, err := c.Cookie(m.cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	parts := strings.SplitN(c.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
