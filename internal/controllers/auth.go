package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tarsier/internal/dto"
	"tarsier/internal/services"
	apperrors "tarsier/pkg/errors"
	"tarsier/pkg/service"
	"tarsier/pkg/utils"
)

type AuthController struct {
	authService  services.AuthServiceInterface
	userService  services.UserServiceInterface
	jwtSvc       service.JWTService
	cookieName   string
	cookieSecure bool
	logger       *zap.Logger
}

func NewAuthController(
	authService services.AuthServiceInterface,
	userService services.UserServiceInterface,
	jwtSvc service.JWTService,
	cookieName string,
	cookieSecure bool,
	logger *zap.Logger,
) *AuthController {
	return &AuthController{
		authService:  authService,
		userService:  userService,
		jwtSvc:       jwtSvc,
		cookieName:   cookieName,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

func (ctrl *AuthController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO
	if err := c.Bind(&payload); err != nil {
		ctrl.logger.Error("Login: ошибка привязки данных", zap.Error(err))
		return ctrl.errorResponse(c, apperrors.NewBadRequestError("Invalid request body"))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	user, err := ctrl.authService.Login(c.Request().Context(), payload)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return ctrl.issueToken(c, user.ID, user, "Logged in")
}

// CreatePassword задаёт первый пароль и сразу авторизует пользователя.
func (ctrl *AuthController) CreatePassword(c echo.Context) error {
	var payload dto.CreatePasswordDTO
	if err := c.Bind(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.NewBadRequestError("Invalid request body"))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	user, err := ctrl.authService.CreatePassword(c.Request().Context(), payload)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return ctrl.issueToken(c, user.ID, user, "Password created")
}

func (ctrl *AuthController) HasPassword(c echo.Context) error {
	var payload dto.EmailDTO
	if err := c.Bind(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.NewBadRequestError("Invalid request body"))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	res, err := ctrl.authService.HasPassword(c.Request().Context(), payload)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, res, "", http.StatusOK)
}

func (ctrl *AuthController) Me(c echo.Context) error {
	user, err := ctrl.userService.Me(c.Request().Context())
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, user, "", http.StatusOK)
}

func (ctrl *AuthController) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     ctrl.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   ctrl.cookieSecure,
		SameSite: http.SameSiteNoneMode,
	})
	return utils.SuccessResponse(c, nil, "Logged out", http.StatusOK)
}

func (ctrl *AuthController) issueToken(c echo.Context, userID uint64, body interface{}, message string) error {
	token, err := ctrl.jwtSvc.GenerateToken(userID)
	if err != nil {
		ctrl.logger.Error("Не удалось сгенерировать токен", zap.Uint64("userID", userID), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     ctrl.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ctrl.jwtSvc.GetTokenTTL()),
		HttpOnly: true,
		Secure:   ctrl.cookieSecure,
		SameSite: http.SameSiteNoneMode,
	})
	return utils.SuccessResponse(c, body, message, http.StatusOK)
}
