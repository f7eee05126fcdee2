package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/cooking-assistant/backend/internal/service"
	"github.com/pageza/cooking-assistant/backend/internal/types"
)

const invalidBodyMessage = "Invalid request body"

// AuthHandler serves registration and login
type AuthHandler struct {
	auth   service.IAuthService
	logger *zap.Logger
}

func NewAuthHandler(auth service.IAuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// Register creates an account. The user logs in separately afterwards.
func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Result{View: ViewLogin, Error: invalidBodyMessage})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.ConfirmPassword)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrInvalidEmail):
		c.JSON(http.StatusBadRequest, Result{View: ViewLogin, Error: err.Error()})
		return
	case errors.Is(err, service.ErrUserExists):
		c.JSON(http.StatusConflict, Result{View: ViewLogin, Error: "Email already registered"})
		return
	case errors.Is(err, service.ErrEmailUnavailable):
		c.JSON(http.StatusConflict, Result{View: ViewLogin, Error: err.Error()})
		return
	default:
		_ = c.Error(err)
		return
	}

	h.logger.Info("user registered", zap.String("email", user.Email))
	c.JSON(http.StatusCreated, Result{
		View:    ViewLogin,
		Message: "Registration successful! Please login.",
		User:    &UserView{Email: user.Email, Name: user.Name},
	})
}

// Login checks the credentials and returns a bearer token
func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Result{View: ViewLogin, Error: invalidBodyMessage})
		return
	}

	user, err := h.auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrMissingCredentials):
		c.JSON(http.StatusBadRequest, Result{View: ViewLogin, Error: err.Error()})
		return
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusUnauthorized, Result{View: ViewLogin, Error: "User not found"})
		return
	case errors.Is(err, service.ErrWrongPassword):
		c.JSON(http.StatusUnauthorized, Result{View: ViewLogin, Error: err.Error()})
		return
	default:
		_ = c.Error(err)
		return
	}

	token, err := h.auth.GenerateToken(user)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, Result{
		View:    ViewGenerate,
		Message: "Login successful!",
		Token:   token,
		User:    &UserView{Email: user.Email, Name: user.Name},
	})
}
