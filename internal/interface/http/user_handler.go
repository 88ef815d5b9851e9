package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/user-registration/internal/application"
	"github.com/oksasatya/user-registration/internal/domain/entity"
	"github.com/oksasatya/user-registration/pkg/response"
	"github.com/oksasatya/user-registration/pkg/validation"
)

// UserService is the registration API the handler drives.
type UserService interface {
	Register(ctx context.Context, in userapp.RegisterInput) (*entity.User, error)
	VerifyToken(ctx context.Context, token string) (bool, error)
	SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error)
}

type UserHandler struct {
	Svc    UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Name  string `json:"name" binding:"required,notblank,max=255"`
	Email string `json:"email" binding:"required,email,max=255"`
}

// Register handles POST /api/v1/users.
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), userapp.RegisterInput{
		Name:      req.Name,
		Email:     req.Email,
		IP:        clientIP(c),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		if errors.Is(err, userapp.ErrEmailAlreadyExists) {
			response.Error[any](c, http.StatusConflict, err.Error(), nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to register user", nil)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"user": u}, "user registered, check your email to verify the account", nil)
}

// Confirm handles GET /api/v1/users?token=...
func (h *UserHandler) Confirm(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"token": "is required"})
		return
	}

	ok, err := h.Svc.VerifyToken(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, userapp.ErrUserNotFound) {
			response.Error[any](c, http.StatusInternalServerError, err.Error(), nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to verify token", nil)
		return
	}
	msg := "account verified"
	if !ok {
		msg = "invalid or already used token"
	}
	response.Success(c, http.StatusOK, gin.H{"success": ok}, msg, nil)
}

// Search handles GET /api/v1/users/search?q=...&size=...
func (h *UserHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"q": "is required"})
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	hits, err := h.Svc.SearchUsers(c.Request.Context(), q, size)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Warn("search users failed")
		}
		response.Error[any](c, http.StatusBadGateway, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": hits}, "users", gin.H{"count": len(hits)})
}

func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	return c.ClientIP()
}
