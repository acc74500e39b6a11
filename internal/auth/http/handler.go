package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nuitdor/booking-backend/internal/auth"
	"github.com/nuitdor/booking-backend/internal/pkg/apperror"
	"github.com/nuitdor/booking-backend/internal/pkg/response"
)

type Handler struct {
	verifier   auth.PasswordVerifier
	jwtManager *auth.JWTManager
}

func NewHandler(verifier auth.PasswordVerifier, jwtManager *auth.JWTManager) *Handler {
	return &Handler{verifier: verifier, jwtManager: jwtManager}
}

type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// Login exchanges the admin password for a short-lived session token, so the
// dashboard does not have to hold the password in memory for every call.
func (h *Handler) Login(c *gin.Context) {
	var body LoginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password is required"})
		return
	}

	if !h.verifier.Configured() {
		response.Error(c, apperror.New(http.StatusServiceUnavailable, "admin access is not configured"))
		return
	}
	if !h.verifier.Verify(body.Password) {
		response.Error(c, apperror.New(http.StatusUnauthorized, "invalid admin password"))
		return
	}

	token, err := h.jwtManager.GenerateToken()
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Token: token})
}

// RegisterRoutes mounts the login endpoint outside the admin gate: callers do
// not have a token yet.
func RegisterRoutes(public *gin.RouterGroup, h *Handler) {
	public.POST("/admin/login", h.Login)
}
