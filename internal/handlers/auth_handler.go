package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinica-otica/internal/httpresp"
	"github.com/BruksfildServices01/clinica-otica/internal/middleware"
	"github.com/BruksfildServices01/clinica-otica/internal/session"
	"github.com/BruksfildServices01/clinica-otica/internal/validators"
)

type SessionService interface {
	SignIn(ctx context.Context, email, password string) (*session.Session, error)
	SignOut(ctx context.Context, token string) error
}

type AuthHandler struct {
	sessions SessionService
}

func NewAuthHandler(sessions SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// --------- Requests ---------

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Email = validators.NormalizeEmail(req.Email)
	if err := validators.Struct(req).Err(); err != nil {
		respondError(c, err)
		return
	}

	s, err := h.sessions.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, s)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.SignOut(c.Request.Context(), middleware.TokenFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	httpresp.NoContent(c)
}
