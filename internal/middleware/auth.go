package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinica-otica/internal/access"
	"github.com/BruksfildServices01/clinica-otica/internal/httperr"
	"github.com/BruksfildServices01/clinica-otica/internal/session"
)

const (
	ContextProfile = "profile"
	ContextToken   = "token"
)

// SessionReader resolves a bearer token into the current profile.
type SessionReader interface {
	GetUser(ctx context.Context, token string) (*session.Profile, error)
}

// AuthMiddleware reloads the profile on every request; a deactivated user is
// rejected on the next call.
func AuthMiddleware(sessions SessionReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "Faça login para continuar.")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			httperr.Unauthorized(c, "invalid_authorization_header", "Cabeçalho de autorização inválido.")
			return
		}

		profile, err := sessions.GetUser(c.Request.Context(), parts[1])
		if err != nil {
			code := "invalid_token"
			if be, ok := httperr.AsBusiness(err); ok {
				code = be.Code
			}
			httperr.Unauthorized(c, code, "Sessão inválida ou expirada.")
			return
		}

		c.Set(ContextProfile, *profile)
		c.Set(ContextToken, parts[1])
		c.Next()
	}
}

// RequireCapability must run after AuthMiddleware.
func RequireCapability(capability access.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := ProfileFrom(c)
		if !ok {
			httperr.Unauthorized(c, "unauthenticated", "Faça login para continuar.")
			return
		}
		if !p.Can(capability) {
			httperr.Forbidden(c, "forbidden", "Você não tem permissão para esta ação.")
			return
		}
		c.Next()
	}
}

func ProfileFrom(c *gin.Context) (session.Profile, bool) {
	v, ok := c.Get(ContextProfile)
	if !ok {
		return session.Profile{}, false
	}
	p, ok := v.(session.Profile)
	return p, ok
}

func TokenFrom(c *gin.Context) string {
	return c.GetString(ContextToken)
}
