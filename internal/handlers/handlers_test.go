package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinica-otica/internal/access"
	"github.com/BruksfildServices01/clinica-otica/internal/middleware"
	"github.com/BruksfildServices01/clinica-otica/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func uintPtr(v uint) *uint { return &v }

var (
	admin   = session.Profile{ID: 1, Name: "Admin", Role: access.RoleAdmin, Active: true}
	manager = session.Profile{ID: 2, Name: "Gerente", Role: access.RoleManager, BranchID: uintPtr(2), Active: true}
)

// newRouter signs every request in as p.
func newRouter(p session.Profile) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextProfile, p)
		c.Next()
	})
	return r
}

func do(r http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}

	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
