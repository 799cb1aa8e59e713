package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinica-otica/internal/access"
	"github.com/BruksfildServices01/clinica-otica/internal/session"
)

type MeHandler struct{}

func NewMeHandler() *MeHandler {
	return &MeHandler{}
}

type MeResponse struct {
	session.Profile
	Capabilities []access.Capability `json:"capabilities"`
}

// GetMe returns the profile reloaded by the auth middleware and what it may do.
func (h *MeHandler) GetMe(c *gin.Context) {
	p := mustProfile(c)

	caps := []access.Capability{}
	for _, capability := range access.Capabilities() {
		if p.Can(capability) {
			caps = append(caps, capability)
		}
	}

	c.JSON(http.StatusOK, MeResponse{Profile: p, Capabilities: caps})
}
