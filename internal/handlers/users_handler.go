package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinica-otica/internal/httpresp"
	"github.com/BruksfildServices01/clinica-otica/internal/models"
	"github.com/BruksfildServices01/clinica-otica/internal/session"
	ucUser "github.com/BruksfildServices01/clinica-otica/internal/usecase/user"
)

type UserManager interface {
	List(ctx context.Context, actor session.Profile, active *bool, page, limit int) (*ucUser.ListResult, error)
	Create(ctx context.Context, actor session.Profile, in ucUser.Input) (*models.User, error)
	Update(ctx context.Context, actor session.Profile, id uint, in ucUser.Input) (*models.User, error)
	Remove(ctx context.Context, actor session.Profile, id uint) error
}

type UsersHandler struct {
	users UserManager
}

func NewUsersHandler(users UserManager) *UsersHandler {
	return &UsersHandler{users: users}
}

func (h *UsersHandler) List(c *gin.Context) {
	page, limit := pageParams(c)

	res, err := h.users.List(c.Request.Context(), mustProfile(c), queryBool(c, "active"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.Page(c, res.Items, res.Page, res.Limit, res.Total)
}

func (h *UsersHandler) Create(c *gin.Context) {
	var in ucUser.Input
	if !bindJSON(c, &in) {
		return
	}

	u, err := h.users.Create(c.Request.Context(), mustProfile(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.Created(c, u)
}

func (h *UsersHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in ucUser.Input
	if !bindJSON(c, &in) {
		return
	}

	u, err := h.users.Update(c.Request.Context(), mustProfile(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, u)
}

func (h *UsersHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.users.Remove(c.Request.Context(), mustProfile(c), id); err != nil {
		respondError(c, err)
		return
	}
	httpresp.NoContent(c)
}
