package user

import (
	"context"
	"errors"
	"strings"

	"github.com/BruksfildServices01/clinica-otica/internal/access"
	"github.com/BruksfildServices01/clinica-otica/internal/audit"
	"github.com/BruksfildServices01/clinica-otica/internal/httperr"
	"github.com/BruksfildServices01/clinica-otica/internal/models"
	"github.com/BruksfildServices01/clinica-otica/internal/session"
	"github.com/BruksfildServices01/clinica-otica/internal/store"
	"github.com/BruksfildServices01/clinica-otica/internal/validators"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Input is the user form. Password is required on create and optional on
// update; Active nil keeps the current value.
type Input struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password"`
	Role     string `json:"role" validate:"required"`
	BranchID *uint  `json:"branch_id"`
	Active   *bool  `json:"active"`
}

func (in *Input) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = validators.NormalizeEmail(in.Email)
	in.Role = strings.TrimSpace(in.Role)
}

type Manage struct {
	users store.Table[models.User]
	audit audit.Recorder
}

func NewManage(users store.Table[models.User], rec audit.Recorder) *Manage {
	return &Manage{users: users, audit: rec}
}

type ListResult struct {
	Items []models.User
	Total int64
	Page  int
	Limit int
}

// List returns users visible to actor; branch-scoped actors only see their
// branch.
func (m *Manage) List(ctx context.Context, actor session.Profile, active *bool, page, limit int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	var filters []store.Filter
	if scope := scopeOf(actor); scope != nil {
		filters = append(filters, store.Where("branch_id", *scope))
	}
	if active != nil {
		filters = append(filters, store.Where("active", *active))
	}

	total, err := m.users.Count(ctx, filters...)
	if err != nil {
		return nil, err
	}
	rows, err := m.users.Select(ctx, store.Query{
		Filters: filters,
		Order:   []store.Order{{Column: "name"}, {Column: "id"}},
		Limit:   limit,
		Offset:  (page - 1) * limit,
	})
	if err != nil {
		return nil, err
	}
	return &ListResult{Items: rows, Total: total, Page: page, Limit: limit}, nil
}

func (m *Manage) Create(ctx context.Context, actor session.Profile, in Input) (*models.User, error) {

	// 1️⃣ Form
	in.normalize()
	errs := validators.Struct(in)
	validators.Var(errs, "password", in.Password, "required,min=6")
	role, ok := access.ParseRole(in.Role)
	if in.Role != "" && !ok {
		errs.Add("role", "Perfil inválido.")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	// 2️⃣ Permissions and scope
	if !access.CanAssign(actor.Role, role) {
		return nil, httperr.ErrBusiness("role_not_allowed")
	}
	branchID, err := assignBranch(actor, role, in.BranchID)
	if err != nil {
		return nil, err
	}

	// 3️⃣ Persist
	hash, err := session.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	u := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         string(role),
		BranchID:     branchID,
		Active:       active,
	}
	if err := m.users.Insert(ctx, u); err != nil {
		return nil, mapWriteError(err)
	}

	m.record(actor, "user_created", u.ID)
	return u, nil
}

func (m *Manage) Update(ctx context.Context, actor session.Profile, id uint, in Input) (*models.User, error) {

	// 1️⃣ Form
	in.normalize()
	errs := validators.Struct(in)
	if in.Password != "" {
		validators.Var(errs, "password", in.Password, "min=6")
	}
	role, ok := access.ParseRole(in.Role)
	if in.Role != "" && !ok {
		errs.Add("role", "Perfil inválido.")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	// 2️⃣ Target
	u, err := m.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !access.CanAssign(actor.Role, access.Role(u.Role)) || !access.CanAssign(actor.Role, role) {
		return nil, httperr.ErrBusiness("role_not_allowed")
	}
	if u.ID == actor.ID && (role != actor.Role || (in.Active != nil && !*in.Active)) {
		return nil, httperr.ErrBusinessMsg("cannot_change_self", "Você não pode alterar o próprio perfil ou desativar a si mesmo.")
	}

	branchID, err := assignBranch(actor, role, in.BranchID)
	if err != nil {
		return nil, err
	}

	// 3️⃣ Apply
	u.Name = in.Name
	u.Email = in.Email
	u.Role = string(role)
	u.BranchID = branchID
	if in.Active != nil {
		u.Active = *in.Active
	}
	if in.Password != "" {
		hash, err := session.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}

	if err := m.users.Save(ctx, u); err != nil {
		return nil, mapWriteError(err)
	}

	m.record(actor, "user_updated", u.ID)
	return u, nil
}

func (m *Manage) Remove(ctx context.Context, actor session.Profile, id uint) error {
	if id == actor.ID {
		return httperr.ErrBusinessMsg("cannot_delete_self", "Você não pode excluir o próprio usuário.")
	}

	u, err := m.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if !access.CanAssign(actor.Role, access.Role(u.Role)) {
		return httperr.ErrBusiness("role_not_allowed")
	}

	if _, err := m.users.Delete(ctx, store.Where("id", id)); err != nil {
		return err
	}

	m.record(actor, "user_deleted", id)
	return nil
}

func (m *Manage) load(ctx context.Context, actor session.Profile, id uint) (*models.User, error) {
	u, err := m.users.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, httperr.ErrBusiness("user_not_found")
	}
	if err != nil {
		return nil, err
	}
	if scope := scopeOf(actor); scope != nil && (u.BranchID == nil || *u.BranchID != *scope) {
		return nil, httperr.ErrBusiness("user_not_found")
	}
	return u, nil
}

func (m *Manage) record(actor session.Profile, action string, id uint) {
	if m.audit == nil {
		return
	}
	userID := actor.ID
	m.audit.Dispatch(audit.Event{
		BranchID: actor.BranchID,
		UserID:   &userID,
		Action:   action,
		Entity:   "user",
		EntityID: &id,
	})
}

// scopeOf returns the branch the actor is confined to, or nil.
func scopeOf(actor session.Profile) *uint {
	if access.SpansAllBranches(actor.Role) {
		return nil
	}
	return actor.BranchID
}

// assignBranch decides the branch of a created or edited user. Scoped actors
// can only place users in their own branch; roles other than the admin ones
// always need a branch.
func assignBranch(actor session.Profile, role access.Role, requested *uint) (*uint, error) {
	if scope := scopeOf(actor); scope != nil {
		if requested != nil && *requested != *scope {
			return nil, httperr.ErrBusiness("branch_not_allowed")
		}
		b := *scope
		return &b, nil
	}
	if requested == nil && !access.SpansAllBranches(role) {
		return nil, validators.Errors{"branch_id": "Informe a filial do usuário."}
	}
	return requested, nil
}

func mapWriteError(err error) error {
	if errors.Is(err, store.ErrDuplicate) {
		return httperr.ErrBusinessMsg("email_taken", "Já existe um usuário com este e-mail.")
	}
	return err
}
