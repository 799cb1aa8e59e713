package handlers

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinica-otica/internal/crud"
	"github.com/BruksfildServices01/clinica-otica/internal/httperr"
	"github.com/BruksfildServices01/clinica-otica/internal/httpresp"
	"github.com/BruksfildServices01/clinica-otica/internal/session"
	"github.com/BruksfildServices01/clinica-otica/internal/store"
	"github.com/BruksfildServices01/clinica-otica/internal/timezone"
)

// QueryFilter maps a query-string parameter onto an equality filter.
type QueryFilter struct {
	Param  string
	Column string
	Parse  func(string) (any, error)
}

func BoolFilter(param string) QueryFilter {
	return QueryFilter{Param: param, Column: param, Parse: func(s string) (any, error) {
		return strconv.ParseBool(s)
	}}
}

func UintFilter(param string) QueryFilter {
	return QueryFilter{Param: param, Column: param, Parse: func(s string) (any, error) {
		v, err := strconv.ParseUint(s, 10, 64)
		return uint(v), err
	}}
}

func StringFilter(param string) QueryFilter {
	return QueryFilter{Param: param, Column: param, Parse: func(s string) (any, error) {
		return s, nil
	}}
}

type CRUDConfig[T any] struct {
	Filters []QueryFilter
	// DateColumn enables ?from= and ?to= (YYYY-MM-DD, inclusive).
	DateColumn string
	Order      []store.Order
	Preloads   []string
	// Branch returns the branch field of a row; nil for entities that are
	// shared by every branch.
	Branch func(*T) *uint
	// DateFields are body fields that may be sent as plain YYYY-MM-DD.
	DateFields []string
}

// CRUDHandler exposes a crud.Service as list/create/update/delete routes.
type CRUDHandler[T any, PT crud.EntityPtr[T]] struct {
	svc *crud.Service[T, PT]
	cfg CRUDConfig[T]
}

func NewCRUDHandler[T any, PT crud.EntityPtr[T]](svc *crud.Service[T, PT], cfg CRUDConfig[T]) *CRUDHandler[T, PT] {
	return &CRUDHandler[T, PT]{svc: svc, cfg: cfg}
}

func actorOf(p session.Profile) crud.Actor {
	return crud.Actor{UserID: p.ID, BranchID: p.BranchID}
}

func (h *CRUDHandler[T, PT]) List(c *gin.Context) {
	p := mustProfile(c)

	var filters []store.Filter
	for _, f := range h.cfg.Filters {
		raw := c.Query(f.Param)
		if raw == "" {
			continue
		}
		v, err := f.Parse(raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_"+f.Param, "Parâmetro inválido: "+f.Param+".")
			return
		}
		filters = append(filters, store.Where(f.Column, v))
	}

	if h.cfg.DateColumn != "" {
		for _, r := range []struct {
			param string
			op    store.Op
		}{{"from", store.Gte}, {"to", store.Lte}} {
			raw := c.Query(r.param)
			if raw == "" {
				continue
			}
			d, err := timezone.ParseDate("UTC", raw)
			if err != nil {
				httperr.BadRequest(c, "invalid_date", "Data inválida.")
				return
			}
			filters = append(filters, store.WhereOp(h.cfg.DateColumn, r.op, d))
		}
	}

	if h.cfg.Branch != nil {
		branchID, ok := branchFilter(c, p)
		if !ok {
			return
		}
		if branchID != nil {
			filters = append(filters, store.Where("branch_id", *branchID))
		}
	}

	page, limit := pageParams(c)
	res, err := h.svc.Load(c.Request.Context(), crud.ListParams{
		Filters:  filters,
		Order:    h.cfg.Order,
		Page:     page,
		Limit:    limit,
		Preloads: h.cfg.Preloads,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.Page(c, res.Rows, res.Page, res.Limit, res.Total)
}

func (h *CRUDHandler[T, PT]) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	row, err := h.loadScoped(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, row)
}

func (h *CRUDHandler[T, PT]) Create(c *gin.Context) {
	p := mustProfile(c)

	form := h.svc.New()
	if !h.bind(c, form) {
		return
	}
	PT(form).SetID(0)

	if !h.applyScope(c, p, form) {
		return
	}

	row, err := h.svc.Submit(c.Request.Context(), actorOf(p), form)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.Created(c, row)
}

func (h *CRUDHandler[T, PT]) Update(c *gin.Context) {
	p := mustProfile(c)

	id, ok := pathID(c)
	if !ok {
		return
	}
	// Fields missing from the body keep their stored values.
	form, err := h.loadScoped(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !h.bind(c, form) {
		return
	}
	PT(form).SetID(id)

	if !h.applyScope(c, p, form) {
		return
	}

	row, err := h.svc.Submit(c.Request.Context(), actorOf(p), form)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, row)
}

func (h *CRUDHandler[T, PT]) Delete(c *gin.Context) {
	p := mustProfile(c)

	id, ok := pathID(c)
	if !ok {
		return
	}
	if _, err := h.loadScoped(c, id); err != nil {
		respondError(c, err)
		return
	}

	if err := h.svc.Remove(c.Request.Context(), actorOf(p), id); err != nil {
		respondError(c, err)
		return
	}
	httpresp.NoContent(c)
}

// loadScoped hides rows of other branches from scoped users.
func (h *CRUDHandler[T, PT]) loadScoped(c *gin.Context, id uint) (*T, error) {
	row, err := h.svc.Get(c.Request.Context(), id, h.cfg.Preloads...)
	if err != nil {
		return nil, err
	}
	if h.cfg.Branch != nil {
		if scope := scopeOf(mustProfile(c)); scope != nil && *h.cfg.Branch(row) != *scope {
			return nil, httperr.ErrBusiness("not_found")
		}
	}
	return row, nil
}

// applyScope pins the form to the actor's branch and rejects other branches.
func (h *CRUDHandler[T, PT]) applyScope(c *gin.Context, p session.Profile, form *T) bool {
	if h.cfg.Branch == nil {
		return true
	}
	scope := scopeOf(p)
	if scope == nil {
		return true
	}
	field := h.cfg.Branch(form)
	if *field != 0 && *field != *scope {
		respondError(c, httperr.ErrBusiness("branch_not_allowed"))
		return false
	}
	*field = *scope
	return true
}

// bind decodes the body into form, widening plain dates in DateFields to
// midnight UTC timestamps first.
func (h *CRUDHandler[T, PT]) bind(c *gin.Context, form *T) bool {
	if len(h.cfg.DateFields) == 0 {
		return bindJSON(c, form)
	}

	raw, err := c.GetRawData()
	if err == nil {
		raw, err = widenDates(raw, h.cfg.DateFields)
	}
	if err == nil {
		err = json.Unmarshal(raw, form)
	}
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return false
	}
	return true
}

func widenDates(body []byte, fields []string) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}

	changed := false
	for _, f := range fields {
		s, ok := doc[f].(string)
		if !ok || len(s) != len(timezone.DateLayout) {
			continue
		}
		if _, err := timezone.ParseDate("UTC", s); err != nil {
			continue
		}
		doc[f] = s + "T00:00:00Z"
		changed = true
	}
	if !changed {
		return body, nil
	}
	return json.Marshal(doc)
}
