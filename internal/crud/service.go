// Package crud is the generic page module behind every back-office list:
// load with filters, validate a form, submit it and remove a row.
package crud

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/clinica-otica/internal/audit"
	"github.com/BruksfildServices01/clinica-otica/internal/guard"
	"github.com/BruksfildServices01/clinica-otica/internal/httperr"
	"github.com/BruksfildServices01/clinica-otica/internal/store"
	"github.com/BruksfildServices01/clinica-otica/internal/validators"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// EntityPtr lets the service read and set ids on *T.
type EntityPtr[T any] interface {
	*T
	store.Entity
}

type Config[T any] struct {
	// Name is the entity name written to the audit log.
	Name string
	// Rules returns per-field messages; an empty map means valid.
	Rules func(*T) validators.Errors
	// Prepare normalizes a form before validation.
	Prepare func(*T)
	// New returns an empty form with the defaults a client may omit.
	New func() *T

	Guard       *guard.Guard
	GuardEntity guard.Entity

	Audit audit.Recorder
}

type Service[T any, PT EntityPtr[T]] struct {
	table store.Table[T]
	cfg   Config[T]
}

func NewService[T any, PT EntityPtr[T]](table store.Table[T], cfg Config[T]) *Service[T, PT] {
	return &Service[T, PT]{table: table, cfg: cfg}
}

// Actor identifies who performed a change, for the audit log.
type Actor struct {
	UserID   uint
	BranchID *uint
}

type ListParams struct {
	Filters  []store.Filter
	Order    []store.Order
	Page     int
	Limit    int
	Preloads []string
}

func (p ListParams) normalized() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

type Page[T any] struct {
	Rows  []T
	Total int64
	Page  int
	Limit int
}

// New returns an empty form for create requests.
func (s *Service[T, PT]) New() *T {
	if s.cfg.New != nil {
		return s.cfg.New()
	}
	return new(T)
}

// Load returns one page of rows plus the total matching the filters.
func (s *Service[T, PT]) Load(ctx context.Context, p ListParams) (*Page[T], error) {
	p = p.normalized()

	total, err := s.table.Count(ctx, p.Filters...)
	if err != nil {
		return nil, err
	}

	rows, err := s.table.Select(ctx, store.Query{
		Filters:  p.Filters,
		Order:    p.Order,
		Limit:    p.Limit,
		Offset:   (p.Page - 1) * p.Limit,
		Preloads: p.Preloads,
	})
	if err != nil {
		return nil, err
	}
	return &Page[T]{Rows: rows, Total: total, Page: p.Page, Limit: p.Limit}, nil
}

func (s *Service[T, PT]) Get(ctx context.Context, id uint, preloads ...string) (*T, error) {
	row, err := s.table.Get(ctx, id, preloads...)
	if errors.Is(err, store.ErrNotFound) {
		return nil, httperr.ErrBusiness("not_found")
	}
	return row, err
}

// Validate normalizes and checks form. The returned error, when not nil, is
// a validators.Errors.
func (s *Service[T, PT]) Validate(form *T) error {
	if s.cfg.Prepare != nil {
		s.cfg.Prepare(form)
	}
	if s.cfg.Rules == nil {
		return nil
	}
	return s.cfg.Rules(form).Err()
}

// Submit inserts form when its id is zero and updates the existing row
// otherwise. An invalid form never reaches the table.
func (s *Service[T, PT]) Submit(ctx context.Context, actor Actor, form *T) (*T, error) {
	if err := s.Validate(form); err != nil {
		return nil, err
	}

	id := PT(form).GetID()
	if id == 0 {
		if err := s.table.Insert(ctx, form); err != nil {
			return nil, mapWriteError(err)
		}
		s.record(actor, s.cfg.Name+"_created", PT(form).GetID())
		return form, nil
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.table.Save(ctx, form); err != nil {
		return nil, mapWriteError(err)
	}
	s.record(actor, s.cfg.Name+"_updated", id)

	// Server-owned columns such as created_at come from the table.
	return s.Get(ctx, id)
}

// Remove deletes the row after the delete guard allows it.
func (s *Service[T, PT]) Remove(ctx context.Context, actor Actor, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if s.cfg.Guard != nil && s.cfg.GuardEntity != "" {
		if err := s.cfg.Guard.Check(ctx, s.cfg.GuardEntity, id); err != nil {
			return err
		}
	}

	n, err := s.table.Delete(ctx, store.Where("id", id))
	if err != nil {
		return err
	}
	if n == 0 {
		return httperr.ErrBusiness("not_found")
	}

	s.record(actor, s.cfg.Name+"_deleted", id)
	return nil
}

func (s *Service[T, PT]) record(actor Actor, action string, id uint) {
	if s.cfg.Audit == nil {
		return
	}
	userID := actor.UserID
	s.cfg.Audit.Dispatch(audit.Event{
		BranchID: actor.BranchID,
		UserID:   &userID,
		Action:   action,
		Entity:   s.cfg.Name,
		EntityID: &id,
	})
}

func mapWriteError(err error) error {
	if errors.Is(err, store.ErrDuplicate) {
		return httperr.ErrBusinessMsg("already_exists", "Já existe um registro com estes dados.")
	}
	return err
}
