package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/clinica-otica/internal/store"
)

// GormTable implements store.Table over one GORM model.
type GormTable[T any] struct {
	db *gorm.DB
}

func NewGormTable[T any](db *gorm.DB) *GormTable[T] {
	return &GormTable[T]{db: db}
}

func applyFilters(q *gorm.DB, filters []store.Filter) (*gorm.DB, error) {
	for _, f := range filters {
		expr, err := f.Clause()
		if err != nil {
			return nil, err
		}
		q = q.Where(expr, f.Args()...)
	}
	return q, nil
}

func (r *GormTable[T]) Select(ctx context.Context, query store.Query) ([]T, error) {
	q := r.db.WithContext(ctx).Model(new(T))

	if len(query.Columns) > 0 {
		for _, c := range query.Columns {
			if !store.ValidColumn(c) {
				return nil, errors.New("invalid column " + c)
			}
		}
		q = q.Select(query.Columns)
	}

	q, err := applyFilters(q, query.Filters)
	if err != nil {
		return nil, err
	}

	for _, p := range query.Preloads {
		q = q.Preload(p)
	}

	if len(query.Order) == 0 {
		q = q.Order("id ASC")
	}
	for _, o := range query.Order {
		expr, err := o.Clause()
		if err != nil {
			return nil, err
		}
		q = q.Order(expr)
	}

	if query.Limit > 0 {
		q = q.Limit(query.Limit)
	}
	if query.Offset > 0 {
		q = q.Offset(query.Offset)
	}

	var rows []T
	if err := q.Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

func (r *GormTable[T]) Count(ctx context.Context, filters ...store.Filter) (int64, error) {
	q, err := applyFilters(r.db.WithContext(ctx).Model(new(T)), filters)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, translate(err)
	}
	return n, nil
}

func (r *GormTable[T]) Get(ctx context.Context, id uint, preloads ...string) (*T, error) {
	q := r.db.WithContext(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}

	var row T
	if err := q.First(&row, id).Error; err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

func (r *GormTable[T]) Insert(ctx context.Context, rows ...*T) error {
	if len(rows) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(rows).Error)
}

// Save writes every column of row except created_at.
func (r *GormTable[T]) Save(ctx context.Context, row *T) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations, "created_at").Save(row).Error)
}

func (r *GormTable[T]) Update(ctx context.Context, patch map[string]any, filters ...store.Filter) (int64, error) {
	if len(filters) == 0 {
		return 0, errors.New("update without filters")
	}

	q, err := applyFilters(r.db.WithContext(ctx).Model(new(T)), filters)
	if err != nil {
		return 0, err
	}

	res := q.Updates(patch)
	return res.RowsAffected, translate(res.Error)
}

func (r *GormTable[T]) Delete(ctx context.Context, filters ...store.Filter) (int64, error) {
	if len(filters) == 0 {
		return 0, errors.New("delete without filters")
	}

	q, err := applyFilters(r.db.WithContext(ctx), filters)
	if err != nil {
		return 0, err
	}

	res := q.Delete(new(T))
	return res.RowsAffected, translate(res.Error)
}

// GormCounter counts rows of any table by name.
type GormCounter struct {
	db *gorm.DB
}

func NewGormCounter(db *gorm.DB) *GormCounter {
	return &GormCounter{db: db}
}

func (c *GormCounter) CountWhere(ctx context.Context, table string, filters ...store.Filter) (int64, error) {
	if !store.ValidColumn(table) {
		return 0, errors.New("invalid table " + table)
	}

	q, err := applyFilters(c.db.WithContext(ctx).Table(table), filters)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, translate(err)
	}
	return n, nil
}

// translate maps driver errors onto the store sentinel errors.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	if IsUniqueViolation(err) {
		return errors.Join(store.ErrDuplicate, err)
	}
	return err
}

// IsUniqueViolation reports a Postgres unique_violation (23505), whether or
// not GORM translated it.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var (
	_ store.Table[struct{}] = (*GormTable[struct{}])(nil)
	_ store.Counter         = (*GormCounter)(nil)
)
