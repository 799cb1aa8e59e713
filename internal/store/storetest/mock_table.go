// Package storetest provides testify mocks of the store contracts.
package storetest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/BruksfildServices01/clinica-otica/internal/store"
)

type MockTable[T any] struct {
	mock.Mock
}

func (m *MockTable[T]) Select(ctx context.Context, q store.Query) ([]T, error) {
	args := m.Called(ctx, q)
	rows, _ := args.Get(0).([]T)
	return rows, args.Error(1)
}

func (m *MockTable[T]) Count(ctx context.Context, filters ...store.Filter) (int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTable[T]) Get(ctx context.Context, id uint, preloads ...string) (*T, error) {
	args := m.Called(ctx, id)
	row, _ := args.Get(0).(*T)
	return row, args.Error(1)
}

func (m *MockTable[T]) Insert(ctx context.Context, rows ...*T) error {
	return m.Called(ctx, rows).Error(0)
}

func (m *MockTable[T]) Save(ctx context.Context, row *T) error {
	return m.Called(ctx, row).Error(0)
}

func (m *MockTable[T]) Update(ctx context.Context, patch map[string]any, filters ...store.Filter) (int64, error) {
	args := m.Called(ctx, patch, filters)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTable[T]) Delete(ctx context.Context, filters ...store.Filter) (int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).(int64), args.Error(1)
}

type MockCounter struct {
	mock.Mock
}

func (m *MockCounter) CountWhere(ctx context.Context, table string, filters ...store.Filter) (int64, error) {
	args := m.Called(ctx, table, filters)
	return args.Get(0).(int64), args.Error(1)
}

var (
	_ store.Table[struct{}] = (*MockTable[struct{}])(nil)
	_ store.Counter         = (*MockCounter)(nil)
)
