package crud

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinica-otica/internal/audit"
	"github.com/BruksfildServices01/clinica-otica/internal/guard"
	"github.com/BruksfildServices01/clinica-otica/internal/httperr"
	"github.com/BruksfildServices01/clinica-otica/internal/models"
	"github.com/BruksfildServices01/clinica-otica/internal/store"
	"github.com/BruksfildServices01/clinica-otica/internal/store/storetest"
	"github.com/BruksfildServices01/clinica-otica/internal/validators"
)

type auditSpy struct{ events []audit.Event }

func (a *auditSpy) Dispatch(ev audit.Event) { a.events = append(a.events, ev) }

func branchService(table store.Table[models.Branch], g *guard.Guard, spy *auditSpy) *Service[models.Branch, *models.Branch] {
	return NewService[models.Branch](table, Config[models.Branch]{
		Name:        "branch",
		Rules:       BranchRules,
		Prepare:     PrepareBranch,
		Guard:       g,
		GuardEntity: guard.EntityBranch,
		Audit:       spy,
	})
}

func TestSubmitInvalidFormNeverReachesTable(t *testing.T) {
	table := &storetest.MockTable[models.Branch]{}
	svc := branchService(table, nil, &auditSpy{})

	_, err := svc.Submit(context.Background(), Actor{UserID: 1}, &models.Branch{Phone: "123"})

	var verrs validators.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "name")
	assert.Contains(t, verrs, "phone")
	table.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	table.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSubmitInsertsNewRow(t *testing.T) {
	table := &storetest.MockTable[models.Branch]{}
	table.On("Insert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).([]*models.Branch)[0].ID = 9
	}).Return(nil)
	spy := &auditSpy{}
	svc := branchService(table, nil, spy)

	row, err := svc.Submit(context.Background(), Actor{UserID: 1}, &models.Branch{Name: " Centro ", Phone: "(11) 98765-4321"})

	require.NoError(t, err)
	assert.Equal(t, uint(9), row.ID)
	assert.Equal(t, "Centro", row.Name)
	assert.Equal(t, "+5511987654321", row.Phone)
	require.Len(t, spy.events, 1)
	assert.Equal(t, "branch_created", spy.events[0].Action)
	assert.Equal(t, uint(9), *spy.events[0].EntityID)
}

func TestSubmitUpdatesExistingRow(t *testing.T) {
	table := &storetest.MockTable[models.Branch]{}
	table.On("Get", mock.Anything, uint(3)).Return(&models.Branch{ID: 3, Name: "Antigo"}, nil)
	table.On("Save", mock.Anything, mock.Anything).Return(nil)
	spy := &auditSpy{}

	_, err := branchService(table, nil, spy).Submit(context.Background(), Actor{}, &models.Branch{ID: 3, Name: "Novo"})

	require.NoError(t, err)
	table.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	assert.Equal(t, "branch_updated", spy.events[0].Action)
}

func TestSubmitUpdateReturnsStoredCreatedAt(t *testing.T) {
	created := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	stored := &models.Branch{ID: 3, Name: "Antigo", Active: true, CreatedAt: created}

	table := &storetest.MockTable[models.Branch]{}
	table.On("Get", mock.Anything, uint(3)).Return(stored, nil)
	table.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved := args.Get(1).(*models.Branch)
		stored.Name, stored.Active = saved.Name, saved.Active
	}).Return(nil)

	row, err := branchService(table, nil, &auditSpy{}).Submit(context.Background(), Actor{}, &models.Branch{ID: 3, Name: "Novo"})

	require.NoError(t, err)
	assert.Equal(t, "Novo", row.Name)
	assert.False(t, row.Active)
	assert.Equal(t, created, row.CreatedAt)
}

func TestNewUsesConfiguredDefaults(t *testing.T) {
	plain := NewService[models.Branch](&storetest.MockTable[models.Branch]{}, Config[models.Branch]{})
	assert.False(t, plain.New().Active)

	svc := NewService[models.Branch](&storetest.MockTable[models.Branch]{}, Config[models.Branch]{New: NewBranchForm})
	assert.True(t, svc.New().Active)
	assert.NotSame(t, svc.New(), svc.New())
}

func TestSubmitUpdateUnknownRow(t *testing.T) {
	table := &storetest.MockTable[models.Branch]{}
	table.On("Get", mock.Anything, uint(3)).Return(nil, store.ErrNotFound)

	_, err := branchService(table, nil, &auditSpy{}).Submit(context.Background(), Actor{}, &models.Branch{ID: 3, Name: "Novo"})

	assert.True(t, httperr.IsBusiness(err, "not_found"))
	table.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSubmitDuplicate(t *testing.T) {
	table := &storetest.MockTable[models.SupplierType]{}
	table.On("Insert", mock.Anything, mock.Anything).Return(errors.Join(store.ErrDuplicate, fmt.Errorf("23505")))
	svc := NewService[models.SupplierType](table, Config[models.SupplierType]{Name: "supplier_type", Rules: SupplierTypeRules})

	_, err := svc.Submit(context.Background(), Actor{}, &models.SupplierType{Name: "Laboratório"})

	assert.True(t, httperr.IsBusiness(err, "already_exists"))
}

func TestRemoveBlockedByGuardIssuesNoDelete(t *testing.T) {
	table := &storetest.MockTable[models.Branch]{}
	table.On("Get", mock.Anything, uint(5)).Return(&models.Branch{ID: 5, Name: "Centro"}, nil)

	counter := &storetest.MockCounter{}
	counter.On("CountWhere", mock.Anything, "agendamentos", mock.Anything).Return(int64(4), nil)

	err := branchService(table, guard.New(counter, nil), &auditSpy{}).Remove(context.Background(), Actor{}, 5)

	be, ok := httperr.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, "has_dependents", be.Code)
	assert.Contains(t, be.Message, "4 agendamentos")
	table.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestRemoveAllowed(t *testing.T) {
	table := &storetest.MockTable[models.Doctor]{}
	table.On("Get", mock.Anything, uint(2)).Return(&models.Doctor{ID: 2, Name: "Dra. Lia"}, nil)
	table.On("Delete", mock.Anything, []store.Filter{store.Where("id", uint(2))}).Return(int64(1), nil)

	counter := &storetest.MockCounter{}
	counter.On("CountWhere", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)

	spy := &auditSpy{}
	svc := NewService[models.Doctor](table, Config[models.Doctor]{
		Name:        "doctor",
		Rules:       DoctorRules,
		Guard:       guard.New(counter, nil),
		GuardEntity: guard.EntityDoctor,
		Audit:       spy,
	})

	require.NoError(t, svc.Remove(context.Background(), Actor{UserID: 1}, 2))
	table.AssertExpectations(t)
	assert.Equal(t, "doctor_deleted", spy.events[0].Action)
}

func TestLoadPaginates(t *testing.T) {
	table := &storetest.MockTable[models.Doctor]{}
	filters := []store.Filter{store.Where("active", true)}
	table.On("Count", mock.Anything, filters).Return(int64(120), nil)
	table.On("Select", mock.Anything, mock.MatchedBy(func(q store.Query) bool {
		return q.Limit == MaxLimit && q.Offset == MaxLimit
	})).Return([]models.Doctor{{ID: 1}}, nil)

	svc := NewService[models.Doctor](table, Config[models.Doctor]{Name: "doctor"})
	page, err := svc.Load(context.Background(), ListParams{Filters: filters, Page: 2, Limit: 1000})

	require.NoError(t, err)
	assert.Equal(t, int64(120), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, MaxLimit, page.Limit)
	assert.Len(t, page.Rows, 1)
}

func TestInstrumentRules(t *testing.T) {
	i := &models.Instrument{
		BranchID:       1,
		Kind:           models.InstrumentPayable,
		Status:         models.InstrumentPaid,
		Amount:         decimal.NewFromInt(100),
		DueDate:        time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		LateFeePercent: decimal.NewFromInt(150),
	}
	PrepareInstrument(i)

	errs := InstrumentRules(i)

	assert.Contains(t, errs, "payment_date")
	assert.Contains(t, errs, "late_fee_percent")
	assert.NotContains(t, errs, "amount")
	assert.Equal(t, "100", i.PaidAmount.String())
}

func TestFixedExpenseRules(t *testing.T) {
	errs := FixedExpenseRules(&models.FixedExpense{DueDay: 32, Amount: decimal.Zero})

	assert.Contains(t, errs, "branch_id")
	assert.Contains(t, errs, "category_id")
	assert.Contains(t, errs, "amount")
	assert.Contains(t, errs, "due_day")
}

func TestRevenueRules(t *testing.T) {
	errs := RevenueRules(&models.RevenueEntry{
		BranchID:       1,
		Date:           time.Now(),
		Amount:         decimal.NewFromInt(80),
		PaymentMethod:  "cheque",
		AttendanceType: models.AttendanceExam,
	})

	assert.Equal(t, []string{"payment_method"}, keys(errs))
}

func keys(errs validators.Errors) []string {
	out := make([]string, 0, len(errs))
	for k := range errs {
		out = append(out, k)
	}
	return out
}
