package crud

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/clinica-otica/internal/models"
	"github.com/BruksfildServices01/clinica-otica/internal/validators"
)

func positive(errs validators.Errors, field string, d decimal.Decimal) {
	if !d.IsPositive() {
		errs.Add(field, "Informe um valor maior que zero.")
	}
}

func nonNegative(errs validators.Errors, field string, d decimal.Decimal) {
	if d.IsNegative() {
		errs.Add(field, "O valor não pode ser negativo.")
	}
}

func percentRange(errs validators.Errors, field string, d decimal.Decimal) {
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
		errs.Add(field, "Percentual deve estar entre 0 e 100.")
	}
}

func required(errs validators.Errors, field string, id uint) {
	if id == 0 {
		errs.Add(field, "Campo obrigatório.")
	}
}

// Forms of entities with an active flag start active; the body may still
// send "active": false.

func NewBranchForm() *models.Branch { return &models.Branch{Active: true} }

func NewDoctorForm() *models.Doctor { return &models.Doctor{Active: true} }

func NewSupplierForm() *models.Supplier { return &models.Supplier{Active: true} }

func NewExpenseCategoryForm() *models.ExpenseCategory {
	return &models.ExpenseCategory{Active: true}
}

func NewFixedExpenseForm() *models.FixedExpense { return &models.FixedExpense{Active: true} }

func BranchRules(b *models.Branch) validators.Errors {
	errs := validators.Errors{}
	validators.Var(errs, "name", strings.TrimSpace(b.Name), "required,max=100")
	validators.Var(errs, "phone", b.Phone, "omitempty,phone")
	return errs
}

func PrepareBranch(b *models.Branch) {
	b.Name = strings.TrimSpace(b.Name)
	b.Phone = validators.NormalizePhone(b.Phone)
}

func DoctorRules(d *models.Doctor) validators.Errors {
	errs := validators.Errors{}
	validators.Var(errs, "name", strings.TrimSpace(d.Name), "required,max=100")
	validators.Var(errs, "crm", d.CRM, "max=20")
	return errs
}

func PrepareDoctor(d *models.Doctor) {
	d.Name = strings.TrimSpace(d.Name)
	d.Specialty = strings.TrimSpace(d.Specialty)
	d.CRM = strings.ToUpper(strings.TrimSpace(d.CRM))
}

func SupplierTypeRules(t *models.SupplierType) validators.Errors {
	errs := validators.Errors{}
	validators.Var(errs, "name", strings.TrimSpace(t.Name), "required,max=100")
	return errs
}

func PrepareSupplierType(t *models.SupplierType) {
	t.Name = strings.TrimSpace(t.Name)
}

func SupplierRules(s *models.Supplier) validators.Errors {
	errs := validators.Errors{}
	validators.Var(errs, "name", strings.TrimSpace(s.Name), "required,max=150")
	validators.Var(errs, "document", s.Document, "omitempty,document")
	validators.Var(errs, "phone", s.Phone, "omitempty,phone")
	validators.Var(errs, "email", s.Email, "omitempty,email")
	return errs
}

func PrepareSupplier(s *models.Supplier) {
	s.Name = strings.TrimSpace(s.Name)
	s.Document = validators.OnlyDigits(s.Document)
	s.Phone = validators.NormalizePhone(s.Phone)
	s.Email = validators.NormalizeEmail(s.Email)
}

func ExpenseCategoryRules(c *models.ExpenseCategory) validators.Errors {
	errs := validators.Errors{}
	validators.Var(errs, "name", strings.TrimSpace(c.Name), "required,max=100")
	validators.Var(errs, "kind", c.Kind, "required,oneof=fixed diverse both")
	return errs
}

func PrepareExpenseCategory(c *models.ExpenseCategory) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Kind == "" {
		c.Kind = models.CategoryKindBoth
	}
}

func FixedExpenseRules(e *models.FixedExpense) validators.Errors {
	errs := validators.Errors{}
	required(errs, "branch_id", e.BranchID)
	required(errs, "category_id", e.CategoryID)
	validators.Var(errs, "description", e.Description, "max=255")
	positive(errs, "amount", e.Amount)
	validators.Var(errs, "due_day", e.DueDay, "min=1,max=31")
	return errs
}

func DiverseExpenseRules(e *models.DiverseExpense) validators.Errors {
	errs := validators.Errors{}
	required(errs, "branch_id", e.BranchID)
	required(errs, "category_id", e.CategoryID)
	validators.Var(errs, "description", e.Description, "max=255")
	positive(errs, "amount", e.Amount)
	if e.Date.IsZero() {
		errs.Add("date", "Campo obrigatório.")
	}
	validators.Var(errs, "payment_method", e.PaymentMethod, "omitempty,oneof=cash pix debit credit boleto other")
	return errs
}

func InstrumentRules(i *models.Instrument) validators.Errors {
	errs := validators.Errors{}
	required(errs, "branch_id", i.BranchID)
	validators.Var(errs, "kind", i.Kind, "required,oneof=payable receivable")
	validators.Var(errs, "status", i.Status, "required,oneof=open paid cancelled")
	positive(errs, "amount", i.Amount)
	if i.DueDate.IsZero() {
		errs.Add("due_date", "Campo obrigatório.")
	}
	nonNegative(errs, "paid_amount", i.PaidAmount)
	percentRange(errs, "late_fee_percent", i.LateFeePercent)
	percentRange(errs, "interest_percent", i.InterestPercent)
	if i.Status == models.InstrumentPaid && i.PaymentDate == nil {
		errs.Add("payment_date", "Informe a data de pagamento.")
	}
	return errs
}

func PrepareInstrument(i *models.Instrument) {
	if i.Status == "" {
		i.Status = models.InstrumentOpen
	}
	if i.Status == models.InstrumentPaid && i.PaidAmount.IsZero() {
		i.PaidAmount = i.Amount
	}
}

func ServiceOrderRules(o *models.ServiceOrderCost) validators.Errors {
	errs := validators.Errors{}
	required(errs, "branch_id", o.BranchID)
	validators.Var(errs, "number", strings.TrimSpace(o.Number), "required,max=30")
	if o.Date.IsZero() {
		errs.Add("date", "Campo obrigatório.")
	}
	nonNegative(errs, "sale_value", o.SaleValue)
	nonNegative(errs, "lens_cost", o.LensCost)
	nonNegative(errs, "frame_cost", o.FrameCost)
	nonNegative(errs, "marketing_cost", o.MarketingCost)
	nonNegative(errs, "other_cost", o.OtherCost)
	return errs
}

func PrepareServiceOrder(o *models.ServiceOrderCost) {
	o.Number = strings.TrimSpace(o.Number)
}

func RevenueRules(r *models.RevenueEntry) validators.Errors {
	errs := validators.Errors{}
	required(errs, "branch_id", r.BranchID)
	if r.Date.IsZero() {
		errs.Add("date", "Campo obrigatório.")
	}
	positive(errs, "amount", r.Amount)
	validators.Var(errs, "payment_method", r.PaymentMethod, "required,oneof=cash pix debit credit boleto other")
	validators.Var(errs, "attendance_type", r.AttendanceType, "required,oneof=consultation exam sale return other")
	validators.Var(errs, "os_number", r.OSNumber, "max=30")
	return errs
}
