package validators

import (
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

const DefaultRegion = "BR"

// Errors maps a form field (its json name) to a message.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records msg for field unless the field already has a message.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Err returns nil when there are no errors.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

var (
	once     sync.Once
	validate *validator.Validate
)

// Engine returns the shared validator with the domain tags registered:
// hhmm, date, phone, document.
func Engine() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			return IsHHMM(fl.Field().String())
		})
		_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
			_, err := time.Parse("2006-01-02", fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return IsPhone(fl.Field().String())
		})
		_ = v.RegisterValidation("document", func(fl validator.FieldLevel) bool {
			return IsDocument(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// Struct validates v and translates failures into Errors.
func Struct(v any) Errors {
	errs := Errors{}

	err := Engine().Struct(v)
	if err == nil {
		return errs
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs.Add("_", err.Error())
		return errs
	}

	for _, fe := range verrs {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Campo obrigatório."
	case "email":
		return "E-mail inválido."
	case "min", "gte", "gt":
		return "Valor abaixo do mínimo permitido (" + fe.Param() + ")."
	case "max", "lte", "lt":
		return "Valor acima do máximo permitido (" + fe.Param() + ")."
	case "oneof":
		return "Valor deve ser um de: " + fe.Param() + "."
	case "hhmm":
		return "Horário inválido (use HH:mm)."
	case "date":
		return "Data inválida (use AAAA-MM-DD)."
	case "phone":
		return "Telefone inválido."
	case "document":
		return "CPF/CNPJ inválido."
	default:
		return "Valor inválido."
	}
}

func IsHHMM(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// IsPhone accepts Brazilian numbers with or without country code.
func IsPhone(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	num, err := phonenumbers.Parse(s, DefaultRegion)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}

// NormalizePhone formats a valid number as E.164; invalid input is returned
// trimmed.
func NormalizePhone(s string) string {
	num, err := phonenumbers.Parse(s, DefaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return strings.TrimSpace(s)
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Var validates a single value against tag and records the first failure
// under field.
func Var(errs Errors, field string, value any, tag string) {
	err := Engine().Var(value, tag)
	if err == nil {
		return
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		errs.Add(field, message(verrs[0]))
		return
	}
	errs.Add(field, "Valor inválido.")
}
