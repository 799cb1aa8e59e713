package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinica-otica/internal/access"
	"github.com/BruksfildServices01/clinica-otica/internal/httperr"
	"github.com/BruksfildServices01/clinica-otica/internal/middleware"
	"github.com/BruksfildServices01/clinica-otica/internal/session"
	"github.com/BruksfildServices01/clinica-otica/internal/validators"
)

// ======================================================
// BUSINESS ERRORS → HTTP
// ======================================================

var businessStatus = map[string]int{
	"not_found":               http.StatusNotFound,
	"branch_not_found":        http.StatusNotFound,
	"doctor_not_found":        http.StatusNotFound,
	"user_not_found":          http.StatusNotFound,
	"date_not_found":          http.StatusNotFound,
	"appointment_not_found":   http.StatusNotFound,
	"schedule_not_configured": http.StatusNotFound,

	"already_exists": http.StatusConflict,
	"email_taken":    http.StatusConflict,
	"slot_taken":     http.StatusConflict,
	"has_dependents": http.StatusConflict,

	"invalid_credentials": http.StatusUnauthorized,
	"invalid_token":       http.StatusUnauthorized,
	"session_revoked":     http.StatusUnauthorized,
	"user_inactive":       http.StatusForbidden,

	"role_not_allowed":   http.StatusForbidden,
	"branch_not_allowed": http.StatusForbidden,
	"cannot_change_self": http.StatusForbidden,
	"cannot_delete_self": http.StatusForbidden,
}

var businessMessages = map[string]string{
	"not_found":               "Registro não encontrado.",
	"branch_not_found":        "Filial não encontrada.",
	"doctor_not_found":        "Médico não encontrado ou inativo.",
	"user_not_found":          "Usuário não encontrado.",
	"date_not_found":          "Data não encontrada.",
	"appointment_not_found":   "Agendamento não encontrado.",
	"schedule_not_configured": "Configure os horários da filial antes de abrir datas.",
	"invalid_credentials":     "E-mail ou senha inválidos.",
	"invalid_token":           "Sessão inválida ou expirada.",
	"session_revoked":         "Sessão encerrada. Faça login novamente.",
	"user_inactive":           "Usuário inativo.",
	"role_not_allowed":        "Você não pode atribuir ou gerenciar este perfil.",
	"branch_not_allowed":      "Você só pode gerenciar a sua filial.",
	"date_in_past":            "Não é possível usar datas ou horários passados.",
	"slot_unavailable":        "Horário indisponível.",
	"slot_taken":              "Este horário acabou de ser reservado. Escolha outro.",
	"email_taken":             "Já existe um usuário com este e-mail.",
	"invalid_date":            "Data inválida.",
	"end_before_start":        "A data final deve ser posterior à inicial.",
	"range_too_long":          "Período muito longo.",
	"invalid_status":          "Status inválido.",
	"invalid_interval":        "Intervalo inválido.",
	"invalid_start_time":      "Horário de abertura inválido.",
	"invalid_end_time":        "Horário de fechamento inválido.",
	"incomplete_lunch_window": "Informe início e fim do almoço.",
	"invalid_lunch_start":     "Início do almoço inválido.",
	"invalid_lunch_end":       "Fim do almoço inválido.",
	"invalid_lunch_window":    "O fim do almoço deve ser após o início.",
	"weekdays_required":       "Selecione ao menos um dia da semana.",
	"invalid_weekday":         "Dia da semana inválido.",
	"invalid_report":          "Relatório desconhecido.",
	"notes_too_long":          "Observações muito longas.",
}

// respondError writes err as JSON: validation errors as 422, business errors
// by code, anything else as 500.
func respondError(c *gin.Context, err error) {
	var verrs validators.Errors
	if errors.As(err, &verrs) {
		httperr.Validation(c, verrs)
		return
	}

	if be, ok := httperr.AsBusiness(err); ok {
		status, found := businessStatus[be.Code]
		if !found {
			status = http.StatusBadRequest
		}
		msg := be.Message
		if msg == "" {
			msg = businessMessages[be.Code]
		}
		if msg == "" {
			msg = "Não foi possível concluir a operação."
		}
		httperr.Write(c, status, be.Code, msg)
		return
	}

	_ = c.Error(err)
	httperr.Internal(c, "internal_error", "Erro interno. Tente novamente.")
}

// ======================================================
// REQUEST HELPERS
// ======================================================

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return false
	}
	return true
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return 0, false
	}
	return uint(id), true
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	return page, limit
}

func queryUint(c *gin.Context, key string) (*uint, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_"+key, "Parâmetro inválido: "+key+".")
		return nil, false
	}
	u := uint(v)
	return &u, true
}

func queryBool(c *gin.Context, key string) *bool {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &b
}

// ======================================================
// PROFILE / SCOPE
// ======================================================

func mustProfile(c *gin.Context) session.Profile {
	p, _ := middleware.ProfileFrom(c)
	return p
}

// scopeOf is the branch a profile is confined to, or nil for all branches.
func scopeOf(p session.Profile) *uint {
	if access.SpansAllBranches(p.Role) {
		return nil
	}
	return p.BranchID
}

// branchFilter resolves the branch to query: the actor's own branch when
// scoped, else the optional ?branch_id.
func branchFilter(c *gin.Context, p session.Profile) (*uint, bool) {
	if scope := scopeOf(p); scope != nil {
		return scope, true
	}
	return queryUint(c, "branch_id")
}

func fieldRequired(field string) error {
	return validators.Errors{field: "Campo obrigatório."}
}
