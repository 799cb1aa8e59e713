package audit

import (
	"context"
	"encoding/json"

	"github.com/BruksfildServices01/clinica-otica/internal/models"
	"github.com/BruksfildServices01/clinica-otica/internal/store"
)

// Logger persists events to the audit_logs table.
type Logger struct {
	table store.Table[models.AuditLog]
}

func New(table store.Table[models.AuditLog]) *Logger {
	return &Logger{table: table}
}

func (l *Logger) Log(ctx context.Context, ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	row := models.AuditLog{
		BranchID: ev.BranchID,
		UserID:   ev.UserID,
		Action:   ev.Action,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
		Metadata: metaJSON,
	}
	return l.table.Insert(ctx, &row)
}
