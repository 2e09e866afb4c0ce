package audit

import (
	"encoding/json"
	"fmt"

	"vms-backend/internal/database"
	"vms-backend/internal/models"
)

type LogOptions struct {
	AdminID     uint
	AdminName   string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Data        any
}

// WriteLog appends one audit row. Callers treat failures as best-effort:
// a lost audit line must never fail the mutation it describes.
func WriteLog(opts LogOptions) error {
	// Postgres jsonb rejects the empty string, use the JSON null literal.
	dataStr := "null"
	if opts.Data != nil {
		if b, err := json.Marshal(opts.Data); err == nil {
			dataStr = string(b)
		}
	}

	entry := models.AuditLog{
		AdminID:     opts.AdminID,
		AdminName:   opts.AdminName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		Data:        dataStr,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		return fmt.Errorf("audit log could not be saved: %w", err)
	}

	return nil
}
