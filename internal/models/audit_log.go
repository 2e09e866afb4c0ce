package models

import "time"

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
)

// AuditLog - append-only trail of tenant mutations. Ledger records are
// immutable, so there is no undo machinery here; the trail is evidence, not a
// rollback mechanism.
type AuditLog struct {
	ID          uint        `gorm:"primaryKey"`
	AdminID     uint        `gorm:"index;not null"`
	AdminName   string      `gorm:"size:50"`
	EntityType  string      `gorm:"size:30;not null;index"`
	EntityID    uint        `gorm:"index"`
	Action      AuditAction `gorm:"size:20;not null"`
	Description string      `gorm:"size:500"`
	Data        string      `gorm:"type:jsonb"` // JSON snapshot of the entity after the mutation
	CreatedAt   time.Time
}
