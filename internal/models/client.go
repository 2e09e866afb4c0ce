package models

import "time"

// Client - vendor. The three totals are running aggregates, recomputed from
// the full record history on every append (never incremented in place).
type Client struct {
	ID          uint   `gorm:"primaryKey"`
	AdminID     uint   `gorm:"index;not null"`
	UUID        string `gorm:"size:36;uniqueIndex;not null"`
	Name        string `gorm:"size:100;not null"`
	Username    string `gorm:"size:50;uniqueIndex;not null"`
	Location    string `gorm:"size:100"`
	PhoneNumber string `gorm:"size:10"`

	DebitTotal      float64 `gorm:"not null;default:0"`
	CreditTotal     float64 `gorm:"not null;default:0"`
	ProfitLossTotal float64 `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Records []ClientRecord `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
}
