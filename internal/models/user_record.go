package models

import "time"

type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

// UserRecord - one ledger entry for a buyer. Immutable once created: there is
// no update or delete path anywhere in the codebase. Exactly one of the two
// field groups is populated, selected by TransactionType.
type UserRecord struct {
	ID              uint            `gorm:"primaryKey"`
	UserID          uint            `gorm:"index;not null"`
	TransactionType TransactionType `gorm:"type:varchar(10);not null;index"`
	CreatedAt       time.Time

	// Debit: raw inputs plus the derived values computed at creation time.
	Bags        *int
	ProductType *string `gorm:"size:100"`
	Kg          *float64
	CutWeight   *float64
	NetWeight   *float64
	AmountPerKg *float64
	RoughAmount *float64
	Tax         *float64
	Levy        *float64
	NetAmount   *float64

	// Credit
	CreditAmount *float64
	RoundOff     *float64
}
