package models

import "time"

// ClientRecord - one ledger entry for a vendor. Immutable once created.
// Unlike UserRecord, ProfitLoss may be set on any record, independent of the
// credit/debit amount the transaction type selects.
type ClientRecord struct {
	ID              uint            `gorm:"primaryKey"`
	ClientID        uint            `gorm:"index;not null"`
	TransactionType TransactionType `gorm:"type:varchar(10);not null;index"`
	CreatedAt       time.Time

	CreditAmount *float64
	DebitAmount  *float64
	ProfitLoss   *float64
}
