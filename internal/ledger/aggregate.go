package ledger

import (
	"vms-backend/internal/models"

	"gorm.io/gorm"
)

const (
	StatusDeficit = "Deficit"
	StatusSurplus = "Surplus"
	StatusProfit  = "Profit"
	StatusLoss    = "Loss"
	StatusNeutral = "Neutral"
)

type UserCalculation struct {
	UserID      uint    `json:"user_id"`
	UserName    string  `json:"user_name"`
	TotalDebit  float64 `json:"total_debit"`
	TotalCredit float64 `json:"total_credit"`
	SumDeficit  float64 `json:"sum_deficit"`
	Status      string  `json:"status"`
}

type ClientCalculation struct {
	ClientID        uint    `json:"client_id"`
	ClientName      string  `json:"client_name"`
	TotalDebit      float64 `json:"total_debit"`
	TotalCredit     float64 `json:"total_credit"`
	ProfitLossTotal float64 `json:"profit_loss_total"`
	PendingAmount   float64 `json:"pending_amount"`
	Status          string  `json:"status"`
}

type PendingDetail struct {
	EntityID      uint    `json:"id"`
	UUID          string  `json:"uuid"`
	Name          string  `json:"name"`
	PendingAmount float64 `json:"pending_amount"`
	Status        string  `json:"status"`
}

type PendingRollup struct {
	TotalPending float64         `json:"total_pending"`
	Details      []PendingDetail `json:"details"`
}

// UserSumDeficit sums net_amount over debit records and credit_amount over
// credit records, skipping nil values. A balance of exactly zero is Surplus;
// only a strictly positive deficit counts as money owed.
func UserSumDeficit(db *gorm.DB, adminID, userID uint) (*UserCalculation, error) {
	user, err := GetUser(db, adminID, userID)
	if err != nil {
		return nil, err
	}

	var records []models.UserRecord
	if err := db.Where("user_id = ?", user.ID).Find(&records).Error; err != nil {
		return nil, err
	}

	var totalDebit, totalCredit float64
	for _, r := range records {
		switch r.TransactionType {
		case models.TransactionDebit:
			if r.NetAmount != nil {
				totalDebit += *r.NetAmount
			}
		case models.TransactionCredit:
			if r.CreditAmount != nil {
				totalCredit += *r.CreditAmount
			}
		}
	}

	sumDeficit := totalDebit - totalCredit
	status := StatusSurplus
	if sumDeficit > 0 {
		status = StatusDeficit
	}

	return &UserCalculation{
		UserID:      user.ID,
		UserName:    user.FullName(),
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		SumDeficit:  sumDeficit,
		Status:      status,
	}, nil
}

// recomputeClientTotals rebuilds the client's three aggregate columns from
// the full record set. Always a full recompute; a previously stored total is
// never trusted or incremented.
func recomputeClientTotals(tx *gorm.DB, clientID uint) error {
	var records []models.ClientRecord
	if err := tx.Where("client_id = ?", clientID).Find(&records).Error; err != nil {
		return err
	}

	var debitTotal, creditTotal, profitLossTotal float64
	for _, r := range records {
		if r.DebitAmount != nil {
			debitTotal += *r.DebitAmount
		}
		if r.CreditAmount != nil {
			creditTotal += *r.CreditAmount
		}
		if r.ProfitLoss != nil {
			profitLossTotal += *r.ProfitLoss
		}
	}

	return tx.Model(&models.Client{}).Where("id = ?", clientID).
		Updates(map[string]interface{}{
			"debit_total":       debitTotal,
			"credit_total":      creditTotal,
			"profit_loss_total": profitLossTotal,
		}).Error
}

// ClientPending reads the stored totals (kept consistent by the append
// transaction) and derives the outstanding balance. Status follows the sign
// of profit_loss_total alone, three-way.
func ClientPending(db *gorm.DB, adminID, clientID uint) (*ClientCalculation, error) {
	client, err := GetClient(db, adminID, clientID)
	if err != nil {
		return nil, err
	}
	return clientPendingOf(client), nil
}

func clientPendingOf(client *models.Client) *ClientCalculation {
	pending := (client.DebitTotal - client.CreditTotal) + client.ProfitLossTotal

	status := StatusNeutral
	if client.ProfitLossTotal > 0 {
		status = StatusProfit
	} else if client.ProfitLossTotal < 0 {
		status = StatusLoss
	}

	return &ClientCalculation{
		ClientID:        client.ID,
		ClientName:      client.Name,
		TotalDebit:      client.DebitTotal,
		TotalCredit:     client.CreditTotal,
		ProfitLossTotal: client.ProfitLossTotal,
		PendingAmount:   pending,
		Status:          status,
	}
}

// UsersPendingRollup lists every user of the admin with their deficit, but
// only strictly positive deficits contribute to the grand total. Non-positive
// balances stay visible in the breakdown.
func UsersPendingRollup(db *gorm.DB, adminID uint) (*PendingRollup, error) {
	users, err := ListUsers(db, adminID)
	if err != nil {
		return nil, err
	}

	rollup := PendingRollup{Details: make([]PendingDetail, 0, len(users))}
	for i := range users {
		calc, err := UserSumDeficit(db, adminID, users[i].ID)
		if err != nil {
			return nil, err
		}
		if calc.SumDeficit > 0 {
			rollup.TotalPending += calc.SumDeficit
		}
		rollup.Details = append(rollup.Details, PendingDetail{
			EntityID:      users[i].ID,
			UUID:          users[i].UUID,
			Name:          users[i].FullName(),
			PendingAmount: calc.SumDeficit,
			Status:        calc.Status,
		})
	}
	return &rollup, nil
}

// ClientsPendingRollup mirrors UsersPendingRollup over the admin's clients.
func ClientsPendingRollup(db *gorm.DB, adminID uint) (*PendingRollup, error) {
	clients, err := ListClients(db, adminID)
	if err != nil {
		return nil, err
	}

	rollup := PendingRollup{Details: make([]PendingDetail, 0, len(clients))}
	for i := range clients {
		calc := clientPendingOf(&clients[i])
		if calc.PendingAmount > 0 {
			rollup.TotalPending += calc.PendingAmount
		}
		rollup.Details = append(rollup.Details, PendingDetail{
			EntityID:      clients[i].ID,
			UUID:          clients[i].UUID,
			Name:          clients[i].Name,
			PendingAmount: calc.PendingAmount,
			Status:        calc.Status,
		})
	}
	return &rollup, nil
}
