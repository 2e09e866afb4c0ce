package ledger

import (
	"errors"
	"testing"

	"vms-backend/internal/models"

	"gorm.io/gorm"
)

func TestUserSumDeficit(t *testing.T) {
	db := testDB(t)
	admin := seedAdmin(t, db, "ram")
	user, _ := CreateUser(db, admin.ID, UserFields{FirstName: "Asha", LastName: "Patel", Mobile: "9876543210"})

	// Debit of net 9746.00, then credits.
	if _, err := AppendUserRecord(db, admin.ID, user.ID, debitInput(10, 500, 2, 20)); err != nil {
		t.Fatalf("append debit: %v", err)
	}
	if _, err := AppendUserRecord(db, admin.ID, user.ID, creditInput(4000)); err != nil {
		t.Fatalf("append credit: %v", err)
	}

	calc, err := UserSumDeficit(db, admin.ID, user.ID)
	if err != nil {
		t.Fatalf("UserSumDeficit: %v", err)
	}
	if calc.TotalDebit != 9746.00 {
		t.Errorf("TotalDebit = %v, want 9746.00", calc.TotalDebit)
	}
	if calc.TotalCredit != 4000 {
		t.Errorf("TotalCredit = %v, want 4000", calc.TotalCredit)
	}
	if calc.SumDeficit != 5746.00 {
		t.Errorf("SumDeficit = %v, want 5746.00", calc.SumDeficit)
	}
	if calc.Status != StatusDeficit {
		t.Errorf("Status = %q, want %q", calc.Status, StatusDeficit)
	}
	if calc.UserName != "Asha Patel" {
		t.Errorf("UserName = %q, want 'Asha Patel'", calc.UserName)
	}
}

func TestUserSumDeficitZeroIsSurplus(t *testing.T) {
	db := testDB(t)
	admin := seedAdmin(t, db, "ram")
	user, _ := CreateUser(db, admin.ID, UserFields{FirstName: "Asha", LastName: "Patel", Mobile: "9876543210"})

	// total_debit == total_credit: the boundary is Surplus, there is no
	// separate settled state.
	if _, err := AppendUserRecord(db, admin.ID, user.ID, debitInput(10, 500, 2, 20)); err != nil {
		t.Fatalf("append debit: %v", err)
	}
	if _, err := AppendUserRecord(db, admin.ID, user.ID, creditInput(9746.00)); err != nil {
		t.Fatalf("append credit: %v", err)
	}

	calc, err := UserSumDeficit(db, admin.ID, user.ID)
	if err != nil {
		t.Fatalf("UserSumDeficit: %v", err)
	}
	if calc.SumDeficit != 0 {
		t.Errorf("SumDeficit = %v, want 0", calc.SumDeficit)
	}
	if calc.Status != StatusSurplus {
		t.Errorf("Status = %q, want %q", calc.Status, StatusSurplus)
	}
}

func TestUserSumDeficitEmptyHistory(t *testing.T) {
	db := testDB(t)
	admin := seedAdmin(t, db, "ram")
	user, _ := CreateUser(db, admin.ID, UserFields{FirstName: "Asha", LastName: "Patel", Mobile: "9876543210"})

	calc, err := UserSumDeficit(db, admin.ID, user.ID)
	if err != nil {
		t.Fatalf("UserSumDeficit: %v", err)
	}
	if calc.TotalDebit != 0 || calc.TotalCredit != 0 || calc.SumDeficit != 0 {
		t.Errorf("empty history should give zero totals, got %+v", calc)
	}
	if calc.Status != StatusSurplus {
		t.Errorf("Status = %q, want %q", calc.Status, StatusSurplus)
	}
}

func TestClientPending(t *testing.T) {
	db := testDB(t)
	admin := seedAdmin(t, db, "ram")
	client, _ := CreateClient(db, admin.ID, ClientFields{Name: "Mohan Traders", Username: "mohan_t", PhoneNumber: "9000000001"})

	// debit_total=500, credit_total=200, profit_loss_total=-50
	if _, err := AppendClientRecord(db, admin.ID, client.ID, ClientRecordInput{
		TransactionType: models.TransactionDebit, DebitAmount: fptr(500),
	}); err != nil {
		t.Fatalf("append debit: %v", err)
	}
	if _, err := AppendClientRecord(db, admin.ID, client.ID, ClientRecordInput{
		TransactionType: models.TransactionCredit, CreditAmount: fptr(200), ProfitLoss: fptr(-50),
	}); err != nil {
		t.Fatalf("append credit: %v", err)
	}

	calc, err := ClientPending(db, admin.ID, client.ID)
	if err != nil {
		t.Fatalf("ClientPending: %v", err)
	}
	if calc.PendingAmount != 250 {
		t.Errorf("PendingAmount = %v, want 250", calc.PendingAmount)
	}
	if calc.Status != StatusLoss {
		t.Errorf("Status = %q, want %q", calc.Status, StatusLoss)
	}
}

func TestClientPendingStatusThreeWay(t *testing.T) {
	db := testDB(t)
	admin := seedAdmin(t, db, "ram")

	tests := []struct {
		name       string
		username   string
		profitLoss *float64
		want       string
	}{
		{"positive is profit", "c_profit", fptr(75), StatusProfit},
		{"negative is loss", "c_loss", fptr(-75), StatusLoss},
		{"absent is neutral", "c_neutral", nil, StatusNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := CreateClient(db, admin.ID, ClientFields{Name: "C", Username: tt.username, PhoneNumber: "9000000001"})
			if err != nil {
				t.Fatalf("CreateClient: %v", err)
			}
			if _, err := AppendClientRecord(db, admin.ID, client.ID, ClientRecordInput{
				TransactionType: models.TransactionDebit, DebitAmount: fptr(100), ProfitLoss: tt.profitLoss,
			}); err != nil {
				t.Fatalf("append: %v", err)
			}

			calc, err := ClientPending(db, admin.ID, client.ID)
			if err != nil {
				t.Fatalf("ClientPending: %v", err)
			}
			if calc.Status != tt.want {
				t.Errorf("Status = %q, want %q", calc.Status, tt.want)
			}
		})
	}
}

// seedUserWithDeficit creates a user whose sum/deficit equals the given
// amount: a debit of net 9746.00 offset by a credit (or a plain credit for
// negative amounts).
func seedUserWithDeficit(t *testing.T, db *gorm.DB, adminID uint, first string, deficit float64) *models.User {
	t.Helper()
	user, err := CreateUser(db, adminID, UserFields{FirstName: first, LastName: "Test", Mobile: "9876543210"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	switch {
	case deficit > 0:
		if _, err := AppendUserRecord(db, adminID, user.ID, debitInput(10, 500, 2, 20)); err != nil {
			t.Fatalf("append debit: %v", err)
		}
		if _, err := AppendUserRecord(db, adminID, user.ID, creditInput(9746.00-deficit)); err != nil {
			t.Fatalf("append credit: %v", err)
		}
	case deficit < 0:
		if _, err := AppendUserRecord(db, adminID, user.ID, creditInput(-deficit)); err != nil {
			t.Fatalf("append credit: %v", err)
		}
	}
	return user
}

func TestUsersPendingRollup(t *testing.T) {
	db := testDB(t)
	admin := seedAdmin(t, db, "ram")

	// Deficits 300, -50, 0, 120: only the positive ones feed the total, but
	// every user appears in the breakdown.
	seedUserWithDeficit(t, db, admin.ID, "A", 300)
	seedUserWithDeficit(t, db, admin.ID, "B", -50)
	seedUserWithDeficit(t, db, admin.ID, "C", 0)
	seedUserWithDeficit(t, db, admin.ID, "D", 120)

	rollup, err := UsersPendingRollup(db, admin.ID)
	if err != nil {
		t.Fatalf("UsersPendingRollup: %v", err)
	}
	if rollup.TotalPending != 420 {
		t.Errorf("TotalPending = %v, want 420", rollup.TotalPending)
	}
	if len(rollup.Details) != 4 {
		t.Fatalf("Details length = %d, want 4", len(rollup.Details))
	}

	wantAmounts := []float64{300, -50, 0, 120}
	for i, want := range wantAmounts {
		if rollup.Details[i].PendingAmount != want {
			t.Errorf("Details[%d].PendingAmount = %v, want %v", i, rollup.Details[i].PendingAmount, want)
		}
	}
}

func TestClientsPendingRollup(t *testing.T) {
	db := testDB(t)
	admin := seedAdmin(t, db, "ram")

	pendings := []struct {
		username string
		debit    float64
		credit   float64
	}{
		{"c_one", 500, 250},   // pending +250
		{"c_two", 100, 200},   // pending -100
		{"c_three", 150, 150}, // pending 0
	}
	for _, p := range pendings {
		client, err := CreateClient(db, admin.ID, ClientFields{Name: p.username, Username: p.username, PhoneNumber: "9000000001"})
		if err != nil {
			t.Fatalf("CreateClient: %v", err)
		}
		if _, err := AppendClientRecord(db, admin.ID, client.ID, ClientRecordInput{
			TransactionType: models.TransactionDebit, DebitAmount: fptr(p.debit),
		}); err != nil {
			t.Fatalf("append debit: %v", err)
		}
		if _, err := AppendClientRecord(db, admin.ID, client.ID, ClientRecordInput{
			TransactionType: models.TransactionCredit, CreditAmount: fptr(p.credit),
		}); err != nil {
			t.Fatalf("append credit: %v", err)
		}
	}

	rollup, err := ClientsPendingRollup(db, admin.ID)
	if err != nil {
		t.Fatalf("ClientsPendingRollup: %v", err)
	}
	if rollup.TotalPending != 250 {
		t.Errorf("TotalPending = %v, want 250", rollup.TotalPending)
	}
	if len(rollup.Details) != 3 {
		t.Errorf("Details length = %d, want 3", len(rollup.Details))
	}
}

func TestAggregatesAreIsolatedPerEntityAndTenant(t *testing.T) {
	db := testDB(t)
	adminA := seedAdmin(t, db, "ram")
	adminB := seedAdmin(t, db, "shyam")

	userA, _ := CreateUser(db, adminA.ID, UserFields{FirstName: "Asha", LastName: "Patel", Mobile: "9876543210"})
	userB, _ := CreateUser(db, adminA.ID, UserFields{FirstName: "Ravi", LastName: "Kumar", Mobile: "9876543211"})
	userC, _ := CreateUser(db, adminB.ID, UserFields{FirstName: "Meena", LastName: "Shah", Mobile: "9876543212"})

	if _, err := AppendUserRecord(db, adminA.ID, userA.ID, creditInput(1000)); err != nil {
		t.Fatalf("append: %v", err)
	}

	calcB, err := UserSumDeficit(db, adminA.ID, userB.ID)
	if err != nil {
		t.Fatalf("UserSumDeficit: %v", err)
	}
	if calcB.TotalCredit != 0 || calcB.TotalDebit != 0 {
		t.Errorf("user B's totals changed by user A's append: %+v", calcB)
	}

	calcC, err := UserSumDeficit(db, adminB.ID, userC.ID)
	if err != nil {
		t.Fatalf("UserSumDeficit: %v", err)
	}
	if calcC.TotalCredit != 0 {
		t.Errorf("tenant B's user changed by tenant A's append: %+v", calcC)
	}

	rollupB, err := UsersPendingRollup(db, adminB.ID)
	if err != nil {
		t.Fatalf("UsersPendingRollup: %v", err)
	}
	if rollupB.TotalPending != 0 || len(rollupB.Details) != 1 {
		t.Errorf("tenant B rollup affected by tenant A: %+v", rollupB)
	}

	// Aggregates over another tenant's entity fold into not-found.
	if _, err := UserSumDeficit(db, adminB.ID, userA.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-tenant UserSumDeficit = %v, want ErrNotFound", err)
	}
	if _, err := ClientPending(db, adminB.ID, 12345); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing ClientPending = %v, want ErrNotFound", err)
	}
}
