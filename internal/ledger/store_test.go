package ledger

import (
	"errors"
	"path/filepath"
	"testing"

	"vms-backend/internal/database"
	"vms-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "vms.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedAdmin(t *testing.T, db *gorm.DB, name string) *models.Admin {
	t.Helper()
	admin := models.Admin{
		UUID:         uuid.NewString(),
		Name:         name,
		PasswordHash: "x",
	}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return &admin
}

func iptr(v int) *int         { return &v }
func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }

func debitInput(bags int, kg, cut, apk float64) UserRecordInput {
	return UserRecordInput{
		TransactionType: models.TransactionDebit,
		Bags:            iptr(bags),
		ProductType:     sptr("wheat"),
		Kg:              fptr(kg),
		CutWeight:       fptr(cut),
		AmountPerKg:     fptr(apk),
	}
}

func creditInput(amount float64) UserRecordInput {
	return UserRecordInput{
		TransactionType: models.TransactionCredit,
		CreditAmount:    fptr(amount),
	}
}

func TestCreateUserAssignsFreshUUID(t *testing.T) {
	db := testDB(t)
	admin := seedAdmin(t, db, "ram")

	u1, err := CreateUser(db, admin.ID, UserFields{FirstName: "Asha", LastName: "Patel", Mobile: "9876543210"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	u2, err := CreateUser(db, admin.ID, UserFields{FirstName: "Ravi", LastName: "Kumar", Mobile: "9876543211"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if u1.UUID == "" || u2.UUID == "" || u1.UUID == u2.UUID {
		t.Errorf("expected distinct non-empty uuids, got %q and %q", u1.UUID, u2.UUID)
	}
	if !u1.IsActive {
		t.Error("new user should start active")
	}
}

func TestAppendUserRecordDebitStoresDerivedFields(t *testing.T) {
	db := testDB(t)
	admin := seedAdmin(t, db, "ram")
	user, _ := CreateUser(db, admin.ID, UserFields{FirstName: "Asha", LastName: "Patel", Mobile: "9876543210"})

	rec, err := AppendUserRecord(db, admin.ID, user.ID, debitInput(10, 500, 2, 20))
	if err != nil {
		t.Fatalf("AppendUserRecord: %v", err)
	}

	if rec.ID == 0 {
		t.Error("record should get a server-assigned id")
	}
	if rec.CreatedAt.IsZero() {
		t.Error("record should get a creation timestamp")
	}
	if rec.NetWeight == nil || *rec.NetWeight != 480 {
		t.Errorf("NetWeight = %v, want 480", rec.NetWeight)
	}
	if rec.RoughAmount == nil || *rec.RoughAmount != 9600 {
		t.Errorf("RoughAmount = %v, want 9600", rec.RoughAmount)
	}
	if rec.Tax == nil || *rec.Tax != 96 {
		t.Errorf("Tax = %v, want 96", rec.Tax)
	}
	if rec.Levy == nil || *rec.Levy != 50 {
		t.Errorf("Levy = %v, want 50", rec.Levy)
	}
	if rec.NetAmount == nil || *rec.NetAmount != 9746.00 {
		t.Errorf("NetAmount = %v, want 9746.00", rec.NetAmount)
	}

	// Raw inputs stored alongside.
	if rec.Bags == nil || *rec.Bags != 10 || rec.Kg == nil || *rec.Kg != 500 {
		t.Error("raw debit inputs should be persisted with the record")
	}
	if rec.CreditAmount != nil || rec.RoundOff != nil {
		t.Error("credit fields must stay empty on a debit record")
	}
}

func TestAppendUserRecordCreditDefaultsRoundOff(t *testing.T) {
	db := testDB(t)
	admin := seedAdmin(t, db, "ram")
	user, _ := CreateUser(db, admin.ID, UserFields{FirstName: "Asha", LastName: "Patel", Mobile: "9876543210"})

	rec, err := AppendUserRecord(db, admin.ID, user.ID, creditInput(1500))
	if err != nil {
		t.Fatalf("AppendUserRecord: %v", err)
	}
	if rec.RoundOff == nil || *rec.RoundOff != 0 {
		t.Errorf("RoundOff = %v, want 0", rec.RoundOff)
	}
	if rec.NetAmount != nil || rec.Bags != nil {
		t.Error("debit fields must stay empty on a credit record")
	}
}

func TestAppendUserRecordValidation(t *testing.T) {
	db := testDB(t)
	admin := seedAdmin(t, db, "ram")
	user, _ := CreateUser(db, admin.ID, UserFields{FirstName: "Asha", LastName: "Patel", Mobile: "9876543210"})

	missingBags := debitInput(10, 500, 2, 20)
	missingBags.Bags = nil
	zeroKg := debitInput(10, 0, 2, 20)
	negativeCut := debitInput(10, 500, -1, 20)
	emptyProduct := debitInput(10, 500, 2, 20)
	emptyProduct.ProductType = sptr("  ")

	tests := []struct {
		name string
		in   UserRecordInput
	}{
		{"missing bags", missingBags},
		{"zero kg", zeroKg},
		{"negative cut weight", negativeCut},
		{"blank product type", emptyProduct},
		{"missing credit amount", UserRecordInput{TransactionType: models.TransactionCredit}},
		{"non-positive credit amount", creditInput(0)},
		{"unknown transaction type", UserRecordInput{TransactionType: "transfer"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AppendUserRecord(db, admin.ID, user.ID, tt.in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}

	// None of the failed appends may have persisted anything.
	var count int64
	db.Model(&models.UserRecord{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no records after failed appends, found %d", count)
	}
}

func TestUserLookupsAreTenantScoped(t *testing.T) {
	db := testDB(t)
	adminA := seedAdmin(t, db, "ram")
	adminB := seedAdmin(t, db, "shyam")
	user, _ := CreateUser(db, adminA.ID, UserFields{FirstName: "Asha", LastName: "Patel", Mobile: "9876543210"})

	// Another tenant's user must be indistinguishable from a missing one.
	if _, err := GetUser(db, adminB.ID, user.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUser across tenants = %v, want ErrNotFound", err)
	}
	if _, err := AppendUserRecord(db, adminB.ID, user.ID, creditInput(10)); !errors.Is(err, ErrNotFound) {
		t.Errorf("AppendUserRecord across tenants = %v, want ErrNotFound", err)
	}
	if _, err := SetUserActive(db, adminB.ID, user.ID, false); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetUserActive across tenants = %v, want ErrNotFound", err)
	}
	if _, err := GetUser(db, adminA.ID, user.ID+999); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUser missing id = %v, want ErrNotFound", err)
	}
	if _, err := GetUserByUUID(db, adminB.ID, user.UUID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUserByUUID across tenants = %v, want ErrNotFound", err)
	}

	listB, err := ListUsers(db, adminB.ID)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(listB) != 0 {
		t.Errorf("adminB sees %d users, want 0", len(listB))
	}
}

func TestSetUserActiveIsIdempotent(t *testing.T) {
	db := testDB(t)
	admin := seedAdmin(t, db, "ram")
	user, _ := CreateUser(db, admin.ID, UserFields{FirstName: "Asha", LastName: "Patel", Mobile: "9876543210"})

	u, err := SetUserActive(db, admin.ID, user.ID, false)
	if err != nil {
		t.Fatalf("SetUserActive: %v", err)
	}
	if u.IsActive {
		t.Error("user should be inactive")
	}

	// Disabling twice stays disabled.
	u, err = SetUserActive(db, admin.ID, user.ID, false)
	if err != nil {
		t.Fatalf("SetUserActive (repeat): %v", err)
	}
	if u.IsActive {
		t.Error("repeated disable should keep user inactive")
	}

	u, err = SetUserActive(db, admin.ID, user.ID, true)
	if err != nil {
		t.Fatalf("SetUserActive (enable): %v", err)
	}
	if !u.IsActive {
		t.Error("user should be active again")
	}
}

func TestCreateClientDuplicateUsername(t *testing.T) {
	db := testDB(t)
	adminA := seedAdmin(t, db, "ram")
	adminB := seedAdmin(t, db, "shyam")

	fields := ClientFields{Name: "Mohan Traders", Username: "mohan_t", PhoneNumber: "9000000001"}
	if _, err := CreateClient(db, adminA.ID, fields); err != nil {
		t.Fatalf("CreateClient: %v", err)
	}

	// Usernames are unique across all tenants, not per tenant.
	_, err := CreateClient(db, adminB.ID, ClientFields{Name: "Other", Username: "mohan_t", PhoneNumber: "9000000002"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate username = %v, want ErrDuplicate", err)
	}

	// The failed create must not leave a partial insert behind.
	var count int64
	db.Model(&models.Client{}).Count(&count)
	if count != 1 {
		t.Errorf("client count = %d, want 1", count)
	}
}

func TestUpdateClientPartialFields(t *testing.T) {
	db := testDB(t)
	admin := seedAdmin(t, db, "ram")
	client, _ := CreateClient(db, admin.ID, ClientFields{Name: "Mohan Traders", Username: "mohan_t", Location: "Pune", PhoneNumber: "9000000001"})

	updated, err := UpdateClient(db, admin.ID, client.ID, ClientUpdate{Location: sptr("Nashik")})
	if err != nil {
		t.Fatalf("UpdateClient: %v", err)
	}
	if updated.Location != "Nashik" {
		t.Errorf("Location = %q, want Nashik", updated.Location)
	}
	if updated.Name != "Mohan Traders" || updated.PhoneNumber != "9000000001" {
		t.Error("fields not named in the update must stay untouched")
	}

	if _, err := UpdateClient(db, admin.ID+999, client.ID, ClientUpdate{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateClient across tenants = %v, want ErrNotFound", err)
	}
}

func TestAppendClientRecordValidation(t *testing.T) {
	db := testDB(t)
	admin := seedAdmin(t, db, "ram")
	client, _ := CreateClient(db, admin.ID, ClientFields{Name: "Mohan Traders", Username: "mohan_t", PhoneNumber: "9000000001"})

	tests := []struct {
		name string
		in   ClientRecordInput
	}{
		{"credit without amount", ClientRecordInput{TransactionType: models.TransactionCredit}},
		{"debit without amount", ClientRecordInput{TransactionType: models.TransactionDebit, ProfitLoss: fptr(10)}},
		{"unknown type", ClientRecordInput{TransactionType: "settlement"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AppendClientRecord(db, admin.ID, client.ID, tt.in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}

	var count int64
	db.Model(&models.ClientRecord{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no client records after failed appends, found %d", count)
	}
}

func TestAppendClientRecordKeepsTotalsConsistent(t *testing.T) {
	db := testDB(t)
	admin := seedAdmin(t, db, "ram")
	client, _ := CreateClient(db, admin.ID, ClientFields{Name: "Mohan Traders", Username: "mohan_t", PhoneNumber: "9000000001"})

	appends := []ClientRecordInput{
		{TransactionType: models.TransactionDebit, DebitAmount: fptr(500)},
		{TransactionType: models.TransactionCredit, CreditAmount: fptr(200)},
		{TransactionType: models.TransactionDebit, DebitAmount: fptr(300), ProfitLoss: fptr(-50)},
		{TransactionType: models.TransactionCredit, CreditAmount: fptr(100), ProfitLoss: fptr(25)},
	}

	for i, in := range appends {
		if _, err := AppendClientRecord(db, admin.ID, client.ID, in); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}

		// After every append the stored aggregates must equal a recompute
		// from the full record history: no drift, ever.
		fresh, err := GetClient(db, admin.ID, client.ID)
		if err != nil {
			t.Fatalf("GetClient: %v", err)
		}
		records, err := ClientRecords(db, admin.ID, client.ID)
		if err != nil {
			t.Fatalf("ClientRecords: %v", err)
		}

		var debit, credit, pl float64
		for _, r := range records {
			if r.DebitAmount != nil {
				debit += *r.DebitAmount
			}
			if r.CreditAmount != nil {
				credit += *r.CreditAmount
			}
			if r.ProfitLoss != nil {
				pl += *r.ProfitLoss
			}
		}

		if fresh.DebitTotal != debit || fresh.CreditTotal != credit || fresh.ProfitLossTotal != pl {
			t.Errorf("after append %d: stored totals (%v, %v, %v) != recomputed (%v, %v, %v)",
				i, fresh.DebitTotal, fresh.CreditTotal, fresh.ProfitLossTotal, debit, credit, pl)
		}
	}
}
