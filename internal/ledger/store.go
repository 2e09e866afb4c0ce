package ledger

import (
	"errors"
	"strings"

	"vms-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Every function in this file takes the calling admin's id and scopes each
// lookup to it. An entity that exists but belongs to another admin behaves
// exactly like an entity that does not exist.

type UserFields struct {
	FirstName string
	LastName  string
	Mobile    string
	Location  string
}

type ClientFields struct {
	Name        string
	Username    string
	Location    string
	PhoneNumber string
}

// ClientUpdate - partial update; nil fields are left untouched.
type ClientUpdate struct {
	Name        *string
	Location    *string
	PhoneNumber *string
}

// UserRecordInput is the loosely-typed transaction payload from the API.
// The TransactionType tag selects which field group must be populated; the
// other group is ignored.
type UserRecordInput struct {
	TransactionType models.TransactionType

	// Debit
	Bags        *int
	ProductType *string
	Kg          *float64
	CutWeight   *float64
	AmountPerKg *float64

	// Credit
	CreditAmount *float64
	RoundOff     *float64
}

type ClientRecordInput struct {
	TransactionType models.TransactionType

	CreditAmount *float64
	DebitAmount  *float64
	ProfitLoss   *float64
}

// ---------- Users ----------

func CreateUser(db *gorm.DB, adminID uint, f UserFields) (*models.User, error) {
	user := models.User{
		AdminID:   adminID,
		UUID:      uuid.NewString(),
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Mobile:    f.Mobile,
		Location:  f.Location,
		IsActive:  true,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func ListUsers(db *gorm.DB, adminID uint) ([]models.User, error) {
	var users []models.User
	if err := db.Where("admin_id = ?", adminID).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// RecentUsers returns the n most recently created users of the admin.
func RecentUsers(db *gorm.DB, adminID uint, n int) ([]models.User, error) {
	var users []models.User
	if err := db.Where("admin_id = ?", adminID).
		Order("created_at desc, id desc").Limit(n).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func GetUser(db *gorm.DB, adminID, userID uint) (*models.User, error) {
	var user models.User
	err := db.Where("id = ? AND admin_id = ?", userID, adminID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func GetUserByUUID(db *gorm.DB, adminID uint, userUUID string) (*models.User, error) {
	var user models.User
	err := db.Where("uuid = ? AND admin_id = ?", userUUID, adminID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SetUserActive toggles the active flag. Idempotent; the save bumps
// UpdatedAt either way.
func SetUserActive(db *gorm.DB, adminID, userID uint, active bool) (*models.User, error) {
	user, err := GetUser(db, adminID, userID)
	if err != nil {
		return nil, err
	}
	user.IsActive = active
	if err := db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// AppendUserRecord validates the payload against its transaction type and
// persists it. Debit records get their derived fields computed here and
// stored immutably alongside the raw inputs.
func AppendUserRecord(db *gorm.DB, adminID, userID uint, in UserRecordInput) (*models.UserRecord, error) {
	user, err := GetUser(db, adminID, userID)
	if err != nil {
		return nil, err
	}

	record := models.UserRecord{
		UserID:          user.ID,
		TransactionType: in.TransactionType,
	}

	switch in.TransactionType {
	case models.TransactionDebit:
		if err := validateUserDebit(in); err != nil {
			return nil, err
		}
		calc := CalculateDebit(DebitInput{
			Bags:        *in.Bags,
			Kg:          *in.Kg,
			CutWeight:   *in.CutWeight,
			AmountPerKg: *in.AmountPerKg,
		})
		record.Bags = in.Bags
		record.ProductType = in.ProductType
		record.Kg = in.Kg
		record.CutWeight = in.CutWeight
		record.AmountPerKg = in.AmountPerKg
		record.NetWeight = &calc.NetWeight
		record.RoughAmount = &calc.RoughAmount
		record.Tax = &calc.Tax
		record.Levy = &calc.Levy
		record.NetAmount = &calc.NetAmount

	case models.TransactionCredit:
		if in.CreditAmount == nil || *in.CreditAmount <= 0 {
			return nil, validationErr("credit_amount is required for credit transaction")
		}
		record.CreditAmount = in.CreditAmount
		roundOff := 0.0
		if in.RoundOff != nil {
			roundOff = *in.RoundOff
		}
		record.RoundOff = &roundOff

	default:
		return nil, validationErr("transaction_type must be 'credit' or 'debit'")
	}

	if err := db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func validateUserDebit(in UserRecordInput) error {
	if in.Bags == nil || *in.Bags <= 0 ||
		in.ProductType == nil || strings.TrimSpace(*in.ProductType) == "" ||
		in.Kg == nil || *in.Kg <= 0 ||
		in.CutWeight == nil || *in.CutWeight < 0 ||
		in.AmountPerKg == nil || *in.AmountPerKg <= 0 {
		return validationErr("all debit fields are required for debit transaction")
	}
	return nil
}

func UserRecords(db *gorm.DB, adminID, userID uint) ([]models.UserRecord, error) {
	user, err := GetUser(db, adminID, userID)
	if err != nil {
		return nil, err
	}
	var records []models.UserRecord
	if err := db.Where("user_id = ?", user.ID).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ---------- Clients ----------

// CreateClient assigns a fresh UUID and enforces the global username
// uniqueness rule. The pre-check is advisory; the unique index on the column
// is the authority and also surfaces as ErrDuplicate when two creates race.
func CreateClient(db *gorm.DB, adminID uint, f ClientFields) (*models.Client, error) {
	var count int64
	if err := db.Model(&models.Client{}).
		Where("username = ?", f.Username).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicate
	}

	client := models.Client{
		AdminID:     adminID,
		UUID:        uuid.NewString(),
		Name:        f.Name,
		Username:    f.Username,
		Location:    f.Location,
		PhoneNumber: f.PhoneNumber,
	}
	if err := db.Create(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return &client, nil
}

func ListClients(db *gorm.DB, adminID uint) ([]models.Client, error) {
	var clients []models.Client
	if err := db.Where("admin_id = ?", adminID).Order("id").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func RecentClients(db *gorm.DB, adminID uint, n int) ([]models.Client, error) {
	var clients []models.Client
	if err := db.Where("admin_id = ?", adminID).
		Order("created_at desc, id desc").Limit(n).
		Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func GetClient(db *gorm.DB, adminID, clientID uint) (*models.Client, error) {
	var client models.Client
	err := db.Where("id = ? AND admin_id = ?", clientID, adminID).First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func UpdateClient(db *gorm.DB, adminID, clientID uint, upd ClientUpdate) (*models.Client, error) {
	client, err := GetClient(db, adminID, clientID)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		client.Name = *upd.Name
	}
	if upd.Location != nil {
		client.Location = *upd.Location
	}
	if upd.PhoneNumber != nil {
		client.PhoneNumber = *upd.PhoneNumber
	}
	if err := db.Save(client).Error; err != nil {
		return nil, err
	}
	return client, nil
}

// AppendClientRecord persists the record and recomputes the client's three
// totals from the full record history, both inside one transaction: a reader
// never observes a record whose amounts are missing from the totals, and no
// append can leave a stale total behind.
func AppendClientRecord(db *gorm.DB, adminID, clientID uint, in ClientRecordInput) (*models.ClientRecord, error) {
	client, err := GetClient(db, adminID, clientID)
	if err != nil {
		return nil, err
	}

	switch in.TransactionType {
	case models.TransactionCredit:
		if in.CreditAmount == nil || *in.CreditAmount == 0 {
			return nil, validationErr("credit_amount is required for credit transaction")
		}
	case models.TransactionDebit:
		if in.DebitAmount == nil || *in.DebitAmount == 0 {
			return nil, validationErr("debit_amount is required for debit transaction")
		}
	default:
		return nil, validationErr("transaction_type must be 'credit' or 'debit'")
	}

	record := models.ClientRecord{
		ClientID:        client.ID,
		TransactionType: in.TransactionType,
		CreditAmount:    in.CreditAmount,
		DebitAmount:     in.DebitAmount,
		ProfitLoss:      in.ProfitLoss,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return recomputeClientTotals(tx, client.ID)
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func ClientRecords(db *gorm.DB, adminID, clientID uint) ([]models.ClientRecord, error) {
	client, err := GetClient(db, adminID, clientID)
	if err != nil {
		return nil, err
	}
	var records []models.ClientRecord
	if err := db.Where("client_id = ?", client.ID).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
