package users

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"vms-backend/internal/audit"
	"vms-backend/internal/auth"
	"vms-backend/internal/database"
	"vms-backend/internal/ledger"
	"vms-backend/internal/models"
	"vms-backend/internal/observability/metrics"

	"github.com/gofiber/fiber/v2"
)

var mobileRe = regexp.MustCompile(`^[0-9]{10}$`)

// -------------------------
// Request/Response Types
// -------------------------

type CreateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Mobile    string `json:"mobile"`
	Location  string `json:"location"`
}

type AddRecordRequest struct {
	TransactionType string `json:"transaction_type"` // "credit" or "debit"

	// Debit fields
	Bags        *int     `json:"bags"`
	ProductType *string  `json:"product_type"`
	Kg          *float64 `json:"kg"`
	CutWeight   *float64 `json:"cut_weight"`
	AmountPerKg *float64 `json:"amount_per_kg"`

	// Credit fields
	CreditAmount *float64 `json:"credit_amount"`
	RoundOff     *float64 `json:"round_off"`
}

type UserResponse struct {
	ID          uint   `json:"id"`
	UUID        string `json:"uuid"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Mobile      string `json:"mobile"`
	Location    string `json:"location"`
	IsActive    bool   `json:"is_active"`
	CreatedDate string `json:"created_date"`
	UpdatedDate string `json:"updated_date"`
}

type UserRecordResponse struct {
	ID              uint     `json:"id"`
	UserID          uint     `json:"user_id"`
	TransactionType string   `json:"transaction_type"`
	CreatedDate     string   `json:"created_date"`
	Bags            *int     `json:"bags"`
	ProductType     *string  `json:"product_type"`
	Kg              *float64 `json:"kg"`
	CutWeight       *float64 `json:"cut_weight"`
	NetWeight       *float64 `json:"net_weight"`
	AmountPerKg     *float64 `json:"amount_per_kg"`
	RoughAmount     *float64 `json:"rough_amount"`
	Tax             *float64 `json:"tax"`
	Levy            *float64 `json:"levy"`
	NetAmount       *float64 `json:"net_amount"`
	CreditAmount    *float64 `json:"credit_amount"`
	RoundOff        *float64 `json:"round_off"`
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		UUID:        u.UUID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Mobile:      u.Mobile,
		Location:    u.Location,
		IsActive:    u.IsActive,
		CreatedDate: u.CreatedAt.Format(time.RFC3339),
		UpdatedDate: u.UpdatedAt.Format(time.RFC3339),
	}
}

func toRecordResponse(r *models.UserRecord) UserRecordResponse {
	return UserRecordResponse{
		ID:              r.ID,
		UserID:          r.UserID,
		TransactionType: string(r.TransactionType),
		CreatedDate:     r.CreatedAt.Format(time.RFC3339),
		Bags:            r.Bags,
		ProductType:     r.ProductType,
		Kg:              r.Kg,
		CutWeight:       r.CutWeight,
		NetWeight:       r.NetWeight,
		AmountPerKg:     r.AmountPerKg,
		RoughAmount:     r.RoughAmount,
		Tax:             r.Tax,
		Levy:            r.Levy,
		NetAmount:       r.NetAmount,
		CreditAmount:    r.CreditAmount,
		RoundOff:        r.RoundOff,
	}
}

// ledgerError maps the ledger's error taxonomy onto HTTP statuses.
func ledgerError(err error, notFoundMsg string) error {
	var verr *ledger.ValidationError
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, notFoundMsg)
	case errors.As(err, &verr):
		return fiber.NewError(fiber.StatusBadRequest, verr.Msg)
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Unexpected storage error")
	}
}

// -------------------------
// Handlers
// -------------------------

// POST /api/admin/:admin_uuid/add_user
func CreateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.FirstName = strings.TrimSpace(body.FirstName)
		body.LastName = strings.TrimSpace(body.LastName)
		if body.FirstName == "" || len(body.FirstName) > 50 ||
			body.LastName == "" || len(body.LastName) > 50 {
			return fiber.NewError(fiber.StatusBadRequest, "first_name and last_name must be 1-50 characters")
		}
		if !mobileRe.MatchString(body.Mobile) {
			return fiber.NewError(fiber.StatusBadRequest, "Mobile number must be exactly 10 digits")
		}
		if len(body.Location) > 100 {
			return fiber.NewError(fiber.StatusBadRequest, "location must be at most 100 characters")
		}

		user, err := ledger.CreateUser(database.DB, adminID, ledger.UserFields{
			FirstName: body.FirstName,
			LastName:  body.LastName,
			Mobile:    body.Mobile,
			Location:  body.Location,
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "User could not be created")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			AdminID:     adminID,
			AdminName:   auth.AdminName(c),
			EntityType:  "user",
			EntityID:    user.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("User added: %s", user.FullName()),
			Data:        toUserResponse(user),
		}); logErr != nil {
			fmt.Printf("Audit log failed: %v\n", logErr)
		}

		return c.Status(fiber.StatusCreated).JSON(toUserResponse(user))
	}
}

// GET /api/admin/:admin_uuid/users
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		users, err := ledger.ListUsers(database.DB, adminID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Users could not be listed")
		}

		resp := make([]UserResponse, 0, len(users))
		for i := range users {
			resp = append(resp, toUserResponse(&users[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/admin/:admin_uuid/user_panel_names
func UserPanelNamesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		users, err := ledger.ListUsers(database.DB, adminID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Users could not be listed")
		}

		resp := make([]fiber.Map, 0, len(users))
		for i := range users {
			resp = append(resp, fiber.Map{
				"id":        users[i].ID,
				"uuid":      users[i].UUID,
				"name":      users[i].FullName(),
				"is_active": users[i].IsActive,
			})
		}
		return c.JSON(resp)
	}
}

// PUT /api/admin/:admin_uuid/user/:user_id/enable
// PUT /api/admin/:admin_uuid/user/:user_id/disable
func SetUserActiveHandler(active bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		userID, err := c.ParamsInt("user_id")
		if err != nil || userID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid user id")
		}

		user, err := ledger.SetUserActive(database.DB, adminID, uint(userID), active)
		if err != nil {
			return ledgerError(err, "User not found")
		}

		verb := "disabled"
		if active {
			verb = "enabled"
		}
		if logErr := audit.WriteLog(audit.LogOptions{
			AdminID:     adminID,
			AdminName:   auth.AdminName(c),
			EntityType:  "user",
			EntityID:    user.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("User %s: %s", verb, user.FullName()),
			Data:        toUserResponse(user),
		}); logErr != nil {
			fmt.Printf("Audit log failed: %v\n", logErr)
		}

		return c.JSON(toUserResponse(user))
	}
}

// POST /api/admin/:admin_uuid/user/:user_id/add_record
func AddUserRecordHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		userID, err := c.ParamsInt("user_id")
		if err != nil || userID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid user id")
		}

		var body AddRecordRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		record, err := ledger.AppendUserRecord(database.DB, adminID, uint(userID), ledger.UserRecordInput{
			TransactionType: models.TransactionType(body.TransactionType),
			Bags:            body.Bags,
			ProductType:     body.ProductType,
			Kg:              body.Kg,
			CutWeight:       body.CutWeight,
			AmountPerKg:     body.AmountPerKg,
			CreditAmount:    body.CreditAmount,
			RoundOff:        body.RoundOff,
		})
		if err != nil {
			return ledgerError(err, "User not found")
		}

		metrics.ObserveLedgerAppend("user", string(record.TransactionType))

		if logErr := audit.WriteLog(audit.LogOptions{
			AdminID:     adminID,
			AdminName:   auth.AdminName(c),
			EntityType:  "user_record",
			EntityID:    record.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("%s record added for user %d", record.TransactionType, userID),
			Data:        toRecordResponse(record),
		}); logErr != nil {
			fmt.Printf("Audit log failed: %v\n", logErr)
		}

		return c.Status(fiber.StatusCreated).JSON(toRecordResponse(record))
	}
}

// GET /api/admin/:admin_uuid/user/:user_uuid/records
func UserRecordsByUUIDHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		user, err := ledger.GetUserByUUID(database.DB, adminID, c.Params("user_uuid"))
		if err != nil {
			return ledgerError(err, "User not found")
		}

		records, err := ledger.UserRecords(database.DB, adminID, user.ID)
		if err != nil {
			return ledgerError(err, "User not found")
		}

		resp := make([]UserRecordResponse, 0, len(records))
		for i := range records {
			resp = append(resp, toRecordResponse(&records[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/admin/:admin_uuid/user/:user_id/record_details
func UserRecordDetailsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		userID, err := c.ParamsInt("user_id")
		if err != nil || userID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid user id")
		}

		user, err := ledger.GetUser(database.DB, adminID, uint(userID))
		if err != nil {
			return ledgerError(err, "User not found")
		}

		records, err := ledger.UserRecords(database.DB, adminID, user.ID)
		if err != nil {
			return ledgerError(err, "User not found")
		}

		creditRecords := make([]fiber.Map, 0)
		debitRecords := make([]fiber.Map, 0)
		for _, r := range records {
			if r.TransactionType == models.TransactionCredit {
				creditRecords = append(creditRecords, fiber.Map{
					"id":        r.ID,
					"date":      r.CreatedAt.Format(time.RFC3339),
					"amount":    r.CreditAmount,
					"round_off": r.RoundOff,
				})
			} else {
				debitRecords = append(debitRecords, fiber.Map{
					"id":            r.ID,
					"date":          r.CreatedAt.Format(time.RFC3339),
					"bags":          r.Bags,
					"product_type":  r.ProductType,
					"kg":            r.Kg,
					"cut_weight":    r.CutWeight,
					"net_weight":    r.NetWeight,
					"amount_per_kg": r.AmountPerKg,
					"rough_amount":  r.RoughAmount,
					"tax":           r.Tax,
					"levy":          r.Levy,
					"net_amount":    r.NetAmount,
				})
			}
		}

		return c.JSON(fiber.Map{
			"user_id":        user.ID,
			"user_name":      user.FullName(),
			"credit_records": creditRecords,
			"debit_records":  debitRecords,
			"total_credits":  len(creditRecords),
			"total_debits":   len(debitRecords),
		})
	}
}

// GET /api/admin/:admin_uuid/user/:user_id/calculate_record_details
func CalculateUserRecordDetailsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		userID, err := c.ParamsInt("user_id")
		if err != nil || userID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid user id")
		}

		calc, err := ledger.UserSumDeficit(database.DB, adminID, uint(userID))
		if err != nil {
			return ledgerError(err, "User not found")
		}

		return c.JSON(calc)
	}
}
