package clients

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

var phoneRe = regexp.MustCompile(`^[0-9]{10}$`)

// -------------------------
// Request/Response Types
// -------------------------

type CreateClientRequest struct {
	Name        string `json:"name"`
	Username    string `json:"username"`
	Location    string `json:"location"`
	PhoneNumber string `json:"phone_number"`
}

type UpdateClientRequest struct {
	Name        *string `json:"name"`
	Location    *string `json:"location"`
	PhoneNumber *string `json:"phone_number"`
}

type AddRecordRequest struct {
	TransactionType string   `json:"transaction_type"` // "credit" or "debit"
	CreditAmount    *float64 `json:"credit_amount"`
	DebitAmount     *float64 `json:"debit_amount"`
	ProfitLoss      *float64 `json:"profit_loss"`
}

type ClientResponse struct {
	ID              uint    `json:"id"`
	UUID            string  `json:"uuid"`
	Name            string  `json:"name"`
	Username        string  `json:"username"`
	Location        string  `json:"location"`
	PhoneNumber     string  `json:"phone_number"`
	CreatedDate     string  `json:"created_date"`
	UpdatedDate     string  `json:"updated_date"`
	DebitTotal      float64 `json:"debit_total"`
	CreditTotal     float64 `json:"credit_total"`
	ProfitLossTotal float64 `json:"profit_loss_total"`
}

type ClientRecordResponse struct {
	ID              uint     `json:"id"`
	ClientID        uint     `json:"client_id"`
	TransactionType string   `json:"transaction_type"`
	CreatedDate     string   `json:"created_date"`
	CreditAmount    *float64 `json:"credit_amount"`
	DebitAmount     *float64 `json:"debit_amount"`
	ProfitLoss      *float64 `json:"profit_loss"`
}

func toClientResponse(cl *models.Client) ClientResponse {
	return ClientResponse{
		ID:              cl.ID,
		UUID:            cl.UUID,
		Name:            cl.Name,
		Username:        cl.Username,
		Location:        cl.Location,
		PhoneNumber:     cl.PhoneNumber,
		CreatedDate:     cl.CreatedAt.Format(time.RFC3339),
		UpdatedDate:     cl.UpdatedAt.Format(time.RFC3339),
		DebitTotal:      cl.DebitTotal,
		CreditTotal:     cl.CreditTotal,
		ProfitLossTotal: cl.ProfitLossTotal,
	}
}

func toRecordResponse(r *models.ClientRecord) ClientRecordResponse {
	return ClientRecordResponse{
		ID:              r.ID,
		ClientID:        r.ClientID,
		TransactionType: string(r.TransactionType),
		CreatedDate:     r.CreatedAt.Format(time.RFC3339),
		CreditAmount:    r.CreditAmount,
		DebitAmount:     r.DebitAmount,
		ProfitLoss:      r.ProfitLoss,
	}
}

func ledgerError(err error, notFoundMsg string) error {
	var verr *ledger.ValidationError
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, notFoundMsg)
	case errors.Is(err, ledger.ErrDuplicate):
		return fiber.NewError(fiber.StatusBadRequest, "Client with this username already exists")
	case errors.As(err, &verr):
		return fiber.NewError(fiber.StatusBadRequest, verr.Msg)
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Unexpected storage error")
	}
}

// -------------------------
// Handlers
// -------------------------

// POST /api/admin/:admin_uuid/add_client
func CreateClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		var body CreateClientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Username = strings.TrimSpace(body.Username)
		if body.Name == "" || len(body.Name) > 100 {
			return fiber.NewError(fiber.StatusBadRequest, "name must be 1-100 characters")
		}
		if len(body.Username) < 3 || len(body.Username) > 50 {
			return fiber.NewError(fiber.StatusBadRequest, "username must be 3-50 characters")
		}
		if !phoneRe.MatchString(body.PhoneNumber) {
			return fiber.NewError(fiber.StatusBadRequest, "Phone number must be exactly 10 digits")
		}
		if len(body.Location) > 100 {
			return fiber.NewError(fiber.StatusBadRequest, "location must be at most 100 characters")
		}

		client, err := ledger.CreateClient(database.DB, adminID, ledger.ClientFields{
			Name:        body.Name,
			Username:    body.Username,
			Location:    body.Location,
			PhoneNumber: body.PhoneNumber,
		})
		if err != nil {
			return ledgerError(err, "Client not found")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			AdminID:     adminID,
			AdminName:   auth.AdminName(c),
			EntityType:  "client",
			EntityID:    client.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Client added: %s (%s)", client.Name, client.Username),
			Data:        toClientResponse(client),
		}); logErr != nil {
			fmt.Printf("Audit log failed: %v\n", logErr)
		}

		return c.Status(fiber.StatusCreated).JSON(toClientResponse(client))
	}
}

// GET /api/admin/:admin_uuid/clients
func ListClientsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		clients, err := ledger.ListClients(database.DB, adminID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Clients could not be listed")
		}

		resp := make([]ClientResponse, 0, len(clients))
		for i := range clients {
			resp = append(resp, toClientResponse(&clients[i]))
		}
		return c.JSON(resp)
	}
}

// PUT /api/admin/:admin_uuid/client/:client_id/update
func UpdateClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		clientID, err := c.ParamsInt("client_id")
		if err != nil || clientID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid client id")
		}

		var body UpdateClientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" || len(name) > 100 {
				return fiber.NewError(fiber.StatusBadRequest, "name must be 1-100 characters")
			}
			body.Name = &name
		}
		if body.PhoneNumber != nil && !phoneRe.MatchString(*body.PhoneNumber) {
			return fiber.NewError(fiber.StatusBadRequest, "Phone number must be exactly 10 digits")
		}
		if body.Location != nil && len(*body.Location) > 100 {
			return fiber.NewError(fiber.StatusBadRequest, "location must be at most 100 characters")
		}

		client, err := ledger.UpdateClient(database.DB, adminID, uint(clientID), ledger.ClientUpdate{
			Name:        body.Name,
			Location:    body.Location,
			PhoneNumber: body.PhoneNumber,
		})
		if err != nil {
			return ledgerError(err, "Client not found")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			AdminID:     adminID,
			AdminName:   auth.AdminName(c),
			EntityType:  "client",
			EntityID:    client.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Client updated: %s", client.Name),
			Data:        toClientResponse(client),
		}); logErr != nil {
			fmt.Printf("Audit log failed: %v\n", logErr)
		}

		return c.JSON(toClientResponse(client))
	}
}

// POST /api/admin/:admin_uuid/client/:client_id/add_record
func AddClientRecordHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		clientID, err := c.ParamsInt("client_id")
		if err != nil || clientID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid client id")
		}

		var body AddRecordRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		record, err := ledger.AppendClientRecord(database.DB, adminID, uint(clientID), ledger.ClientRecordInput{
			TransactionType: models.TransactionType(body.TransactionType),
			CreditAmount:    body.CreditAmount,
			DebitAmount:     body.DebitAmount,
			ProfitLoss:      body.ProfitLoss,
		})
		if err != nil {
			return ledgerError(err, "Client not found")
		}

		metrics.ObserveLedgerAppend("client", string(record.TransactionType))

		if logErr := audit.WriteLog(audit.LogOptions{
			AdminID:     adminID,
			AdminName:   auth.AdminName(c),
			EntityType:  "client_record",
			EntityID:    record.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("%s record added for client %d", record.TransactionType, clientID),
			Data:        toRecordResponse(record),
		}); logErr != nil {
			fmt.Printf("Audit log failed: %v\n", logErr)
		}

		return c.Status(fiber.StatusCreated).JSON(toRecordResponse(record))
	}
}

// GET /api/admin/:admin_uuid/client/:client_id/record_details
func ClientRecordDetailsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		clientID, err := c.ParamsInt("client_id")
		if err != nil || clientID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid client id")
		}

		client, err := ledger.GetClient(database.DB, adminID, uint(clientID))
		if err != nil {
			return ledgerError(err, "Client not found")
		}

		records, err := ledger.ClientRecords(database.DB, adminID, client.ID)
		if err != nil {
			return ledgerError(err, "Client not found")
		}

		creditRecords := make([]fiber.Map, 0)
		debitRecords := make([]fiber.Map, 0)
		profitLossRecords := make([]fiber.Map, 0)

		for _, r := range records {
			date := r.CreatedAt.Format(time.RFC3339)
			if r.CreditAmount != nil {
				creditRecords = append(creditRecords, fiber.Map{
					"id":               r.ID,
					"date":             date,
					"transaction_type": string(r.TransactionType),
					"amount":           *r.CreditAmount,
				})
			}
			if r.DebitAmount != nil {
				debitRecords = append(debitRecords, fiber.Map{
					"id":               r.ID,
					"date":             date,
					"transaction_type": string(r.TransactionType),
					"amount":           *r.DebitAmount,
				})
			}
			if r.ProfitLoss != nil {
				kind := ledger.StatusLoss
				if *r.ProfitLoss > 0 {
					kind = ledger.StatusProfit
				}
				profitLossRecords = append(profitLossRecords, fiber.Map{
					"id":     r.ID,
					"date":   date,
					"amount": *r.ProfitLoss,
					"type":   kind,
				})
			}
		}

		return c.JSON(fiber.Map{
			"client_id":                 client.ID,
			"client_name":               client.Name,
			"credit_records":            creditRecords,
			"debit_records":             debitRecords,
			"profit_loss_records":       profitLossRecords,
			"total_credits":             len(creditRecords),
			"total_debits":              len(debitRecords),
			"total_profit_loss_entries": len(profitLossRecords),
		})
	}
}

// GET /api/admin/:admin_uuid/client/:client_id/calculate_record_details
func CalculateClientRecordDetailsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		clientID, err := c.ParamsInt("client_id")
		if err != nil || clientID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid client id")
		}

		calc, err := ledger.ClientPending(database.DB, adminID, uint(clientID))
		if err != nil {
			return ledgerError(err, "Client not found")
		}

		return c.JSON(calc)
	}
}

// GET /api/admin/:admin_uuid/client_panel_names
func ClientPanelNamesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		clients, err := ledger.ListClients(database.DB, adminID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Clients could not be listed")
		}

		resp := make([]fiber.Map, 0, len(clients))
		for i := range clients {
			calc, err := ledger.ClientPending(database.DB, adminID, clients[i].ID)
			if err != nil {
				return ledgerError(err, "Client not found")
			}
			resp = append(resp, fiber.Map{
				"id":             clients[i].ID,
				"uuid":           clients[i].UUID,
				"name":           clients[i].Name,
				"username":       clients[i].Username,
				"pending_amount": calc.PendingAmount,
			})
		}
		return c.JSON(resp)
	}
}
