package dashboard

import (
	"time"

	"vms-backend/internal/auth"
	"vms-backend/internal/database"
	"vms-backend/internal/ledger"
	"vms-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const recentLimit = 5

type DashboardResponse struct {
	AdminName            string      `json:"admin_name"`
	TotalUsers           int         `json:"total_users"`
	ActiveUsers          int         `json:"active_users"`
	TotalClients         int         `json:"total_clients"`
	UsersPendingAmount   float64     `json:"users_pending_amount"`
	ClientsPendingAmount float64     `json:"clients_pending_amount"`
	RecentUsers          []fiber.Map `json:"recent_users"`
	RecentClients        []fiber.Map `json:"recent_clients"`
}

// GET /api/dashboard/:admin_uuid
func DashboardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		users, err := ledger.ListUsers(database.DB, adminID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dashboard could not be loaded")
		}
		clients, err := ledger.ListClients(database.DB, adminID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dashboard could not be loaded")
		}

		activeUsers := 0
		for i := range users {
			if users[i].IsActive {
				activeUsers++
			}
		}

		usersPending, err := ledger.UsersPendingRollup(database.DB, adminID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dashboard could not be loaded")
		}
		clientsPending, err := ledger.ClientsPendingRollup(database.DB, adminID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dashboard could not be loaded")
		}

		recentUsers, err := ledger.RecentUsers(database.DB, adminID, recentLimit)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dashboard could not be loaded")
		}
		recentClients, err := ledger.RecentClients(database.DB, adminID, recentLimit)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dashboard could not be loaded")
		}

		return c.JSON(DashboardResponse{
			AdminName:            auth.AdminName(c),
			TotalUsers:           len(users),
			ActiveUsers:          activeUsers,
			TotalClients:         len(clients),
			UsersPendingAmount:   usersPending.TotalPending,
			ClientsPendingAmount: clientsPending.TotalPending,
			RecentUsers:          recentUserMaps(recentUsers),
			RecentClients:        recentClientMaps(recentClients),
		})
	}
}

func recentUserMaps(users []models.User) []fiber.Map {
	out := make([]fiber.Map, 0, len(users))
	for i := range users {
		out = append(out, fiber.Map{
			"id":           users[i].ID,
			"uuid":         users[i].UUID,
			"name":         users[i].FullName(),
			"mobile":       users[i].Mobile,
			"is_active":    users[i].IsActive,
			"created_date": users[i].CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}

func recentClientMaps(clients []models.Client) []fiber.Map {
	out := make([]fiber.Map, 0, len(clients))
	for i := range clients {
		out = append(out, fiber.Map{
			"id":           clients[i].ID,
			"uuid":         clients[i].UUID,
			"name":         clients[i].Name,
			"username":     clients[i].Username,
			"created_date": clients[i].CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}

// GET /api/admin/:admin_uuid/final_users_pending_amount
func UsersPendingAmountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		rollup, err := ledger.UsersPendingRollup(database.DB, adminID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Pending amounts could not be calculated")
		}
		return c.JSON(rollup)
	}
}

// GET /api/admin/:admin_uuid/final_clients_pending_amount
func ClientsPendingAmountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		rollup, err := ledger.ClientsPendingRollup(database.DB, adminID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Pending amounts could not be calculated")
		}
		return c.JSON(rollup)
	}
}
