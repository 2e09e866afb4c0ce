package main

import (
	"log"
	"strings"

	"vms-backend/internal/audit"
	"vms-backend/internal/auth"
	"vms-backend/internal/clients"
	"vms-backend/internal/config"
	"vms-backend/internal/dashboard"
	"vms-backend/internal/database"
	"vms-backend/internal/observability/metrics"
	"vms-backend/internal/users"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")

	// Public auth
	api.Post("/register_admin", auth.RegisterAdminHandler(cfg))
	api.Post("/login_admin", auth.LoginAdminHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/me", auth.MeHandler())

	// Dashboard
	protected.Get("/dashboard/:admin_uuid", auth.RequireTenant(), dashboard.DashboardHandler())

	// Tenant-scoped routes: the path's admin_uuid must match the token's.
	tenant := protected.Group("/admin/:admin_uuid")
	tenant.Use(auth.RequireTenant())

	// Users (buyers)
	tenant.Post("/add_user", users.CreateUserHandler())
	tenant.Get("/users", users.ListUsersHandler())
	tenant.Get("/user_panel_names", users.UserPanelNamesHandler())
	tenant.Put("/user/:user_id<int>/enable", users.SetUserActiveHandler(true))
	tenant.Put("/user/:user_id<int>/disable", users.SetUserActiveHandler(false))
	tenant.Post("/user/:user_id<int>/add_record", users.AddUserRecordHandler())
	tenant.Get("/user/:user_id<int>/record_details", users.UserRecordDetailsHandler())
	tenant.Get("/user/:user_id<int>/calculate_record_details", users.CalculateUserRecordDetailsHandler())
	tenant.Get("/user/:user_id<int>/statement", users.ExportUserStatementHandler())
	tenant.Get("/user/:user_uuid/records", users.UserRecordsByUUIDHandler())

	// Clients (vendors)
	tenant.Post("/add_client", clients.CreateClientHandler())
	tenant.Get("/clients", clients.ListClientsHandler())
	tenant.Get("/client_panel_names", clients.ClientPanelNamesHandler())
	tenant.Put("/client/:client_id<int>/update", clients.UpdateClientHandler())
	tenant.Post("/client/:client_id<int>/add_record", clients.AddClientRecordHandler())
	tenant.Get("/client/:client_id<int>/record_details", clients.ClientRecordDetailsHandler())
	tenant.Get("/client/:client_id<int>/calculate_record_details", clients.CalculateClientRecordDetailsHandler())

	// Portfolio rollups
	tenant.Get("/final_users_pending_amount", dashboard.UsersPendingAmountHandler())
	tenant.Get("/final_clients_pending_amount", dashboard.ClientsPendingAmountHandler())

	// Audit trail
	tenant.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Server running on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
