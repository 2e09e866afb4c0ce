package auth

import (
	"strings"

	"vms-backend/internal/config"
	"vms-backend/internal/database"
	"vms-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type RegisterAdminRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// POST /api/register_admin
func RegisterAdminHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterAdminRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if len(body.Name) < 3 || len(body.Name) > 50 {
			return fiber.NewError(fiber.StatusBadRequest, "Name must be 3-50 characters")
		}
		if len(body.Password) < 6 {
			return fiber.NewError(fiber.StatusBadRequest, "Password must be at least 6 characters")
		}

		// Advisory check; the unique index on admins.name is the authority.
		var count int64
		database.DB.Model(&models.Admin{}).
			Where("name = ?", body.Name).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Admin with this name already exists")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		admin := models.Admin{
			UUID:         uuid.NewString(),
			Name:         body.Name,
			PasswordHash: string(hash),
		}

		if err := database.DB.Create(&admin).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Admin with this name already exists")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":           admin.ID,
			"name":         admin.Name,
			"uuid":         admin.UUID,
			"created_date": admin.CreatedAt,
		})
	}
}

// POST /api/login_admin
func LoginAdminHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)

		var admin models.Admin
		if err := database.DB.Where("name = ?", body.Name).First(&admin).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
		}

		token, err := GenerateToken(cfg.JWTSecret, &admin)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not generate token")
		}

		return c.JSON(fiber.Map{
			"access_token": token,
			"token_type":   "bearer",
			"admin": fiber.Map{
				"id":           admin.ID,
				"name":         admin.Name,
				"uuid":         admin.UUID,
				"created_date": admin.CreatedAt,
			},
		})
	}
}

// GET /api/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := AdminID(c)
		if err != nil {
			return err
		}

		var admin models.Admin
		if err := database.DB.First(&admin, adminID).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Admin not found")
		}

		return c.JSON(fiber.Map{
			"id":           admin.ID,
			"name":         admin.Name,
			"uuid":         admin.UUID,
			"created_date": admin.CreatedAt,
		})
	}
}
