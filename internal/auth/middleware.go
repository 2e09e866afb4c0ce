package auth

import (
	"fmt"
	"strings"

	"vms-backend/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxAdminIDKey   = "admin_id"
	CtxAdminUUIDKey = "admin_uuid"
	CtxAdminNameKey = "admin_name"
)

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header missing")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization must be 'Bearer <token>'")
		}

		tokenStr := parts[1]

		token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Could not parse token claims")
		}

		c.Locals(CtxAdminIDKey, claims.AdminID)
		c.Locals(CtxAdminUUIDKey, claims.AdminUUID)
		c.Locals(CtxAdminNameKey, claims.AdminName)

		return c.Next()
	}
}

// RequireTenant guards routes carrying an :admin_uuid path segment: the
// authenticated admin must be the admin the path claims. A mismatch is a
// 403, deliberately distinct from the 404 used for unowned entities.
func RequireTenant() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claimedUUID := c.Params("admin_uuid")
		authUUID, ok := c.Locals(CtxAdminUUIDKey).(string)
		if !ok || claimedUUID == "" || authUUID != claimedUUID {
			return fiber.NewError(fiber.StatusForbidden, "Access denied")
		}
		return c.Next()
	}
}

// AdminID pulls the authenticated admin id out of the request context.
func AdminID(c *fiber.Ctx) (uint, error) {
	id, ok := c.Locals(CtxAdminIDKey).(uint)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Admin identity missing from context")
	}
	return id, nil
}

// AdminName returns the authenticated admin's name, empty when absent.
func AdminName(c *fiber.Ctx) string {
	name, _ := c.Locals(CtxAdminNameKey).(string)
	return name
}
