package auth

import (
	"time"

	"vms-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

type JWTCustomClaims struct {
	AdminID   uint   `json:"admin_id"`
	AdminUUID string `json:"admin_uuid"`
	AdminName string `json:"admin_name"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, admin *models.Admin) (string, error) {
	claims := &JWTCustomClaims{
		AdminID:   admin.ID,
		AdminUUID: admin.UUID,
		AdminName: admin.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.UUID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
