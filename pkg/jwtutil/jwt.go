package jwtutil

import (
	"time"

	"warescan-service/internal/model"
	"warescan-service/pkg/config"

	"github.com/golang-jwt/jwt/v4"
)

var (
	signingKey      = []byte("defaultsecretkey")
	expirationHours = 24
)

// Initialize configures the signing key and token lifetime
func Initialize(cfg *config.JWTConfig) {
	signingKey = []byte(cfg.SigningKey)
	if cfg.ExpirationHours > 0 {
		expirationHours = cfg.ExpirationHours
	}
}

// UserClaims represents the JWT claims for user authentication.
// ManagerID is only set for sub-users and points at the manager whose
// warehouse scope the sub-user operates in.
type UserClaims struct {
	Username  string     `json:"username"`
	UserID    uint       `json:"user_id"`
	Role      model.Role `json:"role"`
	ManagerID *uint      `json:"manager_id,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken creates a JWT token with user and role information
func GenerateToken(username string, userID uint, role model.Role, managerID *uint) (string, error) {
	claims := UserClaims{
		Username:  username,
		UserID:    userID,
		Role:      role,
		ManagerID: managerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expirationHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey)
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return signingKey, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
