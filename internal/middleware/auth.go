// Package middleware provides authentication and authorization middleware
// for the application.
package middleware

import (
	"crypto/subtle"
	"errors"
	"strings"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// bearerToken extracts the token from an "Authorization: Bearer x" header.
func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

func unauthorized(c *fiber.Ctx, message string) error {
	return models.RespondWithError(c, models.NewUnauthorizedError(message))
}

// parseUserToken validates a JWT and returns the user ID and admin flag.
func parseUserToken(tokenString, jwtSecret string) (uint, bool, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, false, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false, errors.New("invalid token claims")
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, false, errors.New("invalid token subject")
	}

	isAdmin, _ := claims["admin"].(bool)
	return uint(sub), isAdmin, nil
}

// AuthRequired enforces a valid JWT and stores the user ID and admin flag on
// the request context.
func AuthRequired(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return unauthorized(c, "authorization header required")
		}

		userID, isAdmin, err := parseUserToken(tokenString, jwtSecret)
		if err != nil {
			return unauthorized(c, err.Error())
		}

		c.Locals("userID", userID)
		c.Locals("isAdmin", isAdmin)
		return c.Next()
	}
}

// AdminRequired guards the admin surface. It accepts either the static admin
// token, compared in constant time, or a JWT whose admin claim is set.
func AdminRequired(adminToken, jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return unauthorized(c, "authorization header required")
		}

		if subtle.ConstantTimeCompare([]byte(tokenString), []byte(adminToken)) == 1 {
			c.Locals("isAdmin", true)
			return c.Next()
		}

		userID, isAdmin, err := parseUserToken(tokenString, jwtSecret)
		if err != nil {
			return unauthorized(c, err.Error())
		}
		if !isAdmin {
			return unauthorized(c, "admin access required")
		}

		c.Locals("userID", userID)
		c.Locals("isAdmin", true)
		return c.Next()
	}
}
