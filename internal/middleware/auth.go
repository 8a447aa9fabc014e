package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// OwnerIDKey is the locals key under which RequireOwner stores the
// authenticated owner's ID.
const OwnerIDKey = "owner_id"

// RequireOwner validates a Bearer JWT signed with the shared secret and
// exposes its owner_id claim via c.Locals(OwnerIDKey).
func RequireOwner(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(401).JSON(fiber.Map{
				"error": "Missing or malformed authorization header",
			})
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return c.Status(401).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(401).JSON(fiber.Map{
				"error": "Invalid token claims",
			})
		}
		ownerID, _ := claims["owner_id"].(string)
		if ownerID == "" {
			return c.Status(401).JSON(fiber.Map{
				"error": "Token missing owner identity",
			})
		}

		c.Locals(OwnerIDKey, ownerID)
		return c.Next()
	}
}
