package middleware

import (
	"fmt"
	"strings"

	"guest-messaging/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

// Init wires the signing secret used to verify bearer tokens. Call once from
// route setup before any protected route is registered.
func Init(secret string) {
	jwtSecret = []byte(secret)
}

// RequirePermissions is a helper function that creates a middleware with specific permissions
func RequirePermissions(permissions ...string) fiber.Handler {
	return IsAuthenticated(permissions)
}

// RequireAnyPermission allows access if user has any of the specified
// permissions. With no arguments it only requires a valid token.
func RequireAnyPermission(permissions ...string) fiber.Handler {
	if len(permissions) == 0 {
		permissions = []string{constants.PermAny}
	}
	return IsAuthenticated(permissions)
}

// RequireAuthentication only requires valid authentication without specific permissions
func RequireAuthentication() fiber.Handler {
	return IsAuthenticated([]string{constants.PermAny})
}

// IsAuthenticated is a middleware that checks for a valid JWT token and,
// unless "any" is among the required permissions, at least one matching
// permission claim.
func IsAuthenticated(requiredPermissions []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		var token string

		if authHeader != "" {
			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"status": "error",
					"error":  "Invalid authorization header format",
				})
			}
			token = tokenParts[1]
		} else {
			// Cookie fallback for browser clients.
			token = c.Cookies("access")
			if token == "" {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"status": "error",
					"error":  "Authorization token missing",
				})
			}
		}

		claims, ok := hasPermission(token, requiredPermissions)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status": "error",
				"error":  "Insufficient permissions",
			})
		}

		c.Locals("user", claims)
		c.Locals("permissions", extractUserPermissionsFromClaims(claims))
		return c.Next()
	}
}

// VerifyJWT verifies a bearer token against the configured HMAC secret.
func VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	if len(jwtSecret) == 0 {
		return nil, fmt.Errorf("jwt secret not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWT: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid JWT token")
	}
	return claims, nil
}

func hasPermission(jwtToken string, requiredPermissions []string) (jwt.MapClaims, bool) {
	claims, err := VerifyJWT(jwtToken)
	if err != nil {
		return nil, false
	}

	// If "any" is passed, just verify the token without checking specific permissions
	for _, requiredPerm := range requiredPermissions {
		if requiredPerm == constants.PermAny {
			return claims, true
		}
	}

	permissionSet := extractUserPermissionsFromClaims(claims)
	for _, requiredPerm := range requiredPermissions {
		if permissionSet[requiredPerm] {
			return claims, true
		}
	}

	return claims, false
}

// GetUserPermissions returns all user permissions from context
func GetUserPermissions(c *fiber.Ctx) map[string]bool {
	userPermissions, ok := c.Locals("permissions").(map[string]bool)
	if !ok {
		userClaims, ok := c.Locals("user").(jwt.MapClaims)
		if !ok {
			return make(map[string]bool)
		}
		return extractUserPermissionsFromClaims(userClaims)
	}
	return userPermissions
}

func extractUserPermissionsFromClaims(claims jwt.MapClaims) map[string]bool {
	permissionSet := make(map[string]bool)

	userPermissions, ok := claims["permissions"].([]interface{})
	if !ok {
		return permissionSet
	}

	for _, p := range userPermissions {
		if perm, ok := p.(string); ok {
			permissionSet[perm] = true
		}
	}

	return permissionSet
}
