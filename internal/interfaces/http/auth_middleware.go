package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ijair/codeEcommerce-sub001/internal/application/dto"
	"github.com/ijair/codeEcommerce-sub001/pkg/jwt"
)

// Locals keys para la identidad del llamador en Fiber.
const (
	LocalCaller     = "caller"
	LocalCallerKind = "caller_kind"
)

// AuthMiddleware valida el Bearer Token JWT y deja el subject (identidad del llamador) en c.Locals.
// issuer vacío desactiva la verificación del emisor.
func AuthMiddleware(jwtSecret, issuer string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, issuer, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalCaller, claims.Subject)
		c.Locals(LocalCallerKind, claims.Kind)
		return c.Next()
	}
}

// GetCaller devuelve la identidad del llamador (después del middleware de auth).
func GetCaller(c *fiber.Ctx) string {
	v := c.Locals(LocalCaller)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetCallerKind devuelve el tipo de identidad declarado en el token ("" si no vino).
func GetCallerKind(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalCallerKind).(string)
	return s
}
