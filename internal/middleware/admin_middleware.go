package middleware

import (
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// AdminOnlyMiddleware는 'AuthMiddleware' *다음에* 실행되어야 하며,
// Locals의 권한이 'ADMIN'인지 확인합니다.
func AdminOnlyMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := MemberRole(c)
		if role != RoleAdmin {
			log.Warnf("[Admin] 권한 없는 접근 (Role: %q, Path: %s)", role, c.Path())
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "관리자만 접근할 수 있습니다."})
		}
		return c.Next()
	}
}
