package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	log "github.com/sirupsen/logrus"

	"tripmate/internal/token"
)

// c.Locals / 세션 키
const (
	LocalMemberID   = "member_id"
	LocalMemberRole = "member_role"

	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// MemberLookup은 토큰/세션의 회원이 아직 유효한지와 현재 권한을 알려줍니다.
type MemberLookup interface {
	ActiveRole(id uint64) (role string, active bool, err error)
}

// resolveMember는 세션 → Bearer 토큰 순서로 로그인 회원 ID를 찾습니다.
func resolveMember(c *fiber.Ctx, store *session.Store, tokens *token.Service) (uint64, bool) {
	// 1. 세션 (웹 로그인)
	if sess, err := store.Get(c); err == nil {
		if id, ok := sess.Get(LocalMemberID).(uint64); ok && id > 0 {
			return id, true
		}
	} else {
		log.Warnf("미들웨어: 세션 조회 실패 (%s): %v", c.Path(), err)
	}

	// 2. Authorization: Bearer <jwt> (SPA)
	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return 0, false
	}
	claims, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		log.Warnf("미들웨어: 토큰 검증 실패 (%s): %v", c.Path(), err)
		return 0, false
	}
	return claims.MemberID, true
}

// authenticate는 로그인 회원을 DB에서 다시 확인합니다.
// 권한은 세션/토큰이 아니라 members 행의 값을 사용합니다. (탈퇴/강등 즉시 반영)
func authenticate(c *fiber.Ctx, store *session.Store, tokens *token.Service, members MemberLookup) (uint64, string, bool, error) {
	id, ok := resolveMember(c, store, tokens)
	if !ok {
		return 0, "", false, nil
	}
	role, active, err := members.ActiveRole(id)
	if err != nil {
		return 0, "", false, err
	}
	if !active {
		log.Infof("미들웨어: 탈퇴했거나 없는 회원의 접근 (ID: %d, %s)", id, c.Path())
		return 0, "", false, nil
	}
	return id, role, true, nil
}

// AuthMiddleware는 로그인하지 않았거나 탈퇴한 회원의 요청을 401로 거절합니다.
func AuthMiddleware(store *session.Store, tokens *token.Service, members MemberLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, role, ok, err := authenticate(c, store, tokens, members)
		if err != nil {
			log.Errorf("미들웨어: 회원 조회 실패 (%s): %v", c.Path(), err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "회원 정보를 확인하지 못했습니다."})
		}
		if !ok {
			log.Infof("미들웨어: 로그인되지 않은 접근 (%s)", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "로그인이 필요합니다."})
		}

		c.Locals(LocalMemberID, id)
		c.Locals(LocalMemberRole, role)
		return c.Next()
	}
}

// OptionalAuth는 로그인 정보가 있으면 Locals에 담고, 없어도 통과시킵니다. (상세 조회의 좋아요 여부 등)
func OptionalAuth(store *session.Store, tokens *token.Service, members MemberLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, role, ok, err := authenticate(c, store, tokens, members)
		if err != nil {
			log.Warnf("미들웨어: 회원 조회 실패, 비로그인으로 처리 (%s): %v", c.Path(), err)
		}
		if ok {
			c.Locals(LocalMemberID, id)
			c.Locals(LocalMemberRole, role)
		}
		return c.Next()
	}
}

// MemberID는 Locals의 회원 ID를 반환합니다. (비로그인 0)
func MemberID(c *fiber.Ctx) uint64 {
	id, _ := c.Locals(LocalMemberID).(uint64)
	return id
}

// MemberRole은 Locals의 회원 권한을 반환합니다. (비로그인 "")
func MemberRole(c *fiber.Ctx) string {
	role, _ := c.Locals(LocalMemberRole).(string)
	return role
}
