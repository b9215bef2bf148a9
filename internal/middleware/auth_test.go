package middleware

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/require"

	"tripmate/internal/token"
)

type memberState struct {
	role   string
	active bool
}

type fakeMembers struct {
	rows map[uint64]memberState
	err  error
}

func (f *fakeMembers) ActiveRole(id uint64) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	row, ok := f.rows[id]
	if !ok {
		return "", false, nil
	}
	return row.role, row.active, nil
}

func newTestApp(t *testing.T) (*fiber.App, *token.Service, *fakeMembers) {
	t.Helper()
	store := session.New()
	tokens := token.NewService("secret", time.Hour)
	members := &fakeMembers{rows: map[uint64]memberState{
		1: {role: RoleAdmin, active: true},
		7: {role: RoleUser, active: true},
	}}

	app := fiber.New()
	app.Get("/me", AuthMiddleware(store, tokens, members), func(c *fiber.Ctx) error {
		return c.SendString(fmt.Sprintf("%d:%s", MemberID(c), MemberRole(c)))
	})
	app.Get("/admin", AuthMiddleware(store, tokens, members), AdminOnlyMiddleware(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/optional", OptionalAuth(store, tokens, members), func(c *fiber.Ctx) error {
		return c.SendString(fmt.Sprintf("%d", MemberID(c)))
	})
	return app, tokens, members
}

func bearer(t *testing.T, tokens *token.Service, id uint64, role, path string) *http.Request {
	t.Helper()
	signed, err := tokens.Issue(id, role)
	require.NoError(t, err)
	req := httptest.NewRequest("GET", path, nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	return req
}

func TestAuthMiddlewareRejectsAnonymous(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer broken")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareAcceptsBearerToken(t *testing.T) {
	app, tokens, _ := newTestApp(t)
	signed, err := tokens.Issue(7, RoleUser)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAdminOnlyAllowsAdmin(t *testing.T) {
	app, tokens, _ := newTestApp(t)
	signed, err := tokens.Issue(1, RoleAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestOptionalAuthPassesAnonymous(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/optional", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthMiddlewareRejectsWithdrawnMember(t *testing.T) {
	app, tokens, members := newTestApp(t)
	members.rows[7] = memberState{role: RoleUser, active: false}

	resp, err := app.Test(bearer(t, tokens, 7, RoleUser, "/me"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// 회원 행이 없는 토큰도 거절
	resp, err = app.Test(bearer(t, tokens, 99, RoleUser, "/me"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// 선택 인증은 비로그인으로 통과
	resp, err = app.Test(bearer(t, tokens, 7, RoleUser, "/optional"))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "0", string(body))
}

func TestAuthMiddlewareUsesCurrentRole(t *testing.T) {
	app, tokens, members := newTestApp(t)
	// ADMIN으로 발급된 토큰이지만 이후 USER로 강등됨
	members.rows[1] = memberState{role: RoleUser, active: true}

	resp, err := app.Test(bearer(t, tokens, 1, RoleAdmin, "/admin"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(bearer(t, tokens, 1, RoleAdmin, "/me"))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "1:USER", string(body))

	resp, err = app.Test(bearer(t, tokens, 7, RoleUser, "/admin"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// USER로 발급된 토큰이라도 DB에서 ADMIN이면 허용
	members.rows[7] = memberState{role: RoleAdmin, active: true}
	resp, err = app.Test(bearer(t, tokens, 7, RoleUser, "/admin"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestAuthMiddlewareLookupFailure(t *testing.T) {
	app, tokens, members := newTestApp(t)
	members.err = errors.New("db down")

	resp, err := app.Test(bearer(t, tokens, 7, RoleUser, "/me"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	resp, err = app.Test(bearer(t, tokens, 7, RoleUser, "/optional"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
