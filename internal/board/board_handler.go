package board

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"tripmate/internal/middleware"
	"tripmate/internal/respond"
)

// BoardHandler는 게시판 공통 API 핸들러입니다. ':board' 경로 값으로 게시판을 구분합니다.
type BoardHandler struct {
	service *Service
}

// NewBoardHandler는 새 핸들러를 생성합니다.
func NewBoardHandler(service *Service) *BoardHandler {
	return &BoardHandler{service: service}
}

// kindOf는 ':board' 경로 값을 게시판 설정으로 변환합니다.
func kindOf(c *fiber.Ctx) (Kind, error) {
	k, ok := Lookup(c.Params("board"))
	if !ok {
		return Kind{}, fmt.Errorf("게시판(%s): %w", c.Params("board"), respond.ErrNotFound)
	}
	return k, nil
}

// postID는 ':id' 경로 값을 파싱합니다.
func postID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: 유효하지 않은 게시글 ID", respond.ErrBadRequest)
	}
	return id, nil
}

// HandleList는 'GET /api/boards/:board/posts' 요청을 처리합니다.
func (h *BoardHandler) HandleList(c *fiber.Ctx) error {
	k, err := kindOf(c)
	if err != nil {
		return respond.Error(c, err, "")
	}

	q := ListQuery{
		Page:     c.QueryInt("page", 1),
		Size:     c.QueryInt("size", 10),
		Keyword:  c.Query("keyword"),
		Field:    c.Query("field"),
		Sort:     c.Query("sort"),
		Category: c.Query("category"),
		Status:   c.Query("status"),
	}
	if c.QueryBool("mine") {
		q.MemberID = middleware.MemberID(c)
		if q.MemberID == 0 {
			return respond.Message(c, fiber.StatusUnauthorized, "로그인이 필요합니다.")
		}
	}

	page, err := h.service.List(k, q)
	if err != nil {
		return respond.Error(c, err, "게시글 목록을 불러오는 중 오류가 발생했습니다.")
	}
	return c.JSON(page)
}

// HandleDetail은 'GET /api/boards/:board/posts/:id' 요청을 처리합니다.
// 'viewed_<board>' 쿠키에 없는 글일 때만 조회수를 올립니다.
func (h *BoardHandler) HandleDetail(c *fiber.Ctx) error {
	k, err := kindOf(c)
	if err != nil {
		return respond.Error(c, err, "")
	}
	id, err := postID(c)
	if err != nil {
		return respond.Error(c, err, "")
	}

	cookieName := viewCookieName(k)
	updated, first := markViewed(c.Cookies(cookieName), id)

	post, err := h.service.Detail(k, id, middleware.MemberID(c), first)
	if err != nil {
		return respond.Error(c, err, "게시글을 불러오는 중 오류가 발생했습니다.")
	}

	if first {
		c.Cookie(&fiber.Cookie{
			Name:     cookieName,
			Value:    updated,
			Path:     "/",
			Expires:  time.Now().Add(viewCookieTTL),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	return c.JSON(post)
}

// HandleCreate는 'POST /api/boards/:board/posts' 요청을 처리합니다.
func (h *BoardHandler) HandleCreate(c *fiber.Ctx) error {
	k, err := kindOf(c)
	if err != nil {
		return respond.Error(c, err, "")
	}

	var req PostRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warnf("게시글 작성 요청 파싱 실패: %v", err)
		return respond.BadRequest(c, "입력 값이 올바르지 않습니다.")
	}

	id, err := h.service.Create(k, middleware.MemberID(c), middleware.MemberRole(c), req)
	if err != nil {
		return respond.Error(c, err, "게시글 작성 중 오류가 발생했습니다.")
	}

	log.Infof("게시글 작성 (%s/%d, 회원: %d)", k.Name, id, middleware.MemberID(c))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// HandleUpdate는 'PUT /api/boards/:board/posts/:id' 요청을 처리합니다.
func (h *BoardHandler) HandleUpdate(c *fiber.Ctx) error {
	k, err := kindOf(c)
	if err != nil {
		return respond.Error(c, err, "")
	}
	id, err := postID(c)
	if err != nil {
		return respond.Error(c, err, "")
	}

	var req PostRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "입력 값이 올바르지 않습니다.")
	}

	if err := h.service.Update(k, id, middleware.MemberID(c), middleware.MemberRole(c), req); err != nil {
		return respond.Error(c, err, "게시글 수정 중 오류가 발생했습니다.")
	}
	return respond.Message(c, fiber.StatusOK, "게시글이 수정되었습니다.")
}

// HandleDelete는 'DELETE /api/boards/:board/posts/:id' 요청을 처리합니다.
func (h *BoardHandler) HandleDelete(c *fiber.Ctx) error {
	k, err := kindOf(c)
	if err != nil {
		return respond.Error(c, err, "")
	}
	id, err := postID(c)
	if err != nil {
		return respond.Error(c, err, "")
	}

	if err := h.service.Delete(k, id, middleware.MemberID(c), middleware.MemberRole(c)); err != nil {
		return respond.Error(c, err, "게시글 삭제 중 오류가 발생했습니다.")
	}
	log.Infof("게시글 삭제 (%s/%d, 처리자: %d)", k.Name, id, middleware.MemberID(c))
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleLike는 'POST /api/boards/:board/posts/:id/like' 요청을 처리합니다.
func (h *BoardHandler) HandleLike(c *fiber.Ctx) error {
	return h.toggle(c, ReactionLike)
}

// HandleBookmark는 'POST /api/boards/:board/posts/:id/bookmark' 요청을 처리합니다.
func (h *BoardHandler) HandleBookmark(c *fiber.Ctx) error {
	return h.toggle(c, ReactionBookmark)
}

func (h *BoardHandler) toggle(c *fiber.Ctx, reactionType string) error {
	k, err := kindOf(c)
	if err != nil {
		return respond.Error(c, err, "")
	}
	id, err := postID(c)
	if err != nil {
		return respond.Error(c, err, "")
	}

	result, err := h.service.ToggleReaction(k, id, middleware.MemberID(c), reactionType)
	if err != nil {
		return respond.Error(c, err, "처리 중 오류가 발생했습니다.")
	}
	return c.JSON(result)
}

// HandleBookmarks는 'GET /api/boards/:board/bookmarks' 요청을 처리합니다.
func (h *BoardHandler) HandleBookmarks(c *fiber.Ctx) error {
	k, err := kindOf(c)
	if err != nil {
		return respond.Error(c, err, "")
	}

	page, err := h.service.Bookmarks(k, middleware.MemberID(c), c.QueryInt("page", 1), c.QueryInt("size", 10))
	if err != nil {
		return respond.Error(c, err, "북마크 목록을 불러오는 중 오류가 발생했습니다.")
	}
	return c.JSON(page)
}

// HandlePopular는 'GET /api/boards/:board/popular' 요청을 처리합니다.
func (h *BoardHandler) HandlePopular(c *fiber.Ctx) error {
	k, err := kindOf(c)
	if err != nil {
		return respond.Error(c, err, "")
	}

	posts, err := h.service.Popular(k)
	if err != nil {
		return respond.Error(c, err, "인기 게시글을 불러오는 중 오류가 발생했습니다.")
	}
	return c.JSON(posts)
}
