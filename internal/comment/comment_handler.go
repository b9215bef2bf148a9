package comment

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"tripmate/internal/board"
	"tripmate/internal/middleware"
	"tripmate/internal/respond"
)

// CommentHandler는 댓글 API 핸들러입니다.
type CommentHandler struct {
	service *Service
}

// NewCommentHandler는 새 핸들러를 생성합니다.
func NewCommentHandler(service *Service) *CommentHandler {
	return &CommentHandler{service: service}
}

func paramID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: 유효하지 않은 ID", respond.ErrBadRequest)
	}
	return id, nil
}

// target은 ':board'와 ':id'(게시글)를 파싱합니다.
func target(c *fiber.Ctx) (board.Kind, uint64, error) {
	k, ok := board.Lookup(c.Params("board"))
	if !ok {
		return board.Kind{}, 0, fmt.Errorf("게시판(%s): %w", c.Params("board"), respond.ErrNotFound)
	}
	id, err := paramID(c)
	return k, id, err
}

// HandleList는 'GET /api/boards/:board/posts/:id/comments' 요청을 처리합니다.
func (h *CommentHandler) HandleList(c *fiber.Ctx) error {
	k, postID, err := target(c)
	if err != nil {
		return respond.Error(c, err, "")
	}
	comments, err := h.service.List(k, postID)
	if err != nil {
		return respond.Error(c, err, "댓글을 불러오는 중 오류가 발생했습니다.")
	}
	return c.JSON(comments)
}

// HandleCreate는 'POST /api/boards/:board/posts/:id/comments' 요청을 처리합니다.
func (h *CommentHandler) HandleCreate(c *fiber.Ctx) error {
	k, postID, err := target(c)
	if err != nil {
		return respond.Error(c, err, "")
	}

	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warnf("댓글 작성 요청 파싱 실패: %v", err)
		return respond.BadRequest(c, "입력 값이 올바르지 않습니다.")
	}

	id, err := h.service.Create(k, postID, middleware.MemberID(c), req)
	if err != nil {
		return respond.Error(c, err, "댓글 작성 중 오류가 발생했습니다.")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// HandleUpdate는 'PUT /api/comments/:id' 요청을 처리합니다.
func (h *CommentHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respond.Error(c, err, "")
	}

	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "입력 값이 올바르지 않습니다.")
	}

	if err := h.service.Update(id, middleware.MemberID(c), middleware.MemberRole(c), req.Content); err != nil {
		return respond.Error(c, err, "댓글 수정 중 오류가 발생했습니다.")
	}
	return respond.Message(c, fiber.StatusOK, "댓글이 수정되었습니다.")
}

// HandleDelete는 'DELETE /api/comments/:id' 요청을 처리합니다.
func (h *CommentHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respond.Error(c, err, "")
	}
	if err := h.service.Delete(id, middleware.MemberID(c), middleware.MemberRole(c)); err != nil {
		return respond.Error(c, err, "댓글 삭제 중 오류가 발생했습니다.")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
