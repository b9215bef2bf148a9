package support

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"tripmate/internal/middleware"
	"tripmate/internal/respond"
)

// SupportHandler는 문의/신고 API 핸들러입니다.
type SupportHandler struct {
	service *Service
}

// NewSupportHandler는 새 핸들러를 생성합니다.
func NewSupportHandler(service *Service) *SupportHandler {
	return &SupportHandler{service: service}
}

func paramID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: 유효하지 않은 ID", respond.ErrBadRequest)
	}
	return id, nil
}

// HandleCreateInquiry는 'POST /api/inquiries' 요청을 처리합니다.
func (h *SupportHandler) HandleCreateInquiry(c *fiber.Ctx) error {
	var req InquiryRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "입력 값이 올바르지 않습니다.")
	}
	id, err := h.service.CreateInquiry(middleware.MemberID(c), req)
	if err != nil {
		return respond.Error(c, err, "문의 등록 중 오류가 발생했습니다.")
	}
	log.Infof("문의 접수 (ID: %d, 회원: %d)", id, middleware.MemberID(c))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// HandleMyInquiries는 'GET /api/inquiries/me' 요청을 처리합니다.
func (h *SupportHandler) HandleMyInquiries(c *fiber.Ctx) error {
	page, err := h.service.MyInquiries(middleware.MemberID(c), c.QueryInt("page", 1), c.QueryInt("size", 10))
	if err != nil {
		return respond.Error(c, err, "문의 목록을 불러오는 중 오류가 발생했습니다.")
	}
	return c.JSON(page)
}

// HandleGetInquiry는 'GET /api/inquiries/:id' 요청을 처리합니다.
func (h *SupportHandler) HandleGetInquiry(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respond.Error(c, err, "")
	}
	q, err := h.service.GetInquiry(id, middleware.MemberID(c), middleware.MemberRole(c))
	if err != nil {
		return respond.Error(c, err, "문의를 불러오는 중 오류가 발생했습니다.")
	}
	return c.JSON(q)
}

// HandleAdminInquiries는 'GET /api/admin/inquiries?status=' 요청을 처리합니다.
func (h *SupportHandler) HandleAdminInquiries(c *fiber.Ctx) error {
	page, err := h.service.AdminInquiries(c.Query("status"), c.QueryInt("page", 1), c.QueryInt("size", 10))
	if err != nil {
		return respond.Error(c, err, "문의 목록을 불러오는 중 오류가 발생했습니다.")
	}
	return c.JSON(page)
}

// HandleReplyInquiry는 'PUT /api/admin/inquiries/:id/reply' 요청을 처리합니다.
func (h *SupportHandler) HandleReplyInquiry(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respond.Error(c, err, "")
	}
	var req ReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "입력 값이 올바르지 않습니다.")
	}
	if err := h.service.ReplyInquiry(id, req); err != nil {
		return respond.Error(c, err, "답변 등록 중 오류가 발생했습니다.")
	}
	return respond.Message(c, fiber.StatusOK, "답변이 등록되었습니다.")
}

// HandleCreateReport는 'POST /api/reports' 요청을 처리합니다.
func (h *SupportHandler) HandleCreateReport(c *fiber.Ctx) error {
	var req ReportRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "입력 값이 올바르지 않습니다.")
	}
	id, err := h.service.CreateReport(middleware.MemberID(c), req)
	if err != nil {
		return respond.Error(c, err, "신고 접수 중 오류가 발생했습니다.")
	}
	log.Infof("신고 접수 (ID: %d, %s/%s/%d)", id, req.BoardType, req.TargetType, req.TargetID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// HandleAdminReports는 'GET /api/admin/reports?status=' 요청을 처리합니다.
func (h *SupportHandler) HandleAdminReports(c *fiber.Ctx) error {
	page, err := h.service.AdminReports(c.Query("status"), c.QueryInt("page", 1), c.QueryInt("size", 10))
	if err != nil {
		return respond.Error(c, err, "신고 목록을 불러오는 중 오류가 발생했습니다.")
	}
	return c.JSON(page)
}

// HandleProcessReport는 'PUT /api/admin/reports/:id' 요청을 처리합니다.
func (h *SupportHandler) HandleProcessReport(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respond.Error(c, err, "")
	}
	var req ProcessRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "입력 값이 올바르지 않습니다.")
	}
	if err := h.service.ProcessReport(id, req); err != nil {
		return respond.Error(c, err, "신고 처리 중 오류가 발생했습니다.")
	}
	return respond.Message(c, fiber.StatusOK, "신고가 처리되었습니다.")
}
