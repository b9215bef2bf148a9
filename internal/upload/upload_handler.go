package upload

import (
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"tripmate/internal/middleware"
	"tripmate/internal/respond"
)

// UploadHandler는 이미지 업로드 API 핸들러입니다.
type UploadHandler struct {
	service *Service
}

// NewUploadHandler는 새 핸들러를 생성합니다.
func NewUploadHandler(service *Service) *UploadHandler {
	return &UploadHandler{service: service}
}

// HandleUpload는 'POST /api/uploads' (multipart 'files') 요청을 처리합니다.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		log.Warnf("업로드 폼 파싱 실패: %v", err)
		return respond.BadRequest(c, "multipart/form-data 요청이 필요합니다.")
	}

	names, err := h.service.Upload(c.UserContext(), form.File["files"])
	if err != nil {
		return respond.Error(c, err, "이미지 업로드 중 오류가 발생했습니다.")
	}

	log.Infof("이미지 %d개 업로드 (회원: %d)", len(names), middleware.MemberID(c))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"filenames": names})
}

// HandleRedirect는 'GET /pic/:name' 요청을 프리사인 URL로 보냅니다. (MinIO 저장소)
func (h *UploadHandler) HandleRedirect(c *fiber.Ctx) error {
	url, err := h.service.URL(c.UserContext(), c.Params("name"))
	if err != nil {
		return respond.Error(c, err, "이미지 주소 발급 중 오류가 발생했습니다.")
	}
	if url == "" {
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.Redirect(url, fiber.StatusFound)
}
