package dashboard

import (
	"github.com/gofiber/fiber/v2"

	"tripmate/internal/respond"
)

// DashboardHandler는 관리자 대시보드 핸들러입니다.
type DashboardHandler struct {
	service *Service
}

// NewDashboardHandler는 새 핸들러를 생성합니다.
func NewDashboardHandler(service *Service) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// HandleShowDashboard는 'GET /api/admin/dashboard' 요청을 처리합니다.
func (h *DashboardHandler) HandleShowDashboard(c *fiber.Ctx) error {
	data, err := h.service.GetDashboardData()
	if err != nil {
		return respond.Error(c, err, "대시보드 데이터 조회 중 오류가 발생했습니다.")
	}
	return c.JSON(data)
}
