package ranking

import (
	"github.com/gofiber/fiber/v2"

	"tripmate/internal/respond"
)

// RankingHandler는 관광지 순위 API 핸들러입니다.
type RankingHandler struct {
	service *Service
}

// NewRankingHandler는 새 핸들러를 생성합니다.
func NewRankingHandler(service *Service) *RankingHandler {
	return &RankingHandler{service: service}
}

// HandleList는 'GET /api/rankings' 요청을 처리합니다.
func (h *RankingHandler) HandleList(c *fiber.Ctx) error {
	rankings, err := h.service.List()
	if err != nil {
		return respond.Error(c, err, "순위를 불러오는 중 오류가 발생했습니다.")
	}
	return c.JSON(rankings)
}

// HandleRefresh는 'POST /api/admin/rankings/refresh' 요청을 처리합니다.
func (h *RankingHandler) HandleRefresh(c *fiber.Ctx) error {
	result, err := h.service.Refresh(c.UserContext())
	if err != nil {
		return respond.Error(c, err, "순위 갱신 중 오류가 발생했습니다.")
	}
	return c.JSON(result)
}
