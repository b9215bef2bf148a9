package kakaomap

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"tripmate/internal/respond"
)

// PlaceHandler는 장소 API 핸들러입니다.
type PlaceHandler struct {
	service *Service
}

// NewPlaceHandler는 새 핸들러를 생성합니다.
func NewPlaceHandler(service *Service) *PlaceHandler {
	return &PlaceHandler{service: service}
}

func paramID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: 유효하지 않은 장소 ID", respond.ErrBadRequest)
	}
	return id, nil
}

func queryFloat(c *fiber.Ctx, key string) (float64, error) {
	v, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s 값이 올바르지 않습니다", respond.ErrBadRequest, key)
	}
	return v, nil
}

// HandleList는 'GET /api/places?category=&keyword=' 요청을 처리합니다.
func (h *PlaceHandler) HandleList(c *fiber.Ctx) error {
	places, err := h.service.List(c.Query("category"), c.Query("keyword"))
	if err != nil {
		return respond.Error(c, err, "장소 목록을 불러오는 중 오류가 발생했습니다.")
	}
	return c.JSON(places)
}

// HandleNearby는 'GET /api/places/nearby?lat=&lng=&radius_km=' 요청을 처리합니다.
func (h *PlaceHandler) HandleNearby(c *fiber.Ctx) error {
	lat, err := queryFloat(c, "lat")
	if err != nil {
		return respond.Error(c, err, "")
	}
	lng, err := queryFloat(c, "lng")
	if err != nil {
		return respond.Error(c, err, "")
	}
	radius := 0.0
	if c.Query("radius_km") != "" {
		if radius, err = queryFloat(c, "radius_km"); err != nil {
			return respond.Error(c, err, "")
		}
	}

	places, err := h.service.Nearby(lat, lng, radius)
	if err != nil {
		return respond.Error(c, err, "주변 장소를 불러오는 중 오류가 발생했습니다.")
	}
	return c.JSON(places)
}

// HandleGet은 'GET /api/places/:id' 요청을 처리합니다.
func (h *PlaceHandler) HandleGet(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respond.Error(c, err, "")
	}
	p, err := h.service.Get(id)
	if err != nil {
		return respond.Error(c, err, "장소를 불러오는 중 오류가 발생했습니다.")
	}
	return c.JSON(p)
}

// HandleCreate는 'POST /api/admin/places' 요청을 처리합니다.
func (h *PlaceHandler) HandleCreate(c *fiber.Ctx) error {
	var req PlaceRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "입력 값이 올바르지 않습니다.")
	}
	id, err := h.service.Create(req)
	if err != nil {
		return respond.Error(c, err, "장소 등록 중 오류가 발생했습니다.")
	}
	log.Infof("장소 등록 (ID: %d, %s)", id, req.Name)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// HandleUpdate는 'PUT /api/admin/places/:id' 요청을 처리합니다.
func (h *PlaceHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respond.Error(c, err, "")
	}
	var req PlaceRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "입력 값이 올바르지 않습니다.")
	}
	if err := h.service.Update(id, req); err != nil {
		return respond.Error(c, err, "장소 수정 중 오류가 발생했습니다.")
	}
	return respond.Message(c, fiber.StatusOK, "장소가 수정되었습니다.")
}

// HandleDelete는 'DELETE /api/admin/places/:id' 요청을 처리합니다.
func (h *PlaceHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respond.Error(c, err, "")
	}
	if err := h.service.Delete(id); err != nil {
		return respond.Error(c, err, "장소 삭제 중 오류가 발생했습니다.")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
