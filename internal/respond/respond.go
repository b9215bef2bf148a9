package respond

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// 서비스 계층이 반환하는 공통 에러. 핸들러는 errors.Is로 HTTP 상태를 결정합니다.
var (
	ErrBadRequest   = errors.New("잘못된 요청입니다")
	ErrUnauthorized = errors.New("인증이 필요합니다")
	ErrForbidden    = errors.New("권한이 없습니다")
	ErrNotFound     = errors.New("대상을 찾을 수 없습니다")
	ErrConflict     = errors.New("이미 처리된 요청입니다")
)

var validate = validator.New()

// Validate는 요청 구조체의 `validate` 태그를 검사합니다.
func Validate(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			fields := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				fields = append(fields, fe.Field())
			}
			return fmt.Errorf("%w: 입력 값 확인 필요 (%s)", ErrBadRequest, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

// Error는 서비스 에러를 상태 코드와 {"message"} 본문으로 변환합니다.
// 분류되지 않은 에러는 500과 fallback 메시지로 응답합니다.
func Error(c *fiber.Ctx, err error, fallback string) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrBadRequest):
		status = fiber.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		status = fiber.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrConflict):
		status = fiber.StatusConflict
	}

	if status == fiber.StatusInternalServerError {
		log.Errorf("%s (%s %s): %v", fallback, c.Method(), c.Path(), err)
		return c.Status(status).JSON(fiber.Map{"message": fallback})
	}

	log.Warnf("요청 거부 (%s %s): %v", c.Method(), c.Path(), err)
	return c.Status(status).JSON(fiber.Map{"message": err.Error()})
}

// BadRequest는 파싱 실패 등 핸들러 단계의 400 응답입니다.
func BadRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": msg})
}

// Message는 본문이 메시지뿐인 성공 응답입니다.
func Message(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

// Page는 목록 응답 형식입니다.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
}

// NormalizePage는 page(1부터)와 size(기본 10, 최대 50)를 보정하고 OFFSET을 반환합니다.
func NormalizePage(page, size int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	if size > 50 {
		size = 50
	}
	return page, size, (page - 1) * size
}
