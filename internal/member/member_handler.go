package member

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	log "github.com/sirupsen/logrus"

	"tripmate/internal/middleware"
	"tripmate/internal/respond"
	"tripmate/internal/token"
)

const sessionOtpSetupSecret = "otp_setup_secret"

// MemberHandler는 회원 관련 API 핸들러입니다.
type MemberHandler struct {
	service *Service
	store   *session.Store
	tokens  *token.Service
}

// NewMemberHandler는 새 핸들러를 생성합니다.
func NewMemberHandler(service *Service, store *session.Store, tokens *token.Service) *MemberHandler {
	return &MemberHandler{
		service: service,
		store:   store,
		tokens:  tokens,
	}
}

// HandleSignup은 'POST /api/members/signup' 요청을 처리합니다.
func (h *MemberHandler) HandleSignup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warnf("회원가입 요청 파싱 실패: %v", err)
		return respond.BadRequest(c, "입력 값이 올바르지 않습니다.")
	}

	id, err := h.service.Signup(req)
	if err != nil {
		return respond.Error(c, err, "회원가입 처리 중 오류가 발생했습니다.")
	}

	log.Infof("신규 회원 가입 (ID: %d)", id)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// HandleCheckEmail은 'GET /api/members/check-email?email=' 요청을 처리합니다.
func (h *MemberHandler) HandleCheckEmail(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return respond.BadRequest(c, "이메일을 입력하세요.")
	}
	available, err := h.service.IsEmailAvailable(email)
	if err != nil {
		return respond.Error(c, err, "이메일 중복 확인 중 오류가 발생했습니다.")
	}
	return c.JSON(fiber.Map{"available": available})
}

// HandleCheckNickname은 'GET /api/members/check-nickname?nickname=' 요청을 처리합니다.
func (h *MemberHandler) HandleCheckNickname(c *fiber.Ctx) error {
	nickname := c.Query("nickname")
	if nickname == "" {
		return respond.BadRequest(c, "닉네임을 입력하세요.")
	}
	available, err := h.service.IsNicknameAvailable(nickname)
	if err != nil {
		return respond.Error(c, err, "닉네임 중복 확인 중 오류가 발생했습니다.")
	}
	return c.JSON(fiber.Map{"available": available})
}

// HandleLogin은 'POST /api/members/login' 요청을 처리합니다.
// 세션을 저장하고, SPA용 액세스 토큰도 함께 반환합니다.
func (h *MemberHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "입력 값이 올바르지 않습니다.")
	}

	m, err := h.service.Login(req)
	if err != nil {
		return respond.Error(c, err, "로그인 처리 중 서버 오류가 발생했습니다.")
	}

	sess, err := h.store.Get(c)
	if err != nil {
		log.Errorf("세션 가져오기 실패: %v", err)
		return respond.Message(c, fiber.StatusInternalServerError, "세션 오류")
	}
	if err := sess.Regenerate(); err != nil {
		log.Errorf("세션 재발급 실패: %v", err)
	}
	sess.Set(middleware.LocalMemberID, m.ID)
	sess.Set(middleware.LocalMemberRole, m.Role)
	if err := sess.Save(); err != nil {
		log.Errorf("로그인 세션 저장 실패: %v", err)
		return respond.Message(c, fiber.StatusInternalServerError, "세션 저장 오류")
	}

	accessToken, err := h.tokens.Issue(m.ID, m.Role)
	if err != nil {
		log.Errorf("액세스 토큰 발급 실패: %v", err)
		return respond.Message(c, fiber.StatusInternalServerError, "토큰 발급 오류")
	}

	log.Infof("로그인 성공: %s", m.Email)
	return c.JSON(fiber.Map{
		"access_token": accessToken,
		"member":       m,
	})
}

// HandleLogout은 'POST /api/members/logout' 요청을 처리합니다.
func (h *MemberHandler) HandleLogout(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		log.Errorf("로그아웃: 세션 가져오기 실패: %v", err)
		return c.SendStatus(fiber.StatusNoContent)
	}
	if err := sess.Destroy(); err != nil {
		log.Errorf("로그아웃: 세션 파기 실패: %v", err)
		return respond.Message(c, fiber.StatusInternalServerError, "로그아웃 처리 중 오류 발생")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleMe는 'GET /api/members/me' 요청을 처리합니다.
func (h *MemberHandler) HandleMe(c *fiber.Ctx) error {
	m, err := h.service.GetMember(middleware.MemberID(c))
	if err != nil {
		return respond.Error(c, err, "회원 정보 조회 중 오류가 발생했습니다.")
	}
	return c.JSON(m)
}

// HandleUpdateMe는 'PUT /api/members/me' 요청을 처리합니다.
func (h *MemberHandler) HandleUpdateMe(c *fiber.Ctx) error {
	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "입력 값이 올바르지 않습니다.")
	}
	m, err := h.service.UpdateMe(middleware.MemberID(c), req)
	if err != nil {
		return respond.Error(c, err, "회원 정보 수정 중 오류가 발생했습니다.")
	}
	return c.JSON(m)
}

// HandleWithdraw는 'DELETE /api/members/me' 요청을 처리합니다.
func (h *MemberHandler) HandleWithdraw(c *fiber.Ctx) error {
	if err := h.service.Withdraw(middleware.MemberID(c)); err != nil {
		return respond.Error(c, err, "회원 탈퇴 처리 중 오류가 발생했습니다.")
	}
	if sess, err := h.store.Get(c); err == nil {
		sess.Destroy()
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSetupOTP는 'POST /api/members/me/otp/setup' 요청을 처리합니다.
func (h *MemberHandler) HandleSetupOTP(c *fiber.Ctx) error {
	secret, qr, err := h.service.GenerateOTP(middleware.MemberID(c))
	if err != nil {
		return respond.Error(c, err, "OTP 생성 실패")
	}

	sess, err := h.store.Get(c)
	if err != nil {
		return respond.Message(c, fiber.StatusInternalServerError, "세션 오류")
	}
	sess.Set(sessionOtpSetupSecret, secret)
	if err := sess.Save(); err != nil {
		log.Errorf("세션 저장 실패 (otp_setup_secret): %v", err)
		return respond.Message(c, fiber.StatusInternalServerError, "세션 저장 오류")
	}

	return c.JSON(fiber.Map{
		"secret":        secret,
		"qr_png_base64": qr,
	})
}

// HandleConfirmOTP는 'POST /api/members/me/otp/confirm' 요청을 처리합니다.
func (h *MemberHandler) HandleConfirmOTP(c *fiber.Ctx) error {
	type otpForm struct {
		OtpCode string `json:"otp_code"`
	}
	form := new(otpForm)
	if err := c.BodyParser(form); err != nil {
		return respond.BadRequest(c, "입력 값이 올바르지 않습니다.")
	}

	sess, err := h.store.Get(c)
	if err != nil {
		return respond.Message(c, fiber.StatusInternalServerError, "세션 오류")
	}
	secret, ok := sess.Get(sessionOtpSetupSecret).(string)
	if !ok || secret == "" {
		return respond.BadRequest(c, "OTP 등록 절차를 먼저 시작하세요.")
	}

	if err := h.service.FinalizeOTPSetup(middleware.MemberID(c), secret, form.OtpCode); err != nil {
		return respond.Error(c, err, "OTP 저장 중 오류 발생")
	}

	sess.Delete(sessionOtpSetupSecret)
	if err := sess.Save(); err != nil {
		log.Errorf("세션 저장 실패: %v", err)
	}
	return respond.Message(c, fiber.StatusOK, "2단계 인증이 등록되었습니다.")
}

// --- [관리자 기능] ---

// HandleAdminList는 'GET /api/admin/members' 요청을 처리합니다.
func (h *MemberHandler) HandleAdminList(c *fiber.Ctx) error {
	data, err := h.service.ListMembers(c.QueryInt("page", 1), c.QueryInt("size", 20))
	if err != nil {
		return respond.Error(c, err, "회원 목록 조회 중 오류 발생")
	}
	return c.JSON(data)
}

// HandleChangeRole은 'PUT /api/admin/members/:id/role' 요청을 처리합니다.
func (h *MemberHandler) HandleChangeRole(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return respond.BadRequest(c, "유효하지 않은 회원 ID입니다.")
	}
	type roleForm struct {
		Role string `json:"role"`
	}
	form := new(roleForm)
	if err := c.BodyParser(form); err != nil {
		return respond.BadRequest(c, "권한 변경 입력이 잘못되었습니다.")
	}

	if err := h.service.ChangeRole(middleware.MemberID(c), uint64(id), form.Role); err != nil {
		return respond.Error(c, err, "권한 변경 중 오류 발생")
	}
	log.Infof("회원(ID: %d) 권한 변경: %s", id, form.Role)
	return respond.Message(c, fiber.StatusOK, "권한이 변경되었습니다.")
}
