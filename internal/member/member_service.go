package member

import (
	"bytes"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"tripmate/internal/database"
	"tripmate/internal/respond"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"

	otpIssuer = "Tripmate"
)

var errBadCredentials = fmt.Errorf("%w: 이메일 또는 비밀번호가 올바르지 않습니다", respond.ErrUnauthorized)

// Service는 'member' 기능의 비즈니스 로직을 담당합니다.
type Service struct {
	store *Store
	now   func() time.Time
}

// NewService는 Store를 받아 새 Service를 생성합니다.
func NewService(store *Store) *Service {
	return &Service{store: store, now: time.Now}
}

// SignupRequest는 회원가입 요청입니다.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email,max=150"`
	Nickname string `json:"nickname" validate:"required,min=2,max=30"`
	Password string `json:"password" validate:"required,min=8,max=64"`
	Agree    bool   `json:"agree"`
}

// Signup은 신규 회원 가입을 처리하고 회원 ID를 반환합니다.
func (s *Service) Signup(req SignupRequest) (uint64, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Nickname = strings.TrimSpace(req.Nickname)
	if err := respond.Validate(req); err != nil {
		return 0, err
	}
	if !req.Agree {
		return 0, fmt.Errorf("%w: 이용약관에 동의해야 가입할 수 있습니다", respond.ErrBadRequest)
	}

	// 1. 중복 확인 (UNIQUE 제약이 최종 방어선)
	if count, err := s.store.CountByEmail(req.Email); err != nil {
		return 0, err
	} else if count > 0 {
		return 0, fmt.Errorf("%w: 이미 사용 중인 이메일입니다", respond.ErrConflict)
	}
	if count, err := s.store.CountByNickname(req.Nickname); err != nil {
		return 0, err
	} else if count > 0 {
		return 0, fmt.Errorf("%w: 이미 사용 중인 닉네임입니다", respond.ErrConflict)
	}

	// 2. 비밀번호 해시
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("비밀번호 해시 생성 실패: %w", err)
	}

	// 3. 저장
	id, err := s.store.CreateMember(&Member{
		Email:    req.Email,
		Nickname: req.Nickname,
		Password: string(hash),
		Role:     RoleUser,
		AgreeYn:  true,
	})
	if err != nil {
		if database.IsDuplicate(err) {
			return 0, fmt.Errorf("%w: 이미 가입된 이메일 또는 닉네임입니다", respond.ErrConflict)
		}
		return 0, err
	}
	return id, nil
}

// IsEmailAvailable / IsNicknameAvailable은 가입 폼의 중복 확인입니다.
func (s *Service) IsEmailAvailable(email string) (bool, error) {
	count, err := s.store.CountByEmail(strings.TrimSpace(strings.ToLower(email)))
	return count == 0, err
}

func (s *Service) IsNicknameAvailable(nickname string) (bool, error) {
	count, err := s.store.CountByNickname(strings.TrimSpace(nickname))
	return count == 0, err
}

// LoginRequest는 로그인 요청입니다. (OtpCode는 2단계 인증을 등록한 관리자만)
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	OtpCode  string `json:"otp_code"`
}

// Login은 자격 증명을 확인하고 회원 정보를 반환합니다.
func (s *Service) Login(req LoginRequest) (*Member, error) {
	if err := respond.Validate(req); err != nil {
		return nil, err
	}

	// 1. 이메일로 회원 조회
	m, err := s.store.GetMemberByEmail(strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		return nil, err
	}
	if m == nil || m.DelYn == "Y" {
		log.Infof("로그인 실패: 존재하지 않거나 탈퇴한 회원 (%s)", req.Email)
		return nil, errBadCredentials
	}

	// 2. 비밀번호 확인
	if err := bcrypt.CompareHashAndPassword([]byte(m.Password), []byte(req.Password)); err != nil {
		log.Infof("로그인 실패: 비밀번호 불일치 (%s)", req.Email)
		return nil, errBadCredentials
	}

	// 3. 관리자 2단계 인증
	if m.Role == RoleAdmin && m.OtpEnabled() {
		if req.OtpCode == "" {
			return nil, fmt.Errorf("%w: OTP 인증이 필요합니다.", respond.ErrUnauthorized)
		}
		if !s.ValidateOTP(req.OtpCode, *m.OtpSecret) {
			return nil, fmt.Errorf("%w: 인증 코드가 올바르지 않습니다.", respond.ErrUnauthorized)
		}
	}

	// 4. 마지막 로그인 기록 (실패해도 로그인은 진행)
	now := s.now()
	if err := s.store.UpdateLastLogin(m.ID, now); err == nil {
		m.LastLoginAt = &now
	}
	return m, nil
}

// GetMember는 회원 1명을 조회합니다. (탈퇴 회원은 NotFound)
func (s *Service) GetMember(id uint64) (*Member, error) {
	m, err := s.store.GetMemberByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil || m.DelYn == "Y" {
		return nil, fmt.Errorf("회원(ID: %d): %w", id, respond.ErrNotFound)
	}
	return m, nil
}

// UpdateRequest는 내 정보 수정 요청입니다. (빈 값은 변경하지 않음)
type UpdateRequest struct {
	Nickname string `json:"nickname" validate:"omitempty,min=2,max=30"`
	Password string `json:"password" validate:"omitempty,min=8,max=64"`
}

// UpdateMe는 닉네임/비밀번호를 수정합니다.
func (s *Service) UpdateMe(id uint64, req UpdateRequest) (*Member, error) {
	req.Nickname = strings.TrimSpace(req.Nickname)
	if err := respond.Validate(req); err != nil {
		return nil, err
	}

	m, err := s.GetMember(id)
	if err != nil {
		return nil, err
	}

	if req.Nickname != "" && req.Nickname != m.Nickname {
		count, err := s.store.CountByNickname(req.Nickname)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, fmt.Errorf("%w: 이미 사용 중인 닉네임입니다", respond.ErrConflict)
		}
		m.Nickname = req.Nickname
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("비밀번호 해시 생성 실패: %w", err)
		}
		m.Password = string(hash)
	}

	if err := s.store.UpdateProfile(m); err != nil {
		if database.IsDuplicate(err) {
			return nil, fmt.Errorf("%w: 이미 사용 중인 닉네임입니다", respond.ErrConflict)
		}
		return nil, err
	}
	return m, nil
}

// Withdraw는 회원 탈퇴(소프트 삭제)를 처리합니다.
func (s *Service) Withdraw(id uint64) error {
	err := s.store.SoftDeleteMember(id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("회원(ID: %d): %w", id, respond.ErrNotFound)
	}
	return err
}

// AddScore는 다른 기능(게시글/댓글)이 호출하는 활동 점수 적립입니다.
func (s *Service) AddScore(memberID uint64, delta int) error {
	return s.store.AddScore(memberID, delta)
}

// GenerateOTP는 관리자용 (1)Base32 비밀 키, (2)Base64 QR 이미지를 생성합니다.
func (s *Service) GenerateOTP(id uint64) (string, string, error) {
	m, err := s.GetMember(id)
	if err != nil {
		return "", "", err
	}
	if m.Role != RoleAdmin {
		return "", "", fmt.Errorf("%w: 2단계 인증은 관리자만 등록할 수 있습니다", respond.ErrForbidden)
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      otpIssuer,
		AccountName: m.Email,
	})
	if err != nil {
		log.Errorf("TOTP Key 생성 실패: %v", err)
		return "", "", err
	}

	var buf bytes.Buffer
	img, err := key.Image(200, 200)
	if err != nil {
		log.Errorf("TOTP QR 이미지 생성 실패: %v", err)
		return "", "", err
	}
	if err := png.Encode(&buf, img); err != nil {
		return "", "", err
	}
	return key.Secret(), base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// ValidateOTP는 앞뒤 1주기(30초)의 시간 오차를 허용하여 코드를 검증합니다.
func (s *Service) ValidateOTP(passcode string, secretKey string) bool {
	valid, err := totp.ValidateCustom(passcode, secretKey, s.now(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		log.Warnf("OTP 검증 중 에러: %v", err)
		return false
	}
	return valid
}

// FinalizeOTPSetup은 코드를 검증한 뒤 비밀 키를 영구 저장합니다.
func (s *Service) FinalizeOTPSetup(id uint64, secretKey, passcode string) error {
	if !s.ValidateOTP(passcode, secretKey) {
		return fmt.Errorf("%w: 인증 코드가 올바르지 않습니다", respond.ErrBadRequest)
	}
	return s.store.UpdateOTPSecret(id, secretKey)
}

// ListMembers는 관리자 회원 목록을 페이지 단위로 조회합니다.
func (s *Service) ListMembers(page, size int) (*respond.Page[Member], error) {
	page, size, offset := respond.NormalizePage(page, size)
	members, err := s.store.ListMembers(offset, size)
	if err != nil {
		return nil, err
	}
	total, err := s.store.CountMembers()
	if err != nil {
		return nil, err
	}
	return &respond.Page[Member]{Items: members, Total: total, Page: page, Size: size}, nil
}

// ChangeRole은 관리자가 다른 회원의 권한을 변경합니다.
func (s *Service) ChangeRole(adminID, targetID uint64, newRole string) error {
	if newRole != RoleAdmin && newRole != RoleUser {
		return fmt.Errorf("%w: 유효하지 않은 권한입니다: %s", respond.ErrBadRequest, newRole)
	}
	if adminID == targetID {
		return fmt.Errorf("%w: 자기 자신의 권한은 변경할 수 없습니다", respond.ErrForbidden)
	}

	target, err := s.GetMember(targetID)
	if err != nil {
		return err
	}
	if target.Role == newRole {
		return nil
	}

	err = s.store.UpdateRole(targetID, newRole)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("회원(ID: %d): %w", targetID, respond.ErrNotFound)
	}
	return err
}
