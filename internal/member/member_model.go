package member

import (
	"time"
)

// Member는 'members' 테이블의 스키마입니다.
type Member struct {
	ID          uint64     `json:"id" db:"id"`                       // bigint UNSIGNED
	Email       string     `json:"email" db:"email"`                 // varchar(150) UNIQUE
	Nickname    string     `json:"nickname" db:"nickname"`           // varchar(30) UNIQUE
	Password    string     `json:"-" db:"password"`                  // bcrypt hash
	Role        string     `json:"role" db:"role"`                   // 'USER' | 'ADMIN'
	Score       int        `json:"score" db:"score"`                 // 활동 점수
	AgreeYn     bool       `json:"agree_yn" db:"agree_yn"`           // 약관 동의
	OtpSecret   *string    `json:"-" db:"otp_secret"`                // 관리자 2단계 인증 키 (NULL)
	LastLoginAt *time.Time `json:"last_login_at" db:"last_login_at"` // datetime NULL
	DelYn       string     `json:"-" db:"del_yn"`                    // 'N' | 'Y'
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// OtpEnabled는 2단계 인증이 등록된 회원인지 확인합니다.
func (m *Member) OtpEnabled() bool {
	return m.OtpSecret != nil && *m.OtpSecret != ""
}
