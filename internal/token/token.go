package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("유효하지 않은 토큰")

// Claims는 액세스 토큰에 담기는 회원 정보입니다.
type Claims struct {
	MemberID uint64 `json:"member_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Service는 HS256 액세스 토큰을 발급/검증합니다.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue는 회원 ID와 권한으로 액세스 토큰을 생성합니다.
func (s *Service) Issue(memberID uint64, role string) (string, error) {
	now := s.now()
	claims := Claims{
		MemberID: memberID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", memberID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse는 토큰 서명/만료를 검증하고 Claims를 반환합니다.
func (s *Service) Parse(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("지원하지 않는 서명 방식: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.MemberID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
