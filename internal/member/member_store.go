package member

import (
	"database/sql"
	"errors"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

const memberColumns = `
	id, email, nickname, password, role, score, agree_yn,
	otp_secret, last_login_at, del_yn, created_at, updated_at`

// Store는 'member' 기능의 DB 로직을 관리합니다.
type Store struct {
	db *sqlx.DB
}

// NewStore는 새 Store를 생성합니다.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// CreateMember는 신규 회원을 INSERT하고 생성된 ID를 반환합니다.
func (s *Store) CreateMember(m *Member) (uint64, error) {
	query := `
		INSERT INTO members (
			email, nickname, password, role, score, agree_yn, del_yn
		) VALUES (
			:email, :nickname, :password, :role, :score, :agree_yn, 'N'
		)`
	result, err := s.db.NamedExec(query, m)
	if err != nil {
		log.Errorf("CreateMember DB 에러: %v", err)
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	log.Infof("신규 회원 DB 저장 성공: %s", m.Email)
	return uint64(id), nil
}

// GetMemberByEmail은 이메일로 회원을 조회합니다. (없으면 nil, nil)
func (s *Store) GetMemberByEmail(email string) (*Member, error) {
	var m Member
	err := s.db.Get(&m, "SELECT "+memberColumns+" FROM members WHERE email = ?", email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Errorf("GetMemberByEmail DB 에러: %v", err)
		return nil, err
	}
	return &m, nil
}

// GetMemberByID는 ID로 회원을 조회합니다. (없으면 nil, nil)
func (s *Store) GetMemberByID(id uint64) (*Member, error) {
	var m Member
	err := s.db.Get(&m, "SELECT "+memberColumns+" FROM members WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Errorf("GetMemberByID DB 에러: %v", err)
		return nil, err
	}
	return &m, nil
}

// CountByEmail / CountByNickname은 중복 확인용입니다. (탈퇴 회원 포함)
func (s *Store) CountByEmail(email string) (int, error) {
	var count int
	err := s.db.Get(&count, "SELECT COUNT(*) FROM members WHERE email = ?", email)
	if err != nil {
		log.Errorf("CountByEmail DB 에러: %v", err)
	}
	return count, err
}

func (s *Store) CountByNickname(nickname string) (int, error) {
	var count int
	err := s.db.Get(&count, "SELECT COUNT(*) FROM members WHERE nickname = ?", nickname)
	if err != nil {
		log.Errorf("CountByNickname DB 에러: %v", err)
	}
	return count, err
}

// UpdateProfile은 닉네임과 비밀번호 해시를 수정합니다.
func (s *Store) UpdateProfile(m *Member) error {
	query := `
		UPDATE members
		SET nickname = :nickname, password = :password
		WHERE id = :id AND del_yn = 'N'`
	_, err := s.db.NamedExec(query, m)
	if err != nil {
		log.Errorf("UpdateProfile DB 에러: %v", err)
	}
	return err
}

// SoftDeleteMember는 회원을 탈퇴 처리합니다. (del_yn = 'Y')
func (s *Store) SoftDeleteMember(id uint64) error {
	result, err := s.db.Exec("UPDATE members SET del_yn = 'Y' WHERE id = ? AND del_yn = 'N'", id)
	if err != nil {
		log.Errorf("SoftDeleteMember DB 에러: %v", err)
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateLastLogin은 마지막 로그인 시각을 기록합니다.
func (s *Store) UpdateLastLogin(id uint64, at time.Time) error {
	_, err := s.db.Exec("UPDATE members SET last_login_at = ? WHERE id = ?", at, id)
	if err != nil {
		log.Errorf("UpdateLastLogin DB 에러: %v", err)
	}
	return err
}

// UpdateOTPSecret은 관리자 2단계 인증 키를 저장합니다.
func (s *Store) UpdateOTPSecret(id uint64, secret string) error {
	_, err := s.db.Exec("UPDATE members SET otp_secret = ? WHERE id = ?", secret, id)
	if err != nil {
		log.Errorf("UpdateOTPSecret DB 에러: %v", err)
	}
	return err
}

// AddScore는 활동 점수를 DB에서 직접 증가시킵니다.
func (s *Store) AddScore(id uint64, delta int) error {
	_, err := s.db.Exec("UPDATE members SET score = score + ? WHERE id = ?", delta, id)
	if err != nil {
		log.Errorf("AddScore DB 에러 (ID: %d): %v", id, err)
	}
	return err
}

// ListMembers는 관리자 회원 목록입니다. (탈퇴 회원 제외, 최신 가입순)
func (s *Store) ListMembers(offset, limit int) ([]Member, error) {
	members := []Member{}
	query := "SELECT " + memberColumns + " FROM members WHERE del_yn = 'N' ORDER BY id DESC LIMIT ?, ?"
	if err := s.db.Select(&members, query, offset, limit); err != nil {
		log.Errorf("ListMembers DB 에러: %v", err)
		return nil, err
	}
	return members, nil
}

// CountMembers는 탈퇴하지 않은 회원 수입니다.
func (s *Store) CountMembers() (int, error) {
	var count int
	err := s.db.Get(&count, "SELECT COUNT(*) FROM members WHERE del_yn = 'N'")
	if err != nil {
		log.Errorf("CountMembers DB 에러: %v", err)
	}
	return count, err
}

// UpdateRole은 회원 권한('ADMIN' 또는 'USER')을 변경합니다.
func (s *Store) UpdateRole(id uint64, role string) error {
	result, err := s.db.Exec("UPDATE members SET role = ? WHERE id = ?", role, id)
	if err != nil {
		log.Errorf("UpdateRole DB 에러: %v", err)
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ActiveRole은 인증 미들웨어가 매 요청마다 확인하는 현재 권한입니다.
// 없거나 탈퇴한 회원이면 active=false를 반환합니다.
func (s *Store) ActiveRole(id uint64) (string, bool, error) {
	m, err := s.GetMemberByID(id)
	if err != nil || m == nil || m.DelYn == "Y" {
		return "", false, err
	}
	return m.Role, true, nil
}
