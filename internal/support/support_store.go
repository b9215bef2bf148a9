package support

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

const inquiryColumns = `
	i.id, i.member_id, COALESCE(m.nickname, '') AS nickname, i.title, i.content,
	i.status, i.reply, i.replied_at, i.created_at`

const reportColumns = `
	id, reporter_id, board_type, target_type, target_id, reason, status, admin_memo, processed_at, created_at`

// Store는 문의/신고 DB 로직을 관리합니다.
type Store struct {
	db *sqlx.DB
}

// NewStore는 새 Store를 생성합니다.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// --- 문의 ---

func (s *Store) CreateInquiry(q *Inquiry) (uint64, error) {
	result, err := s.db.NamedExec(`
		INSERT INTO inquiries (member_id, title, content, status)
		VALUES (:member_id, :title, :content, 'WAITING')`, q)
	if err != nil {
		log.Errorf("CreateInquiry DB 에러: %v", err)
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetInquiry는 ID로 문의를 조회합니다. (없으면 nil, nil)
func (s *Store) GetInquiry(id uint64) (*Inquiry, error) {
	var q Inquiry
	query := `SELECT` + inquiryColumns + ` FROM inquiries AS i LEFT JOIN members AS m ON i.member_id = m.id WHERE i.id = ?`
	if err := s.db.Get(&q, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Errorf("GetInquiry DB 에러: %v", err)
		return nil, err
	}
	return &q, nil
}

// ListInquiries는 문의 목록입니다. memberID가 0이 아니면 본인 문의만, status가 비어 있지 않으면 해당 상태만.
func (s *Store) ListInquiries(memberID uint64, status string, offset, limit int) ([]Inquiry, int, error) {
	where := " WHERE 1 = 1"
	var args []interface{}
	if memberID > 0 {
		where += " AND i.member_id = ?"
		args = append(args, memberID)
	}
	if status != "" {
		where += " AND i.status = ?"
		args = append(args, status)
	}
	from := " FROM inquiries AS i LEFT JOIN members AS m ON i.member_id = m.id"

	var total int
	if err := s.db.Get(&total, "SELECT COUNT(*)"+from+where, args...); err != nil {
		log.Errorf("ListInquiries COUNT DB 에러: %v", err)
		return nil, 0, err
	}

	list := []Inquiry{}
	query := "SELECT" + inquiryColumns + from + where + " ORDER BY i.id DESC LIMIT ?, ?"
	if err := s.db.Select(&list, query, append(args, offset, limit)...); err != nil {
		log.Errorf("ListInquiries DB 에러: %v", err)
		return nil, 0, err
	}
	return list, total, nil
}

// ReplyInquiry는 대기 중인 문의에만 답변을 저장합니다. 반영된 행이 없으면 false.
func (s *Store) ReplyInquiry(id uint64, reply string, at time.Time) (bool, error) {
	result, err := s.db.Exec(`
		UPDATE inquiries SET reply = ?, replied_at = ?, status = 'ANSWERED'
		WHERE id = ? AND status = 'WAITING'`, reply, at, id)
	if err != nil {
		log.Errorf("ReplyInquiry DB 에러: %v", err)
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

func (s *Store) CountInquiries(status string) (int, error) {
	var count int
	if err := s.db.Get(&count, "SELECT COUNT(*) FROM inquiries WHERE status = ?", status); err != nil {
		log.Errorf("CountInquiries DB 에러: %v", err)
		return 0, err
	}
	return count, nil
}

// --- 신고 ---

// CountReportsBy는 같은 회원의 같은 대상 신고 수입니다. (중복 확인)
func (s *Store) CountReportsBy(reporterID uint64, boardType, targetType string, targetID uint64) (int, error) {
	var count int
	err := s.db.Get(&count, `
		SELECT COUNT(*) FROM reports
		WHERE reporter_id = ? AND board_type = ? AND target_type = ? AND target_id = ?`,
		reporterID, boardType, targetType, targetID)
	if err != nil {
		log.Errorf("CountReportsBy DB 에러: %v", err)
		return 0, err
	}
	return count, nil
}

func (s *Store) CreateReport(r *Report) (uint64, error) {
	result, err := s.db.NamedExec(`
		INSERT INTO reports (reporter_id, board_type, target_type, target_id, reason, status)
		VALUES (:reporter_id, :board_type, :target_type, :target_id, :reason, 'WAITING')`, r)
	if err != nil {
		log.Errorf("CreateReport DB 에러: %v", err)
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetReport는 ID로 신고를 조회합니다. (없으면 nil, nil)
func (s *Store) GetReport(id uint64) (*Report, error) {
	var r Report
	if err := s.db.Get(&r, "SELECT"+reportColumns+" FROM reports WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Errorf("GetReport DB 에러: %v", err)
		return nil, err
	}
	return &r, nil
}

func (s *Store) ListReports(status string, offset, limit int) ([]Report, int, error) {
	where := ""
	var args []interface{}
	if status != "" {
		where = " WHERE status = ?"
		args = append(args, status)
	}

	var total int
	if err := s.db.Get(&total, "SELECT COUNT(*) FROM reports"+where, args...); err != nil {
		log.Errorf("ListReports COUNT DB 에러: %v", err)
		return nil, 0, err
	}

	list := []Report{}
	query := "SELECT" + reportColumns + " FROM reports" + where + " ORDER BY id DESC LIMIT ?, ?"
	if err := s.db.Select(&list, query, append(args, offset, limit)...); err != nil {
		log.Errorf("ListReports DB 에러: %v", err)
		return nil, 0, err
	}
	return list, total, nil
}

// ProcessReport는 대기 중인 신고만 처리 상태로 바꿉니다. 반영된 행이 없으면 false.
func (s *Store) ProcessReport(id uint64, status, memo string, at time.Time) (bool, error) {
	result, err := s.db.Exec(`
		UPDATE reports SET status = ?, admin_memo = ?, processed_at = ?
		WHERE id = ? AND status = 'WAITING'`, status, memo, at, id)
	if err != nil {
		log.Errorf("ProcessReport DB 에러: %v", err)
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

func (s *Store) CountReports(status string) (int, error) {
	var count int
	if err := s.db.Get(&count, "SELECT COUNT(*) FROM reports WHERE status = ?", status); err != nil {
		log.Errorf("CountReports DB 에러: %v", err)
		return 0, err
	}
	return count, nil
}
