package comment

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

const commentColumns = `
	c.id, c.board_type, c.post_id, c.member_id, COALESCE(m.nickname, '') AS nickname,
	c.parent_id, c.content, c.del_yn, c.created_at, c.updated_at`

// Store는 댓글 관련 DB 로직을 관리합니다.
type Store struct {
	db *sqlx.DB
}

// NewStore는 새 Store를 생성합니다.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// ListByPost는 게시글의 전체 댓글을 작성순으로 조회합니다. (삭제 댓글 포함)
func (s *Store) ListByPost(boardType string, postID uint64) ([]Comment, error) {
	comments := []Comment{}
	query := `SELECT` + commentColumns + `
		FROM comments AS c
		LEFT JOIN members AS m ON c.member_id = m.id
		WHERE c.board_type = ? AND c.post_id = ?
		ORDER BY c.id ASC`
	if err := s.db.Select(&comments, query, boardType, postID); err != nil {
		log.Errorf("ListByPost DB 에러: %v", err)
		return nil, err
	}
	return comments, nil
}

// GetComment는 ID로 댓글 1개를 조회합니다. (없으면 nil, nil)
func (s *Store) GetComment(id uint64) (*Comment, error) {
	var cm Comment
	query := `SELECT` + commentColumns + `
		FROM comments AS c
		LEFT JOIN members AS m ON c.member_id = m.id
		WHERE c.id = ?`
	if err := s.db.Get(&cm, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Errorf("GetComment DB 에러: %v", err)
		return nil, err
	}
	return &cm, nil
}

// CreateComment는 새 댓글을 INSERT하고 ID를 반환합니다.
func (s *Store) CreateComment(cm *Comment) (uint64, error) {
	query := `
		INSERT INTO comments (board_type, post_id, member_id, parent_id, content, del_yn)
		VALUES (:board_type, :post_id, :member_id, :parent_id, :content, 'N')`
	result, err := s.db.NamedExec(query, cm)
	if err != nil {
		log.Errorf("CreateComment DB 에러: %v", err)
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// UpdateContent는 댓글 본문을 수정합니다.
func (s *Store) UpdateContent(id uint64, content string) error {
	if _, err := s.db.Exec("UPDATE comments SET content = ? WHERE id = ? AND del_yn = 'N'", content, id); err != nil {
		log.Errorf("UpdateContent DB 에러: %v", err)
		return err
	}
	return nil
}

// SoftDeleteComment는 댓글을 삭제 처리합니다. (del_yn = 'Y')
func (s *Store) SoftDeleteComment(id uint64) error {
	if _, err := s.db.Exec("UPDATE comments SET del_yn = 'Y' WHERE id = ?", id); err != nil {
		log.Errorf("SoftDeleteComment DB 에러: %v", err)
		return err
	}
	return nil
}

// CountLiveComments는 삭제되지 않은 전체 댓글 수입니다.
func (s *Store) CountLiveComments() (int, error) {
	var count int
	if err := s.db.Get(&count, "SELECT COUNT(*) FROM comments WHERE del_yn = 'N'"); err != nil {
		log.Errorf("CountLiveComments DB 에러: %v", err)
		return 0, err
	}
	return count, nil
}
