package board

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"

	"tripmate/internal/database"
)

const postColumns = `
	p.id, p.title, p.content, p.member_id, COALESCE(m.nickname, '') AS nickname,
	p.category, p.region, p.rating, p.start_de, p.end_de, p.images,
	p.view_count, p.like_count, p.report_count, p.del_yn, p.created_at, p.updated_at`

// 목록에서는 본문을 200자까지만 내려줍니다.
const postListColumns = `
	p.id, p.title, LEFT(p.content, 200) AS content, p.member_id, COALESCE(m.nickname, '') AS nickname,
	p.category, p.region, p.rating, p.start_de, p.end_de, p.images,
	p.view_count, p.like_count, p.report_count, p.del_yn, p.created_at, p.updated_at`

// Store는 게시판 공통 DB 로직을 관리합니다. 테이블 이름은 Kind에서만 가져옵니다.
type Store struct {
	db *sqlx.DB
}

// NewStore는 새 Store를 생성합니다.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// buildListFilter는 WHERE 절과 인자를 조립합니다.
func buildListFilter(q ListQuery) (string, []interface{}) {
	where := []string{"p.del_yn = 'N'"}
	var args []interface{}

	if kw := strings.TrimSpace(q.Keyword); kw != "" {
		like := database.ContainsPattern(kw)
		switch q.Field {
		case "title":
			where = append(where, "p.title LIKE ?")
			args = append(args, like)
		case "content":
			where = append(where, "p.content LIKE ?")
			args = append(args, like)
		case "writer":
			where = append(where, "m.nickname LIKE ?")
			args = append(args, like)
		default:
			where = append(where, "(p.title LIKE ? OR p.content LIKE ?)")
			args = append(args, like, like)
		}
	}
	if q.Category != "" {
		where = append(where, "p.category = ?")
		args = append(args, q.Category)
	}
	switch q.Status {
	case "ongoing":
		where = append(where, "p.end_de >= CURDATE()")
	case "ended":
		where = append(where, "p.end_de < CURDATE()")
	}
	if q.MemberID > 0 {
		where = append(where, "p.member_id = ?")
		args = append(args, q.MemberID)
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

func orderBy(sort string) string {
	switch sort {
	case "views":
		return " ORDER BY p.view_count DESC, p.id DESC"
	case "likes":
		return " ORDER BY p.like_count DESC, p.id DESC"
	default:
		return " ORDER BY p.id DESC"
	}
}

// ListPosts는 조건에 맞는 게시글 목록과 전체 개수를 반환합니다.
func (s *Store) ListPosts(k Kind, q ListQuery, offset, limit int) ([]Post, int, error) {
	where, args := buildListFilter(q)
	from := fmt.Sprintf(" FROM %s AS p LEFT JOIN members AS m ON p.member_id = m.id", k.Table)

	var total int
	if err := s.db.Get(&total, "SELECT COUNT(*)"+from+where, args...); err != nil {
		log.Errorf("ListPosts(%s) COUNT DB 에러: %v", k.Name, err)
		return nil, 0, err
	}

	posts := []Post{}
	query := "SELECT" + postListColumns + from + where + orderBy(q.Sort) + " LIMIT ?, ?"
	if err := s.db.Select(&posts, query, append(args, offset, limit)...); err != nil {
		log.Errorf("ListPosts(%s) DB 에러: %v", k.Name, err)
		return nil, 0, err
	}
	return posts, total, nil
}

// GetPost는 ID로 게시글 1개를 조회합니다. (삭제 글 포함, 없으면 nil, nil)
func (s *Store) GetPost(k Kind, id uint64) (*Post, error) {
	var p Post
	query := fmt.Sprintf("SELECT %s FROM %s AS p LEFT JOIN members AS m ON p.member_id = m.id WHERE p.id = ?", postColumns, k.Table)
	if err := s.db.Get(&p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Errorf("GetPost(%s) DB 에러: %v", k.Name, err)
		return nil, err
	}
	return &p, nil
}

// CreatePost는 새 게시글을 INSERT하고 ID를 반환합니다.
func (s *Store) CreatePost(k Kind, p *Post) (uint64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			title, content, member_id, category, region, rating,
			start_de, end_de, images, view_count, like_count, report_count, del_yn
		) VALUES (
			:title, :content, :member_id, :category, :region, :rating,
			:start_de, :end_de, :images, 0, 0, 0, 'N'
		)`, k.Table)
	result, err := s.db.NamedExec(query, p)
	if err != nil {
		log.Errorf("CreatePost(%s) DB 에러: %v", k.Name, err)
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// UpdatePost는 게시글 내용을 수정합니다.
func (s *Store) UpdatePost(k Kind, p *Post) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET
			title = :title,
			content = :content,
			category = :category,
			region = :region,
			rating = :rating,
			start_de = :start_de,
			end_de = :end_de,
			images = :images
		WHERE id = :id AND del_yn = 'N'`, k.Table)
	if _, err := s.db.NamedExec(query, p); err != nil {
		log.Errorf("UpdatePost(%s) DB 에러: %v", k.Name, err)
		return err
	}
	return nil
}

// SoftDeletePost는 게시글을 삭제 처리합니다. (del_yn = 'Y')
func (s *Store) SoftDeletePost(k Kind, id uint64) error {
	query := fmt.Sprintf("UPDATE %s SET del_yn = 'Y' WHERE id = ?", k.Table)
	if _, err := s.db.Exec(query, id); err != nil {
		log.Errorf("SoftDeletePost(%s) DB 에러: %v", k.Name, err)
		return err
	}
	return nil
}

// IncreaseViewCount는 조회수를 DB에서 1 증가시킵니다.
func (s *Store) IncreaseViewCount(k Kind, id uint64) error {
	query := fmt.Sprintf("UPDATE %s SET view_count = view_count + 1 WHERE id = ?", k.Table)
	if _, err := s.db.Exec(query, id); err != nil {
		log.Errorf("IncreaseViewCount(%s) DB 에러: %v", k.Name, err)
		return err
	}
	return nil
}

// IncreaseReportCount는 신고 수를 DB에서 1 증가시킵니다.
func (s *Store) IncreaseReportCount(k Kind, id uint64) error {
	query := fmt.Sprintf("UPDATE %s SET report_count = report_count + 1 WHERE id = ?", k.Table)
	if _, err := s.db.Exec(query, id); err != nil {
		log.Errorf("IncreaseReportCount(%s) DB 에러: %v", k.Name, err)
		return err
	}
	return nil
}

// PopularPosts는 since 이후 작성된 글 중 좋아요 순 상위 글입니다.
func (s *Store) PopularPosts(k Kind, since time.Time, limit int) ([]Post, error) {
	posts := []Post{}
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s AS p LEFT JOIN members AS m ON p.member_id = m.id
		WHERE p.del_yn = 'N' AND p.created_at >= ?
		ORDER BY p.like_count DESC, p.view_count DESC, p.id DESC
		LIMIT ?`, postListColumns, k.Table)
	if err := s.db.Select(&posts, query, since, limit); err != nil {
		log.Errorf("PopularPosts(%s) DB 에러: %v", k.Name, err)
		return nil, err
	}
	return posts, nil
}

// CountLivePosts는 삭제되지 않은 게시글 수입니다.
func (s *Store) CountLivePosts(k Kind) (int, error) {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE del_yn = 'N'", k.Table)
	if err := s.db.Get(&count, query); err != nil {
		log.Errorf("CountLivePosts(%s) DB 에러: %v", k.Name, err)
		return 0, err
	}
	return count, nil
}
