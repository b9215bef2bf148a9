package board

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// ToggleReaction은 (게시판, 글, 회원, 종류) 반응 행이 있으면 삭제하고 없으면 추가합니다.
// 좋아요는 게시글의 like_count도 같은 트랜잭션에서 갱신합니다.
func (s *Store) ToggleReaction(k Kind, postID, memberID uint64, reactionType string) (*ReactionResult, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		log.Errorf("ToggleReaction 트랜잭션 시작 실패: %v", err)
		return nil, err
	}
	defer tx.Rollback()

	// 1. 존재 확인
	var exists int
	err = tx.Get(&exists, `
		SELECT COUNT(*) FROM board_reactions
		WHERE board_type = ? AND post_id = ? AND member_id = ? AND reaction_type = ?`,
		k.Name, postID, memberID, reactionType)
	if err != nil {
		log.Errorf("ToggleReaction 조회 실패: %v", err)
		return nil, err
	}

	// 2. 토글
	result := &ReactionResult{Active: exists == 0}
	delta := 1
	if exists > 0 {
		_, err = tx.Exec(`
			DELETE FROM board_reactions
			WHERE board_type = ? AND post_id = ? AND member_id = ? AND reaction_type = ?`,
			k.Name, postID, memberID, reactionType)
		delta = -1
	} else {
		_, err = tx.Exec(`
			INSERT INTO board_reactions (board_type, post_id, member_id, reaction_type)
			VALUES (?, ?, ?, ?)`,
			k.Name, postID, memberID, reactionType)
	}
	if err != nil {
		log.Errorf("ToggleReaction 반영 실패 (%s/%d): %v", k.Name, postID, err)
		return nil, err
	}

	// 3. 좋아요 수 갱신
	if reactionType == ReactionLike {
		query := fmt.Sprintf("UPDATE %s SET like_count = GREATEST(CAST(like_count AS SIGNED) + ?, 0) WHERE id = ?", k.Table)
		if _, err = tx.Exec(query, delta, postID); err != nil {
			log.Errorf("ToggleReaction like_count 갱신 실패: %v", err)
			return nil, err
		}
	}
	if err = tx.Get(&result.LikeCount, fmt.Sprintf("SELECT like_count FROM %s WHERE id = ?", k.Table), postID); err != nil {
		log.Errorf("ToggleReaction like_count 조회 실패: %v", err)
		return nil, err
	}

	return result, tx.Commit()
}

// HasReaction은 회원이 해당 글에 반응했는지 확인합니다.
func (s *Store) HasReaction(k Kind, postID, memberID uint64, reactionType string) (bool, error) {
	var count int
	err := s.db.Get(&count, `
		SELECT COUNT(*) FROM board_reactions
		WHERE board_type = ? AND post_id = ? AND member_id = ? AND reaction_type = ?`,
		k.Name, postID, memberID, reactionType)
	if err != nil {
		log.Errorf("HasReaction DB 에러: %v", err)
		return false, err
	}
	return count > 0, nil
}

// GetLikeCount는 게시글의 현재 좋아요 수입니다.
func (s *Store) GetLikeCount(k Kind, postID uint64) (int, error) {
	var count int
	err := s.db.Get(&count, fmt.Sprintf("SELECT like_count FROM %s WHERE id = ?", k.Table), postID)
	if err != nil {
		log.Errorf("GetLikeCount(%s) DB 에러: %v", k.Name, err)
	}
	return count, err
}

// ListBookmarkedPosts는 회원이 북마크한 글 목록입니다. (최근 북마크순)
func (s *Store) ListBookmarkedPosts(k Kind, memberID uint64, offset, limit int) ([]Post, int, error) {
	from := fmt.Sprintf(`
		FROM board_reactions AS r
		JOIN %s AS p ON r.post_id = p.id
		LEFT JOIN members AS m ON p.member_id = m.id
		WHERE r.board_type = ? AND r.member_id = ? AND r.reaction_type = ? AND p.del_yn = 'N'`, k.Table)

	var total int
	if err := s.db.Get(&total, "SELECT COUNT(*)"+from, k.Name, memberID, ReactionBookmark); err != nil {
		log.Errorf("ListBookmarkedPosts COUNT DB 에러: %v", err)
		return nil, 0, err
	}

	posts := []Post{}
	query := "SELECT" + postListColumns + from + " ORDER BY r.id DESC LIMIT ?, ?"
	if err := s.db.Select(&posts, query, k.Name, memberID, ReactionBookmark, offset, limit); err != nil {
		log.Errorf("ListBookmarkedPosts DB 에러: %v", err)
		return nil, 0, err
	}
	return posts, total, nil
}
