package comment

import "time"

// 삭제됐지만 살아 있는 답글이 있는 댓글에 표시되는 본문
const DeletedPlaceholder = "삭제된 댓글입니다."

// Comment는 'comments' 테이블 스키마입니다. 답글은 한 단계까지만 달립니다.
type Comment struct {
	ID        uint64    `json:"id" db:"id"`
	BoardType string    `json:"board_type" db:"board_type"`
	PostID    uint64    `json:"post_id" db:"post_id"`
	MemberID  uint64    `json:"member_id" db:"member_id"`
	Nickname  string    `json:"nickname" db:"nickname"`
	ParentID  *uint64   `json:"parent_id,omitempty" db:"parent_id"`
	Content   string    `json:"content" db:"content"`
	DelYn     string    `json:"-" db:"del_yn"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Deleted bool      `json:"deleted" db:"-"`
	Replies []Comment `json:"replies,omitempty" db:"-"`
}

// CommentRequest는 댓글 작성/수정 요청입니다.
type CommentRequest struct {
	Content  string  `json:"content" validate:"required,max=1000"`
	ParentID *uint64 `json:"parent_id"`
}
