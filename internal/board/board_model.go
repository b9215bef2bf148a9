package board

import (
	"strings"
	"time"
)

// Post는 'board_*' 테이블의 공통 스키마입니다.
type Post struct {
	ID          uint64     `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Content     string     `json:"content,omitempty" db:"content"`
	MemberID    uint64     `json:"member_id" db:"member_id"`
	Nickname    string     `json:"nickname" db:"nickname"` // (members JOIN)
	Category    *string    `json:"category,omitempty" db:"category"`
	Region      *string    `json:"region,omitempty" db:"region"`
	Rating      *int       `json:"rating,omitempty" db:"rating"`
	StartDe     *time.Time `json:"start_de,omitempty" db:"start_de"`
	EndDe       *time.Time `json:"end_de,omitempty" db:"end_de"`
	Images      string     `json:"-" db:"images"` // 파일명 콤마 구분
	ViewCount   int        `json:"view_count" db:"view_count"`
	LikeCount   int        `json:"like_count" db:"like_count"`
	ReportCount int        `json:"report_count" db:"report_count"`
	DelYn       string     `json:"-" db:"del_yn"` // 'N' | 'Y'
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`

	ImageList  []string `json:"images" db:"-"`
	Liked      bool     `json:"liked" db:"-"`
	Bookmarked bool     `json:"bookmarked" db:"-"`
}

// fillImages는 DB의 콤마 구분 문자열을 응답용 배열로 변환합니다.
func (p *Post) fillImages() {
	p.ImageList = splitImages(p.Images)
}

func splitImages(s string) []string {
	list := []string{}
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			list = append(list, name)
		}
	}
	return list
}

// Reaction 종류 ('board_reactions.reaction_type')
const (
	ReactionLike     = "LIKE"
	ReactionBookmark = "BOOKMARK"
)

// ReactionResult는 좋아요/북마크 토글 결과입니다.
type ReactionResult struct {
	Active    bool `json:"active"`
	LikeCount int  `json:"like_count"`
}

// ListQuery는 목록 조회 조건입니다.
type ListQuery struct {
	Page     int
	Size     int
	Keyword  string
	Field    string // title | content | writer | all
	Sort     string // latest | views | likes
	Category string
	Status   string // (이벤트) ongoing | ended
	MemberID uint64 // 0이 아니면 해당 회원의 글만 (mine=true)
}
