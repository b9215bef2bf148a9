package board

import (
	"sort"
)

// Kind는 게시판 종류별 설정입니다.
// 모든 게시판 테이블은 같은 컬럼 구성을 가지며, 테이블 이름만 다릅니다.
type Kind struct {
	Name       string // URL 경로 이름 (예: "free")
	Table      string // 게시글 테이블
	Label      string // 화면 표시 이름
	AdminWrite bool   // 관리자만 작성 가능
	Comments   bool   // 댓글 허용
	Reactions  bool   // 좋아요/북마크 허용

	RequireRating   bool // 리뷰: 별점(1~5) 필수
	RequireCategory bool // FAQ: 분류 필수
	RequirePeriod   bool // 이벤트: 시작일/종료일 필수
}

var kinds = map[string]Kind{
	"free":       {Name: "free", Table: "board_free", Label: "자유게시판", Comments: true, Reactions: true},
	"recommend":  {Name: "recommend", Table: "board_recommend", Label: "여행지 추천", Comments: true, Reactions: true},
	"review":     {Name: "review", Table: "board_review", Label: "여행 후기", Comments: true, Reactions: true, RequireRating: true},
	"notice":     {Name: "notice", Table: "board_notice", Label: "공지사항", AdminWrite: true},
	"faq":        {Name: "faq", Table: "board_faq", Label: "자주 묻는 질문", AdminWrite: true, RequireCategory: true},
	"newsletter": {Name: "newsletter", Table: "board_newsletter", Label: "뉴스레터", AdminWrite: true, Reactions: true},
	"event":      {Name: "event", Table: "board_event", Label: "이벤트", AdminWrite: true, Comments: true, Reactions: true, RequirePeriod: true},
}

// Lookup은 URL 이름으로 게시판 설정을 찾습니다.
func Lookup(name string) (Kind, bool) {
	k, ok := kinds[name]
	return k, ok
}

// Kinds는 이름순으로 정렬된 전체 게시판 목록입니다. (대시보드 집계용)
func Kinds() []Kind {
	list := make([]Kind, 0, len(kinds))
	for _, k := range kinds {
		list = append(list, k)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}
