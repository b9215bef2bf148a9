package board

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// 조회수 중복 방지 쿠키: 이름 "viewed_<게시판>", 값 "[3][15][27]"
const (
	viewCookieTTL     = 24 * time.Hour
	viewCookieMaxKeep = 100
)

var viewTokenPattern = regexp.MustCompile(`\[\d+\]`)

func viewCookieName(k Kind) string {
	return "viewed_" + k.Name
}

// markViewed는 쿠키 값에 글 ID가 없으면 추가하고 true(첫 조회)를 반환합니다.
// 오래된 ID부터 밀어내어 최대 viewCookieMaxKeep개만 유지합니다.
func markViewed(cookieValue string, id uint64) (string, bool) {
	token := "[" + strconv.FormatUint(id, 10) + "]"
	if strings.Contains(cookieValue, token) {
		return cookieValue, false
	}

	kept := append(viewTokenPattern.FindAllString(cookieValue, -1), token)
	if len(kept) > viewCookieMaxKeep {
		kept = kept[len(kept)-viewCookieMaxKeep:]
	}
	return strings.Join(kept, ""), true
}
