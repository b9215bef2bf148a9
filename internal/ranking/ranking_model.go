package ranking

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// 갱신 결과의 데이터 출처
const (
	SourceAPI      = "api"
	SourceFallback = "fallback"
)

// Ranking은 'tour_rankings' 테이블 스키마입니다. (주간 관광지 순위)
type Ranking struct {
	ID         uint64    `json:"id" db:"id"`
	RankNo     int       `json:"rank_no" db:"rank_no"`
	AreaCode   string    `json:"area_code" db:"area_code"`
	AreaName   string    `json:"area_name" db:"area_name"`
	SpotName   string    `json:"spot_name" db:"spot_name"`
	Category   string    `json:"category" db:"category"`
	VisitCount int64     `json:"visit_count" db:"visit_count"`
	BaseYm     string    `json:"base_ym" db:"base_ym"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// RefreshResult는 순위 갱신 결과입니다.
type RefreshResult struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// --- 공공데이터 API 응답 ---

type apiResponse struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			Items struct {
				// 결과가 1건이면 배열 대신 객체로 내려옵니다.
				Item json.RawMessage `json:"item"`
			} `json:"items"`
		} `json:"body"`
	} `json:"response"`
}

type apiItem struct {
	Rank     flexInt `json:"rnum"`
	AreaCode string  `json:"areaCd"`
	AreaName string  `json:"areaNm"`
	SpotName string  `json:"spotNm"`
	Category string  `json:"ctgryNm"`
	Visits   flexInt `json:"visitCnt"`
	BaseYm   string  `json:"baseYm"`
}

// flexInt는 숫자 또는 숫자 문자열("1,234" 포함)을 받습니다.
type flexInt int64

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	s := strings.ReplaceAll(strings.Trim(string(b), `"`), ",", "")
	if s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}
