package ranking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// 저장하는 최대 순위 수
const topN = 20

// Fetcher는 외부에서 관광지 순위를 가져옵니다.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Ranking, error)
}

// APIClient는 공공데이터포털 관광 통계 API 클라이언트입니다.
type APIClient struct {
	apiURL     string
	serviceKey string
	timeout    time.Duration
	now        func() time.Time
}

// NewAPIClient는 새 APIClient를 생성합니다.
func NewAPIClient(apiURL, serviceKey string, timeout time.Duration) *APIClient {
	return &APIClient{
		apiURL:     apiURL,
		serviceKey: serviceKey,
		timeout:    timeout,
		now:        time.Now,
	}
}

// Fetch는 지난달 기준 순위를 조회해 상위 20개를 반환합니다.
// 요청 시간은 설정된 timeout과 ctx 마감 중 짧은 쪽이며, ctx가 취소되면 응답을 기다리지 않습니다.
func (c *APIClient) Fetch(ctx context.Context) ([]Ranking, error) {
	if c.serviceKey == "" {
		return nil, errors.New("RANKING_SERVICE_KEY가 설정되지 않았습니다")
	}
	timeout, err := c.requestTimeout(ctx)
	if err != nil {
		return nil, err
	}

	baseYm := c.now().AddDate(0, -1, 0).Format("200601")
	q := url.Values{}
	q.Set("serviceKey", c.serviceKey)
	q.Set("pageNo", "1")
	q.Set("numOfRows", "100")
	q.Set("MobileOS", "ETC")
	q.Set("MobileApp", "tripmate")
	q.Set("baseYm", baseYm)
	q.Set("_type", "json")

	agent := fiber.Get(c.apiURL)
	agent.QueryString(q.Encode())
	agent.Timeout(timeout)

	type response struct {
		code int
		body []byte
		errs []error
	}
	done := make(chan response, 1)
	go func() {
		code, body, errs := agent.Bytes()
		done <- response{code: code, body: body, errs: errs}
	}()

	var res response
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("순위 API 호출 중단: %w", ctx.Err())
	case res = <-done:
	}

	if len(res.errs) > 0 {
		return nil, fmt.Errorf("순위 API 호출 실패: %w", errors.Join(res.errs...))
	}
	if res.code != fiber.StatusOK {
		return nil, fmt.Errorf("순위 API 응답 코드 %d: %s", res.code, truncate(string(res.body), 200))
	}
	return parseRankings(res.body, baseYm)
}

// requestTimeout은 설정된 timeout을 ctx 마감까지 남은 시간으로 줄입니다.
func (c *APIClient) requestTimeout(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		left := time.Until(deadline)
		if left <= 0 {
			return 0, context.DeadlineExceeded
		}
		if timeout <= 0 || left < timeout {
			timeout = left
		}
	}
	return timeout, nil
}

// parseRankings는 'response.body.items.item[]'을 순위 목록으로 변환합니다.
func parseRankings(body []byte, defaultBaseYm string) ([]Ranking, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("순위 API 응답 파싱 실패: %w", err)
	}
	if code := resp.Response.Header.ResultCode; code != "" && code != "0000" && code != "00" {
		return nil, fmt.Errorf("순위 API 오류 (%s): %s", code, resp.Response.Header.ResultMsg)
	}

	raw := resp.Response.Body.Items.Item
	var items []apiItem
	switch {
	case len(raw) == 0 || string(raw) == "null":
	case raw[0] == '{':
		var one apiItem
		if err := json.Unmarshal(raw, &one); err != nil {
			return nil, fmt.Errorf("순위 항목 파싱 실패: %w", err)
		}
		items = append(items, one)
	default:
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("순위 항목 파싱 실패: %w", err)
		}
	}

	rankings := make([]Ranking, 0, len(items))
	for i, it := range items {
		name := strings.TrimSpace(it.SpotName)
		if name == "" {
			continue
		}
		rank := int(it.Rank)
		if rank <= 0 {
			rank = i + 1
		}
		baseYm := it.BaseYm
		if baseYm == "" {
			baseYm = defaultBaseYm
		}
		rankings = append(rankings, Ranking{
			RankNo:     rank,
			AreaCode:   it.AreaCode,
			AreaName:   it.AreaName,
			SpotName:   name,
			Category:   it.Category,
			VisitCount: int64(it.Visits),
			BaseYm:     baseYm,
		})
	}
	if len(rankings) == 0 {
		return nil, errors.New("순위 API 응답에 항목이 없습니다")
	}

	sort.SliceStable(rankings, func(i, j int) bool { return rankings[i].RankNo < rankings[j].RankNo })
	if len(rankings) > topN {
		rankings = rankings[:topN]
	}
	return rankings, nil
}

func truncate(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n])
	}
	return s
}
