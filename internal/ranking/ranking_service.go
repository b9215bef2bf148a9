package ranking

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Service는 관광지 순위 갱신/조회를 담당합니다.
type Service struct {
	store   *Store
	fetcher Fetcher
	now     func() time.Time

	// 스케줄러와 관리자 요청이 동시에 갱신하지 않도록 직렬화
	mu sync.Mutex
}

// NewService는 새 Service를 생성합니다.
func NewService(store *Store, fetcher Fetcher) *Service {
	return &Service{store: store, fetcher: fetcher, now: time.Now}
}

// fallback은 기준 연월을 채운 기본 순위 사본입니다.
func (s *Service) fallback() []Ranking {
	baseYm := s.now().AddDate(0, -1, 0).Format("200601")
	rows := make([]Ranking, len(fallbackRankings))
	copy(rows, fallbackRankings)
	for i := range rows {
		rows[i].BaseYm = baseYm
	}
	return rows
}

// Refresh는 API에서 순위를 받아 테이블을 교체합니다.
// API 호출/파싱이 어떤 이유로든 실패하면 기본 순위로 교체합니다.
func (s *Service) Refresh(ctx context.Context) (*RefreshResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	source := SourceAPI
	rows, err := s.fetcher.Fetch(ctx)
	if err != nil {
		log.Warnf("[Ranking] API 조회 실패, 기본 순위 사용: %v", err)
		source = SourceFallback
		rows = s.fallback()
	}

	if err := s.store.ReplaceRankings(rows); err != nil {
		log.Errorf("[Ranking] 순위 저장 실패: %v", err)
		return nil, err
	}

	log.Infof("[Ranking] 순위 갱신 완료 (출처: %s, %d건)", source, len(rows))
	return &RefreshResult{Source: source, Count: len(rows)}, nil
}

func (s *Service) List() ([]Ranking, error) {
	return s.store.ListRankings()
}
