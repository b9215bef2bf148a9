package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"tripmate/internal/ranking"
)

// RankingRefresher는 관광지 순위 갱신 기능입니다. (ranking.Service)
type RankingRefresher interface {
	Refresh(ctx context.Context) (*ranking.RefreshResult, error)
}

// Scheduler는 주기 작업(주간 순위 갱신)을 실행합니다.
type Scheduler struct {
	cron        *cron.Cron
	rankingSpec string
	rankings    RankingRefresher

	// Stop 시 취소되어 실행 중인 외부 호출을 중단시킵니다.
	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler는 새 Scheduler를 생성합니다. rankingSpec은 5필드 cron 식입니다. (예: "0 4 * * 1")
func NewScheduler(rankingSpec string, rankings RankingRefresher) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:        cron.New(),
		rankingSpec: rankingSpec,
		rankings:    rankings,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start는 작업을 등록하고 스케줄러를 시작합니다.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.rankingSpec, s.refreshRankings); err != nil {
		return fmt.Errorf("순위 갱신 cron 식(%s) 등록 실패: %w", s.rankingSpec, err)
	}
	s.cron.Start()
	log.Infof("[Scheduler] 스케줄러 시작 (순위 갱신: %s)", s.rankingSpec)
	return nil
}

// Stop은 스케줄러를 멈추고 실행 중인 작업이 끝날 때까지 기다립니다.
func (s *Scheduler) Stop(ctx context.Context) {
	log.Info("[Scheduler] 스케줄러를 중지합니다...")
	stopped := s.cron.Stop()
	s.cancel()
	select {
	case <-stopped.Done():
	case <-ctx.Done():
		log.Warn("[Scheduler] 실행 중인 작업을 기다리지 못하고 종료합니다.")
	}
}

func (s *Scheduler) refreshRankings() {
	log.Info("[Scheduler] 주간 관광지 순위 갱신을 시작합니다.")
	result, err := s.rankings.Refresh(s.ctx)
	if err != nil {
		log.Errorf("[Scheduler] 순위 갱신 실패: %v", err)
		return
	}
	log.Infof("[Scheduler] 순위 갱신 완료 (출처: %s, %d건)", result.Source, result.Count)
}
