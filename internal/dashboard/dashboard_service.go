package dashboard

import (
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"tripmate/internal/board"
)

// 집계에 필요한 조회 기능 (각 패키지의 Store/Service가 구현)
type (
	MemberCounter interface {
		CountMembers() (int, error)
	}
	SupportCounter interface {
		CountWaitingInquiries() (int, error)
		CountWaitingReports() (int, error)
	}
	PostCounter interface {
		CountLivePosts(k board.Kind) (int, error)
	}
	CommentCounter interface {
		CountLiveComments() (int, error)
	}
)

// DashboardData는 관리자 대시보드 응답입니다.
type DashboardData struct {
	MemberCount      int            `json:"member_count"`
	WaitingInquiries int            `json:"waiting_inquiries"`
	WaitingReports   int            `json:"waiting_reports"`
	CommentCount     int            `json:"comment_count"`
	PostCounts       map[string]int `json:"post_counts"` // 게시판 이름 → 게시글 수
}

// Service는 대시보드 데이터 조회를 담당합니다.
type Service struct {
	members  MemberCounter
	support  SupportCounter
	posts    PostCounter
	comments CommentCounter
}

// NewService는 대시보드 서비스를 생성합니다.
func NewService(members MemberCounter, support SupportCounter, posts PostCounter, comments CommentCounter) *Service {
	return &Service{
		members:  members,
		support:  support,
		posts:    posts,
		comments: comments,
	}
}

// GetDashboardData는 여러 집계를 DB에서 병렬로 조회합니다.
func (s *Service) GetDashboardData() (*DashboardData, error) {
	data := DashboardData{PostCounts: map[string]int{}}
	var eg errgroup.Group
	var mu sync.Mutex

	// 1. 회원 수
	eg.Go(func() error {
		count, err := s.members.CountMembers()
		if err != nil {
			log.Errorf("GetDashboardData: CountMembers 실패: %v", err)
			return err
		}
		data.MemberCount = count
		return nil
	})

	// 2. 대기 중인 문의/신고
	eg.Go(func() error {
		count, err := s.support.CountWaitingInquiries()
		if err != nil {
			log.Errorf("GetDashboardData: CountWaitingInquiries 실패: %v", err)
			return err
		}
		data.WaitingInquiries = count
		return nil
	})
	eg.Go(func() error {
		count, err := s.support.CountWaitingReports()
		if err != nil {
			log.Errorf("GetDashboardData: CountWaitingReports 실패: %v", err)
			return err
		}
		data.WaitingReports = count
		return nil
	})

	// 3. 댓글 수
	eg.Go(func() error {
		count, err := s.comments.CountLiveComments()
		if err != nil {
			log.Errorf("GetDashboardData: CountLiveComments 실패: %v", err)
			return err
		}
		data.CommentCount = count
		return nil
	})

	// 4. 게시판별 게시글 수
	for _, k := range board.Kinds() {
		eg.Go(func() error {
			count, err := s.posts.CountLivePosts(k)
			if err != nil {
				log.Errorf("GetDashboardData: CountLivePosts(%s) 실패: %v", k.Name, err)
				return err
			}
			mu.Lock()
			data.PostCounts[k.Name] = count
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}
