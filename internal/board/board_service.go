package board

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"tripmate/internal/database"
	"tripmate/internal/middleware"
	"tripmate/internal/respond"
)

const (
	// 게시글 작성 시 적립되는 활동 점수
	scorePerPost = 5

	popularWindow = 7 * 24 * time.Hour
	popularLimit  = 5
	maxImages     = 10
)

var imageNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,99}$`)

// ScoreAdder는 회원 활동 점수 적립 기능입니다. (member.Service)
type ScoreAdder interface {
	AddScore(memberID uint64, delta int) error
}

// Service는 게시판 공통 비즈니스 로직을 담당합니다.
type Service struct {
	store  *Store
	scores ScoreAdder
	now    func() time.Time
}

// NewService는 새 Service를 생성합니다.
func NewService(store *Store, scores ScoreAdder) *Service {
	return &Service{store: store, scores: scores, now: time.Now}
}

// PostRequest는 게시글 작성/수정 요청입니다.
type PostRequest struct {
	Title    string   `json:"title" validate:"required,max=200"`
	Content  string   `json:"content" validate:"required"`
	Category string   `json:"category" validate:"max=30"`
	Region   string   `json:"region" validate:"max=50"`
	Rating   int      `json:"rating" validate:"min=0,max=5"`
	StartDe  string   `json:"start_de"` // YYYY-MM-DD
	EndDe    string   `json:"end_de"`   // YYYY-MM-DD
	Images   []string `json:"images"`
}

// toModel은 요청을 게시판 규칙에 맞게 검사하고 DB 모델로 변환합니다.
func (s *Service) toModel(k Kind, req PostRequest) (*Post, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Category = strings.TrimSpace(req.Category)
	req.Region = strings.TrimSpace(req.Region)
	if strings.TrimSpace(req.Content) == "" {
		req.Content = ""
	}
	if err := respond.Validate(req); err != nil {
		return nil, err
	}

	p := &Post{
		Title:   req.Title,
		Content: req.Content,
	}

	// 1. 분류/지역 (선택)
	if req.Category != "" {
		p.Category = &req.Category
	} else if k.RequireCategory {
		return nil, fmt.Errorf("%w: %s은(는) 분류가 필요합니다", respond.ErrBadRequest, k.Label)
	}
	if req.Region != "" {
		p.Region = &req.Region
	}

	// 2. 별점 (리뷰)
	if req.Rating > 0 {
		rating := req.Rating
		p.Rating = &rating
	} else if k.RequireRating {
		return nil, fmt.Errorf("%w: 별점(1~5)을 선택하세요", respond.ErrBadRequest)
	}

	// 3. 기간 (이벤트)
	if req.StartDe != "" || req.EndDe != "" || k.RequirePeriod {
		start, err1 := time.Parse("2006-01-02", req.StartDe)
		end, err2 := time.Parse("2006-01-02", req.EndDe)
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("%w: 날짜 형식이 잘못되었습니다 (YYYY-MM-DD)", respond.ErrBadRequest)
		}
		if end.Before(start) {
			return nil, fmt.Errorf("%w: 종료일이 시작일보다 빠릅니다", respond.ErrBadRequest)
		}
		p.StartDe, p.EndDe = &start, &end
	}

	// 4. 이미지 파일명 (업로드 API가 발급한 이름만)
	if len(req.Images) > maxImages {
		return nil, fmt.Errorf("%w: 이미지는 최대 %d개까지 첨부할 수 있습니다", respond.ErrBadRequest, maxImages)
	}
	for _, name := range req.Images {
		if !imageNamePattern.MatchString(name) {
			return nil, fmt.Errorf("%w: 유효하지 않은 이미지 파일명입니다: %s", respond.ErrBadRequest, name)
		}
	}
	p.Images = strings.Join(req.Images, ",")
	return p, nil
}

// canWrite는 관리자 전용 게시판의 작성 권한을 확인합니다.
func canWrite(k Kind, role string) error {
	if k.AdminWrite && role != middleware.RoleAdmin {
		return fmt.Errorf("%w: %s은(는) 관리자만 작성할 수 있습니다", respond.ErrForbidden, k.Label)
	}
	return nil
}

// livePost는 삭제되지 않은 글을 조회합니다.
func (s *Service) livePost(k Kind, id uint64) (*Post, error) {
	p, err := s.store.GetPost(k, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.DelYn == "Y" {
		return nil, fmt.Errorf("%s 게시글(ID: %d): %w", k.Label, id, respond.ErrNotFound)
	}
	return p, nil
}

// EnsureLivePost는 다른 기능(댓글/신고)이 대상 글의 존재를 확인할 때 사용합니다.
func (s *Service) EnsureLivePost(k Kind, id uint64) error {
	_, err := s.livePost(k, id)
	return err
}

// List는 게시글 목록을 페이지 단위로 조회합니다.
func (s *Service) List(k Kind, q ListQuery) (*respond.Page[Post], error) {
	page, size, offset := respond.NormalizePage(q.Page, q.Size)
	posts, total, err := s.store.ListPosts(k, q, offset, size)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].fillImages()
	}
	return &respond.Page[Post]{Items: posts, Total: total, Page: page, Size: size}, nil
}

// Detail은 게시글 상세를 조회합니다.
// countView가 true(쿠키 기준 첫 조회)면 조회수를 올리고, 로그인 회원이면 좋아요/북마크 여부를 채웁니다.
func (s *Service) Detail(k Kind, id, memberID uint64, countView bool) (*Post, error) {
	p, err := s.livePost(k, id)
	if err != nil {
		return nil, err
	}
	if countView {
		if err := s.store.IncreaseViewCount(k, id); err != nil {
			return nil, err
		}
		p.ViewCount++
	}
	p.fillImages()

	if memberID == 0 || !k.Reactions {
		return p, nil
	}

	var eg errgroup.Group
	eg.Go(func() error {
		liked, err := s.store.HasReaction(k, id, memberID, ReactionLike)
		p.Liked = liked
		return err
	})
	eg.Go(func() error {
		bookmarked, err := s.store.HasReaction(k, id, memberID, ReactionBookmark)
		p.Bookmarked = bookmarked
		return err
	})
	if err := eg.Wait(); err != nil {
		log.Errorf("게시글(%s/%d) 반응 조회 실패: %v", k.Name, id, err)
		return nil, err
	}
	return p, nil
}

// Create는 게시글을 작성하고 작성자에게 활동 점수를 적립합니다.
func (s *Service) Create(k Kind, memberID uint64, role string, req PostRequest) (uint64, error) {
	if err := canWrite(k, role); err != nil {
		return 0, err
	}
	p, err := s.toModel(k, req)
	if err != nil {
		return 0, err
	}
	p.MemberID = memberID

	id, err := s.store.CreatePost(k, p)
	if err != nil {
		return 0, err
	}

	// 점수 적립 실패는 글 작성 실패로 보지 않습니다.
	if err := s.scores.AddScore(memberID, scorePerPost); err != nil {
		log.Warnf("활동 점수 적립 실패 (회원: %d): %v", memberID, err)
	}
	return id, nil
}

// Update는 작성자 또는 관리자의 게시글 수정을 처리합니다.
func (s *Service) Update(k Kind, id, memberID uint64, role string, req PostRequest) error {
	original, err := s.livePost(k, id)
	if err != nil {
		return err
	}
	if role != middleware.RoleAdmin && original.MemberID != memberID {
		return fmt.Errorf("%w: 자신이 작성한 글만 수정할 수 있습니다", respond.ErrForbidden)
	}

	p, err := s.toModel(k, req)
	if err != nil {
		return err
	}
	p.ID = id
	return s.store.UpdatePost(k, p)
}

// Delete는 작성자 또는 관리자의 게시글 삭제(소프트 삭제)를 처리합니다.
func (s *Service) Delete(k Kind, id, memberID uint64, role string) error {
	original, err := s.livePost(k, id)
	if err != nil {
		return err
	}
	if role != middleware.RoleAdmin && original.MemberID != memberID {
		return fmt.Errorf("%w: 자신이 작성한 글만 삭제할 수 있습니다", respond.ErrForbidden)
	}
	return s.store.SoftDeletePost(k, id)
}

// ToggleReaction은 좋아요/북마크를 토글합니다. 두 번 토글하면 원래 상태로 돌아옵니다.
func (s *Service) ToggleReaction(k Kind, id, memberID uint64, reactionType string) (*ReactionResult, error) {
	if !k.Reactions {
		return nil, fmt.Errorf("%w: %s은(는) 좋아요/북마크를 지원하지 않습니다", respond.ErrBadRequest, k.Label)
	}
	if _, err := s.livePost(k, id); err != nil {
		return nil, err
	}

	result, err := s.store.ToggleReaction(k, id, memberID, reactionType)
	if err != nil {
		// (동시 요청으로 UNIQUE 충돌) 이미 반영된 상태를 그대로 응답
		if database.IsDuplicate(err) {
			count, cerr := s.store.GetLikeCount(k, id)
			if cerr != nil {
				return nil, cerr
			}
			return &ReactionResult{Active: true, LikeCount: count}, nil
		}
		return nil, err
	}
	return result, nil
}

// Bookmarks는 회원의 북마크 글 목록입니다.
func (s *Service) Bookmarks(k Kind, memberID uint64, page, size int) (*respond.Page[Post], error) {
	page, size, offset := respond.NormalizePage(page, size)
	posts, total, err := s.store.ListBookmarkedPosts(k, memberID, offset, size)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].fillImages()
	}
	return &respond.Page[Post]{Items: posts, Total: total, Page: page, Size: size}, nil
}

// Popular는 최근 7일간 좋아요가 많은 글 5개입니다.
func (s *Service) Popular(k Kind) ([]Post, error) {
	posts, err := s.store.PopularPosts(k, s.now().Add(-popularWindow), popularLimit)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].fillImages()
	}
	return posts, nil
}

// ReportPost는 신고 접수 시 대상 글의 신고 수를 올립니다.
func (s *Service) ReportPost(boardName string, id uint64) error {
	k, ok := Lookup(boardName)
	if !ok {
		return fmt.Errorf("게시판(%s): %w", boardName, respond.ErrNotFound)
	}
	if err := s.EnsureLivePost(k, id); err != nil {
		return err
	}
	return s.store.IncreaseReportCount(k, id)
}

// RemovePostByAdmin은 신고 승인 시 관리자가 글을 삭제합니다.
func (s *Service) RemovePostByAdmin(boardName string, id uint64) error {
	k, ok := Lookup(boardName)
	if !ok {
		return fmt.Errorf("게시판(%s): %w", boardName, respond.ErrNotFound)
	}
	return s.store.SoftDeletePost(k, id)
}

// CountLivePosts는 게시판별 게시글 수입니다. (대시보드)
func (s *Service) CountLivePosts(k Kind) (int, error) {
	return s.store.CountLivePosts(k)
}
