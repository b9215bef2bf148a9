package comment

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"tripmate/internal/board"
	"tripmate/internal/middleware"
	"tripmate/internal/respond"
)

const scorePerComment = 1

// PostChecker는 댓글 대상 게시글의 존재를 확인합니다. (board.Service)
type PostChecker interface {
	EnsureLivePost(k board.Kind, id uint64) error
}

// ScoreAdder는 회원 활동 점수 적립 기능입니다. (member.Service)
type ScoreAdder interface {
	AddScore(memberID uint64, delta int) error
}

// Service는 댓글 비즈니스 로직을 담당합니다.
type Service struct {
	store  *Store
	posts  PostChecker
	scores ScoreAdder
}

// NewService는 새 Service를 생성합니다.
func NewService(store *Store, posts PostChecker, scores ScoreAdder) *Service {
	return &Service{store: store, posts: posts, scores: scores}
}

// buildTree는 작성순 댓글 목록을 루트 + 답글 구조로 묶습니다.
// 삭제된 루트는 살아 있는 답글이 있을 때만 안내 문구로 남기고, 삭제된 답글은 제외합니다.
func buildTree(all []Comment) []Comment {
	replies := map[uint64][]Comment{}
	for _, cm := range all {
		if cm.ParentID != nil && cm.DelYn != "Y" {
			replies[*cm.ParentID] = append(replies[*cm.ParentID], cm)
		}
	}

	roots := []Comment{}
	for _, cm := range all {
		if cm.ParentID != nil {
			continue
		}
		cm.Replies = replies[cm.ID]
		if cm.DelYn == "Y" {
			if len(cm.Replies) == 0 {
				continue
			}
			cm.Content = DeletedPlaceholder
			cm.Deleted = true
		}
		roots = append(roots, cm)
	}
	return roots
}

// commentable은 댓글을 허용하는 게시판의 살아 있는 글인지 확인합니다.
func (s *Service) commentable(k board.Kind, postID uint64) error {
	if !k.Comments {
		return fmt.Errorf("%w: %s은(는) 댓글을 지원하지 않습니다", respond.ErrBadRequest, k.Label)
	}
	return s.posts.EnsureLivePost(k, postID)
}

// List는 게시글의 댓글 트리를 반환합니다.
func (s *Service) List(k board.Kind, postID uint64) ([]Comment, error) {
	if err := s.commentable(k, postID); err != nil {
		return nil, err
	}
	all, err := s.store.ListByPost(k.Name, postID)
	if err != nil {
		return nil, err
	}
	return buildTree(all), nil
}

// Create는 댓글 또는 답글을 작성합니다. 답글의 답글은 루트 댓글에 붙습니다.
func (s *Service) Create(k board.Kind, postID, memberID uint64, req CommentRequest) (uint64, error) {
	req.Content = strings.TrimSpace(req.Content)
	if err := respond.Validate(req); err != nil {
		return 0, err
	}
	if err := s.commentable(k, postID); err != nil {
		return 0, err
	}

	cm := &Comment{
		BoardType: k.Name,
		PostID:    postID,
		MemberID:  memberID,
		Content:   req.Content,
	}

	if req.ParentID != nil {
		parent, err := s.store.GetComment(*req.ParentID)
		if err != nil {
			return 0, err
		}
		if parent == nil || parent.DelYn == "Y" {
			return 0, fmt.Errorf("부모 댓글(ID: %d): %w", *req.ParentID, respond.ErrNotFound)
		}
		if parent.BoardType != k.Name || parent.PostID != postID {
			return 0, fmt.Errorf("%w: 다른 게시글의 댓글에는 답글을 달 수 없습니다", respond.ErrBadRequest)
		}
		rootID := parent.ID
		if parent.ParentID != nil {
			rootID = *parent.ParentID
		}
		cm.ParentID = &rootID
	}

	id, err := s.store.CreateComment(cm)
	if err != nil {
		return 0, err
	}

	if err := s.scores.AddScore(memberID, scorePerComment); err != nil {
		log.Warnf("활동 점수 적립 실패 (회원: %d): %v", memberID, err)
	}
	return id, nil
}

// liveComment는 삭제되지 않은 댓글을 조회합니다.
func (s *Service) liveComment(id uint64) (*Comment, error) {
	cm, err := s.store.GetComment(id)
	if err != nil {
		return nil, err
	}
	if cm == nil || cm.DelYn == "Y" {
		return nil, fmt.Errorf("댓글(ID: %d): %w", id, respond.ErrNotFound)
	}
	return cm, nil
}

// Update는 작성자 또는 관리자의 댓글 수정을 처리합니다.
func (s *Service) Update(id, memberID uint64, role, content string) error {
	content = strings.TrimSpace(content)
	if err := respond.Validate(CommentRequest{Content: content}); err != nil {
		return err
	}
	cm, err := s.liveComment(id)
	if err != nil {
		return err
	}
	if role != middleware.RoleAdmin && cm.MemberID != memberID {
		return fmt.Errorf("%w: 자신이 작성한 댓글만 수정할 수 있습니다", respond.ErrForbidden)
	}
	return s.store.UpdateContent(id, content)
}

// Delete는 작성자 또는 관리자의 댓글 삭제(소프트 삭제)를 처리합니다.
func (s *Service) Delete(id, memberID uint64, role string) error {
	cm, err := s.liveComment(id)
	if err != nil {
		return err
	}
	if role != middleware.RoleAdmin && cm.MemberID != memberID {
		return fmt.Errorf("%w: 자신이 작성한 댓글만 삭제할 수 있습니다", respond.ErrForbidden)
	}
	return s.store.SoftDeleteComment(id)
}

// ReportComment는 신고 대상 댓글이 존재하는지 확인합니다.
func (s *Service) ReportComment(boardName string, id uint64) error {
	cm, err := s.liveComment(id)
	if err != nil {
		return err
	}
	if cm.BoardType != boardName {
		return fmt.Errorf("%s 게시판 댓글(ID: %d): %w", boardName, id, respond.ErrNotFound)
	}
	return nil
}

// RemoveCommentByAdmin은 신고 승인 시 관리자가 댓글을 삭제합니다.
func (s *Service) RemoveCommentByAdmin(id uint64) error {
	return s.store.SoftDeleteComment(id)
}

// CountLiveComments는 전체 댓글 수입니다. (대시보드)
func (s *Service) CountLiveComments() (int, error) {
	return s.store.CountLiveComments()
}
