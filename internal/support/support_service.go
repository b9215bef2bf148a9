package support

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"tripmate/internal/board"
	"tripmate/internal/database"
	"tripmate/internal/middleware"
	"tripmate/internal/respond"
	"tripmate/internal/slackbot"
)

// PostTargets는 신고 대상 게시글 처리 기능입니다. (board.Service)
type PostTargets interface {
	EnsureLivePost(k board.Kind, id uint64) error
	ReportPost(boardName string, id uint64) error
	RemovePostByAdmin(boardName string, id uint64) error
}

// CommentTargets는 신고 대상 댓글 처리 기능입니다. (comment.Service)
type CommentTargets interface {
	ReportComment(boardName string, id uint64) error
	RemoveCommentByAdmin(id uint64) error
}

// Alerter는 관리자 알림 발송 기능입니다. (slackbot.Notifier)
type Alerter interface {
	Notify(a slackbot.Alert)
}

// Service는 1:1 문의와 신고 접수/처리를 담당합니다.
type Service struct {
	store    *Store
	posts    PostTargets
	comments CommentTargets
	alerter  Alerter
	now      func() time.Time
}

// NewService는 새 Service를 생성합니다.
func NewService(store *Store, posts PostTargets, comments CommentTargets, alerter Alerter) *Service {
	return &Service{
		store:    store,
		posts:    posts,
		comments: comments,
		alerter:  alerter,
		now:      time.Now,
	}
}

// --- 문의 ---

// CreateInquiry는 문의를 접수하고 관리자에게 알립니다.
func (s *Service) CreateInquiry(memberID uint64, req InquiryRequest) (uint64, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if err := respond.Validate(req); err != nil {
		return 0, err
	}

	id, err := s.store.CreateInquiry(&Inquiry{MemberID: memberID, Title: req.Title, Content: req.Content})
	if err != nil {
		return 0, err
	}

	s.alerter.Notify(slackbot.Alert{
		Title: fmt.Sprintf("[문의] 새 1:1 문의가 접수되었습니다 (#%d)", id),
		Color: "#f2c744",
		Fields: []slackbot.Field{
			{Title: "제목", Value: req.Title},
			{Title: "내용", Value: req.Content},
			{Title: "회원 ID", Value: strconv.FormatUint(memberID, 10), Short: true},
		},
	})
	return id, nil
}

// GetInquiry는 본인 또는 관리자만 문의를 조회하게 합니다.
func (s *Service) GetInquiry(id, memberID uint64, role string) (*Inquiry, error) {
	q, err := s.store.GetInquiry(id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, fmt.Errorf("문의(ID: %d): %w", id, respond.ErrNotFound)
	}
	if role != middleware.RoleAdmin && q.MemberID != memberID {
		return nil, fmt.Errorf("%w: 본인의 문의만 조회할 수 있습니다", respond.ErrForbidden)
	}
	return q, nil
}

// MyInquiries는 회원 본인의 문의 목록입니다.
func (s *Service) MyInquiries(memberID uint64, page, size int) (*respond.Page[Inquiry], error) {
	page, size, offset := respond.NormalizePage(page, size)
	list, total, err := s.store.ListInquiries(memberID, "", offset, size)
	if err != nil {
		return nil, err
	}
	return &respond.Page[Inquiry]{Items: list, Total: total, Page: page, Size: size}, nil
}

// AdminInquiries는 관리자용 문의 목록입니다. (status 필터)
func (s *Service) AdminInquiries(status string, page, size int) (*respond.Page[Inquiry], error) {
	if status != "" && status != InquiryWaiting && status != InquiryAnswered {
		return nil, fmt.Errorf("%w: 알 수 없는 문의 상태 (%s)", respond.ErrBadRequest, status)
	}
	page, size, offset := respond.NormalizePage(page, size)
	list, total, err := s.store.ListInquiries(0, status, offset, size)
	if err != nil {
		return nil, err
	}
	return &respond.Page[Inquiry]{Items: list, Total: total, Page: page, Size: size}, nil
}

// ReplyInquiry는 대기 중인 문의에 답변합니다. 이미 답변된 문의는 409.
func (s *Service) ReplyInquiry(id uint64, req ReplyRequest) error {
	req.Reply = strings.TrimSpace(req.Reply)
	if err := respond.Validate(req); err != nil {
		return err
	}

	q, err := s.store.GetInquiry(id)
	if err != nil {
		return err
	}
	if q == nil {
		return fmt.Errorf("문의(ID: %d): %w", id, respond.ErrNotFound)
	}
	if q.Status != InquiryWaiting {
		return fmt.Errorf("%w: 이미 답변된 문의입니다", respond.ErrConflict)
	}

	updated, err := s.store.ReplyInquiry(id, req.Reply, s.now())
	if err != nil {
		return err
	}
	if !updated {
		return fmt.Errorf("%w: 이미 답변된 문의입니다", respond.ErrConflict)
	}
	return nil
}

// --- 신고 ---

// CreateReport는 신고를 접수합니다. 같은 대상은 회원당 한 번만 신고할 수 있습니다.
func (s *Service) CreateReport(reporterID uint64, req ReportRequest) (uint64, error) {
	req.Reason = strings.TrimSpace(req.Reason)
	if err := respond.Validate(req); err != nil {
		return 0, err
	}
	k, ok := board.Lookup(req.BoardType)
	if !ok {
		return 0, fmt.Errorf("게시판(%s): %w", req.BoardType, respond.ErrNotFound)
	}

	// 1. 대상 확인
	switch req.TargetType {
	case TargetPost:
		if err := s.posts.EnsureLivePost(k, req.TargetID); err != nil {
			return 0, err
		}
	case TargetComment:
		if err := s.comments.ReportComment(k.Name, req.TargetID); err != nil {
			return 0, err
		}
	}

	// 2. 중복 확인
	count, err := s.store.CountReportsBy(reporterID, k.Name, req.TargetType, req.TargetID)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, fmt.Errorf("%w: 이미 신고한 대상입니다", respond.ErrConflict)
	}

	// 3. 접수
	id, err := s.store.CreateReport(&Report{
		ReporterID: reporterID,
		BoardType:  k.Name,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Reason:     req.Reason,
	})
	if err != nil {
		if database.IsDuplicate(err) {
			return 0, fmt.Errorf("%w: 이미 신고한 대상입니다", respond.ErrConflict)
		}
		return 0, err
	}

	// 4. 게시글 신고 수
	if req.TargetType == TargetPost {
		if err := s.posts.ReportPost(k.Name, req.TargetID); err != nil {
			log.Errorf("신고 수 증가 실패 (%s/%d): %v", k.Name, req.TargetID, err)
		}
	}

	s.alerter.Notify(slackbot.Alert{
		Title: fmt.Sprintf("[신고] %s %s #%d 신고가 접수되었습니다", k.Label, targetLabel(req.TargetType), req.TargetID),
		Color: "#e01e5a",
		Fields: []slackbot.Field{
			{Title: "사유", Value: req.Reason},
			{Title: "신고 ID", Value: strconv.FormatUint(id, 10), Short: true},
			{Title: "신고자 ID", Value: strconv.FormatUint(reporterID, 10), Short: true},
		},
	})
	return id, nil
}

func targetLabel(targetType string) string {
	if targetType == TargetComment {
		return "댓글"
	}
	return "게시글"
}

// AdminReports는 관리자용 신고 목록입니다. (status 필터)
func (s *Service) AdminReports(status string, page, size int) (*respond.Page[Report], error) {
	switch status {
	case "", ReportWaiting, ReportAccepted, ReportRejected:
	default:
		return nil, fmt.Errorf("%w: 알 수 없는 신고 상태 (%s)", respond.ErrBadRequest, status)
	}
	page, size, offset := respond.NormalizePage(page, size)
	list, total, err := s.store.ListReports(status, offset, size)
	if err != nil {
		return nil, err
	}
	return &respond.Page[Report]{Items: list, Total: total, Page: page, Size: size}, nil
}

// ProcessReport는 대기 중인 신고를 승인(대상 삭제) 또는 반려합니다. 이미 처리된 신고는 409.
func (s *Service) ProcessReport(id uint64, req ProcessRequest) error {
	req.Memo = strings.TrimSpace(req.Memo)
	if err := respond.Validate(req); err != nil {
		return err
	}

	r, err := s.store.GetReport(id)
	if err != nil {
		return err
	}
	if r == nil {
		return fmt.Errorf("신고(ID: %d): %w", id, respond.ErrNotFound)
	}
	if r.Status != ReportWaiting {
		return fmt.Errorf("%w: 이미 처리된 신고입니다", respond.ErrConflict)
	}

	status := ReportRejected
	if req.Action == ActionAccept {
		status = ReportAccepted
		// 대상 삭제는 소프트 삭제라 재시도해도 안전합니다.
		if r.TargetType == TargetComment {
			err = s.comments.RemoveCommentByAdmin(r.TargetID)
		} else {
			err = s.posts.RemovePostByAdmin(r.BoardType, r.TargetID)
		}
		if err != nil {
			return err
		}
	}

	updated, err := s.store.ProcessReport(id, status, req.Memo, s.now())
	if err != nil {
		return err
	}
	if !updated {
		return fmt.Errorf("%w: 이미 처리된 신고입니다", respond.ErrConflict)
	}
	log.Infof("신고(ID: %d) 처리: %s", id, status)
	return nil
}

// CountWaitingInquiries는 답변 대기 문의 수입니다. (대시보드)
func (s *Service) CountWaitingInquiries() (int, error) {
	return s.store.CountInquiries(InquiryWaiting)
}

func (s *Service) CountWaitingReports() (int, error) {
	return s.store.CountReports(ReportWaiting)
}
