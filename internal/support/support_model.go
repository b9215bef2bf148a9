package support

import "time"

// 문의 상태
const (
	InquiryWaiting  = "WAITING"
	InquiryAnswered = "ANSWERED"
)

// 신고 상태 / 대상 / 처리
const (
	ReportWaiting  = "WAITING"
	ReportAccepted = "ACCEPTED"
	ReportRejected = "REJECTED"

	TargetPost    = "POST"
	TargetComment = "COMMENT"

	ActionAccept = "ACCEPT"
	ActionReject = "REJECT"
)

// Inquiry는 'inquiries' 테이블 스키마입니다. (1:1 문의)
type Inquiry struct {
	ID        uint64     `json:"id" db:"id"`
	MemberID  uint64     `json:"member_id" db:"member_id"`
	Nickname  string     `json:"nickname" db:"nickname"`
	Title     string     `json:"title" db:"title"`
	Content   string     `json:"content" db:"content"`
	Status    string     `json:"status" db:"status"`
	Reply     *string    `json:"reply,omitempty" db:"reply"`
	RepliedAt *time.Time `json:"replied_at,omitempty" db:"replied_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// Report는 'reports' 테이블 스키마입니다.
type Report struct {
	ID          uint64     `json:"id" db:"id"`
	ReporterID  uint64     `json:"reporter_id" db:"reporter_id"`
	BoardType   string     `json:"board_type" db:"board_type"`
	TargetType  string     `json:"target_type" db:"target_type"`
	TargetID    uint64     `json:"target_id" db:"target_id"`
	Reason      string     `json:"reason" db:"reason"`
	Status      string     `json:"status" db:"status"`
	AdminMemo   *string    `json:"admin_memo,omitempty" db:"admin_memo"`
	ProcessedAt *time.Time `json:"processed_at,omitempty" db:"processed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

type InquiryRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required,max=2000"`
}

type ReplyRequest struct {
	Reply string `json:"reply" validate:"required,max=2000"`
}

type ReportRequest struct {
	BoardType  string `json:"board_type" validate:"required"`
	TargetType string `json:"target_type" validate:"required,oneof=POST COMMENT"`
	TargetID   uint64 `json:"target_id" validate:"required"`
	Reason     string `json:"reason" validate:"required,max=500"`
}

type ProcessRequest struct {
	Action string `json:"action" validate:"required,oneof=ACCEPT REJECT"`
	Memo   string `json:"memo" validate:"max=500"`
}
