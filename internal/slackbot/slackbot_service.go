package slackbot

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	slacknotificator "github.com/sizzlei/slack-notificator"
	"github.com/slack-go/slack"
)

// 필드 값 최대 길이 (긴 본문은 잘라서 표시)
const maxFieldValue = 300

// Notifier는 신규 문의/신고를 관리자 Slack 채널로 알립니다.
// 봇 토큰이 비어 있으면 아무것도 보내지 않습니다.
type Notifier struct {
	botToken  string
	channelID string
	send      func(channelID, text string, attachment slack.Attachment) error
}

// NewNotifier는 새 Notifier를 생성합니다.
func NewNotifier(botToken, channelID string) *Notifier {
	n := &Notifier{botToken: botToken, channelID: channelID}
	n.send = func(channelID, text string, attachment slack.Attachment) error {
		api := slacknotificator.GetClient(n.botToken)
		return api.SetChannel(channelID).SendAttachment(text, attachment)
	}
	return n
}

// Enabled는 알림 발송 가능 여부입니다.
func (n *Notifier) Enabled() bool {
	return n.botToken != "" && n.channelID != ""
}

// buildAttachment는 Alert를 slack attachment로 변환합니다.
func buildAttachment(a Alert) slack.Attachment {
	color := a.Color
	if color == "" {
		color = "#36a64f"
	}

	fields := make([]slack.AttachmentField, 0, len(a.Fields))
	for _, f := range a.Fields {
		value := strings.ReplaceAll(f.Value, "\r\n", "\n")
		if r := []rune(value); len(r) > maxFieldValue {
			value = string(r[:maxFieldValue]) + "…"
		}
		fields = append(fields, slack.AttachmentField{Title: f.Title, Value: value, Short: f.Short})
	}

	return slack.Attachment{
		Color:    color,
		Fallback: a.Title,
		Fields:   fields,
	}
}

// Send는 알림을 동기로 발송합니다.
func (n *Notifier) Send(a Alert) error {
	if !n.Enabled() {
		return nil
	}
	if err := n.send(n.channelID, a.Title, buildAttachment(a)); err != nil {
		return fmt.Errorf("Slack 알림(%s) 발송 실패: %w", a.Title, err)
	}
	return nil
}

// Notify는 요청 처리를 막지 않도록 별도 고루틴에서 발송하고, 실패는 로그만 남깁니다.
func (n *Notifier) Notify(a Alert) {
	if !n.Enabled() {
		return
	}
	go func() {
		if err := n.Send(a); err != nil {
			log.Errorf("[Slack] %v", err)
			return
		}
		log.Infof("[Slack] 알림 발송 성공: %s", a.Title)
	}()
}
