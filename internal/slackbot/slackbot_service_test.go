package slackbot

import (
	"errors"
	"strings"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/require"
)

func TestSendSkipsWhenDisabled(t *testing.T) {
	n := NewNotifier("", "C123")
	called := false
	n.send = func(string, string, slack.Attachment) error {
		called = true
		return nil
	}

	require.False(t, n.Enabled())
	require.NoError(t, n.Send(Alert{Title: "새 문의"}))
	require.False(t, called)
}

func TestSendBuildsAttachment(t *testing.T) {
	n := NewNotifier("xoxb-test", "C123")

	var gotChannel, gotText string
	var got slack.Attachment
	n.send = func(channelID, text string, attachment slack.Attachment) error {
		gotChannel, gotText, got = channelID, text, attachment
		return nil
	}

	long := strings.Repeat("가", maxFieldValue+10)
	err := n.Send(Alert{
		Title: "[신고] 자유게시판 게시글 #7",
		Color: "#e01e5a",
		Fields: []Field{
			{Title: "사유", Value: long},
			{Title: "신고자", Value: "3", Short: true},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "C123", gotChannel)
	require.Equal(t, "[신고] 자유게시판 게시글 #7", gotText)
	require.Equal(t, "#e01e5a", got.Color)
	require.Len(t, got.Fields, 2)
	require.Equal(t, maxFieldValue+1, len([]rune(got.Fields[0].Value)))
	require.True(t, got.Fields[1].Short)
}

func TestSendWrapsClientError(t *testing.T) {
	n := NewNotifier("xoxb-test", "C123")
	n.send = func(string, string, slack.Attachment) error { return errors.New("channel_not_found") }

	err := n.Send(Alert{Title: "새 문의"})
	require.ErrorContains(t, err, "channel_not_found")
}
