package dashboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"tripmate/internal/board"
)

type fakeCounts struct {
	failPosts bool
}

func (fakeCounts) CountMembers() (int, error)          { return 42, nil }
func (fakeCounts) CountWaitingInquiries() (int, error) { return 3, nil }
func (fakeCounts) CountWaitingReports() (int, error)   { return 1, nil }
func (fakeCounts) CountLiveComments() (int, error)     { return 120, nil }

func (f fakeCounts) CountLivePosts(k board.Kind) (int, error) {
	if f.failPosts && k.Name == "review" {
		return 0, errors.New("db down")
	}
	return len(k.Name), nil
}

func TestGetDashboardData(t *testing.T) {
	f := fakeCounts{}
	data, err := NewService(f, f, f, f).GetDashboardData()
	require.NoError(t, err)
	require.Equal(t, 42, data.MemberCount)
	require.Equal(t, 3, data.WaitingInquiries)
	require.Equal(t, 1, data.WaitingReports)
	require.Equal(t, 120, data.CommentCount)
	require.Len(t, data.PostCounts, len(board.Kinds()))
	require.Equal(t, len("newsletter"), data.PostCounts["newsletter"])
}

func TestGetDashboardDataFailsOnAnyCount(t *testing.T) {
	f := fakeCounts{failPosts: true}
	_, err := NewService(f, f, f, f).GetDashboardData()
	require.Error(t, err)
}
