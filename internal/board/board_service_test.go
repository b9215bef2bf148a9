package board

import (
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"tripmate/internal/respond"
)

var postRowColumns = []string{
	"id", "title", "content", "member_id", "nickname", "category", "region", "rating",
	"start_de", "end_de", "images", "view_count", "like_count", "report_count", "del_yn",
	"created_at", "updated_at",
}

type fakeScores struct {
	added map[uint64]int
}

func (f *fakeScores) AddScore(memberID uint64, delta int) error {
	if f.added == nil {
		f.added = map[uint64]int{}
	}
	f.added[memberID] += delta
	return nil
}

func newMockService(t *testing.T) (*Service, sqlmock.Sqlmock, *fakeScores) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	scores := &fakeScores{}
	return NewService(NewStore(sqlx.NewDb(db, "mysql")), scores), mock, scores
}

func postRow(id, memberID uint64, likeCount int, delYn string) *sqlmock.Rows {
	now := time.Now()
	values := []driver.Value{
		id, "제주 3박 4일", "본문", memberID, "여행자", nil, nil, nil,
		nil, nil, "a.jpg,b.png", 10, likeCount, 0, delYn, now, now,
	}
	return sqlmock.NewRows(postRowColumns).AddRow(values...)
}

func mustKind(t *testing.T, name string) Kind {
	t.Helper()
	k, ok := Lookup(name)
	require.True(t, ok)
	return k
}

func TestToggleLikeTwiceRestoresState(t *testing.T) {
	svc, mock, _ := newMockService(t)
	k := mustKind(t, "free")

	// 1회차: 추가
	mock.ExpectQuery(`FROM board_free AS p`).WithArgs(7).WillReturnRows(postRow(7, 1, 3, "N"))
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM board_reactions`).
		WithArgs("free", 7, 2, ReactionLike).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO board_reactions`).
		WithArgs("free", 7, 2, ReactionLike).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`UPDATE board_free SET like_count`).WithArgs(1, 7).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT like_count FROM board_free`).WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"like_count"}).AddRow(4))
	mock.ExpectCommit()

	// 2회차: 취소
	mock.ExpectQuery(`FROM board_free AS p`).WithArgs(7).WillReturnRows(postRow(7, 1, 4, "N"))
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM board_reactions`).
		WithArgs("free", 7, 2, ReactionLike).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(`DELETE FROM board_reactions`).
		WithArgs("free", 7, 2, ReactionLike).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE board_free SET like_count`).WithArgs(-1, 7).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT like_count FROM board_free`).WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"like_count"}).AddRow(3))
	mock.ExpectCommit()

	first, err := svc.ToggleReaction(k, 7, 2, ReactionLike)
	require.NoError(t, err)
	require.True(t, first.Active)
	require.Equal(t, 4, first.LikeCount)

	second, err := svc.ToggleReaction(k, 7, 2, ReactionLike)
	require.NoError(t, err)
	require.False(t, second.Active)
	require.Equal(t, 3, second.LikeCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleBookmarkKeepsLikeCount(t *testing.T) {
	svc, mock, _ := newMockService(t)
	k := mustKind(t, "review")

	mock.ExpectQuery(`FROM board_review AS p`).WithArgs(3).WillReturnRows(postRow(3, 1, 5, "N"))
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM board_reactions`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO board_reactions`).
		WithArgs("review", 3, 2, ReactionBookmark).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`SELECT like_count FROM board_review`).
		WillReturnRows(sqlmock.NewRows([]string{"like_count"}).AddRow(5))
	mock.ExpectCommit()

	result, err := svc.ToggleReaction(k, 3, 2, ReactionBookmark)
	require.NoError(t, err)
	require.True(t, result.Active)
	require.Equal(t, 5, result.LikeCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleReactionRejectsUnsupportedBoardAndDeletedPost(t *testing.T) {
	svc, mock, _ := newMockService(t)

	_, err := svc.ToggleReaction(mustKind(t, "notice"), 1, 2, ReactionLike)
	require.ErrorIs(t, err, respond.ErrBadRequest)

	mock.ExpectQuery(`FROM board_free AS p`).WillReturnRows(postRow(1, 1, 0, "Y"))
	_, err = svc.ToggleReaction(mustKind(t, "free"), 1, 2, ReactionLike)
	require.ErrorIs(t, err, respond.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateChecksBoardRules(t *testing.T) {
	svc, mock, scores := newMockService(t)

	// 관리자 전용 게시판
	_, err := svc.Create(mustKind(t, "notice"), 2, "USER", PostRequest{Title: "공지", Content: "내용"})
	require.ErrorIs(t, err, respond.ErrForbidden)

	// 후기는 별점 필수
	_, err = svc.Create(mustKind(t, "review"), 2, "USER", PostRequest{Title: "후기", Content: "좋았어요"})
	require.ErrorIs(t, err, respond.ErrBadRequest)

	// 이벤트 기간 역전
	_, err = svc.Create(mustKind(t, "event"), 1, "ADMIN", PostRequest{
		Title: "이벤트", Content: "내용", StartDe: "2026-05-10", EndDe: "2026-05-01",
	})
	require.ErrorIs(t, err, respond.ErrBadRequest)

	// 경로가 포함된 이미지 이름
	_, err = svc.Create(mustKind(t, "free"), 2, "USER", PostRequest{
		Title: "제목", Content: "내용", Images: []string{"../etc/passwd"},
	})
	require.ErrorIs(t, err, respond.ErrBadRequest)

	mock.ExpectExec(`INSERT INTO board_review`).WillReturnResult(sqlmock.NewResult(21, 1))
	id, err := svc.Create(mustKind(t, "review"), 2, "USER", PostRequest{
		Title: "부산 후기", Content: "맛집 투어", Rating: 5, Images: []string{"f3b1.jpg"},
	})
	require.NoError(t, err)
	require.Equal(t, uint64(21), id)
	require.Equal(t, scorePerPost, scores.added[2])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAndDeleteRequireOwnerOrAdmin(t *testing.T) {
	svc, mock, _ := newMockService(t)
	k := mustKind(t, "free")

	mock.ExpectQuery(`FROM board_free AS p`).WithArgs(5).WillReturnRows(postRow(5, 1, 0, "N"))
	err := svc.Update(k, 5, 2, "USER", PostRequest{Title: "수정", Content: "내용"})
	require.ErrorIs(t, err, respond.ErrForbidden)

	mock.ExpectQuery(`FROM board_free AS p`).WithArgs(5).WillReturnRows(postRow(5, 1, 0, "N"))
	err = svc.Delete(k, 5, 2, "USER")
	require.ErrorIs(t, err, respond.ErrForbidden)

	mock.ExpectQuery(`FROM board_free AS p`).WithArgs(5).WillReturnRows(postRow(5, 1, 0, "N"))
	mock.ExpectExec(`UPDATE board_free SET del_yn = 'Y'`).WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, svc.Delete(k, 5, 9, "ADMIN"))

	mock.ExpectQuery(`FROM board_free AS p`).WithArgs(5).WillReturnRows(sqlmock.NewRows(postRowColumns))
	err = svc.Delete(k, 5, 1, "USER")
	require.ErrorIs(t, err, respond.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDetailFillsReactionsForMember(t *testing.T) {
	svc, mock, _ := newMockService(t)
	mock.MatchExpectationsInOrder(false)
	k := mustKind(t, "free")

	mock.ExpectQuery(`FROM board_free AS p`).WithArgs(7).WillReturnRows(postRow(7, 1, 3, "N"))
	mock.ExpectExec(`UPDATE board_free SET view_count = view_count \+ 1`).WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM board_reactions`).WithArgs("free", 7, 2, ReactionLike).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`FROM board_reactions`).WithArgs("free", 7, 2, ReactionBookmark).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	post, err := svc.Detail(k, 7, 2, true)
	require.NoError(t, err)
	require.True(t, post.Liked)
	require.False(t, post.Bookmarked)
	require.Equal(t, []string{"a.jpg", "b.png"}, post.ImageList)
	require.Equal(t, 11, post.ViewCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDetailSkipsViewCountForDeletedOrMissingPost(t *testing.T) {
	svc, mock, _ := newMockService(t)
	k := mustKind(t, "free")

	mock.ExpectQuery(`FROM board_free AS p`).WithArgs(7).WillReturnRows(postRow(7, 1, 3, "Y"))
	_, err := svc.Detail(k, 7, 0, true)
	require.ErrorIs(t, err, respond.ErrNotFound)

	mock.ExpectQuery(`FROM board_free AS p`).WithArgs(8).WillReturnRows(sqlmock.NewRows(postRowColumns))
	_, err = svc.Detail(k, 8, 0, true)
	require.ErrorIs(t, err, respond.ErrNotFound)

	// UPDATE 기대값이 없으므로 조회수 증가가 실행되면 실패
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListNormalizesPaging(t *testing.T) {
	svc, mock, _ := newMockService(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM board_free`).WithArgs("%제주%", "%제주%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`ORDER BY p.like_count DESC`).WithArgs("%제주%", "%제주%", 0, 50).
		WillReturnRows(postRow(1, 1, 3, "N"))

	page, err := svc.List(mustKind(t, "free"), ListQuery{Page: 0, Size: 500, Keyword: "제주", Sort: "likes"})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.Equal(t, 50, page.Size)
	require.Len(t, page.Items, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListFilters(t *testing.T) {
	k := mustKind(t, "free")
	cases := []struct {
		name  string
		q     ListQuery
		where string
		order string
		args  []driver.Value
	}{
		{
			name:  "제목 검색",
			q:     ListQuery{Keyword: "제주", Field: "title"},
			where: `WHERE p.del_yn = 'N' AND p.title LIKE \?`,
			order: `ORDER BY p.id DESC`,
			args:  []driver.Value{"%제주%"},
		},
		{
			name:  "본문 검색 + 조회순",
			q:     ListQuery{Keyword: "맛집", Field: "content", Sort: "views"},
			where: `WHERE p.del_yn = 'N' AND p.content LIKE \?`,
			order: `ORDER BY p.view_count DESC, p.id DESC`,
			args:  []driver.Value{"%맛집%"},
		},
		{
			name:  "작성자 검색 + 좋아요순",
			q:     ListQuery{Keyword: "여행자", Field: "writer", Sort: "likes"},
			where: `WHERE p.del_yn = 'N' AND m.nickname LIKE \?`,
			order: `ORDER BY p.like_count DESC, p.id DESC`,
			args:  []driver.Value{"%여행자%"},
		},
		{
			name:  "진행 중",
			q:     ListQuery{Status: "ongoing", Category: "축제"},
			where: `WHERE p.del_yn = 'N' AND p.category = \? AND p.end_de >= CURDATE\(\)`,
			order: `ORDER BY p.id DESC`,
			args:  []driver.Value{"축제"},
		},
		{
			name:  "종료",
			q:     ListQuery{Status: "ended"},
			where: `WHERE p.del_yn = 'N' AND p.end_de < CURDATE\(\)`,
			order: `ORDER BY p.id DESC`,
		},
		{
			name:  "와일드카드 이스케이프",
			q:     ListQuery{Keyword: `100%_\`, Field: "title"},
			where: `WHERE p.del_yn = 'N' AND p.title LIKE \?`,
			order: `ORDER BY p.id DESC`,
			args:  []driver.Value{`%100\%\_\\%`},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, mock, _ := newMockService(t)

			mock.ExpectQuery(`SELECT COUNT\(\*\) FROM board_free AS p .*` + tc.where + `$`).
				WithArgs(tc.args...).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
			mock.ExpectQuery(tc.where + ` ` + tc.order + ` LIMIT \?, \?`).
				WithArgs(append(tc.args, 0, 10)...).
				WillReturnRows(sqlmock.NewRows(postRowColumns))

			page, err := svc.List(k, tc.q)
			require.NoError(t, err)
			require.Empty(t, page.Items)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPopularUsesSevenDayWindow(t *testing.T) {
	svc, mock, _ := newMockService(t)
	now := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	mock.ExpectQuery(`WHERE p.del_yn = 'N' AND p.created_at >= \?\s+ORDER BY p.like_count DESC`).
		WithArgs(now.Add(-7*24*time.Hour), 5).
		WillReturnRows(postRow(3, 1, 9, "N"))

	posts, err := svc.Popular(mustKind(t, "recommend"))
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, []string{"a.jpg", "b.png"}, posts[0].ImageList)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookmarksPaging(t *testing.T) {
	svc, mock, _ := newMockService(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\)\s+FROM board_reactions AS r`).
		WithArgs("free", 2, ReactionBookmark).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`ORDER BY r.id DESC LIMIT \?, \?`).
		WithArgs("free", 2, ReactionBookmark, 10, 10).
		WillReturnRows(postRow(1, 1, 0, "N"))

	page, err := svc.Bookmarks(mustKind(t, "free"), 2, 2, 10)
	require.NoError(t, err)
	require.Equal(t, 12, page.Total)
	require.Equal(t, 2, page.Page)
	require.Len(t, page.Items, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}
