package member

import (
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"tripmate/internal/respond"
)

var memberRowColumns = []string{
	"id", "email", "nickname", "password", "role", "score", "agree_yn",
	"otp_secret", "last_login_at", "del_yn", "created_at", "updated_at",
}

func newMockService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewService(NewStore(sqlx.NewDb(db, "mysql"))), mock
}

func memberRow(id uint64, email, password, role string, otpSecret interface{}, delYn string) *sqlmock.Rows {
	now := time.Now()
	values := []driver.Value{id, email, "여행자", password, role, 0, true, otpSecret, nil, delYn, now, now}
	return sqlmock.NewRows(memberRowColumns).AddRow(values...)
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestSignupCreatesMember(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM members WHERE email = \?`).
		WithArgs("trip@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM members WHERE nickname = \?`).
		WithArgs("여행자").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO members`).
		WithArgs("trip@example.com", "여행자", sqlmock.AnyArg(), RoleUser, 0, true).
		WillReturnResult(sqlmock.NewResult(11, 1))

	id, err := svc.Signup(SignupRequest{
		Email:    " Trip@Example.com ",
		Nickname: "여행자",
		Password: "password123",
		Agree:    true,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(11), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSignupRejectsDuplicatesAndMissingAgreement(t *testing.T) {
	svc, mock := newMockService(t)

	_, err := svc.Signup(SignupRequest{Email: "a@b.com", Nickname: "닉네임", Password: "password123"})
	require.ErrorIs(t, err, respond.ErrBadRequest)

	_, err = svc.Signup(SignupRequest{Email: "not-email", Nickname: "닉네임", Password: "password123", Agree: true})
	require.ErrorIs(t, err, respond.ErrBadRequest)

	mock.ExpectQuery(`FROM members WHERE email = \?`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	_, err = svc.Signup(SignupRequest{Email: "a@b.com", Nickname: "닉네임", Password: "password123", Agree: true})
	require.ErrorIs(t, err, respond.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginChecksPassword(t *testing.T) {
	svc, mock := newMockService(t)
	hash := hashed(t, "password123")

	mock.ExpectQuery(`FROM members WHERE email = \?`).
		WithArgs("trip@example.com").
		WillReturnRows(memberRow(3, "trip@example.com", hash, RoleUser, nil, "N"))
	_, err := svc.Login(LoginRequest{Email: "trip@example.com", Password: "wrong-password"})
	require.ErrorIs(t, err, respond.ErrUnauthorized)

	mock.ExpectQuery(`FROM members WHERE email = \?`).
		WithArgs("trip@example.com").
		WillReturnRows(memberRow(3, "trip@example.com", hash, RoleUser, nil, "N"))
	mock.ExpectExec(`UPDATE members SET last_login_at = \?`).
		WithArgs(sqlmock.AnyArg(), 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	m, err := svc.Login(LoginRequest{Email: "trip@example.com", Password: "password123"})
	require.NoError(t, err)
	require.Equal(t, uint64(3), m.ID)
	require.NotNil(t, m.LastLoginAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginRejectsWithdrawnMember(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(`FROM members WHERE email = \?`).
		WillReturnRows(memberRow(3, "trip@example.com", hashed(t, "password123"), RoleUser, nil, "Y"))
	_, err := svc.Login(LoginRequest{Email: "trip@example.com", Password: "password123"})
	require.ErrorIs(t, err, respond.ErrUnauthorized)
}

func TestAdminLoginRequiresOTP(t *testing.T) {
	svc, mock := newMockService(t)
	hash := hashed(t, "password123")

	key, err := totp.Generate(totp.GenerateOpts{Issuer: otpIssuer, AccountName: "admin@example.com"})
	require.NoError(t, err)
	secret := key.Secret()

	mock.ExpectQuery(`FROM members WHERE email = \?`).
		WillReturnRows(memberRow(1, "admin@example.com", hash, RoleAdmin, secret, "N"))
	_, err = svc.Login(LoginRequest{Email: "admin@example.com", Password: "password123"})
	require.ErrorIs(t, err, respond.ErrUnauthorized)
	require.Contains(t, err.Error(), "OTP")

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	mock.ExpectQuery(`FROM members WHERE email = \?`).
		WillReturnRows(memberRow(1, "admin@example.com", hash, RoleAdmin, secret, "N"))
	mock.ExpectExec(`UPDATE members SET last_login_at`).WillReturnResult(sqlmock.NewResult(0, 1))
	m, err := svc.Login(LoginRequest{Email: "admin@example.com", Password: "password123", OtpCode: code})
	require.NoError(t, err)
	require.Equal(t, RoleAdmin, m.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeRole(t *testing.T) {
	svc, mock := newMockService(t)

	require.ErrorIs(t, svc.ChangeRole(1, 1, RoleUser), respond.ErrForbidden)
	require.ErrorIs(t, svc.ChangeRole(1, 2, "ROOT"), respond.ErrBadRequest)

	mock.ExpectQuery(`FROM members WHERE id = \?`).
		WithArgs(2).
		WillReturnRows(memberRow(2, "u@example.com", "x", RoleUser, nil, "N"))
	mock.ExpectExec(`UPDATE members SET role = \? WHERE id = \?`).
		WithArgs(RoleAdmin, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, svc.ChangeRole(1, 2, RoleAdmin))

	mock.ExpectQuery(`FROM members WHERE id = \?`).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows(memberRowColumns))
	require.ErrorIs(t, svc.ChangeRole(1, 9, RoleAdmin), respond.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFinalizeOTPSetupRejectsWrongCode(t *testing.T) {
	svc, _ := newMockService(t)
	key, err := totp.Generate(totp.GenerateOpts{Issuer: otpIssuer, AccountName: "admin@example.com"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.FinalizeOTPSetup(1, key.Secret(), "000000x"), respond.ErrBadRequest)
}

func TestListMembersExcludesWithdrawn(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(`FROM members WHERE del_yn = 'N' ORDER BY id DESC LIMIT \?, \?`).
		WithArgs(10, 10).
		WillReturnRows(memberRow(5, "u@example.com", "x", RoleUser, nil, "N"))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM members WHERE del_yn = 'N'`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	page, err := svc.ListMembers(2, 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, 11, page.Total)
	require.Equal(t, 2, page.Page)
	require.Equal(t, 10, page.Size)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMeRejectsTakenNickname(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(`FROM members WHERE id = \?`).
		WithArgs(3).
		WillReturnRows(memberRow(3, "u@example.com", "x", RoleUser, nil, "N"))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM members WHERE nickname = \?`).
		WithArgs("바다").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err := svc.UpdateMe(3, UpdateRequest{Nickname: " 바다 "})
	require.ErrorIs(t, err, respond.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMeChangesNickname(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(`FROM members WHERE id = \?`).
		WithArgs(3).
		WillReturnRows(memberRow(3, "u@example.com", "x", RoleUser, nil, "N"))
	mock.ExpectQuery(`FROM members WHERE nickname = \?`).
		WithArgs("바다").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`UPDATE members\s+SET nickname = \?, password = \?\s+WHERE id = \? AND del_yn = 'N'`).
		WithArgs("바다", "x", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	m, err := svc.UpdateMe(3, UpdateRequest{Nickname: "바다"})
	require.NoError(t, err)
	require.Equal(t, "바다", m.Nickname)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdraw(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectExec(`UPDATE members SET del_yn = 'Y' WHERE id = \? AND del_yn = 'N'`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, svc.Withdraw(3))

	mock.ExpectExec(`UPDATE members SET del_yn = 'Y'`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, svc.Withdraw(3), respond.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActiveRoleReadsCurrentRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewStore(sqlx.NewDb(db, "mysql"))

	mock.ExpectQuery(`FROM members WHERE id = \?`).
		WithArgs(1).
		WillReturnRows(memberRow(1, "a@example.com", "x", RoleUser, nil, "N"))
	role, active, err := store.ActiveRole(1)
	require.NoError(t, err)
	require.True(t, active)
	require.Equal(t, RoleUser, role)

	mock.ExpectQuery(`FROM members WHERE id = \?`).
		WithArgs(2).
		WillReturnRows(memberRow(2, "b@example.com", "x", RoleAdmin, nil, "Y"))
	_, active, err = store.ActiveRole(2)
	require.NoError(t, err)
	require.False(t, active)

	mock.ExpectQuery(`FROM members WHERE id = \?`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(memberRowColumns))
	_, active, err = store.ActiveRole(3)
	require.NoError(t, err)
	require.False(t, active)
	require.NoError(t, mock.ExpectationsWereMet())
}
