package services

import (
	"database/sql"
	"regexp"
	"testing"

	"pizza-service/internal/errdefs"
	"pizza-service/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserService(t *testing.T) (*UserService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserService(db, zerolog.Nop()), mock
}

func TestUserService_Register(t *testing.T) {
	svc, mock := newTestUserService(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE email = ?")).
		WithArgs("test@jwt.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)")).
		WithArgs("test1", "test@jwt.com", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_roles (user_id, role) VALUES (?, ?)")).
		WithArgs(int64(3), "diner").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	user, err := svc.Register(&models.RegisterRequest{Name: "test1", Email: "test@jwt.com", Password: "a"})
	require.NoError(t, err)

	assert.Equal(t, 3, user.ID)
	assert.Equal(t, "test1", user.Name)
	assert.Equal(t, []models.Role{{Role: models.RoleDiner}}, user.Roles)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_RegisterDuplicateEmail(t *testing.T) {
	svc, mock := newTestUserService(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE email = ?")).
		WithArgs("test@jwt.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	_, err := svc.Register(&models.RegisterRequest{Name: "test1", Email: "test@jwt.com", Password: "a"})
	require.Error(t, err)
	assert.Equal(t, errdefs.KindValidation, errdefs.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_RegisterMissingFields(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.Register(&models.RegisterRequest{Email: "test@jwt.com"})
	require.Error(t, err)
	assert.Equal(t, errdefs.KindValidation, errdefs.KindOf(err))
}

func TestUserService_Authenticate(t *testing.T) {
	svc, mock := newTestUserService(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("a"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, password_hash FROM users WHERE email = ?")).
		WithArgs("d@jwt.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash"}).
			AddRow(3, "Kai Chen", "d@jwt.com", string(hash)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT role, object_id FROM user_roles WHERE user_id = ? ORDER BY id")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"role", "object_id"}).
			AddRow("diner", nil).
			AddRow("franchisee", 7))

	user, err := svc.Authenticate(&models.LoginRequest{Email: "d@jwt.com", Password: "a"})
	require.NoError(t, err)

	assert.Equal(t, 3, user.ID)
	assert.True(t, user.HasRole(models.RoleDiner))
	assert.True(t, user.IsFranchiseAdmin(7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_AuthenticateWrongPassword(t *testing.T) {
	svc, mock := newTestUserService(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("a"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, password_hash FROM users WHERE email = ?")).
		WithArgs("d@jwt.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash"}).
			AddRow(3, "Kai Chen", "d@jwt.com", string(hash)))

	_, err = svc.Authenticate(&models.LoginRequest{Email: "d@jwt.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, errdefs.KindAuth, errdefs.KindOf(err))
}

func TestUserService_AuthenticateUnknownEmail(t *testing.T) {
	svc, mock := newTestUserService(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, password_hash FROM users WHERE email = ?")).
		WithArgs("nobody@jwt.com").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.Authenticate(&models.LoginRequest{Email: "nobody@jwt.com", Password: "a"})
	require.Error(t, err)
	assert.Equal(t, errdefs.KindAuth, errdefs.KindOf(err))
}

func TestUserService_GetUserByIDNotFound(t *testing.T) {
	svc, mock := newTestUserService(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, password_hash FROM users WHERE id = ?")).
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	_, err := svc.GetUserByID(99)
	require.Error(t, err)
	assert.Equal(t, errdefs.KindNotFound, errdefs.KindOf(err))
}
