package service

import (
	"context"
	"testing"
	"time"

	"github.com/oakstead/careledger/internal/config"
	"github.com/oakstead/careledger/internal/logger"
	"github.com/oakstead/careledger/internal/store"
	"github.com/oakstead/careledger/internal/utils"
	"github.com/oakstead/careledger/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// mockUserRepository is a function-field test double for
// [store.UserRepository].
type mockUserRepository struct {
	saveUserFunc            func(ctx context.Context, user *models.User) error
	getUserByIDFunc         func(ctx context.Context, id int64) (models.User, error)
	getUserByEmailFunc      func(ctx context.Context, email string) (models.User, error)
	listUsersFunc           func(ctx context.Context) ([]models.User, error)
	updateUserRoleFunc      func(ctx context.Context, id int64, role models.Role, stamp time.Time) error
	setResetTokenFunc       func(ctx context.Context, userID int64, token string, expires time.Time) error
	getUserByResetTokenFunc func(ctx context.Context, token string) (models.User, error)
	updatePasswordFunc      func(ctx context.Context, userID int64, passwordHash string, stamp time.Time) error
}

func (m *mockUserRepository) SaveUser(ctx context.Context, user *models.User) error {
	return m.saveUserFunc(ctx, user)
}

func (m *mockUserRepository) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	return m.getUserByIDFunc(ctx, id)
}

func (m *mockUserRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return m.getUserByEmailFunc(ctx, email)
}

func (m *mockUserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	return m.listUsersFunc(ctx)
}

func (m *mockUserRepository) UpdateUserRole(ctx context.Context, id int64, role models.Role, stamp time.Time) error {
	return m.updateUserRoleFunc(ctx, id, role, stamp)
}

func (m *mockUserRepository) SetResetToken(ctx context.Context, userID int64, token string, expires time.Time) error {
	return m.setResetTokenFunc(ctx, userID, token, expires)
}

func (m *mockUserRepository) GetUserByResetToken(ctx context.Context, token string) (models.User, error) {
	return m.getUserByResetTokenFunc(ctx, token)
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string, stamp time.Time) error {
	return m.updatePasswordFunc(ctx, userID, passwordHash, stamp)
}

// recordingSender captures outbound mail for assertions.
type recordingSender struct {
	recipient string
	subject   string
	body      string
}

func (s *recordingSender) Send(_ context.Context, recipient, subject, body string) error {
	s.recipient = recipient
	s.subject = subject
	s.body = body
	return nil
}

var testAppConfig = config.App{
	TokenSignKey:       "test-sign-key",
	TokenIssuer:        "careledger-test",
	TokenDuration:      time.Hour,
	ResetTokenDuration: time.Hour,
}

func newAuthServiceForTest(users store.UserRepository, sender *recordingSender) AuthService {
	return NewAuthService(users, sender, testAppConfig, utils.NewUUIDGenerator(), fixedClock, logger.Nop())
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLogin_IssuesParsableToken(t *testing.T) {
	users := &mockUserRepository{
		getUserByEmailFunc: func(_ context.Context, email string) (models.User, error) {
			return models.User{
				ID:           42,
				Email:        email,
				Role:         models.RoleStaff,
				PasswordHash: hashPassword(t, "correct horse"),
			}, nil
		},
	}
	svc := newAuthServiceForTest(users, &recordingSender{})

	token, err := svc.Login(context.Background(), "staff@oakstead.example", "correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, token.SignedString)

	parsed, err := svc.ParseToken(token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, int64(42), parsed.UserID)
	assert.Equal(t, models.RoleStaff, parsed.Role)
	assert.Equal(t, models.Principal{UserID: 42, Role: models.RoleStaff}, parsed.Principal())
}

func TestLogin_WrongPassword(t *testing.T) {
	users := &mockUserRepository{
		getUserByEmailFunc: func(_ context.Context, email string) (models.User, error) {
			return models.User{ID: 42, PasswordHash: hashPassword(t, "right")}, nil
		},
	}
	svc := newAuthServiceForTest(users, &recordingSender{})

	_, err := svc.Login(context.Background(), "staff@oakstead.example", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmailIndistinguishableFromWrongPassword(t *testing.T) {
	users := &mockUserRepository{
		getUserByEmailFunc: func(context.Context, string) (models.User, error) {
			return models.User{}, store.ErrUserNotFound
		},
	}
	svc := newAuthServiceForTest(users, &recordingSender{})

	_, err := svc.Login(context.Background(), "nobody@oakstead.example", "whatever")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseToken_RejectsForeignSignature(t *testing.T) {
	svc := newAuthServiceForTest(&mockUserRepository{}, &recordingSender{})

	foreign, err := utils.GenerateJWTToken("careledger-test", 42, models.RoleStaff, time.Hour, "other-key")
	require.NoError(t, err)

	_, err = svc.ParseToken(foreign.SignedString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRequestPasswordReset_StoresTokenAndEmailsIt(t *testing.T) {
	var storedToken string
	var storedExpires time.Time
	users := &mockUserRepository{
		getUserByEmailFunc: func(_ context.Context, email string) (models.User, error) {
			return models.User{ID: 7, Email: email, Name: "Jordan"}, nil
		},
		setResetTokenFunc: func(_ context.Context, userID int64, token string, expires time.Time) error {
			storedToken = token
			storedExpires = expires
			return nil
		},
	}
	sender := &recordingSender{}
	svc := newAuthServiceForTest(users, sender)

	err := svc.RequestPasswordReset(context.Background(), "jordan@oakstead.example")
	require.NoError(t, err)

	assert.NotEmpty(t, storedToken)
	assert.Equal(t, fixedNow.Add(time.Hour), storedExpires)
	assert.Equal(t, "jordan@oakstead.example", sender.recipient)
	assert.Contains(t, sender.body, storedToken)
}

func TestRequestPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	users := &mockUserRepository{
		getUserByEmailFunc: func(context.Context, string) (models.User, error) {
			return models.User{}, store.ErrUserNotFound
		},
	}
	sender := &recordingSender{}
	svc := newAuthServiceForTest(users, sender)

	err := svc.RequestPasswordReset(context.Background(), "nobody@oakstead.example")

	assert.NoError(t, err)
	assert.Empty(t, sender.recipient, "no mail must be sent for unknown addresses")
}

func TestConfirmPasswordReset(t *testing.T) {
	var newHash string
	users := &mockUserRepository{
		getUserByResetTokenFunc: func(_ context.Context, token string) (models.User, error) {
			return models.User{ID: 7}, nil
		},
		updatePasswordFunc: func(_ context.Context, userID int64, passwordHash string, _ time.Time) error {
			newHash = passwordHash
			return nil
		},
	}
	svc := newAuthServiceForTest(users, &recordingSender{})

	err := svc.ConfirmPasswordReset(context.Background(), "some-token", "new password 1")
	require.NoError(t, err)

	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(newHash), []byte("new password 1")))
}

func TestConfirmPasswordReset_UnknownToken(t *testing.T) {
	users := &mockUserRepository{
		getUserByResetTokenFunc: func(context.Context, string) (models.User, error) {
			return models.User{}, store.ErrUserNotFound
		},
	}
	svc := newAuthServiceForTest(users, &recordingSender{})

	err := svc.ConfirmPasswordReset(context.Background(), "stale-token", "new password 1")

	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestConfirmPasswordReset_ShortPassword(t *testing.T) {
	svc := newAuthServiceForTest(&mockUserRepository{}, &recordingSender{})

	err := svc.ConfirmPasswordReset(context.Background(), "some-token", "short")

	assert.ErrorIs(t, err, ErrValidation)
}
