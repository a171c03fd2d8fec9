package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/edi2410/algebra-radegast/internal/models"
	appErrors "github.com/edi2410/algebra-radegast/pkg/errors"
)

func newAuthFixture(t *testing.T, expiration time.Duration) (*AuthService, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	userSvc := NewUserService(repo, validator.New(), zap.NewNop())
	authSvc := NewAuthService(repo, userSvc, validator.New(), zap.NewNop(), nil, AuthConfig{
		Secret:     "test-secret",
		Expiration: expiration,
	})
	return authSvc, repo
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, password string, role models.UserRole) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	return repo.add(&models.User{Email: email, PasswordHash: string(hash), Role: role})
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	svc, repo := newAuthFixture(t, time.Hour)
	seedUser(t, repo, "user@example.com", "password123", models.RoleTeacher)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "bearer", res.TokenType)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	svc, repo := newAuthFixture(t, time.Hour)
	seedUser(t, repo, "user@example.com", "password123", models.RoleTeacher)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "wrong-password"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginDoesNotLeakAccountExistence(t *testing.T) {
	svc, repo := newAuthFixture(t, time.Hour)
	seedUser(t, repo, "known@example.com", "password123", models.RoleTeacher)

	_, unknownErr := svc.Login(context.Background(), models.LoginRequest{Email: "unknown@example.com", Password: "password123"})
	_, wrongPassErr := svc.Login(context.Background(), models.LoginRequest{Email: "known@example.com", Password: "wrong-password"})

	require.Error(t, unknownErr)
	require.Error(t, wrongPassErr)
	assert.Equal(t, appErrors.FromError(wrongPassErr).Code, appErrors.FromError(unknownErr).Code)
	assert.Equal(t, appErrors.FromError(wrongPassErr).Message, appErrors.FromError(unknownErr).Message)
}

func TestAuthServiceRegisterAndResolve(t *testing.T) {
	svc, _ := newAuthFixture(t, time.Hour)

	name := "New Teacher"
	res, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:    "new@example.com",
		Password: "password123",
		FullName: &name,
		Role:     models.RoleTeacher,
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)

	user, err := svc.ResolveUser(context.Background(), res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, models.RoleTeacher, user.Role)
}

func TestAuthServiceRegisterDuplicateEmail(t *testing.T) {
	svc, repo := newAuthFixture(t, time.Hour)
	seedUser(t, repo, "taken@example.com", "password123", models.RoleGuest)

	_, err := svc.Register(context.Background(), models.RegisterRequest{Email: "taken@example.com", Password: "password123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateEmail.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceTokenSubjectIsEmail(t *testing.T) {
	svc, repo := newAuthFixture(t, time.Hour)
	seedUser(t, repo, "user@example.com", "password123", models.RoleGuest)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "password123"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestAuthServiceExpiredTokenRejected(t *testing.T) {
	svc, repo := newAuthFixture(t, -time.Minute)
	seedUser(t, repo, "user@example.com", "password123", models.RoleGuest)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(res.AccessToken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceTamperedTokenRejected(t *testing.T) {
	svc, repo := newAuthFixture(t, time.Hour)
	seedUser(t, repo, "user@example.com", "password123", models.RoleGuest)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "password123"})
	require.NoError(t, err)

	forged := NewAuthService(nil, nil, validator.New(), zap.NewNop(), nil, AuthConfig{Secret: "other-secret", Expiration: time.Hour})
	_, err = forged.ValidateToken(res.AccessToken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceResolveUserDeletedAccount(t *testing.T) {
	svc, repo := newAuthFixture(t, time.Hour)
	user := seedUser(t, repo, "gone@example.com", "password123", models.RoleGuest)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "gone@example.com", Password: "password123"})
	require.NoError(t, err)

	delete(repo.byEmail, user.Email)
	delete(repo.byID, user.ID)

	_, err = svc.ResolveUser(context.Background(), res.AccessToken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
