package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/railis/core/internal/domain/entities"
	"github.com/railis/core/internal/infrastructure/config"
	"github.com/railis/core/internal/infrastructure/logger"
	"github.com/railis/core/internal/ports"
)

type fakeAuthRepo struct {
	tokens map[string]*ports.RefreshToken
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{tokens: make(map[string]*ports.RefreshToken)}
}

func (r *fakeAuthRepo) CreateRefreshToken(_ context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	r.tokens[tokenHash] = &ports.RefreshToken{
		ID:        len(r.tokens) + 1,
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	return nil
}

func (r *fakeAuthRepo) GetRefreshToken(_ context.Context, tokenHash string) (*ports.RefreshToken, error) {
	token, ok := r.tokens[tokenHash]
	if !ok {
		return nil, entities.ErrInvalidCredentials
	}
	copied := *token
	return &copied, nil
}

func (r *fakeAuthRepo) RevokeRefreshToken(_ context.Context, tokenHash string) error {
	if token, ok := r.tokens[tokenHash]; ok && token.RevokedAt == nil {
		now := time.Now()
		token.RevokedAt = &now
	}
	return nil
}

func (r *fakeAuthRepo) RevokeAllUserTokens(_ context.Context, userID uuid.UUID) error {
	now := time.Now()
	for _, token := range r.tokens {
		if token.UserID == userID && token.RevokedAt == nil {
			token.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeAuthRepo) CleanupExpiredTokens(_ context.Context) error {
	for hash, token := range r.tokens {
		if token.IsExpired() {
			delete(r.tokens, hash)
		}
	}
	return nil
}

func newTestAuthService(users *fakeUserRepo) (*AuthService, *fakeAuthRepo) {
	authRepo := newFakeAuthRepo()
	cfg := config.JWTConfig{
		Secret:           "test-secret-do-not-use",
		ExpiresIn:        time.Hour,
		RefreshExpiresIn: 24 * time.Hour,
		Issuer:           "railis-test",
	}
	return NewAuthService(users, authRepo, cfg, logger.NewNop()), authRepo
}

func TestRegisterCreatesWorker(t *testing.T) {
	users := newFakeUserRepo()
	svc, _ := newTestAuthService(users)

	user, err := svc.Register(context.Background(), ports.RegisterRequest{
		Name:     "Sara",
		Email:    "sara@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	assert.Equal(t, entities.UserRoleWorker, user.Role)
	assert.Empty(t, user.PasswordHash)

	stored, err := users.GetByEmail(context.Background(), "sara@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newFakeUserRepo(&entities.User{ID: uuid.New(), Email: "taken@example.com", Role: entities.UserRoleWorker})
	svc, _ := newTestAuthService(users)

	_, err := svc.Register(context.Background(), ports.RegisterRequest{
		Name:     "Dup",
		Email:    "taken@example.com",
		Password: "secret123",
	})

	assert.ErrorIs(t, err, entities.ErrEmailTaken)
}

func TestLoginAndValidateToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &entities.User{
		ID:           uuid.New(),
		Name:         "Lina",
		Email:        "lina@example.com",
		PasswordHash: string(hash),
		Role:         entities.UserRoleLeader,
	}
	svc, _ := newTestAuthService(newFakeUserRepo(user))

	response, err := svc.Login(context.Background(), ports.LoginRequest{
		Email:    "lina@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, response.AccessToken)
	require.NotEmpty(t, response.RefreshToken)
	assert.Equal(t, "Bearer", response.TokenType)
	assert.Empty(t, response.User.PasswordHash)

	claims, err := svc.ValidateToken(response.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Name, claims.Name)
	assert.Equal(t, entities.UserRoleLeader, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &entities.User{ID: uuid.New(), Email: "lina@example.com", PasswordHash: string(hash), Role: entities.UserRoleLeader}
	svc, _ := newTestAuthService(newFakeUserRepo(user))

	_, err = svc.Login(context.Background(), ports.LoginRequest{Email: "lina@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, entities.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), ports.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, entities.ErrInvalidCredentials)
}

func TestRefreshTokenRotation(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &entities.User{ID: uuid.New(), Email: "lina@example.com", PasswordHash: string(hash), Role: entities.UserRoleLeader}
	svc, _ := newTestAuthService(newFakeUserRepo(user))

	login, err := svc.Login(context.Background(), ports.LoginRequest{Email: "lina@example.com", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The old token was revoked by the rotation.
	_, err = svc.RefreshToken(context.Background(), login.RefreshToken)
	assert.ErrorIs(t, err, entities.ErrInvalidCredentials)
}

func TestLogoutRevokesTokens(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &entities.User{ID: uuid.New(), Email: "lina@example.com", PasswordHash: string(hash), Role: entities.UserRoleLeader}
	svc, _ := newTestAuthService(newFakeUserRepo(user))

	login, err := svc.Login(context.Background(), ports.LoginRequest{Email: "lina@example.com", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), user.ID))

	_, err = svc.RefreshToken(context.Background(), login.RefreshToken)
	assert.ErrorIs(t, err, entities.ErrInvalidCredentials)
}

func TestLogoutCleansUpExpiredTokens(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &entities.User{ID: uuid.New(), Email: "lina@example.com", PasswordHash: string(hash), Role: entities.UserRoleLeader}
	svc, authRepo := newTestAuthService(newFakeUserRepo(user))

	// A long-expired token from another user should be swept out.
	staleHash := "stale-token-hash"
	require.NoError(t, authRepo.CreateRefreshToken(context.Background(), uuid.New(), staleHash, time.Now().Add(-time.Hour)))

	require.NoError(t, svc.Logout(context.Background(), user.ID))

	assert.NotContains(t, authRepo.tokens, staleHash)
}
