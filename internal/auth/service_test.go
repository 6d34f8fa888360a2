package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradehub/internal/shared/config"
	"gradehub/internal/shared/errs"
	"gradehub/internal/users"
)

// fakeRepository is an in-memory Repository used by the service tests.
type fakeRepository struct {
	byID    map[string]*users.User
	byEmail map[string]*users.User
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		byID:    make(map[string]*users.User),
		byEmail: make(map[string]*users.User),
	}
}

func (r *fakeRepository) Create(ctx context.Context, user *users.User) error {
	cp := *user
	r.byID[user.ID.String()] = &cp
	r.byEmail[strings.ToLower(user.Email)] = &cp
	return nil
}

func (r *fakeRepository) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	user, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, errs.ErrUnknownIdentity
	}
	cp := *user
	return &cp, nil
}

func (r *fakeRepository) FindByID(ctx context.Context, id string) (*users.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, errs.ErrUnknownIdentity
	}
	cp := *user
	return &cp, nil
}

func (r *fakeRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshToken string) error {
	user, ok := r.byID[userID]
	if !ok {
		return errs.ErrUnknownIdentity
	}
	user.RefreshToken = refreshToken
	return nil
}

func (r *fakeRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := r.byEmail[strings.ToLower(email)]
	return ok, nil
}

func newTestService(repo Repository) Service {
	codec := NewTokenCodec(config.AuthConfig{
		Secret:           "test-secret",
		AccessExpiresIn:  15 * time.Minute,
		RefreshExpiresIn: 8760 * time.Hour,
	})
	return NewService(repo, codec, NewHasher(4))
}

// newClockedService issues every token from a distinct backdated instant,
// so consecutive refresh tokens for the same user never collide on iat.
func newClockedService(repo Repository) Service {
	codec := NewTokenCodec(config.AuthConfig{
		Secret:           "test-secret",
		AccessExpiresIn:  15 * time.Minute,
		RefreshExpiresIn: 8760 * time.Hour,
	})
	base := time.Now().Add(-time.Hour)
	var calls int
	codec.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Second)
	}
	return NewService(repo, codec, NewHasher(4))
}

func registerUser(t *testing.T, svc Service, email string) *TokenPair {
	t.Helper()
	pair, err := svc.Register(context.Background(), &RegisterRequest{
		Name:     "Ada Lovelace",
		Email:    email,
		Password: "password123",
		Role:     "student",
	})
	require.NoError(t, err)
	return pair
}

func TestService_Register(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)

	pair := registerUser(t, svc, "ada@example.com")
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	// refresh token is stored on the identity at registration
	stored, err := repo.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, pair.RefreshToken, stored.RefreshToken)
	assert.NotEqual(t, "password123", stored.Password)
}

func TestService_RegisterDuplicateEmail(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)

	registerUser(t, svc, "ada@example.com")

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Name:     "Imposter",
		Email:    "ada@example.com",
		Password: "different456",
		Role:     "teacher",
	})
	assert.ErrorIs(t, err, errs.ErrDuplicateEmail)
}

func TestService_Login(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)

	first := registerUser(t, svc, "ada@example.com")

	pair, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "ada@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	// login rotates the stored refresh token
	stored, err := repo.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, pair.RefreshToken, stored.RefreshToken)
	assert.NotEqual(t, first.RefreshToken, stored.RefreshToken)
}

func TestService_LoginInvalidCredentials(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)

	registerUser(t, svc, "ada@example.com")

	// wrong password and unknown email fail identically
	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "ada@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
}

func TestService_Refresh(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)

	pair := registerUser(t, svc, "ada@example.com")

	access, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
}

func TestService_RefreshMissingToken(t *testing.T) {
	svc := newTestService(newFakeRepository())

	_, err := svc.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, errs.ErrMissingRefreshToken)
}

func TestService_RefreshGarbageToken(t *testing.T) {
	svc := newTestService(newFakeRepository())

	_, err := svc.Refresh(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, errs.ErrInvalidToken)
}

func TestService_RefreshRejectsRotatedToken(t *testing.T) {
	repo := newFakeRepository()
	svc := newClockedService(repo)

	old := registerUser(t, svc, "ada@example.com")

	// a new login rotates the stored token
	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "ada@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	// the pre-rotation token still verifies cryptographically but no
	// longer matches the stored one
	_, err = svc.Refresh(context.Background(), old.RefreshToken)
	assert.ErrorIs(t, err, errs.ErrInvalidRefreshToken)
}

// hookedRepository lets a test run arbitrary work between a login's token
// issuance and its store write.
type hookedRepository struct {
	*fakeRepository
	beforeTokenUpdate func()
}

func (r *hookedRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshToken string) error {
	if r.beforeTokenUpdate != nil {
		hook := r.beforeTokenUpdate
		r.beforeTokenUpdate = nil
		hook()
	}
	return r.fakeRepository.UpdateRefreshToken(ctx, userID, refreshToken)
}

func TestService_InterleavedLoginsLastWriterOwnsToken(t *testing.T) {
	repo := &hookedRepository{fakeRepository: newFakeRepository()}
	svc := newClockedService(repo)

	registerUser(t, svc, "ada@example.com")

	login := &LoginRequest{Email: "ada@example.com", Password: "password123"}

	// a second login runs to completion between the first login's token
	// issuance and its store write
	var loser *TokenPair
	repo.beforeTokenUpdate = func() {
		pair, err := svc.Login(context.Background(), login)
		require.NoError(t, err)
		loser = pair
	}

	winner, err := svc.Login(context.Background(), login)
	require.NoError(t, err)
	require.NotNil(t, loser)
	require.NotEqual(t, loser.RefreshToken, winner.RefreshToken)

	// the login that wrote last owns the live refresh token
	stored, err := repo.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, winner.RefreshToken, stored.RefreshToken)

	_, err = svc.Refresh(context.Background(), winner.RefreshToken)
	assert.NoError(t, err)

	_, err = svc.Refresh(context.Background(), loser.RefreshToken)
	assert.ErrorIs(t, err, errs.ErrInvalidRefreshToken)
}

func TestService_LoginCorruptStoredHash(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)

	corrupt := &users.User{
		ID:       uuid.New(),
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "not-a-bcrypt-hash",
		Role:     users.RoleStudent,
	}
	require.NoError(t, repo.Create(context.Background(), corrupt))

	// an unreadable stored hash is an internal failure, not a
	// credential one
	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "ada@example.com",
		Password: "password123",
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, errs.ErrInvalidCredentials)
	assert.False(t, errs.IsExpected(err))
}

func TestService_RefreshRejectsAccessToken(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)

	pair := registerUser(t, svc, "ada@example.com")

	// an access token presented as a refresh token must be rejected
	_, err := svc.Refresh(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, errs.ErrInvalidToken)
}
