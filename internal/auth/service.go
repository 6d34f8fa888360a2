package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"gradehub/internal/shared/errs"
	"gradehub/internal/users"
	"gradehub/pkg/logger"
)

// Service is the session manager: it orchestrates registration, login and
// refresh-token rotation on top of the token codec, the credential hasher
// and the user directory. Logout is stateless on the server side and lives
// entirely in the controller (cookie clear).
type Service interface {
	Register(ctx context.Context, req *RegisterRequest) (*TokenPair, error)
	Login(ctx context.Context, req *LoginRequest) (*TokenPair, error)
	Refresh(ctx context.Context, presentedRefreshToken string) (string, error)
}

type service struct {
	repo   Repository
	codec  *TokenCodec
	hasher *Hasher
	log    *logger.Logger
}

func NewService(repo Repository, codec *TokenCodec, hasher *Hasher) Service {
	return &service{
		repo:   repo,
		codec:  codec,
		hasher: hasher,
		log:    logger.GetDefault(),
	}
}

// Register creates the identity and stores a refresh token on it right
// away, so a freshly registered user is already logged in.
func (s *service) Register(ctx context.Context, req *RegisterRequest) (*TokenPair, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.ErrDuplicateEmail
	}

	hashedPassword, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &users.User{
		ID:       uuid.New(),
		Name:     req.Name,
		Email:    req.Email,
		Password: hashedPassword,
		Role:     users.Role(req.Role),
	}

	refreshToken, err := s.codec.Issue(TokenKindRefresh, user.ID.String())
	if err != nil {
		return nil, err
	}
	user.RefreshToken = refreshToken

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	accessToken, err := s.codec.Issue(TokenKindAccess, user.ID.String())
	if err != nil {
		return nil, err
	}

	s.log.LogAuthSuccess(ctx, user.ID.String(), "register")
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Login verifies credentials and rotates the refresh token. Unknown email
// and wrong password produce the same error so callers cannot probe which
// accounts exist.
func (s *service) Login(ctx context.Context, req *LoginRequest) (*TokenPair, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, errs.ErrUnknownIdentity) {
			return nil, errs.ErrInvalidCredentials
		}
		return nil, err
	}

	match, err := s.hasher.Matches(req.Password, user.Password)
	if err != nil {
		// corrupt stored hash, not a credential failure
		s.log.WithUserID(user.ID.String()).WithError(err).Error("stored credential hash is unreadable")
		return nil, err
	}
	if !match {
		return nil, errs.ErrInvalidCredentials
	}

	refreshToken, err := s.codec.Issue(TokenKindRefresh, user.ID.String())
	if err != nil {
		return nil, err
	}

	// Overwriting invalidates the previous refresh token. This is the
	// sole revocation mechanism.
	if err := s.repo.UpdateRefreshToken(ctx, user.ID.String(), refreshToken); err != nil {
		return nil, err
	}

	accessToken, err := s.codec.Issue(TokenKindAccess, user.ID.String())
	if err != nil {
		return nil, err
	}

	s.log.LogAuthSuccess(ctx, user.ID.String(), "login")
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh mints a new access token for a valid presented refresh token.
// The presented token must exactly equal the one stored on the identity;
// that equality check is the only defense against replay of a token that
// a later login rotated out. Refresh tokens themselves are not rotated
// here, only on login and register.
func (s *service) Refresh(ctx context.Context, presentedRefreshToken string) (string, error) {
	if presentedRefreshToken == "" {
		return "", errs.ErrMissingRefreshToken
	}

	subjectID, err := s.codec.Verify(TokenKindRefresh, presentedRefreshToken)
	if err != nil {
		return "", errs.ErrInvalidToken
	}

	user, err := s.repo.FindByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, errs.ErrUnknownIdentity) {
			return "", errs.ErrInvalidRefreshToken
		}
		return "", err
	}
	if user.RefreshToken != presentedRefreshToken {
		return "", errs.ErrInvalidRefreshToken
	}

	return s.codec.Issue(TokenKindAccess, user.ID.String())
}
