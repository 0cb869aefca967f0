package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/invoice-service/internal/auth"
	"github.com/spec-kit/invoice-service/internal/config"
	"github.com/spec-kit/invoice-service/internal/ratelimit"
	"github.com/spec-kit/invoice-service/internal/repository"
	apperrors "github.com/spec-kit/invoice-service/pkg/util"
)

// dummyHash keeps the bcrypt comparison running for unknown usernames so an
// absent account and a wrong password take the same time and shape.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// AuthService coordinates the login flow: throttle, credential check, token
// issuance.
type AuthService struct {
	users    repository.UserRepository
	tokenMgr *auth.TokenManager
	limiter  ratelimit.Limiter
	logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository, limiter ratelimit.Limiter, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		tokenMgr: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		limiter:  limiter,
		logger:   logger,
	}
}

// Login verifies credentials and returns a signed token. The source address
// is rate limited before any credential work happens.
func (s *AuthService) Login(ctx context.Context, username, password, remoteAddr string) (string, time.Time, error) {
	if s.limiter != nil {
		if err := s.limiter.Allow(ctx, remoteAddr); err != nil {
			if errors.Is(err, ratelimit.ErrRateLimited) {
				s.logger.Warn("login throttled", zap.String("addr", remoteAddr))
				return "", time.Time{}, apperrors.NewRateLimited("too many login attempts")
			}
			return "", time.Time{}, apperrors.MapError(err)
		}
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = auth.ComparePassword(dummyHash, password)
			return "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return "", time.Time{}, apperrors.MapError(err)
	}

	s.logger.Info("user logged in", zap.Int64("user_id", user.ID))
	return token, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
