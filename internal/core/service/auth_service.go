package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carvalue/marketplace-api/internal/core/domain"
	"github.com/carvalue/marketplace-api/internal/core/ports"
)

// AuthConfig holds token and bootstrap settings for AuthService.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	// BootstrapAdminEmail, when set, makes the account registered with that
	// email an administrator.
	BootstrapAdminEmail string
}

// AuthService implements sign-up, sign-in, sign-out and token resolution.
type AuthService struct {
	users   ports.UserRepository
	revoker ports.TokenRevoker
	cfg     AuthConfig
	logger  zerolog.Logger
	now     func() time.Time
}

func NewAuthService(users ports.UserRepository, revoker ports.TokenRevoker, cfg AuthConfig, logger zerolog.Logger) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	cfg.BootstrapAdminEmail = normalizeEmail(cfg.BootstrapAdminEmail)
	return &AuthService{
		users:   users,
		revoker: revoker,
		cfg:     cfg,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *AuthService) SignUp(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailInUse
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      s.cfg.BootstrapAdminEmail != "" && email == s.cfg.BootstrapAdminEmail,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Bool("admin", user.IsAdmin).Msg("user signed up")
	return user, nil
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidInput
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrUnknownEmail
		}
		return "", nil, err
	}

	ok, err := verifyPassword(user.PasswordHash, password)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, domain.ErrBadPassword
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// SignOut revokes token until it would have expired.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	claims, err := s.parseToken(token)
	if err != nil {
		return err
	}
	tokenID, _ := claims["jti"].(string)
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil || tokenID == "" {
		return domain.ErrInvalidToken
	}
	if s.revoker == nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, tokenID, exp.Time); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	sub, _ := claims.GetSubject()
	s.logger.Info().Str("user_id", sub).Msg("user signed out")
	return nil
}

// ResolveActor validates token and reloads the account so admin status is
// always current.
func (s *AuthService) ResolveActor(ctx context.Context, token string) (*domain.Actor, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, err
	}

	if s.revoker != nil {
		tokenID, _ := claims["jti"].(string)
		revoked, err := s.revoker.IsRevoked(ctx, tokenID)
		if err != nil {
			return nil, fmt.Errorf("revocation check: %w", err)
		}
		if revoked {
			return nil, domain.ErrInvalidToken
		}
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, domain.ErrInvalidToken
	}
	user, err := s.users.FindByID(ctx, sub)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	return user.Actor(), nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.TokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) parseToken(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
