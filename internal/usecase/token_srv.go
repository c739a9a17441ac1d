package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace-backend/internal/data/entity"
	"marketplace-backend/internal/data/repository"
	"marketplace-backend/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenPair is one issued session: short-lived access token plus long-lived
// refresh token, signed with separate secrets.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
}

type TokenService interface {
	IssueSession(ctx context.Context, accountID uuid.UUID, audience string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	RevokeSession(ctx context.Context, accountID uuid.UUID, audience string) error
	ValidateAccessToken(tokenString string) (uuid.UUID, string, error)
}

type tokenService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
}

func NewTokenService(
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) TokenService {
	return &tokenService{
		repo:   repo,
		config: config,
		log:    log,
	}
}

func (s *tokenService) accessTTL() time.Duration {
	return time.Duration(s.config.JWT.AccessExpiryMin) * time.Minute
}

func (s *tokenService) refreshTTL() time.Duration {
	return time.Duration(s.config.JWT.RefreshExpiryDay) * 24 * time.Hour
}

// IssueSession mints a fresh token pair and persists the refresh token. Any
// previous refresh token of the account is deleted first, so at most one is
// active per account.
func (s *tokenService) IssueSession(ctx context.Context, accountID uuid.UUID, audience string) (*TokenPair, error) {
	// 1. Missing secrets are a deployment error, fatal for the request
	if s.config.JWT.AccessSecret == "" || s.config.JWT.RefreshSecret == "" {
		s.log.Error("JWT signing secrets are not configured")
		return nil, fmt.Errorf("token signing secrets are not configured")
	}

	// 2. Sign both tokens
	accessToken, err := s.sign(s.config.JWT.AccessSecret, accountID, audience, s.accessTTL())
	if err != nil {
		s.log.Error("Failed to sign access token", zap.Error(err))
		return nil, fmt.Errorf("failed to issue session")
	}

	refreshToken, err := s.sign(s.config.JWT.RefreshSecret, accountID, audience, s.refreshTTL())
	if err != nil {
		s.log.Error("Failed to sign refresh token", zap.Error(err))
		return nil, fmt.Errorf("failed to issue session")
	}

	// 3. Single-active-session policy: drop previous refresh tokens
	if err := s.deleteRefreshTokens(ctx, accountID, audience); err != nil {
		return nil, fmt.Errorf("failed to issue session")
	}

	// 4. Persist the new refresh token
	record := &entity.RefreshToken{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(s.refreshTTL()),
	}
	if audience == utils.AudienceSeller {
		record.SellerID = &accountID
	} else {
		record.UserID = &accountID
	}

	if err := s.repo.RefreshToken.Create(ctx, record); err != nil {
		s.log.Error("Failed to persist refresh token",
			zap.Error(err), zap.String("account_id", accountID.String()))
		return nil, fmt.Errorf("failed to issue session")
	}

	s.log.Info("Session issued",
		zap.String("account_id", accountID.String()),
		zap.String("audience", audience))

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessTTL:    s.accessTTL(),
		RefreshTTL:   s.refreshTTL(),
	}, nil
}

// Refresh rotates a session: the presented refresh token must verify against
// the refresh secret AND match a persisted row. The old row is replaced by
// the new one inside IssueSession.
func (s *tokenService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	// 1. Verify signature and expiry
	accountID, audience, err := s.parse(s.config.JWT.RefreshSecret, refreshToken)
	if err != nil {
		s.log.Warn("Refresh token rejected", zap.Error(err))
		return nil, fmt.Errorf("invalid or expired refresh token")
	}

	// 2. The token must still be the persisted one (not rotated away)
	record, err := s.repo.RefreshToken.FindByToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh session")
	}
	if record == nil {
		s.log.Warn("Refresh token not found in store",
			zap.String("account_id", accountID.String()))
		return nil, fmt.Errorf("invalid or expired refresh token")
	}

	// 3. Rotate
	return s.IssueSession(ctx, accountID, audience)
}

func (s *tokenService) RevokeSession(ctx context.Context, accountID uuid.UUID, audience string) error {
	if err := s.deleteRefreshTokens(ctx, accountID, audience); err != nil {
		return fmt.Errorf("failed to revoke session")
	}

	s.log.Info("Session revoked",
		zap.String("account_id", accountID.String()),
		zap.String("audience", audience))
	return nil
}

// ValidateAccessToken checks an access token and returns the account id and
// audience embedded in it.
func (s *tokenService) ValidateAccessToken(tokenString string) (uuid.UUID, string, error) {
	return s.parse(s.config.JWT.AccessSecret, tokenString)
}

// ==================== HELPER METHODS ====================

func (s *tokenService) sign(secret string, accountID uuid.UUID, audience string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": accountID.String(),
		"aud": audience,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func (s *tokenService) parse(secret, tokenString string) (uuid.UUID, string, error) {
	if secret == "" {
		return uuid.Nil, "", errors.New("token signing secrets are not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return uuid.Nil, "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, "", errors.New("invalid token")
	}

	subject, _ := claims["sub"].(string)
	accountID, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, "", errors.New("invalid token subject")
	}

	audience, _ := claims["aud"].(string)
	if audience == "" {
		return uuid.Nil, "", errors.New("missing token audience")
	}

	return accountID, audience, nil
}

func (s *tokenService) deleteRefreshTokens(ctx context.Context, accountID uuid.UUID, audience string) error {
	if audience == utils.AudienceSeller {
		return s.repo.RefreshToken.DeleteBySeller(ctx, accountID)
	}
	return s.repo.RefreshToken.DeleteByUser(ctx, accountID)
}
