package usecase

import (
	"context"
	"testing"

	"marketplace-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTokenFixture(t *testing.T) (TokenService, *fakeRefreshTokenRepo) {
	t.Helper()
	repo, _, _, _, refresh := newFakeRepository()
	return NewTokenService(repo, newTestConfig(), zap.NewNop()), refresh
}

func TestIssueSessionRoundTrip(t *testing.T) {
	service, refresh := newTokenFixture(t)
	accountID := uuid.New()

	pair, err := service.IssueSession(context.Background(), accountID, utils.AudienceUser)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	gotID, audience, err := service.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, accountID, gotID)
	assert.Equal(t, utils.AudienceUser, audience)

	require.Len(t, refresh.tokens, 1)
	assert.Equal(t, pair.RefreshToken, refresh.tokens[0].Token)
}

func TestIssueSessionSingleActiveToken(t *testing.T) {
	service, refresh := newTokenFixture(t)
	accountID := uuid.New()
	ctx := context.Background()

	_, err := service.IssueSession(ctx, accountID, utils.AudienceUser)
	require.NoError(t, err)
	second, err := service.IssueSession(ctx, accountID, utils.AudienceUser)
	require.NoError(t, err)

	// the first login's refresh token was replaced, not accumulated
	require.Len(t, refresh.tokens, 1)
	assert.Equal(t, second.RefreshToken, refresh.tokens[0].Token)
}

func TestIssueSessionRequiresSecrets(t *testing.T) {
	repo, _, _, _, _ := newFakeRepository()
	config := newTestConfig()
	config.JWT.AccessSecret = ""
	service := NewTokenService(repo, config, zap.NewNop())

	_, err := service.IssueSession(context.Background(), uuid.New(), utils.AudienceUser)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestValidateAccessTokenRejectsRefreshToken(t *testing.T) {
	service, _ := newTokenFixture(t)

	pair, err := service.IssueSession(context.Background(), uuid.New(), utils.AudienceUser)
	require.NoError(t, err)

	// signed with the other secret, must not validate as an access token
	_, _, err = service.ValidateAccessToken(pair.RefreshToken)
	require.Error(t, err)
}

func TestRefreshRotatesToken(t *testing.T) {
	service, refresh := newTokenFixture(t)
	accountID := uuid.New()
	ctx := context.Background()

	pair, err := service.IssueSession(ctx, accountID, utils.AudienceUser)
	require.NoError(t, err)

	rotated, err := service.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	require.Len(t, refresh.tokens, 1)
	assert.Equal(t, rotated.RefreshToken, refresh.tokens[0].Token)

	// the rotated-away token is gone from the store
	_, err = service.Refresh(ctx, pair.RefreshToken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid or expired refresh token")
}

func TestRefreshRejectsRevokedSession(t *testing.T) {
	service, _ := newTokenFixture(t)
	accountID := uuid.New()
	ctx := context.Background()

	pair, err := service.IssueSession(ctx, accountID, utils.AudienceUser)
	require.NoError(t, err)

	require.NoError(t, service.RevokeSession(ctx, accountID, utils.AudienceUser))

	_, err = service.Refresh(ctx, pair.RefreshToken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid or expired refresh token")
}

func TestRefreshRejectsGarbage(t *testing.T) {
	service, _ := newTokenFixture(t)

	_, err := service.Refresh(context.Background(), "not-a-jwt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid or expired refresh token")
}

func TestSellerSessionUsesSellerColumn(t *testing.T) {
	service, refresh := newTokenFixture(t)
	sellerID := uuid.New()

	_, err := service.IssueSession(context.Background(), sellerID, utils.AudienceSeller)
	require.NoError(t, err)

	require.Len(t, refresh.tokens, 1)
	require.NotNil(t, refresh.tokens[0].SellerID)
	assert.Equal(t, sellerID, *refresh.tokens[0].SellerID)
	assert.Nil(t, refresh.tokens[0].UserID)
}
