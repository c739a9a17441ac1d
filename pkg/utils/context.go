package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	AccountIDKey contextKey = "account_id"
	AudienceKey  contextKey = "audience"
)

// Audience values carried in tokens and request context.
const (
	AudienceUser   = "user"
	AudienceSeller = "seller"
	AudienceAdmin  = "admin"
)

func GetAccountIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	accountIDVal := ctx.Value(AccountIDKey)
	if accountIDVal == nil {
		return uuid.Nil, false
	}

	accountIDStr, ok := accountIDVal.(string)
	if !ok {
		return uuid.Nil, false
	}

	accountID, err := uuid.Parse(accountIDStr)
	if err != nil {
		return uuid.Nil, false
	}

	return accountID, true
}

func GetAudienceFromContext(ctx context.Context) (string, bool) {
	audienceVal := ctx.Value(AudienceKey)
	if audienceVal == nil {
		return "", false
	}

	audience, ok := audienceVal.(string)
	return audience, ok
}

func SetAccountContext(ctx context.Context, accountID uuid.UUID, audience string) context.Context {
	ctx = context.WithValue(ctx, AccountIDKey, accountID.String())
	ctx = context.WithValue(ctx, AudienceKey, audience)
	return ctx
}
