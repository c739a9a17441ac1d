package usecase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"marketplace-backend/internal/data/entity"
	"marketplace-backend/pkg/utils"
	"marketplace-backend/pkg/whatsapp"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestConfig() *utils.Config {
	return &utils.Config{
		JWT: utils.JWTConfig{
			AccessSecret:     "test-access-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessExpiryMin:  15,
			RefreshExpiryDay: 7,
		},
		OTP: utils.OTPConfig{
			ExpiryMinutes: 10,
			MaxAttempts:   5,
		},
	}
}

type authFixture struct {
	auth    AuthService
	tokens  TokenService
	otp     *fakeOTPRepo
	users   *fakeUserRepo
	sellers *fakeSellerRepo
	refresh *fakeRefreshTokenRepo
}

func newAuthFixture(t *testing.T, whatsappClient *whatsapp.Client) *authFixture {
	t.Helper()

	repo, otp, users, sellers, refresh := newFakeRepository()
	config := newTestConfig()
	log := zap.NewNop()

	if whatsappClient == nil {
		whatsappClient = whatsapp.NewClient(whatsapp.Config{}, log)
	}

	tokens := NewTokenService(repo, config, log)

	return &authFixture{
		auth:    NewAuthService(repo, tokens, whatsappClient, config, log),
		tokens:  tokens,
		otp:     otp,
		users:   users,
		sellers: sellers,
		refresh: refresh,
	}
}

func (f *authFixture) addUser(phoneNumber string) *entity.User {
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		PhoneNumber:     phoneNumber,
		Role:            entity.RoleCustomer,
		ProfileComplete: true,
	}
	f.users.users = append(f.users.users, user)
	return user
}

func (f *authFixture) storedCode(phoneNumber string) string {
	rec := f.otp.active(phoneNumber)
	if rec == nil {
		return ""
	}
	return rec.Code
}

func TestSendOTPNormalizesAndStores(t *testing.T) {
	f := newAuthFixture(t, nil)

	result, err := f.auth.SendOTP(context.Background(), "9876543210", utils.AudienceUser)
	require.NoError(t, err)

	rec := f.otp.active("+919876543210")
	require.NotNil(t, rec, "record stored under normalized phone number")
	assert.Regexp(t, regexp.MustCompile(`^[1-9][0-9]{5}$`), rec.Code)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), result.ExpiresAt, 5*time.Second)
	assert.False(t, result.IsExisting)
	assert.Empty(t, result.SendWarning)
}

func TestSendOTPRejectsMalformedPhone(t *testing.T) {
	f := newAuthFixture(t, nil)

	_, err := f.auth.SendOTP(context.Background(), "12ab", utils.AudienceUser)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid phone number")
	assert.Empty(t, f.otp.records)
}

func TestSendOTPResendUpdatesExistingRecord(t *testing.T) {
	f := newAuthFixture(t, nil)
	ctx := context.Background()

	_, err := f.auth.SendOTP(ctx, "9876543210", utils.AudienceUser)
	require.NoError(t, err)
	_, err = f.auth.SendOTP(ctx, "+919876543210", utils.AudienceUser)
	require.NoError(t, err)

	assert.Len(t, f.otp.records, 1, "resend must not create a second row")
	assert.Equal(t, 0, f.otp.records[0].Attempts)
}

func TestSendOTPReportsExistingAccount(t *testing.T) {
	f := newAuthFixture(t, nil)
	f.addUser("+919876543210")

	result, err := f.auth.SendOTP(context.Background(), "9876543210", utils.AudienceUser)
	require.NoError(t, err)

	assert.True(t, result.IsExisting)
	assert.True(t, result.ProfileComplete)
}

func TestSendOTPDispatchFailureDoesNotFailIssuance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := whatsapp.NewClient(whatsapp.Config{
		APIKey:     "key",
		Source:     "917700000001",
		TemplateID: "otp",
		BaseURL:    server.URL,
	}, zap.NewNop())

	f := newAuthFixture(t, client)

	result, err := f.auth.SendOTP(context.Background(), "9876543210", utils.AudienceUser)
	require.NoError(t, err, "issuance succeeds even when delivery fails")
	assert.NotEmpty(t, result.SendWarning)
	assert.NotNil(t, f.otp.active("+919876543210"), "code is stored regardless")
}

func TestVerifyOTPWrongCodeIsNotConsumed(t *testing.T) {
	f := newAuthFixture(t, nil)
	ctx := context.Background()

	_, err := f.auth.SendOTP(ctx, "9876543210", utils.AudienceUser)
	require.NoError(t, err)

	code := f.storedCode("+919876543210")
	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}

	_, err = f.auth.VerifyOTP(ctx, "+919876543210", wrong, utils.AudienceUser)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid code")
	assert.False(t, f.otp.records[0].Verified)
	assert.Equal(t, 1, f.otp.records[0].Attempts)

	// the same record still accepts the correct code
	result, err := f.auth.VerifyOTP(ctx, "+919876543210", code, utils.AudienceUser)
	require.NoError(t, err)
	assert.True(t, result.IsNewAccount)
}

func TestVerifyOTPExpiredCode(t *testing.T) {
	f := newAuthFixture(t, nil)

	f.otp.records = append(f.otp.records, &entity.OTP{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now().Add(-20 * time.Minute),
			UpdatedAt: time.Now().Add(-20 * time.Minute),
		},
		PhoneNumber: "+919876543210",
		Code:        "123456",
		ExpiresAt:   time.Now().Add(-10 * time.Minute),
	})

	_, err := f.auth.VerifyOTP(context.Background(), "+919876543210", "123456", utils.AudienceUser)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no valid OTP found")
}

func TestVerifyOTPNeverRequested(t *testing.T) {
	f := newAuthFixture(t, nil)

	_, err := f.auth.VerifyOTP(context.Background(), "+919876543210", "123456", utils.AudienceUser)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no valid OTP found")
}

func TestVerifyOTPMalformedCode(t *testing.T) {
	f := newAuthFixture(t, nil)

	_, err := f.auth.VerifyOTP(context.Background(), "+919876543210", "12345", utils.AudienceUser)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid OTP code")
}

func TestVerifyOTPConsumedOnSuccess(t *testing.T) {
	f := newAuthFixture(t, nil)
	ctx := context.Background()

	_, err := f.auth.SendOTP(ctx, "9876543210", utils.AudienceUser)
	require.NoError(t, err)
	code := f.storedCode("+919876543210")

	_, err = f.auth.VerifyOTP(ctx, "+919876543210", code, utils.AudienceUser)
	require.NoError(t, err)

	// the verified transition happens once; a replay finds no live record
	_, err = f.auth.VerifyOTP(ctx, "+919876543210", code, utils.AudienceUser)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no valid OTP found")
}

func TestVerifyOTPAttemptLimit(t *testing.T) {
	f := newAuthFixture(t, nil)
	ctx := context.Background()

	_, err := f.auth.SendOTP(ctx, "9876543210", utils.AudienceUser)
	require.NoError(t, err)

	code := f.storedCode("+919876543210")
	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}

	for i := 0; i < 5; i++ {
		_, err = f.auth.VerifyOTP(ctx, "+919876543210", wrong, utils.AudienceUser)
		require.Error(t, err)
	}

	// exhausted record rejects even the right code
	_, err = f.auth.VerifyOTP(ctx, "+919876543210", code, utils.AudienceUser)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no valid OTP found")
}

func TestVerifyOTPNewUserGetsNoSession(t *testing.T) {
	f := newAuthFixture(t, nil)
	ctx := context.Background()

	_, err := f.auth.SendOTP(ctx, "9876543210", utils.AudienceUser)
	require.NoError(t, err)

	result, err := f.auth.VerifyOTP(ctx, "+919876543210", f.storedCode("+919876543210"), utils.AudienceUser)
	require.NoError(t, err)

	assert.True(t, result.IsNewAccount)
	assert.Nil(t, result.AccountID)
	assert.Nil(t, result.Tokens)
	assert.Empty(t, f.refresh.tokens)
}

func TestVerifyOTPExistingUserGetsSession(t *testing.T) {
	f := newAuthFixture(t, nil)
	ctx := context.Background()
	user := f.addUser("+919876543210")

	_, err := f.auth.SendOTP(ctx, "9876543210", utils.AudienceUser)
	require.NoError(t, err)

	result, err := f.auth.VerifyOTP(ctx, "+919876543210", f.storedCode("+919876543210"), utils.AudienceUser)
	require.NoError(t, err)

	assert.False(t, result.IsNewAccount)
	require.NotNil(t, result.AccountID)
	assert.Equal(t, user.ID, *result.AccountID)
	require.NotNil(t, result.Tokens)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)
	assert.Len(t, f.refresh.forUser(user.ID), 1)
}

func TestVerifySellerOTP(t *testing.T) {
	f := newAuthFixture(t, nil)
	ctx := context.Background()

	shopName := "Spice Bazaar"
	seller := &entity.Seller{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		PhoneNumber:     "+919812345678",
		ShopName:        &shopName,
		ProfileComplete: true,
	}
	f.sellers.sellers = append(f.sellers.sellers, seller)

	sent, err := f.auth.SendOTP(ctx, "9812345678", utils.AudienceSeller)
	require.NoError(t, err)
	assert.True(t, sent.IsExisting)
	assert.True(t, sent.ProfileComplete)

	result, err := f.auth.VerifyOTP(ctx, "+919812345678", f.storedCode("+919812345678"), utils.AudienceSeller)
	require.NoError(t, err)
	require.NotNil(t, result.AccountID)
	assert.Equal(t, seller.ID, *result.AccountID)
	require.NotNil(t, result.Tokens)

	// seller session rows live under seller_id
	require.Len(t, f.refresh.tokens, 1)
	require.NotNil(t, f.refresh.tokens[0].SellerID)
	assert.Equal(t, seller.ID, *f.refresh.tokens[0].SellerID)
	assert.Nil(t, f.refresh.tokens[0].UserID)
}

func TestAdminLogin(t *testing.T) {
	f := newAuthFixture(t, nil)
	ctx := context.Background()

	hash, err := utils.HashPassword("s3cret-pass")
	require.NoError(t, err)
	email := "ops@marketplace.test"
	admin := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		PhoneNumber:  "+919900000000",
		Email:        &email,
		PasswordHash: &hash,
		Role:         entity.RoleAdmin,
	}
	f.users.users = append(f.users.users, admin)

	userID, tokens, err := f.auth.AdminLogin(ctx, email, "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, *userID)
	assert.NotEmpty(t, tokens.AccessToken)

	_, _, err = f.auth.AdminLogin(ctx, email, "wrong-pass")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")

	_, _, err = f.auth.AdminLogin(ctx, "nobody@marketplace.test", "s3cret-pass")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestAdminLoginRejectsCustomerRole(t *testing.T) {
	f := newAuthFixture(t, nil)

	hash, err := utils.HashPassword("s3cret-pass")
	require.NoError(t, err)
	email := "customer@marketplace.test"
	customer := f.addUser("+919911111111")
	customer.Email = &email
	customer.PasswordHash = &hash

	_, _, err = f.auth.AdminLogin(context.Background(), email, "s3cret-pass")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}
