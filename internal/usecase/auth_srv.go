package usecase

import (
	"context"
	"fmt"
	"time"

	"marketplace-backend/internal/data/entity"
	"marketplace-backend/internal/data/repository"
	"marketplace-backend/internal/dto/response"
	"marketplace-backend/pkg/phone"
	"marketplace-backend/pkg/utils"
	"marketplace-backend/pkg/whatsapp"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SendOTPResult reports a stored-and-dispatched code plus account hints for
// the caller's login/registration branching.
type SendOTPResult struct {
	ExpiresAt       time.Time
	IsExisting      bool
	ProfileComplete bool
	// SendWarning is set when the code was stored but WhatsApp delivery
	// failed; issuance itself still succeeds.
	SendWarning string
}

// VerifyOTPResult is a successful verification. Tokens is nil for a phone
// number without an account (registration happens elsewhere).
type VerifyOTPResult struct {
	IsNewAccount bool
	AccountID    *uuid.UUID
	Tokens       *TokenPair
}

type AuthService interface {
	SendOTP(ctx context.Context, rawPhone, audience string) (*SendOTPResult, error)
	VerifyOTP(ctx context.Context, rawPhone, code, audience string) (*VerifyOTPResult, error)
	AdminLogin(ctx context.Context, email, password string) (*uuid.UUID, *TokenPair, error)
	Profile(ctx context.Context, accountID uuid.UUID, audience string) (*response.ProfileResponse, error)
}

type authService struct {
	repo     *repository.Repository
	tokens   TokenService
	whatsapp *whatsapp.Client
	config   *utils.Config
	log      *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	tokens TokenService,
	whatsappClient *whatsapp.Client,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:     repo,
		tokens:   tokens,
		whatsapp: whatsappClient,
		config:   config,
		log:      log,
	}
}

func (s *authService) SendOTP(ctx context.Context, rawPhone, audience string) (*SendOTPResult, error) {
	// 1. Normalize, then validate the canonical form
	phoneNumber := phone.Normalize(rawPhone)
	if !phone.IsValid(phoneNumber) {
		s.log.Warn("Rejected phone number", zap.String("phone_number", phoneNumber))
		return nil, fmt.Errorf("invalid phone number format")
	}

	// 2. Generate the code
	code, err := utils.GenerateOTP()
	if err != nil {
		s.log.Error("Failed to generate OTP", zap.Error(err))
		return nil, fmt.Errorf("failed to send OTP")
	}

	// 3. Store it; an active row for the same phone is updated in place so a
	// resend never produces two live codes
	now := time.Now()
	expiresAt := now.Add(time.Duration(s.config.OTP.ExpiryMinutes) * time.Minute)

	otp := &entity.OTP{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		PhoneNumber: phoneNumber,
		Code:        code,
		ExpiresAt:   expiresAt,
	}

	if err := s.repo.OTP.Upsert(ctx, otp); err != nil {
		s.log.Error("Failed to store OTP",
			zap.Error(err), zap.String("phone_number", phoneNumber))
		return nil, fmt.Errorf("failed to send OTP")
	}

	result := &SendOTPResult{ExpiresAt: expiresAt}

	// 4. Dispatch. Delivery failure does not fail issuance: the code is
	// stored, so the caller can still retry delivery without a new code.
	if err := s.whatsapp.SendOTP(ctx, phoneNumber, code); err != nil {
		s.log.Warn("OTP stored but dispatch failed",
			zap.Error(err), zap.String("phone_number", phoneNumber))
		result.SendWarning = "OTP was generated but could not be delivered"
	}

	// 5. Account hints so the client can branch login vs registration
	exists, complete, err := s.lookupAccountStatus(ctx, phoneNumber, audience)
	if err != nil {
		return nil, fmt.Errorf("failed to send OTP")
	}
	result.IsExisting = exists
	result.ProfileComplete = complete

	s.log.Info("OTP issued",
		zap.String("phone_number", phoneNumber),
		zap.String("audience", audience),
		zap.Time("expires_at", expiresAt))

	return result, nil
}

func (s *authService) VerifyOTP(ctx context.Context, rawPhone, code, audience string) (*VerifyOTPResult, error) {
	// 1. Normalize and validate inputs
	phoneNumber := phone.Normalize(rawPhone)
	if !phone.IsValid(phoneNumber) {
		return nil, fmt.Errorf("invalid phone number format")
	}
	if !phone.IsValidCode(code) {
		return nil, fmt.Errorf("invalid OTP code format")
	}

	// 2. Most recent live record. Never-requested, expired and already-used
	// all collapse into the same answer on purpose.
	otp, err := s.repo.OTP.FindActive(ctx, phoneNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to verify OTP")
	}
	if otp == nil {
		return nil, fmt.Errorf("no valid OTP found")
	}

	// 3. Guess limit: an exhausted record is treated as if it did not exist
	if otp.Attempts >= s.config.OTP.MaxAttempts {
		s.log.Warn("OTP attempt limit reached",
			zap.String("phone_number", phoneNumber))
		return nil, fmt.Errorf("no valid OTP found")
	}

	// 4. Wrong guess counts an attempt but does not consume the record
	if otp.Code != code {
		if err := s.repo.OTP.IncrementAttempts(ctx, otp.ID); err != nil {
			s.log.Warn("Failed to count OTP attempt", zap.Error(err))
		}
		return nil, fmt.Errorf("invalid code")
	}

	// 5. One-time transition to verified
	if err := s.repo.OTP.MarkVerified(ctx, otp.ID); err != nil {
		s.log.Error("Failed to mark OTP verified",
			zap.Error(err), zap.String("otp_id", otp.ID.String()))
		return nil, fmt.Errorf("failed to verify OTP")
	}

	// 6. Existing account gets a session; unknown phone means registration
	accountID, err := s.lookupAccountID(ctx, phoneNumber, audience)
	if err != nil {
		return nil, fmt.Errorf("failed to verify OTP")
	}
	if accountID == nil {
		s.log.Info("OTP verified for new account",
			zap.String("phone_number", phoneNumber),
			zap.String("audience", audience))
		return &VerifyOTPResult{IsNewAccount: true}, nil
	}

	tokens, err := s.tokens.IssueSession(ctx, *accountID, audience)
	if err != nil {
		return nil, err
	}

	s.log.Info("OTP verified, session issued",
		zap.String("phone_number", phoneNumber),
		zap.String("account_id", accountID.String()),
		zap.String("audience", audience))

	return &VerifyOTPResult{
		AccountID: accountID,
		Tokens:    tokens,
	}, nil
}

// AdminLogin is the back-office entry point: email+password against users
// with an admin role, issuing the same cookie session as the OTP flow.
func (s *authService) AdminLogin(ctx context.Context, email, password string) (*uuid.UUID, *TokenPair, error) {
	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to log in")
	}

	if user == nil || !user.IsBackoffice() || user.PasswordHash == nil {
		s.log.Warn("Admin login rejected", zap.String("email", email))
		return nil, nil, fmt.Errorf("invalid credentials")
	}

	if !utils.CheckPasswordHash(password, *user.PasswordHash) {
		s.log.Warn("Admin login wrong password",
			zap.String("user_id", user.ID.String()))
		return nil, nil, fmt.Errorf("invalid credentials")
	}

	tokens, err := s.tokens.IssueSession(ctx, user.ID, utils.AudienceAdmin)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("Admin logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return &user.ID, tokens, nil
}

func (s *authService) Profile(ctx context.Context, accountID uuid.UUID, audience string) (*response.ProfileResponse, error) {
	if audience == utils.AudienceSeller {
		seller, err := s.repo.Seller.FindByID(ctx, accountID)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile")
		}
		if seller == nil {
			return nil, fmt.Errorf("account not found")
		}
		return response.SellerToProfile(seller), nil
	}

	user, err := s.repo.User.FindByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile")
	}
	if user == nil {
		return nil, fmt.Errorf("account not found")
	}
	return response.UserToProfile(user), nil
}

// ==================== HELPER METHODS ====================

func (s *authService) lookupAccountStatus(ctx context.Context, phoneNumber, audience string) (bool, bool, error) {
	if audience == utils.AudienceSeller {
		seller, err := s.repo.Seller.FindByPhone(ctx, phoneNumber)
		if err != nil {
			return false, false, err
		}
		if seller == nil {
			return false, false, nil
		}
		return true, seller.ProfileComplete, nil
	}

	user, err := s.repo.User.FindByPhone(ctx, phoneNumber)
	if err != nil {
		return false, false, err
	}
	if user == nil {
		return false, false, nil
	}
	return true, user.ProfileComplete, nil
}

func (s *authService) lookupAccountID(ctx context.Context, phoneNumber, audience string) (*uuid.UUID, error) {
	if audience == utils.AudienceSeller {
		seller, err := s.repo.Seller.FindByPhone(ctx, phoneNumber)
		if err != nil || seller == nil {
			return nil, err
		}
		return &seller.ID, nil
	}

	user, err := s.repo.User.FindByPhone(ctx, phoneNumber)
	if err != nil || user == nil {
		return nil, err
	}
	return &user.ID, nil
}
