package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"marketplace-backend/internal/data/entity"
	"marketplace-backend/internal/data/repository"

	"github.com/google/uuid"
)

// In-memory repository fakes. They mirror the SQL semantics of the real
// repositories closely enough for the service-level behavior under test.

type fakeOTPRepo struct {
	records []*entity.OTP
}

func (f *fakeOTPRepo) active(phoneNumber string) *entity.OTP {
	var candidates []*entity.OTP
	for _, r := range f.records {
		if r.PhoneNumber == phoneNumber && !r.Verified && r.ExpiresAt.After(time.Now()) {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})
	return candidates[0]
}

func (f *fakeOTPRepo) Upsert(ctx context.Context, otp *entity.OTP) error {
	if existing := f.active(otp.PhoneNumber); existing != nil {
		existing.Code = otp.Code
		existing.Attempts = 0
		existing.ExpiresAt = otp.ExpiresAt
		existing.UpdatedAt = otp.UpdatedAt
		return nil
	}
	clone := *otp
	f.records = append(f.records, &clone)
	return nil
}

func (f *fakeOTPRepo) FindActive(ctx context.Context, phoneNumber string) (*entity.OTP, error) {
	rec := f.active(phoneNumber)
	if rec == nil {
		return nil, nil
	}
	clone := *rec
	return &clone, nil
}

func (f *fakeOTPRepo) IncrementAttempts(ctx context.Context, otpID uuid.UUID) error {
	for _, r := range f.records {
		if r.ID == otpID {
			r.Attempts++
			return nil
		}
	}
	return fmt.Errorf("OTP %s not found", otpID.String())
}

func (f *fakeOTPRepo) MarkVerified(ctx context.Context, otpID uuid.UUID) error {
	for _, r := range f.records {
		if r.ID == otpID && !r.Verified {
			r.Verified = true
			return nil
		}
	}
	return fmt.Errorf("OTP %s not found or already verified", otpID.String())
}

func (f *fakeOTPRepo) DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	var kept []*entity.OTP
	var deleted int64
	for _, r := range f.records {
		if r.ExpiresAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	f.records = kept
	return deleted, nil
}

type fakeUserRepo struct {
	users []*entity.User
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByPhone(ctx context.Context, phoneNumber string) (*entity.User, error) {
	for _, u := range f.users {
		if u.PhoneNumber == phoneNumber {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email != nil && *u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

type fakeSellerRepo struct {
	sellers []*entity.Seller
}

func (f *fakeSellerRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Seller, error) {
	for _, s := range f.sellers {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSellerRepo) FindByPhone(ctx context.Context, phoneNumber string) (*entity.Seller, error) {
	for _, s := range f.sellers {
		if s.PhoneNumber == phoneNumber {
			return s, nil
		}
	}
	return nil, nil
}

type fakeRefreshTokenRepo struct {
	tokens []*entity.RefreshToken
}

func (f *fakeRefreshTokenRepo) Create(ctx context.Context, token *entity.RefreshToken) error {
	clone := *token
	f.tokens = append(f.tokens, &clone)
	return nil
}

func (f *fakeRefreshTokenRepo) FindByToken(ctx context.Context, token string) (*entity.RefreshToken, error) {
	for _, t := range f.tokens {
		if t.Token == token && t.ExpiresAt.After(time.Now()) {
			clone := *t
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeRefreshTokenRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	var kept []*entity.RefreshToken
	for _, t := range f.tokens {
		if t.UserID != nil && *t.UserID == userID {
			continue
		}
		kept = append(kept, t)
	}
	f.tokens = kept
	return nil
}

func (f *fakeRefreshTokenRepo) DeleteBySeller(ctx context.Context, sellerID uuid.UUID) error {
	var kept []*entity.RefreshToken
	for _, t := range f.tokens {
		if t.SellerID != nil && *t.SellerID == sellerID {
			continue
		}
		kept = append(kept, t)
	}
	f.tokens = kept
	return nil
}

func (f *fakeRefreshTokenRepo) forUser(userID uuid.UUID) []*entity.RefreshToken {
	var out []*entity.RefreshToken
	for _, t := range f.tokens {
		if t.UserID != nil && *t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}

func newFakeRepository() (*repository.Repository, *fakeOTPRepo, *fakeUserRepo, *fakeSellerRepo, *fakeRefreshTokenRepo) {
	otp := &fakeOTPRepo{}
	users := &fakeUserRepo{}
	sellers := &fakeSellerRepo{}
	refresh := &fakeRefreshTokenRepo{}

	return &repository.Repository{
		User:         users,
		Seller:       sellers,
		OTP:          otp,
		RefreshToken: refresh,
	}, otp, users, sellers, refresh
}
