package repository

import (
	"context"
	"fmt"
	"time"

	"marketplace-backend/internal/data/entity"
	"marketplace-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type OTPRepository interface {
	Upsert(ctx context.Context, otp *entity.OTP) error
	FindActive(ctx context.Context, phoneNumber string) (*entity.OTP, error)
	IncrementAttempts(ctx context.Context, otpID uuid.UUID) error
	MarkVerified(ctx context.Context, otpID uuid.UUID) error
	DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}

type otpRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOTPRepository(db database.PgxIface, log *zap.Logger) OTPRepository {
	return &otpRepository{
		db:  db,
		log: log.With(zap.String("repository", "otp")),
	}
}

// Upsert stores a freshly generated code. If the phone number still has an
// unverified, unexpired row, that row is updated in place (resend semantics)
// and its attempt counter reset; otherwise a new row is inserted.
func (r *otpRepository) Upsert(ctx context.Context, otp *entity.OTP) error {
	update := `
		UPDATE otps
		SET code = $2, attempts = 0, expires_at = $3, updated_at = $4
		WHERE phone_number = $1
		  AND verified = false
		  AND expires_at > NOW()
	`

	result, err := r.db.Exec(ctx, update,
		otp.PhoneNumber,
		otp.Code,
		otp.ExpiresAt,
		otp.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update OTP",
			zap.Error(err),
			zap.String("phone_number", otp.PhoneNumber),
		)
		return fmt.Errorf("upsert OTP for %s: %w", otp.PhoneNumber, err)
	}

	if result.RowsAffected() > 0 {
		return nil
	}

	insert := `
		INSERT INTO otps (id, phone_number, code, attempts, expires_at,
		                  verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.db.Exec(ctx, insert,
		otp.ID,
		otp.PhoneNumber,
		otp.Code,
		otp.Attempts,
		otp.ExpiresAt,
		otp.Verified,
		otp.CreatedAt,
		otp.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to insert OTP",
			zap.Error(err),
			zap.String("phone_number", otp.PhoneNumber),
		)
		return fmt.Errorf("upsert OTP for %s: %w", otp.PhoneNumber, err)
	}

	return nil
}

// FindActive returns the most recently created unverified, unexpired row for
// the phone number, or nil when none exists. Expired and already-consumed
// rows are filtered here, not deleted.
func (r *otpRepository) FindActive(ctx context.Context, phoneNumber string) (*entity.OTP, error) {
	query := `
		SELECT id, phone_number, code, attempts, expires_at,
		       verified, created_at, updated_at
		FROM otps
		WHERE phone_number = $1
		  AND verified = false
		  AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`

	var otp entity.OTP
	err := r.db.QueryRow(ctx, query, phoneNumber).Scan(
		&otp.ID,
		&otp.PhoneNumber,
		&otp.Code,
		&otp.Attempts,
		&otp.ExpiresAt,
		&otp.Verified,
		&otp.CreatedAt,
		&otp.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find active OTP",
			zap.Error(err),
			zap.String("phone_number", phoneNumber),
		)
		return nil, fmt.Errorf("find active OTP for %s: %w", phoneNumber, err)
	}

	return &otp, nil
}

func (r *otpRepository) IncrementAttempts(ctx context.Context, otpID uuid.UUID) error {
	query := `
		UPDATE otps
		SET attempts = attempts + 1, updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.Exec(ctx, query, otpID)
	if err != nil {
		r.log.Error("Failed to increment OTP attempts",
			zap.Error(err),
			zap.String("otp_id", otpID.String()),
		)
		return fmt.Errorf("increment attempts for OTP %s: %w", otpID.String(), err)
	}

	return nil
}

// MarkVerified performs the one-time false->true transition. A row that is
// already verified is not matched, so a second call reports not found.
func (r *otpRepository) MarkVerified(ctx context.Context, otpID uuid.UUID) error {
	query := `
		UPDATE otps
		SET verified = true, updated_at = NOW()
		WHERE id = $1 AND verified = false
	`

	result, err := r.db.Exec(ctx, query, otpID)
	if err != nil {
		r.log.Error("Failed to mark OTP verified",
			zap.Error(err),
			zap.String("otp_id", otpID.String()),
		)
		return fmt.Errorf("mark OTP %s verified: %w", otpID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("OTP %s not found or already verified", otpID.String())
	}

	return nil
}

// DeleteExpired removes rows whose expiry passed more than olderThan ago.
// Called by the cleanup loop so stale rows do not accumulate forever.
func (r *otpRepository) DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	query := `
		DELETE FROM otps
		WHERE expires_at < NOW() - $1::interval
	`

	result, err := r.db.Exec(ctx, query, olderThan.String())
	if err != nil {
		r.log.Error("Failed to delete expired OTPs", zap.Error(err))
		return 0, fmt.Errorf("delete expired OTPs: %w", err)
	}

	return result.RowsAffected(), nil
}
