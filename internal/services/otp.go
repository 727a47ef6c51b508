package services

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"math"
	"math/big"
	"time"
)

var otpSpace = big.NewInt(1_000_000)

// generateOTP returns a zero-padded six digit code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpSpace)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func hashOTP(code string) string {
	h := sha256.Sum256([]byte(code))
	return fmt.Sprintf("%x", h)
}

func otpMatches(stored *string, code string) bool {
	if stored == nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(*stored), []byte(hashOTP(code))) == 1
}

// cooldownRemaining returns how long until another code may be sent.
func cooldownRemaining(lastSent *time.Time, cooldown time.Duration, now time.Time) time.Duration {
	if lastSent == nil {
		return 0
	}
	if left := cooldown - now.Sub(*lastSent); left > 0 {
		return left
	}
	return 0
}

func waitError(left time.Duration) error {
	minutes := int(math.Ceil(left.Minutes()))
	return fmt.Errorf("%w %d minute(s) before requesting a new OTP", ErrRateLimited, minutes)
}
