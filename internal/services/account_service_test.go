package services

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type accountFixture struct {
	svc   *AccountService
	users *memUsers
	queue *captureQueue
	clock *clock
}

func newAccountFixture() *accountFixture {
	f := &accountFixture{
		users: newMemUsers(),
		queue: &captureQueue{},
		clock: &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
	}
	cfg := &config.Config{OTPTTL: 10 * time.Minute, OTPResendCooldown: 10 * time.Minute}
	tokens := NewTokenIssuer("test-secret", time.Hour)
	f.svc = NewAccountService(f.users, tokens, f.queue, cfg)
	f.svc.now = f.clock.now
	return f
}

func (f *accountFixture) register(t *testing.T) string {
	t.Helper()
	_, err := f.svc.Register(context.Background(), &dto.RegisterRequest{
		Username: "alice", Email: "Alice@Example.com", Password: "secret1",
	})
	require.NoError(t, err)
	n := f.queue.last()
	require.Equal(t, notify.KindOTP, n.Kind)
	return n.Data["Code"]
}

func TestRegister_CreatesUnverifiedUserAndSendsCode(t *testing.T) {
	f := newAccountFixture()
	code := f.register(t)

	assert.Len(t, code, 6)
	u, err := f.users.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.False(t, u.IsEmailVerified)
	assert.NotEqual(t, "secret1", u.Password)
	require.NotNil(t, u.OTPExpires)
	assert.Equal(t, f.clock.t.Add(10*time.Minute), *u.OTPExpires)
	assert.NotEqual(t, code, *u.OTP)
}

func TestRegister_Validation(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()

	_, err := f.svc.Register(ctx, &dto.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "123"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.Register(ctx, &dto.RegisterRequest{Username: "bob", Email: "not-an-email", Password: "secret1"})
	assert.ErrorIs(t, err, ErrValidation)

	f.register(t)
	_, err = f.svc.Register(ctx, &dto.RegisterRequest{Username: "alice", Email: "other@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestVerifyOTP_RoundTrip(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()
	code := f.register(t)

	_, err := f.svc.VerifyOTP(ctx, "alice@example.com", "000000x")
	assert.ErrorIs(t, err, ErrInvalidOTP)

	resp, err := f.svc.VerifyOTP(ctx, "alice@example.com", code)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.True(t, resp.User.IsEmailVerified)
	assert.Nil(t, resp.User.OTP)
	assert.Nil(t, resp.User.OTPExpires)
	assert.Nil(t, resp.User.OTPLastSentAt)
	assert.Equal(t, notify.KindWelcome, f.queue.last().Kind)

	_, err = f.svc.VerifyOTP(ctx, "alice@example.com", code)
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestVerifyOTP_Expired(t *testing.T) {
	f := newAccountFixture()
	code := f.register(t)
	f.clock.advance(11 * time.Minute)

	_, err := f.svc.VerifyOTP(context.Background(), "alice@example.com", code)
	assert.ErrorIs(t, err, ErrOTPExpired)
}

func TestResendOTP_Cooldown(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()
	first := f.register(t)

	f.clock.advance(3 * time.Minute)
	err := f.svc.ResendOTP(ctx, "alice@example.com")
	require.ErrorIs(t, err, ErrRateLimited)
	assert.Contains(t, err.Error(), "7 minute(s)")

	f.clock.advance(7 * time.Minute)
	require.NoError(t, f.svc.ResendOTP(ctx, "alice@example.com"))
	second := f.queue.last().Data["Code"]

	if first != second {
		_, err = f.svc.VerifyOTP(ctx, "alice@example.com", first)
		assert.ErrorIs(t, err, ErrInvalidOTP)
	}
	_, err = f.svc.VerifyOTP(ctx, "alice@example.com", second)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.ResendOTP(ctx, "alice@example.com"), ErrAlreadyVerified)
	assert.ErrorIs(t, f.svc.ResendOTP(ctx, "nobody@example.com"), ErrUserNotFound)
}

func TestAuthenticate(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()
	code := f.register(t)

	_, err := f.svc.Authenticate(ctx, "alice", "secret1")
	assert.ErrorIs(t, err, ErrEmailNotVerified)

	_, err = f.svc.VerifyOTP(ctx, "alice@example.com", code)
	require.NoError(t, err)

	_, err = f.svc.Authenticate(ctx, "alice", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Authenticate(ctx, "ghost", "secret1")
	assert.ErrorIs(t, err, ErrUserNotFound)

	resp, err := f.svc.Authenticate(ctx, "ALICE@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.User.LastLogin)

	_, err = f.svc.AuthenticateAdmin(ctx, "alice", "secret1")
	assert.ErrorIs(t, err, ErrAdminRequired)

	u, _ := f.users.GetByEmail(ctx, "alice@example.com")
	u.IsActive = false
	require.NoError(t, f.users.Update(ctx, u))
	_, err = f.svc.Authenticate(ctx, "alice", "secret1")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestPasswordReset(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()
	code := f.register(t)
	_, err := f.svc.VerifyOTP(ctx, "alice@example.com", code)
	require.NoError(t, err)

	require.NoError(t, f.svc.ForgotPassword(ctx, "unknown@example.com"))
	require.NoError(t, f.svc.ForgotPassword(ctx, "alice@example.com"))
	reset := f.queue.last()
	require.Equal(t, notify.KindPasswordReset, reset.Kind)

	assert.ErrorIs(t, f.svc.ForgotPassword(ctx, "alice@example.com"), ErrRateLimited)

	err = f.svc.ResetPasswordWithOTP(ctx, &dto.ResetPasswordRequest{Email: "alice@example.com", OTP: "999999x", NewPassword: "newpass1"})
	assert.ErrorIs(t, err, ErrInvalidOTP)

	err = f.svc.ResetPasswordWithOTP(ctx, &dto.ResetPasswordRequest{Email: "alice@example.com", OTP: reset.Data["Code"], NewPassword: "newpass1"})
	require.NoError(t, err)

	_, err = f.svc.Authenticate(ctx, "alice", "newpass1")
	assert.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()
	code := f.register(t)
	resp, err := f.svc.VerifyOTP(ctx, "alice@example.com", code)
	require.NoError(t, err)
	id := resp.User.ID

	err = f.svc.ChangePassword(ctx, id, &dto.ChangePasswordRequest{CurrentPassword: "nope123", NewPassword: "another1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = f.svc.ChangePassword(ctx, id, &dto.ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "secret1"})
	assert.ErrorIs(t, err, ErrSamePassword)

	err = f.svc.ChangePassword(ctx, id, &dto.ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "abc"})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, f.svc.ChangePassword(ctx, id, &dto.ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "another1"}))
	_, err = f.svc.Authenticate(ctx, "alice", "another1")
	assert.NoError(t, err)
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	f := newAccountFixture()
	code := f.register(t)
	resp, err := f.svc.VerifyOTP(context.Background(), "alice@example.com", code)
	require.NoError(t, err)

	claims, err := parseTestToken(resp.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Name)
	assert.Equal(t, "user", claims.Role)
	assert.False(t, claims.IsAdmin())
}
