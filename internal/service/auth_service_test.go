package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/shop-api/config"
	"github.com/d60-Lab/shop-api/internal/repository"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func newAuthFixture(t *testing.T) AuthService {
	t.Helper()
	db := setupServiceDB(t)
	users := repository.NewUserRepository(db)
	notifier := NewNotifier(repository.NewNotificationRepository(db), nil, 100)
	stop := notifier.Start(1)
	t.Cleanup(func() { _ = stop(context.Background()) })

	return NewAuthService(users, setupRedis(t), notifier,
		config.JWTConfig{Secret: "test-secret", TTL: time.Hour},
		config.OTPConfig{TTL: 10 * time.Minute, MaxAttempts: 3},
	)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "s3cret", user.Password, "password must be hashed")

	_, err = svc.Register(ctx, "alice2", "alice@example.com", "other")
	require.ErrorIs(t, err, ErrEmailTaken)

	token, got, err := svc.Login(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, got.ID)

	_, _, err = svc.Login(ctx, "alice@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "s3cret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestOTPResetFlow(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "bob", "bob@example.com", "old-pass")
	require.NoError(t, err)

	code, err := svc.RequestReset(ctx, "bob@example.com")
	require.NoError(t, err)
	require.Len(t, code, 6)

	require.ErrorIs(t, svc.VerifyReset(ctx, "bob@example.com", "000000"), ErrOTPInvalid)
	require.NoError(t, svc.VerifyReset(ctx, "bob@example.com", code))

	require.NoError(t, svc.ConfirmReset(ctx, "bob@example.com", code, "new-pass"))

	_, _, err = svc.Login(ctx, "bob@example.com", "old-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "bob@example.com", "new-pass")
	require.NoError(t, err)

	// 重置完成后验证码随即作废
	require.Error(t, svc.VerifyReset(ctx, "bob@example.com", code))
}

func TestOTPAttemptLimit(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "carol", "carol@example.com", "pw")
	require.NoError(t, err)

	code, err := svc.RequestReset(ctx, "carol@example.com")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.ErrorIs(t, svc.VerifyReset(ctx, "carol@example.com", "999999"), ErrOTPInvalid)
	}
	// 超过上限后验证码被销毁，连正确验证码也拒绝
	require.ErrorIs(t, svc.VerifyReset(ctx, "carol@example.com", code), ErrOTPTooManyAttempts)
}

func TestOTPResetWithoutRedis(t *testing.T) {
	// 服务在无 redis 时降级运行：找回密码明确拒绝，而不是崩溃
	db := setupServiceDB(t)
	notifier := NewNotifier(repository.NewNotificationRepository(db), nil, 100)
	stop := notifier.Start(1)
	t.Cleanup(func() { _ = stop(context.Background()) })
	svc := NewAuthService(repository.NewUserRepository(db), nil, notifier,
		config.JWTConfig{Secret: "test-secret", TTL: time.Hour},
		config.OTPConfig{TTL: 10 * time.Minute, MaxAttempts: 3},
	)
	ctx := context.Background()

	_, err := svc.Register(ctx, "dave", "dave@example.com", "pw")
	require.NoError(t, err)

	_, err = svc.RequestReset(ctx, "dave@example.com")
	require.ErrorIs(t, err, ErrResetUnavailable)
	require.ErrorIs(t, svc.VerifyReset(ctx, "dave@example.com", "123456"), ErrResetUnavailable)
	require.ErrorIs(t, svc.ConfirmReset(ctx, "dave@example.com", "123456", "new-pw"), ErrResetUnavailable)

	// 注册登录不依赖 redis，照常可用
	_, _, err = svc.Login(ctx, "dave@example.com", "pw")
	require.NoError(t, err)
}

func TestRequestResetUnknownEmailIsSilent(t *testing.T) {
	svc := newAuthFixture(t)

	code, err := svc.RequestReset(context.Background(), "ghost@example.com")
	require.NoError(t, err)
	assert.Empty(t, code, "unknown email produces no code but no error either")
}
