package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"employee-tracker/config"
	"employee-tracker/internal/dto"
	"employee-tracker/pkg/redis"
)

func TestAuthService_Register(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.svc.Auth.Register(ctx, &dto.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "s3cret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.UserID)
	assert.Equal(t, "alice@example.com", resp.Email)

	p, err := env.svc.Auth.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, p.UserID)

	user, err := env.repo.User.GetByID(ctx, resp.UserID)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", user.PasswordHash, "密码必须以哈希形式存储")
}

func TestAuthService_Register_UsernameTaken(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	_, err := env.svc.Auth.Register(context.Background(), &dto.RegisterRequest{
		Username: "alice", Email: "other@example.com", Password: "x",
	})
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestAuthService_Register_PasswordTooLong(t *testing.T) {
	env := newTestEnv(t)

	// 25 个汉字：75 字节，字符数在校验范围内
	_, err := env.svc.Auth.Register(context.Background(), &dto.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: strings.Repeat("密", 25),
	})
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = env.repo.User.GetByUsername(context.Background(), "alice")
	assert.Error(t, err, "失败的注册不应留下用户记录")
}

func TestAuthService_Login(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID, regToken := env.register(t, "alice")

	t.Run("复用未过期令牌", func(t *testing.T) {
		resp, err := env.svc.Auth.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "pass-alice"})
		require.NoError(t, err)
		assert.Equal(t, regToken, resp.Token)
		assert.Equal(t, userID, resp.UserID)
	})

	t.Run("密码错误", func(t *testing.T) {
		_, err := env.svc.Auth.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "wrong"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("用户不存在", func(t *testing.T) {
		_, err := env.svc.Auth.Login(ctx, &dto.LoginRequest{Username: "nobody", Password: "x"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_Login_ExpiredTokenReissued(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, oldToken := env.register(t, "alice")

	as := env.svc.Auth.(*authService)
	as.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err := env.svc.Auth.Authenticate(ctx, oldToken)
	assert.ErrorIs(t, err, ErrUnauthenticated, "过期令牌不应通过认证")

	resp, err := env.svc.Auth.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "pass-alice"})
	require.NoError(t, err)
	assert.NotEqual(t, oldToken, resp.Token)

	as.now = time.Now
	_, err = env.svc.Auth.Authenticate(ctx, oldToken)
	assert.ErrorIs(t, err, ErrUnauthenticated, "旧令牌记录应已被替换")
	_, err = env.svc.Auth.Authenticate(ctx, resp.Token)
	assert.NoError(t, err)
}

func TestAuthService_Logout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, tok := env.register(t, "alice")

	p, err := env.svc.Auth.Authenticate(ctx, tok)
	require.NoError(t, err)
	require.NoError(t, env.svc.Auth.Logout(ctx, p))

	_, err = env.svc.Auth.Authenticate(ctx, tok)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	resp, err := env.svc.Auth.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "pass-alice"})
	require.NoError(t, err)
	assert.NotEqual(t, tok, resp.Token, "登出后应签发新令牌")

	_, err = env.svc.Auth.Authenticate(ctx, resp.Token)
	assert.NoError(t, err)
}

func TestAuthService_Logout_RecordsRevocation(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := redis.NewClient(&config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	env := newTestEnvWithRevoker(t, client)
	ctx := context.Background()
	_, tok := env.register(t, "alice")

	p, err := env.svc.Auth.Authenticate(ctx, tok)
	require.NoError(t, err)
	require.NoError(t, env.svc.Auth.Logout(ctx, p))

	revoked, err := client.IsRevoked(ctx, p.TokenID)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = env.svc.Auth.Authenticate(ctx, tok)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthService_Authenticate_Invalid(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.Auth.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthService_Logout_Nil(t *testing.T) {
	env := newTestEnv(t)
	assert.ErrorIs(t, env.svc.Auth.Logout(context.Background(), nil), ErrUnauthenticated)
}

func TestAuthService_Me(t *testing.T) {
	env := newTestEnv(t)
	userID, _ := env.register(t, "alice")

	me, err := env.svc.Auth.Me(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)
	assert.Equal(t, "alice@example.com", me.Email)

	_, err = env.svc.Auth.Me(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
