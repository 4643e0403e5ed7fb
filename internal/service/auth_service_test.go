package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"shiftboard/backend/config"
	"shiftboard/backend/internal/dto"
	"shiftboard/backend/pkg/jwt"
)

func setupTestAuthService() (AuthService, *testRepos) {
	repos := newTestRepos()
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret-key-32-bytes-long!!!"
	cfg.Auth.AccessTokenTTL = 15 * time.Minute
	cfg.Auth.RefreshTokenTTL = 7 * 24 * time.Hour
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := NewAuthService(cfg, repos.toRepository(), jwtMgr, nil, zap.NewNop())
	return svc, repos
}

// ════════════════════════════════════════════════════════════
// Register / Login 测试
// ════════════════════════════════════════════════════════════

func TestAuthService_Register_ThenLogin(t *testing.T) {
	svc, _ := setupTestAuthService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, &dto.RegisterRequest{
		Name:     "张三",
		Email:    "alice@test.local",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("注册应直接签发令牌对")
	}
	if resp.User.Email != "alice@test.local" {
		t.Errorf("用户信息不符: %+v", resp.User)
	}

	login, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "alice@test.local",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if login.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("expires_in 不符: %d", login.ExpiresIn)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, _ := setupTestAuthService()
	ctx := context.Background()

	req := &dto.RegisterRequest{Name: "张三", Email: "dup@test.local", Password: "s3cret-pass"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("第一次注册应成功: %v", err)
	}
	if _, err := svc.Register(ctx, req); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("期望 ErrEmailTaken，得到: %v", err)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _ := setupTestAuthService()
	ctx := context.Background()

	svc.Register(ctx, &dto.RegisterRequest{Name: "张三", Email: "alice@test.local", Password: "s3cret-pass"})

	_, err := svc.Login(ctx, &dto.LoginRequest{Email: "alice@test.local", Password: "wrong-pass"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("期望 ErrInvalidCredentials，得到: %v", err)
	}

	// 未注册邮箱同样返回凭证错误，不区分两种情况
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@test.local", Password: "whatever"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("期望 ErrInvalidCredentials，得到: %v", err)
	}
}

// ════════════════════════════════════════════════════════════
// RefreshToken 测试
// ════════════════════════════════════════════════════════════

func TestAuthService_RefreshToken(t *testing.T) {
	svc, _ := setupTestAuthService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, &dto.RegisterRequest{Name: "张三", Email: "alice@test.local", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("Register 失败: %v", err)
	}

	resp, err := svc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: reg.RefreshToken})
	if err != nil {
		t.Fatalf("RefreshToken 应成功: %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("应签发新的 AccessToken")
	}
}

func TestAuthService_RefreshToken_AccessTokenRejected(t *testing.T) {
	svc, _ := setupTestAuthService()
	ctx := context.Background()

	reg, _ := svc.Register(ctx, &dto.RegisterRequest{Name: "张三", Email: "alice@test.local", Password: "s3cret-pass"})

	// 用 access token 换新应被拒绝
	_, err := svc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: reg.AccessToken})
	if !errors.Is(err, ErrInvalidRefresh) {
		t.Fatalf("期望 ErrInvalidRefresh，得到: %v", err)
	}
}

func TestAuthService_RefreshToken_Garbage(t *testing.T) {
	svc, _ := setupTestAuthService()

	_, err := svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: "not.a.token"})
	if !errors.Is(err, ErrInvalidRefresh) {
		t.Fatalf("期望 ErrInvalidRefresh，得到: %v", err)
	}
}

// ════════════════════════════════════════════════════════════
// ChangePassword 测试
// ════════════════════════════════════════════════════════════

func TestAuthService_ChangePassword(t *testing.T) {
	svc, _ := setupTestAuthService()
	ctx := context.Background()

	reg, _ := svc.Register(ctx, &dto.RegisterRequest{Name: "张三", Email: "alice@test.local", Password: "old-password"})
	userID := reg.User.ID

	err := svc.ChangePassword(ctx, userID, &dto.ChangePasswordRequest{
		OldPassword: "old-password",
		NewPassword: "new-password",
	})
	if err != nil {
		t.Fatalf("ChangePassword 应成功: %v", err)
	}

	// 旧密码失效、新密码可登录
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "alice@test.local", Password: "old-password"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("旧密码应失效，得到: %v", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "alice@test.local", Password: "new-password"}); err != nil {
		t.Errorf("新密码应可登录: %v", err)
	}
}

func TestAuthService_ChangePassword_WrongOld(t *testing.T) {
	svc, _ := setupTestAuthService()
	ctx := context.Background()

	reg, _ := svc.Register(ctx, &dto.RegisterRequest{Name: "张三", Email: "alice@test.local", Password: "old-password"})

	err := svc.ChangePassword(ctx, reg.User.ID, &dto.ChangePasswordRequest{
		OldPassword: "bad-guess",
		NewPassword: "new-password",
	})
	if !errors.Is(err, ErrWrongOldPassword) {
		t.Fatalf("期望 ErrWrongOldPassword，得到: %v", err)
	}
}
