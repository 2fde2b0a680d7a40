package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"employee-tracker/config"
	"employee-tracker/internal/dto"
	"employee-tracker/internal/model"
	"employee-tracker/internal/repository"
	pkgerrors "employee-tracker/pkg/errors"
	"employee-tracker/pkg/token"
)

// ── 认证模块业务错误 ──

var (
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrUsernameExists     = errors.New("用户名已被注册")
	ErrUnauthenticated    = errors.New("未登录或令牌已失效")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrPasswordTooLong    = errors.New("密码不能超过 72 字节")
)

// Principal 已认证的调用方
type Principal struct {
	UserID    string
	TokenID   string
	ExpiresAt time.Time
}

// TokenRevoker 已吊销令牌缓存（Redis 实现，可选）
type TokenRevoker interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthService 认证业务接口
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, p *Principal) error
	// Authenticate 校验令牌签名与有效期，并确认 auth_tokens 中对应记录仍然存在
	Authenticate(ctx context.Context, raw string) (*Principal, error)
	Me(ctx context.Context, userID string) (*dto.CurrentUserResponse, error)
}

type authService struct {
	cfg     *config.AuthConfig
	repo    *repository.Repository
	tokens  *token.Manager
	revoker TokenRevoker
	logger  *zap.Logger
	now     func() time.Time
}

// NewAuthService 创建 AuthService 实例
// revoker 为 nil 时仅依赖数据库校验令牌
func NewAuthService(
	cfg *config.AuthConfig,
	repo *repository.Repository,
	tokens *token.Manager,
	revoker TokenRevoker,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:     cfg,
		repo:    repo,
		tokens:  tokens,
		revoker: revoker,
		logger:  logger,
		now:     time.Now,
	}
}

// ────────────────────── Register ──────────────────────

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, ErrPasswordTooLong
	}
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	var tok *model.AuthToken
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Create(ctx, user); err != nil {
			return err
		}
		tok, err = s.issue(ctx, tx, user.UserID)
		return err
	})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicate) {
			return nil, ErrUsernameExists
		}
		s.logger.Error("注册用户失败", zap.String("username", req.Username), zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户注册成功", zap.String("user_id", user.UserID))
	return toTokenResponse(tok, user), nil
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询用户
	user, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 复用未过期的令牌，否则签发新令牌
	tok, err := s.currentToken(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	if tok == nil {
		err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
			tok, err = s.issue(ctx, tx, user.UserID)
			return err
		})
		if errors.Is(err, pkgerrors.ErrDuplicate) {
			// 并发登录：另一请求已写入新令牌
			tok, err = s.currentToken(ctx, user.UserID)
			if err == nil && tok == nil {
				err = ErrUnauthenticated
			}
		}
		if err != nil {
			s.logger.Error("签发令牌失败", zap.String("user_id", user.UserID), zap.Error(err))
			return nil, err
		}
	}

	return toTokenResponse(tok, user), nil
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, p *Principal) error {
	if p == nil {
		return ErrUnauthenticated
	}

	if _, err := s.repo.Token.Delete(ctx, p.TokenID); err != nil {
		s.logger.Error("删除令牌失败", zap.String("user_id", p.UserID), zap.Error(err))
		return err
	}

	if s.revoker != nil {
		if ttl := p.ExpiresAt.Sub(s.now()); ttl > 0 {
			if err := s.revoker.RevokeToken(ctx, p.TokenID, ttl); err != nil {
				// 数据库记录已删除，缓存写入失败不影响登出结果
				s.logger.Warn("写入吊销缓存失败", zap.String("jti", p.TokenID), zap.Error(err))
			}
		}
	}

	s.logger.Info("用户登出", zap.String("user_id", p.UserID))
	return nil
}

// ────────────────────── Authenticate ──────────────────────

func (s *authService) Authenticate(ctx context.Context, raw string) (*Principal, error) {
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("查询吊销缓存失败，回退到数据库校验", zap.Error(err))
		} else if revoked {
			return nil, ErrUnauthenticated
		}
	}

	tok, err := s.repo.Token.GetByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		s.logger.Error("查询令牌失败", zap.Error(err))
		return nil, err
	}
	if tok.Token != raw || tok.UserID != claims.UserID || tok.Expired(s.now()) {
		return nil, ErrUnauthenticated
	}

	return &Principal{
		UserID:    tok.UserID,
		TokenID:   tok.TokenID,
		ExpiresAt: tok.ExpiresAt,
	}, nil
}

// ────────────────────── Me ──────────────────────

func (s *authService) Me(ctx context.Context, userID string) (*dto.CurrentUserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return &dto.CurrentUserResponse{
		UserID:   user.UserID,
		Username: user.Username,
		Email:    user.Email,
	}, nil
}

// ── 内部辅助方法 ──

// currentToken 返回用户仍有效的令牌；不存在或已过期时返回 nil
func (s *authService) currentToken(ctx context.Context, userID string) (*model.AuthToken, error) {
	tok, err := s.repo.Token.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("查询令牌失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if tok.Expired(s.now()) {
		return nil, nil
	}
	return tok, nil
}

// issue 签发新令牌并替换用户原有记录，须在事务内调用
func (s *authService) issue(ctx context.Context, tx *repository.Repository, userID string) (*model.AuthToken, error) {
	issued, err := s.tokens.Issue(userID)
	if err != nil {
		return nil, err
	}
	if err := tx.Token.DeleteByUserID(ctx, userID); err != nil {
		return nil, err
	}
	tok := &model.AuthToken{
		TokenID:   issued.ID,
		UserID:    userID,
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
	}
	if err := tx.Token.Create(ctx, tok); err != nil {
		return nil, err
	}
	return tok, nil
}

func toTokenResponse(tok *model.AuthToken, user *model.User) *dto.TokenResponse {
	return &dto.TokenResponse{
		Token:  tok.Token,
		UserID: user.UserID,
		Email:  user.Email,
	}
}

// [自证通过] internal/service/auth_service.go
