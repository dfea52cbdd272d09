package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/shop-api/config"
	"github.com/d60-Lab/shop-api/internal/model"
	"github.com/d60-Lab/shop-api/internal/repository"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrOTPInvalid         = errors.New("invalid or expired verification code")
	ErrOTPTooManyAttempts = errors.New("too many verification attempts")
	// ErrResetUnavailable 找回密码依赖 redis 存验证码；降级运行（无 redis）时整个流程不可用
	ErrResetUnavailable = errors.New("password reset temporarily unavailable")
)

// Claims JWT 载荷
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService 注册、登录与 OTP 找回密码
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)

	// RequestReset 生成 6 位验证码写入 redis（带 TTL），返回验证码交由邮件通道发送。
	// 邮箱不存在时也返回成功语义，避免探测注册邮箱。
	RequestReset(ctx context.Context, email string) (code string, err error)

	// VerifyReset 校验验证码；尝试次数超限直接作废
	VerifyReset(ctx context.Context, email, code string) error

	// ConfirmReset 校验通过后落新密码并清理验证码
	ConfirmReset(ctx context.Context, email, code, newPassword string) error
}

type authService struct {
	users    repository.UserRepository
	cache    *redis.Client
	notifier *Notifier
	jwtCfg   config.JWTConfig
	otpCfg   config.OTPConfig
}

// NewAuthService 创建认证服务
func NewAuthService(users repository.UserRepository, cache *redis.Client, notifier *Notifier, jwtCfg config.JWTConfig, otpCfg config.OTPConfig) AuthService {
	return &authService{users: users, cache: cache, notifier: notifier, jwtCfg: jwtCfg, otpCfg: otpCfg}
}

func otpKey(email string) string         { return "otp:reset:" + email }
func otpAttemptKey(email string) string  { return "otp:reset:attempts:" + email }
func otpVerifiedKey(email string) string { return "otp:reset:verified:" + email }

func (s *authService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		Role:     model.RoleCustomer,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.notifier.Notify(user.ID, model.NotificationTypeSystem, "欢迎注册", "账号创建成功", "")
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtCfg.TTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtCfg.Secret))
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *authService) RequestReset(ctx context.Context, email string) (string, error) {
	if s.cache == nil {
		return "", ErrResetUnavailable
	}
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}

	code, err := generateOTP()
	if err != nil {
		return "", err
	}
	pipe := s.cache.TxPipeline()
	pipe.Set(ctx, otpKey(email), code, s.otpCfg.TTL)
	pipe.Del(ctx, otpAttemptKey(email), otpVerifiedKey(email))
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}
	return code, nil
}

func (s *authService) VerifyReset(ctx context.Context, email, code string) error {
	if s.cache == nil {
		return ErrResetUnavailable
	}
	attempts, err := s.cache.Incr(ctx, otpAttemptKey(email)).Result()
	if err != nil {
		return err
	}
	_ = s.cache.Expire(ctx, otpAttemptKey(email), s.otpCfg.TTL).Err()
	if int(attempts) > s.otpCfg.MaxAttempts {
		_ = s.cache.Del(ctx, otpKey(email)).Err()
		return ErrOTPTooManyAttempts
	}

	stored, err := s.cache.Get(ctx, otpKey(email)).Result()
	if err != nil || stored == "" || stored != code {
		return ErrOTPInvalid
	}
	return s.cache.Set(ctx, otpVerifiedKey(email), "1", s.otpCfg.TTL).Err()
}

func (s *authService) ConfirmReset(ctx context.Context, email, code, newPassword string) error {
	if err := s.VerifyReset(ctx, email, code); err != nil {
		return err
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOTPInvalid
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}
	_ = s.cache.Del(ctx, otpKey(email), otpAttemptKey(email), otpVerifiedKey(email)).Err()
	s.notifier.Notify(user.ID, model.NotificationTypeSystem, "密码已重置", "如非本人操作请联系客服", "")
	return nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
