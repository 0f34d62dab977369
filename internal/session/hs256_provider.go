package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/WheelShare/WheelShare/internal/api"
	"github.com/WheelShare/WheelShare/internal/common/config"
)

const (
	passwordSaltBytes = 16
	passwordIters     = 100_000
)

// account 内存账户记录。
type account struct {
	identity     Identity
	passwordHash string
	passwordSalt string
}

// HS256Provider 开发环境身份提供方：内存账户 + HS256 JWT 签发。
// 生产部署替换为真正的身份服务（Provider 接口不变）。
type HS256Provider struct {
	mu        sync.Mutex
	cfg       config.AuthConfig
	accounts  map[string]*account
	federated *Identity // 模拟第三方登录返回的身份；未配置时第三方登录报错
	now       func() time.Time
}

// NewHS256Provider 创建开发身份提供方。
func NewHS256Provider(cfg config.AuthConfig) *HS256Provider {
	return &HS256Provider{
		cfg:      cfg,
		accounts: make(map[string]*account),
		now:      time.Now,
	}
}

// WithFederated 配置模拟第三方登录返回的身份。
func (p *HS256Provider) WithFederated(id Identity) *HS256Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.federated = &id
	return p
}

func (p *HS256Provider) SignIn(ctx context.Context, email, password string) (Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	acc, ok := p.accounts[email]
	if !ok || !verifyPassword(password, acc.passwordSalt, acc.passwordHash) {
		return Identity{}, &api.AuthError{Reason: "invalid email or password"}
	}
	return acc.identity, nil
}

func (p *HS256Provider) SignInWithProvider(ctx context.Context) (Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.federated == nil {
		return Identity{}, &api.AuthError{Reason: "external provider not configured"}
	}
	id := *p.federated
	if _, ok := p.accounts[id.Email]; !ok {
		p.accounts[id.Email] = &account{identity: id}
	}
	return id, nil
}

func (p *HS256Provider) SignUp(ctx context.Context, email, password string) (Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.accounts[email]; ok {
		return Identity{}, &api.AuthError{Reason: "email already registered"}
	}

	salt, err := generateSaltHex()
	if err != nil {
		return Identity{}, &api.AuthError{Reason: "failed to create account", Err: err}
	}
	hash, err := hashPassword(password, salt)
	if err != nil {
		return Identity{}, &api.AuthError{Reason: "failed to create account", Err: err}
	}

	acc := &account{
		identity:     Identity{Email: email},
		passwordHash: hash,
		passwordSalt: salt,
	}
	p.accounts[email] = acc
	return acc.identity, nil
}

func (p *HS256Provider) UpdateProfile(ctx context.Context, email, displayName, photoURL string) (Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	acc, ok := p.accounts[email]
	if !ok {
		return Identity{}, &api.AuthError{Reason: "account not found"}
	}
	if s := strings.TrimSpace(displayName); s != "" {
		acc.identity.DisplayName = s
	}
	if s := strings.TrimSpace(photoURL); s != "" {
		acc.identity.PhotoURL = s
	}
	return acc.identity, nil
}

// IssueToken 签发 HS256 JWT（subject = email）。
func (p *HS256Provider) IssueToken(ctx context.Context, email string) (Token, error) {
	p.mu.Lock()
	acc, ok := p.accounts[email]
	cfg := p.cfg
	now := p.now()
	p.mu.Unlock()

	if !ok {
		return Token{}, &api.AuthError{Reason: "account not found"}
	}
	if cfg.JWTSecret == "" {
		return Token{}, &api.AuthError{Reason: "jwt_secret is empty"}
	}

	ttl := time.Duration(cfg.TTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}
	expiresAt := now.Add(ttl)

	claims := struct {
		Name  string `json:"name,omitempty"`
		Photo string `json:"photo,omitempty"`
		jwt.RegisteredClaims
	}{
		Name:  acc.identity.DisplayName,
		Photo: acc.identity.PhotoURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    cfg.Issuer,
			Audience:  audience(cfg.Audience),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return Token{}, &api.AuthError{Reason: "failed to sign token", Err: err}
	}
	return Token{Value: signed, ExpiresAt: expiresAt}, nil
}

func audience(aud string) jwt.ClaimStrings {
	if aud == "" {
		return nil
	}
	return jwt.ClaimStrings{aud}
}

func generateSaltHex() (string, error) {
	b := make([]byte, passwordSaltBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func hashPassword(password, saltHex string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password is empty")
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return "", fmt.Errorf("invalid salt: %w", err)
	}
	// 简化实现：多轮 SHA256(salt || password || prev)。
	// 说明：生产建议使用 bcrypt/argon2（需要额外依赖与环境支持）。
	var prev [32]byte
	for i := 0; i < passwordIters; i++ {
		h := sha256.New()
		_, _ = h.Write(salt)
		_, _ = h.Write([]byte(password))
		_, _ = h.Write(prev[:])
		copy(prev[:], h.Sum(nil))
	}
	return hex.EncodeToString(prev[:]), nil
}

func verifyPassword(password, saltHex, wantHashHex string) bool {
	if wantHashHex == "" {
		return false
	}
	got, err := hashPassword(password, saltHex)
	if err != nil {
		return false
	}
	return got == wantHashHex
}
