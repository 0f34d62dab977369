package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/WheelShare/WheelShare/internal/api"
)

// tokenSkew 提前换票的余量：离过期不足该值时视为已过期。
const tokenSkew = 30 * time.Second

// Boundary 会话/身份边界：当前身份的唯一写入方。
// 其他组件只通过 Current / Subscribe / Token 读取，不得自行缓存身份。
type Boundary struct {
	mu       sync.RWMutex
	provider Provider
	current  *Identity
	token    Token // 缓存的短期凭证，过期透明换新

	subs    map[int]func(Identity, bool)
	nextSub int

	now func() time.Time // 测试注入
}

// NewBoundary 创建会话边界（初始为匿名）。
func NewBoundary(provider Provider) *Boundary {
	return &Boundary{
		provider: provider,
		subs:     make(map[int]func(Identity, bool)),
		now:      time.Now,
	}
}

// Current 返回当前身份。第二个返回值为 false 表示匿名。
func (b *Boundary) Current() (Identity, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.current == nil {
		return Identity{}, false
	}
	return *b.current, true
}

// Subscribe 注册身份变更回调，立即以当前值触发一次。
// 返回的函数用于取消订阅。
func (b *Boundary) Subscribe(fn func(id Identity, ok bool)) func() {
	b.mu.Lock()
	key := b.nextSub
	b.nextSub++
	b.subs[key] = fn
	var id Identity
	ok := b.current != nil
	if ok {
		id = *b.current
	}
	b.mu.Unlock()

	fn(id, ok)

	return func() {
		b.mu.Lock()
		delete(b.subs, key)
		b.mu.Unlock()
	}
}

// setIdentity 更新身份并通知订阅者。回调在锁外执行。
func (b *Boundary) setIdentity(id *Identity) {
	b.mu.Lock()
	b.current = id
	b.token = Token{}
	fns := make([]func(Identity, bool), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	var snapshot Identity
	ok := id != nil
	if ok {
		snapshot = *id
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(snapshot, ok)
	}
}

// SignIn 邮箱密码登录。
func (b *Boundary) SignIn(ctx context.Context, email, password string) error {
	if b == nil || b.provider == nil {
		return &api.AuthError{Reason: "identity provider not configured"}
	}
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return &api.ValidationError{Field: "credentials", Reason: "email and password are required"}
	}

	id, err := b.provider.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	b.setIdentity(&id)
	return nil
}

// SignInWithProvider 第三方登录（例如 Google）。
func (b *Boundary) SignInWithProvider(ctx context.Context) error {
	if b == nil || b.provider == nil {
		return &api.AuthError{Reason: "identity provider not configured"}
	}
	id, err := b.provider.SignInWithProvider(ctx)
	if err != nil {
		return err
	}
	b.setIdentity(&id)
	return nil
}

// SignUp 注册并登录。密码策略在本地校验，不合规时不触达身份提供方。
func (b *Boundary) SignUp(ctx context.Context, email, password string) error {
	if b == nil || b.provider == nil {
		return &api.AuthError{Reason: "identity provider not configured"}
	}
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return &api.ValidationError{Field: "email", Reason: "email is required"}
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}

	id, err := b.provider.SignUp(ctx, email, password)
	if err != nil {
		return err
	}
	b.setIdentity(&id)
	return nil
}

// SignOut 退出登录，恢复匿名。
func (b *Boundary) SignOut() {
	if b == nil {
		return
	}
	b.setIdentity(nil)
}

// UpdateProfile 更新展示名/头像，成功后同步通知订阅者。
func (b *Boundary) UpdateProfile(ctx context.Context, displayName, photoURL string) error {
	if b == nil || b.provider == nil {
		return &api.AuthError{Reason: "identity provider not configured"}
	}
	cur, ok := b.Current()
	if !ok {
		return &api.ValidationError{Reason: "not signed in"}
	}

	id, err := b.provider.UpdateProfile(ctx, cur.Email, displayName, photoURL)
	if err != nil {
		return err
	}
	b.setIdentity(&id)
	return nil
}

// Token 实现 api.TokenSource：
// - 匿名时返回 ("", nil)，请求以匿名发出
// - 缓存凭证仍然新鲜则直接复用，否则向提供方换新
func (b *Boundary) Token(ctx context.Context) (string, error) {
	if b == nil {
		return "", nil
	}

	b.mu.RLock()
	current := b.current
	cached := b.token
	now := b.now()
	b.mu.RUnlock()

	if current == nil {
		return "", nil
	}
	if cached.Value != "" && cached.ExpiresAt.After(now.Add(tokenSkew)) {
		return cached.Value, nil
	}

	fresh, err := b.provider.IssueToken(ctx, current.Email)
	if err != nil {
		return "", err
	}

	b.mu.Lock()
	// 换票期间可能已退出登录；匿名会话不缓存凭证
	if b.current != nil && b.current.Email == current.Email {
		b.token = fresh
	}
	b.mu.Unlock()

	return fresh.Value, nil
}

// 密码策略（与注册表单约定一致）。
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return &api.ValidationError{Field: "password", Reason: "password must be at least 6 characters"}
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		return &api.ValidationError{Field: "password", Reason: "password must contain an uppercase letter"}
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= 'a' && r <= 'z' }) {
		return &api.ValidationError{Field: "password", Reason: "password must contain a lowercase letter"}
	}
	return nil
}
