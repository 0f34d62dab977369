package session

import (
	"context"
	"time"
)

// Identity 当前登录身份（对外只读）。
type Identity struct {
	Email       string
	DisplayName string
	PhotoURL    string
}

// Token 身份提供方签发的短期凭证。
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Provider 不透明的身份提供方。Boundary 之外的组件不得直接依赖它。
// 所有失败以 *api.AuthError 返回。
type Provider interface {
	SignIn(ctx context.Context, email, password string) (Identity, error)
	SignInWithProvider(ctx context.Context) (Identity, error)
	SignUp(ctx context.Context, email, password string) (Identity, error)
	UpdateProfile(ctx context.Context, email, displayName, photoURL string) (Identity, error)
	IssueToken(ctx context.Context, email string) (Token, error)
}
