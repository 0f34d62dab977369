package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/WheelShare/WheelShare/internal/common/config"
	"github.com/WheelShare/WheelShare/internal/common/logger"
	"github.com/WheelShare/WheelShare/internal/common/middleware"
	"github.com/WheelShare/WheelShare/internal/common/tracing"
)

// TokenSource 提供当前会话的 bearer token。
// 无会话时返回 ("", nil)，此时请求以匿名身份发出。
// token 的新鲜度（过期换新）由实现方负责，Client 不做任何缓存。
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

var errThrottled = errors.New("client request throttled")

// Client 带认证的请求客户端：所有出站调用的唯一入口。
// 职责只有一件事——把一次调用发出去并把结果/错误规整成统一形状，
// 不缓存、不重试、不排队。
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	breaker *middleware.CircuitBreaker
	limiter middleware.RateLimiter
	log     logger.Logger
}

// NewClient 创建请求客户端。tokens 可以为 nil（纯匿名客户端）。
func NewClient(cfg config.APIConfig, tokens TokenSource, log logger.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log,
	}
	if cfg.MaxFailures > 0 {
		reset := time.Duration(cfg.ResetSeconds) * time.Second
		if reset <= 0 {
			reset = 30 * time.Second
		}
		c.breaker = middleware.NewCircuitBreaker("rental-api", cfg.MaxFailures, reset)
	}
	if cfg.RatePerSecond > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = cfg.RatePerSecond
		}
		c.limiter = middleware.NewTokenBucket(burst, cfg.RatePerSecond)
	}
	return c
}

// SetBaseURL 更新 API 根地址（服务发现解析出新实例时使用）。
func (c *Client) SetBaseURL(baseURL string) {
	if c != nil && baseURL != "" {
		c.baseURL = baseURL
	}
}

// Call 发起一次 JSON 调用。
// - 有会话则附带 Authorization: Bearer <token>，否则匿名
// - body 非 nil 时序列化为 JSON
// - 非 2xx 且响应体形如 {"error": "..."} → *ApplicationError
// - 传输失败或响应体不可解析 → *NetworkError
// - out 非 nil 时把成功响应解码进去
func (c *Client) Call(ctx context.Context, method, endpoint string, body, out interface{}) error {
	if c == nil {
		return fmt.Errorf("client not initialized")
	}
	op := method + " " + endpoint

	if c.limiter != nil && !c.limiter.Allow(ctx) {
		return &NetworkError{Op: op, Err: errThrottled}
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	url := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return err
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	span, _ := tracing.StartClientSpan(ctx, op, method, url)
	tracing.InjectHTTPHeaders(span, req)

	start := time.Now()
	var resp *http.Response
	doErr := c.call(ctx, func() error {
		var e error
		resp, e = c.http.Do(req)
		return e
	})
	if doErr != nil {
		tracing.FinishWithStatus(span, 0, doErr)
		c.logAccess(op, 0, time.Since(start), doErr)
		return &NetworkError{Op: op, Err: doErr}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		tracing.FinishWithStatus(span, resp.StatusCode, err)
		c.logAccess(op, resp.StatusCode, time.Since(start), err)
		return &NetworkError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		callErr := failureError(op, resp.StatusCode, data)
		tracing.FinishWithStatus(span, resp.StatusCode, callErr)
		c.logAccess(op, resp.StatusCode, time.Since(start), callErr)
		return callErr
	}

	tracing.FinishWithStatus(span, resp.StatusCode, nil)
	c.logAccess(op, resp.StatusCode, time.Since(start), nil)

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// call 在启用熔断时经过熔断器执行。
func (c *Client) call(ctx context.Context, fn func() error) error {
	if c.breaker == nil {
		return fn()
	}
	return c.breaker.Call(ctx, fn)
}

// failureError 把失败响应规整为 ApplicationError / NetworkError。
// 约定失败体是 {"error": string}；不是这个形状就按不可解析处理。
func failureError(op string, status int, data []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.Error == "" {
		return &NetworkError{Op: op, Err: fmt.Errorf("unexpected response: status %d", status)}
	}
	return &ApplicationError{Status: status, Message: payload.Error}
}

func (c *Client) logAccess(op string, status int, cost time.Duration, err error) {
	if c.log == nil {
		return
	}
	fields := map[string]interface{}{
		"op":     op,
		"status": status,
		"cost":   cost.String(),
	}
	if err != nil {
		fields["error"] = err.Error()
		c.log.WithFields(fields).Warn("api request failed")
	} else {
		c.log.WithFields(fields).Debug("api request ok")
	}
}

// Get 读操作。
func (c *Client) Get(ctx context.Context, endpoint string, out interface{}) error {
	return c.Call(ctx, http.MethodGet, endpoint, nil, out)
}

// Post 创建操作。
func (c *Client) Post(ctx context.Context, endpoint string, body, out interface{}) error {
	return c.Call(ctx, http.MethodPost, endpoint, body, out)
}

// Put 整体替换操作。
func (c *Client) Put(ctx context.Context, endpoint string, body, out interface{}) error {
	return c.Call(ctx, http.MethodPut, endpoint, body, out)
}

// Delete 删除操作。
func (c *Client) Delete(ctx context.Context, endpoint string, out interface{}) error {
	return c.Call(ctx, http.MethodDelete, endpoint, nil, out)
}
