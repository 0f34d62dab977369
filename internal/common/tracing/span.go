package tracing

import (
	"context"
	"net/http"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
)

// StartClientSpan 为一次出站 HTTP 调用创建 client span：
// - 如果 ctx 中已有 span，则作为其 child
// - 统一打上 HTTP method / url / component 标签
func StartClientSpan(ctx context.Context, operation, method, url string) (opentracing.Span, context.Context) {
	span, ctx := opentracing.StartSpanFromContext(ctx, operation)
	ext.SpanKindRPCClient.Set(span)
	ext.HTTPMethod.Set(span, method)
	ext.HTTPUrl.Set(span, url)
	ext.Component.Set(span, "http-client")
	return span, ctx
}

// InjectHTTPHeaders 将 span context 注入到出站请求头（uber-trace-id 等）。
// 注入失败不影响请求本身。
func InjectHTTPHeaders(span opentracing.Span, req *http.Request) {
	if span == nil || req == nil {
		return
	}
	_ = opentracing.GlobalTracer().Inject(
		span.Context(),
		opentracing.HTTPHeaders,
		opentracing.HTTPHeadersCarrier(req.Header),
	)
}

// FinishWithStatus 结束 span，并按 HTTP 状态码标记错误。
func FinishWithStatus(span opentracing.Span, statusCode int, err error) {
	if span == nil {
		return
	}
	if statusCode > 0 {
		ext.HTTPStatusCode.Set(span, uint16(statusCode))
	}
	if err != nil || statusCode >= 500 {
		ext.Error.Set(span, true)
	}
	span.Finish()
}
