package transport

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ooaoJ/Cities-Resources/modules/kit/logx"
	"github.com/ooaoJ/Cities-Resources/modules/kit/tracex"
)

// AccessLog 是请求级日志上下文，HTTP/WS/gRPC 共用。
type AccessLog struct {
	BizCode     BizCode
	ErrorReason string
	startTime   time.Time
	action      string
	protocol    string
}

type accessLogKey struct{}

// NewContext 创建带 AccessLog 的新 context（以 background 为父 context）。
func NewContext(protocol, action string) context.Context {
	return NewContextWithParent(context.Background(), protocol, action)
}

// NewContextWithParent 保留父 context 的取消信号与已有 trace_id，span 取协议名。
func NewContextWithParent(parent context.Context, protocol, action string) context.Context {
	if action == "" {
		action = "unknown"
	}
	ctx := tracex.Ensure(parent, protocol)

	al := &AccessLog{
		// 先置系统错误，避免 handler 漏设时出现成功假象。
		BizCode:   BizCode(SystemError),
		startTime: time.Now(),
		action:    action,
		protocol:  protocol,
	}
	return context.WithValue(ctx, accessLogKey{}, al)
}

func FromContext(ctx context.Context) *AccessLog {
	if ctx == nil {
		return nil
	}
	al, _ := ctx.Value(accessLogKey{}).(*AccessLog)
	return al
}

func SetBizCode(ctx context.Context, code BizCode) {
	if al := FromContext(ctx); al != nil {
		al.BizCode = code
	}
}

// SetErrorReason 设置失败原因，空串忽略。
func SetErrorReason(ctx context.Context, reason string) {
	if reason == "" {
		return
	}
	if al := FromContext(ctx); al != nil {
		al.ErrorReason = reason
	}
}

// WriteAccessLog 输出访问日志，在中间件 defer 调用。
func WriteAccessLog(ctx context.Context, log logx.Logger) {
	al := FromContext(ctx)
	if al == nil || log == nil {
		return
	}

	fields := []zap.Field{
		zap.String("protocol", al.protocol),
		zap.Duration("latency", time.Since(al.startTime)),
	}
	if al.BizCode == BizCode(OK) {
		fields = append(fields, zap.String("result", "success"))
	} else {
		fields = append(fields, zap.String("result", "failure"))
		if al.ErrorReason != "" {
			fields = append(fields, zap.String("error_reason", al.ErrorReason))
		}
	}
	logx.ReportAccess(ctx, log, al.action, int(al.BizCode), fields...)
}
