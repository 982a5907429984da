package logx

import (
	"context"

	"go.uber.org/zap"
)

// Logger 是跨包复用的最小日志接口：结构化字段 + ctx 透传 trace/span。
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	WithContext(ctx context.Context) Logger
}

type nopLogger struct{}

// Nop 返回丢弃一切输出的 Logger，测试与未配置场景使用。
func Nop() Logger { return nopLogger{} }

func (nopLogger) Info(string, ...zap.Field)  {}
func (nopLogger) Error(string, ...zap.Field) {}
func (nopLogger) Debug(string, ...zap.Field) {}
func (nopLogger) Warn(string, ...zap.Field)  {}

func (n nopLogger) WithContext(context.Context) Logger {
	return n
}
