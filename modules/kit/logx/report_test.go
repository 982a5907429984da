package logx

import (
	"context"
	"errors"
	"testing"

	"github.com/ooaoJ/Cities-Resources/modules/kit/errx"
	"github.com/ooaoJ/Cities-Resources/modules/kit/tracex"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildErrorLog_能提取语义与栈(t *testing.T) {
	e := errx.NewSys("SYS_STORE", "存储失败").
		WithData("world_id", 7).
		WithCause(errors.New("disk full"))

	meta := BuildErrorLog(e)
	if meta.Code != "SYS_STORE" || meta.Msg != "存储失败" {
		t.Fatalf("code/msg 不符: %+v", meta)
	}
	if meta.Data["world_id"] != 7 {
		t.Fatalf("期望 data 含 world_id=7, got=%v", meta.Data)
	}
	if len(meta.CauseChain) != 1 {
		t.Fatalf("期望 cause 链长度 1, got=%v", meta.CauseChain)
	}
	if meta.Origin == "" || meta.Stack == "" {
		t.Fatalf("期望有发生处栈 origin=%q", meta.Origin)
	}
}

func TestReportBiz_INFO且带trace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))
	ctx := tracex.WithTraceID(context.Background(), "t-1")

	ReportBiz(ctx, l, BizLog{Action: "enqueue", Reason: "TILE_OCCUPIED"})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("期望 1 条日志, got=%d", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel {
		t.Fatalf("期望 INFO, got=%v", entries[0].Level)
	}
	fields := entries[0].ContextMap()
	if fields["trace_id"] != "t-1" || fields["reason"] != "TILE_OCCUPIED" {
		t.Fatalf("字段不符: %v", fields)
	}
}

func TestReportAccess_按业务码分级(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))

	ReportAccess(context.Background(), l, "GET /x", 0)
	ReportAccess(context.Background(), l, "GET /x", 409)
	ReportAccess(context.Background(), l, "GET /x", 500)

	want := []zapcore.Level{zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	for i, e := range logs.All() {
		if e.Level != want[i] {
			t.Fatalf("第 %d 条期望 %v, got=%v", i, want[i], e.Level)
		}
	}
}
