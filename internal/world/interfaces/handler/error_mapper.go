package handler

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ooaoJ/Cities-Resources/internal/shared/transport"
	"github.com/ooaoJ/Cities-Resources/internal/world/service"
	"github.com/ooaoJ/Cities-Resources/modules/kit/errx"
	"github.com/ooaoJ/Cities-Resources/modules/kit/logx"
)

// Failure 是错误映射后给客户端的内容。
type Failure struct {
	Code   int
	Reason string
	Msg    string
	Data   map[string]any
}

func mapBizReasonToClientCode(reason string) int {
	switch reason {
	case service.ReasonCityNotFound.Code:
		return transport.NotFound
	case service.ReasonOutOfBounds.Code, service.ReasonUnknownType.Code, service.ReasonInvalidCost.Code:
		return transport.InvalidParam
	default:
		return transport.Rejected
	}
}

func mapCodeToClientCode(code errx.Code) int {
	switch code {
	case errx.CodeInvalidParam:
		return transport.InvalidParam
	case errx.CodeNotFound:
		return transport.NotFound
	case errx.CodeTimeout:
		return transport.Timeout
	case errx.CodeUnavailable:
		return transport.Unavailable
	default:
		return transport.SystemError
	}
}

// HandleError 把错误映射成业务码并打印一次日志：业务拒绝 INFO，技术错误 ERROR。
func HandleError(ctx context.Context, log logx.Logger, action string, err error) Failure {
	if err == nil {
		return Failure{Code: transport.OK}
	}
	e, ok := errx.From(err)
	if !ok {
		logx.ReportSysError(ctx, log, logx.SysLog{Action: action, Err: err})
		return Failure{Code: transport.SystemError, Msg: "服务器内部错误"}
	}

	f := Failure{Reason: e.Reason(), Msg: e.Msg(), Data: e.Data()}
	if f.Data != nil {
		delete(f.Data, "reason")
	}
	switch {
	case e.Code() == service.CodeRejected:
		f.Code = mapBizReasonToClientCode(f.Reason)
	default:
		f.Code = mapCodeToClientCode(e.Code())
	}

	if e.IsBiz() {
		logx.ReportBiz(ctx, log, logx.BizLog{Action: action, Reason: f.Reason, Message: f.Msg},
			zap.Int("biz_code", f.Code))
		return f
	}
	logx.ReportSysError(ctx, log, logx.SysLog{Action: action, Err: err})
	// 技术错误不把内部数据透出去
	f.Data = nil
	return f
}

// ToRPCError 把业务码转为 gRPC status，reason 放进 message 前缀。
func ToRPCError(f Failure) error {
	msg := f.Msg
	if f.Reason != "" {
		msg = f.Reason + ": " + msg
	}
	switch f.Code {
	case transport.OK:
		return nil
	case transport.InvalidParam:
		return status.Error(codes.InvalidArgument, msg)
	case transport.Unauthorized:
		return status.Error(codes.Unauthenticated, msg)
	case transport.Forbidden:
		return status.Error(codes.PermissionDenied, msg)
	case transport.NotFound:
		return status.Error(codes.NotFound, msg)
	case transport.Rejected:
		return status.Error(codes.FailedPrecondition, msg)
	case transport.Timeout:
		return status.Error(codes.DeadlineExceeded, msg)
	case transport.Unavailable:
		return status.Error(codes.Unavailable, msg)
	default:
		return status.Error(codes.Internal, msg)
	}
}
