package grpc

import (
	"context"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/ooaoJ/Cities-Resources/modules/kit/tracex"
)

const (
	traceIDHeader = "x-trace-id"
	spanIDHeader  = "x-span-id"
)

// UnaryClientTraceInterceptor 把 ctx 里的 trace/span 写进出站 metadata。
func UnaryClientTraceInterceptor() gogrpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *gogrpc.ClientConn, invoker gogrpc.UnaryInvoker, opts ...gogrpc.CallOption) error {
		return invoker(injectTraceToOutgoing(ctx), method, req, reply, cc, opts...)
	}
}

func StreamClientTraceInterceptor() gogrpc.StreamClientInterceptor {
	return func(ctx context.Context, desc *gogrpc.StreamDesc, cc *gogrpc.ClientConn, method string, streamer gogrpc.Streamer, opts ...gogrpc.CallOption) (gogrpc.ClientStream, error) {
		return streamer(injectTraceToOutgoing(ctx), desc, cc, method, opts...)
	}
}

// UnaryServerTraceInterceptor 取入站 trace，缺失时新建；span 记为方法名，trace_id 回写到响应头。
func UnaryServerTraceInterceptor() gogrpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *gogrpc.UnaryServerInfo, handler gogrpc.UnaryHandler) (any, error) {
		ctx = serverTrace(ctx, info.FullMethod)
		if tid, ok := tracex.TraceIDFrom(ctx); ok {
			_ = gogrpc.SetHeader(ctx, metadata.Pairs(traceIDHeader, tid))
		}
		return handler(ctx, req)
	}
}

func StreamServerTraceInterceptor() gogrpc.StreamServerInterceptor {
	return func(srv any, ss gogrpc.ServerStream, info *gogrpc.StreamServerInfo, handler gogrpc.StreamHandler) error {
		ctx := serverTrace(ss.Context(), info.FullMethod)
		if tid, ok := tracex.TraceIDFrom(ctx); ok {
			_ = ss.SetHeader(metadata.Pairs(traceIDHeader, tid))
		}
		return handler(srv, tracedStream{ServerStream: ss, ctx: ctx})
	}
}

type tracedStream struct {
	gogrpc.ServerStream
	ctx context.Context
}

func (s tracedStream) Context() context.Context { return s.ctx }

func serverTrace(ctx context.Context, method string) context.Context {
	ctx = extractTraceFromIncoming(ctx)
	if _, ok := tracex.SpanIDFrom(ctx); ok {
		return tracex.Ensure(ctx, "")
	}
	return tracex.Ensure(ctx, method)
}

func injectTraceToOutgoing(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	var kv []string
	if tid, ok := tracex.TraceIDFrom(ctx); ok {
		kv = append(kv, traceIDHeader, tid)
	}
	if sid, ok := tracex.SpanIDFrom(ctx); ok {
		kv = append(kv, spanIDHeader, sid)
	}
	if len(kv) == 0 {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, kv...)
}

func extractTraceFromIncoming(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ctx
	}
	if v := first(md, traceIDHeader); v != "" {
		ctx = tracex.WithTraceID(ctx, v)
	}
	if v := first(md, spanIDHeader); v != "" {
		ctx = tracex.WithSpanID(ctx, v)
	}
	return ctx
}

func first(md metadata.MD, key string) string {
	if vs := md.Get(key); len(vs) > 0 {
		return vs[0]
	}
	return ""
}
