package grpc

import (
	"context"
	"encoding/json"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ooaoJ/Cities-Resources/internal/shared/transport"
	"github.com/ooaoJ/Cities-Resources/internal/world/interfaces/handler"
)

const ServiceName = "cities.World"

// WorldServer 用 google.protobuf.Struct 作为请求与响应，字段名与 HTTP 接口一致。
type WorldServer interface {
	Tick(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Place(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Enqueue(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Terrain(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Territory(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var ServiceDesc = gogrpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*WorldServer)(nil),
	Methods: []gogrpc.MethodDesc{
		{MethodName: "Tick", Handler: unary("Tick", WorldServer.Tick)},
		{MethodName: "Place", Handler: unary("Place", WorldServer.Place)},
		{MethodName: "Enqueue", Handler: unary("Enqueue", WorldServer.Enqueue)},
		{MethodName: "Terrain", Handler: unary("Terrain", WorldServer.Terrain)},
		{MethodName: "Territory", Handler: unary("Territory", WorldServer.Territory)},
	},
	Streams:  []gogrpc.StreamDesc{},
	Metadata: "cities/world.proto",
}

func unary(method string, fn func(WorldServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) func(any, context.Context, func(any) error, gogrpc.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + ServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor gogrpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return fn(srv.(WorldServer), ctx, in)
		}
		info := &gogrpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return fn(srv.(WorldServer), ctx, req.(*structpb.Struct))
		})
	}
}

type World struct {
	world *handler.World
}

func NewWorld(w *handler.World) *World {
	return &World{world: w}
}

func (s *World) Register(r gogrpc.ServiceRegistrar) {
	r.RegisterService(&ServiceDesc, s)
}

func (s *World) Tick(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	ctx = transport.NewContextWithParent(ctx, "grpc", "world.tick")
	res, err := s.world.Runtime.Tick(ctx, s.worldID(in))
	return s.reply(ctx, "world.tick", res, err)
}

func (s *World) Place(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	ctx = transport.NewContextWithParent(ctx, "grpc", "world.place")
	res, err := s.world.Runtime.Place(ctx, s.worldID(in), intField(in, "cityId"), intField(in, "x"), intField(in, "y"), in.GetFields()["type"].GetStringValue())
	return s.reply(ctx, "world.place", res, err)
}

func (s *World) Enqueue(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	ctx = transport.NewContextWithParent(ctx, "grpc", "world.enqueue")
	res, err := s.world.Runtime.Enqueue(ctx, s.worldID(in), intField(in, "cityId"), intField(in, "x"), intField(in, "y"), in.GetFields()["type"].GetStringValue())
	return s.reply(ctx, "world.enqueue", res, err)
}

func (s *World) Terrain(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	ctx = transport.NewContextWithParent(ctx, "grpc", "world.terrain")
	res, err := s.world.Runtime.Terrain(ctx, s.worldID(in), intField(in, "x"), intField(in, "y"))
	return s.reply(ctx, "world.terrain", res, err)
}

func (s *World) Territory(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	ctx = transport.NewContextWithParent(ctx, "grpc", "world.territory")
	res, err := s.world.Runtime.Territory(ctx, s.worldID(in), intField(in, "cityId"))
	return s.reply(ctx, "world.territory", res, err)
}

func (s *World) worldID(in *structpb.Struct) int64 {
	return s.world.WorldIDOr(int64(in.GetFields()["worldId"].GetNumberValue()))
}

func intField(in *structpb.Struct, key string) int {
	return int(in.GetFields()[key].GetNumberValue())
}

// reply 写访问日志并把结果转成 Struct；错误转成 gRPC status。
func (s *World) reply(ctx context.Context, action string, res any, err error) (*structpb.Struct, error) {
	defer transport.WriteAccessLog(ctx, s.world.Log)
	if err != nil {
		f := handler.HandleError(ctx, s.world.Log, action, err)
		transport.SetBizCode(ctx, transport.BizCode(f.Code))
		transport.SetErrorReason(ctx, f.Reason)
		return nil, handler.ToRPCError(f)
	}
	out, err := toStruct(res)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	transport.SetBizCode(ctx, transport.BizCode(transport.OK))
	return out, nil
}

func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}
