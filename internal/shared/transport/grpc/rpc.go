package grpc

import (
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Server 包一层 grpc.Server，统一挂 trace 拦截器与健康检查。
type Server struct {
	srv    *grpc.Server
	health *health.Server
}

func NewServer(opts ...grpc.ServerOption) *Server {
	opts = append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(UnaryServerTraceInterceptor()),
		grpc.ChainStreamInterceptor(StreamServerTraceInterceptor()),
	}, opts...)
	s := grpc.NewServer(opts...)
	h := health.NewServer()
	healthpb.RegisterHealthServer(s, h)
	reflection.Register(s)
	return &Server{srv: s, health: h}
}

// RegisterService 注册服务并把它的健康状态置为 SERVING。
func (s *Server) RegisterService(desc *grpc.ServiceDesc, impl any) {
	s.srv.RegisterService(desc, impl)
	s.health.SetServingStatus(desc.ServiceName, healthpb.HealthCheckResponse_SERVING)
}

// Serve 阻塞直到 Stop。
func (s *Server) Serve(lis net.Listener) error {
	return s.srv.Serve(lis)
}

func (s *Server) Listen(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("grpc listen %s: %w", addr, err)
	}
	return s.Serve(lis)
}

func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.srv.GracefulStop()
}

// Stop 立即断开所有连接，用于优雅退出超时后兜底。
func (s *Server) Stop() {
	s.srv.Stop()
}

// Dial 建立带 trace 注入的明文连接。
func Dial(target string, extra ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(UnaryClientTraceInterceptor()),
		grpc.WithChainStreamInterceptor(StreamClientTraceInterceptor()),
	}, extra...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s failed: %w", target, err)
	}
	return conn, nil
}
