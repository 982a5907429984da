package interfaces

import (
	"github.com/gin-gonic/gin"
	gogrpc "google.golang.org/grpc"

	ws "github.com/ooaoJ/Cities-Resources/internal/shared/transport/ws"
	"github.com/ooaoJ/Cities-Resources/internal/world/interfaces/handler"
	grpchandler "github.com/ooaoJ/Cities-Resources/internal/world/interfaces/handler/grpc"
	httphandler "github.com/ooaoJ/Cities-Resources/internal/world/interfaces/handler/http"
	wshandler "github.com/ooaoJ/Cities-Resources/internal/world/interfaces/handler/ws"
	"github.com/ooaoJ/Cities-Resources/modules/kit/logx"
)

// Module 把同一个 handler.World 挂到 HTTP、WebSocket 与 gRPC 三个入口。
type Module struct {
	World *handler.World
	HTTP  *httphandler.HttpHandler
	WS    *wshandler.WsHandler
	GRPC  *grpchandler.World
}

func New(rt handler.WorldRuntime, log logx.Logger, defaultWorldID int64, requireAuth bool) *Module {
	w := handler.NewWorld(rt, log, defaultWorldID, requireAuth)
	return &Module{
		World: w,
		HTTP:  httphandler.NewHttpHandler(w),
		WS:    wshandler.NewWsHandler(w),
		GRPC:  grpchandler.NewWorld(w),
	}
}

func (m *Module) RegisterHTTP(group *gin.RouterGroup) {
	m.HTTP.RegisterRoutes(group)
}

func (m *Module) RegisterWS(r *ws.Router) {
	m.WS.RegisterRoutes(r)
}

func (m *Module) RegisterGRPC(r gogrpc.ServiceRegistrar) {
	m.GRPC.Register(r)
}
