package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ooaoJ/Cities-Resources/modules/kit/logx"
)

type Options struct {
	// NeedSecret 为 true 时握手下发 AES 密钥，之后的帧都加密。
	NeedSecret bool
}

type Server struct {
	router   *Router
	log      logx.Logger
	opts     Options
	upgrader websocket.Upgrader
}

func NewServer(r *Router, l logx.Logger, opts Options) *Server {
	if l == nil {
		l = logx.Nop()
	}
	return &Server{
		router: r,
		log:    l,
		opts:   opts,
		upgrader: websocket.Upgrader{
			// 跨域由网关或 CORS 中间件控制
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (s *Server) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	wsConn, err := s.upgrader.Upgrade(resp, req, nil)
	if err != nil {
		s.log.Error("websocket upgrade error", zap.Error(err))
		return
	}

	s.log.Debug("websocket upgrade success", zap.String("remote", wsConn.RemoteAddr().String()))

	wsServer := NewWsServer(wsConn, s.log, s.opts)
	wsServer.Router(s.router)
	// 握手必须先于读写循环发出，客户端拿到密钥后才会发业务帧。
	if err := wsServer.handshake(); err != nil {
		wsServer.Close()
		return
	}
	wsServer.Run()
}
