package ws

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ooaoJ/Cities-Resources/internal/shared/utils"
	"github.com/ooaoJ/Cities-Resources/modules/kit/logx"
)

const outQueueSize = 1000

type WsServer struct {
	conn     *websocket.Conn
	router   *Router
	opts     Options
	outChan  chan []byte
	property map[string]any
	sync.RWMutex
	done      chan struct{}
	closeOnce sync.Once
	started   atomic.Bool
	log       logx.Logger
}

func NewWsServer(wsConn *websocket.Conn, l logx.Logger, opts Options) *WsServer {
	return &WsServer{
		conn:     wsConn,
		opts:     opts,
		outChan:  make(chan []byte, outQueueSize),
		property: make(map[string]any),
		done:     make(chan struct{}),
		log:      l,
	}
}

func (s *WsServer) Router(router *Router) {
	s.router = router
}

func (s *WsServer) SetProperty(key string, value any) {
	s.Lock()
	defer s.Unlock()
	s.property[key] = value
}

func (s *WsServer) GetProperty(key string) any {
	s.RLock()
	defer s.RUnlock()
	return s.property[key]
}

func (s *WsServer) RemoveProperty(key string) {
	s.Lock()
	defer s.Unlock()
	delete(s.property, key)
}

func (s *WsServer) Addr() string {
	return s.conn.RemoteAddr().String()
}

func (s *WsServer) secret() string {
	key, _ := s.GetProperty(SecretKey).(string)
	return key
}

// Push 服务端主动推送，seq 固定为 0。
func (s *WsServer) Push(name string, data any) {
	s.send(&RespBody{Name: name, Msg: data})
}

func (s *WsServer) send(body *RespBody) {
	frame, err := EncodeFrame(body, s.secret())
	if err != nil {
		s.log.Error("ws_server encode frame error", zap.String("name", body.Name), zap.Error(err))
		return
	}
	select {
	case s.outChan <- frame:
	case <-s.done:
	}
}

func (s *WsServer) Run() {
	s.started.Store(true)
	go s.readMsgLoop()
	go s.writeMsgLoop()
}

func (s *WsServer) readMsgLoop() {
	defer func() {
		if err := recover(); err != nil {
			s.log.Error("ws readMsgLoop panic", zap.String("err", fmt.Sprintf("%v", err)))
		}
		s.Close()
	}()
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.log.Debug("ws_server read closed", zap.Error(err))
			return
		}

		reqBody := ReqBody{}
		if err := DecodeFrame(data, s.secret(), &reqBody); err != nil {
			s.log.Warn("ws_server decode frame error", zap.Error(err))
			if isDecryptErr(err) {
				// 密钥不一致，重新握手
				_ = s.handshake()
			}
			continue
		}

		req := WsMsgReq{Body: &reqBody, Conn: s}
		// req 和 resp 的 Seq 必须一致
		resp := WsMsgResp{Body: &RespBody{Seq: reqBody.Seq, Name: reqBody.Name}}
		if reqBody.Name == HeartbeatMsg {
			h := &Heartbeat{}
			_ = mapstructure.Decode(reqBody.Msg, h)
			h.STime = time.Now().UnixMilli()
			resp.Body.Msg = h
		} else {
			s.router.Dispatch(&req, &resp)
		}

		s.send(resp.Body)
	}
}

func (s *WsServer) writeMsgLoop() {
	for {
		select {
		case frame := <-s.outChan:
			// 压缩后的帧是二进制，必须走 BinaryMessage
			if err := s.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				s.log.Warn("ws_server write error", zap.Error(err))
				s.Close()
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *WsServer) Close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
		close(s.done)
	})
}

func (s *WsServer) Done() <-chan struct{} {
	return s.done
}

// handshake 下发密钥。握手帧本身只压缩不加密。
// 首次握手在 Run 之前直接写连接；之后的重握手走写队列。
func (s *WsServer) handshake() error {
	key := s.secret()
	if key == "" && s.opts.NeedSecret {
		key = utils.RandSeq(16)
	}

	frame, err := EncodeFrame(&RespBody{Name: HandshakeMsg, Msg: &Handshake{Key: key}}, "")
	if err != nil {
		s.log.Error("ws_server handshake encode error", zap.Error(err))
		return err
	}
	if key != "" {
		s.SetProperty(SecretKey, key)
	} else {
		s.RemoveProperty(SecretKey)
	}

	select {
	case <-s.done:
		return nil
	default:
	}
	if !s.started.Load() {
		if err := s.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			s.log.Warn("ws_server handshake write error", zap.Error(err))
			return err
		}
		return nil
	}
	select {
	case s.outChan <- frame:
	case <-s.done:
	}
	return nil
}
