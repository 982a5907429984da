package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ooaoJ/Cities-Resources/internal/shared/transport"
	"github.com/ooaoJ/Cities-Resources/modules/kit/logx"
)

type echoReq struct {
	X int `json:"x"`
}

func newTestRouter() *Router {
	r := NewRouter(logx.Nop())
	g := r.Group("world")
	g.Handle("echo", func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {
		var in echoReq
		if err := BindJSON(req, &in); err != nil {
			resp.Body.Code = transport.InvalidParam
			return
		}
		resp.Body.Code = transport.OK
		resp.Body.Msg = map[string]int{"x": in.X * 2}
	})
	g.Handle("boom", func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {
		panic("boom")
	})
	return r
}

func TestFrame_加密与明文都可还原(t *testing.T) {
	for _, key := range []string{"", "0123456789abcdef"} {
		frame, err := EncodeFrame(&ReqBody{Seq: 3, Name: "world.echo", Msg: map[string]any{"x": 1}}, key)
		if err != nil {
			t.Fatalf("key=%q EncodeFrame err=%v", key, err)
		}
		var got ReqBody
		if err := DecodeFrame(frame, key, &got); err != nil {
			t.Fatalf("key=%q DecodeFrame err=%v", key, err)
		}
		if got.Seq != 3 || got.Name != "world.echo" {
			t.Fatalf("key=%q 帧内容不一致 %+v", key, got)
		}
	}
	if err := DecodeFrame(nil, "", &ReqBody{}); err == nil {
		t.Fatalf("空帧应报错")
	}
}

func TestRouter_路由错误与panic兜底(t *testing.T) {
	r := newTestRouter()
	cases := []struct {
		name string
		want int
	}{
		{"world", transport.InvalidParam},
		{"city.echo", transport.NotFound},
		{"world.nope", transport.NotFound},
		{"world.boom", transport.SystemError},
	}
	for _, c := range cases {
		resp := &WsMsgResp{Body: &RespBody{}}
		r.Dispatch(&WsMsgReq{Body: &ReqBody{Name: c.name}}, resp)
		if resp.Body.Code != c.want {
			t.Fatalf("%s: code=%d want=%d", c.name, resp.Body.Code, c.want)
		}
	}
}

func TestBindJSON_按json标签解码(t *testing.T) {
	var in echoReq
	req := &WsMsgReq{Body: &ReqBody{Msg: map[string]any{"x": float64(21)}}}
	if err := BindJSON(req, &in); err != nil || in.X != 21 {
		t.Fatalf("BindJSON err=%v got=%+v", err, in)
	}
	if err := BindJSON(&WsMsgReq{Body: &ReqBody{}}, &in); err == nil {
		t.Fatalf("空 msg 应报错")
	}
}

func TestServer_握手后加密往返(t *testing.T) {
	srv := httptest.NewServer(NewServer(newTestRouter(), logx.Nop(), Options{NeedSecret: true}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial err=%v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("读握手失败 err=%v", err)
	}
	var hs struct {
		Name string    `json:"name"`
		Msg  Handshake `json:"msg"`
	}
	if err := DecodeFrame(data, "", &hs); err != nil {
		t.Fatalf("握手帧解码失败 err=%v", err)
	}
	if hs.Name != HandshakeMsg || len(hs.Msg.Key) != 16 {
		t.Fatalf("握手内容不对 %+v", hs)
	}

	frame, err := EncodeFrame(&ReqBody{Seq: 7, Name: "world.echo", Msg: map[string]any{"x": 4}}, hs.Msg.Key)
	if err != nil {
		t.Fatalf("EncodeFrame err=%v", err)
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		t.Fatalf("write err=%v", err)
	}

	_, data, err = conn.ReadMessage()
	if err != nil {
		t.Fatalf("读响应失败 err=%v", err)
	}
	var resp struct {
		Seq  int64          `json:"seq"`
		Code int            `json:"code"`
		Msg  map[string]int `json:"msg"`
	}
	if err := DecodeFrame(data, hs.Msg.Key, &resp); err != nil {
		t.Fatalf("响应解码失败 err=%v", err)
	}
	if resp.Seq != 7 || resp.Code != transport.OK || resp.Msg["x"] != 8 {
		t.Fatalf("响应不对 %+v", resp)
	}
}
