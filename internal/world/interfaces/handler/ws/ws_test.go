package ws

import (
	"sync"
	"testing"
	"time"

	"github.com/ooaoJ/Cities-Resources/internal/shared/config"
	"github.com/ooaoJ/Cities-Resources/internal/shared/security"
	"github.com/ooaoJ/Cities-Resources/internal/shared/transport"
	"github.com/ooaoJ/Cities-Resources/internal/shared/transport/ws"
	"github.com/ooaoJ/Cities-Resources/internal/world/actor"
	"github.com/ooaoJ/Cities-Resources/internal/world/infra/persistence/memory"
	"github.com/ooaoJ/Cities-Resources/internal/world/interfaces/handler"
	"github.com/ooaoJ/Cities-Resources/internal/world/service"
	"github.com/ooaoJ/Cities-Resources/modules/kit/logx"
)

type fakeConn struct {
	mu    sync.Mutex
	props map[string]any
	done  chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{props: map[string]any{}, done: make(chan struct{})}
}

func (c *fakeConn) SetProperty(k string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.props[k] = v
}

func (c *fakeConn) GetProperty(k string) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.props[k]
}

func (c *fakeConn) RemoveProperty(k string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.props, k)
}

func (c *fakeConn) Addr() string          { return "fake" }
func (c *fakeConn) Push(string, any)      {}
func (c *fakeConn) Close()                {}
func (c *fakeConn) Done() <-chan struct{} { return c.done }

func newTestRouter(t *testing.T, requireAuth bool) *ws.Router {
	t.Helper()
	g := config.Default().Game
	g.Width, g.Height, g.Seed = 40, 40, 11
	rt := actor.NewRuntime(memory.NewWorldRepository(), service.New(g, nil, nil), nil, actor.Options{AskTimeout: 5 * time.Second, FlushEvery: time.Hour})
	t.Cleanup(rt.Shutdown)

	r := ws.NewRouter(logx.Nop())
	NewWsHandler(handler.NewWorld(rt, nil, 1, requireAuth)).RegisterRoutes(r)
	return r
}

func dispatch(r *ws.Router, conn ws.WSConn, name string, msg any) *ws.RespBody {
	resp := &ws.WsMsgResp{Body: &ws.RespBody{Name: name}}
	r.Dispatch(&ws.WsMsgReq{Body: &ws.ReqBody{Name: name, Msg: msg}, Conn: conn}, resp)
	return resp.Body
}

func TestWs_查询城市(t *testing.T) {
	r := newTestRouter(t, false)
	body := dispatch(r, newFakeConn(), "world.cities", map[string]any{"worldId": float64(1)})
	if body.Code != transport.OK {
		t.Fatalf("cities 应成功，got=%+v", body)
	}
	body = dispatch(r, newFakeConn(), "world.terrain", map[string]any{"x": float64(-1), "y": float64(0)})
	if body.Code != transport.InvalidParam || body.Reason != service.ReasonOutOfBounds.Code {
		t.Fatalf("越界应 400 OUT_OF_BOUNDS，got=%+v", body)
	}
}

func TestWs_写操作需要先认证(t *testing.T) {
	t.Setenv("JWT_SECRET", "ws-secret")
	r := newTestRouter(t, true)
	conn := newFakeConn()

	body := dispatch(r, conn, "world.tick", nil)
	if body.Code != transport.Unauthorized {
		t.Fatalf("未认证应 401，got=%+v", body)
	}

	token, err := security.Award("mayor", []int{0}, time.Hour)
	if err != nil {
		t.Fatalf("Award err=%v", err)
	}
	if body := dispatch(r, conn, "session.auth", map[string]any{"token": token}); body.Code != transport.OK {
		t.Fatalf("认证应成功，got=%+v", body)
	}

	if body := dispatch(r, conn, "world.tick", nil); body.Code != transport.OK {
		t.Fatalf("认证后 tick 应成功，got=%+v", body)
	}
	body = dispatch(r, conn, "world.place", map[string]any{"cityId": float64(1), "x": float64(0), "y": float64(0), "type": "farm"})
	if body.Code != transport.Forbidden {
		t.Fatalf("未授权城市应 403，got=%+v", body)
	}
}
