package http

import (
	"bytes"
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ooaoJ/Cities-Resources/internal/shared/config"
	"github.com/ooaoJ/Cities-Resources/internal/shared/security"
	"github.com/ooaoJ/Cities-Resources/internal/world/actor"
	"github.com/ooaoJ/Cities-Resources/internal/world/infra/persistence/memory"
	"github.com/ooaoJ/Cities-Resources/internal/world/interfaces/handler"
	"github.com/ooaoJ/Cities-Resources/internal/world/service"
)

func newTestEngine(t *testing.T, requireAuth bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	g := config.Default().Game
	g.Width, g.Height, g.Seed = 40, 40, 7
	rt := actor.NewRuntime(memory.NewWorldRepository(), service.New(g, nil, nil), nil, actor.Options{
		AskTimeout:     5 * time.Second,
		FlushEvery:     time.Hour,
		ExplicitCreate: requireAuth,
	})
	t.Cleanup(rt.Shutdown)
	// 与进程启动时一样预先打开默认世界
	if _, err := rt.Create(context.Background(), 1); err != nil {
		t.Fatalf("Create default world err=%v", err)
	}

	r := gin.New()
	NewHttpHandler(handler.NewWorld(rt, nil, 1, requireAuth)).RegisterRoutes(r.Group(""))
	return r
}

func do(r *gin.Engine, method, path string, body any, header map[string]string) (*httptest.ResponseRecorder, Response) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var resp Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestHttp_查询与拒绝映射(t *testing.T) {
	r := newTestEngine(t, false)

	w, resp := do(r, nethttp.MethodGet, "/api/worlds/1/cities", nil, nil)
	if w.Code != nethttp.StatusOK || resp.Code != 0 {
		t.Fatalf("cities 应成功，status=%d body=%s", w.Code, w.Body.String())
	}

	w, resp = do(r, nethttp.MethodGet, "/api/worlds/1/terrain?x=999&y=0", nil, nil)
	if w.Code != nethttp.StatusBadRequest || resp.Reason != service.ReasonOutOfBounds.Code {
		t.Fatalf("越界应 400 OUT_OF_BOUNDS，status=%d body=%s", w.Code, w.Body.String())
	}

	w, resp = do(r, nethttp.MethodGet, "/api/worlds/1/cities/5/territory", nil, nil)
	if w.Code != nethttp.StatusNotFound || resp.Reason != service.ReasonCityNotFound.Code {
		t.Fatalf("城市不存在应 404，status=%d body=%s", w.Code, w.Body.String())
	}

	// 城市所在格不能建造
	_, cities := do(r, nethttp.MethodGet, "/api/worlds/1/cities", nil, nil)
	data := cities.Data.(map[string]any)
	capital := data["cities"].([]any)[0].(map[string]any)
	x, y := int(capital["x"].(float64)), int(capital["y"].(float64))
	w, resp = do(r, nethttp.MethodPost, "/api/worlds/1/cities/0/buildings", gin.H{"x": x, "y": y, "type": "house"}, nil)
	if w.Code != nethttp.StatusConflict || resp.Reason != service.ReasonTileHasCity.Code {
		t.Fatalf("城市格建造应 409 TILE_HAS_CITY，status=%d body=%s", w.Code, w.Body.String())
	}

	w, _ = do(r, nethttp.MethodPost, "/api/worlds/1/cities/0/buildings", gin.H{"type": "house"}, nil)
	if w.Code != nethttp.StatusBadRequest {
		t.Fatalf("缺坐标应 400，got=%d", w.Code)
	}
}

func TestHttp_回合推进(t *testing.T) {
	r := newTestEngine(t, false)

	w, resp := do(r, nethttp.MethodPost, "/api/worlds/default/tick", nil, nil)
	if w.Code != nethttp.StatusOK {
		t.Fatalf("tick 应成功，status=%d body=%s", w.Code, w.Body.String())
	}
	if turn := resp.Data.(map[string]any)["turn"].(float64); turn != 1 {
		t.Fatalf("期望 turn=1，got=%v", turn)
	}
}

func TestHttp_鉴权与城市授权(t *testing.T) {
	t.Setenv("JWT_SECRET", "world-secret")
	r := newTestEngine(t, true)

	w, _ := do(r, nethttp.MethodPost, "/api/worlds/1/tick", nil, nil)
	if w.Code != nethttp.StatusUnauthorized {
		t.Fatalf("无 token 应 401，got=%d", w.Code)
	}

	token, err := security.Award("mayor", []int{3}, time.Hour)
	if err != nil {
		t.Fatalf("Award err=%v", err)
	}
	auth := map[string]string{"Authorization": "Bearer " + token}
	w, resp := do(r, nethttp.MethodPost, "/api/worlds/1/cities/0/orders", gin.H{"x": 1, "y": 1, "type": "farm"}, auth)
	if w.Code != nethttp.StatusForbidden || resp.Code != 403 {
		t.Fatalf("未授权城市应 403，status=%d body=%s", w.Code, w.Body.String())
	}

	w, _ = do(r, nethttp.MethodGet, "/api/worlds/1/occupancy", nil, nil)
	if w.Code != nethttp.StatusOK {
		t.Fatalf("只读接口不需要 token，got=%d", w.Code)
	}

	// 匿名读未知世界不会生成世界
	w, _ = do(r, nethttp.MethodGet, "/api/worlds/424242/cities", nil, nil)
	if w.Code != nethttp.StatusNotFound {
		t.Fatalf("未知世界应 404，status=%d body=%s", w.Code, w.Body.String())
	}

	w, _ = do(r, nethttp.MethodPost, "/api/worlds", nil, nil)
	if w.Code != nethttp.StatusUnauthorized {
		t.Fatalf("创建世界无 token 应 401，got=%d", w.Code)
	}
	w, resp = do(r, nethttp.MethodPost, "/api/worlds", nil, auth)
	if w.Code != nethttp.StatusOK {
		t.Fatalf("带 token 创建世界应成功，status=%d body=%s", w.Code, w.Body.String())
	}
	id := resp.Data.(map[string]any)["worldId"].(string)
	w, _ = do(r, nethttp.MethodGet, "/api/worlds/"+id+"/cities", nil, nil)
	if w.Code != nethttp.StatusOK {
		t.Fatalf("创建后匿名可读，status=%d body=%s", w.Code, w.Body.String())
	}
}
