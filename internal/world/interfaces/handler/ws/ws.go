package ws

import (
	"context"

	"github.com/ooaoJ/Cities-Resources/internal/shared/security"
	"github.com/ooaoJ/Cities-Resources/internal/shared/transport"
	"github.com/ooaoJ/Cities-Resources/internal/shared/transport/ws"
	"github.com/ooaoJ/Cities-Resources/internal/world/interfaces/handler"
)

type WsHandler struct {
	world *handler.World
}

func NewWsHandler(w *handler.World) *WsHandler {
	return &WsHandler{world: w}
}

type worldReq struct {
	WorldID int64  `json:"worldId"`
	City    int    `json:"cityId"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Type    string `json:"type"`
}

type authReq struct {
	Token string `json:"token"`
}

func (h *WsHandler) RegisterRoutes(r *ws.Router) {
	session := r.Group("session")
	session.Handle("auth", h.Auth)

	world := r.Group("world")
	world.Handle("terrain", h.query(h.terrain))
	world.Handle("occupancy", h.query(h.occupancy))
	world.Handle("territory", h.query(h.territory))
	world.Handle("cities", h.query(h.cities))
	world.Handle("options", h.query(h.options))
	world.Handle("nearest", h.query(h.nearest))
	world.Handle("map", h.query(h.worldMap))
	world.Handle("place", h.command(h.place, true))
	world.Handle("enqueue", h.command(h.enqueue, true))
	world.Handle("tick", h.command(h.tick, false))
}

// Auth 校验 token 并把 claims 绑到连接上。
func (h *WsHandler) Auth(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	var req authReq
	if err := ws.BindJSON(wsReq, &req); err != nil || req.Token == "" {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}
	_, claims, err := security.ParseToken(req.Token)
	if err != nil {
		h.fail(wsResp, transport.Unauthorized, "token 无效")
		return
	}
	wsReq.Conn.SetProperty(ws.ConnKeyClaims, claims)
	h.ok(wsResp, map[string]string{"player": claims.Player})
}

type call func(ctx context.Context, worldID int64, req worldReq) (any, error)

func (h *WsHandler) query(fn call) ws.HandlerFunc {
	return func(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
		req, ok := h.bind(wsReq, wsResp)
		if !ok {
			return
		}
		h.run(ctx, wsReq, wsResp, req, fn)
	}
}

// command 写操作；perCity 为 true 时还要校验 token 是否授权该城市。
func (h *WsHandler) command(fn call, perCity bool) ws.HandlerFunc {
	return func(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
		req, ok := h.bind(wsReq, wsResp)
		if !ok {
			return
		}
		claims, _ := wsReq.Conn.GetProperty(ws.ConnKeyClaims).(*security.Claims)
		code := h.world.AuthorizeWorld(claims)
		if perCity {
			code = h.world.Authorize(claims, req.City)
		}
		if code != transport.OK {
			h.fail(wsResp, code, "无权操作")
			return
		}
		h.run(ctx, wsReq, wsResp, req, fn)
	}
}

func (h *WsHandler) bind(wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) (worldReq, bool) {
	var req worldReq
	if wsReq == nil || wsReq.Body == nil || wsReq.Conn == nil || wsResp == nil || wsResp.Body == nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return req, false
	}
	if wsReq.Body.Msg != nil {
		if err := ws.BindJSON(wsReq, &req); err != nil {
			h.fail(wsResp, transport.InvalidParam, "参数有误")
			return req, false
		}
	}
	return req, true
}

func (h *WsHandler) run(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp, req worldReq, fn call) {
	res, err := fn(ctx, h.world.WorldIDOr(req.WorldID), req)
	if err != nil {
		f := handler.HandleError(ctx, h.world.Log, "ws."+wsReq.Body.Name, err)
		wsResp.Body.Code = f.Code
		wsResp.Body.Reason = f.Reason
		wsResp.Body.Msg = f.Msg
		return
	}
	h.ok(wsResp, res)
}

func (h *WsHandler) terrain(ctx context.Context, worldID int64, req worldReq) (any, error) {
	return h.world.Runtime.Terrain(ctx, worldID, req.X, req.Y)
}

func (h *WsHandler) occupancy(ctx context.Context, worldID int64, _ worldReq) (any, error) {
	return h.world.Runtime.Occupancy(ctx, worldID)
}

func (h *WsHandler) territory(ctx context.Context, worldID int64, req worldReq) (any, error) {
	return h.world.Runtime.Territory(ctx, worldID, req.City)
}

func (h *WsHandler) cities(ctx context.Context, worldID int64, _ worldReq) (any, error) {
	return h.world.Runtime.Cities(ctx, worldID)
}

func (h *WsHandler) options(ctx context.Context, worldID int64, req worldReq) (any, error) {
	return h.world.Runtime.BuildOptions(ctx, worldID, req.City, req.X, req.Y)
}

func (h *WsHandler) nearest(ctx context.Context, worldID int64, req worldReq) (any, error) {
	return h.world.Runtime.NearestTile(ctx, worldID, req.City, req.Type)
}

func (h *WsHandler) worldMap(ctx context.Context, worldID int64, _ worldReq) (any, error) {
	return h.world.Runtime.Map(ctx, worldID)
}

func (h *WsHandler) place(ctx context.Context, worldID int64, req worldReq) (any, error) {
	return h.world.Runtime.Place(ctx, worldID, req.City, req.X, req.Y, req.Type)
}

func (h *WsHandler) enqueue(ctx context.Context, worldID int64, req worldReq) (any, error) {
	return h.world.Runtime.Enqueue(ctx, worldID, req.City, req.X, req.Y, req.Type)
}

func (h *WsHandler) tick(ctx context.Context, worldID int64, _ worldReq) (any, error) {
	return h.world.Runtime.Tick(ctx, worldID)
}

func (h *WsHandler) ok(wsResp *ws.WsMsgResp, data any) {
	wsResp.Body.Code = transport.OK
	wsResp.Body.Msg = data
}

func (h *WsHandler) fail(wsResp *ws.WsMsgResp, code int, msg string) {
	if wsResp == nil || wsResp.Body == nil {
		return
	}
	wsResp.Body.Code = code
	wsResp.Body.Msg = msg
}
