package http

import (
	"context"
	"io"
	nethttp "net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ooaoJ/Cities-Resources/internal/shared/transport"
	"github.com/ooaoJ/Cities-Resources/internal/shared/transport/http/middleware"
	"github.com/ooaoJ/Cities-Resources/internal/shared/utils"
	"github.com/ooaoJ/Cities-Resources/internal/world/interfaces/handler"
)

const maxSnapshotBytes = 64 << 20

type Response struct {
	Code   int            `json:"code"`
	Msg    string         `json:"msg,omitempty"`
	Reason string         `json:"reason,omitempty"`
	Data   any            `json:"data,omitempty"`
	Extra  map[string]any `json:"extra,omitempty"`
}

type HttpHandler struct {
	world *handler.World
}

func NewHttpHandler(w *handler.World) *HttpHandler {
	return &HttpHandler{world: w}
}

type buildReq struct {
	X    *int   `json:"x" binding:"required"`
	Y    *int   `json:"y" binding:"required"`
	Type string `json:"type" binding:"required"`
}

func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	api := group.Group("/api/worlds")
	api.POST("", middleware.Auth(h.world.RequireAuth), h.CreateWorld)

	w := api.Group("/:world")
	w.GET("/terrain", h.Terrain)
	w.GET("/occupancy", h.Occupancy)
	w.GET("/map", h.Map)
	w.GET("/cities", h.Cities)
	w.GET("/cities/:city/territory", h.Territory)
	w.GET("/cities/:city/options", h.BuildOptions)
	w.GET("/cities/:city/nearest", h.NearestTile)

	write := w.Group("", middleware.Auth(h.world.RequireAuth))
	write.POST("/cities/:city/buildings", h.Place)
	write.POST("/cities/:city/orders", h.Enqueue)
	write.POST("/tick", h.Tick)
	write.GET("/snapshot", h.Export)
	write.PUT("/snapshot", h.Import)
}

// CreateWorld 分配雪花 id 并触发新世界生成。
func (h *HttpHandler) CreateWorld(c *gin.Context) {
	id, err := utils.NextSnowflakeID()
	if err != nil {
		h.error(c, "world.create", err)
		return
	}
	res, err := h.world.Runtime.Create(c.Request.Context(), id)
	if err != nil {
		h.error(c, "world.create", err)
		return
	}
	h.ok(c, gin.H{"worldId": strconv.FormatInt(id, 10), "cities": res.Cities})
}

func (h *HttpHandler) Terrain(c *gin.Context) {
	worldID, ok := h.worldID(c)
	if !ok {
		return
	}
	x, okX := queryInt(c, "x")
	y, okY := queryInt(c, "y")
	if !okX || !okY {
		h.fail(c, transport.InvalidParam, "x/y 参数有误")
		return
	}
	res, err := h.world.Runtime.Terrain(c.Request.Context(), worldID, x, y)
	if err != nil {
		h.error(c, "world.terrain", err)
		return
	}
	h.ok(c, res)
}

func (h *HttpHandler) Occupancy(c *gin.Context) {
	worldID, ok := h.worldID(c)
	if !ok {
		return
	}
	res, err := h.world.Runtime.Occupancy(c.Request.Context(), worldID)
	if err != nil {
		h.error(c, "world.occupancy", err)
		return
	}
	h.ok(c, res)
}

func (h *HttpHandler) Map(c *gin.Context) {
	worldID, ok := h.worldID(c)
	if !ok {
		return
	}
	res, err := h.world.Runtime.Map(c.Request.Context(), worldID)
	if err != nil {
		h.error(c, "world.map", err)
		return
	}
	h.ok(c, res)
}

func (h *HttpHandler) Cities(c *gin.Context) {
	worldID, ok := h.worldID(c)
	if !ok {
		return
	}
	res, err := h.world.Runtime.Cities(c.Request.Context(), worldID)
	if err != nil {
		h.error(c, "world.cities", err)
		return
	}
	h.ok(c, res)
}

func (h *HttpHandler) Territory(c *gin.Context) {
	worldID, city, ok := h.worldAndCity(c)
	if !ok {
		return
	}
	res, err := h.world.Runtime.Territory(c.Request.Context(), worldID, city)
	if err != nil {
		h.error(c, "world.territory", err)
		return
	}
	h.ok(c, res)
}

func (h *HttpHandler) BuildOptions(c *gin.Context) {
	worldID, city, ok := h.worldAndCity(c)
	if !ok {
		return
	}
	x, okX := queryInt(c, "x")
	y, okY := queryInt(c, "y")
	if !okX || !okY {
		h.fail(c, transport.InvalidParam, "x/y 参数有误")
		return
	}
	res, err := h.world.Runtime.BuildOptions(c.Request.Context(), worldID, city, x, y)
	if err != nil {
		h.error(c, "world.options", err)
		return
	}
	h.ok(c, res)
}

func (h *HttpHandler) NearestTile(c *gin.Context) {
	worldID, city, ok := h.worldAndCity(c)
	if !ok {
		return
	}
	typ := c.Query("type")
	if typ == "" {
		h.fail(c, transport.InvalidParam, "type 不能为空")
		return
	}
	res, err := h.world.Runtime.NearestTile(c.Request.Context(), worldID, city, typ)
	if err != nil {
		h.error(c, "world.nearest", err)
		return
	}
	h.ok(c, res)
}

func (h *HttpHandler) Place(c *gin.Context) {
	h.build(c, "world.place", func(ctx context.Context, worldID int64, city int, req buildReq) (any, error) {
		return h.world.Runtime.Place(ctx, worldID, city, *req.X, *req.Y, req.Type)
	})
}

func (h *HttpHandler) Enqueue(c *gin.Context) {
	h.build(c, "world.enqueue", func(ctx context.Context, worldID int64, city int, req buildReq) (any, error) {
		return h.world.Runtime.Enqueue(ctx, worldID, city, *req.X, *req.Y, req.Type)
	})
}

func (h *HttpHandler) build(c *gin.Context, action string, call func(context.Context, int64, int, buildReq) (any, error)) {
	worldID, city, ok := h.worldAndCity(c)
	if !ok {
		return
	}
	if code := h.world.Authorize(middleware.ClaimsFrom(c), city); code != transport.OK {
		h.fail(c, code, "无权操作该城市")
		return
	}
	var req buildReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	res, err := call(c.Request.Context(), worldID, city, req)
	if err != nil {
		h.error(c, action, err)
		return
	}
	h.ok(c, res)
}

func (h *HttpHandler) Tick(c *gin.Context) {
	worldID, ok := h.worldID(c)
	if !ok {
		return
	}
	res, err := h.world.Runtime.Tick(c.Request.Context(), worldID)
	if err != nil {
		h.error(c, "world.tick", err)
		return
	}
	h.ok(c, res)
}

// Export 直接返回存档 JSON，不套响应信封。
func (h *HttpHandler) Export(c *gin.Context) {
	worldID, ok := h.worldID(c)
	if !ok {
		return
	}
	res, err := h.world.Runtime.Export(c.Request.Context(), worldID)
	if err != nil {
		h.error(c, "world.export", err)
		return
	}
	c.Data(nethttp.StatusOK, "application/json", res.Snapshot)
}

func (h *HttpHandler) Import(c *gin.Context) {
	worldID, ok := h.worldID(c)
	if !ok {
		return
	}
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSnapshotBytes))
	if err != nil || len(raw) == 0 {
		h.fail(c, transport.InvalidParam, "存档内容为空")
		return
	}
	res, err := h.world.Runtime.Import(c.Request.Context(), worldID, raw)
	if err != nil {
		h.error(c, "world.import", err)
		return
	}
	if len(res.Warnings) > 0 {
		h.world.Log.WithContext(c.Request.Context()).Warn("world import fixed snapshot",
			zap.Int64("world_id", worldID),
			zap.Strings("warnings", res.Warnings),
		)
	}
	h.ok(c, res)
}

func (h *HttpHandler) worldID(c *gin.Context) (int64, bool) {
	raw := c.Param("world")
	if raw == "default" || raw == "" {
		return h.world.DefaultWorldID, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.fail(c, transport.InvalidParam, "world 参数有误")
		return 0, false
	}
	return id, true
}

func (h *HttpHandler) worldAndCity(c *gin.Context) (int64, int, bool) {
	worldID, ok := h.worldID(c)
	if !ok {
		return 0, 0, false
	}
	city, err := strconv.Atoi(c.Param("city"))
	if err != nil || city < 0 {
		h.fail(c, transport.InvalidParam, "city 参数有误")
		return 0, 0, false
	}
	return worldID, city, true
}

func queryInt(c *gin.Context, key string) (int, bool) {
	v, err := strconv.Atoi(c.Query(key))
	return v, err == nil
}

func (h *HttpHandler) ok(c *gin.Context, data any) {
	c.JSON(nethttp.StatusOK, Response{Code: transport.OK, Data: data})
}

func (h *HttpHandler) fail(c *gin.Context, code int, msg string) {
	c.JSON(transport.HTTPStatus(code), Response{Code: code, Msg: msg})
}

func (h *HttpHandler) error(c *gin.Context, action string, err error) {
	f := handler.HandleError(c.Request.Context(), h.world.Log, action, err)
	c.JSON(transport.HTTPStatus(f.Code), Response{Code: f.Code, Msg: f.Msg, Reason: f.Reason, Extra: f.Data})
}
