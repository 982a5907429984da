package handler

import (
	"context"

	"github.com/ooaoJ/Cities-Resources/internal/shared/actor/messages"
	"github.com/ooaoJ/Cities-Resources/internal/shared/security"
	"github.com/ooaoJ/Cities-Resources/internal/shared/transport"
	"github.com/ooaoJ/Cities-Resources/modules/kit/logx"
)

// WorldRuntime 是接口层依赖的世界操作集合，由 actor.Runtime 实现。
type WorldRuntime interface {
	Create(ctx context.Context, worldID int64) (*messages.WHCities, error)
	Terrain(ctx context.Context, worldID int64, x, y int) (*messages.WHTerrain, error)
	Occupancy(ctx context.Context, worldID int64) (*messages.WHOccupancy, error)
	Territory(ctx context.Context, worldID int64, city int) (*messages.WHTerritory, error)
	Cities(ctx context.Context, worldID int64) (*messages.WHCities, error)
	Place(ctx context.Context, worldID int64, city, x, y int, typ string) (*messages.WHPlace, error)
	Enqueue(ctx context.Context, worldID int64, city, x, y int, typ string) (*messages.WHEnqueue, error)
	Tick(ctx context.Context, worldID int64) (*messages.WHTick, error)
	BuildOptions(ctx context.Context, worldID int64, city, x, y int) (*messages.WHBuildOptions, error)
	NearestTile(ctx context.Context, worldID int64, city int, typ string) (*messages.WHNearestTile, error)
	Map(ctx context.Context, worldID int64) (*messages.WHMap, error)
	Export(ctx context.Context, worldID int64) (*messages.WHExport, error)
	Import(ctx context.Context, worldID int64, raw []byte) (*messages.WHImport, error)
}

// World 是三种协议共用的接入层依赖。
type World struct {
	Runtime        WorldRuntime
	Log            logx.Logger
	DefaultWorldID int64
	RequireAuth    bool
}

func NewWorld(rt WorldRuntime, log logx.Logger, defaultWorldID int64, requireAuth bool) *World {
	if log == nil {
		log = logx.Nop()
	}
	if defaultWorldID <= 0 {
		defaultWorldID = 1
	}
	return &World{Runtime: rt, Log: log, DefaultWorldID: defaultWorldID, RequireAuth: requireAuth}
}

// WorldIDOr 0 取默认世界。
func (w *World) WorldIDOr(id int64) int64 {
	if id <= 0 {
		return w.DefaultWorldID
	}
	return id
}

// Authorize 校验写操作权限，返回 transport.OK 表示放行。
func (w *World) Authorize(claims *security.Claims, city int) int {
	if !w.RequireAuth {
		return transport.OK
	}
	if claims == nil {
		return transport.Unauthorized
	}
	if !claims.CanOperate(city) {
		return transport.Forbidden
	}
	return transport.OK
}

// AuthorizeWorld 只要求持有合法 token，不限城市。
func (w *World) AuthorizeWorld(claims *security.Claims) int {
	if w.RequireAuth && claims == nil {
		return transport.Unauthorized
	}
	return transport.OK
}
