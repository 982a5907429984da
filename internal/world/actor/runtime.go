package actor

import (
	"context"
	"errors"
	"time"

	protoactor "github.com/asynkron/protoactor-go/actor"

	"github.com/ooaoJ/Cities-Resources/internal/shared/actor/messages"
	"github.com/ooaoJ/Cities-Resources/internal/world/actors"
	"github.com/ooaoJ/Cities-Resources/internal/world/app/port"
	"github.com/ooaoJ/Cities-Resources/internal/world/service"
	"github.com/ooaoJ/Cities-Resources/modules/kit/errx"
	"github.com/ooaoJ/Cities-Resources/modules/kit/logx"
)

const defaultAskTimeout = 3 * time.Second

var (
	ErrRuntimeClosed = errx.NewSys(errx.CodeUnavailable, "actor runtime 未初始化")
	ErrAskTimeout    = errx.NewSys(errx.CodeTimeout, "world actor 响应超时")
	ErrBadReply      = errx.NewSys(errx.CodeInternal, "actor 返回类型非法")
)

type Options struct {
	AskTimeout time.Duration
	FlushEvery time.Duration
	// ExplicitCreate 为 true 时只有 Create 与 Import 会生成新世界，其他请求对不存在的世界返回 NOT_FOUND。
	ExplicitCreate bool
}

// Runtime 是世界 actor 系统对外的同步入口，接口层只跟它打交道。
type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	timeout time.Duration
	lazy    bool
}

func NewRuntime(repo port.WorldRepository, svc *service.WorldService, log logx.Logger, opts Options) *Runtime {
	if opts.AskTimeout <= 0 {
		opts.AskTimeout = defaultAskTimeout
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(repo, svc, log, opts.FlushEvery)
	})
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:  system,
		root:    root,
		manager: manager,
		timeout: opts.AskTimeout,
		lazy:    !opts.ExplicitCreate,
	}
}

// Shutdown 停掉 manager 及其子 actor，子 actor 退出前会把脏数据落盘。
func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	if r.root != nil && r.manager != nil {
		_ = r.root.StopFuture(r.manager).Wait()
	}
	if r.system != nil {
		r.system.Shutdown()
	}
}

func (r *Runtime) request(msg any, timeout time.Duration) (any, error) {
	if r == nil || r.root == nil || r.manager == nil {
		return nil, ErrRuntimeClosed
	}

	res, err := r.root.RequestFuture(r.manager, msg, timeout).Result()
	if err != nil {
		if errors.Is(err, protoactor.ErrTimeout) {
			return nil, ErrAskTimeout.WithCause(err)
		}
		if errors.Is(err, protoactor.ErrDeadLetter) {
			// 目标 actor 恰好在自停，调用方重试即可
			return nil, actors.ErrWorldNotReady.WithCause(err)
		}
		return nil, errx.Wrap(errx.CodeInternal, "actor 请求失败", err)
	}
	return res, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}

// ask 发送请求并把 Reply 解成具体类型。
func ask[T any](ctx context.Context, r *Runtime, msg messages.WorldMessage) (*T, error) {
	res, err := r.request(msg, r.timeoutFromContext(ctx))
	if err != nil {
		return nil, err
	}
	reply, ok := res.(*messages.Reply)
	if !ok || reply == nil {
		return nil, ErrBadReply
	}
	if reply.Err != nil {
		return nil, reply.Err
	}
	out, ok := reply.Payload.(*T)
	if !ok {
		return nil, ErrBadReply
	}
	return out, nil
}

func (r *Runtime) base(worldID int64) messages.WorldBaseMessage {
	return messages.WorldBaseMessage{World: worldID, Create: r != nil && r.lazy}
}

// Create 打开世界，不存在时生成新世界；返回城市列表。
func (r *Runtime) Create(ctx context.Context, worldID int64) (*messages.WHCities, error) {
	return ask[messages.WHCities](ctx, r, &messages.HWCities{WorldBaseMessage: messages.WorldBaseMessage{World: worldID, Create: true}})
}

func (r *Runtime) Terrain(ctx context.Context, worldID int64, x, y int) (*messages.WHTerrain, error) {
	return ask[messages.WHTerrain](ctx, r, &messages.HWTerrain{WorldBaseMessage: r.base(worldID), X: x, Y: y})
}

func (r *Runtime) Occupancy(ctx context.Context, worldID int64) (*messages.WHOccupancy, error) {
	return ask[messages.WHOccupancy](ctx, r, &messages.HWOccupancy{WorldBaseMessage: r.base(worldID)})
}

func (r *Runtime) Territory(ctx context.Context, worldID int64, city int) (*messages.WHTerritory, error) {
	return ask[messages.WHTerritory](ctx, r, &messages.HWTerritory{WorldBaseMessage: r.base(worldID), City: city})
}

func (r *Runtime) Cities(ctx context.Context, worldID int64) (*messages.WHCities, error) {
	return ask[messages.WHCities](ctx, r, &messages.HWCities{WorldBaseMessage: r.base(worldID)})
}

func (r *Runtime) Place(ctx context.Context, worldID int64, city, x, y int, typ string) (*messages.WHPlace, error) {
	return ask[messages.WHPlace](ctx, r, &messages.HWPlace{WorldBaseMessage: r.base(worldID), City: city, X: x, Y: y, Type: typ})
}

func (r *Runtime) Enqueue(ctx context.Context, worldID int64, city, x, y int, typ string) (*messages.WHEnqueue, error) {
	return ask[messages.WHEnqueue](ctx, r, &messages.HWEnqueue{WorldBaseMessage: r.base(worldID), City: city, X: x, Y: y, Type: typ})
}

func (r *Runtime) Tick(ctx context.Context, worldID int64) (*messages.WHTick, error) {
	return ask[messages.WHTick](ctx, r, &messages.HWTick{WorldBaseMessage: r.base(worldID)})
}

func (r *Runtime) BuildOptions(ctx context.Context, worldID int64, city, x, y int) (*messages.WHBuildOptions, error) {
	return ask[messages.WHBuildOptions](ctx, r, &messages.HWBuildOptions{WorldBaseMessage: r.base(worldID), City: city, X: x, Y: y})
}

func (r *Runtime) NearestTile(ctx context.Context, worldID int64, city int, typ string) (*messages.WHNearestTile, error) {
	return ask[messages.WHNearestTile](ctx, r, &messages.HWNearestTile{WorldBaseMessage: r.base(worldID), City: city, Type: typ})
}

func (r *Runtime) Map(ctx context.Context, worldID int64) (*messages.WHMap, error) {
	return ask[messages.WHMap](ctx, r, &messages.HWMap{WorldBaseMessage: r.base(worldID)})
}

func (r *Runtime) Export(ctx context.Context, worldID int64) (*messages.WHExport, error) {
	return ask[messages.WHExport](ctx, r, &messages.HWExport{WorldBaseMessage: r.base(worldID)})
}

func (r *Runtime) Import(ctx context.Context, worldID int64, raw []byte) (*messages.WHImport, error) {
	return ask[messages.WHImport](ctx, r, &messages.HWImport{WorldBaseMessage: messages.WorldBaseMessage{World: worldID, Create: true}, Snapshot: raw})
}
