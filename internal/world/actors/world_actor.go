package actors

import (
	"context"
	"errors"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/scheduler"
	"go.uber.org/zap"

	"github.com/ooaoJ/Cities-Resources/internal/shared/actor/messages"
	"github.com/ooaoJ/Cities-Resources/internal/world/app/port"
	"github.com/ooaoJ/Cities-Resources/internal/world/dc"
	"github.com/ooaoJ/Cities-Resources/internal/world/entity"
	"github.com/ooaoJ/Cities-Resources/internal/world/service"
	"github.com/ooaoJ/Cities-Resources/modules/kit/logx"
)

// phase 是世界 actor 的生命周期阶段，只有 online 时受理请求。
// absent 表示存储里没有这个世界，只等允许新建的请求，闲置超时后自停。
type phase uint8

const (
	phaseLoading phase = iota
	phaseAbsent
	phaseOnline
	phaseStopping
	phaseStopped
)

const (
	loadTimeout  = 10 * time.Second
	closeTimeout = 3 * time.Second
	absentLinger = 10 * time.Second
)

// WorldActor 独占一个世界，所有读写都在自己的邮箱里串行执行。
type WorldActor struct {
	phase      phase
	worldID    WorldID
	svc        *service.WorldService
	log        logx.Logger
	dc         *dc.WorldDC
	entity     *entity.World
	dispatcher *Dispatcher
	cancelTick scheduler.CancelFunc
}

type flushTick struct{}

func (flushTick) NotInfluenceReceiveTimeout() {}

func NewWorldActor(worldID WorldID, repo port.WorldRepository, svc *service.WorldService, log logx.Logger, flushEvery time.Duration) *WorldActor {
	return &WorldActor{
		worldID:    worldID,
		svc:        svc,
		log:        log,
		dc:         dc.NewWorldDC(repo, svc, log, flushEvery),
		dispatcher: NewDispatcher(),
	}
}

func (p *WorldActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		p.load(ctx)
	case *actor.Stopping:
		p.phase = phaseStopping
		p.stopTicking()
		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := p.dc.Close(closeCtx); err != nil {
			p.reportSys(closeCtx, "world.close", err)
		}
	case *actor.Stopped, *actor.Restarting:
		p.stopTicking()
		p.phase = phaseStopped
	case *actor.ReceiveTimeout:
		if p.phase == phaseAbsent {
			ctx.Stop(ctx.Self())
		}
	case flushTick:
		if p.phase != phaseOnline {
			return
		}
		if err := p.dc.Flush(context.Background()); err != nil {
			p.reportSys(context.Background(), "world.flush", err)
		}
	case messages.WorldMessage:
		if p.phase == phaseAbsent {
			if !msg.MayCreate() {
				ctx.Respond(fail(port.ErrWorldNotFound.WithData("world_id", p.worldID)))
				return
			}
			if err := p.create(ctx); err != nil {
				ctx.Respond(fail(err))
				return
			}
		}
		if p.phase != phaseOnline {
			ctx.Respond(fail(ErrWorldNotReady))
			return
		}
		p.dispatcher.Dispatch(ctx, p, msg)
	}
}

// load 读档；存储里没有时进入 absent。其他失败时自停，manager 收到 Terminated 后下次请求会重新拉起。
func (p *WorldActor) load(ctx actor.Context) {
	p.phase = phaseLoading
	loadCtx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()
	e, err := p.dc.Load(loadCtx, p.worldID)
	if errors.Is(err, port.ErrWorldNotFound) {
		p.phase = phaseAbsent
		ctx.SetReceiveTimeout(absentLinger)
		return
	}
	if err != nil {
		p.reportSys(loadCtx, "world.load", err)
		p.phase = phaseStopping
		ctx.Stop(ctx.Self())
		return
	}
	p.online(ctx, e)
}

func (p *WorldActor) create(ctx actor.Context) error {
	createCtx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()
	e, err := p.dc.Create(createCtx, p.worldID)
	if err != nil {
		p.reportSys(createCtx, "world.create", err)
		return err
	}
	ctx.CancelReceiveTimeout()
	p.online(ctx, e)
	return nil
}

func (p *WorldActor) online(ctx actor.Context, e *entity.World) {
	p.entity = e
	p.phase = phaseOnline
	p.log.Info("world online",
		zap.Int64("world_id", int64(p.worldID)),
		zap.Uint32("seed", e.Seed()),
		zap.Int("turn", e.Turn()),
		zap.Int("cities", len(e.Cities())),
	)
	if every := p.dc.FlushEvery(); every > 0 {
		p.cancelTick = scheduler.NewTimerScheduler(ctx.ActorSystem().Root).
			SendRepeatedly(every, every, ctx.Self(), flushTick{})
	}
}

func (p *WorldActor) stopTicking() {
	if p.cancelTick != nil {
		p.cancelTick()
		p.cancelTick = nil
	}
}

func (p *WorldActor) reportSys(ctx context.Context, action string, err error) {
	logx.ReportSysError(ctx, p.log, logx.SysLog{Action: action, Err: err},
		zap.Int64("world_id", int64(p.worldID)))
}

// replace 导入存档后切换实体。
func (p *WorldActor) replace(w *entity.World) {
	p.entity = w
	p.dc.Replace(w)
}
