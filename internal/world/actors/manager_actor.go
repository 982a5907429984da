package actors

import (
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"github.com/ooaoJ/Cities-Resources/internal/shared/actor/messages"
	"github.com/ooaoJ/Cities-Resources/internal/world/app/port"
	"github.com/ooaoJ/Cities-Resources/internal/world/entity"
	"github.com/ooaoJ/Cities-Resources/internal/world/service"
	"github.com/ooaoJ/Cities-Resources/modules/kit/logx"
)

type WorldID = entity.WorldID

// ManagerActor 只做路由：按 world id 懒创建子 actor 并转发消息。
type ManagerActor struct {
	repo        port.WorldRepository
	svc         *service.WorldService
	log         logx.Logger
	flushEvery  time.Duration
	worldActors map[WorldID]*actor.PID
}

func NewManagerActor(repo port.WorldRepository, svc *service.WorldService, log logx.Logger, flushEvery time.Duration) *ManagerActor {
	if log == nil {
		log = logx.Nop()
	}
	return &ManagerActor{
		repo:        repo,
		svc:         svc,
		log:         log,
		flushEvery:  flushEvery,
		worldActors: make(map[WorldID]*actor.PID),
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Terminated:
		m.forget(msg.Who)
	case messages.WorldMessage:
		if msg == nil {
			ctx.Respond(fail(ErrBadRequest.WithData("detail", "nil request")))
			return
		}
		if msg.WorldID() <= 0 {
			ctx.Respond(fail(ErrBadRequest.WithData("detail", "invalid world_id")))
			return
		}
		ctx.Forward(m.getOrSpawn(ctx, WorldID(msg.WorldID())))
	}
}

func (m *ManagerActor) getOrSpawn(ctx actor.Context, worldID WorldID) *actor.PID {
	if pid, ok := m.worldActors[worldID]; ok && pid != nil {
		return pid
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewWorldActor(worldID, m.repo, m.svc, m.log, m.flushEvery)
	})
	pid := ctx.Spawn(props)
	ctx.Watch(pid)
	m.worldActors[worldID] = pid
	m.log.Info("world actor spawned", zap.Int64("world_id", int64(worldID)))
	return pid
}

// forget 子 actor 退出（加载失败或关停）后下次请求重新创建。
func (m *ManagerActor) forget(who *actor.PID) {
	if who == nil {
		return
	}
	for id, pid := range m.worldActors {
		if pid.Id == who.Id && pid.Address == who.Address {
			delete(m.worldActors, id)
			return
		}
	}
}
