package dc

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ooaoJ/Cities-Resources/internal/world/app/port"
	"github.com/ooaoJ/Cities-Resources/internal/world/entity"
	"github.com/ooaoJ/Cities-Resources/internal/world/service"
	"github.com/ooaoJ/Cities-Resources/modules/kit/logx"
)

type WorldID = entity.WorldID

const (
	DefaultFlushEvery = 3000 * time.Millisecond
	saveTimeout       = 5 * time.Second
	retryBackoff      = 200 * time.Millisecond
	maxRetryBackoff   = 5 * time.Second
)

// WorldDC 持有一个世界的内存实体，脏时生成带版本的快照交给后台协程写库。
// 除 writerLoop 外的方法都只能在所属 actor 内调用。
type WorldDC struct {
	repo       port.WorldRepository
	svc        *service.WorldService
	log        logx.Logger
	entity     *entity.World
	flushEvery time.Duration

	mu      sync.Mutex
	pending *entity.WorldPersistSnapshot
	version uint64
	closed  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func NewWorldDC(repo port.WorldRepository, svc *service.WorldService, log logx.Logger, flushEvery time.Duration) *WorldDC {
	if flushEvery <= 0 {
		flushEvery = DefaultFlushEvery
	}
	if log == nil {
		log = logx.Nop()
	}
	d := &WorldDC{
		repo:       repo,
		svc:        svc,
		log:        log,
		flushEvery: flushEvery,
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go d.writerLoop()
	return d
}

// Load 读取存档并重建世界；存储里没有时原样返回 port.ErrWorldNotFound。
func (d *WorldDC) Load(ctx context.Context, worldID WorldID) (*entity.World, error) {
	if d.repo == nil {
		return nil, errors.New("world repository is nil")
	}
	snap, err := d.repo.LoadWorld(ctx, worldID)
	if err != nil {
		return nil, err
	}

	// 存档可以不带 worldId，以存储键为准
	snap.WorldID = worldID
	w, warns, err := d.svc.Restore(ctx, snap)
	if err != nil {
		return nil, err
	}
	if len(warns) > 0 {
		// 修正过的内容要写回
		w.MarkDirty()
	}
	d.mu.Lock()
	d.version = snap.Version
	d.mu.Unlock()
	d.entity = w
	return w, nil
}

// Create 生成新世界，新世界保持脏以便首次落盘。
func (d *WorldDC) Create(ctx context.Context, worldID WorldID) (*entity.World, error) {
	w, err := d.svc.NewWorld(worldID, d.svc.PickSeed())
	if err != nil {
		return nil, err
	}
	d.log.WithContext(ctx).Info("world created",
		zap.Int64("world_id", int64(worldID)),
		zap.Uint32("seed", w.Seed()),
	)
	d.entity = w
	return w, nil
}

// Replace 用导入的世界替换当前实体，并立即安排落盘。
func (d *WorldDC) Replace(w *entity.World) {
	d.entity = w
	w.MarkDirty()
}

// Flush 把当前脏状态打成下一个版本的快照交给写协程，不等待写库完成。
func (d *WorldDC) Flush(ctx context.Context) error {
	if !d.IsDirty() {
		return nil
	}
	if d.repo == nil {
		return errors.New("world repository is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if s, ok := d.buildNextSnapshot(); ok && d.offer(s) {
		d.signal()
	}
	return nil
}

func (d *WorldDC) IsDirty() bool {
	if d.entity == nil {
		return false
	}
	return d.entity.Dirty()
}

func (d *WorldDC) Entity() *entity.World {
	return d.entity
}

func (d *WorldDC) FlushEvery() time.Duration {
	return d.flushEvery
}

// Version 是最近一次生成的快照版本。
func (d *WorldDC) Version() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version
}

func (d *WorldDC) Close(ctx context.Context) error {
	_ = d.Flush(ctx)

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.stop)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *WorldDC) buildNextSnapshot() (*entity.WorldPersistSnapshot, bool) {
	if d.entity == nil {
		return nil, false
	}
	d.mu.Lock()
	d.version++
	version := d.version
	d.mu.Unlock()

	s, ok := d.entity.BuildPersistSnapshot(version)
	if !ok {
		return nil, false
	}
	d.entity.ClearDirty()
	return s, true
}

// offer 只保留版本最高的待写快照；关闭后拒收。
func (d *WorldDC) offer(s *entity.WorldPersistSnapshot) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || s == nil {
		return false
	}
	if d.pending == nil || d.pending.Version < s.Version {
		d.pending = s
	}
	return true
}

func (d *WorldDC) take() *entity.WorldPersistSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.pending
	d.pending = nil
	return s
}

func (d *WorldDC) signal() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *WorldDC) writerLoop() {
	defer close(d.done)
	for {
		select {
		case <-d.wake:
			d.drain()
		case <-d.stop:
			d.drain()
			return
		}
	}
}

// drain 写到没有待写快照为止。失败的快照放回队列按指数退避重试，
// 期间若有更高版本进来会顶替它；关闭后不再重试。
func (d *WorldDC) drain() {
	backoff := retryBackoff
	for s := d.take(); s != nil; s = d.take() {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		err := d.repo.Save(ctx, s)
		cancel()
		if err == nil {
			backoff = retryBackoff
			continue
		}
		logx.ReportSysError(context.Background(), d.log, logx.SysLog{Action: "world.save", Err: err},
			zap.Int64("world_id", int64(s.WorldID)),
			zap.Uint64("version", s.Version),
			zap.Duration("retry_in", backoff),
		)
		if !d.offer(s) {
			return
		}
		time.Sleep(backoff)
		backoff = min(backoff*2, maxRetryBackoff)
	}
}
