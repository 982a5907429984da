package actor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ooaoJ/Cities-Resources/internal/shared/config"
	"github.com/ooaoJ/Cities-Resources/internal/world/app/port"
	"github.com/ooaoJ/Cities-Resources/internal/world/entity"
	"github.com/ooaoJ/Cities-Resources/internal/world/infra/persistence/memory"
	"github.com/ooaoJ/Cities-Resources/internal/world/service"
)

func newTestRuntime(t *testing.T) (*Runtime, *memory.WorldRepository) {
	t.Helper()
	g := config.Default().Game
	g.Width, g.Height, g.Seed = 40, 40, 2024
	repo := memory.NewWorldRepository()
	rt := NewRuntime(repo, service.New(g, nil, nil), nil, Options{AskTimeout: 5 * time.Second, FlushEvery: time.Hour})
	return rt, repo
}

func TestRuntime_排队建造并结算(t *testing.T) {
	rt, repo := newTestRuntime(t)
	ctx := context.Background()

	cities, err := rt.Cities(ctx, 1)
	if err != nil {
		t.Fatalf("Cities err=%v", err)
	}
	if len(cities.Cities) != 1 || cities.Cities[0].Resources.Money != 1000 {
		t.Fatalf("新世界应只有首都且资金 1000，got=%+v", cities.Cities)
	}

	tile, err := rt.NearestTile(ctx, 1, 0, "house")
	if err != nil {
		t.Fatalf("NearestTile err=%v", err)
	}
	enq, err := rt.Enqueue(ctx, 1, 0, tile.X, tile.Y, "house")
	if err != nil {
		t.Fatalf("Enqueue err=%v", err)
	}
	if enq.Money != 900 || enq.Order.RemainingTurns != 1 {
		t.Fatalf("排队后资金或工期不对 %+v", enq)
	}

	tick, err := rt.Tick(ctx, 1)
	if err != nil {
		t.Fatalf("Tick err=%v", err)
	}
	if tick.Turn != 1 || len(tick.Committed) != 1 || len(tick.Refunded) != 0 {
		t.Fatalf("回合结算不对 %+v", tick)
	}

	occ, err := rt.Occupancy(ctx, 1)
	if err != nil {
		t.Fatalf("Occupancy err=%v", err)
	}
	if got := occ.Tiles[entity.TileKey(tile.X, tile.Y)]; got.Type != "house" || got.OwnerCityID != 0 {
		t.Fatalf("占地记录不对 %+v", occ.Tiles)
	}

	rt.Shutdown()
	snap, err := repo.LoadWorld(ctx, 1)
	if err != nil {
		t.Fatalf("关停后应已落盘 err=%v", err)
	}
	if snap.Turn != 1 || len(snap.Cities[0].Buildings) != 1 {
		t.Fatalf("落盘内容不对 turn=%d buildings=%v", snap.Turn, snap.Cities[0].Buildings)
	}
}

func TestRuntime_拒绝带原因(t *testing.T) {
	rt, _ := newTestRuntime(t)
	defer rt.Shutdown()
	ctx := context.Background()

	_, err := rt.Place(ctx, 1, 0, 0, 0, "facotry")
	if !service.IsRejected(err) || service.ReasonOf(err) != service.ReasonUnknownType.Code {
		t.Fatalf("期望 UNKNOWN_BUILDING_TYPE，got=%v", err)
	}
	_, err = rt.Territory(ctx, 1, 9)
	if service.ReasonOf(err) != service.ReasonCityNotFound.Code {
		t.Fatalf("期望 CITY_NOT_FOUND，got=%v", err)
	}
	if _, err := rt.Cities(ctx, 0); err == nil {
		t.Fatalf("world_id=0 应报错")
	}
}

func TestRuntime_导出再导入(t *testing.T) {
	rt, _ := newTestRuntime(t)
	defer rt.Shutdown()
	ctx := context.Background()

	if _, err := rt.Tick(ctx, 1); err != nil {
		t.Fatalf("Tick err=%v", err)
	}
	exp, err := rt.Export(ctx, 1)
	if err != nil {
		t.Fatalf("Export err=%v", err)
	}

	imp, err := rt.Import(ctx, 2, exp.Snapshot)
	if err != nil {
		t.Fatalf("Import err=%v", err)
	}
	if imp.Turn != 1 || len(imp.Warnings) != 0 {
		t.Fatalf("导入结果不对 %+v", imp)
	}
	m, err := rt.Map(ctx, 2)
	if err != nil {
		t.Fatalf("Map err=%v", err)
	}
	if m.Turn != 1 || m.Width != 40 || len(m.Rows) != 40 {
		t.Fatalf("地图不对 turn=%d w=%d rows=%d", m.Turn, m.Width, len(m.Rows))
	}

	if _, err := rt.Import(ctx, 2, []byte(`{"worldId":1}`)); err == nil {
		t.Fatalf("缺字段的存档应被拒绝")
	}
}

func TestRuntime_显式创建模式下未知世界返回不存在(t *testing.T) {
	g := config.Default().Game
	g.Width, g.Height, g.Seed = 40, 40, 2024
	repo := memory.NewWorldRepository()
	rt := NewRuntime(repo, service.New(g, nil, nil), nil, Options{AskTimeout: 5 * time.Second, FlushEvery: time.Hour, ExplicitCreate: true})
	ctx := context.Background()

	if _, err := rt.Cities(ctx, 77); !errors.Is(err, port.ErrWorldNotFound) {
		t.Fatalf("未知世界应 NOT_FOUND，got=%v", err)
	}
	if _, err := rt.Tick(ctx, 77); !errors.Is(err, port.ErrWorldNotFound) {
		t.Fatalf("写请求同样不应生成世界，got=%v", err)
	}

	created, err := rt.Create(ctx, 77)
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if len(created.Cities) != 1 {
		t.Fatalf("新世界应只有首都，got=%+v", created.Cities)
	}
	if _, err := rt.Cities(ctx, 77); err != nil {
		t.Fatalf("创建后应可读 err=%v", err)
	}

	rt.Shutdown()
	if _, err := repo.LoadWorld(ctx, 77); err != nil {
		t.Fatalf("显式创建的世界应落盘 err=%v", err)
	}
}

func TestRuntime_显式创建模式下只读不落盘(t *testing.T) {
	g := config.Default().Game
	g.Width, g.Height, g.Seed = 40, 40, 2024
	repo := memory.NewWorldRepository()
	rt := NewRuntime(repo, service.New(g, nil, nil), nil, Options{AskTimeout: 5 * time.Second, FlushEvery: time.Hour, ExplicitCreate: true})
	ctx := context.Background()

	for id := int64(100); id < 105; id++ {
		if _, err := rt.Map(ctx, id); !errors.Is(err, port.ErrWorldNotFound) {
			t.Fatalf("world=%d 期望 NOT_FOUND，got=%v", id, err)
		}
	}
	rt.Shutdown()
	for id := int64(100); id < 105; id++ {
		if _, err := repo.LoadWorld(ctx, entity.WorldID(id)); !errors.Is(err, port.ErrWorldNotFound) {
			t.Fatalf("world=%d 不应被写入存储，got=%v", id, err)
		}
	}
}
