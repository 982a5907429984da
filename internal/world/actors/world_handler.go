package actors

import (
	"context"
	"fmt"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"github.com/ooaoJ/Cities-Resources/internal/shared/actor/messages"
	"github.com/ooaoJ/Cities-Resources/internal/world/entity"
	"github.com/ooaoJ/Cities-Resources/internal/world/infra/persistence/model"
	"github.com/ooaoJ/Cities-Resources/internal/world/service"
)

type WorldHandler struct{}

var WH = &WorldHandler{}

func (h *WorldHandler) HandleTerrain(ctx actor.Context, p *WorldActor, req *messages.HWTerrain) {
	code, inBounds := p.entity.Terrain(req.X, req.Y)
	if !inBounds {
		ctx.Respond(fail(ErrBadRequest.WithReason(service.ReasonOutOfBounds).WithData("x", req.X).WithData("y", req.Y)))
		return
	}
	elev, _ := p.entity.Elevation(req.X, req.Y)
	ctx.Respond(ok(&messages.WHTerrain{Terrain: code.String(), Elevation: elev}))
}

func (h *WorldHandler) HandleOccupancy(ctx actor.Context, p *WorldActor, _ *messages.HWOccupancy) {
	occ := p.entity.TileOccupancy()
	out := make(map[string]messages.BuildingOwner, len(occ))
	for k, o := range occ {
		out[k] = messages.BuildingOwner{Type: string(o.Type), OwnerCityID: int(o.Owner)}
	}
	ctx.Respond(ok(&messages.WHOccupancy{Tiles: out}))
}

func (h *WorldHandler) HandleTerritory(ctx actor.Context, p *WorldActor, req *messages.HWTerritory) {
	id := entity.CityID(req.City)
	if _, found := p.entity.City(id); !found {
		ctx.Respond(fail(service.ErrRejected.WithReason(service.ReasonCityNotFound).WithData("city_id", req.City)))
		return
	}
	pts := p.entity.CityTerritory(id)
	tiles := make([]messages.Tile, len(pts))
	for i, pt := range pts {
		tiles[i] = messages.Tile{X: pt.X, Y: pt.Y}
	}
	ctx.Respond(ok(&messages.WHTerritory{City: req.City, Tiles: tiles}))
}

func (h *WorldHandler) HandleCities(ctx actor.Context, p *WorldActor, _ *messages.HWCities) {
	cities := p.entity.Cities()
	out := make([]messages.CityView, len(cities))
	for i, c := range cities {
		out[i] = cityView(c)
	}
	ctx.Respond(ok(&messages.WHCities{Turn: p.entity.Turn(), Cities: out}))
}

func (h *WorldHandler) HandlePlace(ctx actor.Context, p *WorldActor, req *messages.HWPlace) {
	t, err := service.ParseBuildingType(req.Type)
	if err != nil {
		ctx.Respond(fail(err))
		return
	}
	id := entity.CityID(req.City)
	if err := service.PlaceBuilding(p.entity, id, req.X, req.Y, t); err != nil {
		ctx.Respond(fail(err))
		return
	}
	c, _ := p.entity.City(id)
	ctx.Respond(ok(&messages.WHPlace{
		Building: messages.BuildingView{X: req.X, Y: req.Y, Type: string(t)},
		City:     resourcesView(c.Resources()),
	}))
}

func (h *WorldHandler) HandleEnqueue(ctx actor.Context, p *WorldActor, req *messages.HWEnqueue) {
	t, err := service.ParseBuildingType(req.Type)
	if err != nil {
		ctx.Respond(fail(err))
		return
	}
	id := entity.CityID(req.City)
	o, err := p.svc.EnqueueFromCatalog(p.entity, id, req.X, req.Y, t)
	if err != nil {
		ctx.Respond(fail(err))
		return
	}
	c, _ := p.entity.City(id)
	ctx.Respond(ok(&messages.WHEnqueue{Order: orderView(o), Money: c.Resources().Money}))
}

func (h *WorldHandler) HandleTick(ctx actor.Context, p *WorldActor, _ *messages.HWTick) {
	report := p.svc.Tick(p.entity)
	p.log.Info("world tick",
		zap.Int64("world_id", int64(p.worldID)),
		zap.Int("turn", report.Turn),
		zap.Int("committed", len(report.Committed)),
		zap.Int("refunded", len(report.Refunded)),
	)
	ctx.Respond(ok(&messages.WHTick{
		Turn:      report.Turn,
		Committed: outcomeViews(report.Committed),
		Refunded:  outcomeViews(report.Refunded),
	}))
}

func (h *WorldHandler) HandleBuildOptions(ctx actor.Context, p *WorldActor, req *messages.HWBuildOptions) {
	opts, err := p.svc.BuildOptions(p.entity, entity.CityID(req.City), req.X, req.Y)
	if err != nil {
		ctx.Respond(fail(err))
		return
	}
	out := make([]messages.BuildOptionView, len(opts))
	for i, o := range opts {
		out[i] = messages.BuildOptionView{Type: string(o.Type), Name: o.Name, Cost: o.Cost, Turns: o.Turns, Affordable: o.Affordable}
	}
	ctx.Respond(ok(&messages.WHBuildOptions{Options: out}))
}

func (h *WorldHandler) HandleNearestTile(ctx actor.Context, p *WorldActor, req *messages.HWNearestTile) {
	t, err := service.ParseBuildingType(req.Type)
	if err != nil {
		ctx.Respond(fail(err))
		return
	}
	pt, err := service.FindNearestValidTile(p.entity, entity.CityID(req.City), t)
	if err != nil {
		ctx.Respond(fail(err))
		return
	}
	ctx.Respond(ok(&messages.WHNearestTile{Tile: messages.Tile{X: pt.X, Y: pt.Y}}))
}

func (h *WorldHandler) HandleMap(ctx actor.Context, p *WorldActor, _ *messages.HWMap) {
	w := p.entity
	ctx.Respond(ok(&messages.WHMap{
		Seed:   w.Seed(),
		Width:  w.Width(),
		Height: w.Height(),
		Turn:   w.Turn(),
		Rows:   service.RenderRows(w),
	}))
}

func (h *WorldHandler) HandleExport(ctx actor.Context, p *WorldActor, _ *messages.HWExport) {
	raw, err := model.EncodeSnapshot(p.entity.Snapshot(p.dc.Version()))
	if err != nil {
		ctx.Respond(fail(err))
		return
	}
	ctx.Respond(ok(&messages.WHExport{Snapshot: raw}))
}

// HandleImport 存档里的 worldId 以当前 actor 为准。
func (h *WorldHandler) HandleImport(ctx actor.Context, p *WorldActor, req *messages.HWImport) {
	snap, err := model.DecodeSnapshot(req.Snapshot)
	if err != nil {
		ctx.Respond(fail(ErrBadRequest.WithCause(err)))
		return
	}
	snap.WorldID = p.worldID

	w, warns, err := p.svc.Restore(context.Background(), snap)
	if err != nil {
		ctx.Respond(fail(err))
		return
	}
	p.replace(w)

	out := make([]string, len(warns))
	for i, wn := range warns {
		out[i] = fmt.Sprintf("%s city=%d tile=%s %s", wn.Kind, wn.City, wn.Tile, wn.Detail)
	}
	p.log.Info("world imported",
		zap.Int64("world_id", int64(p.worldID)),
		zap.Int("turn", w.Turn()),
		zap.Int("warnings", len(warns)),
	)
	ctx.Respond(ok(&messages.WHImport{Turn: w.Turn(), Warnings: out}))
}

func cityView(c *entity.City) messages.CityView {
	bs := c.Buildings()
	q := c.Queue()
	v := messages.CityView{
		ID:              int(c.ID()),
		Name:            c.Name(),
		X:               c.X(),
		Y:               c.Y(),
		TerritoryRadius: c.TerritoryRadius(),
		Resources:       resourcesView(c.Resources()),
		Buildings:       make([]messages.BuildingView, len(bs)),
		BuildQueue:      make([]messages.OrderView, len(q)),
	}
	for i, b := range bs {
		v.Buildings[i] = messages.BuildingView{X: b.X, Y: b.Y, Type: string(b.Type)}
	}
	for i, o := range q {
		v.BuildQueue[i] = orderView(o)
	}
	return v
}

func resourcesView(r entity.Resources) messages.ResourcesView {
	return messages.ResourcesView{Food: r.Food, Production: r.Production, Population: r.Population, Money: r.Money}
}

func orderView(o entity.ConstructionOrder) messages.OrderView {
	return messages.OrderView{X: o.X, Y: o.Y, Type: string(o.Type), Cost: o.Cost, RemainingTurns: o.RemainingTurns}
}

func outcomeViews(in []service.OrderOutcome) []messages.OutcomeView {
	out := make([]messages.OutcomeView, len(in))
	for i, o := range in {
		out[i] = messages.OutcomeView{City: int(o.City), Order: orderView(o.Order), Reason: o.Reason}
	}
	return out
}
