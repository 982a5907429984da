package service

import (
	"testing"

	"github.com/ooaoJ/Cities-Resources/internal/world/entity"
	"github.com/ooaoJ/Cities-Resources/internal/world/terrain"
	"github.com/ooaoJ/Cities-Resources/modules/kit/errx"
)

func TestIsValid_矿井只能建在山地(t *testing.T) {
	m, err := terrain.Generate(terrain.DefaultParams(48, 48, 99))
	if err != nil {
		t.Fatalf("Generate err=%v", err)
	}
	w := entity.NewWorld(1, m)
	for y := 0; y < w.Height(); y++ {
		for x := 0; x < w.Width(); x++ {
			code, _ := w.Terrain(x, y)
			if got, want := IsValid(w, x, y, entity.Mine), code == terrain.Mountain; got != want {
				t.Fatalf("(%d,%d) terrain=%s mine valid=%v want=%v", x, y, code, got, want)
			}
		}
	}
	if IsValid(w, -1, 0, entity.Mine) {
		t.Fatalf("越界应返回 false")
	}
}

func TestIsValid_磨坊临河可建(t *testing.T) {
	w := worldFromRows(t,
		"sss",
		"srs",
		"sss",
	)
	if !IsValid(w, 0, 0, entity.Mill) {
		t.Fatalf("对角临河的沙地应允许磨坊")
	}
	w2 := worldFromRows(t, "sss", "sss", "sss")
	if IsValid(w2, 1, 1, entity.Mill) {
		t.Fatalf("不临河的沙地不应允许磨坊")
	}
}

func TestPlaceBuilding_成功写占地加收益(t *testing.T) {
	w := worldFromRows(t, grassRows(7, 7)...)
	w.AddCity("A", 3, 3, entity.Resources{}, 2)
	if err := PlaceBuilding(w, 0, 2, 2, entity.Farm); err != nil {
		t.Fatalf("PlaceBuilding err=%v", err)
	}
	c, _ := w.City(0)
	if r := c.Resources(); r.Production != 2 || r.Food != 10 {
		t.Fatalf("收益错误 %+v", r)
	}
	if o := w.TileOccupancy()["2,2"]; o.Type != entity.Farm || o.Owner != 0 {
		t.Fatalf("占地记录错误 %+v", o)
	}
}

func TestPlaceBuilding_各种拒绝且不改状态(t *testing.T) {
	w := worldFromRows(t,
		"ggggggg",
		"ggggggg",
		"ggggggg",
		"ggggooo",
		"ggggggg",
		"ggggggg",
		"ggggggg",
	)
	w.AddCity("A", 3, 3, entity.Resources{Money: 10}, 1)
	if err := PlaceBuilding(w, 0, 2, 2, entity.House); err != nil {
		t.Fatalf("PlaceBuilding err=%v", err)
	}
	w.ClearDirty()
	before := w.Snapshot(0)

	mustReason(t, PlaceBuilding(w, 9, 2, 3, entity.Farm), ReasonCityNotFound)
	mustReason(t, PlaceBuilding(w, 0, 2, 3, entity.BuildingType("castle")), ReasonUnknownType)
	mustReason(t, PlaceBuilding(w, 0, -1, 3, entity.Farm), ReasonOutOfBounds)
	mustReason(t, PlaceBuilding(w, 0, 3, 3, entity.Farm), ReasonTileHasCity)
	mustReason(t, PlaceBuilding(w, 0, 0, 0, entity.Farm), ReasonOutsideTerritory)
	mustReason(t, PlaceBuilding(w, 0, 2, 2, entity.Farm), ReasonTileOccupied)
	mustReason(t, PlaceBuilding(w, 0, 4, 3, entity.Farm), ReasonTerrainNotAllowed)

	if w.Dirty() {
		t.Fatalf("拒绝不应置脏")
	}
	after := w.Snapshot(0)
	if len(after.TileOccupancy) != len(before.TileOccupancy) || after.Cities[0].Money != before.Cities[0].Money {
		t.Fatalf("拒绝后状态被修改 before=%+v after=%+v", before, after)
	}
}

func TestPlaceBuilding_拒绝不带栈(t *testing.T) {
	w := worldFromRows(t, grassRows(3, 3)...)
	w.AddCity("A", 1, 1, entity.Resources{}, 1)
	err := PlaceBuilding(w, 0, 1, 1, entity.Farm)
	e, ok := errx.From(err)
	if !ok || !e.IsBiz() || e.Stack() != nil {
		t.Fatalf("期望不带栈的业务错误，got=%v", err)
	}
}

func TestParseBuildingType_给出近似建议(t *testing.T) {
	if got, err := ParseBuildingType(" Farm "); err != nil || got != entity.Farm {
		t.Fatalf("期望解析为 farm，got=%v err=%v", got, err)
	}
	_, err := ParseBuildingType("facotry")
	mustReason(t, err, ReasonUnknownType)
	e, _ := errx.From(err)
	if got := e.Data()["suggestion"]; got != "factory" {
		t.Fatalf("期望建议 factory，got=%v", got)
	}
	_, err = ParseBuildingType("spaceport")
	e, _ = errx.From(err)
	if _, ok := e.Data()["suggestion"]; ok {
		t.Fatalf("相差太远不应给建议，data=%v", e.Data())
	}
}
