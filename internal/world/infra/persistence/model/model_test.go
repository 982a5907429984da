package model

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/ooaoJ/Cities-Resources/internal/world/entity"
)

func sampleSnapshot() *entity.WorldPersistSnapshot {
	r := 2
	return &entity.WorldPersistSnapshot{
		Version: 4,
		WorldID: 9,
		Seed:    12345,
		Width:   40,
		Height:  30,
		Turn:    6,
		Cities: []entity.CitySnapshot{{
			Name:            "Capital",
			X:               20,
			Y:               15,
			Food:            28.5,
			Production:      2,
			Population:      30,
			Money:           800,
			TerritoryRadius: &r,
			Buildings:       []entity.Building{{X: 19, Y: 14, Type: entity.Farm}},
			BuildQueue:      []entity.ConstructionOrder{{X: 21, Y: 15, Type: entity.Mine, Cost: 400, RemainingTurns: 2}},
		}},
		TileOccupancy: map[string]entity.OccupancySnapshot{
			"19,14": {Type: entity.Farm, OwnerCityID: 0},
		},
	}
}

func TestDecodeSnapshot_编码后可解码(t *testing.T) {
	want := sampleSnapshot()
	raw, err := EncodeSnapshot(want)
	if err != nil {
		t.Fatalf("Encode err=%v", err)
	}
	got, err := DecodeSnapshot(raw)
	if err != nil {
		t.Fatalf("Decode err=%v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("解码结果不一致\nwant=%+v\ngot=%+v", want, got)
	}
}

func TestDecodeSnapshot_可选字段缺省(t *testing.T) {
	raw := []byte(`{"worldId":1,"seed":7,"width":10,"height":10,"turn":0,"cities":[{"name":"A","x":1,"y":2}]}`)
	s, err := DecodeSnapshot(raw)
	if err != nil {
		t.Fatalf("Decode err=%v", err)
	}
	c := s.Cities[0]
	if c.Radius() != entity.DefaultTerritoryRadius || c.Money != 0 || len(c.Buildings) != 0 || len(c.BuildQueue) != 0 {
		t.Fatalf("缺省字段不符合预期 %+v", c)
	}
}

func TestDecodeSnapshot_只有种子和城市也能解码(t *testing.T) {
	raw := []byte(`{"seed":7,"cities":[{"x":1,"y":2,"money":5}],"tileOccupancy":{}}`)
	s, err := DecodeSnapshot(raw)
	if err != nil {
		t.Fatalf("Decode err=%v", err)
	}
	if s.Seed != 7 || s.WorldID != 0 || s.Width != 0 || s.Height != 0 || s.Turn != 0 {
		t.Fatalf("顶层缺省不符 %+v", s)
	}
	if len(s.Cities) != 1 || s.Cities[0].Name != "" || s.Cities[0].Money != 5 {
		t.Fatalf("城市字段不符 %+v", s.Cities)
	}
}

func TestDecodeSnapshot_schema不通过(t *testing.T) {
	cases := []string{
		`{"worldId":1,"seed":7,"width":10,"height":10,"turn":0}`,
		`{"cities":[]}`,
		`{"seed":7,"cities":[{"name":"A","y":1}]}`,
		`{"worldId":1,"seed":7,"width":10,"height":10,"turn":0,"cities":[],"tileOccupancy":{"a-b":{"type":"farm","ownerCityId":0}}}`,
		`{"worldId":1,"seed":-1,"width":10,"height":10,"turn":0,"cities":[]}`,
		`{"worldId":1,"seed":7,"width":10,"height":10,"turn":0,"cities":[{"name":"A","x":1,"y":1,"buildQueue":[{"x":1,"y":1,"type":"farm","cost":-5,"remainingTurns":1}]}]}`,
		`{`,
	}
	for i, raw := range cases {
		_, err := DecodeSnapshot([]byte(raw))
		if !errors.Is(err, ErrSnapshotCorrupt) {
			t.Fatalf("case %d: 期望 ErrSnapshotCorrupt，got=%v", i, err)
		}
	}
}

func TestWorldDoc_映射往返(t *testing.T) {
	want := sampleSnapshot()
	doc := DocFromSnapshot(want, time.Unix(0, 0))
	if doc.ID != 9 || len(doc.Cities) != 1 || doc.Cities[0].BuildQueue[0].Type != "mine" {
		t.Fatalf("文档映射错误 %+v", doc)
	}
	if got := SnapshotFromDoc(doc); !reflect.DeepEqual(got, want) {
		t.Fatalf("文档往返不一致\nwant=%+v\ngot=%+v", want, got)
	}
}

func TestWorldRow_索引列与payload一致(t *testing.T) {
	s := sampleSnapshot()
	row, err := RowFromSnapshot(s)
	if err != nil {
		t.Fatalf("RowFromSnapshot err=%v", err)
	}
	if row.WorldID != 9 || row.Version != 4 || row.Turn != 6 || row.Seed != 12345 {
		t.Fatalf("索引列错误 %+v", row)
	}
	got, err := SnapshotFromRow(row)
	if err != nil || !reflect.DeepEqual(got, s) {
		t.Fatalf("payload 往返不一致 err=%v", err)
	}
}
