package model

import (
	"time"

	"github.com/ooaoJ/Cities-Resources/internal/world/entity"
)

// WorldDoc 是 MongoDB 文档，_id 为世界 id。
type WorldDoc struct {
	ID            int64                   `bson:"_id"`
	Version       uint64                  `bson:"version"`
	Seed          int64                   `bson:"seed"`
	Width         int                     `bson:"width"`
	Height        int                     `bson:"height"`
	Turn          int                     `bson:"turn"`
	Cities        []CityDoc               `bson:"cities"`
	TileOccupancy map[string]OccupancyDoc `bson:"tileOccupancy"`
	UpdatedAt     time.Time               `bson:"updatedAt"`
}

type CityDoc struct {
	Name            string        `bson:"name"`
	X               int           `bson:"x"`
	Y               int           `bson:"y"`
	Food            float64       `bson:"food"`
	Production      int           `bson:"production"`
	Population      int           `bson:"population"`
	Money           int           `bson:"money"`
	TerritoryRadius *int          `bson:"territoryRadius,omitempty"`
	Buildings       []BuildingDoc `bson:"buildings"`
	BuildQueue      []OrderDoc    `bson:"buildQueue"`
}

type BuildingDoc struct {
	X    int    `bson:"x"`
	Y    int    `bson:"y"`
	Type string `bson:"type"`
}

type OrderDoc struct {
	X              int    `bson:"x"`
	Y              int    `bson:"y"`
	Type           string `bson:"type"`
	Cost           int    `bson:"cost"`
	RemainingTurns int    `bson:"remainingTurns"`
}

type OccupancyDoc struct {
	Type        string `bson:"type"`
	OwnerCityID int    `bson:"ownerCityId"`
}

func DocFromSnapshot(s *entity.WorldPersistSnapshot, now time.Time) WorldDoc {
	doc := WorldDoc{
		ID:            int64(s.WorldID),
		Version:       s.Version,
		Seed:          s.Seed,
		Width:         s.Width,
		Height:        s.Height,
		Turn:          s.Turn,
		Cities:        make([]CityDoc, 0, len(s.Cities)),
		TileOccupancy: make(map[string]OccupancyDoc, len(s.TileOccupancy)),
		UpdatedAt:     now,
	}
	for _, c := range s.Cities {
		cd := CityDoc{
			Name:            c.Name,
			X:               c.X,
			Y:               c.Y,
			Food:            c.Food,
			Production:      c.Production,
			Population:      c.Population,
			Money:           c.Money,
			TerritoryRadius: c.TerritoryRadius,
		}
		for _, b := range c.Buildings {
			cd.Buildings = append(cd.Buildings, BuildingDoc{X: b.X, Y: b.Y, Type: string(b.Type)})
		}
		for _, o := range c.BuildQueue {
			cd.BuildQueue = append(cd.BuildQueue, OrderDoc{X: o.X, Y: o.Y, Type: string(o.Type), Cost: o.Cost, RemainingTurns: o.RemainingTurns})
		}
		doc.Cities = append(doc.Cities, cd)
	}
	for k, o := range s.TileOccupancy {
		doc.TileOccupancy[k] = OccupancyDoc{Type: string(o.Type), OwnerCityID: int(o.OwnerCityID)}
	}
	return doc
}

func SnapshotFromDoc(doc WorldDoc) *entity.WorldPersistSnapshot {
	s := &entity.WorldPersistSnapshot{
		Version:       doc.Version,
		WorldID:       entity.WorldID(doc.ID),
		Seed:          doc.Seed,
		Width:         doc.Width,
		Height:        doc.Height,
		Turn:          doc.Turn,
		Cities:        make([]entity.CitySnapshot, 0, len(doc.Cities)),
		TileOccupancy: make(map[string]entity.OccupancySnapshot, len(doc.TileOccupancy)),
	}
	for _, cd := range doc.Cities {
		c := entity.CitySnapshot{
			Name:            cd.Name,
			X:               cd.X,
			Y:               cd.Y,
			Food:            cd.Food,
			Production:      cd.Production,
			Population:      cd.Population,
			Money:           cd.Money,
			TerritoryRadius: cd.TerritoryRadius,
		}
		for _, b := range cd.Buildings {
			c.Buildings = append(c.Buildings, entity.Building{X: b.X, Y: b.Y, Type: entity.BuildingType(b.Type)})
		}
		for _, o := range cd.BuildQueue {
			c.BuildQueue = append(c.BuildQueue, entity.ConstructionOrder{
				X:              o.X,
				Y:              o.Y,
				Type:           entity.BuildingType(o.Type),
				Cost:           o.Cost,
				RemainingTurns: o.RemainingTurns,
			})
		}
		s.Cities = append(s.Cities, c)
	}
	for k, o := range doc.TileOccupancy {
		s.TileOccupancy[k] = entity.OccupancySnapshot{Type: entity.BuildingType(o.Type), OwnerCityID: entity.CityID(o.OwnerCityID)}
	}
	return s
}
