package service

import (
	"math/rand"

	"github.com/ooaoJ/Cities-Resources/internal/shared/config"
	"github.com/ooaoJ/Cities-Resources/internal/shared/gameconfig/building"
	"github.com/ooaoJ/Cities-Resources/internal/world/terrain"
	"github.com/ooaoJ/Cities-Resources/modules/kit/logx"
)

// Economy 是每回合收入系数。
type Economy struct {
	FoodPerPopulation  float64
	MoneyPerProduction float64
}

// WorldService 承载世界的全部规则。自身无状态，可被多个世界共享；
// 对同一个 *entity.World 的调用必须串行。
type WorldService struct {
	game    config.GameConfig
	catalog *building.Catalog
	log     logx.Logger
}

func New(game config.GameConfig, catalog *building.Catalog, log logx.Logger) *WorldService {
	if catalog == nil {
		catalog = building.Default()
	}
	if log == nil {
		log = logx.Nop()
	}
	return &WorldService{game: game, catalog: catalog, log: log}
}

// NewDefault 使用缺省配置与内置建筑表。
func NewDefault() *WorldService {
	return New(config.Default().Game, nil, nil)
}

func (s *WorldService) Catalog() *building.Catalog {
	return s.catalog
}

func (s *WorldService) Economy() Economy {
	return Economy{
		FoodPerPopulation:  s.game.Economy.FoodPerPopulation,
		MoneyPerProduction: s.game.Economy.MoneyPerProduction,
	}
}

// Params 把配置翻译成生成参数，宽高为 0 时取配置值。
func (s *WorldService) Params(width, height int, seed uint32) terrain.Params {
	g := s.game
	if width <= 0 {
		width = g.Width
	}
	if height <= 0 {
		height = g.Height
	}
	return terrain.Params{
		Width:  width,
		Height: height,
		Seed:   seed,
		Heightmap: terrain.HeightmapParams{
			Octaves:     g.Noise.Octaves,
			Persistence: g.Noise.Persistence,
			Scale:       g.Noise.Scale,
			Falloff:     g.Noise.Falloff,
		},
		Rivers: terrain.RiverParams{
			AreaPerRiver:   g.Rivers.AreaPerRiver,
			SourceAttempts: g.Rivers.SourceAttempts,
			MaxSteps:       g.Rivers.MaxSteps,
			SourceMin:      g.Rivers.SourceMin,
			MouthMax:       g.Rivers.MouthMax,
		},
		Thresholds: terrain.Thresholds{
			RiverMin: g.Biome.RiverMin,
			Ocean:    g.Biome.Ocean,
			Sand:     g.Biome.Sand,
			Grass:    g.Biome.Grass,
			Forest:   g.Biome.Forest,
		},
	}
}

// PickSeed 配置了 seed 用配置值，否则随机。
func (s *WorldService) PickSeed() uint32 {
	if s.game.Seed != 0 {
		return uint32(s.game.Seed)
	}
	return rand.Uint32()
}
