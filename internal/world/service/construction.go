package service

import (
	"math"

	"github.com/ooaoJ/Cities-Resources/internal/world/entity"
)

// EnqueueBuilding 校验并排队：领地、占地、排队冲突、地形、资金；通过后立即扣款。
// turns 取 max(1, floor(turns))。拒绝时不修改状态。
func EnqueueBuilding(w *entity.World, id entity.CityID, x, y int, t entity.BuildingType, cost int, turns float64) (entity.ConstructionOrder, error) {
	if err := checkTile(w, id, x, y, t); err != nil {
		return entity.ConstructionOrder{}, err
	}
	data := map[string]any{"city_id": id, "x": x, "y": y, "type": string(t)}
	p := entity.Point{X: x, Y: y}
	if owner, ok := w.QueuedBy(p); ok {
		data["queued_by"] = owner
		return entity.ConstructionOrder{}, reject(ReasonTileQueued, data)
	}
	if !IsValid(w, x, y, t) {
		return entity.ConstructionOrder{}, reject(ReasonTerrainNotAllowed, data)
	}
	if cost < 0 {
		data["cost"] = cost
		return entity.ConstructionOrder{}, reject(ReasonInvalidCost, data)
	}
	c, _ := w.City(id)
	if money := c.Resources().Money; money < cost {
		data["cost"] = cost
		data["money"] = money
		return entity.ConstructionOrder{}, reject(ReasonInsufficientMoney, data)
	}

	o := entity.ConstructionOrder{
		X:              x,
		Y:              y,
		Type:           t,
		Cost:           cost,
		RemainingTurns: normalizeTurns(turns),
	}
	w.AddMoney(id, -cost)
	w.AddOrder(id, o)
	return o, nil
}

func normalizeTurns(turns float64) int {
	if math.IsNaN(turns) || turns < 1 {
		return 1
	}
	if turns > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Floor(turns))
}

// EnqueueFromCatalog 按建筑表的造价与工期排队。
func (s *WorldService) EnqueueFromCatalog(w *entity.World, id entity.CityID, x, y int, t entity.BuildingType) (entity.ConstructionOrder, error) {
	e, ok := s.catalog.Get(string(t))
	if !ok {
		return entity.ConstructionOrder{}, reject(ReasonNotInCatalog, map[string]any{"type": string(t)})
	}
	return EnqueueBuilding(w, id, x, y, t, e.Cost, float64(e.Turns))
}

// OrderOutcome 是一张到期建造单的结局。
type OrderOutcome struct {
	City     entity.CityID            `json:"cityId"`
	Order    entity.ConstructionOrder `json:"order"`
	Refunded bool                     `json:"refunded"`
	// Reason 仅在退款时有值。
	Reason string `json:"reason,omitempty"`
}

// TickReport 汇总一个回合。
type TickReport struct {
	Turn      int            `json:"turn"`
	Committed []OrderOutcome `json:"committed"`
	Refunded  []OrderOutcome `json:"refunded"`
}

// Tick 推进一回合：按城市 id 顺序先结算收入，再倒序处理队列。
// 每张单剩余回合减一，归零时尝试建造，失败全额退款；两种结局都移出队列。
func (s *WorldService) Tick(w *entity.World) TickReport {
	eco := s.Economy()
	report := TickReport{}
	for _, c := range w.Cities() {
		id := c.ID()
		res := c.Resources()
		w.AddIncome(id, float64(res.Population)*eco.FoodPerPopulation, int(math.Floor(float64(res.Production)*eco.MoneyPerProduction)))

		queue := c.Queue()
		for i := len(queue) - 1; i >= 0; i-- {
			if w.DecrementOrder(id, i) > 0 {
				continue
			}
			o := w.RemoveOrder(id, i)
			if err := PlaceBuilding(w, id, o.X, o.Y, o.Type); err != nil {
				w.AddMoney(id, o.Cost)
				report.Refunded = append(report.Refunded, OrderOutcome{City: id, Order: o, Refunded: true, Reason: ReasonOf(err)})
				continue
			}
			report.Committed = append(report.Committed, OrderOutcome{City: id, Order: o})
		}
	}
	w.AdvanceTurn()
	report.Turn = w.Turn()
	return report
}
