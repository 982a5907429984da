package service

import (
	"github.com/ooaoJ/Cities-Resources/modules/kit/errx"
)

const (
	// CodeRejected 表示操作被规则拒绝，具体原因见 reason。
	CodeRejected errx.Code = "BUILD_REJECTED"
	// CodeGenerationFailure 地图上找不到任何陆地，属于配置错误。
	CodeGenerationFailure errx.Code = "GENERATION_FAILURE"
)

// Reason 是服务内的拒绝原因枚举。
type Reason struct {
	Code    string
	Message string
}

func (r Reason) ReasonCode() string {
	return r.Code
}

func NewReason(c, m string) Reason {
	return Reason{Code: c, Message: m}
}

var (
	ReasonCityNotFound      = NewReason("CITY_NOT_FOUND", "城市不存在")
	ReasonUnknownType       = NewReason("UNKNOWN_BUILDING_TYPE", "未知建筑类型")
	ReasonOutOfBounds       = NewReason("OUT_OF_BOUNDS", "坐标超出地图")
	ReasonTileHasCity       = NewReason("TILE_HAS_CITY", "该格有城市")
	ReasonOutsideTerritory  = NewReason("OUTSIDE_TERRITORY", "不在城市领地内")
	ReasonTileOccupied      = NewReason("TILE_OCCUPIED", "该格已有建筑")
	ReasonTileQueued        = NewReason("TILE_QUEUED", "该格已有建造单")
	ReasonTerrainNotAllowed = NewReason("TERRAIN_NOT_ALLOWED", "地形不允许该建筑")
	ReasonInsufficientMoney = NewReason("INSUFFICIENT_MONEY", "资金不足")
	ReasonInvalidCost       = NewReason("INVALID_COST", "造价非法")
	ReasonNoValidTile       = NewReason("NO_VALID_TILE", "领地内没有可用格子")
	ReasonNotInCatalog      = NewReason("NOT_IN_CATALOG", "建筑未配置造价")
	ReasonSnapshotInvalid   = NewReason("SNAPSHOT_INVALID", "存档内容非法")
)

var (
	ErrRejected         = errx.NewBiz(CodeRejected, "操作被拒绝")
	ErrGenerationFailed = errx.NewSys(CodeGenerationFailure, "地图没有可达陆地")
)

// reject 构造带 reason 的业务拒绝，消息取 reason 的描述。
func reject(r Reason, data map[string]any) *errx.Error {
	return errx.NewBiz(CodeRejected, r.Message).WithReason(r).WithDataMap(data)
}

// IsRejected 判断 err 是否为规则拒绝。
func IsRejected(err error) bool {
	e, ok := errx.From(err)
	return ok && e.Code() == CodeRejected
}

// ReasonOf 取拒绝原因码，非拒绝返回空串。
func ReasonOf(err error) string {
	return errx.ReasonOf(err)
}
