package port

import (
	"context"

	"github.com/ooaoJ/Cities-Resources/internal/world/entity"
	"github.com/ooaoJ/Cities-Resources/modules/kit/errx"
)

// ErrWorldNotFound 存储里没有该世界，调用方应新建。
var ErrWorldNotFound = errx.NewBiz(errx.CodeNotFound, "世界不存在")

// WorldRepository 只存取快照；世界的重建在 service 层完成。
type WorldRepository interface {
	LoadWorld(ctx context.Context, id entity.WorldID) (*entity.WorldPersistSnapshot, error)
	// Save 以 Version 为准，旧版本不得覆盖新版本。
	Save(ctx context.Context, s *entity.WorldPersistSnapshot) error
}
