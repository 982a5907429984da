package memory

import (
	"context"
	"sync"

	"github.com/ooaoJ/Cities-Resources/internal/world/app/port"
	"github.com/ooaoJ/Cities-Resources/internal/world/entity"
	"github.com/ooaoJ/Cities-Resources/internal/world/infra/persistence/model"
)

// WorldRepository 把快照编码后存在内存里，读出时重新解码，调用方拿到的是独立拷贝。
type WorldRepository struct {
	mu     sync.Mutex
	worlds map[entity.WorldID]stored
}

type stored struct {
	version uint64
	raw     []byte
}

func NewWorldRepository() *WorldRepository {
	return &WorldRepository{worlds: make(map[entity.WorldID]stored)}
}

func (r *WorldRepository) LoadWorld(ctx context.Context, id entity.WorldID) (*entity.WorldPersistSnapshot, error) {
	_ = ctx
	r.mu.Lock()
	s, ok := r.worlds[id]
	r.mu.Unlock()
	if !ok {
		return nil, port.ErrWorldNotFound.WithData("world_id", id)
	}
	return model.DecodeSnapshot(s.raw)
}

func (r *WorldRepository) Save(ctx context.Context, s *entity.WorldPersistSnapshot) error {
	_ = ctx
	if s == nil {
		return nil
	}
	raw, err := model.EncodeSnapshot(s)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.worlds[s.WorldID]; ok && prev.version > s.Version {
		return nil
	}
	r.worlds[s.WorldID] = stored{version: s.Version, raw: raw}
	return nil
}
