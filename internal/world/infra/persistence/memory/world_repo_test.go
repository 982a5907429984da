package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/ooaoJ/Cities-Resources/internal/world/app/port"
	"github.com/ooaoJ/Cities-Resources/internal/world/entity"
)

func TestWorldRepository_旧版本不覆盖新版本(t *testing.T) {
	ctx := context.Background()
	r := NewWorldRepository()
	if _, err := r.LoadWorld(ctx, 1); !errors.Is(err, port.ErrWorldNotFound) {
		t.Fatalf("期望 ErrWorldNotFound，got=%v", err)
	}

	_ = r.Save(ctx, &entity.WorldPersistSnapshot{Version: 2, WorldID: 1, Turn: 5, Cities: []entity.CitySnapshot{}})
	_ = r.Save(ctx, &entity.WorldPersistSnapshot{Version: 1, WorldID: 1, Turn: 3, Cities: []entity.CitySnapshot{}})

	s, err := r.LoadWorld(ctx, 1)
	if err != nil {
		t.Fatalf("LoadWorld err=%v", err)
	}
	if s.Version != 2 || s.Turn != 5 {
		t.Fatalf("期望保留 version=2，got=%+v", s)
	}
	s.Turn = 99
	again, _ := r.LoadWorld(ctx, 1)
	if again.Turn != 5 {
		t.Fatalf("读出的快照应为独立拷贝")
	}
}
