package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ooaoJ/Cities-Resources/internal/world/app/port"
	"github.com/ooaoJ/Cities-Resources/internal/world/entity"
)

func TestWorldRepository_按版本覆盖(t *testing.T) {
	ctx := context.Background()
	r, err := Open(filepath.Join(t.TempDir(), "world.db"))
	if err != nil {
		t.Fatalf("Open err=%v", err)
	}
	t.Cleanup(func() { _ = r.Close() })

	if _, err := r.LoadWorld(ctx, 5); !errors.Is(err, port.ErrWorldNotFound) {
		t.Fatalf("期望 ErrWorldNotFound，got=%v", err)
	}

	for _, s := range []*entity.WorldPersistSnapshot{
		{Version: 1, WorldID: 5, Seed: 9, Turn: 1, Cities: []entity.CitySnapshot{}},
		{Version: 3, WorldID: 5, Seed: 9, Turn: 3, Cities: []entity.CitySnapshot{{Name: "A", X: 1, Y: 1}}},
		{Version: 2, WorldID: 5, Seed: 9, Turn: 2, Cities: []entity.CitySnapshot{}},
	} {
		if err := r.Save(ctx, s); err != nil {
			t.Fatalf("Save v%d err=%v", s.Version, err)
		}
	}

	got, err := r.LoadWorld(ctx, 5)
	if err != nil {
		t.Fatalf("LoadWorld err=%v", err)
	}
	if got.Version != 3 || got.Turn != 3 || len(got.Cities) != 1 {
		t.Fatalf("期望保留 version=3，got=%+v", got)
	}
}
