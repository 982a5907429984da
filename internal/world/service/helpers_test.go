package service

import (
	"testing"

	"github.com/ooaoJ/Cities-Resources/internal/world/entity"
	"github.com/ooaoJ/Cities-Resources/internal/world/terrain"
)

var glyphCodes = map[byte]terrain.Code{
	'g': terrain.Grass,
	'f': terrain.Forest,
	'm': terrain.Mountain,
	'o': terrain.Ocean,
	'r': terrain.River,
	's': terrain.Sand,
}

// worldFromRows 用字符画构造地形：g 草 f 林 m 山 o 海 r 河 s 沙。
func worldFromRows(t *testing.T, rows ...string) *entity.World {
	t.Helper()
	codes := make([][]terrain.Code, len(rows))
	for y, row := range rows {
		codes[y] = make([]terrain.Code, len(row))
		for x := 0; x < len(row); x++ {
			c, ok := glyphCodes[row[x]]
			if !ok {
				t.Fatalf("未知地形字符 %q", row[x])
			}
			codes[y][x] = c
		}
	}
	g := terrain.GridFromRows(codes)
	return entity.NewWorld(1, &terrain.Map{
		Seed:      1,
		Elevation: terrain.NewGrid[float64](g.Width(), g.Height()),
		Rivers:    terrain.NewGrid[bool](g.Width(), g.Height()),
		Terrain:   g,
	})
}

func grassRows(w, h int) []string {
	row := make([]byte, w)
	for i := range row {
		row[i] = 'g'
	}
	out := make([]string, h)
	for i := range out {
		out[i] = string(row)
	}
	return out
}

func mustReason(t *testing.T, err error, want Reason) {
	t.Helper()
	if err == nil {
		t.Fatalf("期望拒绝 %s，got=nil", want.Code)
	}
	if !IsRejected(err) {
		t.Fatalf("期望业务拒绝，got=%v", err)
	}
	if got := ReasonOf(err); got != want.Code {
		t.Fatalf("期望 reason=%s，got=%s (err=%v)", want.Code, got, err)
	}
}
