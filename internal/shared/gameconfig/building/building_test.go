package building

import "testing"

func TestDefault_内置造价(t *testing.T) {
	c := Default()
	want := map[string][2]int{
		"farm": {200, 1}, "factory": {500, 3}, "market": {300, 2},
		"lumber": {250, 2}, "hunting": {150, 1}, "mine": {400, 3},
		"mill": {180, 1}, "well": {120, 1}, "house": {100, 1},
	}
	for typ, cw := range want {
		e, ok := c.Get(typ)
		if !ok || e.Cost != cw[0] || e.Turns != cw[1] {
			t.Fatalf("%s 期望 cost=%d turns=%d，got=%+v ok=%v", typ, cw[0], cw[1], e, ok)
		}
	}
}

func TestMenu_未知地形回退草地(t *testing.T) {
	c := Default()
	got := c.Menu("lava")
	if len(got) != 3 || got[0].Type != "farm" {
		t.Fatalf("期望回退到 grass 菜单，got=%+v", got)
	}
	if river := c.Menu("river"); len(river) != 2 || river[0].Type != "mill" {
		t.Fatalf("river 菜单错误 %+v", river)
	}
}

func TestParse_非法配置(t *testing.T) {
	bad := []string{
		"buildings:\n  - type: farm\n    cost: 1\n    turns: 0\n",
		"buildings:\n  - type: farm\n    cost: 1\n    turns: 1\n  - type: farm\n    cost: 2\n    turns: 1\n",
		"buildings:\n  - type: farm\n    cost: 1\n    turns: 1\nmenus:\n  grass: [castle]\n",
		"buildings: [",
	}
	for _, raw := range bad {
		if _, err := Parse([]byte(raw)); err == nil {
			t.Fatalf("期望解析失败:\n%s", raw)
		}
	}
}
