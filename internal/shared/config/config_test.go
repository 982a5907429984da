package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func writeConf(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "conf.yml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write conf: %v", err)
	}
	return p
}

func TestLoadFile_覆盖与缺省(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	p := writeConf(t, `
game:
  width: 64
  seed: 99
  economy:
    food_per_population: 1.5
persistence:
  driver: sqlite
  path: data/world.db
`)
	c, err := LoadFile(p, false)
	if err != nil {
		t.Fatalf("LoadFile err=%v", err)
	}
	if c.Game.Width != 64 || c.Game.Height != 100 || c.Game.Seed != 99 {
		t.Fatalf("game 尺寸/seed 不符 %+v", c.Game)
	}
	if c.Game.Economy.FoodPerPopulation != 1.5 || c.Game.Economy.MoneyPerProduction != 0.4 {
		t.Fatalf("economy 不符 %+v", c.Game.Economy)
	}
	if c.Game.Capital.Money != 1000 || c.Game.Capital.Radius != 2 {
		t.Fatalf("capital 缺省不符 %+v", c.Game.Capital)
	}
	if c.Persistence.Driver != "sqlite" || c.Persistence.FlushEveryMs != 3000 {
		t.Fatalf("persistence 不符 %+v", c.Persistence)
	}
	if Conf().Game.Width != 64 {
		t.Fatalf("期望 Conf() 返回最新加载的配置")
	}
}

func TestLoadFileWithFlags_flag优先(t *testing.T) {
	p := writeConf(t, "game:\n  width: 64\n")
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("game.width", 0, "")
	if err := fs.Parse([]string{"--game.width=32"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	c, err := LoadFileWithFlags(p, false, fs)
	if err != nil {
		t.Fatalf("LoadFileWithFlags err=%v", err)
	}
	if c.Game.Width != 32 {
		t.Fatalf("期望 flag 覆盖为 32，got=%d", c.Game.Width)
	}
}

func TestLoadFile_环境变量JWT优先(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	p := writeConf(t, "security:\n  jwt_secret: from-file\n")
	c, err := LoadFile(p, false)
	if err != nil {
		t.Fatalf("LoadFile err=%v", err)
	}
	if c.Security.JWTSecret != "from-env" {
		t.Fatalf("期望环境变量优先，got=%q", c.Security.JWTSecret)
	}
}

func TestLoadFile_文件不存在(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yml"), false); err == nil {
		t.Fatalf("期望报错")
	}
}

func TestOnChange_回调收到新配置(t *testing.T) {
	var got *Config
	OnChange(func(c *Config) { got = c })
	next := Default()
	next.Log.Level = "debug"
	notify(&next)
	if got == nil || got.Log.Level != "debug" {
		t.Fatalf("期望回调收到 level=debug，got=%+v", got)
	}
}
