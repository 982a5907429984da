package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/ooaoJ/Cities-Resources/internal/shared/config"
	"github.com/ooaoJ/Cities-Resources/internal/shared/logs"
	"github.com/ooaoJ/Cities-Resources/internal/world/entity"
	"github.com/ooaoJ/Cities-Resources/internal/world/infra/persistence/file"
	"github.com/ooaoJ/Cities-Resources/internal/world/service"
	"github.com/ooaoJ/Cities-Resources/internal/world/terrain"
)

// mapgen 离线生成一张地图并以字符画输出，可选写出存档。
//
//	mapgen --game.width 60 --game.height 30 --game.seed 42 --out data/w1.json.zst
func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	flags := pflag.NewFlagSet("mapgen", pflag.ContinueOnError)
	cfgName := flags.StringP("config", "c", "", "配置文件路径，缺省只用内置默认值")
	out := flags.StringP("out", "o", "", "把生成的世界写成存档（zstd 压缩的 json）")
	bare := flags.Bool("bare", false, "只生成地形，不放首都")
	flags.Int("game.width", config.Default().Game.Width, "地图宽")
	flags.Int("game.height", config.Default().Game.Height, "地图高")
	flags.Int64("game.seed", 0, "随机种子，0 表示随机")
	flags.Int64("game.world_id", config.Default().Game.WorldID, "存档中的世界 id")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfgPath := ""
	if *cfgName != "" {
		p, err := config.Resolve(*cfgName)
		if err != nil {
			return err
		}
		cfgPath = p
	}
	cfg, err := config.LoadFileWithFlags(cfgPath, false, flags)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logs.Init("mapgen", cfg.Log); err != nil {
		return err
	}
	defer logs.Sync()

	svc := service.New(cfg.Game, nil, logs.Logx())
	seed := svc.PickSeed()

	var w *entity.World
	if *bare {
		m, err := svc.GenerateMap(0, 0, seed)
		if err != nil {
			return err
		}
		w = entity.NewWorld(entity.WorldID(cfg.Game.WorldID), m)
	} else {
		w, err = svc.NewWorld(entity.WorldID(cfg.Game.WorldID), seed)
		if err != nil {
			return err
		}
	}
	logs.Info("map generated", zap.Uint32("seed", seed), zap.Int("width", w.Width()), zap.Int("height", w.Height()))

	fmt.Fprintf(stdout, "seed=%d size=%dx%d\n", seed, w.Width(), w.Height())
	for _, row := range service.RenderRows(w) {
		fmt.Fprintln(stdout, row)
	}
	writeHistogram(stdout, w.Map().Histogram(), w.Width()*w.Height())

	if *out != "" {
		if err := file.WriteSnapshot(*out, w.Snapshot(1)); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "snapshot written: %s\n", *out)
	}
	return nil
}

func writeHistogram(wr io.Writer, hist map[terrain.Code]int, total int) {
	codes := make([]terrain.Code, 0, len(hist))
	for c := range hist {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	for _, c := range codes {
		n := hist[c]
		fmt.Fprintf(wr, "%c %-8s %6d %5.1f%%\n", c.Glyph(), c, n, 100*float64(n)/float64(total))
	}
}
