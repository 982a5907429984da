package config

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	hooksMu sync.Mutex
	hooks   []func(*Config)
)

// LoadFile 读取 configPath 并设为当前配置；watch 为 true 时监听文件变更热更新。
func LoadFile(configPath string, watch bool) (*Config, error) {
	return LoadFileWithFlags(configPath, watch, nil)
}

// LoadFileWithFlags 同 LoadFile，并把命令行 flag 绑定进 viper（flag 名与配置 key 相同，显式设置的 flag 优先）。
func LoadFileWithFlags(configPath string, watch bool, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	applyDefaults(v)
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if configPath != "" {
		if !fileExist(configPath) {
			return nil, fmt.Errorf("config file not exist, configPath=%v", configPath)
		}
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	c, err := decode(v)
	if err != nil {
		return nil, err
	}
	current.Store(c)

	if watch && configPath != "" {
		v.OnConfigChange(func(e fsnotify.Event) {
			next, err := decode(v)
			if err != nil {
				// 变更内容非法时保留旧配置
				log.Printf("config reload failed, keep previous: file=%s err=%v", e.Name, err)
				return
			}
			current.Store(next)
			log.Printf("config reloaded: %s", e.Name)
			notify(next)
		})
		v.WatchConfig()
	}
	return c, nil
}

// OnChange 注册热更新回调，回调在 fsnotify 的 goroutine 中执行。
func OnChange(fn func(*Config)) {
	hooksMu.Lock()
	hooks = append(hooks, fn)
	hooksMu.Unlock()
}

func notify(c *Config) {
	hooksMu.Lock()
	fns := append([]func(*Config){}, hooks...)
	hooksMu.Unlock()
	for _, fn := range fns {
		fn(c)
	}
}

func decode(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("viper unmarshal config: %w", err)
	}
	// 环境变量优先；未设置时回填配置中的 jwt_secret，兼容本地开发。
	if env := os.Getenv("JWT_SECRET"); env != "" {
		c.Security.JWTSecret = env
	}
	return &c, nil
}

func applyDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.max_size", d.Log.MaxSize)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age", d.Log.MaxAge)

	v.SetDefault("httpserver.host", d.HTTPServer.Host)
	v.SetDefault("httpserver.port", d.HTTPServer.Port)
	v.SetDefault("httpserver.ws_path", d.HTTPServer.WSPath)
	v.SetDefault("worldserver.host", d.WorldServer.Host)
	v.SetDefault("worldserver.port", d.WorldServer.Port)

	v.SetDefault("persistence.driver", d.Persistence.Driver)
	v.SetDefault("persistence.flush_every_ms", d.Persistence.FlushEveryMs)

	g := d.Game
	v.SetDefault("game.world_id", g.WorldID)
	v.SetDefault("game.width", g.Width)
	v.SetDefault("game.height", g.Height)
	v.SetDefault("game.seed", g.Seed)
	v.SetDefault("game.noise.octaves", g.Noise.Octaves)
	v.SetDefault("game.noise.persistence", g.Noise.Persistence)
	v.SetDefault("game.noise.scale", g.Noise.Scale)
	v.SetDefault("game.noise.falloff", g.Noise.Falloff)
	v.SetDefault("game.rivers.area_per_river", g.Rivers.AreaPerRiver)
	v.SetDefault("game.rivers.source_attempts", g.Rivers.SourceAttempts)
	v.SetDefault("game.rivers.max_steps", g.Rivers.MaxSteps)
	v.SetDefault("game.rivers.source_min", g.Rivers.SourceMin)
	v.SetDefault("game.rivers.mouth_max", g.Rivers.MouthMax)
	v.SetDefault("game.biome.river_min", g.Biome.RiverMin)
	v.SetDefault("game.biome.ocean", g.Biome.Ocean)
	v.SetDefault("game.biome.sand", g.Biome.Sand)
	v.SetDefault("game.biome.grass", g.Biome.Grass)
	v.SetDefault("game.biome.forest", g.Biome.Forest)
	v.SetDefault("game.economy.food_per_population", g.Economy.FoodPerPopulation)
	v.SetDefault("game.economy.money_per_production", g.Economy.MoneyPerProduction)
	v.SetDefault("game.capital.name", g.Capital.Name)
	v.SetDefault("game.capital.food", g.Capital.Food)
	v.SetDefault("game.capital.production", g.Capital.Production)
	v.SetDefault("game.capital.population", g.Capital.Population)
	v.SetDefault("game.capital.money", g.Capital.Money)
	v.SetDefault("game.capital.radius", g.Capital.Radius)
	v.SetDefault("game.ask_timeout_ms", g.AskTimeoutMs)
}
