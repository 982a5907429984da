package config

type Config struct {
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
	HTTPServer  HTTPServerConfig  `yaml:"httpserver" mapstructure:"httpserver"`
	WorldServer WorldServerConfig `yaml:"worldserver" mapstructure:"worldserver"`
	MySQL       MySQLConfig       `yaml:"mysql" mapstructure:"mysql"`
	MongoDB     MongoDBConfig     `yaml:"mongodb" mapstructure:"mongodb"`
	Persistence PersistenceConfig `yaml:"persistence" mapstructure:"persistence"`
	Security    SecurityConfig    `yaml:"security" mapstructure:"security"`
	Game        GameConfig        `yaml:"game" mapstructure:"game"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

type HTTPServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
	// WSPath 为空时不挂载 WebSocket。
	WSPath string `yaml:"ws_path" mapstructure:"ws_path"`
}

// WorldServerConfig 是 gRPC 监听地址。Port 为 0 时不启动。
type WorldServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

// PersistenceConfig.Driver: memory | file | sqlite | mongodb | mysql
type PersistenceConfig struct {
	Driver       string `yaml:"driver" mapstructure:"driver"`
	Path         string `yaml:"path" mapstructure:"path"`
	FlushEveryMs int    `yaml:"flush_every_ms" mapstructure:"flush_every_ms"`
}

type SecurityConfig struct {
	JWTSecret string `yaml:"jwt_secret" mapstructure:"jwt_secret"`
	// RequireAuth 为 true 时写接口需要 Bearer token。
	RequireAuth bool `yaml:"require_auth" mapstructure:"require_auth"`
	NeedSecret  bool `yaml:"need_secret" mapstructure:"need_secret"`
}

type GameConfig struct {
	WorldID      int64         `yaml:"world_id" mapstructure:"world_id"`
	Width        int           `yaml:"width" mapstructure:"width"`
	Height       int           `yaml:"height" mapstructure:"height"`
	Seed         int64         `yaml:"seed" mapstructure:"seed"` // 0 表示随机
	Noise        NoiseConfig   `yaml:"noise" mapstructure:"noise"`
	Rivers       RiverConfig   `yaml:"rivers" mapstructure:"rivers"`
	Biome        BiomeConfig   `yaml:"biome" mapstructure:"biome"`
	Economy      EconomyConfig `yaml:"economy" mapstructure:"economy"`
	Capital      CapitalConfig `yaml:"capital" mapstructure:"capital"`
	CatalogPath  string        `yaml:"catalog_path" mapstructure:"catalog_path"`
	AskTimeoutMs int           `yaml:"ask_timeout_ms" mapstructure:"ask_timeout_ms"`
}

type NoiseConfig struct {
	Octaves     int     `yaml:"octaves" mapstructure:"octaves"`
	Persistence float64 `yaml:"persistence" mapstructure:"persistence"`
	Scale       float64 `yaml:"scale" mapstructure:"scale"`
	Falloff     float64 `yaml:"falloff" mapstructure:"falloff"`
}

type RiverConfig struct {
	AreaPerRiver   int     `yaml:"area_per_river" mapstructure:"area_per_river"`
	SourceAttempts int     `yaml:"source_attempts" mapstructure:"source_attempts"`
	MaxSteps       int     `yaml:"max_steps" mapstructure:"max_steps"`
	SourceMin      float64 `yaml:"source_min" mapstructure:"source_min"`
	MouthMax       float64 `yaml:"mouth_max" mapstructure:"mouth_max"`
}

type BiomeConfig struct {
	RiverMin float64 `yaml:"river_min" mapstructure:"river_min"`
	Ocean    float64 `yaml:"ocean" mapstructure:"ocean"`
	Sand     float64 `yaml:"sand" mapstructure:"sand"`
	Grass    float64 `yaml:"grass" mapstructure:"grass"`
	Forest   float64 `yaml:"forest" mapstructure:"forest"`
}

type EconomyConfig struct {
	FoodPerPopulation  float64 `yaml:"food_per_population" mapstructure:"food_per_population"`
	MoneyPerProduction float64 `yaml:"money_per_production" mapstructure:"money_per_production"`
}

type CapitalConfig struct {
	Name       string  `yaml:"name" mapstructure:"name"`
	Food       float64 `yaml:"food" mapstructure:"food"`
	Production int     `yaml:"production" mapstructure:"production"`
	Population int     `yaml:"population" mapstructure:"population"`
	Money      int     `yaml:"money" mapstructure:"money"`
	Radius     int     `yaml:"radius" mapstructure:"radius"`
}

// Default 是没有配置文件时的取值，与 configs/conf.yml 保持一致。
func Default() Config {
	return Config{
		Log:         LogConfig{Level: "info", MaxSize: 100, MaxBackups: 3, MaxAge: 7},
		HTTPServer:  HTTPServerConfig{Host: "0.0.0.0", Port: 8080, WSPath: "/ws"},
		WorldServer: WorldServerConfig{Host: "0.0.0.0", Port: 9090},
		Persistence: PersistenceConfig{Driver: "memory", FlushEveryMs: 3000},
		Game: GameConfig{
			WorldID: 1,
			Width:   100,
			Height:  100,
			Noise:   NoiseConfig{Octaves: 5, Persistence: 0.5, Scale: 12, Falloff: 0.6},
			Rivers: RiverConfig{
				AreaPerRiver:   600,
				SourceAttempts: 400,
				MaxSteps:       1000,
				SourceMin:      0.7,
				MouthMax:       0.35,
			},
			Biome:        BiomeConfig{RiverMin: 0.25, Ocean: 0.30, Sand: 0.33, Grass: 0.60, Forest: 0.75},
			Economy:      EconomyConfig{FoodPerPopulation: 0.6, MoneyPerProduction: 0.4},
			Capital:      CapitalConfig{Name: "Capital", Food: 10, Population: 30, Money: 1000, Radius: 2},
			AskTimeoutMs: 3000,
		},
	}
}
