package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/ooaoJ/Cities-Resources/internal/shared/config"
	"github.com/ooaoJ/Cities-Resources/internal/shared/security"
)

// token 用配置里的 jwt_secret（或 JWT_SECRET）签发写接口用的 Bearer token。
//
//	token --player alice --cities 1,2 --ttl 24h
func main() {
	cfgName := pflag.StringP("config", "c", "", "配置文件路径，缺省向上查找 configs/conf.yml")
	player := pflag.String("player", "", "玩家标识")
	cities := pflag.IntSlice("cities", nil, "可操作的城市 id，留空表示全部")
	ttl := pflag.Duration("ttl", 24*time.Hour, "有效期")
	pflag.Parse()

	if *player == "" {
		fmt.Fprintln(os.Stderr, "--player is required")
		os.Exit(2)
	}
	config.Load(*cfgName)
	token, err := security.Award(*player, *cities, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(token)
}
