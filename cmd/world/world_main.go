package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/ooaoJ/Cities-Resources/internal/shared/config"
	"github.com/ooaoJ/Cities-Resources/internal/shared/gameconfig/building"
	"github.com/ooaoJ/Cities-Resources/internal/shared/logs"
	transportgrpc "github.com/ooaoJ/Cities-Resources/internal/shared/transport/grpc"
	transporthttp "github.com/ooaoJ/Cities-Resources/internal/shared/transport/http"
	ws "github.com/ooaoJ/Cities-Resources/internal/shared/transport/ws"
	"github.com/ooaoJ/Cities-Resources/internal/world/actor"
	"github.com/ooaoJ/Cities-Resources/internal/world/infra/persistence"
	"github.com/ooaoJ/Cities-Resources/internal/world/interfaces"
	"github.com/ooaoJ/Cities-Resources/internal/world/service"
)

func main() {
	cfgName := pflag.StringP("config", "c", "", "配置文件路径，缺省向上查找 configs/conf.yml")
	pflag.Parse()

	cfg := config.Load(*cfgName)
	if err := logs.Init("world", cfg.Log); err != nil {
		panic(err)
	}
	defer logs.Sync()
	logs.Info("conf", zap.Any("conf", cfg))
	config.OnChange(func(c *config.Config) {
		logs.SetLevel(c.Log.Level)
		logs.Info("log level reloaded", zap.String("level", c.Log.Level))
	})

	catalog := building.Default()
	if cfg.Game.CatalogPath != "" {
		c, err := building.Load(cfg.Game.CatalogPath)
		if err != nil {
			logs.Fatal("load building catalog failed", zap.String("path", cfg.Game.CatalogPath), zap.Error(err))
		}
		catalog = c
	}
	svc := service.New(cfg.Game, catalog, logs.Logx())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := persistence.Open(ctx, cfg)
	if err != nil {
		logs.Fatal("open persistence failed", zap.String("driver", cfg.Persistence.Driver), zap.Error(err))
	}

	// 开启鉴权后匿名读不能顺手生成世界
	runtime := actor.NewRuntime(repo, svc, logs.Logx(), actor.Options{
		AskTimeout:     time.Duration(cfg.Game.AskTimeoutMs) * time.Millisecond,
		FlushEvery:     time.Duration(cfg.Persistence.FlushEveryMs) * time.Millisecond,
		ExplicitCreate: cfg.Security.RequireAuth,
	})

	// 默认世界提前加载，首个请求不用等生成
	if res, err := runtime.Create(ctx, cfg.Game.WorldID); err != nil {
		logs.Error("preload world failed", zap.Int64("world", cfg.Game.WorldID), zap.Error(err))
	} else {
		logs.Info("world ready", zap.Int64("world", cfg.Game.WorldID), zap.Int("turn", res.Turn), zap.Int("cities", len(res.Cities)))
	}

	module := interfaces.New(runtime, logs.Logx(), cfg.Game.WorldID, cfg.Security.RequireAuth)
	errCh := make(chan error, 2)

	gin.SetMode(gin.ReleaseMode)
	httpAddr := fmt.Sprintf("%s:%d", hostOr(cfg.HTTPServer.Host), cfg.HTTPServer.Port)
	httpServer := transporthttp.NewHttpServer(httpAddr, gin.New(), logs.Logx())
	module.RegisterHTTP(httpServer.Group())
	if cfg.HTTPServer.WSPath != "" {
		router := ws.NewRouter(logs.Logx())
		module.RegisterWS(router)
		wsServer := ws.NewServer(router, logs.Logx(), ws.Options{NeedSecret: cfg.Security.NeedSecret})
		httpServer.Engine().GET(cfg.HTTPServer.WSPath, gin.WrapH(wsServer))
	}
	go func() {
		logs.Info("world http server started", zap.String("addr", httpAddr), zap.String("ws", cfg.HTTPServer.WSPath))
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("world http serve failed: %w", err)
		}
	}()

	var grpcServer *transportgrpc.Server
	var lis net.Listener
	if cfg.WorldServer.Port > 0 {
		grpcAddr := fmt.Sprintf("%s:%d", hostOr(cfg.WorldServer.Host), cfg.WorldServer.Port)
		lis, err = net.Listen("tcp", grpcAddr)
		if err != nil {
			logs.Fatal("listen world grpc failed", zap.Error(err))
		}
		grpcServer = transportgrpc.NewServer()
		module.RegisterGRPC(grpcServer)
		go func() {
			logs.Info("world grpc server started", zap.String("addr", grpcAddr))
			if err := grpcServer.Serve(lis); err != nil {
				errCh <- fmt.Errorf("world grpc serve failed: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		if err != nil {
			logs.Error("服务异常退出", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logs.Error("http shutdown failed", zap.Error(err))
	}

	if grpcServer != nil {
		stopCh := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopCh)
		}()
		select {
		case <-stopCh:
		case <-time.After(10 * time.Second):
			grpcServer.Stop()
		}
		_ = lis.Close()
	}

	// 停 actor 时各世界会最后落盘一次，之后才能关存储
	runtime.Shutdown()
	if err := closeRepo(); err != nil {
		logs.Error("close persistence failed", zap.Error(err))
	}
}

func hostOr(host string) string {
	if host == "" {
		return "0.0.0.0"
	}
	return host
}
