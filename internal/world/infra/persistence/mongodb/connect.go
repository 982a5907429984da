package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"github.com/ooaoJ/Cities-Resources/internal/shared/config"
)

const (
	defaultConnectTimeout = 3 * time.Second
	defaultDatabase       = "cities"
)

var ErrEmptyURI = errors.New("mongodb uri is empty")

// Connect 建连并 ping，成功后返回世界仓储与断开函数；ping 不通时立即断开。
func Connect(ctx context.Context, cfg config.MongoDBConfig, l *zap.Logger) (*WorldRepository, func() error, error) {
	if cfg.URI == "" {
		return nil, nil, ErrEmptyURI
	}
	if l == nil {
		l = zap.NewNop()
	}
	timeout := connectTimeout(cfg)

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI).SetConnectTimeout(timeout))
	if err != nil {
		return nil, nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	db := databaseName(cfg)
	l.Info("mongodb world store ready",
		zap.String("database", db),
		zap.String("collection", defaultCollectionName),
		zap.Duration("timeout", timeout),
	)
	disconnect := func() error {
		dctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return client.Disconnect(dctx)
	}
	return NewWorldRepository(client.Database(db)), disconnect, nil
}

func connectTimeout(cfg config.MongoDBConfig) time.Duration {
	if cfg.ConnectTimeoutS <= 0 {
		return defaultConnectTimeout
	}
	return time.Duration(cfg.ConnectTimeoutS) * time.Second
}

func databaseName(cfg config.MongoDBConfig) string {
	if cfg.Database == "" {
		return defaultDatabase
	}
	return cfg.Database
}
