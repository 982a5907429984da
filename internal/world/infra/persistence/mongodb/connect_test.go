package mongodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ooaoJ/Cities-Resources/internal/shared/config"
)

func TestConnect_空URI直接报错(t *testing.T) {
	_, closer, err := Connect(context.Background(), config.MongoDBConfig{Database: "x"}, nil)
	if !errors.Is(err, ErrEmptyURI) || closer != nil {
		t.Fatalf("期望 ErrEmptyURI，got=%v", err)
	}
}

func TestConnect_缺省超时与库名(t *testing.T) {
	if got := connectTimeout(config.MongoDBConfig{}); got != 3*time.Second {
		t.Fatalf("缺省超时应为 3s，got=%v", got)
	}
	if got := connectTimeout(config.MongoDBConfig{ConnectTimeoutS: 5}); got != 5*time.Second {
		t.Fatalf("超时应取配置，got=%v", got)
	}
	if got := databaseName(config.MongoDBConfig{}); got != "cities" {
		t.Fatalf("缺省库名应为 cities，got=%q", got)
	}
	if got := databaseName(config.MongoDBConfig{Database: "w"}); got != "w" {
		t.Fatalf("库名应取配置，got=%q", got)
	}
}
