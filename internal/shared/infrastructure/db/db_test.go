package db

import (
	"testing"

	"github.com/ooaoJ/Cities-Resources/internal/shared/config"
)

func TestDSN_缺省字符集(t *testing.T) {
	got := DSN(config.MySQLConfig{Host: "127.0.0.1", Port: 3306, User: "root", Password: "pw", DBName: "cities"})
	want := "root:pw@tcp(127.0.0.1:3306)/cities?charset=utf8mb4&parseTime=True&loc=Local"
	if got != want {
		t.Fatalf("DSN 不符合预期\nwant=%s\ngot=%s", want, got)
	}
}
