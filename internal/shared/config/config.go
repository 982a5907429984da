package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
)

const defaultConfigRelPath = "configs/conf.yml"

var current atomic.Pointer[Config]

// Conf 返回当前生效的配置；热更新时整体替换，读方拿到的是不可变副本。
func Conf() *Config {
	if c := current.Load(); c != nil {
		return c
	}
	d := Default()
	return &d
}

// Load 加载配置：cfgName 非空时优先使用（相对路径基于当前目录），
// 否则从当前目录向上查找 configs/conf.yml。失败直接 panic，仅供进程启动使用。
func Load(cfgName string) *Config {
	path, err := Resolve(cfgName)
	if err != nil {
		panic(err)
	}
	c, err := LoadFile(path, true)
	if err != nil {
		panic(err)
	}
	return c
}

// Resolve 把 cfgName 解析为实际配置文件路径。
func Resolve(cfgName string) (string, error) {
	curDir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if cfgName != "" {
		if filepath.IsAbs(cfgName) {
			return cfgName, nil
		}
		return filepath.Join(curDir, cfgName), nil
	}
	return findConfigUpward(curDir)
}

func findConfigUpward(startDir string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, defaultConfigRelPath)
		if fileExist(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", &NotFoundError{StartDir: startDir}
		}
		dir = parent
	}
}

type NotFoundError struct {
	StartDir string
}

func (e *NotFoundError) Error() string {
	return "config file not exist, searched " + defaultConfigRelPath + " from: " + e.StartDir
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
