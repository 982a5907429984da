package building

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed building.yml
var defaultYAML []byte

// Entry 是一种建筑的造价与工期。
type Entry struct {
	Type  string `yaml:"type"`
	Name  string `yaml:"name"`
	Cost  int    `yaml:"cost"`
	Turns int    `yaml:"turns"`
}

type Catalog struct {
	Title     string              `yaml:"title"`
	Buildings []Entry             `yaml:"buildings"`
	Menus     map[string][]string `yaml:"menus"`

	byType map[string]Entry
}

// Default 读取内置配置，内置文件非法属于编译期错误。
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Errorf("embedded building catalog: %w", err))
	}
	return c
}

// Load 从文件加载；path 为空时返回内置配置。
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse building catalog: %w", err)
	}
	c.byType = make(map[string]Entry, len(c.Buildings))
	for _, e := range c.Buildings {
		if e.Type == "" {
			return nil, fmt.Errorf("building entry without type: %+v", e)
		}
		if e.Cost < 0 || e.Turns < 1 {
			return nil, fmt.Errorf("building %s: cost must be >= 0 and turns >= 1", e.Type)
		}
		if _, dup := c.byType[e.Type]; dup {
			return nil, fmt.Errorf("duplicate building entry %s", e.Type)
		}
		c.byType[e.Type] = e
	}
	for terrain, types := range c.Menus {
		for _, t := range types {
			if _, ok := c.byType[t]; !ok {
				return nil, fmt.Errorf("menu %s references unknown building %s", terrain, t)
			}
		}
	}
	return &c, nil
}

func (c *Catalog) Get(buildingType string) (Entry, bool) {
	e, ok := c.byType[buildingType]
	return e, ok
}

// Menu 返回地形对应的菜单，缺省回退到 grass。
func (c *Catalog) Menu(terrain string) []Entry {
	types, ok := c.Menus[terrain]
	if !ok {
		types = c.Menus["grass"]
	}
	out := make([]Entry, 0, len(types))
	for _, t := range types {
		out = append(out, c.byType[t])
	}
	return out
}
