package model

import (
	_ "embed"
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ooaoJ/Cities-Resources/internal/world/entity"
	"github.com/ooaoJ/Cities-Resources/modules/kit/errx"
)

const CodeSnapshotCorrupt errx.Code = "SNAPSHOT_CORRUPT"

// ErrSnapshotCorrupt 字节内容不是合法存档。
var ErrSnapshotCorrupt = errx.NewSys(CodeSnapshotCorrupt, "存档损坏")

//go:embed world_snapshot.schema.json
var snapshotSchemaJSON string

var snapshotSchema = jsonschema.MustCompileString("world_snapshot.schema.json", snapshotSchemaJSON)

func EncodeSnapshot(s *entity.WorldPersistSnapshot) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, errx.Wrap(errx.CodeInternal, "encode snapshot", err)
	}
	return raw, nil
}

// DecodeSnapshot 先按 schema 校验再解码，任何一步失败都返回 ErrSnapshotCorrupt。
func DecodeSnapshot(raw []byte) (*entity.WorldPersistSnapshot, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, ErrSnapshotCorrupt.WithCause(err)
	}
	if err := snapshotSchema.Validate(doc); err != nil {
		return nil, ErrSnapshotCorrupt.WithCause(err)
	}
	var s entity.WorldPersistSnapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, ErrSnapshotCorrupt.WithCause(err)
	}
	return &s, nil
}
