package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/ooaoJ/Cities-Resources/internal/world/app/port"
	"github.com/ooaoJ/Cities-Resources/internal/world/entity"
	"github.com/ooaoJ/Cities-Resources/internal/world/infra/persistence/model"
	"github.com/ooaoJ/Cities-Resources/modules/kit/errx"
)

// WorldRepository 每个世界一个 world-<id>.json.zst 文件，先写临时文件再改名。
type WorldRepository struct {
	dir string
}

func NewWorldRepository(dir string) (*WorldRepository, error) {
	if dir == "" {
		return nil, errors.New("empty snapshot dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &WorldRepository{dir: dir}, nil
}

func (r *WorldRepository) Path(id entity.WorldID) string {
	return filepath.Join(r.dir, fmt.Sprintf("world-%d.json.zst", id))
}

func (r *WorldRepository) LoadWorld(ctx context.Context, id entity.WorldID) (*entity.WorldPersistSnapshot, error) {
	_ = ctx
	s, err := ReadSnapshot(r.Path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, port.ErrWorldNotFound.WithData("world_id", id)
	}
	return s, err
}

func (r *WorldRepository) Save(ctx context.Context, s *entity.WorldPersistSnapshot) error {
	_ = ctx
	if s == nil {
		return nil
	}
	if prev, err := ReadSnapshot(r.Path(s.WorldID)); err == nil && prev.Version > s.Version {
		return nil
	}
	return WriteSnapshot(r.Path(s.WorldID), s)
}

// WriteSnapshot 把快照以 zstd 压缩的 json 写到 path。
func WriteSnapshot(path string, s *entity.WorldPersistSnapshot) error {
	raw, err := model.EncodeSnapshot(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errx.Wrap(errx.CodeUnavailable, "mkdir snapshot dir", err)
	}
	tmp := path + ".tmp"
	if err := writeZstd(tmp, raw); err != nil {
		_ = os.Remove(tmp)
		return errx.Wrap(errx.CodeUnavailable, "write snapshot", err).WithData("path", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errx.Wrap(errx.CodeUnavailable, "rename snapshot", err).WithData("path", path)
	}
	return nil
}

func writeZstd(path string, raw []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		_ = f.Close()
		return err
	}
	bw := bufio.NewWriterSize(enc, 64*1024)
	if _, err := bw.Write(raw); err != nil {
		_ = enc.Close()
		_ = f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		_ = f.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ReadSnapshot 读取并校验 WriteSnapshot 写出的文件。文件不存在时返回的错误满足 os.ErrNotExist。
func ReadSnapshot(path string) (*entity.WorldPersistSnapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, model.ErrSnapshotCorrupt.WithCause(err)
	}
	defer dec.Close()

	raw, err := io.ReadAll(bufio.NewReaderSize(dec, 64*1024))
	if err != nil {
		return nil, model.ErrSnapshotCorrupt.WithCause(err).WithData("path", path)
	}
	return model.DecodeSnapshot(raw)
}
