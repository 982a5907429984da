package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ooaoJ/Cities-Resources/internal/world/app/port"
	"github.com/ooaoJ/Cities-Resources/internal/world/entity"
	"github.com/ooaoJ/Cities-Resources/internal/world/infra/persistence/model"
	"github.com/ooaoJ/Cities-Resources/modules/kit/errx"
)

const defaultCollectionName = "world"

const (
	OpLoadWorld = "repo.world.mongodb.LoadWorld"
	OpSave      = "repo.world.mongodb.Save"
)

type WorldRepository struct {
	coll *mongo.Collection
}

func NewWorldRepository(db *mongo.Database) *WorldRepository {
	return &WorldRepository{
		coll: db.Collection(defaultCollectionName),
	}
}

func (r *WorldRepository) LoadWorld(ctx context.Context, id entity.WorldID) (*entity.WorldPersistSnapshot, error) {
	if r == nil || r.coll == nil {
		return nil, errors.New("mongodb world collection is nil")
	}

	var doc model.WorldDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": int64(id)}).Decode(&doc)
	switch {
	case err == nil:
		return model.SnapshotFromDoc(doc), nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, port.ErrWorldNotFound.WithData("world_id", id)
	default:
		return nil, errx.Wrap(errx.CodeUnavailable, OpLoadWorld, err).WithData("world_id", id)
	}
}

// Save 整文档替换；已存版本更高时过滤条件不命中，upsert 撞主键，视为旧快照丢弃。
func (r *WorldRepository) Save(ctx context.Context, s *entity.WorldPersistSnapshot) error {
	if s == nil {
		return nil
	}
	if r == nil || r.coll == nil {
		return errors.New("mongodb world collection is nil")
	}

	doc := model.DocFromSnapshot(s, time.Now())
	_, err := r.coll.ReplaceOne(
		ctx,
		bson.M{"_id": doc.ID, "version": bson.M{"$lte": doc.Version}},
		doc,
		options.Replace().SetUpsert(true),
	)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	if err != nil {
		return errx.Wrap(errx.CodeUnavailable, OpSave, err).WithData("world_id", s.WorldID)
	}
	return nil
}
