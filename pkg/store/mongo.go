package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/io"
)

// Default MongoDB names.
const (
	DefaultMongoDatabase   = "kintree"
	DefaultMongoCollection = "datasets"
)

// dataset is the stored document. The name is the document id.
type dataset struct {
	Name      string      `bson:"_id"`
	Records   []io.Record `bson:"records"`
	Count     int         `bson:"count"`
	UpdatedAt time.Time   `bson:"updated_at"`
}

// MongoStore keeps each dataset as one document.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and pings the primary. Empty database or
// collection names fall back to the defaults.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if database == "" {
		database = DefaultMongoDatabase
	}
	if collection == "" {
		collection = DefaultMongoCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongodb")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

func (s *MongoStore) Save(ctx context.Context, name string, recs []io.Record) error {
	if err := errors.ValidateDatasetName(name); err != nil {
		return err
	}
	if recs == nil {
		recs = []io.Record{}
	}
	doc := dataset{
		Name:      name,
		Records:   recs,
		Count:     len(recs),
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": name}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save %s", name)
	}
	return nil
}

func (s *MongoStore) Load(ctx context.Context, name string) ([]io.Record, error) {
	if err := errors.ValidateDatasetName(name); err != nil {
		return nil, err
	}
	var doc dataset
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodeNotFound, "dataset %q not found", name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "load %s", name)
	}

	for i, rec := range doc.Records {
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("load %s: record %d: %w", name, i, err)
		}
	}
	return doc.Records, nil
}

func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	ids, err := s.coll.Distinct(ctx, "_id", bson.D{})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list datasets")
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := id.(string); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateDatasetName(name); err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete %s", name)
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeNotFound, "dataset %q not found", name)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
