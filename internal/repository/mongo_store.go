package repository

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const countersCollection = "counters"

// MongoStore owns the client and hands out the per-collection repositories.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// OpenMongo connects, pings and makes sure the indexes exist.
func OpenMongo(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetRegistry(newRegistry()))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	s := &MongoStore{client: client, db: client.Database(dbName)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) Orders() *MongoOrderRepository { return NewMongoOrderRepository(s.db) }
func (s *MongoStore) Users() *MongoUserRepository   { return NewMongoUserRepository(s.db) }
func (s *MongoStore) Roles() *MongoRoleRepository   { return NewMongoRoleRepository(s.db) }
func (s *MongoStore) Catalog() *MongoCatalogRepository {
	return NewMongoCatalogRepository(s.db)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{Keys: bson.D{{Key: field, Value: 1}}, Options: options.Index().SetUnique(true)}
	}
	plain := func(field string, dir int) mongo.IndexModel {
		return mongo.IndexModel{Keys: bson.D{{Key: field, Value: dir}}}
	}

	indexes := map[string][]mongo.IndexModel{
		ordersCollection: {
			unique("order_number"),
			plain("status", 1),
			plain("user_id", 1),
			plain("created_at", -1),
		},
		usersCollection:      {unique("email"), plain("role", 1)},
		rolesCollection:      {unique("name")},
		categoriesCollection: {unique("slug")},
		productsCollection:   {unique("slug"), plain("category_id", 1)},
	}
	for col, models := range indexes {
		if _, err := s.db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

// nextSequence hands out numeric ids from the counters collection.
func nextSequence(ctx context.Context, db *mongo.Database, name string) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := db.Collection(countersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Seq, nil
}

// containsRegex matches s anywhere, case-insensitively, with regex metacharacters
// taken literally.
func containsRegex(s string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
}

func mongoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	}
	return err
}

func findOptions(sort bson.D, offset, limit int) *options.FindOptions {
	opts := options.Find().SetSort(sort)
	if limit > 0 {
		opts.SetSkip(int64(offset)).SetLimit(int64(limit))
	}
	return opts
}
