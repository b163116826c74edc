package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"grocery-admin/internal/dto"
	"grocery-admin/internal/model"
)

const (
	usersCollection = "users"
	rolesCollection = "roles"
)

type MongoUserRepository struct {
	col *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{col: db.Collection(usersCollection)}
}

func (m *MongoUserRepository) Create(ctx context.Context, u *model.User) error {
	id, err := nextSequence(ctx, m.col.Database(), usersCollection)
	if err != nil {
		return err
	}
	u.ID = id
	_, err = m.col.InsertOne(ctx, u)
	return mongoErr(err)
}

func (m *MongoUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return m.findOne(ctx, bson.M{"_id": id})
}

func (m *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.findOne(ctx, bson.M{"email": email})
}

func (m *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var res model.User
	if err := m.col.FindOne(ctx, filter).Decode(&res); err != nil {
		return nil, mongoErr(err)
	}
	return &res, nil
}

func (m *MongoUserRepository) List(ctx context.Context, f dto.UserFilter) ([]*model.User, int64, error) {
	filter := userFilterBSON(f)
	total, err := m.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	sort := bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	cur, err := m.col.Find(ctx, filter, findOptions(sort, f.Offset(), f.PerPage))
	if err != nil {
		return nil, 0, err
	}
	var out []*model.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (m *MongoUserRepository) Count(ctx context.Context, f dto.UserFilter) (int64, error) {
	return m.col.CountDocuments(ctx, userFilterBSON(f))
}

func userFilterBSON(f dto.UserFilter) bson.M {
	q := bson.M{}
	if f.Search != "" {
		rx := containsRegex(f.Search)
		q["$or"] = []bson.M{{"name": rx}, {"email": rx}, {"phone": rx}}
	}
	if f.Role != "" {
		q["role"] = f.Role
	}
	if f.Active != nil {
		q["active"] = *f.Active
	}
	if f.From != nil || f.To != nil {
		rng := bson.M{}
		if f.From != nil {
			rng["$gte"] = *f.From
		}
		if f.To != nil {
			rng["$lte"] = *f.To
		}
		q["created_at"] = rng
	}
	if len(f.IDs) > 0 {
		q["_id"] = bson.M{"$in": f.IDs}
	}
	return q
}

func (m *MongoUserRepository) Update(ctx context.Context, u *model.User) error {
	res, err := m.col.ReplaceOne(ctx, bson.M{"_id": u.ID}, u)
	if err != nil {
		return mongoErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoUserRepository) Delete(ctx context.Context, id int64) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoUserRepository) SetActive(ctx context.Context, ids []int64, active bool) (int64, error) {
	res, err := m.col.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"active": active, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

type MongoRoleRepository struct {
	col *mongo.Collection
}

func NewMongoRoleRepository(db *mongo.Database) *MongoRoleRepository {
	return &MongoRoleRepository{col: db.Collection(rolesCollection)}
}

// SaveRole creates the role or replaces the permissions of an existing one with the
// same name.
func (m *MongoRoleRepository) SaveRole(ctx context.Context, r *model.Role) error {
	now := time.Now().UTC()
	existing, err := m.FindRole(ctx, r.Name)
	switch {
	case err == nil:
		r.ID, r.CreatedAt, r.UpdatedAt = existing.ID, existing.CreatedAt, now
		_, err = m.col.UpdateOne(ctx, bson.M{"_id": r.ID}, bson.M{"$set": bson.M{
			"permissions": r.Permissions,
			"updated_at":  now,
		}})
		return err
	case err != ErrNotFound:
		return err
	}

	id, err := nextSequence(ctx, m.col.Database(), rolesCollection)
	if err != nil {
		return err
	}
	r.ID, r.CreatedAt, r.UpdatedAt = id, now, now
	_, err = m.col.InsertOne(ctx, r)
	return mongoErr(err)
}

func (m *MongoRoleRepository) FindRole(ctx context.Context, name string) (*model.Role, error) {
	var res model.Role
	if err := m.col.FindOne(ctx, bson.M{"name": name}).Decode(&res); err != nil {
		return nil, mongoErr(err)
	}
	return &res, nil
}

func (m *MongoRoleRepository) ListRoles(ctx context.Context) ([]*model.Role, error) {
	cur, err := m.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var out []*model.Role
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
