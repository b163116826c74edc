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
	categoriesCollection = "categories"
	productsCollection   = "products"
)

type MongoCatalogRepository struct {
	db         *mongo.Database
	categories *mongo.Collection
	products   *mongo.Collection
}

func NewMongoCatalogRepository(db *mongo.Database) *MongoCatalogRepository {
	return &MongoCatalogRepository{
		db:         db,
		categories: db.Collection(categoriesCollection),
		products:   db.Collection(productsCollection),
	}
}

// SaveCategory is keyed by slug; saving an existing slug reuses its id.
func (m *MongoCatalogRepository) SaveCategory(ctx context.Context, c *model.Category) error {
	var existing model.Category
	err := m.categories.FindOne(ctx, bson.M{"slug": c.Slug}).Decode(&existing)
	if err == nil {
		c.ID, c.CreatedAt = existing.ID, existing.CreatedAt
		_, err = m.categories.UpdateOne(ctx, bson.M{"_id": c.ID}, bson.M{"$set": bson.M{"name": c.Name}})
		return err
	}
	if err != mongo.ErrNoDocuments {
		return err
	}

	id, err := nextSequence(ctx, m.db, categoriesCollection)
	if err != nil {
		return err
	}
	c.ID = id
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err = m.categories.InsertOne(ctx, c)
	return mongoErr(err)
}

func (m *MongoCatalogRepository) ListCategories(ctx context.Context) ([]*model.Category, error) {
	cur, err := m.categories.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var out []*model.Category
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MongoCatalogRepository) CreateProduct(ctx context.Context, p *model.Product) error {
	id, err := nextSequence(ctx, m.db, productsCollection)
	if err != nil {
		return err
	}
	p.ID = id
	_, err = m.products.InsertOne(ctx, p)
	return mongoErr(err)
}

func (m *MongoCatalogRepository) FindProductsByIDs(ctx context.Context, ids []int64) ([]*model.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := m.products.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var out []*model.Product
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MongoCatalogRepository) ListProducts(ctx context.Context, f dto.ProductFilter) ([]*model.Product, int64, error) {
	filter := productFilterBSON(f)
	total, err := m.products.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	sort := bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}
	cur, err := m.products.Find(ctx, filter, findOptions(sort, f.Offset(), f.PerPage))
	if err != nil {
		return nil, 0, err
	}
	var out []*model.Product
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func productFilterBSON(f dto.ProductFilter) bson.M {
	q := bson.M{}
	if f.Search != "" {
		q["name"] = containsRegex(f.Search)
	}
	if f.CategoryID > 0 {
		q["category_id"] = f.CategoryID
	}
	if f.ActiveOnly {
		q["active"] = true
	}
	if f.MaxStock != nil {
		q["stock"] = bson.M{"$lte": *f.MaxStock}
	}
	if len(f.IDs) > 0 {
		q["_id"] = bson.M{"$in": f.IDs}
	}
	return q
}
