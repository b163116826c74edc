package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"grocery-admin/internal/dto"
	"grocery-admin/internal/model"
)

const ordersCollection = "orders"

type MongoOrderRepository struct {
	col *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{col: db.Collection(ordersCollection)}
}

func (m *MongoOrderRepository) Create(ctx context.Context, o *model.Order) error {
	id, err := nextSequence(ctx, m.col.Database(), ordersCollection)
	if err != nil {
		return err
	}
	o.ID = id
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = o.CreatedAt
	}
	_, err = m.col.InsertOne(ctx, o)
	return mongoErr(err)
}

func (m *MongoOrderRepository) FindByID(ctx context.Context, id int64) (*model.Order, error) {
	return m.findOne(ctx, bson.M{"_id": id})
}

func (m *MongoOrderRepository) FindByOrderNumber(ctx context.Context, number string) (*model.Order, error) {
	return m.findOne(ctx, bson.M{"order_number": number})
}

func (m *MongoOrderRepository) findOne(ctx context.Context, filter bson.M) (*model.Order, error) {
	var res model.Order
	if err := m.col.FindOne(ctx, filter).Decode(&res); err != nil {
		return nil, mongoErr(err)
	}
	return &res, nil
}

func (m *MongoOrderRepository) List(ctx context.Context, f dto.OrderFilter) ([]*model.Order, int64, error) {
	filter := orderFilterBSON(f)
	total, err := m.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	sort := bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	cur, err := m.col.Find(ctx, filter, findOptions(sort, f.Offset(), f.PerPage))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var out []*model.Order
	for cur.Next(ctx) {
		var v model.Order
		if err := cur.Decode(&v); err != nil {
			return nil, 0, err
		}
		out = append(out, &v)
	}
	return out, total, cur.Err()
}

// orderFilterBSON translates a list filter into a query document.
func orderFilterBSON(f dto.OrderFilter) bson.M {
	q := bson.M{}
	if f.Search != "" {
		rx := containsRegex(f.Search)
		q["$or"] = []bson.M{
			{"order_number": rx},
			{"customer_name": rx},
			{"customer_email": rx},
			{"tracking_number": rx},
		}
	}
	if len(f.Statuses) > 0 {
		q["status"] = bson.M{"$in": f.Statuses}
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
	if f.MinAmount != nil || f.MaxAmount != nil {
		rng := bson.M{}
		if f.MinAmount != nil {
			if d, err := toDecimal128(*f.MinAmount); err == nil {
				rng["$gte"] = d
			}
		}
		if f.MaxAmount != nil {
			if d, err := toDecimal128(*f.MaxAmount); err == nil {
				rng["$lte"] = d
			}
		}
		q["total_amount"] = rng
	}
	if f.TrackingNumber != "" {
		q["tracking_number"] = containsRegex(f.TrackingNumber)
	}
	if len(f.UserIDs) > 0 {
		q["user_id"] = bson.M{"$in": f.UserIDs}
	}
	if len(f.IDs) > 0 {
		q["_id"] = bson.M{"$in": f.IDs}
	}
	return q
}

// UpdateStatus moves the order only while it is still in change.From. The first
// step also clears the current flag of the history; the second appends the new
// record.
func (m *MongoOrderRepository) UpdateStatus(ctx context.Context, id int64, change model.StatusChange) error {
	set := bson.M{
		"status":              change.To,
		"updated_at":          change.Record.Timestamp,
		"history.$[].current": false,
	}
	switch change.To {
	case model.StatusShipped:
		set["shipped_at"] = change.Record.Timestamp
	case model.StatusDelivered:
		set["delivered_at"] = change.Record.Timestamp
	}
	if change.TrackingNumber != "" {
		set["tracking_number"] = change.TrackingNumber
	}

	r1, err := m.col.UpdateOne(ctx, bson.M{"_id": id, "status": change.From}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if r1.MatchedCount == 0 {
		n, err := m.col.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return ErrConflict
	}

	rec := change.Record
	rec.Current = true
	_, err = m.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{"history": rec}})
	return err
}

func (m *MongoOrderRepository) UpdateTracking(ctx context.Context, id int64, tracking string) error {
	return m.setFields(ctx, id, bson.M{"tracking_number": tracking})
}

func (m *MongoOrderRepository) SetInvoiceNumber(ctx context.Context, id int64, invoice string) error {
	return m.setFields(ctx, id, bson.M{"invoice_number": invoice})
}

func (m *MongoOrderRepository) setFields(ctx context.Context, id int64, set bson.M) error {
	set["updated_at"] = time.Now().UTC()
	res, err := m.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoOrderRepository) Delete(ctx context.Context, id int64) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CustomerStats counts every order per user; spending ignores cancelled orders.
func (m *MongoOrderRepository) CustomerStats(ctx context.Context, userIDs []int64) (map[int64]model.CustomerStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": bson.M{"$in": userIDs}}}},
		{{Key: "$group", Value: bson.M{
			"_id":          "$user_id",
			"orders_count": bson.M{"$sum": 1},
			"total_spent": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$status", model.StatusCancelled}}, 0, "$total_amount",
			}}},
		}}},
	}
	cur, err := m.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		UserID              int64 `bson:"_id"`
		model.CustomerStats `bson:",inline"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make(map[int64]model.CustomerStats, len(rows))
	for _, r := range rows {
		out[r.UserID] = r.CustomerStats
	}
	return out, nil
}

func (m *MongoOrderRepository) Count(ctx context.Context) (int64, error) {
	return m.col.CountDocuments(ctx, bson.M{})
}
