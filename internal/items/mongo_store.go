package items

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps items in a MongoDB collection with the item id as _id.
// Ids are UUIDv7, so sorting on _id gives insertion order.
type MongoStore struct {
	coll    *mongo.Collection
	nowFunc func() time.Time
	newID   func() string
}

// NewMongoStore creates a new MongoStore on coll.
func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{
		coll:    coll,
		nowFunc: func() time.Time { return toMillis(time.Now()) },
		newID:   func() string { return uuid.Must(uuid.NewV7()).String() },
	}
}

// EnsureIndexes creates the secondary index used by list filters.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "category", Value: 1}},
		Options: options.Index().SetName("user_category"),
	})
	if err != nil {
		return fmt.Errorf("creating items index: %w", err)
	}
	return nil
}

func (s *MongoStore) Create(ctx context.Context, f Fields) (*Item, error) {
	f.PurchaseDate = toMillis(f.PurchaseDate)
	it := newItem(s.newID(), f, s.nowFunc())
	if _, err := s.coll.InsertOne(ctx, it); err != nil {
		return nil, fmt.Errorf("inserting item: %w", err)
	}
	return &it, nil
}

func (s *MongoStore) FindAll(ctx context.Context, q Query) (Page, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.coll.Find(ctx, mongoFilter(q), opts)
	if err != nil {
		return Page{}, fmt.Errorf("finding items: %w", err)
	}
	defer cursor.Close(ctx)

	var all []Item
	if err := cursor.All(ctx, &all); err != nil {
		return Page{}, fmt.Errorf("decoding items: %w", err)
	}
	return ApplyQuery(all, q), nil
}

// FindOne returns (nil, nil) for an unknown id.
func (s *MongoStore) FindOne(ctx context.Context, id string) (*Item, error) {
	var it Item
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&it)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding item: %w", err)
	}
	return &it, nil
}

func (s *MongoStore) Update(ctx context.Context, id string, p Patch) (*Item, error) {
	current, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, &NotFoundError{ID: id}
	}

	if p.PurchaseDate != nil {
		d := toMillis(*p.PurchaseDate)
		p.PurchaseDate = &d
	}
	it := p.Apply(*current)
	it.UpdatedAt = laterOf(s.nowFunc(), it.CreatedAt)

	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": id}, it)
	if err != nil {
		return nil, fmt.Errorf("replacing item: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, &NotFoundError{ID: id}
	}
	return &it, nil
}

func (s *MongoStore) Remove(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	if res.DeletedCount == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}

func mongoFilter(q Query) bson.M {
	filter := bson.M{}
	if q.UserID != "" {
		filter["user_id"] = q.UserID
	}
	if q.Category != "" {
		filter["category"] = string(q.Category)
	}
	return filter
}

// toMillis drops precision BSON dates cannot hold.
func toMillis(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
