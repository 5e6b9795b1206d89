package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"outlethub-api/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store using MongoDB. Record IDs stay int64 across
// backends; a counters collection hands out sequence values.
type MongoStore struct {
	client   *mongo.Client
	db       *mongo.Database
	outlets  *mongo.Collection
	products *mongo.Collection
	users    *mongo.Collection
	roles    *mongo.Collection
	counters *mongo.Collection
}

// NewMongoStore connects to MongoDB, ensures indexes, and seeds roles.
func NewMongoStore(uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(50).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(5 * time.Minute).
		SetRetryWrites(true)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(database)
	s := &MongoStore{
		client:   client,
		db:       db,
		outlets:  db.Collection("outlets"),
		products: db.Collection("products"),
		users:    db.Collection("users"),
		roles:    db.Collection("roles"),
		counters: db.Collection("counters"),
	}

	indexes := []struct {
		coll *mongo.Collection
		keys bson.D
		uniq bool
	}{
		{s.outlets, bson.D{{Key: "username", Value: 1}}, true},
		{s.outlets, bson.D{{Key: "user_seller_id", Value: 1}}, false},
		{s.products, bson.D{{Key: "outlet_id", Value: 1}}, false},
		{s.users, bson.D{{Key: "username", Value: 1}}, true},
		{s.users, bson.D{{Key: "email", Value: 1}}, true},
		{s.roles, bson.D{{Key: "name", Value: 1}}, true},
	}
	for _, idx := range indexes {
		_, err := idx.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    idx.keys,
			Options: options.Index().SetUnique(idx.uniq),
		})
		if err != nil {
			log.Printf("[MongoStore] Warning: failed to create index: %v", err)
		}
	}

	if err := s.seedRoles(ctx); err != nil {
		return nil, err
	}

	log.Printf("[MongoStore] Connected to %s", database)
	return s, nil
}

func (s *MongoStore) seedRoles(ctx context.Context) error {
	roles := []model.Role{
		{Name: model.RoleCustomer, Type: "authenticated", Description: "Platform customer"},
		{Name: model.RoleSeller, Type: "authenticated", Description: "Platform seller with outlet provisioning"},
	}
	for _, role := range roles {
		err := s.roles.FindOne(ctx, bson.M{"name": role.Name}).Err()
		if err == nil {
			continue
		}
		if err != mongo.ErrNoDocuments {
			return fmt.Errorf("failed to probe role %q: %w", role.Name, err)
		}

		id, err := s.nextID(ctx, "roles")
		if err != nil {
			return err
		}
		role.ID = id
		if _, err := s.roles.InsertOne(ctx, roleDoc(role)); err != nil {
			return fmt.Errorf("failed to seed role %q: %w", role.Name, err)
		}
	}
	return nil
}

// nextID increments and returns the sequence counter for a collection.
func (s *MongoStore) nextID(ctx context.Context, name string) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate id for %s: %w", name, err)
	}
	return doc.Seq, nil
}

// Outlets returns the outlet repository.
func (s *MongoStore) Outlets() OutletRepository { return &mongoOutletRepo{s} }

// Products returns the product repository.
func (s *MongoStore) Products() ProductRepository { return &mongoProductRepo{s} }

// Users returns the user repository.
func (s *MongoStore) Users() UserRepository { return &mongoUserRepo{s} }

// Stats returns document counts per collection for the admin surface.
func (s *MongoStore) Stats(ctx context.Context) (map[string]interface{}, error) {
	stats := map[string]interface{}{"backend": "mongodb"}
	for name, coll := range map[string]*mongo.Collection{
		"outlets": s.outlets, "products": s.products, "users": s.users,
	} {
		count, err := coll.CountDocuments(ctx, bson.M{})
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", name, err)
		}
		stats["total_"+name] = count
	}
	return stats, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// mapMongoErr translates driver errors to the shared sentinels.
func mapMongoErr(err error) error {
	if err == nil {
		return nil
	}
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", ErrDuplicate, err.Error())
	}
	return err
}
