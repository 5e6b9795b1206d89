package repository

import (
	"context"
	"fmt"
	"time"

	"outlethub-api/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoOutletRepo struct {
	store *MongoStore
}

type outletDoc struct {
	ID           int64     `bson:"_id"`
	Name         string    `bson:"name"`
	Username     string    `bson:"username"`
	Password     string    `bson:"password"`
	City         string    `bson:"city"`
	State        string    `bson:"state"`
	Address      string    `bson:"address"`
	Pincode      string    `bson:"pincode"`
	UserSellerID int64     `bson:"user_seller_id"`
	TotalProduct int64     `bson:"total_products"`
	TotalQty     int64     `bson:"total_quantity"`
	TotalRevenue float64   `bson:"total_revenue"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func toOutletDoc(o *model.Outlet) outletDoc {
	return outletDoc{
		ID: o.ID, Name: o.Name, Username: o.Username, Password: o.Password,
		City: o.City, State: o.State, Address: o.Address, Pincode: o.Pincode,
		UserSellerID: o.UserSellerID, TotalProduct: o.TotalProduct,
		TotalQty: o.TotalQty, TotalRevenue: o.TotalRevenue,
		CreatedAt: o.CreatedAt, UpdatedAt: o.UpdatedAt,
	}
}

func (d outletDoc) toModel() *model.Outlet {
	return &model.Outlet{
		ID: d.ID, Name: d.Name, Username: d.Username, Password: d.Password,
		City: d.City, State: d.State, Address: d.Address, Pincode: d.Pincode,
		UserSellerID: d.UserSellerID, TotalProduct: d.TotalProduct,
		TotalQty: d.TotalQty, TotalRevenue: d.TotalRevenue,
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

func (r *mongoOutletRepo) Create(ctx context.Context, outlet *model.Outlet) (*model.Outlet, error) {
	id, err := r.store.nextID(ctx, "outlets")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	outlet.ID = id
	outlet.CreatedAt = now
	outlet.UpdatedAt = now

	if _, err := r.store.outlets.InsertOne(ctx, toOutletDoc(outlet)); err != nil {
		return nil, fmt.Errorf("failed to create outlet: %w", mapMongoErr(err))
	}
	return outlet, nil
}

func (r *mongoOutletRepo) FindByID(ctx context.Context, id int64) (*model.Outlet, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoOutletRepo) FindByUsername(ctx context.Context, username string) (*model.Outlet, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *mongoOutletRepo) findOne(ctx context.Context, filter bson.M) (*model.Outlet, error) {
	var doc outletDoc
	if err := r.store.outlets.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapMongoErr(err)
	}
	return doc.toModel(), nil
}

func (r *mongoOutletRepo) FindBySeller(ctx context.Context, userID int64) ([]*model.Outlet, error) {
	return r.findMany(ctx, bson.M{"user_seller_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
}

func (r *mongoOutletRepo) List(ctx context.Context) ([]*model.Outlet, error) {
	return r.findMany(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (r *mongoOutletRepo) findMany(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Outlet, error) {
	cur, err := r.store.outlets.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query outlets: %w", err)
	}
	defer cur.Close(ctx)

	var outlets []*model.Outlet
	for cur.Next(ctx) {
		var doc outletDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode outlet: %w", err)
		}
		outlets = append(outlets, doc.toModel())
	}
	return outlets, cur.Err()
}

func (r *mongoOutletRepo) Update(ctx context.Context, outlet *model.Outlet) error {
	outlet.UpdatedAt = time.Now().UTC()

	res, err := r.store.outlets.UpdateOne(ctx,
		bson.M{"_id": outlet.ID},
		bson.M{"$set": bson.M{
			"name":           outlet.Name,
			"username":       outlet.Username,
			"password":       outlet.Password,
			"city":           outlet.City,
			"state":          outlet.State,
			"address":        outlet.Address,
			"pincode":        outlet.Pincode,
			"user_seller_id": outlet.UserSellerID,
			"updated_at":     outlet.UpdatedAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update outlet %d: %w", outlet.ID, mapMongoErr(err))
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoOutletRepo) UpdateStats(ctx context.Context, id int64, stats model.OutletStats) error {
	res, err := r.store.outlets.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"total_products": stats.TotalProducts,
			"total_quantity": stats.TotalQuantity,
			"total_revenue":  stats.TotalRevenue,
			"updated_at":     time.Now().UTC(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update stats for outlet %d: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
