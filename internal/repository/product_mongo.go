package repository

import (
	"context"
	"fmt"
	"time"

	"outlethub-api/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoProductRepo struct {
	store *MongoStore
}

type productDoc struct {
	ID            int64     `bson:"_id"`
	OutletID      int64     `bson:"outlet_id"`
	Name          string    `bson:"name"`
	StockQuantity int64     `bson:"stock_quantity"`
	TotalProduct  int64     `bson:"total_product"`
	Price         float64   `bson:"price"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

func (d productDoc) toModel() *model.Product {
	return &model.Product{
		ID: d.ID, OutletID: d.OutletID, Name: d.Name,
		StockQuantity: d.StockQuantity, TotalProduct: d.TotalProduct,
		Price: d.Price, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

func (r *mongoProductRepo) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	id, err := r.store.nextID(ctx, "products")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product.ID = id
	product.CreatedAt = now
	product.UpdatedAt = now

	doc := productDoc{
		ID: product.ID, OutletID: product.OutletID, Name: product.Name,
		StockQuantity: product.StockQuantity, TotalProduct: product.TotalProduct,
		Price: product.Price, CreatedAt: now, UpdatedAt: now,
	}
	if _, err := r.store.products.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (r *mongoProductRepo) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	var doc productDoc
	if err := r.store.products.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, mapMongoErr(err)
	}
	return doc.toModel(), nil
}

func (r *mongoProductRepo) FindByOutlet(ctx context.Context, outletID int64) ([]*model.Product, error) {
	cur, err := r.store.products.Find(ctx, bson.M{"outlet_id": outletID},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query products for outlet %d: %w", outletID, err)
	}
	defer cur.Close(ctx)

	var products []*model.Product
	for cur.Next(ctx) {
		var doc productDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode product: %w", err)
		}
		products = append(products, doc.toModel())
	}
	return products, cur.Err()
}

func (r *mongoProductRepo) Update(ctx context.Context, product *model.Product) error {
	product.UpdatedAt = time.Now().UTC()

	res, err := r.store.products.UpdateOne(ctx,
		bson.M{"_id": product.ID},
		bson.M{"$set": bson.M{
			"outlet_id":      product.OutletID,
			"name":           product.Name,
			"stock_quantity": product.StockQuantity,
			"total_product":  product.TotalProduct,
			"price":          product.Price,
			"updated_at":     product.UpdatedAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update product %d: %w", product.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoProductRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.store.products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
