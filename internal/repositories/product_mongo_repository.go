package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"lyyn/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoProductRepository stores catalog documents in a MongoDB collection.
type MongoProductRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongoProductRepository creates a repository over the "products" collection of db.
func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{
		coll:    db.Collection("products"),
		timeout: 10 * time.Second,
	}
}

// ConnectMongo opens a client and pings the server before handing it out.
func ConnectMongo(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, nil
}

func categoryFilter(category string) bson.M {
	if category == "" {
		return bson.M{}
	}
	return bson.M{"category": category}
}

// GetPage retrieves one page of products.
func (r *MongoProductRepository) GetPage(page, pageSize int, category string) ([]models.Product, int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	filter := categoryFilter(category)
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(pageOffset(page, pageSize))).
		SetLimit(int64(pageSize))
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get products page %d: %w", page, err)
	}
	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("failed to decode products page %d: %w", page, err)
	}
	return products, total, nil
}

// GetByID retrieves a single product document.
func (r *MongoProductRepository) GetByID(id string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	var product models.Product
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("product with ID %s %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create inserts a new product document.
func (r *MongoProductRepository) Create(product *models.Product) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := time.Now()
	product.CreatedAt, product.UpdatedAt = now, now
	if _, err := r.coll.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update replaces an existing product document.
func (r *MongoProductRepository) Update(product *models.Product) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	product.UpdatedAt = time.Now()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("product with ID %s %w for update", product.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a product document.
func (r *MongoProductRepository) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("product with ID %s %w for deletion", id, ErrNotFound)
	}
	return nil
}

// ReserveStock decrements each size with a conditional update and rolls back the
// already applied decrements when one of them no longer fits.
func (r *MongoProductRepository) ReserveStock(items []models.OrderItem) ([]models.StockShortage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	order, totals := requestedStock(items)

	products := make(map[string]*models.Product)
	for _, k := range order {
		if _, ok := products[k.productID]; ok {
			continue
		}
		p, err := r.GetByID(k.productID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		products[k.productID] = p
	}
	if shortages := applyReservation(products, items); len(shortages) > 0 {
		return shortages, nil
	}

	var applied []stockKey
	for _, k := range order {
		filter := bson.M{
			"_id":   k.productID,
			"sizes": bson.M{"$elemMatch": bson.M{"size": k.size, "stock": bson.M{"$gte": totals[k]}}},
		}
		update := bson.M{"$inc": bson.M{"sizes.$.stock": -totals[k]}}
		res, err := r.coll.UpdateOne(ctx, filter, update)
		if err == nil && res.ModifiedCount == 1 {
			applied = append(applied, k)
			continue
		}
		r.restoreStock(applied, totals)
		if err != nil {
			return nil, fmt.Errorf("failed to reserve stock for product %s: %w", k.productID, err)
		}
		// Stock moved between the read and the conditional update.
		current, _ := r.GetByID(k.productID)
		available := 0
		if current != nil {
			available = current.StockFor(k.size)
		}
		return []models.StockShortage{{
			ProductID: k.productID,
			Size:      k.size,
			Requested: totals[k],
			Available: available,
		}}, nil
	}
	return nil, nil
}

func (r *MongoProductRepository) restoreStock(applied []stockKey, totals map[stockKey]int) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	for _, k := range applied {
		filter := bson.M{"_id": k.productID, "sizes.size": k.size}
		update := bson.M{"$inc": bson.M{"sizes.$.stock": totals[k]}}
		if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
			log.Printf("Failed to restore %d units of stock for product %s size %s: %v", totals[k], k.productID, k.size, err)
		}
	}
}
