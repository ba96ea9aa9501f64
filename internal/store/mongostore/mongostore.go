// Package mongostore keeps the comoi documents in MongoDB, one collection per
// table, with the document id as _id.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	catalog "github.com/sebkasanzew/comoi/internal/catalog/entity"
	order "github.com/sebkasanzew/comoi/internal/order/entity"
	"github.com/sebkasanzew/comoi/internal/store"
	user "github.com/sebkasanzew/comoi/internal/user/entity"
)

const (
	colUsers      = "users"
	colVendors    = "vendors"
	colCustomers  = "customers"
	colProducts   = "products"
	colCategories = "categories"
	colOffers     = "price_offers"
	colOrders     = "orders"
	colItems      = "order_items"
)

var collections = []string{colUsers, colVendors, colCustomers, colProducts, colCategories, colOffers, colOrders, colItems}

type Store struct {
	db *mongo.Database
}

func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// EnsureIndexes creates the lookup indexes the services scan by.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	byCollection := map[string][]mongo.IndexModel{
		colUsers: {
			{Keys: bson.D{{Key: "subject", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colVendors: {
			{Keys: bson.D{{Key: "is_active", Value: 1}}},
			{Keys: bson.D{{Key: "phone", Value: 1}}},
		},
		colCustomers: {
			{Keys: bson.D{{Key: "phone", Value: 1}}},
		},
		colProducts: {
			{Keys: bson.D{{Key: "category_id", Value: 1}}},
		},
		colCategories: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colOffers: {
			{Keys: bson.D{{Key: "vendor_id", Value: 1}, {Key: "is_available", Value: 1}}},
			{Keys: bson.D{{Key: "product_id", Value: 1}, {Key: "is_available", Value: 1}}},
		},
		colOrders: {
			{Keys: bson.D{{Key: "vendor_id", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "customer_id", Value: 1}}},
		},
		colItems: {
			{Keys: bson.D{{Key: "order_id", Value: 1}}},
		},
	}
	for name, models := range byCollection {
		if _, err := s.col(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

func findOne[T any](ctx context.Context, c *mongo.Collection, filter bson.M) (*T, error) {
	var doc T
	if err := c.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNoDocument
		}
		return nil, err
	}
	return &doc, nil
}

func findAll[T any](ctx context.Context, c *mongo.Collection, filter bson.M, opts ...*options.FindOptions) ([]T, error) {
	cur, err := c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func containsFold(term string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"}
}

func (s *Store) GetBySubject(ctx context.Context, subject string) (*user.User, error) {
	return findOne[user.User](ctx, s.col(colUsers), bson.M{"subject": subject})
}

func (s *Store) InsertUser(ctx context.Context, u *user.User) error {
	_, err := s.col(colUsers).InsertOne(ctx, u)
	return err
}

func (s *Store) GetVendor(ctx context.Context, id string) (*catalog.Vendor, error) {
	return findOne[catalog.Vendor](ctx, s.col(colVendors), bson.M{"_id": id})
}

func (s *Store) ListActiveVendors(ctx context.Context) ([]catalog.Vendor, error) {
	return findAll[catalog.Vendor](ctx, s.col(colVendors), bson.M{"is_active": true})
}

func (s *Store) SearchVendors(ctx context.Context, term string, limit int) ([]catalog.Vendor, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}}).SetLimit(int64(limit))
	return findAll[catalog.Vendor](ctx, s.col(colVendors), bson.M{"is_active": true, "name": containsFold(term)}, opts)
}

func (s *Store) GetCustomer(ctx context.Context, id string) (*catalog.Customer, error) {
	return findOne[catalog.Customer](ctx, s.col(colCustomers), bson.M{"_id": id})
}

func (s *Store) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	return findOne[catalog.Product](ctx, s.col(colProducts), bson.M{"_id": id})
}

func (s *Store) ListProducts(ctx context.Context, categoryID *string) ([]catalog.Product, error) {
	filter := bson.M{}
	if categoryID != nil {
		filter["category_id"] = *categoryID
	}
	return findAll[catalog.Product](ctx, s.col(colProducts), filter)
}

func (s *Store) SearchProducts(ctx context.Context, term string, limit int) ([]catalog.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_vi", Value: 1}}).SetLimit(int64(limit))
	return findAll[catalog.Product](ctx, s.col(colProducts), bson.M{"name_vi": containsFold(term)}, opts)
}

func (s *Store) GetCategory(ctx context.Context, id string) (*catalog.Category, error) {
	return findOne[catalog.Category](ctx, s.col(colCategories), bson.M{"_id": id})
}

func (s *Store) GetCategoryBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	return findOne[catalog.Category](ctx, s.col(colCategories), bson.M{"slug": slug})
}

func (s *Store) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	return findAll[catalog.Category](ctx, s.col(colCategories), bson.M{})
}

func (s *Store) ListAvailableOffersByVendor(ctx context.Context, vendorID string) ([]catalog.PriceOffer, error) {
	return findAll[catalog.PriceOffer](ctx, s.col(colOffers), bson.M{"vendor_id": vendorID, "is_available": true})
}

func (s *Store) ListAvailableOffersByProduct(ctx context.Context, productID string) ([]catalog.PriceOffer, error) {
	return findAll[catalog.PriceOffer](ctx, s.col(colOffers), bson.M{"product_id": productID, "is_available": true})
}

func (s *Store) InsertVendor(ctx context.Context, v *catalog.Vendor) error {
	_, err := s.col(colVendors).InsertOne(ctx, v)
	return err
}

func (s *Store) InsertCustomer(ctx context.Context, c *catalog.Customer) error {
	_, err := s.col(colCustomers).InsertOne(ctx, c)
	return err
}

func (s *Store) InsertProduct(ctx context.Context, p *catalog.Product) error {
	_, err := s.col(colProducts).InsertOne(ctx, p)
	return err
}

func (s *Store) InsertCategory(ctx context.Context, c *catalog.Category) error {
	_, err := s.col(colCategories).InsertOne(ctx, c)
	return err
}

func (s *Store) InsertPriceOffer(ctx context.Context, o *catalog.PriceOffer) error {
	_, err := s.col(colOffers).InsertOne(ctx, o)
	return err
}

func (s *Store) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	return findOne[order.Order](ctx, s.col(colOrders), bson.M{"_id": id})
}

func (s *Store) ListOrdersByVendor(ctx context.Context, vendorID string, status *order.Status) ([]order.Order, error) {
	return findAll[order.Order](ctx, s.col(colOrders), vendorOrdersFilter(vendorID, status))
}

// vendorOrdersFilter is an equality prefix of the (vendor_id, status) index.
// Scans carry no sort so the planner can serve them from it; callers order
// the results themselves.
func vendorOrdersFilter(vendorID string, status *order.Status) bson.M {
	filter := bson.M{"vendor_id": vendorID}
	if status != nil {
		filter["status"] = *status
	}
	return filter
}

func (s *Store) ListItemsByOrder(ctx context.Context, orderID string) ([]order.Item, error) {
	return findAll[order.Item](ctx, s.col(colItems), bson.M{"order_id": orderID})
}

func (s *Store) PatchOrderStatus(ctx context.Context, id string, status order.Status, updatedAt time.Time) error {
	res, err := s.col(colOrders).UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": updatedAt}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNoDocument
	}
	return nil
}

// InsertOrder writes the items first and the order last, so a reader never
// sees an order without its items. Any failure removes the items written so
// far; standalone servers have no multi-document transactions.
func (s *Store) InsertOrder(ctx context.Context, o *order.Order, items []order.Item) error {
	if len(items) > 0 {
		docs := make([]any, len(items))
		for i := range items {
			docs[i] = items[i]
		}
		if _, err := s.col(colItems).InsertMany(ctx, docs); err != nil {
			return s.dropItems(ctx, o.ID, fmt.Errorf("insert items of order %s: %w", o.ID, err))
		}
	}
	if _, err := s.col(colOrders).InsertOne(ctx, o); err != nil {
		return s.dropItems(ctx, o.ID, fmt.Errorf("insert order %s: %w", o.ID, err))
	}
	return nil
}

// dropItems undoes a partial InsertOrder and returns cause, joined with any
// cleanup failure.
func (s *Store) dropItems(ctx context.Context, orderID string, cause error) error {
	if _, err := s.col(colItems).DeleteMany(ctx, bson.M{"order_id": orderID}); err != nil {
		return errors.Join(cause, fmt.Errorf("remove items of order %s: %w", orderID, err))
	}
	return cause
}

// Reset empties every collection, keeping indexes.
func (s *Store) Reset(ctx context.Context) error {
	for _, name := range collections {
		if _, err := s.col(name).DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("clear %s: %w", name, err)
		}
	}
	return nil
}
