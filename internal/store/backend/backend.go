// Package backend opens the document store selected by STORE_DRIVER and
// exposes it through the interfaces the services consume.
package backend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sebkasanzew/comoi/internal/catalog"
	catalogentity "github.com/sebkasanzew/comoi/internal/catalog/entity"
	catalogrepo "github.com/sebkasanzew/comoi/internal/catalog/repo"
	"github.com/sebkasanzew/comoi/internal/order"
	orderentity "github.com/sebkasanzew/comoi/internal/order/entity"
	orderrepo "github.com/sebkasanzew/comoi/internal/order/repo"
	"github.com/sebkasanzew/comoi/internal/store"
	"github.com/sebkasanzew/comoi/internal/store/memstore"
	"github.com/sebkasanzew/comoi/internal/store/mongostore"
	"github.com/sebkasanzew/comoi/internal/user"
	userentity "github.com/sebkasanzew/comoi/internal/user/entity"
	userrepo "github.com/sebkasanzew/comoi/internal/user/repo"
	"github.com/sebkasanzew/comoi/pkg/database"
)

type UserStore interface {
	user.Store
	InsertUser(ctx context.Context, u *userentity.User) error
}

type CatalogStore interface {
	catalog.Store
	GetCustomer(ctx context.Context, id string) (*catalogentity.Customer, error)
	InsertVendor(ctx context.Context, v *catalogentity.Vendor) error
	InsertCustomer(ctx context.Context, c *catalogentity.Customer) error
	InsertProduct(ctx context.Context, p *catalogentity.Product) error
	InsertCategory(ctx context.Context, c *catalogentity.Category) error
	InsertPriceOffer(ctx context.Context, o *catalogentity.PriceOffer) error
}

type OrderStore interface {
	order.Store
	InsertOrder(ctx context.Context, o *orderentity.Order, items []orderentity.Item) error
}

type Backend struct {
	Driver  store.Driver
	Users   UserStore
	Catalog CatalogStore
	Orders  OrderStore

	ping  func(context.Context) error
	reset func(context.Context) error
	close func()
}

func (b *Backend) Ping(ctx context.Context) error {
	if b.ping == nil {
		return nil
	}
	return b.ping(ctx)
}

// Reset deletes every document of every kind.
func (b *Backend) Reset(ctx context.Context) error {
	return b.reset(ctx)
}

func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Open connects to the selected driver and makes sure tables or indexes exist.
func Open(ctx context.Context, driver store.Driver, logger *zap.SugaredLogger) (*Backend, error) {
	switch driver {
	case store.DriverPostgres:
		return openPostgres(ctx, logger)
	case store.DriverMongo:
		return openMongo(ctx, logger)
	case store.DriverMemory:
		return Memory(memstore.New()), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", driver)
}

// Memory wraps an in-process store.
func Memory(s *memstore.Store) *Backend {
	return &Backend{Driver: store.DriverMemory, Users: s, Catalog: s, Orders: s, reset: s.Reset}
}

func openPostgres(ctx context.Context, logger *zap.SugaredLogger) (*Backend, error) {
	db, err := database.Connect(ctx, database.ConfigFromEnv())
	if err != nil {
		return nil, err
	}
	users := userrepo.NewUserRepo(db)
	cat := catalogrepo.NewCatalogRepo(db)
	orders := orderrepo.NewOrderRepo(db)
	for name, ensure := range map[string]func(context.Context) error{
		"users":   users.EnsureTable,
		"catalog": cat.EnsureTable,
		"orders":  orders.EnsureTable,
	} {
		if err := ensure(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("ensure %s tables: %w", name, err)
		}
	}
	logger.Infow("store ready", "driver", store.DriverPostgres)
	return &Backend{
		Driver:  store.DriverPostgres,
		Users:   users,
		Catalog: cat,
		Orders:  orders,
		ping:    db.PingContext,
		reset: func(ctx context.Context) error {
			if err := orders.DeleteAll(ctx); err != nil {
				return err
			}
			if err := cat.DeleteAll(ctx); err != nil {
				return err
			}
			return users.DeleteAll(ctx)
		},
		close: func() { _ = db.Close() },
	}, nil
}

func openMongo(ctx context.Context, logger *zap.SugaredLogger) (*Backend, error) {
	cfg := database.MongoConfigFromEnv()
	client, db, err := database.ConnectMongo(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s := mongostore.New(db)
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	logger.Infow("store ready", "driver", store.DriverMongo, "database", cfg.Database)
	return &Backend{
		Driver:  store.DriverMongo,
		Users:   s,
		Catalog: s,
		Orders:  s,
		ping:    s.Ping,
		reset:   s.Reset,
		close:   func() { _ = client.Disconnect(context.Background()) },
	}, nil
}
