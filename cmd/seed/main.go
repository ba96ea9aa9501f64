package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sebkasanzew/comoi/internal/seed"
	"github.com/sebkasanzew/comoi/internal/store"
	"github.com/sebkasanzew/comoi/internal/store/backend"
	"github.com/sebkasanzew/comoi/pkg/utilities"
)

func main() {
	_ = godotenv.Load()

	def := seed.DefaultCounts()
	var c seed.Counts
	flag.IntVar(&c.Categories, "categories", def.Categories, "number of categories (at most 8)")
	flag.IntVar(&c.Products, "products", def.Products, "number of products")
	flag.IntVar(&c.Vendors, "vendors", def.Vendors, "number of vendors")
	flag.IntVar(&c.Customers, "customers", def.Customers, "number of customers")
	flag.IntVar(&c.Orders, "orders", def.Orders, "number of orders")
	reset := flag.Bool("reset", false, "delete all existing data first")
	rnd := flag.Uint64("seed", 0, "random seed; 0 picks one from the clock")
	flag.Parse()

	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()
	sugar := lg.Sugar()

	driver, err := store.DriverFromEnv()
	if err != nil {
		sugar.Fatal(err)
	}
	if driver == store.DriverMemory {
		sugar.Fatal("seeding the memory store is pointless; set STORE_DRIVER to postgres or mongo")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	be, err := backend.Open(ctx, driver, sugar)
	if err != nil {
		sugar.Fatalw("open store", "err", err)
	}
	defer be.Close()

	if *rnd == 0 {
		*rnd = uint64(time.Now().UnixNano())
	}
	sugar.Infow("seeding", "store", driver, "seed", *rnd, "counts", c, "reset", *reset)

	sum, err := seed.New(be, *rnd, sugar).Run(ctx, c, *reset)
	if err != nil {
		sugar.Fatalw("seed failed", "err", err, "partial", sum)
	}
	sugar.Infow("done", "categories", sum.Categories, "products", sum.Products, "vendors", sum.Vendors,
		"price_offers", sum.PriceOffers, "customers", sum.Customers, "orders", sum.Orders, "users", sum.Users)
}
