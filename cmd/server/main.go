package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"mechanic-shop-api/internal/config"
	"mechanic-shop-api/internal/database"
	"mechanic-shop-api/internal/handler"
	"mechanic-shop-api/internal/middleware"
	"mechanic-shop-api/internal/queue"
	"mechanic-shop-api/internal/repository"
	"mechanic-shop-api/internal/router"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(context.Background(), cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// Redis backs caching and rate limiting; both degrade to pass-through
	// when it is unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Print("redis unavailable: cache and rate limiting disabled")
	}

	go queue.StartTicketConsumer()

	mechanics := repository.NewMechanicRepo(db)
	customers := repository.NewCustomerRepo(db)
	tickets := repository.NewTicketRepo(db)
	inventory := repository.NewInventoryRepo(db)

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.Register(e, &router.Deps{
		JWTSecret: cfg.JWTSecret,
		Mechanic:  handler.NewMechanicHandler(cfg, mechanics),
		Customer:  handler.NewCustomerHandler(customers),
		Ticket:    handler.NewTicketHandler(tickets, customers, mechanics, inventory),
		Inventory: handler.NewInventoryHandler(inventory),
		Cache:     middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
