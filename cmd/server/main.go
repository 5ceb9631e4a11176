package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/config"
	"github.com/iliyamo/hotel-reservation/internal/database"
	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/inventory"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories over the shared pool.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	roomTypes := repository.NewRoomTypeRepo(db)
	bookings := repository.NewBookingRepo(db)
	overrides := repository.NewOverrideRepo(db)
	blocks := repository.NewBlockedDateRepo(db)

	// Engine: the store is the single write path for reservations.
	store := repository.NewInventoryStore(db, roomTypes, bookings)
	resolver := inventory.NewResolver(store)
	admission := inventory.NewAdmissionController(store)
	lifecycle := inventory.NewLifecycle(store)

	e := echo.New()
	e.HideBanner = true

	// Redis is optional: with no client, caching and rate limiting become
	// no-ops and the API still works.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}
	readMW := []echo.MiddlewareFunc{
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterPublic(e,
		handler.NewAvailabilityHandler(resolver, roomTypes),
		handler.NewReservationHandler(admission, lifecycle),
		readMW...)
	router.RegisterAdmin(e, cfg.JWTSecret,
		handler.NewRoomTypeHandler(roomTypes),
		handler.NewInventoryAdminHandler(resolver, overrides, blocks),
		handler.NewBookingAdminHandler(lifecycle, store))

	// Background consumer mirroring reservation events into logs/.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
