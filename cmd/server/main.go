package main

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/ZharfanFw/kailku-mobile-sub000/internal/config"
	"github.com/ZharfanFw/kailku-mobile-sub000/internal/database"
	"github.com/ZharfanFw/kailku-mobile-sub000/internal/handler"
	"github.com/ZharfanFw/kailku-mobile-sub000/internal/middleware"
	"github.com/ZharfanFw/kailku-mobile-sub000/internal/queue"
	"github.com/ZharfanFw/kailku-mobile-sub000/internal/repository"
	"github.com/ZharfanFw/kailku-mobile-sub000/internal/router"
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	maxOpen := 0
	if s := os.Getenv("DB_MAX_OPEN_CONNS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			maxOpen = n
		}
	}
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, maxOpen)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer db.Close()

	// Redis is optional; a nil client disables the cache and rate limiter.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	bookings := repository.NewBookingRepo(db)
	orders := repository.NewOrderRepo(db)
	payments := repository.NewPaymentRepo(db)
	tempat := repository.NewTempatRepo(db)
	alat := repository.NewAlatRepo(db)
	reviews := repository.NewReviewRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	profileH := handler.NewProfileHandler(users)
	bookingH := handler.NewBookingHandler(bookings, orders, tempat)
	paymentH := handler.NewPaymentHandler(payments, bookings, orders)
	browseH := handler.NewBrowseHandler(tempat, alat, reviews)
	adminVenueH := handler.NewAdminVenueHandler(tempat)
	adminToolH := handler.NewAdminToolHandler(alat)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, profileH, cfg.JWTSecret)
	router.RegisterBooking(e, bookingH, cfg.JWTSecret)
	router.RegisterPayment(e, paymentH, cfg.JWTSecret)
	router.RegisterPublic(e, browseH, cfg.JWTSecret, cacheMW)
	router.RegisterAdmin(e, adminVenueH, adminToolH, cfg.JWTSecret)

	// Background consumer that logs confirmed payments from the queue.
	go func() {
		if err := queue.StartPaymentConsumer(); err != nil {
			log.Printf("payment consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
