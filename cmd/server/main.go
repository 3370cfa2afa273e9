package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv" // Loads .env files into the process environment
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/record-store/internal/config"
	"github.com/iliyamo/record-store/internal/database"
	"github.com/iliyamo/record-store/internal/handler"
	"github.com/iliyamo/record-store/internal/mailer"
	"github.com/iliyamo/record-store/internal/middleware"
	"github.com/iliyamo/record-store/internal/queue"
	"github.com/iliyamo/record-store/internal/repository"
	"github.com/iliyamo/record-store/internal/router"
)

func main() {
	// A missing .env is fine in production where real env vars are set.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables caching and rate limiting
	// but the API itself keeps working.
	rdb := config.NewRedisClient()

	// Repositories bound to the shared connection pool.
	users := repository.NewUserRepo(db)
	categories := repository.NewCategoryRepo(db)
	products := repository.NewProductRepo(db)
	orders := repository.NewOrderRepo(db)
	subscribers := repository.NewSubscriberRepo(db)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users)
	userH := handler.NewUserHandler(users)
	catH := handler.NewCategoryHandler(categories)
	prodH := handler.NewProductHandler(products, categories)
	orderH := handler.NewOrderHandler(orders, products)
	subH := handler.NewSubscriberHandler(subscribers)

	// Outbound mail: real SMTP when configured, log-only otherwise.  The
	// consumer drains the broker queues in the background and survives
	// broker restarts on its own.
	var m mailer.Mailer
	if smtpCfg := config.LoadSMTPConfig(); smtpCfg.Host != "" {
		m = mailer.NewSMTPMailer(smtpCfg)
		log.Printf("mailer: smtp via %s:%d", smtpCfg.Host, smtpCfg.Port)
	} else {
		m = &mailer.LogMailer{}
		log.Printf("mailer: smtp not configured, logging mail instead")
	}
	go queue.StartMailConsumer(m)

	e := echo.New() // Create Echo instance
	e.HideBanner = true

	router.RegisterRoutes(e) // Health check
	router.RegisterCatalog(e, prodH, catH, subH,
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterAuth(e, authH, orderH, cfg.JWTSecret,
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	router.RegisterAdmin(e, authH, userH, catH, prodH, orderH, subH, cfg.JWTSecret, users)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err)
	}
}
