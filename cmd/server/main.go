package main

import (
	"log"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/tireweb/tire-shop-api/internal/config"
	"github.com/tireweb/tire-shop-api/internal/database"
	"github.com/tireweb/tire-shop-api/internal/handler"
	"github.com/tireweb/tire-shop-api/internal/queue"
	"github.com/tireweb/tire-shop-api/internal/repository"
	"github.com/tireweb/tire-shop-api/internal/router"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when Redis is not configured

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	customers := repository.NewCustomerRepo(db)
	vehicles := repository.NewVehicleRepo(db)
	bookings := repository.NewBookingRepo(db)
	services := repository.NewServiceRepo(db)
	brands := repository.NewBrandRepo(db)
	tireModels := repository.NewTireModelRepo(db)
	tires := repository.NewTireRepo(db)
	promotions := repository.NewPromotionRepo(db)
	pageViews := repository.NewPageViewRepo(db)
	stats := repository.NewStatsRepo(db)

	booking := handler.NewBookingHandler(bookings, customers, vehicles, services, brands, tireModels)
	handlers := router.Handlers{
		Auth:           handler.NewAuthHandler(cfg, users, tokens, customers),
		Profile:        handler.NewProfileHandler(cfg, users, customers, tokens),
		Booking:        booking,
		Catalog:        handler.NewCatalogHandler(tires, brands, tireModels, promotions, services),
		PageViews:      handler.NewPageViewHandler(pageViews),
		AdminBooking:   handler.NewAdminBookingHandler(booking),
		AdminCustomer:  handler.NewAdminCustomerHandler(customers, vehicles),
		AdminCatalog:   handler.NewAdminCatalogHandler(brands, tireModels),
		AdminTire:      handler.NewAdminTireHandler(tires, tireModels),
		AdminPromotion: handler.NewAdminPromotionHandler(promotions),
		AdminUser:      handler.NewAdminUserHandler(&cfg, users),
		OwnerReport:    handler.NewOwnerReportHandler(stats, customers, pageViews),
		Upload:         handler.NewUploadHandler(&cfg),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.RegisterRoutes(e, cfg, rdb, handlers)

	// Confirmation events flow through RabbitMQ; the consumer reconnects
	// on its own and the API keeps serving if the broker is down.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("queue: consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
