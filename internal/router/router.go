package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/tireweb/tire-shop-api/internal/config"
	"github.com/tireweb/tire-shop-api/internal/handler"
	"github.com/tireweb/tire-shop-api/internal/middleware"
	"github.com/tireweb/tire-shop-api/internal/model"
)

// Handlers bundles every handler the route table needs.  main builds one
// of these after wiring repositories and passes it to RegisterRoutes.
type Handlers struct {
	Auth           *handler.AuthHandler
	Profile        *handler.ProfileHandler
	Booking        *handler.BookingHandler
	Catalog        *handler.CatalogHandler
	PageViews      *handler.PageViewHandler
	AdminBooking   *handler.AdminBookingHandler
	AdminCustomer  *handler.AdminCustomerHandler
	AdminCatalog   *handler.AdminCatalogHandler
	AdminTire      *handler.AdminTireHandler
	AdminPromotion *handler.AdminPromotionHandler
	AdminUser      *handler.AdminUserHandler
	OwnerReport    *handler.OwnerReportHandler
	Upload         *handler.UploadHandler
}

// RegisterRoutes wires the full route table.  Public browse endpoints are
// fronted by the Redis response cache, auth endpoints by the token-bucket
// rate limiter; both middlewares degrade to pass-through when Redis is
// unavailable.
func RegisterRoutes(e *echo.Echo, cfg config.Config, rdb *redis.Client, h Handlers) {
	e.GET("/healthz", handler.Health)

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	registerPublic(e, cache, h)
	registerAuth(e, limit, h)
	registerCustomer(e, cfg.JWTSecret, h)
	registerStaff(e, cfg.JWTSecret, h)
	registerOwner(e, cfg.JWTSecret, h)

	// Uploaded images are served straight from disk under the same prefix
	// the upload handler returns.
	e.Static("/uploads", cfg.UploadDir)
}

// registerPublic exposes the guest-facing browse endpoints.  No auth, but
// GET responses go through the response cache.
func registerPublic(e *echo.Echo, cache echo.MiddlewareFunc, h Handlers) {
	g := e.Group("/v1", cache)

	g.GET("/tires", h.Catalog.SearchTires)
	g.GET("/tires/sizes", h.Catalog.TireSizes)
	g.GET("/tires/widths", h.Catalog.TireWidths)
	g.GET("/tires/aspects", h.Catalog.TireAspects)
	g.GET("/tires/rims", h.Catalog.TireRims)
	g.GET("/tires/:id", h.Catalog.GetTire)
	g.GET("/brands", h.Catalog.ListBrands)
	g.GET("/brands/:id/models", h.Catalog.ListBrandModels)
	g.GET("/car-brands", h.Catalog.ListCarBrands)
	g.GET("/promotions", h.Catalog.ListPromotions)
	g.GET("/promotions/:id", h.Catalog.GetPromotion)
	g.GET("/services", h.Catalog.ListServices)

	// Slot availability is advisory; the booking transaction re-checks
	// under lock.  Not cached so the numbers stay fresh.
	e.GET("/v1/availability", h.Booking.Availability)
	e.POST("/v1/page-views", h.PageViews.Record)
}

// registerAuth exposes session endpoints behind the rate limiter.
func registerAuth(e *echo.Echo, limit echo.MiddlewareFunc, h Handlers) {
	g := e.Group("/v1/auth", limit)
	g.POST("/register", h.Auth.Register)
	g.POST("/login", h.Auth.Login)
	g.POST("/refresh", h.Auth.Refresh)
	g.POST("/logout", h.Auth.Logout)
}

// registerCustomer exposes endpoints for the logged-in customer role.
func registerCustomer(e *echo.Echo, secret string, h Handlers) {
	e.GET("/v1/me", h.Auth.Me, middleware.JWTAuth(secret))
	// revoke-all logout; the body-based variant lives under /v1/auth
	e.POST("/v1/logout", h.Auth.Logout, middleware.JWTAuth(secret))

	me := e.Group("/v1/me")
	me.Use(middleware.JWTAuth(secret))
	me.Use(middleware.RequireRole(model.RoleCustomer))
	me.PUT("/profile", h.Profile.UpdateProfile)
	me.PUT("/password", h.Profile.ChangePassword)
	me.POST("/avatar", h.Profile.UploadAvatar)

	e.GET("/v1/my-bookings", h.Booking.MyBookings,
		middleware.JWTAuth(secret), middleware.RequireRole(model.RoleCustomer))

	g := e.Group("/v1/bookings")
	g.Use(middleware.JWTAuth(secret))
	g.Use(middleware.RequireRole(model.RoleCustomer))
	g.POST("", h.Booking.Create)
	g.GET("/:id", h.Booking.GetByID)
	g.PUT("/:id", h.Booking.Update)
	g.POST("/:id/cancel", h.Booking.Cancel)
}

// registerStaff exposes the back-office endpoints shared by admin and
// staff.  User management stays admin-only.
func registerStaff(e *echo.Echo, secret string, h Handlers) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(secret))
	g.Use(middleware.RequireRole(model.RoleAdmin, model.RoleStaff))

	g.GET("/bookings", h.AdminBooking.List)
	g.POST("/bookings", h.AdminBooking.Create)
	g.GET("/bookings/:id", h.AdminBooking.Get)
	g.PUT("/bookings/:id", h.AdminBooking.Update)
	g.PATCH("/bookings/:id/status", h.AdminBooking.UpdateStatus)
	g.DELETE("/bookings/:id", h.AdminBooking.Delete)

	g.GET("/customers", h.AdminCustomer.List)
	g.POST("/customers", h.AdminCustomer.Create)
	g.GET("/customers/:id", h.AdminCustomer.Get)
	g.PUT("/customers/:id", h.AdminCustomer.Update)
	g.DELETE("/customers/:id", h.AdminCustomer.Delete)

	g.POST("/brands", h.AdminCatalog.CreateBrand)
	g.PUT("/brands/:id", h.AdminCatalog.UpdateBrand)
	g.DELETE("/brands/:id", h.AdminCatalog.DeleteBrand)
	g.POST("/tire-models", h.AdminCatalog.CreateModel)
	g.PUT("/tire-models/:id", h.AdminCatalog.UpdateModel)
	g.DELETE("/tire-models/:id", h.AdminCatalog.DeleteModel)

	g.POST("/tires", h.AdminTire.Create)
	g.PUT("/tires/:id", h.AdminTire.Update)
	g.DELETE("/tires/:id", h.AdminTire.Delete)

	g.GET("/promotions", h.AdminPromotion.List)
	g.POST("/promotions", h.AdminPromotion.Create)
	g.PUT("/promotions/:id", h.AdminPromotion.Update)
	g.DELETE("/promotions/:id", h.AdminPromotion.Delete)

	g.POST("/uploads/:kind", h.Upload.Store)

	users := e.Group("/v1/admin/users")
	users.Use(middleware.JWTAuth(secret))
	users.Use(middleware.RequireRole(model.RoleAdmin))
	users.GET("", h.AdminUser.List)
	users.POST("", h.AdminUser.Create)
	users.PUT("/:id", h.AdminUser.Update)
	users.DELETE("/:id", h.AdminUser.Delete)
}

// registerOwner exposes dashboards and report exports for the owner and
// admin roles.
func registerOwner(e *echo.Echo, secret string, h Handlers) {
	g := e.Group("/v1/owner")
	g.Use(middleware.JWTAuth(secret))
	g.Use(middleware.RequireRole(model.RoleOwner, model.RoleAdmin))

	g.GET("/dashboard", h.OwnerReport.Dashboard)
	g.GET("/charts", h.OwnerReport.Charts)
	g.GET("/booking-report", h.OwnerReport.BookingReport)
	g.GET("/booking-report/pdf", h.OwnerReport.BookingReportPDF)
	g.GET("/visit-stats", h.OwnerReport.VisitStats)
	g.GET("/visit-stats/pdf", h.OwnerReport.VisitStatsPDF)
}
