package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/glowshop/backend/internal/handlers"
	"github.com/glowshop/backend/internal/service/token"
)

type Deps struct {
	DB             *gorm.DB
	AuthHandler    *handlers.AuthHandler
	ProductHandler *handlers.ProductHandler
	OrderHandler   *handlers.OrderHandler
	HeroHandler    *handlers.HeroHandler
	ContactHandler *handlers.ContactHandler
	UserHandler    *handlers.UserHandler
	SearchHandler  *handlers.SearchHandler
	ServiceHandler *token.TokenService
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.LogOut)
	v1.GET("/search", d.SearchHandler.Search)
	v1.POST("/contact", d.ContactHandler.Create)
	v1.GET("/hero", d.HeroHandler.GetActive)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/bestsellers", d.ProductHandler.GetBestsellers)
	products.GET("/:id", d.ProductHandler.GetProduct)

	me := v1.Group("/me", d.ServiceHandler.AutoRefreshMiddleware)
	me.GET("", d.AuthHandler.Me)
	me.PATCH("", d.AuthHandler.UpdateMe)

	orders := v1.Group("/orders", d.ServiceHandler.AutoRefreshMiddleware)
	orders.POST("", d.OrderHandler.Create)
	orders.GET("", d.OrderHandler.ListMine)
	orders.GET("/:id", d.OrderHandler.Get)

	admin := v1.Group("/admin", d.ServiceHandler.AutoRefreshMiddlewareAdmin)

	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)
	admin.POST("/products/:id/image", d.ProductHandler.UploadImage)

	admin.GET("/orders", d.OrderHandler.AdminList)
	admin.PATCH("/orders/:id/status", d.OrderHandler.UpdateStatus)

	admin.GET("/users", d.UserHandler.List)
	admin.PATCH("/users/:id/role", d.UserHandler.SetRole)

	admin.PUT("/hero", d.HeroHandler.Upsert)
	admin.POST("/hero/image", d.HeroHandler.UploadImage)

	admin.GET("/messages", d.ContactHandler.List)
}
