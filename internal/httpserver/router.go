package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/dimalbek/farmer-market/internal/middleware"
	"github.com/dimalbek/farmer-market/internal/models"
	"github.com/dimalbek/farmer-market/internal/ws"
)

type Deps struct {
	Auth     *AuthHTTP
	Products *ProductHTTP
	Cart     *CartHTTP
	Orders   *OrderHTTP
	Checkout *CheckoutHTTP
	Webhook  *WebhookHTTP
	Chats    *ChatHTTP
	Admin    *AdminHTTP
	WSChat   *ws.ChatHandler

	JWTSecret []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	v1 := e.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)

	// Gateway callback; authenticated by its signature header, not a JWT.
	v1.POST("/payments/webhook", d.Webhook.HandleWebhook)

	products := v1.Group("/products")
	products.GET("", d.Products.GetProducts)
	products.GET("/:id", d.Products.GetProduct)

	farmerProducts := v1.Group("/products",
		middleware.RequireAuth(d.JWTSecret), middleware.RequireRole(models.RoleFarmer))
	farmerProducts.POST("", d.Products.CreateProduct)
	farmerProducts.PATCH("/:id", d.Products.PatchProduct)
	farmerProducts.DELETE("/:id", d.Products.DeleteProduct)

	cart := v1.Group("/cart",
		middleware.RequireAuth(d.JWTSecret), middleware.RequireRole(models.RoleBuyer))
	cart.GET("", d.Cart.GetCart)
	cart.POST("/items", d.Cart.AddToCart)
	cart.PATCH("/items", d.Cart.UpdateQuantity)
	cart.DELETE("/items/:product_id", d.Cart.RemoveItem)
	cart.DELETE("", d.Cart.ClearCart)

	orders := v1.Group("/orders", middleware.RequireAuth(d.JWTSecret))
	orders.GET("", d.Orders.ListOrders)
	orders.GET("/:id", d.Orders.GetOrder)
	orders.PATCH("/:id/status", d.Orders.UpdateStatus)

	checkout := v1.Group("/checkout",
		middleware.RequireAuth(d.JWTSecret), middleware.RequireRole(models.RoleBuyer))
	checkout.POST("/session", d.Checkout.CreateSession)

	chats := v1.Group("/chats", middleware.RequireAuth(d.JWTSecret))
	chats.POST("/:farmer_id", d.Chats.StartChat)
	chats.GET("", d.Chats.ListChats)
	chats.GET("/:id", d.Chats.GetChat)

	admin := v1.Group("/admin",
		middleware.RequireAuth(d.JWTSecret), middleware.RequireRole(models.RoleAdmin))
	admin.GET("/farmers", d.Admin.ListFarmers)
	admin.PATCH("/farmers/:id/approve", d.Admin.ApproveFarmer)
	admin.PATCH("/farmers/:id/reject", d.Admin.RejectFarmer)

	// Token travels as a query parameter; browsers cannot set headers on a
	// websocket dial.
	e.GET("/ws/chat/:id", d.WSChat.Serve)
}
