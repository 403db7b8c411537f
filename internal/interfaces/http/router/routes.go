package router

import (
	"github.com/gin-gonic/gin"

	"github.com/storefront/backend/internal/interfaces/http/handler"
)

// Handlers groups every API handler
type Handlers struct {
	Auth      *handler.AuthHandler
	Users     *handler.UserHandler
	Category  *handler.CategoryHandler
	Product   *handler.ProductHandler
	Address   *handler.AddressHandler
	Cart      *handler.CartHandler
	Order     *handler.OrderHandler
	Complaint *handler.ComplaintHandler
	Outbox    *handler.OutboxHandler
}

// Guards are the access middlewares applied per route group. Nil guards
// are skipped.
type Guards struct {
	// RequireAuth rejects requests without a valid access token
	RequireAuth gin.HandlerFunc
	// OptionalAuth reads the access token when one is sent
	OptionalAuth gin.HandlerFunc
	// RequireAdmin rejects callers without the admin role
	RequireAdmin gin.HandlerFunc
	// Owner resolves the user or anonymous session a request acts for
	Owner gin.HandlerFunc
	// AuthRateLimit throttles credential endpoints
	AuthRateLimit gin.HandlerFunc
}

func chain(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

// Storefront returns the route groups of the shop API
func Storefront(h Handlers, g Guards) []RouteRegistrar {
	admin := chain(g.RequireAuth, g.RequireAdmin)
	authed := chain(g.RequireAuth)
	owned := chain(g.OptionalAuth, g.Owner)

	with := func(mw []gin.HandlerFunc, final gin.HandlerFunc) []gin.HandlerFunc {
		out := make([]gin.HandlerFunc, 0, len(mw)+1)
		return append(append(out, mw...), final)
	}

	authRoutes := NewDomainGroup("auth", "/auth")
	authRoutes.POST("/sign-up", with(chain(g.AuthRateLimit), h.Auth.SignUp)...)
	authRoutes.POST("/sign-in", with(chain(g.AuthRateLimit), h.Auth.SignIn)...)
	authRoutes.POST("/sign-out", with(authed, h.Auth.SignOut)...)
	authRoutes.GET("/me", with(authed, h.Auth.Me)...)
	authRoutes.PUT("/me", with(authed, h.Auth.UpdateMe)...)
	authRoutes.POST("/change-password", with(authed, h.Auth.ChangePassword)...)

	userRoutes := NewDomainGroup("users", "/users")
	userRoutes.GET("", h.Users.List)
	userRoutes.GET("/:id", h.Users.GetByID)
	userRoutes.POST("", with(admin, h.Users.Create)...)
	userRoutes.PUT("/:id", with(admin, h.Users.Update)...)
	userRoutes.DELETE("/:id", with(admin, h.Users.Delete)...)

	categoryRoutes := NewDomainGroup("categories", "/categories")
	categoryRoutes.GET("", h.Category.List)
	categoryRoutes.GET("/:id", h.Category.GetByID)
	categoryRoutes.POST("", with(admin, h.Category.Create)...)
	categoryRoutes.PUT("/:id", with(admin, h.Category.Update)...)
	categoryRoutes.DELETE("/:id", with(admin, h.Category.Delete)...)

	productRoutes := NewDomainGroup("products", "/products")
	productRoutes.GET("", h.Product.List)
	productRoutes.GET("/:id", h.Product.GetByID)
	productRoutes.POST("", with(admin, h.Product.Create)...)
	productRoutes.PUT("/:id", with(admin, h.Product.Update)...)
	productRoutes.DELETE("/:id", with(admin, h.Product.Delete)...)

	addressRoutes := NewDomainGroup("addresses", "/addresses").Use(owned...)
	addressRoutes.GET("", h.Address.Get)
	addressRoutes.POST("", h.Address.Create)
	addressRoutes.PUT("", h.Address.Update)
	addressRoutes.GET("/:id", h.Address.GetByID)

	cartRoutes := NewDomainGroup("cart", "/cart").Use(owned...)
	cartRoutes.GET("", h.Cart.View)
	cartRoutes.POST("", h.Cart.AddItem)
	cartRoutes.DELETE("", h.Cart.Clear)
	cartRoutes.PUT("/:item_id", h.Cart.UpdateItem)
	cartRoutes.DELETE("/:item_id", h.Cart.RemoveItem)

	orderRoutes := NewDomainGroup("order", "/order")
	orderRoutes.POST("", with(owned, h.Order.Place)...)
	orderRoutes.GET("", with(authed, h.Order.List)...)
	orderRoutes.GET("/anonymous", with(admin, h.Order.ListAnonymous)...)
	orderRoutes.GET("/cancelled", with(admin, h.Order.ListCancelled)...)
	orderRoutes.GET("/:id", with(owned, h.Order.Get)...)
	orderRoutes.PATCH("/:id/status", with(owned, h.Order.UpdateStatus)...)
	orderRoutes.DELETE("/:id", with(owned, h.Order.Cancel)...)

	complaintRoutes := NewDomainGroup("complaints", "/complaints").Use(authed...)
	complaintRoutes.GET("", h.Complaint.List)
	complaintRoutes.POST("", h.Complaint.Create)
	complaintRoutes.GET("/:id", h.Complaint.GetByID)
	complaintRoutes.PATCH("/:id/status", h.Complaint.UpdateStatus)

	adminRoutes := NewDomainGroup("admin", "/admin").Use(admin...)
	outboxRoutes := adminRoutes.Group("outbox", "/outbox")
	outboxRoutes.GET("/stats", h.Outbox.Stats)
	outboxRoutes.GET("/dead", h.Outbox.ListDead)
	outboxRoutes.POST("/dead/retry-all", h.Outbox.RequeueAll)
	outboxRoutes.GET("/:id", h.Outbox.Get)
	outboxRoutes.POST("/:id/retry", h.Outbox.Requeue)

	return []RouteRegistrar{
		authRoutes,
		userRoutes,
		categoryRoutes,
		productRoutes,
		addressRoutes,
		cartRoutes,
		orderRoutes,
		complaintRoutes,
		adminRoutes,
	}
}
