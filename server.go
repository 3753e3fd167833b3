// server.go

package main

import (
	"context"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"groco-backend/internal/auth"
	"groco-backend/internal/cart"
	"groco-backend/internal/catalog"
	"groco-backend/internal/config"
	"groco-backend/internal/identity"
	"groco-backend/internal/kv"
	"groco-backend/internal/logging"
	"groco-backend/internal/order"
	"groco-backend/internal/storage"
)

// App is the storefront state shared by every handler.
type App struct {
	cfg      *config.Config
	log      *zap.Logger
	catalog  *catalog.Catalog
	store    *storage.Store
	identity *identity.Service
	cart     *cart.Cart
	orders   *order.Service
	tokens   *auth.Tokens
}

func newApp(ctx context.Context, cfg *config.Config, backend kv.Backend, log *zap.Logger) (*App, error) {
	cat, err := catalog.Load(cfg.Shop.CatalogPath)
	if err != nil {
		return nil, err
	}
	store := storage.New(backend, log)
	c := cart.New(ctx, store, log)
	return &App{
		cfg:      cfg,
		log:      log,
		catalog:  cat,
		store:    store,
		identity: identity.New(ctx, store, log),
		cart:     c,
		orders:   order.New(store, c, log),
		tokens:   auth.NewTokens(cfg.Auth.JWTSecret, cfg.GetTokenTTL()),
	}, nil
}

func (a *App) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.Middleware(a.log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")

	// Auth
	api.POST("/signup", a.signup)
	api.POST("/login", a.login)

	// Products
	api.GET("/products", a.listProducts)
	api.GET("/products/:id", a.getProduct)
	api.GET("/categories", a.listCategories)

	// Cart works without a session, as in the storefront
	api.GET("/cart", a.getCart)
	api.POST("/cart", a.addToCart)
	api.PUT("/cart/:productId", a.updateCart)
	api.DELETE("/cart/:productId", a.removeCartItem)
	api.POST("/cart/clear", a.clearCart)

	authed := api.Group("", a.AuthMiddleware)
	{
		authed.POST("/logout", a.logout)
		authed.GET("/profile", a.getProfile)

		// Orders
		authed.POST("/checkout", a.checkout)
		authed.GET("/orders", a.getOrders)
		authed.GET("/orders/:orderId", a.getOrder)
	}

	return r
}

// AuthMiddleware accepts a bearer token only while its user holds the session.
func (a *App) AuthMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	tokenStr := strings.TrimPrefix(header, "Bearer ")
	if header == "" || tokenStr == header {
		c.AbortWithStatusJSON(401, gin.H{"error": "missing token"})
		return
	}
	userID, err := a.tokens.Parse(tokenStr)
	if err != nil {
		c.AbortWithStatusJSON(401, gin.H{"error": "invalid token"})
		return
	}
	user, ok := a.identity.Current()
	if !ok || user.ID != userID {
		c.AbortWithStatusJSON(401, gin.H{"error": "session ended"})
		return
	}
	c.Set("userId", userID)
	c.Set("user", user)
	c.Next()
}
