// handlers.go

package main

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"groco-backend/internal/catalog"
	"groco-backend/internal/identity"
	"groco-backend/internal/models"
	"groco-backend/internal/order"
	"groco-backend/internal/validation"
)

func currentUser(c *gin.Context) models.User {
	return c.MustGet("user").(models.User)
}

// fail writes err as JSON, adding per-field messages for validation errors.
func fail(c *gin.Context, status int, err error) {
	var fe validation.FieldErrors
	if errors.As(err, &fe) {
		c.JSON(400, gin.H{"error": "validation failed", "fields": fe})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// ----- Auth -----

func (a *App) signup(c *gin.Context) {
	var req struct {
		Name            string `json:"name"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}
	if err := validation.Signup(req.Name, req.Email, req.Password, req.ConfirmPassword); err != nil {
		fail(c, 400, err)
		return
	}

	user, err := a.identity.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if errors.Is(err, identity.ErrEmailTaken) {
		fail(c, 409, err)
		return
	}
	if err != nil {
		fail(c, 500, err)
		return
	}

	a.respondWithToken(c, user)
}

func (a *App) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}
	if err := validation.Login(req.Email, req.Password); err != nil {
		fail(c, 400, err)
		return
	}

	user, err := a.identity.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, 401, err)
		return
	}

	a.respondWithToken(c, user)
}

func (a *App) respondWithToken(c *gin.Context, user models.User) {
	tokenStr, err := a.tokens.Issue(user.ID)
	if err != nil {
		fail(c, 500, err)
		return
	}
	c.JSON(200, gin.H{"user": user.Public(), "token": tokenStr})
}

func (a *App) logout(c *gin.Context) {
	a.identity.Logout(c.Request.Context())
	c.JSON(200, gin.H{"status": "logged out"})
}

// ----- Products -----

func (a *App) listProducts(c *gin.Context) {
	f := catalog.Filter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
	}
	if raw := c.Query("maxPrice"); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(400, gin.H{"error": "maxPrice must be a number"})
			return
		}
		f.MaxPrice = maxPrice
	}
	c.JSON(200, a.catalog.Filter(f))
}

func (a *App) getProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid product id"})
		return
	}
	p, err := a.catalog.Find(id)
	if err != nil {
		fail(c, 404, err)
		return
	}
	c.JSON(200, p)
}

func (a *App) listCategories(c *gin.Context) {
	c.JSON(200, a.catalog.Categories())
}

// ----- Cart -----

func (a *App) cartView() gin.H {
	return gin.H{
		"items":   a.cart.Lines(),
		"count":   a.cart.Count(),
		"summary": a.cart.Summary(a.cfg.Shop.ShippingFee),
	}
}

func (a *App) getCart(c *gin.Context) {
	c.JSON(200, a.cartView())
}

func (a *App) addToCart(c *gin.Context) {
	var req struct {
		ProductID int `json:"productId"`
		Quantity  int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}
	product, err := a.catalog.Find(req.ProductID)
	if err != nil {
		fail(c, 404, err)
		return
	}

	a.cart.Add(c.Request.Context(), product, req.Quantity)
	c.JSON(200, a.cartView())
}

func (a *App) updateCart(c *gin.Context) {
	prodID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid product id"})
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}

	a.cart.UpdateQuantity(c.Request.Context(), prodID, req.Quantity)
	c.JSON(200, a.cartView())
}

func (a *App) removeCartItem(c *gin.Context) {
	prodID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid product id"})
		return
	}

	a.cart.Remove(c.Request.Context(), prodID)
	c.JSON(200, a.cartView())
}

func (a *App) clearCart(c *gin.Context) {
	a.cart.Clear(c.Request.Context())
	c.JSON(200, gin.H{"status": "cleared"})
}

// ----- Profile -----

func (a *App) getProfile(c *gin.Context) {
	ctx := c.Request.Context()
	user := currentUser(c)
	c.JSON(200, gin.H{
		"user":         user.Public(),
		"orderCount":   len(a.orders.ForUser(ctx, user.ID)),
		"recentOrders": a.orders.Recent(ctx, user.ID, 3),
	})
}

// ----- Orders -----

func (a *App) checkout(c *gin.Context) {
	ctx := c.Request.Context()
	user := currentUser(c)

	var req struct {
		Address       models.Address `json:"address"`
		PaymentMethod string         `json:"paymentMethod"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = models.PaymentCash
	}
	if err := validation.Address(req.Address); err != nil {
		fail(c, 400, err)
		return
	}
	if err := validation.PaymentMethod(req.PaymentMethod); err != nil {
		fail(c, 400, err)
		return
	}

	orderID, err := a.orders.Checkout(ctx, req.Address, req.PaymentMethod, user.ID)
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to create order"})
		return
	}
	if orderID == "" {
		c.JSON(409, gin.H{"error": "cart is empty"})
		return
	}

	placed, err := a.orders.Get(ctx, user.ID, orderID)
	if err != nil {
		fail(c, 500, err)
		return
	}
	c.JSON(200, gin.H{
		"success": true,
		"message": "Order placed successfully",
		"orderId": orderID,
		"order":   placed,
	})
}

func (a *App) getOrders(c *gin.Context) {
	c.JSON(200, a.orders.ForUser(c.Request.Context(), currentUser(c).ID))
}

func (a *App) getOrder(c *gin.Context) {
	o, err := a.orders.Get(c.Request.Context(), currentUser(c).ID, c.Param("orderId"))
	if errors.Is(err, order.ErrNotFound) {
		c.JSON(404, gin.H{"error": "not found"})
		return
	}
	if err != nil {
		fail(c, 500, err)
		return
	}
	c.JSON(200, o)
}
