package httpapi

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"friterie/internal/domain"
	"friterie/internal/payment"
	"friterie/internal/service"
)

const defaultLocale = "fr"

// Public handlers

// @Summary List available products
// @Tags catalog
// @Produce json
// @Param category query string false "Category filter" Enums(dish, entry, drink, dessert)
// @Success 200 {array} domain.Product
// @Router /products [get]
func (s *Server) listAvailableProducts(c *gin.Context) {
	var category *domain.ProductCategory
	if v := c.Query("category"); v != "" {
		cat := domain.ProductCategory(v)
		category = &cat
	}
	list, err := s.svc.Catalog.ListAvailable(c, category)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Click-and-collect switch
// @Tags settings
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /settings/click-collect [get]
func (s *Server) clickCollect(c *gin.Context) {
	enabled, err := s.svc.Settings.ClickCollectEnabled(c)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": enabled})
}

type checkoutReq struct {
	Items         domain.CartItems `json:"items" binding:"required"`
	CustomerName  string           `json:"customer_name" binding:"required"`
	CustomerPhone string           `json:"customer_phone"`
	Locale        string           `json:"locale"`
}

// @Summary Create a hosted checkout session
// @Tags checkout
// @Accept json
// @Produce json
// @Param input body checkoutReq true "Cart"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /checkout [post]
func (s *Server) createCheckout(c *gin.Context) {
	var req checkoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Locale == "" {
		req.Locale = defaultLocale
	}
	url, err := s.svc.Checkout.CreateSession(c, req.Items, req.CustomerName, req.CustomerPhone, req.Locale)
	if err != nil {
		status := mapErrorToStatus(err)
		if status >= http.StatusInternalServerError || status == http.StatusBadGateway {
			// customers get a generic retry-safe message, not internals
			c.JSON(status, gin.H{"error": "checkout failed, please try again"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// @Summary Get order (status poll)
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [get]
func (s *Server) getOrder(c *gin.Context) {
	o, err := s.svc.Orders.Get(c, c.Param("id"))
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, o)
}

// Kiosk handlers

type kioskVerifyReq struct {
	Token string `json:"token" binding:"required"`
}

// @Summary Verify a kiosk terminal token
// @Tags kiosk
// @Accept json
// @Produce json
// @Param input body kioskVerifyReq true "Token"
// @Success 200 {object} map[string]bool
// @Router /kiosk/verify [post]
func (s *Server) verifyKiosk(c *gin.Context) {
	var req kioskVerifyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	ok, err := s.svc.Kiosk.VerifyToken(c, req.Token)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": ok})
}

type kioskOrderReq struct {
	Items  domain.CartItems `json:"items" binding:"required"`
	Locale string           `json:"locale"`
}

// @Summary Create a kiosk order (no payment)
// @Tags kiosk
// @Accept json
// @Produce json
// @Param X-Kiosk-Token header string true "Terminal credential"
// @Param input body kioskOrderReq true "Cart"
// @Success 201 {object} map[string]int64
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /kiosk/orders [post]
func (s *Server) createKioskOrder(c *gin.Context) {
	token := c.GetHeader("X-Kiosk-Token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": service.ErrUnauthorizedTerminal.Error()})
		return
	}
	var req kioskOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Locale == "" {
		req.Locale = defaultLocale
	}
	number, err := s.svc.Kiosk.CreateOrder(c, req.Items, token, req.Locale)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	// the terminal only ever sees the printable ticket number
	c.JSON(http.StatusCreated, gin.H{"order_number": number})
}

// Webhook handler

// @Summary Stripe webhook deliveries
// @Tags webhooks
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 400 {object} map[string]string
// @Router /webhooks/stripe [post]
func (s *Server) stripeWebhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}
	sig := c.GetHeader("Stripe-Signature")
	if sig == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing signature"})
		return
	}
	if err := s.svc.Webhooks.HandleDelivery(c, body, sig); err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
			return
		}
		// verified event we failed to apply; non-2xx so Stripe retries
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delivery not applied"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// Admin login

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// @Summary Staff login
// @Tags admin
// @Accept json
// @Produce json
// @Param input body loginReq true "Credentials"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /admin/login [post]
func (s *Server) adminLogin(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	emailOK := subtle.ConstantTimeCompare([]byte(req.Email), []byte(s.admin.Email)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.admin.Password)) == 1
	if !emailOK || !passOK {
		c.JSON(http.StatusUnauthorized, gin.H{"error": service.ErrInvalidCredentials.Error()})
		return
	}
	token, err := s.auth.Issue(req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
