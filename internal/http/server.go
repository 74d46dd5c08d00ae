package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"friterie/internal/auth"
	"friterie/internal/domain"
	"friterie/internal/payment"
	"friterie/internal/pricing"
	"friterie/internal/repository"
	"friterie/internal/service"
)

// Services bundles everything the HTTP surface exposes.
type Services struct {
	Checkout  *service.CheckoutService
	Kiosk     *service.KioskService
	Orders    *service.OrderService
	Catalog   *service.CatalogService
	Terminals *service.TerminalService
	Settings  *service.SettingsService
	Webhooks  *service.WebhookService
}

// AdminCredentials is the single staff login accepted by /admin/login.
type AdminCredentials struct {
	Email    string
	Password string
}

type Server struct {
	engine *gin.Engine
	svc    Services
	auth   *auth.Manager
	admin  AdminCredentials
	log    *slog.Logger
}

func NewServer(svc Services, authMgr *auth.Manager, admin AdminCredentials, log *slog.Logger) *Server {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Kiosk-Token"},
		ExposeHeaders:    []string{"Content-Length"},
		MaxAge:           12 * time.Hour,
	}))
	s := &Server{engine: r, svc: svc, auth: authMgr, admin: admin, log: log}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Payment provider deliveries; fixed path, raw body
	s.engine.POST("/webhooks/stripe", s.stripeWebhook)

	v1 := s.engine.Group("/api/v1")
	{
		v1.GET("/products", s.listAvailableProducts)
		v1.GET("/settings/click-collect", s.clickCollect)
		v1.POST("/checkout", s.createCheckout)
		v1.GET("/orders/:id", s.getOrder)
		v1.POST("/kiosk/verify", s.verifyKiosk)
		v1.POST("/kiosk/orders", s.createKioskOrder)
		v1.POST("/admin/login", s.adminLogin)

		admin := v1.Group("/admin", s.requireAdmin)
		{
			admin.GET("/orders", s.listOrders)
			admin.POST("/orders/:id/status", s.updateOrderStatus)
			admin.POST("/orders/:id/paid", s.markOrderPaid)

			admin.GET("/products", s.listProducts)
			admin.POST("/products", s.createProduct)
			admin.PUT("/products/:id", s.updateProduct)
			admin.PATCH("/products/:id/availability", s.setProductAvailability)
			admin.DELETE("/products/:id", s.deleteProduct)

			admin.GET("/terminals", s.listTerminals)
			admin.POST("/terminals", s.activateTerminal)
			admin.PATCH("/terminals/:id", s.toggleTerminal)
			admin.DELETE("/terminals/:id", s.deleteTerminal)

			admin.PUT("/settings/click-collect", s.setClickCollect)
		}
	}
}

// requireAdmin guards staff routes with a bearer token.
func (s *Server) requireAdmin(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}
	claims, err := s.auth.Validate(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	c.Set("admin_email", claims.Email)
	c.Next()
}

func mapErrorToStatus(err error) int {
	var (
		illegal     *domain.IllegalTransitionError
		unknown     *pricing.UnknownItemError
		unavailable *pricing.UnavailableItemError
	)
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, pricing.ErrInvalidQuantity),
		errors.As(err, &unknown),
		errors.As(err, &unavailable),
		errors.Is(err, payment.ErrInvalidSignature):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUnauthorizedTerminal):
		return http.StatusUnauthorized
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &illegal), errors.Is(err, repository.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, service.ErrOrderCreation), errors.Is(err, service.ErrCheckoutSession):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
