package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"friterie/internal/domain"
)

// Order dashboard

// @Summary List orders for the dashboard
// @Tags admin
// @Produce json
// @Param status query string false "Status filter" Enums(pending_payment, paid, preparing, ready)
// @Success 200 {array} domain.Order
// @Security BearerAuth
// @Router /admin/orders [get]
func (s *Server) listOrders(c *gin.Context) {
	var status *domain.OrderStatus
	if v := c.Query("status"); v != "" {
		st := domain.OrderStatus(v)
		if !st.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
			return
		}
		status = &st
	}
	list, err := s.svc.Orders.List(c, status)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

type updateStatusReq struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

// @Summary Advance an order through the status machine
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param input body updateStatusReq true "Target status"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /admin/orders/{id}/status [post]
func (s *Server) updateOrderStatus(c *gin.Context) {
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if err := s.svc.Orders.UpdateStatus(c, c.Param("id"), req.Status); err != nil {
		// staff see the concrete illegal-transition reason
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Confirm manual payment of a kiosk order
// @Tags admin
// @Produce json
// @Param id path string true "Order ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /admin/orders/{id}/paid [post]
func (s *Server) markOrderPaid(c *gin.Context) {
	if err := s.svc.Orders.MarkAsPaid(c, c.Param("id")); err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Catalog CRUD

type productReq struct {
	Category    domain.ProductCategory `json:"category" binding:"required"`
	Name        string                 `json:"name" binding:"required"`
	Description string                 `json:"description"`
	PriceM      *int64                 `json:"price_m"`
	PriceL      *int64                 `json:"price_l"`
	PriceXL     *int64                 `json:"price_xl"`
	PriceSmall  *int64                 `json:"price_small"`
	PriceLarge  *int64                 `json:"price_large"`
	Price       *int64                 `json:"price"`
	IsAvailable bool                   `json:"is_available"`
	SortOrder   int                    `json:"sort_order"`
}

func (r productReq) toDomain(id string) domain.Product {
	return domain.Product{
		ID:          id,
		Category:    r.Category,
		Name:        r.Name,
		Description: r.Description,
		PriceM:      r.PriceM,
		PriceL:      r.PriceL,
		PriceXL:     r.PriceXL,
		PriceSmall:  r.PriceSmall,
		PriceLarge:  r.PriceLarge,
		Price:       r.Price,
		IsAvailable: r.IsAvailable,
		SortOrder:   r.SortOrder,
	}
}

// @Summary List all products
// @Tags admin
// @Produce json
// @Param category query string false "Category filter"
// @Success 200 {array} domain.Product
// @Security BearerAuth
// @Router /admin/products [get]
func (s *Server) listProducts(c *gin.Context) {
	var category *domain.ProductCategory
	if v := c.Query("category"); v != "" {
		cat := domain.ProductCategory(v)
		category = &cat
	}
	list, err := s.svc.Catalog.List(c, category)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Create product
// @Tags admin
// @Accept json
// @Produce json
// @Param input body productReq true "Product"
// @Success 201 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /admin/products [post]
func (s *Server) createProduct(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p, err := s.svc.Catalog.Create(c, req.toDomain(""))
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary Update product
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param input body productReq true "Product"
// @Success 200 {object} domain.Product
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /admin/products/{id} [put]
func (s *Server) updateProduct(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p, err := s.svc.Catalog.Update(c, req.toDomain(c.Param("id")))
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

type availabilityReq struct {
	Available *bool `json:"available" binding:"required"`
}

// @Summary Toggle product availability
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param input body availabilityReq true "Availability"
// @Success 200 {object} domain.Product
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /admin/products/{id}/availability [patch]
func (s *Server) setProductAvailability(c *gin.Context) {
	var req availabilityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p, err := s.svc.Catalog.SetAvailability(c, c.Param("id"), *req.Available)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Delete product
// @Tags admin
// @Param id path string true "Product ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /admin/products/{id} [delete]
func (s *Server) deleteProduct(c *gin.Context) {
	if err := s.svc.Catalog.Delete(c, c.Param("id")); err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Kiosk terminals

// @Summary List kiosk terminals
// @Tags admin
// @Produce json
// @Success 200 {array} domain.KioskToken
// @Security BearerAuth
// @Router /admin/terminals [get]
func (s *Server) listTerminals(c *gin.Context) {
	list, err := s.svc.Terminals.List(c)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

type activateTerminalReq struct {
	Name string `json:"name" binding:"required"`
}

// @Summary Activate a new kiosk terminal
// @Tags admin
// @Accept json
// @Produce json
// @Param input body activateTerminalReq true "Terminal name"
// @Success 201 {object} domain.KioskToken
// @Security BearerAuth
// @Router /admin/terminals [post]
func (s *Server) activateTerminal(c *gin.Context) {
	var req activateTerminalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	t, err := s.svc.Terminals.Activate(c, req.Name)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, t)
}

type toggleTerminalReq struct {
	Active *bool `json:"active" binding:"required"`
}

// @Summary Toggle a kiosk terminal
// @Tags admin
// @Accept json
// @Param id path string true "Terminal ID"
// @Param input body toggleTerminalReq true "Active flag"
// @Success 204
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /admin/terminals/{id} [patch]
func (s *Server) toggleTerminal(c *gin.Context) {
	var req toggleTerminalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if err := s.svc.Terminals.SetActive(c, c.Param("id"), *req.Active); err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Delete a kiosk terminal
// @Tags admin
// @Param id path string true "Terminal ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /admin/terminals/{id} [delete]
func (s *Server) deleteTerminal(c *gin.Context) {
	if err := s.svc.Terminals.Delete(c, c.Param("id")); err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Settings

type clickCollectReq struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// @Summary Toggle click-and-collect
// @Tags admin
// @Accept json
// @Param input body clickCollectReq true "Switch"
// @Success 204
// @Security BearerAuth
// @Router /admin/settings/click-collect [put]
func (s *Server) setClickCollect(c *gin.Context) {
	var req clickCollectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if err := s.svc.Settings.SetClickCollect(c, *req.Enabled); err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
