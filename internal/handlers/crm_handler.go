package handlers

import (
	"net/http"
	"strconv"

	"github.com/D3konR3kon/alx-backend-graphql-crm/internal/dto"
	"github.com/D3konR3kon/alx-backend-graphql-crm/internal/models"
	"github.com/D3konR3kon/alx-backend-graphql-crm/internal/repository"
	"github.com/D3konR3kon/alx-backend-graphql-crm/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CRMHandler struct {
	svc service.CRMService
	log *zap.Logger
}

func NewCRMHandler(svc service.CRMService, log *zap.Logger) *CRMHandler {
	return &CRMHandler{svc: svc, log: log}
}

// Hello answers the ping query with the fixed greeting.
func (h *CRMHandler) Hello(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HelloResponse{Data: dto.HelloData{Hello: service.HelloMessage}})
}

func (h *CRMHandler) CreateCustomer(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid create customer request", zap.Error(err))
		c.JSON(http.StatusOK, dto.CustomerResponse{Errors: []string{"Invalid request body"}})
		return
	}

	p := h.svc.CreateCustomer(c.Request.Context(), service.CustomerInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	c.JSON(http.StatusOK, dto.CustomerResponse{
		Customer: p.Customer,
		Message:  p.Message,
		Errors:   dto.Errs(p.Errors),
	})
}

func (h *CRMHandler) BulkCreateCustomers(c *gin.Context) {
	var req dto.BulkCreateCustomersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid bulk create customers request", zap.Error(err))
		c.JSON(http.StatusOK, dto.BulkCustomersResponse{
			Customers: []*models.Customer{},
			Errors:    []string{"Invalid request body"},
		})
		return
	}

	inputs := make([]service.CustomerInput, 0, len(req.Customers))
	for _, in := range req.Customers {
		inputs = append(inputs, service.CustomerInput{
			Name:  in.Name,
			Email: in.Email,
			Phone: in.Phone,
		})
	}

	p := h.svc.BulkCreateCustomers(c.Request.Context(), inputs)
	customers := p.Customers
	if customers == nil {
		customers = []*models.Customer{}
	}
	c.JSON(http.StatusOK, dto.BulkCustomersResponse{
		Customers: customers,
		Message:   p.Message,
		Errors:    dto.Errs(p.Errors),
	})
}

func (h *CRMHandler) CreateProduct(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid create product request", zap.Error(err))
		c.JSON(http.StatusOK, dto.ProductResponse{Errors: []string{"Invalid request body"}})
		return
	}

	p := h.svc.CreateProduct(c.Request.Context(), service.ProductInput{
		Name:  req.Name,
		Price: req.Price,
		Stock: req.Stock,
		SKU:   req.SKU,
	})
	c.JSON(http.StatusOK, dto.ProductResponse{
		Product: p.Product,
		Message: p.Message,
		Errors:  dto.Errs(p.Errors),
	})
}

func (h *CRMHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid create order request", zap.Error(err))
		c.JSON(http.StatusOK, dto.OrderResponse{Errors: []string{"Invalid request body"}})
		return
	}

	p := h.svc.CreateOrder(c.Request.Context(), service.OrderInput{
		CustomerID: req.CustomerID,
		ProductIDs: req.ProductIDs,
		OrderDate:  req.OrderDate,
	})
	c.JSON(http.StatusOK, dto.OrderResponse{
		Order:   p.Order,
		Message: p.Message,
		Errors:  dto.Errs(p.Errors),
	})
}

// UpdateLowStock is the reconciliation mutation the background job
// drives when it acts as an ordinary API client.
func (h *CRMHandler) UpdateLowStock(c *gin.Context) {
	p := h.svc.UpdateLowStockProducts(c.Request.Context())

	updated := make([]dto.UpdatedProduct, 0, len(p.UpdatedProducts))
	for _, prod := range p.UpdatedProducts {
		updated = append(updated, dto.UpdatedProduct{
			ID:    prod.ID,
			Name:  prod.Name,
			SKU:   prod.SKU,
			Stock: prod.Stock,
		})
	}

	c.JSON(http.StatusOK, dto.LowStockResponse{
		Success:         p.Success,
		Message:         p.Message,
		UpdatedCount:    p.UpdatedCount,
		UpdatedProducts: updated,
	})
}

func (h *CRMHandler) ListCustomers(c *gin.Context) {
	list, total, err := h.svc.Customers(c.Request.Context(), repository.CustomerListFilter{
		Query:  c.Query("q"),
		Limit:  queryInt(c, "limit"),
		Offset: queryInt(c, "offset"),
	})
	if err != nil {
		h.log.Error("list customers failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Errors: []string{"Failed to list customers"}})
		return
	}
	c.JSON(http.StatusOK, dto.ListResponse[models.Customer]{Data: list, Total: total})
}

func (h *CRMHandler) GetCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cust, err := h.svc.Customer(c.Request.Context(), id)
	if err != nil {
		h.log.Error("get customer failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Errors: []string{"Failed to get customer"}})
		return
	}
	if cust == nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Errors: []string{"Customer not found"}})
		return
	}
	c.JSON(http.StatusOK, cust)
}

func (h *CRMHandler) ListProducts(c *gin.Context) {
	list, total, err := h.svc.Products(c.Request.Context(), repository.ProductListFilter{
		Query:  c.Query("q"),
		Limit:  queryInt(c, "limit"),
		Offset: queryInt(c, "offset"),
	})
	if err != nil {
		h.log.Error("list products failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Errors: []string{"Failed to list products"}})
		return
	}
	c.JSON(http.StatusOK, dto.ListResponse[models.Product]{Data: list, Total: total})
}

func (h *CRMHandler) GetProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	prod, err := h.svc.Product(c.Request.Context(), id)
	if err != nil {
		h.log.Error("get product failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Errors: []string{"Failed to get product"}})
		return
	}
	if prod == nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Errors: []string{"Product not found"}})
		return
	}
	c.JSON(http.StatusOK, prod)
}

func (h *CRMHandler) ListOrders(c *gin.Context) {
	f := repository.OrderListFilter{
		Limit:  queryInt(c, "limit"),
		Offset: queryInt(c, "offset"),
	}
	if raw := c.Query("customer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Errors: []string{"Invalid customer_id"}})
			return
		}
		f.CustomerID = &id
	}

	list, total, err := h.svc.Orders(c.Request.Context(), f)
	if err != nil {
		h.log.Error("list orders failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Errors: []string{"Failed to list orders"}})
		return
	}
	c.JSON(http.StatusOK, dto.ListResponse[models.Order]{Data: list, Total: total})
}

func (h *CRMHandler) GetOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ord, err := h.svc.Order(c.Request.Context(), id)
	if err != nil {
		h.log.Error("get order failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Errors: []string{"Failed to get order"}})
		return
	}
	if ord == nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Errors: []string{"Order not found"}})
		return
	}
	c.JSON(http.StatusOK, ord)
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Errors: []string{"Invalid id"}})
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string) int {
	n, _ := strconv.Atoi(c.Query(key))
	return n
}
