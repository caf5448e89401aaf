package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sigortaci/acente-api/internal/application/service"
	"github.com/sigortaci/acente-api/internal/presentation/http/dto/request"
	"github.com/sigortaci/acente-api/internal/presentation/http/dto/response"
)

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
	ledgerService   *service.LedgerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService, ledgerService *service.LedgerService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		ledgerService:   ledgerService,
	}
}

// List handles listing customers in Turkish alphabetical order
func (h *CustomerHandler) List(c *gin.Context) {
	result, err := h.customerService.ListCustomers(c.Request.Context(), pageParams(c), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, result)
}

// Create handles creating a customer
func (h *CustomerHandler) Create(c *gin.Context) {
	var req request.CustomerRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), &service.CreateCustomerInput{
		Name:       req.Name,
		NationalID: req.NationalID,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, customer)
}

// Get handles getting a single customer
func (h *CustomerHandler) Get(c *gin.Context) {
	id, err := ParseID(c, "id", "customer")
	if err != nil {
		response.Error(c, err)
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, customer)
}

// Update handles updating a customer
func (h *CustomerHandler) Update(c *gin.Context) {
	id, err := ParseID(c, "id", "customer")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.CustomerRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), &service.UpdateCustomerInput{
		ID:         id,
		Name:       req.Name,
		NationalID: req.NationalID,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, customer)
}

// Delete handles deleting a customer
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, err := ParseID(c, "id", "customer")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Balance handles GET /customers/:id/balance
func (h *CustomerHandler) Balance(c *gin.Context) {
	id, err := ParseID(c, "id", "customer")
	if err != nil {
		response.Error(c, err)
		return
	}
	rng, err := dateRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	balance, err := h.ledgerService.Balance(c.Request.Context(), id, rng)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, balance)
}

// Ledger handles GET /customers/:id/ledger
func (h *CustomerHandler) Ledger(c *gin.Context) {
	id, err := ParseID(c, "id", "customer")
	if err != nil {
		response.Error(c, err)
		return
	}
	rng, err := dateRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	ledger, err := h.ledgerService.Ledger(c.Request.Context(), id, rng)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, ledger)
}
