package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sigortaci/acente-api/internal/application/service"
	"github.com/sigortaci/acente-api/internal/domain/enum"
	"github.com/sigortaci/acente-api/internal/domain/repository"
	"github.com/sigortaci/acente-api/internal/presentation/http/dto/request"
	"github.com/sigortaci/acente-api/internal/presentation/http/dto/response"
	"github.com/sigortaci/acente-api/pkg/apperror"
)

// AccountingHandler handles Gelir/Gider records
type AccountingHandler struct {
	accountingService *service.AccountingService
}

// NewAccountingHandler creates a new accounting handler
func NewAccountingHandler(accountingService *service.AccountingService) *AccountingHandler {
	return &AccountingHandler{accountingService: accountingService}
}

// List handles listing records, newest first
func (h *AccountingHandler) List(c *gin.Context) {
	filter := repository.AccountingFilter{
		PlateNumber: c.Query("plate_number"),
		Search:      c.Query("search"),
		Pagination:  pageParams(c),
	}

	var err error
	if filter.CustomerID, err = optionalUint(c, "customer_id"); err != nil {
		response.Error(c, err)
		return
	}
	if filter.PolicyID, err = optionalUint(c, "policy_id"); err != nil {
		response.Error(c, err)
		return
	}
	if raw := c.Query("type"); raw != "" {
		typ, err := enum.ParseAccountingType(raw)
		if err != nil {
			response.Error(c, apperror.NewFieldError("type", err.Error()))
			return
		}
		filter.Type = &typ
	}
	if filter.DateRange, err = dateRange(c); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.accountingService.ListRecords(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, result)
}

// Create handles creating a record
func (h *AccountingHandler) Create(c *gin.Context) {
	input, err := recordInput(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	record, err := h.accountingService.CreateRecord(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, record)
}

// Get handles getting a single record
func (h *AccountingHandler) Get(c *gin.Context) {
	id, err := ParseID(c, "id", "accounting record")
	if err != nil {
		response.Error(c, err)
		return
	}

	record, err := h.accountingService.GetRecord(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, record)
}

// Update handles overwriting a record
func (h *AccountingHandler) Update(c *gin.Context) {
	id, err := ParseID(c, "id", "accounting record")
	if err != nil {
		response.Error(c, err)
		return
	}
	input, err := recordInput(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	record, err := h.accountingService.UpdateRecord(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, record)
}

// Delete handles deleting a record
func (h *AccountingHandler) Delete(c *gin.Context) {
	id, err := ParseID(c, "id", "accounting record")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.accountingService.DeleteRecord(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

func recordInput(c *gin.Context) (*service.RecordInput, error) {
	var req request.AccountingRequest
	if err := request.BindJSON(c, &req); err != nil {
		return nil, err
	}
	day, err := req.Date()
	if err != nil {
		return nil, err
	}

	return &service.RecordInput{
		CustomerID:      req.CustomerID,
		PolicyID:        req.PolicyID,
		PlateNumber:     req.PlateNumber,
		TransactionDate: day,
		Amount:          *req.Amount,
		Type:            req.Type,
		Description:     req.Description,
	}, nil
}
