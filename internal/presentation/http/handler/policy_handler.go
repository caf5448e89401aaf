package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sigortaci/acente-api/internal/application/service"
	"github.com/sigortaci/acente-api/internal/domain/enum"
	"github.com/sigortaci/acente-api/internal/domain/repository"
	"github.com/sigortaci/acente-api/internal/presentation/http/dto/request"
	"github.com/sigortaci/acente-api/internal/presentation/http/dto/response"
	"github.com/sigortaci/acente-api/pkg/apperror"
)

// PolicyHandler handles policy-related HTTP requests
type PolicyHandler struct {
	policyService *service.PolicyService
}

// NewPolicyHandler creates a new policy handler
func NewPolicyHandler(policyService *service.PolicyService) *PolicyHandler {
	return &PolicyHandler{policyService: policyService}
}

// List handles listing policies
// @Summary List Policies
// @Tags policies
// @Security BearerAuth
// @Produce json
// @Param search query string false "Policy number, plate or customer"
// @Param status query string false "Aktif, Pasif or İptal"
// @Param type query string false "Policy type"
// @Param customer_id query int false "Customer"
// @Param start_date query string false "start_date lower bound (YYYY-MM-DD)"
// @Param end_date query string false "start_date upper bound (YYYY-MM-DD)"
// @Param page query int false "Page number; omit for every row"
// @Success 200 {object} response.APIResponse
// @Router /policies [get]
func (h *PolicyHandler) List(c *gin.Context) {
	filter, err := policyFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.policyService.ListPolicies(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, result)
}

func policyFilter(c *gin.Context) (repository.PolicyFilter, error) {
	filter := repository.PolicyFilter{
		Search:     c.Query("search"),
		Pagination: pageParams(c),
	}

	if raw := c.Query("status"); raw != "" {
		status, err := enum.ParsePolicyStatus(raw)
		if err != nil {
			return filter, apperror.NewFieldError("status", err.Error())
		}
		filter.Status = &status
	}
	if raw := c.Query("type"); raw != "" {
		typ, err := enum.ParsePolicyType(raw)
		if err != nil {
			return filter, apperror.NewFieldError("type", err.Error())
		}
		filter.Type = &typ
	}

	customerID, err := optionalUint(c, "customer_id")
	if err != nil {
		return filter, err
	}
	filter.CustomerID = customerID

	if filter.DateRange, err = dateRange(c); err != nil {
		return filter, err
	}
	return filter, nil
}

// Create handles creating a policy
// @Summary Create Policy
// @Description Creates a policy. An empty policy_number is generated as POL-<year>-<seq>.
// @Tags policies
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.PolicyRequest true "Policy"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /policies [post]
func (h *PolicyHandler) Create(c *gin.Context) {
	var req request.PolicyRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	start, end, err := req.Dates()
	if err != nil {
		response.Error(c, err)
		return
	}

	input := &service.CreatePolicyInput{
		PolicyNumber: req.PolicyNumber,
		CustomerID:   req.CustomerID,
		PlateNumber:  req.PlateNumber,
		StartDate:    start,
		EndDate:      end,
		Premium:      *req.Premium,
		Type:         req.Type,
		Description:  req.Description,
	}
	if req.Status != nil {
		input.Status = *req.Status
	}
	if req.Files != nil {
		input.Files = fileInputs(*req.Files)
	}

	policy, err := h.policyService.CreatePolicy(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, policy)
}

// NextNumber previews the number the next generated policy would get
func (h *PolicyHandler) NextNumber(c *gin.Context) {
	year := 0
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, apperror.NewFieldError("year", "must be a number"))
			return
		}
		year = y
	}

	number, err := h.policyService.NextPolicyNumber(c.Request.Context(), year)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"policy_number": number})
}

// Get handles getting a single policy with its files
func (h *PolicyHandler) Get(c *gin.Context) {
	id, err := ParseID(c, "id", "policy")
	if err != nil {
		response.Error(c, err)
		return
	}

	policy, err := h.policyService.GetPolicy(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, policy)
}

// Update handles overwriting a policy
func (h *PolicyHandler) Update(c *gin.Context) {
	id, err := ParseID(c, "id", "policy")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.PolicyRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	start, end, err := req.Dates()
	if err != nil {
		response.Error(c, err)
		return
	}

	input := &service.UpdatePolicyInput{
		ID:           id,
		PolicyNumber: req.PolicyNumber,
		CustomerID:   req.CustomerID,
		PlateNumber:  req.PlateNumber,
		StartDate:    start,
		EndDate:      end,
		Premium:      *req.Premium,
		Type:         req.Type,
		Description:  req.Description,
	}
	// absent status keeps the stored one
	if req.Status != nil {
		input.Status = *req.Status
	}
	if req.Files != nil {
		files := fileInputs(*req.Files)
		input.Files = &files
	}

	policy, err := h.policyService.UpdatePolicy(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, policy)
}

// Delete handles deleting a policy and its files
func (h *PolicyHandler) Delete(c *gin.Context) {
	id, err := ParseID(c, "id", "policy")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.policyService.DeletePolicy(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

func fileInputs(in []request.PolicyFileRequest) []service.PolicyFileInput {
	out := make([]service.PolicyFileInput, 0, len(in))
	for _, f := range in {
		out = append(out, service.PolicyFileInput{
			Name:     f.Name,
			URL:      f.URL,
			MimeType: f.MimeType,
			Size:     f.Size,
		})
	}
	return out
}
