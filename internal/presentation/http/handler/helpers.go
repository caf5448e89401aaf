package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sigortaci/acente-api/internal/domain/repository"
	"github.com/sigortaci/acente-api/internal/presentation/http/middleware"
	"github.com/sigortaci/acente-api/pkg/apperror"
	"github.com/sigortaci/acente-api/pkg/pagination"
	"github.com/sigortaci/acente-api/pkg/utils"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get(middleware.ContextUserID)
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// ParseID reads a positive integer path parameter
func ParseID(c *gin.Context, param, resource string) (uint, error) {
	id, ok := utils.ParseID(c.Param(param))
	if !ok {
		return 0, apperror.NewBadRequestError("Invalid " + resource + " ID")
	}
	return id, nil
}

// optionalUint reads a positive integer query parameter
func optionalUint(c *gin.Context, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, ok := utils.ParseID(raw)
	if !ok {
		return nil, apperror.NewFieldError(name, "must be a positive integer")
	}
	return &id, nil
}

// dateRange reads start_date and end_date; both bounds are inclusive
func dateRange(c *gin.Context) (repository.DateRange, error) {
	var rng repository.DateRange

	from, err := utils.ParseOptionalDate(c.Query("start_date"))
	if err != nil {
		return rng, apperror.NewFieldError("start_date", "must be a date in YYYY-MM-DD format")
	}
	to, err := utils.ParseOptionalDate(c.Query("end_date"))
	if err != nil {
		return rng, apperror.NewFieldError("end_date", "must be a date in YYYY-MM-DD format")
	}
	if from != nil && to != nil && to.Before(*from) {
		return rng, apperror.NewFieldError("end_date", "must not be before start_date")
	}

	rng.From, rng.To = from, to
	return rng, nil
}

// pageParams returns nil unless the client asked for a page
func pageParams(c *gin.Context) *pagination.PaginationParams {
	return pagination.FromQuery(c.Query("page"), c.Query("per_page"))
}
