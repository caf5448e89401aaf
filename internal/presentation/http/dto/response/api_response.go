package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sigortaci/acente-api/pkg/apperror"
	"github.com/sigortaci/acente-api/pkg/pagination"
)

// APIResponse is the success envelope
type APIResponse struct {
	Data       interface{}            `json:"data"`
	Pagination *pagination.Pagination `json:"pagination,omitempty"`
}

// ErrorResponse is the failure envelope
type ErrorResponse struct {
	Error   string                `json:"error"`
	Details []apperror.FieldError `json:"details,omitempty"`
}

// Success sends a success response
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, APIResponse{Data: data})
}

// SuccessWithPagination sends a list. Pagination is omitted when the caller
// asked for every row.
func SuccessWithPagination[T any](c *gin.Context, result *pagination.PaginatedResult[T]) {
	c.JSON(http.StatusOK, APIResponse{
		Data:       result.Items,
		Pagination: result.Pagination,
	})
}

// Error sends an error response. Server errors are attached to the context so
// the access logger records the cause.
func Error(c *gin.Context, err error) {
	appErr := apperror.GetAppError(err)
	if appErr.Code >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(appErr.Code, ErrorResponse{
		Error:   appErr.Message,
		Details: appErr.Errors,
	})
}

// ErrorWithCode sends an error response with a specific status code
func ErrorWithCode(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ErrorResponse{Error: message})
}

// Created sends a 201 Created response
func Created(c *gin.Context, data interface{}) {
	Success(c, http.StatusCreated, data)
}

// OK sends a 200 OK response
func OK(c *gin.Context, data interface{}) {
	Success(c, http.StatusOK, data)
}

// NoContent sends a 204 No Content response
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// NotFound sends a 404 Not Found response
func NotFound(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusNotFound, message)
}

// Unauthorized sends a 401 Unauthorized response
func Unauthorized(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusUnauthorized, message)
}

// Forbidden sends a 403 Forbidden response
func Forbidden(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusForbidden, message)
}

// BadRequest sends a 400 Bad Request response
func BadRequest(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusBadRequest, message)
}
