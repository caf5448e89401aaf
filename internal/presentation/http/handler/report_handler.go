package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sigortaci/acente-api/internal/application/service"
	"github.com/sigortaci/acente-api/internal/domain/enum"
	"github.com/sigortaci/acente-api/internal/presentation/http/dto/response"
	"github.com/sigortaci/acente-api/pkg/apperror"
)

// ReportHandler serves the fixed report kinds as JSON or XLSX
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Get handles GET /reports/:kind
func (h *ReportHandler) Get(c *gin.Context) {
	kind, filter, err := reportQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	report, err := h.reportService.BuildReport(c.Request.Context(), kind, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, report)
}

// Export handles GET /reports/:kind/export
func (h *ReportHandler) Export(c *gin.Context) {
	kind, filter, err := reportQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	buf, name, err := h.reportService.ExportReport(c.Request.Context(), kind, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(200, service.XLSXContentType, buf.Bytes())
}

func reportQuery(c *gin.Context) (enum.ReportKind, service.ReportFilter, error) {
	var filter service.ReportFilter

	kind, err := enum.ParseReportKind(c.Param("kind"))
	if err != nil {
		return "", filter, apperror.NewFieldError("kind", "unknown report kind")
	}

	rng, err := dateRange(c)
	if err != nil {
		return "", filter, err
	}
	filter.StartDate, filter.EndDate = rng.From, rng.To

	if filter.CustomerID, err = optionalUint(c, "customer_id"); err != nil {
		return "", filter, err
	}
	if raw := c.Query("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			return "", filter, apperror.NewFieldError("days", "must be a number")
		}
		filter.Days = &days
	}
	return kind, filter, nil
}
