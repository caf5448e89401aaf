package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sigortaci/acente-api/internal/domain/enum"
	"github.com/sigortaci/acente-api/pkg/utils"
	"github.com/xuri/excelize/v2"
)

// XLSXContentType is the MIME type of exported workbooks
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportReport builds the report and renders it as a single-sheet workbook.
// It returns the file contents and a download name.
func (s *ReportService) ExportReport(ctx context.Context, kind enum.ReportKind, filter ReportFilter) (*bytes.Buffer, string, error) {
	report, err := s.BuildReport(ctx, kind, filter)
	if err != nil {
		return nil, "", err
	}

	buf, err := renderWorkbook(string(kind), report.table)
	if err != nil {
		return nil, "", err
	}

	name := fmt.Sprintf("%s-%s.xlsx", kind, report.GeneratedAt.Format("20060102"))
	return buf, name, nil
}

func renderWorkbook(sheet string, table reportTable) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(table.headers))
	for i, h := range table.headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return nil, err
	}

	for i, row := range table.rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = cellValue(v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, err
		}
	}

	return f.WriteToBuffer()
}

// cellValue converts domain values into types excelize writes natively
func cellValue(v interface{}) interface{} {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.InexactFloat64()
	case time.Time:
		return x.Format(utils.DateLayout)
	case *time.Time:
		if x == nil {
			return ""
		}
		return x.Format(utils.DateLayout)
	case *string:
		if x == nil {
			return ""
		}
		return *x
	case enum.PolicyType:
		return string(x)
	case enum.AccountingType:
		return string(x)
	default:
		return v
	}
}
