package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/siteflow/siteflow/internal/application/port"
	"github.com/siteflow/siteflow/internal/domain/entity"
)

var exportHeaders = []string{
	"Request Number", "Status", "Project", "Resource", "Purpose", "Unit",
	"Requested Qty", "Approved Qty", "Issued Qty", "Acknowledged Qty",
	"Requested By", "Created At",
}

// ExportRequests handles GET /api/{fuel-requests|material-requests}/export
// and streams the request register as an .xlsx workbook.
func (h *Handlers) ExportRequests(kind entity.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		requests, err := h.services.Requests.List(c.Request.Context(), port.RequestFilter{
			Kind:  kind,
			Limit: 200,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := f.GetSheetName(0)
		for col, header := range exportHeaders {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			f.SetCellValue(sheet, cell, header)
		}

		for row, req := range requests {
			values := []interface{}{
				req.RequestNumber,
				req.Status.String(),
				req.ProjectID,
				req.ResourceID,
				req.Purpose,
				req.Unit,
				req.RequestedQuantity.String(),
				decimalOrBlank(req.ApprovedQuantity),
				decimalOrBlank(req.IssuedQuantity),
				decimalOrBlank(req.AcknowledgedQuantity),
				req.RequestedByID,
				req.CreatedAt.Format(time.RFC3339),
			}
			for col, value := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
				f.SetCellValue(sheet, cell, value)
			}
		}

		filename := fmt.Sprintf("%s-requests-%s.xlsx", strings.ToLower(string(kind)), time.Now().UTC().Format("20060102"))
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

		if err := f.Write(c.Writer); err != nil {
			h.logger.Error("Failed to write export workbook", "error", err)
			c.Status(http.StatusInternalServerError)
		}
	}
}

func decimalOrBlank(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
