package handlers

import (
	"backend/repository"
	"backend/services"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
)

// GenerateRateCard renders a courier's rate matrix as a PDF
// @Summary Generate rate card PDF
// @Description Render one courier's weight slab and zone rate matrix as a printable PDF
// @Tags RateCards
// @Produce application/pdf
// @Param courier path string true "Courier name"
// @Success 200 {file} file "PDF file"
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/rate-card/{courier}/pdf [get]
func GenerateRateCard(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "session_id header is missing"})
			return
		}
		_, _, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}

		courier := repository.NormalizeCourier(c.Param("courier"))
		if courier == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "courier is required"})
			return
		}

		slabs, err := repository.FetchSlabsForCourier(db, courier)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch weight slabs"})
			return
		}
		if len(slabs) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "No weight slabs configured for this courier"})
			return
		}

		matrix, err := repository.FetchRateMatrix(db, courier)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rate matrix"})
			return
		}

		// --- Generate PDF ---
		pdf := gofpdf.New("P", "mm", "A4", "")
		pdf.AddPage()
		pdf.SetMargins(10, 10, 10)

		// --- Header ---
		pdf.SetFont("Arial", "B", 18)
		pdf.Cell(190, 10, "SHIPPING RATE CARD")
		pdf.Ln(12)

		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(95, 8, fmt.Sprintf("Courier: %s", repository.TitleCase(courier)))
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(95, 8, fmt.Sprintf("Date: %s", time.Now().Format("02-Jan-2006")))
		pdf.Ln(12)

		// --- Table Header ---
		zoneColWidth := 150.0 / float64(len(services.ValidZones))

		pdf.SetFont("Arial", "B", 11)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(40, 8, "Up to (kg)", "1", 0, "L", true, 0, "")
		for _, zone := range services.ValidZones {
			pdf.CellFormat(zoneColWidth, 8, fmt.Sprintf("Zone %s", zone), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		// --- Rate Rows ---
		pdf.SetFont("Arial", "", 10)
		for _, slab := range slabs {
			pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", slab.BaseWeight), "1", 0, "L", false, 0, "")
			for _, zone := range services.ValidZones {
				price, ok := matrix[slab.ID][zone]
				if !ok {
					pdf.CellFormat(zoneColWidth, 8, "-", "1", 0, "C", false, 0, "")
					continue
				}
				pdf.CellFormat(zoneColWidth, 8, fmt.Sprintf("%.2f", price), "1", 0, "R", false, 0, "")
			}
			pdf.Ln(-1)
		}

		// --- Overage Note ---
		topSlab := slabs[len(slabs)-1]
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		if topSlab.OveragePerKg > 0 {
			pdf.Cell(190, 6, fmt.Sprintf("Weight above %.2f kg is billed at %.2f per started kg on top of the top slab rate.",
				topSlab.BaseWeight, topSlab.OveragePerKg))
		} else {
			pdf.Cell(190, 6, fmt.Sprintf("Shipments above %.2f kg are not quotable for this courier.", topSlab.BaseWeight))
		}
		pdf.Ln(10)

		pdf.SetFont("Arial", "I", 8)
		pdf.Cell(190, 6, "Cells marked '-' have no rate configured and are not serviceable.")
		pdf.Ln(5)
		pdf.Cell(190, 6, "Generated on: "+time.Now().Format("2006-01-02 15:04:05"))

		// --- Output PDF ---
		c.Header("Content-Type", "application/pdf")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=rate_card_%s.pdf", courier))
		if err := pdf.Output(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
			return
		}
	}
}
