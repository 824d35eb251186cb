package handlers

import (
	"backend/models"
	"backend/repository"
	"backend/services"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// MaxImportRows bounds one bulk import request
const MaxImportRows = 1000

var zoneImportColumns = []string{
	"pincode", "zone", "city", "state", "region", "is_metro", "is_remote",
	"cod_available", "expected_delivery_days", "zone_multiplier",
}

func parseBoolCell(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1", "y":
		return true
	}
	return false
}

// parseZoneRow builds a ZoneEntry from one import row using the header's
// column positions. Missing optional cells fall back to defaults.
func parseZoneRow(row []string, columnIndices map[string]int) (models.ZoneEntry, error) {
	cell := func(name string) string {
		idx, ok := columnIndices[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	entry := models.ZoneEntry{
		Pincode:              repository.NormalizePincode(cell("pincode")),
		Zone:                 strings.ToUpper(cell("zone")),
		City:                 repository.TitleCase(cell("city")),
		State:                repository.TitleCase(cell("state")),
		Region:               repository.TitleCase(cell("region")),
		IsMetro:              parseBoolCell(cell("is_metro")),
		IsRemote:             parseBoolCell(cell("is_remote")),
		CodAvailable:         true,
		ExpectedDeliveryDays: 1,
		ZoneMultiplier:       1.0,
	}

	if v := cell("cod_available"); v != "" {
		entry.CodAvailable = parseBoolCell(v)
	}
	if v := cell("expected_delivery_days"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return entry, fmt.Errorf("invalid expected_delivery_days: %s", v)
		}
		entry.ExpectedDeliveryDays = days
	}
	if v := cell("zone_multiplier"); v != "" {
		mult, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return entry, fmt.Errorf("invalid zone_multiplier: %s", v)
		}
		entry.ZoneMultiplier = mult
	}

	return entry, services.ValidateZoneEntry(entry)
}

// zoneImportStore is the row-level persistence surface of an import.
// Each call commits on its own so one bad row cannot undo the others.
type zoneImportStore interface {
	FindZoneID(pincode string) (int, bool, error)
	UpdateZone(id int, entry models.ZoneEntry) error
	InsertZone(entry models.ZoneEntry) error
}

type sqlZoneImporter struct {
	db *sql.DB
}

func (s sqlZoneImporter) FindZoneID(pincode string) (int, bool, error) {
	var id int
	err := s.db.QueryRow("SELECT id FROM zone_entries WHERE pincode = $1 AND deleted_at IS NULL", pincode).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (s sqlZoneImporter) UpdateZone(id int, entry models.ZoneEntry) error {
	_, err := s.db.Exec(`
		UPDATE zone_entries
		SET zone = $1, city = $2, state = $3, region = $4, is_metro = $5, is_remote = $6,
		    cod_available = $7, expected_delivery_days = $8, zone_multiplier = $9, updated_at = $10
		WHERE id = $11
	`, entry.Zone, entry.City, entry.State, entry.Region, entry.IsMetro, entry.IsRemote,
		entry.CodAvailable, entry.ExpectedDeliveryDays, entry.ZoneMultiplier, time.Now(), id)
	return err
}

func (s sqlZoneImporter) InsertZone(entry models.ZoneEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO zone_entries (pincode, zone, city, state, region, is_metro, is_remote,
		                          cod_available, expected_delivery_days, zone_multiplier, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, entry.Pincode, entry.Zone, entry.City, entry.State, entry.Region, entry.IsMetro, entry.IsRemote,
		entry.CodAvailable, entry.ExpectedDeliveryDays, entry.ZoneMultiplier, time.Now(), time.Now())
	return err
}

// importZoneRows applies data rows one at a time, upserting by pincode.
// A failed row is recorded with its 1-based file index (header is row 1)
// and the loop moves on; rows already written stay written.
func importZoneRows(dataRows [][]string, columnIndices map[string]int, store zoneImportStore) models.ZoneImportResult {
	result := models.ZoneImportResult{Errors: []models.ZoneImportRowError{}}

	for i, row := range dataRows {
		rowIndex := i + 2

		entry, err := parseZoneRow(row, columnIndices)
		if err != nil {
			result.Errors = append(result.Errors, models.ZoneImportRowError{
				Index:   rowIndex,
				Message: err.Error(),
			})
			continue
		}

		existingID, exists, err := store.FindZoneID(entry.Pincode)
		if err != nil {
			result.Errors = append(result.Errors, models.ZoneImportRowError{
				Index:   rowIndex,
				Message: fmt.Sprintf("failed to check pincode %s: %v", entry.Pincode, err),
			})
			continue
		}

		if exists {
			if err := store.UpdateZone(existingID, entry); err != nil {
				result.Errors = append(result.Errors, models.ZoneImportRowError{
					Index:   rowIndex,
					Message: fmt.Sprintf("failed to update pincode %s: %v", entry.Pincode, err),
				})
				continue
			}
			result.Skipped++
			continue
		}

		if err := store.InsertZone(entry); err != nil {
			result.Errors = append(result.Errors, models.ZoneImportRowError{
				Index:   rowIndex,
				Message: fmt.Sprintf("failed to insert pincode %s: %v", entry.Pincode, err),
			})
			continue
		}
		result.Imported++
	}

	return result
}

func readCSVRows(src io.Reader) ([][]string, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

func readXLSXRows(src io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("unable to open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

// ImportZones bulk loads zone entries from a CSV or XLSX file
// @Summary Import zone entries
// @Description Bulk import pincode-to-zone mappings. Existing pincodes are updated in place. Rows that fail validation are reported without aborting the rest.
// @Tags Zones
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV or XLSX file"
// @Success 200 {object} models.ZoneImportResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/zones/import [post]
func ImportZones(db *sql.DB) gin.HandlerFunc {
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

		file, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file not found"})
			return
		}

		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to open file"})
			return
		}
		defer src.Close()

		var rows [][]string
		switch strings.ToLower(filepath.Ext(file.Filename)) {
		case ".csv":
			rows, err = readCSVRows(src)
		case ".xlsx":
			rows, err = readXLSXRows(src)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type, expected .csv or .xlsx"})
			return
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("failed to read file: %v", err)})
			return
		}

		if len(rows) < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file must have a header row and at least one data row"})
			return
		}
		if len(rows)-1 > MaxImportRows {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("too many rows: %d (maximum %d)", len(rows)-1, MaxImportRows)})
			return
		}

		// Map column names to their indices
		columnIndices := make(map[string]int)
		for i, col := range rows[0] {
			columnIndices[strings.ToLower(strings.TrimSpace(col))] = i
		}

		requiredColumns := []string{"pincode", "zone"}
		for _, col := range requiredColumns {
			if _, exists := columnIndices[col]; !exists {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("missing required column: %s", col)})
				return
			}
		}

		result := importZoneRows(rows[1:], columnIndices, sqlZoneImporter{db: db})

		services.InvalidateZoneCache()

		c.JSON(http.StatusOK, models.ZoneImportResponse{
			Success: true,
			Message: fmt.Sprintf("Import completed: %d imported, %d updated, %d errors", result.Imported, result.Skipped, len(result.Errors)),
			Data:    &result,
		})
	}
}

// ExportZones downloads all zone entries as an XLSX workbook
// @Summary Export zone entries
// @Description Download the full pincode-to-zone mapping as an Excel file
// @Tags Zones
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file "XLSX file"
// @Failure 401 {object} models.ErrorResponse
// @Router /api/zones/export [get]
func ExportZones(db *sql.DB) gin.HandlerFunc {
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

		rows, err := db.Query(`
			SELECT pincode, zone, city, state, region, is_metro, is_remote,
			       cod_available, expected_delivery_days, zone_multiplier
			FROM zone_entries
			WHERE deleted_at IS NULL
			ORDER BY pincode
		`)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch zone entries"})
			return
		}
		defer rows.Close()

		f := excelize.NewFile()
		defer func() {
			if err := f.Close(); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error closing Excel file"})
			}
		}()

		sheet := "Zones"
		index, err := f.NewSheet(sheet)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating sheet"})
			return
		}
		f.SetActiveSheet(index)
		f.DeleteSheet("Sheet1")

		for i, col := range zoneImportColumns {
			cellName, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cellName, col)
		}

		rowNum := 2
		for rows.Next() {
			var entry models.ZoneEntry
			if err := rows.Scan(&entry.Pincode, &entry.Zone, &entry.City, &entry.State, &entry.Region,
				&entry.IsMetro, &entry.IsRemote, &entry.CodAvailable,
				&entry.ExpectedDeliveryDays, &entry.ZoneMultiplier); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan zone entry"})
				return
			}

			values := []interface{}{
				entry.Pincode, entry.Zone, entry.City, entry.State, entry.Region,
				entry.IsMetro, entry.IsRemote, entry.CodAvailable,
				entry.ExpectedDeliveryDays, entry.ZoneMultiplier,
			}
			for i, v := range values {
				cellName, _ := excelize.CoordinatesToCellName(i+1, rowNum)
				f.SetCellValue(sheet, cellName, v)
			}
			rowNum++
		}

		if err := rows.Err(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating zone entries"})
			return
		}

		filename := fmt.Sprintf("zone_export_%s.xlsx", time.Now().Format("2006-01-02"))
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))

		if err := f.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing Excel file"})
			return
		}
	}
}
