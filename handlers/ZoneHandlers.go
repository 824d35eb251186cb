package handlers

import (
	"backend/models"
	"backend/repository"
	"backend/services"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

// ==================== ZONE ENTRY CRUD OPERATIONS ====================

func normalizeZoneEntry(entry *models.ZoneEntry) {
	entry.Pincode = repository.NormalizePincode(entry.Pincode)
	entry.Zone = strings.ToUpper(strings.TrimSpace(entry.Zone))
	entry.City = repository.TitleCase(entry.City)
	entry.State = repository.TitleCase(entry.State)
	entry.Region = repository.TitleCase(entry.Region)
}

// CreateZoneEntry creates or updates the zone mapping for a pincode
// @Summary Create zone entry
// @Description Map a pincode to a pricing zone. Upserts by pincode.
// @Tags Zones
// @Accept json
// @Produce json
// @Param request body models.ZoneEntry true "Zone entry request"
// @Success 200 {object} models.ZoneEntryResponse
// @Success 201 {object} models.ZoneEntryResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/zones [post]
func CreateZoneEntry(db *sql.DB) gin.HandlerFunc {
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

		var entry models.ZoneEntry
		if err := c.ShouldBindJSON(&entry); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		normalizeZoneEntry(&entry)

		if err := services.ValidateZoneEntry(entry); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Upsert by pincode: existing mappings get replaced, not duplicated
		var existingID int
		err = db.QueryRow("SELECT id FROM zone_entries WHERE pincode = $1 AND deleted_at IS NULL", entry.Pincode).Scan(&existingID)
		if err == nil {
			_, err = db.Exec(`
				UPDATE zone_entries
				SET zone = $1, city = $2, state = $3, region = $4, is_metro = $5, is_remote = $6,
				    cod_available = $7, expected_delivery_days = $8, zone_multiplier = $9, updated_at = $10
				WHERE id = $11
			`, entry.Zone, entry.City, entry.State, entry.Region, entry.IsMetro, entry.IsRemote,
				entry.CodAvailable, entry.ExpectedDeliveryDays, entry.ZoneMultiplier, time.Now(), existingID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update zone entry"})
				return
			}
			entry.ID = uint(existingID)
			services.InvalidateZoneCache()
			c.JSON(http.StatusOK, models.ZoneEntryResponse{
				Success: true,
				Message: "Zone entry updated successfully",
				Data:    &entry,
			})
			return
		} else if err != sql.ErrNoRows {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		var id int
		err = db.QueryRow(`
			INSERT INTO zone_entries (pincode, zone, city, state, region, is_metro, is_remote,
			                          cod_available, expected_delivery_days, zone_multiplier, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id
		`, entry.Pincode, entry.Zone, entry.City, entry.State, entry.Region, entry.IsMetro, entry.IsRemote,
			entry.CodAvailable, entry.ExpectedDeliveryDays, entry.ZoneMultiplier, time.Now(), time.Now()).Scan(&id)

		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
				c.JSON(http.StatusConflict, gin.H{"error": "Zone entry for this pincode already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create zone entry"})
			return
		}

		entry.ID = uint(id)
		services.InvalidateZoneCache()

		c.JSON(http.StatusCreated, models.ZoneEntryResponse{
			Success: true,
			Message: "Zone entry created successfully",
			Data:    &entry,
		})
	}
}

// GetZoneEntries retrieves zone entries, optionally filtered by zone
// @Summary Get zone entries
// @Description Retrieve zone entries, optionally filtered by zone code
// @Tags Zones
// @Produce json
// @Param zone query string false "Zone code (A-E)"
// @Success 200 {object} models.ZoneEntryListResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/zones [get]
func GetZoneEntries(db *sql.DB) gin.HandlerFunc {
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

		query := `
			SELECT id, pincode, zone, city, state, region, is_metro, is_remote,
			       cod_available, expected_delivery_days, zone_multiplier, created_at, updated_at
			FROM zone_entries
			WHERE deleted_at IS NULL
		`
		var args []interface{}
		if zone := strings.ToUpper(c.Query("zone")); zone != "" {
			if !services.IsValidZone(zone) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid zone code"})
				return
			}
			query += " AND zone = $1"
			args = append(args, zone)
		}
		query += " ORDER BY pincode"

		rows, err := db.Query(query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch zone entries", "details": err.Error()})
			return
		}
		defer rows.Close()

		var entries []models.ZoneEntry
		for rows.Next() {
			var entry models.ZoneEntry
			if err := rows.Scan(&entry.ID, &entry.Pincode, &entry.Zone, &entry.City, &entry.State,
				&entry.Region, &entry.IsMetro, &entry.IsRemote, &entry.CodAvailable,
				&entry.ExpectedDeliveryDays, &entry.ZoneMultiplier, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan zone entry", "details": err.Error()})
				return
			}
			entries = append(entries, entry)
		}

		if err = rows.Err(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating zone entries"})
			return
		}

		c.JSON(http.StatusOK, models.ZoneEntryListResponse{
			Success: true,
			Message: "Zone entries retrieved successfully",
			Data:    entries,
		})
	}
}

// GetZoneEntryByPincode retrieves the zone mapping for one pincode
// @Summary Get zone entry by pincode
// @Description Retrieve the zone mapping for a specific pincode
// @Tags Zones
// @Produce json
// @Param pincode path string true "6-digit pincode"
// @Success 200 {object} models.ZoneEntryResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/zones/{pincode} [get]
func GetZoneEntryByPincode(db *sql.DB) gin.HandlerFunc {
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

		pincode := repository.NormalizePincode(c.Param("pincode"))
		if !services.IsValidPincode(pincode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pincode"})
			return
		}

		var entry models.ZoneEntry
		err = db.QueryRow(`
			SELECT id, pincode, zone, city, state, region, is_metro, is_remote,
			       cod_available, expected_delivery_days, zone_multiplier, created_at, updated_at
			FROM zone_entries
			WHERE pincode = $1 AND deleted_at IS NULL
		`, pincode).Scan(&entry.ID, &entry.Pincode, &entry.Zone, &entry.City, &entry.State,
			&entry.Region, &entry.IsMetro, &entry.IsRemote, &entry.CodAvailable,
			&entry.ExpectedDeliveryDays, &entry.ZoneMultiplier, &entry.CreatedAt, &entry.UpdatedAt)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Zone entry not found"})
			return
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch zone entry"})
			return
		}

		c.JSON(http.StatusOK, models.ZoneEntryResponse{
			Success: true,
			Message: "Zone entry retrieved successfully",
			Data:    &entry,
		})
	}
}

// UpdateZoneEntry updates an existing zone entry
// @Summary Update zone entry
// @Description Update an existing zone entry by ID
// @Tags Zones
// @Accept json
// @Produce json
// @Param id path int true "Zone entry ID"
// @Param request body models.ZoneEntry true "Zone entry update request"
// @Success 200 {object} models.ZoneEntryResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/zones/{id} [put]
func UpdateZoneEntry(db *sql.DB) gin.HandlerFunc {
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

		idStr := c.Param("id")
		id, err := strconv.Atoi(idStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid zone entry ID"})
			return
		}

		var entry models.ZoneEntry
		if err := c.ShouldBindJSON(&entry); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		normalizeZoneEntry(&entry)

		if err := services.ValidateZoneEntry(entry); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := db.Exec(`
			UPDATE zone_entries
			SET pincode = $1, zone = $2, city = $3, state = $4, region = $5, is_metro = $6,
			    is_remote = $7, cod_available = $8, expected_delivery_days = $9, zone_multiplier = $10, updated_at = $11
			WHERE id = $12 AND deleted_at IS NULL
		`, entry.Pincode, entry.Zone, entry.City, entry.State, entry.Region, entry.IsMetro,
			entry.IsRemote, entry.CodAvailable, entry.ExpectedDeliveryDays, entry.ZoneMultiplier, time.Now(), id)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
				c.JSON(http.StatusConflict, gin.H{"error": "Zone entry for this pincode already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update zone entry"})
			return
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check update result"})
			return
		}

		if rowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Zone entry not found"})
			return
		}

		entry.ID = uint(id)
		services.InvalidateZoneCache()

		c.JSON(http.StatusOK, models.ZoneEntryResponse{
			Success: true,
			Message: "Zone entry updated successfully",
			Data:    &entry,
		})
	}
}

// DeleteZoneEntry deletes a zone entry
// @Summary Delete zone entry
// @Description Delete a zone entry by ID. Quotes for its pincode become non-deliverable.
// @Tags Zones
// @Produce json
// @Param id path int true "Zone entry ID"
// @Success 200 {object} models.ZoneEntryResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/zones/{id} [delete]
func DeleteZoneEntry(db *sql.DB) gin.HandlerFunc {
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

		idStr := c.Param("id")
		id, err := strconv.Atoi(idStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid zone entry ID"})
			return
		}

		result, err := db.Exec("DELETE FROM zone_entries WHERE id = $1", id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete zone entry"})
			return
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check delete result"})
			return
		}

		if rowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Zone entry not found"})
			return
		}

		services.InvalidateZoneCache()

		c.JSON(http.StatusOK, models.ZoneEntryResponse{
			Success: true,
			Message: "Zone entry deleted successfully",
		})
	}
}
