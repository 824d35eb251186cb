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

// ==================== ZONE RATE CRUD OPERATIONS ====================

// CreateZoneRate creates a new zone rate
// @Summary Create zone rate
// @Description Price one (courier, weight slab, zone) cell of the rate matrix
// @Tags ZoneRates
// @Accept json
// @Produce json
// @Param request body models.ZoneRate true "Zone rate request"
// @Success 201 {object} models.ZoneRateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/zone-rates [post]
func CreateZoneRate(db *sql.DB) gin.HandlerFunc {
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

		var rate models.ZoneRate
		if err := c.ShouldBindJSON(&rate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		rate.CourierName = repository.NormalizeCourier(rate.CourierName)
		rate.Zone = strings.ToUpper(strings.TrimSpace(rate.Zone))

		if err := services.ValidateZoneRate(rate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// The slab must exist and belong to the same courier
		var slabCourier string
		err = db.QueryRow("SELECT courier_name FROM weight_slabs WHERE id = $1 AND deleted_at IS NULL", rate.WeightSlabID).Scan(&slabCourier)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Weight slab does not exist"})
			return
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if slabCourier != rate.CourierName {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Weight slab belongs to a different courier"})
			return
		}

		var id int
		err = db.QueryRow(`
			INSERT INTO zone_rates (courier_name, weight_slab_id, zone, base_price, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6) RETURNING id
		`, rate.CourierName, rate.WeightSlabID, rate.Zone, rate.BasePrice, time.Now(), time.Now()).Scan(&id)

		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
				c.JSON(http.StatusConflict, gin.H{"error": "Zone rate for this courier, slab and zone already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create zone rate"})
			return
		}

		rate.ID = uint(id)
		services.InvalidateRateCache()

		c.JSON(http.StatusCreated, models.ZoneRateResponse{
			Success: true,
			Message: "Zone rate created successfully",
			Data:    &rate,
		})
	}
}

// GetZoneRates retrieves zone rates, optionally filtered by courier
// @Summary Get zone rates
// @Description Retrieve the zone rate matrix, optionally filtered by courier
// @Tags ZoneRates
// @Produce json
// @Param courier query string false "Courier name"
// @Success 200 {object} models.ZoneRateListResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/zone-rates [get]
func GetZoneRates(db *sql.DB) gin.HandlerFunc {
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
			SELECT id, courier_name, weight_slab_id, zone, base_price, created_at, updated_at
			FROM zone_rates
			WHERE deleted_at IS NULL
		`
		var args []interface{}
		if courier := repository.NormalizeCourier(c.Query("courier")); courier != "" {
			query += " AND courier_name = $1"
			args = append(args, courier)
		}
		query += " ORDER BY courier_name, weight_slab_id, zone"

		rows, err := db.Query(query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch zone rates", "details": err.Error()})
			return
		}
		defer rows.Close()

		var rates []models.ZoneRate
		for rows.Next() {
			var rate models.ZoneRate
			if err := rows.Scan(&rate.ID, &rate.CourierName, &rate.WeightSlabID, &rate.Zone,
				&rate.BasePrice, &rate.CreatedAt, &rate.UpdatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan zone rate"})
				return
			}
			rates = append(rates, rate)
		}

		if err = rows.Err(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating zone rates"})
			return
		}

		c.JSON(http.StatusOK, models.ZoneRateListResponse{
			Success: true,
			Message: "Zone rates retrieved successfully",
			Data:    rates,
		})
	}
}

// UpdateZoneRate updates an existing zone rate
// @Summary Update zone rate
// @Description Update one cell of the rate matrix by ID
// @Tags ZoneRates
// @Accept json
// @Produce json
// @Param id path int true "Zone rate ID"
// @Param request body models.ZoneRate true "Zone rate update request"
// @Success 200 {object} models.ZoneRateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/zone-rates/{id} [put]
func UpdateZoneRate(db *sql.DB) gin.HandlerFunc {
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
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid zone rate ID"})
			return
		}

		var rate models.ZoneRate
		if err := c.ShouldBindJSON(&rate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		rate.CourierName = repository.NormalizeCourier(rate.CourierName)
		rate.Zone = strings.ToUpper(strings.TrimSpace(rate.Zone))

		if err := services.ValidateZoneRate(rate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := db.Exec(`
			UPDATE zone_rates
			SET courier_name = $1, weight_slab_id = $2, zone = $3, base_price = $4, updated_at = $5
			WHERE id = $6 AND deleted_at IS NULL
		`, rate.CourierName, rate.WeightSlabID, rate.Zone, rate.BasePrice, time.Now(), id)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
				c.JSON(http.StatusConflict, gin.H{"error": "Zone rate for this courier, slab and zone already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update zone rate"})
			return
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check update result"})
			return
		}

		if rowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Zone rate not found"})
			return
		}

		rate.ID = uint(id)
		services.InvalidateRateCache()

		c.JSON(http.StatusOK, models.ZoneRateResponse{
			Success: true,
			Message: "Zone rate updated successfully",
			Data:    &rate,
		})
	}
}

// DeleteZoneRate deletes a zone rate
// @Summary Delete zone rate
// @Description Delete one cell of the rate matrix. Quotes hitting the gap become non-deliverable.
// @Tags ZoneRates
// @Produce json
// @Param id path int true "Zone rate ID"
// @Success 200 {object} models.ZoneRateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/zone-rates/{id} [delete]
func DeleteZoneRate(db *sql.DB) gin.HandlerFunc {
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
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid zone rate ID"})
			return
		}

		result, err := db.Exec("DELETE FROM zone_rates WHERE id = $1", id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete zone rate"})
			return
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check delete result"})
			return
		}

		if rowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Zone rate not found"})
			return
		}

		services.InvalidateRateCache()

		c.JSON(http.StatusOK, models.ZoneRateResponse{
			Success: true,
			Message: "Zone rate deleted successfully",
		})
	}
}
