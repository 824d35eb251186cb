package handlers

import (
	"backend/models"
	"backend/repository"
	"backend/services"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

// ==================== WEIGHT SLAB CRUD OPERATIONS ====================

// CreateWeightSlab creates a new weight slab
// @Summary Create weight slab
// @Description Add one boundary to a courier's weight ladder
// @Tags WeightSlabs
// @Accept json
// @Produce json
// @Param request body models.WeightSlab true "Weight slab request"
// @Success 201 {object} models.WeightSlabResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/weight-slabs [post]
func CreateWeightSlab(db *sql.DB) gin.HandlerFunc {
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

		var slab models.WeightSlab
		if err := c.ShouldBindJSON(&slab); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		slab.CourierName = repository.NormalizeCourier(slab.CourierName)

		if err := services.ValidateWeightSlab(slab); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var id int
		err = db.QueryRow(`
			INSERT INTO weight_slabs (courier_name, base_weight, overage_per_kg, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5) RETURNING id
		`, slab.CourierName, slab.BaseWeight, slab.OveragePerKg, time.Now(), time.Now()).Scan(&id)

		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
				c.JSON(http.StatusConflict, gin.H{"error": "Weight slab with this boundary already exists for this courier"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create weight slab"})
			return
		}

		slab.ID = uint(id)
		services.InvalidateSlabCache()

		c.JSON(http.StatusCreated, models.WeightSlabResponse{
			Success: true,
			Message: "Weight slab created successfully",
			Data:    &slab,
		})
	}
}

// GetWeightSlabs retrieves weight slabs, optionally filtered by courier
// @Summary Get weight slabs
// @Description Retrieve weight slabs in ascending weight order
// @Tags WeightSlabs
// @Produce json
// @Param courier query string false "Courier name"
// @Success 200 {object} models.WeightSlabListResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/weight-slabs [get]
func GetWeightSlabs(db *sql.DB) gin.HandlerFunc {
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
			SELECT id, courier_name, base_weight, overage_per_kg, created_at, updated_at
			FROM weight_slabs
			WHERE deleted_at IS NULL
		`
		var args []interface{}
		if courier := repository.NormalizeCourier(c.Query("courier")); courier != "" {
			query += " AND courier_name = $1"
			args = append(args, courier)
		}
		query += " ORDER BY courier_name, base_weight ASC"

		rows, err := db.Query(query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch weight slabs", "details": err.Error()})
			return
		}
		defer rows.Close()

		var slabs []models.WeightSlab
		for rows.Next() {
			var slab models.WeightSlab
			if err := rows.Scan(&slab.ID, &slab.CourierName, &slab.BaseWeight, &slab.OveragePerKg,
				&slab.CreatedAt, &slab.UpdatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan weight slab"})
				return
			}
			slabs = append(slabs, slab)
		}

		if err = rows.Err(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating weight slabs"})
			return
		}

		c.JSON(http.StatusOK, models.WeightSlabListResponse{
			Success: true,
			Message: "Weight slabs retrieved successfully",
			Data:    slabs,
		})
	}
}

// UpdateWeightSlab updates an existing weight slab
// @Summary Update weight slab
// @Description Update a weight slab by ID
// @Tags WeightSlabs
// @Accept json
// @Produce json
// @Param id path int true "Weight slab ID"
// @Param request body models.WeightSlab true "Weight slab update request"
// @Success 200 {object} models.WeightSlabResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/weight-slabs/{id} [put]
func UpdateWeightSlab(db *sql.DB) gin.HandlerFunc {
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
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid weight slab ID"})
			return
		}

		var slab models.WeightSlab
		if err := c.ShouldBindJSON(&slab); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		slab.CourierName = repository.NormalizeCourier(slab.CourierName)

		if err := services.ValidateWeightSlab(slab); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := db.Exec(`
			UPDATE weight_slabs
			SET courier_name = $1, base_weight = $2, overage_per_kg = $3, updated_at = $4
			WHERE id = $5 AND deleted_at IS NULL
		`, slab.CourierName, slab.BaseWeight, slab.OveragePerKg, time.Now(), id)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
				c.JSON(http.StatusConflict, gin.H{"error": "Weight slab with this boundary already exists for this courier"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update weight slab"})
			return
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check update result"})
			return
		}

		if rowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Weight slab not found"})
			return
		}

		slab.ID = uint(id)
		services.InvalidateSlabCache()
		services.InvalidateRateCache()

		c.JSON(http.StatusOK, models.WeightSlabResponse{
			Success: true,
			Message: "Weight slab updated successfully",
			Data:    &slab,
		})
	}
}

// DeleteWeightSlab deletes a weight slab
// @Summary Delete weight slab
// @Description Delete a weight slab. Blocked while zone rates still reference it.
// @Tags WeightSlabs
// @Produce json
// @Param id path int true "Weight slab ID"
// @Success 200 {object} models.WeightSlabResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/weight-slabs/{id} [delete]
func DeleteWeightSlab(db *sql.DB) gin.HandlerFunc {
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
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid weight slab ID"})
			return
		}

		rateCount, err := repository.CountRatesForSlab(db, uint(id))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check slab references"})
			return
		}
		if rateCount > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Weight slab is referenced by zone rates, delete those first"})
			return
		}

		result, err := db.Exec("DELETE FROM weight_slabs WHERE id = $1", id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete weight slab"})
			return
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check delete result"})
			return
		}

		if rowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Weight slab not found"})
			return
		}

		services.InvalidateSlabCache()

		c.JSON(http.StatusOK, models.WeightSlabResponse{
			Success: true,
			Message: "Weight slab deleted successfully",
		})
	}
}
