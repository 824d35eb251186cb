package handlers

import (
	"backend/models"
	"backend/services"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ==================== DELIVERY OPTION CRUD OPERATIONS ====================

func normalizeOption(opt *models.DeliveryOption) {
	opt.Code = strings.ToLower(strings.TrimSpace(opt.Code))
	opt.Name = strings.TrimSpace(opt.Name)
	for i, z := range opt.AvailabilityZones {
		opt.AvailabilityZones[i] = strings.ToUpper(strings.TrimSpace(z))
	}
}

// CreateDeliveryOption creates a new delivery option
// @Summary Create delivery option
// @Description Add a fulfillment tier (standard, express, ...) with its eligibility rules
// @Tags DeliveryOptions
// @Accept json
// @Produce json
// @Param request body models.DeliveryOption true "Delivery option request"
// @Success 201 {object} models.DeliveryOptionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/delivery-options [post]
func CreateDeliveryOption(db *sql.DB) gin.HandlerFunc {
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

		var opt models.DeliveryOption
		if err := c.ShouldBindJSON(&opt); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		normalizeOption(&opt)

		if err := services.ValidateDeliveryOption(opt); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		conditions, err := json.Marshal(opt.AvailabilityConditions)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode availability conditions"})
			return
		}

		restrictedDays := make(pq.Int64Array, 0, len(opt.RestrictedDays))
		for _, d := range opt.RestrictedDays {
			restrictedDays = append(restrictedDays, int64(d))
		}

		var id int
		err = db.QueryRow(`
			INSERT INTO delivery_options (code, name, delivery_days_min, delivery_days_max, price_multiplier,
			                              fixed_surcharge, availability_zones, availability_conditions, cutoff_time,
			                              restricted_days, min_order_value, sort_order, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id
		`, opt.Code, opt.Name, opt.DeliveryDaysMin, opt.DeliveryDaysMax, opt.PriceMultiplier,
			opt.FixedSurcharge, pq.StringArray(opt.AvailabilityZones), conditions, opt.CutoffTime,
			restrictedDays, opt.MinOrderValue, opt.SortOrder, opt.IsActive, time.Now(), time.Now()).Scan(&id)

		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
				c.JSON(http.StatusConflict, gin.H{"error": "Delivery option with this code already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create delivery option"})
			return
		}

		opt.ID = uint(id)
		services.InvalidateOptionCache()

		c.JSON(http.StatusCreated, models.DeliveryOptionResponse{
			Success: true,
			Message: "Delivery option created successfully",
			Data:    &opt,
		})
	}
}

// GetDeliveryOptions retrieves all delivery options including inactive ones
// @Summary Get delivery options
// @Description Retrieve all delivery options ordered by sort order
// @Tags DeliveryOptions
// @Produce json
// @Success 200 {object} models.DeliveryOptionListResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/delivery-options [get]
func GetDeliveryOptions(db *sql.DB) gin.HandlerFunc {
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
			SELECT id, code, name, delivery_days_min, delivery_days_max, price_multiplier,
			       fixed_surcharge, availability_zones, availability_conditions, cutoff_time,
			       restricted_days, min_order_value, sort_order, is_active, created_at, updated_at
			FROM delivery_options
			WHERE deleted_at IS NULL
			ORDER BY sort_order ASC
		`)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch delivery options", "details": err.Error()})
			return
		}
		defer rows.Close()

		var options []models.DeliveryOption
		for rows.Next() {
			opt, err := scanDeliveryOptionRow(rows)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			options = append(options, opt)
		}

		if err = rows.Err(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating delivery options"})
			return
		}

		c.JSON(http.StatusOK, models.DeliveryOptionListResponse{
			Success: true,
			Message: "Delivery options retrieved successfully",
			Data:    options,
		})
	}
}

func scanDeliveryOptionRow(rows *sql.Rows) (models.DeliveryOption, error) {
	var opt models.DeliveryOption
	var zones pq.StringArray
	var days pq.Int64Array
	var conditions []byte
	var cutoff sql.NullString
	var minOrder sql.NullFloat64

	if err := rows.Scan(&opt.ID, &opt.Code, &opt.Name, &opt.DeliveryDaysMin, &opt.DeliveryDaysMax,
		&opt.PriceMultiplier, &opt.FixedSurcharge, &zones, &conditions, &cutoff,
		&days, &minOrder, &opt.SortOrder, &opt.IsActive, &opt.CreatedAt, &opt.UpdatedAt); err != nil {
		return opt, err
	}

	opt.AvailabilityZones = []string(zones)
	opt.RestrictedDays = make([]int, 0, len(days))
	for _, d := range days {
		opt.RestrictedDays = append(opt.RestrictedDays, int(d))
	}
	if len(conditions) > 0 {
		if err := json.Unmarshal(conditions, &opt.AvailabilityConditions); err != nil {
			return opt, err
		}
	}
	if cutoff.Valid && cutoff.String != "" {
		value := cutoff.String
		opt.CutoffTime = &value
	}
	if minOrder.Valid {
		value := minOrder.Float64
		opt.MinOrderValue = &value
	}
	return opt, nil
}

// GetDeliveryOptionByID retrieves a single delivery option
// @Summary Get delivery option by ID
// @Description Retrieve one delivery option with its eligibility rules
// @Tags DeliveryOptions
// @Produce json
// @Param id path int true "Delivery option ID"
// @Success 200 {object} models.DeliveryOptionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/delivery-options/{id} [get]
func GetDeliveryOptionByID(db *sql.DB) gin.HandlerFunc {
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

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid delivery option ID"})
			return
		}

		rows, err := db.Query(`
			SELECT id, code, name, delivery_days_min, delivery_days_max, price_multiplier,
			       fixed_surcharge, availability_zones, availability_conditions, cutoff_time,
			       restricted_days, min_order_value, sort_order, is_active, created_at, updated_at
			FROM delivery_options
			WHERE id = $1 AND deleted_at IS NULL
		`, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch delivery option", "details": err.Error()})
			return
		}
		defer rows.Close()

		if !rows.Next() {
			c.JSON(http.StatusNotFound, gin.H{"error": "Delivery option not found"})
			return
		}

		opt, err := scanDeliveryOptionRow(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, models.DeliveryOptionResponse{
			Success: true,
			Message: "Delivery option retrieved successfully",
			Data:    &opt,
		})
	}
}

// UpdateDeliveryOption updates an existing delivery option
// @Summary Update delivery option
// @Description Update a delivery option by ID
// @Tags DeliveryOptions
// @Accept json
// @Produce json
// @Param id path int true "Delivery option ID"
// @Param request body models.DeliveryOption true "Delivery option update request"
// @Success 200 {object} models.DeliveryOptionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/delivery-options/{id} [put]
func UpdateDeliveryOption(db *sql.DB) gin.HandlerFunc {
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
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid delivery option ID"})
			return
		}

		var opt models.DeliveryOption
		if err := c.ShouldBindJSON(&opt); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		normalizeOption(&opt)

		if err := services.ValidateDeliveryOption(opt); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		conditions, err := json.Marshal(opt.AvailabilityConditions)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode availability conditions"})
			return
		}

		restrictedDays := make(pq.Int64Array, 0, len(opt.RestrictedDays))
		for _, d := range opt.RestrictedDays {
			restrictedDays = append(restrictedDays, int64(d))
		}

		result, err := db.Exec(`
			UPDATE delivery_options
			SET code = $1, name = $2, delivery_days_min = $3, delivery_days_max = $4, price_multiplier = $5,
			    fixed_surcharge = $6, availability_zones = $7, availability_conditions = $8, cutoff_time = $9,
			    restricted_days = $10, min_order_value = $11, sort_order = $12, is_active = $13, updated_at = $14
			WHERE id = $15 AND deleted_at IS NULL
		`, opt.Code, opt.Name, opt.DeliveryDaysMin, opt.DeliveryDaysMax, opt.PriceMultiplier,
			opt.FixedSurcharge, pq.StringArray(opt.AvailabilityZones), conditions, opt.CutoffTime,
			restrictedDays, opt.MinOrderValue, opt.SortOrder, opt.IsActive, time.Now(), id)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
				c.JSON(http.StatusConflict, gin.H{"error": "Delivery option with this code already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update delivery option"})
			return
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check update result"})
			return
		}

		if rowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Delivery option not found"})
			return
		}

		opt.ID = uint(id)
		services.InvalidateOptionCache()

		c.JSON(http.StatusOK, models.DeliveryOptionResponse{
			Success: true,
			Message: "Delivery option updated successfully",
			Data:    &opt,
		})
	}
}

// DeleteDeliveryOption deletes a delivery option
// @Summary Delete delivery option
// @Description Delete a delivery option by ID
// @Tags DeliveryOptions
// @Produce json
// @Param id path int true "Delivery option ID"
// @Success 200 {object} models.DeliveryOptionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/delivery-options/{id} [delete]
func DeleteDeliveryOption(db *sql.DB) gin.HandlerFunc {
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
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid delivery option ID"})
			return
		}

		result, err := db.Exec("DELETE FROM delivery_options WHERE id = $1", id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete delivery option"})
			return
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check delete result"})
			return
		}

		if rowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Delivery option not found"})
			return
		}

		services.InvalidateOptionCache()

		c.JSON(http.StatusOK, models.DeliveryOptionResponse{
			Success: true,
			Message: "Delivery option deleted successfully",
		})
	}
}

// UpdateDeliveryOptionSortOrder reorders delivery options
// @Summary Update delivery option sort order
// @Description Batch assign new display positions to delivery options
// @Tags DeliveryOptions
// @Accept json
// @Produce json
// @Param request body models.SortOrderUpdateRequest true "Sort order updates"
// @Success 200 {object} models.DeliveryOptionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/delivery-options/sort-order [put]
func UpdateDeliveryOptionSortOrder(db *sql.DB, gormDB *gorm.DB) gin.HandlerFunc {
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

		var req models.SortOrderUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if len(req.Orders) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No sort order updates provided"})
			return
		}

		err = gormDB.Transaction(func(tx *gorm.DB) error {
			for _, order := range req.Orders {
				if err := tx.Model(&models.DeliveryOptionGorm{}).
					Where("id = ?", order.ID).
					Update("sort_order", order.SortOrder).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update sort order", "details": err.Error()})
			return
		}

		services.InvalidateOptionCache()

		c.JSON(http.StatusOK, models.DeliveryOptionResponse{
			Success: true,
			Message: "Sort order updated successfully",
		})
	}
}

// TestDeliveryOption evaluates one option against a synthetic quote context
// @Summary Test delivery option
// @Description Dry-run an option's eligibility rules and pricing without saving anything
// @Tags DeliveryOptions
// @Accept json
// @Produce json
// @Param request body models.OptionTestRequest true "Option test request"
// @Success 200 {object} models.OptionTestResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/delivery-options/test [post]
func TestDeliveryOption(db *sql.DB) gin.HandlerFunc {
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

		var req models.OptionTestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		normalizeOption(&req.Option)
		req.Zone = strings.ToUpper(strings.TrimSpace(req.Zone))

		if err := services.ValidateDeliveryOption(req.Option); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if !services.IsValidZone(req.Zone) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid zone code"})
			return
		}

		result, err := services.TestOption(req, time.Now())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, models.OptionTestResponse{
			Success: true,
			Message: "Option evaluated",
			Data:    &result,
		})
	}
}
