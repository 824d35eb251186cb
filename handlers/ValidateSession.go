package handlers

import (
	"backend/storage"
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetSessionDetails resolves a session ID to the owning user's ID and
// email. Expired sessions and suspended accounts fail.
func GetSessionDetails(db *sql.DB, sessionID string) (int, string, error) {
	user, err := storage.GetUserBySessionID(db, sessionID)
	if err != nil {
		return 0, "", err
	}
	return user.ID, user.Email, nil
}

// ValidateSession validates user session
// @Summary Validate session
// @Description Validate user session token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param Authorization header string true "Session ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/validate-session [post]
func ValidateSession(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := strings.TrimSpace(c.GetHeader("Authorization"))
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing Authorization header"})
			return
		}

		const bearerPrefix = "Bearer "
		if strings.HasPrefix(sessionID, bearerPrefix) {
			sessionID = strings.TrimSpace(strings.TrimPrefix(sessionID, bearerPrefix))
		}

		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Authorization header missing token"})
			return
		}

		user, err := storage.GetUserBySessionID(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":    "Session validated",
			"session_id": sessionID,
			"host_name":  user.Email,
			"is_admin":   user.IsAdmin,
		})
	}
}
