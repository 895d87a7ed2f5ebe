package usercontroller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DerickDutraDev/store-GBS/session"
)

const (
	defaultUserLimit = 50
	maxUserLimit     = 500
)

// GET /me
func GetUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := session.From(c.Request.Context())
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

// GET /admin/users, newest first.
func GetAllUsers(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := defaultUserLimit
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
				return
			}
			limit = min(n, maxUserLimit)
		}

		users, err := d.Profiles.List(c.Request.Context(), limit)
		if err != nil {
			d.Log.Error("list users failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		c.JSON(http.StatusOK, users)
	}
}
