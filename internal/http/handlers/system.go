package handlers

import (
	"net/http"

	intconfig "backend/internal/config"
	intdb "backend/internal/db"
	"backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   utils.FormatDateTime(utils.NowUTC()),
	})
}

// GET /api/db-check
// Reports connectivity plus presence of the core tables, so a deployment
// that skipped migrations shows up here instead of as scattered 500s.
func DBCheck(c *gin.Context) {
	if err := intconfig.EnsureDB(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": err.Error()})
		return
	}

	tables := gin.H{}
	for _, t := range []string{"bookings", "wa_messages", "wa_templates", "vehicles", "drivers", "transactions", "receivables", "clients", "users"} {
		tables[t] = intdb.HasTable(intconfig.DB, t)
	}

	c.JSON(http.StatusOK, gin.H{"status": "up", "tables": tables})
}
