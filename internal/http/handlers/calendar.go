package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"backend/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/bookings/calendar?year=2025&month=6
//
// month is 1..12. Response maps day-of-month to the day's bookings
// ordered by pickup time; days without bookings are absent.
func GetBookingCalendar(c *gin.Context) {
	now := time.Now()

	year := now.Year()
	if s := strings.TrimSpace(c.Query("year")); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil || y < 2000 || y > 2100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "year tidak valid"})
			return
		}
		year = y
	}

	month := now.Month()
	if s := strings.TrimSpace(c.Query("month")); s != "" {
		m, err := strconv.Atoi(s)
		if err != nil || m < 1 || m > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "month harus 1..12"})
			return
		}
		month = time.Month(m)
	}

	view, err := services.CalendarService{}.GetMonthView(year, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal menyusun kalender: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}
