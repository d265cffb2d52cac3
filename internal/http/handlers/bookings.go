package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	intconfig "backend/internal/config"
	"backend/internal/domain/models"
	"backend/internal/http/middleware"
	"backend/internal/repositories"
	"backend/internal/services"
	"backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
)

type bookingPayload struct {
	CustomerName     string   `json:"customerName" binding:"required"`
	CustomerPhone    string   `json:"customerPhone"`
	PickupDate       string   `json:"pickupDate" binding:"required"` // YYYY-MM-DD
	PickupTime       string   `json:"pickupTime"`                    // HH:MM, default 00:00
	PickupLocation   string   `json:"pickupLocation"`
	DropoffLocation  string   `json:"dropoffLocation"`
	PassengerCount   *int     `json:"passengerCount"`
	Fare             int64    `json:"fare"`
	Status           string   `json:"status"`
	ProgramDays      int      `json:"programDays"`
	VehicleCode      string   `json:"vehicleCode"`
	DriverID         int64    `json:"driverId"`
	DriverName       string   `json:"driverName"`
	Notes            string   `json:"notes"`
	SendNotification bool     `json:"sendNotification"`
	TemplateBody     string   `json:"templateBody"`
	Recipients       []string `json:"recipients"`
}

func (p bookingPayload) pickupAt() (time.Time, error) {
	t := strings.TrimSpace(p.PickupTime)
	if t == "" {
		t = "00:00"
	}
	return utils.ParseDateTime(strings.TrimSpace(p.PickupDate) + " " + t + ":00")
}

// GET /api/bookings?q=&status=&start_date=&end_date=&page=&limit=
func GetBookings(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	repo := repositories.BookingRepository{}
	list, err := repo.List(repositories.BookingFilter{
		Query:     c.Query("q"),
		Status:    c.Query("status"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal mengambil data booking: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/bookings/:id
func GetBookingByID(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}
	b, err := repositories.BookingRepository{}.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// POST /api/bookings
//
// programDays > 1 creates the whole multi-day program in one call:
// sibling bookings numbered <base>-D1..-Dn, pickup advancing one day per
// sibling, every row carrying the program day count.
func CreateBooking(c *gin.Context) {
	var payload bookingPayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	pickupAt, err := payload.pickupAt()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format pickupDate/pickupTime tidak valid (YYYY-MM-DD / HH:MM)"})
		return
	}

	status := models.BookingStatus(strings.TrimSpace(payload.Status))
	if status == "" {
		status = models.BookingPending
	}
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status booking tidak dikenal: " + string(status)})
		return
	}

	passengers := 1
	if payload.PassengerCount != nil && *payload.PassengerCount > 0 {
		passengers = *payload.PassengerCount
	}

	repo := repositories.BookingRepository{}
	seq, err := repo.NextSequence(pickupAt.Year())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal membuat nomor booking: " + err.Error()})
		return
	}
	base := fmt.Sprintf("BK-%d-%03d", pickupAt.Year(), seq)

	programDays := payload.ProgramDays
	if programDays < 0 {
		programDays = 0
	}

	driverName := strings.TrimSpace(payload.DriverName)
	if driverName == "" && payload.DriverID > 0 {
		driverName = driverNameByID(payload.DriverID)
	}

	template := models.Booking{
		CustomerName:    strings.TrimSpace(payload.CustomerName),
		CustomerPhone:   strings.TrimSpace(payload.CustomerPhone),
		PickupLocation:  strings.TrimSpace(payload.PickupLocation),
		DropoffLocation: strings.TrimSpace(payload.DropoffLocation),
		PassengerCount:  passengers,
		Fare:            payload.Fare,
		Status:          status,
		VehicleCode:     strings.TrimSpace(payload.VehicleCode),
		DriverName:      driverName,
		Notes:           strings.TrimSpace(payload.Notes),
	}

	created := []models.Booking{}
	if programDays > 1 {
		// all program days land together or not at all
		tx, err := intconfig.DB.Begin()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal memulai transaksi: " + err.Error()})
			return
		}
		for day := 1; day <= programDays; day++ {
			b := template
			b.BookingNumber = fmt.Sprintf("%s-D%d", base, day)
			b.PickupAt = pickupAt.AddDate(0, 0, day-1)
			b.ProgramDays = programDays
			id, err := repo.CreateTx(tx, b)
			if err != nil {
				_ = tx.Rollback()
				if me, ok := err.(*mysql.MySQLError); ok && me.Number == 1062 {
					c.JSON(http.StatusConflict, gin.H{"error": "nomor booking sudah terpakai: " + b.BookingNumber})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal menyimpan booking: " + err.Error()})
				return
			}
			b.ID = id
			created = append(created, b)
		}
		if err := tx.Commit(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal menyimpan booking: " + err.Error()})
			return
		}
	} else {
		b := template
		b.BookingNumber = base
		b.PickupAt = pickupAt
		id, err := repo.Create(b)
		if err != nil {
			if me, ok := err.(*mysql.MySQLError); ok && me.Number == 1062 {
				c.JSON(http.StatusConflict, gin.H{"error": "nomor booking sudah terpakai: " + b.BookingNumber})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal menyimpan booking: " + err.Error()})
			return
		}
		b.ID = id
		created = append(created, b)
	}

	resp := gin.H{
		"message":       "booking berhasil dibuat",
		"bookingNumber": created[0].BookingNumber,
		"bookings":      created,
	}

	if payload.SendNotification {
		svc := services.WhatsAppService{RequestID: middleware.GetRequestID(c), Client: waClient}
		msg, err := svc.QueueForBooking(created[0], payload.TemplateBody, payload.Recipients, nil)
		if err != nil {
			// booking tersimpan; kegagalan antrian notifikasi dilaporkan, bukan rollback
			resp["notification_error"] = err.Error()
		} else {
			resp["notification"] = msg
		}
	}

	c.JSON(http.StatusCreated, resp)
}

// PUT /api/bookings/:id
func UpdateBooking(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	var payload struct {
		CustomerName     *string  `json:"customerName"`
		CustomerPhone    *string  `json:"customerPhone"`
		PickupDate       *string  `json:"pickupDate"`
		PickupTime       *string  `json:"pickupTime"`
		PickupLocation   *string  `json:"pickupLocation"`
		DropoffLocation  *string  `json:"dropoffLocation"`
		PassengerCount   *int     `json:"passengerCount"`
		Fare             *int64   `json:"fare"`
		Status           *string  `json:"status"`
		VehicleCode      *string  `json:"vehicleCode"`
		DriverName       *string  `json:"driverName"`
		Notes            *string  `json:"notes"`
		SendNotification bool     `json:"sendNotification"`
		TemplateBody     string   `json:"templateBody"`
		Recipients       []string `json:"recipients"`
	}
	if !BindJSONOrError(c, &payload) {
		return
	}

	repo := repositories.BookingRepository{}
	existing, err := repo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	patch := models.BookingUpdate{
		CustomerName:    payload.CustomerName,
		CustomerPhone:   payload.CustomerPhone,
		PickupLocation:  payload.PickupLocation,
		DropoffLocation: payload.DropoffLocation,
		PassengerCount:  payload.PassengerCount,
		Fare:            payload.Fare,
		VehicleCode:     payload.VehicleCode,
		DriverName:      payload.DriverName,
		Notes:           payload.Notes,
	}

	if payload.PickupDate != nil || payload.PickupTime != nil {
		date := utils.FormatDate(existing.PickupAt)
		clock := utils.FormatClock(existing.PickupAt)
		if payload.PickupDate != nil {
			date = strings.TrimSpace(*payload.PickupDate)
		}
		if payload.PickupTime != nil {
			clock = strings.TrimSpace(*payload.PickupTime)
		}
		at, err := utils.ParseDateTime(date + " " + clock + ":00")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "format pickupDate/pickupTime tidak valid (YYYY-MM-DD / HH:MM)"})
			return
		}
		patch.PickupAt = &at
	}

	if payload.Status != nil {
		status := models.BookingStatus(strings.TrimSpace(*payload.Status))
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status booking tidak dikenal: " + string(status)})
			return
		}
		patch.Status = &status
	}

	if err := repo.Update(id, patch); err != nil {
		RespondDomainError(c, err)
		return
	}

	updated, err := repo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	resp := gin.H{"message": "booking berhasil diupdate", "booking": updated}

	if payload.SendNotification {
		svc := services.WhatsAppService{RequestID: middleware.GetRequestID(c), Client: waClient}
		msg, err := svc.QueueForBooking(updated, payload.TemplateBody, payload.Recipients, nil)
		if err != nil {
			resp["notification_error"] = err.Error()
		} else {
			resp["notification"] = msg
		}
	}

	c.JSON(http.StatusOK, resp)
}

// PUT /api/bookings/:id/status
func UpdateBookingStatus(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}
	var payload struct {
		Status string `json:"status" binding:"required"`
	}
	if !BindJSONOrError(c, &payload) {
		return
	}
	status := models.BookingStatus(strings.TrimSpace(payload.Status))
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status booking tidak dikenal: " + string(status)})
		return
	}
	if err := (repositories.BookingRepository{}).Update(id, models.BookingUpdate{Status: &status}); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "status booking berhasil diupdate"})
}

// DELETE /api/bookings/:id
func DeleteBooking(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}
	if err := (repositories.BookingRepository{}).Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking berhasil dihapus"})
}
