package handlers

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	intconfig "backend/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
)

type vehicle struct {
	ID          uint64 `json:"id"`
	VehicleCode string `json:"vehicleCode"`
	PlateNumber string `json:"plateNumber"`
	Model       string `json:"model,omitempty"`
	Seats       *int   `json:"seats,omitempty"`
	Odometer    *int   `json:"odometer,omitempty"`
	LastService string `json:"lastService,omitempty"`
}

type vehiclePayload struct {
	VehicleCode string `json:"vehicleCode" binding:"required"`
	PlateNumber string `json:"plateNumber" binding:"required"`
	Model       string `json:"model"`
	Seats       *int   `json:"seats"`
	Odometer    *int   `json:"odometer"`
	LastService string `json:"lastService"`
}

// GET /api/vehicles?q=LK&page=1&limit=50
func GetVehicles(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))

	baseSelect := `
		SELECT
			id,
			vehicle_code,
			plate_number,
			COALESCE(model,'') AS model,
			seats,
			odometer,
			CASE
				WHEN last_service IS NULL THEN NULL
				ELSE DATE_FORMAT(last_service, '%Y-%m-%d')
			END AS last_service
		FROM vehicles
	`

	where := ""
	args := []any{}
	if q != "" {
		where = " WHERE (vehicle_code LIKE ? OR plate_number LIKE ?) "
		like := "%" + q + "%"
		args = append(args, like, like)
	}

	rows, err := intconfig.DB.Query(baseSelect+where+" ORDER BY id DESC", args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal mengambil data kendaraan: " + err.Error()})
		return
	}
	defer rows.Close()

	list := []vehicle{}
	for rows.Next() {
		var v vehicle
		var seats, odo sql.NullInt64
		var last sql.NullString
		if err := rows.Scan(&v.ID, &v.VehicleCode, &v.PlateNumber, &v.Model, &seats, &odo, &last); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal scan data kendaraan: " + err.Error()})
			return
		}
		if seats.Valid {
			x := int(seats.Int64)
			v.Seats = &x
		}
		if odo.Valid {
			x := int(odo.Int64)
			v.Odometer = &x
		}
		if last.Valid {
			v.LastService = last.String
		}
		list = append(list, v)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error iterasi rows: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, list)
}

// POST /api/vehicles
func CreateVehicle(c *gin.Context) {
	var payload vehiclePayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	vehicleCode := strings.TrimSpace(payload.VehicleCode)
	plateNumber := strings.TrimSpace(payload.PlateNumber)
	if vehicleCode == "" || plateNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "vehicleCode dan plateNumber wajib diisi"})
		return
	}

	lastService, ok := parseOptionalDate(c, payload.LastService)
	if !ok {
		return
	}

	res, err := intconfig.DB.Exec(`
		INSERT INTO vehicles (vehicle_code, plate_number, model, seats, odometer, last_service)
		VALUES (?, ?, ?, ?, ?, ?)
	`, vehicleCode, plateNumber, nullIfEmptyStr(payload.Model), payload.Seats, payload.Odometer, lastService)
	if err != nil {
		if me, ok := err.(*mysql.MySQLError); ok && me.Number == 1062 {
			c.JSON(http.StatusConflict, gin.H{"error": "Kode Mobil atau Plat Mobil sudah terdaftar (duplikat)."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal menambah kendaraan: " + err.Error()})
		return
	}

	id, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{"message": "kendaraan berhasil ditambahkan", "id": id})
}

// PUT /api/vehicles/:id
func UpdateVehicle(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	var payload vehiclePayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	vehicleCode := strings.TrimSpace(payload.VehicleCode)
	plateNumber := strings.TrimSpace(payload.PlateNumber)
	if vehicleCode == "" || plateNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "vehicleCode dan plateNumber wajib diisi"})
		return
	}

	lastService, ok := parseOptionalDate(c, payload.LastService)
	if !ok {
		return
	}

	res, err := intconfig.DB.Exec(`
		UPDATE vehicles
		SET vehicle_code = ?, plate_number = ?, model = ?, seats = ?, odometer = ?, last_service = ?
		WHERE id = ?
	`, vehicleCode, plateNumber, nullIfEmptyStr(payload.Model), payload.Seats, payload.Odometer, lastService, id)
	if err != nil {
		if me, ok := err.(*mysql.MySQLError); ok && me.Number == 1062 {
			c.JSON(http.StatusConflict, gin.H{"error": "Kode Mobil atau Plat Mobil sudah terdaftar (duplikat)."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal update kendaraan: " + err.Error()})
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "kendaraan tidak ditemukan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "kendaraan berhasil diupdate"})
}

// DELETE /api/vehicles/:id
func DeleteVehicle(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	res, err := intconfig.DB.Exec(`DELETE FROM vehicles WHERE id = ?`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal hapus kendaraan: " + err.Error()})
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "kendaraan tidak ditemukan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "kendaraan berhasil dihapus"})
}

func parseOptionalDate(c *gin.Context, raw string) (any, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	if _, err := time.Parse("2006-01-02", raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format tanggal harus YYYY-MM-DD"})
		return nil, false
	}
	return raw, true
}

func nullIfEmptyStr(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}
