package handlers

import (
	"net/http"
	"strconv"
	"strings"

	intconfig "backend/internal/config"

	"github.com/gin-gonic/gin"
)

type maintenanceRecord struct {
	ID          int64  `json:"id"`
	VehicleCode string `json:"vehicleCode"`
	ServiceDate string `json:"serviceDate"`
	Odometer    *int   `json:"odometer,omitempty"`
	Cost        int64  `json:"cost"`
	Workshop    string `json:"workshop,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

type maintenancePayload struct {
	VehicleCode string `json:"vehicleCode" binding:"required"`
	ServiceDate string `json:"serviceDate" binding:"required"`
	Odometer    *int   `json:"odometer"`
	Cost        int64  `json:"cost"`
	Workshop    string `json:"workshop"`
	Notes       string `json:"notes"`
}

// GET /api/maintenance?vehicleCode=LK01&year=2025
func GetMaintenanceRecords(c *gin.Context) {
	where := []string{}
	args := []any{}

	if v := strings.TrimSpace(c.Query("vehicleCode")); v != "" {
		where = append(where, "vehicle_code = ?")
		args = append(args, v)
	}
	if y := strings.TrimSpace(c.Query("year")); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "year tidak valid"})
			return
		}
		where = append(where, "YEAR(service_date) = ?")
		args = append(args, year)
	}

	query := `
		SELECT id, vehicle_code,
		       DATE_FORMAT(service_date, '%Y-%m-%d'),
		       odometer,
		       COALESCE(cost, 0),
		       COALESCE(workshop, ''),
		       COALESCE(notes, '')
		FROM maintenance_records
	`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY service_date DESC, id DESC"

	rows, err := intconfig.DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal mengambil data perawatan: " + err.Error()})
		return
	}
	defer rows.Close()

	list := []maintenanceRecord{}
	for rows.Next() {
		var m maintenanceRecord
		var odo *int
		if err := rows.Scan(&m.ID, &m.VehicleCode, &m.ServiceDate, &odo, &m.Cost, &m.Workshop, &m.Notes); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal scan data perawatan: " + err.Error()})
			return
		}
		m.Odometer = odo
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error iterasi rows: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, list)
}

// POST /api/maintenance
func CreateMaintenanceRecord(c *gin.Context) {
	var payload maintenancePayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	serviceDate, ok := parseOptionalDate(c, payload.ServiceDate)
	if !ok {
		return
	}
	if serviceDate == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "serviceDate wajib diisi (YYYY-MM-DD)"})
		return
	}

	res, err := intconfig.DB.Exec(`
		INSERT INTO maintenance_records (vehicle_code, service_date, odometer, cost, workshop, notes)
		VALUES (?, ?, ?, ?, ?, ?)
	`, strings.TrimSpace(payload.VehicleCode), serviceDate, payload.Odometer, payload.Cost,
		nullIfEmptyStr(payload.Workshop), nullIfEmptyStr(payload.Notes))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal menambah catatan perawatan: " + err.Error()})
		return
	}

	// keep the vehicle's last_service in sync with the newest record
	_, _ = intconfig.DB.Exec(`
		UPDATE vehicles SET last_service = GREATEST(COALESCE(last_service, ?), ?)
		WHERE vehicle_code = ?
	`, serviceDate, serviceDate, strings.TrimSpace(payload.VehicleCode))

	id, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{"message": "catatan perawatan berhasil ditambahkan", "id": id})
}

// PUT /api/maintenance/:id
func UpdateMaintenanceRecord(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	var payload maintenancePayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	serviceDate, ok := parseOptionalDate(c, payload.ServiceDate)
	if !ok {
		return
	}
	if serviceDate == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "serviceDate wajib diisi (YYYY-MM-DD)"})
		return
	}

	res, err := intconfig.DB.Exec(`
		UPDATE maintenance_records
		SET vehicle_code = ?, service_date = ?, odometer = ?, cost = ?, workshop = ?, notes = ?
		WHERE id = ?
	`, strings.TrimSpace(payload.VehicleCode), serviceDate, payload.Odometer, payload.Cost,
		nullIfEmptyStr(payload.Workshop), nullIfEmptyStr(payload.Notes), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal update catatan perawatan: " + err.Error()})
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "catatan perawatan tidak ditemukan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "catatan perawatan berhasil diupdate"})
}

// DELETE /api/maintenance/:id
func DeleteMaintenanceRecord(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	res, err := intconfig.DB.Exec(`DELETE FROM maintenance_records WHERE id = ?`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal hapus catatan perawatan: " + err.Error()})
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "catatan perawatan tidak ditemukan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "catatan perawatan berhasil dihapus"})
}
