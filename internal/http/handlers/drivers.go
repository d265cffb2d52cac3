package handlers

import (
	"net/http"
	"strings"

	intconfig "backend/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
)

type driver struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Phone         string `json:"phone,omitempty"`
	LicenseNumber string `json:"licenseNumber,omitempty"`
	LicenseExpiry string `json:"licenseExpiry,omitempty"`
	Status        string `json:"status"`
}

type driverPayload struct {
	Name          string `json:"name" binding:"required"`
	Phone         string `json:"phone"`
	LicenseNumber string `json:"licenseNumber"`
	LicenseExpiry string `json:"licenseExpiry"`
	Status        string `json:"status"`
}

// GET /api/drivers?q=
func GetDrivers(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))

	query := `
		SELECT id, name,
		       COALESCE(phone,''),
		       COALESCE(license_number,''),
		       COALESCE(DATE_FORMAT(license_expiry, '%Y-%m-%d'),''),
		       COALESCE(status,'active')
		FROM drivers
	`
	args := []any{}
	if q != "" {
		query += ` WHERE (name LIKE ? OR phone LIKE ? OR license_number LIKE ?)`
		like := "%" + q + "%"
		args = append(args, like, like, like)
	}
	query += ` ORDER BY name ASC`

	rows, err := intconfig.DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal mengambil data driver: " + err.Error()})
		return
	}
	defer rows.Close()

	list := []driver{}
	for rows.Next() {
		var d driver
		if err := rows.Scan(&d.ID, &d.Name, &d.Phone, &d.LicenseNumber, &d.LicenseExpiry, &d.Status); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal scan data driver: " + err.Error()})
			return
		}
		list = append(list, d)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error iterasi rows: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, list)
}

// POST /api/drivers
func CreateDriver(c *gin.Context) {
	var payload driverPayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nama driver wajib diisi"})
		return
	}

	expiry, ok := parseOptionalDate(c, payload.LicenseExpiry)
	if !ok {
		return
	}

	status := strings.TrimSpace(payload.Status)
	if status == "" {
		status = "active"
	}

	res, err := intconfig.DB.Exec(`
		INSERT INTO drivers (name, phone, license_number, license_expiry, status)
		VALUES (?, ?, ?, ?, ?)
	`, name, nullIfEmptyStr(payload.Phone), nullIfEmptyStr(payload.LicenseNumber), expiry, status)
	if err != nil {
		if me, ok := err.(*mysql.MySQLError); ok && me.Number == 1062 {
			c.JSON(http.StatusConflict, gin.H{"error": "nomor SIM sudah terdaftar (duplikat)."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal menambah driver: " + err.Error()})
		return
	}

	id, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{"message": "driver berhasil ditambahkan", "id": id})
}

// PUT /api/drivers/:id
func UpdateDriver(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	var payload driverPayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nama driver wajib diisi"})
		return
	}

	expiry, ok := parseOptionalDate(c, payload.LicenseExpiry)
	if !ok {
		return
	}

	status := strings.TrimSpace(payload.Status)
	if status == "" {
		status = "active"
	}

	res, err := intconfig.DB.Exec(`
		UPDATE drivers
		SET name = ?, phone = ?, license_number = ?, license_expiry = ?, status = ?
		WHERE id = ?
	`, name, nullIfEmptyStr(payload.Phone), nullIfEmptyStr(payload.LicenseNumber), expiry, status, id)
	if err != nil {
		if me, ok := err.(*mysql.MySQLError); ok && me.Number == 1062 {
			c.JSON(http.StatusConflict, gin.H{"error": "nomor SIM sudah terdaftar (duplikat)."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal update driver: " + err.Error()})
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "driver tidak ditemukan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "driver berhasil diupdate"})
}

// DELETE /api/drivers/:id
func DeleteDriver(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	res, err := intconfig.DB.Exec(`DELETE FROM drivers WHERE id = ?`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal hapus driver: " + err.Error()})
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "driver tidak ditemukan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "driver berhasil dihapus"})
}

// driverNameByID resolves a driver name for joins done app-side.
func driverNameByID(id int64) string {
	var name string
	err := intconfig.DB.QueryRow(`SELECT name FROM drivers WHERE id = ? LIMIT 1`, id).Scan(&name)
	if err != nil {
		return ""
	}
	return name
}
