package handlers

import (
	"net/http"
	"strings"

	intconfig "backend/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
)

type clientAccount struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Company string `json:"company,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

type clientPayload struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Notes   string `json:"notes"`
}

// GET /api/clients?q=
func GetClients(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))

	query := `
		SELECT id, name,
		       COALESCE(phone, ''),
		       COALESCE(email, ''),
		       COALESCE(company, ''),
		       COALESCE(notes, '')
		FROM clients
	`
	args := []any{}
	if q != "" {
		query += ` WHERE (name LIKE ? OR phone LIKE ? OR company LIKE ?)`
		like := "%" + q + "%"
		args = append(args, like, like, like)
	}
	query += ` ORDER BY name ASC`

	rows, err := intconfig.DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal mengambil data klien: " + err.Error()})
		return
	}
	defer rows.Close()

	list := []clientAccount{}
	for rows.Next() {
		var cl clientAccount
		if err := rows.Scan(&cl.ID, &cl.Name, &cl.Phone, &cl.Email, &cl.Company, &cl.Notes); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal scan data klien: " + err.Error()})
			return
		}
		list = append(list, cl)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error iterasi rows: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, list)
}

// POST /api/clients
func CreateClient(c *gin.Context) {
	var payload clientPayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nama klien wajib diisi"})
		return
	}

	res, err := intconfig.DB.Exec(`
		INSERT INTO clients (name, phone, email, company, notes, created_at)
		VALUES (?, ?, ?, ?, ?, NOW())
	`, name, nullIfEmptyStr(payload.Phone), nullIfEmptyStr(payload.Email),
		nullIfEmptyStr(payload.Company), nullIfEmptyStr(payload.Notes))
	if err != nil {
		if me, ok := err.(*mysql.MySQLError); ok && me.Number == 1062 {
			c.JSON(http.StatusConflict, gin.H{"error": "nomor HP atau email klien sudah terdaftar (duplikat)."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal menambah klien: " + err.Error()})
		return
	}

	id, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{"message": "klien berhasil ditambahkan", "id": id})
}

// PUT /api/clients/:id
func UpdateClient(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	var payload clientPayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nama klien wajib diisi"})
		return
	}

	res, err := intconfig.DB.Exec(`
		UPDATE clients
		SET name = ?, phone = ?, email = ?, company = ?, notes = ?
		WHERE id = ?
	`, name, nullIfEmptyStr(payload.Phone), nullIfEmptyStr(payload.Email),
		nullIfEmptyStr(payload.Company), nullIfEmptyStr(payload.Notes), id)
	if err != nil {
		if me, ok := err.(*mysql.MySQLError); ok && me.Number == 1062 {
			c.JSON(http.StatusConflict, gin.H{"error": "nomor HP atau email klien sudah terdaftar (duplikat)."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal update klien: " + err.Error()})
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "klien tidak ditemukan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "klien berhasil diupdate"})
}

// DELETE /api/clients/:id
func DeleteClient(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	res, err := intconfig.DB.Exec(`DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal hapus klien: " + err.Error()})
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "klien tidak ditemukan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "klien berhasil dihapus"})
}
