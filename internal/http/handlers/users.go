package handlers

import (
	"net/http"
	"strings"

	intconfig "backend/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"golang.org/x/crypto/bcrypt"
)

type userPayload struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

// GET /api/users
func GetUsers(c *gin.Context) {
	rows, err := intconfig.DB.Query(`
		SELECT id, name, username, email, COALESCE(phone,''), role, status
		FROM users
		ORDER BY id ASC
	`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal mengambil data user: " + err.Error()})
		return
	}
	defer rows.Close()

	list := []AuthUser{}
	for rows.Next() {
		var u AuthUser
		if err := rows.Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Phone, &u.Role, &u.Status); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal scan data user: " + err.Error()})
			return
		}
		list = append(list, u)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error iterasi rows: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, list)
}

// GET /api/users/:id
func GetUserByID(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	var u AuthUser
	err := intconfig.DB.QueryRow(`
		SELECT id, name, username, email, COALESCE(phone,''), role, status
		FROM users WHERE id = ? LIMIT 1
	`, id).Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Phone, &u.Role, &u.Status)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user tidak ditemukan"})
		return
	}

	c.JSON(http.StatusOK, u)
}

// POST /api/users
func CreateUser(c *gin.Context) {
	var payload userPayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	if strings.TrimSpace(payload.Password) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password wajib diisi"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal meng-hash password"})
		return
	}

	role := strings.TrimSpace(payload.Role)
	if role == "" {
		role = "operator"
	}
	status := strings.TrimSpace(payload.Status)
	if status == "" {
		status = "active"
	}

	res, err := intconfig.DB.Exec(`
		INSERT INTO users (name, username, email, phone, password_hash, role, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
	`, strings.TrimSpace(payload.Name), strings.TrimSpace(payload.Username),
		strings.TrimSpace(payload.Email), nullIfEmptyStr(payload.Phone), string(hash), role, status)
	if err != nil {
		if me, ok := err.(*mysql.MySQLError); ok && me.Number == 1062 {
			c.JSON(http.StatusConflict, gin.H{"error": "email atau username sudah terdaftar (duplikat)."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal menambah user: " + err.Error()})
		return
	}

	id, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{"message": "user berhasil ditambahkan", "id": id})
}

// PUT /api/users/:id
func UpdateUser(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	var payload userPayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	sets := []string{"name = ?", "username = ?", "email = ?", "phone = ?", "updated_at = NOW()"}
	args := []any{
		strings.TrimSpace(payload.Name),
		strings.TrimSpace(payload.Username),
		strings.TrimSpace(payload.Email),
		nullIfEmptyStr(payload.Phone),
	}

	if r := strings.TrimSpace(payload.Role); r != "" {
		sets = append(sets, "role = ?")
		args = append(args, r)
	}
	if s := strings.TrimSpace(payload.Status); s != "" {
		sets = append(sets, "status = ?")
		args = append(args, s)
	}
	if p := strings.TrimSpace(payload.Password); p != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal meng-hash password"})
			return
		}
		sets = append(sets, "password_hash = ?")
		args = append(args, string(hash))
	}

	args = append(args, id)
	res, err := intconfig.DB.Exec(`UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		if me, ok := err.(*mysql.MySQLError); ok && me.Number == 1062 {
			c.JSON(http.StatusConflict, gin.H{"error": "email atau username sudah terdaftar (duplikat)."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal update user: " + err.Error()})
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user tidak ditemukan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user berhasil diupdate"})
}

// DELETE /api/users/:id
func DeleteUser(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	res, err := intconfig.DB.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal hapus user: " + err.Error()})
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user tidak ditemukan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user berhasil dihapus"})
}
