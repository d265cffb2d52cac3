package handlers

import (
	"net/http"
	"strings"

	intconfig "backend/internal/config"
	intdb "backend/internal/db"
	"backend/internal/http/middleware"
	"backend/internal/services"

	"github.com/gin-gonic/gin"
)

type receivable struct {
	ID            int64  `json:"id"`
	ClientName    string `json:"clientName"`
	ClientPhone   string `json:"clientPhone,omitempty"`
	BookingNumber string `json:"bookingNumber,omitempty"`
	Description   string `json:"description,omitempty"`
	Amount        int64  `json:"amount"`
	DueDate       string `json:"dueDate,omitempty"`
	Paid          bool   `json:"paid"`
}

type receivablePayload struct {
	ClientName    string `json:"clientName" binding:"required"`
	ClientPhone   string `json:"clientPhone"`
	BookingNumber string `json:"bookingNumber"`
	Description   string `json:"description"`
	Amount        int64  `json:"amount" binding:"required"`
	DueDate       string `json:"dueDate"`
}

// GET /api/receivables?paid=0|1&q=
func GetReceivables(c *gin.Context) {
	where := []string{}
	args := []any{}

	switch strings.TrimSpace(c.Query("paid")) {
	case "":
	case "0", "false":
		where = append(where, "paid = 0")
	case "1", "true":
		where = append(where, "paid = 1")
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "paid harus 0 atau 1"})
		return
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		where = append(where, "(client_name LIKE ? OR booking_number LIKE ?)")
		like := "%" + q + "%"
		args = append(args, like, like)
	}

	query := `
		SELECT id,
		       COALESCE(client_name, ''),
		       COALESCE(client_phone, ''),
		       COALESCE(booking_number, ''),
		       COALESCE(description, ''),
		       COALESCE(amount, 0),
		       COALESCE(DATE_FORMAT(due_date, '%Y-%m-%d'), ''),
		       COALESCE(paid, 0)
		FROM receivables
	`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY paid ASC, due_date ASC, id DESC"

	rows, err := intconfig.DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal mengambil piutang: " + err.Error()})
		return
	}
	defer rows.Close()

	list := []receivable{}
	for rows.Next() {
		var r receivable
		var paid int
		if err := rows.Scan(&r.ID, &r.ClientName, &r.ClientPhone, &r.BookingNumber, &r.Description, &r.Amount, &r.DueDate, &paid); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal scan piutang: " + err.Error()})
			return
		}
		r.Paid = paid != 0
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error iterasi rows: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, list)
}

// POST /api/receivables
func CreateReceivable(c *gin.Context) {
	var payload receivablePayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	if payload.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount harus lebih dari 0"})
		return
	}
	dueDate, ok := parseOptionalDate(c, payload.DueDate)
	if !ok {
		return
	}

	res, err := intconfig.DB.Exec(`
		INSERT INTO receivables (client_name, client_phone, booking_number, description, amount, due_date, paid, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, NOW())
	`, strings.TrimSpace(payload.ClientName), nullIfEmptyStr(payload.ClientPhone),
		nullIfEmptyStr(payload.BookingNumber), nullIfEmptyStr(payload.Description),
		payload.Amount, dueDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal menambah piutang: " + err.Error()})
		return
	}

	id, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{"message": "piutang berhasil ditambahkan", "id": id})
}

// PUT /api/receivables/:id
func UpdateReceivable(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	var payload receivablePayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	if payload.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount harus lebih dari 0"})
		return
	}
	dueDate, ok := parseOptionalDate(c, payload.DueDate)
	if !ok {
		return
	}

	res, err := intconfig.DB.Exec(`
		UPDATE receivables
		SET client_name = ?, client_phone = ?, booking_number = ?, description = ?, amount = ?, due_date = ?
		WHERE id = ?
	`, strings.TrimSpace(payload.ClientName), nullIfEmptyStr(payload.ClientPhone),
		nullIfEmptyStr(payload.BookingNumber), nullIfEmptyStr(payload.Description),
		payload.Amount, dueDate, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal update piutang: " + err.Error()})
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "piutang tidak ditemukan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "piutang berhasil diupdate"})
}

// PUT /api/receivables/:id/pay
func PayReceivable(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	// older schemas miss paid_at; mark paid either way
	query := `UPDATE receivables SET paid = 1, paid_at = NOW() WHERE id = ? AND paid = 0`
	if !intdb.HasColumn(intconfig.DB, "receivables", "paid_at") {
		query = `UPDATE receivables SET paid = 1 WHERE id = ? AND paid = 0`
	}

	res, err := intconfig.DB.Exec(query, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal menandai lunas: " + err.Error()})
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "piutang tidak ditemukan atau sudah lunas"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "piutang ditandai lunas"})
}

// DELETE /api/receivables/:id
func DeleteReceivable(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	res, err := intconfig.DB.Exec(`DELETE FROM receivables WHERE id = ?`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal hapus piutang: " + err.Error()})
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "piutang tidak ditemukan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "piutang berhasil dihapus"})
}

// GET /api/receivables/:id/invoice
func GetReceivableInvoicePDF(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	svc := services.DocsService{RequestID: middleware.GetRequestID(c)}
	pdf, filename, err := svc.GenerateInvoice(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// GET /api/receivables/outstanding
func GetReceivablesOutstanding(c *gin.Context) {
	out, err := services.ReportsService{}.ReceivablesOutstanding()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal menyusun rekap piutang: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}
