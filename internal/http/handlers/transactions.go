package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	intconfig "backend/internal/config"
	"backend/internal/services"

	"github.com/gin-gonic/gin"
)

type transaction struct {
	ID            int64  `json:"id"`
	Type          string `json:"type"` // income | expense
	Category      string `json:"category,omitempty"`
	Amount        int64  `json:"amount"`
	TxDate        string `json:"txDate"`
	BookingNumber string `json:"bookingNumber,omitempty"`
	Description   string `json:"description,omitempty"`
}

type transactionPayload struct {
	Type          string `json:"type" binding:"required"`
	Category      string `json:"category"`
	Amount        int64  `json:"amount" binding:"required"`
	TxDate        string `json:"txDate" binding:"required"`
	BookingNumber string `json:"bookingNumber"`
	Description   string `json:"description"`
}

func validTxType(t string) bool {
	return t == "income" || t == "expense"
}

// GET /api/transactions?type=&start_date=&end_date=
func GetTransactions(c *gin.Context) {
	where := []string{}
	args := []any{}

	if t := strings.TrimSpace(c.Query("type")); t != "" {
		if !validTxType(t) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "type harus income atau expense"})
			return
		}
		where = append(where, "type = ?")
		args = append(args, t)
	}
	if d := strings.TrimSpace(c.Query("start_date")); d != "" {
		where = append(where, "tx_date >= ?")
		args = append(args, d)
	}
	if d := strings.TrimSpace(c.Query("end_date")); d != "" {
		where = append(where, "tx_date <= ?")
		args = append(args, d)
	}

	query := `
		SELECT id, type,
		       COALESCE(category, ''),
		       COALESCE(amount, 0),
		       DATE_FORMAT(tx_date, '%Y-%m-%d'),
		       COALESCE(booking_number, ''),
		       COALESCE(description, '')
		FROM transactions
	`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY tx_date DESC, id DESC"

	rows, err := intconfig.DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal mengambil transaksi: " + err.Error()})
		return
	}
	defer rows.Close()

	list := []transaction{}
	for rows.Next() {
		var t transaction
		if err := rows.Scan(&t.ID, &t.Type, &t.Category, &t.Amount, &t.TxDate, &t.BookingNumber, &t.Description); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal scan transaksi: " + err.Error()})
			return
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error iterasi rows: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, list)
}

// POST /api/transactions
func CreateTransaction(c *gin.Context) {
	var payload transactionPayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	txType := strings.TrimSpace(payload.Type)
	if !validTxType(txType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type harus income atau expense"})
		return
	}
	if payload.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount harus lebih dari 0"})
		return
	}
	txDate, ok := parseOptionalDate(c, payload.TxDate)
	if !ok {
		return
	}
	if txDate == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "txDate wajib diisi (YYYY-MM-DD)"})
		return
	}

	res, err := intconfig.DB.Exec(`
		INSERT INTO transactions (type, category, amount, tx_date, booking_number, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, NOW())
	`, txType, nullIfEmptyStr(payload.Category), payload.Amount, txDate,
		nullIfEmptyStr(payload.BookingNumber), nullIfEmptyStr(payload.Description))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal menambah transaksi: " + err.Error()})
		return
	}

	id, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{"message": "transaksi berhasil ditambahkan", "id": id})
}

// PUT /api/transactions/:id
func UpdateTransaction(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	var payload transactionPayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	txType := strings.TrimSpace(payload.Type)
	if !validTxType(txType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type harus income atau expense"})
		return
	}
	txDate, ok := parseOptionalDate(c, payload.TxDate)
	if !ok {
		return
	}
	if txDate == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "txDate wajib diisi (YYYY-MM-DD)"})
		return
	}

	res, err := intconfig.DB.Exec(`
		UPDATE transactions
		SET type = ?, category = ?, amount = ?, tx_date = ?, booking_number = ?, description = ?
		WHERE id = ?
	`, txType, nullIfEmptyStr(payload.Category), payload.Amount, txDate,
		nullIfEmptyStr(payload.BookingNumber), nullIfEmptyStr(payload.Description), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal update transaksi: " + err.Error()})
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaksi tidak ditemukan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "transaksi berhasil diupdate"})
}

// DELETE /api/transactions/:id
func DeleteTransaction(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	res, err := intconfig.DB.Exec(`DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal hapus transaksi: " + err.Error()})
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaksi tidak ditemukan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "transaksi berhasil dihapus"})
}

// GET /api/transactions/summary?year=2025
// Monthly income/expense totals feeding the dashboard charts.
func GetTransactionSummary(c *gin.Context) {
	year := time.Now().Year()
	if s := strings.TrimSpace(c.Query("year")); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil || y < 2000 || y > 2100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "year tidak valid"})
			return
		}
		year = y
	}

	summary, err := services.ReportsService{}.MonthlySummary(year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal menyusun ringkasan: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "months": summary})
}
