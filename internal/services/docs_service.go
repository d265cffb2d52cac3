package services

import (
	"bytes"
	"database/sql"
	"fmt"
	"strings"

	intconfig "backend/internal/config"
	"backend/internal/domain"
	"backend/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService menghasilkan PDF invoice untuk piutang (receivables).
type DocsService struct {
	DB        *sql.DB
	RequestID string
	Loader    func(int64) (invoiceDocData, error)
}

type invoiceDocData struct {
	ReceivableID  int64
	ClientName    string
	ClientPhone   string
	BookingNumber string
	Description   string
	Amount        int64
	DueDate       string
	Paid          bool
	CreatedAt     string
}

func (s DocsService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s DocsService) GenerateInvoice(receivableID int64) ([]byte, string, error) {
	data, err := s.loadInvoiceData(receivableID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_invoice", fmt.Sprintf("receivable_id=%d", receivableID))
	return buildInvoicePDF(data)
}

func (s DocsService) loadInvoiceData(receivableID int64) (invoiceDocData, error) {
	if s.Loader != nil {
		return s.Loader(receivableID)
	}

	var out invoiceDocData
	var paid int
	err := s.db().QueryRow(`
		SELECT id,
		       COALESCE(client_name, ''),
		       COALESCE(client_phone, ''),
		       COALESCE(booking_number, ''),
		       COALESCE(description, ''),
		       COALESCE(amount, 0),
		       COALESCE(DATE_FORMAT(due_date, '%Y-%m-%d'), ''),
		       COALESCE(paid, 0),
		       COALESCE(DATE_FORMAT(created_at, '%Y-%m-%d'), '')
		FROM receivables
		WHERE id = ? LIMIT 1
	`, receivableID).Scan(
		&out.ReceivableID,
		&out.ClientName,
		&out.ClientPhone,
		&out.BookingNumber,
		&out.Description,
		&out.Amount,
		&out.DueDate,
		&paid,
		&out.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return out, domain.NotFoundError{Resource: "piutang", Err: err}
	}
	if err != nil {
		return out, err
	}
	out.Paid = paid != 0
	return out, nil
}

func buildInvoicePDF(d invoiceDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(12)

	statusText := "BELUM LUNAS"
	if d.Paid {
		statusText = "LUNAS"
	}

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("No Invoice     : INV-%06d", d.ReceivableID),
		fmt.Sprintf("Tanggal        : %s", safe(d.CreatedAt, "-")),
		fmt.Sprintf("Nama Klien     : %s", safe(d.ClientName, "-")),
		fmt.Sprintf("No HP          : %s", safe(d.ClientPhone, "-")),
		fmt.Sprintf("Kode Booking   : %s", safe(d.BookingNumber, "-")),
		fmt.Sprintf("Keterangan     : %s", safe(d.Description, "-")),
		fmt.Sprintf("Jumlah Tagihan : %s", utils.FormatRupiah(d.Amount)),
		fmt.Sprintf("Jatuh Tempo    : %s", safe(d.DueDate, "-")),
		fmt.Sprintf("Status         : %s", statusText),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Catatan: Pembayaran dapat dilakukan via transfer ke rekening perusahaan. Invoice ini dibuat otomatis oleh sistem.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("invoice-INV-%06d.pdf", d.ReceivableID)
	return buf.Bytes(), filename, nil
}

func safe(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
