package services

import (
	"bytes"
	"testing"

	"backend/internal/domain"
)

func TestGenerateInvoiceProducesPDF(t *testing.T) {
	svc := DocsService{Loader: func(id int64) (invoiceDocData, error) {
		return invoiceDocData{
			ReceivableID:  12,
			ClientName:    "PT Wisata Jaya",
			ClientPhone:   "0811",
			BookingNumber: "BK-2025-003",
			Amount:        1500000,
			DueDate:       "2025-07-01",
			CreatedAt:     "2025-06-05",
		}, nil
	}}

	pdf, filename, err := svc.GenerateInvoice(12)
	if err != nil {
		t.Fatalf("GenerateInvoice error: %v", err)
	}
	if filename != "invoice-INV-000012.pdf" {
		t.Fatalf("filename mismatch: %q", filename)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("output is not a PDF document")
	}
}

func TestGenerateInvoiceNotFoundPassesThrough(t *testing.T) {
	svc := DocsService{Loader: func(id int64) (invoiceDocData, error) {
		return invoiceDocData{}, domain.NotFoundError{Resource: "piutang"}
	}}
	_, _, err := svc.GenerateInvoice(404)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}
