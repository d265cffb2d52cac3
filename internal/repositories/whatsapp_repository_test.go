package repositories

import (
	"testing"
	"time"

	"backend/internal/domain"
	"backend/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func waMessageCols() []string {
	return []string{
		"id", "message_id", "booking_id", "booking_number", "message",
		"recipients", "recipient_names", "status", "error",
		"created_at", "sent_at", "updated_at",
	}
}

func TestWAGetByIDSplitsRecipients(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("FROM wa_messages WHERE id").
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(waMessageCols()).
			AddRow(2, "uuid-2", 7, "BK-2025-012", "Halo", "0811, 0812;0813", "", "pending", nil, now, nil, now))

	m, err := WhatsAppRepository{DB: db}.GetByID(2)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if len(m.Recipients) != 3 || m.Recipients[1] != "0812" {
		t.Fatalf("recipients column must split on separators, got %v", m.Recipients)
	}
	if m.Status != models.MessagePending {
		t.Fatalf("status mismatch: %s", m.Status)
	}
	if m.SentAt != nil {
		t.Fatalf("pending message must have nil sent_at")
	}
}

func TestWAGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM wa_messages WHERE id").
		WillReturnRows(sqlmock.NewRows(waMessageCols()))

	_, err = WhatsAppRepository{DB: db}.GetByID(404)
	if !domain.IsNotFound(err) {
		t.Fatalf("missing row must be not-found, got %v", err)
	}
}

func TestWAListFiltersByStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("FROM wa_messages WHERE status").
		WithArgs("failed").
		WillReturnRows(sqlmock.NewRows(waMessageCols()).
			AddRow(1, "uuid-1", 7, "BK-2025-012", "Halo", "0811", "", "failed", "0811: timeout", now, nil, now))

	list, err := WhatsAppRepository{DB: db}.List("failed")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 1 || list[0].Error != "0811: timeout" {
		t.Fatalf("unexpected list result: %+v", list)
	}
}

func TestWAMarkSentSetsTimestampAndClearsError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	sentAt := time.Date(2025, time.June, 5, 9, 0, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE wa_messages").
		WithArgs("sent", sentAt, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := (WhatsAppRepository{DB: db}).MarkSent(3, sentAt); err != nil {
		t.Fatalf("MarkSent error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWAMarkFailedStoresReasonVerbatim(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE wa_messages").
		WithArgs("failed", "0811: timeout; 0812: nomor tidak terdaftar", int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = WhatsAppRepository{DB: db}.MarkFailed(4, "0811: timeout; 0812: nomor tidak terdaftar")
	if err != nil {
		t.Fatalf("MarkFailed error: %v", err)
	}
}

func TestWAMarkFailedMissingRowNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE wa_messages").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = WhatsAppRepository{DB: db}.MarkFailed(404, "x")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}
