package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	intconfig "backend/internal/config"
	"backend/internal/domain"
	"backend/internal/domain/models"
	"backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func sampleBooking() models.Booking {
	return models.Booking{
		ID:              7,
		BookingNumber:   "BK-2025-012",
		CustomerName:    "Ibu Sari",
		CustomerPhone:   "081234567890",
		PickupAt:        time.Date(2025, time.June, 5, 8, 5, 0, 0, time.Local),
		PickupLocation:  "Hotel Mawar",
		DropoffLocation: "Bandara Ngurah Rai",
		PassengerCount:  3,
		Fare:            2500000,
		Status:          models.BookingConfirmed,
		VehicleCode:     "B 1234 XY",
		DriverName:      "Pak Dedi",
	}
}

func TestRenderTemplateSubstitutesKnownPlaceholders(t *testing.T) {
	tpl := "{{CUSTOMER_NAME}} {{BOOKING_NUMBER}} {{PICKUP_DATE}} {{PICKUP_TIME}} {{PASSENGER_COUNT}} {{FARE}} {{STATUS}} {{VEHICLE}} {{DRIVER_NAME}}"
	got := RenderTemplate(sampleBooking(), tpl)
	want := "Ibu Sari BK-2025-012 6/5/2025 08:05 3 Rp2.500.000 confirmed B 1234 XY Pak Dedi"
	if got != want {
		t.Fatalf("render mismatch:\n got %q\nwant %q", got, want)
	}
	if strings.Contains(got, "{{") {
		t.Fatalf("known placeholders must all be substituted: %q", got)
	}
}

func TestRenderTemplateUnknownPlaceholderPassesThrough(t *testing.T) {
	got := RenderTemplate(sampleBooking(), "Halo {{CUSTOMER_NAME}}, kode: {{PROMO_CODE}}")
	if !strings.Contains(got, "{{PROMO_CODE}}") {
		t.Fatalf("unknown placeholder must stay verbatim, got %q", got)
	}
	if strings.Contains(got, "{{CUSTOMER_NAME}}") {
		t.Fatalf("known placeholder not substituted: %q", got)
	}
}

func TestRenderTemplateMissingValuesBecomeNA(t *testing.T) {
	b := models.Booking{BookingNumber: "BK-2025-001"}
	got := RenderTemplate(b, "{{CUSTOMER_NAME}}|{{PICKUP_DATE}}|{{PICKUP_TIME}}|{{FARE}}|{{PASSENGER_COUNT}}")
	if got != "N/A|N/A|N/A|N/A|1" {
		t.Fatalf("missing fields should render N/A (count defaults to 1), got %q", got)
	}
}

func TestRenderTemplateEmptyFallsBackToDefault(t *testing.T) {
	got := RenderTemplate(sampleBooking(), "   ")
	if !strings.Contains(got, "Ibu Sari") || !strings.Contains(got, "BK-2025-012") {
		t.Fatalf("empty template should select the default template, got %q", got)
	}
}

func TestRenderTemplateProgramDay(t *testing.T) {
	b := sampleBooking()
	b.BookingNumber = "BK-2025-012-D2"
	b.ProgramDays = 3
	got := RenderTemplate(b, "{{PROGRAM_DAY}}")
	if got != "Hari 2/3" {
		t.Fatalf("program day label mismatch, got %q", got)
	}
}

func TestRenderTemplateDeterministic(t *testing.T) {
	b := sampleBooking()
	tpl := "{{CUSTOMER_NAME}} {{PICKUP_DATE}} {{FARE}}"
	if RenderTemplate(b, tpl) != RenderTemplate(b, tpl) {
		t.Fatalf("renderer must be deterministic for the same input")
	}
}

type fakeWAClient struct {
	fail map[string]error
	sent []string
}

func (f *fakeWAClient) Send(ctx context.Context, phone, text string) (string, error) {
	if err, ok := f.fail[phone]; ok {
		return "", err
	}
	f.sent = append(f.sent, phone)
	return "wamid-" + phone, nil
}

func waCols() []string {
	return []string{
		"id", "message_id", "booking_id", "booking_number", "message",
		"recipients", "recipient_names", "status", "error",
		"created_at", "sent_at", "updated_at",
	}
}

func waRow(id int64, status, recipients, errText string) *sqlmock.Rows {
	now := time.Now()
	var e any
	if errText != "" {
		e = errText
	}
	return sqlmock.NewRows(waCols()).
		AddRow(id, "uuid-1", 7, "BK-2025-012", "Halo Ibu Sari", recipients, "", status, e, now, nil, now)
}

func TestSendMarksSentWhenAllRecipientsSucceed(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	mock.ExpectQuery("FROM wa_messages WHERE id").
		WillReturnRows(waRow(3, "pending", "0811,0812", ""))
	mock.ExpectExec("UPDATE wa_messages").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM wa_messages WHERE id").
		WillReturnRows(waRow(3, "sent", "0811,0812", ""))

	client := &fakeWAClient{}
	svc := WhatsAppService{MessageRepo: repositories.WhatsAppRepository{DB: db}, Client: client}

	m, err := svc.Send(context.Background(), 3)
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if m.Status != models.MessageSent {
		t.Fatalf("expected status sent, got %s", m.Status)
	}
	if len(client.sent) != 2 {
		t.Fatalf("expected delivery to both recipients, got %v", client.sent)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSendAggregatesPerRecipientFailures(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	mock.ExpectQuery("FROM wa_messages WHERE id").
		WillReturnRows(waRow(4, "pending", "0811,0812", ""))
	mock.ExpectExec("UPDATE wa_messages").
		WithArgs("failed", "0812: timeout", 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM wa_messages WHERE id").
		WillReturnRows(waRow(4, "failed", "0811,0812", "0812: timeout"))

	client := &fakeWAClient{fail: map[string]error{"0812": errors.New("timeout")}}
	svc := WhatsAppService{MessageRepo: repositories.WhatsAppRepository{DB: db}, Client: client}

	m, err := svc.Send(context.Background(), 4)
	if err != nil {
		t.Fatalf("delivery failure must come back as data, not error: %v", err)
	}
	if m.Status != models.MessageFailed {
		t.Fatalf("expected status failed, got %s", m.Status)
	}
	if m.Error != "0812: timeout" {
		t.Fatalf("failure reason mismatch: %q", m.Error)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSendRejectsAlreadySentMessage(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	mock.ExpectQuery("FROM wa_messages WHERE id").
		WillReturnRows(waRow(5, "sent", "0811", ""))

	svc := WhatsAppService{MessageRepo: repositories.WhatsAppRepository{DB: db}, Client: &fakeWAClient{}}
	_, err = svc.Send(context.Background(), 5)
	if !domain.IsConflict(err) {
		t.Fatalf("resending a sent message must conflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSendFailedMessageCanSucceedOnRetry(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	mock.ExpectQuery("FROM wa_messages WHERE id").
		WillReturnRows(waRow(6, "failed", "0811", "0811: timeout"))
	mock.ExpectExec("UPDATE wa_messages").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM wa_messages WHERE id").
		WillReturnRows(waRow(6, "sent", "0811", ""))

	svc := WhatsAppService{MessageRepo: repositories.WhatsAppRepository{DB: db}, Client: &fakeWAClient{}}
	m, err := svc.Send(context.Background(), 6)
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if m.Status != models.MessageSent {
		t.Fatalf("failed message must be resendable, got %s", m.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSendConflictsWhileInFlight(t *testing.T) {
	if !inflightSends.tryAcquire(99) {
		t.Fatalf("guard unexpectedly busy")
	}
	defer inflightSends.release(99)

	svc := WhatsAppService{Client: &fakeWAClient{}}
	_, err := svc.Send(context.Background(), 99)
	if !domain.IsConflict(err) {
		t.Fatalf("concurrent send of the same id must conflict, got %v", err)
	}
}

func TestEditBodyRejectsSentMessage(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	mock.ExpectQuery("FROM wa_messages WHERE id").
		WillReturnRows(waRow(8, "sent", "0811", ""))

	svc := WhatsAppService{MessageRepo: repositories.WhatsAppRepository{DB: db}}
	_, err = svc.EditBody(8, "teks baru")
	if !domain.IsConflict(err) {
		t.Fatalf("editing a sent message must conflict, got %v", err)
	}
}

func TestEditBodyRejectsEmptyText(t *testing.T) {
	svc := WhatsAppService{}
	_, err := svc.EditBody(1, "   ")
	if !domain.IsValidation(err) {
		t.Fatalf("empty body must fail validation, got %v", err)
	}
}

func TestQueueForBookingRequiresRecipient(t *testing.T) {
	b := sampleBooking()
	b.CustomerPhone = ""
	svc := WhatsAppService{}
	_, err := svc.QueueForBooking(b, "x", nil, nil)
	if !domain.IsValidation(err) {
		t.Fatalf("queueing without any recipient must fail validation, got %v", err)
	}
}
