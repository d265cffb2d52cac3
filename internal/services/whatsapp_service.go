package services

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	intconfig "backend/internal/config"
	"backend/internal/domain"
	"backend/internal/domain/models"
	"backend/internal/repositories"
	"backend/internal/utils"
	"backend/internal/whatsapp"

	"github.com/google/uuid"
)

// DefaultMessageTemplate is used when no template body is supplied and
// no operator default is stored. Passed as a default argument only,
// never read as ambient state by the renderer.
const DefaultMessageTemplate = `Halo {{CUSTOMER_NAME}},

Booking {{BOOKING_NUMBER}} telah dikonfirmasi.
Jadwal jemput: {{PICKUP_DATE}} pukul {{PICKUP_TIME}}
Titik jemput: {{PICKUP_LOCATION}}
Tujuan: {{DROPOFF_LOCATION}}
Jumlah penumpang: {{PASSENGER_COUNT}}

Terima kasih telah menggunakan layanan kami.`

var placeholderPattern = regexp.MustCompile(`\{\{[A-Z0-9_]+\}\}`)

// RenderTemplate substitutes every known {{PLACEHOLDER}} in tpl with the
// booking's formatted field value. Unknown placeholders are left
// verbatim: templates are operator-authored and may reference fields a
// future version will fill. An empty tpl selects DefaultMessageTemplate.
// Pure and deterministic for a given booking+template.
func RenderTemplate(b models.Booking, tpl string) string {
	if strings.TrimSpace(tpl) == "" {
		tpl = DefaultMessageTemplate
	}
	vars := templateVars(b)
	return placeholderPattern.ReplaceAllStringFunc(tpl, func(m string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(m, "{{"), "}}")
		if v, ok := vars[name]; ok {
			return v
		}
		return m
	})
}

func templateVars(b models.Booking) map[string]string {
	orNA := func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "N/A"
		}
		return s
	}

	count := b.PassengerCount
	if count <= 0 {
		count = 1
	}

	pickupDate := "N/A"
	pickupTime := "N/A"
	if !b.PickupAt.IsZero() {
		pickupDate = utils.FormatShortDate(b.PickupAt)
		pickupTime = utils.FormatClock(b.PickupAt)
	}

	fare := "N/A"
	if b.Fare > 0 {
		fare = utils.FormatRupiah(b.Fare)
	}

	programDay := "N/A"
	if rec := ClassifyRecurrence(b.BookingNumber); rec.IsRecurring {
		if total := CountRecurringSiblings(rec.BaseNumber, b.ProgramDays, nil); total > 0 {
			programDay = fmt.Sprintf("Hari %d/%d", rec.DayIndex, total)
		} else {
			programDay = fmt.Sprintf("Hari %d", rec.DayIndex)
		}
	}

	return map[string]string{
		"CUSTOMER_NAME":    orNA(b.CustomerName),
		"CUSTOMER_PHONE":   orNA(b.CustomerPhone),
		"BOOKING_NUMBER":   orNA(b.BookingNumber),
		"PICKUP_DATE":      pickupDate,
		"PICKUP_TIME":      pickupTime,
		"PICKUP_LOCATION":  orNA(b.PickupLocation),
		"DROPOFF_LOCATION": orNA(b.DropoffLocation),
		"PASSENGER_COUNT":  strconv.Itoa(count),
		"FARE":             fare,
		"STATUS":           orNA(string(b.Status)),
		"VEHICLE":          orNA(b.VehicleCode),
		"DRIVER_NAME":      orNA(b.DriverName),
		"PROGRAM_DAY":      programDay,
	}
}

// sendGuard keeps at most one in-flight send per message id. Sends for
// different ids never block each other.
type sendGuard struct {
	mu  sync.Mutex
	ids map[int64]struct{}
}

func (g *sendGuard) tryAcquire(id int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ids == nil {
		g.ids = map[int64]struct{}{}
	}
	if _, busy := g.ids[id]; busy {
		return false
	}
	g.ids[id] = struct{}{}
	return true
}

func (g *sendGuard) release(id int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.ids, id)
}

var inflightSends sendGuard

type WhatsAppService struct {
	MessageRepo  repositories.WhatsAppRepository
	TemplateRepo repositories.TemplateRepository
	Client       whatsapp.Client
	DB           *sql.DB
	RequestID    string
}

func (s WhatsAppService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s WhatsAppService) messages() repositories.WhatsAppRepository {
	if s.MessageRepo.DB != nil {
		return s.MessageRepo
	}
	return repositories.WhatsAppRepository{DB: s.db()}
}

func (s WhatsAppService) templates() repositories.TemplateRepository {
	if s.TemplateRepo.DB != nil {
		return s.TemplateRepo
	}
	return repositories.TemplateRepository{DB: s.db()}
}

// QueueForBooking renders the template against the booking and persists
// the result as a pending message. Empty tplBody falls back to the
// stored operator default, then to DefaultMessageTemplate.
func (s WhatsAppService) QueueForBooking(b models.Booking, tplBody string, recipients, recipientNames []string) (models.WhatsAppMessage, error) {
	clean := []string{}
	for _, p := range recipients {
		p = strings.TrimSpace(p)
		if p != "" {
			clean = append(clean, p)
		}
	}
	if len(clean) == 0 && strings.TrimSpace(b.CustomerPhone) != "" {
		clean = append(clean, strings.TrimSpace(b.CustomerPhone))
	}
	if len(clean) == 0 {
		return models.WhatsAppMessage{}, domain.ValidationError{Field: "recipients", Msg: "nomor tujuan kosong"}
	}

	if strings.TrimSpace(tplBody) == "" {
		tplBody = s.templates().DefaultBody()
	}

	msg := models.WhatsAppMessage{
		MessageID:      uuid.NewString(),
		BookingID:      b.ID,
		BookingNumber:  b.BookingNumber,
		Message:        RenderTemplate(b, tplBody),
		Recipients:     clean,
		RecipientNames: recipientNames,
		Status:         models.MessagePending,
	}

	id, err := s.messages().Create(msg)
	if err != nil {
		return models.WhatsAppMessage{}, domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "whatsapp", "queue", fmt.Sprintf("message_id=%s booking=%s", msg.MessageID, b.BookingNumber))
	return s.messages().GetByID(id)
}

// EditBody updates the text of a pending or failed message. A sent
// message is immutable.
func (s WhatsAppService) EditBody(id int64, body string) (models.WhatsAppMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return models.WhatsAppMessage{}, domain.ValidationError{Field: "message", Msg: "pesan tidak boleh kosong"}
	}

	m, err := s.messages().GetByID(id)
	if err != nil {
		return models.WhatsAppMessage{}, err
	}
	if m.Status == models.MessageSent {
		return models.WhatsAppMessage{}, domain.ConflictError{Resource: "pesan", Msg: "pesan sudah terkirim dan tidak bisa diubah"}
	}

	if err := s.messages().UpdateBody(id, body); err != nil {
		return models.WhatsAppMessage{}, err
	}
	return s.messages().GetByID(id)
}

// Send attempts delivery to every recipient of a pending or failed
// message. The message becomes sent only when all recipients succeed;
// otherwise it is marked failed with a per-recipient reason list.
// Delivery failure is returned as data on the message, not as an error.
func (s WhatsAppService) Send(ctx context.Context, id int64) (models.WhatsAppMessage, error) {
	if !inflightSends.tryAcquire(id) {
		return models.WhatsAppMessage{}, domain.ConflictError{Resource: "pesan", Msg: "pengiriman sedang berjalan"}
	}
	defer inflightSends.release(id)

	m, err := s.messages().GetByID(id)
	if err != nil {
		return models.WhatsAppMessage{}, err
	}
	if m.Status == models.MessageSent {
		return models.WhatsAppMessage{}, domain.ConflictError{Resource: "pesan", Msg: "pesan sudah terkirim"}
	}
	if s.Client == nil {
		return models.WhatsAppMessage{}, domain.InternalError{Msg: "wa client belum dikonfigurasi"}
	}

	failures := []string{}
	for _, phone := range m.Recipients {
		if _, err := s.Client.Send(ctx, phone, m.Message); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", phone, err))
		}
	}

	if len(failures) > 0 {
		reason := strings.Join(failures, "; ")
		if err := s.messages().MarkFailed(id, reason); err != nil {
			return models.WhatsAppMessage{}, err
		}
		utils.LogEvent(s.RequestID, "whatsapp", "send_failed", fmt.Sprintf("id=%d reason=%s", id, reason))
	} else {
		if err := s.messages().MarkSent(id, utils.NowUTC()); err != nil {
			return models.WhatsAppMessage{}, err
		}
		utils.LogEvent(s.RequestID, "whatsapp", "send_ok", fmt.Sprintf("id=%d recipients=%d", id, len(m.Recipients)))
	}

	return s.messages().GetByID(id)
}

// Delete removes a message in any state.
func (s WhatsAppService) Delete(id int64) error {
	return s.messages().Delete(id)
}
