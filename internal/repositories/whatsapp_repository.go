package repositories

import (
	"database/sql"
	"strings"
	"time"

	intconfig "backend/internal/config"
	intdb "backend/internal/db"
	"backend/internal/domain"
	"backend/internal/domain/models"
	"backend/internal/utils"
)

const waMessageColumns = `
	id,
	COALESCE(message_id, ''),
	COALESCE(booking_id, 0),
	COALESCE(booking_number, ''),
	message,
	COALESCE(recipients, ''),
	COALESCE(recipient_names, ''),
	status,
	error,
	created_at,
	sent_at,
	updated_at
`

type WhatsAppRepository struct {
	DB *sql.DB
}

func (r WhatsAppRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// List returns messages newest first, optionally filtered by status.
func (r WhatsAppRepository) List(status string) ([]models.WhatsAppMessage, error) {
	query := `SELECT ` + waMessageColumns + ` FROM wa_messages`
	args := []any{}
	if s := strings.TrimSpace(status); s != "" {
		query += ` WHERE status = ?`
		args = append(args, s)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.WhatsAppMessage{}
	for rows.Next() {
		m, err := scanWAMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r WhatsAppRepository) GetByID(id int64) (models.WhatsAppMessage, error) {
	if id <= 0 {
		return models.WhatsAppMessage{}, domain.ValidationError{Field: "id", Msg: "id tidak valid"}
	}
	row := r.db().QueryRow(`SELECT `+waMessageColumns+` FROM wa_messages WHERE id = ? LIMIT 1`, id)
	m, err := scanWAMessage(row)
	if err == sql.ErrNoRows {
		return models.WhatsAppMessage{}, domain.NotFoundError{Resource: "pesan", Err: err}
	}
	return m, err
}

func (r WhatsAppRepository) Create(m models.WhatsAppMessage) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO wa_messages
		  (message_id, booking_id, booking_number, message, recipients,
		   recipient_names, status, error, created_at, sent_at, updated_at)
		VALUES (?,?,?,?,?,?,?,NULL,NOW(),NULL,NOW())
	`,
		m.MessageID,
		m.BookingID,
		intdb.NullIfEmpty(m.BookingNumber),
		m.Message,
		utils.JoinList(m.Recipients),
		intdb.NullIfEmpty(utils.JoinList(m.RecipientNames)),
		string(m.Status),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateBody replaces the message text; status is untouched.
func (r WhatsAppRepository) UpdateBody(id int64, body string) error {
	res, err := r.db().Exec(`
		UPDATE wa_messages SET message = ?, updated_at = NOW() WHERE id = ?
	`, body, id)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return domain.NotFoundError{Resource: "pesan"}
	}
	return nil
}

// MarkSent records delivery success: status sent, sent_at set, error cleared.
func (r WhatsAppRepository) MarkSent(id int64, sentAt time.Time) error {
	res, err := r.db().Exec(`
		UPDATE wa_messages
		SET status = ?, sent_at = ?, error = NULL, updated_at = NOW()
		WHERE id = ?
	`, string(models.MessageSent), sentAt, id)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return domain.NotFoundError{Resource: "pesan"}
	}
	return nil
}

// MarkFailed records the latest failure reason verbatim; sent_at stays NULL.
func (r WhatsAppRepository) MarkFailed(id int64, reason string) error {
	res, err := r.db().Exec(`
		UPDATE wa_messages
		SET status = ?, error = ?, updated_at = NOW()
		WHERE id = ?
	`, string(models.MessageFailed), reason, id)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return domain.NotFoundError{Resource: "pesan"}
	}
	return nil
}

func (r WhatsAppRepository) Delete(id int64) error {
	if id <= 0 {
		return domain.ValidationError{Field: "id", Msg: "id tidak valid"}
	}
	res, err := r.db().Exec(`DELETE FROM wa_messages WHERE id = ?`, id)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return domain.NotFoundError{Resource: "pesan"}
	}
	return nil
}

func scanWAMessage(row rowScanner) (models.WhatsAppMessage, error) {
	var (
		m          models.WhatsAppMessage
		recipients string
		names      string
		status     string
		errText    sql.NullString
		sentAt     sql.NullTime
	)
	err := row.Scan(
		&m.ID,
		&m.MessageID,
		&m.BookingID,
		&m.BookingNumber,
		&m.Message,
		&recipients,
		&names,
		&status,
		&errText,
		&m.CreatedAt,
		&sentAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return models.WhatsAppMessage{}, err
	}
	m.Recipients = utils.SplitPhoneList(recipients)
	if names != "" {
		m.RecipientNames = strings.Split(names, ",")
	}
	m.Status = models.MessageStatus(status)
	if errText.Valid {
		m.Error = errText.String
	}
	if sentAt.Valid {
		t := sentAt.Time
		m.SentAt = &t
	}
	return m, nil
}
