package repositories

import (
	"database/sql"
	"strings"

	intconfig "backend/internal/config"
	intdb "backend/internal/db"
	"backend/internal/domain"
	"backend/internal/domain/models"
)

const templateColumns = `
	id,
	name,
	body,
	COALESCE(is_default, 0),
	created_at,
	updated_at
`

type TemplateRepository struct {
	DB *sql.DB
}

func (r TemplateRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r TemplateRepository) List() ([]models.MessageTemplate, error) {
	rows, err := r.db().Query(`SELECT ` + templateColumns + ` FROM wa_templates ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.MessageTemplate{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r TemplateRepository) GetByID(id int64) (models.MessageTemplate, error) {
	if id <= 0 {
		return models.MessageTemplate{}, domain.ValidationError{Field: "id", Msg: "id tidak valid"}
	}
	row := r.db().QueryRow(`SELECT `+templateColumns+` FROM wa_templates WHERE id = ? LIMIT 1`, id)
	t, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return models.MessageTemplate{}, domain.NotFoundError{Resource: "template", Err: err}
	}
	return t, err
}

// DefaultBody returns the operator-chosen default template body, or ""
// when none is configured (callers then use the built-in default).
// Deployments without the wa_templates migration fall through silently.
func (r TemplateRepository) DefaultBody() string {
	if !intdb.HasTable(r.db(), "wa_templates") {
		return ""
	}
	var body string
	err := r.db().QueryRow(`
		SELECT body FROM wa_templates WHERE is_default = 1 ORDER BY id ASC LIMIT 1
	`).Scan(&body)
	if err != nil {
		return ""
	}
	return body
}

func (r TemplateRepository) Create(t models.MessageTemplate) (int64, error) {
	name := strings.TrimSpace(t.Name)
	body := strings.TrimSpace(t.Body)
	if name == "" || body == "" {
		return 0, domain.ValidationError{Field: "template", Msg: "name dan body wajib diisi"}
	}
	isDefault := 0
	if t.IsDefault {
		isDefault = 1
	}
	res, err := r.db().Exec(`
		INSERT INTO wa_templates (name, body, is_default, created_at, updated_at)
		VALUES (?,?,?,NOW(),NOW())
	`, name, body, isDefault)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if t.IsDefault {
		// only one default at a time
		_, _ = r.db().Exec(`UPDATE wa_templates SET is_default = 0 WHERE id <> ?`, id)
	}
	return id, nil
}

func (r TemplateRepository) Update(id int64, t models.MessageTemplate) error {
	name := strings.TrimSpace(t.Name)
	body := strings.TrimSpace(t.Body)
	if name == "" || body == "" {
		return domain.ValidationError{Field: "template", Msg: "name dan body wajib diisi"}
	}
	isDefault := 0
	if t.IsDefault {
		isDefault = 1
	}
	res, err := r.db().Exec(`
		UPDATE wa_templates SET name = ?, body = ?, is_default = ?, updated_at = NOW()
		WHERE id = ?
	`, name, body, isDefault, id)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return domain.NotFoundError{Resource: "template"}
	}
	if t.IsDefault {
		_, _ = r.db().Exec(`UPDATE wa_templates SET is_default = 0 WHERE id <> ?`, id)
	}
	return nil
}

func (r TemplateRepository) Delete(id int64) error {
	if id <= 0 {
		return domain.ValidationError{Field: "id", Msg: "id tidak valid"}
	}
	res, err := r.db().Exec(`DELETE FROM wa_templates WHERE id = ?`, id)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return domain.NotFoundError{Resource: "template"}
	}
	return nil
}

func scanTemplate(row rowScanner) (models.MessageTemplate, error) {
	var t models.MessageTemplate
	var isDefault int
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Body,
		&isDefault,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return models.MessageTemplate{}, err
	}
	t.IsDefault = isDefault != 0
	return t, nil
}
