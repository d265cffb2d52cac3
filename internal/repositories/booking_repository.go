package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	intconfig "backend/internal/config"
	intdb "backend/internal/db"
	"backend/internal/domain"
	"backend/internal/domain/models"
)

const bookingColumns = `
	id,
	booking_number,
	COALESCE(customer_name, ''),
	COALESCE(customer_phone, ''),
	pickup_at,
	COALESCE(pickup_location, ''),
	COALESCE(dropoff_location, ''),
	COALESCE(passenger_count, 1),
	COALESCE(fare, 0),
	COALESCE(status, 'pending'),
	COALESCE(program_days, 0),
	COALESCE(vehicle_code, ''),
	COALESCE(driver_name, ''),
	COALESCE(notes, ''),
	created_at,
	updated_at
`

type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// BookingFilter narrows List results. Zero values mean "no filter".
type BookingFilter struct {
	Query     string
	Status    string
	StartDate string // YYYY-MM-DD inclusive
	EndDate   string // YYYY-MM-DD inclusive
	Page      int
	Limit     int
}

func (r BookingRepository) List(f BookingFilter) ([]models.Booking, error) {
	where := []string{}
	args := []any{}

	if q := strings.TrimSpace(f.Query); q != "" {
		where = append(where, "(booking_number LIKE ? OR customer_name LIKE ? OR customer_phone LIKE ?)")
		like := "%" + q + "%"
		args = append(args, like, like, like)
	}
	if s := strings.TrimSpace(f.Status); s != "" {
		where = append(where, "status = ?")
		args = append(args, s)
	}
	if d := strings.TrimSpace(f.StartDate); d != "" {
		where = append(where, "pickup_at >= ?")
		args = append(args, d+" 00:00:00")
	}
	if d := strings.TrimSpace(f.EndDate); d != "" {
		where = append(where, "pickup_at <= ?")
		args = append(args, d+" 23:59:59")
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY pickup_at DESC, id DESC"

	if f.Page > 0 && f.Limit > 0 {
		limit := f.Limit
		if limit > 200 {
			limit = 200
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, (f.Page-1)*limit)
	}

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListByMonth returns every booking whose pickup_at falls in the given
// calendar month (month is 1-indexed time.Month), ordered by pickup time.
func (r BookingRepository) ListByMonth(year int, month time.Month) ([]models.Booking, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)

	rows, err := r.db().Query(`
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE pickup_at >= ? AND pickup_at < ?
		ORDER BY pickup_at ASC, id ASC
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBookings(rows)
}

func (r BookingRepository) GetByID(id int64) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "id", Msg: "id tidak valid"}
	}
	row := r.db().QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE id = ? LIMIT 1`, id)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
	}
	return b, err
}

// CountByNumberPrefix counts bookings whose number starts with prefix.
// Used as the sibling-count fallback for legacy rows without program_days.
func (r BookingRepository) CountByNumberPrefix(prefix string) (int, error) {
	var n int
	err := r.db().QueryRow(`
		SELECT COUNT(*) FROM bookings WHERE booking_number LIKE ?
	`, escapeLike(prefix)+"%").Scan(&n)
	return n, err
}

// NextSequence returns the next per-year sequence for booking numbers
// (BK-<year>-<seq>). The sequence segment is compared numerically in SQL
// (a VARCHAR MAX would rank BK-2025-999 above BK-2025-1000); the segment
// extraction also drops any -D<n> day suffix. Derived from the highest
// existing number, so gaps from deletions are never reused downward.
func (r BookingRepository) NextSequence(year int) (int, error) {
	prefix := fmt.Sprintf("BK-%d-", year)
	var last sql.NullInt64
	err := r.db().QueryRow(`
		SELECT MAX(CAST(SUBSTRING_INDEX(SUBSTRING_INDEX(booking_number, '-', 3), '-', -1) AS UNSIGNED))
		FROM bookings
		WHERE booking_number LIKE ?
	`, escapeLike(prefix)+"%").Scan(&last)
	if err != nil {
		return 0, err
	}
	if !last.Valid {
		return 1, nil
	}
	return int(last.Int64) + 1, nil
}

func (r BookingRepository) Create(b models.Booking) (int64, error) {
	return r.createWith(r.db(), b)
}

// CreateTx inserts within a caller-owned transaction, used when a whole
// multi-day program must land or roll back together.
func (r BookingRepository) CreateTx(tx *sql.Tx, b models.Booking) (int64, error) {
	return r.createWith(tx, b)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (r BookingRepository) createWith(ex execer, b models.Booking) (int64, error) {
	res, err := ex.Exec(`
		INSERT INTO bookings
		  (booking_number, customer_name, customer_phone, pickup_at,
		   pickup_location, dropoff_location, passenger_count, fare,
		   status, program_days, vehicle_code, driver_name, notes,
		   created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,NOW(),NOW())
	`,
		b.BookingNumber,
		b.CustomerName,
		intdb.NullIfEmpty(b.CustomerPhone),
		b.PickupAt,
		intdb.NullIfEmpty(b.PickupLocation),
		intdb.NullIfEmpty(b.DropoffLocation),
		b.PassengerCount,
		b.Fare,
		string(b.Status),
		b.ProgramDays,
		intdb.NullIfEmpty(b.VehicleCode),
		intdb.NullIfEmpty(b.DriverName),
		intdb.NullIfEmpty(b.Notes),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r BookingRepository) Update(id int64, patch models.BookingUpdate) error {
	if id <= 0 {
		return domain.ValidationError{Field: "id", Msg: "id tidak valid"}
	}

	sets := []string{}
	args := []any{}
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if patch.CustomerName != nil {
		add("customer_name", strings.TrimSpace(*patch.CustomerName))
	}
	if patch.CustomerPhone != nil {
		add("customer_phone", intdb.NullIfEmpty(strings.TrimSpace(*patch.CustomerPhone)))
	}
	if patch.PickupAt != nil {
		add("pickup_at", *patch.PickupAt)
	}
	if patch.PickupLocation != nil {
		add("pickup_location", intdb.NullIfEmpty(strings.TrimSpace(*patch.PickupLocation)))
	}
	if patch.DropoffLocation != nil {
		add("dropoff_location", intdb.NullIfEmpty(strings.TrimSpace(*patch.DropoffLocation)))
	}
	if patch.PassengerCount != nil {
		add("passenger_count", *patch.PassengerCount)
	}
	if patch.Fare != nil {
		add("fare", *patch.Fare)
	}
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}
	if patch.VehicleCode != nil {
		add("vehicle_code", intdb.NullIfEmpty(strings.TrimSpace(*patch.VehicleCode)))
	}
	if patch.DriverName != nil {
		add("driver_name", intdb.NullIfEmpty(strings.TrimSpace(*patch.DriverName)))
	}
	if patch.Notes != nil {
		add("notes", intdb.NullIfEmpty(strings.TrimSpace(*patch.Notes)))
	}

	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	res, err := r.db().Exec(`UPDATE bookings SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return domain.NotFoundError{Resource: "booking"}
	}
	return nil
}

func (r BookingRepository) Delete(id int64) error {
	if id <= 0 {
		return domain.ValidationError{Field: "id", Msg: "id tidak valid"}
	}
	res, err := r.db().Exec(`DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return domain.NotFoundError{Resource: "booking"}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (models.Booking, error) {
	var b models.Booking
	var status string
	err := row.Scan(
		&b.ID,
		&b.BookingNumber,
		&b.CustomerName,
		&b.CustomerPhone,
		&b.PickupAt,
		&b.PickupLocation,
		&b.DropoffLocation,
		&b.PassengerCount,
		&b.Fare,
		&status,
		&b.ProgramDays,
		&b.VehicleCode,
		&b.DriverName,
		&b.Notes,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return models.Booking{}, err
	}
	b.Status = models.BookingStatus(status)
	return b, nil
}

func scanBookings(rows *sql.Rows) ([]models.Booking, error) {
	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
