package services

import (
	"testing"
	"time"

	intconfig "backend/internal/config"
	"backend/internal/domain/models"
	"backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func pickup(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.Local)
}

func TestClassifyRecurrence(t *testing.T) {
	cases := []struct {
		in   string
		want Recurrence
	}{
		{"BK-2024-001-D3", Recurrence{IsRecurring: true, BaseNumber: "BK-2024-001", DayIndex: 3}},
		{"BK-2025-042-D1", Recurrence{IsRecurring: true, BaseNumber: "BK-2025-042", DayIndex: 1}},
		{"BK-2024-001", Recurrence{}},
		{"BK-2024-001-D3X", Recurrence{}}, // suffix must terminate the number
		{"XX-001-D3", Recurrence{}},       // base must contain BK-
		{"BK-2024-001-D0", Recurrence{}},  // day index starts at 1
		{"", Recurrence{}},
	}
	for _, c := range cases {
		got := ClassifyRecurrence(c.in)
		if got != c.want {
			t.Fatalf("ClassifyRecurrence(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestCountRecurringSiblingsPrefersProgramDays(t *testing.T) {
	// only two sibling rows visible, but the cached count says five
	all := []models.Booking{
		{BookingNumber: "BK-2025-010-D1"},
		{BookingNumber: "BK-2025-010-D2"},
	}
	if n := CountRecurringSiblings("BK-2025-010", 5, all); n != 5 {
		t.Fatalf("cached program_days should win, got %d", n)
	}
	if n := CountRecurringSiblings("BK-2025-010", 0, all); n != 2 {
		t.Fatalf("fallback prefix scan should find 2, got %d", n)
	}
}

func TestCountRecurringSiblingsIgnoresOtherBases(t *testing.T) {
	all := []models.Booking{
		{BookingNumber: "BK-2025-010-D1"},
		{BookingNumber: "BK-2025-011-D1"},
		{BookingNumber: "BK-2025-010"},
	}
	if n := CountRecurringSiblings("BK-2025-010", 0, all); n != 1 {
		t.Fatalf("expected 1 sibling for base BK-2025-010, got %d", n)
	}
}

func TestBucketBookingsByDayCompletenessAndOrder(t *testing.T) {
	bookings := []models.Booking{
		{ID: 1, BookingNumber: "BK-2025-001", PickupAt: pickup(2025, time.June, 5, 14, 0)},
		{ID: 2, BookingNumber: "BK-2025-002", PickupAt: pickup(2025, time.June, 5, 8, 30)},
		{ID: 3, BookingNumber: "BK-2025-003", PickupAt: pickup(2025, time.June, 20, 9, 0)},
		{ID: 4, BookingNumber: "BK-2025-004", PickupAt: pickup(2025, time.July, 1, 9, 0)}, // outside month
	}

	buckets := BucketBookingsByDay(bookings, 2025, time.June)

	total := 0
	for _, list := range buckets {
		total += len(list)
	}
	if total != 3 {
		t.Fatalf("every June booking must land in exactly one bucket, got %d", total)
	}
	if _, ok := buckets[1]; ok {
		t.Fatalf("day without bookings must be absent from the map")
	}

	day5 := buckets[5]
	if len(day5) != 2 {
		t.Fatalf("expected 2 bookings on day 5, got %d", len(day5))
	}
	if day5[0].ID != 2 || day5[1].ID != 1 {
		t.Fatalf("bookings within a day must sort by time of day, got ids %d,%d", day5[0].ID, day5[1].ID)
	}
}

func TestBucketBookingsByDayStableOnEqualTimes(t *testing.T) {
	bookings := []models.Booking{
		{ID: 10, PickupAt: pickup(2025, time.June, 7, 10, 0)},
		{ID: 11, PickupAt: pickup(2025, time.June, 7, 10, 0)},
		{ID: 12, PickupAt: pickup(2025, time.June, 7, 10, 0)},
	}
	day7 := BucketBookingsByDay(bookings, 2025, time.June)[7]
	if day7[0].ID != 10 || day7[1].ID != 11 || day7[2].ID != 12 {
		t.Fatalf("equal pickup times must keep input order, got %d,%d,%d", day7[0].ID, day7[1].ID, day7[2].ID)
	}
}

func TestBucketBookingsByDayPure(t *testing.T) {
	bookings := []models.Booking{
		{ID: 1, PickupAt: pickup(2025, time.June, 3, 9, 0)},
	}
	a := BucketBookingsByDay(bookings, 2025, time.June)
	b := BucketBookingsByDay(bookings, 2025, time.June)
	if len(a) != len(b) || len(a[3]) != len(b[3]) || a[3][0].ID != b[3][0].ID {
		t.Fatalf("repeated calls with the same input must agree")
	}
}

func bookingRow(rows *sqlmock.Rows, id int64, number string, at time.Time, programDays int) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, number, "Budi", "0811", at, "Hotel A", "Bandara", 2, 500000, "confirmed", programDays, "B 1234 XY", "Pak Dedi", "", now, now)
}

func bookingCols() []string {
	return []string{
		"id", "booking_number", "customer_name", "customer_phone", "pickup_at",
		"pickup_location", "dropoff_location", "passenger_count", "fare",
		"status", "program_days", "vehicle_code", "driver_name", "notes",
		"created_at", "updated_at",
	}
}

func TestGetMonthViewAnnotatesThreeDayProgram(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	rows := sqlmock.NewRows(bookingCols())
	rows = bookingRow(rows, 1, "BK-2025-003-D1", pickup(2025, time.June, 10, 8, 0), 3)
	rows = bookingRow(rows, 2, "BK-2025-003-D2", pickup(2025, time.June, 11, 8, 0), 3)
	rows = bookingRow(rows, 3, "BK-2025-003-D3", pickup(2025, time.June, 12, 8, 0), 3)
	rows = bookingRow(rows, 4, "BK-2025-004", pickup(2025, time.June, 10, 14, 0), 0)

	mock.ExpectQuery("FROM bookings").WillReturnRows(rows)

	view, err := CalendarService{BookingRepo: repositories.BookingRepository{DB: db}}.GetMonthView(2025, time.June)
	if err != nil {
		t.Fatalf("GetMonthView error: %v", err)
	}

	if view.Year != 2025 || view.Month != 6 {
		t.Fatalf("unexpected view header: %d-%d", view.Year, view.Month)
	}
	if len(view.Days) != 3 {
		t.Fatalf("expected bookings on 3 days, got %d", len(view.Days))
	}

	day10 := view.Days[10]
	if len(day10) != 2 {
		t.Fatalf("expected 2 bookings on day 10, got %d", len(day10))
	}
	first := day10[0]
	if !first.IsRecurring || first.BaseNumber != "BK-2025-003" || first.DayIndex != 1 || first.TotalDays != 3 {
		t.Fatalf("program day 1 not annotated: %+v", first)
	}
	if day10[1].IsRecurring {
		t.Fatalf("single booking must not be flagged recurring: %+v", day10[1])
	}

	if e := view.Days[12][0]; e.DayIndex != 3 || e.TotalDays != 3 {
		t.Fatalf("program day 3 not annotated: %+v", e)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetMonthViewLegacyRowsFallBackToPrefixCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	rows := sqlmock.NewRows(bookingCols())
	rows = bookingRow(rows, 1, "BK-2025-007-D2", pickup(2025, time.June, 2, 9, 0), 0)

	mock.ExpectQuery("FROM bookings").WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings").
		WithArgs("BK-2025-007-D%").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(4))

	view, err := CalendarService{BookingRepo: repositories.BookingRepository{DB: db}}.GetMonthView(2025, time.June)
	if err != nil {
		t.Fatalf("GetMonthView error: %v", err)
	}
	if e := view.Days[2][0]; e.TotalDays != 4 {
		t.Fatalf("legacy row should count siblings via prefix, got %d", e.TotalDays)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
