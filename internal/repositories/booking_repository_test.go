package repositories

import (
	"testing"

	"backend/internal/domain"
	"backend/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestNextSequenceEmptyYear(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT MAX\\(CAST\\(SUBSTRING_INDEX").
		WithArgs("BK-2025-%").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))

	seq, err := BookingRepository{DB: db}.NextSequence(2025)
	if err != nil {
		t.Fatalf("NextSequence error: %v", err)
	}
	if seq != 1 {
		t.Fatalf("empty year should start at 1, got %d", seq)
	}
}

func TestNextSequenceIncrementsHighest(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT MAX\\(CAST\\(SUBSTRING_INDEX").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(41))

	seq, err := BookingRepository{DB: db}.NextSequence(2025)
	if err != nil {
		t.Fatalf("NextSequence error: %v", err)
	}
	if seq != 42 {
		t.Fatalf("expected 42, got %d", seq)
	}
}

// The sequence comparison is numeric: past 999 the next number must be
// 1001, not a re-issued 1000 (a lexicographic MAX on the VARCHAR would
// keep returning BK-<year>-999 and wedge creation on duplicate keys).
func TestNextSequenceFourDigitRollover(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT MAX\\(CAST\\(SUBSTRING_INDEX").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(1000))

	seq, err := BookingRepository{DB: db}.NextSequence(2025)
	if err != nil {
		t.Fatalf("NextSequence error: %v", err)
	}
	if seq != 1001 {
		t.Fatalf("expected 1001 after BK-2025-1000, got %d", seq)
	}
}

func TestCountByNumberPrefix(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings").
		WithArgs("BK-2025-007-D%").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(3))

	n, err := BookingRepository{DB: db}.CountByNumberPrefix("BK-2025-007-D")
	if err != nil {
		t.Fatalf("CountByNumberPrefix error: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3, got %d", n)
	}
}

func TestBookingGetByIDRejectsInvalidID(t *testing.T) {
	_, err := BookingRepository{}.GetByID(0)
	if !domain.IsValidation(err) {
		t.Fatalf("id <= 0 must fail validation, got %v", err)
	}
}

func TestBookingUpdateEmptyPatchIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	if err := (BookingRepository{DB: db}).Update(5, models.BookingUpdate{}); err != nil {
		t.Fatalf("empty patch should be a no-op, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no query should be issued: %v", err)
	}
}

func TestBookingDeleteMissingRowNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM bookings").
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = BookingRepository{DB: db}.Delete(9)
	if !domain.IsNotFound(err) {
		t.Fatalf("deleting a missing row must be not-found, got %v", err)
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike("BK-10%_x"); got != `BK-10\%\_x` {
		t.Fatalf("escapeLike mismatch: %q", got)
	}
}
