package handlers

import (
	"testing"

	intconfig "backend/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestDriverNameByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	mock.ExpectQuery("SELECT name FROM drivers").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Pak Dedi"))

	if got := driverNameByID(3); got != "Pak Dedi" {
		t.Fatalf("expected Pak Dedi, got %q", got)
	}
}

func TestDriverNameByIDMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	mock.ExpectQuery("SELECT name FROM drivers").
		WillReturnRows(sqlmock.NewRows([]string{"name"}))

	if got := driverNameByID(404); got != "" {
		t.Fatalf("missing driver should resolve to empty name, got %q", got)
	}
}
