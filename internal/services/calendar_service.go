package services

import (
	"database/sql"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	intconfig "backend/internal/config"
	"backend/internal/domain/models"
	"backend/internal/repositories"
)

// Recurrence classifies a booking number. Bookings of a multi-day
// program are numbered <base>-D<n> where <base> contains "BK-".
type Recurrence struct {
	IsRecurring bool   `json:"isRecurring"`
	BaseNumber  string `json:"baseNumber,omitempty"`
	DayIndex    int    `json:"dayIndex,omitempty"`
}

// anchored at end of string: "BK-2024-001-D3X" is not a program day.
var programDayPattern = regexp.MustCompile(`^(.+)-D([0-9]+)$`)

// ClassifyRecurrence parses the -D<n> day suffix out of a booking
// number. Anything that does not match is an ordinary single booking,
// never an error.
func ClassifyRecurrence(bookingNumber string) Recurrence {
	m := programDayPattern.FindStringSubmatch(bookingNumber)
	if m == nil {
		return Recurrence{}
	}
	base := m[1]
	if !strings.Contains(base, "BK-") {
		return Recurrence{}
	}
	day, err := strconv.Atoi(m[2])
	if err != nil || day <= 0 {
		return Recurrence{}
	}
	return Recurrence{IsRecurring: true, BaseNumber: base, DayIndex: day}
}

// CountRecurringSiblings returns how many bookings make up the program.
// programDays is the count cached at creation time and is authoritative
// when positive; otherwise the booking list is scanned for numbers
// sharing the base prefix (legacy rows without program_days).
func CountRecurringSiblings(baseNumber string, programDays int, all []models.Booking) int {
	if programDays > 0 {
		return programDays
	}
	prefix := baseNumber + "-D"
	n := 0
	for _, b := range all {
		if strings.HasPrefix(b.BookingNumber, prefix) {
			n++
		}
	}
	return n
}

// BucketBookingsByDay groups the bookings of one calendar month by
// day-of-month. Month is 1-indexed (time.Month). Within a day, bookings
// are ordered ascending by time of day; ties keep input order. Days
// without bookings are absent from the map.
//
// Pure function of its inputs; callers recompute it whenever the
// booking list or the displayed month changes.
func BucketBookingsByDay(bookings []models.Booking, year int, month time.Month) map[int][]models.Booking {
	buckets := map[int][]models.Booking{}
	for _, b := range bookings {
		if b.PickupAt.Year() != year || b.PickupAt.Month() != month {
			continue
		}
		day := b.PickupAt.Day()
		buckets[day] = append(buckets[day], b)
	}
	for day, list := range buckets {
		sort.SliceStable(list, func(i, j int) bool {
			return secondsOfDay(list[i].PickupAt) < secondsOfDay(list[j].PickupAt)
		})
		buckets[day] = list
	}
	return buckets
}

func secondsOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

// CalendarEntry is a booking annotated with recurrence metadata for the
// calendar view.
type CalendarEntry struct {
	models.Booking
	IsRecurring bool   `json:"isRecurring"`
	BaseNumber  string `json:"baseNumber,omitempty"`
	DayIndex    int    `json:"dayIndex,omitempty"`
	TotalDays   int    `json:"totalDays,omitempty"`
}

// MonthView is the calendar payload: day-of-month -> ordered bookings.
// Days without bookings carry no key; the client falls back to empty.
type MonthView struct {
	Year  int                     `json:"year"`
	Month int                     `json:"month"`
	Days  map[int][]CalendarEntry `json:"days"`
}

type CalendarService struct {
	BookingRepo repositories.BookingRepository
	DB          *sql.DB
}

func (s CalendarService) bookings() repositories.BookingRepository {
	if s.BookingRepo.DB != nil {
		return s.BookingRepo
	}
	if s.DB != nil {
		return repositories.BookingRepository{DB: s.DB}
	}
	return repositories.BookingRepository{DB: intconfig.DB}
}

// GetMonthView loads one month of bookings and returns them bucketed by
// day with recurrence annotations.
func (s CalendarService) GetMonthView(year int, month time.Month) (MonthView, error) {
	repo := s.bookings()
	list, err := repo.ListByMonth(year, month)
	if err != nil {
		return MonthView{}, err
	}

	buckets := BucketBookingsByDay(list, year, month)

	view := MonthView{Year: year, Month: int(month), Days: map[int][]CalendarEntry{}}
	for day, items := range buckets {
		entries := make([]CalendarEntry, 0, len(items))
		for _, b := range items {
			e := CalendarEntry{Booking: b}
			if rec := ClassifyRecurrence(b.BookingNumber); rec.IsRecurring {
				e.IsRecurring = true
				e.BaseNumber = rec.BaseNumber
				e.DayIndex = rec.DayIndex
				e.TotalDays = s.siblingCount(repo, rec.BaseNumber, b.ProgramDays)
			}
			entries = append(entries, e)
		}
		view.Days[day] = entries
	}
	return view, nil
}

// siblingCount prefers the cached program_days; legacy rows fall back
// to a prefix scan over the bookings table (siblings may lie outside
// the displayed month, so the month's list is not enough).
func (s CalendarService) siblingCount(repo repositories.BookingRepository, base string, programDays int) int {
	if programDays > 0 {
		return programDays
	}
	n, err := repo.CountByNumberPrefix(base + "-D")
	if err != nil {
		return 0
	}
	return n
}
