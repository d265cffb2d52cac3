package models

import "time"

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingInProgress, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// Booking is a single scheduled transport job. Bookings belonging to a
// multi-day program share a base number and are suffixed -D1..-Dn; the
// total day count is cached in ProgramDays at creation time.
type Booking struct {
	ID              int64         `json:"id"`
	BookingNumber   string        `json:"bookingNumber"`
	CustomerName    string        `json:"customerName"`
	CustomerPhone   string        `json:"customerPhone,omitempty"`
	PickupAt        time.Time     `json:"pickupAt"`
	PickupLocation  string        `json:"pickupLocation,omitempty"`
	DropoffLocation string        `json:"dropoffLocation,omitempty"`
	PassengerCount  int           `json:"passengerCount"`
	Fare            int64         `json:"fare"`
	Status          BookingStatus `json:"status"`
	ProgramDays     int           `json:"programDays,omitempty"`
	VehicleCode     string        `json:"vehicleCode,omitempty"`
	DriverName      string        `json:"driverName,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// BookingUpdate is a partial patch; nil fields are left untouched.
type BookingUpdate struct {
	CustomerName    *string
	CustomerPhone   *string
	PickupAt        *time.Time
	PickupLocation  *string
	DropoffLocation *string
	PassengerCount  *int
	Fare            *int64
	Status          *BookingStatus
	VehicleCode     *string
	DriverName      *string
	Notes           *string
}
