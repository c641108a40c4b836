package appointments

import (
	"time"

	"github.com/google/uuid"
)

// Status values an appointment can carry. Cancellation is modeled as a
// status update; rows are never deleted.
const (
	StatusBooked    = "booked"
	StatusCancelled = "cancelled"
)

// Appointment is a confirmed booking. Date is a calendar day in ISO form
// (2006-01-02) and Time is a 24h wall-clock slot start (15:04), both in the
// shop's timezone.
type Appointment struct {
	ID            uuid.UUID `json:"id"`
	ServiceID     string    `json:"service_id"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Update carries a partial appointment mutation; nil fields are untouched.
type Update struct {
	ServiceID *string
	Date      *string
	Time      *string
	Status    *string
}

// IsEmpty reports whether the update changes nothing.
func (u Update) IsEmpty() bool {
	return u.ServiceID == nil && u.Date == nil && u.Time == nil && u.Status == nil
}
