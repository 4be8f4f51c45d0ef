package models

import (
	"strings"
	"time"
)

// BookingStatus is the lifecycle state the backend assigns to a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "Pending"
	StatusScheduled BookingStatus = "Scheduled"
	StatusConfirmed BookingStatus = "Confirmed"
	StatusCompleted BookingStatus = "Completed"
	StatusCancelled BookingStatus = "Cancelled"
)

// BookingStatuses lists the statuses a customer may pick in the status selector.
var BookingStatuses = []BookingStatus{StatusPending, StatusScheduled, StatusCompleted, StatusCancelled}

// Valid reports whether s is a status the backend knows.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Rating is the customer's review of a completed booking.
type Rating struct {
	Stars   int        `json:"stars"`             // 1..5
	Title   string     `json:"title"`             // short headline
	Review  string     `json:"review"`            // free text, may be empty
	RatedAt *time.Time `json:"ratedAt,omitempty"` // set by the backend
}

// Booking is a service booking as consumed from the backend; its lifecycle is owned there.
type Booking struct {
	ID        string        `json:"_id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Contact   string        `json:"contact"`
	Service   string        `json:"service"`           // service type, e.g. "Plumbing"
	Date      string        `json:"date"`              // "YYYY-MM-DD" or an ISO timestamp
	Time      string        `json:"time"`              // "HH:MM"
	Details   string        `json:"details,omitempty"` // optional notes
	Status    BookingStatus `json:"status"`
	Rated     bool          `json:"rated"`
	Rating    *Rating       `json:"rating,omitempty"`
	CreatedAt *time.Time    `json:"createdAt,omitempty"`
	UpdatedAt *time.Time    `json:"updatedAt,omitempty"`
}

// DateOnly strips the time part of an ISO timestamp date.
func (b Booking) DateOnly() string {
	if i := strings.IndexByte(b.Date, 'T'); i >= 0 {
		return b.Date[:i]
	}
	return b.Date
}

// HasRating reports whether the booking carries a usable rating.
func (b Booking) HasRating() bool {
	return b.Rated && b.Rating != nil
}

// BookingForm is the customer-editable part of a booking. Field order matches
// the payload the booking endpoint expects.
type BookingForm struct {
	Name    string `json:"name" form:"name" binding:"required"`
	Email   string `json:"email" form:"email" binding:"required,email"`
	Contact string `json:"contact" form:"contact" binding:"required"`
	Service string `json:"service" form:"service" binding:"required"`
	Date    string `json:"date" form:"date" binding:"required"`
	Time    string `json:"time" form:"time" binding:"required"`
	Details string `json:"details" form:"details"`
}

// FormFromBooking pre-fills the edit form from an existing booking.
func FormFromBooking(b Booking) BookingForm {
	return BookingForm{
		Name:    b.Name,
		Email:   b.Email,
		Contact: b.Contact,
		Service: b.Service,
		Date:    b.DateOnly(),
		Time:    b.Time,
		Details: b.Details,
	}
}

// RatingInput is what the customer submits from the rating form.
type RatingInput struct {
	Stars  int    `form:"stars" binding:"required,min=1,max=5"`
	Title  string `form:"title" binding:"max=100"`
	Review string `form:"review" binding:"max=500"`
}

// BookingsResponse is the envelope of GET /api/bookings.
type BookingsResponse struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message,omitempty"`
	Bookings []Booking `json:"bookings"`
}

// BookingResponse is the envelope of single-booking endpoints.
type BookingResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Booking *Booking `json:"booking"`
}
