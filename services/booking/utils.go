package booking

import (
	"errors"
	"strings"

	"homefix/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Filter names accepted by the booking list and reviews pages.
const (
	FilterAll            = "all"
	FilterPending        = "pending"
	FilterCompleted      = "completed"
	FilterCancelled      = "cancelled"
	FilterPendingReviews = "pending-reviews"
	FilterRatedServices  = "rated-services"
)

// Filter returns the bookings matching name, preserving order. Unknown names
// fall back to def.
func Filter(bookings []models.Booking, name, def string) []models.Booking {
	keep := predicate(name)
	if keep == nil {
		keep = predicate(def)
	}
	if keep == nil {
		keep = func(models.Booking) bool { return true }
	}
	out := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

// KnownFilter reports whether name is a filter Filter understands.
func KnownFilter(name string) bool {
	return predicate(name) != nil
}

func predicate(name string) func(models.Booking) bool {
	switch name {
	case FilterAll:
		return func(models.Booking) bool { return true }
	case FilterPending:
		return hasStatus(models.StatusPending)
	case FilterCompleted:
		return hasStatus(models.StatusCompleted)
	case FilterCancelled:
		return hasStatus(models.StatusCancelled)
	case FilterPendingReviews:
		return CanRate
	case FilterRatedServices:
		return models.Booking.HasRating
	}
	return nil
}

func hasStatus(s models.BookingStatus) func(models.Booking) bool {
	return func(b models.Booking) bool { return b.Status == s }
}

// bookingFields labels BookingForm fields in per-field messages.
var bookingFields = map[string]struct{ key, label string }{
	"Name":    {"name", "Name"},
	"Email":   {"email", "Email"},
	"Contact": {"contact", "Contact"},
	"Service": {"service", "Service"},
	"Date":    {"date", "Date"},
	"Time":    {"time", "Time"},
}

// ValidateForm trims the booking form in place and checks it against its
// binding tags. Details is optional; every other field is required.
func ValidateForm(f *models.BookingForm) models.FieldErrors {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Contact = strings.TrimSpace(f.Contact)
	f.Service = strings.TrimSpace(f.Service)
	f.Date = strings.TrimSpace(f.Date)
	f.Time = strings.TrimSpace(f.Time)
	f.Details = strings.TrimSpace(f.Details)

	return FormErrors(binding.Validator.ValidateStruct(f))
}

// FormErrors turns a booking form validation error into per-field messages.
// Errors that are not tag failures become the overall banner.
func FormErrors(err error) models.FieldErrors {
	errs := models.FieldErrors{}
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs[models.OverallKey] = "Invalid form submission"
		return errs
	}
	for _, fe := range verrs {
		field, ok := bookingFields[fe.StructField()]
		if !ok {
			continue
		}
		switch fe.Tag() {
		case "required":
			errs[field.key] = field.label + " is required"
		case "email":
			errs[field.key] = "Invalid email format"
		default:
			errs[field.key] = field.label + " is invalid"
		}
	}
	errs[models.OverallKey] = "Please fix the highlighted errors."
	return errs
}
