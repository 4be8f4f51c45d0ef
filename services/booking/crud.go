package booking

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"homefix/models"
)

func (s *DefaultBookingService) List(ctx context.Context) ([]models.Booking, error) {
	var resp models.BookingsResponse
	if err := s.API.Get(ctx, "/api/bookings", &resp); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	if resp.Bookings == nil {
		return []models.Booking{}, nil
	}
	return resp.Bookings, nil
}

func (s *DefaultBookingService) Get(ctx context.Context, id string) (*models.Booking, error) {
	path, err := bookingPath(id, "")
	if err != nil {
		return nil, err
	}
	var resp models.BookingResponse
	if err := s.API.Get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	if resp.Booking == nil {
		return nil, ErrEmptyResponse
	}
	return resp.Booking, nil
}

// Create posts the form exactly as entered (seven fields, details may be empty).
// Callers run ValidateForm first.
func (s *DefaultBookingService) Create(ctx context.Context, form models.BookingForm) (*models.Booking, error) {
	var resp models.BookingResponse
	if err := s.API.Post(ctx, "/api/bookings", form, &resp); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	return resp.Booking, nil
}

func (s *DefaultBookingService) Update(ctx context.Context, id string, form models.BookingForm) (*models.Booking, error) {
	path, err := bookingPath(id, "")
	if err != nil {
		return nil, err
	}
	var resp models.BookingResponse
	if err := s.API.Put(ctx, path, form, &resp); err != nil {
		return nil, fmt.Errorf("failed to update booking %s: %w", id, err)
	}
	return resp.Booking, nil
}

func (s *DefaultBookingService) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	path, err := bookingPath(id, "")
	if err != nil {
		return nil, err
	}
	body := map[string]models.BookingStatus{"status": status}
	var resp models.BookingResponse
	if err := s.API.Put(ctx, path, body, &resp); err != nil {
		return nil, fmt.Errorf("failed to update status of booking %s: %w", id, err)
	}
	return resp.Booking, nil
}

func (s *DefaultBookingService) Delete(ctx context.Context, id string) error {
	path, err := bookingPath(id, "")
	if err != nil {
		return err
	}
	if err := s.API.Delete(ctx, path, nil); err != nil {
		return fmt.Errorf("failed to delete booking %s: %w", id, err)
	}
	return nil
}

// bookingPath builds /api/bookings/:id[/suffix] with the id path-escaped.
func bookingPath(id, suffix string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.ContainsAny(id, "/?#") {
		return "", ErrInvalidID
	}
	p := "/api/bookings/" + url.PathEscape(id)
	if suffix != "" {
		p += "/" + suffix
	}
	return p, nil
}
