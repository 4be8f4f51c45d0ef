package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"homefix/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// CanRate reports whether the "Rate Service" action applies to b.
func CanRate(b models.Booking) bool {
	return b.Status == models.StatusCompleted && !b.Rated
}

// Rateable is CanRate as an error: it wraps ErrNotRateable when b is not a
// completed, unrated booking.
func Rateable(b models.Booking) error {
	if !CanRate(b) {
		return fmt.Errorf("booking %s (%s, rated=%t): %w", b.ID, b.Status, b.Rated, ErrNotRateable)
	}
	return nil
}

// ValidateRating normalizes in and checks it against its binding tags. The
// returned message is user facing.
func ValidateRating(in *models.RatingInput) (string, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Review = strings.TrimSpace(in.Review)

	err := binding.Validator.ValidateStruct(in)
	if err == nil {
		return "", nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Please select a star rating", fmt.Errorf("%w: %v", ErrInvalidRating, err)
	}
	return ratingMessage(verrs[0]), fmt.Errorf("%w: %v", ErrInvalidRating, err)
}

func ratingMessage(fe validator.FieldError) string {
	switch fe.StructField() {
	case "Stars":
		if fe.Tag() == "required" {
			return "Please select a star rating"
		}
		return "Rating must be between 1 and 5 stars"
	case "Title":
		return fmt.Sprintf("Title must be at most %s characters", fe.Param())
	case "Review":
		return fmt.Sprintf("Review must be at most %s characters", fe.Param())
	}
	return "Invalid rating"
}

// ratePayload is the body of POST /api/bookings/:id/rate.
type ratePayload struct {
	Rating int    `json:"rating"`
	Title  string `json:"title"`
	Review string `json:"review"`
}

// Rate submits the first rating of a completed booking.
func (s *DefaultBookingService) Rate(ctx context.Context, id string, in models.RatingInput) (*models.Booking, error) {
	if _, err := ValidateRating(&in); err != nil {
		return nil, err
	}
	path, err := bookingPath(id, "rate")
	if err != nil {
		return nil, err
	}
	var resp models.BookingResponse
	body := ratePayload{Rating: in.Stars, Title: in.Title, Review: in.Review}
	if err := s.API.Post(ctx, path, body, &resp); err != nil {
		return nil, fmt.Errorf("failed to rate booking %s: %w", id, err)
	}
	return resp.Booking, nil
}

type editRatingPayload struct {
	Rating models.Rating `json:"rating"`
}

// EditRating replaces the stars, title and review of an existing rating.
func (s *DefaultBookingService) EditRating(ctx context.Context, id string, in models.RatingInput) (*models.Booking, error) {
	if _, err := ValidateRating(&in); err != nil {
		return nil, err
	}
	path, err := bookingPath(id, "rating")
	if err != nil {
		return nil, err
	}
	var resp models.BookingResponse
	body := editRatingPayload{Rating: models.Rating{Stars: in.Stars, Title: in.Title, Review: in.Review}}
	if err := s.API.Put(ctx, path, body, &resp); err != nil {
		return nil, fmt.Errorf("failed to edit rating of booking %s: %w", id, err)
	}
	return resp.Booking, nil
}

type clearRatingPayload struct {
	Rated  bool           `json:"rated"`
	Rating *models.Rating `json:"rating"`
}

// ClearRating removes the rating so the booking becomes rateable again.
func (s *DefaultBookingService) ClearRating(ctx context.Context, id string) (*models.Booking, error) {
	path, err := bookingPath(id, "rating")
	if err != nil {
		return nil, err
	}
	var resp models.BookingResponse
	if err := s.API.Put(ctx, path, clearRatingPayload{}, &resp); err != nil {
		return nil, fmt.Errorf("failed to clear rating of booking %s: %w", id, err)
	}
	return resp.Booking, nil
}
