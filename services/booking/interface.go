package booking

import (
	"context"

	"homefix/models"
	"homefix/services/api"
)

// BookingService is the customer's view of the backend booking endpoints.
type BookingService interface {
	List(ctx context.Context) ([]models.Booking, error)
	Get(ctx context.Context, id string) (*models.Booking, error)
	Create(ctx context.Context, form models.BookingForm) (*models.Booking, error)
	Update(ctx context.Context, id string, form models.BookingForm) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error)
	Delete(ctx context.Context, id string) error

	Rate(ctx context.Context, id string, in models.RatingInput) (*models.Booking, error)
	EditRating(ctx context.Context, id string, in models.RatingInput) (*models.Booking, error)
	ClearRating(ctx context.Context, id string) (*models.Booking, error)
}

// DefaultBookingService implements BookingService over the backend client.
// The client must carry the session's token source.
type DefaultBookingService struct {
	API *api.Client
}

// NewService returns a BookingService bound to one session's client.
func NewService(client *api.Client) *DefaultBookingService {
	return &DefaultBookingService{API: client}
}
