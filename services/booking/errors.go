package booking

import "errors"

var (
	// ErrInvalidID is returned before any call when a booking id is blank or malformed.
	ErrInvalidID = errors.New("invalid booking id")
	// ErrInvalidStatus is returned for a status the backend does not know.
	ErrInvalidStatus = errors.New("invalid booking status")
	// ErrInvalidRating is returned when stars are outside 1..5 or text is too long.
	ErrInvalidRating = errors.New("invalid rating")
	// ErrNotRateable is returned when rating a booking that is not completed or already rated.
	ErrNotRateable = errors.New("booking cannot be rated")
	// ErrEmptyResponse is returned when the backend reports success without a booking.
	ErrEmptyResponse = errors.New("backend returned no booking")
)
