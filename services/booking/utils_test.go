package booking

import (
	"errors"
	"strings"
	"testing"

	"homefix/models"

	"github.com/stretchr/testify/assert"
)

func sample() []models.Booking {
	return []models.Booking{
		{ID: "1", Status: models.StatusPending},
		{ID: "2", Status: models.StatusScheduled},
		{ID: "3", Status: models.StatusCompleted},
		{ID: "4", Status: models.StatusCompleted, Rated: true, Rating: &models.Rating{Stars: 5}},
		{ID: "5", Status: models.StatusCompleted, Rated: true, Rating: &models.Rating{Stars: 4}},
		{ID: "6", Status: models.StatusCancelled},
		{ID: "7", Status: models.StatusConfirmed},
		{ID: "8", Status: models.StatusCompleted, Rated: true},
	}
}

func ids(bs []models.Booking) []string {
	out := make([]string, 0, len(bs))
	for _, b := range bs {
		out = append(out, b.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		filter string
		want   []string
	}{
		{FilterAll, []string{"1", "2", "3", "4", "5", "6", "7", "8"}},
		{FilterPending, []string{"1"}},
		{FilterCompleted, []string{"3", "4", "5", "8"}},
		{FilterCancelled, []string{"6"}},
		{FilterPendingReviews, []string{"3"}},
		{FilterRatedServices, []string{"4", "5"}},
		{"bogus", []string{"3"}},
	}
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(sample(), tt.filter, FilterPendingReviews)))
		})
	}
	assert.True(t, KnownFilter(FilterRatedServices))
	assert.False(t, KnownFilter("bogus"))
}

func TestCanRate(t *testing.T) {
	assert.True(t, CanRate(models.Booking{Status: models.StatusCompleted}))
	assert.False(t, CanRate(models.Booking{Status: models.StatusCompleted, Rated: true}))
	assert.False(t, CanRate(models.Booking{Status: models.StatusPending}))
}

func TestRateable(t *testing.T) {
	assert.NoError(t, Rateable(models.Booking{ID: "b1", Status: models.StatusCompleted}))
	assert.ErrorIs(t, Rateable(models.Booking{ID: "b1", Status: models.StatusCompleted, Rated: true}), ErrNotRateable)
	assert.ErrorIs(t, Rateable(models.Booking{ID: "b1", Status: models.StatusScheduled}), ErrNotRateable)
}

func TestValidateRating(t *testing.T) {
	tests := []struct {
		name string
		in   models.RatingInput
		want string
	}{
		{"no stars", models.RatingInput{Title: "Great"}, "Please select a star rating"},
		{"negative", models.RatingInput{Stars: -1}, "Rating must be between 1 and 5 stars"},
		{"too many", models.RatingInput{Stars: 6}, "Rating must be between 1 and 5 stars"},
		{"long title", models.RatingInput{Stars: 4, Title: strings.Repeat("é", 101)}, "Title must be at most 100 characters"},
		{"long review", models.RatingInput{Stars: 4, Review: strings.Repeat("a", 501)}, "Review must be at most 500 characters"},
		{"limits", models.RatingInput{Stars: 5, Title: strings.Repeat("é", 100), Review: strings.Repeat("a", 500)}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			msg, err := ValidateRating(&in)
			assert.Equal(t, tt.want, msg)
			if tt.want == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidRating)
			}
		})
	}
}

func TestValidateRating_Trims(t *testing.T) {
	in := models.RatingInput{Stars: 3, Title: "  ok  ", Review: "\tfine\n"}
	_, err := ValidateRating(&in)
	assert.NoError(t, err)
	assert.Equal(t, "ok", in.Title)
	assert.Equal(t, "fine", in.Review)
}

func TestComputeStats(t *testing.T) {
	st := ComputeStats(sample())

	assert.Equal(t, 8, st.Dashboard.Total)
	assert.Equal(t, 1, st.Dashboard.PendingReviews)
	assert.Equal(t, 3, st.Dashboard.Upcoming)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(st.Dashboard.Recent))

	assert.Equal(t, ListStats{Total: 8, Pending: 1, Completed: 4, Cancelled: 1}, st.List)

	assert.Equal(t, 2, st.Reviews.Rated)
	assert.Equal(t, 4.5, st.Reviews.AverageStars)
}

func TestComputeStats_Empty(t *testing.T) {
	st := ComputeStats(nil)
	assert.Zero(t, st.Reviews.AverageStars)
	assert.Empty(t, st.Dashboard.Recent)
}

func TestComputeStats_AverageRounding(t *testing.T) {
	bs := []models.Booking{
		{Status: models.StatusCompleted, Rated: true, Rating: &models.Rating{Stars: 5}},
		{Status: models.StatusCompleted, Rated: true, Rating: &models.Rating{Stars: 4}},
		{Status: models.StatusCompleted, Rated: true, Rating: &models.Rating{Stars: 4}},
	}
	assert.Equal(t, 4.3, ComputeStats(bs).Reviews.AverageStars)
}

func TestValidateForm(t *testing.T) {
	f := models.BookingForm{Name: " Jane ", Email: "jane@x.com", Contact: "1", Service: "Plumbing", Date: "2025-01-01", Time: "10:00"}
	assert.True(t, ValidateForm(&f).Empty())
	assert.Equal(t, "Jane", f.Name)

	errs := ValidateForm(&models.BookingForm{Email: "nope"})
	assert.Equal(t, "Name is required", errs["name"])
	assert.Equal(t, "Invalid email format", errs["email"])
	assert.Equal(t, "Time is required", errs["time"])
	assert.NotContains(t, errs, "details")
	assert.Contains(t, errs, models.OverallKey)
}

func TestValidateForm_BlankIsRequired(t *testing.T) {
	f := models.BookingForm{Name: "   ", Email: "jane@x.com", Contact: "1", Service: "\t", Date: "2025-01-01", Time: "10:00"}
	errs := ValidateForm(&f)
	assert.Equal(t, "Name is required", errs["name"])
	assert.Equal(t, "Service is required", errs["service"])
	assert.NotContains(t, errs, "email")
}

func TestFormErrors_NonTagFailureIsBanner(t *testing.T) {
	assert.True(t, FormErrors(nil).Empty())
	errs := FormErrors(errors.New("no multipart boundary param in Content-Type"))
	assert.Equal(t, models.FieldErrors{models.OverallKey: "Invalid form submission"}, errs)
}
