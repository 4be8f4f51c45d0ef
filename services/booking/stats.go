package booking

import (
	"math"

	"homefix/models"
)

// recentLimit is how many bookings the dashboard lists.
const recentLimit = 5

// DashboardStats are the counters shown on the dashboard.
type DashboardStats struct {
	Total          int
	PendingReviews int
	Upcoming       int
	Recent         []models.Booking
}

// ListStats are the counters above the booking list.
type ListStats struct {
	Total     int
	Pending   int
	Completed int
	Cancelled int
}

// ReviewStats are the counters of the reviews page.
type ReviewStats struct {
	Total          int
	PendingReviews int
	Rated          int
	AverageStars   float64 // one decimal, 0 when nothing is rated
}

// Stats bundles every counter derived from one bookings listing.
type Stats struct {
	Dashboard DashboardStats
	List      ListStats
	Reviews   ReviewStats
}

// ComputeStats derives all page counters in one pass over bookings, which is
// assumed to be in backend order (newest first).
func ComputeStats(bookings []models.Booking) Stats {
	var st Stats
	starSum := 0
	for _, b := range bookings {
		switch b.Status {
		case models.StatusPending:
			st.List.Pending++
			st.Dashboard.Upcoming++
		case models.StatusScheduled, models.StatusConfirmed:
			st.Dashboard.Upcoming++
		case models.StatusCompleted:
			st.List.Completed++
		case models.StatusCancelled:
			st.List.Cancelled++
		}
		if CanRate(b) {
			st.Dashboard.PendingReviews++
		}
		if b.HasRating() {
			st.Reviews.Rated++
			starSum += b.Rating.Stars
		}
	}

	n := len(bookings)
	st.Dashboard.Total = n
	st.List.Total = n
	st.Reviews.Total = n
	st.Reviews.PendingReviews = st.Dashboard.PendingReviews
	if st.Reviews.Rated > 0 {
		avg := float64(starSum) / float64(st.Reviews.Rated)
		st.Reviews.AverageStars = math.Round(avg*10) / 10
	}

	recent := bookings
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	st.Dashboard.Recent = append([]models.Booking(nil), recent...)
	return st
}
