package handlers

import (
	"errors"
	"net/http"

	"homefix/middleware"
	"homefix/models"
	"homefix/services/api"
	"homefix/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var reviewFilters = []string{booking.FilterPendingReviews, booking.FilterRatedServices}

// Reviews lists bookings awaiting a review or already rated, with an
// optional inline rating editor for ?edit=<id>.
func (h *BookingHandler) Reviews(c *gin.Context) {
	store := middleware.GetSession(c)
	filter := c.DefaultQuery("filter", booking.FilterPendingReviews)
	if filter != booking.FilterRatedServices {
		filter = booking.FilterPendingReviews
	}
	page := gin.H{
		"Title":   "Reviews",
		"Filter":  filter,
		"Filters": reviewFilters,
		"Return":  "/reviews?filter=" + filter,
		"EditID":  "",
	}

	bookings, err := h.service(c).List(c.Request.Context())
	if err != nil {
		if isUnauthorized(err) {
			failAndRedirect(c, store, err, "", "/reviews")
			return
		}
		getLogger(c).Warn("Reviews: failed to load bookings", zap.Error(err))
		page["LoadError"] = "Failed to fetch bookings"
	}

	if id := c.Query("edit"); id != "" {
		for _, b := range bookings {
			if b.ID == id && b.HasRating() {
				page["EditID"] = id
				page["RatingForm"] = models.RatingInput{Stars: b.Rating.Stars, Title: b.Rating.Title, Review: b.Rating.Review}
			}
		}
	}
	page["Stats"] = booking.ComputeStats(bookings).Reviews
	page["Bookings"] = booking.Filter(bookings, filter, booking.FilterPendingReviews)
	render(c, http.StatusOK, "reviews.html", page)
}

// EditRating saves the inline rating editor.
func (h *BookingHandler) EditRating(c *gin.Context) {
	store := middleware.GetSession(c)
	back := returnTo(c, "/reviews?filter="+booking.FilterRatedServices)
	in := bindRating(c)

	if msg, err := booking.ValidateRating(&in); err != nil {
		flash(c, store, "error", msg)
		redirect(c, back)
		return
	}
	if _, err := h.service(c).EditRating(c.Request.Context(), c.Param("id"), in); err != nil {
		failAndRedirect(c, store, err, "Update failed", back)
		return
	}
	flash(c, store, "success", "Rating updated successfully")
	redirect(c, back)
}

// ClearRating removes a rating, making the booking rateable again.
func (h *BookingHandler) ClearRating(c *gin.Context) {
	store := middleware.GetSession(c)
	back := returnTo(c, "/reviews?filter="+booking.FilterRatedServices)

	if _, err := h.service(c).ClearRating(c.Request.Context(), c.Param("id")); err != nil {
		failAndRedirect(c, store, err, "Delete failed", back)
		return
	}
	flash(c, store, "success", "Rating deleted successfully")
	redirect(c, back)
}

// RatePage shows the rating form of one completed, unrated booking.
func (h *BookingHandler) RatePage(c *gin.Context) {
	b, ok := h.rateable(c)
	if !ok {
		return
	}
	render(c, http.StatusOK, "rate.html", gin.H{"Title": "Rate Service", "Booking": b, "Form": models.RatingInput{}})
}

// Rate submits the rating form.
func (h *BookingHandler) Rate(c *gin.Context) {
	store := middleware.GetSession(c)
	b, ok := h.rateable(c)
	if !ok {
		return
	}
	in := bindRating(c)
	page := gin.H{"Title": "Rate Service", "Booking": b, "Form": in}

	if msg, err := booking.ValidateRating(&in); err != nil {
		page["RatingError"] = msg
		render(c, http.StatusBadRequest, "rate.html", page)
		return
	}
	if _, err := h.service(c).Rate(c.Request.Context(), b.ID, in); err != nil {
		if isUnauthorized(err) {
			failAndRedirect(c, store, err, "", "/rate-service/"+b.ID)
			return
		}
		getLogger(c).Warn("Rate: rating failed", zap.String("booking", b.ID), zap.Error(err))
		page["RatingError"] = api.Message(err, "Failed to submit rating")
		render(c, http.StatusBadGateway, "rate.html", page)
		return
	}

	flash(c, store, "success", "Thank you for your rating!")
	redirect(c, "/bookings")
}

// rateable loads the booking named in the path and checks it can be rated.
// It redirects and reports false otherwise.
func (h *BookingHandler) rateable(c *gin.Context) (*models.Booking, bool) {
	store := middleware.GetSession(c)
	b, err := h.service(c).Get(c.Request.Context(), c.Param("bookingId"))
	switch {
	case errors.Is(err, api.ErrNotFound), errors.Is(err, booking.ErrEmptyResponse), errors.Is(err, booking.ErrInvalidID):
		flash(c, store, "error", "Booking not found")
		redirect(c, "/bookings")
		return nil, false
	case err != nil:
		failAndRedirect(c, store, err, "Failed to load booking details", "/bookings")
		return nil, false
	}
	if err := booking.Rateable(*b); err != nil {
		getLogger(c).Info("rateable: refused", zap.Error(err))
		flash(c, store, "error", "This booking cannot be rated")
		redirect(c, "/bookings")
		return nil, false
	}
	return b, true
}

// bindRating reads the rating form. An unparseable stars value reads as no
// rating so the form asks for one again.
func bindRating(c *gin.Context) models.RatingInput {
	var in models.RatingInput
	if err := bindForm(c, &in); err != nil {
		return models.RatingInput{Title: c.PostForm("title"), Review: c.PostForm("review")}
	}
	return in
}
