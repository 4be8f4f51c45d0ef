package handlers

import (
	"errors"
	"net/http"

	"homefix/middleware"
	"homefix/models"
	"homefix/services/api"
	"homefix/services/booking"
	"homefix/services/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var listFilters = []string{
	booking.FilterAll, booking.FilterPending, booking.FilterCompleted, booking.FilterCancelled,
}

// BookingHandler serves the dashboard, the booking list and the rating pages.
type BookingHandler struct {
	// NewService builds the booking service over a session's API client.
	NewService func(client *api.Client) booking.BookingService
}

func NewBookingHandler() *BookingHandler {
	return &BookingHandler{
		NewService: func(client *api.Client) booking.BookingService { return booking.NewService(client) },
	}
}

func (h *BookingHandler) service(c *gin.Context) booking.BookingService {
	return h.NewService(middleware.GetSession(c).API())
}

// Dashboard shows booking counters to a logged-in visitor and a limited view
// otherwise.
func (h *BookingHandler) Dashboard(c *gin.Context) {
	store := middleware.GetSession(c)
	page := gin.H{"Title": "Dashboard"}
	if !store.Current().Authenticated() {
		render(c, http.StatusOK, "dashboard.html", page)
		return
	}

	ctx := c.Request.Context()
	if _, err := store.RefreshProfile(ctx); err != nil {
		if errors.Is(err, user.ErrSessionExpired) {
			flash(c, store, "error", "Your session has expired, please login again")
			redirect(c, middleware.LoginURL("/dashboard"))
			return
		}
		// The token is still stored, so sending the visitor to /login would
		// bounce straight back here.
		getLogger(c).Warn("Dashboard: failed to refresh profile", zap.Error(err))
		page["LoadError"] = "Failed to load dashboard data"
		page["Stats"] = booking.ComputeStats(nil).Dashboard
		render(c, http.StatusOK, "dashboard.html", page)
		return
	}

	bookings, err := h.service(c).List(ctx)
	if err != nil {
		getLogger(c).Warn("Dashboard: failed to load bookings", zap.Error(err))
		page["LoadError"] = "Failed to load dashboard data"
	}
	page["Stats"] = booking.ComputeStats(bookings).Dashboard
	render(c, http.StatusOK, "dashboard.html", page)
}

// List renders the booking list with the filter from ?filter= and an optional
// inline edit form for ?edit=<id>.
func (h *BookingHandler) List(c *gin.Context) {
	store := middleware.GetSession(c)
	filter := c.DefaultQuery("filter", booking.FilterAll)
	if !booking.KnownFilter(filter) || filter == booking.FilterPendingReviews || filter == booking.FilterRatedServices {
		filter = booking.FilterAll
	}
	page := gin.H{
		"Title":    "My Bookings",
		"Filter":   filter,
		"Filters":  listFilters,
		"Statuses": models.BookingStatuses,
		"Return":   "/bookings?filter=" + filter,
		"EditID":   "",
	}

	bookings, err := h.service(c).List(c.Request.Context())
	if err != nil {
		if isUnauthorized(err) {
			failAndRedirect(c, store, err, "", "/bookings")
			return
		}
		getLogger(c).Warn("List: failed to load bookings", zap.Error(err))
		page["LoadError"] = "Failed to fetch bookings"
	}

	if id := c.Query("edit"); id != "" {
		for _, b := range bookings {
			if b.ID == id {
				page["EditID"], page["EditForm"] = id, models.FormFromBooking(b)
			}
		}
	}
	page["Stats"] = booking.ComputeStats(bookings).List
	page["Bookings"] = booking.Filter(bookings, filter, booking.FilterAll)
	render(c, http.StatusOK, "bookings.html", page)
}

func (h *BookingHandler) NewPage(c *gin.Context) {
	form := models.BookingForm{}
	if u := middleware.GetSession(c).Current().User; u != nil {
		form.Name, form.Email = u.Name, u.Email
	}
	render(c, http.StatusOK, "booking_new.html", gin.H{"Title": "Book a Service", "Form": form})
}

// Create submits a new booking and, on success, sends the visitor to the
// dashboard with an empty form behind them.
func (h *BookingHandler) Create(c *gin.Context) {
	store := middleware.GetSession(c)
	var form models.BookingForm
	errs := booking.FormErrors(bindForm(c, &form))
	if errs.Empty() {
		errs = booking.ValidateForm(&form)
	}
	if !errs.Empty() {
		render(c, http.StatusBadRequest, "booking_new.html", gin.H{"Title": "Book a Service", "Form": form, "Errors": errs})
		return
	}

	if _, err := h.service(c).Create(c.Request.Context(), form); err != nil {
		if isUnauthorized(err) {
			failAndRedirect(c, store, err, "", "/bookings/new")
			return
		}
		getLogger(c).Warn("Create: booking failed", zap.Error(err))
		errs := models.FieldErrors{models.OverallKey: api.Message(err, "Failed to create booking")}
		render(c, http.StatusBadGateway, "booking_new.html", gin.H{"Title": "Book a Service", "Form": form, "Errors": errs})
		return
	}

	flash(c, store, "success", "Booking created successfully!")
	redirect(c, "/dashboard")
}

func (h *BookingHandler) Update(c *gin.Context) {
	store := middleware.GetSession(c)
	back := returnTo(c, "/bookings")
	var form models.BookingForm
	errs := booking.FormErrors(bindForm(c, &form))
	if errs.Empty() {
		errs = booking.ValidateForm(&form)
	}
	if !errs.Empty() {
		flash(c, store, "error", firstError(errs))
		redirect(c, back)
		return
	}
	if _, err := h.service(c).Update(c.Request.Context(), c.Param("id"), form); err != nil {
		failAndRedirect(c, store, err, "Update failed", back)
		return
	}
	flash(c, store, "success", "Booking updated successfully")
	redirect(c, back)
}

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	store := middleware.GetSession(c)
	back := returnTo(c, "/bookings")
	status := models.BookingStatus(c.PostForm("status"))

	if _, err := h.service(c).UpdateStatus(c.Request.Context(), c.Param("id"), status); err != nil {
		failAndRedirect(c, store, err, "Update failed", back)
		return
	}
	flash(c, store, "success", "Status updated successfully")
	redirect(c, back)
}

func (h *BookingHandler) Delete(c *gin.Context) {
	store := middleware.GetSession(c)
	back := returnTo(c, "/bookings")

	if err := h.service(c).Delete(c.Request.Context(), c.Param("id")); err != nil {
		failAndRedirect(c, store, err, "Delete failed", back)
		return
	}
	flash(c, store, "success", "Booking deleted successfully")
	redirect(c, back)
}

// firstError picks the message to flash for an inline form.
func firstError(errs models.FieldErrors) string {
	for _, key := range []string{"name", "email", "contact", "service", "date", "time"} {
		if msg, ok := errs[key]; ok {
			return msg
		}
	}
	return errs[models.OverallKey]
}
