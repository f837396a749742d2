package booking

import (
	"errors"
	"io"
	"net/http"

	"bluereserve/internal/domain"
	"bluereserve/internal/pkg/paging"
	"bluereserve/internal/pkg/response"
	"bluereserve/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	r := rg.Group("/reservations")
	r.POST("", h.CreateReservation)
	r.GET("/user/:userId", h.GetUserReservations)
	r.GET("/:id", h.GetReservation)
	r.PUT("/:id/confirm", h.ConfirmReservation)
	r.DELETE("/:id", h.CancelReservation)
}

func (h *Handler) CreateReservation(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", errs)
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

func (h *Handler) GetReservation(c *gin.Context) {
	b, err := h.service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) ConfirmReservation(c *gin.Context) {
	b, err := h.service.ConfirmBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// CancelReservation accepts an optional {"reason": "..."} body.
func (h *Handler) CancelReservation(c *gin.Context) {
	var req CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", errs)
		return
	}

	b, err := h.service.CancelBooking(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) GetUserReservations(c *gin.Context) {
	page, err := paging.FromContext(c).Bookings()
	if err != nil {
		response.FromError(c, err)
		return
	}

	items, meta, err := h.service.ListUserBookings(c.Request.Context(), c.Param("userId"), UserBookingsQuery{
		Status: c.Query("status"),
		Page:   page,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	if meta == nil {
		response.Success(c, http.StatusOK, items)
		return
	}
	response.Success(c, http.StatusOK, domain.Paged[domain.Booking]{Items: items, Pagination: *meta})
}
