package history

import (
	"context"
	"net/http"

	"bluereserve/internal/domain"
	"bluereserve/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reservations/:id/history", h.list(h.service.ForBooking))
	rg.GET("/resources/:id/history", h.list(h.service.ForResource))
	rg.GET("/users/:id/history", h.list(h.service.ForUser))
	rg.GET("/history", h.GetAll)
}

func (h *Handler) list(find func(context.Context, string) ([]domain.BookingHistory, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := find(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.Success(c, http.StatusOK, entries)
	}
}

func (h *Handler) GetAll(c *gin.Context) {
	entries, err := h.service.All(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, entries)
}
