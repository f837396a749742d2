package resource

import (
	"net/http"
	"time"

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
	rg.GET("/reservations/available-resources", h.GetAvailableResources)

	r := rg.Group("/resources")
	r.POST("", h.CreateResource)
	r.GET("/:id", h.GetResource)
	r.GET("/:id/availability", h.GetAvailability)
}

func (h *Handler) CreateResource(c *gin.Context) {
	var req CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", errs)
		return
	}

	res, err := h.service.CreateResource(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res)
}

func (h *Handler) GetResource(c *gin.Context) {
	res, err := h.service.GetResource(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) GetAvailability(c *gin.Context) {
	start, end, err := slotParams(c)
	if err != nil {
		response.FromError(c, err)
		return
	}
	out, err := h.service.Availability(c.Request.Context(), c.Param("id"), start, end)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) GetAvailableResources(c *gin.Context) {
	start, end, err := slotParams(c)
	if err != nil {
		response.FromError(c, err)
		return
	}
	page, err := paging.FromContext(c).Resources()
	if err != nil {
		response.FromError(c, err)
		return
	}

	items, meta, err := h.service.ListAvailableResources(c.Request.Context(), AvailableQuery{
		StartTime: start,
		EndTime:   end,
		Type:      c.Query("type"),
		Page:      page,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	if meta == nil {
		response.Success(c, http.StatusOK, items)
		return
	}
	response.Success(c, http.StatusOK, domain.Paged[domain.Resource]{Items: items, Pagination: *meta})
}

func slotParams(c *gin.Context) (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, c.Query("startTime"))
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidStartTime
	}
	end, err := time.Parse(time.RFC3339, c.Query("endTime"))
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidEndTime
	}
	return start, end, nil
}
