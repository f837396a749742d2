package resource

import "bluereserve/internal/domain"

var (
	ErrResourceNotFound = domain.NotFoundError("Resource not found")
	ErrInvalidStartTime = domain.ValidationError("startTime must be an ISO-8601 timestamp")
	ErrInvalidEndTime   = domain.ValidationError("endTime must be an ISO-8601 timestamp")
)
