package user

import "bluereserve/internal/domain"

var (
	ErrUserNotFound = domain.NotFoundError("User not found")
	ErrEmailTaken   = domain.ConflictError("User with this email already exists")
)
