package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bluereserve/internal/domain"
	"bluereserve/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Service struct {
	repo UserRepository
	log  logrus.FieldLogger
}

func NewService(repo UserRepository, log logrus.FieldLogger) *Service {
	return &Service{repo: repo, log: log}
}

// CreateUser registers a user. Emails are unique ignoring case.
func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (*domain.User, error) {
	existing, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	u := &domain.User{
		ID:        uuid.NewString(),
		Email:     req.Email,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     req.Phone,
	}
	if err := s.repo.Save(ctx, u); err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("save user: %w", err)
	}

	s.log.WithField("user_id", u.ID).Info("user created")
	return u, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}
