package main

import (
	"context"

	"bluereserve/internal/config"
	"bluereserve/internal/database"
	"bluereserve/internal/domain"
	"bluereserve/internal/pkg/logger"
	"bluereserve/internal/repository"

	"github.com/sirupsen/logrus"
)

func price(v float64) *float64 { return &v }

// Fixed ids keep the seed idempotent: rows that already exist are skipped.
var users = []domain.User{
	{ID: "5b1f0c52-7c55-4d8e-9a51-0d3c1a7e2a01", Email: "olivia.hart@example.com", FirstName: "Olivia", LastName: "Hart", Phone: "+15550100001"},
	{ID: "5b1f0c52-7c55-4d8e-9a51-0d3c1a7e2a02", Email: "marcus.lind@example.com", FirstName: "Marcus", LastName: "Lind", Phone: "+15550100002"},
	{ID: "5b1f0c52-7c55-4d8e-9a51-0d3c1a7e2a03", Email: "priya.nair@example.com", FirstName: "Priya", LastName: "Nair", Phone: "+15550100003"},
}

var resources = []domain.Resource{
	{
		ID: "9e2d7f40-31b6-4c8a-b0d4-6a1c5e8f3b01", Name: "Harbor Room", Type: domain.ResourceMeetingRoom,
		Capacity: 12, IsActive: true, PricePerHour: price(45),
		Description: "Meeting room with projector and whiteboard",
		Metadata:    map[string]any{"hasProjector": true, "hasWhiteboard": true, "hasVideoConference": true},
	},
	{
		ID: "9e2d7f40-31b6-4c8a-b0d4-6a1c5e8f3b02", Name: "Garden Room", Type: domain.ResourceMeetingRoom,
		Capacity: 6, IsActive: true, PricePerHour: price(25),
		Description: "Small meeting room",
		Metadata:    map[string]any{"hasProjector": false, "hasWhiteboard": true},
	},
	{
		ID: "9e2d7f40-31b6-4c8a-b0d4-6a1c5e8f3b03", Name: "Suite 204", Type: domain.ResourceHotelRoom,
		Capacity: 2, IsActive: true, PricePerHour: price(90),
		Description: "Hotel suite with queen bed",
		Metadata:    map[string]any{"bedType": "queen", "hasBalcony": false},
	},
	{
		ID: "9e2d7f40-31b6-4c8a-b0d4-6a1c5e8f3b04", Name: "Grand Hall", Type: domain.ResourceConferenceHall,
		Capacity: 150, IsActive: true, PricePerHour: price(400),
		Description: "Hall for conferences and receptions",
		Metadata:    map[string]any{"hasStage": true, "hasSoundSystem": true},
	},
	{
		ID: "9e2d7f40-31b6-4c8a-b0d4-6a1c5e8f3b05", Name: "Hot Desk 7", Type: domain.ResourceWorkspace,
		Capacity: 1, IsActive: true, PricePerHour: price(12),
		Description: "Desk in the shared workspace",
		Metadata:    map[string]any{"hasMonitor": true},
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.WithError(err).Fatal("DB connection failed")
	}

	log.Info("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.WithError(err).Fatal("AutoMigrate failed")
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(db)
	resourceRepo := repository.NewResourceRepository(db)

	log.Info("Creating users...")
	for i := range users {
		u := &users[i]
		existing, err := userRepo.FindByID(ctx, u.ID)
		if err != nil {
			log.WithError(err).Fatal("lookup user")
		}
		if existing != nil {
			continue
		}
		if err := userRepo.Save(ctx, u); err != nil {
			log.WithError(err).WithField("email", u.Email).Fatal("create user")
		}
		log.WithField("email", u.Email).Info("user created")
	}

	log.Info("Creating resources...")
	for i := range resources {
		res := &resources[i]
		existing, err := resourceRepo.FindByID(ctx, res.ID)
		if err != nil {
			log.WithError(err).Fatal("lookup resource")
		}
		if existing != nil {
			continue
		}
		if err := resourceRepo.Save(ctx, res); err != nil {
			log.WithError(err).WithField("name", res.Name).Fatal("create resource")
		}
		log.WithField("name", res.Name).Info("resource created")
	}

	log.WithFields(logrus.Fields{
		"users":     len(users),
		"resources": len(resources),
	}).Info("Seed completed")
}
