package main

import (
	"context"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"labreserve/internal/config"
	"labreserve/internal/db"
	"labreserve/internal/model"
	"labreserve/internal/repository"
	"labreserve/internal/service"
)

// Demo data for local development: a couple of users and a spread of
// reservations so the listing, analysis, and audit views have something to show.
func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewPostgres(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Reservation{}, &model.AuditLog{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	txManager := repository.NewTxManager(gormDB)

	users := []struct {
		username string
		fullName string
		email    string
		role     string
	}{
		{"admin", "Admin", "admin@example.com", "admin"},
		{"alice", "Alice Demo", "alice@example.com", "user"},
		{"bob", "Bob Demo", "bob@example.com", "user"},
	}

	ids := make(map[string]uint, len(users))
	for _, u := range users {
		existing, err := userRepo.FindByUsername(ctx, u.username)
		if err == nil {
			ids[u.username] = existing.ID
			continue
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(u.username+"123"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		email := u.email
		user := &model.User{
			Username:     u.username,
			FullName:     u.fullName,
			Email:        &email,
			PasswordHash: string(hashed),
			Role:         u.role,
			IsActive:     true,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create user %s: %v", u.username, err)
		}
		ids[u.username] = user.ID
		log.Printf("Created user %s", u.username)
	}

	labs := []string{"Robotics Lab", "Chemistry Lab", "Computer Lab"}
	owners := []string{"alice", "bob"}
	now := time.Now()

	count := 0
	for i, lab := range labs {
		for j, owner := range owners {
			reservation := &model.Reservation{
				LabName:    lab,
				ReservedBy: owner,
				Purpose:    "Seeded demo reservation",
				StartTime:  now.Add(time.Duration(24*i+2*j+9) * time.Hour),
				Active:     true,
				OwnerID:    ids[owner],
			}

			err := txManager.WithTransaction(ctx, func(ctx context.Context, repos repository.TxRepos) error {
				if err := repos.Reservations.Create(ctx, reservation); err != nil {
					return err
				}
				entry, err := service.NewAuditEntry(reservation.OwnerID, model.AuditActionCreate, "Reservation", reservation.ID, map[string]interface{}{
					"lab_name":    reservation.LabName,
					"reserved_by": reservation.ReservedBy,
					"purpose":     reservation.Purpose,
					"start_time":  reservation.StartTime.Format(time.RFC3339),
					"active":      reservation.Active,
				})
				if err != nil {
					return err
				}
				return repos.Audits.Create(ctx, entry)
			})
			if err != nil {
				log.Fatalf("Failed to seed reservation: %v", err)
			}
			count++
		}
	}

	log.Printf("Seeded %d reservations for %d users", count, len(users))
}
