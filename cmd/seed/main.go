package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"busline/internal/schedules"
	"busline/internal/seats"
	"busline/internal/shared/config"
	"busline/internal/shared/database"
	"busline/internal/users"
	"busline/pkg/cache"
	"busline/pkg/logger"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Busline Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db.GetPostgreSQL()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"transaction_bookings",
		"transactions",
		"payments",
		"passengers",
		"booking_seats",
		"bookings",
		"seats",
		"schedules",
		"users",
	}

	for _, table := range tables {
		if err := s.db.GetPostgreSQL().Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

// SeedAll creates demo users and schedules with generated seat maps
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	demoUsers := []users.User{
		{FirstName: "Asha", LastName: "Rao", Email: "asha@example.com", Phone: "9876543210"},
		{FirstName: "Vikram", LastName: "Iyer", Email: "vikram@example.com", Phone: "9123456780"},
	}
	if err := s.db.GetPostgreSQL().Create(&demoUsers).Error; err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	for _, u := range demoUsers {
		fmt.Printf("   👤 %s %s (%s)\n", u.FirstName, u.LastName, u.ID)
	}

	seatRepo := seats.NewRepository(s.db.GetPostgreSQL())
	seatService := seats.NewService(seatRepo, cache.NewService(s.db.GetRedisClient()), logger.GetDefault())
	scheduleRepo := schedules.NewRepository(s.db.GetPostgreSQL())
	scheduleService := schedules.NewService(scheduleRepo, seatService)

	tomorrow := time.Now().AddDate(0, 0, 1)
	demoSchedules := []schedules.Schedule{
		{
			BusName:       "Shivneri Express",
			Source:        "Mumbai",
			Destination:   "Pune",
			ScheduleDate:  tomorrow,
			DepartureTime: "06:30",
			ArrivalTime:   "10:00",
			BasePrice:     550,
			TotalSeats:    40,
			Active:        true,
		},
		{
			BusName:       "Airavat Deluxe",
			Source:        "Bengaluru",
			Destination:   "Chennai",
			ScheduleDate:  tomorrow,
			DepartureTime: "22:00",
			ArrivalTime:   "04:30",
			BasePrice:     800,
			TotalSeats:    36,
			Active:        true,
		},
	}

	for i := range demoSchedules {
		created, err := scheduleService.PublishSchedule(ctx, &demoSchedules[i])
		if err != nil {
			return fmt.Errorf("failed to seed schedule %q: %w", demoSchedules[i].BusName, err)
		}
		fmt.Printf("   🚌 %s %s → %s, %d seats (%s)\n",
			created.BusName, created.Source, created.Destination, created.TotalSeats, created.ID)
	}

	return nil
}
