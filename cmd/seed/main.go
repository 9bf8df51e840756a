package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/angelmondragon/fueltrips-backend/internal/trips"
	"github.com/angelmondragon/fueltrips-backend/internal/users"
	"github.com/angelmondragon/fueltrips-backend/pkg/config"
	"github.com/angelmondragon/fueltrips-backend/pkg/db"
	"github.com/angelmondragon/fueltrips-backend/pkg/db/models"
	"github.com/angelmondragon/fueltrips-backend/pkg/enums"
	"github.com/angelmondragon/fueltrips-backend/pkg/logger"
	"github.com/angelmondragon/fueltrips-backend/pkg/security"
)

type sampleRoute struct {
	truck, driver, origin, destination string
	fuel                               enums.FuelType
	liters                             int
}

var sampleRoutes = []sampleRoute{
	{"AB123CD", "Juan Pérez", "Buenos Aires", "Rosario", enums.FuelTypeDiesel, 18000},
	{"AC456EF", "María González", "Córdoba", "Mendoza", enums.FuelTypeNaftaSuper, 12000},
	{"AD789GH", "Carlos López", "Rosario", "Santa Fe", enums.FuelTypeGNC, 8000},
	{"AE012IJ", "Lucía Fernández", "La Plata", "Mar del Plata", enums.FuelTypeNaftaPremium, 15000},
	{"AF345KL", "Diego Martínez", "Neuquén", "Bahía Blanca", enums.FuelTypeGLP, 9500},
}

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	tripCount := flag.Int("trips", 0, "number of sample scheduled trips to create for the demo user")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	admin, err := ensureDemoUser(ctx, cfg, users.NewRepository(dbClient.DB()))
	requireResource(ctx, logg, "demo user", err)

	ctx = logg.WithUserID(ctx, admin.ID.String())
	logg.Info(logg.WithField(ctx, "email", admin.Email), "demo user ready")

	if *tripCount <= 0 {
		return
	}

	svc, err := trips.NewService(trips.ServiceParams{DB: dbClient})
	requireResource(ctx, logg, "trips service", err)

	for i := 0; i < *tripCount; i++ {
		route := sampleRoutes[i%len(sampleRoutes)]
		departure := time.Now().Add(time.Duration(i+1) * 24 * time.Hour).Truncate(time.Hour)
		trip, err := svc.Create(ctx, admin.ID, trips.CreateTripRequest{
			Truck:        route.truck,
			Driver:       route.driver,
			Origin:       route.origin,
			Destination:  route.destination,
			FuelType:     string(route.fuel),
			VolumeLiters: route.liters,
			DepartureAt:  &departure,
		})
		requireResource(ctx, logg, "sample trip", err)
		logg.Info(logg.WithTripID(ctx, trip.ID.String()), "sample trip created")
	}
	fmt.Printf("seeded %d trips for %s\n", *tripCount, admin.Email)
}

// ensureDemoUser returns the configured admin, creating it on first run.
func ensureDemoUser(ctx context.Context, cfg *config.Config, repo *users.Repository) (*models.User, error) {
	existing, err := repo.FindByEmail(ctx, cfg.Demo.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := security.NewHasher(cfg.Password).Hash(cfg.Demo.Password)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}
	return repo.Create(ctx, users.CreateUserDTO{
		Email:        cfg.Demo.Email,
		PasswordHash: hash,
		Name:         cfg.Demo.Name,
		Role:         enums.UserRoleAdmin,
	})
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
