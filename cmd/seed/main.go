// Command seed applies the schema and fills the database with the demo
// team. Safe to rerun: users are matched by email and statuses upserted.
package main

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"

	"github.com/libbyyosef/team-availability/internal/auth/credentials"
	"github.com/libbyyosef/team-availability/internal/config"
	"github.com/libbyyosef/team-availability/internal/db"
	"github.com/libbyyosef/team-availability/internal/logger"
	"github.com/libbyyosef/team-availability/internal/status"
	"github.com/libbyyosef/team-availability/internal/user"
)

type seedUser struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Status    status.Status
}

var seedUsers = []seedUser{
	{"Libby", "Yosef", "libby.yosef@pubplus.com", "Libby123!", status.Working},
	{"Avi", "Cohen", "avi.cohen@pubplus.com", "Avi123!", status.Working},
	{"Diana", "Tesler", "diana.tesler@pubplus.com", "Diana123!", status.OnVacation},
	{"Yossi", "Morris", "yossi.morris@pubplus.com", "Yossi123!", status.Working},
	{"Danny", "Rodin", "danny.rodin@pubplus.com", "Danny123!", status.BusinessTrip},
	{"Efi", "Shmidt", "efi.shmidt@pubplus.com", "Efi123!", status.OnVacation},
	{"Inbal", "Goldfarb", "inbal.goldfarb@pubplus.com", "Inbal123!", status.Working},
	{"Dolev", "Aufleger", "dolev.aufleger@pubplus.com", "Dolev123!", status.Working},
}

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", map[string]any{
			"error": err.Error(),
		})
	}

	ctx := context.Background()

	sqlDB, err := sql.Open("postgres", cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("failed to open database", map[string]any{
			"error": err.Error(),
		})
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		logger.Fatal("database unreachable", map[string]any{
			"error": err.Error(),
		})
	}

	if err := db.RunMigration(ctx, sqlDB); err != nil {
		logger.Fatal("migration failed", map[string]any{
			"error": err.Error(),
		})
	}

	database := &db.DB{DB: sqlDB}
	users := user.NewStore(database)
	statuses := status.NewStore(database)

	for _, su := range seedUsers {
		if err := seedOne(ctx, users, statuses, su); err != nil {
			logger.Fatal("seeding failed", map[string]any{
				"email": su.Email,
				"error": err.Error(),
			})
		}
	}

	logger.Info("seeded users and statuses", map[string]any{
		"count": len(seedUsers),
	})
}

func seedOne(ctx context.Context, users *user.Store, statuses *status.Store, su seedUser) error {
	u, err := users.FindByEmail(ctx, su.Email)
	if err != nil {
		return err
	}

	if u == nil {
		hash, err := credentials.HashPassword(su.Password)
		if err != nil {
			return err
		}
		u, err = users.Create(ctx, su.Email, hash, su.FirstName, su.LastName)
		if err != nil {
			return err
		}
	}

	_, err = statuses.Upsert(ctx, u.ID, su.Status)
	return err
}
