package services_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/RamaAlqdri/sehatin/config"
	"github.com/RamaAlqdri/sehatin/models"
	"github.com/RamaAlqdri/sehatin/repository"
)

func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	db, err := config.OpenDB(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "sehatin.db"),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return repository.NewStore(db)
}

func seedUser(t *testing.T, store *repository.Store, email string) *models.User {
	t.Helper()
	u := &models.User{Name: "Test", Email: email, WeightTarget: models.DefaultWeightTarget}
	if err := store.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func seedFood(t *testing.T, store *repository.Store, name string, calories, serving float64) *models.Food {
	t.Helper()
	f := &models.Food{Name: name, Calories: calories, ServingAmount: serving, ServingUnit: "g"}
	if err := store.Foods.Create(context.Background(), f); err != nil {
		t.Fatalf("create food: %v", err)
	}
	return f
}
