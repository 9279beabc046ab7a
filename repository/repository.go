// Package repository persists offered meal packages and their meals.
package repository

import (
	"context"
	"errors"

	"github.com/tamannaBithy/nutrition-coaching-server-sub001/models"
)

var ErrNotFound = errors.New("record not found")

// PackageFilter narrows package listings. Empty fields do not filter.
type PackageFilter struct {
	Lang         string
	VisibleOnly  bool
	NameContains string
}

// PackageChanges lists the fields to overwrite; nil means keep.
type PackageChanges struct {
	Lang          *string
	Name          *string
	Tags          []string
	Price         *float64
	Visible       *bool
	Package_image *string
}

type ItemChanges struct {
	Name                  *string
	Protein               *float64
	Carbs                 *float64
	Fat                   *float64
	Ingredients           *string
	Heating_instructions  *string
	Image                 *string
	Nutrition_facts_image *string
}

type PackageRepository interface {
	Create(ctx context.Context, pkg models.OfferedMealMenu) (models.OfferedMealMenu, error)
	FindByID(ctx context.Context, id string) (models.OfferedMealMenu, error)
	AppendItem(ctx context.Context, packageID, itemID string) error
	RemoveItem(ctx context.Context, packageID, itemID string) error
	Update(ctx context.Context, id string, changes PackageChanges) error
	List(ctx context.Context, filter PackageFilter, skip, limit int64) ([]models.OfferedMealMenu, int64, error)
	ListNames(ctx context.Context) ([]models.OfferedMealMenuName, error)
	Delete(ctx context.Context, id string) error
}

type ItemRepository interface {
	Create(ctx context.Context, item models.OfferedMeal) (models.OfferedMeal, error)
	FindByID(ctx context.Context, id string) (models.OfferedMeal, error)
	// FindByIDs returns the meals that exist; unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]models.OfferedMeal, error)
	Update(ctx context.Context, id string, changes ItemChanges) error
	Delete(ctx context.Context, id string) error
}
