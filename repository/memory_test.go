package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tamannaBithy/nutrition-coaching-server-sub001/models"
)

func TestMemoryPackageAppendKeepsOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPackageRepository()

	pkg, err := repo.Create(ctx, models.OfferedMealMenu{Name: "box", Lang: "en"})
	require.NoError(t, err)
	require.NoError(t, repo.AppendItem(ctx, pkg.Package_id, "a"))
	require.NoError(t, repo.AppendItem(ctx, pkg.Package_id, "b"))
	require.NoError(t, repo.AppendItem(ctx, pkg.Package_id, "a"))

	got, err := repo.FindByID(ctx, pkg.Package_id)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "a"}, got.Meals)

	require.NoError(t, repo.RemoveItem(ctx, pkg.Package_id, "a"))
	got, err = repo.FindByID(ctx, pkg.Package_id)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, got.Meals)
}

func TestMemoryPackageNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPackageRepository()

	_, err := repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.AppendItem(ctx, "missing", "a"), ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "missing"), ErrNotFound)
}

func TestMemoryPackageListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPackageRepository()

	for i := 0; i < 5; i++ {
		_, err := repo.Create(ctx, models.OfferedMealMenu{Name: fmt.Sprintf("Keto %d", i), Lang: "en", Visible: i%2 == 0})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, models.OfferedMealMenu{Name: "Vegan", Lang: "ar", Visible: true})
	require.NoError(t, err)

	pkgs, total, err := repo.List(ctx, PackageFilter{Lang: "en", VisibleOnly: true}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, pkgs, 3)

	pkgs, total, err = repo.List(ctx, PackageFilter{Lang: "en", NameContains: "KETO 3"}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Keto 3", pkgs[0].Name)

	pkgs, total, err = repo.List(ctx, PackageFilter{Lang: "en"}, 4, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, pkgs, 1)
	assert.Equal(t, "Keto 4", pkgs[0].Name)
}

func TestMemoryItemFindByIDsSkipsMissing(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryItemRepository()

	a, err := repo.Create(ctx, models.OfferedMeal{Name: "a"})
	require.NoError(t, err)

	items, err := repo.FindByIDs(ctx, []string{a.Meal_id, "missing", a.Meal_id})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, a.Meal_id, items[0].Meal_id)
}

func TestMemoryFailNext(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryItemRepository()
	boom := fmt.Errorf("boom")

	repo.FailNext("Create", boom)
	_, err := repo.Create(ctx, models.OfferedMeal{Name: "a"})
	assert.ErrorIs(t, err, boom)

	_, err = repo.Create(ctx, models.OfferedMeal{Name: "a"})
	assert.NoError(t, err)
}

func TestMemoryPackageListNegativeSkip(t *testing.T) {
	repo := NewMemoryPackageRepository()
	ctx := context.Background()
	_, err := repo.Create(ctx, models.OfferedMealMenu{Name: "box", Lang: "en", Visible: true})
	require.NoError(t, err)

	pkgs, total, err := repo.List(ctx, PackageFilter{Lang: "en"}, -16, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, pkgs, 1)
}
