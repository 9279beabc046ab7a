package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tamannaBithy/nutrition-coaching-server-sub001/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// faults lets tests make the next call of an operation fail.
type faults struct {
	mu   sync.Mutex
	next map[string]error
}

// FailNext makes the next call to op (e.g. "Create", "Delete") return err.
func (f *faults) FailNext(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.next == nil {
		f.next = make(map[string]error)
	}
	f.next[op] = err
}

func (f *faults) take(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err, ok := f.next[op]
	if ok {
		delete(f.next, op)
	}
	return err
}

// MemoryPackageRepository keeps packages in process memory.
type MemoryPackageRepository struct {
	faults
	mu       sync.RWMutex
	packages map[string]models.OfferedMealMenu
}

func NewMemoryPackageRepository() *MemoryPackageRepository {
	return &MemoryPackageRepository{packages: make(map[string]models.OfferedMealMenu)}
}

func (r *MemoryPackageRepository) Create(_ context.Context, pkg models.OfferedMealMenu) (models.OfferedMealMenu, error) {
	if err := r.take("Create"); err != nil {
		return models.OfferedMealMenu{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	pkg.ID = primitive.NewObjectID()
	pkg.Package_id = pkg.ID.Hex()
	pkg.Meals = append([]string{}, pkg.Meals...)
	pkg.Tags = append([]string{}, pkg.Tags...)
	pkg.Created_at = time.Now()
	pkg.Updated_at = pkg.Created_at
	r.packages[pkg.Package_id] = pkg
	return clonePackage(pkg), nil
}

func (r *MemoryPackageRepository) FindByID(_ context.Context, id string) (models.OfferedMealMenu, error) {
	if err := r.take("FindByID"); err != nil {
		return models.OfferedMealMenu{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	pkg, ok := r.packages[id]
	if !ok {
		return models.OfferedMealMenu{}, ErrNotFound
	}
	return clonePackage(pkg), nil
}

func (r *MemoryPackageRepository) AppendItem(_ context.Context, packageID, itemID string) error {
	if err := r.take("AppendItem"); err != nil {
		return err
	}
	return r.mutate(packageID, func(pkg *models.OfferedMealMenu) {
		pkg.Meals = append(pkg.Meals, itemID)
	})
}

func (r *MemoryPackageRepository) RemoveItem(_ context.Context, packageID, itemID string) error {
	if err := r.take("RemoveItem"); err != nil {
		return err
	}
	return r.mutate(packageID, func(pkg *models.OfferedMealMenu) {
		kept := pkg.Meals[:0]
		for _, id := range pkg.Meals {
			if id != itemID {
				kept = append(kept, id)
			}
		}
		pkg.Meals = kept
	})
}

func (r *MemoryPackageRepository) Update(_ context.Context, id string, changes PackageChanges) error {
	if err := r.take("Update"); err != nil {
		return err
	}
	return r.mutate(id, func(pkg *models.OfferedMealMenu) {
		if changes.Lang != nil {
			pkg.Lang = *changes.Lang
		}
		if changes.Name != nil {
			pkg.Name = *changes.Name
		}
		if changes.Tags != nil {
			pkg.Tags = append([]string{}, changes.Tags...)
		}
		if changes.Price != nil {
			pkg.Price = *changes.Price
		}
		if changes.Visible != nil {
			pkg.Visible = *changes.Visible
		}
		if changes.Package_image != nil {
			pkg.Package_image = *changes.Package_image
		}
	})
}

func (r *MemoryPackageRepository) mutate(id string, fn func(pkg *models.OfferedMealMenu)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pkg, ok := r.packages[id]
	if !ok {
		return ErrNotFound
	}
	fn(&pkg)
	pkg.Updated_at = time.Now()
	r.packages[id] = pkg
	return nil
}

func (r *MemoryPackageRepository) List(_ context.Context, filter PackageFilter, skip, limit int64) ([]models.OfferedMealMenu, int64, error) {
	if err := r.take("List"); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	keyword := strings.ToLower(filter.NameContains)
	matched := []models.OfferedMealMenu{}
	for _, pkg := range r.packages {
		if filter.Lang != "" && pkg.Lang != filter.Lang {
			continue
		}
		if filter.VisibleOnly && !pkg.Visible {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(pkg.Name), keyword) {
			continue
		}
		matched = append(matched, clonePackage(pkg))
	}
	sortPackages(matched)

	total := int64(len(matched))
	if skip < 0 {
		skip = 0
	}
	if skip >= total {
		return []models.OfferedMealMenu{}, total, nil
	}
	end := total
	if limit > 0 && skip+limit < total {
		end = skip + limit
	}
	return matched[skip:end], total, nil
}

func (r *MemoryPackageRepository) ListNames(_ context.Context) ([]models.OfferedMealMenuName, error) {
	if err := r.take("ListNames"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	all := make([]models.OfferedMealMenu, 0, len(r.packages))
	for _, pkg := range r.packages {
		all = append(all, pkg)
	}
	r.mu.RUnlock()

	sortPackages(all)
	names := make([]models.OfferedMealMenuName, 0, len(all))
	for _, pkg := range all {
		names = append(names, models.OfferedMealMenuName{Package_id: pkg.Package_id, Name: pkg.Name})
	}
	return names, nil
}

func (r *MemoryPackageRepository) Delete(_ context.Context, id string) error {
	if err := r.take("Delete"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.packages[id]; !ok {
		return ErrNotFound
	}
	delete(r.packages, id)
	return nil
}

// Len reports how many packages are stored.
func (r *MemoryPackageRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.packages)
}

// MemoryItemRepository keeps meals in process memory.
type MemoryItemRepository struct {
	faults
	mu    sync.RWMutex
	items map[string]models.OfferedMeal
}

func NewMemoryItemRepository() *MemoryItemRepository {
	return &MemoryItemRepository{items: make(map[string]models.OfferedMeal)}
}

func (r *MemoryItemRepository) Create(_ context.Context, item models.OfferedMeal) (models.OfferedMeal, error) {
	if err := r.take("Create"); err != nil {
		return models.OfferedMeal{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	item.ID = primitive.NewObjectID()
	item.Meal_id = item.ID.Hex()
	item.Created_at = time.Now()
	item.Updated_at = item.Created_at
	r.items[item.Meal_id] = item
	return item, nil
}

func (r *MemoryItemRepository) FindByID(_ context.Context, id string) (models.OfferedMeal, error) {
	if err := r.take("FindByID"); err != nil {
		return models.OfferedMeal{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return models.OfferedMeal{}, ErrNotFound
	}
	return item, nil
}

func (r *MemoryItemRepository) FindByIDs(_ context.Context, ids []string) ([]models.OfferedMeal, error) {
	if err := r.take("FindByIDs"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool, len(ids))
	items := []models.OfferedMeal{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if item, ok := r.items[id]; ok {
			items = append(items, item)
		}
	}
	return items, nil
}

func (r *MemoryItemRepository) Update(_ context.Context, id string, changes ItemChanges) error {
	if err := r.take("Update"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}
	if changes.Name != nil {
		item.Name = *changes.Name
	}
	if changes.Protein != nil {
		item.Protein = *changes.Protein
	}
	if changes.Carbs != nil {
		item.Carbs = *changes.Carbs
	}
	if changes.Fat != nil {
		item.Fat = *changes.Fat
	}
	if changes.Ingredients != nil {
		item.Ingredients = *changes.Ingredients
	}
	if changes.Heating_instructions != nil {
		item.Heating_instructions = *changes.Heating_instructions
	}
	if changes.Image != nil {
		item.Image = *changes.Image
	}
	if changes.Nutrition_facts_image != nil {
		item.Nutrition_facts_image = *changes.Nutrition_facts_image
	}
	item.Updated_at = time.Now()
	r.items[id] = item
	return nil
}

func (r *MemoryItemRepository) Delete(_ context.Context, id string) error {
	if err := r.take("Delete"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// Len reports how many meals are stored.
func (r *MemoryItemRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func clonePackage(pkg models.OfferedMealMenu) models.OfferedMealMenu {
	pkg.Meals = append([]string{}, pkg.Meals...)
	pkg.Tags = append([]string{}, pkg.Tags...)
	return pkg
}

// sortPackages orders like the Mongo listing: created_at, then _id.
func sortPackages(pkgs []models.OfferedMealMenu) {
	sort.SliceStable(pkgs, func(i, j int) bool {
		if !pkgs[i].Created_at.Equal(pkgs[j].Created_at) {
			return pkgs[i].Created_at.Before(pkgs[j].Created_at)
		}
		return pkgs[i].ID.Hex() < pkgs[j].ID.Hex()
	})
}

var (
	_ PackageRepository = (*MemoryPackageRepository)(nil)
	_ ItemRepository    = (*MemoryItemRepository)(nil)
)
