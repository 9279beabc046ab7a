package services

import (
	"context"
	"errors"
	"strings"

	"github.com/tamannaBithy/nutrition-coaching-server-sub001/assets"
	"github.com/tamannaBithy/nutrition-coaching-server-sub001/helper"
	"github.com/tamannaBithy/nutrition-coaching-server-sub001/logger"
	"github.com/tamannaBithy/nutrition-coaching-server-sub001/metrics"
	"github.com/tamannaBithy/nutrition-coaching-server-sub001/models"
	"github.com/tamannaBithy/nutrition-coaching-server-sub001/repository"
)

type PackageInput struct {
	Lang    string
	Name    string
	Tags    []string
	Price   float64
	Visible bool
}

// PackageUpdate holds the package fields to change; nil keeps the current value.
type PackageUpdate struct {
	Lang    *string
	Name    *string
	Tags    []string
	Price   *float64
	Visible *bool
}

type ItemInput struct {
	Name                string
	Protein             float64
	Carbs               float64
	Fat                 float64
	Ingredients         string
	HeatingInstructions string
}

// ItemUpdate holds the meal fields to change. Calories stay as computed at
// creation even when macros change.
type ItemUpdate struct {
	Name                *string
	Protein             *float64
	Carbs               *float64
	Fat                 *float64
	Ingredients         *string
	HeatingInstructions *string
}

// CompositionService owns every write to packages, meals and their images.
// Stores are not transactional, so each operation orders its steps so that
// a crash leaves at most unreferenced meals or files behind.
type CompositionService struct {
	packages repository.PackageRepository
	items    repository.ItemRepository
	assets   *assets.Store
	log      *logger.Logger
}

func NewCompositionService(packages repository.PackageRepository, items repository.ItemRepository, store *assets.Store, log *logger.Logger) *CompositionService {
	return &CompositionService{packages: packages, items: items, assets: store, log: log}
}

func (s *CompositionService) CreatePackage(ctx context.Context, creatorID string, in PackageInput, image assets.Upload) (pkg models.OfferedMealMenu, err error) {
	defer s.record("create_package", &err)

	lang := in.Lang
	if lang == "" {
		lang = models.LangEnglish
	}
	pkg, err = s.packages.Create(ctx, models.OfferedMealMenu{
		Lang:       lang,
		Category:   models.DefaultCategory,
		Name:       strings.TrimSpace(in.Name),
		Tags:       helper.NormalizeTags(in.Tags),
		Price:      in.Price,
		Visible:    in.Visible,
		Created_by: creatorID,
	})
	if err != nil {
		return models.OfferedMealMenu{}, somethingWentWrong(err)
	}
	if image == nil {
		return pkg, nil
	}

	path, err := s.assets.Store(ctx, assets.KindPackage, pkg.Package_id, assets.SlotPackageImage, pkg.Name, image)
	if err != nil {
		s.discardPackage(ctx, pkg.Package_id)
		return models.OfferedMealMenu{}, assetError(assets.SlotPackageImage, err)
	}
	if err = s.packages.Update(ctx, pkg.Package_id, repository.PackageChanges{Package_image: &path}); err != nil {
		s.discardPackage(ctx, pkg.Package_id)
		return models.OfferedMealMenu{}, somethingWentWrong(err)
	}
	pkg.Package_image = path
	return pkg, nil
}

func (s *CompositionService) UpdatePackage(ctx context.Context, packageID string, in PackageUpdate, image assets.Upload) (pkg models.OfferedMealMenu, err error) {
	defer s.record("update_package", &err)

	current, err := s.findPackage(ctx, packageID)
	if err != nil {
		return models.OfferedMealMenu{}, err
	}
	if image != nil {
		if _, err = assets.CheckExtension(image.Filename()); err != nil {
			return models.OfferedMealMenu{}, invalidAsset(assets.SlotPackageImage, err)
		}
	}

	changes := repository.PackageChanges{
		Lang:    in.Lang,
		Price:   in.Price,
		Visible: in.Visible,
	}
	name := current.Name
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
		changes.Name = &name
	}
	if in.Tags != nil {
		changes.Tags = helper.NormalizeTags(in.Tags)
	}
	imagePath := current.Package_image
	if image != nil {
		if imagePath, err = s.assets.Replace(ctx, assets.KindPackage, packageID, assets.SlotPackageImage, name, current.Package_image, image); err != nil {
			return models.OfferedMealMenu{}, assetError(assets.SlotPackageImage, err)
		}
		changes.Package_image = &imagePath
	}

	if err = s.packages.Update(ctx, packageID, changes); err != nil {
		s.discardFile(ctx, imagePath, current.Package_image)
		if errors.Is(err, repository.ErrNotFound) {
			return models.OfferedMealMenu{}, packageNotFound()
		}
		return models.OfferedMealMenu{}, somethingWentWrong(err)
	}
	s.discardFile(ctx, current.Package_image, imagePath)
	return s.findPackage(ctx, packageID)
}

// AddItemToPackage creates a meal with its images and appends it to the
// package. Any failure before the append removes the meal and its files,
// except that a rejected nutrition image leaves the accepted image file.
func (s *CompositionService) AddItemToPackage(ctx context.Context, creatorID, packageID string, in ItemInput, image, nutritionImage assets.Upload) (item models.OfferedMeal, err error) {
	defer s.record("add_item", &err)

	if _, err = s.findPackage(ctx, packageID); err != nil {
		return models.OfferedMeal{}, err
	}

	item, err = s.items.Create(ctx, models.OfferedMeal{
		Name:                 strings.ToLower(strings.TrimSpace(in.Name)),
		Protein:              in.Protein,
		Carbs:                in.Carbs,
		Fat:                  in.Fat,
		Calories:             models.Calories(in.Protein, in.Carbs, in.Fat),
		Ingredients:          in.Ingredients,
		Heating_instructions: in.HeatingInstructions,
		Created_by:           creatorID,
	})
	if err != nil {
		return models.OfferedMeal{}, somethingWentWrong(err)
	}

	imagePath, err := s.assets.Store(ctx, assets.KindItem, item.Meal_id, assets.SlotImage, item.Name, image)
	if err != nil {
		s.discardItem(ctx, item.Meal_id)
		return models.OfferedMeal{}, assetError(assets.SlotImage, err)
	}
	nutritionPath, err := s.assets.Store(ctx, assets.KindItem, item.Meal_id, assets.SlotNutritionFactsImage, item.Name, nutritionImage)
	if err != nil {
		if errors.Is(err, assets.ErrInvalidExtension) {
			// A rejected slot drops the record but keeps the accepted image file.
			s.discardItemRecord(ctx, item.Meal_id)
		} else {
			s.discardItem(ctx, item.Meal_id)
		}
		return models.OfferedMeal{}, assetError(assets.SlotNutritionFactsImage, err)
	}

	if imagePath != "" || nutritionPath != "" {
		err = s.items.Update(ctx, item.Meal_id, repository.ItemChanges{Image: &imagePath, Nutrition_facts_image: &nutritionPath})
		if err != nil {
			s.discardItem(ctx, item.Meal_id)
			return models.OfferedMeal{}, somethingWentWrong(err)
		}
		item.Image = imagePath
		item.Nutrition_facts_image = nutritionPath
	}

	if err = s.packages.AppendItem(ctx, packageID, item.Meal_id); err != nil {
		s.discardItem(ctx, item.Meal_id)
		if errors.Is(err, repository.ErrNotFound) {
			return models.OfferedMeal{}, packageNotFound()
		}
		return models.OfferedMeal{}, somethingWentWrong(err)
	}
	return item, nil
}

func (s *CompositionService) UpdateItem(ctx context.Context, itemID string, in ItemUpdate, image, nutritionImage assets.Upload) (item models.OfferedMeal, err error) {
	defer s.record("update_item", &err)

	current, err := s.findItem(ctx, itemID)
	if err != nil {
		return models.OfferedMeal{}, err
	}
	for slot, upload := range map[string]assets.Upload{assets.SlotImage: image, assets.SlotNutritionFactsImage: nutritionImage} {
		if upload == nil {
			continue
		}
		if _, err = assets.CheckExtension(upload.Filename()); err != nil {
			return models.OfferedMeal{}, invalidAsset(slot, err)
		}
	}

	changes := repository.ItemChanges{
		Protein:              in.Protein,
		Carbs:                in.Carbs,
		Fat:                  in.Fat,
		Ingredients:          in.Ingredients,
		Heating_instructions: in.HeatingInstructions,
	}
	name := current.Name
	if in.Name != nil {
		name = strings.ToLower(strings.TrimSpace(*in.Name))
		changes.Name = &name
	}
	// New files are written next to the current ones; the current ones are
	// only deleted after the record points at the replacements.
	imagePath, nutritionPath := current.Image, current.Nutrition_facts_image
	if image != nil {
		if imagePath, err = s.assets.Replace(ctx, assets.KindItem, itemID, assets.SlotImage, name, current.Image, image); err != nil {
			return models.OfferedMeal{}, assetError(assets.SlotImage, err)
		}
		changes.Image = &imagePath
	}
	if nutritionImage != nil {
		if nutritionPath, err = s.assets.Replace(ctx, assets.KindItem, itemID, assets.SlotNutritionFactsImage, name, current.Nutrition_facts_image, nutritionImage); err != nil {
			s.discardFile(ctx, imagePath, current.Image)
			return models.OfferedMeal{}, assetError(assets.SlotNutritionFactsImage, err)
		}
		changes.Nutrition_facts_image = &nutritionPath
	}

	if err = s.items.Update(ctx, itemID, changes); err != nil {
		s.discardFile(ctx, imagePath, current.Image)
		s.discardFile(ctx, nutritionPath, current.Nutrition_facts_image)
		if errors.Is(err, repository.ErrNotFound) {
			return models.OfferedMeal{}, mealNotFound()
		}
		return models.OfferedMeal{}, somethingWentWrong(err)
	}
	s.discardFile(ctx, current.Image, imagePath)
	s.discardFile(ctx, current.Nutrition_facts_image, nutritionPath)
	return s.findItem(ctx, itemID)
}

// DeletePackage removes the package's meals (records and files) before the
// package itself. Meal ids that no longer resolve are skipped.
func (s *CompositionService) DeletePackage(ctx context.Context, packageID string) (err error) {
	defer s.record("delete_package", &err)

	pkg, err := s.findPackage(ctx, packageID)
	if err != nil {
		return err
	}

	for _, itemID := range pkg.Meals {
		if err = s.deleteItem(ctx, itemID); err != nil {
			return err
		}
	}

	if err = s.assets.Remove(ctx, assets.KindPackage, packageID); err != nil {
		return somethingWentWrong(err)
	}
	if err = s.packages.Delete(ctx, packageID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return packageNotFound()
		}
		return somethingWentWrong(err)
	}
	return nil
}

// RemoveItemFromPackage unlinks the meal first so listings never show a
// meal whose record is already gone.
func (s *CompositionService) RemoveItemFromPackage(ctx context.Context, packageID, itemID string) (err error) {
	defer s.record("remove_item", &err)

	pkg, err := s.findPackage(ctx, packageID)
	if err != nil {
		return err
	}
	if !contains(pkg.Meals, itemID) {
		return mealNotFound()
	}

	if err = s.packages.RemoveItem(ctx, packageID, itemID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return packageNotFound()
		}
		return somethingWentWrong(err)
	}
	return s.deleteItem(ctx, itemID)
}

func (s *CompositionService) deleteItem(ctx context.Context, itemID string) error {
	if _, err := s.items.FindByID(ctx, itemID); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return somethingWentWrong(err)
		}
		s.log.Warn("skipping dangling meal reference", "meal_id", itemID)
	}
	// Files are swept even for a missing record; Remove is idempotent.
	if err := s.assets.Remove(ctx, assets.KindItem, itemID); err != nil {
		return somethingWentWrong(err)
	}
	if err := s.items.Delete(ctx, itemID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return somethingWentWrong(err)
	}
	return nil
}

func (s *CompositionService) findPackage(ctx context.Context, id string) (models.OfferedMealMenu, error) {
	pkg, err := s.packages.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.OfferedMealMenu{}, packageNotFound()
	} else if err != nil {
		return models.OfferedMealMenu{}, somethingWentWrong(err)
	}
	return pkg, nil
}

func (s *CompositionService) findItem(ctx context.Context, id string) (models.OfferedMeal, error) {
	item, err := s.items.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.OfferedMeal{}, mealNotFound()
	} else if err != nil {
		return models.OfferedMeal{}, somethingWentWrong(err)
	}
	return item, nil
}

// discardPackage is the compensating step of CreatePackage.
func (s *CompositionService) discardPackage(ctx context.Context, id string) {
	if err := s.packages.Delete(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.Error("failed to discard package", "package_id", id, "error", err)
	}
	if err := s.assets.Remove(ctx, assets.KindPackage, id); err != nil {
		s.log.Error("failed to remove package images", "package_id", id, "error", err)
	}
}

// discardItem is the compensating step of AddItemToPackage.
func (s *CompositionService) discardItem(ctx context.Context, id string) {
	s.discardItemRecord(ctx, id)
	if err := s.assets.Remove(ctx, assets.KindItem, id); err != nil {
		s.log.Error("failed to remove meal images", "meal_id", id, "error", err)
	}
}

func (s *CompositionService) discardItemRecord(ctx context.Context, id string) {
	if err := s.items.Delete(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.Error("failed to discard meal", "meal_id", id, "error", err)
	}
}

// discardFile removes an image that no record points at. Failures leave an
// orphan file and are only logged.
func (s *CompositionService) discardFile(ctx context.Context, path, keep string) {
	if err := s.assets.Discard(ctx, path, keep); err != nil {
		s.log.Warn("failed to remove replaced image", "path", path, "error", err)
	}
}

// record logs storage failures and counts the outcome of op.
func (s *CompositionService) record(op string, errp *error) {
	if *errp == nil {
		metrics.RecordComposition(op, "ok")
		return
	}
	kind := KindOf(*errp)
	if kind == KindStorage {
		s.log.Error("composition failed", "operation", op, "error", *errp)
	}
	metrics.RecordComposition(op, string(kind))
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
