package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tamannaBithy/nutrition-coaching-server-sub001/helper"
	"github.com/tamannaBithy/nutrition-coaching-server-sub001/logger"
	"github.com/tamannaBithy/nutrition-coaching-server-sub001/models"
	"github.com/tamannaBithy/nutrition-coaching-server-sub001/repository"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PackageView is a package joined with its meals, ready for display.
type PackageView struct {
	Package_id    string               `json:"package_id"`
	Lang          string               `json:"lang"`
	Category      string               `json:"category"`
	Name          string               `json:"name"`
	Tags          []string             `json:"tags"`
	Price         float64              `json:"price"`
	Visible       bool                 `json:"visible"`
	Package_image string               `json:"package_image"`
	Meals         []models.OfferedMeal `json:"meals"`
	Created_by    string               `json:"created_by"`
	Created_at    time.Time            `json:"created_at"`
	Updated_at    time.Time            `json:"updated_at"`
}

// CatalogService serves read-only views over packages and meals.
type CatalogService struct {
	packages repository.PackageRepository
	items    repository.ItemRepository
	log      *logger.Logger
}

func NewCatalogService(packages repository.PackageRepository, items repository.ItemRepository, log *logger.Logger) *CatalogService {
	return &CatalogService{packages: packages, items: items, log: log}
}

// ListPublic lists the visible packages of one language.
func (s *CatalogService) ListPublic(ctx context.Context, lang string, page, pageSize int) (models.Page, error) {
	return s.list(ctx, repository.PackageFilter{Lang: langOrDefault(lang), VisibleOnly: true}, page, pageSize)
}

// ListForAdmin lists every package of one language whose name contains keyword.
func (s *CatalogService) ListForAdmin(ctx context.Context, lang, keyword string, page, pageSize int) (models.Page, error) {
	filter := repository.PackageFilter{Lang: langOrDefault(lang), NameContains: strings.TrimSpace(keyword)}
	return s.list(ctx, filter, page, pageSize)
}

func (s *CatalogService) GetByID(ctx context.Context, packageID string) (PackageView, error) {
	pkg, err := s.packages.FindByID(ctx, packageID)
	if errors.Is(err, repository.ErrNotFound) {
		return PackageView{}, packageNotFound()
	} else if err != nil {
		return PackageView{}, s.fail("get_package", err)
	}

	views, err := s.join(ctx, []models.OfferedMealMenu{pkg})
	if err != nil {
		return PackageView{}, s.fail("get_package", err)
	}
	return views[0], nil
}

func (s *CatalogService) GetItem(ctx context.Context, itemID string) (models.OfferedMeal, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.OfferedMeal{}, mealNotFound()
	} else if err != nil {
		return models.OfferedMeal{}, s.fail("get_item", err)
	}
	item.Name = strings.ToUpper(item.Name)
	return item, nil
}

func (s *CatalogService) ListPackageNames(ctx context.Context) ([]models.OfferedMealMenuName, error) {
	names, err := s.packages.ListNames(ctx)
	if err != nil {
		return nil, s.fail("list_package_names", err)
	}
	for i := range names {
		names[i].Name = strings.ToUpper(names[i].Name)
	}
	return names, nil
}

func (s *CatalogService) list(ctx context.Context, filter repository.PackageFilter, page, pageSize int) (models.Page, error) {
	page, pageSize = normalizePage(page, pageSize)

	pkgs, total, err := s.packages.List(ctx, filter, int64((page-1)*pageSize), int64(pageSize))
	if err != nil {
		return models.Page{}, s.fail("list_packages", err)
	}
	views, err := s.join(ctx, pkgs)
	if err != nil {
		return models.Page{}, s.fail("list_packages", err)
	}

	return models.Page{
		Items:       views,
		Total:       total,
		Page:        page,
		Page_size:   pageSize,
		Total_pages: totalPages(total, pageSize),
		Showing:     showing(page, pageSize, total),
	}, nil
}

// join resolves meal references with one lookup for all packages. Order
// follows each package's reference list; unresolved ids are dropped.
func (s *CatalogService) join(ctx context.Context, pkgs []models.OfferedMealMenu) ([]PackageView, error) {
	var ids []string
	for _, pkg := range pkgs {
		ids = append(ids, pkg.Meals...)
	}
	items, err := s.items.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.OfferedMeal, len(items))
	for _, item := range items {
		item.Name = strings.ToUpper(item.Name)
		byID[item.Meal_id] = item
	}

	views := make([]PackageView, 0, len(pkgs))
	for _, pkg := range pkgs {
		meals := make([]models.OfferedMeal, 0, len(pkg.Meals))
		for _, id := range pkg.Meals {
			if item, ok := byID[id]; ok {
				meals = append(meals, item)
			}
		}
		views = append(views, PackageView{
			Package_id:    pkg.Package_id,
			Lang:          pkg.Lang,
			Category:      strings.ToUpper(pkg.Category),
			Name:          strings.ToUpper(pkg.Name),
			Tags:          helper.UpperAll(pkg.Tags),
			Price:         pkg.Price,
			Visible:       pkg.Visible,
			Package_image: pkg.Package_image,
			Meals:         meals,
			Created_by:    pkg.Created_by,
			Created_at:    pkg.Created_at,
			Updated_at:    pkg.Updated_at,
		})
	}
	return views, nil
}

func (s *CatalogService) fail(op string, err error) error {
	s.log.Error("catalog query failed", "operation", op, "error", err)
	return somethingWentWrong(err)
}

func langOrDefault(lang string) string {
	if lang == "" {
		return models.LangEnglish
	}
	return lang
}

const maxPage = math.MaxInt32 / MaxPageSize

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	// Bounds page*pageSize; such a page is past any real total anyway.
	if page > maxPage {
		page = maxPage
	}
	return page, pageSize
}

func totalPages(total int64, pageSize int) int64 {
	return (total + int64(pageSize) - 1) / int64(pageSize)
}

// showing renders "Showing X - Y out of N items". A page past the end reports 0 - 0.
func showing(page, pageSize int, total int64) models.Message {
	start := int64((page-1)*pageSize) + 1
	end := int64(page * pageSize)
	if end > total {
		end = total
	}
	if start > total {
		start, end = 0, 0
	}
	return models.Message{
		En: fmt.Sprintf("Showing %d - %d out of %d items", start, end, total),
		Ar: fmt.Sprintf("عرض %d - %d من أصل %d عنصر", start, end, total),
	}
}
