package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	middleware "github.com/tamannaBithy/nutrition-coaching-server-sub001/middlewares"
	"github.com/tamannaBithy/nutrition-coaching-server-sub001/models"
	"github.com/tamannaBithy/nutrition-coaching-server-sub001/services"
)

type OfferedMealController struct {
	composition *services.CompositionService
	catalog     *services.CatalogService
	validate    *validator.Validate
}

func NewOfferedMealController(composition *services.CompositionService, catalog *services.CatalogService) *OfferedMealController {
	return &OfferedMealController{
		composition: composition,
		catalog:     catalog,
		validate:    validator.New(),
	}
}

// Get visible packages of one language with pagination
func (c *OfferedMealController) GetOfferedMealsMenus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 100*time.Second)
	defer cancel()

	lang, ok := langParam(w, r)
	if !ok {
		return
	}
	page, limit := pagination(r)

	result, err := c.catalog.ListPublic(ctx, lang, page, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeResult(w, http.StatusOK, result, models.Message{
		En: "Offered meal packages retrieved successfully",
		Ar: "تم جلب باقات الوجبات بنجاح",
	})
}

// Get every package of one language, optionally filtered by name
func (c *OfferedMealController) GetOfferedMealsMenusForAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 100*time.Second)
	defer cancel()

	lang, ok := langParam(w, r)
	if !ok {
		return
	}
	page, limit := pagination(r)

	result, err := c.catalog.ListForAdmin(ctx, lang, r.URL.Query().Get("search"), page, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeResult(w, http.StatusOK, result, models.Message{
		En: "Offered meal packages retrieved successfully",
		Ar: "تم جلب باقات الوجبات بنجاح",
	})
}

func (c *OfferedMealController) GetOfferedMealsMenuNames(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 100*time.Second)
	defer cancel()

	names, err := c.catalog.ListPackageNames(ctx)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeResult(w, http.StatusOK, names, models.Message{
		En: "Offered meal package names retrieved successfully",
		Ar: "تم جلب أسماء باقات الوجبات بنجاح",
	})
}

// Get a single package with its meals
func (c *OfferedMealController) GetOfferedMealsMenu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 100*time.Second)
	defer cancel()

	view, err := c.catalog.GetByID(ctx, mux.Vars(r)["package_id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeResult(w, http.StatusOK, view, models.Message{
		En: "Offered meal package retrieved successfully",
		Ar: "تم جلب باقة الوجبات بنجاح",
	})
}

// Get a single meal
func (c *OfferedMealController) GetOfferedMeal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 100*time.Second)
	defer cancel()

	item, err := c.catalog.GetItem(ctx, mux.Vars(r)["meal_id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeResult(w, http.StatusOK, item, models.Message{
		En: "Offered meal retrieved successfully",
		Ar: "تم جلب الوجبة بنجاح",
	})
}

// Create a package, optionally with its image
func (c *OfferedMealController) CreateOfferedMealsMenu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 100*time.Second)
	defer cancel()

	var req createPackageRequest
	f, err := parseBody(r, &req)
	if err == nil {
		err = f.bindCreatePackage(&req)
	}
	if err == nil {
		err = c.validate.Struct(req)
	}
	if err != nil {
		writeValidationError(w, err)
		return
	}

	uid, _ := middleware.GetPrincipal(r)
	pkg, err := c.composition.CreatePackage(ctx, uid, services.PackageInput{
		Lang:    req.Lang,
		Name:    req.Name,
		Tags:    req.Tags,
		Price:   *req.Price,
		Visible: req.Visible,
	}, f.upload("package_image"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeResult(w, http.StatusCreated, pkg, models.Message{
		En: "Offered meal package created successfully",
		Ar: "تم إنشاء باقة الوجبات بنجاح",
	})
}

func (c *OfferedMealController) UpdateOfferedMealsMenu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 100*time.Second)
	defer cancel()

	var req updatePackageRequest
	f, err := parseBody(r, &req)
	if err == nil {
		err = f.bindUpdatePackage(&req)
	}
	if err == nil {
		err = c.validate.Struct(req)
	}
	if err != nil {
		writeValidationError(w, err)
		return
	}

	pkg, err := c.composition.UpdatePackage(ctx, mux.Vars(r)["package_id"], services.PackageUpdate{
		Lang:    req.Lang,
		Name:    req.Name,
		Tags:    req.Tags,
		Price:   req.Price,
		Visible: req.Visible,
	}, f.upload("package_image"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeResult(w, http.StatusOK, pkg, models.Message{
		En: "Offered meal package updated successfully",
		Ar: "تم تحديث باقة الوجبات بنجاح",
	})
}

// Delete a package together with its meals and images
func (c *OfferedMealController) DeleteOfferedMealsMenu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 100*time.Second)
	defer cancel()

	if err := c.composition.DeletePackage(ctx, mux.Vars(r)["package_id"]); err != nil {
		writeServiceError(w, err)
		return
	}
	writeResult(w, http.StatusOK, nil, models.Message{
		En: "Offered meal package deleted successfully",
		Ar: "تم حذف باقة الوجبات بنجاح",
	})
}

// Create a meal inside a package
func (c *OfferedMealController) AddOfferedMeal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 100*time.Second)
	defer cancel()

	var req createMealRequest
	f, err := parseBody(r, &req)
	if err == nil {
		err = f.bindCreateMeal(&req)
	}
	if err == nil {
		err = c.validate.Struct(req)
	}
	if err != nil {
		writeValidationError(w, err)
		return
	}

	uid, _ := middleware.GetPrincipal(r)
	item, err := c.composition.AddItemToPackage(ctx, uid, mux.Vars(r)["package_id"], services.ItemInput{
		Name:                req.Name,
		Protein:             *req.Protein,
		Carbs:               *req.Carbs,
		Fat:                 *req.Fat,
		Ingredients:         req.Ingredients,
		HeatingInstructions: req.HeatingInstructions,
	}, f.upload("image"), f.upload("nutrition_facts_image"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeResult(w, http.StatusCreated, item, models.Message{
		En: "Offered meal added to the package successfully",
		Ar: "تمت إضافة الوجبة إلى الباقة بنجاح",
	})
}

func (c *OfferedMealController) UpdateOfferedMeal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 100*time.Second)
	defer cancel()

	var req updateMealRequest
	f, err := parseBody(r, &req)
	if err == nil {
		err = f.bindUpdateMeal(&req)
	}
	if err == nil {
		err = c.validate.Struct(req)
	}
	if err != nil {
		writeValidationError(w, err)
		return
	}

	item, err := c.composition.UpdateItem(ctx, mux.Vars(r)["meal_id"], services.ItemUpdate{
		Name:                req.Name,
		Protein:             req.Protein,
		Carbs:               req.Carbs,
		Fat:                 req.Fat,
		Ingredients:         req.Ingredients,
		HeatingInstructions: req.HeatingInstructions,
	}, f.upload("image"), f.upload("nutrition_facts_image"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeResult(w, http.StatusOK, item, models.Message{
		En: "Offered meal updated successfully",
		Ar: "تم تحديث الوجبة بنجاح",
	})
}

// Remove a meal from its package and delete it
func (c *OfferedMealController) RemoveOfferedMeal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 100*time.Second)
	defer cancel()

	vars := mux.Vars(r)
	if err := c.composition.RemoveItemFromPackage(ctx, vars["package_id"], vars["meal_id"]); err != nil {
		writeServiceError(w, err)
		return
	}
	writeResult(w, http.StatusOK, nil, models.Message{
		En: "Offered meal removed successfully",
		Ar: "تم حذف الوجبة بنجاح",
	})
}

func langParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	lang := r.URL.Query().Get("lang")
	switch lang {
	case "":
		return models.LangEnglish, true
	case models.LangEnglish, models.LangArabic:
		return lang, true
	}
	writeResult(w, http.StatusBadRequest, nil, models.Message{
		En: "lang must be either en or ar",
		Ar: "يجب أن تكون اللغة en أو ar",
	})
	return "", false
}

func writeResult(w http.ResponseWriter, status int, data interface{}, message models.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.Result{
		Status:  status < http.StatusBadRequest,
		Data:    data,
		Message: message,
	})
}

func writeValidationError(w http.ResponseWriter, err error) {
	writeResult(w, http.StatusBadRequest, nil, models.Message{
		En: "Validation failed: " + err.Error(),
		Ar: "فشل التحقق من صحة البيانات",
	})
}

func writeServiceError(w http.ResponseWriter, err error) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		svcErr = &services.Error{Kind: services.KindStorage, Message: models.Message{
			En: "Something went wrong, please try again later",
			Ar: "حدث خطأ ما، يرجى المحاولة مرة أخرى لاحقاً",
		}}
	}

	status := http.StatusInternalServerError
	switch svcErr.Kind {
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindInvalidAsset, services.KindValidation:
		status = http.StatusBadRequest
	}
	writeResult(w, status, nil, svcErr.Message)
}
