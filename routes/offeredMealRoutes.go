package routes

import (
	"net/http"

	controllers "github.com/tamannaBithy/nutrition-coaching-server-sub001/controllers"

	"github.com/gorilla/mux"
)

func OfferedMealPublicRoutes(router *mux.Router, c *controllers.OfferedMealController) {
	router.HandleFunc("/offered-meals-menu", c.GetOfferedMealsMenus).Methods(http.MethodGet)
	router.HandleFunc("/offered-meals-menu/{package_id}", c.GetOfferedMealsMenu).Methods(http.MethodGet)
	router.HandleFunc("/offered-meals/{meal_id}", c.GetOfferedMeal).Methods(http.MethodGet)
}

// OfferedMealAdminRoutes expects a router that already authenticates and
// requires the admin flag.
func OfferedMealAdminRoutes(router *mux.Router, c *controllers.OfferedMealController) {
	router.HandleFunc("/offered-meals-menu", c.GetOfferedMealsMenusForAdmin).Methods(http.MethodGet)
	router.HandleFunc("/offered-meals-menu", c.CreateOfferedMealsMenu).Methods(http.MethodPost)
	router.HandleFunc("/offered-meals-menu-names", c.GetOfferedMealsMenuNames).Methods(http.MethodGet)

	router.HandleFunc("/offered-meals-menu/{package_id}", c.UpdateOfferedMealsMenu).Methods(http.MethodPatch)
	router.HandleFunc("/offered-meals-menu/{package_id}", c.DeleteOfferedMealsMenu).Methods(http.MethodDelete)

	router.HandleFunc("/offered-meals-menu/{package_id}/meals", c.AddOfferedMeal).Methods(http.MethodPost)
	router.HandleFunc("/offered-meals-menu/{package_id}/meals/{meal_id}", c.RemoveOfferedMeal).Methods(http.MethodDelete)
	router.HandleFunc("/offered-meals/{meal_id}", c.UpdateOfferedMeal).Methods(http.MethodPatch)
}
