package routes

import (
	"net/http"

	controllers "github.com/tamannaBithy/nutrition-coaching-server-sub001/controllers"
	"github.com/tamannaBithy/nutrition-coaching-server-sub001/logger"
	"github.com/tamannaBithy/nutrition-coaching-server-sub001/metrics"
	middleware "github.com/tamannaBithy/nutrition-coaching-server-sub001/middlewares"

	"github.com/gorilla/mux"
)

type Options struct {
	SecretKey string
	// UploadsDir is served under /uploads/ when set.
	UploadsDir string
	Logger     *logger.Logger
}

// NewRouter wires public, admin and operational routes.
func NewRouter(c *controllers.OfferedMealController, opts Options) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.AccessLog(opts.Logger), metrics.Middleware)

	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	if opts.UploadsDir != "" {
		router.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadsDir))))
	}

	// Public Routes (No Authentication)
	OfferedMealPublicRoutes(router, c)

	adminRoutes := router.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(middleware.Authentication(opts.SecretKey), middleware.RequireAdmin)
	OfferedMealAdminRoutes(adminRoutes, c)

	return router
}
