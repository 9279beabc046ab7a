package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/tamannaBithy/nutrition-coaching-server-sub001/models"
)

func writeError(w http.ResponseWriter, status int, en, ar string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.Result{
		Status:  false,
		Message: models.Message{En: en, Ar: ar},
	})
}
