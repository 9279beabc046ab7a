package middleware

import (
	"context"
	"net/http"
	"strings"

	helper "github.com/tamannaBithy/nutrition-coaching-server-sub001/helper"
)

// Context keys to store principal information
type contextKey string

const (
	UidKey     contextKey = "uid"
	IsAdminKey contextKey = "is_admin"
)

// Authentication verifies the Bearer token and stores the principal in the
// request context.
func Authentication(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientToken := r.Header.Get("Authorization")
			if clientToken == "" {
				writeError(w, http.StatusUnauthorized, "No Authorization header provided", "لم يتم توفير رأس التفويض")
				return
			}

			// Token format should be "Bearer <token>"
			tokenParts := strings.Split(clientToken, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				writeError(w, http.StatusUnauthorized, "Invalid Authorization format", "تنسيق التفويض غير صالح")
				return
			}

			claims, err := helper.ValidateToken(secret, tokenParts[1])
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid or expired token", "الرمز غير صالح أو منتهي الصلاحية")
				return
			}

			ctx := context.WithValue(r.Context(), UidKey, claims.Uid)
			ctx = context.WithValue(ctx, IsAdminKey, claims.IsAdmin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects principals without the admin flag. It must run after
// Authentication.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, isAdmin := GetPrincipal(r); !isAdmin {
			writeError(w, http.StatusForbidden, "Only admins can perform this action", "يمكن للمسؤولين فقط تنفيذ هذا الإجراء")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetPrincipal retrieves the authenticated user id and admin flag.
func GetPrincipal(r *http.Request) (uid string, isAdmin bool) {
	uid, _ = r.Context().Value(UidKey).(string)
	isAdmin, _ = r.Context().Value(IsAdminKey).(bool)
	return
}
