package routes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tamannaBithy/nutrition-coaching-server-sub001/assets"
	controllers "github.com/tamannaBithy/nutrition-coaching-server-sub001/controllers"
	helper "github.com/tamannaBithy/nutrition-coaching-server-sub001/helper"
	"github.com/tamannaBithy/nutrition-coaching-server-sub001/logger"
	"github.com/tamannaBithy/nutrition-coaching-server-sub001/repository"
	"github.com/tamannaBithy/nutrition-coaching-server-sub001/services"
)

const testSecret = "test-secret"

type envelope struct {
	Status  bool            `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message struct {
		En string `json:"en"`
		Ar string `json:"ar"`
	} `json:"message"`
}

type testServer struct {
	handler http.Handler
	items   *repository.MemoryItemRepository
	token   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	root := t.TempDir()
	packages := repository.NewMemoryPackageRepository()
	items := repository.NewMemoryItemRepository()
	log := logger.Nop()
	store := assets.NewStore(assets.NewLocalBackend(root))

	c := controllers.NewOfferedMealController(
		services.NewCompositionService(packages, items, store, log),
		services.NewCatalogService(packages, items, log),
	)
	token, err := helper.GenerateToken(testSecret, "admin-1", true, time.Hour)
	require.NoError(t, err)

	return &testServer{
		handler: NewRouter(c, Options{SecretKey: testSecret, UploadsDir: root, Logger: log}),
		items:   items,
		token:   token,
	}
}

func (s *testServer) do(t *testing.T, req *http.Request, admin bool) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	if admin {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var body envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, files map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for field, name := range files {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("image-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestAdminRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(t, httptest.NewRequest(http.MethodGet, "/admin/offered-meals-menu", nil), false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, body.Status)

	token, err := helper.GenerateToken(testSecret, "user-1", false, time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodDelete, "/admin/offered-meals-menu/any", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPackageLifecycle(t *testing.T) {
	s := newTestServer(t)

	req := multipartRequest(t, http.MethodPost, "/admin/offered-meals-menu",
		map[string]string{"name": "Keto Box", "price": "99.5", "visible": "true", "tags": "keto, low carb"},
		map[string]string{"package_image": "cover.png"})
	rec, body := s.do(t, req, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, body.Status)

	var pkg struct {
		Package_id    string   `json:"package_id"`
		Package_image string   `json:"package_image"`
		Tags          []string `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &pkg))
	assert.Equal(t, []string{"keto", "low carb"}, pkg.Tags)
	assert.NotEmpty(t, pkg.Package_image)

	rec, _ = s.do(t, httptest.NewRequest(http.MethodGet, "/"+pkg.Package_image, nil), false)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = multipartRequest(t, http.MethodPost, "/admin/offered-meals-menu/"+pkg.Package_id+"/meals",
		map[string]string{"name": "Chicken", "protein": "10", "carbs": "20", "fat": "5", "ingredients": "chicken", "heating_instructions": "microwave 2 min", "image": "null"},
		nil)
	rec, body = s.do(t, req, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var meal struct {
		Meal_id  string  `json:"meal_id"`
		Calories float64 `json:"calories"`
		Image    string  `json:"image"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &meal))
	assert.Equal(t, float64(165), meal.Calories)
	assert.Empty(t, meal.Image)

	rec, body = s.do(t, httptest.NewRequest(http.MethodGet, "/offered-meals-menu?lang=en", nil), false)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Items []struct {
			Name  string `json:"name"`
			Meals []struct {
				Name string `json:"name"`
			} `json:"meals"`
		} `json:"items"`
		Showing struct {
			En string `json:"en"`
		} `json:"showing"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "KETO BOX", page.Items[0].Name)
	require.Len(t, page.Items[0].Meals, 1)
	assert.Equal(t, "CHICKEN", page.Items[0].Meals[0].Name)
	assert.Equal(t, "Showing 1 - 1 out of 1 items", page.Showing.En)

	rec, _ = s.do(t, httptest.NewRequest(http.MethodDelete, "/admin/offered-meals-menu/"+pkg.Package_id, nil), true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, s.items.Len())

	rec, body = s.do(t, httptest.NewRequest(http.MethodGet, "/offered-meals-menu/"+pkg.Package_id, nil), false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, body.Message.Ar)
}

func TestCreatePackageValidation(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/offered-meals-menu", strings.NewReader(`{"name":"K","price":-1}`))
	req.Header.Set("Content-Type", "application/json")
	rec, body := s.do(t, req, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, body.Status)
}

func TestCreatePackageJSON(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/offered-meals-menu", strings.NewReader(`{"name":"Vegan","lang":"ar","price":10,"tags":["Vegan"]}`))
	req.Header.Set("Content-Type", "application/json")
	rec, body := s.do(t, req, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, body.Status)
}

func TestAddMealWithBadImage(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/offered-meals-menu", strings.NewReader(`{"name":"Box","price":10}`))
	req.Header.Set("Content-Type", "application/json")
	rec, body := s.do(t, req, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	var pkg struct {
		Package_id string `json:"package_id"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &pkg))

	req = multipartRequest(t, http.MethodPost, "/admin/offered-meals-menu/"+pkg.Package_id+"/meals",
		map[string]string{"name": "Soup", "protein": "1", "carbs": "1", "fat": "1", "ingredients": "water", "heating_instructions": "boil"},
		map[string]string{"image": "notes.txt"})
	rec, body = s.do(t, req, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body.Message.En, "image")
	assert.Equal(t, 0, s.items.Len())
}

func TestAddMealToMissingPackage(t *testing.T) {
	s := newTestServer(t)

	req := multipartRequest(t, http.MethodPost, "/admin/offered-meals-menu/missing/meals",
		map[string]string{"name": "Soup", "protein": "1", "carbs": "1", "fat": "1", "ingredients": "water", "heating_instructions": "boil"},
		nil)
	rec, _ := s.do(t, req, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 0, s.items.Len())
}

func TestPublicListRejectsUnknownLang(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, httptest.NewRequest(http.MethodGet, "/offered-meals-menu?lang=fr", nil), false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPublicListHugePage(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(t, httptest.NewRequest(http.MethodGet, "/offered-meals-menu?page=1844674407370955161&limit=10", nil), false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, body.Status)
}
