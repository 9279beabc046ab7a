package controller

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formRequest(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestPagination(t *testing.T) {
	cases := []struct {
		query       string
		page, limit int
	}{
		{"", 1, 10},
		{"page=3&limit=5", 3, 5},
		{"page=-1&limit=0", 1, 10},
		{"page=abc&limit=xyz", 1, 10},
	}
	for _, tc := range cases {
		page, limit := pagination(httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil))
		assert.Equal(t, tc.page, page, tc.query)
		assert.Equal(t, tc.limit, limit, tc.query)
	}
}

func TestBindCreatePackageFromForm(t *testing.T) {
	var req createPackageRequest
	f, err := parseBody(formRequest(url.Values{
		"name":    {" Keto Box "},
		"price":   {"49.5"},
		"visible": {"true"},
		"tags":    {"keto,low carb", "protein"},
	}), &req)
	require.NoError(t, err)
	require.NoError(t, f.bindCreatePackage(&req))

	assert.Equal(t, "Keto Box", req.Name)
	require.NotNil(t, req.Price)
	assert.Equal(t, 49.5, *req.Price)
	assert.True(t, req.Visible)
	assert.Equal(t, []string{"keto", "low carb", "protein"}, req.Tags)
	assert.Nil(t, f.upload("package_image"))
}

func TestBindRejectsBadNumber(t *testing.T) {
	var req createMealRequest
	f, err := parseBody(formRequest(url.Values{"name": {"Soup"}, "protein": {"lots"}}), &req)
	require.NoError(t, err)

	err = f.bindCreateMeal(&req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "protein")
}

func TestBindUpdateLeavesAbsentFieldsNil(t *testing.T) {
	var req updateMealRequest
	f, err := parseBody(formRequest(url.Values{"fat": {"3"}}), &req)
	require.NoError(t, err)
	require.NoError(t, f.bindUpdateMeal(&req))

	assert.Nil(t, req.Name)
	assert.Nil(t, req.Protein)
	require.NotNil(t, req.Fat)
	assert.Equal(t, 3.0, *req.Fat)
}

func TestParseBodyJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"name":"Vegan","visible":false}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	var body updatePackageRequest
	f, err := parseBody(req, &body)
	require.NoError(t, err)
	require.NoError(t, f.bindUpdatePackage(&body))

	require.NotNil(t, body.Name)
	assert.Equal(t, "Vegan", *body.Name)
	require.NotNil(t, body.Visible)
	assert.False(t, *body.Visible)
	assert.Nil(t, body.Price)
}

func TestParseBodyInvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")

	_, err := parseBody(req, &createPackageRequest{})
	assert.Error(t, err)
}
