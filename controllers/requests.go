package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/tamannaBithy/nutrition-coaching-server-sub001/assets"
)

const maxUploadMemory = 32 << 20

type createPackageRequest struct {
	Lang    string   `json:"lang" validate:"omitempty,oneof=en ar"`
	Name    string   `json:"name" validate:"required,min=2,max=100"`
	Tags    []string `json:"tags" validate:"omitempty,dive,max=50"`
	Price   *float64 `json:"price" validate:"required,gte=0"`
	Visible bool     `json:"visible"`
}

type updatePackageRequest struct {
	Lang    *string  `json:"lang" validate:"omitempty,oneof=en ar"`
	Name    *string  `json:"name" validate:"omitempty,min=2,max=100"`
	Tags    []string `json:"tags" validate:"omitempty,dive,max=50"`
	Price   *float64 `json:"price" validate:"omitempty,gte=0"`
	Visible *bool    `json:"visible"`
}

type createMealRequest struct {
	Name                string   `json:"name" validate:"required,min=2,max=100"`
	Protein             *float64 `json:"protein" validate:"required,gte=0"`
	Carbs               *float64 `json:"carbs" validate:"required,gte=0"`
	Fat                 *float64 `json:"fat" validate:"required,gte=0"`
	Ingredients         string   `json:"ingredients" validate:"required"`
	HeatingInstructions string   `json:"heating_instructions" validate:"required"`
}

type updateMealRequest struct {
	Name                *string  `json:"name" validate:"omitempty,min=2,max=100"`
	Protein             *float64 `json:"protein" validate:"omitempty,gte=0"`
	Carbs               *float64 `json:"carbs" validate:"omitempty,gte=0"`
	Fat                 *float64 `json:"fat" validate:"omitempty,gte=0"`
	Ingredients         *string  `json:"ingredients" validate:"omitempty,min=1"`
	HeatingInstructions *string  `json:"heating_instructions" validate:"omitempty,min=1"`
}

// form gives typed access to a parsed multipart or urlencoded body.
type form struct {
	values map[string][]string
	files  map[string][]*multipart.FileHeader
}

// parseBody reads the request body. JSON bodies decode into dst and carry no
// files; anything else is parsed as a form and returned for field mapping.
func parseBody(r *http.Request, dst interface{}) (*form, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return nil, fmt.Errorf("invalid request body: %w", err)
		}
		return &form{}, nil
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			return nil, fmt.Errorf("invalid form: %w", err)
		}
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("invalid form: %w", err)
		}
	}
	f := &form{values: r.PostForm}
	if r.MultipartForm != nil {
		f.values = r.MultipartForm.Value
		f.files = r.MultipartForm.File
	}
	return f, nil
}

// upload returns the file part sent under key, or nil. Only file parts are
// read, so a text value under the same key is ignored.
func (f *form) upload(key string) assets.Upload {
	if files := f.files[key]; len(files) > 0 {
		return assets.FromFileHeader(files[0])
	}
	return nil
}

func (f *form) text(key string) (*string, bool) {
	vs, ok := f.values[key]
	if !ok || len(vs) == 0 {
		return nil, false
	}
	v := strings.TrimSpace(vs[0])
	return &v, true
}

func (f *form) number(key string) (*float64, error) {
	s, ok := f.text(key)
	if !ok || *s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(*s, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &v, nil
}

func (f *form) boolean(key string) (*bool, error) {
	s, ok := f.text(key)
	if !ok || *s == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(*s)
	if err != nil {
		return nil, fmt.Errorf("%s must be a boolean", key)
	}
	return &v, nil
}

// tags accepts repeated fields (tags=a&tags=b) or one comma separated value.
func (f *form) tags(key string) []string {
	vs, ok := f.values[key]
	if !ok {
		vs, ok = f.values[key+"[]"]
	}
	if !ok {
		return nil
	}
	out := []string{}
	for _, v := range vs {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}

func (f *form) bindCreatePackage(req *createPackageRequest) error {
	if f.values == nil {
		return nil
	}
	if v, ok := f.text("lang"); ok {
		req.Lang = *v
	}
	if v, ok := f.text("name"); ok {
		req.Name = *v
	}
	req.Tags = f.tags("tags")
	price, err := f.number("price")
	if err != nil {
		return err
	}
	req.Price = price
	visible, err := f.boolean("visible")
	if err != nil {
		return err
	}
	if visible != nil {
		req.Visible = *visible
	}
	return nil
}

func (f *form) bindUpdatePackage(req *updatePackageRequest) error {
	if f.values == nil {
		return nil
	}
	req.Lang, _ = f.text("lang")
	req.Name, _ = f.text("name")
	req.Tags = f.tags("tags")
	var err error
	if req.Price, err = f.number("price"); err != nil {
		return err
	}
	if req.Visible, err = f.boolean("visible"); err != nil {
		return err
	}
	return nil
}

func (f *form) bindCreateMeal(req *createMealRequest) error {
	if f.values == nil {
		return nil
	}
	if v, ok := f.text("name"); ok {
		req.Name = *v
	}
	if v, ok := f.text("ingredients"); ok {
		req.Ingredients = *v
	}
	if v, ok := f.text("heating_instructions"); ok {
		req.HeatingInstructions = *v
	}
	var err error
	if req.Protein, err = f.number("protein"); err != nil {
		return err
	}
	if req.Carbs, err = f.number("carbs"); err != nil {
		return err
	}
	if req.Fat, err = f.number("fat"); err != nil {
		return err
	}
	return nil
}

func (f *form) bindUpdateMeal(req *updateMealRequest) error {
	if f.values == nil {
		return nil
	}
	req.Name, _ = f.text("name")
	req.Ingredients, _ = f.text("ingredients")
	req.HeatingInstructions, _ = f.text("heating_instructions")
	var err error
	if req.Protein, err = f.number("protein"); err != nil {
		return err
	}
	if req.Carbs, err = f.number("carbs"); err != nil {
		return err
	}
	if req.Fat, err = f.number("fat"); err != nil {
		return err
	}
	return nil
}

// pagination reads page and limit the same way for every listing.
func pagination(r *http.Request) (page, limit int) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = 10
	}

	page, err = strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	return page, limit
}
