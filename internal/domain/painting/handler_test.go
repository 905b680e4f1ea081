package painting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"peterpainter/internal/database"
	"peterpainter/internal/domain/upload"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect("sqlite", filepath.Join(t.TempDir(), "paintings.db"), "silent")
	require.NoError(t, err, "failed to open sqlite db")
	require.NoError(t, database.Migrate(db, &Painting{}))
	t.Cleanup(func() { _ = database.Close(db) })

	dir := t.TempDir()
	store, err := upload.NewDiskStore(dir)
	require.NoError(t, err)

	h := NewHandler(NewService(NewRepository(db), store), 1<<20)
	r := gin.New()
	h.RegisterRoutes(r)
	upload.RegisterRoutes(r, upload.NewHandler(store))
	return r, db, dir
}

type formFileField struct {
	name    string
	content []byte
}

func doMultipart(r http.Handler, fields map[string]string, file *formFileField) *httptest.ResponseRecorder {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	if file != nil {
		part, _ := w.CreateFormFile("image", file.name)
		_, _ = part.Write(file.content)
	}
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func getPaintings(t *testing.T, r http.Handler) []Painting {
	t.Helper()
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/paintings", nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var paintings []Painting
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &paintings))
	return paintings
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), rr.Body.String())
	return body
}

func TestListPaintings_EmptyStore(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/paintings", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestUpload_SunsetScenario(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	rr := doMultipart(r, map[string]string{
		"title":       "Sunset",
		"price":       "500",
		"currency":    "USD",
		"description": "Oil on canvas",
	}, &formFileField{name: "sunset.jpg", content: jpegBytes})

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"message":"Painting uploaded successfully"}`, rr.Body.String())

	paintings := getPaintings(t, r)
	require.Len(t, paintings, 1)
	first := paintings[0]
	assert.Equal(t, "Sunset", first.Title)
	assert.Equal(t, 500.0, first.Price)
	assert.Equal(t, "USD", first.Currency)
	assert.Equal(t, "Oil on canvas", first.Description)
	assert.True(t, strings.HasPrefix(first.ImagePath, "/uploads/"))
	assert.True(t, strings.HasSuffix(first.ImagePath, ".jpg"))

	// The stored image is served byte-for-byte at image_path.
	img := httptest.NewRecorder()
	r.ServeHTTP(img, httptest.NewRequest(http.MethodGet, first.ImagePath, nil))
	require.Equal(t, http.StatusOK, img.Code)
	assert.Equal(t, jpegBytes, img.Body.Bytes())
}

func TestUpload_ListingJSONShape(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	rr := doMultipart(r, map[string]string{"title": "Sunset", "price": "500"},
		&formFileField{name: "sunset.jpg", content: jpegBytes})
	require.Equal(t, http.StatusOK, rr.Code)

	list := httptest.NewRecorder()
	r.ServeHTTP(list, httptest.NewRequest(http.MethodGet, "/paintings", nil))

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &raw))
	require.Len(t, raw, 1)
	for _, key := range []string{"id", "title", "price", "currency", "description", "image_path"} {
		assert.Contains(t, raw[0], key)
	}
	assert.Equal(t, float64(500), raw[0]["price"])
	assert.Equal(t, "KES", raw[0]["currency"])
}

func TestUpload_MissingFields(t *testing.T) {
	cases := []struct {
		name   string
		fields map[string]string
		file   *formFileField
	}{
		{name: "no title", fields: map[string]string{"price": "500"}, file: &formFileField{name: "a.jpg", content: jpegBytes}},
		{name: "no price", fields: map[string]string{"title": "Sunset"}, file: &formFileField{name: "a.jpg", content: jpegBytes}},
		{name: "no image", fields: map[string]string{"title": "Sunset", "price": "500"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, db, _ := setupTestRouter(t)

			rr := doMultipart(r, tc.fields, tc.file)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.JSONEq(t, `{"message":"Missing required fields: title, price, or image"}`, rr.Body.String())

			var count int64
			require.NoError(t, db.Model(&Painting{}).Count(&count).Error)
			assert.Zero(t, count)
		})
	}
}

func TestUpload_NotMultipart(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(`{"title":"Sunset","price":500}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Missing required fields: title, price, or image", decodeBody(t, rr)["message"])
}

func TestUpload_InvalidPrice(t *testing.T) {
	r, _, dir := setupTestRouter(t)

	rr := doMultipart(r, map[string]string{"title": "Sunset", "price": "cheap"},
		&formFileField{name: "a.jpg", content: jpegBytes})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid price", decodeBody(t, rr)["message"])
	matches, _ := filepath.Glob(filepath.Join(dir, "*"))
	assert.Empty(t, matches)
}

func TestUpload_EmptyImage(t *testing.T) {
	r, _, dir := setupTestRouter(t)

	rr := doMultipart(r, map[string]string{"title": "x", "price": "500"},
		&formFileField{name: "empty.jpg", content: nil})

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	paintings := getPaintings(t, r)
	require.Len(t, paintings, 1)
	matches, _ := filepath.Glob(filepath.Join(dir, "*.jpg"))
	assert.Len(t, matches, 1)

	img := httptest.NewRecorder()
	r.ServeHTTP(img, httptest.NewRequest(http.MethodGet, paintings[0].ImagePath, nil))
	assert.Equal(t, http.StatusOK, img.Code)
	assert.Empty(t, img.Body.Bytes())
}

func TestUpload_PriceNotation(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	for _, price := range []string{".5", "1e3"} {
		rr := doMultipart(r, map[string]string{"title": "Study " + price, "price": price},
			&formFileField{name: "a.jpg", content: jpegBytes})
		require.Equal(t, http.StatusOK, rr.Code, price)
	}

	paintings := getPaintings(t, r)
	require.Len(t, paintings, 2)
	assert.Equal(t, 1000.0, paintings[0].Price)
	assert.Equal(t, 0.5, paintings[1].Price)
}

func TestUpload_StoreFailure(t *testing.T) {
	r, db, _ := setupTestRouter(t)
	require.NoError(t, db.Migrator().DropTable(&Painting{}))

	rr := doMultipart(r, map[string]string{"title": "Sunset", "price": "500"},
		&formFileField{name: "a.jpg", content: jpegBytes})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "Database insert failed", body["message"])
	assert.Equal(t, "internal error", body["error"])
	assert.NotContains(t, rr.Body.String(), "paintings", "raw store error must not leak")
}

func TestListPaintings_StoreFailure(t *testing.T) {
	r, db, _ := setupTestRouter(t)
	require.NoError(t, db.Migrator().DropTable(&Painting{}))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/paintings", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"message":"Failed to fetch paintings"}`, rr.Body.String())
}

func TestListPaintings_NewestFirst(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	const n = 4
	for i := 1; i <= n; i++ {
		rr := doMultipart(r, map[string]string{
			"title": fmt.Sprintf("Painting %d", i),
			"price": fmt.Sprintf("%d", i*100),
		}, &formFileField{name: "same-name.jpg", content: jpegBytes})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	}

	paintings := getPaintings(t, r)
	require.Len(t, paintings, n)

	seen := map[string]bool{}
	for i, p := range paintings {
		assert.Equal(t, fmt.Sprintf("Painting %d", n-i), p.Title)
		if i > 0 {
			assert.Greater(t, paintings[i-1].ID, p.ID)
		}
		assert.False(t, seen[p.ImagePath], "image paths must be unique")
		seen[p.ImagePath] = true
	}
}
