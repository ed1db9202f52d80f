package validation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/go-wardrobe-api/internal/items"
)

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func validCreate() CreateItemRequest {
	return CreateItemRequest{
		Category:      "tops",
		Colour:        "blue",
		UserID:        "user-123",
		Brand:         "Brooks Brothers",
		Size:          "M",
		ImageURL:      "https://example.com/shirt.jpg",
		PurchaseDate:  "2024-01-15",
		PurchasePrice: floatPtr(89.99),
	}
}

func TestCreateItemRequest_Valid(t *testing.T) {
	v := New()

	req := validCreate()
	require.NoError(t, v.Struct(req))

	req.PurchasePrice = floatPtr(0)
	req.PurchaseDate = "2024-01-15T10:30:00+02:00"
	require.NoError(t, v.Struct(req))
}

func TestCreateItemRequest_Invalid(t *testing.T) {
	v := New()

	tests := []struct {
		name   string
		mutate func(r *CreateItemRequest)
		field  string
	}{
		{"unknown category", func(r *CreateItemRequest) { r.Category = "hats" }, "category"},
		{"missing colour", func(r *CreateItemRequest) { r.Colour = "" }, "colour"},
		{"bad url", func(r *CreateItemRequest) { r.ImageURL = "not a url" }, "image_url"},
		{"bad date", func(r *CreateItemRequest) { r.PurchaseDate = "15/01/2024" }, "purchase_date"},
		{"negative price", func(r *CreateItemRequest) { r.PurchasePrice = floatPtr(-1) }, "purchase_price"},
		{"missing price", func(r *CreateItemRequest) { r.PurchasePrice = nil }, "purchase_price"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreate()
			tt.mutate(&req)
			err := v.Struct(req)
			require.Error(t, err)
			assert.Contains(t, validationErrorsToMap(err), tt.field)
		})
	}
}

func TestUpdateItemRequest(t *testing.T) {
	v := New()

	require.NoError(t, v.Struct(UpdateItemRequest{}))
	require.NoError(t, v.Struct(UpdateItemRequest{PurchasePrice: floatPtr(0), Brand: strPtr("")}))

	assert.Error(t, v.Struct(UpdateItemRequest{Category: strPtr("hats")}))
	assert.Error(t, v.Struct(UpdateItemRequest{ImageURL: strPtr("")}))
	assert.Error(t, v.Struct(UpdateItemRequest{PurchaseDate: strPtr("yesterday")}))
	assert.Error(t, v.Struct(UpdateItemRequest{PurchasePrice: floatPtr(-0.01)}))
}

func TestUpdateItemRequest_ToPatchKeepsPresence(t *testing.T) {
	var req UpdateItemRequest
	require.NoError(t, json.Unmarshal([]byte(`{"purchase_price": 0, "category": "shoes"}`), &req))

	p, err := req.ToPatch()
	require.NoError(t, err)
	require.NotNil(t, p.PurchasePrice)
	assert.Equal(t, 0.0, *p.PurchasePrice)
	require.NotNil(t, p.Category)
	assert.Equal(t, items.CategoryShoes, *p.Category)
	assert.Nil(t, p.Colour)
	assert.Nil(t, p.PurchaseDate)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2024-01-15T01:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 14, 23, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("2024-13-01")
	assert.Error(t, err)
}

func TestListItemsQuery(t *testing.T) {
	v := New()

	require.NoError(t, v.Struct(ListItemsQuery{}))
	require.NoError(t, v.Struct(ListItemsQuery{SortBy: "brand", SortOrder: "asc", Category: "shoes"}))

	neg := -1
	assert.Error(t, v.Struct(ListItemsQuery{Limit: &neg}))
	assert.Error(t, v.Struct(ListItemsQuery{Offset: &neg}))
	assert.Error(t, v.Struct(ListItemsQuery{SortBy: "colour"}))
	assert.Error(t, v.Struct(ListItemsQuery{SortOrder: "up"}))

	q := ListItemsQuery{UserID: "u", Category: "tops"}.ToQuery()
	assert.Equal(t, items.Query{UserID: "u", Category: items.CategoryTops}, q)
}

func TestBindAndValidate_WritesErrorBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v := New()

	tests := []struct {
		name string
		body string
		code string
	}{
		{"malformed json", `{"category":`, "invalid_request_body"},
		{"invalid fields", `{"category":"hats"}`, "validation_failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var req CreateItemRequest
			require.Error(t, BindAndValidate(c, &req, v))
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body["error"])
			assert.Equal(t, "/items", body["path"])
		})
	}
}

func TestBindQueryAndValidate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v := New()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/items?limit=0&sort_by=brand", nil)

	var q ListItemsQuery
	require.NoError(t, BindQueryAndValidate(c, &q, v))
	require.NotNil(t, q.Limit)
	assert.Equal(t, 0, *q.Limit)
	assert.Nil(t, q.Offset)

	for _, raw := range []string{"limit=abc", "offset=-2", "sort_order=sideways"} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/items?"+raw, nil)

		var q ListItemsQuery
		assert.Error(t, BindQueryAndValidate(c, &q, v), raw)
		assert.Equal(t, http.StatusBadRequest, w.Code, raw)
		assert.Contains(t, w.Body.String(), `"invalid_query"`, raw)
	}
}
